package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/tangzhangming/jasm/internal/classfile"
	"github.com/tangzhangming/jasm/internal/compiler"
	jerrors "github.com/tangzhangming/jasm/internal/errors"
	"github.com/tangzhangming/jasm/internal/i18n"
	"github.com/tangzhangming/jasm/internal/verifier"
)

// ============================================================================
// check
// ============================================================================

func newCheckCmd(opts *globalOptions) *cobra.Command {
	var encoding string
	var noVerify bool

	cmd := &cobra.Command{
		Use:   "check <file.j>...",
		Short: i18n.T(i18n.CmdCheck),
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v := verifier.New()
			if noVerify {
				v = verifier.Skip
			}

			var errs error
			for _, filename := range args {
				out, err := checkFile(filename, compiler.Options{Encoding: encoding, Verifier: v})
				if err != nil {
					errs = multierr.Append(errs, err)
					continue
				}
				fmt.Fprintln(cmd.OutOrStdout(), i18n.T(i18n.MsgCheckOK, filename, out.Unit.Class.DottedName()))
			}
			if errs != nil {
				return reportFailure(cmd, errs)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&encoding, "encoding", "", i18n.T(i18n.OptEncoding))
	cmd.Flags().BoolVar(&noVerify, "no-verify", false, i18n.T(i18n.OptNoVerify))
	return cmd
}

// checkFile 完整编译一个源文件但不写出结果
func checkFile(filename string, opts compiler.Options) (*compiler.Output, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, jerrors.Wrap(jerrors.E0500, err, i18n.T(i18n.ErrReadFile, filename)).At(filename, 0, 0)
	}
	return compiler.Compile(src, filename, opts)
}

// ============================================================================
// tokens
// ============================================================================

func newTokensCmd() *cobra.Command {
	var encoding string

	cmd := &cobra.Command{
		Use:   "tokens <file.j>",
		Short: i18n.T(i18n.CmdTokens),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			src, err := os.ReadFile(filename)
			if err != nil {
				return reportFailure(cmd, jerrors.Wrap(jerrors.E0500, err, i18n.T(i18n.ErrReadFile, filename)).At(filename, 0, 0))
			}
			tokens, err := compiler.Tokenize(src, filename, encoding)
			if err != nil {
				return reportFailure(cmd, err)
			}

			out := cmd.OutOrStdout()
			for _, tok := range tokens {
				fmt.Fprintf(out, "  %s\n", tok)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&encoding, "encoding", "", i18n.T(i18n.OptEncoding))
	return cmd
}

// ============================================================================
// dump
// ============================================================================

func newDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump <file.class>",
		Short: i18n.T(i18n.CmdDump),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			data, err := os.ReadFile(filename)
			if err != nil {
				return reportFailure(cmd, jerrors.Wrap(jerrors.E0500, err, i18n.T(i18n.ErrReadFile, filename)).At(filename, 0, 0))
			}
			cf, err := classfile.Parse(data)
			if err != nil {
				return fmt.Errorf("%s: %w", filename, err)
			}
			return classfile.Disassemble(cmd.OutOrStdout(), cf)
		},
	}
}
