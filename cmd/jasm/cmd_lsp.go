package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/tangzhangming/jasm/internal/i18n"
	"github.com/tangzhangming/jasm/internal/lsp"
)

func newLSPCmd(opts *globalOptions) *cobra.Command {
	var logFile string
	var noVerify bool

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: i18n.T(i18n.CmdLSP),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// stdout 是协议通道，日志只能写到 stderr 或文件
			var logOut io.Writer = os.Stderr
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
				if err != nil {
					return err
				}
				defer f.Close()
				logOut = f
			}
			logger := opts.newLogger(logOut)
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.Info("starting language server", zap.String("version", Version))
			server := lsp.NewServer(logger, lsp.Options{Verify: !noVerify, Version: Version})
			return server.Serve(ctx, stdio{})
		},
	}

	cmd.Flags().StringVar(&logFile, "log-file", "", i18n.T(i18n.OptLogFile))
	cmd.Flags().BoolVar(&noVerify, "no-verify", false, i18n.T(i18n.OptNoVerify))
	return cmd
}

// stdio 把标准输入输出组合成语言服务的连接
type stdio struct{}

func (stdio) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdio) Write(p []byte) (int, error) { return os.Stdout.Write(p) }

func (stdio) Close() error {
	return multierr.Append(os.Stdin.Close(), os.Stdout.Close())
}
