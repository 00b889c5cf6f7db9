package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	jerrors "github.com/tangzhangming/jasm/internal/errors"
	"github.com/tangzhangming/jasm/internal/i18n"
)

const (
	Version = "0.1.0"
)

// errFailed 诊断已经输出，只需要以非零状态退出
var errFailed = errors.New("jasm: failed")

func main() {
	// --lang 必须在构建命令之前生效，命令说明才会使用对应语言
	args, lang := preprocessArgs(os.Args[1:])
	InitLanguage(lang)

	root := newRootCmd()
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// preprocessArgs 提取全局 --lang 参数，其余参数原样返回
func preprocessArgs(args []string) (rest []string, lang string) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--lang" || arg == "-lang":
			if i+1 < len(args) {
				lang = args[i+1]
				i++
				continue
			}
		case strings.HasPrefix(arg, "--lang="):
			lang = strings.TrimPrefix(arg, "--lang=")
			continue
		case strings.HasPrefix(arg, "-lang="):
			lang = strings.TrimPrefix(arg, "-lang=")
			continue
		}
		rest = append(rest, arg)
	}
	return rest, lang
}

// globalOptions 所有子命令共享的参数
type globalOptions struct {
	lang    string
	noColor bool
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:           "jasm",
		Short:         i18n.T(i18n.CmdRoot),
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.lang != "" {
				InitLanguage(opts.lang)
			}
			if opts.noColor {
				jerrors.SetColorsEnabled(false)
			}
		},
	}

	flags := root.PersistentFlags()
	// 已由 preprocessArgs 处理，这里只为出现在帮助信息中
	flags.StringVar(&opts.lang, "lang", "", i18n.T(i18n.OptLang))
	flags.BoolVar(&opts.noColor, "no-color", false, i18n.T(i18n.OptNoColor))
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, i18n.T(i18n.OptVerbose))

	root.AddCommand(
		newBuildCmd(opts),
		newCheckCmd(opts),
		newTokensCmd(),
		newDumpCmd(),
		newLSPCmd(opts),
		newInitCmd(),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: i18n.T(i18n.CmdVersion),
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "jasm %s\n", Version)
		},
	}
}

// newLogger 创建命令使用的日志器，--verbose 时输出调试级别的开发格式日志
func (o *globalOptions) newLogger(out io.Writer) *zap.Logger {
	level := zap.InfoLevel
	encoderConfig := zap.NewProductionEncoderConfig()
	if o.verbose {
		level = zap.DebugLevel
		encoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(out),
		level,
	)
	return zap.New(core)
}
