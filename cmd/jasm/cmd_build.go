package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tangzhangming/jasm/internal/builder"
	jerrors "github.com/tangzhangming/jasm/internal/errors"
	"github.com/tangzhangming/jasm/internal/i18n"
	"github.com/tangzhangming/jasm/internal/project"
)

// buildFlags build 命令的参数，覆盖 jasmin.toml 中的对应项
type buildFlags struct {
	output     string
	sourceDirs []string
	encoding   string
	noVerify   bool
	workers    int
	keepGoing  bool
	report     string
}

func newBuildCmd(opts *globalOptions) *cobra.Command {
	f := &buildFlags{}

	cmd := &cobra.Command{
		Use:   "build [file.j...]",
		Short: i18n.T(i18n.CmdBuild),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, opts, f, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.output, "output", "o", "", i18n.T(i18n.OptOutput))
	flags.StringArrayVarP(&f.sourceDirs, "source-dir", "s", nil, i18n.T(i18n.OptSourceDir))
	flags.StringVar(&f.encoding, "encoding", "", i18n.T(i18n.OptEncoding))
	flags.BoolVar(&f.noVerify, "no-verify", false, i18n.T(i18n.OptNoVerify))
	flags.IntVarP(&f.workers, "workers", "j", 0, i18n.T(i18n.OptWorkers))
	flags.BoolVarP(&f.keepGoing, "keep-going", "k", false, i18n.T(i18n.OptKeepGoing))
	flags.StringVar(&f.report, "report", "", i18n.T(i18n.OptReport))
	return cmd
}

// loadBuildConfig 从工作目录向上查找配置，再应用命令行参数
func loadBuildConfig(cmd *cobra.Command, f *buildFlags) (project.BuildConfig, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return project.BuildConfig{}, err
	}
	config, _, err := project.Load(cwd)
	if err != nil {
		return project.BuildConfig{}, err
	}
	cfg := config.Build

	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.OutputDir = absPath(f.output)
	}
	if flags.Changed("source-dir") {
		cfg.SourceDirs = nil
		for _, dir := range f.sourceDirs {
			cfg.SourceDirs = append(cfg.SourceDirs, absPath(dir))
		}
	}
	if flags.Changed("encoding") {
		cfg.Encoding = f.encoding
	}
	if flags.Changed("no-verify") {
		cfg.Verify = !f.noVerify
	}
	if flags.Changed("workers") {
		if f.workers < 0 {
			return cfg, fmt.Errorf("workers must not be negative: %d", f.workers)
		}
		cfg.Workers = f.workers
	}
	if flags.Changed("keep-going") {
		cfg.KeepGoing = f.keepGoing
	}
	if flags.Changed("report") {
		cfg.Report = absPath(f.report)
	}
	return cfg, nil
}

func runBuild(cmd *cobra.Command, opts *globalOptions, f *buildFlags, args []string) error {
	cfg, err := loadBuildConfig(cmd, f)
	if err != nil {
		return err
	}

	logger := opts.newLogger(cmd.ErrOrStderr())
	defer func() { _ = logger.Sync() }()

	var sources []project.Source
	if len(args) > 0 {
		for _, arg := range args {
			sources = append(sources, project.NewSource(cfg.SourceDirs, absPath(arg)))
		}
	} else {
		sources, err = project.CollectSources(cfg.SourceDirs)
		if err != nil {
			return reportFailure(cmd, err)
		}
	}
	if len(sources) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), i18n.T(i18n.MsgNoSources))
		return nil
	}

	logger.Debug("starting build",
		zap.Int("sources", len(sources)),
		zap.Strings("roots", cfg.SourceDirs),
		zap.String("output", cfg.OutputDir),
		zap.Int("workers", cfg.WorkerCount()))

	report, buildErr := builder.New(cfg, logger).BuildSources(context.Background(), sources)

	if cfg.Report != "" && report != nil {
		if err := builder.WriteReport(report, cfg.Report); err != nil {
			return reportFailure(cmd, err)
		}
		logger.Info(i18n.T(i18n.MsgReportWritten, cfg.Report))
	}

	if buildErr != nil {
		return reportFailure(cmd, buildErr)
	}
	return nil
}

// reportFailure 以诊断格式输出错误，返回 errFailed 让进程以非零状态退出
func reportFailure(cmd *cobra.Command, err error) error {
	reporter := jerrors.NewReporter(cmd.ErrOrStderr())
	reporter.Report(err)
	reporter.Summary()
	return errFailed
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
