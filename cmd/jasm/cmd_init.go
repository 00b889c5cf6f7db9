package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tangzhangming/jasm/internal/i18n"
	"github.com/tangzhangming/jasm/internal/project"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [dir]",
		Short: i18n.T(i18n.CmdInit),
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return initProject(cmd, dir)
		},
	}
}

// initProject 在 dir 中创建默认配置和源码目录，已有配置时报错
func initProject(cmd *cobra.Command, dir string) error {
	out := cmd.OutOrStdout()

	configPath := filepath.Join(dir, project.ConfigFileName)
	if _, err := os.Stat(configPath); err == nil {
		fmt.Fprintln(cmd.ErrOrStderr(), i18n.T(i18n.MsgConfigExists, project.ConfigFileName))
		return errFailed
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	if err := project.Default().Save(configPath); err != nil {
		return err
	}
	fmt.Fprintln(out, i18n.T(i18n.MsgConfigCreated, project.ConfigFileName))

	srcDir := filepath.Join(dir, filepath.FromSlash(project.DefaultSourceDir))
	if _, err := os.Stat(srcDir); os.IsNotExist(err) {
		if err := os.MkdirAll(srcDir, 0755); err != nil {
			return err
		}
		fmt.Fprintln(out, i18n.T(i18n.MsgConfigCreated, project.DefaultSourceDir+"/"))
	}
	return nil
}
