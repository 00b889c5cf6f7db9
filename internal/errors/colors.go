package errors

import (
	"regexp"

	"github.com/fatih/color"
)

// 诊断输出使用的调色板
var (
	colorError   = color.New(color.FgRed, color.Bold)
	colorWarning = color.New(color.FgYellow, color.Bold)
	colorNote    = color.New(color.FgCyan, color.Bold)
	colorHelp    = color.New(color.FgGreen, color.Bold)
	colorGutter  = color.New(color.FgBlue, color.Bold)
	colorPath    = color.New(color.FgCyan)
	colorMark    = color.New(color.FgRed, color.Bold)
	colorLabel   = color.New(color.FgYellow)
)

// ColorsEnabled 报告终端是否支持颜色（尊重 NO_COLOR 与非 tty 输出）
func ColorsEnabled() bool {
	return !color.NoColor
}

// SetColorsEnabled 全局开关颜色输出
func SetColorsEnabled(enabled bool) {
	color.NoColor = !enabled
}

var ansiPattern = regexp.MustCompile("\x1b\\[[0-9;]*m")

// Strip 去除字符串中的 ANSI 颜色码
func Strip(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}
