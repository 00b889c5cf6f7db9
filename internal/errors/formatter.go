package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/tangzhangming/jasm/internal/i18n"
)

// ============================================================================
// 格式化器
// ============================================================================

// Formatter 错误格式化器，输出 rustc 风格的诊断
type Formatter struct {
	Colors     bool // 是否使用颜色
	ShowSource bool // 是否显示源代码
	ShowHints  bool // 是否显示修复建议
	MaxContext int  // 错误行之前显示的上下文行数
	TabWidth   int  // Tab 宽度
}

// NewFormatter 创建默认格式化器
func NewFormatter() *Formatter {
	return &Formatter{
		Colors:     ColorsEnabled(),
		ShowSource: true,
		ShowHints:  true,
		MaxContext: 1,
		TabWidth:   4,
	}
}

// FormatCompileError 格式化编译错误
//
//	error[E0103]: undefined label "Loop"
//	 --> Hello.j:7:10
//	  |
//	6 |     iload_1
//	7 |     goto Loop
//	  |          ^^^^
//	 = help: define the label inside the same method
func (f *Formatter) FormatCompileError(err *CompileError, sourceLines []string) string {
	var sb strings.Builder

	// 错误头: error[E0103]: 未定义的标签
	levelColor := f.levelColor(err.Level)
	header := err.Level.String()
	if err.Code != "" {
		header += "[" + err.Code + "]"
	}
	sb.WriteString(f.colorize(header, levelColor))
	sb.WriteString(": " + err.Message + "\n")

	// 位置: --> Hello.j:7:10
	if err.File != "" {
		location := err.File
		if err.Line > 0 {
			location = fmt.Sprintf("%s:%d:%d", err.File, err.Line, err.Column)
		}
		fmt.Fprintf(&sb, " %s %s\n", f.colorize("-->", colorGutter), f.colorize(location, colorPath))
	}

	// 显示源代码
	if f.ShowSource && err.Line > 0 && err.Line <= len(sourceLines) {
		sb.WriteString(f.formatSourceContext(sourceLines, err.Line, err.Column, err.EndColumn, err.Labels))
	}

	// 方法与偏移
	if loc := err.location(); loc != "" {
		fmt.Fprintf(&sb, "%s %s\n", f.colorize(" = in:", colorGutter), loc)
	}

	// 修复建议
	if f.ShowHints {
		for _, hint := range err.Hints {
			fmt.Fprintf(&sb, "%s %s\n", f.colorize(" = help:", colorHelp), hint)
		}
	}

	// 附加说明
	for _, note := range err.Notes {
		fmt.Fprintf(&sb, "%s %s\n", f.colorize(" = note:", colorNote), note)
	}
	if err.Err != nil {
		fmt.Fprintf(&sb, "%s %v\n", f.colorize(" = cause:", colorNote), err.Err)
	}

	return sb.String()
}

// formatSourceContext 格式化源代码上下文
func (f *Formatter) formatSourceContext(lines []string, errorLine, startCol, endCol int, labels []Label) string {
	var sb strings.Builder

	first := errorLine - f.MaxContext
	if first < 1 {
		first = 1
	}
	gutterWidth := len(fmt.Sprintf("%d", errorLine))
	for _, label := range labels {
		if w := len(fmt.Sprintf("%d", label.Line)); w > gutterWidth {
			gutterWidth = w
		}
	}
	pipe := f.colorize(strings.Repeat(" ", gutterWidth)+" |", colorGutter)

	sb.WriteString(pipe + "\n")

	// 上下文行与错误行
	for n := first; n <= errorLine; n++ {
		sb.WriteString(f.sourceLine(lines[n-1], n, gutterWidth))
	}

	// 错误标注
	if startCol > 0 {
		length := endCol - startCol
		if length < 1 {
			length = 1
		}
		pad := f.calculateActualColumn(lines[errorLine-1], startCol)
		fmt.Fprintf(&sb, "%s %s%s\n", pipe, strings.Repeat(" ", pad), f.colorize(strings.Repeat("^", length), colorMark))
	}

	// 其他标签（例如重复标签的首次定义）
	for _, label := range labels {
		if label.Line == errorLine || label.Line <= 0 || label.Line > len(lines) {
			continue
		}
		line := lines[label.Line-1]
		sb.WriteString(f.sourceLine(line, label.Line, gutterWidth))
		length := label.Length
		if length < 1 {
			length = 1
		}
		mark := strings.Repeat("-", length)
		if label.Message != "" {
			mark += " " + label.Message
		}
		pad := f.calculateActualColumn(line, label.Column)
		fmt.Fprintf(&sb, "%s %s%s\n", pipe, strings.Repeat(" ", pad), f.colorize(mark, colorLabel))
	}

	return sb.String()
}

// sourceLine 输出带行号的源代码行
func (f *Formatter) sourceLine(line string, number, gutterWidth int) string {
	num := f.colorize(fmt.Sprintf("%*d |", gutterWidth, number), colorGutter)
	return num + " " + f.expandTabs(line) + "\n"
}

// expandTabs 展开 Tab 为空格
func (f *Formatter) expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", f.TabWidth))
}

// calculateActualColumn 计算标注前的空格数（考虑 Tab）
func (f *Formatter) calculateActualColumn(line string, col int) int {
	if col <= 0 {
		return 0
	}
	actual := 0
	for i := 0; i < col-1 && i < len(line); i++ {
		if line[i] == '\t' {
			actual += f.TabWidth
		} else {
			actual++
		}
	}
	return actual
}

// levelColor 获取错误级别对应的颜色
func (f *Formatter) levelColor(level Level) *color.Color {
	switch level {
	case LevelWarning:
		return colorWarning
	case LevelNote:
		return colorNote
	case LevelHelp:
		return colorHelp
	default:
		return colorError
	}
}

// colorize 着色字符串
func (f *Formatter) colorize(s string, c *color.Color) string {
	if !f.Colors {
		return s
	}
	// 格式化器的开关优先于全局检测，输出到文件时也可强制着色
	forced := *c
	forced.EnableColor()
	return forced.Sprint(s)
}

// ============================================================================
// 简便方法
// ============================================================================

// FormatCompileErrors 格式化多个编译错误
func (f *Formatter) FormatCompileErrors(errs []*CompileError, sourceCache map[string][]string) string {
	var sb strings.Builder

	for i, err := range errs {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(f.FormatCompileError(err, sourceCache[err.File]))
	}

	if len(errs) > 0 {
		sb.WriteString("\n")
		sb.WriteString(f.colorize(i18n.T(i18n.MsgErrorCount, len(errs)), colorError) + "\n")
	}

	return sb.String()
}

// Format 使用默认设置格式化编译错误
func Format(err *CompileError, sourceLines []string) string {
	return NewFormatter().FormatCompileError(err, sourceLines)
}
