package errors

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/multierr"

	"github.com/tangzhangming/jasm/internal/i18n"
)

// ============================================================================
// 错误报告器
// ============================================================================

// Reporter 错误报告器
//
// 并发安全：构建器的多个工作协程可以同时报告错误。
type Reporter struct {
	mu          sync.Mutex
	out         io.Writer
	formatter   *Formatter
	sourceCache map[string][]string // 源代码缓存
	errors      []*CompileError
	warnings    []*CompileError
}

// NewReporter 创建错误报告器
func NewReporter(out io.Writer) *Reporter {
	return &Reporter{
		out:         out,
		formatter:   NewFormatter(),
		sourceCache: make(map[string][]string),
	}
}

// SetFormatter 设置格式化器
func (r *Reporter) SetFormatter(f *Formatter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.formatter = f
}

// LoadSource 加载源文件
func (r *Reporter) LoadSource(filename string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadSourceLocked(filename)
}

func (r *Reporter) loadSourceLocked(filename string) error {
	if _, ok := r.sourceCache[filename]; ok || filename == "" {
		return nil
	}

	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	r.sourceCache[filename] = lines
	return nil
}

// SetSource 设置源代码（用于测试或内存中的源代码）
func (r *Reporter) SetSource(filename string, content string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sourceCache[filename] = strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
}

// GetSourceLines 获取源代码行数组
func (r *Reporter) GetSourceLines(filename string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sourceCache[filename]
}

// ============================================================================
// 报告错误
// ============================================================================

// Report 报告任意错误，多个错误合并而成的 error 会被逐个展开
func (r *Reporter) Report(err error) {
	for _, e := range multierr.Errors(err) {
		if ce, ok := As(e); ok {
			r.ReportError(ce)
			continue
		}
		r.mu.Lock()
		fmt.Fprintf(r.out, "%s: %v\n", r.formatter.colorize(LevelError.String(), colorError), e)
		r.errors = append(r.errors, &CompileError{Level: LevelError, Message: e.Error(), Offset: -1})
		r.mu.Unlock()
	}
}

// ReportError 报告编译错误
func (r *Reporter) ReportError(err *CompileError) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// 源文件可能已不可读，此时只输出位置
	_ = r.loadSourceLocked(err.File)

	if len(err.Hints) == 0 {
		err.Hints = GetSuggestions(err.Code)
	}
	r.errors = append(r.errors, err)
	fmt.Fprint(r.out, r.formatter.FormatCompileError(err, r.sourceCache[err.File]))
}

// ReportWarning 报告警告
func (r *Reporter) ReportWarning(err *CompileError) {
	r.mu.Lock()
	defer r.mu.Unlock()

	err.Level = LevelWarning
	_ = r.loadSourceLocked(err.File)
	r.warnings = append(r.warnings, err)
	fmt.Fprint(r.out, r.formatter.FormatCompileError(err, r.sourceCache[err.File]))
}

// Summary 输出错误计数
func (r *Reporter) Summary() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.errors) > 0 {
		fmt.Fprintln(r.out, r.formatter.colorize(i18n.T(i18n.MsgErrorCount, len(r.errors)), colorError))
	}
}

// HasErrors 是否有错误
func (r *Reporter) HasErrors() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.errors) > 0
}

// ErrorCount 错误数量
func (r *Reporter) ErrorCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.errors)
}

// WarningCount 警告数量
func (r *Reporter) WarningCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.warnings)
}

// Errors 已报告的错误
func (r *Reporter) Errors() []*CompileError {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*CompileError(nil), r.errors...)
}

// Clear 清空已报告的错误和警告
func (r *Reporter) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = nil
	r.warnings = nil
}
