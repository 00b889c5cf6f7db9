package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ============================================================================
// 错误标签
// ============================================================================

// Label 代码标签（用于标注错误位置）
type Label struct {
	Line    int    // 行号（1-based）
	Column  int    // 列号（1-based）
	Length  int    // 标注长度
	Message string // 标签消息
	Primary bool   // 是否为主要标签
}

// ============================================================================
// 编译错误
// ============================================================================

// CompileError 汇编流水线中任一阶段产生的错误
//
// Line/Column 指向源码位置；Method/Offset/CPIndex 用于编码和验证阶段，
// 这两个阶段面对的是字节而不是源码行。
type CompileError struct {
	Code      string   // 错误码 (E0300)
	Kind      Kind     // 错误种类
	Level     Level    // 错误级别
	Message   string   // 主消息
	File      string   // 文件路径
	Line      int      // 行号
	Column    int      // 列号
	EndColumn int      // 结束列
	Method    string   // 方法名+描述符（可选）
	Offset    int      // 字节码偏移，-1 表示无
	CPIndex   int      // 常量池索引，0 表示无
	Labels    []Label  // 代码标签
	Hints     []string // 修复建议
	Notes     []string // 附加说明
	Err       error    // 底层错误（可选）
}

// New 创建编译错误，种类由错误码决定
func New(code, message string) *CompileError {
	kind := KindParse
	if info, ok := GetErrorInfo(code); ok {
		kind = info.Kind
	}
	return &CompileError{
		Code:    code,
		Kind:    kind,
		Level:   LevelError,
		Message: message,
		Offset:  -1,
	}
}

// Wrap 用底层错误创建编译错误
func Wrap(code string, err error, message string) *CompileError {
	e := New(code, message)
	e.Err = err
	return e
}

// At 设置源码位置
func (e *CompileError) At(file string, line, column int) *CompileError {
	e.File = file
	e.Line = line
	e.Column = column
	return e
}

// Span 设置标注的结束列
func (e *CompileError) Span(endColumn int) *CompileError {
	e.EndColumn = endColumn
	return e
}

// InMethod 设置出错的方法
func (e *CompileError) InMethod(method string) *CompileError {
	e.Method = method
	return e
}

// AtOffset 设置字节码偏移
func (e *CompileError) AtOffset(offset int) *CompileError {
	e.Offset = offset
	return e
}

// WithCPIndex 设置常量池索引
func (e *CompileError) WithCPIndex(index int) *CompileError {
	e.CPIndex = index
	return e
}

// WithHint 追加修复建议
func (e *CompileError) WithHint(hint string) *CompileError {
	if hint != "" {
		e.Hints = append(e.Hints, hint)
	}
	return e
}

// WithNote 追加附加说明
func (e *CompileError) WithNote(note string) *CompileError {
	e.Notes = append(e.Notes, note)
	return e
}

// WithLabel 追加代码标签
func (e *CompileError) WithLabel(label Label) *CompileError {
	e.Labels = append(e.Labels, label)
	return e
}

// Error 实现 error 接口
func (e *CompileError) Error() string {
	var sb strings.Builder
	switch {
	case e.File != "" && e.Line > 0:
		fmt.Fprintf(&sb, "%s:%d:%d: ", e.File, e.Line, e.Column)
	case e.File != "":
		sb.WriteString(e.File + ": ")
	}
	sb.WriteString(e.Kind.String())
	sb.WriteString(": ")
	sb.WriteString(e.Message)
	if loc := e.location(); loc != "" {
		sb.WriteString(" (" + loc + ")")
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

// location 返回方法/偏移/常量索引的描述
func (e *CompileError) location() string {
	var parts []string
	if e.Method != "" {
		parts = append(parts, "method "+e.Method)
	}
	if e.Offset >= 0 {
		parts = append(parts, fmt.Sprintf("offset %d", e.Offset))
	}
	if e.CPIndex > 0 {
		parts = append(parts, fmt.Sprintf("constant #%d", e.CPIndex))
	}
	return strings.Join(parts, ", ")
}

// Unwrap 返回底层错误
func (e *CompileError) Unwrap() error {
	return e.Err
}

// ============================================================================
// 查询
// ============================================================================

// As 从错误链中取出 CompileError
func As(err error) (*CompileError, bool) {
	var ce *CompileError
	if stderrors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// IsKind 判断错误链中是否含有指定种类的 CompileError
func IsKind(err error, kind Kind) bool {
	ce, ok := As(err)
	return ok && ce.Kind == kind
}
