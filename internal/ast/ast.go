// Package ast 定义汇编单元的数据模型：一个源文件对应一个 CompilationUnit
package ast

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/tangzhangming/jasm/internal/bytecode"
)

// Node 是所有带源码位置的节点的基接口
type Node interface {
	Pos() int       // 返回节点所在行号
	String() string // 返回节点的字符串表示（用于调试）
}

// ============================================================================
// 编译单元
// ============================================================================

// Version class 文件版本
type Version struct {
	Major uint16
	Minor uint16
}

// DefaultVersion 未声明 .bytecode 时使用的版本 45.3
var DefaultVersion = Version{Major: 45, Minor: 3}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// CompilationUnit 一个源文件解析后的完整结果
type CompilationUnit struct {
	Source     string         // 源文件名
	SourceFile string         // .source 声明，可为空
	Version    Version        // class 文件版本
	Class      *ClassMetadata // 类声明
	Fields     []*FieldDecl   // 按声明顺序
	Methods    []*MethodDecl  // 按声明顺序
}

// FindMethod 按名称和描述符查找方法
func (u *CompilationUnit) FindMethod(name, desc string) *MethodDecl {
	for _, m := range u.Methods {
		if m.Name == name && m.Descriptor == desc {
			return m
		}
	}
	return nil
}

func (u *CompilationUnit) String() string {
	var sb strings.Builder
	if u.SourceFile != "" {
		fmt.Fprintf(&sb, ".source %s\n", u.SourceFile)
	}
	if u.Version != DefaultVersion {
		fmt.Fprintf(&sb, ".bytecode %s\n", u.Version)
	}
	if u.Class != nil {
		sb.WriteString(u.Class.String())
	}
	for _, f := range u.Fields {
		sb.WriteString(f.String())
		sb.WriteByte('\n')
	}
	for _, m := range u.Methods {
		sb.WriteByte('\n')
		sb.WriteString(m.String())
	}
	return sb.String()
}

// ============================================================================
// 类
// ============================================================================

// ClassMetadata 类头：名称、父类、访问标志、接口
type ClassMetadata struct {
	Name        string   // 内部名，如 com/example/Foo
	Super       string   // 父类内部名
	Access      uint16   // 访问标志（不含 ACC_SUPER，由生成器决定）
	Interfaces  []string // 实现的接口
	IsInterface bool     // 以 .interface 声明
	Line        int
}

func (c *ClassMetadata) Pos() int { return c.Line }

// SimpleName 类的简单名
func (c *ClassMetadata) SimpleName() string {
	return bytecode.SimpleName(c.Name)
}

// Package 类所在的包（内部名形式），默认包为空
func (c *ClassMetadata) Package() string {
	return bytecode.PackageOf(c.Name)
}

// DottedName 点分形式的类名
func (c *ClassMetadata) DottedName() string {
	return bytecode.DottedName(c.Name)
}

func (c *ClassMetadata) String() string {
	var sb strings.Builder
	directive := ".class"
	if c.IsInterface {
		directive = ".interface"
	}
	sb.WriteString(directive)
	if flags := ClassFlagNames(c.Access); flags != "" {
		sb.WriteString(" " + flags)
	}
	fmt.Fprintf(&sb, " %s\n.super %s\n", c.Name, c.Super)
	for _, iface := range c.Interfaces {
		fmt.Fprintf(&sb, ".implements %s\n", iface)
	}
	return sb.String()
}

// ============================================================================
// 常量
// ============================================================================

// ConstKind 常量的种类
type ConstKind int

const (
	ConstInt ConstKind = iota
	ConstLong
	ConstFloat
	ConstDouble
	ConstString
	ConstClass
)

var constKindNames = [...]string{"int", "long", "float", "double", "String", "Class"}

func (k ConstKind) String() string {
	if int(k) < len(constKindNames) {
		return constKindNames[k]
	}
	return "ConstKind(" + strconv.Itoa(int(k)) + ")"
}

// Constant ldc 操作数或字段初始值
type Constant struct {
	Kind  ConstKind
	Int   int64   // ConstInt、ConstLong
	Float float64 // ConstFloat（已按 float32 取值）、ConstDouble
	Str   string  // ConstString 的内容、ConstClass 的内部名
}

// IsWide 是否占用两个常量池槽位（long/double）
func (c *Constant) IsWide() bool {
	return c.Kind == ConstLong || c.Kind == ConstDouble
}

func (c *Constant) String() string {
	switch c.Kind {
	case ConstInt:
		return strconv.FormatInt(c.Int, 10)
	case ConstLong:
		return strconv.FormatInt(c.Int, 10) + "L"
	case ConstFloat:
		return strconv.FormatFloat(c.Float, 'g', -1, 32) + "F"
	case ConstDouble:
		return strconv.FormatFloat(c.Float, 'g', -1, 64) + "D"
	case ConstString:
		return strconv.Quote(c.Str)
	case ConstClass:
		return c.Str
	}
	return "?"
}

// ============================================================================
// 字段
// ============================================================================

// FieldDecl 字段声明
type FieldDecl struct {
	Name       string
	Descriptor string
	Access     uint16
	Value      *Constant // ConstantValue，可为 nil
	Line       int
}

func (f *FieldDecl) Pos() int { return f.Line }

func (f *FieldDecl) String() string {
	s := ".field"
	if flags := FieldFlagNames(f.Access); flags != "" {
		s += " " + flags
	}
	s += " " + f.Name + " " + f.Descriptor
	if f.Value != nil {
		s += " = " + f.Value.String()
	}
	return s
}

// ============================================================================
// 方法
// ============================================================================

// MethodDecl 方法声明及其方法体
type MethodDecl struct {
	Name         string
	Descriptor   string
	Access       uint16
	Instructions []*Instruction
	Labels       map[string]int // 标签 → 指令下标，等于 len(Instructions) 表示方法末尾
	MaxStack     int            // -1 表示由生成器计算
	MaxLocals    int            // -1 表示由生成器计算
	Handlers     []*ExceptionHandler
	Lines        []LineNumber
	Vars         []*LocalVar
	Throws       []string
	Line         int // .method 所在行
	EndLine      int // .end method 所在行
}

// NewMethod 创建一个尚未解析方法体的方法声明
func NewMethod(name, desc string, access uint16, line int) *MethodDecl {
	return &MethodDecl{
		Name:       name,
		Descriptor: desc,
		Access:     access,
		Labels:     make(map[string]int),
		MaxStack:   -1,
		MaxLocals:  -1,
		Line:       line,
	}
}

func (m *MethodDecl) Pos() int { return m.Line }

// IsStatic 是否为静态方法
func (m *MethodDecl) IsStatic() bool { return m.Access&AccStatic != 0 }

// HasCode 是否应当带 Code 属性
func (m *MethodDecl) HasCode() bool { return m.Access&(AccAbstract|AccNative) == 0 }

// Signature 方法名加描述符，如 main([Ljava/lang/String;)V
func (m *MethodDecl) Signature() string { return m.Name + m.Descriptor }

func (m *MethodDecl) String() string {
	var sb strings.Builder
	sb.WriteString(".method")
	if flags := MethodFlagNames(m.Access); flags != "" {
		sb.WriteString(" " + flags)
	}
	sb.WriteString(" " + m.Signature() + "\n")
	for _, t := range m.Throws {
		fmt.Fprintf(&sb, "    .throws %s\n", t)
	}
	if m.MaxStack >= 0 {
		fmt.Fprintf(&sb, "    .limit stack %d\n", m.MaxStack)
	}
	if m.MaxLocals >= 0 {
		fmt.Fprintf(&sb, "    .limit locals %d\n", m.MaxLocals)
	}

	labelsAt := make(map[int][]string)
	for name, idx := range m.Labels {
		labelsAt[idx] = append(labelsAt[idx], name)
	}
	for i := 0; i <= len(m.Instructions); i++ {
		names := labelsAt[i]
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&sb, "%s:\n", name)
		}
		if i < len(m.Instructions) {
			fmt.Fprintf(&sb, "    %s\n", m.Instructions[i])
		}
	}
	for _, h := range m.Handlers {
		fmt.Fprintf(&sb, "    %s\n", h)
	}
	sb.WriteString(".end method\n")
	return sb.String()
}

// LineNumber 指令下标到源码行号的映射（.line）
type LineNumber struct {
	Index int // 第一条对应的指令下标
	Line  int // 源码行号
}

// LineEntries 返回指向有效指令的 .line 记录；方法末尾之后的 .line 没有对应的字节码
func (m *MethodDecl) LineEntries() []LineNumber {
	var lines []LineNumber
	for _, ln := range m.Lines {
		if ln.Index < len(m.Instructions) {
			lines = append(lines, ln)
		}
	}
	return lines
}

// LocalVar 局部变量调试信息（.var）
type LocalVar struct {
	Index      int
	Name       string
	Descriptor string
	Start      *LabelRef // nil 表示方法开头
	End        *LabelRef // nil 表示方法末尾
	Line       int
}

func (v *LocalVar) Pos() int { return v.Line }

func (v *LocalVar) String() string {
	s := fmt.Sprintf(".var %d is %s %s", v.Index, v.Name, v.Descriptor)
	if v.Start != nil && v.End != nil {
		s += " from " + v.Start.Name + " to " + v.End.Name
	}
	return s
}

// ExceptionHandler 异常表项（.catch）
type ExceptionHandler struct {
	Start   *LabelRef
	End     *LabelRef
	Handler *LabelRef
	Type    string // 内部名，空表示 all（catch_type = 0）
	Line    int
}

func (h *ExceptionHandler) Pos() int { return h.Line }

func (h *ExceptionHandler) String() string {
	typ := h.Type
	if typ == "" {
		typ = "all"
	}
	return fmt.Sprintf(".catch %s from %s to %s using %s", typ, h.Start.Name, h.End.Name, h.Handler.Name)
}

// ============================================================================
// 指令
// ============================================================================

// LabelRef 对标签的引用，Target 在 .end method 时解析
type LabelRef struct {
	Name   string
	Target int // 指令下标，-1 表示尚未解析
	Line   int
	Column int
}

// NewLabelRef 创建一个未解析的标签引用
func NewLabelRef(name string, line, column int) *LabelRef {
	return &LabelRef{Name: name, Target: -1, Line: line, Column: column}
}

// Resolved 标签是否已解析
func (r *LabelRef) Resolved() bool { return r.Target >= 0 }

// MemberRef 字段或方法引用
type MemberRef struct {
	Owner      string // 所属类内部名
	Name       string
	Descriptor string
}

func (r *MemberRef) String() string {
	if strings.HasPrefix(r.Descriptor, "(") {
		return r.Owner + "/" + r.Name + r.Descriptor
	}
	return r.Owner + "/" + r.Name + " " + r.Descriptor
}

// SwitchCase switch 的一个分支
type SwitchCase struct {
	Key   int32
	Label *LabelRef
}

// Instruction 一条指令及其操作数
//
// 操作数按 Op.Format 使用不同的字段：
//   - FormatLocal、FormatIinc：Local（iinc 的增量在 Int）
//   - FormatByte、FormatShort、FormatNewarray：Int
//   - FormatLdc*：Const
//   - FormatField、FormatMethod、FormatInterface：Ref（invokeinterface 的参数个数在 Int）
//   - FormatClass：Class；FormatMultianewarray：Class + Int（维数）
//   - FormatBranch*：Target
//   - FormatTableswitch：Low + Cases + Default；FormatLookupswitch：Cases + Default
type Instruction struct {
	Op      *bytecode.Info
	Line    int
	Local   int
	Int     int32
	Const   *Constant
	Ref     *MemberRef
	Class   string
	Target  *LabelRef
	Low     int32
	Cases   []SwitchCase
	Default *LabelRef
}

func (i *Instruction) Pos() int { return i.Line }

// Labels 返回指令引用的所有标签（switch 的 default 在前）
func (i *Instruction) Labels() []*LabelRef {
	switch {
	case i.Target != nil:
		return []*LabelRef{i.Target}
	case i.Op.IsSwitch():
		refs := make([]*LabelRef, 0, len(i.Cases)+1)
		refs = append(refs, i.Default)
		for _, c := range i.Cases {
			refs = append(refs, c.Label)
		}
		return refs
	}
	return nil
}

func (i *Instruction) String() string {
	name := i.Op.Name
	switch i.Op.Format {
	case bytecode.FormatLocal:
		return fmt.Sprintf("%s %d", name, i.Local)
	case bytecode.FormatIinc:
		return fmt.Sprintf("%s %d %d", name, i.Local, i.Int)
	case bytecode.FormatByte, bytecode.FormatShort:
		return fmt.Sprintf("%s %d", name, i.Int)
	case bytecode.FormatNewarray:
		typ, _ := bytecode.ArrayTypeName(byte(i.Int))
		return name + " " + typ
	case bytecode.FormatLdc, bytecode.FormatLdcW, bytecode.FormatLdc2W:
		return name + " " + i.Const.String()
	case bytecode.FormatField, bytecode.FormatMethod:
		return name + " " + i.Ref.String()
	case bytecode.FormatInterface:
		return fmt.Sprintf("%s %s %d", name, i.Ref, i.Int)
	case bytecode.FormatClass:
		return name + " " + i.Class
	case bytecode.FormatMultianewarray:
		return fmt.Sprintf("%s %s %d", name, i.Class, i.Int)
	case bytecode.FormatBranch, bytecode.FormatBranchWide:
		return name + " " + i.Target.Name
	case bytecode.FormatTableswitch:
		var sb strings.Builder
		fmt.Fprintf(&sb, "%s %d", name, i.Low)
		for _, c := range i.Cases {
			fmt.Fprintf(&sb, "\n        %s", c.Label.Name)
		}
		fmt.Fprintf(&sb, "\n        default : %s", i.Default.Name)
		return sb.String()
	case bytecode.FormatLookupswitch:
		var sb strings.Builder
		sb.WriteString(name)
		for _, c := range i.Cases {
			fmt.Fprintf(&sb, "\n        %d : %s", c.Key, c.Label.Name)
		}
		fmt.Fprintf(&sb, "\n        default : %s", i.Default.Name)
		return sb.String()
	}
	return name
}
