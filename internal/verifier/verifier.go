// Package verifier 对 class 文件做结构校验，判断它能否被 JVM 加载
//
// 校验只读字节，不执行任何代码，也不解析其他类。通过校验的字节原样交给调用方写出。
package verifier

import (
	stderrors "errors"
	"fmt"

	"github.com/tangzhangming/jasm/internal/ast"
	"github.com/tangzhangming/jasm/internal/bytecode"
	"github.com/tangzhangming/jasm/internal/classfile"
	jerrors "github.com/tangzhangming/jasm/internal/errors"
	"github.com/tangzhangming/jasm/internal/i18n"
)

// 支持的 class 文件主版本范围（JDK 1.0.2 到 JDK 25）
const (
	MinMajorVersion = 45
	MaxMajorVersion = 69
)

// Result 校验通过的 class 文件概要
type Result struct {
	Name       string   // 内部名 com/example/Foo
	DottedName string   // com.example.Foo
	Super      string   // 父类内部名，java/lang/Object 时为空
	Interfaces []string // 实现的接口
	Fields     []string // 字段名:描述符
	Methods    []string // 方法名+描述符
	Major      uint16
	Minor      uint16
}

// Verifier 加载前的校验能力
//
// name 为期望的内部类名，为空时不检查类名。
type Verifier interface {
	Verify(name string, data []byte) (*Result, error)
}

// New 返回结构校验器
func New() Verifier {
	return structural{}
}

// Skip 不做任何校验，用于关闭校验的构建
var Skip Verifier = skip{}

type skip struct{}

func (skip) Verify(name string, data []byte) (*Result, error) {
	return &Result{Name: name, DottedName: bytecode.DottedName(name)}, nil
}

type structural struct{}

func (structural) Verify(name string, data []byte) (*Result, error) {
	cf, err := classfile.Parse(data)
	if err != nil {
		return nil, malformed(err)
	}
	c := &checker{cf: cf, expected: name}
	if err := c.run(); err != nil {
		return nil, err
	}
	return c.result, nil
}

// ============================================================================
// 类级别校验
// ============================================================================

type checker struct {
	cf       *classfile.ClassFile
	expected string
	result   *Result
}

func (c *checker) run() error {
	cf := c.cf
	if cf.MajorVersion < MinMajorVersion || cf.MajorVersion > MaxMajorVersion {
		return jerrors.New(jerrors.E0400, i18n.T(i18n.ErrMalformedClass,
			"unsupported version "+versionString(cf.MajorVersion, cf.MinorVersion)))
	}
	if err := c.checkPool(); err != nil {
		return err
	}

	name, err := cf.ThisClassName()
	if err != nil {
		return poolError(err)
	}
	if !bytecode.ValidClassName(name) || name[0] == '[' {
		return jerrors.New(jerrors.E0402, i18n.T(i18n.ErrMalformedClass, "invalid class name "+name)).
			WithCPIndex(int(cf.ThisClass))
	}
	if c.expected != "" && name != c.expected {
		return jerrors.New(jerrors.E0402, i18n.T(i18n.ErrNameMismatch, name, c.expected))
	}
	c.result = &Result{
		Name:       name,
		DottedName: bytecode.DottedName(name),
		Major:      cf.MajorVersion,
		Minor:      cf.MinorVersion,
	}

	if err := c.checkClassFlags(); err != nil {
		return err
	}
	if err := c.checkSuper(); err != nil {
		return err
	}
	for _, idx := range cf.Interfaces {
		iface, err := cf.ClassName(idx)
		if err != nil {
			return poolError(err)
		}
		c.result.Interfaces = append(c.result.Interfaces, iface)
	}

	if err := c.checkFields(); err != nil {
		return err
	}
	if err := c.checkMethods(); err != nil {
		return err
	}
	return c.checkClassAttributes()
}

// checkPool 检查每个常量池条目引用的索引与类型
func (c *checker) checkPool() error {
	cf := c.cf
	for i, e := range cf.ConstantPool {
		if e == nil {
			continue
		}
		var err error
		switch e := e.(type) {
		case *classfile.ConstantClassInfo:
			var name string
			if name, err = cf.Utf8(e.NameIndex); err == nil && !bytecode.ValidClassName(name) {
				return jerrors.New(jerrors.E0401, i18n.T(i18n.ErrMalformedClass, "invalid class name "+name)).
					WithCPIndex(i)
			}
		case *classfile.ConstantStringInfo:
			_, err = cf.Utf8(e.StringIndex)
		case *classfile.ConstantFieldrefInfo:
			_, _, _, err = cf.MemberRef(uint16(i), classfile.ConstantFieldref)
		case *classfile.ConstantMethodrefInfo:
			_, _, _, err = cf.MemberRef(uint16(i), classfile.ConstantMethodref)
		case *classfile.ConstantInterfaceMethodrefInfo:
			_, _, _, err = cf.MemberRef(uint16(i), classfile.ConstantInterfaceMethodref)
		case *classfile.ConstantNameAndTypeInfo:
			_, _, err = cf.NameAndType(uint16(i))
		case *classfile.ConstantMethodTypeInfo:
			_, err = cf.Utf8(e.DescriptorIndex)
		case *classfile.ConstantInvokeDynamicInfo:
			_, _, err = cf.NameAndType(e.NameAndTypeIndex)
		case *classfile.ConstantMethodHandleInfo:
			_, err = cf.Entry(e.ReferenceIndex)
		}
		if err != nil {
			return poolError(err)
		}
	}
	return nil
}

func (c *checker) checkSuper() error {
	cf := c.cf
	if cf.SuperClass == 0 {
		if c.result.Name != "java/lang/Object" {
			return jerrors.New(jerrors.E0402, i18n.T(i18n.ErrBadSuper, "missing"))
		}
		return nil
	}
	super, err := cf.SuperClassName()
	if err != nil {
		return poolError(err)
	}
	switch {
	case super == c.result.Name:
		return jerrors.New(jerrors.E0402, i18n.T(i18n.ErrBadSuper, super+" is the class itself"))
	case super[0] == '[':
		return jerrors.New(jerrors.E0402, i18n.T(i18n.ErrBadSuper, super+" is an array type"))
	case cf.AccessFlags&ast.AccInterface != 0 && super != "java/lang/Object":
		return jerrors.New(jerrors.E0402, i18n.T(i18n.ErrBadSuper, "an interface must extend java/lang/Object"))
	}
	c.result.Super = super
	return nil
}

func (c *checker) checkFields() error {
	cf := c.cf
	seen := make(map[string]bool)
	for _, f := range cf.Fields {
		name, err := cf.Utf8(f.NameIndex)
		if err != nil {
			return poolError(err)
		}
		desc, err := cf.Utf8(f.DescriptorIndex)
		if err != nil {
			return poolError(err)
		}
		if name == "" || !bytecode.ValidFieldDescriptor(desc) {
			return jerrors.New(jerrors.E0403, i18n.T(i18n.ErrBadMemberDesc, name+" "+desc))
		}
		key := name + ":" + desc
		if seen[key] {
			return jerrors.New(jerrors.E0403, i18n.T(i18n.ErrDuplicateMember, key))
		}
		seen[key] = true
		if err := c.checkFieldFlags(f.AccessFlags, key); err != nil {
			return err
		}
		if attr, ok := cf.FindAttribute(f.Attributes, classfile.AttrConstantValue); ok {
			if err := c.checkConstantValue(attr, desc); err != nil {
				return err
			}
		}
		c.result.Fields = append(c.result.Fields, key)
	}
	return nil
}

// checkConstantValue ConstantValue 的常量类型必须与字段类型一致
func (c *checker) checkConstantValue(attr classfile.AttributeInfo, desc string) error {
	idx, err := classfile.ParseIndex(attr.Info)
	if err != nil {
		return truncated(classfile.AttrConstantValue)
	}
	var want uint8
	switch desc {
	case "I", "S", "C", "B", "Z":
		want = classfile.ConstantInteger
	case "J":
		want = classfile.ConstantLong
	case "F":
		want = classfile.ConstantFloat
	case "D":
		want = classfile.ConstantDouble
	case "Ljava/lang/String;":
		want = classfile.ConstantString
	default:
		return jerrors.New(jerrors.E0403, i18n.T(i18n.ErrBadMemberDesc, desc)).
			WithNote("ConstantValue is only allowed on primitive and String fields")
	}
	if _, err := c.cf.EntryOf(idx, want); err != nil {
		return poolError(err)
	}
	return nil
}

func (c *checker) checkMethods() error {
	cf := c.cf
	seen := make(map[string]bool)
	for i := range cf.Methods {
		m := &cf.Methods[i]
		name, err := cf.Utf8(m.NameIndex)
		if err != nil {
			return poolError(err)
		}
		desc, err := cf.Utf8(m.DescriptorIndex)
		if err != nil {
			return poolError(err)
		}
		sig := name + desc
		if name == "" || !bytecode.ValidMethodDescriptor(desc) {
			return jerrors.New(jerrors.E0403, i18n.T(i18n.ErrBadMemberDesc, sig))
		}
		if seen[sig] {
			return jerrors.New(jerrors.E0403, i18n.T(i18n.ErrDuplicateMember, sig))
		}
		seen[sig] = true
		if err := c.checkMethodFlags(m.AccessFlags, name, sig); err != nil {
			return err
		}

		hasCode := m.AccessFlags&(ast.AccAbstract|ast.AccNative) == 0
		attr, ok := cf.FindAttribute(m.Attributes, classfile.AttrCode)
		switch {
		case hasCode && !ok:
			return jerrors.New(jerrors.E0403, i18n.T(i18n.ErrMissingCode, sig)).InMethod(sig)
		case !hasCode && ok:
			return jerrors.New(jerrors.E0403, i18n.T(i18n.ErrUnexpectedCode, sig)).InMethod(sig)
		case ok:
			if err := c.checkCode(m, attr, sig, desc); err != nil {
				return err
			}
		}

		if attr, ok := cf.FindAttribute(m.Attributes, classfile.AttrExceptions); ok {
			idxs, err := classfile.ParseIndexList(attr.Info)
			if err != nil {
				return truncated(classfile.AttrExceptions).InMethod(sig)
			}
			for _, idx := range idxs {
				if _, err := cf.ClassName(idx); err != nil {
					return poolError(err).InMethod(sig)
				}
			}
		}
		c.result.Methods = append(c.result.Methods, sig)
	}
	return nil
}

func (c *checker) checkClassAttributes() error {
	if attr, ok := c.cf.FindAttribute(c.cf.Attributes, classfile.AttrSourceFile); ok {
		idx, err := classfile.ParseIndex(attr.Info)
		if err != nil {
			return truncated(classfile.AttrSourceFile)
		}
		if _, err := c.cf.Utf8(idx); err != nil {
			return poolError(err)
		}
	}
	return nil
}

// ============================================================================
// 错误
// ============================================================================

// malformed 把读取错误转为 VerifyError
func malformed(err error) *jerrors.CompileError {
	return jerrors.Wrap(jerrors.E0400, err, i18n.T(i18n.ErrMalformedClass, err.Error()))
}

// poolError 把常量池访问错误转为带索引的 VerifyError
func poolError(err error) *jerrors.CompileError {
	var pe *classfile.PoolError
	if !stderrors.As(err, &pe) {
		return malformed(err)
	}
	msg := i18n.T(i18n.ErrBadCPIndex, pe.Index)
	if pe.Got != 0 {
		msg = i18n.T(i18n.ErrBadCPTag, pe.Index, classfile.TagName(pe.Got), classfile.TagName(pe.Want))
	}
	return jerrors.Wrap(jerrors.E0401, err, msg).WithCPIndex(pe.Index)
}

func truncated(attr string) *jerrors.CompileError {
	return jerrors.New(jerrors.E0403, i18n.T(i18n.ErrMissingAttribute, attr))
}

func versionString(major, minor uint16) string {
	return fmt.Sprintf("%d.%d", major, minor)
}
