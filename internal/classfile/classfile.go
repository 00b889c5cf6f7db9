// Package classfile 描述 JVM class 文件结构，负责其二进制编码、解析与反汇编
package classfile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// Class 文件常量
const (
	ClassFileMagic  = 0xCAFEBABE
	MaxConstantPool = 65535 // constant_pool_count 的上限
	MaxCodeLength   = 65535 // Code 属性中 code 数组的长度上限
	DefaultMajor    = 45
	DefaultMinor    = 3
)

// 属性名
const (
	AttrCode               = "Code"
	AttrConstantValue      = "ConstantValue"
	AttrExceptions         = "Exceptions"
	AttrSourceFile         = "SourceFile"
	AttrLineNumberTable    = "LineNumberTable"
	AttrLocalVariableTable = "LocalVariableTable"
)

// ClassFile JVM class 文件结构
//
// ConstantPool 按常量池索引直接下标访问：下标 0 以及 long/double 之后的
// 第二个槽位为 nil，len(ConstantPool) 即 constant_pool_count。
type ClassFile struct {
	Magic        uint32
	MinorVersion uint16
	MajorVersion uint16
	ConstantPool []ConstantPoolEntry
	AccessFlags  uint16
	ThisClass    uint16
	SuperClass   uint16
	Interfaces   []uint16
	Fields       []MemberInfo
	Methods      []MemberInfo
	Attributes   []AttributeInfo
}

// MemberInfo 字段或方法信息
type MemberInfo struct {
	AccessFlags     uint16
	NameIndex       uint16
	DescriptorIndex uint16
	Attributes      []AttributeInfo
}

// AttributeInfo 属性信息
type AttributeInfo struct {
	NameIndex uint16
	Info      []byte
}

// New 创建新的 class 文件，版本为 45.3
func New() *ClassFile {
	return &ClassFile{
		Magic:        ClassFileMagic,
		MinorVersion: DefaultMinor,
		MajorVersion: DefaultMajor,
		ConstantPool: []ConstantPoolEntry{nil},
	}
}

// ============================================================================
// 编码
// ============================================================================

// Write 将 class 文件写入 io.Writer（大端序）
func (cf *ClassFile) Write(w io.Writer) error {
	be := binary.BigEndian

	header := []interface{}{cf.Magic, cf.MinorVersion, cf.MajorVersion, cf.poolCount()}
	for _, v := range header {
		if err := binary.Write(w, be, v); err != nil {
			return err
		}
	}

	for _, cp := range cf.ConstantPool {
		if cp == nil {
			continue
		}
		if err := cp.Write(w); err != nil {
			return err
		}
	}

	fixed := []uint16{cf.AccessFlags, cf.ThisClass, cf.SuperClass, uint16(len(cf.Interfaces))}
	for _, v := range append(fixed, cf.Interfaces...) {
		if err := binary.Write(w, be, v); err != nil {
			return err
		}
	}

	if err := writeMembers(w, cf.Fields); err != nil {
		return err
	}
	if err := writeMembers(w, cf.Methods); err != nil {
		return err
	}
	return writeAttributes(w, cf.Attributes)
}

// ToBytes 将 class 文件转换为字节数组
func (cf *ClassFile) ToBytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := cf.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (cf *ClassFile) poolCount() uint16 {
	if len(cf.ConstantPool) == 0 {
		return 1
	}
	return uint16(len(cf.ConstantPool))
}

func writeMembers(w io.Writer, members []MemberInfo) error {
	if err := binary.Write(w, binary.BigEndian, uint16(len(members))); err != nil {
		return err
	}
	for i := range members {
		m := &members[i]
		for _, v := range []uint16{m.AccessFlags, m.NameIndex, m.DescriptorIndex} {
			if err := binary.Write(w, binary.BigEndian, v); err != nil {
				return err
			}
		}
		if err := writeAttributes(w, m.Attributes); err != nil {
			return err
		}
	}
	return nil
}

func writeAttributes(w io.Writer, attrs []AttributeInfo) error {
	if err := binary.Write(w, binary.BigEndian, uint16(len(attrs))); err != nil {
		return err
	}
	for _, a := range attrs {
		if err := binary.Write(w, binary.BigEndian, a.NameIndex); err != nil {
			return err
		}
		if err := binary.Write(w, binary.BigEndian, uint32(len(a.Info))); err != nil {
			return err
		}
		if _, err := w.Write(a.Info); err != nil {
			return err
		}
	}
	return nil
}

// ============================================================================
// 常量池访问
// ============================================================================

// PoolError 常量池索引越界或条目类型不符
type PoolError struct {
	Index int
	Got   uint8 // 实际的标签，0 表示索引无效
	Want  uint8
}

func (e *PoolError) Error() string {
	if e.Got == 0 {
		return fmt.Sprintf("constant pool index %d is invalid", e.Index)
	}
	return fmt.Sprintf("constant pool entry %d is %s, expected %s", e.Index, TagName(e.Got), TagName(e.Want))
}

// Entry 返回索引处的常量池条目
func (cf *ClassFile) Entry(index uint16) (ConstantPoolEntry, error) {
	if index == 0 || int(index) >= len(cf.ConstantPool) || cf.ConstantPool[index] == nil {
		return nil, &PoolError{Index: int(index)}
	}
	return cf.ConstantPool[index], nil
}

// EntryOf 返回索引处的条目，并检查其标签
func (cf *ClassFile) EntryOf(index uint16, tag uint8) (ConstantPoolEntry, error) {
	e, err := cf.Entry(index)
	if err != nil {
		return nil, err
	}
	if e.Tag() != tag {
		return nil, &PoolError{Index: int(index), Got: e.Tag(), Want: tag}
	}
	return e, nil
}

// Utf8 返回 CONSTANT_Utf8 的内容
func (cf *ClassFile) Utf8(index uint16) (string, error) {
	e, err := cf.EntryOf(index, ConstantUtf8)
	if err != nil {
		return "", err
	}
	return e.(*ConstantUtf8Info).Value, nil
}

// ClassName 返回 CONSTANT_Class 指向的类名
func (cf *ClassFile) ClassName(index uint16) (string, error) {
	e, err := cf.EntryOf(index, ConstantClass)
	if err != nil {
		return "", err
	}
	return cf.Utf8(e.(*ConstantClassInfo).NameIndex)
}

// NameAndType 返回 CONSTANT_NameAndType 的名称和描述符
func (cf *ClassFile) NameAndType(index uint16) (name, desc string, err error) {
	e, err := cf.EntryOf(index, ConstantNameAndType)
	if err != nil {
		return "", "", err
	}
	nt := e.(*ConstantNameAndTypeInfo)
	if name, err = cf.Utf8(nt.NameIndex); err != nil {
		return "", "", err
	}
	if desc, err = cf.Utf8(nt.DescriptorIndex); err != nil {
		return "", "", err
	}
	return name, desc, nil
}

// MemberRef 返回 Fieldref/Methodref/InterfaceMethodref 的所属类、名称和描述符
func (cf *ClassFile) MemberRef(index uint16, tag uint8) (owner, name, desc string, err error) {
	e, err := cf.EntryOf(index, tag)
	if err != nil {
		return "", "", "", err
	}
	ref, ok := e.(memberRef)
	if !ok {
		return "", "", "", &PoolError{Index: int(index), Got: e.Tag(), Want: ConstantMethodref}
	}
	classIdx, ntIdx := ref.refIndexes()
	if owner, err = cf.ClassName(classIdx); err != nil {
		return "", "", "", err
	}
	if name, desc, err = cf.NameAndType(ntIdx); err != nil {
		return "", "", "", err
	}
	return owner, name, desc, nil
}

// ThisClassName 返回本类的内部名
func (cf *ClassFile) ThisClassName() (string, error) {
	return cf.ClassName(cf.ThisClass)
}

// SuperClassName 返回父类的内部名，java/lang/Object 的父类为空
func (cf *ClassFile) SuperClassName() (string, error) {
	if cf.SuperClass == 0 {
		return "", nil
	}
	return cf.ClassName(cf.SuperClass)
}

// AttributeName 返回属性名，无法解析时为空
func (cf *ClassFile) AttributeName(a AttributeInfo) string {
	name, _ := cf.Utf8(a.NameIndex)
	return name
}

// FindAttribute 按名称查找属性
func (cf *ClassFile) FindAttribute(attrs []AttributeInfo, name string) (AttributeInfo, bool) {
	for _, a := range attrs {
		if cf.AttributeName(a) == name {
			return a, true
		}
	}
	return AttributeInfo{}, false
}
