package classfile

import (
	"fmt"
)

// ============================================================================
// Code 属性
// ============================================================================

// ExceptionEntry 异常表条目
type ExceptionEntry struct {
	StartPC   uint16
	EndPC     uint16
	HandlerPC uint16
	CatchType uint16 // 0 表示捕获所有异常
}

// CodeAttribute Code 属性
type CodeAttribute struct {
	MaxStack       uint16
	MaxLocals      uint16
	Code           []byte
	ExceptionTable []ExceptionEntry
	Attributes     []AttributeInfo
}

// Bytes 编码为属性内容（不含属性名与长度）
func (c *CodeAttribute) Bytes() []byte {
	w := NewByteWriter()
	w.WriteU16(c.MaxStack)
	w.WriteU16(c.MaxLocals)
	w.WriteU32(uint32(len(c.Code)))
	w.WriteBytes(c.Code)
	w.WriteU16(uint16(len(c.ExceptionTable)))
	for _, e := range c.ExceptionTable {
		w.WriteU16(e.StartPC)
		w.WriteU16(e.EndPC)
		w.WriteU16(e.HandlerPC)
		w.WriteU16(e.CatchType)
	}
	w.WriteU16(uint16(len(c.Attributes)))
	for _, a := range c.Attributes {
		w.WriteU16(a.NameIndex)
		w.WriteU32(uint32(len(a.Info)))
		w.WriteBytes(a.Info)
	}
	return w.Bytes()
}

// ParseCode 解析 Code 属性内容
func ParseCode(info []byte) (*CodeAttribute, error) {
	r := &reader{data: info}
	c := &CodeAttribute{
		MaxStack:  r.u2(),
		MaxLocals: r.u2(),
	}
	length := r.u4()
	if r.err == nil && uint64(length) > uint64(len(info)-r.pos) {
		return nil, &FormatError{Offset: r.pos, Message: fmt.Sprintf("code_length %d exceeds the attribute", length)}
	}
	c.Code = r.bytes(int(length))
	n := int(r.u2())
	for i := 0; i < n && r.err == nil; i++ {
		c.ExceptionTable = append(c.ExceptionTable, ExceptionEntry{
			StartPC:   r.u2(),
			EndPC:     r.u2(),
			HandlerPC: r.u2(),
			CatchType: r.u2(),
		})
	}
	c.Attributes = r.attributes()
	if r.err != nil {
		return nil, r.err
	}
	if r.pos != len(info) {
		return nil, &FormatError{Offset: r.pos, Message: "trailing bytes in Code attribute"}
	}
	return c, nil
}

// ============================================================================
// 调试与辅助属性
// ============================================================================

// LineNumberEntry LineNumberTable 条目
type LineNumberEntry struct {
	StartPC uint16
	Line    uint16
}

// EncodeLineNumberTable 编码 LineNumberTable 属性内容
func EncodeLineNumberTable(entries []LineNumberEntry) []byte {
	w := NewByteWriter()
	w.WriteU16(uint16(len(entries)))
	for _, e := range entries {
		w.WriteU16(e.StartPC)
		w.WriteU16(e.Line)
	}
	return w.Bytes()
}

// ParseLineNumberTable 解析 LineNumberTable 属性内容
func ParseLineNumberTable(info []byte) ([]LineNumberEntry, error) {
	r := &reader{data: info}
	n := int(r.u2())
	entries := make([]LineNumberEntry, 0, n)
	for i := 0; i < n && r.err == nil; i++ {
		entries = append(entries, LineNumberEntry{StartPC: r.u2(), Line: r.u2()})
	}
	return entries, r.done()
}

// LocalVariableEntry LocalVariableTable 条目
type LocalVariableEntry struct {
	StartPC         uint16
	Length          uint16
	NameIndex       uint16
	DescriptorIndex uint16
	Index           uint16
}

// EncodeLocalVariableTable 编码 LocalVariableTable 属性内容
func EncodeLocalVariableTable(entries []LocalVariableEntry) []byte {
	w := NewByteWriter()
	w.WriteU16(uint16(len(entries)))
	for _, e := range entries {
		w.WriteU16(e.StartPC)
		w.WriteU16(e.Length)
		w.WriteU16(e.NameIndex)
		w.WriteU16(e.DescriptorIndex)
		w.WriteU16(e.Index)
	}
	return w.Bytes()
}

// ParseLocalVariableTable 解析 LocalVariableTable 属性内容
func ParseLocalVariableTable(info []byte) ([]LocalVariableEntry, error) {
	r := &reader{data: info}
	n := int(r.u2())
	entries := make([]LocalVariableEntry, 0, n)
	for i := 0; i < n && r.err == nil; i++ {
		entries = append(entries, LocalVariableEntry{
			StartPC:         r.u2(),
			Length:          r.u2(),
			NameIndex:       r.u2(),
			DescriptorIndex: r.u2(),
			Index:           r.u2(),
		})
	}
	return entries, r.done()
}

// EncodeIndexList 编码 u2 计数加 u2 索引表（Exceptions 属性）
func EncodeIndexList(indexes []uint16) []byte {
	w := NewByteWriter()
	w.WriteU16(uint16(len(indexes)))
	for _, idx := range indexes {
		w.WriteU16(idx)
	}
	return w.Bytes()
}

// ParseIndexList 解析 u2 计数加 u2 索引表
func ParseIndexList(info []byte) ([]uint16, error) {
	r := &reader{data: info}
	n := int(r.u2())
	indexes := make([]uint16, 0, n)
	for i := 0; i < n && r.err == nil; i++ {
		indexes = append(indexes, r.u2())
	}
	return indexes, r.done()
}

// EncodeIndex 编码只含一个 u2 索引的属性（ConstantValue、SourceFile）
func EncodeIndex(index uint16) []byte {
	w := NewByteWriter()
	w.WriteU16(index)
	return w.Bytes()
}

// ParseIndex 解析只含一个 u2 索引的属性
func ParseIndex(info []byte) (uint16, error) {
	r := &reader{data: info}
	v := r.u2()
	return v, r.done()
}

// done 检查是否恰好读完
func (r *reader) done() error {
	if r.err != nil {
		return r.err
	}
	if r.pos != len(r.data) {
		return &FormatError{Offset: r.pos, Message: fmt.Sprintf("%d trailing bytes", len(r.data)-r.pos)}
	}
	return nil
}
