package classfile

import (
	"encoding/binary"
	"fmt"
	"math"
)

// ============================================================================
// 解析
// ============================================================================

// FormatError class 文件格式错误
type FormatError struct {
	Offset  int
	Message string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("offset %d: %s", e.Offset, e.Message)
}

// reader 大端读取器，第一次越界后保持错误状态
type reader struct {
	data []byte
	pos  int
	err  error
}

func (r *reader) fail(format string, args ...interface{}) {
	if r.err == nil {
		r.err = &FormatError{Offset: r.pos, Message: fmt.Sprintf(format, args...)}
	}
}

func (r *reader) need(n int) bool {
	if r.err != nil {
		return false
	}
	if r.pos+n > len(r.data) {
		r.fail("unexpected end of data (need %d bytes, %d left)", n, len(r.data)-r.pos)
		return false
	}
	return true
}

func (r *reader) u1() uint8 {
	if !r.need(1) {
		return 0
	}
	v := r.data[r.pos]
	r.pos++
	return v
}

func (r *reader) u2() uint16 {
	if !r.need(2) {
		return 0
	}
	v := binary.BigEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return v
}

func (r *reader) u4() uint32 {
	if !r.need(4) {
		return 0
	}
	v := binary.BigEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v
}

func (r *reader) u8() uint64 {
	if !r.need(8) {
		return 0
	}
	v := binary.BigEndian.Uint64(r.data[r.pos:])
	r.pos += 8
	return v
}

func (r *reader) bytes(n int) []byte {
	if !r.need(n) {
		return nil
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b
}

// Parse 从字节解析 class 文件
//
// 只做二进制层面的解析：常量池条目之间的引用、描述符与代码由调用方检查。
func Parse(data []byte) (*ClassFile, error) {
	r := &reader{data: data}
	cf := &ClassFile{}

	cf.Magic = r.u4()
	if r.err == nil && cf.Magic != ClassFileMagic {
		return nil, &FormatError{Offset: 0, Message: fmt.Sprintf("bad magic 0x%08X", cf.Magic)}
	}
	cf.MinorVersion = r.u2()
	cf.MajorVersion = r.u2()

	count := int(r.u2())
	if r.err == nil && count == 0 {
		r.fail("constant_pool_count is 0")
	}
	cf.ConstantPool = make([]ConstantPoolEntry, count)
	for i := 1; i < count && r.err == nil; i++ {
		e := r.constant()
		if e == nil {
			break
		}
		cf.ConstantPool[i] = e
		if Slots(e) == 2 {
			i++
			if i >= count {
				r.fail("%s at index %d takes the slot past the end of the pool", TagName(e.Tag()), i-1)
			}
		}
	}

	cf.AccessFlags = r.u2()
	cf.ThisClass = r.u2()
	cf.SuperClass = r.u2()
	n := int(r.u2())
	for i := 0; i < n && r.err == nil; i++ {
		cf.Interfaces = append(cf.Interfaces, r.u2())
	}
	cf.Fields = r.members()
	cf.Methods = r.members()
	cf.Attributes = r.attributes()

	if r.err != nil {
		return nil, r.err
	}
	if r.pos != len(data) {
		return nil, &FormatError{Offset: r.pos, Message: fmt.Sprintf("%d trailing bytes", len(data)-r.pos)}
	}
	return cf, nil
}

func (r *reader) constant() ConstantPoolEntry {
	start := r.pos
	tag := r.u1()
	if r.err != nil {
		return nil
	}
	switch tag {
	case ConstantUtf8:
		n := int(r.u2())
		raw := r.bytes(n)
		if r.err != nil {
			return nil
		}
		s, err := DecodeModifiedUTF8(raw)
		if err != nil {
			r.pos = start
			r.fail("bad Utf8 constant: %v", err)
			return nil
		}
		return &ConstantUtf8Info{Value: s}
	case ConstantInteger:
		return &ConstantIntegerInfo{Value: int32(r.u4())}
	case ConstantFloat:
		return &ConstantFloatInfo{Value: math.Float32frombits(r.u4())}
	case ConstantLong:
		return &ConstantLongInfo{Value: int64(r.u8())}
	case ConstantDouble:
		return &ConstantDoubleInfo{Value: math.Float64frombits(r.u8())}
	case ConstantClass:
		return &ConstantClassInfo{NameIndex: r.u2()}
	case ConstantString:
		return &ConstantStringInfo{StringIndex: r.u2()}
	case ConstantFieldref:
		return &ConstantFieldrefInfo{ClassIndex: r.u2(), NameAndTypeIndex: r.u2()}
	case ConstantMethodref:
		return &ConstantMethodrefInfo{ClassIndex: r.u2(), NameAndTypeIndex: r.u2()}
	case ConstantInterfaceMethodref:
		return &ConstantInterfaceMethodrefInfo{ClassIndex: r.u2(), NameAndTypeIndex: r.u2()}
	case ConstantNameAndType:
		return &ConstantNameAndTypeInfo{NameIndex: r.u2(), DescriptorIndex: r.u2()}
	case ConstantMethodHandle:
		return &ConstantMethodHandleInfo{ReferenceKind: r.u1(), ReferenceIndex: r.u2()}
	case ConstantMethodType:
		return &ConstantMethodTypeInfo{DescriptorIndex: r.u2()}
	case ConstantInvokeDynamic:
		return &ConstantInvokeDynamicInfo{BootstrapMethodAttrIndex: r.u2(), NameAndTypeIndex: r.u2()}
	}
	r.pos = start
	r.fail("unknown constant pool tag %d", tag)
	return nil
}

func (r *reader) members() []MemberInfo {
	n := int(r.u2())
	var members []MemberInfo
	for i := 0; i < n && r.err == nil; i++ {
		m := MemberInfo{
			AccessFlags:     r.u2(),
			NameIndex:       r.u2(),
			DescriptorIndex: r.u2(),
		}
		m.Attributes = r.attributes()
		members = append(members, m)
	}
	return members
}

func (r *reader) attributes() []AttributeInfo {
	n := int(r.u2())
	var attrs []AttributeInfo
	for i := 0; i < n && r.err == nil; i++ {
		a := AttributeInfo{NameIndex: r.u2()}
		length := r.u4()
		if r.err == nil && uint64(length) > uint64(len(r.data)-r.pos) {
			r.fail("attribute length %d exceeds the remaining %d bytes", length, len(r.data)-r.pos)
			break
		}
		a.Info = r.bytes(int(length))
		attrs = append(attrs, a)
	}
	return attrs
}
