// Package constpool 为一个编译单元构建常量池
//
// 常量按首次出现的顺序分配索引，结构相同的常量共用一个索引。
// 构建完成后常量池不再变化，生成器只通过查询方法取索引。
package constpool

import (
	"math"

	"github.com/tangzhangming/jasm/internal/ast"
	"github.com/tangzhangming/jasm/internal/classfile"
	jerrors "github.com/tangzhangming/jasm/internal/errors"
	"github.com/tangzhangming/jasm/internal/i18n"
)

// key 常量的结构化去重键，浮点数按位模式比较
type key struct {
	tag     uint8
	a, b, c string
	bits    uint64
}

// Pool 一个编译单元的常量池
type Pool struct {
	entries []classfile.ConstantPoolEntry // 按索引直接下标，0 号与宽常量的第二槽为 nil
	index   map[key]uint16
	err     error // 第一个错误，之后的添加全部忽略
}

// New 创建空常量池
func New() *Pool {
	return &Pool{
		entries: []classfile.ConstantPoolEntry{nil},
		index:   make(map[key]uint16),
	}
}

// Entries 返回常量池条目，下标即常量池索引
func (p *Pool) Entries() []classfile.ConstantPoolEntry {
	return p.entries
}

// Count 返回 constant_pool_count
func (p *Pool) Count() int {
	return len(p.entries)
}

// Err 返回添加过程中遇到的第一个错误
func (p *Pool) Err() error {
	return p.err
}

// ============================================================================
// 添加
// ============================================================================

func (p *Pool) add(k key, build func() classfile.ConstantPoolEntry) uint16 {
	if p.err != nil {
		return 0
	}
	if idx, ok := p.index[k]; ok {
		return idx
	}
	e := build()
	if p.err != nil {
		return 0
	}
	slots := classfile.Slots(e)
	if len(p.entries)+slots > classfile.MaxConstantPool {
		p.err = jerrors.New(jerrors.E0200, i18n.T(i18n.ErrPoolOverflow))
		return 0
	}
	idx := uint16(len(p.entries))
	p.entries = append(p.entries, e)
	if slots == 2 {
		p.entries = append(p.entries, nil)
	}
	p.index[k] = idx
	return idx
}

// AddUtf8 添加 CONSTANT_Utf8
func (p *Pool) AddUtf8(s string) uint16 {
	return p.add(key{tag: classfile.ConstantUtf8, a: s}, func() classfile.ConstantPoolEntry {
		if n := classfile.ModifiedUTF8Len(s); n > math.MaxUint16 {
			p.err = jerrors.New(jerrors.E0201, i18n.T(i18n.ErrUtf8TooLong, n))
		}
		return &classfile.ConstantUtf8Info{Value: s}
	})
}

// AddClass 添加 CONSTANT_Class
func (p *Pool) AddClass(name string) uint16 {
	return p.add(key{tag: classfile.ConstantClass, a: name}, func() classfile.ConstantPoolEntry {
		return &classfile.ConstantClassInfo{NameIndex: p.AddUtf8(name)}
	})
}

// AddString 添加 CONSTANT_String
func (p *Pool) AddString(s string) uint16 {
	return p.add(key{tag: classfile.ConstantString, a: s}, func() classfile.ConstantPoolEntry {
		return &classfile.ConstantStringInfo{StringIndex: p.AddUtf8(s)}
	})
}

// AddInteger 添加 CONSTANT_Integer
func (p *Pool) AddInteger(v int32) uint16 {
	return p.add(key{tag: classfile.ConstantInteger, bits: uint64(uint32(v))}, func() classfile.ConstantPoolEntry {
		return &classfile.ConstantIntegerInfo{Value: v}
	})
}

// AddFloat 添加 CONSTANT_Float
func (p *Pool) AddFloat(v float32) uint16 {
	return p.add(key{tag: classfile.ConstantFloat, bits: uint64(math.Float32bits(v))}, func() classfile.ConstantPoolEntry {
		return &classfile.ConstantFloatInfo{Value: v}
	})
}

// AddLong 添加 CONSTANT_Long
func (p *Pool) AddLong(v int64) uint16 {
	return p.add(key{tag: classfile.ConstantLong, bits: uint64(v)}, func() classfile.ConstantPoolEntry {
		return &classfile.ConstantLongInfo{Value: v}
	})
}

// AddDouble 添加 CONSTANT_Double
func (p *Pool) AddDouble(v float64) uint16 {
	return p.add(key{tag: classfile.ConstantDouble, bits: math.Float64bits(v)}, func() classfile.ConstantPoolEntry {
		return &classfile.ConstantDoubleInfo{Value: v}
	})
}

// AddNameAndType 添加 CONSTANT_NameAndType
func (p *Pool) AddNameAndType(name, desc string) uint16 {
	return p.add(key{tag: classfile.ConstantNameAndType, a: name, b: desc}, func() classfile.ConstantPoolEntry {
		return &classfile.ConstantNameAndTypeInfo{
			NameIndex:       p.AddUtf8(name),
			DescriptorIndex: p.AddUtf8(desc),
		}
	})
}

// AddFieldref 添加 CONSTANT_Fieldref
func (p *Pool) AddFieldref(owner, name, desc string) uint16 {
	return p.add(key{tag: classfile.ConstantFieldref, a: owner, b: name, c: desc}, func() classfile.ConstantPoolEntry {
		return &classfile.ConstantFieldrefInfo{
			ClassIndex:       p.AddClass(owner),
			NameAndTypeIndex: p.AddNameAndType(name, desc),
		}
	})
}

// AddMethodref 添加 CONSTANT_Methodref
func (p *Pool) AddMethodref(owner, name, desc string) uint16 {
	return p.add(key{tag: classfile.ConstantMethodref, a: owner, b: name, c: desc}, func() classfile.ConstantPoolEntry {
		return &classfile.ConstantMethodrefInfo{
			ClassIndex:       p.AddClass(owner),
			NameAndTypeIndex: p.AddNameAndType(name, desc),
		}
	})
}

// AddInterfaceMethodref 添加 CONSTANT_InterfaceMethodref
func (p *Pool) AddInterfaceMethodref(owner, name, desc string) uint16 {
	return p.add(key{tag: classfile.ConstantInterfaceMethodref, a: owner, b: name, c: desc}, func() classfile.ConstantPoolEntry {
		return &classfile.ConstantInterfaceMethodrefInfo{
			ClassIndex:       p.AddClass(owner),
			NameAndTypeIndex: p.AddNameAndType(name, desc),
		}
	})
}

// AddConstant 添加 ldc 操作数或字段初始值
func (p *Pool) AddConstant(c *ast.Constant) uint16 {
	switch c.Kind {
	case ast.ConstInt:
		return p.AddInteger(int32(c.Int))
	case ast.ConstLong:
		return p.AddLong(c.Int)
	case ast.ConstFloat:
		return p.AddFloat(float32(c.Float))
	case ast.ConstDouble:
		return p.AddDouble(c.Float)
	case ast.ConstString:
		return p.AddString(c.Str)
	default:
		return p.AddClass(c.Str)
	}
}

// ============================================================================
// 查询
// ============================================================================

func (p *Pool) lookup(k key, what string) (uint16, error) {
	if idx, ok := p.index[k]; ok {
		return idx, nil
	}
	return 0, jerrors.New(jerrors.E0202, i18n.T(i18n.ErrPoolMiss, what))
}

// Utf8 查询 CONSTANT_Utf8 的索引
func (p *Pool) Utf8(s string) (uint16, error) {
	return p.lookup(key{tag: classfile.ConstantUtf8, a: s}, "Utf8 "+s)
}

// Class 查询 CONSTANT_Class 的索引
func (p *Pool) Class(name string) (uint16, error) {
	return p.lookup(key{tag: classfile.ConstantClass, a: name}, "Class "+name)
}

// String 查询 CONSTANT_String 的索引
func (p *Pool) String(s string) (uint16, error) {
	return p.lookup(key{tag: classfile.ConstantString, a: s}, "String "+s)
}

// Integer 查询 CONSTANT_Integer 的索引
func (p *Pool) Integer(v int32) (uint16, error) {
	return p.lookup(key{tag: classfile.ConstantInteger, bits: uint64(uint32(v))}, "Integer")
}

// Float 查询 CONSTANT_Float 的索引
func (p *Pool) Float(v float32) (uint16, error) {
	return p.lookup(key{tag: classfile.ConstantFloat, bits: uint64(math.Float32bits(v))}, "Float")
}

// Long 查询 CONSTANT_Long 的索引
func (p *Pool) Long(v int64) (uint16, error) {
	return p.lookup(key{tag: classfile.ConstantLong, bits: uint64(v)}, "Long")
}

// Double 查询 CONSTANT_Double 的索引
func (p *Pool) Double(v float64) (uint16, error) {
	return p.lookup(key{tag: classfile.ConstantDouble, bits: math.Float64bits(v)}, "Double")
}

// NameAndType 查询 CONSTANT_NameAndType 的索引
func (p *Pool) NameAndType(name, desc string) (uint16, error) {
	return p.lookup(key{tag: classfile.ConstantNameAndType, a: name, b: desc}, "NameAndType "+name+":"+desc)
}

// Fieldref 查询 CONSTANT_Fieldref 的索引
func (p *Pool) Fieldref(owner, name, desc string) (uint16, error) {
	return p.lookup(key{tag: classfile.ConstantFieldref, a: owner, b: name, c: desc}, "Fieldref "+owner+"."+name)
}

// Methodref 查询 CONSTANT_Methodref 的索引
func (p *Pool) Methodref(owner, name, desc string) (uint16, error) {
	return p.lookup(key{tag: classfile.ConstantMethodref, a: owner, b: name, c: desc}, "Methodref "+owner+"."+name+desc)
}

// InterfaceMethodref 查询 CONSTANT_InterfaceMethodref 的索引
func (p *Pool) InterfaceMethodref(owner, name, desc string) (uint16, error) {
	return p.lookup(key{tag: classfile.ConstantInterfaceMethodref, a: owner, b: name, c: desc}, "InterfaceMethodref "+owner+"."+name+desc)
}

// Constant 查询 ldc 操作数或字段初始值的索引
func (p *Pool) Constant(c *ast.Constant) (uint16, error) {
	switch c.Kind {
	case ast.ConstInt:
		return p.Integer(int32(c.Int))
	case ast.ConstLong:
		return p.Long(c.Int)
	case ast.ConstFloat:
		return p.Float(float32(c.Float))
	case ast.ConstDouble:
		return p.Double(c.Float)
	case ast.ConstString:
		return p.String(c.Str)
	default:
		return p.Class(c.Str)
	}
}
