package classfile

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
)

// 常量池标签
const (
	ConstantUtf8               = 1
	ConstantInteger            = 3
	ConstantFloat              = 4
	ConstantLong               = 5
	ConstantDouble             = 6
	ConstantClass              = 7
	ConstantString             = 8
	ConstantFieldref           = 9
	ConstantMethodref          = 10
	ConstantInterfaceMethodref = 11
	ConstantNameAndType        = 12
	ConstantMethodHandle       = 15
	ConstantMethodType         = 16
	ConstantInvokeDynamic      = 18
)

var tagNames = map[uint8]string{
	ConstantUtf8:               "Utf8",
	ConstantInteger:            "Integer",
	ConstantFloat:              "Float",
	ConstantLong:               "Long",
	ConstantDouble:             "Double",
	ConstantClass:              "Class",
	ConstantString:             "String",
	ConstantFieldref:           "Fieldref",
	ConstantMethodref:          "Methodref",
	ConstantInterfaceMethodref: "InterfaceMethodref",
	ConstantNameAndType:        "NameAndType",
	ConstantMethodHandle:       "MethodHandle",
	ConstantMethodType:         "MethodType",
	ConstantInvokeDynamic:      "InvokeDynamic",
}

// TagName 返回常量池标签的名称
func TagName(tag uint8) string {
	if name, ok := tagNames[tag]; ok {
		return name
	}
	return "tag(" + strconv.Itoa(int(tag)) + ")"
}

// ConstantPoolEntry 常量池条目
type ConstantPoolEntry interface {
	Tag() uint8
	Write(w io.Writer) error
	String() string
}

// Slots 条目占用的常量池槽数：long/double 为 2，其余为 1
func Slots(e ConstantPoolEntry) int {
	if t := e.Tag(); t == ConstantLong || t == ConstantDouble {
		return 2
	}
	return 1
}

// writeFields 依次写入标签与各字段
func writeFields(w io.Writer, tag uint8, fields ...interface{}) error {
	if err := binary.Write(w, binary.BigEndian, tag); err != nil {
		return err
	}
	for _, f := range fields {
		if err := binary.Write(w, binary.BigEndian, f); err != nil {
			return err
		}
	}
	return nil
}

// ============================================================================
// 字面量
// ============================================================================

// ConstantUtf8Info UTF8 字符串常量，按 modified UTF-8 编码
type ConstantUtf8Info struct {
	Value string
}

func (c *ConstantUtf8Info) Tag() uint8 { return ConstantUtf8 }
func (c *ConstantUtf8Info) Write(w io.Writer) error {
	data := EncodeModifiedUTF8(c.Value)
	if len(data) > math.MaxUint16 {
		return fmt.Errorf("utf8 constant is %d bytes long", len(data))
	}
	if err := writeFields(w, ConstantUtf8, uint16(len(data))); err != nil {
		return err
	}
	_, err := w.Write(data)
	return err
}
func (c *ConstantUtf8Info) String() string { return "Utf8 " + strconv.Quote(c.Value) }

// ConstantIntegerInfo int 常量
type ConstantIntegerInfo struct {
	Value int32
}

func (c *ConstantIntegerInfo) Tag() uint8 { return ConstantInteger }
func (c *ConstantIntegerInfo) Write(w io.Writer) error {
	return writeFields(w, ConstantInteger, c.Value)
}
func (c *ConstantIntegerInfo) String() string { return fmt.Sprintf("Integer %d", c.Value) }

// ConstantFloatInfo float 常量，按 IEEE 754 位模式写入
type ConstantFloatInfo struct {
	Value float32
}

func (c *ConstantFloatInfo) Tag() uint8 { return ConstantFloat }
func (c *ConstantFloatInfo) Write(w io.Writer) error {
	return writeFields(w, ConstantFloat, math.Float32bits(c.Value))
}
func (c *ConstantFloatInfo) String() string {
	return "Float " + strconv.FormatFloat(float64(c.Value), 'g', -1, 32) + "f"
}

// ConstantLongInfo long 常量（占两个槽位）
type ConstantLongInfo struct {
	Value int64
}

func (c *ConstantLongInfo) Tag() uint8 { return ConstantLong }
func (c *ConstantLongInfo) Write(w io.Writer) error {
	return writeFields(w, ConstantLong, c.Value)
}
func (c *ConstantLongInfo) String() string { return fmt.Sprintf("Long %dl", c.Value) }

// ConstantDoubleInfo double 常量（占两个槽位）
type ConstantDoubleInfo struct {
	Value float64
}

func (c *ConstantDoubleInfo) Tag() uint8 { return ConstantDouble }
func (c *ConstantDoubleInfo) Write(w io.Writer) error {
	return writeFields(w, ConstantDouble, math.Float64bits(c.Value))
}
func (c *ConstantDoubleInfo) String() string {
	return "Double " + strconv.FormatFloat(c.Value, 'g', -1, 64) + "d"
}

// ============================================================================
// 符号引用
// ============================================================================

// ConstantClassInfo 类引用常量
type ConstantClassInfo struct {
	NameIndex uint16
}

func (c *ConstantClassInfo) Tag() uint8 { return ConstantClass }
func (c *ConstantClassInfo) Write(w io.Writer) error {
	return writeFields(w, ConstantClass, c.NameIndex)
}
func (c *ConstantClassInfo) String() string { return fmt.Sprintf("Class #%d", c.NameIndex) }

// ConstantStringInfo 字符串常量
type ConstantStringInfo struct {
	StringIndex uint16
}

func (c *ConstantStringInfo) Tag() uint8 { return ConstantString }
func (c *ConstantStringInfo) Write(w io.Writer) error {
	return writeFields(w, ConstantString, c.StringIndex)
}
func (c *ConstantStringInfo) String() string { return fmt.Sprintf("String #%d", c.StringIndex) }

// memberRef 三种成员引用共有的结构
type memberRef interface {
	refIndexes() (classIndex, nameAndTypeIndex uint16)
}

// ConstantFieldrefInfo 字段引用常量
type ConstantFieldrefInfo struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

func (c *ConstantFieldrefInfo) Tag() uint8 { return ConstantFieldref }
func (c *ConstantFieldrefInfo) Write(w io.Writer) error {
	return writeFields(w, ConstantFieldref, c.ClassIndex, c.NameAndTypeIndex)
}
func (c *ConstantFieldrefInfo) String() string {
	return fmt.Sprintf("Fieldref #%d.#%d", c.ClassIndex, c.NameAndTypeIndex)
}
func (c *ConstantFieldrefInfo) refIndexes() (uint16, uint16) { return c.ClassIndex, c.NameAndTypeIndex }

// ConstantMethodrefInfo 方法引用常量
type ConstantMethodrefInfo struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

func (c *ConstantMethodrefInfo) Tag() uint8 { return ConstantMethodref }
func (c *ConstantMethodrefInfo) Write(w io.Writer) error {
	return writeFields(w, ConstantMethodref, c.ClassIndex, c.NameAndTypeIndex)
}
func (c *ConstantMethodrefInfo) String() string {
	return fmt.Sprintf("Methodref #%d.#%d", c.ClassIndex, c.NameAndTypeIndex)
}
func (c *ConstantMethodrefInfo) refIndexes() (uint16, uint16) { return c.ClassIndex, c.NameAndTypeIndex }

// ConstantInterfaceMethodrefInfo 接口方法引用常量
type ConstantInterfaceMethodrefInfo struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

func (c *ConstantInterfaceMethodrefInfo) Tag() uint8 { return ConstantInterfaceMethodref }
func (c *ConstantInterfaceMethodrefInfo) Write(w io.Writer) error {
	return writeFields(w, ConstantInterfaceMethodref, c.ClassIndex, c.NameAndTypeIndex)
}
func (c *ConstantInterfaceMethodrefInfo) String() string {
	return fmt.Sprintf("InterfaceMethodref #%d.#%d", c.ClassIndex, c.NameAndTypeIndex)
}
func (c *ConstantInterfaceMethodrefInfo) refIndexes() (uint16, uint16) {
	return c.ClassIndex, c.NameAndTypeIndex
}

// ConstantNameAndTypeInfo 名称和类型描述符常量
type ConstantNameAndTypeInfo struct {
	NameIndex       uint16
	DescriptorIndex uint16
}

func (c *ConstantNameAndTypeInfo) Tag() uint8 { return ConstantNameAndType }
func (c *ConstantNameAndTypeInfo) Write(w io.Writer) error {
	return writeFields(w, ConstantNameAndType, c.NameIndex, c.DescriptorIndex)
}
func (c *ConstantNameAndTypeInfo) String() string {
	return fmt.Sprintf("NameAndType #%d:#%d", c.NameIndex, c.DescriptorIndex)
}

// ============================================================================
// 只在读取时出现的条目
// ============================================================================

// ConstantMethodHandleInfo 方法句柄常量
type ConstantMethodHandleInfo struct {
	ReferenceKind  uint8
	ReferenceIndex uint16
}

func (c *ConstantMethodHandleInfo) Tag() uint8 { return ConstantMethodHandle }
func (c *ConstantMethodHandleInfo) Write(w io.Writer) error {
	return writeFields(w, ConstantMethodHandle, c.ReferenceKind, c.ReferenceIndex)
}
func (c *ConstantMethodHandleInfo) String() string {
	return fmt.Sprintf("MethodHandle %d:#%d", c.ReferenceKind, c.ReferenceIndex)
}

// ConstantMethodTypeInfo 方法类型常量
type ConstantMethodTypeInfo struct {
	DescriptorIndex uint16
}

func (c *ConstantMethodTypeInfo) Tag() uint8 { return ConstantMethodType }
func (c *ConstantMethodTypeInfo) Write(w io.Writer) error {
	return writeFields(w, ConstantMethodType, c.DescriptorIndex)
}
func (c *ConstantMethodTypeInfo) String() string {
	return fmt.Sprintf("MethodType #%d", c.DescriptorIndex)
}

// ConstantInvokeDynamicInfo invokedynamic 调用点常量
type ConstantInvokeDynamicInfo struct {
	BootstrapMethodAttrIndex uint16
	NameAndTypeIndex         uint16
}

func (c *ConstantInvokeDynamicInfo) Tag() uint8 { return ConstantInvokeDynamic }
func (c *ConstantInvokeDynamicInfo) Write(w io.Writer) error {
	return writeFields(w, ConstantInvokeDynamic, c.BootstrapMethodAttrIndex, c.NameAndTypeIndex)
}
func (c *ConstantInvokeDynamicInfo) String() string {
	return fmt.Sprintf("InvokeDynamic #%d:#%d", c.BootstrapMethodAttrIndex, c.NameAndTypeIndex)
}
