package bytecode

import (
	"fmt"
	"strings"
)

// ============================================================================
// 描述符
// ============================================================================

// FieldSlots 解析字段描述符，返回该类型占用的槽数
func FieldSlots(desc string) (int, error) {
	next, slots, ok := readFieldType(desc, 0)
	if !ok || next != len(desc) {
		return 0, fmt.Errorf("invalid field descriptor %q", desc)
	}
	return slots, nil
}

// MethodSlots 解析方法描述符，返回参数占用的槽数和返回值占用的槽数（void 为 0）
func MethodSlots(desc string) (args, ret int, err error) {
	if !strings.HasPrefix(desc, "(") {
		return 0, 0, fmt.Errorf("invalid method descriptor %q", desc)
	}
	pos := 1
	for pos < len(desc) && desc[pos] != ')' {
		next, slots, ok := readFieldType(desc, pos)
		if !ok {
			return 0, 0, fmt.Errorf("invalid method descriptor %q", desc)
		}
		args += slots
		pos = next
	}
	if pos >= len(desc) {
		return 0, 0, fmt.Errorf("invalid method descriptor %q", desc)
	}
	pos++ // ')'

	if desc[pos:] == "V" {
		return args, 0, nil
	}
	next, ret, ok := readFieldType(desc, pos)
	if !ok || next != len(desc) {
		return 0, 0, fmt.Errorf("invalid method descriptor %q", desc)
	}
	return args, ret, nil
}

// ArgumentCount 返回方法描述符的参数个数（不是槽数）
func ArgumentCount(desc string) (int, error) {
	if _, _, err := MethodSlots(desc); err != nil {
		return 0, err
	}
	count := 0
	pos := 1
	for desc[pos] != ')' {
		pos, _, _ = readFieldType(desc, pos)
		count++
	}
	return count, nil
}

// ValidFieldDescriptor 字段描述符是否合法
func ValidFieldDescriptor(desc string) bool {
	_, err := FieldSlots(desc)
	return err == nil
}

// ValidMethodDescriptor 方法描述符是否合法
func ValidMethodDescriptor(desc string) bool {
	_, _, err := MethodSlots(desc)
	return err == nil
}

// ValidClassName 是否为合法的类引用：内部名（java/lang/Object）或数组描述符（[I）
func ValidClassName(name string) bool {
	if strings.HasPrefix(name, "[") {
		return ValidFieldDescriptor(name)
	}
	return validInternalName(name)
}

// readFieldType 从 pos 开始读取一个字段类型，返回下一个位置和槽数
func readFieldType(desc string, pos int) (next, slots int, ok bool) {
	dims := 0
	for pos < len(desc) && desc[pos] == '[' {
		dims++
		pos++
	}
	if pos >= len(desc) || dims > 255 {
		return 0, 0, false
	}

	slots = 1
	switch desc[pos] {
	case 'B', 'C', 'F', 'I', 'S', 'Z':
		pos++
	case 'J', 'D':
		slots = 2
		pos++
	case 'L':
		end := strings.IndexByte(desc[pos:], ';')
		if end < 0 || !validInternalName(desc[pos+1:pos+end]) {
			return 0, 0, false
		}
		pos += end + 1
	default:
		return 0, 0, false
	}

	if dims > 0 {
		slots = 1
	}
	return pos, slots, true
}

// validInternalName 内部类名：以 / 分隔的非空段，不含 . ; [ 等字符
func validInternalName(name string) bool {
	if name == "" {
		return false
	}
	for _, part := range strings.Split(name, "/") {
		if part == "" || strings.ContainsAny(part, ".;[<>") {
			return false
		}
	}
	return true
}

// ============================================================================
// 类名转换
// ============================================================================

// DottedName 把内部名 java/lang/Object 转为 java.lang.Object
func DottedName(internal string) string {
	return strings.ReplaceAll(internal, "/", ".")
}

// PackageOf 返回内部名的包部分（java/lang/Object → java/lang），默认包为空
func PackageOf(internal string) string {
	if i := strings.LastIndexByte(internal, '/'); i >= 0 {
		return internal[:i]
	}
	return ""
}

// SimpleName 返回内部名的简单名（java/lang/Object → Object）
func SimpleName(internal string) string {
	return internal[strings.LastIndexByte(internal, '/')+1:]
}
