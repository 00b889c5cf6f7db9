// Package bytecode 描述 JVM 指令集：助记符、操作数格式、栈效果与解码
package bytecode

import (
	"fmt"
	"sort"
)

// ============================================================================
// 操作数格式
// ============================================================================

// Format 指令的操作数格式
type Format int

const (
	FormatNone           Format = iota // 无操作数
	FormatLocal                        // u1 局部变量索引（可加 wide 前缀）
	FormatIinc                         // u1 索引 + s1 增量（可加 wide 前缀）
	FormatByte                         // s1 立即数
	FormatShort                        // s2 立即数
	FormatNewarray                     // u1 基本类型编码
	FormatLdc                          // u1 常量池索引
	FormatLdcW                         // u2 常量池索引
	FormatLdc2W                        // u2 常量池索引（long/double）
	FormatBranch                       // s2 相对偏移
	FormatBranchWide                   // s4 相对偏移
	FormatField                        // u2 Fieldref
	FormatMethod                       // u2 Methodref
	FormatInterface                    // u2 InterfaceMethodref + u1 参数个数 + u1 0
	FormatDynamic                      // u2 InvokeDynamic + u2 0（不支持汇编）
	FormatClass                        // u2 Class
	FormatMultianewarray               // u2 Class + u1 维数
	FormatTableswitch                  // 对齐填充 + default + low + high + 跳转表
	FormatLookupswitch                 // 对齐填充 + default + npairs + 键值对
	FormatWide                         // wide 前缀
)

var formatSizes = map[Format]int{
	FormatNone:           1,
	FormatLocal:          2,
	FormatIinc:           3,
	FormatByte:           2,
	FormatShort:          3,
	FormatNewarray:       2,
	FormatLdc:            2,
	FormatLdcW:           3,
	FormatLdc2W:          3,
	FormatBranch:         3,
	FormatBranchWide:     5,
	FormatField:          3,
	FormatMethod:         3,
	FormatInterface:      5,
	FormatDynamic:        5,
	FormatClass:          3,
	FormatMultianewarray: 4,
}

// Size 返回该格式的指令长度（不含 wide 前缀）；switch 与 wide 的长度可变，返回 -1
func (f Format) Size() int {
	if n, ok := formatSizes[f]; ok {
		return n
	}
	return -1
}

// ============================================================================
// 操作码信息
// ============================================================================

// Info 一条操作码的静态信息
type Info struct {
	Code   Opcode // 操作码
	Name   string // 助记符
	Format Format // 操作数格式
	Pop    int    // 弹出的槽数，-1 表示取决于操作数
	Push   int    // 压入的槽数，-1 表示取决于操作数
}

var (
	byCode [256]*Info
	byName = make(map[string]*Info, len(opcodeInfos))
	names  []string
)

func init() {
	for i := range opcodeInfos {
		info := &opcodeInfos[i]
		byCode[info.Code] = info
		byName[info.Name] = info
		names = append(names, info.Name)
	}
	sort.Strings(names)
}

// Lookup 按助记符查找操作码
func Lookup(name string) (*Info, bool) {
	info, ok := byName[name]
	return info, ok
}

// Get 按操作码查找信息
func Get(op Opcode) (*Info, bool) {
	info := byCode[op]
	return info, info != nil
}

// Mnemonics 返回按字母排序的全部助记符
func Mnemonics() []string {
	return append([]string(nil), names...)
}

// String 返回操作码的助记符
func (op Opcode) String() string {
	if info := byCode[op]; info != nil {
		return info.Name
	}
	return fmt.Sprintf("opcode(0x%02x)", byte(op))
}

// ============================================================================
// 控制流分类
// ============================================================================

// IsBranch 是否为带标签操作数的跳转指令
func (i *Info) IsBranch() bool {
	return i.Format == FormatBranch || i.Format == FormatBranchWide
}

// IsSwitch 是否为 tableswitch/lookupswitch
func (i *Info) IsSwitch() bool {
	return i.Format == FormatTableswitch || i.Format == FormatLookupswitch
}

// IsSubroutineCall 是否为 jsr/jsr_w
func (i *Info) IsSubroutineCall() bool {
	return i.Code == OpJsr || i.Code == OpJsrW
}

// IsReturn 是否为返回指令
func (i *Info) IsReturn() bool {
	return i.Code >= OpIreturn && i.Code <= OpReturn
}

// EndsBlock 执行后不会顺序落到下一条指令
func (i *Info) EndsBlock() bool {
	switch i.Code {
	case OpGoto, OpGotoW, OpAthrow, OpRet, OpTableswitch, OpLookupswitch:
		return true
	}
	return i.IsReturn()
}

// HasVariableEffect 栈效果是否取决于操作数
func (i *Info) HasVariableEffect() bool {
	return i.Pop < 0 || i.Push < 0
}

// Effect 计算指令的栈效果（以槽计）
//
// desc 为字段或方法描述符，dims 为 multianewarray 的维数；固定效果的指令忽略这两个参数。
func (i *Info) Effect(desc string, dims int) (pop, push int, err error) {
	if !i.HasVariableEffect() {
		return i.Pop, i.Push, nil
	}

	switch i.Code {
	case OpGetstatic, OpPutstatic, OpGetfield, OpPutfield:
		size, err := FieldSlots(desc)
		if err != nil {
			return 0, 0, err
		}
		switch i.Code {
		case OpGetstatic:
			return 0, size, nil
		case OpPutstatic:
			return size, 0, nil
		case OpGetfield:
			return 1, size, nil
		default:
			return 1 + size, 0, nil
		}

	case OpInvokevirtual, OpInvokespecial, OpInvokestatic, OpInvokeinterface, OpInvokedynamic:
		args, ret, err := MethodSlots(desc)
		if err != nil {
			return 0, 0, err
		}
		if i.Code != OpInvokestatic && i.Code != OpInvokedynamic {
			args++ // this
		}
		return args, ret, nil

	case OpMultianewarray:
		return dims, 1, nil
	}

	return 0, 0, fmt.Errorf("no stack effect for %s", i.Name)
}

// ============================================================================
// 局部变量
// ============================================================================

// ImplicitLocal 返回 xload_n/xstore_n 隐含的局部变量索引
func ImplicitLocal(op Opcode) (int, bool) {
	switch {
	case op >= OpIload0 && op <= OpAload3:
		return int(op-OpIload0) % 4, true
	case op >= OpIstore0 && op <= OpAstore3:
		return int(op-OpIstore0) % 4, true
	}
	return 0, false
}

// LocalWidth 返回局部变量指令访问的槽宽，long/double 为 2
func LocalWidth(op Opcode) int {
	switch op {
	case OpLload, OpDload, OpLstore, OpDstore:
		return 2
	}
	switch {
	case op >= OpIload0 && op <= OpAload3:
		if group := (op - OpIload0) / 4; group == 1 || group == 3 {
			return 2
		}
	case op >= OpIstore0 && op <= OpAstore3:
		if group := (op - OpIstore0) / 4; group == 1 || group == 3 {
			return 2
		}
	}
	return 1
}

// ============================================================================
// newarray 基本类型
// ============================================================================

// ArrayTypes newarray 的元素类型编码
var ArrayTypes = map[string]byte{
	"boolean": 4,
	"char":    5,
	"float":   6,
	"double":  7,
	"byte":    8,
	"short":   9,
	"int":     10,
	"long":    11,
}

// ArrayTypeName 返回 newarray 类型编码对应的名称
func ArrayTypeName(code byte) (string, bool) {
	for name, c := range ArrayTypes {
		if c == code {
			return name, true
		}
	}
	return "", false
}
