package bytecode

import (
	"encoding/binary"
	"fmt"
)

// ============================================================================
// 指令解码
// ============================================================================

// Instruction 从 code 数组中解码出的一条指令
type Instruction struct {
	Offset int   // 指令起始偏移
	Length int   // 指令总长度（含 wide 前缀与 switch 填充）
	Info   *Info // 操作码信息（wide 前缀时为被修饰的指令）
	Wide   bool  // 是否带 wide 前缀

	Local   int     // 局部变量索引（显式或隐含）
	Value   int32   // bipush/sipush 立即数、iinc 增量、newarray 类型、维数、接口参数个数
	Index   uint16  // 常量池索引
	Targets []int   // 跳转目标（绝对偏移），switch 的 default 排在第一个
	Keys    []int32 // switch 键，与 Targets[1:] 一一对应
}

// DecodeError 解码失败
type DecodeError struct {
	Offset  int
	Message string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("offset %d: %s", e.Offset, e.Message)
}

// Decode 解码 code[pc:] 处的一条指令
func Decode(code []byte, pc int) (*Instruction, error) {
	if pc < 0 || pc >= len(code) {
		return nil, &DecodeError{pc, "offset outside code"}
	}
	info, ok := Get(Opcode(code[pc]))
	if !ok {
		return nil, &DecodeError{pc, fmt.Sprintf("unknown opcode 0x%02x", code[pc])}
	}

	ins := &Instruction{Offset: pc, Info: info, Local: -1}
	if local, ok := ImplicitLocal(info.Code); ok {
		ins.Local = local
	}

	r := codeReader{code: code, pos: pc + 1, start: pc}

	switch info.Format {
	case FormatNone:
	case FormatLocal:
		ins.Local = int(r.u1())
	case FormatIinc:
		ins.Local = int(r.u1())
		ins.Value = int32(int8(r.u1()))
	case FormatByte:
		ins.Value = int32(int8(r.u1()))
	case FormatShort:
		ins.Value = int32(int16(r.u2()))
	case FormatNewarray:
		ins.Value = int32(r.u1())
	case FormatLdc:
		ins.Index = uint16(r.u1())
	case FormatLdcW, FormatLdc2W, FormatField, FormatMethod, FormatClass:
		ins.Index = r.u2()
	case FormatInterface:
		ins.Index = r.u2()
		ins.Value = int32(r.u1())
		if r.u1() != 0 {
			r.fail("invokeinterface fourth byte must be zero")
		}
	case FormatDynamic:
		ins.Index = r.u2()
		r.u2()
	case FormatMultianewarray:
		ins.Index = r.u2()
		ins.Value = int32(r.u1())
	case FormatBranch:
		ins.Targets = []int{pc + int(int16(r.u2()))}
	case FormatBranchWide:
		ins.Targets = []int{pc + int(int32(r.u4()))}
	case FormatTableswitch:
		r.align()
		def := int32(r.u4())
		low := int32(r.u4())
		high := int32(r.u4())
		if low > high || int64(high)-int64(low) >= 65536 {
			r.fail(fmt.Sprintf("tableswitch bounds %d..%d", low, high))
			break
		}
		ins.Targets = []int{pc + int(def)}
		for k := int64(low); k <= int64(high) && r.err == nil; k++ {
			ins.Keys = append(ins.Keys, int32(k))
			ins.Targets = append(ins.Targets, pc+int(int32(r.u4())))
		}
	case FormatLookupswitch:
		r.align()
		def := int32(r.u4())
		npairs := int32(r.u4())
		if npairs < 0 || npairs > 65535 {
			r.fail(fmt.Sprintf("lookupswitch pair count %d", npairs))
			break
		}
		ins.Targets = []int{pc + int(def)}
		for n := int32(0); n < npairs && r.err == nil; n++ {
			ins.Keys = append(ins.Keys, int32(r.u4()))
			ins.Targets = append(ins.Targets, pc+int(int32(r.u4())))
		}
	case FormatWide:
		return decodeWide(code, pc)
	}

	if r.err != nil {
		return nil, r.err
	}
	ins.Length = r.pos - pc
	return ins, nil
}

// decodeWide 解码 wide 前缀修饰的指令
func decodeWide(code []byte, pc int) (*Instruction, error) {
	r := codeReader{code: code, pos: pc + 1, start: pc}
	op := Opcode(r.u1())
	if r.err != nil {
		return nil, r.err
	}
	info, ok := Get(op)
	if !ok || (info.Format != FormatLocal && info.Format != FormatIinc) {
		return nil, &DecodeError{pc, fmt.Sprintf("wide cannot modify %s", op)}
	}

	ins := &Instruction{Offset: pc, Info: info, Wide: true}
	ins.Local = int(r.u2())
	if info.Format == FormatIinc {
		ins.Value = int32(int16(r.u2()))
	}
	if r.err != nil {
		return nil, r.err
	}
	ins.Length = r.pos - pc
	return ins, nil
}

// codeReader 带越界检查的大端读取器，第一次越界后保持错误状态
type codeReader struct {
	code  []byte
	pos   int
	start int
	err   error
}

func (r *codeReader) need(n int) bool {
	if r.err != nil {
		return false
	}
	if r.pos+n > len(r.code) {
		r.fail("instruction truncated")
		return false
	}
	return true
}

func (r *codeReader) fail(msg string) {
	if r.err == nil {
		r.err = &DecodeError{r.start, msg}
	}
}

func (r *codeReader) u1() byte {
	if !r.need(1) {
		return 0
	}
	b := r.code[r.pos]
	r.pos++
	return b
}

func (r *codeReader) u2() uint16 {
	if !r.need(2) {
		return 0
	}
	v := binary.BigEndian.Uint16(r.code[r.pos:])
	r.pos += 2
	return v
}

func (r *codeReader) u4() uint32 {
	if !r.need(4) {
		return 0
	}
	v := binary.BigEndian.Uint32(r.code[r.pos:])
	r.pos += 4
	return v
}

// align 跳过 switch 的填充字节，使下一个读取位置相对 code 起点 4 字节对齐
func (r *codeReader) align() {
	for r.pos%4 != 0 && r.err == nil {
		if r.u1() != 0 {
			r.fail("switch padding must be zero")
		}
	}
}

// SwitchPadding 返回 pc 处 switch 指令的填充字节数
func SwitchPadding(pc int) int {
	return (4 - (pc+1)%4) % 4
}
