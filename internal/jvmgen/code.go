package jvmgen

import (
	"math"
	"sort"

	"github.com/tangzhangming/jasm/internal/ast"
	"github.com/tangzhangming/jasm/internal/bytecode"
	"github.com/tangzhangming/jasm/internal/classfile"
	jerrors "github.com/tangzhangming/jasm/internal/errors"
	"github.com/tangzhangming/jasm/internal/i18n"
)

// ============================================================================
// 方法体汇编
// ============================================================================
//
// 汇编分两遍：
//   1. 布局：确定每条指令的形式（ldc/ldc_w、是否加 wide）与字节偏移
//   2. 编码：把标签解析为相对偏移并写出字节
//
// 跳转指令的宽度从不改变，所以布局一遍即可定型。
//
// ============================================================================

// assembler 单个方法的汇编状态
type assembler struct {
	g       *Generator
	m       *ast.MethodDecl
	sig     string
	offsets []int    // 指令下标 → 字节偏移，offsets[n] 为代码长度
	indexes []uint16 // 指令引用的常量池索引
	wide    []bool   // 是否使用 wide 前缀或 ldc_w
	code    *classfile.ByteWriter
}

func newAssembler(g *Generator, m *ast.MethodDecl) *assembler {
	n := len(m.Instructions)
	return &assembler{
		g:       g,
		m:       m,
		sig:     m.Signature(),
		offsets: make([]int, n+1),
		indexes: make([]uint16, n),
		wide:    make([]bool, n),
		code:    classfile.NewByteWriter(),
	}
}

// assemble 生成 Code 属性
func (a *assembler) assemble() (*classfile.CodeAttribute, error) {
	m := a.m
	if len(m.Instructions) == 0 {
		return nil, a.errorAt(jerrors.E0305, m.Line, i18n.T(i18n.ErrEmptyCode, a.sig))
	}

	if err := a.layout(); err != nil {
		return nil, err
	}
	for i := range m.Instructions {
		if err := a.encode(i); err != nil {
			return nil, err
		}
	}

	table, err := a.exceptionTable()
	if err != nil {
		return nil, err
	}

	maxStack := m.MaxStack
	if maxStack < 0 {
		if maxStack, err = a.computeMaxStack(); err != nil {
			return nil, err
		}
	}
	maxLocals := m.MaxLocals
	if maxLocals < 0 {
		maxLocals = a.computeMaxLocals()
	}
	if maxStack > math.MaxUint16 {
		return nil, a.errorAt(jerrors.E0302, m.Line, i18n.T(i18n.ErrLimitTooLarge, "stack", maxStack))
	}
	if maxLocals > math.MaxUint16 {
		return nil, a.errorAt(jerrors.E0302, m.Line, i18n.T(i18n.ErrLimitTooLarge, "locals", maxLocals))
	}

	attr := &classfile.CodeAttribute{
		MaxStack:       uint16(maxStack),
		MaxLocals:      uint16(maxLocals),
		Code:           a.code.Bytes(),
		ExceptionTable: table,
	}
	if attr.Attributes, err = a.debugAttributes(); err != nil {
		return nil, err
	}
	return attr, nil
}

// ============================================================================
// 布局
// ============================================================================

// layout 计算每条指令的字节偏移
func (a *assembler) layout() error {
	pc := 0
	for i, ins := range a.m.Instructions {
		a.offsets[i] = pc
		size, err := a.size(i, ins, pc)
		if err != nil {
			return err
		}
		pc += size
	}
	n := len(a.m.Instructions)
	a.offsets[n] = pc
	if pc > classfile.MaxCodeLength {
		return a.errorAt(jerrors.E0301, a.m.Line, i18n.T(i18n.ErrCodeTooLong, pc))
	}
	return nil
}

// size 返回指令在 pc 处的编码长度，同时确定 ldc_w 与 wide 的选择
func (a *assembler) size(i int, ins *ast.Instruction, pc int) (int, error) {
	pool := a.g.pool
	var err error

	switch ins.Op.Format {
	case bytecode.FormatLocal:
		if ins.Local > math.MaxUint8 {
			a.wide[i] = true
			return 4, nil
		}
		return 2, nil

	case bytecode.FormatIinc:
		if ins.Local > math.MaxUint8 || ins.Int < math.MinInt8 || ins.Int > math.MaxInt8 {
			a.wide[i] = true
			return 6, nil
		}
		return 3, nil

	case bytecode.FormatLdc:
		if a.indexes[i], err = pool.Constant(ins.Const); err != nil {
			return 0, a.instrError(err, ins)
		}
		if a.indexes[i] > math.MaxUint8 {
			a.wide[i] = true
			return 3, nil
		}
		return 2, nil

	case bytecode.FormatLdcW, bytecode.FormatLdc2W:
		a.indexes[i], err = pool.Constant(ins.Const)
	case bytecode.FormatField:
		a.indexes[i], err = pool.Fieldref(ins.Ref.Owner, ins.Ref.Name, ins.Ref.Descriptor)
	case bytecode.FormatMethod:
		a.indexes[i], err = pool.Methodref(ins.Ref.Owner, ins.Ref.Name, ins.Ref.Descriptor)
	case bytecode.FormatInterface:
		a.indexes[i], err = pool.InterfaceMethodref(ins.Ref.Owner, ins.Ref.Name, ins.Ref.Descriptor)
	case bytecode.FormatClass, bytecode.FormatMultianewarray:
		a.indexes[i], err = pool.Class(ins.Class)

	case bytecode.FormatTableswitch:
		return 1 + bytecode.SwitchPadding(pc) + 12 + 4*len(ins.Cases), nil
	case bytecode.FormatLookupswitch:
		return 1 + bytecode.SwitchPadding(pc) + 8 + 8*len(ins.Cases), nil

	case bytecode.FormatWide, bytecode.FormatDynamic:
		return 0, a.errorAt(jerrors.E0202, ins.Line, i18n.T(i18n.ErrBadInstrOperand, ins.Op.Name))
	}
	if err != nil {
		return 0, a.instrError(err, ins)
	}
	return ins.Op.Format.Size(), nil
}

// ============================================================================
// 编码
// ============================================================================

// encode 写出第 i 条指令
func (a *assembler) encode(i int) error {
	ins := a.m.Instructions[i]
	w := a.code
	pc := a.offsets[i]
	op := byte(ins.Op.Code)

	switch ins.Op.Format {
	case bytecode.FormatNone:
		w.WriteU8(op)

	case bytecode.FormatLocal:
		if a.wide[i] {
			w.WriteU8(byte(bytecode.OpWide))
			w.WriteU8(op)
			w.WriteU16(uint16(ins.Local))
		} else {
			w.WriteU8(op)
			w.WriteU8(uint8(ins.Local))
		}

	case bytecode.FormatIinc:
		if a.wide[i] {
			w.WriteU8(byte(bytecode.OpWide))
			w.WriteU8(op)
			w.WriteU16(uint16(ins.Local))
			w.WriteI16(int16(ins.Int))
		} else {
			w.WriteU8(op)
			w.WriteU8(uint8(ins.Local))
			w.WriteU8(uint8(int8(ins.Int)))
		}

	case bytecode.FormatByte:
		w.WriteU8(op)
		w.WriteU8(uint8(int8(ins.Int)))

	case bytecode.FormatShort:
		w.WriteU8(op)
		w.WriteI16(int16(ins.Int))

	case bytecode.FormatNewarray:
		w.WriteU8(op)
		w.WriteU8(uint8(ins.Int))

	case bytecode.FormatLdc:
		if a.wide[i] {
			w.WriteU8(byte(bytecode.OpLdcW))
			w.WriteU16(a.indexes[i])
		} else {
			w.WriteU8(op)
			w.WriteU8(uint8(a.indexes[i]))
		}

	case bytecode.FormatLdcW, bytecode.FormatLdc2W, bytecode.FormatField,
		bytecode.FormatMethod, bytecode.FormatClass:
		w.WriteU8(op)
		w.WriteU16(a.indexes[i])

	case bytecode.FormatInterface:
		w.WriteU8(op)
		w.WriteU16(a.indexes[i])
		w.WriteU8(uint8(ins.Int))
		w.WriteU8(0)

	case bytecode.FormatMultianewarray:
		w.WriteU8(op)
		w.WriteU16(a.indexes[i])
		w.WriteU8(uint8(ins.Int))

	case bytecode.FormatBranch:
		off, err := a.branchOffset(pc, ins, ins.Target)
		if err != nil {
			return err
		}
		if off < math.MinInt16 || off > math.MaxInt16 {
			return a.errorAt(jerrors.E0300, ins.Line, i18n.T(i18n.ErrBranchRange, off)).
				AtOffset(pc).
				WithHint(i18n.T(i18n.HintUseWideBranch))
		}
		w.WriteU8(op)
		w.WriteI16(int16(off))

	case bytecode.FormatBranchWide:
		off, err := a.branchOffset(pc, ins, ins.Target)
		if err != nil {
			return err
		}
		w.WriteU8(op)
		w.WriteI32(int32(off))

	case bytecode.FormatTableswitch:
		w.WriteU8(op)
		w.Pad(bytecode.SwitchPadding(pc))
		def, err := a.branchOffset(pc, ins, ins.Default)
		if err != nil {
			return err
		}
		w.WriteI32(int32(def))
		w.WriteI32(ins.Low)
		w.WriteI32(ins.Low + int32(len(ins.Cases)) - 1)
		for _, c := range ins.Cases {
			off, err := a.branchOffset(pc, ins, c.Label)
			if err != nil {
				return err
			}
			w.WriteI32(int32(off))
		}

	case bytecode.FormatLookupswitch:
		w.WriteU8(op)
		w.Pad(bytecode.SwitchPadding(pc))
		def, err := a.branchOffset(pc, ins, ins.Default)
		if err != nil {
			return err
		}
		w.WriteI32(int32(def))
		w.WriteI32(int32(len(ins.Cases)))
		cases := append([]ast.SwitchCase(nil), ins.Cases...)
		sort.Slice(cases, func(x, y int) bool { return cases[x].Key < cases[y].Key })
		for _, c := range cases {
			off, err := a.branchOffset(pc, ins, c.Label)
			if err != nil {
				return err
			}
			w.WriteI32(c.Key)
			w.WriteI32(int32(off))
		}
	}
	return nil
}

// branchOffset 返回从 pc 到标签的相对偏移
func (a *assembler) branchOffset(pc int, ins *ast.Instruction, ref *ast.LabelRef) (int, error) {
	if ref.Target >= len(a.m.Instructions) {
		return 0, a.errorAt(jerrors.E0300, ref.Line, i18n.T(i18n.ErrBranchToEnd, ref.Name)).
			AtOffset(pc)
	}
	if ref.Target < 0 {
		return 0, a.errorAt(jerrors.E0103, ins.Line, i18n.T(i18n.ErrUndefinedLabel, ref.Name))
	}
	return a.offsets[ref.Target] - pc, nil
}

// ============================================================================
// 异常表与调试属性
// ============================================================================

// exceptionTable 生成异常表，catch 类型为空时 catch_type 为 0
func (a *assembler) exceptionTable() ([]classfile.ExceptionEntry, error) {
	var table []classfile.ExceptionEntry
	n := len(a.m.Instructions)
	for _, h := range a.m.Handlers {
		start, end := a.offsets[h.Start.Target], a.offsets[h.End.Target]
		if start >= end {
			return nil, a.errorAt(jerrors.E0304, h.Line, i18n.T(i18n.ErrEmptyRange, h.Start.Name, h.End.Name))
		}
		if h.Handler.Target >= n {
			return nil, a.errorAt(jerrors.E0304, h.Line, i18n.T(i18n.ErrBranchToEnd, h.Handler.Name))
		}
		entry := classfile.ExceptionEntry{
			StartPC:   uint16(start),
			EndPC:     uint16(end),
			HandlerPC: uint16(a.offsets[h.Handler.Target]),
		}
		if h.Type != "" {
			idx, err := a.g.pool.Class(h.Type)
			if err != nil {
				return nil, a.located(err, h.Line)
			}
			entry.CatchType = idx
		}
		table = append(table, entry)
	}
	return table, nil
}

// debugAttributes 生成 LineNumberTable 与 LocalVariableTable
func (a *assembler) debugAttributes() ([]classfile.AttributeInfo, error) {
	pool := a.g.pool
	var attrs []classfile.AttributeInfo

	if lines := a.m.LineEntries(); len(lines) > 0 {
		name, err := pool.Utf8(classfile.AttrLineNumberTable)
		if err != nil {
			return nil, a.located(err, a.m.Line)
		}
		entries := make([]classfile.LineNumberEntry, 0, len(lines))
		for _, ln := range lines {
			entries = append(entries, classfile.LineNumberEntry{
				StartPC: uint16(a.offsets[ln.Index]),
				Line:    uint16(ln.Line),
			})
		}
		attrs = append(attrs, classfile.AttributeInfo{NameIndex: name, Info: classfile.EncodeLineNumberTable(entries)})
	}

	if len(a.m.Vars) > 0 {
		name, err := pool.Utf8(classfile.AttrLocalVariableTable)
		if err != nil {
			return nil, a.located(err, a.m.Line)
		}
		codeLen := a.offsets[len(a.m.Instructions)]
		entries := make([]classfile.LocalVariableEntry, 0, len(a.m.Vars))
		for _, v := range a.m.Vars {
			start, end := 0, codeLen
			if v.Start != nil {
				start = a.offsets[v.Start.Target]
			}
			if v.End != nil {
				end = a.offsets[v.End.Target]
			}
			if start > end {
				return nil, a.errorAt(jerrors.E0304, v.Line, i18n.T(i18n.ErrEmptyRange, v.Start.Name, v.End.Name))
			}
			nameIdx, err := pool.Utf8(v.Name)
			if err != nil {
				return nil, a.located(err, v.Line)
			}
			descIdx, err := pool.Utf8(v.Descriptor)
			if err != nil {
				return nil, a.located(err, v.Line)
			}
			entries = append(entries, classfile.LocalVariableEntry{
				StartPC:         uint16(start),
				Length:          uint16(end - start),
				NameIndex:       nameIdx,
				DescriptorIndex: descIdx,
				Index:           uint16(v.Index),
			})
		}
		attrs = append(attrs, classfile.AttributeInfo{NameIndex: name, Info: classfile.EncodeLocalVariableTable(entries)})
	}
	return attrs, nil
}

// ============================================================================
// 错误
// ============================================================================

func (a *assembler) errorAt(code string, line int, msg string) *jerrors.CompileError {
	return jerrors.New(code, msg).At(a.g.unit.Source, line, 1).InMethod(a.sig)
}

func (a *assembler) instrError(err error, ins *ast.Instruction) error {
	return a.located(err, ins.Line)
}

func (a *assembler) located(err error, line int) error {
	if ce, ok := jerrors.As(err); ok && ce.Line == 0 {
		ce.At(a.g.unit.Source, line, 1).InMethod(a.sig)
	}
	return err
}
