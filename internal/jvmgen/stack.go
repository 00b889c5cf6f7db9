package jvmgen

import (
	"github.com/tangzhangming/jasm/internal/ast"
	"github.com/tangzhangming/jasm/internal/bytecode"
	jerrors "github.com/tangzhangming/jasm/internal/errors"
	"github.com/tangzhangming/jasm/internal/i18n"
)

// ============================================================================
// max_stack
// ============================================================================

// computeMaxStack 沿控制流传播栈深度，返回最大深度
//
// 同一条指令从不同路径到达时深度必须相同；不可达的指令不参与计算。
func (a *assembler) computeMaxStack() (int, error) {
	instrs := a.m.Instructions
	n := len(instrs)
	depth := make([]int, n)
	for i := range depth {
		depth[i] = -1
	}

	var work []int
	deepest := 0
	visit := func(from, to, d int) error {
		if to < 0 || to >= n {
			return nil
		}
		switch depth[to] {
		case -1:
			depth[to] = d
			work = append(work, to)
		case d:
		default:
			return a.errorAt(jerrors.E0302, instrs[from].Line,
				i18n.T(i18n.ErrStackHeight, to, depth[to], d)).AtOffset(a.offsets[to])
		}
		if d > deepest {
			deepest = d
		}
		return nil
	}

	if err := visit(0, 0, 0); err != nil {
		return 0, err
	}
	for _, h := range a.m.Handlers {
		if err := visit(0, h.Handler.Target, 1); err != nil {
			return 0, err
		}
	}

	for len(work) > 0 {
		i := work[len(work)-1]
		work = work[:len(work)-1]
		ins := instrs[i]
		in := depth[i]

		desc := ""
		if ins.Ref != nil {
			desc = ins.Ref.Descriptor
		}
		pop, push, err := ins.Op.Effect(desc, int(ins.Int))
		if err != nil {
			return 0, a.errorAt(jerrors.E0202, ins.Line, i18n.T(i18n.ErrBadInstrOperand, ins.Op.Name))
		}
		if pop > in {
			return 0, a.errorAt(jerrors.E0303, ins.Line,
				i18n.T(i18n.ErrStackUnderflow, ins.Op.Name, pop, in)).AtOffset(a.offsets[i])
		}
		out := in - pop + push
		if out > deepest {
			deepest = out
		}

		switch {
		case ins.Op.IsSubroutineCall():
			// jsr 把返回地址压栈后跳转，ret 回到下一条指令时返回地址已弹出
			if err := visit(i, ins.Target.Target, out); err != nil {
				return 0, err
			}
			if err := visit(i, i+1, in); err != nil {
				return 0, err
			}
			continue
		case ins.Op.IsBranch():
			if err := visit(i, ins.Target.Target, out); err != nil {
				return 0, err
			}
		case ins.Op.IsSwitch():
			if err := visit(i, ins.Default.Target, out); err != nil {
				return 0, err
			}
			for _, c := range ins.Cases {
				if err := visit(i, c.Label.Target, out); err != nil {
					return 0, err
				}
			}
		}
		if !ins.Op.EndsBlock() {
			if err := visit(i, i+1, out); err != nil {
				return 0, err
			}
		}
	}
	return deepest, nil
}

// ============================================================================
// max_locals
// ============================================================================

// computeMaxLocals 取参数槽数与指令、.var 访问到的最大槽位
func (a *assembler) computeMaxLocals() int {
	m := a.m
	limit, _, err := bytecode.MethodSlots(m.Descriptor)
	if err != nil {
		limit = 0
	}
	if !m.IsStatic() {
		limit++
	}

	for _, ins := range m.Instructions {
		if end := localEnd(ins); end > limit {
			limit = end
		}
	}
	for _, v := range m.Vars {
		width, err := bytecode.FieldSlots(v.Descriptor)
		if err != nil {
			width = 1
		}
		if end := v.Index + width; end > limit {
			limit = end
		}
	}
	return limit
}

// localEnd 返回指令访问的最后一个局部变量槽之后的位置，不访问局部变量时为 0
func localEnd(ins *ast.Instruction) int {
	op := ins.Op.Code
	if idx, ok := bytecode.ImplicitLocal(op); ok {
		return idx + bytecode.LocalWidth(op)
	}
	switch ins.Op.Format {
	case bytecode.FormatIinc:
		return ins.Local + 1
	case bytecode.FormatLocal:
		if op == bytecode.OpRet {
			return ins.Local + 1
		}
		return ins.Local + bytecode.LocalWidth(op)
	}
	return 0
}
