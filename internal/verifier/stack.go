package verifier

import (
	"github.com/tangzhangming/jasm/internal/bytecode"
	"github.com/tangzhangming/jasm/internal/classfile"
	jerrors "github.com/tangzhangming/jasm/internal/errors"
	"github.com/tangzhangming/jasm/internal/i18n"
)

// ============================================================================
// 栈深度模拟
// ============================================================================

// checkStack 沿控制流模拟操作数栈深度
//
// 每条可达指令的入口深度在所有路径上一致，且不超过 max_stack；
// 可达指令不能顺序执行到 code 末尾之后。
func (cc *codeChecker) checkStack() error {
	n := len(cc.instrs)
	limit := int(cc.attr.MaxStack)
	depth := make([]int, n)
	for i := range depth {
		depth[i] = -1
	}

	var work []int
	enter := func(i, d int) error {
		ins := cc.instrs[i]
		if d > limit {
			return cc.fail(jerrors.E0405, ins.Offset, i18n.T(i18n.ErrStackOverflow, d, limit))
		}
		switch depth[i] {
		case -1:
			depth[i] = d
			work = append(work, i)
		case d:
		default:
			return cc.fail(jerrors.E0405, ins.Offset, i18n.T(i18n.ErrStackMismatch, d, depth[i]))
		}
		return nil
	}
	jump := func(target, d int) error {
		return enter(cc.at[target], d)
	}

	if err := enter(0, 0); err != nil {
		return err
	}
	for _, h := range cc.attr.ExceptionTable {
		if err := jump(int(h.HandlerPC), 1); err != nil {
			return err
		}
	}

	for len(work) > 0 {
		i := work[len(work)-1]
		work = work[:len(work)-1]
		ins := cc.instrs[i]
		in := depth[i]

		pop, push, err := cc.effect(ins)
		if err != nil {
			return err
		}
		if pop > in {
			return cc.fail(jerrors.E0405, ins.Offset, i18n.T(i18n.ErrStackUnderflowV))
		}
		out := in - pop + push
		if out > limit {
			return cc.fail(jerrors.E0405, ins.Offset, i18n.T(i18n.ErrStackOverflow, out, limit))
		}

		next := in
		if !ins.Info.IsSubroutineCall() {
			next = out
			for _, target := range ins.Targets {
				if err := jump(target, out); err != nil {
					return err
				}
			}
		} else if err := jump(ins.Targets[0], out); err != nil {
			return err
		}

		if ins.Info.EndsBlock() {
			continue
		}
		if i+1 >= n {
			return cc.fail(jerrors.E0404, ins.Offset, i18n.T(i18n.ErrFallOffCode))
		}
		if err := enter(i+1, next); err != nil {
			return err
		}
	}
	return nil
}

// effect 返回指令的栈效果，描述符从常量池取
func (cc *codeChecker) effect(ins *bytecode.Instruction) (pop, push int, err error) {
	info := ins.Info
	if !info.HasVariableEffect() {
		return info.Pop, info.Push, nil
	}

	cf := cc.c.cf
	desc := ""
	switch info.Format {
	case bytecode.FormatField, bytecode.FormatMethod, bytecode.FormatInterface:
		e, perr := cf.Entry(ins.Index)
		if perr != nil {
			return 0, 0, poolError(perr).InMethod(cc.sig).AtOffset(ins.Offset)
		}
		_, _, desc, perr = cf.MemberRef(ins.Index, e.Tag())
		if perr != nil {
			return 0, 0, poolError(perr).InMethod(cc.sig).AtOffset(ins.Offset)
		}
	case bytecode.FormatDynamic:
		e, perr := cf.EntryOf(ins.Index, classfile.ConstantInvokeDynamic)
		if perr != nil {
			return 0, 0, poolError(perr).InMethod(cc.sig).AtOffset(ins.Offset)
		}
		_, desc, perr = cf.NameAndType(e.(*classfile.ConstantInvokeDynamicInfo).NameAndTypeIndex)
		if perr != nil {
			return 0, 0, poolError(perr).InMethod(cc.sig).AtOffset(ins.Offset)
		}
	}

	pop, push, err = info.Effect(desc, int(ins.Value))
	if err != nil {
		return 0, 0, jerrors.New(jerrors.E0403, i18n.T(i18n.ErrBadMemberDesc, desc)).
			InMethod(cc.sig).AtOffset(ins.Offset)
	}
	return pop, push, nil
}
