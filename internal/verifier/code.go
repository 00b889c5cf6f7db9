package verifier

import (
	stderrors "errors"
	"strconv"
	"strings"

	"github.com/tangzhangming/jasm/internal/ast"
	"github.com/tangzhangming/jasm/internal/bytecode"
	"github.com/tangzhangming/jasm/internal/classfile"
	jerrors "github.com/tangzhangming/jasm/internal/errors"
	"github.com/tangzhangming/jasm/internal/i18n"
)

// ============================================================================
// Code 属性校验
// ============================================================================

// codeChecker 单个方法 Code 属性的校验状态
type codeChecker struct {
	c      *checker
	sig    string
	attr   *classfile.CodeAttribute
	instrs []*bytecode.Instruction
	at     map[int]int // 字节偏移 → 指令下标
}

func (c *checker) checkCode(m *classfile.MemberInfo, info classfile.AttributeInfo, sig, desc string) error {
	attr, err := classfile.ParseCode(info.Info)
	if err != nil {
		return truncated(classfile.AttrCode).InMethod(sig)
	}
	cc := &codeChecker{c: c, sig: sig, attr: attr, at: make(map[int]int)}

	n := len(attr.Code)
	if n == 0 || n > classfile.MaxCodeLength {
		return cc.fail(jerrors.E0404, -1, i18n.T(i18n.ErrBadInstruction, "code length "+strconv.Itoa(n)))
	}
	args, _, _ := bytecode.MethodSlots(desc)
	if m.AccessFlags&ast.AccStatic == 0 {
		args++
	}
	if args > int(attr.MaxLocals) {
		return cc.fail(jerrors.E0404, -1, i18n.T(i18n.ErrBadLocalIndex, args-1, attr.MaxLocals))
	}

	if err := cc.decode(); err != nil {
		return err
	}
	for _, ins := range cc.instrs {
		if err := cc.checkInstruction(ins); err != nil {
			return err
		}
	}
	if err := cc.checkHandlers(); err != nil {
		return err
	}
	if err := cc.checkStack(); err != nil {
		return err
	}
	return cc.checkDebugAttributes()
}

// decode 从偏移 0 开始逐条解码，确定指令边界
func (cc *codeChecker) decode() error {
	code := cc.attr.Code
	for pc := 0; pc < len(code); {
		ins, err := bytecode.Decode(code, pc)
		if err != nil {
			msg := err.Error()
			if de, ok := err.(*bytecode.DecodeError); ok {
				msg = de.Message
			}
			return cc.fail(jerrors.E0404, pc, i18n.T(i18n.ErrBadInstruction, msg))
		}
		cc.at[pc] = len(cc.instrs)
		cc.instrs = append(cc.instrs, ins)
		pc += ins.Length
	}
	return nil
}

// checkInstruction 检查操作数：常量池条目类型、局部变量范围、跳转目标
func (cc *codeChecker) checkInstruction(ins *bytecode.Instruction) error {
	cf := cc.c.cf
	op := ins.Info.Code
	pc := ins.Offset

	if ins.Local >= 0 {
		width := bytecode.LocalWidth(op)
		if ins.Info.Format == bytecode.FormatIinc || op == bytecode.OpRet {
			width = 1
		}
		if ins.Local+width > int(cc.attr.MaxLocals) {
			return cc.fail(jerrors.E0404, pc, i18n.T(i18n.ErrBadLocalIndex, ins.Local, cc.attr.MaxLocals))
		}
	}

	for _, target := range ins.Targets {
		if _, ok := cc.at[target]; !ok {
			return cc.fail(jerrors.E0404, pc, i18n.T(i18n.ErrBadBranchTarget, target))
		}
	}

	var err error
	switch ins.Info.Format {
	case bytecode.FormatLdc, bytecode.FormatLdcW:
		if err = cc.entryOneOf(ins.Index, ldcTags(cf.MajorVersion)...); err != nil {
			ce := poolError(err).InMethod(cc.sig).AtOffset(pc)
			var pe *classfile.PoolError
			if stderrors.As(err, &pe) && ldcNeedsNewerVersion(pe.Got) {
				ce.WithHint(i18n.T(i18n.HintLdcVersion))
			}
			return ce
		}
	case bytecode.FormatLdc2W:
		err = cc.entryOneOf(ins.Index, classfile.ConstantLong, classfile.ConstantDouble)
	case bytecode.FormatField:
		_, _, _, err = cf.MemberRef(ins.Index, classfile.ConstantFieldref)
	case bytecode.FormatMethod:
		return cc.checkInvoke(ins)
	case bytecode.FormatInterface:
		return cc.checkInvoke(ins)
	case bytecode.FormatDynamic:
		_, err = cf.EntryOf(ins.Index, classfile.ConstantInvokeDynamic)
	case bytecode.FormatClass:
		var name string
		if name, err = cf.ClassName(ins.Index); err == nil && op == bytecode.OpNew && strings.HasPrefix(name, "[") {
			return cc.fail(jerrors.E0404, pc, i18n.T(i18n.ErrBadInstruction, "new cannot create array "+name))
		}
	case bytecode.FormatMultianewarray:
		var name string
		if name, err = cf.ClassName(ins.Index); err == nil {
			dims := len(name) - len(strings.TrimLeft(name, "["))
			if ins.Value < 1 || int(ins.Value) > dims {
				return cc.fail(jerrors.E0404, pc, i18n.T(i18n.ErrBadInstruction,
					"multianewarray "+name+" with "+strconv.Itoa(int(ins.Value))+" dimensions"))
			}
		}
	case bytecode.FormatNewarray:
		if _, ok := bytecode.ArrayTypeName(byte(ins.Value)); !ok {
			return cc.fail(jerrors.E0404, pc, i18n.T(i18n.ErrBadInstruction, "newarray type "+strconv.Itoa(int(ins.Value))))
		}
	}
	if err != nil {
		return poolError(err).InMethod(cc.sig).AtOffset(pc)
	}
	return nil
}

// checkInvoke 检查调用指令引用的方法
func (cc *codeChecker) checkInvoke(ins *bytecode.Instruction) error {
	cf := cc.c.cf
	op := ins.Info.Code
	tag := uint8(classfile.ConstantMethodref)
	if op == bytecode.OpInvokeinterface {
		tag = classfile.ConstantInterfaceMethodref
	} else if (op == bytecode.OpInvokespecial || op == bytecode.OpInvokestatic) && cf.MajorVersion >= defaultMethodsVersion {
		if e, err := cf.Entry(ins.Index); err == nil && e.Tag() == classfile.ConstantInterfaceMethodref {
			tag = classfile.ConstantInterfaceMethodref
		}
	}

	_, name, desc, err := cf.MemberRef(ins.Index, tag)
	if err != nil {
		return poolError(err).InMethod(cc.sig).AtOffset(ins.Offset)
	}
	if name == "<clinit>" || (name == "<init>" && op != bytecode.OpInvokespecial) {
		return cc.fail(jerrors.E0404, ins.Offset, i18n.T(i18n.ErrBadInstruction, op.String()+" cannot call "+name))
	}
	if op == bytecode.OpInvokeinterface {
		args, _, _ := bytecode.MethodSlots(desc)
		if int(ins.Value) != args+1 {
			return cc.fail(jerrors.E0404, ins.Offset, i18n.T(i18n.ErrBadInstruction,
				"invokeinterface count "+strconv.Itoa(int(ins.Value))+", expected "+strconv.Itoa(args+1)))
		}
	}
	return nil
}

func (cc *codeChecker) entryOneOf(index uint16, tags ...uint8) error {
	e, err := cc.c.cf.Entry(index)
	if err != nil {
		return err
	}
	for _, tag := range tags {
		if e.Tag() == tag {
			return nil
		}
	}
	return &classfile.PoolError{Index: int(index), Got: e.Tag(), Want: tags[0]}
}

// ldcTags 返回该版本下 ldc/ldc_w 可以加载的常量类型
// Class 从 49 开始允许，MethodType 和 MethodHandle 从 51 开始允许
func ldcTags(major uint16) []uint8 {
	tags := []uint8{classfile.ConstantInteger, classfile.ConstantFloat, classfile.ConstantString}
	if major >= 49 {
		tags = append(tags, classfile.ConstantClass)
	}
	if major >= 51 {
		tags = append(tags, classfile.ConstantMethodType, classfile.ConstantMethodHandle)
	}
	return tags
}

func ldcNeedsNewerVersion(tag uint8) bool {
	return tag == classfile.ConstantClass || tag == classfile.ConstantMethodType || tag == classfile.ConstantMethodHandle
}

// checkHandlers 检查异常表：范围非空且落在指令边界上
func (cc *codeChecker) checkHandlers() error {
	n := len(cc.attr.Code)
	for _, h := range cc.attr.ExceptionTable {
		start, end, handler := int(h.StartPC), int(h.EndPC), int(h.HandlerPC)
		_, startOK := cc.at[start]
		_, endOK := cc.at[end]
		_, handlerOK := cc.at[handler]
		switch {
		case start >= end:
			return cc.fail(jerrors.E0404, start, i18n.T(i18n.ErrBadHandler,
				"empty range "+strconv.Itoa(start)+".."+strconv.Itoa(end)))
		case !startOK || !(endOK || end == n):
			return cc.fail(jerrors.E0404, start, i18n.T(i18n.ErrBadHandler,
				"range "+strconv.Itoa(start)+".."+strconv.Itoa(end)+" is not on instruction boundaries"))
		case !handlerOK:
			return cc.fail(jerrors.E0404, handler, i18n.T(i18n.ErrBadHandler,
				"handler "+strconv.Itoa(handler)+" is not an instruction boundary"))
		}
		if h.CatchType != 0 {
			if _, err := cc.c.cf.ClassName(h.CatchType); err != nil {
				return poolError(err).InMethod(cc.sig).AtOffset(handler)
			}
		}
	}
	return nil
}

// checkDebugAttributes 检查 LineNumberTable 与 LocalVariableTable 的范围
func (cc *codeChecker) checkDebugAttributes() error {
	cf := cc.c.cf
	n := len(cc.attr.Code)
	if attr, ok := cf.FindAttribute(cc.attr.Attributes, classfile.AttrLineNumberTable); ok {
		lines, err := classfile.ParseLineNumberTable(attr.Info)
		if err != nil {
			return truncated(classfile.AttrLineNumberTable).InMethod(cc.sig)
		}
		for _, ln := range lines {
			if _, ok := cc.at[int(ln.StartPC)]; !ok {
				return cc.fail(jerrors.E0404, int(ln.StartPC), i18n.T(i18n.ErrBadInstruction,
					"line number entry "+strconv.Itoa(int(ln.StartPC))+" is not an instruction boundary"))
			}
		}
	}
	if attr, ok := cf.FindAttribute(cc.attr.Attributes, classfile.AttrLocalVariableTable); ok {
		vars, err := classfile.ParseLocalVariableTable(attr.Info)
		if err != nil {
			return truncated(classfile.AttrLocalVariableTable).InMethod(cc.sig)
		}
		for _, v := range vars {
			if int(v.StartPC)+int(v.Length) > n {
				return cc.fail(jerrors.E0404, int(v.StartPC), i18n.T(i18n.ErrBadHandler,
					"local variable range exceeds code length"))
			}
			if _, err := cf.Utf8(v.NameIndex); err != nil {
				return poolError(err).InMethod(cc.sig)
			}
			desc, err := cf.Utf8(v.DescriptorIndex)
			if err != nil {
				return poolError(err).InMethod(cc.sig)
			}
			width, err := bytecode.FieldSlots(desc)
			if err != nil {
				return jerrors.New(jerrors.E0403, i18n.T(i18n.ErrBadMemberDesc, desc)).InMethod(cc.sig)
			}
			if int(v.Index)+width > int(cc.attr.MaxLocals) {
				return cc.fail(jerrors.E0404, int(v.StartPC), i18n.T(i18n.ErrBadLocalIndex, v.Index, cc.attr.MaxLocals))
			}
		}
	}
	return nil
}

func (cc *codeChecker) fail(code string, offset int, msg string) *jerrors.CompileError {
	return jerrors.New(code, msg).InMethod(cc.sig).AtOffset(offset)
}
