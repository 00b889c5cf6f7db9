package classfile

import (
	"fmt"
	"io"
	"strings"

	"github.com/tangzhangming/jasm/internal/ast"
	"github.com/tangzhangming/jasm/internal/bytecode"
)

// ============================================================================
// 反汇编
// ============================================================================

// Disassemble 输出 class 文件的可读形式：头部、常量池、字段与方法代码
func Disassemble(w io.Writer, cf *ClassFile) error {
	var sb strings.Builder

	name, _ := cf.ThisClassName()
	fmt.Fprintf(&sb, "=== class %s (%d.%d) ===\n", name, cf.MajorVersion, cf.MinorVersion)
	fmt.Fprintf(&sb, "flags      0x%04x %s\n", cf.AccessFlags, ast.ClassFlagNames(cf.AccessFlags))
	if super, err := cf.SuperClassName(); err == nil && super != "" {
		fmt.Fprintf(&sb, "super      %s\n", super)
	}
	for _, idx := range cf.Interfaces {
		iface, _ := cf.ClassName(idx)
		fmt.Fprintf(&sb, "implements %s\n", iface)
	}
	for _, a := range cf.Attributes {
		if cf.AttributeName(a) == AttrSourceFile {
			if idx, err := ParseIndex(a.Info); err == nil {
				src, _ := cf.Utf8(idx)
				fmt.Fprintf(&sb, "source     %s\n", src)
			}
		}
	}

	fmt.Fprintf(&sb, "\n=== constant pool (%d) ===\n", len(cf.ConstantPool))
	for i, e := range cf.ConstantPool {
		if e == nil {
			continue
		}
		fmt.Fprintf(&sb, "%5s = %-40s", fmt.Sprintf("#%d", i), e.String())
		if comment := cf.describeEntry(e); comment != "" {
			sb.WriteString(" // ")
			sb.WriteString(comment)
		}
		sb.WriteByte('\n')
	}

	for _, f := range cf.Fields {
		fname, _ := cf.Utf8(f.NameIndex)
		desc, _ := cf.Utf8(f.DescriptorIndex)
		fmt.Fprintf(&sb, "\n=== field %s %s ===\n", fname, desc)
		fmt.Fprintf(&sb, "flags      0x%04x %s\n", f.AccessFlags, ast.FieldFlagNames(f.AccessFlags))
		if a, ok := cf.FindAttribute(f.Attributes, AttrConstantValue); ok {
			if idx, err := ParseIndex(a.Info); err == nil {
				fmt.Fprintf(&sb, "value      #%d '%s'\n", idx, cf.constantText(idx))
			}
		}
	}

	for _, m := range cf.Methods {
		if err := cf.disassembleMethod(&sb, m); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func (cf *ClassFile) disassembleMethod(sb *strings.Builder, m MemberInfo) error {
	mname, _ := cf.Utf8(m.NameIndex)
	desc, _ := cf.Utf8(m.DescriptorIndex)
	fmt.Fprintf(sb, "\n=== method %s%s ===\n", mname, desc)
	fmt.Fprintf(sb, "flags      0x%04x %s\n", m.AccessFlags, ast.MethodFlagNames(m.AccessFlags))

	if a, ok := cf.FindAttribute(m.Attributes, AttrExceptions); ok {
		if idxs, err := ParseIndexList(a.Info); err == nil {
			for _, idx := range idxs {
				cls, _ := cf.ClassName(idx)
				fmt.Fprintf(sb, "throws     %s\n", cls)
			}
		}
	}

	a, ok := cf.FindAttribute(m.Attributes, AttrCode)
	if !ok {
		return nil
	}
	code, err := ParseCode(a.Info)
	if err != nil {
		return fmt.Errorf("method %s%s: %w", mname, desc, err)
	}
	fmt.Fprintf(sb, "stack %d, locals %d, code %d bytes\n", code.MaxStack, code.MaxLocals, len(code.Code))

	lines := make(map[int]int)
	if la, ok := cf.FindAttribute(code.Attributes, AttrLineNumberTable); ok {
		if entries, err := ParseLineNumberTable(la.Info); err == nil {
			for _, e := range entries {
				lines[int(e.StartPC)] = int(e.Line)
			}
		}
	}

	for pc := 0; pc < len(code.Code); {
		ins, err := bytecode.Decode(code.Code, pc)
		if err != nil {
			return fmt.Errorf("method %s%s: %w", mname, desc, err)
		}
		fmt.Fprintf(sb, "%04d ", pc)
		if line, ok := lines[pc]; ok {
			fmt.Fprintf(sb, "%4d ", line)
		} else {
			sb.WriteString("   | ")
		}
		cf.disassembleInstruction(sb, ins)
		pc += ins.Length
	}

	for _, e := range code.ExceptionTable {
		catch := "all"
		if e.CatchType != 0 {
			catch, _ = cf.ClassName(e.CatchType)
		}
		fmt.Fprintf(sb, "catch %s from %04d to %04d using %04d\n", catch, e.StartPC, e.EndPC, e.HandlerPC)
	}

	if va, ok := cf.FindAttribute(code.Attributes, AttrLocalVariableTable); ok {
		if entries, err := ParseLocalVariableTable(va.Info); err == nil {
			for _, e := range entries {
				vname, _ := cf.Utf8(e.NameIndex)
				vdesc, _ := cf.Utf8(e.DescriptorIndex)
				fmt.Fprintf(sb, "var %d is %s %s from %04d to %04d\n",
					e.Index, vname, vdesc, e.StartPC, int(e.StartPC)+int(e.Length))
			}
		}
	}
	return nil
}

func (cf *ClassFile) disassembleInstruction(sb *strings.Builder, ins *bytecode.Instruction) {
	op := ins.Info.Name
	if ins.Wide {
		op = "wide " + op
	}

	switch ins.Info.Format {
	case bytecode.FormatLocal:
		fmt.Fprintf(sb, "%-16s %4d\n", op, ins.Local)
	case bytecode.FormatIinc:
		fmt.Fprintf(sb, "%-16s %4d %d\n", op, ins.Local, ins.Value)
	case bytecode.FormatByte, bytecode.FormatShort:
		fmt.Fprintf(sb, "%-16s %4d\n", op, ins.Value)
	case bytecode.FormatNewarray:
		tname, _ := bytecode.ArrayTypeName(byte(ins.Value))
		fmt.Fprintf(sb, "%-16s %s\n", op, tname)
	case bytecode.FormatLdc, bytecode.FormatLdcW, bytecode.FormatLdc2W,
		bytecode.FormatField, bytecode.FormatMethod, bytecode.FormatClass, bytecode.FormatDynamic:
		fmt.Fprintf(sb, "%-16s %4d '%s'\n", op, ins.Index, cf.constantText(ins.Index))
	case bytecode.FormatInterface:
		fmt.Fprintf(sb, "%-16s %4d '%s' %d\n", op, ins.Index, cf.constantText(ins.Index), ins.Value)
	case bytecode.FormatMultianewarray:
		fmt.Fprintf(sb, "%-16s %4d '%s' %d\n", op, ins.Index, cf.constantText(ins.Index), ins.Value)
	case bytecode.FormatBranch, bytecode.FormatBranchWide:
		fmt.Fprintf(sb, "%-16s %4d -> %04d\n", op, ins.Targets[0]-ins.Offset, ins.Targets[0])
	case bytecode.FormatTableswitch, bytecode.FormatLookupswitch:
		fmt.Fprintf(sb, "%s\n", op)
		for i, key := range ins.Keys {
			fmt.Fprintf(sb, "          %11d: %04d\n", key, ins.Targets[i+1])
		}
		fmt.Fprintf(sb, "          %11s: %04d\n", "default", ins.Targets[0])
	default:
		fmt.Fprintf(sb, "%s\n", op)
	}
}

// constantText 返回常量池条目的可读值
func (cf *ClassFile) constantText(idx uint16) string {
	e, err := cf.Entry(idx)
	if err != nil {
		return "?"
	}
	switch c := e.(type) {
	case *ConstantIntegerInfo:
		return fmt.Sprint(c.Value)
	case *ConstantFloatInfo:
		return fmt.Sprint(c.Value)
	case *ConstantLongInfo:
		return fmt.Sprint(c.Value)
	case *ConstantDoubleInfo:
		return fmt.Sprint(c.Value)
	case *ConstantUtf8Info:
		return c.Value
	}
	return cf.describeEntry(e)
}

// describeEntry 解析引用型常量指向的符号
func (cf *ClassFile) describeEntry(e ConstantPoolEntry) string {
	switch c := e.(type) {
	case *ConstantClassInfo:
		s, _ := cf.Utf8(c.NameIndex)
		return s
	case *ConstantStringInfo:
		s, _ := cf.Utf8(c.StringIndex)
		return fmt.Sprintf("%q", s)
	case *ConstantNameAndTypeInfo:
		n, _ := cf.Utf8(c.NameIndex)
		d, _ := cf.Utf8(c.DescriptorIndex)
		return n + ":" + d
	case memberRef:
		classIdx, ntIdx := c.refIndexes()
		owner, _ := cf.ClassName(classIdx)
		n, d, _ := cf.NameAndType(ntIdx)
		if e.Tag() == ConstantFieldref {
			return owner + "." + n + " " + d
		}
		return owner + "." + n + d
	}
	return ""
}
