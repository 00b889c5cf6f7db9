package constpool

import (
	"github.com/tangzhangming/jasm/internal/ast"
	"github.com/tangzhangming/jasm/internal/bytecode"
	"github.com/tangzhangming/jasm/internal/classfile"
	jerrors "github.com/tangzhangming/jasm/internal/errors"
)

// Build 遍历编译单元中的全部名称、描述符与字面量，返回定型的常量池
//
// 遍历顺序即索引分配顺序：本类、父类、接口、SourceFile，
// 然后是各字段与各方法，方法内按指令顺序。
func Build(unit *ast.CompilationUnit) (*Pool, error) {
	p := New()
	b := &builder{pool: p, file: unit.Source}

	class := unit.Class
	p.AddClass(class.Name)
	p.AddClass(class.Super)
	for _, iface := range class.Interfaces {
		p.AddClass(iface)
	}
	if unit.SourceFile != "" {
		p.AddUtf8(classfile.AttrSourceFile)
		p.AddUtf8(unit.SourceFile)
	}
	if err := b.check(class.Line, ""); err != nil {
		return nil, err
	}

	for _, f := range unit.Fields {
		p.AddUtf8(f.Name)
		p.AddUtf8(f.Descriptor)
		if f.Value != nil {
			p.AddUtf8(classfile.AttrConstantValue)
			p.AddConstant(f.Value)
		}
		if err := b.check(f.Line, ""); err != nil {
			return nil, err
		}
	}

	for _, m := range unit.Methods {
		if err := b.method(m); err != nil {
			return nil, err
		}
	}
	return p, nil
}

type builder struct {
	pool *Pool
	file string
}

// check 把常量池错误补上源码位置
func (b *builder) check(line int, method string) error {
	err := b.pool.Err()
	if err == nil {
		return nil
	}
	if ce, ok := jerrors.As(err); ok && ce.File == "" {
		ce.At(b.file, line, 1)
		if method != "" {
			ce.InMethod(method)
		}
	}
	return err
}

func (b *builder) method(m *ast.MethodDecl) error {
	p := b.pool
	sig := m.Signature()

	p.AddUtf8(m.Name)
	p.AddUtf8(m.Descriptor)
	if err := b.check(m.Line, sig); err != nil {
		return err
	}

	if m.HasCode() {
		p.AddUtf8(classfile.AttrCode)
		for _, ins := range m.Instructions {
			b.operand(ins)
			if err := b.check(ins.Line, sig); err != nil {
				return err
			}
		}
		for _, h := range m.Handlers {
			if h.Type != "" {
				p.AddClass(h.Type)
			}
		}
	}

	if len(m.Throws) > 0 {
		p.AddUtf8(classfile.AttrExceptions)
		for _, t := range m.Throws {
			p.AddClass(t)
		}
	}

	if m.HasCode() {
		if len(m.LineEntries()) > 0 {
			p.AddUtf8(classfile.AttrLineNumberTable)
		}
		if len(m.Vars) > 0 {
			p.AddUtf8(classfile.AttrLocalVariableTable)
			for _, v := range m.Vars {
				p.AddUtf8(v.Name)
				p.AddUtf8(v.Descriptor)
			}
		}
	}
	return b.check(m.Line, sig)
}

// operand 添加指令操作数引用的常量
func (b *builder) operand(ins *ast.Instruction) {
	p := b.pool
	switch ins.Op.Format {
	case bytecode.FormatLdc, bytecode.FormatLdcW, bytecode.FormatLdc2W:
		p.AddConstant(ins.Const)
	case bytecode.FormatField:
		p.AddFieldref(ins.Ref.Owner, ins.Ref.Name, ins.Ref.Descriptor)
	case bytecode.FormatMethod:
		p.AddMethodref(ins.Ref.Owner, ins.Ref.Name, ins.Ref.Descriptor)
	case bytecode.FormatInterface:
		p.AddInterfaceMethodref(ins.Ref.Owner, ins.Ref.Name, ins.Ref.Descriptor)
	case bytecode.FormatClass, bytecode.FormatMultianewarray:
		p.AddClass(ins.Class)
	}
}
