// Package jvmgen 把编译单元与定型的常量池编码为 class 文件字节
package jvmgen

import (
	"github.com/tangzhangming/jasm/internal/ast"
	"github.com/tangzhangming/jasm/internal/classfile"
	"github.com/tangzhangming/jasm/internal/constpool"
	jerrors "github.com/tangzhangming/jasm/internal/errors"
)

// Generator JVM class 文件生成器
type Generator struct {
	unit      *ast.CompilationUnit
	pool      *constpool.Pool
	classFile *classfile.ClassFile
}

// NewGenerator 创建新的代码生成器
func NewGenerator(unit *ast.CompilationUnit, pool *constpool.Pool) *Generator {
	return &Generator{unit: unit, pool: pool}
}

// Generate 生成 class 文件字节；相同的输入总是得到相同的字节
func Generate(unit *ast.CompilationUnit, pool *constpool.Pool) ([]byte, error) {
	return NewGenerator(unit, pool).Generate()
}

// Generate 从编译单元生成 JVM class 文件
func (g *Generator) Generate() ([]byte, error) {
	cf, err := g.ClassFile()
	if err != nil {
		return nil, err
	}
	data, err := cf.ToBytes()
	if err != nil {
		return nil, jerrors.Wrap(jerrors.E0201, err, err.Error()).At(g.unit.Source, 0, 0)
	}
	return data, nil
}

// ClassFile 生成 class 文件结构
func (g *Generator) ClassFile() (*classfile.ClassFile, error) {
	unit := g.unit
	class := unit.Class

	g.classFile = classfile.New()
	g.classFile.MajorVersion = unit.Version.Major
	g.classFile.MinorVersion = unit.Version.Minor
	g.classFile.ConstantPool = g.pool.Entries()
	g.classFile.AccessFlags = ClassAccessFlags(class)

	var err error
	if g.classFile.ThisClass, err = g.pool.Class(class.Name); err != nil {
		return nil, g.locate(err, class.Line, "")
	}
	if g.classFile.SuperClass, err = g.pool.Class(class.Super); err != nil {
		return nil, g.locate(err, class.Line, "")
	}
	for _, iface := range class.Interfaces {
		idx, err := g.pool.Class(iface)
		if err != nil {
			return nil, g.locate(err, class.Line, "")
		}
		g.classFile.Interfaces = append(g.classFile.Interfaces, idx)
	}

	for _, f := range unit.Fields {
		field, err := g.generateField(f)
		if err != nil {
			return nil, g.locate(err, f.Line, "")
		}
		g.classFile.Fields = append(g.classFile.Fields, *field)
	}

	for _, m := range unit.Methods {
		method, err := g.generateMethod(m)
		if err != nil {
			return nil, g.locate(err, m.Line, m.Signature())
		}
		g.classFile.Methods = append(g.classFile.Methods, *method)
	}

	if unit.SourceFile != "" {
		attr, err := g.indexAttribute(classfile.AttrSourceFile, func() (uint16, error) {
			return g.pool.Utf8(unit.SourceFile)
		})
		if err != nil {
			return nil, g.locate(err, class.Line, "")
		}
		g.classFile.Attributes = append(g.classFile.Attributes, attr)
	}

	return g.classFile, nil
}

// ClassAccessFlags 类的访问标志：普通类加 ACC_SUPER，接口加 ACC_INTERFACE|ACC_ABSTRACT
func ClassAccessFlags(class *ast.ClassMetadata) uint16 {
	flags := class.Access
	if class.IsInterface || flags&ast.AccInterface != 0 {
		return (flags | ast.AccInterface | ast.AccAbstract) &^ ast.AccSuper
	}
	return flags | ast.AccSuper
}

// generateField 生成字段信息
func (g *Generator) generateField(f *ast.FieldDecl) (*classfile.MemberInfo, error) {
	name, err := g.pool.Utf8(f.Name)
	if err != nil {
		return nil, err
	}
	desc, err := g.pool.Utf8(f.Descriptor)
	if err != nil {
		return nil, err
	}
	field := &classfile.MemberInfo{
		AccessFlags:     f.Access,
		NameIndex:       name,
		DescriptorIndex: desc,
	}
	if f.Value != nil {
		attr, err := g.indexAttribute(classfile.AttrConstantValue, func() (uint16, error) {
			return g.pool.Constant(f.Value)
		})
		if err != nil {
			return nil, err
		}
		field.Attributes = append(field.Attributes, attr)
	}
	return field, nil
}

// generateMethod 生成方法信息：Code 与 Exceptions 属性
func (g *Generator) generateMethod(m *ast.MethodDecl) (*classfile.MemberInfo, error) {
	name, err := g.pool.Utf8(m.Name)
	if err != nil {
		return nil, err
	}
	desc, err := g.pool.Utf8(m.Descriptor)
	if err != nil {
		return nil, err
	}
	method := &classfile.MemberInfo{
		AccessFlags:     m.Access,
		NameIndex:       name,
		DescriptorIndex: desc,
	}

	if m.HasCode() {
		code, err := g.buildCodeAttribute(m)
		if err != nil {
			return nil, err
		}
		method.Attributes = append(method.Attributes, code)
	}

	if len(m.Throws) > 0 {
		attrName, err := g.pool.Utf8(classfile.AttrExceptions)
		if err != nil {
			return nil, err
		}
		var idxs []uint16
		for _, t := range m.Throws {
			idx, err := g.pool.Class(t)
			if err != nil {
				return nil, err
			}
			idxs = append(idxs, idx)
		}
		method.Attributes = append(method.Attributes, classfile.AttributeInfo{
			NameIndex: attrName,
			Info:      classfile.EncodeIndexList(idxs),
		})
	}
	return method, nil
}

// buildCodeAttribute 构建 Code 属性
func (g *Generator) buildCodeAttribute(m *ast.MethodDecl) (classfile.AttributeInfo, error) {
	attrName, err := g.pool.Utf8(classfile.AttrCode)
	if err != nil {
		return classfile.AttributeInfo{}, err
	}
	asm := newAssembler(g, m)
	code, err := asm.assemble()
	if err != nil {
		return classfile.AttributeInfo{}, err
	}
	return classfile.AttributeInfo{NameIndex: attrName, Info: code.Bytes()}, nil
}

// indexAttribute 构建只含一个常量池索引的属性
func (g *Generator) indexAttribute(name string, value func() (uint16, error)) (classfile.AttributeInfo, error) {
	nameIdx, err := g.pool.Utf8(name)
	if err != nil {
		return classfile.AttributeInfo{}, err
	}
	idx, err := value()
	if err != nil {
		return classfile.AttributeInfo{}, err
	}
	return classfile.AttributeInfo{NameIndex: nameIdx, Info: classfile.EncodeIndex(idx)}, nil
}

// locate 为尚未定位的错误补上文件、行号与方法
func (g *Generator) locate(err error, line int, method string) error {
	if ce, ok := jerrors.As(err); ok {
		if ce.File == "" {
			ce.File = g.unit.Source
		}
		if ce.Line == 0 {
			ce.Line = line
		}
		if ce.Method == "" && method != "" {
			ce.Method = method
		}
	}
	return err
}
