// Package compiler 串联单个编译单元的完整流水线
//
// 解码 → 词法 → 语法 → 常量池 → 编码 → 校验，各阶段顺序执行，任一阶段失败即返回，
// 不产生部分输出。多个单元之间不共享任何状态，可以并发调用。
package compiler

import (
	"github.com/tangzhangming/jasm/internal/ast"
	"github.com/tangzhangming/jasm/internal/constpool"
	jerrors "github.com/tangzhangming/jasm/internal/errors"
	"github.com/tangzhangming/jasm/internal/jvmgen"
	"github.com/tangzhangming/jasm/internal/lexer"
	"github.com/tangzhangming/jasm/internal/parser"
	"github.com/tangzhangming/jasm/internal/source"
	"github.com/tangzhangming/jasm/internal/token"
	"github.com/tangzhangming/jasm/internal/verifier"
)

// Options 单元编译选项
type Options struct {
	Encoding string            // 源码字符集，空为 UTF-8
	Verifier verifier.Verifier // 为 nil 时使用 verifier.Skip
}

// Output 一个编译单元的产物
type Output struct {
	Unit   *ast.CompilationUnit
	Bytes  []byte
	Result *verifier.Result
}

// ClassName 产物的内部类名
func (o *Output) ClassName() string {
	return o.Unit.Class.Name
}

// Compile 把源码字节汇编并校验为 class 文件
func Compile(src []byte, filename string, opts Options) (*Output, error) {
	unit, err := Parse(src, filename, opts.Encoding)
	if err != nil {
		return nil, err
	}
	return Assemble(unit, opts)
}

// Parse 解码并解析源码，得到编译单元
//
// 语法错误时仍返回已解析出类头的部分单元，供调用方清理旧产物；没有类头时 unit 为 nil。
func Parse(src []byte, filename, encoding string) (*ast.CompilationUnit, error) {
	tokens, err := Tokenize(src, filename, encoding)
	if err != nil {
		return nil, err
	}
	p := parser.New(tokens, filename)
	unit, err := p.Parse()
	if err != nil {
		return p.Partial(), locate(err, filename, "")
	}
	return unit, nil
}

// Tokenize 解码源码并返回完整的 token 序列
func Tokenize(src []byte, filename, encoding string) ([]token.Token, error) {
	text, err := source.Decode(src, encoding)
	if err != nil {
		return nil, locate(err, filename, "")
	}
	tokens, err := lexer.New(text, filename).ScanTokens()
	if err != nil {
		return nil, locate(err, filename, "")
	}
	return tokens, nil
}

// Assemble 为已解析的编译单元构建常量池、生成字节并校验
func Assemble(unit *ast.CompilationUnit, opts Options) (*Output, error) {
	pool, err := constpool.Build(unit)
	if err != nil {
		return nil, locate(err, unit.Source, "")
	}
	data, err := jvmgen.Generate(unit, pool)
	if err != nil {
		return nil, locate(err, unit.Source, "")
	}

	v := opts.Verifier
	if v == nil {
		v = verifier.Skip
	}
	result, err := v.Verify(unit.Class.Name, data)
	if err != nil {
		return nil, locate(err, unit.Source, unit.Class.Name)
	}
	return &Output{Unit: unit, Bytes: data, Result: result}, nil
}

// locate 为没有文件名的错误补上文件名；校验错误补上类名说明
func locate(err error, file, class string) error {
	ce, ok := jerrors.As(err)
	if !ok {
		return err
	}
	if ce.File == "" {
		ce.File = file
	}
	if class != "" && ce.Kind == jerrors.KindVerify {
		ce.WithNote("class " + class)
	}
	return err
}
