package jvmgen

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/tangzhangming/jasm/internal/ast"
	"github.com/tangzhangming/jasm/internal/bytecode"
	"github.com/tangzhangming/jasm/internal/classfile"
	"github.com/tangzhangming/jasm/internal/constpool"
	jerrors "github.com/tangzhangming/jasm/internal/errors"
	"github.com/tangzhangming/jasm/internal/parser"
)

const hello = `.source Hello.j
.class public Hello
.super java/lang/Object

.method public static main([Ljava/lang/String;)V
    getstatic java/lang/System/out Ljava/io/PrintStream;
    ldc "Hello, world"
    invokevirtual java/io/PrintStream/println(Ljava/lang/String;)V
    return
.end method
`

func compile(t *testing.T, src string) ([]byte, *constpool.Pool, error) {
	t.Helper()
	unit, err := parser.ParseSource(src, "test.j")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	pool, err := constpool.Build(unit)
	if err != nil {
		t.Fatalf("pool failed: %v", err)
	}
	data, err := Generate(unit, pool)
	return data, pool, err
}

func mustCompile(t *testing.T, src string) (*classfile.ClassFile, *constpool.Pool) {
	t.Helper()
	data, pool, err := compile(t, src)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	cf, err := classfile.Parse(data)
	if err != nil {
		t.Fatalf("generated class does not parse: %v", err)
	}
	return cf, pool
}

// methodCode 返回第 i 个方法的 Code 属性
func methodCode(t *testing.T, cf *classfile.ClassFile, i int) *classfile.CodeAttribute {
	t.Helper()
	info, ok := cf.FindAttribute(cf.Methods[i].Attributes, classfile.AttrCode)
	if !ok {
		t.Fatalf("method %d has no Code attribute", i)
	}
	code, err := classfile.ParseCode(info.Info)
	if err != nil {
		t.Fatalf("ParseCode failed: %v", err)
	}
	return code
}

func compileError(t *testing.T, src string) *jerrors.CompileError {
	t.Helper()
	_, _, err := compile(t, src)
	ce, ok := jerrors.As(err)
	if !ok {
		t.Fatalf("expected CompileError, got %v", err)
	}
	return ce
}

func TestGenerateDeterministic(t *testing.T) {
	a, _, err := compile(t, hello)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	b, _, err := compile(t, hello)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("same source produced different bytes")
	}
	header := []byte{0xCA, 0xFE, 0xBA, 0xBE, 0x00, 0x03, 0x00, 0x2D}
	if !bytes.HasPrefix(a, header) {
		t.Errorf("header = % x", a[:8])
	}
}

func TestGenerateHello(t *testing.T) {
	cf, _ := mustCompile(t, hello)

	if name, _ := cf.ThisClassName(); name != "Hello" {
		t.Errorf("this class = %q", name)
	}
	if cf.AccessFlags != ast.AccPublic|ast.AccSuper {
		t.Errorf("access flags = 0x%04x", cf.AccessFlags)
	}
	if _, ok := cf.FindAttribute(cf.Attributes, classfile.AttrSourceFile); !ok {
		t.Error("SourceFile attribute missing")
	}

	code := methodCode(t, cf, 0)
	if code.MaxStack != 2 || code.MaxLocals != 1 {
		t.Errorf("max stack/locals = %d/%d, want 2/1", code.MaxStack, code.MaxLocals)
	}
	if len(code.Code) != 9 {
		t.Errorf("code length = %d, want 9", len(code.Code))
	}
	if code.Code[3] != byte(bytecode.OpLdc) {
		t.Errorf("code[3] = 0x%02x, want ldc", code.Code[3])
	}
}

func TestClassAccessFlags(t *testing.T) {
	tests := []struct {
		name  string
		class ast.ClassMetadata
		want  uint16
	}{
		{"class", ast.ClassMetadata{Access: ast.AccPublic}, ast.AccPublic | ast.AccSuper},
		{"final class", ast.ClassMetadata{Access: ast.AccPublic | ast.AccFinal}, ast.AccPublic | ast.AccFinal | ast.AccSuper},
		{"interface directive", ast.ClassMetadata{Access: ast.AccPublic, IsInterface: true}, ast.AccPublic | ast.AccInterface | ast.AccAbstract},
		{"interface flag", ast.ClassMetadata{Access: ast.AccInterface | ast.AccSuper}, ast.AccInterface | ast.AccAbstract},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassAccessFlags(&tt.class); got != tt.want {
				t.Errorf("ClassAccessFlags = 0x%04x, want 0x%04x", got, tt.want)
			}
		})
	}
}

func TestLdcWidening(t *testing.T) {
	var sb strings.Builder
	sb.WriteString(".class public W\n.super java/lang/Object\n.method public static f()V\n")
	for i := 0; i < 300; i++ {
		fmt.Fprintf(&sb, "    ldc %d\n    pop\n", 100000+i)
	}
	sb.WriteString("    return\n.end method\n")

	cf, _ := mustCompile(t, sb.String())
	code := methodCode(t, cf, 0)

	// 前 7 个常量是类名、方法名与 "Code"，整数从索引 8 开始
	narrow, wide := 0, 0
	for pc := 0; pc < len(code.Code); {
		ins, err := bytecode.Decode(code.Code, pc)
		if err != nil {
			t.Fatalf("decode at %d: %v", pc, err)
		}
		switch ins.Info.Code {
		case bytecode.OpLdc:
			narrow++
			if ins.Index > 255 {
				t.Errorf("ldc at %d references #%d", pc, ins.Index)
			}
		case bytecode.OpLdcW:
			wide++
			if ins.Index <= 255 {
				t.Errorf("ldc_w at %d references #%d", pc, ins.Index)
			}
		}
		pc += ins.Length
	}
	if narrow != 248 || wide != 52 {
		t.Errorf("ldc/ldc_w = %d/%d, want 248/52", narrow, wide)
	}
	if code.MaxStack != 1 {
		t.Errorf("max stack = %d, want 1", code.MaxStack)
	}
}

func TestWideLocals(t *testing.T) {
	src := `.class public L
.super java/lang/Object
.method public static f()V
    iconst_0
    istore 300
    iinc 300 1000
    iinc 2 1
    return
.end method
`
	cf, _ := mustCompile(t, src)
	code := methodCode(t, cf, 0)

	want := []byte{
		0x03,
		0xc4, 0x36, 0x01, 0x2c,
		0xc4, 0x84, 0x01, 0x2c, 0x03, 0xe8,
		0x84, 0x02, 0x01,
		0xb1,
	}
	if !bytes.Equal(code.Code, want) {
		t.Errorf("code = % x\nwant   % x", code.Code, want)
	}
	if code.MaxLocals != 301 || code.MaxStack != 1 {
		t.Errorf("max stack/locals = %d/%d, want 1/301", code.MaxStack, code.MaxLocals)
	}
}

func TestSwitchEncoding(t *testing.T) {
	src := `.class public S
.super java/lang/Object
.method public static f(I)V
    iload_0
    tableswitch 0 1
        A
        B
        default : B
A:
    return
B:
    iload_0
    lookupswitch
        9 : A
        -1 : B
        default : A
.end method
`
	cf, _ := mustCompile(t, src)
	code := methodCode(t, cf, 0).Code

	// iload_0 占 1 字节，tableswitch 在偏移 1，填充 2 字节
	table, err := bytecode.Decode(code, 1)
	if err != nil {
		t.Fatalf("decode tableswitch: %v", err)
	}
	if table.Length != 23 {
		t.Errorf("tableswitch length = %d, want 23", table.Length)
	}
	if want := []int{25, 24, 25}; fmt.Sprint(table.Targets) != fmt.Sprint(want) {
		t.Errorf("tableswitch targets = %v, want %v", table.Targets, want)
	}

	lookup, err := bytecode.Decode(code, 26)
	if err != nil {
		t.Fatalf("decode lookupswitch: %v", err)
	}
	if fmt.Sprint(lookup.Keys) != "[-1 9]" {
		t.Errorf("lookupswitch keys = %v, want sorted [-1 9]", lookup.Keys)
	}
	if want := []int{24, 25, 24}; fmt.Sprint(lookup.Targets) != fmt.Sprint(want) {
		t.Errorf("lookupswitch targets = %v, want %v", lookup.Targets, want)
	}
}

func TestExceptionAndDebugAttributes(t *testing.T) {
	src := `.class public E
.super java/lang/Object
.method public static f()V
    .var 0 is x I from Start to End
Start:
    .line 5
    iconst_0
    istore_0
End:
    return
Handler:
    .line 9
    astore_0
    return
    .catch java/lang/Exception from Start to End using Handler
.end method
`
	cf, pool := mustCompile(t, src)
	code := methodCode(t, cf, 0)

	if code.MaxStack != 1 || code.MaxLocals != 1 {
		t.Errorf("max stack/locals = %d/%d, want 1/1", code.MaxStack, code.MaxLocals)
	}

	catchType, err := pool.Class("java/lang/Exception")
	if err != nil {
		t.Fatal(err)
	}
	want := classfile.ExceptionEntry{StartPC: 0, EndPC: 2, HandlerPC: 3, CatchType: catchType}
	if len(code.ExceptionTable) != 1 || code.ExceptionTable[0] != want {
		t.Errorf("exception table = %+v, want %+v", code.ExceptionTable, want)
	}

	if len(code.Attributes) != 2 {
		t.Fatalf("Code has %d attributes, want 2", len(code.Attributes))
	}
	if name := cf.AttributeName(code.Attributes[0]); name != classfile.AttrLineNumberTable {
		t.Errorf("first Code attribute = %q", name)
	}
	lines, err := classfile.ParseLineNumberTable(code.Attributes[0].Info)
	if err != nil {
		t.Fatal(err)
	}
	if fmt.Sprint(lines) != "[{0 5} {3 9}]" {
		t.Errorf("line numbers = %v", lines)
	}

	vars, err := classfile.ParseLocalVariableTable(code.Attributes[1].Info)
	if err != nil {
		t.Fatal(err)
	}
	if len(vars) != 1 || vars[0].StartPC != 0 || vars[0].Length != 2 || vars[0].Index != 0 {
		t.Errorf("local variables = %+v", vars)
	}
}

func TestEncodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		code   string
		offset int
	}{
		{
			name:   "short branch out of range",
			body:   "    goto End\n" + strings.Repeat("    nop\n", 33000) + "End:\n    return\n",
			code:   jerrors.E0300,
			offset: 0,
		},
		{
			name:   "inconsistent stack height",
			body:   "    iconst_0\n    ifeq L\n    iconst_1\nL:\n    return\n",
			code:   jerrors.E0302,
			offset: 5,
		},
		{
			name:   "stack underflow",
			body:   "    pop\n    return\n",
			code:   jerrors.E0303,
			offset: 0,
		},
		{
			name:   "empty code",
			body:   "",
			code:   jerrors.E0305,
			offset: -1,
		},
		{
			name:   "empty handler range",
			body:   "L:\n    return\n    .catch all from L to L using L\n",
			code:   jerrors.E0304,
			offset: -1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := ".class public X\n.super java/lang/Object\n.method public static f()V\n" +
				tt.body + ".end method\n"
			ce := compileError(t, src)
			if ce.Code != tt.code || ce.Kind != jerrors.KindEncode {
				t.Errorf("error = %s %v (%s), want %s", ce.Code, ce.Kind, ce.Message, tt.code)
			}
			if ce.Method != "f()V" || ce.File != "test.j" {
				t.Errorf("location = %s in %q", ce.File, ce.Method)
			}
			if ce.Offset != tt.offset {
				t.Errorf("offset = %d, want %d", ce.Offset, tt.offset)
			}
			if ce.Line > 0 && ce.Column != 1 {
				t.Errorf("column = %d, want 1", ce.Column)
			}
		})
	}
}

func TestEncodeErrorLocation(t *testing.T) {
	src := ".class public P\n.super java/lang/Object\n.method public static f()V\n    pop\n    return\n.end method\n"
	ce := compileError(t, src)
	if ce.Line != 4 || ce.Column != 1 {
		t.Errorf("location = %d:%d, want 4:1", ce.Line, ce.Column)
	}
	if !strings.HasPrefix(ce.Error(), "test.j:4:1: ") {
		t.Errorf("Error() = %q", ce.Error())
	}
}

func TestWideBranchReachesFar(t *testing.T) {
	src := ".class public X\n.super java/lang/Object\n.method public static f()V\n" +
		"    goto_w End\n" + strings.Repeat("    nop\n", 33000) + "End:\n    return\n.end method\n"
	cf, _ := mustCompile(t, src)
	code := methodCode(t, cf, 0).Code
	ins, err := bytecode.Decode(code, 0)
	if err != nil {
		t.Fatal(err)
	}
	if ins.Targets[0] != 33005 {
		t.Errorf("goto_w target = %d, want 33005", ins.Targets[0])
	}
}

func TestExplicitLimits(t *testing.T) {
	src := `.class public X
.super java/lang/Object
.method public static f()V
    .limit stack 7
    .limit locals 3
    return
.end method
`
	cf, _ := mustCompile(t, src)
	code := methodCode(t, cf, 0)
	if code.MaxStack != 7 || code.MaxLocals != 3 {
		t.Errorf("max stack/locals = %d/%d, want 7/3", code.MaxStack, code.MaxLocals)
	}
}

func TestAbstractAndThrows(t *testing.T) {
	src := `.interface public abstract I
.super java/lang/Object
.method public abstract run()V
    .throws java/io/IOException
.end method
`
	cf, _ := mustCompile(t, src)
	if cf.AccessFlags&ast.AccSuper != 0 || cf.AccessFlags&ast.AccInterface == 0 {
		t.Errorf("interface flags = 0x%04x", cf.AccessFlags)
	}
	m := cf.Methods[0]
	if _, ok := cf.FindAttribute(m.Attributes, classfile.AttrCode); ok {
		t.Error("abstract method must not have Code")
	}
	exc, ok := cf.FindAttribute(m.Attributes, classfile.AttrExceptions)
	if !ok {
		t.Fatal("Exceptions attribute missing")
	}
	idxs, err := classfile.ParseIndexList(exc.Info)
	if err != nil || len(idxs) != 1 {
		t.Fatalf("Exceptions = %v, %v", idxs, err)
	}
	if name, _ := cf.ClassName(idxs[0]); name != "java/io/IOException" {
		t.Errorf("thrown class = %q", name)
	}
}
