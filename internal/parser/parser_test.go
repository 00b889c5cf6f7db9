package parser

import (
	"strings"
	"testing"

	"github.com/tangzhangming/jasm/internal/ast"
	"github.com/tangzhangming/jasm/internal/bytecode"
	jerrors "github.com/tangzhangming/jasm/internal/errors"
)

const helloSource = `.source Hello.j
.class public com/example/Hello
.super java/lang/Object
.implements java/lang/Runnable

.field private static final GREETING Ljava/lang/String; = "hi"
.field public count I

.method public <init>()V
    aload_0
    invokespecial java/lang/Object/<init>()V
    return
.end method

.method public static main([Ljava/lang/String;)V
    .limit stack 2
    getstatic java/lang/System/out Ljava/io/PrintStream;
    ldc "Hello, world"
    invokevirtual java/io/PrintStream/println(Ljava/lang/String;)V
    return
.end method
`

func parse(t *testing.T, source string) *ast.CompilationUnit {
	t.Helper()
	unit, err := ParseSource(source, "test.j")
	if err != nil {
		t.Fatalf("ParseSource: %v", err)
	}
	return unit
}

func TestParseClassHeader(t *testing.T) {
	unit := parse(t, helloSource)

	if unit.SourceFile != "Hello.j" {
		t.Errorf("SourceFile = %q", unit.SourceFile)
	}
	if unit.Version != ast.DefaultVersion {
		t.Errorf("Version = %s, want 45.3", unit.Version)
	}
	c := unit.Class
	if c.Name != "com/example/Hello" || c.Super != "java/lang/Object" {
		t.Errorf("class = %s extends %s", c.Name, c.Super)
	}
	if c.Access != ast.AccPublic || c.IsInterface {
		t.Errorf("class access = 0x%04x interface=%v", c.Access, c.IsInterface)
	}
	if len(c.Interfaces) != 1 || c.Interfaces[0] != "java/lang/Runnable" {
		t.Errorf("interfaces = %v", c.Interfaces)
	}
	if c.SimpleName() != "Hello" || c.Package() != "com/example" {
		t.Errorf("SimpleName/Package = %s/%s", c.SimpleName(), c.Package())
	}

	if len(unit.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(unit.Fields))
	}
	f := unit.Fields[0]
	if f.Name != "GREETING" || f.Access != ast.AccPrivate|ast.AccStatic|ast.AccFinal {
		t.Errorf("field = %s access 0x%04x", f.Name, f.Access)
	}
	if f.Value == nil || f.Value.Kind != ast.ConstString || f.Value.Str != "hi" {
		t.Errorf("field value = %v", f.Value)
	}

	if len(unit.Methods) != 2 {
		t.Fatalf("expected 2 methods, got %d", len(unit.Methods))
	}
	m := unit.Methods[1]
	if m.Signature() != "main([Ljava/lang/String;)V" || !m.IsStatic() {
		t.Errorf("method = %s static=%v", m.Signature(), m.IsStatic())
	}
	if m.MaxStack != 2 || m.MaxLocals != -1 {
		t.Errorf("limits = %d/%d, want 2/-1", m.MaxStack, m.MaxLocals)
	}
	if len(m.Instructions) != 4 {
		t.Fatalf("expected 4 instructions, got %d", len(m.Instructions))
	}
	ref := m.Instructions[2].Ref
	if ref.Owner != "java/io/PrintStream" || ref.Name != "println" || ref.Descriptor != "(Ljava/lang/String;)V" {
		t.Errorf("method ref = %+v", ref)
	}
	get := m.Instructions[0].Ref
	if get.Owner != "java/lang/System" || get.Name != "out" || get.Descriptor != "Ljava/io/PrintStream;" {
		t.Errorf("field ref = %+v", get)
	}
	if m.Line != 15 || m.EndLine != 21 {
		t.Errorf("method lines = %d..%d, want 15..21", m.Line, m.EndLine)
	}
}

func TestParseLabels(t *testing.T) {
	src := `.class public Loop
.super java/lang/Object
.method public static count()I
    iconst_0
    istore_0
Top:
    iload_0
    bipush 10
    if_icmpge Done
    iinc 0 1
    goto Top
Done: iload_0
    ireturn
.end method
`
	m := parse(t, src).Methods[0]

	if m.Labels["Top"] != 2 || m.Labels["Done"] != 7 {
		t.Errorf("labels = %v, want Top=2 Done=7", m.Labels)
	}
	forward := m.Instructions[4].Target
	if forward.Name != "Done" || forward.Target != 7 {
		t.Errorf("forward branch = %+v", forward)
	}
	backward := m.Instructions[6].Target
	if backward.Name != "Top" || backward.Target != 2 {
		t.Errorf("backward branch = %+v", backward)
	}
	if m.Instructions[1].Local != 0 || m.Instructions[5].Local != 0 || m.Instructions[5].Int != 1 {
		t.Errorf("local operands not recorded")
	}
}

func TestParseSwitches(t *testing.T) {
	src := `.class A
.super java/lang/Object
.method static f(I)V
    iload_0
    tableswitch 1 3
        L1
        L2
        L1
        default : L3
L1:
    iload_0
    lookupswitch
        10 : L2
        -5 : L3
        default: L3
L2:
L3:
    return
.end method
`
	m := parse(t, src).Methods[0]
	table := m.Instructions[1]
	if table.Op.Code != bytecode.OpTableswitch || table.Low != 1 || len(table.Cases) != 3 {
		t.Fatalf("tableswitch = %s low=%d cases=%d", table.Op.Name, table.Low, len(table.Cases))
	}
	if table.Cases[2].Key != 3 || table.Cases[2].Label.Target != 2 || table.Default.Target != 4 {
		t.Errorf("tableswitch targets wrong: %+v default %+v", table.Cases, table.Default)
	}

	lookup := m.Instructions[3]
	if len(lookup.Cases) != 2 || lookup.Cases[0].Key != 10 || lookup.Cases[1].Key != -5 {
		t.Errorf("lookupswitch cases = %+v", lookup.Cases)
	}
	if lookup.Default.Name != "L3" || lookup.Default.Target != 4 {
		t.Errorf("lookupswitch default = %+v", lookup.Default)
	}
	if len(lookup.Labels()) != 3 {
		t.Errorf("lookupswitch Labels() = %d, want 3", len(lookup.Labels()))
	}
}

func TestParseOperands(t *testing.T) {
	src := `.class A
.super java/lang/Object
.method static f()V
    ldc 42
    ldc 0xFFFFFFFF
    ldc 1.5
    ldc "s"
    ldc java/lang/String
    ldc2_w 5
    ldc2_w 2.5
    newarray int
    multianewarray [[I 2
    invokeinterface java/util/List/get(I)Ljava/lang/Object;
    invokeinterface java/util/Map/put(Ljava/lang/Object;Ljava/lang/Object;)Ljava/lang/Object; 3
    wide
    iload 300
    wide iinc 1 -200
    sipush -32768
    anewarray [Ljava/lang/String;
    return
.end method
`
	ins := parse(t, src).Methods[0].Instructions

	tests := []struct {
		idx   int
		check func(*ast.Instruction) bool
	}{
		{0, func(i *ast.Instruction) bool { return i.Const.Kind == ast.ConstInt && i.Const.Int == 42 }},
		{1, func(i *ast.Instruction) bool { return i.Const.Kind == ast.ConstInt && i.Const.Int == -1 }},
		{2, func(i *ast.Instruction) bool { return i.Const.Kind == ast.ConstFloat && i.Const.Float == 1.5 }},
		{3, func(i *ast.Instruction) bool { return i.Const.Kind == ast.ConstString && i.Const.Str == "s" }},
		{4, func(i *ast.Instruction) bool { return i.Const.Kind == ast.ConstClass && i.Const.Str == "java/lang/String" }},
		{5, func(i *ast.Instruction) bool { return i.Const.Kind == ast.ConstLong && i.Const.Int == 5 }},
		{6, func(i *ast.Instruction) bool { return i.Const.Kind == ast.ConstDouble && i.Const.Float == 2.5 }},
		{7, func(i *ast.Instruction) bool { return i.Int == 10 }},
		{8, func(i *ast.Instruction) bool { return i.Class == "[[I" && i.Int == 2 }},
		{9, func(i *ast.Instruction) bool { return i.Int == 2 }},
		{10, func(i *ast.Instruction) bool { return i.Int == 3 }},
		{11, func(i *ast.Instruction) bool { return i.Op.Code == bytecode.OpIload && i.Local == 300 }},
		{12, func(i *ast.Instruction) bool { return i.Op.Code == bytecode.OpIinc && i.Local == 1 && i.Int == -200 }},
		{13, func(i *ast.Instruction) bool { return i.Int == -32768 }},
		{14, func(i *ast.Instruction) bool { return i.Class == "[Ljava/lang/String;" }},
	}

	if len(ins) != 16 {
		t.Fatalf("expected 16 instructions, got %d", len(ins))
	}
	for _, tt := range tests {
		if !tt.check(ins[tt.idx]) {
			t.Errorf("instruction %d (%s) has wrong operands", tt.idx, ins[tt.idx])
		}
	}
}

func TestParseMethodDirectives(t *testing.T) {
	src := `.class A
.super java/lang/Object
.method public f(J)V
    .throws java/io/IOException
    .limit locals 5
    .var 0 is this LA; from Start to End
    .var 1 is x J
    .catch java/lang/Exception from Start to End using Handler
    .catch all from Start to End using Handler
Start:
    .line 7
    nop
End:
    return
Handler:
    athrow
.end method
`
	m := parse(t, src).Methods[0]
	if len(m.Throws) != 1 || m.Throws[0] != "java/io/IOException" {
		t.Errorf("throws = %v", m.Throws)
	}
	if m.MaxLocals != 5 || m.MaxStack != -1 {
		t.Errorf("limits = %d/%d", m.MaxStack, m.MaxLocals)
	}
	if len(m.Vars) != 2 || m.Vars[0].Start.Target != 0 || m.Vars[0].End.Target != 1 || m.Vars[1].Start != nil {
		t.Errorf("vars = %+v", m.Vars)
	}
	if len(m.Handlers) != 2 || m.Handlers[0].Type != "java/lang/Exception" || m.Handlers[1].Type != "" {
		t.Fatalf("handlers = %+v", m.Handlers)
	}
	if m.Handlers[0].Handler.Target != 2 {
		t.Errorf("handler target = %d, want 2", m.Handlers[0].Handler.Target)
	}
	if len(m.Lines) != 1 || m.Lines[0].Index != 0 || m.Lines[0].Line != 7 {
		t.Errorf("lines = %+v", m.Lines)
	}
}

func TestParseInterfaceAndVersion(t *testing.T) {
	src := `.bytecode 49.0
.interface public abstract Shape
.super java/lang/Object
.method public abstract area()D
.end method
`
	unit := parse(t, src)
	if unit.Version != (ast.Version{Major: 49, Minor: 0}) {
		t.Errorf("version = %s", unit.Version)
	}
	if !unit.Class.IsInterface || unit.Class.Access != ast.AccPublic|ast.AccAbstract {
		t.Errorf("interface = %v access 0x%04x", unit.Class.IsInterface, unit.Class.Access)
	}
	if unit.Methods[0].HasCode() {
		t.Errorf("abstract method should have no code")
	}
}

func TestParseErrors(t *testing.T) {
	const header = ".class A\n.super java/lang/Object\n"

	tests := []struct {
		name    string
		input   string
		code    string
		line    int
		message string
	}{
		{"unterminated method", header + ".method f()V\n  return\n", jerrors.E0102, 3, "f()V"},
		{"method inside method", header + ".method f()V\n  return\n.method g()V\n", jerrors.E0102, 3, "f()V"},
		{"unknown directive", header + ".feild x I\n", jerrors.E0101, 3, ".feild"},
		{"undefined label", header + ".method f()V\n  goto Nowhere\n  goto Nowhere\n.end method\n", jerrors.E0103, 4, "Nowhere"},
		{"duplicate label", header + ".method f()V\nL:\nL:\n  return\n.end method\n", jerrors.E0104, 5, "line 4"},
		{"missing class", ".super java/lang/Object\n", jerrors.E0105, 1, ".class"},
		{"empty file", "; nothing\n", jerrors.E0105, 0, ".class"},
		{"missing super", ".class A\n.method f()V\n  return\n.end method\n", jerrors.E0106, 1, "A"},
		{"missing super at eof", ".class A\n", jerrors.E0106, 1, "A"},
		{"instruction outside method", header + "return\n", jerrors.E0107, 3, "return"},
		{"label outside method", header + "L1:\n", jerrors.E0107, 3, "L1"},
		{"bipush range", header + ".method f()V\n  bipush 200\n.end method\n", jerrors.E0108, 4, "200"},
		{"iinc range", header + ".method f()V\n  iinc 1 40000\n.end method\n", jerrors.E0108, 4, "40000"},
		{"bad field value", header + ".field x I = \"s\"\n", jerrors.E0110, 3, "I"},
		{"long literal in ldc", header + ".method f()V\n  ldc 5L\n.end method\n", jerrors.E0110, 4, "5L"},
		{"invokedynamic", header + ".method f()V\n  invokedynamic foo\n.end method\n", jerrors.E0111, 4, "invokedynamic"},
		{"code in abstract", header + ".method abstract f()V\n  return\n.end method\n", jerrors.E0107, 4, "f()V"},
		{"bad descriptor", header + ".field x Q\n", jerrors.E0109, 3, "Q"},
		{"bad method ref", header + ".method f()V\n  invokestatic foo()V\n.end method\n", jerrors.E0109, 4, "foo()V"},
		{"unknown access flag", ".class pubilc A\n", jerrors.E0100, 1, "public"},
		{"trailing operand", header + ".method f()V\n  return 5\n.end method\n", jerrors.E0100, 4, "5"},
		{"duplicate switch key", header + ".method f()V\n  lookupswitch\n  1 : L\n  1 : L\n  default : L\nL:\n  return\n.end method\n", jerrors.E0108, 6, "1"},
		{"tableswitch count", header + ".method f()V\n  tableswitch 0 2\n  L\n  default : L\nL:\n  return\n.end method\n", jerrors.E0108, 4, "expects 3"},
		{"bad version", ".bytecode 12.0\n.class A\n", jerrors.E0108, 1, "12.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSource(tt.input, "bad.j")
			if err == nil {
				t.Fatal("expected error")
			}
			ce, ok := jerrors.As(err)
			if !ok {
				t.Fatalf("not a CompileError: %v", err)
			}
			if ce.Code != tt.code {
				t.Errorf("code = %s, want %s (%v)", ce.Code, tt.code, err)
			}
			if ce.Kind != jerrors.KindParse {
				t.Errorf("kind = %s, want ParseError", ce.Kind)
			}
			if ce.Line != tt.line {
				t.Errorf("line = %d, want %d (%v)", ce.Line, tt.line, err)
			}
			text := ce.Message + strings.Join(ce.Hints, " ")
			if !strings.Contains(text, tt.message) {
				t.Errorf("message %q does not mention %q", text, tt.message)
			}
		})
	}
}

func TestParseLexErrorPassesThrough(t *testing.T) {
	_, err := ParseSource(".class A\n.super java/lang/Object\n.field s Ljava/lang/String; = \"open\n", "bad.j")
	if !jerrors.IsKind(err, jerrors.KindLex) {
		t.Errorf("expected LexError, got %v", err)
	}
}

func TestUnitString(t *testing.T) {
	unit := parse(t, helloSource)
	text := unit.String()
	for _, want := range []string{
		".class public com/example/Hello",
		".field private static final GREETING Ljava/lang/String; = \"hi\"",
		"invokevirtual java/io/PrintStream/println(Ljava/lang/String;)V",
		"getstatic java/lang/System/out Ljava/io/PrintStream;",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("String() missing %q", want)
		}
	}

	// 打印结果可以重新解析
	again := parse(t, text)
	if again.Class.Name != unit.Class.Name || len(again.Methods) != len(unit.Methods) {
		t.Errorf("re-parsed unit differs")
	}
}
