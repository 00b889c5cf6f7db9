package constpool

import (
	"math"
	"strings"
	"testing"

	"github.com/tangzhangming/jasm/internal/classfile"
	jerrors "github.com/tangzhangming/jasm/internal/errors"
	"github.com/tangzhangming/jasm/internal/parser"
)

const helloTwice = `.class public Dedup
.super java/lang/Object

.method public static main([Ljava/lang/String;)V
    .limit stack 2
    getstatic java/lang/System/out Ljava/io/PrintStream;
    ldc "hello"
    invokevirtual java/io/PrintStream/println(Ljava/lang/String;)V
    getstatic java/lang/System/out Ljava/io/PrintStream;
    ldc "hello"
    invokevirtual java/io/PrintStream/println(Ljava/lang/String;)V
    return
.end method
`

func build(t *testing.T, src string) *Pool {
	t.Helper()
	unit, err := parser.ParseSource(src, "test.j")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	p, err := Build(unit)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return p
}

func TestBuildOrderAndDedup(t *testing.T) {
	p := build(t, helloTwice)

	if p.Count() != 22 {
		t.Errorf("Count = %d, want 22", p.Count())
	}

	tests := []struct {
		name  string
		index func() (uint16, error)
		want  uint16
	}{
		{"this class", func() (uint16, error) { return p.Class("Dedup") }, 2},
		{"super class", func() (uint16, error) { return p.Class("java/lang/Object") }, 4},
		{"method name", func() (uint16, error) { return p.Utf8("main") }, 5},
		{"Code", func() (uint16, error) { return p.Utf8("Code") }, 7},
		{"field ref", func() (uint16, error) {
			return p.Fieldref("java/lang/System", "out", "Ljava/io/PrintStream;")
		}, 13},
		{"string", func() (uint16, error) { return p.String("hello") }, 15},
		{"method ref", func() (uint16, error) {
			return p.Methodref("java/io/PrintStream", "println", "(Ljava/lang/String;)V")
		}, 21},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, err := tt.index()
			if err != nil {
				t.Fatalf("lookup failed: %v", err)
			}
			if idx != tt.want {
				t.Errorf("index = %d, want %d", idx, tt.want)
			}
		})
	}

	count := 0
	for _, e := range p.Entries() {
		if e != nil && e.Tag() == classfile.ConstantString {
			count++
		}
	}
	if count != 1 {
		t.Errorf("found %d String entries, want 1", count)
	}
}

func TestBuildMemberAttributes(t *testing.T) {
	src := `.source Attrs.j
.class public Attrs
.super java/lang/Object
.implements java/lang/Runnable
.field public static final MAX I = 10

.method public run()V
    .throws java/lang/IllegalStateException
    .var 0 is this LAttrs; from Start to End
Start:
    .line 9
    return
End:
    athrow
    .catch java/lang/RuntimeException from Start to End using End
.end method
`
	p := build(t, src)

	for _, name := range []string{
		"SourceFile", "Attrs.j", "ConstantValue", "Exceptions",
		"LineNumberTable", "LocalVariableTable", "this", "LAttrs;",
	} {
		if _, err := p.Utf8(name); err != nil {
			t.Errorf("Utf8 %q missing: %v", name, err)
		}
	}
	for _, name := range []string{"java/lang/Runnable", "java/lang/IllegalStateException", "java/lang/RuntimeException"} {
		if _, err := p.Class(name); err != nil {
			t.Errorf("Class %q missing: %v", name, err)
		}
	}
	if _, err := p.Integer(10); err != nil {
		t.Errorf("ConstantValue 10 missing: %v", err)
	}
}

func TestWideSlots(t *testing.T) {
	p := New()
	if idx := p.AddLong(5); idx != 1 {
		t.Errorf("AddLong = %d, want 1", idx)
	}
	if idx := p.AddInteger(5); idx != 3 {
		t.Errorf("AddInteger = %d, want 3", idx)
	}
	if idx := p.AddDouble(2.5); idx != 4 {
		t.Errorf("AddDouble = %d, want 4", idx)
	}
	if p.Count() != 6 {
		t.Errorf("Count = %d, want 6", p.Count())
	}
	if p.Entries()[2] != nil || p.Entries()[5] != nil {
		t.Error("second slot of a wide constant should be empty")
	}
	if idx := p.AddLong(5); idx != 1 {
		t.Errorf("repeated AddLong = %d, want 1", idx)
	}
}

func TestFloatBitPatterns(t *testing.T) {
	p := New()
	pos := p.AddFloat(0)
	neg := p.AddFloat(float32(math.Copysign(0, -1)))
	if pos == neg {
		t.Error("0.0f and -0.0f must be distinct constants")
	}
	nan := float32(math.NaN())
	if a, b := p.AddFloat(nan), p.AddFloat(nan); a != b {
		t.Errorf("NaN constants = %d and %d, want one entry", a, b)
	}
	if a, b := p.AddDouble(1), p.AddDouble(1); a != b {
		t.Errorf("double constants = %d and %d, want one entry", a, b)
	}
}

func TestLookupMiss(t *testing.T) {
	p := New()
	_, err := p.Methodref("a/B", "c", "()V")
	ce, ok := jerrors.As(err)
	if !ok {
		t.Fatalf("expected CompileError, got %v", err)
	}
	if ce.Code != jerrors.E0202 || ce.Kind != jerrors.KindEncode {
		t.Errorf("error = %s %v, want E0202 EncodeError", ce.Code, ce.Kind)
	}
}

func TestOverflow(t *testing.T) {
	p := New()
	for i := 0; i < 65534; i++ {
		p.AddInteger(int32(i))
	}
	if err := p.Err(); err != nil {
		t.Fatalf("pool of 65534 entries should fit: %v", err)
	}
	if p.Count() != 65535 {
		t.Fatalf("Count = %d, want 65535", p.Count())
	}
	p.AddInteger(-1)
	if !jerrors.IsKind(p.Err(), jerrors.KindConstantPool) {
		t.Errorf("expected ConstantPoolError, got %v", p.Err())
	}
	if p.Count() != 65535 {
		t.Errorf("Count after overflow = %d, want 65535", p.Count())
	}
}

func TestUtf8TooLong(t *testing.T) {
	src := ".class public Big\n.super java/lang/Object\n" +
		".method public static f()V\n" +
		"    ldc \"" + strings.Repeat("é", 40000) + "\"\n" +
		"    pop\n    return\n.end method\n"
	unit, err := parser.ParseSource(src, "big.j")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	_, err = Build(unit)
	ce, ok := jerrors.As(err)
	if !ok {
		t.Fatalf("expected CompileError, got %v", err)
	}
	if ce.Code != jerrors.E0201 || ce.Kind != jerrors.KindConstantPool {
		t.Errorf("error = %s %v, want E0201", ce.Code, ce.Kind)
	}
	if ce.File != "big.j" || ce.Line != 4 || ce.Method != "f()V" {
		t.Errorf("location = %s:%d in %s", ce.File, ce.Line, ce.Method)
	}
}
