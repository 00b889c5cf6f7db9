package classfile

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

// minimalClass 构造 public class Foo extends java/lang/Object，含一个 <init> 方法
func minimalClass() *ClassFile {
	cf := New()
	cf.ConstantPool = append(cf.ConstantPool,
		&ConstantUtf8Info{Value: "Foo"},                            // 1
		&ConstantClassInfo{NameIndex: 1},                           // 2
		&ConstantUtf8Info{Value: "java/lang/Object"},               // 3
		&ConstantClassInfo{NameIndex: 3},                           // 4
		&ConstantUtf8Info{Value: "<init>"},                         // 5
		&ConstantUtf8Info{Value: "()V"},                            // 6
		&ConstantUtf8Info{Value: "Code"},                           // 7
		&ConstantNameAndTypeInfo{NameIndex: 5, DescriptorIndex: 6}, // 8
		&ConstantMethodrefInfo{ClassIndex: 4, NameAndTypeIndex: 8}, // 9
		&ConstantLongInfo{Value: 1 << 40},                          // 10, 11
		nil,
		&ConstantUtf8Info{Value: "after"}, // 12
	)
	cf.AccessFlags = 0x0021
	cf.ThisClass = 2
	cf.SuperClass = 4

	code := &CodeAttribute{
		MaxStack:  1,
		MaxLocals: 1,
		// aload_0; invokespecial #9; return
		Code: []byte{0x2a, 0xb7, 0x00, 0x09, 0xb1},
	}
	cf.Methods = []MemberInfo{{
		AccessFlags:     0x0001,
		NameIndex:       5,
		DescriptorIndex: 6,
		Attributes:      []AttributeInfo{{NameIndex: 7, Info: code.Bytes()}},
	}}
	return cf
}

func TestWriteHeader(t *testing.T) {
	data, err := minimalClass().ToBytes()
	if err != nil {
		t.Fatalf("ToBytes failed: %v", err)
	}
	want := []byte{0xCA, 0xFE, 0xBA, 0xBE, 0x00, 0x03, 0x00, 0x2D, 0x00, 0x0D}
	if !bytes.HasPrefix(data, want) {
		t.Errorf("header = % x, want % x", data[:len(want)], want)
	}
}

func TestParseRoundTrip(t *testing.T) {
	orig := minimalClass()
	data, err := orig.ToBytes()
	if err != nil {
		t.Fatalf("ToBytes failed: %v", err)
	}

	cf, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(cf.ConstantPool) != len(orig.ConstantPool) {
		t.Fatalf("pool size = %d, want %d", len(cf.ConstantPool), len(orig.ConstantPool))
	}
	if cf.ConstantPool[11] != nil {
		t.Errorf("second slot of a long should be empty")
	}

	name, err := cf.ThisClassName()
	if err != nil || name != "Foo" {
		t.Errorf("ThisClassName = %q, %v", name, err)
	}
	super, err := cf.SuperClassName()
	if err != nil || super != "java/lang/Object" {
		t.Errorf("SuperClassName = %q, %v", super, err)
	}
	owner, mname, desc, err := cf.MemberRef(9, ConstantMethodref)
	if err != nil || owner != "java/lang/Object" || mname != "<init>" || desc != "()V" {
		t.Errorf("MemberRef = %s.%s%s, %v", owner, mname, desc, err)
	}
	if s, _ := cf.Utf8(12); s != "after" {
		t.Errorf("Utf8(12) = %q, want after", s)
	}

	again, err := cf.ToBytes()
	if err != nil {
		t.Fatalf("ToBytes after Parse failed: %v", err)
	}
	if !bytes.Equal(again, data) {
		t.Errorf("re-encoded bytes differ")
	}

	a, ok := cf.FindAttribute(cf.Methods[0].Attributes, AttrCode)
	if !ok {
		t.Fatal("Code attribute not found")
	}
	code, err := ParseCode(a.Info)
	if err != nil {
		t.Fatalf("ParseCode failed: %v", err)
	}
	if code.MaxStack != 1 || code.MaxLocals != 1 || len(code.Code) != 5 {
		t.Errorf("code = %+v", code)
	}
}

func TestPoolErrors(t *testing.T) {
	cf := minimalClass()

	tests := []struct {
		name  string
		index uint16
		tag   uint8
		got   uint8
	}{
		{"zero index", 0, ConstantUtf8, 0},
		{"past the end", 99, ConstantUtf8, 0},
		{"long second slot", 11, ConstantUtf8, 0},
		{"wrong tag", 1, ConstantClass, ConstantUtf8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := cf.EntryOf(tt.index, tt.tag)
			var pe *PoolError
			if !errors.As(err, &pe) {
				t.Fatalf("expected PoolError, got %v", err)
			}
			if pe.Index != int(tt.index) || pe.Got != tt.got {
				t.Errorf("PoolError = %+v", pe)
			}
		})
	}

	if _, _, _, err := cf.MemberRef(1, ConstantUtf8); err == nil {
		t.Error("MemberRef on a Utf8 entry should fail")
	}
}

func TestParseErrors(t *testing.T) {
	good, _ := minimalClass().ToBytes()

	tests := []struct {
		name string
		data []byte
		msg  string
	}{
		{"empty", nil, "unexpected end"},
		{"bad magic", []byte{0xCA, 0xFE, 0xBA, 0xBF, 0, 3, 0, 45, 0, 1}, "bad magic"},
		{"truncated", good[:len(good)-1], "unexpected end"},
		{"trailing", append(append([]byte{}, good...), 0), "trailing"},
		{"unknown tag", []byte{0xCA, 0xFE, 0xBA, 0xBE, 0, 3, 0, 45, 0, 2, 2}, "unknown constant pool tag"},
		{"long at end", []byte{0xCA, 0xFE, 0xBA, 0xBE, 0, 3, 0, 45, 0, 2, 5, 0, 0, 0, 0, 0, 0, 0, 1}, "past the end"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.data)
			var fe *FormatError
			if !errors.As(err, &fe) {
				t.Fatalf("expected FormatError, got %v", err)
			}
			if !strings.Contains(fe.Message, tt.msg) {
				t.Errorf("message = %q, want it to contain %q", fe.Message, tt.msg)
			}
		})
	}
}

func TestModifiedUTF8(t *testing.T) {
	tests := []struct {
		in   string
		want []byte
	}{
		{"abc", []byte("abc")},
		{"\x00", []byte{0xC0, 0x80}},
		{"é", []byte{0xC3, 0xA9}},
		{"中", []byte{0xE4, 0xB8, 0xAD}},
		{"😀", []byte{0xED, 0xA0, 0xBD, 0xED, 0xB8, 0x80}},
	}
	for _, tt := range tests {
		got := EncodeModifiedUTF8(tt.in)
		if !bytes.Equal(got, tt.want) {
			t.Errorf("EncodeModifiedUTF8(%q) = % x, want % x", tt.in, got, tt.want)
		}
		if n := ModifiedUTF8Len(tt.in); n != len(tt.want) {
			t.Errorf("ModifiedUTF8Len(%q) = %d, want %d", tt.in, n, len(tt.want))
		}
		back, err := DecodeModifiedUTF8(got)
		if err != nil || back != tt.in {
			t.Errorf("DecodeModifiedUTF8(% x) = %q, %v", got, back, err)
		}
	}

	for _, bad := range [][]byte{{0x00}, {0xC3}, {0xE4, 0xB8}, {0xFF}} {
		if _, err := DecodeModifiedUTF8(bad); err == nil {
			t.Errorf("DecodeModifiedUTF8(% x) should fail", bad)
		}
	}
}

func TestAttributeCodecs(t *testing.T) {
	lines := []LineNumberEntry{{0, 3}, {4, 5}}
	gotLines, err := ParseLineNumberTable(EncodeLineNumberTable(lines))
	if err != nil || len(gotLines) != 2 || gotLines[1] != lines[1] {
		t.Errorf("LineNumberTable = %v, %v", gotLines, err)
	}

	vars := []LocalVariableEntry{{StartPC: 0, Length: 5, NameIndex: 1, DescriptorIndex: 2, Index: 0}}
	gotVars, err := ParseLocalVariableTable(EncodeLocalVariableTable(vars))
	if err != nil || len(gotVars) != 1 || gotVars[0] != vars[0] {
		t.Errorf("LocalVariableTable = %v, %v", gotVars, err)
	}

	idxs, err := ParseIndexList(EncodeIndexList([]uint16{7, 9}))
	if err != nil || len(idxs) != 2 || idxs[0] != 7 || idxs[1] != 9 {
		t.Errorf("index list = %v, %v", idxs, err)
	}

	if _, err := ParseIndex([]byte{0, 1, 2}); err == nil {
		t.Error("ParseIndex should reject trailing bytes")
	}
}

func TestDisassemble(t *testing.T) {
	var sb strings.Builder
	if err := Disassemble(&sb, minimalClass()); err != nil {
		t.Fatalf("Disassemble failed: %v", err)
	}
	out := sb.String()

	for _, want := range []string{
		"=== class Foo (45.3) ===",
		"public super",
		"super      java/lang/Object",
		"=== method <init>()V ===",
		"stack 1, locals 1, code 5 bytes",
		"0000    | aload_0",
		"invokespecial       9 'java/lang/Object.<init>()V'",
		"0004    | return",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestByteWriter(t *testing.T) {
	w := NewByteWriter()
	w.WriteU8(1)
	w.WriteU16(0x0203)
	w.WriteI16(-1)
	w.WriteU32(0x04050607)
	w.Pad(2)
	want := []byte{1, 2, 3, 0xFF, 0xFF, 4, 5, 6, 7, 0, 0}
	if !bytes.Equal(w.Bytes(), want) || w.Len() != len(want) {
		t.Errorf("bytes = % x, want % x", w.Bytes(), want)
	}
	w.Reset()
	if w.Len() != 0 {
		t.Errorf("Len after Reset = %d", w.Len())
	}
}
