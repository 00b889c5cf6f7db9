package lexer

import (
	"math"
	"testing"

	jerrors "github.com/tangzhangming/jasm/internal/errors"
	"github.com/tangzhangming/jasm/internal/token"
)

func scan(t *testing.T, input string) []token.Token {
	t.Helper()
	tokens, err := New(input, "test.j").ScanTokens()
	if err != nil {
		t.Fatalf("ScanTokens(%q): %v", input, err)
	}
	return tokens
}

func TestLexerLineStructure(t *testing.T) {
	input := ".class public Foo\n\n\n.super java/lang/Object ; comment\nLabel1:\n  goto Label1\n"

	expected := []struct {
		typ     token.TokenType
		literal string
		line    int
		column  int
	}{
		{token.DIRECTIVE, ".class", 1, 1},
		{token.IDENT, "public", 1, 8},
		{token.IDENT, "Foo", 1, 15},
		{token.EOL, "\n", 1, 18},
		{token.DIRECTIVE, ".super", 4, 1},
		{token.IDENT, "java/lang/Object", 4, 8},
		{token.EOL, "\n", 4, 34},
		{token.LABEL, "Label1", 5, 1},
		{token.EOL, "\n", 5, 8},
		{token.MNEMONIC, "goto", 6, 3},
		{token.IDENT, "Label1", 6, 8},
		{token.EOL, "\n", 6, 14},
		{token.EOF, "", 7, 1},
	}

	tokens := scan(t, input)
	if len(tokens) != len(expected) {
		t.Fatalf("token count mismatch: got %d, want %d (%v)", len(tokens), len(expected), tokens)
	}
	for i, tok := range tokens {
		want := expected[i]
		if tok.Type != want.typ || tok.Literal != want.literal {
			t.Errorf("token[%d] = %s %q, want %s %q", i, tok.Type, tok.Literal, want.typ, want.literal)
		}
		if tok.Pos.Line != want.line || tok.Pos.Column != want.column {
			t.Errorf("token[%d] %q at %d:%d, want %d:%d", i, tok.Literal, tok.Pos.Line, tok.Pos.Column, want.line, want.column)
		}
	}
}

func TestLexerWords(t *testing.T) {
	tests := []struct {
		input string
		typ   token.TokenType
	}{
		{"aload_0", token.MNEMONIC},
		{"invokevirtual", token.MNEMONIC},
		{"java/io/PrintStream/println(Ljava/lang/String;)V", token.IDENT},
		{"[Ljava/lang/String;", token.IDENT},
		{"<init>", token.IDENT},
		{"Outer$Inner", token.IDENT},
		{"-Infinity", token.IDENT},
	}

	for _, tt := range tests {
		tokens := scan(t, tt.input)
		if len(tokens) != 2 {
			t.Errorf("%q: got %d tokens, want 2", tt.input, len(tokens))
			continue
		}
		if tokens[0].Type != tt.typ || tokens[0].Literal != tt.input {
			t.Errorf("%q: got %s %q, want %s", tt.input, tokens[0].Type, tokens[0].Literal, tt.typ)
		}
	}
}

func TestLexerColonAndEquals(t *testing.T) {
	tokens := scan(t, "default : L1\n.field x I = 5")
	expected := []token.TokenType{
		token.IDENT, token.COLON, token.IDENT, token.EOL,
		token.DIRECTIVE, token.IDENT, token.IDENT, token.EQUALS, token.INT, token.EOF,
	}
	if len(tokens) != len(expected) {
		t.Fatalf("token count mismatch: got %d, want %d", len(tokens), len(expected))
	}
	for i, tok := range tokens {
		if tok.Type != expected[i] {
			t.Errorf("token[%d] type mismatch: got %s, want %s", i, tok.Type, expected[i])
		}
	}
}

func TestLexerNumbers(t *testing.T) {
	tests := []struct {
		input    string
		expected token.TokenType
		value    interface{}
	}{
		{"123", token.INT, int64(123)},
		{"-1", token.INT, int64(-1)},
		{"+7", token.INT, int64(7)},
		{"010", token.INT, int64(10)},
		{"0x1F", token.INT, int64(31)},
		{"-0x10", token.INT, int64(-16)},
		{"9223372036854775807L", token.INT, int64(math.MaxInt64)},
		{"3.14", token.FLOAT, 3.14},
		{"1e3", token.FLOAT, 1000.0},
		{"-2.5e-1", token.FLOAT, -0.25},
		{"2D", token.FLOAT, 2.0},
		{"1.5F", token.FLOAT, 1.5},
		{"0.1F", token.FLOAT, float64(float32(0.1))},
	}

	for _, tt := range tests {
		tokens := scan(t, tt.input)
		if len(tokens) != 2 {
			t.Errorf("%q: expected 2 tokens, got %d", tt.input, len(tokens))
			continue
		}
		if tokens[0].Type != tt.expected {
			t.Errorf("%q: expected type %s, got %s", tt.input, tt.expected, tokens[0].Type)
		}
		if tokens[0].Value != tt.value {
			t.Errorf("%q: expected value %v (%T), got %v (%T)", tt.input, tt.value, tt.value, tokens[0].Value, tokens[0].Value)
		}
		if tokens[0].Literal != tt.input {
			t.Errorf("%q: literal %q", tt.input, tokens[0].Literal)
		}
	}
}

func TestLexerStrings(t *testing.T) {
	tests := []struct {
		input string
		value string
	}{
		{`"hello"`, "hello"},
		{`"a\tb\nc"`, "a\tb\nc"},
		{`"quote \" and \\ and \'"`, `quote " and \ and '`},
		{`"\u4e2d\u6587"`, "中文"},
		{`"\101\60\0"`, "A0\x00"},
		{`"\477"`, "'7"},
		{`"中文 ok"`, "中文 ok"},
		{`"a ; not a comment"`, "a ; not a comment"},
	}

	for _, tt := range tests {
		tokens := scan(t, tt.input)
		if tokens[0].Type != token.STRING {
			t.Errorf("%s: expected STRING, got %s", tt.input, tokens[0].Type)
			continue
		}
		if tokens[0].Value != tt.value {
			t.Errorf("%s: expected value %q, got %q", tt.input, tt.value, tokens[0].Value)
		}
	}
}

func TestLexerComments(t *testing.T) {
	tokens := scan(t, "; header\n  ; indented\nnop ; trailing\n")
	expected := []token.TokenType{token.MNEMONIC, token.EOL, token.EOF}
	if len(tokens) != len(expected) {
		t.Fatalf("token count mismatch: got %d, want %d (%v)", len(tokens), len(expected), tokens)
	}
	for i, tok := range tokens {
		if tok.Type != expected[i] {
			t.Errorf("token[%d] type mismatch: got %s, want %s", i, tok.Type, expected[i])
		}
	}
	if tokens[0].Pos.Line != 3 {
		t.Errorf("nop on line %d, want 3", tokens[0].Pos.Line)
	}
}

func TestLexerErrors(t *testing.T) {
	tests := []struct {
		input  string
		code   string
		line   int
		column int
	}{
		{"ldc \"abc\nnop", jerrors.E0002, 1, 5},
		{"ldc \"abc", jerrors.E0002, 1, 5},
		{"nop\n  ldc \"a\\qb\"", jerrors.E0003, 2, 9},
		{"ldc \"\\u12G4\"", jerrors.E0003, 1, 6},
		{"bipush 12ab", jerrors.E0004, 1, 8},
		{"ldc 99999999999999999999", jerrors.E0004, 1, 5},
		{"nop \x01", jerrors.E0001, 1, 5},
	}

	for _, tt := range tests {
		_, err := New(tt.input, "bad.j").ScanTokens()
		if err == nil {
			t.Errorf("%q: expected error", tt.input)
			continue
		}
		if !jerrors.IsKind(err, jerrors.KindLex) {
			t.Errorf("%q: expected LexError, got %v", tt.input, err)
		}
		ce, ok := jerrors.As(err)
		if !ok {
			t.Errorf("%q: not a CompileError: %v", tt.input, err)
			continue
		}
		if ce.Code != tt.code || ce.Line != tt.line || ce.Column != tt.column {
			t.Errorf("%q: got %s at %d:%d, want %s at %d:%d", tt.input, ce.Code, ce.Line, ce.Column, tt.code, tt.line, tt.column)
		}
		if ce.File != "bad.j" {
			t.Errorf("%q: file %q", tt.input, ce.File)
		}
	}
}

func TestLexerStickyError(t *testing.T) {
	l := New("nop \"open", "t.j")
	if tok, err := l.Next(); err != nil || tok.Type != token.MNEMONIC {
		t.Fatalf("first token: %v %v", tok, err)
	}
	_, first := l.Next()
	if first == nil {
		t.Fatal("expected error")
	}
	_, again := l.Next()
	if again != first {
		t.Errorf("error not sticky: %v vs %v", again, first)
	}

	l.Reset()
	if tok, err := l.Next(); err != nil || tok.Literal != "nop" {
		t.Errorf("after Reset: %v %v", tok, err)
	}
}

func TestLexerEOFRepeats(t *testing.T) {
	l := New("", "empty.j")
	for i := 0; i < 3; i++ {
		tok, err := l.Next()
		if err != nil || tok.Type != token.EOF {
			t.Fatalf("call %d: %v %v", i, tok, err)
		}
	}
}

func TestLexerTokensIterator(t *testing.T) {
	count := 0
	for tok, err := range New("iconst_0\nireturn", "t.j").Tokens() {
		if err != nil {
			t.Fatal(err)
		}
		count++
		if count == 2 && tok.Type != token.EOL {
			t.Errorf("second token %s, want EOL", tok.Type)
		}
	}
	if count != 4 {
		t.Errorf("iterated %d tokens, want 4", count)
	}
}
