package lexer

import (
	"strings"
	"testing"
)

// ============================================================================
// Lexer 基准测试
// ============================================================================
//
// 运行基准测试：
//   go test -bench=. -benchmem ./internal/lexer/...
//
// ============================================================================

// 测试源码样本：一个典型的汇编类文件
var benchSource = `
; 基准测试用的示例代码
.source Counter.j
.class public com/example/Counter
.super java/lang/Object
.implements java/lang/Runnable

.field private count I
.field public static final LIMIT J = 1000L
.field public static final NAME Ljava/lang/String; = "counter\tA"

.method public <init>()V
    aload_0
    invokespecial java/lang/Object/<init>()V
    return
.end method

.method public run()V
    .limit stack 4
    .limit locals 3
    .line 12
    iconst_0
    istore_1
Loop:
    iload_1
    ldc 100
    if_icmpge Done
    aload_0
    dup
    getfield com/example/Counter/count I
    iconst_1
    iadd
    putfield com/example/Counter/count I
    iinc 1 1
    goto Loop
Done:
    iload_1
    lookupswitch
        1 : One
        -5 : One
        default : Done2
One:
Done2:
    ldc2_w 3.14159D
    pop2
    return
.end method
`

// BenchmarkLexer 测试完整的词法分析性能
func BenchmarkLexer(b *testing.B) {
	b.ReportAllocs()
	b.SetBytes(int64(len(benchSource)))

	for i := 0; i < b.N; i++ {
		lexer := New(benchSource, "bench.j")
		_, _ = lexer.ScanTokens()
	}
}

// BenchmarkLexerLargeFile 测试大文件的词法分析性能
func BenchmarkLexerLargeFile(b *testing.B) {
	largeSource := strings.Repeat(benchSource, 100)

	b.ReportAllocs()
	b.SetBytes(int64(len(largeSource)))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		lexer := New(largeSource, "large.j")
		_, _ = lexer.ScanTokens()
	}
}

// BenchmarkLexerStringsWithEscape 测试带转义的字符串解析性能
func BenchmarkLexerStringsWithEscape(b *testing.B) {
	source := strings.Repeat(`ldc "hello\nworld\t\"escaped\"中\101"`+"\n", 100)

	b.ReportAllocs()
	b.SetBytes(int64(len(source)))

	for i := 0; i < b.N; i++ {
		lexer := New(source, "escape.j")
		_, _ = lexer.ScanTokens()
	}
}

// BenchmarkLexerComments 测试注释跳过性能
func BenchmarkLexerComments(b *testing.B) {
	source := strings.Repeat("; single line comment\n", 50) +
		strings.Repeat("nop ; trailing comment\n", 30)

	b.ReportAllocs()
	b.SetBytes(int64(len(source)))

	for i := 0; i < b.N; i++ {
		lexer := New(source, "comments.j")
		_, _ = lexer.ScanTokens()
	}
}
