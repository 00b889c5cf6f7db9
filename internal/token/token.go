package token

import "fmt"

// ============================================================================
// Token 类型定义
// ============================================================================
//
// 汇编源码是面向行的，因此 EOL 是一个真正的 token：
// 每条指令或指令性声明（directive）都以 EOL 或 EOF 结束。
//
// ============================================================================

// TokenType 表示 Token 的类型
type TokenType int

const (
	ILLEGAL TokenType = iota // 非法字符
	EOF                      // 文件结束
	EOL                      // 行结束

	DIRECTIVE // 以 . 开头的指令性声明，如 .class .method
	MNEMONIC  // 操作码助记符，如 aload_0 invokevirtual
	IDENT     // 其他单词：类名、描述符、标签引用、访问修饰符
	LABEL     // 标签定义（单词后紧跟冒号），Literal 不含冒号

	INT    // 整数字面量
	FLOAT  // 浮点数字面量
	STRING // 字符串字面量

	COLON  // :
	EQUALS // =
)

var tokenNames = map[TokenType]string{
	ILLEGAL:   "ILLEGAL",
	EOF:       "EOF",
	EOL:       "EOL",
	DIRECTIVE: "DIRECTIVE",
	MNEMONIC:  "MNEMONIC",
	IDENT:     "IDENT",
	LABEL:     "LABEL",
	INT:       "INT",
	FLOAT:     "FLOAT",
	STRING:    "STRING",
	COLON:     ":",
	EQUALS:    "=",
}

// String 返回 TokenType 的字符串表示
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", t)
}

// IsWord 判断是否为单词类 token（可以充当名称的 token）
func (t TokenType) IsWord() bool {
	return t == IDENT || t == MNEMONIC
}

// ============================================================================
// Position - 源代码位置
// ============================================================================

// Position 表示源代码中的位置
type Position struct {
	Filename string // 文件名
	Line     int    // 行号 (从1开始)
	Column   int    // 列号 (从1开始)
	Offset   int    // 字节偏移量 (从0开始)
}

// String 返回位置的字符串表示，格式为 "filename:line:column"
func (p Position) String() string {
	if p.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsValid 检查位置是否有效
func (p Position) IsValid() bool {
	return p.Line > 0
}

// ============================================================================
// Token - 词法单元
// ============================================================================

// Token 表示一个词法单元
//
// Value 保存解析后的值：INT 为 int64，FLOAT 为 float64，STRING 为转义处理后的 string。
type Token struct {
	Type    TokenType   // Token 类型
	Literal string      // 原始字面量
	Value   interface{} // 解析后的值
	Pos     Position    // 位置信息
}

// String 返回 Token 的字符串表示（用于调试）
func (t Token) String() string {
	switch t.Type {
	case DIRECTIVE, MNEMONIC, IDENT, LABEL, INT, FLOAT, STRING:
		return fmt.Sprintf("%s(%s) at %s", t.Type, t.Literal, t.Pos)
	default:
		return fmt.Sprintf("%s at %s", t.Type, t.Pos)
	}
}

// New 创建一个新的 Token
func New(tokenType TokenType, literal string, pos Position) Token {
	return Token{
		Type:    tokenType,
		Literal: literal,
		Pos:     pos,
	}
}

// NewWithValue 创建一个带值的 Token
func NewWithValue(tokenType TokenType, literal string, value interface{}, pos Position) Token {
	return Token{
		Type:    tokenType,
		Literal: literal,
		Value:   value,
		Pos:     pos,
	}
}
