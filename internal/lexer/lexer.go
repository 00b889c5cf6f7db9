package lexer

import (
	"iter"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tangzhangming/jasm/internal/bytecode"
	jerrors "github.com/tangzhangming/jasm/internal/errors"
	"github.com/tangzhangming/jasm/internal/i18n"
	"github.com/tangzhangming/jasm/internal/token"
)

// ============================================================================
// Lexer - 词法分析器
// ============================================================================
//
// 词法分析器按需产生 Token：每次调用 Next 只扫描一个 Token。
//
// 汇编源码是面向行的：
//   - 换行产生 EOL，连续的空行只产生一个 EOL
//   - 分号出现在单词开头时开始注释，直到行尾；出现在单词内部时（如描述符
//     Ljava/lang/String;）属于单词本身
//   - 单词紧跟冒号时是标签定义（LABEL）
//
// 遇到第一个错误后停止，之后的 Next 调用返回同一个错误。
//
// ============================================================================

// Lexer 词法分析器结构体
type Lexer struct {
	source   string // 源代码字符串
	filename string // 源文件名（用于错误报告）

	start     int // 当前 Token 的起始位置（字节偏移）
	current   int // 当前扫描位置（字节偏移）
	line      int // 当前行号（从1开始）
	column    int // 当前列号（从1开始，按字符计）
	startLine int // 当前 Token 的起始行
	startCol  int // 当前 Token 的起始列

	lastType token.TokenType // 上一个产生的 Token 类型，用于合并连续的 EOL
	err      error           // 第一个词法错误
}

// ============================================================================
// 构造函数
// ============================================================================

// New 创建一个新的词法分析器
func New(source, filename string) *Lexer {
	l := &Lexer{
		source:   source,
		filename: filename,
	}
	l.Reset()
	return l
}

// Reset 回到源码开头，重新开始扫描
func (l *Lexer) Reset() {
	l.start = 0
	l.current = 0
	l.line = 1
	l.column = 1
	l.lastType = token.EOL
	l.err = nil
}

// ============================================================================
// 公共方法
// ============================================================================

// Next 扫描并返回下一个 Token
//
// 到达末尾后一直返回 EOF；出错后一直返回同一个 LexError。
func (l *Lexer) Next() (token.Token, error) {
	if l.err != nil {
		return token.Token{}, l.err
	}

	for {
		l.skipBlanks()
		l.mark()

		if l.isAtEnd() {
			return l.makeToken(token.EOF, "", nil), nil
		}

		if l.peek() == '\n' {
			l.advance()
			l.newLine()
			if l.lastType == token.EOL {
				continue
			}
			return l.makeToken(token.EOL, "\n", nil), nil
		}

		tok, err := l.scanToken()
		if err != nil {
			l.err = err
			return token.Token{}, err
		}
		return tok, nil
	}
}

// ScanTokens 扫描所有 tokens，最后一个 Token 总是 EOF
func (l *Lexer) ScanTokens() ([]token.Token, error) {
	tokens := make([]token.Token, 0, len(l.source)/4+1)
	for tok, err := range l.Tokens() {
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}

// Tokens 以迭代器形式产生 Token，直到 EOF（含）或第一个错误
func (l *Lexer) Tokens() iter.Seq2[token.Token, error] {
	return func(yield func(token.Token, error) bool) {
		for {
			tok, err := l.Next()
			if !yield(tok, err) || err != nil || tok.Type == token.EOF {
				return
			}
		}
	}
}

// ============================================================================
// 核心扫描逻辑
// ============================================================================

// scanToken 扫描单个非空白 token
func (l *Lexer) scanToken() (token.Token, error) {
	ch := l.peek()

	switch {
	case ch == '"':
		return l.string()

	case ch == ':':
		l.advance()
		return l.makeToken(token.COLON, ":", nil), nil

	case ch == '=':
		l.advance()
		return l.makeToken(token.EQUALS, "=", nil), nil

	case ch == '.' && isAlpha(l.peekNext()):
		l.advance()
		l.word()
		return l.makeToken(token.DIRECTIVE, l.lexeme(), nil), nil

	case isDigit(ch) || ((ch == '-' || ch == '+') && isDigit(l.peekNext())):
		return l.number()

	case isWordStart(ch):
		l.word()
		text := l.lexeme()
		if l.peek() == ':' {
			l.advance()
			return l.makeToken(token.LABEL, text, nil), nil
		}
		if _, ok := bytecode.Lookup(text); ok {
			return l.makeToken(token.MNEMONIC, text, nil), nil
		}
		return l.makeToken(token.IDENT, text, nil), nil
	}

	l.advance()
	return token.Token{}, l.errorAt(jerrors.E0001, l.startLine, l.startCol, i18n.T(i18n.ErrUnexpectedChar, string(ch)))
}

// skipBlanks 跳过空白（不含换行）和注释
func (l *Lexer) skipBlanks() {
	for !l.isAtEnd() {
		ch := l.peek()
		switch {
		case ch == '\n':
			return
		case ch == ';':
			for !l.isAtEnd() && l.peek() != '\n' {
				l.advance()
			}
		case unicode.IsSpace(ch):
			l.advance()
		default:
			return
		}
	}
}

// word 扫描一个单词：类名、描述符、助记符、标签名等
func (l *Lexer) word() {
	for !l.isAtEnd() && isWordPart(l.peek()) {
		l.advance()
	}
}

// string 处理字符串字面量
//
// 支持转义字符：\n \t \r \b \f \\ \" \' \uXXXX 以及八进制 \NNN
func (l *Lexer) string() (token.Token, error) {
	l.advance() // 开始引号

	var sb strings.Builder
	for {
		if l.isAtEnd() || l.peek() == '\n' {
			return token.Token{}, l.errorAt(jerrors.E0002, l.startLine, l.startCol, i18n.T(i18n.ErrUnterminatedString))
		}

		ch := l.advance()
		if ch == '"' {
			break
		}
		if ch != '\\' {
			sb.WriteRune(ch)
			continue
		}

		escStart, escLine, escCol := l.current-1, l.line, l.column-1
		if l.isAtEnd() || l.peek() == '\n' {
			return token.Token{}, l.errorAt(jerrors.E0002, l.startLine, l.startCol, i18n.T(i18n.ErrUnterminatedString))
		}
		escaped := l.advance()
		switch escaped {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case '\\', '"', '\'':
			sb.WriteRune(escaped)
		case 'u':
			r, ok := l.unicodeEscape()
			if !ok {
				return token.Token{}, l.errorAt(jerrors.E0003, escLine, escCol, i18n.T(i18n.ErrInvalidEscape, l.source[escStart:l.current]))
			}
			sb.WriteRune(r)
		default:
			if escaped >= '0' && escaped <= '7' {
				sb.WriteRune(l.octalEscape(escaped))
				continue
			}
			return token.Token{}, l.errorAt(jerrors.E0003, escLine, escCol, i18n.T(i18n.ErrInvalidEscape, "\\"+string(escaped)))
		}
	}

	return l.makeToken(token.STRING, l.lexeme(), sb.String()), nil
}

// unicodeEscape 读取 \u 之后的 4 个十六进制数字
func (l *Lexer) unicodeEscape() (rune, bool) {
	var r rune
	for i := 0; i < 4; i++ {
		ch := l.peek()
		if !isHexDigit(ch) {
			return 0, false
		}
		l.advance()
		v, _ := strconv.ParseUint(string(ch), 16, 8)
		r = r<<4 | rune(v)
	}
	return r, true
}

// octalEscape 读取八进制转义（最多 3 位，值不超过 0377）
func (l *Lexer) octalEscape(first rune) rune {
	v := first - '0'
	maxDigits := 2
	if first > '3' {
		maxDigits = 1
	}
	for i := 0; i < maxDigits; i++ {
		ch := l.peek()
		if ch < '0' || ch > '7' {
			break
		}
		l.advance()
		v = v*8 + (ch - '0')
	}
	return v
}

// number 处理数字字面量
//
// 整数：十进制或 0x 十六进制，可带符号，后缀 L 表示 long。
// 浮点数：1.5、1e3、1.5e-3，后缀 F 表示 float，D 表示 double。
// INT 的值为 int64，FLOAT 的值为 float64。
func (l *Lexer) number() (token.Token, error) {
	if ch := l.peek(); ch == '-' || ch == '+' {
		l.advance()
	}

	isFloat := false
	if l.peek() == '0' && (l.peekNext() == 'x' || l.peekNext() == 'X') {
		l.advance()
		l.advance()
		for isHexDigit(l.peek()) {
			l.advance()
		}
		if l.peek() == 'L' || l.peek() == 'l' {
			l.advance()
		}
	} else {
		for isDigit(l.peek()) {
			l.advance()
		}
		if l.peek() == '.' && isDigit(l.peekNext()) {
			isFloat = true
			l.advance()
			for isDigit(l.peek()) {
				l.advance()
			}
		}
		if ch := l.peek(); ch == 'e' || ch == 'E' {
			isFloat = true
			l.advance()
			if ch := l.peek(); ch == '-' || ch == '+' {
				l.advance()
			}
			for isDigit(l.peek()) {
				l.advance()
			}
		}
		switch l.peek() {
		case 'L', 'l':
			if !isFloat {
				l.advance()
			}
		case 'F', 'f', 'D', 'd':
			isFloat = true
			l.advance()
		}
	}

	// 数字后紧跟单词字符（如 12ab）视为非法数字
	if !l.isAtEnd() && isWordPart(l.peek()) {
		l.word()
		return token.Token{}, l.errorAt(jerrors.E0004, l.startLine, l.startCol, i18n.T(i18n.ErrInvalidNumber, l.lexeme()))
	}

	text := l.lexeme()
	if isFloat {
		v, err := parseFloat(text)
		if err != nil {
			return token.Token{}, l.errorAt(jerrors.E0004, l.startLine, l.startCol, i18n.T(i18n.ErrInvalidNumber, text))
		}
		return l.makeToken(token.FLOAT, text, v), nil
	}

	v, err := parseInt(text)
	if err != nil {
		return token.Token{}, l.errorAt(jerrors.E0004, l.startLine, l.startCol, i18n.T(i18n.ErrInvalidNumber, text))
	}
	return l.makeToken(token.INT, text, v), nil
}

// parseInt 解析整数字面量（忽略 L 后缀）
func parseInt(text string) (int64, error) {
	text = strings.TrimRight(text, "Ll")
	sign := ""
	if text != "" && (text[0] == '-' || text[0] == '+') {
		sign, text = text[:1], text[1:]
	}
	if len(text) > 2 && (text[1] == 'x' || text[1] == 'X') {
		u, err := strconv.ParseUint(text[2:], 16, 64)
		if err != nil {
			return 0, err
		}
		if sign == "-" {
			return -int64(u), nil
		}
		return int64(u), nil
	}
	return strconv.ParseInt(sign+text, 10, 64)
}

// parseFloat 解析浮点数字面量，F 后缀按 float32 精度取值
func parseFloat(text string) (float64, error) {
	switch text[len(text)-1] {
	case 'F', 'f':
		v, err := strconv.ParseFloat(text[:len(text)-1], 32)
		return v, err
	case 'D', 'd':
		return strconv.ParseFloat(text[:len(text)-1], 64)
	}
	return strconv.ParseFloat(text, 64)
}

// ============================================================================
// 字符读取
// ============================================================================

// isAtEnd 检查是否到达源代码末尾
func (l *Lexer) isAtEnd() bool {
	return l.current >= len(l.source)
}

// advance 前进一个字符并返回它
func (l *Lexer) advance() rune {
	if l.current >= len(l.source) {
		return 0
	}
	b := l.source[l.current]
	if b < utf8.RuneSelf {
		l.current++
		l.column++
		return rune(b)
	}
	r, size := utf8.DecodeRuneInString(l.source[l.current:])
	l.current += size
	l.column++
	return r
}

// peek 查看当前字符但不前进
func (l *Lexer) peek() rune {
	if l.current >= len(l.source) {
		return 0
	}
	b := l.source[l.current]
	if b < utf8.RuneSelf {
		return rune(b)
	}
	r, _ := utf8.DecodeRuneInString(l.source[l.current:])
	return r
}

// peekNext 查看下一个字符但不前进
func (l *Lexer) peekNext() rune {
	if l.current >= len(l.source) {
		return 0
	}
	_, size := utf8.DecodeRuneInString(l.source[l.current:])
	if l.current+size >= len(l.source) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.source[l.current+size:])
	return r
}

// ============================================================================
// 位置追踪
// ============================================================================

// newLine 处理换行
func (l *Lexer) newLine() {
	l.line++
	l.column = 1
}

// mark 记录当前 token 的起始位置
func (l *Lexer) mark() {
	l.start = l.current
	l.startLine = l.line
	l.startCol = l.column
}

// lexeme 返回当前 token 的原始文本
func (l *Lexer) lexeme() string {
	return l.source[l.start:l.current]
}

// ============================================================================
// Token 生成
// ============================================================================

// makeToken 生成一个 Token，位置为当前 token 的起始位置
func (l *Lexer) makeToken(tokenType token.TokenType, literal string, value interface{}) token.Token {
	l.lastType = tokenType
	return token.NewWithValue(tokenType, literal, value, token.Position{
		Filename: l.filename,
		Line:     l.startLine,
		Column:   l.startCol,
		Offset:   l.start,
	})
}

// ============================================================================
// 错误处理
// ============================================================================

// errorAt 生成一个 LexError
func (l *Lexer) errorAt(code string, line, column int, message string) error {
	return jerrors.New(code, message).At(l.filename, line, column)
}

// ============================================================================
// 字符分类函数
// ============================================================================

// isDigit 判断是否为数字 0-9
func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

// isHexDigit 判断是否为十六进制数字 0-9, a-f, A-F
func isHexDigit(ch rune) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

// isAlpha 判断是否为字母、下划线或 $
func isAlpha(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		ch == '_' || ch == '$' ||
		unicode.IsLetter(ch)
}

// isWordStart 判断字符能否开始一个单词
func isWordStart(ch rune) bool {
	return isWordPart(ch) && ch != ';'
}

// isWordPart 判断字符能否出现在单词中
func isWordPart(ch rune) bool {
	if ch == 0 || unicode.IsSpace(ch) || unicode.IsControl(ch) {
		return false
	}
	switch ch {
	case ':', '=', '"':
		return false
	}
	return true
}
