// Package parser 把 Token 序列解析为 ast.CompilationUnit
//
// 汇编源码按行组织，语法分析器是一个状态机：
//
//	Start → ClassHeader → Members ⇄ MethodBody
//
// 标签在方法内部解析：方法体中的标签引用先记录下来，
// 遇到 .end method 时统一解析为指令下标。
// 语法分析器遇到第一个错误即返回。
package parser

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/tangzhangming/jasm/internal/ast"
	"github.com/tangzhangming/jasm/internal/bytecode"
	jerrors "github.com/tangzhangming/jasm/internal/errors"
	"github.com/tangzhangming/jasm/internal/i18n"
	"github.com/tangzhangming/jasm/internal/lexer"
	"github.com/tangzhangming/jasm/internal/token"
)

// state 语法分析器所处的位置
type state int

const (
	stateStart       state = iota // 尚未遇到 .class
	stateClassHeader              // .class 之后、第一个成员之前
	stateMembers                  // 字段与方法之间
	stateMethodBody               // .method 与 .end method 之间
)

// directives 所有已知的指令性声明
var directives = []string{
	".source", ".bytecode", ".class", ".interface", ".super", ".implements",
	".field", ".method", ".limit", ".catch", ".line", ".var", ".throws", ".end",
}

// Parser 语法分析器
type Parser struct {
	tokens   []token.Token
	current  int
	filename string

	state state
	unit  *ast.CompilationUnit

	method     *ast.MethodDecl // 当前方法
	labelLines map[string]int  // 当前方法中标签定义所在的行
	refs       []*ast.LabelRef // 当前方法中的标签引用，按出现顺序
	seen       map[string]int  // 只能出现一次的声明 → 所在行
}

// New 创建一个新的语法分析器
func New(tokens []token.Token, filename string) *Parser {
	return &Parser{
		tokens:   tokens,
		filename: filename,
		unit: &ast.CompilationUnit{
			Source:  filename,
			Version: ast.DefaultVersion,
		},
		seen: make(map[string]int),
	}
}

// Parse 解析 Token 序列
func Parse(tokens []token.Token, filename string) (*ast.CompilationUnit, error) {
	return New(tokens, filename).Parse()
}

// Partial 返回到目前为止解析出的编译单元，类头尚未解析时为 nil
//
// 解析失败后调用方可以据此得知声明的类名。
func (p *Parser) Partial() *ast.CompilationUnit {
	if p.unit.Class == nil {
		return nil
	}
	return p.unit
}

// ParseSource 词法分析并解析源码文本
func ParseSource(source, filename string) (*ast.CompilationUnit, error) {
	tokens, err := lexer.New(source, filename).ScanTokens()
	if err != nil {
		return nil, err
	}
	return Parse(tokens, filename)
}

// Parse 解析整个编译单元
func (p *Parser) Parse() (*ast.CompilationUnit, error) {
	for {
		p.skipEOL()
		if p.peek().Type == token.EOF {
			break
		}
		if err := p.parseLine(); err != nil {
			return nil, err
		}
	}

	if p.method != nil {
		return nil, p.unterminated()
	}
	if p.unit.Class == nil {
		return nil, jerrors.New(jerrors.E0105, i18n.T(i18n.ErrMissingClass)).At(p.filename, 0, 0)
	}
	if err := p.requireSuper(); err != nil {
		return nil, err
	}
	return p.unit, nil
}

// ============================================================================
// 行分派
// ============================================================================

// parseLine 解析一行：指令性声明、标签或指令
func (p *Parser) parseLine() error {
	tok := p.peek()

	switch tok.Type {
	case token.DIRECTIVE:
		return p.parseDirective()

	case token.LABEL:
		p.advance()
		if err := p.defineLabel(tok); err != nil {
			return err
		}
		if p.atLineEnd() {
			return p.endLine()
		}
		return p.parseLine()

	case token.MNEMONIC:
		if p.method == nil {
			return p.errorAt(jerrors.E0107, tok, i18n.T(i18n.ErrInstructionOutsideMethod, tok.Literal))
		}
		return p.parseInstruction()
	}

	return p.errorAt(jerrors.E0100, tok, i18n.T(i18n.ErrUnexpectedToken, describe(tok)))
}

// parseDirective 按名称分派指令性声明
func (p *Parser) parseDirective() error {
	tok := p.peek()
	name := tok.Literal

	if p.method != nil {
		switch name {
		case ".limit":
			return p.parseLimit()
		case ".catch":
			return p.parseCatch()
		case ".line":
			return p.parseLineNumber()
		case ".var":
			return p.parseVar()
		case ".throws":
			return p.parseThrows()
		case ".end":
			return p.parseEndMethod()
		case ".method":
			return p.unterminated()
		}
		if isKnownDirective(name) {
			return p.errorAt(jerrors.E0107, tok, i18n.T(i18n.ErrDirectiveOutOfPlace, name))
		}
		return p.unknownDirective(tok)
	}

	switch name {
	case ".source":
		return p.parseSource()
	case ".bytecode":
		return p.parseBytecode()
	case ".class", ".interface":
		return p.parseClass()
	case ".super":
		return p.parseSuper()
	case ".implements":
		return p.parseImplements()
	case ".field":
		return p.parseField()
	case ".method":
		return p.parseMethod()
	}
	if isKnownDirective(name) {
		return p.errorAt(jerrors.E0107, tok, i18n.T(i18n.ErrDirectiveOutOfPlace, name))
	}
	return p.unknownDirective(tok)
}

// ============================================================================
// 类头
// ============================================================================

// parseSource 解析 .source <file>
func (p *Parser) parseSource() error {
	tok := p.advance()
	if err := p.once(tok); err != nil {
		return err
	}
	arg := p.peek()
	switch {
	case arg.Type == token.STRING:
		p.unit.SourceFile = arg.Value.(string)
	case arg.Type.IsWord():
		p.unit.SourceFile = arg.Literal
	default:
		return p.expected("file name")
	}
	p.advance()
	return p.endLine()
}

// parseBytecode 解析 .bytecode <major.minor>
func (p *Parser) parseBytecode() error {
	tok := p.advance()
	if p.state != stateStart {
		return p.errorAt(jerrors.E0107, tok, i18n.T(i18n.ErrDirectiveOutOfPlace, tok.Literal))
	}
	if err := p.once(tok); err != nil {
		return err
	}

	arg := p.peek()
	if arg.Type != token.INT && arg.Type != token.FLOAT {
		return p.expected("version")
	}
	p.advance()

	major, minor, ok := parseVersion(arg.Literal)
	if !ok {
		return p.errorAt(jerrors.E0108, arg, i18n.T(i18n.ErrBadVersion, arg.Literal))
	}
	p.unit.Version = ast.Version{Major: major, Minor: minor}
	return p.endLine()
}

// parseVersion 解析 "49.0"、"45.3"、"50" 形式的版本号
func parseVersion(text string) (major, minor uint16, ok bool) {
	majorText, minorText, _ := strings.Cut(text, ".")
	ma, err := strconv.ParseUint(majorText, 10, 16)
	if err != nil || ma < 45 {
		return 0, 0, false
	}
	var mi uint64
	if minorText != "" {
		if mi, err = strconv.ParseUint(minorText, 10, 16); err != nil {
			return 0, 0, false
		}
	}
	return uint16(ma), uint16(mi), true
}

// parseClass 解析 .class/.interface <access> <name>
func (p *Parser) parseClass() error {
	tok := p.advance()
	if p.unit.Class != nil {
		return p.errorAt(jerrors.E0107, tok, i18n.T(i18n.ErrDuplicateDirective, ".class"))
	}

	access, err := p.parseAccess(1)
	if err != nil {
		return err
	}
	nameTok, err := p.expectWord("class name")
	if err != nil {
		return err
	}
	if !bytecode.ValidClassName(nameTok.Literal) || strings.HasPrefix(nameTok.Literal, "[") {
		return p.errorAt(jerrors.E0109, nameTok, i18n.T(i18n.ErrBadDescriptor, nameTok.Literal))
	}

	p.unit.Class = &ast.ClassMetadata{
		Name:        nameTok.Literal,
		Access:      access,
		IsInterface: tok.Literal == ".interface",
		Line:        tok.Pos.Line,
	}
	p.state = stateClassHeader
	return p.endLine()
}

// parseSuper 解析 .super <name>
func (p *Parser) parseSuper() error {
	tok := p.advance()
	if err := p.requireHeader(tok); err != nil {
		return err
	}
	if p.unit.Class.Super != "" {
		return p.errorAt(jerrors.E0107, tok, i18n.T(i18n.ErrDuplicateDirective, ".super"))
	}
	name, err := p.expectClassName()
	if err != nil {
		return err
	}
	p.unit.Class.Super = name
	return p.endLine()
}

// parseImplements 解析 .implements <name>
func (p *Parser) parseImplements() error {
	tok := p.advance()
	if err := p.requireHeader(tok); err != nil {
		return err
	}
	name, err := p.expectClassName()
	if err != nil {
		return err
	}
	p.unit.Class.Interfaces = append(p.unit.Class.Interfaces, name)
	return p.endLine()
}

// requireHeader 检查类头声明的位置
func (p *Parser) requireHeader(tok token.Token) error {
	switch p.state {
	case stateStart:
		return p.errorAt(jerrors.E0105, tok, i18n.T(i18n.ErrMissingClass))
	case stateClassHeader:
		return nil
	}
	return p.errorAt(jerrors.E0107, tok, i18n.T(i18n.ErrDirectiveOutOfPlace, tok.Literal))
}

// requireSuper 类头必须带 .super
func (p *Parser) requireSuper() error {
	class := p.unit.Class
	if class.Super != "" {
		return nil
	}
	return jerrors.New(jerrors.E0106, i18n.T(i18n.ErrMissingSuper, class.Name)).
		At(p.filename, class.Line, 1).
		WithHint(i18n.T(i18n.HintAddSuper))
}

// enterMembers 第一个成员出现时结束类头
func (p *Parser) enterMembers(tok token.Token) error {
	switch p.state {
	case stateStart:
		return p.errorAt(jerrors.E0105, tok, i18n.T(i18n.ErrMissingClass))
	case stateClassHeader:
		if err := p.requireSuper(); err != nil {
			return err
		}
		p.state = stateMembers
	}
	return nil
}

// ============================================================================
// 成员
// ============================================================================

// parseField 解析 .field <access> <name> <desc> [= value]
func (p *Parser) parseField() error {
	tok := p.advance()
	if err := p.enterMembers(tok); err != nil {
		return err
	}

	access, err := p.parseAccess(2)
	if err != nil {
		return err
	}
	nameTok, err := p.expectWord("field name")
	if err != nil {
		return err
	}
	descTok, err := p.expectWord("field descriptor")
	if err != nil {
		return err
	}
	if !bytecode.ValidFieldDescriptor(descTok.Literal) {
		return p.errorAt(jerrors.E0109, descTok, i18n.T(i18n.ErrBadDescriptor, descTok.Literal))
	}

	field := &ast.FieldDecl{
		Name:       nameTok.Literal,
		Descriptor: descTok.Literal,
		Access:     access,
		Line:       tok.Pos.Line,
	}

	if p.check(token.EQUALS) {
		p.advance()
		value, err := p.parseFieldValue(descTok.Literal)
		if err != nil {
			return err
		}
		field.Value = value
	}

	p.unit.Fields = append(p.unit.Fields, field)
	return p.endLine()
}

// parseFieldValue 解析字段初始值，类型必须与描述符一致
func (p *Parser) parseFieldValue(desc string) (*ast.Constant, error) {
	tok := p.peek()
	mismatch := func() error {
		return p.errorAt(jerrors.E0110, tok, i18n.T(i18n.ErrBadFieldValue, tok.Literal, desc))
	}

	switch tok.Type {
	case token.INT, token.FLOAT, token.STRING:
	default:
		return nil, p.expected("constant value")
	}
	p.advance()

	switch desc {
	case "I", "B", "C", "S", "Z":
		if tok.Type != token.INT || isLongLiteral(tok) {
			return nil, mismatch()
		}
		v, ok := intConstant(tok)
		if !ok {
			return nil, mismatch()
		}
		return &ast.Constant{Kind: ast.ConstInt, Int: int64(v)}, nil
	case "J":
		if tok.Type != token.INT {
			return nil, mismatch()
		}
		return &ast.Constant{Kind: ast.ConstLong, Int: tok.Value.(int64)}, nil
	case "F":
		if tok.Type == token.STRING {
			return nil, mismatch()
		}
		return &ast.Constant{Kind: ast.ConstFloat, Float: float64(float32(numberValue(tok)))}, nil
	case "D":
		if tok.Type == token.STRING {
			return nil, mismatch()
		}
		return &ast.Constant{Kind: ast.ConstDouble, Float: numberValue(tok)}, nil
	case "Ljava/lang/String;":
		if tok.Type != token.STRING {
			return nil, mismatch()
		}
		return &ast.Constant{Kind: ast.ConstString, Str: tok.Value.(string)}, nil
	}
	return nil, mismatch()
}

// parseMethod 解析 .method <access> <name(desc)ret>
func (p *Parser) parseMethod() error {
	tok := p.advance()
	if err := p.enterMembers(tok); err != nil {
		return err
	}

	access, err := p.parseAccess(1)
	if err != nil {
		return err
	}
	sigTok, err := p.expectWord("method signature")
	if err != nil {
		return err
	}
	paren := strings.IndexByte(sigTok.Literal, '(')
	if paren <= 0 {
		return p.errorAt(jerrors.E0109, sigTok, i18n.T(i18n.ErrBadMemberRef, sigTok.Literal))
	}
	name, desc := sigTok.Literal[:paren], sigTok.Literal[paren:]
	if !bytecode.ValidMethodDescriptor(desc) {
		return p.errorAt(jerrors.E0109, sigTok, i18n.T(i18n.ErrBadDescriptor, desc))
	}

	p.method = ast.NewMethod(name, desc, access, tok.Pos.Line)
	p.labelLines = make(map[string]int)
	p.refs = nil
	p.state = stateMethodBody
	return p.endLine()
}

// ============================================================================
// 方法体内的声明
// ============================================================================

// parseLimit 解析 .limit stack|locals N
func (p *Parser) parseLimit() error {
	p.advance()
	kindTok, err := p.expectWord("stack or locals")
	if err != nil {
		return err
	}
	if kindTok.Literal != "stack" && kindTok.Literal != "locals" {
		return p.errorAt(jerrors.E0100, kindTok, i18n.T(i18n.ErrExpectedToken, "stack or locals", describe(kindTok)))
	}
	n, err := p.expectIntRange(".limit "+kindTok.Literal, 0, 65535)
	if err != nil {
		return err
	}
	if kindTok.Literal == "stack" {
		p.method.MaxStack = int(n)
	} else {
		p.method.MaxLocals = int(n)
	}
	return p.endLine()
}

// parseCatch 解析 .catch <type|all> from L1 to L2 using L3
func (p *Parser) parseCatch() error {
	tok := p.advance()
	typeTok, err := p.expectWord("exception class")
	if err != nil {
		return err
	}
	typ := typeTok.Literal
	if typ == "all" {
		typ = ""
	} else if !bytecode.ValidClassName(typ) {
		return p.errorAt(jerrors.E0109, typeTok, i18n.T(i18n.ErrBadDescriptor, typ))
	}

	h := &ast.ExceptionHandler{Type: typ, Line: tok.Pos.Line}
	if err := p.expectKeyword("from"); err != nil {
		return err
	}
	if h.Start, err = p.expectLabelRef(); err != nil {
		return err
	}
	if err := p.expectKeyword("to"); err != nil {
		return err
	}
	if h.End, err = p.expectLabelRef(); err != nil {
		return err
	}
	if err := p.expectKeyword("using"); err != nil {
		return err
	}
	if h.Handler, err = p.expectLabelRef(); err != nil {
		return err
	}

	p.method.Handlers = append(p.method.Handlers, h)
	return p.endLine()
}

// parseLineNumber 解析 .line N
func (p *Parser) parseLineNumber() error {
	p.advance()
	n, err := p.expectIntRange(".line", 0, 65535)
	if err != nil {
		return err
	}
	p.method.Lines = append(p.method.Lines, ast.LineNumber{
		Index: len(p.method.Instructions),
		Line:  int(n),
	})
	return p.endLine()
}

// parseVar 解析 .var N is <name> <desc> [from L1 to L2]
func (p *Parser) parseVar() error {
	tok := p.advance()
	n, err := p.expectIntRange(".var", 0, 65535)
	if err != nil {
		return err
	}
	if err := p.expectKeyword("is"); err != nil {
		return err
	}
	nameTok, err := p.expectWord("variable name")
	if err != nil {
		return err
	}
	descTok, err := p.expectWord("variable descriptor")
	if err != nil {
		return err
	}
	if !bytecode.ValidFieldDescriptor(descTok.Literal) {
		return p.errorAt(jerrors.E0109, descTok, i18n.T(i18n.ErrBadDescriptor, descTok.Literal))
	}

	v := &ast.LocalVar{
		Index:      int(n),
		Name:       nameTok.Literal,
		Descriptor: descTok.Literal,
		Line:       tok.Pos.Line,
	}
	if !p.atLineEnd() {
		if err := p.expectKeyword("from"); err != nil {
			return err
		}
		if v.Start, err = p.expectLabelRef(); err != nil {
			return err
		}
		if err := p.expectKeyword("to"); err != nil {
			return err
		}
		if v.End, err = p.expectLabelRef(); err != nil {
			return err
		}
	}

	p.method.Vars = append(p.method.Vars, v)
	return p.endLine()
}

// parseThrows 解析 .throws <class>
func (p *Parser) parseThrows() error {
	p.advance()
	name, err := p.expectClassName()
	if err != nil {
		return err
	}
	p.method.Throws = append(p.method.Throws, name)
	return p.endLine()
}

// parseEndMethod 解析 .end method，并解析方法内的标签
func (p *Parser) parseEndMethod() error {
	tok := p.advance()
	if err := p.expectKeyword("method"); err != nil {
		return err
	}

	m := p.method
	m.EndLine = tok.Pos.Line
	if !m.HasCode() && len(m.Instructions) > 0 {
		return jerrors.New(jerrors.E0107, i18n.T(i18n.ErrCodeInAbstract, m.Signature())).
			At(p.filename, m.Instructions[0].Line, 1).
			InMethod(m.Signature())
	}
	if err := p.resolveLabels(); err != nil {
		return err
	}

	p.unit.Methods = append(p.unit.Methods, m)
	p.method = nil
	p.labelLines = nil
	p.refs = nil
	p.state = stateMembers
	return p.endLine()
}

// unterminated 方法没有以 .end method 结束，错误指向 .method 所在行
func (p *Parser) unterminated() error {
	m := p.method
	return jerrors.New(jerrors.E0102, i18n.T(i18n.ErrUnterminatedMethod, m.Signature())).
		At(p.filename, m.Line, 1).
		InMethod(m.Signature()).
		WithHint(i18n.T(i18n.HintEndMethod))
}

// ============================================================================
// 标签
// ============================================================================

// defineLabel 在当前方法中定义标签，指向下一条指令
func (p *Parser) defineLabel(tok token.Token) error {
	if p.method == nil {
		return p.errorAt(jerrors.E0107, tok, i18n.T(i18n.ErrLabelOutsideMethod, tok.Literal))
	}
	if line, ok := p.labelLines[tok.Literal]; ok {
		return p.errorAt(jerrors.E0104, tok, i18n.T(i18n.ErrDuplicateLabel, tok.Literal, line))
	}
	p.labelLines[tok.Literal] = tok.Pos.Line
	p.method.Labels[tok.Literal] = len(p.method.Instructions)
	return nil
}

// resolveLabels 把当前方法中的标签引用解析为指令下标
//
// 未定义的标签在第一次引用处报错。
func (p *Parser) resolveLabels() error {
	labels := p.method.Labels
	for _, ref := range p.refs {
		idx, ok := labels[ref.Name]
		if !ok {
			names := make([]string, 0, len(labels))
			for name := range labels {
				names = append(names, name)
			}
			return jerrors.New(jerrors.E0103, i18n.T(i18n.ErrUndefinedLabel, ref.Name)).
				At(p.filename, ref.Line, ref.Column).
				Span(ref.Column + utf8.RuneCountInString(ref.Name)).
				InMethod(p.method.Signature()).
				WithHint(jerrors.DidYouMean(ref.Name, names))
		}
		ref.Target = idx
	}
	return nil
}

// expectLabelRef 读取一个标签引用并登记，等待 .end method 时解析
func (p *Parser) expectLabelRef() (*ast.LabelRef, error) {
	tok, err := p.expectWord("label")
	if err != nil {
		return nil, err
	}
	ref := ast.NewLabelRef(tok.Literal, tok.Pos.Line, tok.Pos.Column)
	p.refs = append(p.refs, ref)
	return ref, nil
}

// ============================================================================
// 访问标志
// ============================================================================

// parseAccess 读取访问修饰符，并为后面的 reserve 个单词（名称、描述符）留出位置
func (p *Parser) parseAccess(reserve int) (uint16, error) {
	var access uint16
	for p.wordsAhead() > reserve {
		tok := p.peek()
		flag, ok := ast.AccessFlag(tok.Literal)
		if !ok {
			return 0, p.errorAt(jerrors.E0100, tok, i18n.T(i18n.ErrUnknownAccessFlag, tok.Literal)).
				WithHint(jerrors.DidYouMean(tok.Literal, ast.AccessKeywords()))
		}
		access |= flag
		p.advance()
	}
	return access, nil
}

// wordsAhead 从当前位置起同一行中连续单词的个数
func (p *Parser) wordsAhead() int {
	n := 0
	for i := p.current; i < len(p.tokens) && p.tokens[i].Type.IsWord(); i++ {
		n++
	}
	return n
}

// ============================================================================
// 辅助方法
// ============================================================================

func (p *Parser) peek() token.Token {
	if p.current >= len(p.tokens) {
		var pos token.Position
		if n := len(p.tokens); n > 0 {
			pos = p.tokens[n-1].Pos
		}
		return token.New(token.EOF, "", pos)
	}
	return p.tokens[p.current]
}

func (p *Parser) advance() token.Token {
	tok := p.peek()
	if p.current < len(p.tokens) {
		p.current++
	}
	return tok
}

func (p *Parser) check(t token.TokenType) bool {
	return p.peek().Type == t
}

func (p *Parser) atLineEnd() bool {
	t := p.peek().Type
	return t == token.EOL || t == token.EOF
}

func (p *Parser) skipEOL() {
	for p.check(token.EOL) {
		p.advance()
	}
}

// endLine 当前行必须到此结束
func (p *Parser) endLine() error {
	if !p.atLineEnd() {
		tok := p.peek()
		return p.errorAt(jerrors.E0100, tok, i18n.T(i18n.ErrUnexpectedToken, describe(tok)))
	}
	if p.check(token.EOL) {
		p.advance()
	}
	return nil
}

// once 检查只能出现一次的声明
func (p *Parser) once(tok token.Token) error {
	if _, ok := p.seen[tok.Literal]; ok {
		return p.errorAt(jerrors.E0107, tok, i18n.T(i18n.ErrDuplicateDirective, tok.Literal))
	}
	p.seen[tok.Literal] = tok.Pos.Line
	return nil
}

func (p *Parser) expectWord(what string) (token.Token, error) {
	tok := p.peek()
	if !tok.Type.IsWord() {
		return tok, p.expected(what)
	}
	return p.advance(), nil
}

func (p *Parser) expectKeyword(word string) error {
	tok := p.peek()
	if !tok.Type.IsWord() || tok.Literal != word {
		return p.expected(strconv.Quote(word))
	}
	p.advance()
	return nil
}

func (p *Parser) expectClassName() (string, error) {
	tok, err := p.expectWord("class name")
	if err != nil {
		return "", err
	}
	if !bytecode.ValidClassName(tok.Literal) {
		return "", p.errorAt(jerrors.E0109, tok, i18n.T(i18n.ErrBadDescriptor, tok.Literal))
	}
	return tok.Literal, nil
}

// expectIntRange 读取一个 [lo, hi] 范围内的整数，what 用于错误消息
func (p *Parser) expectIntRange(what string, lo, hi int64) (int64, error) {
	tok := p.peek()
	if tok.Type != token.INT {
		return 0, p.expected("integer")
	}
	p.advance()
	v := tok.Value.(int64)
	if v < lo || v > hi {
		return 0, p.errorAt(jerrors.E0108, tok, i18n.T(i18n.ErrOperandRange, v, what, lo, hi))
	}
	return v, nil
}

// expected 生成 "expected X, found Y" 错误
func (p *Parser) expected(what string) *jerrors.CompileError {
	tok := p.peek()
	return p.errorAt(jerrors.E0100, tok, i18n.T(i18n.ErrExpectedToken, what, describe(tok)))
}

// unknownDirective 未知的指令性声明，附带拼写建议
func (p *Parser) unknownDirective(tok token.Token) error {
	return p.errorAt(jerrors.E0101, tok, i18n.T(i18n.ErrUnknownDirective, tok.Literal)).
		WithHint(jerrors.DidYouMean(tok.Literal, directives))
}

// errorAt 生成位于 tok 处的 ParseError
func (p *Parser) errorAt(code string, tok token.Token, message string) *jerrors.CompileError {
	err := jerrors.New(code, message).At(p.filename, tok.Pos.Line, tok.Pos.Column)
	if n := utf8.RuneCountInString(tok.Literal); n > 0 && tok.Type != token.EOL {
		err.Span(tok.Pos.Column + n)
	}
	if p.method != nil {
		err.InMethod(p.method.Signature())
	}
	return err
}

// describe 返回 token 在错误消息中的描述
func describe(tok token.Token) string {
	switch tok.Type {
	case token.EOL:
		return "end of line"
	case token.EOF:
		return "end of file"
	case token.STRING:
		return "string " + tok.Literal
	}
	return fmt.Sprintf("%q", tok.Literal)
}

func isKnownDirective(name string) bool {
	for _, d := range directives {
		if d == name {
			return true
		}
	}
	return false
}
