package parser

import (
	"math"
	"strings"

	"github.com/tangzhangming/jasm/internal/ast"
	"github.com/tangzhangming/jasm/internal/bytecode"
	jerrors "github.com/tangzhangming/jasm/internal/errors"
	"github.com/tangzhangming/jasm/internal/i18n"
	"github.com/tangzhangming/jasm/internal/token"
)

// ============================================================================
// 指令
// ============================================================================

// parseInstruction 解析一条指令及其操作数
func (p *Parser) parseInstruction() error {
	tok := p.advance()
	info, _ := bytecode.Lookup(tok.Literal)

	switch info.Format {
	case bytecode.FormatWide:
		// 宽度由生成器决定，wide 前缀本身被忽略
		if p.check(token.MNEMONIC) {
			return p.parseInstruction()
		}
		return p.endLine()
	case bytecode.FormatDynamic:
		return p.errorAt(jerrors.E0111, tok, i18n.T(i18n.ErrUnsupportedInstruction, tok.Literal))
	}

	ins := &ast.Instruction{Op: info, Line: tok.Pos.Line, Local: -1}
	if local, ok := bytecode.ImplicitLocal(info.Code); ok {
		ins.Local = local
	}

	var err error
	switch info.Format {
	case bytecode.FormatNone:

	case bytecode.FormatLocal:
		err = p.localOperand(ins)

	case bytecode.FormatIinc:
		if err = p.localOperand(ins); err == nil {
			err = p.intOperand(ins, math.MinInt16, math.MaxInt16)
		}

	case bytecode.FormatByte:
		err = p.intOperand(ins, math.MinInt8, math.MaxInt8)

	case bytecode.FormatShort:
		err = p.intOperand(ins, math.MinInt16, math.MaxInt16)

	case bytecode.FormatNewarray:
		err = p.arrayTypeOperand(ins)

	case bytecode.FormatLdc, bytecode.FormatLdcW:
		ins.Const, err = p.singleConstant(tok.Literal)

	case bytecode.FormatLdc2W:
		ins.Const, err = p.wideConstant(tok.Literal)

	case bytecode.FormatField:
		ins.Ref, err = p.fieldRef()

	case bytecode.FormatMethod:
		ins.Ref, err = p.methodRef()

	case bytecode.FormatInterface:
		err = p.interfaceOperands(ins)

	case bytecode.FormatClass:
		ins.Class, err = p.expectClassName()

	case bytecode.FormatMultianewarray:
		err = p.multianewarrayOperands(ins)

	case bytecode.FormatBranch, bytecode.FormatBranchWide:
		ins.Target, err = p.expectLabelRef()

	case bytecode.FormatTableswitch:
		err = p.tableswitchOperands(ins)

	case bytecode.FormatLookupswitch:
		err = p.lookupswitchOperands(ins)
	}
	if err != nil {
		return err
	}

	p.method.Instructions = append(p.method.Instructions, ins)
	if info.IsSwitch() {
		// switch 的最后一行已经被读完
		return nil
	}
	return p.endLine()
}

// localOperand 局部变量索引，宽度由生成器决定
func (p *Parser) localOperand(ins *ast.Instruction) error {
	v, err := p.expectIntRange(ins.Op.Name, 0, math.MaxUint16)
	if err != nil {
		return err
	}
	ins.Local = int(v)
	return nil
}

// intOperand 立即数操作数
func (p *Parser) intOperand(ins *ast.Instruction, lo, hi int64) error {
	v, err := p.expectIntRange(ins.Op.Name, lo, hi)
	if err != nil {
		return err
	}
	ins.Int = int32(v)
	return nil
}

// arrayTypeOperand newarray 的基本类型名
func (p *Parser) arrayTypeOperand(ins *ast.Instruction) error {
	tok, err := p.expectWord("array element type")
	if err != nil {
		return err
	}
	code, ok := bytecode.ArrayTypes[tok.Literal]
	if !ok {
		return p.errorAt(jerrors.E0109, tok, i18n.T(i18n.ErrBadArrayType, tok.Literal))
	}
	ins.Int = int32(code)
	return nil
}

// ============================================================================
// 常量操作数
// ============================================================================

// singleConstant ldc/ldc_w 的操作数：int、float、String 或类
func (p *Parser) singleConstant(mnemonic string) (*ast.Constant, error) {
	tok := p.peek()
	switch {
	case tok.Type == token.INT:
		p.advance()
		v, ok := intConstant(tok)
		if isLongLiteral(tok) || !ok {
			return nil, p.errorAt(jerrors.E0110, tok, i18n.T(i18n.ErrBadConstant, mnemonic, tok.Literal))
		}
		return &ast.Constant{Kind: ast.ConstInt, Int: int64(v)}, nil

	case tok.Type == token.FLOAT:
		p.advance()
		if isDoubleLiteral(tok) {
			return nil, p.errorAt(jerrors.E0110, tok, i18n.T(i18n.ErrBadConstant, mnemonic, tok.Literal))
		}
		return &ast.Constant{Kind: ast.ConstFloat, Float: float64(float32(numberValue(tok)))}, nil

	case tok.Type == token.STRING:
		p.advance()
		return &ast.Constant{Kind: ast.ConstString, Str: tok.Value.(string)}, nil

	case tok.Type.IsWord():
		name, err := p.expectClassName()
		if err != nil {
			return nil, err
		}
		return &ast.Constant{Kind: ast.ConstClass, Str: name}, nil
	}
	return nil, p.expected("constant")
}

// wideConstant ldc2_w 的操作数：long 或 double
func (p *Parser) wideConstant(mnemonic string) (*ast.Constant, error) {
	tok := p.peek()
	switch tok.Type {
	case token.INT:
		p.advance()
		return &ast.Constant{Kind: ast.ConstLong, Int: tok.Value.(int64)}, nil
	case token.FLOAT:
		p.advance()
		if isFloatLiteral(tok) {
			return nil, p.errorAt(jerrors.E0110, tok, i18n.T(i18n.ErrBadConstant, mnemonic, tok.Literal))
		}
		return &ast.Constant{Kind: ast.ConstDouble, Float: tok.Value.(float64)}, nil
	}
	return nil, p.expected("long or double constant")
}

// intConstant 把 INT token 转换为 int 常量
//
// 十进制必须在 int 范围内；十六进制允许写到 0xFFFFFFFF，按补码取值。
func intConstant(tok token.Token) (int32, bool) {
	v := tok.Value.(int64)
	if v >= math.MinInt32 && v <= math.MaxInt32 {
		return int32(v), true
	}
	if isHexLiteral(tok) && v > 0 && v <= math.MaxUint32 {
		return int32(uint32(v)), true
	}
	return 0, false
}

// numberValue INT 或 FLOAT token 的浮点值
func numberValue(tok token.Token) float64 {
	if tok.Type == token.INT {
		return float64(tok.Value.(int64))
	}
	return tok.Value.(float64)
}

func isLongLiteral(tok token.Token) bool {
	return strings.HasSuffix(tok.Literal, "L") || strings.HasSuffix(tok.Literal, "l")
}

func isFloatLiteral(tok token.Token) bool {
	return strings.HasSuffix(tok.Literal, "F") || strings.HasSuffix(tok.Literal, "f")
}

func isDoubleLiteral(tok token.Token) bool {
	return strings.HasSuffix(tok.Literal, "D") || strings.HasSuffix(tok.Literal, "d")
}

func isHexLiteral(tok token.Token) bool {
	return strings.Contains(tok.Literal, "0x") || strings.Contains(tok.Literal, "0X")
}

// ============================================================================
// 成员引用
// ============================================================================

// fieldRef 解析 owner/name desc
func (p *Parser) fieldRef() (*ast.MemberRef, error) {
	refTok, err := p.expectWord("field reference")
	if err != nil {
		return nil, err
	}
	slash := strings.LastIndexByte(refTok.Literal, '/')
	if slash <= 0 || slash == len(refTok.Literal)-1 || !bytecode.ValidClassName(refTok.Literal[:slash]) {
		return nil, p.errorAt(jerrors.E0109, refTok, i18n.T(i18n.ErrBadMemberRef, refTok.Literal))
	}

	descTok, err := p.expectWord("field descriptor")
	if err != nil {
		return nil, err
	}
	if !bytecode.ValidFieldDescriptor(descTok.Literal) {
		return nil, p.errorAt(jerrors.E0109, descTok, i18n.T(i18n.ErrBadDescriptor, descTok.Literal))
	}

	return &ast.MemberRef{
		Owner:      refTok.Literal[:slash],
		Name:       refTok.Literal[slash+1:],
		Descriptor: descTok.Literal,
	}, nil
}

// methodRef 解析 owner/name(desc)ret
func (p *Parser) methodRef() (*ast.MemberRef, error) {
	tok, err := p.expectWord("method reference")
	if err != nil {
		return nil, err
	}
	bad := func() error {
		return p.errorAt(jerrors.E0109, tok, i18n.T(i18n.ErrBadMemberRef, tok.Literal))
	}

	paren := strings.IndexByte(tok.Literal, '(')
	if paren < 0 {
		return nil, bad()
	}
	path, desc := tok.Literal[:paren], tok.Literal[paren:]
	slash := strings.LastIndexByte(path, '/')
	if slash <= 0 || slash == len(path)-1 || !bytecode.ValidClassName(path[:slash]) {
		return nil, bad()
	}
	if !bytecode.ValidMethodDescriptor(desc) {
		return nil, p.errorAt(jerrors.E0109, tok, i18n.T(i18n.ErrBadDescriptor, desc))
	}

	return &ast.MemberRef{Owner: path[:slash], Name: path[slash+1:], Descriptor: desc}, nil
}

// interfaceOperands invokeinterface 的方法引用与可选的参数槽数
//
// 省略时取参数槽数加一（this）。
func (p *Parser) interfaceOperands(ins *ast.Instruction) error {
	ref, err := p.methodRef()
	if err != nil {
		return err
	}
	ins.Ref = ref

	if p.check(token.INT) {
		return p.intOperand(ins, 1, math.MaxUint8)
	}
	args, _, _ := bytecode.MethodSlots(ref.Descriptor)
	ins.Int = int32(args + 1)
	return nil
}

// multianewarrayOperands 数组描述符与维数
func (p *Parser) multianewarrayOperands(ins *ast.Instruction) error {
	tok := p.peek()
	desc, err := p.expectClassName()
	if err != nil {
		return err
	}
	dims := len(desc) - len(strings.TrimLeft(desc, "["))
	if dims == 0 {
		return p.errorAt(jerrors.E0109, tok, i18n.T(i18n.ErrBadDescriptor, desc))
	}
	ins.Class = desc
	return p.intOperand(ins, 1, int64(dims))
}

// ============================================================================
// switch
// ============================================================================

// tableswitch low [high]
//
//	Label1
//	Label2
//	default : Label3
func (p *Parser) tableswitchOperands(ins *ast.Instruction) error {
	lowTok := p.peek()
	low, err := p.expectIntRange(ins.Op.Name, math.MinInt32, math.MaxInt32)
	if err != nil {
		return err
	}
	ins.Low = int32(low)

	high := int64(-1)
	hasHigh := p.check(token.INT)
	if hasHigh {
		if high, err = p.expectIntRange(ins.Op.Name, low, math.MaxInt32); err != nil {
			return err
		}
	}
	if err := p.endLine(); err != nil {
		return err
	}

	key := low
	for {
		p.skipEOL()
		if p.isDefault() {
			break
		}
		ref, err := p.expectLabelRef()
		if err != nil {
			return err
		}
		if key > math.MaxInt32 {
			return p.errorAt(jerrors.E0108, lowTok, i18n.T(i18n.ErrOperandRange, key, ins.Op.Name, int64(math.MinInt32), int64(math.MaxInt32)))
		}
		ins.Cases = append(ins.Cases, ast.SwitchCase{Key: int32(key), Label: ref})
		key++
		if err := p.endLine(); err != nil {
			return err
		}
	}

	if len(ins.Cases) == 0 {
		return p.errorAt(jerrors.E0108, lowTok, i18n.T(i18n.ErrEmptySwitch, ins.Op.Name))
	}
	if hasHigh && int64(len(ins.Cases)) != high-low+1 {
		return p.errorAt(jerrors.E0108, lowTok, i18n.T(i18n.ErrSwitchTargetCount, low, high, high-low+1, len(ins.Cases)))
	}
	return p.parseDefault(ins)
}

// lookupswitch
//
//	1 : Label1
//	10 : Label2
//	default : Label3
func (p *Parser) lookupswitchOperands(ins *ast.Instruction) error {
	if err := p.endLine(); err != nil {
		return err
	}

	keys := make(map[int32]bool)
	for {
		p.skipEOL()
		if p.isDefault() {
			break
		}
		keyTok := p.peek()
		key, err := p.expectIntRange(ins.Op.Name, math.MinInt32, math.MaxInt32)
		if err != nil {
			return err
		}
		if keys[int32(key)] {
			return p.errorAt(jerrors.E0108, keyTok, i18n.T(i18n.ErrDuplicateSwitchKey, key))
		}
		keys[int32(key)] = true

		if !p.check(token.COLON) {
			return p.expected(`":"`)
		}
		p.advance()
		ref, err := p.expectLabelRef()
		if err != nil {
			return err
		}
		ins.Cases = append(ins.Cases, ast.SwitchCase{Key: int32(key), Label: ref})
		if err := p.endLine(); err != nil {
			return err
		}
	}
	return p.parseDefault(ins)
}

// isDefault 当前是否为 default 分支（"default :" 或 "default:"）
func (p *Parser) isDefault() bool {
	tok := p.peek()
	return tok.Literal == "default" && (tok.Type == token.LABEL || tok.Type == token.IDENT)
}

// parseDefault 解析 default : Label 并结束 switch
func (p *Parser) parseDefault(ins *ast.Instruction) error {
	tok := p.advance()
	if tok.Type == token.IDENT {
		if !p.check(token.COLON) {
			return p.expected(`":"`)
		}
		p.advance()
	}
	ref, err := p.expectLabelRef()
	if err != nil {
		return err
	}
	ins.Default = ref
	return p.endLine()
}
