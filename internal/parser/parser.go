// Package parser builds an AST from a token stream, implementing the
// precedence-climbing grammar and desugaring rules of spec.md §4.2.
package parser

import (
	"fmt"

	"github.com/eduardosm/rsjsonnet/internal/ast"
	"github.com/eduardosm/rsjsonnet/internal/lexer"
)

// Error is a parse error: a message describing the unexpected token and
// the location where parsing stopped.
type Error struct {
	Msg string
	Loc ast.LocationRange
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Loc, e.Msg)
}

// Parse tokenizes and parses a complete Jsonnet program.
func Parse(fileName, input string) (ast.Node, error) {
	toks, err := lexer.Lex(fileName, input)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks, fileName: fileName}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.cur().Kind != lexer.EOF {
		return nil, p.errorf("expected end of file, got %s", p.describe(p.cur()))
	}
	return expr, nil
}

type parser struct {
	toks     []lexer.Token
	pos      int
	fileName string
}

func (p *parser) cur() lexer.Token  { return p.toks[p.pos] }
func (p *parser) advance() lexer.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) describe(t lexer.Token) string {
	if t.Kind == lexer.EOF {
		return "end of file"
	}
	return fmt.Sprintf("%q", t.Text)
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return &Error{Msg: fmt.Sprintf(format, args...), Loc: p.cur().Loc}
}

func (p *parser) expect(k lexer.Kind, what string) (lexer.Token, error) {
	if p.cur().Kind != k {
		return lexer.Token{}, p.errorf("expected %s, got %s", what, p.describe(p.cur()))
	}
	return p.advance(), nil
}

func (p *parser) expectOp(op string) error {
	t := p.cur()
	if t.Kind != lexer.Op || t.Text != op {
		return p.errorf("expected %q, got %s", op, p.describe(t))
	}
	p.advance()
	return nil
}

func (p *parser) isOp(op string) bool {
	t := p.cur()
	return t.Kind == lexer.Op && t.Text == op
}

func (p *parser) tryOp(op string) bool {
	if p.isOp(op) {
		p.advance()
		return true
	}
	return false
}

// ---------------------------------------------------------------------------
// Expression grammar, loosest-to-tightest as in spec.md §4.2.

func (p *parser) parseExpr() (ast.Node, error) {
	return p.parseOr()
}

func (p *parser) parseOr() (ast.Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.tryOp("||") {
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: ast.BopOr, Left: left, Right: right, NodeBase: nb(left, right)}
	}
	return left, nil
}

func (p *parser) parseAnd() (ast.Node, error) {
	left, err := p.parseBitOr()
	if err != nil {
		return nil, err
	}
	for p.tryOp("&&") {
		right, err := p.parseBitOr()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: ast.BopAnd, Left: left, Right: right, NodeBase: nb(left, right)}
	}
	return left, nil
}

func (p *parser) parseBitOr() (ast.Node, error) {
	left, err := p.parseBitXor()
	if err != nil {
		return nil, err
	}
	for p.isOp("|") {
		p.advance()
		right, err := p.parseBitXor()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: ast.BopBitOr, Left: left, Right: right, NodeBase: nb(left, right)}
	}
	return left, nil
}

func (p *parser) parseBitXor() (ast.Node, error) {
	left, err := p.parseBitAnd()
	if err != nil {
		return nil, err
	}
	for p.isOp("^") {
		p.advance()
		right, err := p.parseBitAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: ast.BopBitXor, Left: left, Right: right, NodeBase: nb(left, right)}
	}
	return left, nil
}

func (p *parser) parseBitAnd() (ast.Node, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.isOp("&") {
		p.advance()
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: ast.BopBitAnd, Left: left, Right: right, NodeBase: nb(left, right)}
	}
	return left, nil
}

func (p *parser) parseEquality() (ast.Node, error) {
	left, err := p.parseRelational()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.BinaryOp
		switch {
		case p.isOp("=="):
			op = ast.BopEqual
		case p.isOp("!="):
			op = ast.BopNotEqual
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseRelational()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: op, Left: left, Right: right, NodeBase: nb(left, right)}
	}
}

func (p *parser) parseRelational() (ast.Node, error) {
	left, err := p.parseShift()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.BinaryOp
		switch {
		case p.isOp("<="):
			op = ast.BopLessEq
		case p.isOp(">="):
			op = ast.BopGreaterEq
		case p.isOp("<"):
			op = ast.BopLess
		case p.isOp(">"):
			op = ast.BopGreater
		case p.cur().Kind == lexer.KwIn:
			op = ast.BopIn
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseShift()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: op, Left: left, Right: right, NodeBase: nb(left, right)}
	}
}

func (p *parser) parseShift() (ast.Node, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.BinaryOp
		switch {
		case p.isOp("<<"):
			op = ast.BopShiftL
		case p.isOp(">>"):
			op = ast.BopShiftR
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: op, Left: left, Right: right, NodeBase: nb(left, right)}
	}
}

func (p *parser) parseAdditive() (ast.Node, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.BinaryOp
		switch {
		case p.isOp("+"):
			op = ast.BopPlus
		case p.isOp("-"):
			op = ast.BopMinus
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: op, Left: left, Right: right, NodeBase: nb(left, right)}
	}
}

func (p *parser) parseMultiplicative() (ast.Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.BinaryOp
		switch {
		case p.isOp("*"):
			op = ast.BopMul
		case p.isOp("/"):
			op = ast.BopDiv
		case p.isOp("%"):
			op = ast.BopMod
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: op, Left: left, Right: right, NodeBase: nb(left, right)}
	}
}

func (p *parser) parseUnary() (ast.Node, error) {
	var op ast.UnaryOp
	switch {
	case p.isOp("!"):
		op = ast.UopNot
	case p.isOp("~"):
		op = ast.UopBitwiseNot
	case p.isOp("+"):
		op = ast.UopPlus
	case p.isOp("-"):
		op = ast.UopMinus
	default:
		return p.parsePostfix()
	}
	start := p.cur().Loc
	p.advance()
	operand, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &ast.Unary{Op: op, Expr: operand, NodeBase: ast.NewNodeBase(spanTo(start, operand.Loc()))}, nil
}

// parsePostfix parses field access, indexing, slicing, and calls applied
// left-to-right to a primary expression.
func (p *parser) parsePostfix() (ast.Node, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur().Kind {
		case lexer.Dot:
			p.advance()
			id, err := p.expect(lexer.Ident, "field name")
			if err != nil {
				return nil, err
			}
			expr = &ast.Field{Target: expr, Name: ast.Identifier(id.Text), NodeBase: spanFrom(expr, id.Loc)}
		case lexer.LBracket:
			expr, err = p.parseIndexOrSlice(expr)
			if err != nil {
				return nil, err
			}
		case lexer.LParen:
			expr, err = p.parseCall(expr)
			if err != nil {
				return nil, err
			}
		case lexer.KwTailstrict:
			apply, ok := expr.(*ast.Apply)
			if !ok {
				return nil, p.errorf("tailstrict may only follow a function call")
			}
			apply.TailStrict = true
			p.advance()
		default:
			return expr, nil
		}
	}
}

// atSliceDelim reports whether the current token starts (or is) one of
// the colon-variants that can appear inside `[...]`, i.e. anything that is
// not the start of an index/begin/end/step expression.
func (p *parser) atSliceDelim() bool {
	switch p.cur().Kind {
	case lexer.Colon, lexer.ColonColon, lexer.RBracket:
		return true
	}
	return false
}

func (p *parser) parseIndexOrSlice(target ast.Node) (ast.Node, error) {
	p.advance() // '['
	var begin, end, step ast.Node
	var err error
	if !p.atSliceDelim() {
		begin, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	isSlice := false
	if p.cur().Kind == lexer.ColonColon {
		// `a[::step]` (the lexer fuses adjacent colons into a single token).
		p.advance()
		isSlice = true
		if p.cur().Kind != lexer.RBracket {
			step, err = p.parseExpr()
			if err != nil {
				return nil, err
			}
		}
	} else if p.cur().Kind == lexer.Colon {
		isSlice = true
		p.advance()
		if !p.atSliceDelim() {
			end, err = p.parseExpr()
			if err != nil {
				return nil, err
			}
		}
		if p.cur().Kind == lexer.Colon {
			p.advance()
			if p.cur().Kind != lexer.RBracket {
				step, err = p.parseExpr()
				if err != nil {
					return nil, err
				}
			}
		}
	}
	endTok, err := p.expect(lexer.RBracket, "]")
	if err != nil {
		return nil, err
	}
	if !isSlice {
		if begin == nil {
			return nil, p.errorf("expected expression inside []")
		}
		return &ast.Index{Target: target, Index: begin, NodeBase: spanFrom(target, endTok.Loc)}, nil
	}
	return &ast.Slice{Target: target, BeginIndex: begin, EndIndex: end, Step: step, NodeBase: spanFrom(target, endTok.Loc)}, nil
}

func (p *parser) parseCall(target ast.Node) (ast.Node, error) {
	p.advance() // '('
	var positional ast.Nodes
	var named []ast.NamedArg
	for p.cur().Kind != lexer.RParen {
		if p.cur().Kind == lexer.Ident && p.peekIsAssign() {
			name := p.advance()
			p.advance() // '='
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			named = append(named, ast.NamedArg{Name: ast.Identifier(name.Text), Arg: arg})
		} else {
			if len(named) > 0 {
				return nil, p.errorf("positional argument after named argument")
			}
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			positional = append(positional, arg)
		}
		if p.cur().Kind == lexer.Comma {
			p.advance()
			continue
		}
		break
	}
	endTok, err := p.expect(lexer.RParen, ")")
	if err != nil {
		return nil, err
	}
	return &ast.Apply{Target: target, Positional: positional, Named: named, NodeBase: spanFrom(target, endTok.Loc)}, nil
}

func (p *parser) peekIsAssign() bool {
	if p.pos+1 >= len(p.toks) {
		return false
	}
	n := p.toks[p.pos+1]
	return n.Kind == lexer.Op && n.Text == "="
}

func (p *parser) parsePrimary() (ast.Node, error) {
	t := p.cur()
	switch t.Kind {
	case lexer.KwNull:
		p.advance()
		return &ast.NullLit{NodeBase: ast.NewNodeBase(t.Loc)}, nil
	case lexer.KwTrue:
		p.advance()
		return &ast.BoolLit{Value: true, NodeBase: ast.NewNodeBase(t.Loc)}, nil
	case lexer.KwFalse:
		p.advance()
		return &ast.BoolLit{Value: false, NodeBase: ast.NewNodeBase(t.Loc)}, nil
	case lexer.KwSelf:
		p.advance()
		return &ast.Self{NodeBase: ast.NewNodeBase(t.Loc)}, nil
	case lexer.Dollar:
		p.advance()
		return &ast.TopLevelSelf{NodeBase: ast.NewNodeBase(t.Loc)}, nil
	case lexer.Number:
		p.advance()
		v, err := parseNumber(t.Text)
		if err != nil {
			return nil, &Error{Msg: err.Error(), Loc: t.Loc}
		}
		return &ast.NumberLit{Value: v, OriginalString: t.Text, NodeBase: ast.NewNodeBase(t.Loc)}, nil
	case lexer.String:
		p.advance()
		return &ast.LiteralString{
			Value: t.Text, Kind: t.StringKind,
			BlockIndent: t.BlockIndent, BlockTermIndent: t.BlockTermIndent,
			NodeBase: ast.NewNodeBase(t.Loc),
		}, nil
	case lexer.KwSuper:
		p.advance()
		return p.parseSuperIndex(t)
	case lexer.Ident:
		p.advance()
		return &ast.Var{Name: ast.Identifier(t.Text), NodeBase: ast.NewNodeBase(t.Loc)}, nil
	case lexer.LParen:
		p.advance()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RParen, ")"); err != nil {
			return nil, err
		}
		return e, nil
	case lexer.LBracket:
		return p.parseArray()
	case lexer.LBrace:
		return p.parseObject()
	case lexer.KwIf:
		return p.parseConditional()
	case lexer.KwLocal:
		return p.parseLocal()
	case lexer.KwFunction:
		return p.parseFunctionLit()
	case lexer.KwError:
		p.advance()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.Error{Expr: e, NodeBase: spanFrom2(t.Loc, e)}, nil
	case lexer.KwAssert:
		return p.parseAssertExpr()
	case lexer.KwImport, lexer.KwImportStr, lexer.KwImportBin:
		return p.parseImport()
	}
	return nil, p.errorf("unexpected token %s", p.describe(t))
}

func (p *parser) parseSuperIndex(superTok lexer.Token) (ast.Node, error) {
	switch p.cur().Kind {
	case lexer.Dot:
		p.advance()
		id, err := p.expect(lexer.Ident, "field name")
		if err != nil {
			return nil, err
		}
		return &ast.SuperIndex{IndexID: idPtr(ast.Identifier(id.Text)), NodeBase: spanFrom2(superTok.Loc, id.Loc)}, nil
	case lexer.LBracket:
		p.advance()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		endTok, err := p.expect(lexer.RBracket, "]")
		if err != nil {
			return nil, err
		}
		return &ast.SuperIndex{Index: e, NodeBase: spanFrom2(superTok.Loc, endTok.Loc)}, nil
	}
	return nil, p.errorf("expected . or [ after super")
}

func idPtr(id ast.Identifier) *ast.Identifier { return &id }

func (p *parser) parseArray() (ast.Node, error) {
	startTok := p.advance() // '['
	if p.cur().Kind == lexer.RBracket {
		endTok := p.advance()
		return &ast.Array{NodeBase: spanFrom2(startTok.Loc, endTok.Loc)}, nil
	}
	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.cur().Kind == lexer.KwFor {
		specs, err := p.parseCompSpecs()
		if err != nil {
			return nil, err
		}
		endTok, err := p.expect(lexer.RBracket, "]")
		if err != nil {
			return nil, err
		}
		return &ast.ArrayComp{Body: first, Specs: specs, NodeBase: spanFrom2(startTok.Loc, endTok.Loc)}, nil
	}
	elems := ast.Nodes{first}
	for p.cur().Kind == lexer.Comma {
		p.advance()
		if p.cur().Kind == lexer.RBracket {
			break
		}
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
	}
	endTok, err := p.expect(lexer.RBracket, "]")
	if err != nil {
		return nil, err
	}
	return &ast.Array{Elements: elems, NodeBase: spanFrom2(startTok.Loc, endTok.Loc)}, nil
}

// parseCompSpecs parses one or more `for x in e` / `if e` clauses.
func (p *parser) parseCompSpecs() ([]ast.CompSpec, error) {
	var specs []ast.CompSpec
	for p.cur().Kind == lexer.KwFor || p.cur().Kind == lexer.KwIf {
		if p.cur().Kind == lexer.KwFor {
			p.advance()
			id, err := p.expect(lexer.Ident, "loop variable")
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.KwIn, "in"); err != nil {
				return nil, err
			}
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			specs = append(specs, ast.CompSpec{Kind: ast.CompFor, For: ast.ForSpec{VarName: ast.Identifier(id.Text), Expr: e}})
		} else {
			p.advance()
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			specs = append(specs, ast.CompSpec{Kind: ast.CompIf, If: ast.IfSpec{Expr: e}})
		}
	}
	if len(specs) == 0 || specs[0].Kind != ast.CompFor {
		return nil, p.errorf("a comprehension must start with a 'for' clause")
	}
	return specs, nil
}

func (p *parser) parseConditional() (ast.Node, error) {
	ifTok := p.advance()
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.KwThen, "then"); err != nil {
		return nil, err
	}
	trueExpr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	node := &ast.Conditional{Cond: cond, TrueExpr: trueExpr, NodeBase: spanFrom2(ifTok.Loc, trueExpr.Loc())}
	if p.cur().Kind == lexer.KwElse {
		p.advance()
		falseExpr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		node.FalseExpr = falseExpr
		node.LocRange = spanFrom2(ifTok.Loc, falseExpr.Loc()).LocRange
	}
	return node, nil
}

func (p *parser) parseAssertExpr() (ast.Node, error) {
	startTok := p.advance()
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	var msg ast.Node
	if p.cur().Kind == lexer.Colon {
		p.advance()
		msg, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(lexer.Semicolon, ";"); err != nil {
		return nil, err
	}
	rest, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.Assert{Cond: cond, Msg: msg, Rest: rest, NodeBase: spanFrom2(startTok.Loc, rest.Loc())}, nil
}

func (p *parser) parseLocal() (ast.Node, error) {
	startTok := p.advance()
	var binds ast.Binds
	for {
		id, err := p.expect(lexer.Ident, "identifier")
		if err != nil {
			return nil, err
		}
		var bind ast.LocalBind
		if p.cur().Kind == lexer.LParen {
			params, err := p.parseParams()
			if err != nil {
				return nil, err
			}
			if err := p.expectOp("="); err != nil {
				return nil, err
			}
			body, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			fn := &ast.Function{Params: params, Body: body, NodeBase: ast.NewNodeBase(body.Loc())}
			bind = ast.LocalBind{VarName: ast.Identifier(id.Text), Fun: fn, Body: fn}
		} else {
			if err := p.expectOp("="); err != nil {
				return nil, err
			}
			body, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			bind = ast.LocalBind{VarName: ast.Identifier(id.Text), Body: body}
		}
		binds = append(binds, bind)
		if p.cur().Kind == lexer.Comma {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(lexer.Semicolon, ";"); err != nil {
		return nil, err
	}
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.Local{Binds: binds, Body: body, NodeBase: spanFrom2(startTok.Loc, body.Loc())}, nil
}

func (p *parser) parseFunctionLit() (ast.Node, error) {
	startTok := p.advance()
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.Function{Params: params, Body: body, NodeBase: spanFrom2(startTok.Loc, body.Loc())}, nil
}

func (p *parser) parseParams() (ast.Params, error) {
	if _, err := p.expect(lexer.LParen, "("); err != nil {
		return nil, err
	}
	var params ast.Params
	for p.cur().Kind != lexer.RParen {
		id, err := p.expect(lexer.Ident, "parameter name")
		if err != nil {
			return nil, err
		}
		var def ast.Node
		if err := p.expectOp("="); err == nil {
			def, err = p.parseExpr()
			if err != nil {
				return nil, err
			}
		}
		params = append(params, ast.Param{Name: ast.Identifier(id.Text), DefaultArg: def})
		if p.cur().Kind == lexer.Comma {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(lexer.RParen, ")"); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *parser) parseImport() (ast.Node, error) {
	t := p.advance()
	var kind ast.ImportKind
	switch t.Kind {
	case lexer.KwImport:
		kind = ast.ImportJsonnet
	case lexer.KwImportStr:
		kind = ast.ImportString
	case lexer.KwImportBin:
		kind = ast.ImportBinary
	}
	pathTok, err := p.expect(lexer.String, "import path string")
	if err != nil {
		return nil, err
	}
	return &ast.Import{Kind: kind, Path: pathTok.Text, NodeBase: spanFrom2(t.Loc, pathTok.Loc)}, nil
}

// ---------------------------------------------------------------------------
// Object literals

func (p *parser) parseObject() (ast.Node, error) {
	startTok := p.advance() // '{'
	if p.cur().Kind == lexer.RBrace {
		endTok := p.advance()
		return &ast.Object{NodeBase: spanFrom2(startTok.Loc, endTok.Loc)}, nil
	}

	// Try to detect an object comprehension: `[expr]: expr for ...`.
	if p.cur().Kind == lexer.LBracket {
		return p.parseObjectCompOrField(startTok, nil)
	}

	var fields ast.ObjectFields
	for {
		if p.cur().Kind == lexer.KwLocal {
			p.advance()
			id, err := p.expect(lexer.Ident, "identifier")
			if err != nil {
				return nil, err
			}
			var body ast.Node
			if p.cur().Kind == lexer.LParen {
				params, err := p.parseParams()
				if err != nil {
					return nil, err
				}
				if err := p.expectOp("="); err != nil {
					return nil, err
				}
				b, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				body = &ast.Function{Params: params, Body: b, NodeBase: ast.NewNodeBase(b.Loc())}
			} else {
				if err := p.expectOp("="); err != nil {
					return nil, err
				}
				var err2 error
				body, err2 = p.parseExpr()
				if err2 != nil {
					return nil, err2
				}
			}
			fields = append(fields, ast.ObjectField{Kind: ast.ObjectLocal, LocalName: ast.Identifier(id.Text), LocalBody: body, LocRange: id.Loc})
		} else if p.cur().Kind == lexer.KwAssert {
			p.advance()
			cond, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			var msg ast.Node
			if p.cur().Kind == lexer.Colon {
				p.advance()
				msg, err = p.parseExpr()
				if err != nil {
					return nil, err
				}
			}
			fields = append(fields, ast.ObjectField{Kind: ast.ObjectAssert, AssertCond: cond, AssertMsg: msg, LocRange: cond.Loc()})
		} else if p.cur().Kind == lexer.LBracket && len(fields) == 0 {
			return p.parseObjectCompOrField(startTok, &fields)
		} else {
			field, isComp, specs, err := p.parseObjectField()
			if err != nil {
				return nil, err
			}
			if isComp {
				// Only locals may precede the comprehension's field.
				for _, f := range fields {
					if f.Kind != ast.ObjectLocal {
						return nil, p.errorf("object comprehension cannot be mixed with fields or asserts")
					}
				}
				endTok, err := p.expect(lexer.RBrace, "}")
				if err != nil {
					return nil, err
				}
				return &ast.ObjectComp{
					Locals: fields, KeyExpr: field.Name, ValExpr: field.Body, Specs: specs,
					NodeBase: spanFrom2(startTok.Loc, endTok.Loc),
				}, nil
			}
			fields = append(fields, field)
		}
		if p.cur().Kind == lexer.Comma {
			p.advance()
			if p.cur().Kind == lexer.RBrace {
				break
			}
			continue
		}
		break
	}
	endTok, err := p.expect(lexer.RBrace, "}")
	if err != nil {
		return nil, err
	}
	return &ast.Object{Fields: fields, NodeBase: spanFrom2(startTok.Loc, endTok.Loc)}, nil
}

// parseObjectCompOrField handles the case where a member starts with
// `[expr]`, which may turn out to be a plain computed-key field or (if
// followed eventually by `for`) an object comprehension.
func (p *parser) parseObjectCompOrField(startTok lexer.Token, existing *ast.ObjectFields) (ast.Node, error) {
	field, isComp, specs, err := p.parseObjectField()
	if err != nil {
		return nil, err
	}
	if isComp {
		endTok, err := p.expect(lexer.RBrace, "}")
		if err != nil {
			return nil, err
		}
		var locals ast.ObjectFields
		if existing != nil {
			locals = *existing
		}
		return &ast.ObjectComp{
			Locals: locals, KeyExpr: field.Name, ValExpr: field.Body, Specs: specs,
			NodeBase: spanFrom2(startTok.Loc, endTok.Loc),
		}, nil
	}
	fields := ast.ObjectFields{field}
	if existing != nil {
		fields = append(*existing, field)
	}
	for p.cur().Kind == lexer.Comma {
		p.advance()
		if p.cur().Kind == lexer.RBrace {
			break
		}
		f, isComp2, _, err := p.parseObjectMember()
		if err != nil {
			return nil, err
		}
		if isComp2 {
			return nil, p.errorf("object comprehension cannot be mixed with fields or asserts")
		}
		fields = append(fields, f)
	}
	endTok, err := p.expect(lexer.RBrace, "}")
	if err != nil {
		return nil, err
	}
	return &ast.Object{Fields: fields, NodeBase: spanFrom2(startTok.Loc, endTok.Loc)}, nil
}

// parseObjectMember parses any one member (local/assert/field) after the
// first has already established this is a plain object.
func (p *parser) parseObjectMember() (ast.ObjectField, bool, []ast.CompSpec, error) {
	switch p.cur().Kind {
	case lexer.KwLocal:
		p.advance()
		id, err := p.expect(lexer.Ident, "identifier")
		if err != nil {
			return ast.ObjectField{}, false, nil, err
		}
		var body ast.Node
		if p.cur().Kind == lexer.LParen {
			params, err := p.parseParams()
			if err != nil {
				return ast.ObjectField{}, false, nil, err
			}
			if err := p.expectOp("="); err != nil {
				return ast.ObjectField{}, false, nil, err
			}
			b, err := p.parseExpr()
			if err != nil {
				return ast.ObjectField{}, false, nil, err
			}
			body = &ast.Function{Params: params, Body: b, NodeBase: ast.NewNodeBase(b.Loc())}
		} else {
			if err := p.expectOp("="); err != nil {
				return ast.ObjectField{}, false, nil, err
			}
			var err2 error
			body, err2 = p.parseExpr()
			if err2 != nil {
				return ast.ObjectField{}, false, nil, err2
			}
		}
		return ast.ObjectField{Kind: ast.ObjectLocal, LocalName: ast.Identifier(id.Text), LocalBody: body, LocRange: id.Loc}, false, nil, nil
	case lexer.KwAssert:
		p.advance()
		cond, err := p.parseExpr()
		if err != nil {
			return ast.ObjectField{}, false, nil, err
		}
		var msg ast.Node
		if p.cur().Kind == lexer.Colon {
			p.advance()
			msg, err = p.parseExpr()
			if err != nil {
				return ast.ObjectField{}, false, nil, err
			}
		}
		return ast.ObjectField{Kind: ast.ObjectAssert, AssertCond: cond, AssertMsg: msg, LocRange: cond.Loc()}, false, nil, nil
	default:
		return p.parseObjectField()
	}
}

// parseObjectField parses one `key <colon-variant> body` member, where key
// is an identifier, string literal, or `[expr]`. Returns isComp=true if
// this turns out to begin an object comprehension (only valid for a
// bracketed computed key).
func (p *parser) parseObjectField() (ast.ObjectField, bool, []ast.CompSpec, error) {
	var key ast.Node
	bracketed := false
	switch p.cur().Kind {
	case lexer.Ident:
		t := p.advance()
		key = &ast.LiteralString{Value: t.Text, Kind: ast.StringDouble, NodeBase: ast.NewNodeBase(t.Loc)}
	case lexer.String:
		t := p.advance()
		key = &ast.LiteralString{Value: t.Text, Kind: t.StringKind, NodeBase: ast.NewNodeBase(t.Loc)}
	case lexer.LBracket:
		p.advance()
		bracketed = true
		e, err := p.parseExpr()
		if err != nil {
			return ast.ObjectField{}, false, nil, err
		}
		if _, err := p.expect(lexer.RBracket, "]"); err != nil {
			return ast.ObjectField{}, false, nil, err
		}
		key = e
	default:
		return ast.ObjectField{}, false, nil, p.errorf("expected field name, got %s", p.describe(p.cur()))
	}

	// Method sugar: `key(params): body`.
	var methodParams ast.Params
	isMethod := false
	if p.cur().Kind == lexer.LParen {
		isMethod = true
		params, err := p.parseParams()
		if err != nil {
			return ast.ObjectField{}, false, nil, err
		}
		methodParams = params
	}

	plusSuper := false
	var hide ast.ObjectFieldHide = ast.ObjectFieldInherit
	if p.isOp("+") {
		// lookahead: '+' must be immediately followed by a colon variant
		plusSuper = true
		p.advance()
	}
	switch p.cur().Kind {
	case lexer.Colon:
		p.advance()
		hide = ast.ObjectFieldInherit
	case lexer.ColonColon:
		p.advance()
		hide = ast.ObjectFieldHidden
	case lexer.ColonColonColon:
		p.advance()
		hide = ast.ObjectFieldVisible
	default:
		return ast.ObjectField{}, false, nil, p.errorf("expected : :: or ::: after field name")
	}

	body, err := p.parseExpr()
	if err != nil {
		return ast.ObjectField{}, false, nil, err
	}
	if isMethod {
		body = &ast.Function{Params: methodParams, Body: body, NodeBase: ast.NewNodeBase(body.Loc())}
	}

	if bracketed && p.cur().Kind == lexer.KwFor {
		if plusSuper {
			return ast.ObjectField{}, false, nil, p.errorf("object comprehension field cannot use +:")
		}
		specs, err := p.parseCompSpecs()
		if err != nil {
			return ast.ObjectField{}, false, nil, err
		}
		return ast.ObjectField{Name: key, Body: body}, true, specs, nil
	}

	return ast.ObjectField{
		Kind: ast.ObjectFieldExpr, Hide: hide, PlusSuper: plusSuper,
		Name: key, Body: body, LocRange: key.Loc(),
	}, false, nil, nil
}

// ---------------------------------------------------------------------------
// Helpers

func nb(left, right ast.Node) ast.NodeBase {
	return ast.NewNodeBase(spanTo(left.Loc(), right.Loc()))
}

func spanTo(a, b ast.LocationRange) ast.LocationRange {
	return ast.LocationRange{FileName: a.FileName, Begin: a.Begin, End: b.End}
}

func spanFrom(n ast.Node, end ast.LocationRange) ast.NodeBase {
	return ast.NewNodeBase(spanTo(n.Loc(), end))
}

func spanFrom2(start, end ast.LocationRange) ast.NodeBase {
	return ast.NewNodeBase(spanTo(start, end))
}
