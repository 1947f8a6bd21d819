package fparser

import (
	"strconv"
	"strings"

	"github.com/soypat/go-fparser/ast"
	"github.com/soypat/go-fparser/intrinsic"
	"github.com/soypat/go-fparser/token"
)

// scope records the names declared in a program unit. Declared names shadow
// intrinsics and declared arrays turn references into [ast.ArrayRef].
type scope struct {
	parent *scope
	names  map[string]bool // upper-cased name -> is array.
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, names: make(map[string]bool)}
}

func (s *scope) declare(name string, array bool) {
	if s == nil {
		return
	}
	key := upper(name)
	s.names[key] = s.names[key] || array
}

func (s *scope) lookup(name string) (declared, array bool) {
	key := upper(name)
	for ; s != nil; s = s.parent {
		if a, ok := s.names[key]; ok {
			return true, a
		}
	}
	return false, false
}

// exprError is a syntax error inside an expression. It only rejects the
// candidate rule.
type exprError struct {
	Offset int
	Msg    string
}

func (e *exprError) Error() string {
	return e.Msg + " at offset " + strconv.Itoa(e.Offset)
}

// exprParser is a precedence climbing parser over one expression text.
// The first error is kept in err and stops all further consumption.
type exprParser struct {
	lex   Lexer
	tok   token.Token
	pos   int
	lit   string
	scope *scope
	err   error
	// lhs makes the head of the first reference an array element or a
	// plain name, never an intrinsic.
	lhs bool
}

func (p *exprParser) init(text string, sc *scope) {
	p.lex.Reset(text)
	p.scope = sc
	p.err = nil
	p.next()
}

func (p *exprParser) next() {
	p.tok, p.pos, p.lit = p.lex.NextToken()
}

// peek returns the token after the current one without consuming.
func (p *exprParser) peek() token.Token {
	l := p.lex
	tok, _, _ := l.NextToken()
	return tok
}

func (p *exprParser) fail(msg string) {
	if p.err == nil {
		p.err = &exprError{Offset: p.pos, Msg: msg}
	}
}

func (p *exprParser) unexpected() {
	what := p.tok.String()
	if p.lit != "" {
		what = strconv.Quote(p.lit)
	}
	p.fail("unexpected " + what)
}

func (p *exprParser) expect(tok token.Token) bool {
	if p.err != nil {
		return false
	}
	if p.tok != tok {
		p.unexpected()
		return false
	}
	p.next()
	return true
}

// parseExpr parses text as a single expression.
func parseExpr(text string, sc *scope) (ast.Expression, error) {
	var p exprParser
	p.init(text, sc)
	x := p.parseExpr()
	p.expect(token.EOF)
	if p.err != nil {
		return nil, p.err
	}
	return x, nil
}

// parseTarget parses the left hand side of an assignment.
func parseTarget(text string, sc *scope) (ast.Expression, error) {
	var p exprParser
	p.init(text, sc)
	p.lhs = true
	x := p.parseDefUnary()
	p.expect(token.EOF)
	if p.err != nil {
		return nil, p.err
	}
	switch x.(type) {
	case *ast.Identifier, *ast.ArrayRef, *ast.ComponentAccess, *ast.SubscriptExpr:
		return x, nil
	}
	return nil, &exprError{Msg: "not a variable"}
}

// parseExprList parses comma separated expressions. Blank text yields nil.
func parseExprList(text string, sc *scope) ([]ast.Expression, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	var p exprParser
	p.init(text, sc)
	var list []ast.Expression
	for p.err == nil {
		list = append(list, p.parseExpr())
		if p.tok != token.Comma {
			break
		}
		p.next()
	}
	p.expect(token.EOF)
	if p.err != nil {
		return nil, p.err
	}
	return list, nil
}

// parseArgList parses comma separated actual arguments, subscripts or
// control specifiers: keyword arguments, ranges and '*' are accepted.
func parseArgList(text string, sc *scope) ([]ast.Expression, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	var p exprParser
	p.init(text, sc)
	var list []ast.Expression
	for p.err == nil {
		list = append(list, p.parseArg())
		if p.tok != token.Comma {
			break
		}
		p.next()
	}
	p.expect(token.EOF)
	if p.err != nil {
		return nil, p.err
	}
	return list, nil
}

func (p *exprParser) parseExpr() ast.Expression {
	x := p.parseEquiv()
	for p.err == nil && p.tok == token.DefinedOp {
		name := definedOpName(p.lit)
		p.next()
		y := p.parseEquiv()
		x = &ast.BinaryExpr{Op: token.DefinedOp, OpName: name, X: x, Y: y}
	}
	return x
}

func (p *exprParser) parseEquiv() ast.Expression {
	x := p.parseOr()
	for p.err == nil && (p.tok == token.EQV || p.tok == token.NEQV) {
		op := p.tok
		p.next()
		x = &ast.BinaryExpr{Op: op, X: x, Y: p.parseOr()}
	}
	return x
}

func (p *exprParser) parseOr() ast.Expression {
	x := p.parseAnd()
	for p.err == nil && p.tok == token.OR {
		p.next()
		x = &ast.BinaryExpr{Op: token.OR, X: x, Y: p.parseAnd()}
	}
	return x
}

func (p *exprParser) parseAnd() ast.Expression {
	x := p.parseNot()
	for p.err == nil && p.tok == token.AND {
		p.next()
		x = &ast.BinaryExpr{Op: token.AND, X: x, Y: p.parseNot()}
	}
	return x
}

func (p *exprParser) parseNot() ast.Expression {
	if p.tok == token.NOT {
		p.next()
		return &ast.UnaryExpr{Op: token.NOT, X: p.parseNot()}
	}
	return p.parseRelational()
}

func (p *exprParser) parseRelational() ast.Expression {
	x := p.parseConcat()
	if p.err == nil && p.tok.IsRelational() {
		op := p.tok
		p.next()
		x = &ast.BinaryExpr{Op: op, X: x, Y: p.parseConcat()}
	}
	return x
}

func (p *exprParser) parseConcat() ast.Expression {
	x := p.parseAdd()
	for p.err == nil && p.tok == token.StringConcat {
		p.next()
		x = &ast.BinaryExpr{Op: token.StringConcat, X: x, Y: p.parseAdd()}
	}
	return x
}

func (p *exprParser) parseAdd() ast.Expression {
	var x ast.Expression
	if p.tok == token.Plus || p.tok == token.Minus {
		op := p.tok
		p.next()
		x = &ast.UnaryExpr{Op: op, X: p.parseMul()}
	} else {
		x = p.parseMul()
	}
	for p.err == nil && (p.tok == token.Plus || p.tok == token.Minus) {
		op := p.tok
		p.next()
		x = &ast.BinaryExpr{Op: op, X: x, Y: p.parseMul()}
	}
	return x
}

func (p *exprParser) parseMul() ast.Expression {
	x := p.parsePow()
	for p.err == nil && (p.tok == token.Asterisk || p.tok == token.Slash) {
		op := p.tok
		p.next()
		x = &ast.BinaryExpr{Op: op, X: x, Y: p.parsePow()}
	}
	return x
}

func (p *exprParser) parsePow() ast.Expression {
	x := p.parseDefUnary()
	if p.err == nil && p.tok == token.DoubleStar {
		p.next()
		x = &ast.BinaryExpr{Op: token.DoubleStar, X: x, Y: p.parsePow()}
	}
	return x
}

// parseDefUnary parses defined unary operators, whose operand is a primary,
// and signs following a binary operator as in a*-b, which compilers accept.
func (p *exprParser) parseDefUnary() ast.Expression {
	switch p.tok {
	case token.DefinedOp:
		name := definedOpName(p.lit)
		p.next()
		return &ast.UnaryExpr{Op: token.DefinedOp, OpName: name, X: p.parseDefUnary()}
	case token.Plus, token.Minus:
		op := p.tok
		p.next()
		return &ast.UnaryExpr{Op: op, X: p.parsePow()}
	}
	return p.parsePrimary()
}

func (p *exprParser) parsePrimary() ast.Expression {
	if p.err != nil {
		return nil
	}
	var x ast.Expression
	switch p.tok {
	case token.Identifier:
		name := p.lit
		p.next()
		if p.tok == token.LParen {
			p.next()
			args := p.parseArgs(token.RParen)
			x = p.reference(name, args)
		} else {
			x = &ast.Identifier{Name: name}
		}
		p.lhs = false
	case token.IntLit:
		x = &ast.IntegerLiteral{Raw: p.lit}
		p.next()
	case token.FloatLit:
		x = &ast.RealLiteral{Raw: p.lit}
		p.next()
	case token.StringLit:
		x = &ast.StringLiteral{Raw: p.lit}
		p.next()
	case token.BOZLit:
		x = &ast.BOZLiteral{Raw: p.lit}
		p.next()
	case token.TRUE, token.FALSE:
		ll := &ast.LogicalLiteral{Value: p.tok == token.TRUE}
		if i := strings.LastIndexByte(p.lit, '_'); i > 0 && p.lit[i-1] == '.' {
			ll.KindParam = p.lit[i+1:]
		}
		x = ll
		p.next()
	case token.LParen:
		p.next()
		x = p.parseParen()
	case token.LArray:
		p.next()
		x = &ast.ArrayConstructor{Values: p.parseArgs(token.RArray)}
	case token.LBracket:
		p.next()
		x = &ast.ArrayConstructor{Brackets: true, Values: p.parseArgs(token.RBracket)}
	default:
		p.unexpected()
		return nil
	}
	return p.parsePostfix(x)
}

// parsePostfix parses component selections and trailing subscripts.
func (p *exprParser) parsePostfix(x ast.Expression) ast.Expression {
	for p.err == nil {
		switch p.tok {
		case token.Percent:
			p.next()
			if p.tok != token.Identifier {
				p.unexpected()
				return nil
			}
			x = &ast.ComponentAccess{Base: x, Field: p.lit}
			p.next()
		case token.LParen:
			switch x.(type) {
			case *ast.Identifier, *ast.IntegerLiteral, *ast.RealLiteral, *ast.LogicalLiteral, *ast.BOZLiteral:
				return x
			}
			p.next()
			x = &ast.SubscriptExpr{Base: x, Args: p.parseArgs(token.RParen)}
		default:
			return x
		}
	}
	return x
}

// parseParen parses what follows '(' in an operand position: a
// parenthesized expression, a complex literal or an implied DO loop.
func (p *exprParser) parseParen() ast.Expression {
	var items []ast.Expression
	for p.err == nil {
		if p.tok == token.Identifier && p.peek() == token.Equals && len(items) > 0 {
			return p.parseImpliedDo(items)
		}
		items = append(items, p.parseExpr())
		if p.tok != token.Comma {
			break
		}
		p.next()
	}
	if !p.expect(token.RParen) {
		return nil
	}
	switch len(items) {
	case 1:
		return &ast.ParenExpr{X: items[0]}
	case 2:
		return &ast.ComplexLiteral{Re: items[0], Im: items[1]}
	}
	p.fail("too many items in parentheses")
	return nil
}

func (p *exprParser) parseImpliedDo(items []ast.Expression) ast.Expression {
	do := &ast.ImpliedDoLoop{Items: items, Var: p.lit}
	p.next() // name
	p.next() // '='
	do.Start = p.parseExpr()
	p.expect(token.Comma)
	do.End = p.parseExpr()
	if p.err == nil && p.tok == token.Comma {
		p.next()
		do.Step = p.parseExpr()
	}
	if !p.expect(token.RParen) {
		return nil
	}
	return do
}

// parseArgs parses arguments after an opening delimiter up to and
// including the close token.
func (p *exprParser) parseArgs(close token.Token) []ast.Expression {
	args := []ast.Expression{}
	if p.tok == close {
		p.next()
		return args
	}
	for p.err == nil {
		args = append(args, p.parseArg())
		if p.tok == token.Comma {
			p.next()
			continue
		}
		p.expect(close)
		break
	}
	return args
}

// parseArg parses one actual argument.
func (p *exprParser) parseArg() ast.Expression {
	switch p.tok {
	case token.Asterisk:
		p.next()
		if p.tok == token.IntLit {
			ar := &ast.AlternateReturnArg{Label: p.lit}
			p.next()
			return ar
		}
		return &ast.Star{}
	case token.Identifier:
		if p.peek() == token.Equals {
			ka := &ast.KeywordArg{Keyword: p.lit}
			p.next()
			p.next()
			ka.Value = p.parseExpr()
			return ka
		}
	case token.Colon, token.DoubleColon:
		return p.parseRange(nil)
	}
	x := p.parseExpr()
	if p.err == nil && (p.tok == token.Colon || p.tok == token.DoubleColon) {
		return p.parseRange(x)
	}
	return x
}

// parseRange parses the rest of a lo:hi:stride triplet at the first colon.
func (p *exprParser) parseRange(lo ast.Expression) ast.Expression {
	r := &ast.RangeExpr{Lo: lo}
	if p.tok == token.DoubleColon {
		p.next()
		r.Stride = p.parseExpr()
		return r
	}
	p.next()
	if p.tok == token.Asterisk {
		// Assumed size upper bound.
		p.next()
		r.Hi = &ast.Star{}
	} else if !p.rangeEnd() {
		r.Hi = p.parseExpr()
	}
	if p.err == nil && p.tok == token.Colon {
		p.next()
		r.Stride = p.parseExpr()
	}
	return r
}

func (p *exprParser) rangeEnd() bool {
	switch p.tok {
	case token.Comma, token.RParen, token.RBracket, token.RArray, token.Colon, token.EOF:
		return true
	}
	return false
}

// reference builds the node for name(args): an array element, a checked
// intrinsic reference or a function call.
func (p *exprParser) reference(name string, args []ast.Expression) ast.Expression {
	if p.err != nil {
		return nil
	}
	declared, array := p.scope.lookup(name)
	if array || p.lhs || hasRange(args) {
		return &ast.ArrayRef{Name: name, Subscripts: args}
	}
	if !declared {
		if e, ok := intrinsic.Lookup(name); ok {
			if err := e.Check(len(args)); err != nil {
				p.err = err
				return nil
			}
			return &ast.IntrinsicRef{Name: e.Name, Generic: e.Generic, Args: args}
		}
	}
	return &ast.FunctionCall{Name: name, Args: args}
}

func hasRange(args []ast.Expression) bool {
	for _, a := range args {
		if _, ok := a.(*ast.RangeExpr); ok {
			return true
		}
	}
	return false
}

func definedOpName(lit string) string {
	return strings.Trim(lit, ".")
}
