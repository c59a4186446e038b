package compiler

import "github.com/roach88/noisegraph/internal/ir"

// Binding powers. Unary minus binds its operand tighter than '^', so -2^2
// is (-2)^2.
const (
	bpSum     = 10
	bpProduct = 20
	bpPower   = 30
	bpUnary   = 40
)

func lbp(t TokenType) (int, bool) {
	switch t {
	case PLUS, MINUS:
		return bpSum, true
	case STAR, SLASH:
		return bpProduct, true
	case CARET:
		return bpPower, true
	}
	return 0, false
}

func isRightAssoc(t TokenType) bool { return t == CARET }

type parser struct {
	src  string
	toks []Token
	i    int
}

// parse turns src into a single expression tree.
func parse(src string) (expr, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{src: src, toks: toks}
	if p.peek().Type == EOF {
		return nil, p.errAt(p.peek(), "empty expression")
	}
	e, err := p.expr(0)
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.Type != EOF {
		return nil, p.errAt(t, "unexpected %s", t.describe())
	}
	return e, nil
}

func (p *parser) peek() Token {
	if p.i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.i]
}

func (p *parser) next() Token {
	t := p.peek()
	if p.i < len(p.toks) {
		p.i++
	}
	return t
}

func (p *parser) match(tt TokenType) bool {
	if p.peek().Type == tt {
		p.i++
		return true
	}
	return false
}

func (p *parser) errAt(t Token, format string, args ...any) *ParseError {
	if t.Type == EOF {
		return newParseError(p.src, t.Pos, "unterminated expression: "+format, args...)
	}
	return newParseError(p.src, t.Pos, format, args...)
}

func (p *parser) expr(minBP int) (expr, error) {
	left, err := p.prefix()
	if err != nil {
		return nil, err
	}

	for {
		op := p.peek()
		bp, ok := lbp(op.Type)
		if !ok || bp < minBP {
			break
		}
		p.i++

		nextBP := bp + 1
		if isRightAssoc(op.Type) {
			nextBP = bp
		}
		right, err := p.expr(nextBP)
		if err != nil {
			return nil, err
		}
		left = binaryExpr{at: op.Pos, op: op.Type, left: left, right: right}
	}
	return left, nil
}

func (p *parser) prefix() (expr, error) {
	t := p.next()
	switch t.Type {
	case NUMBER:
		return numberLit{at: t.Pos, value: t.Num}, nil

	case NODEREF:
		return nodeRef{at: t.Pos, index: ir.Index(t.Num)}, nil

	case MINUS:
		operand, err := p.expr(bpUnary)
		if err != nil {
			return nil, err
		}
		return negExpr{at: t.Pos, operand: operand}, nil

	case LPAREN:
		e, err := p.expr(0)
		if err != nil {
			return nil, err
		}
		if !p.match(RPAREN) {
			return nil, p.errAt(p.peek(), "expected ')' to close '(' at offset %d, got %s", t.Pos, p.peek().describe())
		}
		return e, nil

	case IDENT:
		if !p.match(LPAREN) {
			return identRef{at: t.Pos, name: t.Lexeme}, nil
		}
		return p.call(t)

	default:
		return nil, p.errAt(t, "unexpected %s", t.describe())
	}
}

// call parses an argument list; the opening parenthesis is consumed.
func (p *parser) call(name Token) (expr, error) {
	c := callExpr{at: name.Pos, name: name.Lexeme}
	if p.match(RPAREN) {
		return c, nil
	}
	for {
		arg, err := p.expr(0)
		if err != nil {
			return nil, err
		}
		c.args = append(c.args, arg)
		if p.match(COMMA) {
			continue
		}
		if p.match(RPAREN) {
			return c, nil
		}
		return nil, p.errAt(p.peek(), "expected ',' or ')' in call to %s, got %s", name.Lexeme, p.peek().describe())
	}
}
