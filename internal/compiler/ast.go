package compiler

import "github.com/roach88/noisegraph/internal/ir"

// expr is a parsed expression. Every node remembers the byte offset it
// started at, for diagnostics.
type expr interface {
	pos() int
}

type numberLit struct {
	at    int
	value float64
}

type identRef struct {
	at   int
	name string
}

type nodeRef struct {
	at    int
	index ir.Index
}

type negExpr struct {
	at      int
	operand expr
}

type binaryExpr struct {
	at          int
	op          TokenType
	left, right expr
}

type callExpr struct {
	at   int
	name string
	args []expr
}

func (e numberLit) pos() int  { return e.at }
func (e identRef) pos() int   { return e.at }
func (e nodeRef) pos() int    { return e.at }
func (e negExpr) pos() int    { return e.at }
func (e binaryExpr) pos() int { return e.at }
func (e callExpr) pos() int   { return e.at }
