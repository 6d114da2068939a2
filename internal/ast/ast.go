// Package ast defines the parse-tree contract the checker consumes.
//
// The lexer, parser and binder that produce this tree are external
// collaborators (see spec §1): this package only fixes the node shapes
// those collaborators must hand to the checker — stable node identity,
// a source span, and a parent-free but walkable structure. Tests and
// the CLI build these nodes directly through the `New*` constructors
// below, standing in for a parser this module does not implement.
package ast

import (
	"fmt"
	"sync/atomic"
)

// NodeID is a stable per-node identity, assigned once at construction.
// The evaluator's cache is keyed on (NodeID, Usage) per spec §4.D.
type NodeID int64

var idCounter int64

func nextID() NodeID {
	return NodeID(atomic.AddInt64(&idCounter, 1))
}

// Pos is a single source location.
type Pos struct {
	Line   int
	Column int
	Offset int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span is a source range, [Start, End).
type Span struct {
	File  string
	Start Pos
	End   Pos
}

func (s Span) String() string {
	return fmt.Sprintf("%s:%s-%s", s.File, s.Start, s.End)
}

// Node is the base of every syntactic element the checker visits.
type Node interface {
	ID() NodeID
	Span() Span
	String() string
}

// Expr is any node that produces a value and therefore a Type.
type Expr interface {
	Node
	isExpr()
}

// Stmt is any node with type side effects but no single expression type.
type Stmt interface {
	Node
	isStmt()
}

// base is embedded in every concrete node to supply identity and span.
type base struct {
	id   NodeID
	span Span
}

func newBase(span Span) base {
	return base{id: nextID(), span: span}
}

func (b base) ID() NodeID { return b.id }
func (b base) Span() Span { return b.span }

// NewSpan is a convenience constructor for fixtures and tests.
func NewSpan(file string, startLine, startCol, endLine, endCol int) Span {
	return Span{
		File:  file,
		Start: Pos{Line: startLine, Column: startCol},
		End:   Pos{Line: endLine, Column: endCol},
	}
}
