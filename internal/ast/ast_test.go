package ast

import (
	"strings"
	"testing"
)

func TestNodeIdentityIsStable(t *testing.T) {
	span := NewSpan("t.py", 1, 0, 1, 1)
	n := NewNameExpr("x", span)
	id1 := n.ID()
	id2 := n.ID()
	if id1 != id2 {
		t.Fatalf("expected stable id, got %v then %v", id1, id2)
	}

	other := NewNameExpr("x", span)
	if other.ID() == n.ID() {
		t.Fatalf("expected distinct nodes to get distinct ids")
	}
}

func TestCallExprString(t *testing.T) {
	span := NewSpan("t.py", 1, 0, 1, 10)
	callee := NewNameExpr("f", span)
	arg := Arg{Value: NewLiteral(IntLit, int64(1), span)}
	call := NewCallExpr(callee, []Arg{arg}, span)

	if got, want := call.String(), "f(1)"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestMemberAndIndexString(t *testing.T) {
	span := NewSpan("t.py", 1, 0, 1, 10)
	base := NewNameExpr("x", span)
	member := NewMemberExpr(base, "bit_length", span)
	if got, want := member.String(), "x.bit_length"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}

	idx := NewIndexExpr(NewNameExpr("List", span), []Expr{NewNameExpr("int", span)}, span)
	if got, want := idx.String(), "List[int]"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestDump(t *testing.T) {
	span := NewSpan("t.py", 1, 0, 1, 1)
	body := []Stmt{
		NewIfStmt(NewNameExpr("x", span),
			[]Stmt{NewPassStmt(span)},
			[]Stmt{NewPassStmt(span)},
			span),
	}
	var sb strings.Builder
	Dump(&sb, body, 0)
	if sb.Len() == 0 {
		t.Fatal("expected non-empty dump output")
	}
}
