package ast

import (
	"fmt"
	"strings"
)

// ExprStmt is a bare expression evaluated for its side effects.
type ExprStmt struct {
	base
	Value Expr
}

func NewExprStmt(value Expr, span Span) *ExprStmt { return &ExprStmt{base: newBase(span), Value: value} }
func (s *ExprStmt) isStmt()                        {}
func (s *ExprStmt) String() string                 { return s.Value.String() }

// AssignStmt is `Targets... = Value`, optionally annotated
// (`Target: Annotation = Value`, Targets has exactly one entry then).
type AssignStmt struct {
	base
	Targets    []Expr
	Value      Expr
	Annotation Expr // non-nil for an annotated assignment
}

func NewAssignStmt(targets []Expr, value, annotation Expr, span Span) *AssignStmt {
	return &AssignStmt{base: newBase(span), Targets: targets, Value: value, Annotation: annotation}
}

func (a *AssignStmt) isStmt() {}
func (a *AssignStmt) String() string {
	names := make([]string, len(a.Targets))
	for i, t := range a.Targets {
		names[i] = t.String()
	}
	if a.Annotation != nil {
		return fmt.Sprintf("%s: %s = %s", names[0], a.Annotation, a.Value)
	}
	return strings.Join(names, " = ") + " = " + a.Value.String()
}

// AugAssignStmt is `Target Op= Value` (e.g. `x += 1`).
type AugAssignStmt struct {
	base
	Target Expr
	Op     string
	Value  Expr
}

func NewAugAssignStmt(target Expr, op string, value Expr, span Span) *AugAssignStmt {
	return &AugAssignStmt{base: newBase(span), Target: target, Op: op, Value: value}
}

func (a *AugAssignStmt) isStmt()        {}
func (a *AugAssignStmt) String() string { return fmt.Sprintf("%s %s= %s", a.Target, a.Op, a.Value) }

// ReturnStmt is `return Value` (Value nil for a bare `return`).
type ReturnStmt struct {
	base
	Value Expr
}

func NewReturnStmt(value Expr, span Span) *ReturnStmt { return &ReturnStmt{base: newBase(span), Value: value} }
func (r *ReturnStmt) isStmt()                          {}
func (r *ReturnStmt) String() string {
	if r.Value == nil {
		return "return"
	}
	return "return " + r.Value.String()
}

// RaiseStmt is `raise Exc from Cause` (both optional).
type RaiseStmt struct {
	base
	Exc   Expr
	Cause Expr
}

func NewRaiseStmt(exc, cause Expr, span Span) *RaiseStmt {
	return &RaiseStmt{base: newBase(span), Exc: exc, Cause: cause}
}

func (r *RaiseStmt) isStmt() {}
func (r *RaiseStmt) String() string {
	if r.Exc == nil {
		return "raise"
	}
	if r.Cause != nil {
		return fmt.Sprintf("raise %s from %s", r.Exc, r.Cause)
	}
	return "raise " + r.Exc.String()
}

// AssertStmt is `assert Test, Msg` (Msg optional).
type AssertStmt struct {
	base
	Test Expr
	Msg  Expr
}

func NewAssertStmt(test, msg Expr, span Span) *AssertStmt {
	return &AssertStmt{base: newBase(span), Test: test, Msg: msg}
}

func (a *AssertStmt) isStmt()        {}
func (a *AssertStmt) String() string { return "assert " + a.Test.String() }

// ForStmt is `[async] for Target in Iter: Body else: Else`.
type ForStmt struct {
	base
	Target  Expr
	Iter    Expr
	Body    []Stmt
	Else    []Stmt
	IsAsync bool
}

func NewForStmt(target, iter Expr, body, els []Stmt, isAsync bool, span Span) *ForStmt {
	return &ForStmt{base: newBase(span), Target: target, Iter: iter, Body: body, Else: els, IsAsync: isAsync}
}

func (f *ForStmt) isStmt()        {}
func (f *ForStmt) String() string { return fmt.Sprintf("for %s in %s: ...", f.Target, f.Iter) }

// WhileStmt is `while Test: Body else: Else`.
type WhileStmt struct {
	base
	Test Expr
	Body []Stmt
	Else []Stmt
}

func NewWhileStmt(test Expr, body, els []Stmt, span Span) *WhileStmt {
	return &WhileStmt{base: newBase(span), Test: test, Body: body, Else: els}
}

func (w *WhileStmt) isStmt()        {}
func (w *WhileStmt) String() string { return fmt.Sprintf("while %s: ...", w.Test) }

// IfStmt is `if Test: Body else: Else`.
type IfStmt struct {
	base
	Test Expr
	Body []Stmt
	Else []Stmt
}

func NewIfStmt(test Expr, body, els []Stmt, span Span) *IfStmt {
	return &IfStmt{base: newBase(span), Test: test, Body: body, Else: els}
}

func (i *IfStmt) isStmt()        {}
func (i *IfStmt) String() string { return fmt.Sprintf("if %s: ...", i.Test) }

// WithItem is one `Context as Target` clause of a `with` statement.
type WithItem struct {
	Context Expr
	Target  Expr // nil when there is no `as` binding
}

// WithStmt is `[async] with Items...: Body`.
type WithStmt struct {
	base
	Items   []WithItem
	Body    []Stmt
	IsAsync bool
}

func NewWithStmt(items []WithItem, body []Stmt, isAsync bool, span Span) *WithStmt {
	return &WithStmt{base: newBase(span), Items: items, Body: body, IsAsync: isAsync}
}

func (w *WithStmt) isStmt()        {}
func (w *WithStmt) String() string { return "with ...: ..." }

// ExceptClause is one `except Type as Name: Body` handler; Type is nil
// for a bare `except:` and Name is empty when there is no `as` binding.
type ExceptClause struct {
	base
	Type Expr
	Name string
	Body []Stmt
}

func NewExceptClause(typ Expr, name string, body []Stmt, span Span) *ExceptClause {
	return &ExceptClause{base: newBase(span), Type: typ, Name: name, Body: body}
}

func (e *ExceptClause) String() string {
	if e.Type == nil {
		return "except: ..."
	}
	return fmt.Sprintf("except %s: ...", e.Type)
}

// TryStmt is `try: Body except Handlers... else: Else finally: Finally`.
type TryStmt struct {
	base
	Body     []Stmt
	Handlers []*ExceptClause
	Else     []Stmt
	Finally  []Stmt
}

func NewTryStmt(body []Stmt, handlers []*ExceptClause, els, fin []Stmt, span Span) *TryStmt {
	return &TryStmt{base: newBase(span), Body: body, Handlers: handlers, Else: els, Finally: fin}
}

func (t *TryStmt) isStmt()        {}
func (t *TryStmt) String() string { return "try: ..." }

// ImportAlias is one imported name, `Path as Asname` or `Name as Asname`.
type ImportAlias struct {
	Path    string
	Asname  string // empty when there is no `as` clause
	NameSpan Span  // span of just this alias, for diagnostics
}

func (a ImportAlias) BoundName() string {
	if a.Asname != "" {
		return a.Asname
	}
	return a.Path
}

// ImportStmt is `import Modules...`.
type ImportStmt struct {
	base
	Modules []ImportAlias
}

func NewImportStmt(modules []ImportAlias, span Span) *ImportStmt {
	return &ImportStmt{base: newBase(span), Modules: modules}
}

func (i *ImportStmt) isStmt() {}
func (i *ImportStmt) String() string {
	parts := make([]string, len(i.Modules))
	for idx, m := range i.Modules {
		parts[idx] = m.Path
	}
	return "import " + strings.Join(parts, ", ")
}

// ImportFromStmt is `from Module import Names...` (Level counts leading
// dots for relative imports).
type ImportFromStmt struct {
	base
	Module string
	Names  []ImportAlias
	Level  int
}

func NewImportFromStmt(module string, names []ImportAlias, level int, span Span) *ImportFromStmt {
	return &ImportFromStmt{base: newBase(span), Module: module, Names: names, Level: level}
}

func (i *ImportFromStmt) isStmt()        {}
func (i *ImportFromStmt) String() string { return "from " + i.Module + " import ..." }

// PassStmt, BreakStmt, ContinueStmt are the no-op control statements.
type PassStmt struct{ base }

func NewPassStmt(span Span) *PassStmt { return &PassStmt{base: newBase(span)} }
func (p *PassStmt) isStmt()           {}
func (p *PassStmt) String() string   { return "pass" }

type BreakStmt struct{ base }

func NewBreakStmt(span Span) *BreakStmt { return &BreakStmt{base: newBase(span)} }
func (b *BreakStmt) isStmt()            {}
func (b *BreakStmt) String() string    { return "break" }

type ContinueStmt struct{ base }

func NewContinueStmt(span Span) *ContinueStmt { return &ContinueStmt{base: newBase(span)} }
func (c *ContinueStmt) isStmt()               {}
func (c *ContinueStmt) String() string       { return "continue" }

// DeleteStmt is `del Targets...`.
type DeleteStmt struct {
	base
	Targets []Expr
}

func NewDeleteStmt(targets []Expr, span Span) *DeleteStmt {
	return &DeleteStmt{base: newBase(span), Targets: targets}
}

func (d *DeleteStmt) isStmt()        {}
func (d *DeleteStmt) String() string { return "del ..." }

// GlobalStmt and NonlocalStmt rebind name resolution for the listed
// names to an enclosing scope; the binder resolves them, the checker
// only needs to know they were declared.
type GlobalStmt struct {
	base
	Names []string
}

func NewGlobalStmt(names []string, span Span) *GlobalStmt { return &GlobalStmt{base: newBase(span), Names: names} }
func (g *GlobalStmt) isStmt()                              {}
func (g *GlobalStmt) String() string                       { return "global " + strings.Join(g.Names, ", ") }

type NonlocalStmt struct {
	base
	Names []string
}

func NewNonlocalStmt(names []string, span Span) *NonlocalStmt {
	return &NonlocalStmt{base: newBase(span), Names: names}
}
func (n *NonlocalStmt) isStmt()        {}
func (n *NonlocalStmt) String() string { return "nonlocal " + strings.Join(n.Names, ", ") }
