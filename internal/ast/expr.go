package ast

import (
	"fmt"
	"strings"
)

// ArgCategory classifies a call argument per spec §4.D "Call".
type ArgCategory int

const (
	ArgSimple ArgCategory = iota
	ArgVarPositional       // *args unpack
	ArgVarKeyword          // **kwargs unpack
)

// Arg is one argument at a call site.
type Arg struct {
	Value    Expr
	Category ArgCategory
	Keyword  string // non-empty for keyword arguments
}

// ParamCategory classifies a declared parameter per the Type Model §3.
type ParamCategory int

const (
	ParamSimple ParamCategory = iota
	ParamVarPositional
	ParamVarKeyword
	ParamKeywordOnlyMarker // bare `*` separator, carries no name
)

// Param is a declared function parameter. It is a full Node (not just a
// span-carrying fragment) so a Declaration can point its Node field at
// the parameter itself, the way DeclFunction/DeclClass point at their
// defining statement.
type Param struct {
	base
	Name       string
	Annotation Expr // nil when unannotated; annotations are expressions
	Default    Expr // nil when no default
	Category   ParamCategory
}

func NewParam(name string, annotation, def Expr, cat ParamCategory, span Span) *Param {
	return &Param{base: newBase(span), Name: name, Annotation: annotation, Default: def, Category: cat}
}

func (p *Param) HasDefault() bool { return p.Default != nil }

func (p *Param) String() string { return "Param(" + p.Name + ")" }

// NameExpr references a symbol by name.
type NameExpr struct {
	base
	Name string
}

func NewNameExpr(name string, span Span) *NameExpr {
	return &NameExpr{base: newBase(span), Name: name}
}

func (n *NameExpr) isExpr()        {}
func (n *NameExpr) String() string { return n.Name }

// MemberExpr is `Base.Attr`.
type MemberExpr struct {
	base
	Base Expr
	Attr string
}

func NewMemberExpr(b Expr, attr string, span Span) *MemberExpr {
	return &MemberExpr{base: newBase(span), Base: b, Attr: attr}
}

func (m *MemberExpr) isExpr()        {}
func (m *MemberExpr) String() string { return fmt.Sprintf("%s.%s", m.Base, m.Attr) }

// SliceExpr is `lower:upper:step` inside an IndexExpr.
type SliceExpr struct {
	base
	Lower, Upper, Step Expr
}

func NewSliceExpr(lower, upper, step Expr, span Span) *SliceExpr {
	return &SliceExpr{base: newBase(span), Lower: lower, Upper: upper, Step: step}
}

func (s *SliceExpr) isExpr() {}
func (s *SliceExpr) String() string {
	part := func(e Expr) string {
		if e == nil {
			return ""
		}
		return e.String()
	}
	if s.Step != nil {
		return fmt.Sprintf("%s:%s:%s", part(s.Lower), part(s.Upper), part(s.Step))
	}
	return fmt.Sprintf("%s:%s", part(s.Lower), part(s.Upper))
}

// IndexExpr is `Base[Args...]`, used both for subscripting and for
// special-builtin specialisation (`List[int]`, `Dict[str, int]`, ...).
type IndexExpr struct {
	base
	Base Expr
	Args []Expr
}

func NewIndexExpr(b Expr, args []Expr, span Span) *IndexExpr {
	return &IndexExpr{base: newBase(span), Base: b, Args: args}
}

func (i *IndexExpr) isExpr() {}
func (i *IndexExpr) String() string {
	parts := make([]string, len(i.Args))
	for idx, a := range i.Args {
		parts[idx] = a.String()
	}
	return fmt.Sprintf("%s[%s]", i.Base, strings.Join(parts, ", "))
}

// CallExpr is `Callee(Args...)`.
type CallExpr struct {
	base
	Callee Expr
	Args   []Arg
}

func NewCallExpr(callee Expr, args []Arg, span Span) *CallExpr {
	return &CallExpr{base: newBase(span), Callee: callee, Args: args}
}

func (c *CallExpr) isExpr() {}
func (c *CallExpr) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		switch a.Category {
		case ArgVarPositional:
			parts[i] = "*" + a.Value.String()
		case ArgVarKeyword:
			parts[i] = "**" + a.Value.String()
		default:
			if a.Keyword != "" {
				parts[i] = fmt.Sprintf("%s=%s", a.Keyword, a.Value)
			} else {
				parts[i] = a.Value.String()
			}
		}
	}
	return fmt.Sprintf("%s(%s)", c.Callee, strings.Join(parts, ", "))
}

// UnaryExpr is a prefix operator: `-x`, `not x`, `~x`.
type UnaryExpr struct {
	base
	Op      string
	Operand Expr
}

func NewUnaryExpr(op string, operand Expr, span Span) *UnaryExpr {
	return &UnaryExpr{base: newBase(span), Op: op, Operand: operand}
}

func (u *UnaryExpr) isExpr()        {}
func (u *UnaryExpr) String() string { return fmt.Sprintf("(%s %s)", u.Op, u.Operand) }

// BinaryExpr is an infix arithmetic/comparison operator, or identity
// tests (`is`, `is not`) and membership tests (`in`, `not in`).
type BinaryExpr struct {
	base
	Op          string
	Left, Right Expr
}

func NewBinaryExpr(op string, left, right Expr, span Span) *BinaryExpr {
	return &BinaryExpr{base: newBase(span), Op: op, Left: left, Right: right}
}

func (b *BinaryExpr) isExpr()        {}
func (b *BinaryExpr) String() string { return fmt.Sprintf("(%s %s %s)", b.Left, b.Op, b.Right) }

// BoolOpExpr is short-circuiting `and`/`or` over two or more operands.
type BoolOpExpr struct {
	base
	Op     string // "and" | "or"
	Values []Expr
}

func NewBoolOpExpr(op string, values []Expr, span Span) *BoolOpExpr {
	return &BoolOpExpr{base: newBase(span), Op: op, Values: values}
}

func (b *BoolOpExpr) isExpr() {}
func (b *BoolOpExpr) String() string {
	parts := make([]string, len(b.Values))
	for i, v := range b.Values {
		parts[i] = v.String()
	}
	return "(" + strings.Join(parts, " "+b.Op+" ") + ")"
}

// StarExpr is an unpacked element inside a tuple/list display or an
// unpacked positional call argument, `*xs`.
type StarExpr struct {
	base
	Value Expr
}

func NewStarExpr(value Expr, span Span) *StarExpr {
	return &StarExpr{base: newBase(span), Value: value}
}

func (s *StarExpr) isExpr()        {}
func (s *StarExpr) String() string { return "*" + s.Value.String() }

// TupleExpr, ListExpr, SetExpr are the bracketed container displays.
type TupleExpr struct {
	base
	Elts []Expr
}

func NewTupleExpr(elts []Expr, span Span) *TupleExpr { return &TupleExpr{base: newBase(span), Elts: elts} }
func (t *TupleExpr) isExpr()                         {}
func (t *TupleExpr) String() string                  { return exprList("(", t.Elts, ")") }

type ListExpr struct {
	base
	Elts []Expr
}

func NewListExpr(elts []Expr, span Span) *ListExpr { return &ListExpr{base: newBase(span), Elts: elts} }
func (l *ListExpr) isExpr()                         {}
func (l *ListExpr) String() string                  { return exprList("[", l.Elts, "]") }

type SetExpr struct {
	base
	Elts []Expr
}

func NewSetExpr(elts []Expr, span Span) *SetExpr { return &SetExpr{base: newBase(span), Elts: elts} }
func (s *SetExpr) isExpr()                        {}
func (s *SetExpr) String() string                 { return exprList("{", s.Elts, "}") }

func exprList(open string, elts []Expr, close string) string {
	parts := make([]string, len(elts))
	for i, e := range elts {
		parts[i] = e.String()
	}
	return open + strings.Join(parts, ", ") + close
}

// DictExpr is `{k: v, ...}`. A nil Keys[i] marks a `**`-unpacked entry
// whose Values[i] is the mapping being merged in.
type DictExpr struct {
	base
	Keys   []Expr
	Values []Expr
}

func NewDictExpr(keys, values []Expr, span Span) *DictExpr {
	return &DictExpr{base: newBase(span), Keys: keys, Values: values}
}

func (d *DictExpr) isExpr() {}
func (d *DictExpr) String() string {
	parts := make([]string, len(d.Values))
	for i, v := range d.Values {
		if d.Keys[i] == nil {
			parts[i] = "**" + v.String()
		} else {
			parts[i] = fmt.Sprintf("%s: %s", d.Keys[i], v)
		}
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// TernaryExpr is `Then if Test else Else`.
type TernaryExpr struct {
	base
	Test, Then, Else Expr
}

func NewTernaryExpr(test, then, els Expr, span Span) *TernaryExpr {
	return &TernaryExpr{base: newBase(span), Test: test, Then: then, Else: els}
}

func (t *TernaryExpr) isExpr() {}
func (t *TernaryExpr) String() string {
	return fmt.Sprintf("(%s if %s else %s)", t.Then, t.Test, t.Else)
}

// ComprehensionKind selects the container a comprehension builds.
type ComprehensionKind int

const (
	ComprehensionList ComprehensionKind = iota
	ComprehensionSet
	ComprehensionDict
	ComprehensionGenerator
)

// CompClause is one `for Target in Iter if Ifs...` clause.
type CompClause struct {
	Target  Expr // assignment-target expression: Name/Tuple/List/Star
	Iter    Expr
	Ifs     []Expr
	IsAsync bool
}

// ComprehensionExpr covers list/set/dict/generator comprehensions; for
// dict comprehensions KeyElement is the key expression and Element is
// the value expression.
type ComprehensionExpr struct {
	base
	Kind       ComprehensionKind
	KeyElement Expr // dict comprehensions only
	Element    Expr
	Clauses    []CompClause
}

func NewComprehensionExpr(kind ComprehensionKind, key, element Expr, clauses []CompClause, span Span) *ComprehensionExpr {
	return &ComprehensionExpr{base: newBase(span), Kind: kind, KeyElement: key, Element: element, Clauses: clauses}
}

func (c *ComprehensionExpr) isExpr() {}
func (c *ComprehensionExpr) String() string {
	var b strings.Builder
	if c.Kind == ComprehensionDict {
		fmt.Fprintf(&b, "{%s: %s", c.KeyElement, c.Element)
	} else {
		open, close := "[", "]"
		switch c.Kind {
		case ComprehensionSet:
			open, close = "{", "}"
		case ComprehensionGenerator:
			open, close = "(", ")"
		}
		fmt.Fprintf(&b, "%s%s", open, c.Element)
		defer func() { b.WriteString(close) }()
	}
	for _, cl := range c.Clauses {
		async := ""
		if cl.IsAsync {
			async = "async "
		}
		fmt.Fprintf(&b, " %sfor %s in %s", async, cl.Target, cl.Iter)
		for _, ifExpr := range cl.Ifs {
			fmt.Fprintf(&b, " if %s", ifExpr)
		}
	}
	if c.Kind == ComprehensionDict {
		b.WriteString("}")
	}
	return b.String()
}

// LambdaExpr is an anonymous un-annotated function expression.
type LambdaExpr struct {
	base
	Params []*Param
	Body   Expr
}

func NewLambdaExpr(params []*Param, body Expr, span Span) *LambdaExpr {
	return &LambdaExpr{base: newBase(span), Params: params, Body: body}
}

func (l *LambdaExpr) isExpr() {}
func (l *LambdaExpr) String() string {
	names := make([]string, len(l.Params))
	for i, p := range l.Params {
		names[i] = p.Name
	}
	return fmt.Sprintf("lambda %s: %s", strings.Join(names, ", "), l.Body)
}

// AwaitExpr is `await Value`.
type AwaitExpr struct {
	base
	Value Expr
}

func NewAwaitExpr(value Expr, span Span) *AwaitExpr { return &AwaitExpr{base: newBase(span), Value: value} }
func (a *AwaitExpr) isExpr()                         {}
func (a *AwaitExpr) String() string                  { return "await " + a.Value.String() }

// YieldExpr is `yield Value` (Value nil for a bare `yield`).
type YieldExpr struct {
	base
	Value Expr
}

func NewYieldExpr(value Expr, span Span) *YieldExpr { return &YieldExpr{base: newBase(span), Value: value} }
func (y *YieldExpr) isExpr()                         {}
func (y *YieldExpr) String() string {
	if y.Value == nil {
		return "yield"
	}
	return "yield " + y.Value.String()
}

// YieldFromExpr is `yield from Value`.
type YieldFromExpr struct {
	base
	Value Expr
}

func NewYieldFromExpr(value Expr, span Span) *YieldFromExpr {
	return &YieldFromExpr{base: newBase(span), Value: value}
}
func (y *YieldFromExpr) isExpr()        {}
func (y *YieldFromExpr) String() string { return "yield from " + y.Value.String() }

// LiteralKind tags a constant expression.
type LiteralKind int

const (
	IntLit LiteralKind = iota
	FloatLit
	StringLit
	BytesLit
	BoolLit
	NoneLit
	EllipsisLit
)

// Literal is a constant: numbers, strings/bytes, bool, None, `...`.
//
// Parts holds adjacent string-literal segments for a single logical
// literal so the checker can detect implicit string concatenation
// (`"a" "b"`) per reportImplicitStringConcatenation; it is empty for
// every other literal kind.
type Literal struct {
	base
	Kind  LiteralKind
	Value interface{}
	Parts []string
}

func NewLiteral(kind LiteralKind, value interface{}, span Span) *Literal {
	return &Literal{base: newBase(span), Kind: kind, Value: value}
}

func (l *Literal) isExpr()        {}
func (l *Literal) String() string { return fmt.Sprintf("%v", l.Value) }

// AssignExpr is the walrus operator `Target := Value`.
type AssignExpr struct {
	base
	Target *NameExpr
	Value  Expr
}

func NewAssignExpr(target *NameExpr, value Expr, span Span) *AssignExpr {
	return &AssignExpr{base: newBase(span), Target: target, Value: value}
}

func (a *AssignExpr) isExpr()        {}
func (a *AssignExpr) String() string { return fmt.Sprintf("(%s := %s)", a.Target, a.Value) }

// TypeAnnotationExpr wraps an expression used purely as a type
// annotation (a parameter/variable/return annotation); evaluating it
// asks the evaluator for the *type object* the expression denotes
// rather than the runtime type of evaluating it as a value.
type TypeAnnotationExpr struct {
	base
	Expr Expr
}

func NewTypeAnnotationExpr(expr Expr, span Span) *TypeAnnotationExpr {
	return &TypeAnnotationExpr{base: newBase(span), Expr: expr}
}

func (t *TypeAnnotationExpr) isExpr()        {}
func (t *TypeAnnotationExpr) String() string { return t.Expr.String() }

// ErrorExpr stands in for a syntactically broken expression; its Child
// (possibly nil) is still evaluated to keep downstream caches warm.
type ErrorExpr struct {
	base
	Child Expr
}

func NewErrorExpr(child Expr, span Span) *ErrorExpr { return &ErrorExpr{base: newBase(span), Child: child} }
func (e *ErrorExpr) isExpr()                         {}
func (e *ErrorExpr) String() string                  { return "<error>" }
