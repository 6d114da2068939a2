package ast

import "fmt"

// Keyword is a `name=value` argument to a class's base-list, used for
// `metaclass=...`, `total=...` (TypedDict) and similar class keywords.
type Keyword struct {
	Name  string
	Value Expr
}

// FunctionDef is a `[async] def Name(Params...) -> ReturnAnnotation:`.
//
// FunctionDef is both a Stmt (it appears in a body) and carries enough
// structure for the checker/evaluator to treat it as a declaration: the
// binder attaches the Symbol, the evaluator synthesises its Function
// type from Params/ReturnAnnotation/Body.
type FunctionDef struct {
	base
	Name             string
	Params           []*Param
	ReturnAnnotation Expr
	Body             []Stmt
	Decorators       []Expr
	IsAsync          bool
	TypeParams       []string // declared generic parameters, if any
}

func NewFunctionDef(name string, params []*Param, ret Expr, body []Stmt, decorators []Expr, isAsync bool, span Span) *FunctionDef {
	return &FunctionDef{
		base: newBase(span), Name: name, Params: params, ReturnAnnotation: ret,
		Body: body, Decorators: decorators, IsAsync: isAsync,
	}
}

func (f *FunctionDef) isStmt()        {}
func (f *FunctionDef) String() string { return fmt.Sprintf("def %s(...): ...", f.Name) }

// ClassDef is a `class Name(Bases..., Keywords...): Body`.
type ClassDef struct {
	base
	Name       string
	Bases      []Expr
	Keywords   []Keyword
	Body       []Stmt
	Decorators []Expr
	TypeParams []string
}

func NewClassDef(name string, bases []Expr, keywords []Keyword, body []Stmt, decorators []Expr, span Span) *ClassDef {
	return &ClassDef{base: newBase(span), Name: name, Bases: bases, Keywords: keywords, Body: body, Decorators: decorators}
}

func (c *ClassDef) isStmt()        {}
func (c *ClassDef) String() string { return fmt.Sprintf("class %s: ...", c.Name) }

// Module is the root of a single source file's parse tree.
type Module struct {
	base
	Path  string // file path, for diagnostics and private-access policy
	Name  string // dotted module name as seen by importers
	Body  []Stmt
	IsStub bool // true for an annotation-only companion file
}

func NewModule(path, name string, body []Stmt, isStub bool, span Span) *Module {
	return &Module{base: newBase(span), Path: path, Name: name, Body: body, IsStub: isStub}
}

func (m *Module) isStmt()        {}
func (m *Module) String() string { return "module " + m.Name }
