package checker

import (
	"github.com/sunholo/gradualtype/internal/ast"
	"github.com/sunholo/gradualtype/internal/symbols"
)

// collectDeclarations is the Checker's stand-in for the binder's
// declaration pass (spec §1): a single-scope-deep walk that registers
// every name body binds into table, recursing into nested If/For/
// While/With/Try blocks (which share their enclosing scope, per
// Python's block-less scoping) but not into nested FunctionDef/
// ClassDef bodies, which get their own scope when the walker visits
// them. Mirrors the nested-block recursion collectSelfAssignments
// already uses for `self.attr =` discovery (internal/evaluator/decl.go),
// generalised from one assignment shape to every declaration kind a
// scope can bind.
func collectDeclarations(body []ast.Stmt, table *symbols.SymbolTable, isMethodBody bool) {
	for _, stmt := range body {
		switch s := stmt.(type) {
		case *ast.FunctionDef:
			addOrAppendDecl(table, s.Name, &symbols.Declaration{
				Kind: symbols.DeclFunction, Node: s, Range: s.Span(), IsMethod: isMethodBody,
			})
		case *ast.ClassDef:
			addOrAppendDecl(table, s.Name, &symbols.Declaration{Kind: symbols.DeclClass, Node: s, Range: s.Span()})
		case *ast.AssignStmt:
			declareAssignTargets(table, s)
		case *ast.AugAssignStmt:
			if name, ok := s.Target.(*ast.NameExpr); ok {
				addOrAppendDecl(table, name.Name, &symbols.Declaration{
					Kind: symbols.DeclVariable, Node: s, Range: s.Span(), InferredFrom: s.Value,
				})
			}
		case *ast.ForStmt:
			declareTarget(table, s.Target, s, nil, nil)
			collectDeclarations(s.Body, table, isMethodBody)
			collectDeclarations(s.Else, table, isMethodBody)
		case *ast.WhileStmt:
			collectDeclarations(s.Body, table, isMethodBody)
			collectDeclarations(s.Else, table, isMethodBody)
		case *ast.IfStmt:
			collectDeclarations(s.Body, table, isMethodBody)
			collectDeclarations(s.Else, table, isMethodBody)
		case *ast.WithStmt:
			for _, item := range s.Items {
				if item.Target != nil {
					declareTarget(table, item.Target, s, nil, nil)
				}
			}
			collectDeclarations(s.Body, table, isMethodBody)
		case *ast.TryStmt:
			collectDeclarations(s.Body, table, isMethodBody)
			for _, h := range s.Handlers {
				if h.Name != "" {
					addOrAppendDecl(table, h.Name, &symbols.Declaration{Kind: symbols.DeclVariable, Node: h, Range: h.Span()})
				}
				collectDeclarations(h.Body, table, isMethodBody)
			}
			collectDeclarations(s.Else, table, isMethodBody)
			collectDeclarations(s.Finally, table, isMethodBody)
		case *ast.ImportStmt:
			for _, alias := range s.Modules {
				addOrAppendDecl(table, alias.BoundName(), &symbols.Declaration{
					Kind: symbols.DeclAlias, Node: s, Range: s.Span(), AliasModule: alias.Path,
				})
			}
		case *ast.ImportFromStmt:
			for _, alias := range s.Names {
				addOrAppendDecl(table, alias.BoundName(), &symbols.Declaration{
					Kind: symbols.DeclAlias, Node: s, Range: s.Span(),
					AliasModule: s.Module, AliasSymbol: alias.Path,
				})
			}
		}
	}
}

// addOrAppendDecl gets-or-creates the symbol bound to name in table and
// folds decl into it via Symbol.AddDeclaration, so repeated bindings of
// the same name (e.g. reassignment, or a redeclaration audit candidate)
// accumulate on one Symbol instead of shadowing it.
func addOrAppendDecl(table *symbols.SymbolTable, name string, decl *symbols.Declaration) *symbols.Symbol {
	sym, ok := table.Get(name)
	if !ok {
		sym = symbols.New(name, 0)
		table.Set(name, sym)
	}
	sym.AddDeclaration(decl)
	return sym
}

// declareTarget binds every name an assignment/for/with target names,
// destructuring tuple and list targets and unwrapping a starred
// sub-target; a Member/Index target binds into some other object, not
// this scope, so it is left alone.
func declareTarget(table *symbols.SymbolTable, target ast.Expr, node ast.Node, value, annotation ast.Expr) {
	switch t := target.(type) {
	case *ast.NameExpr:
		addOrAppendDecl(table, t.Name, &symbols.Declaration{
			Kind:         symbols.DeclVariable,
			Node:         node,
			Range:        node.Span(),
			Annotation:   annotation,
			InferredFrom: value,
			IsFinal:      annotation != nil && isFinalAnnotation(annotation),
		})
	case *ast.TupleExpr:
		for _, e := range t.Elts {
			declareTarget(table, e, node, nil, nil)
		}
	case *ast.ListExpr:
		for _, e := range t.Elts {
			declareTarget(table, e, node, nil, nil)
		}
	case *ast.StarExpr:
		declareTarget(table, t.Value, node, nil, nil)
	}
}

func declareAssignTargets(table *symbols.SymbolTable, s *ast.AssignStmt) {
	for _, target := range s.Targets {
		declareTarget(table, target, s, s.Value, s.Annotation)
	}
}
