package evaluator

import (
	"github.com/sunholo/gradualtype/internal/ast"
	"github.com/sunholo/gradualtype/internal/symbols"
	"github.com/sunholo/gradualtype/internal/typesys"
	"github.com/sunholo/gradualtype/internal/typeutils"
)

// buildFunctionType synthesises fd's Function type from its parameter
// and return annotations, caching on fd's node identity so repeated
// references to the same def reuse one FuncDetails (spec §4.D
// "Caching"). isMethod defaults an unannotated first parameter to the
// enclosing class.
func (ev *Evaluator) buildFunctionType(fd *ast.FunctionDef, env *Env, isMethod bool) *typesys.Function {
	if t, ok := ev.declCache[fd.ID()]; ok {
		if fn, ok2 := t.(*typesys.Function); ok2 {
			return fn
		}
	}
	if ev.declInProgress[fd.ID()] {
		return &typesys.Function{Details: &typesys.FuncDetails{Name: fd.Name}}
	}
	ev.declInProgress[fd.ID()] = true
	defer delete(ev.declInProgress, fd.ID())

	flags, kind := classifyMethod(fd, isMethod)

	params := make([]typesys.FuncParam, len(fd.Params))
	for i, p := range fd.Params {
		params[i] = ev.buildParam(p, i, env, isMethod, kind)
	}

	details := &typesys.FuncDetails{
		Name:   fd.Name,
		Flags:  flags,
		Params: params,
		Node:   fd,
	}
	if fd.ReturnAnnotation != nil {
		details.Declared = ev.EvalTypeExpr(fd.ReturnAnnotation, env)
	}

	fn := &typesys.Function{Details: details}
	ev.declCache[fd.ID()] = fn
	return fn
}

// methodBindingKind distinguishes how a method's leading parameter
// should default when unannotated.
type methodBindingKind int

const (
	bindNone methodBindingKind = iota
	bindInstance
	bindClass
	bindStatic
)

func classifyMethod(fd *ast.FunctionDef, isMethod bool) (typesys.FunctionFlags, methodBindingKind) {
	var flags typesys.FunctionFlags
	kind := bindNone
	if isMethod {
		flags |= typesys.FuncInstanceMethod
		kind = bindInstance
	}
	for _, dec := range fd.Decorators {
		name, ok := dec.(*ast.NameExpr)
		if !ok {
			continue
		}
		switch name.Name {
		case "classmethod":
			flags = flags &^ typesys.FuncInstanceMethod
			flags |= typesys.FuncClassMethod
			kind = bindClass
		case "staticmethod":
			flags = flags &^ typesys.FuncInstanceMethod
			flags |= typesys.FuncStaticMethod
			kind = bindStatic
		case "abstractmethod":
			flags |= typesys.FuncAbstract
		}
	}
	if fd.Name == "__new__" {
		flags = flags &^ typesys.FuncInstanceMethod
		flags |= typesys.FuncConstructor | typesys.FuncStaticMethod
		kind = bindStatic
	}
	return flags, kind
}

func (ev *Evaluator) buildParam(p *ast.Param, index int, env *Env, isMethod bool, kind methodBindingKind) typesys.FuncParam {
	fp := typesys.FuncParam{Name: p.Name, HasDefault: p.HasDefault()}
	switch p.Category {
	case ast.ParamVarPositional:
		fp.Kind = typesys.ParamVarPositional
	case ast.ParamVarKeyword:
		fp.Kind = typesys.ParamVarKeyword
	default:
		fp.Kind = typesys.ParamSimple
	}

	switch {
	case p.Annotation != nil:
		fp.Type = ev.EvalTypeExpr(p.Annotation, env)
	case index == 0 && kind == bindInstance && env.Class != nil:
		fp.Type = typesys.Instance(env.Class)
	case index == 0 && kind == bindClass && env.Class != nil:
		fp.Type = env.Class
	default:
		fp.Type = typesys.TheUnknown
	}
	return fp
}

// buildClassType synthesises cd's Class: base list from cd.Bases,
// class-level members from top-level FunctionDef/AssignStmt/ClassDef
// entries in its body, and instance members from every `self.attr =`
// assignment found (at any nesting depth) inside its methods, where
// `self` is the first parameter name of the class's own `__init__`; a
// class with no `__init__`, or one without parameters, gets no
// instance members. Cached
// on cd's node identity the same way buildFunctionType is.
func (ev *Evaluator) buildClassType(cd *ast.ClassDef, env *Env) *typesys.Class {
	if t, ok := ev.declCache[cd.ID()]; ok {
		if cls, ok2 := t.(*typesys.Class); ok2 {
			return cls
		}
	}
	cls := typesys.NewClass(cd.Name, 0)
	cls.Details.Source = cd
	ev.declCache[cd.ID()] = cls

	if ev.declInProgress[cd.ID()] {
		return cls
	}
	ev.declInProgress[cd.ID()] = true
	defer delete(ev.declInProgress, cd.ID())

	classEnv := env.withClass(cls)

	hasBase := false
	for _, b := range cd.Bases {
		base := ev.EvalTypeExpr(b, classEnv)
		if bc, ok := asClass(base); ok {
			cls.Details.Bases = append(cls.Details.Bases, typesys.BaseClass{Class: bc})
			hasBase = true
		}
	}
	if !hasBase {
		cls.Details.Bases = append(cls.Details.Bases, typesys.BaseClass{Class: typesys.ObjectClass})
	}

	var selfName string
	for _, stmt := range cd.Body {
		switch s := stmt.(type) {
		case *ast.FunctionDef:
			sym := symbols.New(s.Name, symbols.ClassMember)
			sym.AddDeclaration(&symbols.Declaration{Kind: symbols.DeclFunction, Node: s, Range: s.Span(), IsMethod: true})
			cls.Details.ClassFields.Set(s.Name, sym)
			if s.Name == "__init__" && len(s.Params) > 0 {
				selfName = s.Params[0].Name
			}
		case *ast.ClassDef:
			sym := symbols.New(s.Name, symbols.ClassMember)
			sym.AddDeclaration(&symbols.Declaration{Kind: symbols.DeclClass, Node: s, Range: s.Span()})
			cls.Details.ClassFields.Set(s.Name, sym)
		case *ast.AssignStmt:
			for _, target := range s.Targets {
				if name, ok := target.(*ast.NameExpr); ok {
					sym := symbols.New(name.Name, symbols.ClassMember)
					sym.AddDeclaration(&symbols.Declaration{
						Kind: symbols.DeclVariable, Node: s, Range: s.Span(),
						Annotation: s.Annotation, InferredFrom: s.Value,
					})
					cls.Details.ClassFields.Set(name.Name, sym)
				}
			}
		}
	}

	if selfName != "" {
		for _, stmt := range cd.Body {
			fd, ok := stmt.(*ast.FunctionDef)
			if !ok {
				continue
			}
			collectSelfAssignments(fd.Body, selfName, cls.Details.InstanceFields)
		}
	}

	cls.Details.Abstract, cls.Details.AbstractMethods = abstractMembers(cls)

	return cls
}

// abstractMembers walks cls's MRO looking for @abstractmethod-decorated
// methods that no earlier entry overrides with a concrete definition
// (spec §3 "cannot instantiate abstract class"). The first MRO entry
// to define a given name wins, mirroring LookUpClassMember's own
// resolution order: a subclass overriding an abstract method with a
// concrete one clears it, a subclass merely inheriting it does not.
func abstractMembers(cls *typesys.Class) (bool, []string) {
	seen := map[string]bool{}
	var names []string
	for _, entry := range typeutils.LinearizeMRO(cls) {
		for _, name := range entry.Details.ClassFields.Names() {
			if seen[name] {
				continue
			}
			seen[name] = true
			sym, ok := entry.Details.ClassFields.Get(name)
			if !ok {
				continue
			}
			decl := sym.LastTypedDeclaration()
			if decl == nil {
				continue
			}
			fd, ok := decl.Node.(*ast.FunctionDef)
			if !ok || !hasAbstractDecorator(fd) {
				continue
			}
			names = append(names, name)
		}
	}
	return len(names) > 0, names
}

func hasAbstractDecorator(fd *ast.FunctionDef) bool {
	for _, dec := range fd.Decorators {
		if name, ok := dec.(*ast.NameExpr); ok && name.Name == "abstractmethod" {
			return true
		}
	}
	return false
}

func asClass(t typesys.Type) (*typesys.Class, bool) {
	switch x := t.(type) {
	case *typesys.Class:
		return x, true
	case *typesys.Object:
		return x.Class, true
	default:
		return nil, false
	}
}

// collectSelfAssignments walks body (recursing into every nested block
// kind) looking for `self.attr = value` assignments, registering an
// InstanceMember symbol for each distinct attr the first time it is
// seen.
func collectSelfAssignments(body []ast.Stmt, selfName string, table *symbols.SymbolTable) {
	for _, stmt := range body {
		switch s := stmt.(type) {
		case *ast.AssignStmt:
			for _, target := range s.Targets {
				m, ok := target.(*ast.MemberExpr)
				if !ok {
					continue
				}
				base, ok := m.Base.(*ast.NameExpr)
				if !ok || base.Name != selfName {
					continue
				}
				if _, exists := table.Get(m.Attr); exists {
					continue
				}
				sym := symbols.New(m.Attr, symbols.InstanceMember)
				sym.AddDeclaration(&symbols.Declaration{
					Kind: symbols.DeclVariable, Node: s, Range: s.Span(),
					Annotation: s.Annotation, InferredFrom: s.Value,
				})
				table.Set(m.Attr, sym)
			}
		case *ast.IfStmt:
			collectSelfAssignments(s.Body, selfName, table)
			collectSelfAssignments(s.Else, selfName, table)
		case *ast.ForStmt:
			collectSelfAssignments(s.Body, selfName, table)
			collectSelfAssignments(s.Else, selfName, table)
		case *ast.WhileStmt:
			collectSelfAssignments(s.Body, selfName, table)
			collectSelfAssignments(s.Else, selfName, table)
		case *ast.WithStmt:
			collectSelfAssignments(s.Body, selfName, table)
		case *ast.TryStmt:
			collectSelfAssignments(s.Body, selfName, table)
			for _, h := range s.Handlers {
				collectSelfAssignments(h.Body, selfName, table)
			}
			collectSelfAssignments(s.Else, selfName, table)
			collectSelfAssignments(s.Finally, selfName, table)
		}
	}
}
