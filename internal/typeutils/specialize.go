package typeutils

import "github.com/sunholo/gradualtype/internal/typesys"

// SpecializeType substitutes every TypeVar reachable inside t using
// bindings, falling back to each TypeVar's own DefaultSubstitution when
// bindings has no entry for it (spec §4.C). t is left unmodified;
// SpecializeType returns a new type wherever a substitution applies.
func SpecializeType(t typesys.Type, bindings TypeVarMap) typesys.Type {
	return specializeDepth(t, bindings, 0)
}

func specializeDepth(t typesys.Type, bindings TypeVarMap, depth int) typesys.Type {
	if depth >= typesys.MaxEqualityDepth {
		return t
	}
	switch x := t.(type) {
	case *typesys.TypeVar:
		if bindings != nil {
			if bound, ok := bindings[x.Name]; ok {
				return bound
			}
		}
		return x.DefaultSubstitution()
	case *typesys.Class:
		if len(x.TypeArgs) == 0 {
			return x
		}
		args := make([]typesys.Type, len(x.TypeArgs))
		changed := false
		for i, a := range x.TypeArgs {
			args[i] = specializeDepth(a, bindings, depth+1)
			if args[i] != a {
				changed = true
			}
		}
		if !changed {
			return x
		}
		return &typesys.Class{Details: x.Details, TypeArgs: args}
	case *typesys.Object:
		specClass := specializeDepth(x.Class, bindings, depth+1)
		if sc, ok := specClass.(*typesys.Class); ok && sc != x.Class {
			return &typesys.Object{Class: sc, Literal: x.Literal}
		}
		return x
	case *typesys.Function:
		params := make([]typesys.Type, len(x.Details.Params))
		for i := range x.Details.Params {
			params[i] = specializeDepth(x.ParamType(i), bindings, depth+1)
		}
		ret := specializeDepth(x.ReturnType(), bindings, depth+1)
		return x.WithSpecialization(params, ret)
	case *typesys.Union:
		members := make([]typesys.Type, len(x.Members))
		for i, m := range x.Members {
			members[i] = specializeDepth(m, bindings, depth+1)
		}
		return typesys.UnionOf(members...)
	default:
		return t
	}
}

// MatchArgToParam resolves a generic parameter's declared type against
// an argument's actual type: when the parameter type contains a free
// TypeVar, CanAssignTypeWithBindings both checks assignability and
// records the binding bindings will use for SpecializeType on the
// function's return type (spec §4.D constructor/call matching).
func MatchArgToParam(paramType, argType typesys.Type, bindings TypeVarMap, diag *Diagnostic) bool {
	return CanAssignTypeWithBindings(paramType, argType, diag, bindings)
}
