package typeutils

import (
	"fmt"

	"github.com/sunholo/gradualtype/internal/typesys"
)

// Diagnostic accumulates human-readable reasons an assignability check
// failed, for errors.Report's related-information slots. Reusing one
// Diagnostic across a recursive CanAssignType call tree, rather than
// returning an error value, accumulates every failure reason instead
// of short-circuiting on the first, the same way errors.Sink collects
// every diagnostic a checker pass emits.
type Diagnostic struct {
	Messages []string
}

func (d *Diagnostic) add(format string, args ...any) {
	if d == nil {
		return
	}
	d.Messages = append(d.Messages, fmt.Sprintf(format, args...))
}

// TypeVarMap accumulates TypeVar -> Type bindings discovered while
// matching a generic call or specialisation, keyed by TypeVar name.
type TypeVarMap map[string]typesys.Type

// CanAssignType reports whether a value of type src can be used
// wherever dest is expected — the directional, non-symmetric relation
// spec §4.C builds the rest of the checker on. diag may be nil.
func CanAssignType(dest, src typesys.Type, diag *Diagnostic) bool {
	return canAssign(dest, src, diag, nil, 0)
}

// CanAssignTypeWithBindings is CanAssignType but resolves TypeVars on
// the dest side against (and records new bindings into) bindings,
// supporting generic call-site argument matching (spec §4.D).
func CanAssignTypeWithBindings(dest, src typesys.Type, diag *Diagnostic, bindings TypeVarMap) bool {
	return canAssign(dest, src, diag, bindings, 0)
}

func canAssign(dest, src typesys.Type, diag *Diagnostic, bindings TypeVarMap, depth int) bool {
	if depth >= typesys.MaxEqualityDepth {
		return true
	}

	// Rule 1: Any/Unknown on either side is bidirectionally compatible
	// with everything — the gradual-typing escape hatch (spec §4.C).
	if isAnyOrUnknown(dest) || isAnyOrUnknown(src) {
		return true
	}

	// Rule 2 (dest union): src assignable iff assignable to some member;
	// a src union additionally requires every one of its members to
	// clear that bar.
	if du, ok := dest.(*typesys.Union); ok {
		if su, ok2 := src.(*typesys.Union); ok2 {
			for _, sm := range su.Members {
				if !canAssign(dest, sm, diag, bindings, depth+1) {
					return false
				}
			}
			return true
		}
		for _, dm := range du.Members {
			if canAssign(dm, src, nil, bindings, depth+1) {
				return true
			}
		}
		diag.add("%s is not assignable to %s", src, dest)
		return false
	}
	if su, ok := src.(*typesys.Union); ok {
		for _, sm := range su.Members {
			if !canAssign(dest, sm, diag, bindings, depth+1) {
				return false
			}
		}
		return true
	}

	// Rule 3: None is assignable only to None (a dest that should admit
	// None is already a Union containing NoneType, handled above).
	if _, ok := src.(*typesys.NoneType); ok {
		if _, ok2 := dest.(*typesys.NoneType); ok2 {
			return true
		}
		diag.add("None is not assignable to %s", dest)
		return false
	}

	// Rule 4: a free TypeVar on the dest side binds to src, honouring
	// its declared variance on rebinding.
	if tv, ok := dest.(*typesys.TypeVar); ok {
		return bindTypeVar(tv, src, bindings, diag, depth)
	}

	// Rule 5: Object vs Object — class derivation plus literal
	// compatibility (a non-literal dest accepts any literal of its
	// class; a literal dest requires an equal literal value).
	if do, ok := dest.(*typesys.Object); ok {
		if so, ok2 := src.(*typesys.Object); ok2 {
			if !canAssignClass(do.Class, so.Class, bindings, diag, depth) {
				return false
			}
			if do.HasLiteral() && (!so.HasLiteral() || do.Literal != so.Literal) {
				diag.add("%s is not assignable to %s", src, dest)
				return false
			}
			return true
		}
		diag.add("%s is not assignable to %s", src, dest)
		return false
	}

	// Rule 6: Class vs Class — dest is a class object (e.g. `type[X]`
	// surfaced as a bare Class), src's class must derive from it.
	if dc, ok := dest.(*typesys.Class); ok {
		if sc, ok2 := src.(*typesys.Class); ok2 {
			if canAssignClass(dc, sc, bindings, diag, depth) {
				return true
			}
		}
		diag.add("%s is not assignable to %s", src, dest)
		return false
	}

	// Rule 7: Function vs Function — overriding-compatible signatures:
	// parameters contravariant, return covariant.
	if df, ok := dest.(*typesys.Function); ok {
		if sf, ok2 := src.(*typesys.Function); ok2 {
			return CanOverrideSignature(df, sf, diag)
		}
		diag.add("%s is not assignable to %s", src, dest)
		return false
	}

	diag.add("%s is not assignable to %s", src, dest)
	return false
}

func isAnyOrUnknown(t typesys.Type) bool {
	switch t.(type) {
	case *typesys.AnyType, *typesys.Unknown:
		return true
	default:
		return false
	}
}

func bindTypeVar(tv *typesys.TypeVar, src typesys.Type, bindings TypeVarMap, diag *Diagnostic, depth int) bool {
	if bindings == nil {
		return true
	}
	existing, bound := bindings[tv.Name]
	if !bound {
		bindings[tv.Name] = src
		return true
	}
	switch tv.Variance {
	case typesys.Covariant:
		bindings[tv.Name] = typesys.UnionOf(existing, src)
		return true
	case typesys.Contravariant:
		if canAssign(src, existing, nil, bindings, depth+1) {
			bindings[tv.Name] = src
		}
		return true
	default: // Invariant
		if !typesys.IsSame(existing, src) {
			diag.add("inconsistent binding for %s: %s vs %s", tv.Name, existing, src)
			return false
		}
		return true
	}
}

// canAssignClass walks srcClass's MRO for an entry that is the same
// generic as destClass, then matches type arguments position-by-
// position according to each type parameter's declared variance.
func canAssignClass(destClass, srcClass *typesys.Class, bindings TypeVarMap, diag *Diagnostic, depth int) bool {
	for i, entry := range LinearizeMRO(srcClass) {
		// The MRO is cached on the Details every specialisation shares,
		// so its first entry may carry another specialisation's type
		// arguments; srcClass itself holds the ones being checked.
		if i == 0 {
			entry = srcClass
		}
		if !sameMROEntry(entry, destClass) {
			continue
		}
		params := destClass.Details.TypeParams
		for i := range params {
			dt := destClass.TypeArgAt(i)
			st := entry.TypeArgAt(i)
			switch params[i].Variance {
			case typesys.Invariant:
				if !typesys.IsSame(dt, st) {
					diag.add("type argument %d mismatch: %s vs %s", i, dt, st)
					return false
				}
			case typesys.Covariant:
				if !canAssign(dt, st, diag, bindings, depth+1) {
					return false
				}
			case typesys.Contravariant:
				if !canAssign(st, dt, diag, bindings, depth+1) {
					return false
				}
			}
		}
		return true
	}
	diag.add("%s is not derived from %s", srcClass, destClass)
	return false
}

// CanOverrideSignature reports whether src (e.g. a subclass method) may
// stand in wherever dest (e.g. the base method) is expected: the
// classic function-subtyping rule, parameters contravariant and return
// covariant. Self/cls parameters are expected to already be stripped by
// the caller (typesys.Function.Unbind).
func CanOverrideSignature(dest, src *typesys.Function, diag *Diagnostic) bool {
	destParams := dest.Details.Params
	srcParams := src.Details.Params

	srcAbsorbsExtra := hasVarPositional(srcParams) || hasVarKeyword(srcParams)
	if len(destParams) > len(srcParams) && !srcAbsorbsExtra {
		diag.add("parameter count mismatch: base has %d, override has %d", len(destParams), len(srcParams))
		return false
	}

	n := len(destParams)
	if len(srcParams) < n {
		n = len(srcParams)
	}
	for i := 0; i < n; i++ {
		if destParams[i].Kind != typesys.ParamSimple {
			continue
		}
		// Contravariant: the override's parameter type must accept at
		// least what the base's parameter type accepts.
		if !canAssign(src.ParamType(i), dest.ParamType(i), diag, nil, 1) {
			return false
		}
	}
	// Covariant: the override's return type must be usable wherever the
	// base's return type is expected.
	return canAssign(dest.ReturnType(), src.ReturnType(), diag, nil, 1)
}

func hasVarPositional(params []typesys.FuncParam) bool {
	for _, p := range params {
		if p.Kind == typesys.ParamVarPositional {
			return true
		}
	}
	return false
}

func hasVarKeyword(params []typesys.FuncParam) bool {
	for _, p := range params {
		if p.Kind == typesys.ParamVarKeyword {
			return true
		}
	}
	return false
}
