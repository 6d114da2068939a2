package typeutils

import (
	"github.com/sunholo/gradualtype/internal/symbols"
	"github.com/sunholo/gradualtype/internal/typesys"
)

// MemberTypeResolver resolves a symbol found by LookUpClassMember to
// its type as a bound member of owner. The evaluator owns this logic
// (it needs to run the full EvaluateTypesForExpr machinery over a
// declaration's annotation or inferred form); typeutils depends only on
// the function shape, not the evaluator package, keeping the
// ast -> symbols -> typesys -> typeutils -> evaluator layering acyclic.
type MemberTypeResolver func(owner *typesys.Class, sym *symbols.Symbol) typesys.Type

// GetTypeFromIterable extracts the element type of an iterable t: for a
// Union, maps over members and recombines; for an Object, looks up
// __iter__/__aiter__ (falling back to __getitem__ when supportGetItem)
// and follows its return type's __next__/__anext__; Any/Unknown pass
// through unchanged (spec §4.C).
func GetTypeFromIterable(t typesys.Type, isAsync, supportGetItem bool, resolve MemberTypeResolver) (typesys.Type, bool) {
	switch x := t.(type) {
	case *typesys.Union:
		results := make([]typesys.Type, 0, len(x.Members))
		for _, m := range x.Members {
			if elem, ok := GetTypeFromIterable(m, isAsync, supportGetItem, resolve); ok {
				results = append(results, elem)
			} else {
				results = append(results, typesys.TheUnknown)
			}
		}
		return typesys.UnionOf(results...), true
	case *typesys.AnyType:
		return t, true
	case *typesys.Unknown:
		return t, true
	case *typesys.Object:
		iterName, nextName := "__iter__", "__next__"
		if isAsync {
			iterName, nextName = "__aiter__", "__anext__"
		}
		if elem, ok := elementViaProtocol(x.Class, iterName, nextName, resolve); ok {
			return elem, true
		}
		if supportGetItem {
			if sym, owner, ok := LookUpClassMember(x.Class, "__getitem__", LookupFlags{SkipObjectBase: true}); ok {
				if fn, ok2 := resolve(owner, sym).(*typesys.Function); ok2 {
					return fn.ReturnType(), true
				}
			}
		}
		return typesys.TheUnknown, false
	default:
		return typesys.TheUnknown, false
	}
}

func elementViaProtocol(class *typesys.Class, iterName, nextName string, resolve MemberTypeResolver) (typesys.Type, bool) {
	sym, owner, ok := LookUpClassMember(class, iterName, LookupFlags{SkipObjectBase: true})
	if !ok {
		return nil, false
	}
	iterFn, ok := resolve(owner, sym).(*typesys.Function)
	if !ok {
		return nil, false
	}
	iterObj, ok := iterFn.ReturnType().(*typesys.Object)
	if !ok {
		return nil, false
	}
	nsym, nowner, ok := LookUpClassMember(iterObj.Class, nextName, LookupFlags{SkipObjectBase: true})
	if !ok {
		return nil, false
	}
	nextFn, ok := resolve(nowner, nsym).(*typesys.Function)
	if !ok {
		return nil, false
	}
	return nextFn.ReturnType(), true
}
