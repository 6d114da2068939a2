// Package typeutils is the Type Utilities component (spec §4.C): the
// semantics the rest of the checker depends on — assignability,
// specialisation substitution, MRO-based member lookup, iterable
// resolution, and the narrowing primitives.
package typeutils

import "github.com/sunholo/gradualtype/internal/typesys"

// DoForSubtypes maps f over a Union's members and rebuilds the union,
// or applies f directly to a non-union type (spec §4.C). f may return
// nil to drop a member from the result entirely.
func DoForSubtypes(t typesys.Type, f func(typesys.Type) typesys.Type) typesys.Type {
	if u, ok := t.(*typesys.Union); ok {
		mapped := make([]typesys.Type, 0, len(u.Members))
		for _, m := range u.Members {
			if r := f(m); r != nil {
				mapped = append(mapped, r)
			}
		}
		return typesys.UnionOf(mapped...)
	}
	return f(t)
}

// CombineTypes produces the smallest type equivalent to the union of
// ts: flattened, Never-dropped, duplicate-free, collapsed to a bare
// member when only one survives, Never when ts is empty (spec §4.C).
func CombineTypes(ts []typesys.Type) typesys.Type {
	return typesys.UnionOf(ts...)
}
