package typeutils

import (
	"github.com/sunholo/gradualtype/internal/symbols"
	"github.com/sunholo/gradualtype/internal/typesys"
)

// LinearizeMRO returns c's method-resolution order (c first, then every
// ancestor exactly once) computed with the C3 linearisation algorithm,
// and caches it on c's shared Details so every specialisation of the
// same generic class reuses the computation (spec §4.C).
func LinearizeMRO(c *typesys.Class) []*typesys.Class {
	if mro, ok := c.MRO(); ok {
		return mro
	}
	mro := computeMRO(c, map[*typesys.Details]bool{}, 0)
	c.SetMRO(mro)
	return mro
}

func computeMRO(c *typesys.Class, visiting map[*typesys.Details]bool, depth int) []*typesys.Class {
	if depth >= typesys.MaxEqualityDepth || visiting[c.Details] {
		return []*typesys.Class{c}
	}
	visiting[c.Details] = true
	defer delete(visiting, c.Details)

	bases := c.Details.Bases
	if len(bases) == 0 {
		return []*typesys.Class{c}
	}

	lists := make([][]*typesys.Class, 0, len(bases)+1)
	declared := make([]*typesys.Class, 0, len(bases))
	for _, b := range bases {
		lists = append(lists, computeMRO(b.Class, visiting, depth+1))
		declared = append(declared, b.Class)
	}
	lists = append(lists, declared)

	return append([]*typesys.Class{c}, c3Merge(lists)...)
}

// c3Merge implements Python's C3 merge: repeatedly pick the first head
// that appears in no other list's tail, append it, and strip it from
// every list. An inconsistent hierarchy (no valid head) falls back to
// the first list's head rather than failing, so linearisation always
// terminates with *some* total order.
func c3Merge(lists [][]*typesys.Class) []*typesys.Class {
	work := make([][]*typesys.Class, 0, len(lists))
	for _, l := range lists {
		if len(l) > 0 {
			cp := make([]*typesys.Class, len(l))
			copy(cp, l)
			work = append(work, cp)
		}
	}

	var result []*typesys.Class
	for len(work) > 0 {
		var head *typesys.Class
		for _, l := range work {
			candidate := l[0]
			if !inAnyTail(candidate, work) {
				head = candidate
				break
			}
		}
		if head == nil {
			head = work[0][0]
		}
		result = append(result, head)
		work = stripHeadEverywhere(work, head)
	}
	return result
}

func inAnyTail(c *typesys.Class, lists [][]*typesys.Class) bool {
	for _, l := range lists {
		for _, entry := range l[1:] {
			if sameMROEntry(entry, c) {
				return true
			}
		}
	}
	return false
}

func stripHeadEverywhere(lists [][]*typesys.Class, head *typesys.Class) [][]*typesys.Class {
	out := make([][]*typesys.Class, 0, len(lists))
	for _, l := range lists {
		var filtered []*typesys.Class
		for _, entry := range l {
			if !sameMROEntry(entry, head) {
				filtered = append(filtered, entry)
			}
		}
		if len(filtered) > 0 {
			out = append(out, filtered)
		}
	}
	return out
}

func sameMROEntry(a, b *typesys.Class) bool { return a.Details == b.Details }

// LookupFlags narrows a LookUpClassMember walk (spec §4.C).
type LookupFlags struct {
	SkipOriginalClass     bool // start the MRO walk at c's first base
	SkipInstanceVariables bool // consider only class-level fields
	SkipObjectBase        bool // never match inside the root object class
}

// LookUpClassMember walks c's MRO looking for name, returning the
// symbol and the class in which it was found — needed by descriptor
// binding and override checks, which care which MRO entry supplied the
// member (spec §4.C).
func LookUpClassMember(c *typesys.Class, name string, flags LookupFlags) (*symbols.Symbol, *typesys.Class, bool) {
	mro := LinearizeMRO(c)
	for i, entry := range mro {
		if i == 0 && flags.SkipOriginalClass {
			continue
		}
		if flags.SkipObjectBase && sameMROEntry(entry, typesys.ObjectClass) {
			continue
		}
		if sym, ok := entry.Details.ClassFields.Get(name); ok {
			return sym, entry, true
		}
		if !flags.SkipInstanceVariables {
			if sym, ok := entry.Details.InstanceFields.Get(name); ok {
				return sym, entry, true
			}
		}
	}
	return nil, nil, false
}

// IsDerivedFrom reports whether src's MRO contains dest (ignoring type
// arguments — a purely structural ancestry check used by Class-vs-Class
// assignability, spec §4.C rule 6).
func IsDerivedFrom(src, dest *typesys.Class) bool {
	for _, entry := range LinearizeMRO(src) {
		if sameMROEntry(entry, dest) {
			return true
		}
	}
	return false
}
