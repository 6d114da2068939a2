package typesys

import (
	"sort"
	"strings"
)

// Union is an unordered, deduplicated set of at least two variants,
// none of which is itself a Union or Never (spec §3 invariant).
type Union struct {
	Members []Type
}

func (*Union) isType() {}

func (u *Union) String() string {
	parts := make([]string, len(u.Members))
	for i, m := range u.Members {
		parts[i] = m.String()
	}
	return strings.Join(parts, " | ")
}

// Fingerprint is a stable, order-independent identifier for t's
// member set, used only by golden tests to compare a Union (or any
// other Type) across runs without depending on UnionOf's internal sort
// key remaining String()-based. It never affects IsSame and is not
// part of the checked semantics.
func Fingerprint(t Type) string {
	u, ok := t.(*Union)
	if !ok {
		return t.String()
	}
	parts := make([]string, len(u.Members))
	for i, m := range u.Members {
		parts[i] = Fingerprint(m)
	}
	sort.Strings(parts)
	return strings.Join(parts, "|")
}

// UnionOf is the single invariant-preserving Union constructor: it
// flattens nested unions, drops Never, deduplicates by IsSame, and
// collapses to the bare member when only one survives. Every other
// constructor of a multi-variant type (combine_types in typeutils,
// Optional[T], narrowing) must route through this rather than
// building a *Union literal directly.
func UnionOf(members ...Type) Type {
	flat := make([]Type, 0, len(members))
	var flatten func(t Type)
	flatten = func(t Type) {
		if t == nil {
			return
		}
		if u, ok := t.(*Union); ok {
			for _, m := range u.Members {
				flatten(m)
			}
			return
		}
		if _, ok := t.(*NeverType); ok {
			return
		}
		flat = append(flat, t)
	}
	for _, m := range members {
		flatten(m)
	}

	deduped := make([]Type, 0, len(flat))
	for _, t := range flat {
		dup := false
		for _, existing := range deduped {
			if IsSame(existing, t) {
				dup = true
				break
			}
		}
		if !dup {
			deduped = append(deduped, t)
		}
	}

	switch len(deduped) {
	case 0:
		return TheNever
	case 1:
		return deduped[0]
	default:
		sort.Slice(deduped, func(i, j int) bool { return deduped[i].String() < deduped[j].String() })
		return &Union{Members: deduped}
	}
}
