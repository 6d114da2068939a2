package typesys

// Variance classifies how a TypeVar behaves under specialisation and
// assignability (spec §3, §4.C rule 5).
type Variance int

const (
	Invariant Variance = iota
	Covariant
	Contravariant
)

// TypeVar is a generic type parameter: a name, an optional bound, an
// optional constraint list, and a variance.
type TypeVar struct {
	Name        string
	Constraints []Type
	Bound       Type
	Variance    Variance
}

func (*TypeVar) isType() {}

func (t *TypeVar) String() string { return t.Name }

// DefaultSubstitution is what specialize_type substitutes when a
// TypeVar is free and the caller supplied no explicit binding: the
// bound, else the first constraint, else Any (spec §4.C).
func (t *TypeVar) DefaultSubstitution() Type {
	if t.Bound != nil {
		return t.Bound
	}
	if len(t.Constraints) > 0 {
		return t.Constraints[0]
	}
	return TheAny
}
