package typeutils

import (
	"testing"

	"github.com/sunholo/gradualtype/internal/symbols"
	"github.com/sunholo/gradualtype/internal/typesys"
)

func newLeaf(name string, bases ...*typesys.Class) *typesys.Class {
	c := typesys.NewClass(name, 0)
	for _, b := range bases {
		c.Details.Bases = append(c.Details.Bases, typesys.BaseClass{Class: b})
	}
	return c
}

func TestLinearizeMROLinearOrderAndCaching(t *testing.T) {
	a := newLeaf("A", typesys.ObjectClass)
	b := newLeaf("B", a)

	mro := LinearizeMRO(b)
	names := make([]string, len(mro))
	for i, c := range mro {
		names[i] = c.Details.Name
	}
	want := []string{"B", "A", "object"}
	if len(names) != len(want) {
		t.Fatalf("mro = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("mro = %v, want %v", names, want)
		}
	}

	cached, ok := b.MRO()
	if !ok || len(cached) != len(mro) {
		t.Fatal("expected LinearizeMRO to cache onto Details")
	}
}

func TestLinearizeMRODiamond(t *testing.T) {
	// Classic diamond: D(B, C), B(A), C(A).
	a := newLeaf("A", typesys.ObjectClass)
	b := newLeaf("B", a)
	c := newLeaf("C", a)
	d := newLeaf("D", b, c)

	mro := LinearizeMRO(d)
	names := make([]string, len(mro))
	for i, cls := range mro {
		names[i] = cls.Details.Name
	}
	want := []string{"D", "B", "C", "A", "object"}
	if len(names) != len(want) {
		t.Fatalf("diamond mro = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("diamond mro = %v, want %v", names, want)
		}
	}
}

func TestLookUpClassMemberWalksMRO(t *testing.T) {
	a := newLeaf("A", typesys.ObjectClass)
	sym := symbols.New("value", 0)
	a.Details.ClassFields.Set("value", sym)

	b := newLeaf("B", a)

	found, owner, ok := LookUpClassMember(b, "value", LookupFlags{})
	if !ok {
		t.Fatal("expected to find inherited member")
	}
	if found != sym {
		t.Fatal("expected the exact symbol stored on A")
	}
	if owner != a {
		t.Fatal("expected owner to be A, where the member is declared")
	}

	if _, _, ok := LookUpClassMember(b, "value", LookupFlags{SkipOriginalClass: true}); !ok {
		t.Fatal("SkipOriginalClass should still find a member declared on an ancestor")
	}
	if _, _, ok := LookUpClassMember(a, "value", LookupFlags{SkipOriginalClass: true}); ok {
		t.Fatal("SkipOriginalClass should skip the class itself when the member lives there")
	}
}

func TestIsDerivedFrom(t *testing.T) {
	a := newLeaf("A", typesys.ObjectClass)
	b := newLeaf("B", a)

	if !IsDerivedFrom(b, a) {
		t.Fatal("expected B derived from A")
	}
	if IsDerivedFrom(a, b) {
		t.Fatal("did not expect A derived from B")
	}
	if !IsDerivedFrom(b, typesys.ObjectClass) {
		t.Fatal("expected every class derived from object")
	}
}
