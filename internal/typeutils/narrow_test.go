package typeutils

import (
	"testing"

	"github.com/sunholo/gradualtype/internal/typesys"
)

func TestRemoveNoneFromUnion(t *testing.T) {
	optional := typesys.UnionOf(typesys.Instance(typesys.IntClass), typesys.TheNone)
	got := RemoveNoneFromUnion(optional)
	if !typesys.IsSame(got, typesys.Instance(typesys.IntClass)) {
		t.Fatalf("expected RemoveNoneFromUnion(int | None) = int, got %s", got)
	}
}

func TestRemoveTruthyFromUnionKeepsOnlyFalsy(t *testing.T) {
	u := typesys.UnionOf(typesys.BoolLiteral(true), typesys.BoolLiteral(false), typesys.TheNone)
	got := RemoveTruthyFromUnion(u)
	union, ok := got.(*typesys.Union)
	if !ok {
		t.Fatalf("expected a union to survive, got %T (%s)", got, got)
	}
	for _, m := range union.Members {
		if typesys.IsSame(m, typesys.BoolLiteral(true)) {
			t.Fatal("True should have been removed by RemoveTruthyFromUnion")
		}
	}
}

func TestRemoveFalsyFromUnionKeepsOnlyTruthy(t *testing.T) {
	u := typesys.UnionOf(typesys.BoolLiteral(true), typesys.BoolLiteral(false), typesys.TheNone)
	got := RemoveFalsyFromUnion(u)
	// Only Literal[True] survives, and UnionOf collapses a single
	// survivor to the bare member.
	if _, ok := got.(*typesys.Union); ok {
		t.Fatalf("expected the lone survivor to collapse out of the union, got %s", got)
	}
	if !typesys.IsSame(got, typesys.BoolLiteral(true)) {
		t.Fatal("False and None should have been removed by RemoveFalsyFromUnion, leaving Literal[True]")
	}
}

func TestStripLiteralValue(t *testing.T) {
	got := StripLiteralValue(typesys.IntLiteral(1))
	if !typesys.IsSame(got, typesys.Instance(typesys.IntClass)) {
		t.Fatalf("expected Literal[1] stripped to int, got %s", got)
	}
}

func TestConvertClassToObjectAndBack(t *testing.T) {
	asObject := ConvertClassToObject(typesys.IntClass)
	obj, ok := asObject.(*typesys.Object)
	if !ok {
		t.Fatalf("expected *Object, got %T", asObject)
	}
	if obj.Class != typesys.IntClass {
		t.Fatal("expected ConvertClassToObject to wrap the same class")
	}

	wrapped := typesys.Instance(typesys.TypeAliasClass.Specialize([]typesys.Type{typesys.Instance(typesys.IntClass)}))
	back := TransformTypeObjectToClass(wrapped)
	if !typesys.IsSame(back, typesys.Instance(typesys.IntClass)) {
		t.Fatalf("expected TransformTypeObjectToClass(Type[int]) = int instance, got %s", back)
	}
}

func TestNarrowForIsInstanceNarrowsUnion(t *testing.T) {
	u := typesys.UnionOf(typesys.Instance(typesys.IntClass), typesys.Instance(typesys.StrClass))
	got := NarrowForIsInstance(u, typesys.IntClass)
	if !typesys.IsSame(got, typesys.Instance(typesys.IntClass)) {
		t.Fatalf("expected isinstance(x, int) to narrow int | str to int, got %s", got)
	}
}

func TestNarrowForIsInstanceOnAnyReturnsInstance(t *testing.T) {
	got := NarrowForIsInstance(typesys.TheAny, typesys.StrClass)
	if !typesys.IsSame(got, typesys.Instance(typesys.StrClass)) {
		t.Fatalf("expected isinstance narrowing of Any to yield str, got %s", got)
	}
}
