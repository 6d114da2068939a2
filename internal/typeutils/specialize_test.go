package typeutils

import (
	"testing"

	"github.com/sunholo/gradualtype/internal/typesys"
)

func TestSpecializeTypeBindsTypeVar(t *testing.T) {
	tv := &typesys.TypeVar{Name: "T"}
	bindings := TypeVarMap{"T": typesys.Instance(typesys.IntClass)}
	got := SpecializeType(tv, bindings)
	if !typesys.IsSame(got, typesys.Instance(typesys.IntClass)) {
		t.Fatalf("expected T bound to int, got %s", got)
	}
}

func TestSpecializeTypeFallsBackToDefaultSubstitution(t *testing.T) {
	tv := &typesys.TypeVar{Name: "T", Bound: typesys.Instance(typesys.StrClass)}
	got := SpecializeType(tv, nil)
	if !typesys.IsSame(got, typesys.Instance(typesys.StrClass)) {
		t.Fatalf("expected unbound T with a Bound to substitute its bound, got %s", got)
	}

	unbounded := &typesys.TypeVar{Name: "U"}
	got2 := SpecializeType(unbounded, nil)
	if !typesys.IsSame(got2, typesys.TheAny) {
		t.Fatalf("expected a bare free TypeVar to default to Any, got %s", got2)
	}
}

func TestSpecializeTypeRecursesIntoGenericClass(t *testing.T) {
	tv := &typesys.TypeVar{Name: "T"}
	listOfT := typesys.ListClass.Specialize([]typesys.Type{tv})
	bindings := TypeVarMap{"T": typesys.Instance(typesys.IntClass)}

	got := SpecializeType(listOfT, bindings)
	cls, ok := got.(*typesys.Class)
	if !ok {
		t.Fatalf("expected *Class, got %T", got)
	}
	if !typesys.IsSame(cls.TypeArgAt(0), typesys.Instance(typesys.IntClass)) {
		t.Fatalf("expected List[T] specialized to List[int], got %s", got)
	}
}

func TestMatchArgToParamRecordsBinding(t *testing.T) {
	tv := &typesys.TypeVar{Name: "T"}
	bindings := TypeVarMap{}
	if !MatchArgToParam(tv, typesys.Instance(typesys.IntClass), bindings, nil) {
		t.Fatal("expected a free TypeVar parameter to accept any argument")
	}
	if !typesys.IsSame(bindings["T"], typesys.Instance(typesys.IntClass)) {
		t.Fatalf("expected MatchArgToParam to record T = int, got %v", bindings["T"])
	}
}
