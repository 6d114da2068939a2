package typesys

// MaxEqualityDepth bounds the recursion IsSame and MRO-walking code
// perform over possibly-cyclic class graphs (spec §4.A, design note
// §9). At the limit we report "compatible" rather than recursing
// forever — deep but finite MROs stay correct, pathological self-
// referential ones degrade gracefully instead of hanging.
const MaxEqualityDepth = 16

// IsSame is structural type equality, recursion-bounded to tolerate
// cyclic class graphs (e.g. a method returning Type['Self']).
func IsSame(a, b Type) bool {
	return isSameDepth(a, b, 0)
}

func isSameDepth(a, b Type, depth int) bool {
	if depth >= MaxEqualityDepth {
		return true
	}
	switch x := a.(type) {
	case *Unbound:
		_, ok := b.(*Unbound)
		return ok
	case *Unknown:
		_, ok := b.(*Unknown)
		return ok
	case *AnyType:
		y, ok := b.(*AnyType)
		return ok && x.IsEllipsis == y.IsEllipsis
	case *NoneType:
		_, ok := b.(*NoneType)
		return ok
	case *NeverType:
		_, ok := b.(*NeverType)
		return ok
	case *Class:
		y, ok := b.(*Class)
		return ok && sameGeneric(x, y) && sameTypeArgs(x.TypeArgs, y.TypeArgs, depth)
	case *Object:
		y, ok := b.(*Object)
		if !ok {
			return false
		}
		if !isSameDepth(x.Class, y.Class, depth+1) {
			return false
		}
		return x.Literal == y.Literal
	case *Function:
		y, ok := b.(*Function)
		if !ok {
			return false
		}
		return sameFunction(x, y, depth)
	case *OverloadedFunction:
		y, ok := b.(*OverloadedFunction)
		if !ok || len(x.Variants) != len(y.Variants) {
			return false
		}
		for i := range x.Variants {
			if !isSameDepth(x.Variants[i], y.Variants[i], depth+1) {
				return false
			}
		}
		return true
	case *Property:
		y, ok := b.(*Property)
		if !ok {
			return false
		}
		return sameOptionalFunc(x.Getter, y.Getter, depth) &&
			sameOptionalFunc(x.Setter, y.Setter, depth) &&
			sameOptionalFunc(x.Deleter, y.Deleter, depth)
	case *Module:
		y, ok := b.(*Module)
		return ok && x.Name == y.Name && x.Table == y.Table
	case *Union:
		y, ok := b.(*Union)
		if !ok || len(x.Members) != len(y.Members) {
			return false
		}
		for _, m := range x.Members {
			if !anySame(m, y.Members, depth) {
				return false
			}
		}
		return true
	case *TypeVar:
		y, ok := b.(*TypeVar)
		return ok && x.Name == y.Name
	}
	return false
}

func sameTypeArgs(a, b []Type, depth int) bool {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if !isSameDepth(argAt(a, i), argAt(b, i), depth+1) {
			return false
		}
	}
	return true
}

func argAt(args []Type, i int) Type {
	if i >= 0 && i < len(args) {
		return args[i]
	}
	return TheAny
}

func sameFunction(x, y *Function, depth int) bool {
	if len(x.Details.Params) != len(y.Details.Params) {
		return false
	}
	for i := range x.Details.Params {
		if x.Details.Params[i].Kind != y.Details.Params[i].Kind {
			return false
		}
		if !isSameDepth(x.ParamType(i), y.ParamType(i), depth+1) {
			return false
		}
	}
	return isSameDepth(x.ReturnType(), y.ReturnType(), depth+1)
}

func sameOptionalFunc(x, y *Function, depth int) bool {
	if x == nil || y == nil {
		return x == y
	}
	return sameFunction(x, y, depth)
}

func anySame(t Type, candidates []Type, depth int) bool {
	for _, c := range candidates {
		if isSameDepth(t, c, depth+1) {
			return true
		}
	}
	return false
}

// RequiresSpecialization reports whether t contains a free TypeVar
// anywhere in its structure (spec §4.A).
func RequiresSpecialization(t Type) bool {
	return requiresSpecDepth(t, 0)
}

func requiresSpecDepth(t Type, depth int) bool {
	if depth >= MaxEqualityDepth {
		return false
	}
	switch x := t.(type) {
	case *TypeVar:
		return true
	case *Class:
		for _, a := range x.TypeArgs {
			if requiresSpecDepth(a, depth+1) {
				return true
			}
		}
		return false
	case *Object:
		return requiresSpecDepth(x.Class, depth+1)
	case *Function:
		for i := range x.Details.Params {
			if requiresSpecDepth(x.ParamType(i), depth+1) {
				return true
			}
		}
		return requiresSpecDepth(x.ReturnType(), depth+1)
	case *Union:
		for _, m := range x.Members {
			if requiresSpecDepth(m, depth+1) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
