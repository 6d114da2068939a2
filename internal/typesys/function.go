package typesys

import (
	"strings"

	"github.com/sunholo/gradualtype/internal/ast"
)

// FunctionFlags are the per-function bits spec §3 lists under Function.
type FunctionFlags uint16

const (
	FuncInstanceMethod FunctionFlags = 1 << iota
	FuncClassMethod
	FuncStaticMethod
	FuncConstructor
	FuncAbstract
	FuncSynthesized
	FuncDisableDefaultChecks
)

func (f FunctionFlags) Has(bit FunctionFlags) bool { return f&bit != 0 }

// ParamKind classifies a Function's declared parameter.
type ParamKind int

const (
	ParamSimple ParamKind = iota
	ParamVarPositional
	ParamVarKeyword
)

// FuncParam is one entry in a Function's parameter list (spec §3).
type FuncParam struct {
	Name       string
	Kind       ParamKind
	HasDefault bool
	Type       Type
}

// FuncDetails is the shared handle a Function and every specialisation
// of it alias, mirroring Class/Details.
type FuncDetails struct {
	Name    string
	Flags   FunctionFlags
	Params  []FuncParam

	Declared       Type // explicit return annotation, nil if absent
	InferredReturn Type // accumulated from `return` statements
	InferredYield  Type // accumulated from `yield` statements

	BuiltinName string
	Node        *ast.FunctionDef // declaring node, nil for synthesised functions
}

// Function is a callable type, optionally carrying a specialisation
// overlay (per-parameter substituted types plus a substituted return).
type Function struct {
	Details *FuncDetails

	// SpecializedParams/SpecializedReturn are the overlay from
	// specialize_type; nil when this Function is unspecialised.
	SpecializedParams []Type
	SpecializedReturn Type
}

func (*Function) isType() {}

func (f *Function) String() string {
	parts := make([]string, len(f.Details.Params))
	for i, p := range f.Details.Params {
		t := f.ParamType(i)
		prefix := ""
		switch p.Kind {
		case ParamVarPositional:
			prefix = "*"
		case ParamVarKeyword:
			prefix = "**"
		}
		parts[i] = prefix + p.Name + ": " + t.String()
	}
	return "(" + strings.Join(parts, ", ") + ") -> " + f.ReturnType().String()
}

// ParamType returns the effective (possibly specialised) type of the
// i'th parameter.
func (f *Function) ParamType(i int) Type {
	if f.SpecializedParams != nil {
		return f.SpecializedParams[i]
	}
	return f.Details.Params[i].Type
}

// ReturnType returns the effective return type: the specialisation
// overlay if present, else the declared annotation, else the
// inferred-return accumulator.
func (f *Function) ReturnType() Type {
	if f.SpecializedReturn != nil {
		return f.SpecializedReturn
	}
	if f.Details.Declared != nil {
		return f.Details.Declared
	}
	if f.Details.InferredReturn != nil {
		return f.Details.InferredReturn
	}
	return TheNone
}

// WithSpecialization returns a clone sharing Details but carrying a
// new overlay. len(paramTypes) must equal len(Details.Params), per the
// Function specialisation-overlay invariant in spec §3.
func (f *Function) WithSpecialization(paramTypes []Type, ret Type) *Function {
	cp := make([]Type, len(paramTypes))
	copy(cp, paramTypes)
	return &Function{Details: f.Details, SpecializedParams: cp, SpecializedReturn: ret}
}

// Unbind returns a copy of f with its first parameter dropped — the
// descriptor/method-binding primitive design note §9 calls for,
// `bind_function_to_class_or_object`.
func (f *Function) Unbind() *Function {
	if len(f.Details.Params) == 0 {
		return f
	}
	details := *f.Details
	details.Params = f.Details.Params[1:]
	clone := &Function{Details: &details}
	if f.SpecializedParams != nil {
		clone.SpecializedParams = f.SpecializedParams[1:]
	}
	clone.SpecializedReturn = f.SpecializedReturn
	return clone
}

// OverloadedFunction is an ordered set of Function variants sharing a
// name, used only for declared overload sets (spec §3).
type OverloadedFunction struct {
	Name     string
	Variants []*Function
}

func (*OverloadedFunction) isType() {}

func (o *OverloadedFunction) String() string {
	parts := make([]string, len(o.Variants))
	for i, v := range o.Variants {
		parts[i] = v.String()
	}
	return "Overload[" + strings.Join(parts, " | ") + "]"
}

// Property is a descriptor built from `@property`/`.setter`/`.deleter`.
type Property struct {
	Getter  *Function
	Setter  *Function
	Deleter *Function
}

func (*Property) isType() {}

func (p *Property) String() string {
	return "property[" + p.Getter.ReturnType().String() + "]"
}
