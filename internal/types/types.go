// Package types defines the static type representation shared by the
// checker's resolver, unifier, and hydrator: preludes, Unit, inference
// variables, generic parameters, and the three nominal kinds (struct,
// enum, function), each indexed by a stable arena.ID.
package types

import (
	"fmt"
	"strings"

	"github.com/oil-lang/oil/internal/arena"
)

// PreludeKind enumerates the four built-in scalar types.
type PreludeKind int

const (
	Int PreludeKind = iota
	Float
	Bool
	String
)

func (k PreludeKind) String() string {
	switch k {
	case Int:
		return "Int"
	case Float:
		return "Float"
	case Bool:
		return "Bool"
	case String:
		return "String"
	default:
		return "?prelude"
	}
}

// Type is implemented by every member of the static type grammar.
type Type interface {
	isType()
	String() string
}

// Prelude is one of Int, Float, Bool, String.
type Prelude struct{ Kind PreludeKind }

// UnitType is the only value of a one-element type; equivalent to "no
// interesting result". Named UnitType (not Unit) so it does not collide
// with the runtime's Unit namespace object in package value.
type UnitType struct{}

// Var is an inference variable, an integer id minted by the hydrator.
type Var struct{ ID int }

// Generic is an unsubstituted generic parameter name, in scope within a
// struct, enum, or function declaration.
type Generic struct{ Name string }

// Struct is a nominal record type. Args line up positionally with the
// arena entry's generic parameter names.
type Struct struct {
	ID   arena.ID
	Args []Type
}

// Enum is a nominal sum type.
type Enum struct {
	ID   arena.ID
	Args []Type
}

// Function is a nominal function type.
type Function struct {
	ID   arena.ID
	Args []Type
}

// Dyn opts out of static checking: it equals any non-Unit type.
type Dyn struct{}

func (Prelude) isType()  {}
func (UnitType) isType() {}
func (Var) isType()      {}
func (Generic) isType()  {}
func (Struct) isType()   {}
func (Enum) isType()     {}
func (Function) isType() {}
func (Dyn) isType()      {}

func (t Prelude) String() string { return t.Kind.String() }
func (UnitType) String() string  { return "Unit" }
func (t Var) String() string     { return fmt.Sprintf("?%d", t.ID) }
func (t Generic) String() string { return t.Name }
func (Dyn) String() string       { return "Dyn" }

func (t Struct) String() string   { return nominalString("Struct", int(t.ID), t.Args) }
func (t Enum) String() string     { return nominalString("Enum", int(t.ID), t.Args) }
func (t Function) String() string { return nominalString("Function", int(t.ID), t.Args) }

func nominalString(kind string, id int, args []Type) string {
	if len(args) == 0 {
		return fmt.Sprintf("%s#%d", kind, id)
	}
	strs := make([]string, len(args))
	for i, a := range args {
		strs[i] = a.String()
	}
	return fmt.Sprintf("%s#%d[%s]", kind, id, strings.Join(strs, ", "))
}

// Equals implements type equality: preludes compare structurally;
// nominal kinds compare by id (ignoring type arguments, which are the
// unit of unification rather than of identity); Dyn equals any non-Unit
// type; Var compares by id. Callers that need substitution-aware equality
// should apply the hydrator first.
func Equals(a, b Type) bool {
	switch at := a.(type) {
	case Prelude:
		bt, ok := b.(Prelude)
		return ok && at.Kind == bt.Kind
	case UnitType:
		_, ok := b.(UnitType)
		return ok
	case Var:
		bt, ok := b.(Var)
		return ok && at.ID == bt.ID
	case Generic:
		bt, ok := b.(Generic)
		return ok && at.Name == bt.Name
	case Struct:
		bt, ok := b.(Struct)
		return ok && at.ID == bt.ID
	case Enum:
		bt, ok := b.(Enum)
		return ok && at.ID == bt.ID
	case Function:
		bt, ok := b.(Function)
		return ok && at.ID == bt.ID
	case Dyn:
		_, isUnit := b.(UnitType)
		return !isUnit
	}
	return false
}

// ---- Arena entry shapes ----

// Field is a single struct field or enum variant parameter.
type Field struct {
	Name string
	Type Type
}

// StructEntry is the arena payload for a struct declaration.
type StructEntry struct {
	Name     string
	Generics []string
	Fields   []Field
}

// Variant is one constructor of an enum.
type Variant struct {
	Name   string
	Fields []Field
}

// EnumEntry is the arena payload for an enum declaration.
type EnumEntry struct {
	Name     string
	Generics []string
	Variants []Variant
}

// FunctionEntry is the arena payload for a function declaration.
type FunctionEntry struct {
	Name     string
	Generics []string
	Params   []Field
	Return   Type
}

// Publicity marks whether a module member is exported.
type Publicity int

const (
	Private Publicity = iota
	Public
)

// DefKind distinguishes the three shapes a ModuleDef can take.
type DefKind int

const (
	DefType DefKind = iota
	DefFunction
	DefConst
)

// ModuleDef is one exported (or private) field of a module: a type, a
// function, or a constant.
type ModuleDef struct {
	Kind      DefKind
	Publicity Publicity

	// Valid when Kind == DefType. Exactly one of StructID/EnumID is set,
	// tracked via IsEnum.
	IsEnum   bool
	StructID arena.ID
	EnumID   arena.ID

	// Valid when Kind == DefFunction.
	FunctionID arena.ID

	// Valid when Kind == DefConst.
	ConstType Type
}

// ModuleEntry is the arena payload for an imported or checked module.
type ModuleEntry struct {
	Source string
	Name   string
	Fields map[string]ModuleDef
}
