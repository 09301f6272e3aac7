// Package value implements the runtime value representation: a tagged
// union of immediate scalars plus GC-managed
// reference types, each identified by a gc.Handle so that equality and
// tracing never depend on Go pointer identity.
package value

import (
	"fmt"

	"github.com/oil-lang/oil/internal/gc"
	"github.com/oil-lang/oil/internal/types"
)

// Kind tags which alternative of Value is populated.
type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindBool
	KindNull
	KindString
	KindList
	KindType
	KindFn
	KindNative
	KindInstance
	KindUnit
	KindTrait
	KindModule
	KindAny
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "Int"
	case KindFloat:
		return "Float"
	case KindBool:
		return "Bool"
	case KindNull:
		return "Null"
	case KindString:
		return "String"
	case KindList:
		return "List"
	case KindType:
		return "Type"
	case KindFn:
		return "Fn"
	case KindNative:
		return "Native"
	case KindInstance:
		return "Instance"
	case KindUnit:
		return "Unit"
	case KindTrait:
		return "Trait"
	case KindModule:
		return "Module"
	case KindAny:
		return "Any"
	default:
		return "?value"
	}
}

// IsRef reports whether values of this kind carry a heap handle.
func (k Kind) IsRef() bool {
	switch k {
	case KindString, KindList, KindType, KindFn, KindNative, KindInstance, KindUnit, KindTrait, KindModule, KindAny:
		return true
	default:
		return false
	}
}

// Value is the tagged union every bytecode operand and scope-table entry
// holds. Exactly one of Int/Float/Bool/Ref is meaningful, selected by
// Kind; reference-typed values never embed their payload directly, only
// the gc.Handle that addresses it.
type Value struct {
	Kind  Kind
	Int   int64
	Float float64
	Bool  bool
	Ref   gc.Handle
}

func Int(i int64) Value     { return Value{Kind: KindInt, Int: i} }
func Float(f float64) Value { return Value{Kind: KindFloat, Float: f} }
func Bool(b bool) Value     { return Value{Kind: KindBool, Bool: b} }
func Null() Value           { return Value{Kind: KindNull} }

func ref(kind Kind, h gc.Handle) Value { return Value{Kind: kind, Ref: h} }

func String(h gc.Handle) Value   { return ref(KindString, h) }
func List(h gc.Handle) Value     { return ref(KindList, h) }
func TypeVal(h gc.Handle) Value  { return ref(KindType, h) }
func Fn(h gc.Handle) Value       { return ref(KindFn, h) }
func Native(h gc.Handle) Value   { return ref(KindNative, h) }
func Instance(h gc.Handle) Value { return ref(KindInstance, h) }
func Unit(h gc.Handle) Value     { return ref(KindUnit, h) }
func Trait(h gc.Handle) Value    { return ref(KindTrait, h) }
func Module(h gc.Handle) Value   { return ref(KindModule, h) }
func Any(h gc.Handle) Value      { return ref(KindAny, h) }

// Equals implements value equality: immediates compare structurally,
// reference-typed values compare by handle identity.
func Equals(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindInt:
		return a.Int == b.Int
	case KindFloat:
		return a.Float == b.Float
	case KindBool:
		return a.Bool == b.Bool
	case KindNull:
		return true
	default:
		return a.Ref == b.Ref
	}
}

// Mark marks v's referenced object reachable, a no-op for immediates.
func Mark(t *gc.Tracer, v Value) {
	if v.Kind.IsRef() {
		t.Mark(v.Ref)
	}
}

func (v Value) String() string {
	switch v.Kind {
	case KindInt:
		return fmt.Sprintf("%d", v.Int)
	case KindFloat:
		return fmt.Sprintf("%g", v.Float)
	case KindBool:
		return fmt.Sprintf("%t", v.Bool)
	case KindNull:
		return "null"
	default:
		return fmt.Sprintf("%s(#%d)", v.Kind, v.Ref)
	}
}

// ---- Reference object payloads ----

// StringObj is a heap-allocated string.
type StringObj struct{ S string }

func (*StringObj) Trace(*gc.Tracer) {}

// ListObj is a heap-allocated, mutable, ordered list of values.
type ListObj struct{ Items []Value }

func (l *ListObj) Trace(t *gc.Tracer) {
	for _, v := range l.Items {
		Mark(t, v)
	}
}

// TypeObj wraps a static type as a first-class runtime value, used when
// the language reifies a declaration's type (e.g. for printing).
type TypeObj struct{ T types.Type }

func (*TypeObj) Trace(*gc.Tracer) {}

// FnObj is a closure: a reference to compiled code plus the environment
// it closed over and an optional owner for method-like dispatch.
type FnObj struct {
	Name      string
	Arity     int
	Entry     int
	Closure   gc.Handle // table.Table handle, zero if none
	HasOwner  bool
	Owner     Value // an Instance or Unit value
}

func (f *FnObj) Trace(t *gc.Tracer) {
	if f.Closure != 0 {
		t.Mark(f.Closure)
	}
	if f.HasOwner {
		Mark(t, f.Owner)
	}
}

// NativeObj is a host-implemented function.
type NativeObj struct {
	Name  string
	Arity int
	Call  NativeFunc
}

func (*NativeObj) Trace(*gc.Tracer) {}

// NativeFunc is the host callback signature: it receives
// the calling context, whether its result should be pushed, and the
// caller's current scope handle, and returns either a result or a
// control-flow error that the VM unwinds frames to handle.
type NativeFunc func(ctx NativeContext, shouldPush bool, scope gc.Handle) (Value, error)

// NativeContext is the narrow surface a native needs from the VM: the
// operand stack and the shared tracer. Declaring it here (rather than
// importing package vm) lets natives and value stay free of a cycle
// while the VM satisfies this interface directly.
type NativeContext interface {
	Pop() Value
	Push(v Value)
	Tracer() *gc.Tracer
}

// InstanceObj is a struct instance: its static type plus a fields table.
type InstanceObj struct {
	Type   types.Type
	Fields gc.Handle // table.Table handle
}

func (i *InstanceObj) Trace(t *gc.Tracer) {
	t.Mark(i.Fields)
}

// UnitObj is a namespace object grouping fields and methods under a
// name (spec's "Unit (namespace)", not the Unit type).
type UnitObj struct {
	Name   string
	Fields gc.Handle
}

func (u *UnitObj) Trace(t *gc.Tracer) {
	t.Mark(u.Fields)
}

// TraitObj groups method implementations dispatched by owner type.
type TraitObj struct {
	Name    string
	Methods gc.Handle
}

func (tr *TraitObj) Trace(t *gc.Tracer) {
	t.Mark(tr.Methods)
}

// ModuleObj is a checked module's runtime counterpart: its exported
// functions, constants, and nested type constructors.
type ModuleObj struct {
	Name   string
	Fields gc.Handle
}

func (m *ModuleObj) Trace(t *gc.Tracer) {
	t.Mark(m.Fields)
}

// AnyObj wraps opaque host data that does not otherwise fit the value
// grammar, e.g. an open file handle returned by a native.
type AnyObj struct{ Data any }

func (*AnyObj) Trace(*gc.Tracer) {}
