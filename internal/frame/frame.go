// Package frame implements the VM's call frame: an optional closure
// environment plus a stack of nested scope tables
// local to one call, with define/store/load/delete falling back from
// the innermost table to the closure.
package frame

import (
	"github.com/oil-lang/oil/internal/address"
	"github.com/oil-lang/oil/internal/gc"
	"github.com/oil-lang/oil/internal/table"
	"github.com/oil-lang/oil/internal/value"
)

// Frame is one call's environment stack plus optional captured closure.
type Frame struct {
	tracer             *gc.Tracer
	closureEnvironment *gc.Handle
	environments       []gc.Handle
}

// New creates a Frame with one fresh environment and no closure. Every
// environment on the stack is pinned in the collector's root set for as
// long as the frame owns it: the frame itself is a Go-side value the
// tracer cannot see, so the tables it holds must be mutator-controlled
// roots or a collection mid-call would sweep the live scope chain.
func New(tr *gc.Tracer) *Frame {
	f := &Frame{tracer: tr}
	_, h := table.New(tr)
	tr.AddRoot(h)
	f.environments = []gc.Handle{h}
	return f
}

// WithClosure creates a Frame with one fresh environment and the given
// closure environment, used when calling a function value that captured
// a scope at definition time. The closure table is root-pinned for the
// frame's lifetime; once Dispose unpins it, it survives only while
// still traced from the function object that captured it.
func WithClosure(tr *gc.Tracer, closure gc.Handle) *Frame {
	f := New(tr)
	f.closureEnvironment = &closure
	tr.AddRoot(closure)
	return f
}

// Push enters a nested environment within this call (e.g. a block or
// loop body), rooted at the previously-current environment so it can see
// (and assign through to) the enclosing scope without capturing it.
func (f *Frame) Push(h gc.Handle) {
	if len(f.environments) > 0 {
		if newTbl, ok := f.tracer.Get(h).(*table.Table); ok {
			newTbl.SetRoot(f.Peek())
		}
	}
	f.tracer.AddRoot(h)
	f.environments = append(f.environments, h)
}

// Pop exits the innermost environment and releases its root pin.
func (f *Frame) Pop() gc.Handle {
	if len(f.environments) == 0 {
		return 0
	}
	h := f.environments[len(f.environments)-1]
	f.environments = f.environments[:len(f.environments)-1]
	f.tracer.RemoveRoot(h)
	return h
}

// Dispose releases every root pin this frame holds; the VM calls it when
// the call returns. Objects that outlive the call (a closure's captured
// table, values published into an enclosing scope) stay live through
// whatever still traces them.
func (f *Frame) Dispose() {
	for _, h := range f.environments {
		f.tracer.RemoveRoot(h)
	}
	f.environments = nil
	if f.closureEnvironment != nil {
		f.tracer.RemoveRoot(*f.closureEnvironment)
	}
}

// Peek returns the innermost environment's handle without removing it.
func (f *Frame) Peek() gc.Handle {
	if len(f.environments) == 0 {
		return 0
	}
	return f.environments[len(f.environments)-1]
}

func (f *Frame) topTable() *table.Table {
	tbl, _ := f.tracer.Get(f.Peek()).(*table.Table)
	return tbl
}

func (f *Frame) closureTable() *table.Table {
	if f.closureEnvironment == nil {
		return nil
	}
	tbl, _ := f.tracer.Get(*f.closureEnvironment).(*table.Table)
	return tbl
}

// Define binds name in the innermost environment.
func (f *Frame) Define(addr address.Address, name string, v value.Value) *address.Diagnostic {
	top := f.topTable()
	if top == nil {
		return address.New(address.CodeUnexpectedResolution, addr, "no active environment to define %q in", name)
	}
	return top.Define(addr, name, v)
}

// Store assigns name, preferring the environment stack and falling back
// to the closure for captured variables. Assigning an unknown name in
// neither place is an error.
func (f *Frame) Store(addr address.Address, name string, v value.Value) *address.Diagnostic {
	top := f.topTable()
	if top != nil && top.Has(name) {
		return top.Assign(addr, name, v)
	}
	if closure := f.closureTable(); closure != nil {
		return closure.Assign(addr, name, v)
	}
	return address.New(address.CodeVariableIsNotDefined, addr, "variable %q is not defined", name)
}

// Load reads name, preferring the environment stack and falling back to
// the closure.
func (f *Frame) Load(addr address.Address, name string) (value.Value, *address.Diagnostic) {
	top := f.topTable()
	if top != nil && top.Has(name) {
		return top.Lookup(addr, name)
	}
	if closure := f.closureTable(); closure != nil {
		return closure.Lookup(addr, name)
	}
	return value.Value{}, address.New(address.CodeVariableIsNotDefined, addr, "variable %q is not defined", name)
}

// Delete removes name from wherever it is currently visible.
func (f *Frame) Delete(addr address.Address, name string) *address.Diagnostic {
	top := f.topTable()
	if top != nil && top.Has(name) {
		top.Delete(name)
		return nil
	}
	if closure := f.closureTable(); closure != nil {
		closure.Delete(name)
		return nil
	}
	return address.New(address.CodeVariableIsNotDefined, addr, "variable %q is not defined", name)
}

// IsExists reports whether name is visible from the environment stack or
// the closure.
func (f *Frame) IsExists(name string) bool {
	if top := f.topTable(); top != nil && top.Has(name) {
		return true
	}
	if closure := f.closureTable(); closure != nil {
		return closure.Has(name)
	}
	return false
}

// Trace marks the closure environment (if any) and every environment on
// the stack.
func (f *Frame) Trace(t *gc.Tracer) {
	if f.closureEnvironment != nil {
		t.Mark(*f.closureEnvironment)
	}
	for _, h := range f.environments {
		t.Mark(h)
	}
}
