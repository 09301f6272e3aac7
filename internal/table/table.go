// Package table implements the runtime scope table: a name→value map
// chained to an optional root (for assigning through parent scopes
// without capturing them) and an optional closure (for captured free
// variables).
package table

import (
	"github.com/oil-lang/oil/internal/address"
	"github.com/oil-lang/oil/internal/gc"
	"github.com/oil-lang/oil/internal/value"
)

// Table is one reference-typed scope frame. It is allocated through a
// gc.Tracer like any other reference-typed object and traced via Trace.
type Table struct {
	fields  map[string]value.Value
	root    *gc.Handle
	closure *gc.Handle
	tracer  *gc.Tracer
}

// New allocates an empty Table in tr's heap and returns both the object
// and its handle. The handle is guarded only across the collection check
// and released before New returns; publishing it is left to the caller.
func New(tr *gc.Tracer) (*Table, gc.Handle) {
	tbl := &Table{fields: make(map[string]value.Value), tracer: tr}
	h := tr.Alloc(tbl)
	tr.Guard(h)
	tr.Check()
	tr.Unguard(h)
	return tbl, h
}

// SetRoot pushes a new root at the deepest end of the root chain,
// letting a block inherit an enclosing block's scope without capturing
// it as a closure.
func (t *Table) SetRoot(root gc.Handle) {
	if t.root == nil {
		t.root = &root
		return
	}
	if parent, ok := t.tracer.Get(*t.root).(*Table); ok {
		parent.SetRoot(root)
		return
	}
	t.root = &root
}

// DelRoot pops the deepest root in the chain.
func (t *Table) DelRoot() {
	if t.root == nil {
		return
	}
	if parent, ok := t.tracer.Get(*t.root).(*Table); ok && parent.root != nil {
		parent.DelRoot()
		return
	}
	t.root = nil
}

// SetClosure attaches the table captured as this scope's free-variable
// source.
func (t *Table) SetClosure(h gc.Handle) {
	t.closure = &h
}

// Define binds name in this table's own fields. Defining an
// already-present name is an error.
func (t *Table) Define(addr address.Address, name string, v value.Value) *address.Diagnostic {
	if _, exists := t.fields[name]; exists {
		return address.New(address.CodeVariableIsAlreadyDefined, addr, "variable %q is already defined in this scope", name)
	}
	t.fields[name] = v
	return nil
}

// Lookup searches fields, then the root chain, then the closure.
func (t *Table) Lookup(addr address.Address, name string) (value.Value, *address.Diagnostic) {
	if v, ok := t.fields[name]; ok {
		return v, nil
	}
	if t.root != nil {
		if parent, ok := t.tracer.Get(*t.root).(*Table); ok {
			if v, diag := parent.Lookup(addr, name); diag == nil {
				return v, nil
			}
		}
	}
	if t.closure != nil {
		if env, ok := t.tracer.Get(*t.closure).(*Table); ok {
			if v, diag := env.Lookup(addr, name); diag == nil {
				return v, nil
			}
		}
	}
	return value.Value{}, address.New(address.CodeVariableIsNotDefined, addr, "variable %q is not defined", name)
}

// Assign searches fields (local), then the root chain for parent-scope
// variables, then the closure for captured variables. Assigning to an
// unknown name is an error, never an implicit definition.
func (t *Table) Assign(addr address.Address, name string, v value.Value) *address.Diagnostic {
	if _, ok := t.fields[name]; ok {
		t.fields[name] = v
		return nil
	}
	if t.root != nil {
		if parent, ok := t.tracer.Get(*t.root).(*Table); ok {
			if diag := parent.Assign(addr, name, v); diag == nil {
				return nil
			}
		}
	}
	if t.closure != nil {
		if env, ok := t.tracer.Get(*t.closure).(*Table); ok {
			if diag := env.Assign(addr, name, v); diag == nil {
				return nil
			}
		}
	}
	return address.New(address.CodeVariableIsNotDefined, addr, "variable %q is not defined", name)
}

// Delete removes name from this table's own fields, if present.
func (t *Table) Delete(name string) {
	delete(t.fields, name)
}

// Has reports whether name is visible from this table, including its
// root chain but not its closure.
func (t *Table) Has(name string) bool {
	if _, ok := t.fields[name]; ok {
		return true
	}
	if t.root != nil {
		if parent, ok := t.tracer.Get(*t.root).(*Table); ok {
			return parent.Has(name)
		}
	}
	return false
}

// Trace marks this table's fields map, its root chain, and its closure.
func (t *Table) Trace(tr *gc.Tracer) {
	for _, v := range t.fields {
		value.Mark(tr, v)
	}
	if t.root != nil {
		tr.Mark(*t.root)
	}
	if t.closure != nil {
		tr.Mark(*t.closure)
	}
}
