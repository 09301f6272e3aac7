// Package natives implements the native function registry and the
// built-in `io` library: host callbacks reachable from bytecode through
// a NATIVE value, sharing the should-push calling convention.
package natives

import (
	"bufio"
	"fmt"
	"os"

	"github.com/oil-lang/oil/internal/address"
	"github.com/oil-lang/oil/internal/gc"
	"github.com/oil-lang/oil/internal/table"
	"github.com/oil-lang/oil/internal/value"
)

// Registry owns the natives table: a root-pinned scope table whose
// fields are NATIVE values, addressed by library-qualified name (e.g.
// "io@println").
type Registry struct {
	tracer  *gc.Tracer
	table   *table.Table
	handle  gc.Handle
	stdout  *bufio.Writer
	stdin   *bufio.Reader
}

// NewRegistry allocates the natives table as a GC root and wires the
// standard `io` library into it.
func NewRegistry(tr *gc.Tracer) *Registry {
	tbl, h := table.New(tr)
	tr.AddRoot(h)
	r := &Registry{
		tracer: tr,
		table:  tbl,
		handle: h,
		stdout: bufio.NewWriter(os.Stdout),
		stdin:  bufio.NewReader(os.Stdin),
	}
	r.provideIO()
	return r
}

// Handle is the natives table's GC handle, suitable for use as a Module
// closure or root reference.
func (r *Registry) Handle() gc.Handle { return r.handle }

// Lookup resolves a qualified native name, as the VM does when
// dispatching a CALL whose callee resolved to a Native value.
func (r *Registry) Lookup(addr address.Address, name string) (value.Value, *address.Diagnostic) {
	return r.table.Lookup(addr, name)
}

func (r *Registry) provide(name string, arity int, call value.NativeFunc) {
	h := r.tracer.Alloc(&value.NativeObj{Name: name, Arity: arity, Call: call})
	r.tracer.Guard(h)
	r.tracer.Check()
	r.tracer.Unguard(h)
	_ = r.table.Define(address.Unknown(), name, value.Native(h))
}

// provideIO wires println/print/flush/input. Each callback works
// against a NativeContext instead of a raw VM pointer so this package
// never imports package vm.
func (r *Registry) provideIO() {
	r.provide("io@println", 1, func(ctx value.NativeContext, shouldPush bool, scope gc.Handle) (value.Value, error) {
		v := ctx.Pop()
		fmt.Fprintln(r.stdout, renderValue(ctx.Tracer(), v))
		r.stdout.Flush()
		return nullOrNothing(shouldPush)
	})

	r.provide("io@print", 1, func(ctx value.NativeContext, shouldPush bool, scope gc.Handle) (value.Value, error) {
		v := ctx.Pop()
		fmt.Fprint(r.stdout, renderValue(ctx.Tracer(), v))
		r.stdout.Flush()
		return nullOrNothing(shouldPush)
	})

	r.provide("io@flush", 0, func(ctx value.NativeContext, shouldPush bool, scope gc.Handle) (value.Value, error) {
		if err := r.stdout.Flush(); err != nil {
			return value.Value{}, address.New(address.CodeIoFailure, address.Unknown(), "io error flushing stdout: %v", err)
		}
		return nullOrNothing(shouldPush)
	})

	r.provide("io@input", 0, func(ctx value.NativeContext, shouldPush bool, scope gc.Handle) (value.Value, error) {
		line, err := r.stdin.ReadString('\n')
		if err != nil && line == "" {
			return value.Value{}, address.New(address.CodeIoFailure, address.Unknown(), "io error reading input: %v", err)
		}
		line = trimNewline(line)
		if !shouldPush {
			return value.Value{}, nil
		}
		strH := ctx.Tracer().Alloc(&value.StringObj{S: line})
		ctx.Tracer().Guard(strH)
		ctx.Tracer().Check()
		ctx.Tracer().Unguard(strH)
		return value.String(strH), nil
	})
}

func nullOrNothing(shouldPush bool) (value.Value, error) {
	if shouldPush {
		return value.Null(), nil
	}
	return value.Value{}, nil
}

func trimNewline(s string) string {
	n := len(s)
	for n > 0 && (s[n-1] == '\n' || s[n-1] == '\r') {
		n--
	}
	return s[:n]
}

// renderValue formats a Value for println/print, dereferencing
// reference-typed payloads where it is safe and cheap to do so.
func renderValue(tr *gc.Tracer, v value.Value) string {
	switch v.Kind {
	case value.KindString:
		if obj, ok := tr.Get(v.Ref).(*value.StringObj); ok {
			return obj.S
		}
	}
	return v.String()
}
