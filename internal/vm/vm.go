// Package vm implements the bytecode interpreter loop: an operand stack
// plus a frame stack, executing the opcode set defined in package
// bytecode against values from package value.
package vm

import (
	"github.com/oil-lang/oil/internal/address"
	"github.com/oil-lang/oil/internal/bytecode"
	"github.com/oil-lang/oil/internal/frame"
	"github.com/oil-lang/oil/internal/gc"
	"github.com/oil-lang/oil/internal/natives"
	"github.com/oil-lang/oil/internal/table"
	"github.com/oil-lang/oil/internal/types"
	"github.com/oil-lang/oil/internal/value"
)

// Function is one compiled function body: its chunk plus the arity and
// name the checker already validated, addressed by index from
// value.FnObj.Entry. A flat function table stands in for raw bytecode
// offsets, since this VM compiles one chunk per declared function
// rather than inlining everything into a single instruction stream.
type Function struct {
	Name   string
	Arity  int
	Params []string
	Chunk  *bytecode.Chunk
}

// Program is every compiled function plus the module's top-level chunk.
type Program struct {
	Functions []*Function
	Module    *bytecode.Chunk
}

// VM is the stack machine: one operand stack and one frame stack, both
// owned for the lifetime of a single Run.
type VM struct {
	tracer   *gc.Tracer
	operand  bytecode.OperandStack
	frames   []*frame.Frame
	program  *Program
	natives  *natives.Registry
	addr     address.Address
}

// New builds a VM sharing tr with the rest of the runtime (the checker's
// arenas are independent; only reference-typed values flow through the
// tracer).
func New(tr *gc.Tracer, program *Program, nativeRegistry *natives.Registry) *VM {
	return &VM{tracer: tr, program: program, natives: nativeRegistry}
}

// Pop implements value.NativeContext.
func (vm *VM) Pop() value.Value { return vm.operand.Pop() }

// Push implements value.NativeContext.
func (vm *VM) Push(v value.Value) { vm.operand.Push(v) }

// Tracer implements value.NativeContext.
func (vm *VM) Tracer() *gc.Tracer { return vm.tracer }

func (vm *VM) currentFrame() *frame.Frame {
	return vm.frames[len(vm.frames)-1]
}

// Run executes the module's top-level chunk in a fresh frame. The module
// frame is left rooted after Run returns so a caller inspecting the
// result (or the module's definitions) does not race a final sweep.
func (vm *VM) Run() (value.Value, error) {
	top := frame.New(vm.tracer)
	vm.frames = append(vm.frames, top)
	return vm.exec(vm.program.Module)
}

// ModuleFrame is the top-level frame's scope, kept alive across Run for
// REPL-style reuse and for tests poking at module globals.
func (vm *VM) ModuleFrame() *frame.Frame {
	if len(vm.frames) == 0 {
		return nil
	}
	return vm.frames[0]
}

func (vm *VM) exec(chunk *bytecode.Chunk) (value.Value, error) {
	pc := 0
	for pc < len(chunk.Code) {
		instr := chunk.Code[pc]
		switch instr.Op {

		case bytecode.OpPushConst:
			vm.operand.Push(chunk.Constants[instr.Int])

		case bytecode.OpPop:
			vm.operand.Pop()

		case bytecode.OpLoadName:
			v, diag := vm.currentFrame().Load(vm.addr, instr.Str)
			if diag != nil {
				// The natives table is the outermost scope of every
				// program; a name missing from the frame chain may still
				// be a registered native like io@println.
				nv, nativeDiag := vm.natives.Lookup(vm.addr, instr.Str)
				if nativeDiag != nil {
					return value.Value{}, diag
				}
				v = nv
			}
			vm.operand.Push(v)

		case bytecode.OpStoreName:
			v := vm.operand.Pop()
			if diag := vm.currentFrame().Store(vm.addr, instr.Str, v); diag != nil {
				return value.Value{}, diag
			}

		case bytecode.OpDefineName:
			v := vm.operand.Pop()
			if diag := vm.currentFrame().Define(vm.addr, instr.Str, v); diag != nil {
				return value.Value{}, diag
			}

		case bytecode.OpDeleteName:
			if diag := vm.currentFrame().Delete(vm.addr, instr.Str); diag != nil {
				return value.Value{}, diag
			}

		case bytecode.OpJump:
			pc = instr.Int
			continue

		case bytecode.OpBranchFalse:
			cond := vm.operand.Pop()
			if cond.Kind != value.KindBool {
				return value.Value{}, address.New(address.CodeValueTypeExpected, vm.addr,
					"branch condition must be Bool, got %s", cond.Kind)
			}
			if !cond.Bool {
				pc = instr.Int
				continue
			}

		case bytecode.OpMakeList:
			items := vm.operand.PopN(instr.Int)
			h := vm.allocGuarded(&value.ListObj{Items: items})
			vm.operand.Push(value.List(h))

		case bytecode.OpConstructInstance:
			values := vm.operand.PopN(len(instr.Names))
			fields := make(map[string]value.Value, len(instr.Names))
			for i, name := range instr.Names {
				fields[name] = values[i]
			}
			vm.operand.Push(vm.NewInstance(instr.ConstructType, fields))

		case bytecode.OpMakeClosure:
			fnIdx := instr.Int
			closureHandle := vm.currentFrame().Peek()
			fnObj := &value.FnObj{
				Name:    vm.program.Functions[fnIdx].Name,
				Arity:   vm.program.Functions[fnIdx].Arity,
				Entry:   fnIdx,
				Closure: closureHandle,
			}
			h := vm.allocGuarded(fnObj)
			vm.operand.Push(value.Fn(h))

		case bytecode.OpFieldLoad:
			base := vm.operand.Pop()
			v, diag := vm.fieldTable(base, instr.Str, func(tbl *table.Table) (value.Value, *address.Diagnostic) {
				return tbl.Lookup(vm.addr, instr.Str)
			})
			if diag != nil {
				return value.Value{}, diag
			}
			vm.operand.Push(v)

		case bytecode.OpFieldStore:
			v := vm.operand.Pop()
			base := vm.operand.Pop()
			_, diag := vm.fieldTable(base, instr.Str, func(tbl *table.Table) (value.Value, *address.Diagnostic) {
				if tbl.Has(instr.Str) {
					return value.Value{}, tbl.Assign(vm.addr, instr.Str, v)
				}
				return value.Value{}, tbl.Define(vm.addr, instr.Str, v)
			})
			if diag != nil {
				return value.Value{}, diag
			}

		case bytecode.OpCallArity:
			if err := vm.call(instr.Int, instr.Bool); err != nil {
				return value.Value{}, err
			}

		case bytecode.OpReturn:
			if vm.operand.Len() > 0 {
				return vm.operand.Pop(), nil
			}
			return value.Null(), nil
		}
		pc++
	}
	return value.Null(), nil
}

// call pops a callee and argc arguments, and dispatches on the callee's
// kind: a Fn gets a fresh frame seeded with its closure and parameters
// bound as locals; a Native is invoked with shouldPush controlling
// whether its result lands on the operand stack at all.
func (vm *VM) call(argc int, shouldPush bool) error {
	args := vm.operand.PopN(argc)
	callee := vm.operand.Pop()

	switch callee.Kind {
	case value.KindFn:
		fnObj, ok := vm.tracer.Get(callee.Ref).(*value.FnObj)
		if !ok {
			return address.New(address.CodeCouldNotCall, vm.addr, "callee handle does not reference a function")
		}
		fn := vm.program.Functions[fnObj.Entry]

		// The callee and its arguments live only in Go locals until the
		// parameters are defined in the new frame; pin them across the
		// frame's own allocating setup.
		vm.tracer.Guard(callee.Ref)
		for _, a := range args {
			if a.Kind.IsRef() {
				vm.tracer.Guard(a.Ref)
			}
		}
		var callFrame *frame.Frame
		if fnObj.Closure != 0 {
			callFrame = frame.WithClosure(vm.tracer, fnObj.Closure)
		} else {
			callFrame = frame.New(vm.tracer)
		}
		unpin := func() {
			for _, a := range args {
				if a.Kind.IsRef() {
					vm.tracer.Unguard(a.Ref)
				}
			}
			vm.tracer.Unguard(callee.Ref)
		}
		for i, paramName := range fn.Params {
			v := value.Null()
			if i < len(args) {
				v = args[i]
			}
			if diag := callFrame.Define(vm.addr, paramName, v); diag != nil {
				unpin()
				callFrame.Dispose()
				return diag
			}
		}
		unpin()

		vm.frames = append(vm.frames, callFrame)
		result, err := vm.exec(fn.Chunk)
		vm.frames = vm.frames[:len(vm.frames)-1]
		callFrame.Dispose()
		if err != nil {
			return err
		}
		vm.operand.Push(result)
		return nil

	case value.KindNative:
		nativeObj, ok := vm.tracer.Get(callee.Ref).(*value.NativeObj)
		if !ok {
			return address.New(address.CodeCouldNotCall, vm.addr, "callee handle does not reference a native")
		}
		for _, a := range args {
			vm.operand.Push(a)
		}
		result, err := nativeObj.Call(vm, shouldPush, vm.currentFrame().Peek())
		if err != nil {
			if _, isDiag := err.(*address.Diagnostic); !isDiag {
				err = address.New(address.CodeNativeCallFailure, vm.addr, "native %q failed: %v", nativeObj.Name, err)
			}
			return err
		}
		if shouldPush {
			vm.operand.Push(result)
		}
		return nil

	default:
		return address.New(address.CodeCouldNotCall, vm.addr, "value of kind %s is not callable", callee.Kind)
	}
}

// fieldTable resolves the fields table behind an Instance or Unit value
// and applies op to it, shared by FIELD_LOAD and FIELD_STORE.
func (vm *VM) fieldTable(base value.Value, field string, op func(*table.Table) (value.Value, *address.Diagnostic)) (value.Value, *address.Diagnostic) {
	var fieldsHandle gc.Handle
	switch base.Kind {
	case value.KindInstance:
		inst, ok := vm.tracer.Get(base.Ref).(*value.InstanceObj)
		if !ok {
			return value.Value{}, address.New(address.CodeInvalidFieldAccess, vm.addr, "instance handle is stale")
		}
		fieldsHandle = inst.Fields
	case value.KindUnit:
		unit, ok := vm.tracer.Get(base.Ref).(*value.UnitObj)
		if !ok {
			return value.Value{}, address.New(address.CodeInvalidFieldAccess, vm.addr, "unit handle is stale")
		}
		fieldsHandle = unit.Fields
	case value.KindModule:
		mod, ok := vm.tracer.Get(base.Ref).(*value.ModuleObj)
		if !ok {
			return value.Value{}, address.New(address.CodeInvalidFieldAccess, vm.addr, "module handle is stale")
		}
		fieldsHandle = mod.Fields
	default:
		return value.Value{}, address.New(address.CodeInvalidFieldAccess, vm.addr,
			"cannot access field %q on a value of kind %s", field, base.Kind)
	}

	tbl, ok := vm.tracer.Get(fieldsHandle).(*table.Table)
	if !ok {
		return value.Value{}, address.New(address.CodeInvalidFieldAccess, vm.addr, "fields table for %q is stale", field)
	}
	v, diag := op(tbl)
	if diag != nil && diag.Code == address.CodeVariableIsNotDefined {
		return value.Value{}, address.New(address.CodeFieldIsNotDefined, vm.addr, "field %q is not defined", field)
	}
	return v, diag
}

// NewInstance constructs an Instance value for t with fields already
// bound into a fresh table; the CONSTRUCT_INSTANCE opcode uses it.
func (vm *VM) NewInstance(t types.Type, fields map[string]value.Value) value.Value {
	// The field values were already popped off the operand stack, so pin
	// them across the fields table's own allocation check.
	for _, v := range fields {
		if v.Kind.IsRef() {
			vm.tracer.Guard(v.Ref)
		}
	}
	tbl, tblHandle := table.New(vm.tracer)
	for name, v := range fields {
		_ = tbl.Define(vm.addr, name, v)
	}
	h := vm.allocGuarded(&value.InstanceObj{Type: t, Fields: tblHandle})
	for _, v := range fields {
		if v.Kind.IsRef() {
			vm.tracer.Unguard(v.Ref)
		}
	}
	return value.Instance(h)
}

// allocGuarded is the VM's single allocation primitive: it pins the new
// object and every reference-typed operand already on the stack, runs
// the collection check, then releases the transient pins. The frame
// stack needs no guarding here; frames root their tables directly.
func (vm *VM) allocGuarded(obj gc.Traceable) gc.Handle {
	h := vm.tracer.Alloc(obj)
	vm.tracer.Guard(h)
	for _, v := range vm.operand.Values() {
		if v.Kind.IsRef() {
			vm.tracer.Guard(v.Ref)
		}
	}
	vm.tracer.Check()
	for _, v := range vm.operand.Values() {
		if v.Kind.IsRef() {
			vm.tracer.Unguard(v.Ref)
		}
	}
	vm.tracer.Unguard(h)
	return h
}
