// Package vm implements the stack-based bytecode execution engine
// (spec.md §4.9), grounded on original_source/src/vm.c. Its output must
// agree exactly with internal/interp's tree-walking evaluation
// (spec.md §8 invariant 1).
package vm

import (
	"fmt"
	"math"

	"cellforge/internal/bytecode"
	"cellforge/internal/runtime"
	"cellforge/internal/symtab"
	"cellforge/internal/token"
	"cellforge/internal/value"
)

const stackSize = 1024

// stackError values (errOverflow, errUnderflow) are raised via panic and
// recovered in Execute, which returns them as Error values, rather than
// terminating the process the way the original's vm_push/vm_pop do with
// fprintf+exit(1) — a
// formula engine embedded in a larger program must not take the whole
// process down over one bad cell (spec.md §7).
type stackError string

func (e stackError) Error() string { return string(e) }

const (
	errOverflow  stackError = "VM Error: Stack overflow"
	errUnderflow stackError = "VM Error: Stack underflow"
)

// VM runs one compiled Code sequence against a shared symbol table.
type VM struct {
	Code  *bytecode.Code
	Table *symtab.Table
	Trace bool

	pc    int
	stack []value.Value
}

func New(code *bytecode.Code, table *symtab.Table) *VM {
	return &VM{Code: code, Table: table, stack: make([]value.Value, 0, 16)}
}

func (m *VM) push(v value.Value) {
	if len(m.stack) >= stackSize {
		panic(errOverflow)
	}
	m.stack = append(m.stack, v)
}

func (m *VM) pop() value.Value {
	if len(m.stack) == 0 {
		panic(errUnderflow)
	}
	v := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
	return v
}

// Execute runs the fetch-decode-execute loop to completion (HALT) and
// returns the resulting Value. Stack overflow/underflow panics are
// recovered here and surfaced as Error values, since callers run in a
// single-threaded, per-cell driver loop (spec.md §5).
func (m *VM) Execute() (result value.Value) {
	defer func() {
		if r := recover(); r != nil {
			if err, ok := r.(stackError); ok {
				result = value.NewError(string(err))
				return
			}
			panic(r)
		}
	}()

	if m.Trace {
		fmt.Println("--- VM TRACE ---")
	}
	result = m.run()
	if m.Trace {
		fmt.Println("--- END TRACE ---")
	}
	return result
}

func (m *VM) run() value.Value {
	for {
		if m.pc >= len(m.Code.Instrs) {
			return value.NewError("VM Error: PC out of bounds")
		}
		inst := m.Code.Instrs[m.pc]

		if m.Trace {
			fmt.Printf("%04d: %s\n", m.pc, inst.Op)
			m.printStack()
		}

		m.pc++

		switch inst.Op {
		case bytecode.HALT:
			if len(m.stack) == 0 {
				return value.NewError("VM Halted on empty stack")
			}
			return m.pop()

		case bytecode.PUSH:
			m.push(value.NewNumber(inst.Number))

		case bytecode.PUSH_STRING:
			m.push(value.NewString(inst.Text))

		case bytecode.PUSH_CELL:
			if cell, ok := m.Table.Get(inst.Text); ok && cell.Defined {
				m.push(value.NewNumber(cell.Value))
			} else {
				m.push(value.NewNumber(0))
			}

		case bytecode.PUSH_RANGE:
			m.push(value.NewString(inst.Text))

		case bytecode.ADD, bytecode.SUB, bytecode.MUL, bytecode.DIV, bytecode.POW,
			bytecode.GT, bytecode.LT, bytecode.GTE, bytecode.LTE, bytecode.EQ, bytecode.NEQ,
			bytecode.AND, bytecode.OR:
			b := m.pop()
			a := m.pop()
			result, isErr := binaryOp(inst.Op, a, b)
			if isErr {
				return result
			}
			m.push(result)

		case bytecode.NEG:
			a := m.pop()
			m.push(value.NewNumber(-a.AsNumber()))

		case bytecode.NOT:
			a := m.pop()
			m.push(value.NewBoolean(!a.IsTruthy()))

		case bytecode.JMP_IF_FALSE:
			cond := m.pop()
			if !cond.IsTruthy() {
				m.pc = inst.Address
			}

		case bytecode.JMP:
			m.pc = inst.Address

		case bytecode.CALL:
			result := m.call(inst.Call.Func, inst.Call.ArgCount)
			if result.IsError() {
				return result
			}
			m.push(result)

		case bytecode.NOP:
			// no-op

		default:
			return value.NewError("VM Error: Unknown opcode")
		}
	}
}

func binaryOp(op bytecode.OpCode, a, b value.Value) (value.Value, bool) {
	aNum, bNum := a.AsNumber(), b.AsNumber()
	switch op {
	case bytecode.ADD:
		return value.NewNumber(aNum + bNum), false
	case bytecode.SUB:
		return value.NewNumber(aNum - bNum), false
	case bytecode.MUL:
		return value.NewNumber(aNum * bNum), false
	case bytecode.DIV:
		if bNum == 0 {
			return value.NewError("Division by zero"), true
		}
		return value.NewNumber(aNum / bNum), false
	case bytecode.POW:
		return value.NewNumber(math.Pow(aNum, bNum)), false
	case bytecode.GT:
		return value.NewBoolean(aNum > bNum), false
	case bytecode.LT:
		return value.NewBoolean(aNum < bNum), false
	case bytecode.GTE:
		return value.NewBoolean(aNum >= bNum), false
	case bytecode.LTE:
		return value.NewBoolean(aNum <= bNum), false
	case bytecode.EQ:
		return value.NewBoolean(aNum == bNum), false
	case bytecode.NEQ:
		return value.NewBoolean(aNum != bNum), false
	case bytecode.AND:
		return value.NewBoolean(a.IsTruthy() && b.IsTruthy()), false
	case bytecode.OR:
		return value.NewBoolean(a.IsTruthy() || b.IsTruthy()), false
	default:
		return value.NewError("Unhandled binary op"), true
	}
}

// call pops argCount values (pushed left-to-right, so they come off the
// stack right-to-left), restores left-to-right order, flattens any range
// strings, and dispatches to the matching runtime function. IF never
// reaches here: it is compiled to jumps (spec.md §4.7).
func (m *VM) call(fn token.Type, argCount int) value.Value {
	reversed := make([]value.Value, argCount)
	for i := 0; i < argCount; i++ {
		reversed[i] = m.pop()
	}
	args := make([]value.Value, argCount)
	for i, v := range reversed {
		args[argCount-1-i] = v
	}
	args = runtime.FlattenArgs(args, m.Table)

	switch fn {
	case token.SUM:
		return runtime.Sum(args)
	case token.AVERAGE:
		return runtime.Average(args)
	case token.MIN:
		return runtime.Min(args)
	case token.MAX:
		return runtime.Max(args)
	case token.NOT:
		return runtime.Not(args)
	default:
		return value.NewError("Unknown function call in VM")
	}
}

func (m *VM) printStack() {
	fmt.Print("    STACK: [ ")
	for _, v := range m.stack {
		fmt.Print(v.Compact(), " ")
	}
	fmt.Println("]")
}
