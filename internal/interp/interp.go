// Package interp implements the tree-walking interpreter (spec.md §4.10),
// grounded on original_source/src/interpreter.c. Its output must agree
// exactly with internal/vm's bytecode execution for every formula
// (spec.md §8 invariant 1). IF is evaluated lazily: only the selected
// branch runs.
package interp

import (
	"fmt"
	"math"
	"strings"

	"cellforge/internal/ast"
	"cellforge/internal/runtime"
	"cellforge/internal/symtab"
	"cellforge/internal/token"
	"cellforge/internal/value"
)

// Interpreter evaluates formula ASTs against a shared symbol table.
type Interpreter struct {
	Table *symtab.Table
	Trace bool
}

func New(table *symtab.Table) *Interpreter {
	return &Interpreter{Table: table}
}

// Eval evaluates root and returns its Value, descending with an
// indentation level for tracing (the original's trace_level).
func (in *Interpreter) Eval(root ast.Node) value.Value {
	return in.eval(root, 1)
}

func (in *Interpreter) eval(n ast.Node, level int) value.Value {
	if n == nil {
		return value.NewError("Attempted to evaluate NULL node")
	}

	var result value.Value
	switch node := n.(type) {
	case *ast.Number:
		in.trace(level, fmt.Sprintf("Evaluating NODE_NUMBER = %.2f", node.Value))
		result = value.NewNumber(node.Value)

	case *ast.String:
		in.trace(level, "Evaluating NODE_STRING")
		result = value.NewString(node.Text)

	case *ast.CellRef:
		v := 0.0
		if cell, ok := in.Table.Get(node.Key); ok && cell.Defined {
			v = cell.Value
		}
		in.trace(level, fmt.Sprintf("Evaluating NODE_CELL(%s) = %.2f", node.Key, v))
		result = value.NewNumber(v)

	case *ast.Range:
		in.trace(level, "Evaluating NODE_RANGE")
		result = value.NewString(node.Text)

	case *ast.UnaryOp:
		in.trace(level, "Evaluating NODE_UNARY_OP")
		right := in.eval(node.Child, level+1)
		if right.IsError() {
			return right
		}
		result = evalUnary(node.Op, right)

	case *ast.BinaryOp:
		in.trace(level, "Evaluating NODE_BINARY_OP")
		left := in.eval(node.Left, level+1)
		if left.IsError() {
			return left
		}
		right := in.eval(node.Right, level+1)
		if right.IsError() {
			return right
		}
		result = evalBinary(node.Op, left, right)

	case *ast.FunctionCall:
		in.trace(level, "Evaluating NODE_FUNCTION_CALL")
		result = in.evalCall(node, level+1)

	default:
		result = value.NewError("Unknown AST node type")
	}

	if level == 1 {
		in.traceResult(result)
	}
	return result
}

func evalBinary(op token.Type, left, right value.Value) value.Value {
	l, r := left.AsNumber(), right.AsNumber()
	switch op {
	case token.PLUS:
		return value.NewNumber(l + r)
	case token.MINUS:
		return value.NewNumber(l - r)
	case token.MULTIPLY:
		return value.NewNumber(l * r)
	case token.DIVIDE:
		if r == 0 {
			return value.NewError("Division by zero")
		}
		return value.NewNumber(l / r)
	case token.POWER:
		return value.NewNumber(math.Pow(l, r))
	case token.GT:
		return value.NewBoolean(l > r)
	case token.LT:
		return value.NewBoolean(l < r)
	case token.GTE:
		return value.NewBoolean(l >= r)
	case token.LTE:
		return value.NewBoolean(l <= r)
	case token.EQUALS:
		return value.NewBoolean(l == r)
	case token.NE:
		return value.NewBoolean(l != r)
	case token.AND:
		return value.NewBoolean(left.IsTruthy() && right.IsTruthy())
	case token.OR:
		return value.NewBoolean(left.IsTruthy() || right.IsTruthy())
	default:
		return value.NewError("Unknown binary operator")
	}
}

func evalUnary(op token.Type, right value.Value) value.Value {
	switch op {
	case token.MINUS:
		return value.NewNumber(-right.AsNumber())
	case token.NOT:
		return value.NewBoolean(!right.IsTruthy())
	default:
		return value.NewError("Unknown unary operator")
	}
}

func (in *Interpreter) evalCall(node *ast.FunctionCall, level int) value.Value {
	if node.Func == token.IF {
		if len(node.Args) != 3 {
			return value.NewError("IF requires 3 arguments")
		}
		cond := in.eval(node.Args[0], level+1)
		if cond.IsError() {
			return cond
		}
		if cond.IsTruthy() {
			return in.eval(node.Args[1], level+1)
		}
		return in.eval(node.Args[2], level+1)
	}

	args := make([]value.Value, len(node.Args))
	for i, a := range node.Args {
		v := in.eval(a, level+1)
		if v.IsError() {
			return v
		}
		args[i] = v
	}
	args = runtime.FlattenArgs(args, in.Table)

	switch node.Func {
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
		return value.NewError("Unknown function")
	}
}

func (in *Interpreter) trace(level int, msg string) {
	if !in.Trace {
		return
	}
	fmt.Println(strings.Repeat(" ", (level-1)*2) + msg)
}

func (in *Interpreter) traceResult(v value.Value) {
	if !in.Trace {
		return
	}
	fmt.Println("Result: " + v.String())
}
