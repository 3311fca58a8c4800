// Package codegen compiles an analyzed AST into bytecode (spec.md §4.7),
// grounded on original_source/src/codegen.c. IF is special-cased into a
// jump sequence; every other function call generates its arguments
// left-to-right and emits a single CALL.
package codegen

import (
	"cellforge/internal/ast"
	"cellforge/internal/bytecode"
	"cellforge/internal/token"
)

// Generate compiles root into a fresh Code sequence terminated by HALT.
func Generate(root ast.Node) *bytecode.Code {
	code := bytecode.New()
	if root == nil {
		code.EmitOp(bytecode.HALT, 0)
		return code
	}
	generate(root, code)
	code.EmitOp(bytecode.HALT, root.Line())
	return code
}

func generate(n ast.Node, code *bytecode.Code) {
	if n == nil {
		return
	}
	line := n.Line()

	switch node := n.(type) {
	case *ast.Number:
		code.EmitPush(node.Value, line)

	case *ast.String:
		// The original pushes a 0.0 placeholder here (NODE_STRING has no
		// real opcode in codegen.c); string literals are in scope here,
		// so a real PUSH_STRING carries the text through instead.
		code.EmitPushString(node.Text, line)

	case *ast.CellRef:
		code.EmitPushCell(node.Key, line)

	case *ast.Range:
		code.EmitPushRange(node.Text, line)

	case *ast.UnaryOp:
		generate(node.Child, code)
		switch node.Op {
		case token.MINUS:
			code.EmitOp(bytecode.NEG, line)
		case token.NOT:
			code.EmitOp(bytecode.NOT, line)
		}

	case *ast.BinaryOp:
		generate(node.Left, code)
		generate(node.Right, code)
		if op, ok := binaryOp[node.Op]; ok {
			code.EmitOp(op, line)
		}

	case *ast.FunctionCall:
		if node.Func == token.IF {
			generateIf(node, code, line)
			return
		}
		for _, arg := range node.Args {
			generate(arg, code)
		}
		code.EmitCall(node.Func, len(node.Args), line)
	}
}

var binaryOp = map[token.Type]bytecode.OpCode{
	token.PLUS:     bytecode.ADD,
	token.MINUS:    bytecode.SUB,
	token.MULTIPLY: bytecode.MUL,
	token.DIVIDE:   bytecode.DIV,
	token.POWER:    bytecode.POW,
	token.GT:       bytecode.GT,
	token.LT:       bytecode.LT,
	token.GTE:      bytecode.GTE,
	token.LTE:      bytecode.LTE,
	token.NE:       bytecode.NEQ,
	token.EQUALS:   bytecode.EQ,
	token.AND:      bytecode.AND,
	token.OR:       bytecode.OR,
}

// generateIf compiles IF(cond, then, else) into a condition followed by a
// JMP_IF_FALSE/JMP pair, back-patched once both branches are emitted
// (spec.md §4.7).
func generateIf(node *ast.FunctionCall, code *bytecode.Code, line int) {
	cond, thenExpr, elseExpr := node.Args[0], node.Args[1], node.Args[2]

	generate(cond, code)
	falseJump := code.EmitJump(bytecode.JMP_IF_FALSE, line)

	generate(thenExpr, code)
	endJump := code.EmitJump(bytecode.JMP, line)

	code.PatchJump(falseJump)
	generate(elseExpr, code)
	code.PatchJump(endJump)
}
