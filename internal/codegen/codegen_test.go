package codegen

import (
	"testing"

	"cellforge/internal/ast"
	"cellforge/internal/bytecode"
	"cellforge/internal/token"
)

func TestGenerateNumberHalts(t *testing.T) {
	root := ast.NewNumber(3, 1)
	defer ast.Free(root)
	code := Generate(root)
	if len(code.Instrs) != 2 {
		t.Fatalf("got %d instructions", len(code.Instrs))
	}
	if code.Instrs[0].Op != bytecode.PUSH || code.Instrs[0].Number != 3 {
		t.Fatalf("unexpected first instr: %+v", code.Instrs[0])
	}
	if code.Instrs[1].Op != bytecode.HALT {
		t.Fatalf("expected HALT, got %+v", code.Instrs[1])
	}
}

func TestGenerateBinaryOp(t *testing.T) {
	root := ast.NewBinaryOp(token.PLUS, ast.NewNumber(1, 1), ast.NewNumber(2, 1), 1)
	defer ast.Free(root)
	code := Generate(root)
	ops := opsOf(code)
	want := []bytecode.OpCode{bytecode.PUSH, bytecode.PUSH, bytecode.ADD, bytecode.HALT}
	assertOps(t, ops, want)
}

func TestGenerateCellRefAndRange(t *testing.T) {
	root := ast.NewFunctionCall(token.SUM, []ast.Node{ast.NewCellRef("A1", 1), ast.NewRange("A1:A3", 1)}, 1)
	defer ast.Free(root)
	code := Generate(root)
	ops := opsOf(code)
	want := []bytecode.OpCode{bytecode.PUSH_CELL, bytecode.PUSH_RANGE, bytecode.CALL, bytecode.HALT}
	assertOps(t, ops, want)
}

func TestGenerateIfPatchesBothJumps(t *testing.T) {
	root := ast.NewFunctionCall(token.IF, []ast.Node{
		ast.NewNumber(1, 1), ast.NewNumber(2, 1), ast.NewNumber(3, 1),
	}, 1)
	defer ast.Free(root)
	code := Generate(root)

	// PUSH(cond) JMP_IF_FALSE PUSH(then) JMP PUSH(else) HALT
	ops := opsOf(code)
	want := []bytecode.OpCode{
		bytecode.PUSH, bytecode.JMP_IF_FALSE, bytecode.PUSH, bytecode.JMP, bytecode.PUSH, bytecode.HALT,
	}
	assertOps(t, ops, want)

	falseJump := code.Instrs[1]
	if falseJump.Address != 4 {
		t.Fatalf("expected false jump to land on else branch (index 4), got %d", falseJump.Address)
	}
	endJump := code.Instrs[3]
	if endJump.Address != 5 {
		t.Fatalf("expected end jump to land on HALT (index 5), got %d", endJump.Address)
	}
}

func TestGenerateUnaryOps(t *testing.T) {
	neg := ast.NewUnaryOp(token.MINUS, ast.NewNumber(5, 1), 1)
	defer ast.Free(neg)
	assertOps(t, opsOf(Generate(neg)), []bytecode.OpCode{bytecode.PUSH, bytecode.NEG, bytecode.HALT})

	not := ast.NewUnaryOp(token.NOT, ast.NewNumber(1, 1), 1)
	defer ast.Free(not)
	assertOps(t, opsOf(Generate(not)), []bytecode.OpCode{bytecode.PUSH, bytecode.NOT, bytecode.HALT})
}

func opsOf(code *bytecode.Code) []bytecode.OpCode {
	out := make([]bytecode.OpCode, len(code.Instrs))
	for i, inst := range code.Instrs {
		out[i] = inst.Op
	}
	return out
}

func assertOps(t *testing.T, got, want []bytecode.OpCode) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
