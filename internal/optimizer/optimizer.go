// Package optimizer implements the single peephole constant-folding pass
// run over generated bytecode (spec.md §4.8), grounded on
// original_source/src/optimizer.c.
package optimizer

import "cellforge/internal/bytecode"

// Optimize scans code for PUSH, PUSH, <op> triples over ADD/SUB/MUL/DIV
// and replaces them with PUSH <result>, NOP, NOP. Division by zero is
// left unfolded so the VM reports it at run time instead of baking a
// silent Inf/NaN into the program. A triple whose second or third
// instruction is a jump target is left unfolded, since a path entering
// there would skip the folded PUSH. It returns the number of instructions
// folded (2 per fold: the original's own count).
func Optimize(code *bytecode.Code) int {
	folded := 0
	instrs := code.Instrs
	targets := make(map[int]bool)
	for _, inst := range instrs {
		if inst.Op == bytecode.JMP || inst.Op == bytecode.JMP_IF_FALSE {
			targets[inst.Address] = true
		}
	}
	for i := 0; i < len(instrs)-2; i++ {
		a, b, op := &instrs[i], &instrs[i+1], &instrs[i+2]
		if a.Op != bytecode.PUSH || b.Op != bytecode.PUSH {
			continue
		}
		if targets[i+1] || targets[i+2] {
			continue
		}

		var result float64
		ok := true
		switch op.Op {
		case bytecode.ADD:
			result = a.Number + b.Number
		case bytecode.SUB:
			result = a.Number - b.Number
		case bytecode.MUL:
			result = a.Number * b.Number
		case bytecode.DIV:
			if b.Number == 0 {
				ok = false
			} else {
				result = a.Number / b.Number
			}
		default:
			ok = false
		}

		if !ok {
			continue
		}

		a.Number = result
		b.Op = bytecode.NOP
		op.Op = bytecode.NOP
		folded += 2
		i += 2
	}
	return folded
}
