// Package analyzer implements semantic analysis over a parsed formula
// (spec.md §4.6): it registers cell dependencies, rejects undefined cell
// references, validates range syntax, validates built-in call arity, and
// reports circular dependencies. Grounded on original_source/src/semantic.c.
package analyzer

import (
	"fmt"

	"cellforge/internal/ast"
	"cellforge/internal/errs"
	"cellforge/internal/symtab"
	"cellforge/internal/token"
)

// Analyze runs semantic analysis for a formula being assigned to
// thisCell, post-order walking root and reporting every diagnostic found
// to system. It returns the number of errors it added to system.
//
// The original's semantic_analysis creates the target cell on first
// reference and marks it defined before traversal; this keeps that
// behavior so self-references resolve to "already defined" rather than
// "undefined cell" during the walk.
func Analyze(root ast.Node, table *symtab.Table, system *errs.System, thisCell string) int {
	if root == nil {
		return 0
	}

	if _, ok := table.Get(thisCell); !ok {
		table.Define(thisCell, 0, "", 0)
	}

	before := system.Count()
	walk(root, table, system, thisCell)

	if system.Count() == before {
		if cell, ok := table.Get(thisCell); ok {
			for _, dep := range cell.Dependencies {
				if path, found := table.CycleCheck(thisCell, dep); found {
					msg := "Circular dependency detected: "
					for i, key := range path {
						if i > 0 {
							msg += " -> "
						}
						msg += key
					}
					system.Report(errs.Semantic, 0, 0, msg, "Break the cycle by removing one of these references.")
					break
				}
			}
		}
	}

	return system.Count() - before
}

func walk(n ast.Node, table *symtab.Table, system *errs.System, thisCell string) {
	if n == nil {
		return
	}
	switch node := n.(type) {
	case *ast.UnaryOp:
		walk(node.Child, table, system, thisCell)
	case *ast.BinaryOp:
		walk(node.Left, table, system, thisCell)
		walk(node.Right, table, system, thisCell)
	case *ast.FunctionCall:
		for _, arg := range node.Args {
			walk(arg, table, system, thisCell)
		}
		checkFunctionArgs(node, system)
	case *ast.CellRef:
		cell, ok := table.Get(node.Key)
		if !ok || !cell.Defined {
			system.Report(errs.Semantic, node.Line(), 0,
				fmt.Sprintf("Undefined cell reference: '%s'.", node.Key),
				"Ensure this cell has a value.")
			return
		}
		table.AddDependency(thisCell, node.Key)
	case *ast.Range:
		checkRange(node.Text, node.Line(), system)
	}
}

func checkFunctionArgs(node *ast.FunctionCall, system *errs.System) {
	count := len(node.Args)
	switch node.Func {
	case token.IF:
		if count != 3 {
			system.Report(errs.Semantic, node.Line(), 0,
				fmt.Sprintf("Function 'IF' expects exactly 3 arguments, but got %d.", count),
				"The format is IF(condition, value_if_true, value_if_false).")
		}
	case token.SUM, token.AVERAGE, token.MIN, token.MAX:
		if count == 0 {
			system.Report(errs.Semantic, node.Line(), 0,
				fmt.Sprintf("Function '%s' expects at least 1 argument, but got 0.", node.Func),
				"Provide a cell, range, or number.")
		}
	}
}

// checkRange validates "A1:B10"-style range syntax, grounded on the
// original's check_range: a well-formed-but-inverted range ("B10:A1")
// gets a distinct message from a malformed one.
func checkRange(rangeStr string, line int, system *errs.System) {
	var colStart, colEnd byte
	var rowStart, rowEnd int
	if n, _ := fmt.Sscanf(rangeStr, "%c%d:%c%d", &colStart, &rowStart, &colEnd, &rowEnd); n != 4 {
		system.Report(errs.Semantic, line, 0,
			fmt.Sprintf("Invalid range format: '%s'.", rangeStr),
			"Expected format like A1:B10.")
		return
	}
	if colStart > colEnd || rowStart > rowEnd {
		system.Report(errs.Semantic, line, 0,
			fmt.Sprintf("Invalid range: '%s'.", rangeStr),
			"Start of range must be top-left of end of range.")
	}
}
