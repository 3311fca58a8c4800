// Package printer renders an internal/ast tree as a box-drawing tree, a
// Lisp-style s-expression, or Graphviz DOT (SPEC_FULL.md §4.17), grounded
// on original_source/src/ast_printer.c's three PrintFormat modes.
package printer

import (
	"fmt"
	"strings"

	"cellforge/internal/ast"
	"cellforge/internal/token"
)

type Format int

const (
	Tree Format = iota
	Lisp
	Dot
)

// Print renders root in the given format and returns it as a string.
func Print(root ast.Node, format Format) string {
	if root == nil {
		return "AST is NULL.\n"
	}
	switch format {
	case Tree:
		var b strings.Builder
		printTree(&b, root, "", true)
		return b.String()
	case Lisp:
		return printLisp(root) + "\n"
	case Dot:
		var b strings.Builder
		b.WriteString("digraph AST {\n")
		b.WriteString("  node [fontname=\"Arial\"];\n")
		ids := map[ast.Node]int{}
		printDot(&b, root, ids)
		b.WriteString("}\n")
		return b.String()
	default:
		return ""
	}
}

// label renders a one-line description of n, shared by the tree and DOT
// modes (the original's switch-per-format duplication collapses to this
// single helper since both just need the node's text label).
func label(n ast.Node) string {
	switch node := n.(type) {
	case *ast.Number:
		return fmt.Sprintf("NUMBER (%g)", node.Value)
	case *ast.String:
		return fmt.Sprintf("STRING (%q)", node.Text)
	case *ast.CellRef:
		return fmt.Sprintf("CELL_REF (%s)", node.Key)
	case *ast.Range:
		return fmt.Sprintf("RANGE (%s)", node.Text)
	case *ast.UnaryOp:
		return fmt.Sprintf("UNARY_OP (%s)", node.Op)
	case *ast.BinaryOp:
		return fmt.Sprintf("BINARY_OP (%s)", node.Op)
	case *ast.FunctionCall:
		return fmt.Sprintf("FUNCTION (%s)", node.Func)
	default:
		return "UNKNOWN_NODE"
	}
}

func children(n ast.Node) []ast.Node {
	switch node := n.(type) {
	case *ast.UnaryOp:
		return []ast.Node{node.Child}
	case *ast.BinaryOp:
		return []ast.Node{node.Left, node.Right}
	case *ast.FunctionCall:
		return node.Args
	default:
		return nil
	}
}

func printTree(b *strings.Builder, n ast.Node, prefix string, isLast bool) {
	if n == nil {
		return
	}
	b.WriteString(prefix)
	if isLast {
		b.WriteString("└── ")
	} else {
		b.WriteString("├── ")
	}
	b.WriteString(label(n))
	b.WriteByte('\n')

	newPrefix := prefix
	if isLast {
		newPrefix += "    "
	} else {
		newPrefix += "│   "
	}
	kids := children(n)
	for i, c := range kids {
		printTree(b, c, newPrefix, i == len(kids)-1)
	}
}

func printLisp(n ast.Node) string {
	if n == nil {
		return "nil"
	}
	switch node := n.(type) {
	case *ast.Number:
		return fmt.Sprintf("%g", node.Value)
	case *ast.String:
		return fmt.Sprintf("%q", node.Text)
	case *ast.CellRef:
		return node.Key
	case *ast.Range:
		return node.Text
	case *ast.UnaryOp:
		return fmt.Sprintf("(%s %s)", opSymbol(node.Op), printLisp(node.Child))
	case *ast.BinaryOp:
		return fmt.Sprintf("(%s %s %s)", opSymbol(node.Op), printLisp(node.Left), printLisp(node.Right))
	case *ast.FunctionCall:
		parts := make([]string, len(node.Args))
		for i, a := range node.Args {
			parts[i] = printLisp(a)
		}
		return fmt.Sprintf("(%s %s)", node.Func, strings.Join(parts, " "))
	default:
		return "?"
	}
}

func opSymbol(t token.Type) string {
	switch t {
	case token.PLUS:
		return "+"
	case token.MINUS:
		return "-"
	case token.MULTIPLY:
		return "*"
	case token.DIVIDE:
		return "/"
	case token.POWER:
		return "^"
	case token.GT:
		return ">"
	case token.LT:
		return "<"
	case token.GTE:
		return ">="
	case token.LTE:
		return "<="
	case token.EQUALS:
		return "="
	case token.NE:
		return "<>"
	case token.NOT:
		return "NOT"
	default:
		return t.String()
	}
}

func printDot(b *strings.Builder, n ast.Node, ids map[ast.Node]int) int {
	id, ok := ids[n]
	if !ok {
		id = len(ids)
		ids[n] = id
	}
	fmt.Fprintf(b, "  node%d [label=\"%s\"];\n", id, strings.ReplaceAll(label(n), "\"", "\\\""))

	switch node := n.(type) {
	case *ast.UnaryOp:
		childID := printDot(b, node.Child, ids)
		fmt.Fprintf(b, "  node%d -> node%d;\n", id, childID)
	case *ast.BinaryOp:
		leftID := printDot(b, node.Left, ids)
		fmt.Fprintf(b, "  node%d -> node%d [label=\"L\"];\n", id, leftID)
		rightID := printDot(b, node.Right, ids)
		fmt.Fprintf(b, "  node%d -> node%d [label=\"R\"];\n", id, rightID)
	case *ast.FunctionCall:
		for i, a := range node.Args {
			argID := printDot(b, a, ids)
			fmt.Fprintf(b, "  node%d -> node%d [label=\"Arg%d\"];\n", id, argID, i)
		}
	}
	return id
}
