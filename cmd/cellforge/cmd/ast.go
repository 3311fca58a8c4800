package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"cellforge/internal/ast"
	"cellforge/internal/lexer"
	"cellforge/internal/parser"
	"cellforge/internal/printer"
)

var astFormat string

var astCmd = &cobra.Command{
	Use:   "ast <formula>",
	Short: "Parse a single formula and print its syntax tree",
	Args:  cobra.ExactArgs(1),
	RunE:  runAST,
}

func init() {
	astCmd.Flags().StringVar(&astFormat, "format", "tree", "output format: tree, lisp, or dot")
}

func runAST(_ *cobra.Command, args []string) error {
	toks := lexer.New(args[0]).Scan()
	root, err := parser.ParseExpr(toks)
	if err != nil {
		return err
	}
	defer ast.Free(root)

	var format printer.Format
	switch astFormat {
	case "tree":
		format = printer.Tree
	case "lisp":
		format = printer.Lisp
	case "dot":
		format = printer.Dot
	default:
		return fmt.Errorf("unknown format %q", astFormat)
	}

	fmt.Print(printer.Print(root, format))
	return nil
}
