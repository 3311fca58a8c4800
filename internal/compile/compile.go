// Package compile implements the single-owner driver that ties the
// lexer, parser, semantic analyzer, and the two evaluation backends
// together around one shared symbol table and error system
// (spec.md §5, SPEC_FULL.md §4.14). Grounded on the teacher's top-level
// orchestration in its own driver entry point: lex, then parse, then
// compile-or-interpret, one unit of work at a time.
package compile

import (
	"fmt"

	"cellforge/internal/analyzer"
	"cellforge/internal/ast"
	"cellforge/internal/codegen"
	"cellforge/internal/errs"
	"cellforge/internal/interp"
	"cellforge/internal/lexer"
	"cellforge/internal/optimizer"
	"cellforge/internal/parser"
	"cellforge/internal/symtab"
	"cellforge/internal/value"
	"cellforge/internal/vm"
)

// Backend selects which evaluation engine DefineCell uses. Both must
// agree on every well-formed formula (spec.md §8 invariant 1); Backend
// exists so callers (and cross-backend tests) can pick either one.
type Backend int

const (
	VM Backend = iota
	Interpreter
)

// Driver is the sole mutator of its Table and Errors for its lifetime
// (spec.md §5: single-owner, synchronous, single-threaded).
type Driver struct {
	Table   *symtab.Table
	Errors  *errs.System
	Backend Backend
	Trace   bool
}

func New() *Driver {
	return &Driver{Table: symtab.New(), Errors: errs.New()}
}

// Result is the outcome of defining one cell.
type Result struct {
	Key         string
	Value       value.Value
	Diagnostics []errs.Diagnostic
}

// DefineCell lexes and parses formula, runs semantic analysis against
// the shared table, and — if analysis reported no new errors — evaluates
// it with the selected backend and stores the resulting numeric value
// back into the cell (spec.md §4.2's redefinition contract: existing
// dependencies are cleared before re-analysis, since the new formula may
// reference a different set of cells).
func (d *Driver) DefineCell(key, formula string, line int) Result {
	d.Table.ClearDependencies(key)
	before := d.Errors.Count()

	toks := lexer.New(formula).Scan()
	root, err := parser.ParseExpr(toks)
	if err != nil {
		d.Errors.Report(errs.Syntax, line, 0, err.Error(), "Check the formula's syntax.")
		return d.diagnosticsOnly(key, before)
	}
	defer ast.Free(root)

	analyzer.Analyze(root, d.Table, d.Errors, key)
	if d.Errors.Count() > before {
		return d.diagnosticsOnly(key, before)
	}

	result := d.evaluate(root)
	if result.IsError() {
		d.Errors.Report(errs.Runtime, line, 0, result.Str, "")
	}
	d.Table.Define(key, result.AsNumber(), formula, line)

	return Result{Key: key, Value: result, Diagnostics: append([]errs.Diagnostic{}, d.Errors.All()[before:]...)}
}

// evaluate runs the selected backend. The VM already turns its own
// stack-fault panics into Error values; runVM additionally recovers any
// other panic from code generation or the VM (spec.md §7: a programmer
// error in one cell must not crash a process serving many cells).
func (d *Driver) evaluate(root ast.Node) value.Value {
	if d.Backend == Interpreter {
		in := interp.New(d.Table)
		in.Trace = d.Trace
		return in.Eval(root)
	}
	return d.runVM(root)
}

func (d *Driver) diagnosticsOnly(key string, before int) Result {
	return Result{
		Key:         key,
		Value:       value.NewError("not evaluated"),
		Diagnostics: append([]errs.Diagnostic{}, d.Errors.All()[before:]...),
	}
}

func (d *Driver) runVM(root ast.Node) (result value.Value) {
	defer func() {
		if r := recover(); r != nil {
			result = value.NewError(fmt.Sprintf("internal error: %v", r))
		}
	}()
	code := codegen.Generate(root)
	optimizer.Optimize(code)
	machine := vm.New(code, d.Table)
	machine.Trace = d.Trace
	return machine.Execute()
}
