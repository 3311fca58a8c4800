package compile

import (
	"sort"
	"testing"
)

func TestDefineCellSimpleArithmetic(t *testing.T) {
	d := New()
	r := d.DefineCell("A1", "2 + 2", 1)
	if r.Value.Num != 4 {
		t.Fatalf("got %+v", r)
	}
}

func TestDefineCellReferencingAnotherCell(t *testing.T) {
	d := New()
	d.DefineCell("A1", "10", 1)
	r := d.DefineCell("B1", "A1 * 2", 2)
	if r.Value.Num != 20 {
		t.Fatalf("got %+v", r)
	}
}

func TestDefineCellUndefinedReferenceReportsError(t *testing.T) {
	d := New()
	r := d.DefineCell("B1", "Z9 + 1", 1)
	if len(r.Diagnostics) != 1 {
		t.Fatalf("expected 1 diagnostic, got %+v", r.Diagnostics)
	}
}

func TestDefineCellCircularDependency(t *testing.T) {
	d := New()
	d.DefineCell("B1", "1", 1)
	d.DefineCell("A1", "B1", 1)
	r := d.DefineCell("B1", "A1", 2)
	if len(r.Diagnostics) != 1 {
		t.Fatalf("expected 1 diagnostic, got %+v", r.Diagnostics)
	}
	want := "Circular dependency detected: B1 -> A1 -> B1"
	if r.Diagnostics[0].Message != want {
		t.Fatalf("got %q, want %q", r.Diagnostics[0].Message, want)
	}
}

func TestRedefinitionClearsStaleDependencies(t *testing.T) {
	d := New()
	d.DefineCell("A1", "1", 1)
	d.DefineCell("B1", "2", 1)
	d.DefineCell("C1", "A1 + B1", 1)
	// Redefine C1 to no longer depend on B1.
	d.DefineCell("C1", "A1", 1)

	cell, _ := d.Table.Get("C1")
	if len(cell.Dependencies) != 1 || cell.Dependencies[0] != "A1" {
		t.Fatalf("expected only A1 dependency after redefinition, got %v", cell.Dependencies)
	}
}

func TestBackendsAgreeOnSameFormula(t *testing.T) {
	vmDriver := New()
	vmDriver.DefineCell("A1", "4", 1)
	vmDriver.DefineCell("B1", "6", 1)
	vmResult := vmDriver.DefineCell("C1", "IF(A1 > B1, A1, B1)", 1)

	interpDriver := New()
	interpDriver.Backend = Interpreter
	interpDriver.DefineCell("A1", "4", 1)
	interpDriver.DefineCell("B1", "6", 1)
	interpResult := interpDriver.DefineCell("C1", "IF(A1 > B1, A1, B1)", 1)

	if vmResult.Value.Num != interpResult.Value.Num {
		t.Fatalf("backends disagree: vm=%v interp=%v", vmResult.Value, interpResult.Value)
	}
}

func TestDivisionByZeroReportsRuntimeError(t *testing.T) {
	d := New()
	r := d.DefineCell("A1", "1 / 0", 1)
	if len(r.Diagnostics) != 1 || r.Diagnostics[0].Message != "Division by zero" {
		t.Fatalf("got %+v", r.Diagnostics)
	}
}

// TestEndToEndScenarios runs seven of spec.md §8's eight worked
// end-to-end scenarios verbatim, each against both backends; scenario 6
// is TestEndToEndScenarioSixCircularDependency below.
func TestEndToEndScenarios(t *testing.T) {
	type scenario struct {
		name        string
		predefine   map[string]string
		target      string
		formula     string
		wantValue   float64
		wantNoValue bool
		wantErrs    int
		wantMessage string
	}

	scenarios := []scenario{
		{
			name:      "1_arithmetic_precedence",
			predefine: map[string]string{"A1": "2", "A2": "3"},
			target:    "B1", formula: "A1+A2*4",
			wantValue: 14,
		},
		{
			name:      "2_if_comparison",
			predefine: map[string]string{"A1": "10"},
			target:    "B1", formula: "IF(A1>5, 1, 0)",
			wantValue: 1,
		},
		{
			name:      "3_division_by_zero",
			predefine: map[string]string{"A1": "4"},
			target:    "B1", formula: "A1/0",
			wantErrs: 1, wantMessage: "Division by zero",
		},
		{
			name:      "4_sum_over_range",
			predefine: map[string]string{"A1": "1", "A2": "2", "B1": "3", "B2": "4"},
			target:    "C1", formula: "SUM(A1:B2)",
			wantValue: 10,
		},
		{
			name:      "5_undefined_cell_reference",
			target:    "B1", formula: "Z9+1",
			wantNoValue: true, wantErrs: 1,
			wantMessage: "Undefined cell reference: 'Z9'.",
		},
		{
			name:      "7_average_over_range",
			predefine: map[string]string{"A1": "3", "A2": "5", "A3": "7"},
			target:    "B1", formula: "AVERAGE(A1:A3)",
			wantValue: 5,
		},
		{
			name:      "8_optimizer_folds_constant",
			target:    "B1", formula: "1+2*3",
			wantValue: 7,
		},
	}

	for _, sc := range scenarios {
		for _, backend := range []Backend{VM, Interpreter} {
			t.Run(sc.name, func(t *testing.T) {
				d := New()
				d.Backend = backend
				line := 1
				for _, key := range sortedKeys(sc.predefine) {
					d.DefineCell(key, sc.predefine[key], line)
					line++
				}
				r := d.DefineCell(sc.target, sc.formula, line)

				if sc.wantErrs > 0 {
					if len(r.Diagnostics) != sc.wantErrs {
						t.Fatalf("expected %d diagnostics, got %+v", sc.wantErrs, r.Diagnostics)
					}
					if sc.wantMessage != "" && r.Diagnostics[0].Message != sc.wantMessage {
						t.Fatalf("got message %q, want %q", r.Diagnostics[0].Message, sc.wantMessage)
					}
					if sc.wantNoValue {
						return
					}
				}
				if sc.wantErrs == 0 {
					if len(r.Diagnostics) != 0 {
						t.Fatalf("expected no diagnostics, got %+v", r.Diagnostics)
					}
					if r.Value.Num != sc.wantValue {
						t.Fatalf("got %v, want %v", r.Value.Num, sc.wantValue)
					}
				}
			})
		}
	}
}

// TestEndToEndScenarioSixCircularDependency exercises scenario 6, which
// needs two DefineCell calls before the target redefinition that closes
// the cycle, so it doesn't fit the flat table above.
func TestEndToEndScenarioSixCircularDependency(t *testing.T) {
	for _, backend := range []Backend{VM, Interpreter} {
		d := New()
		d.Backend = backend
		d.DefineCell("B1", "1", 1)
		d.DefineCell("A1", "B1", 1)
		r := d.DefineCell("B1", "A1", 2)

		if len(r.Diagnostics) != 1 {
			t.Fatalf("expected 1 diagnostic, got %+v", r.Diagnostics)
		}
		want := "Circular dependency detected: B1 -> A1 -> B1"
		if r.Diagnostics[0].Message != want {
			t.Fatalf("got %q, want %q", r.Diagnostics[0].Message, want)
		}
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
