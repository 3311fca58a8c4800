package runtime

import (
	"testing"

	"cellforge/internal/symtab"
	"cellforge/internal/value"
)

func nums(xs ...float64) []value.Value {
	out := make([]value.Value, len(xs))
	for i, x := range xs {
		out[i] = value.NewNumber(x)
	}
	return out
}

func TestSum(t *testing.T) {
	got := Sum(nums(1, 2, 3))
	if got.Num != 6 {
		t.Fatalf("got %v", got)
	}
	if Sum(nil).Num != 0 {
		t.Fatal("empty SUM should be 0")
	}
}

func TestSumIgnoresNonNumeric(t *testing.T) {
	args := []value.Value{value.NewNumber(1), value.NewString("x"), value.NewNumber(2)}
	got := Sum(args)
	if got.Num != 3 {
		t.Fatalf("got %v", got)
	}
}

func TestAverage(t *testing.T) {
	got := Average(nums(2, 4))
	if got.Num != 3 {
		t.Fatalf("got %v", got)
	}
}

func TestAverageEmptyIsError(t *testing.T) {
	got := Average(nil)
	if !got.IsError() || got.Str != "AVERAGE divide by zero (no numeric args)" {
		t.Fatalf("got %+v", got)
	}
}

func TestMinMax(t *testing.T) {
	if got := Min(nums(3, 1, 2)); got.Num != 1 {
		t.Fatalf("got %v", got)
	}
	if got := Max(nums(3, 1, 2)); got.Num != 3 {
		t.Fatalf("got %v", got)
	}
	if got := Min(nil); got.Num != 0 {
		t.Fatalf("expected 0 for empty MIN, got %v", got)
	}
	if got := Max(nil); got.Num != 0 {
		t.Fatalf("expected 0 for empty MAX, got %v", got)
	}
}

func TestNot(t *testing.T) {
	got := Not([]value.Value{value.NewBoolean(true)})
	if got.Type != value.Boolean || got.Bool != false {
		t.Fatalf("got %+v", got)
	}
	if err := Not(nil); !err.IsError() {
		t.Fatal("NOT with 0 args must error")
	}
	if err := Not(nums(1, 2)); !err.IsError() {
		t.Fatal("NOT with 2 args must error")
	}
}

func TestExpandRange(t *testing.T) {
	tab := symtab.New()
	tab.Define("A1", 1, "", 1)
	tab.Define("A2", 2, "", 1)
	tab.Define("B1", 3, "", 1)
	tab.Define("B2", 4, "", 1)

	vals, ok := ExpandRange("A1:B2", tab)
	if !ok {
		t.Fatal("expected valid range")
	}
	want := []float64{1, 2, 3, 4}
	if len(vals) != len(want) {
		t.Fatalf("got %v", vals)
	}
	for i, w := range want {
		if vals[i].Num != w {
			t.Fatalf("index %d: got %v want %v", i, vals[i], w)
		}
	}
}

func TestExpandRangeUndefinedCellsAreZero(t *testing.T) {
	tab := symtab.New()
	vals, ok := ExpandRange("A1:A2", tab)
	if !ok {
		t.Fatal("expected valid range")
	}
	for _, v := range vals {
		if v.Num != 0 {
			t.Fatalf("expected 0 for undefined cell, got %v", v)
		}
	}
}

func TestExpandRangeInvalidFormat(t *testing.T) {
	tab := symtab.New()
	if _, ok := ExpandRange("not a range", tab); ok {
		t.Fatal("expected malformed range to be rejected")
	}
}

func TestFlattenArgsExpandsRangeStrings(t *testing.T) {
	tab := symtab.New()
	tab.Define("A1", 5, "", 1)
	tab.Define("A2", 6, "", 1)

	args := []value.Value{value.NewNumber(1), value.NewString("A1:A2")}
	flat := FlattenArgs(args, tab)
	if len(flat) != 3 {
		t.Fatalf("got %v", flat)
	}
	if flat[0].Num != 1 || flat[1].Num != 5 || flat[2].Num != 6 {
		t.Fatalf("got %v", flat)
	}
}

func TestFlattenArgsLeavesPlainStrings(t *testing.T) {
	tab := symtab.New()
	args := []value.Value{value.NewString("hello")}
	flat := FlattenArgs(args, tab)
	if len(flat) != 1 || flat[0].Str != "hello" {
		t.Fatalf("got %v", flat)
	}
}
