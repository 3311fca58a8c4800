// Package runtime implements the aggregate built-ins and range expansion
// shared by the interpreter and VM (spec.md §4.4), grounded on
// original_source/src/runtime.c.
package runtime

import (
	"fmt"

	"cellforge/internal/symtab"
	"cellforge/internal/value"
)

// accumulate sums the Number elements of args, ignoring everything else,
// mirroring the original's static accumulate() helper.
func accumulate(args []value.Value) (sum float64, count int) {
	for _, v := range args {
		if v.Type == value.Number {
			sum += v.Num
			count++
		}
	}
	return sum, count
}

// Sum implements SUM(args): non-numbers ignored, empty -> 0.
func Sum(args []value.Value) value.Value {
	sum, _ := accumulate(args)
	return value.NewNumber(sum)
}

// Average implements AVERAGE(args): Error if zero numeric args.
func Average(args []value.Value) value.Value {
	sum, count := accumulate(args)
	if count == 0 {
		return value.NewError("AVERAGE divide by zero (no numeric args)")
	}
	return value.NewNumber(sum / float64(count))
}

// Min implements MIN(args): extremum over Numbers; empty/no-numeric -> 0.
func Min(args []value.Value) value.Value {
	found := false
	var min float64
	for _, v := range args {
		if v.Type != value.Number {
			continue
		}
		if !found || v.Num < min {
			min = v.Num
			found = true
		}
	}
	if !found {
		return value.NewNumber(0)
	}
	return value.NewNumber(min)
}

// Max implements MAX(args): extremum over Numbers; empty/no-numeric -> 0.
func Max(args []value.Value) value.Value {
	found := false
	var max float64
	for _, v := range args {
		if v.Type != value.Number {
			continue
		}
		if !found || v.Num > max {
			max = v.Num
			found = true
		}
	}
	if !found {
		return value.NewNumber(0)
	}
	return value.NewNumber(max)
}

// Not implements NOT(args): exactly one argument, else Error; returns
// the Boolean negation of its truthiness.
func Not(args []value.Value) value.Value {
	if len(args) != 1 {
		return value.NewError("NOT expects exactly 1 argument")
	}
	return value.NewBoolean(!args[0].IsTruthy())
}

// ExpandRange parses "<col><row>:<col><row>" (single-letter columns,
// spec.md §6) and returns the Number values of every cell in
// column-major order (col_start..col_end outer, row_start..row_end
// inner), undefined cells reading as 0. Returns (nil, false) if text is
// not a well-formed range, so the caller treats it as a plain string
// (spec.md §4.4).
func ExpandRange(text string, table *symtab.Table) ([]value.Value, bool) {
	var colStart, colEnd byte
	var rowStart, rowEnd int
	if n, _ := fmt.Sscanf(text, "%c%d:%c%d", &colStart, &rowStart, &colEnd, &rowEnd); n != 4 {
		return nil, false
	}

	var out []value.Value
	for c := colStart; c <= colEnd; c++ {
		for r := rowStart; r <= rowEnd; r++ {
			key := fmt.Sprintf("%c%d", c, r)
			num := 0.0
			if cell, ok := table.Get(key); ok && cell.Defined {
				num = cell.Value
			}
			out = append(out, value.NewNumber(num))
		}
		if c == 0xff { // guard against byte overflow on pathological input
			break
		}
	}
	return out, true
}

// FlattenArgs evaluates-then-flattens a left-to-right argument list: any
// String value that parses as a range is replaced in place by its
// expanded elements. This invariant is shared by both backends
// (spec.md §4.4).
func FlattenArgs(evaluated []value.Value, table *symtab.Table) []value.Value {
	out := make([]value.Value, 0, len(evaluated))
	for _, v := range evaluated {
		if v.Type == value.String {
			if expanded, ok := ExpandRange(v.Str, table); ok {
				out = append(out, expanded...)
				continue
			}
		}
		out = append(out, v)
	}
	return out
}
