package cmd

import (
	"github.com/dustin/go-humanize"

	"cellforge/internal/value"
)

// formatValue renders a cell's Value for CLI display, grounded on
// SPEC_FULL.md §4.16: numeric results use humanize.Commaf so large sums
// stay legible (e.g. 1,234,567 instead of 1.234567e+06); every other
// Value type falls back to its own String method.
func formatValue(v value.Value) string {
	if v.Type == value.Number {
		return humanize.Commaf(v.Num)
	}
	return v.String()
}
