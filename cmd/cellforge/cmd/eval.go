package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"cellforge/internal/compile"
)

var evalCmd = &cobra.Command{
	Use:   "eval <cell>=<formula> [...]",
	Short: "Define one or more cells and print their resulting values",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runEval,
}

func runEval(_ *cobra.Command, args []string) error {
	d := compile.New()
	if err := maybeLoadSQL(d.Table); err != nil {
		return err
	}

	for i, arg := range args {
		key, formula, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("argument %q is not in <cell>=<formula> form", arg)
		}
		key = strings.TrimSpace(key)
		r := d.DefineCell(key, formula, i+1)
		fmt.Printf("%s = %s\n", r.Key, formatValue(r.Value))
	}

	d.Errors.PrintAll()
	if d.Errors.Count() > 0 {
		os.Exit(1)
	}
	return nil
}
