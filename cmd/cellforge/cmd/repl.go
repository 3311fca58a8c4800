package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"cellforge/internal/compile"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactively define cells, one per line (A1=2+2)",
	RunE:  runRepl,
}

func runRepl(_ *cobra.Command, _ []string) error {
	d := compile.New()
	if err := maybeLoadSQL(d.Table); err != nil {
		return err
	}

	scanner := bufio.NewScanner(os.Stdin)
	line := 0
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return nil
		}
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		key, formula, ok := strings.Cut(text, "=")
		if !ok {
			fmt.Println("expected <cell>=<formula>")
			continue
		}
		r := d.DefineCell(strings.TrimSpace(key), formula, line)
		fmt.Printf("%s = %s\n", r.Key, formatValue(r.Value))
		for _, diag := range r.Diagnostics {
			fmt.Printf("  [%s] %s\n", diag.Kind, diag.Message)
		}
	}
}
