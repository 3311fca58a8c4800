package cmd

import (
	"context"

	"cellforge/internal/loader"
	"cellforge/internal/symtab"
)

// maybeLoadSQL predefines cells from --load-sql-driver/dsn/query when
// set, shared by eval/repl/serve (SPEC_FULL.md §6).
func maybeLoadSQL(table *symtab.Table) error {
	if loadDriver == "" {
		return nil
	}
	return loader.LoadSQL(context.Background(), loadDriver, loadDSN, loadQuery, table)
}
