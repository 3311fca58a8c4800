// Package loader populates a symbol table from external cell sources
// before compilation begins (SPEC_FULL.md §4.15): plain CSV cell files,
// and ad-hoc SQL queries against any database/sql driver. Grounded on
// the teacher's blank-import driver registration pattern for wiring
// multiple SQL backends behind one query path.
package loader

import (
	"context"
	"database/sql"
	"encoding/csv"
	"io"

	_ "github.com/denisenkom/go-mssqldb" // sqlserver
	_ "github.com/go-sql-driver/mysql"   // mysql
	_ "github.com/lib/pq"                // postgres
	_ "github.com/mattn/go-sqlite3"      // sqlite3 (cgo)
	"github.com/pkg/errors"
	_ "modernc.org/sqlite" // sqlite (pure Go)
	"golang.org/x/sync/errgroup"

	"cellforge/internal/symtab"
)

// LoadCSV reads "key,formula" rows from r and predefines each cell as
// defined with value 0, storing the second field unevaluated as its
// formula text (spec.md §9: loaded cells carry no dependency edges until
// a driver re-defines them through a real formula).
func LoadCSV(r io.Reader, table *symtab.Table) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2
	for {
		record, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "loader: reading CSV cell file")
		}
		key, formula := record[0], record[1]
		table.Define(key, 0, formula, 0)
	}
}

// Row is one (key, formula) pair returned by a SQL cell query.
type Row struct {
	Key     string
	Formula string
}

// LoadSQL runs query against driverName/dsn, expecting two columns
// (key, formula), and predefines each resulting cell in table. Errors
// are wrapped with the driver name (and, for query failures, the query
// text) so a multi-source load can be
// diagnosed without a stack trace through database/sql internals.
func LoadSQL(ctx context.Context, driverName, dsn, query string, table *symtab.Table) error {
	rows, err := fetchRows(ctx, driverName, dsn, query)
	if err != nil {
		return err
	}
	for _, row := range rows {
		table.Define(row.Key, 0, row.Formula, 0)
	}
	return nil
}

// LoadSQLMany fetches from several (driver, dsn, query) sources
// concurrently via errgroup, then feeds every row into table
// sequentially from the calling goroutine — the only goroutine that
// ever touches the symbol table (spec.md §5: single-owner core, with
// read-only I/O parallelized strictly at the boundary).
func LoadSQLMany(ctx context.Context, sources []Source, table *symtab.Table) error {
	results := make([][]Row, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			rows, err := fetchRows(gctx, src.Driver, src.DSN, src.Query)
			if err != nil {
				return err
			}
			results[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, rows := range results {
		for _, row := range rows {
			table.Define(row.Key, 0, row.Formula, 0)
		}
	}
	return nil
}

// Source names one SQL cell source for LoadSQLMany.
type Source struct {
	Driver string
	DSN    string
	Query  string
}

func fetchRows(ctx context.Context, driverName, dsn, query string) ([]Row, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "loader: opening %s dsn", driverName)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrapf(err, "loader: querying %s (%s)", driverName, query)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var row Row
		if err := rows.Scan(&row.Key, &row.Formula); err != nil {
			return nil, errors.Wrap(err, "loader: scanning cell row")
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "loader: iterating cell rows")
	}
	return out, nil
}
