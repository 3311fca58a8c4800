package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	loadDriver string
	loadDSN    string
	loadQuery  string
)

var rootCmd = &cobra.Command{
	Use:   "cellforge",
	Short: "A spreadsheet formula compiler and evaluator",
	Long:  `cellforge compiles and evaluates spreadsheet-style cell formulas through either a bytecode VM or a tree-walking interpreter.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&loadDriver, "load-sql-driver", "", "database/sql driver name to predefine cells from")
	rootCmd.PersistentFlags().StringVar(&loadDSN, "load-sql-dsn", "", "DSN for --load-sql-driver")
	rootCmd.PersistentFlags().StringVar(&loadQuery, "load-sql-query", "", "query returning (key, formula) rows for --load-sql-driver")

	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(replCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(astCmd)
}
