package main

import (
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "barb",
	Short: "Evaluate expressions in the barb embedded language.",
	Long: `barb parses and reduces expressions against an optional host
configuration (see --config), printing the final resolved value.

  barb reduce '1 + 2 * 3'
  barb explain 'let f = fun n -> if n == 0 then 1 else n * f(n - 1) in f(x)'`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a .barb.toml settings file")
	rootCmd.AddCommand(newReduceCmd())
	rootCmd.AddCommand(newExplainCmd())
}
