// Command barb evaluates expressions in the language the barb package
// reduces, against an optional host-value configuration file.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "barb:", err)
		os.Exit(1)
	}
}
