// Command forgec is the demo driver for the semantic core: it loads a JSON
// AST fixture and runs it through the symbol table, memory analyzer,
// semantic analyzer, and variant generator, printing accumulated
// diagnostics.
package main

import (
	"fmt"
	"os"

	"github.com/forge-lang/forgec/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
