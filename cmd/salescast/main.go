// Command salescast prepares monthly sales series, compares forecasting
// strategies with forward-chaining evaluation and produces forecasts.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
