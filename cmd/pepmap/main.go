// pepmap - Peptide-to-protein mapping extraction tool
package main

import (
	"fmt"
	"os"

	"github.com/pepmap/pepmap/cmd/pepmap/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
