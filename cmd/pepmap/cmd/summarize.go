package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pepmap/pepmap/pkg/extract"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize [file]",
	Short: "Summarize a generic database export",
	Long: `Reduce a generic database export (peptide_sequence and uniprot_id
columns) and print protein and peptide counts.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := extract.Generic(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Proteins: %d\n", len(m))
		fmt.Printf("Peptides: %d\n", m.PeptideCount())
		for _, code := range m.Proteins() {
			fmt.Printf("  %s: %d peptides\n", code, len(m[code]))
		}
		return nil
	},
}
