// Package cmd provides CLI command implementations
package cmd

import (
	"github.com/spf13/cobra"
)

var (
	// Flags for extract command
	inputFile   string
	genericFile string
	outputFile  string
	requireCols []string
	whereRules  []string
	descColumn  string
	iriColumn   string
)

var rootCmd = &cobra.Command{
	Use:   "pepmap",
	Short: "pepmap - Peptide-to-protein mapping extraction tool",
	Long: `pepmap extracts peptide-to-protein mappings from tabular immune-epitope
data such as IEDB assay exports.

Rows are filtered by user-defined column conditions, reduced to a mapping
from UniProt protein code to the distinct peptides observed for it, and
written to JSON or a SQLite database. A second, generic database export can
be merged in, overriding the primary source on protein code collisions.`,
	Version: "1.0.0",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(summarizeCmd)

	// Extract command flags
	extractCmd.Flags().StringVarP(&inputFile, "in", "i", "", "Structured input file path (required)")
	extractCmd.Flags().StringVarP(&outputFile, "out", "o", "", "Output file: .db/.sqlite or .json (stdout JSON if omitted)")
	extractCmd.Flags().StringVar(&genericFile, "db", "", "Generic database export merged in as override")
	extractCmd.Flags().StringArrayVar(&requireCols, "require", nil, "Column to load without filtering (repeatable)")
	extractCmd.Flags().StringArrayVar(&whereRules, "where", nil, "Filter rule 'COLUMN=OP:VALUE' (repeatable, applied in order)")
	extractCmd.Flags().StringVar(&descColumn, "desc-col", "Description", "Source column holding the peptide description")
	extractCmd.Flags().StringVar(&iriColumn, "iri-col", "Parent.Protein.IRI", "Source column holding the parent protein IRI")

	extractCmd.MarkFlagRequired("in")
}
