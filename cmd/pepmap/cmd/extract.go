package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pepmap/pepmap/pkg/core"
	"github.com/pepmap/pepmap/pkg/extract"
	"github.com/pepmap/pepmap/pkg/filter"
	"github.com/pepmap/pepmap/pkg/table"
	"github.com/pepmap/pepmap/pkg/writer/sqlite"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract a peptide map from an epitope export",
	Long: `Extract peptide-to-protein mappings from a structured epitope export,
optionally merging in a generic database export.

Filter rules take the form 'COLUMN=OP:VALUE' where OP is one of contains,
not_contains, match, not_match or is_in (comma-separated value list).
Rules are applied in flag order; each rule narrows the survivor set.

Examples:
  # Extract T cell assay peptides from an IEDB export
  pepmap extract --in iedb.csv --where "Category=match:Tcell" --out peptides.db

  # Keep antigen names for loading without filtering on them
  pepmap extract --in iedb.csv --require "Antigen Name" --where "Category=is_in:Tcell,Bcell"

  # Merge a generic export on top of the IEDB result
  pepmap extract --in iedb.csv --db other.csv --out peptides.json`,
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	// Validate input files exist
	if _, err := os.Stat(inputFile); os.IsNotExist(err) {
		return fmt.Errorf("input file does not exist: %s", inputFile)
	}
	if genericFile != "" {
		if _, err := os.Stat(genericFile); os.IsNotExist(err) {
			return fmt.Errorf("database export does not exist: %s", genericFile)
		}
	}

	spec, err := buildSpec()
	if err != nil {
		return err
	}

	schema := table.StructuredSchema{
		DescriptionColumn: descColumn,
		ProteinIRIColumn:  iriColumn,
	}

	fmt.Printf("Extracting peptide data from %s...\n", inputFile)
	m, err := extract.Structured(inputFile, spec, schema)
	if err != nil {
		return err
	}

	if genericFile != "" {
		fmt.Printf("Extracting peptide data from %s...\n", genericFile)
		override, err := extract.Generic(genericFile)
		if err != nil {
			return err
		}
		fmt.Println("Merging peptide data...")
		m = core.Merge(m, override)
	}

	if err := writeOutput(m, outputFile); err != nil {
		return err
	}

	fmt.Printf("\nExtraction complete!\n")
	fmt.Printf("Proteins: %d\n", len(m))
	fmt.Printf("Peptides: %d\n", m.PeptideCount())
	if outputFile != "" {
		fmt.Printf("Output: %s\n", outputFile)
	}

	return nil
}

// buildSpec assembles the condition specification from the --require and
// --where flags. The description and IRI columns are always loaded.
func buildSpec() (*filter.Spec, error) {
	spec := filter.NewSpec()
	spec.Require(descColumn)
	spec.Require(iriColumn)

	for _, col := range requireCols {
		spec.Require(col)
	}

	for _, rule := range whereRules {
		col, op, values, err := parseWhere(rule)
		if err != nil {
			return nil, err
		}
		spec.Where(col, op, values...)
	}

	return spec, nil
}

// parseWhere parses a 'COLUMN=OP:VALUE' rule. For is_in the value is a
// comma-separated member list.
func parseWhere(rule string) (string, filter.Op, []string, error) {
	colRest := strings.SplitN(rule, "=", 2)
	if len(colRest) != 2 || colRest[0] == "" {
		return "", filter.OpInvalid, nil, fmt.Errorf("invalid filter rule %q, expected 'COLUMN=OP:VALUE'", rule)
	}
	col := colRest[0]

	opValue := strings.SplitN(colRest[1], ":", 2)
	if len(opValue) != 2 {
		return "", filter.OpInvalid, nil, fmt.Errorf("invalid filter rule %q, expected 'COLUMN=OP:VALUE'", rule)
	}

	op, err := filter.ParseOp(opValue[0])
	if err != nil {
		return "", filter.OpInvalid, nil, err
	}

	values := []string{opValue[1]}
	if op == filter.OpIsIn {
		values = strings.Split(opValue[1], ",")
	}

	return col, op, values, nil
}

// writeOutput writes the peptide map, selecting the writer from the output
// path's extension. An empty path prints JSON to stdout.
func writeOutput(m core.PeptideMap, path string) error {
	if path == "" {
		return writeJSON(m, os.Stdout)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite":
		return writeSQLite(m, path)
	case ".json":
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		return writeJSON(m, f)
	default:
		return fmt.Errorf("cannot detect output format from extension of %q, use .db, .sqlite or .json", path)
	}
}

func writeJSON(m core.PeptideMap, w *os.File) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("failed to encode peptide map: %w", err)
	}
	return nil
}

func writeSQLite(m core.PeptideMap, path string) error {
	w, err := sqlite.NewWriter(path)
	if err != nil {
		return fmt.Errorf("failed to create output database: %w", err)
	}

	if err := w.WriteMap(m); err != nil {
		w.Close()
		return err
	}

	if err := w.Finalize(); err != nil {
		return fmt.Errorf("failed to finalize database: %w", err)
	}
	return nil
}
