package table

import (
	"encoding/csv"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// UniprotURIPrefix is the canonical base for synthesized protein identifiers.
const UniprotURIPrefix = "http://www.uniprot.org/uniprot/"

// accessionPattern matches values that are a bare accession (word characters
// only). Anything else, e.g. an existing URI, is left untouched.
var accessionPattern = regexp.MustCompile(`^\w+$`)

// SchemaError reports a required column missing from an input file.
type SchemaError struct {
	Path   string
	Column string
}

func (e *SchemaError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("missing required column %q", e.Column)
	}
	return fmt.Sprintf("%s: missing required column %q", e.Path, e.Column)
}

// StructuredSchema names the source columns a structured export uses for the
// peptide description and the parent protein IRI. The loader renames them to
// the canonical ColPeptide and ColUniprot.
type StructuredSchema struct {
	DescriptionColumn string
	ProteinIRIColumn  string
}

// DefaultIEDBSchema matches the column headers of an IEDB assay export.
var DefaultIEDBSchema = StructuredSchema{
	DescriptionColumn: "Description",
	ProteinIRIColumn:  "Parent.Protein.IRI",
}

// LoadStructured reads a structured (IEDB-style) CSV export, keeping only the
// requested columns. The schema's description column is renamed to
// peptide_sequence and reduced to its first whitespace-delimited token
// (modified peptides are annotated as "sequence modification"); the protein
// IRI column is renamed to uniprot_id. Rows with an empty value in any
// requested column are dropped.
func LoadStructured(path string, columns []string, schema StructuredSchema) (*Table, error) {
	header, records, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	srcIdx := make(map[string]int, len(header))
	for i, h := range header {
		srcIdx[h] = i
	}

	// Resolve each requested source column, renaming to canonical names.
	indexes := make([]int, len(columns))
	names := make([]string, len(columns))
	for i, col := range columns {
		idx, ok := srcIdx[col]
		if !ok {
			return nil, &SchemaError{Path: path, Column: col}
		}
		indexes[i] = idx
		switch col {
		case schema.DescriptionColumn:
			names[i] = ColPeptide
		case schema.ProteinIRIColumn:
			names[i] = ColUniprot
		default:
			names[i] = col
		}
	}

	t := New(names)
	for _, rec := range records {
		row := make(Row, len(names))
		for i, idx := range indexes {
			var v string
			if idx < len(rec) {
				v = rec[idx]
			}
			if names[i] == ColPeptide {
				v = firstToken(v)
			}
			row[names[i]] = v
		}
		if rowComplete(row, names) {
			t.Rows = append(t.Rows, row)
		}
	}
	return t, nil
}

// LoadGeneric reads a generic database export, keeping all columns. Values in
// the uniprot_id column that are bare accessions are rewritten to the
// canonical UniProt URI form. Rows with an empty value in any column are
// dropped.
func LoadGeneric(path string) (*Table, error) {
	header, records, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	uniprotIdx := -1
	for i, h := range header {
		if h == ColUniprot {
			uniprotIdx = i
		}
	}
	if uniprotIdx < 0 {
		return nil, &SchemaError{Path: path, Column: ColUniprot}
	}

	t := New(header)
	for _, rec := range records {
		row := make(Row, len(header))
		for i, name := range header {
			var v string
			if i < len(rec) {
				v = rec[i]
			}
			if i == uniprotIdx && accessionPattern.MatchString(v) {
				v = UniprotURIPrefix + v
			}
			row[name] = v
		}
		if rowComplete(row, header) {
			t.Rows = append(t.Rows, row)
		}
	}
	return t, nil
}

// readCSV reads the header row and all data records from a CSV file.
func readCSV(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	// Tolerate ragged rows; missing trailing fields are treated as empty.
	r.FieldsPerRecord = -1

	all, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("%s: empty file, expected a header row", path)
	}
	return all[0], all[1:], nil
}

// firstToken returns the first whitespace-delimited token of s.
func firstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// rowComplete reports whether every listed column holds a non-empty value.
// Rows failing this are dropped by the loaders, not reported as errors.
func rowComplete(row Row, columns []string) bool {
	for _, c := range columns {
		if row[c] == "" {
			return false
		}
	}
	return true
}
