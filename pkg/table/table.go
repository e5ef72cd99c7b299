// Package table provides the in-memory row table model and CSV loading
// for epitope exports.
package table

// Canonical column names produced by the loader. Downstream reduction keys
// on these regardless of the source file's own header names.
const (
	ColPeptide = "peptide_sequence"
	ColUniprot = "uniprot_id"
)

// Table is an ordered sequence of rows over a fixed set of named columns.
// Every row holds a value for every column.
type Table struct {
	Columns []string
	Rows    []Row
}

// Row maps column names to string values.
type Row map[string]string

// New creates an empty table with the given column set.
func New(columns []string) *Table {
	return &Table{Columns: columns}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// HasColumn reports whether the table carries the named column.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}
