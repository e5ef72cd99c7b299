// Package core provides the peptide map model shared by the extraction
// pipeline and the output writers.
package core

import (
	"sort"
	"strings"

	"github.com/pepmap/pepmap/pkg/table"
)

// PeptideMap maps a protein code to the distinct peptide sequences observed
// for it, in first-occurrence order.
type PeptideMap map[string][]string

// ProteinCode reduces a protein identifier URI to its trailing path segment.
// An identifier with no slash is already a code and is returned unchanged.
func ProteinCode(id string) string {
	if i := strings.LastIndex(id, "/"); i >= 0 {
		return id[i+1:]
	}
	return id
}

// Reduce projects t down to its (peptide_sequence, uniprot_id) pairs,
// deduplicates them keeping the first occurrence, and groups peptides by
// protein code. The same peptide may appear under several protein codes;
// within one code each peptide appears once.
func Reduce(t *table.Table) (PeptideMap, error) {
	for _, col := range []string{table.ColPeptide, table.ColUniprot} {
		if !t.HasColumn(col) {
			return nil, &table.SchemaError{Column: col}
		}
	}

	type pair struct{ peptide, id string }
	seen := make(map[pair]bool, t.Len())

	m := make(PeptideMap)
	for _, row := range t.Rows {
		p := pair{peptide: row[table.ColPeptide], id: row[table.ColUniprot]}
		if seen[p] {
			continue
		}
		seen[p] = true
		code := ProteinCode(p.id)
		m[code] = append(m[code], p.peptide)
	}
	return m, nil
}

// Merge combines two peptide maps. Every key of both inputs is present in
// the result; on collision the override map's peptide list replaces the base
// list entirely.
func Merge(base, override PeptideMap) PeptideMap {
	merged := make(PeptideMap, len(base)+len(override))
	for code, peptides := range base {
		merged[code] = peptides
	}
	for code, peptides := range override {
		merged[code] = peptides
	}
	return merged
}

// Proteins returns the protein codes in sorted order, for deterministic
// output.
func (m PeptideMap) Proteins() []string {
	codes := make([]string, 0, len(m))
	for code := range m {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// PeptideCount returns the total number of peptide entries across all
// protein codes.
func (m PeptideMap) PeptideCount() int {
	n := 0
	for _, peptides := range m {
		n += len(peptides)
	}
	return n
}
