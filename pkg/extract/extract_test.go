package extract

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/pepmap/pepmap/pkg/core"
	"github.com/pepmap/pepmap/pkg/filter"
	"github.com/pepmap/pepmap/pkg/table"
)

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestStructured(t *testing.T) {
	path := writeCSV(t, "iedb.csv", `Description,Parent.Protein.IRI,Category
AAA mod1,http://x/uniprot/P12345,Tcell
BBB,http://x/uniprot/P12345,Bcell
`)

	spec := filter.NewSpec().
		Require("Description").
		Require("Parent.Protein.IRI").
		Where("Category", filter.OpMatch, "Tcell")

	m, err := Structured(path, spec, table.DefaultIEDBSchema)
	if err != nil {
		t.Fatalf("Structured() error = %v", err)
	}

	want := core.PeptideMap{"P12345": {"AAA"}}
	if !reflect.DeepEqual(m, want) {
		t.Errorf("Structured() = %v, want %v", m, want)
	}
}

func TestGeneric(t *testing.T) {
	path := writeCSV(t, "other.csv", `peptide_sequence,uniprot_id
CCC,P99999
`)

	m, err := Generic(path)
	if err != nil {
		t.Fatalf("Generic() error = %v", err)
	}

	want := core.PeptideMap{"P99999": {"CCC"}}
	if !reflect.DeepEqual(m, want) {
		t.Errorf("Generic() = %v, want %v", m, want)
	}
}

func TestCombined(t *testing.T) {
	iedb := writeCSV(t, "iedb.csv", `Description,Parent.Protein.IRI,Category
AAA,http://x/uniprot/P12345,Tcell
DDD,http://x/uniprot/P99999,Tcell
`)
	other := writeCSV(t, "other.csv", `peptide_sequence,uniprot_id
CCC,P99999
`)

	spec := filter.NewSpec().
		Require("Description").
		Require("Parent.Protein.IRI").
		Where("Category", filter.OpMatch, "Tcell")

	m, err := Combined(iedb, spec, table.DefaultIEDBSchema, other)
	if err != nil {
		t.Fatalf("Combined() error = %v", err)
	}

	// The generic source overrides P99999 entirely
	want := core.PeptideMap{
		"P12345": {"AAA"},
		"P99999": {"CCC"},
	}
	if !reflect.DeepEqual(m, want) {
		t.Errorf("Combined() = %v, want %v", m, want)
	}
}

func TestMissingValueRowAbsentDownstream(t *testing.T) {
	path := writeCSV(t, "iedb.csv", `Description,Parent.Protein.IRI,Category
AAA,http://x/uniprot/P12345,Tcell
BBB,http://x/uniprot/P22222,
`)

	spec := filter.NewSpec().
		Require("Description").
		Require("Parent.Protein.IRI").
		Require("Category")

	m, err := Structured(path, spec, table.DefaultIEDBSchema)
	if err != nil {
		t.Fatalf("Structured() error = %v", err)
	}

	if _, ok := m["P22222"]; ok {
		t.Error("Row with an empty loaded value leaked into the peptide map")
	}
	if _, ok := m["P12345"]; !ok {
		t.Error("Complete row missing from the peptide map")
	}
}
