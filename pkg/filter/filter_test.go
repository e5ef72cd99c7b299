package filter

import (
	"errors"
	"reflect"
	"testing"

	"github.com/pepmap/pepmap/pkg/table"
)

func testTable() *table.Table {
	return &table.Table{
		Columns: []string{"peptide_sequence", "Category", "Assay"},
		Rows: []table.Row{
			{"peptide_sequence": "AAA", "Category": "Tcell", "Assay": "ELISA"},
			{"peptide_sequence": "BBB", "Category": "Bcell", "Assay": "ELISPOT"},
			{"peptide_sequence": "CCC", "Category": "Tcell restricted", "Assay": "ELISA"},
			{"peptide_sequence": "DDD", "Category": "MHC", "Assay": "binding"},
		},
	}
}

func peptides(t *table.Table) []string {
	var out []string
	for _, row := range t.Rows {
		out = append(out, row["peptide_sequence"])
	}
	return out
}

func TestApplyOperators(t *testing.T) {
	tests := []struct {
		name string
		cond Condition
		want []string
	}{
		{
			name: "contains",
			cond: Condition{Column: "Category", Op: OpContains, Values: []string{"cell"}},
			want: []string{"AAA", "BBB", "CCC"},
		},
		{
			name: "contains is literal not pattern",
			cond: Condition{Column: "Category", Op: OpContains, Values: []string{"T.ell"}},
			want: nil,
		},
		{
			name: "not_contains",
			cond: Condition{Column: "Category", Op: OpNotContains, Values: []string{"cell"}},
			want: []string{"DDD"},
		},
		{
			name: "match",
			cond: Condition{Column: "Category", Op: OpMatch, Values: []string{"Tcell"}},
			want: []string{"AAA"},
		},
		{
			name: "not_match",
			cond: Condition{Column: "Category", Op: OpNotMatch, Values: []string{"Tcell"}},
			want: []string{"BBB", "CCC", "DDD"},
		},
		{
			name: "is_in",
			cond: Condition{Column: "Category", Op: OpIsIn, Values: []string{"Tcell", "MHC"}},
			want: []string{"AAA", "DDD"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := NewSpec().Where(tt.cond.Column, tt.cond.Op, tt.cond.Values...)
			got, err := spec.Apply(testTable())
			if err != nil {
				t.Fatalf("Apply() error = %v", err)
			}
			if !reflect.DeepEqual(peptides(got), tt.want) {
				t.Errorf("Expected rows %v, got %v", tt.want, peptides(got))
			}
		})
	}
}

func TestApplySequentialNarrowing(t *testing.T) {
	// A match on a column already narrowed by contains further restricts it
	spec := NewSpec().
		Where("Category", OpContains, "cell").
		Where("Category", OpMatch, "Tcell").
		Where("Assay", OpMatch, "ELISA")

	got, err := spec.Apply(testTable())
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if !reflect.DeepEqual(peptides(got), []string{"AAA"}) {
		t.Errorf("Expected [AAA], got %v", peptides(got))
	}
}

func TestApplyIdempotent(t *testing.T) {
	spec := NewSpec().Where("Category", OpContains, "cell")

	once, err := spec.Apply(testTable())
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	twice, err := spec.Apply(once)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	if !reflect.DeepEqual(peptides(once), peptides(twice)) {
		t.Errorf("Filtering twice changed the result: %v vs %v", peptides(once), peptides(twice))
	}
}

func TestApplyPreservesInput(t *testing.T) {
	tbl := testTable()
	spec := NewSpec().Where("Category", OpMatch, "Tcell")

	if _, err := spec.Apply(tbl); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	if tbl.Len() != 4 {
		t.Errorf("Input table was mutated, now %d rows", tbl.Len())
	}
}

func TestApplySubsequence(t *testing.T) {
	tbl := testTable()
	spec := NewSpec().Where("Assay", OpMatch, "ELISA")

	got, err := spec.Apply(tbl)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	// Survivors appear in original order with no additions
	i := 0
	for _, row := range tbl.Rows {
		if i < got.Len() && reflect.DeepEqual(row, got.Rows[i]) {
			i++
		}
	}
	if i != got.Len() {
		t.Errorf("Filtered rows are not a subsequence of the input rows")
	}
}

func TestApplyNoConditions(t *testing.T) {
	spec := NewSpec().Require("Category")

	got, err := spec.Apply(testTable())
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if got.Len() != 4 {
		t.Errorf("Load-only spec should keep all rows, got %d", got.Len())
	}
}

func TestApplyInvalidConditions(t *testing.T) {
	tests := []struct {
		name string
		cond Condition
	}{
		{"unknown operator", Condition{Column: "Category", Op: Op(42), Values: []string{"x"}}},
		{"missing operand", Condition{Column: "Category", Op: OpMatch}},
		{"empty is_in set", Condition{Column: "Category", Op: OpIsIn}},
		{"unknown column", Condition{Column: "Nope", Op: OpMatch, Values: []string{"x"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := applyCondition(testTable(), tt.cond)
			var condErr *InvalidConditionError
			if !errors.As(err, &condErr) {
				t.Errorf("Expected InvalidConditionError, got %v", err)
			}
		})
	}
}

func TestParseOp(t *testing.T) {
	for name, want := range opNames {
		op, err := ParseOp(name)
		if err != nil {
			t.Errorf("ParseOp(%q) error = %v", name, err)
		}
		if op != want {
			t.Errorf("ParseOp(%q) = %v, want %v", name, op, want)
		}
	}

	if _, err := ParseOp("regex"); err == nil {
		t.Error("Expected error for unknown operator name")
	}
}

func TestSpecColumns(t *testing.T) {
	spec := NewSpec().
		Require("Description").
		Require("Parent.Protein.IRI").
		Where("Category", OpMatch, "Tcell").
		Where("Category", OpContains, "T")

	want := []string{"Description", "Parent.Protein.IRI", "Category"}
	if !reflect.DeepEqual(spec.Columns(), want) {
		t.Errorf("Expected columns %v, got %v", want, spec.Columns())
	}
	if len(spec.Conditions()) != 2 {
		t.Errorf("Expected 2 conditions, got %d", len(spec.Conditions()))
	}
}
