// Package extract sequences loading, filtering and reduction for one or two
// peptide data sources.
package extract

import (
	"github.com/pepmap/pepmap/pkg/core"
	"github.com/pepmap/pepmap/pkg/filter"
	"github.com/pepmap/pepmap/pkg/table"
)

// Structured extracts a peptide map from a structured (IEDB-style) export:
// load the spec's columns, apply its conditions, reduce to protein codes.
func Structured(path string, spec *filter.Spec, schema table.StructuredSchema) (core.PeptideMap, error) {
	t, err := table.LoadStructured(path, spec.Columns(), schema)
	if err != nil {
		return nil, err
	}
	filtered, err := spec.Apply(t)
	if err != nil {
		return nil, err
	}
	return core.Reduce(filtered)
}

// Generic extracts a peptide map from a generic database export. Generic
// sources carry the canonical columns already and are not filtered by
// condition rules.
func Generic(path string) (core.PeptideMap, error) {
	t, err := table.LoadGeneric(path)
	if err != nil {
		return nil, err
	}
	return core.Reduce(t)
}

// Combined runs a structured extraction and a generic extraction and merges
// the results, with the generic source overriding on protein code collision.
func Combined(structuredPath string, spec *filter.Spec, schema table.StructuredSchema, genericPath string) (core.PeptideMap, error) {
	base, err := Structured(structuredPath, spec, schema)
	if err != nil {
		return nil, err
	}
	override, err := Generic(genericPath)
	if err != nil {
		return nil, err
	}
	return core.Merge(base, override), nil
}
