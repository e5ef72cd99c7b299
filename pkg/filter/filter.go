// Package filter provides the condition rule model and row filtering for
// epitope tables.
package filter

import (
	"fmt"
	"strings"

	"github.com/pepmap/pepmap/pkg/table"
)

// Op identifies a filter operator.
type Op int

const (
	OpInvalid Op = iota
	OpContains
	OpNotContains
	OpMatch
	OpNotMatch
	OpIsIn
)

// opNames are the textual operator names accepted in condition rules.
var opNames = map[string]Op{
	"contains":     OpContains,
	"not_contains": OpNotContains,
	"match":        OpMatch,
	"not_match":    OpNotMatch,
	"is_in":        OpIsIn,
}

func (op Op) String() string {
	for name, o := range opNames {
		if o == op {
			return name
		}
	}
	return fmt.Sprintf("Op(%d)", int(op))
}

// ParseOp resolves a textual operator name.
func ParseOp(s string) (Op, error) {
	if op, ok := opNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return op, nil
	}
	return OpInvalid, &InvalidConditionError{Reason: fmt.Sprintf("unknown operator %q", s)}
}

// Condition is a single column-level predicate. Values holds one operand for
// the substring and equality operators and the member set for is_in.
type Condition struct {
	Column string
	Op     Op
	Values []string
}

// InvalidConditionError reports an unknown operator or malformed operand.
type InvalidConditionError struct {
	Column string
	Reason string
}

func (e *InvalidConditionError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("invalid condition: %s", e.Reason)
	}
	return fmt.Sprintf("invalid condition on column %q: %s", e.Column, e.Reason)
}

// Spec is an ordered condition specification. Its columns are exactly the
// columns a structured load must retain; a column may be load-only (no
// predicate attached) or carry one or more predicates, applied in the order
// they were added.
type Spec struct {
	columns    []string
	seen       map[string]bool
	conditions []Condition
}

// NewSpec creates an empty condition specification.
func NewSpec() *Spec {
	return &Spec{seen: make(map[string]bool)}
}

// Require registers a load-only column.
func (s *Spec) Require(column string) *Spec {
	s.addColumn(column)
	return s
}

// Where registers a predicate on a column, adding the column to the load set
// if it is not yet present.
func (s *Spec) Where(column string, op Op, values ...string) *Spec {
	s.addColumn(column)
	s.conditions = append(s.conditions, Condition{Column: column, Op: op, Values: values})
	return s
}

func (s *Spec) addColumn(column string) {
	if !s.seen[column] {
		s.seen[column] = true
		s.columns = append(s.columns, column)
	}
}

// Columns returns the columns to load, in registration order.
func (s *Spec) Columns() []string {
	return s.columns
}

// Conditions returns the predicates in application order.
func (s *Spec) Conditions() []Condition {
	return s.conditions
}

// Apply filters t by the spec's conditions in order, each step narrowing the
// survivor set. The input table is never mutated; the result is a new table
// whose rows are an order-preserving subsequence of t's rows.
func (s *Spec) Apply(t *table.Table) (*table.Table, error) {
	out := t
	for _, cond := range s.conditions {
		narrowed, err := applyCondition(out, cond)
		if err != nil {
			return nil, err
		}
		out = narrowed
	}
	if out == t {
		// No conditions; still hand back a fresh table.
		out = &table.Table{Columns: t.Columns, Rows: append([]table.Row(nil), t.Rows...)}
	}
	return out, nil
}

func applyCondition(t *table.Table, c Condition) (*table.Table, error) {
	if !t.HasColumn(c.Column) {
		return nil, &InvalidConditionError{Column: c.Column, Reason: "column not present in table"}
	}
	match, err := c.predicate()
	if err != nil {
		return nil, err
	}

	out := table.New(t.Columns)
	for _, row := range t.Rows {
		if match(row[c.Column]) {
			out.Rows = append(out.Rows, row)
		}
	}
	return out, nil
}

// predicate compiles the condition into a value test.
func (c Condition) predicate() (func(string) bool, error) {
	switch c.Op {
	case OpContains, OpNotContains, OpMatch, OpNotMatch:
		if len(c.Values) != 1 {
			return nil, &InvalidConditionError{
				Column: c.Column,
				Reason: fmt.Sprintf("operator %s requires exactly one operand, got %d", c.Op, len(c.Values)),
			}
		}
	case OpIsIn:
		if len(c.Values) == 0 {
			return nil, &InvalidConditionError{Column: c.Column, Reason: "is_in requires at least one member"}
		}
	default:
		return nil, &InvalidConditionError{Column: c.Column, Reason: fmt.Sprintf("unknown operator %s", c.Op)}
	}

	switch c.Op {
	case OpContains:
		v := c.Values[0]
		return func(s string) bool { return strings.Contains(s, v) }, nil
	case OpNotContains:
		v := c.Values[0]
		return func(s string) bool { return !strings.Contains(s, v) }, nil
	case OpMatch:
		v := c.Values[0]
		return func(s string) bool { return s == v }, nil
	case OpNotMatch:
		v := c.Values[0]
		return func(s string) bool { return s != v }, nil
	default:
		members := make(map[string]bool, len(c.Values))
		for _, v := range c.Values {
			members[v] = true
		}
		return func(s string) bool { return members[s] }, nil
	}
}
