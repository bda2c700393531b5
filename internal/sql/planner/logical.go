package planner

import (
	"fmt"
	"strings"

	"github.com/meridiandb/MeridianDB/internal/catalog"
)

// LogicalOlapScan reads a base table or one of its materialized rollup
// indexes. A scan instance belongs to exactly one plan alternative; index
// selection returns a modified copy rather than mutating in place.
type LogicalOlapScan struct {
	basePlan

	Table                *catalog.Table
	SelectedPartitionIDs []int64
	Output               []*ColumnRef
	Hints                []string

	// IndexSelected is set once a materialized index has been chosen for
	// this scan; re-running selection is then a no-op.
	IndexSelected   bool
	SelectedIndexID int64
}

// NewLogicalOlapScan creates a scan over the given partitions producing the
// given output columns.
func NewLogicalOlapScan(table *catalog.Table, partitionIDs []int64, output []*ColumnRef, hints []string) *LogicalOlapScan {
	schema := &Schema{Columns: make([]Column, len(output))}
	for i, ref := range output {
		schema.Columns[i] = Column{Name: ref.ColumnName, DataType: ref.ColumnType}
	}
	return &LogicalOlapScan{
		basePlan:             basePlan{schema: schema},
		Table:                table,
		SelectedPartitionIDs: partitionIDs,
		Output:               output,
		Hints:                hints,
	}
}

func (s *LogicalOlapScan) logicalNode() {}

func (s *LogicalOlapScan) String() string {
	if s.IndexSelected {
		return fmt.Sprintf("OlapScan(%s, index=%d)", s.Table.TableName, s.SelectedIndexID)
	}
	return fmt.Sprintf("OlapScan(%s)", s.Table.TableName)
}

// OutputNameByID maps each output column's stable id to its textual name.
func (s *LogicalOlapScan) OutputNameByID() map[int64]string {
	m := make(map[int64]string, len(s.Output))
	for _, ref := range s.Output {
		m[ref.ColumnID] = ref.ColumnName
	}
	return m
}

// WithSelectedIndex returns a copy of the scan carrying the chosen index id.
func (s *LogicalOlapScan) WithSelectedIndex(indexID int64) *LogicalOlapScan {
	clone := *s
	clone.IndexSelected = true
	clone.SelectedIndexID = indexID
	return &clone
}

// LogicalFilter filters rows of its child by a conjunction of predicates.
// Conjuncts holds the already-split top-level conjuncts.
type LogicalFilter struct {
	basePlan

	Conjuncts []Expression
}

// NewLogicalFilter creates a new logical filter node.
func NewLogicalFilter(child LogicalPlan, conjuncts []Expression) *LogicalFilter {
	return &LogicalFilter{
		basePlan: basePlan{
			children: []Plan{child},
			schema:   child.Schema(),
		},
		Conjuncts: conjuncts,
	}
}

func (f *LogicalFilter) logicalNode() {}

func (f *LogicalFilter) String() string {
	parts := make([]string, len(f.Conjuncts))
	for i, c := range f.Conjuncts {
		parts[i] = c.String()
	}
	return fmt.Sprintf("Filter(%s)", strings.Join(parts, " AND "))
}
