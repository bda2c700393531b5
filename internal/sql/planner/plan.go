package planner

import (
	"github.com/meridiandb/MeridianDB/internal/sql/types"
)

// Plan represents a node in a query plan.
type Plan interface {
	// Children returns the child plans.
	Children() []Plan
	// Schema returns the output schema of this plan node.
	Schema() *Schema
	// String returns a string representation for debugging.
	String() string
}

// Schema represents the output schema of a plan node.
type Schema struct {
	Columns []Column
}

// Column represents a column in a schema.
type Column struct {
	Name     string
	DataType types.DataType
	Nullable bool
}

// LogicalPlan represents a logical plan node.
type LogicalPlan interface {
	Plan
	logicalNode()
}

// basePlan provides common plan node functionality.
type basePlan struct {
	children []Plan
	schema   *Schema
}

func (p *basePlan) Children() []Plan {
	return p.children
}

func (p *basePlan) Schema() *Schema {
	return p.schema
}
