package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/meridiandb/MeridianDB/internal/errors"
	"github.com/meridiandb/MeridianDB/internal/sql/types"
)

// Catalog manages OLAP metadata: tables with their keys type, materialized
// rollup indexes, partitions, and per-partition row counts.
type Catalog interface {
	Accessor

	// Table operations
	CreateTable(schema *TableSchema) (*Table, error)
	GetTable(schemaName, tableName string) (*Table, error)
	DropTable(schemaName, tableName string) error
	ListTables(schemaName string) ([]*Table, error)

	// Rollup and partition operations
	AddRollupIndex(tableID int64, def *RollupDef) (*MaterializedIndex, error)
	AddPartition(tableID int64, name string) (*Partition, error)

	// Ingestion-side updates. Row counts grow monotonically; the planner
	// only ever reads them.
	AddRows(tableID, partitionID, indexID int64, rows uint64) error
	ObserveColumnValue(tableID int64, columnName string, v types.Value) error
}

// Accessor is the read-only catalog view the planner consumes.
type Accessor interface {
	TableByID(tableID int64) (*Table, error)
	SchemaByIndexID(tableID, indexID int64, includeGenerated bool) ([]*Column, error)
	PartitionRowCount(tableID, partitionID, indexID int64) (uint64, error)
	BaseIndexID(tableID int64) (int64, error)
}

// KeysType classifies how a table's key columns aggregate rows. It governs
// whether materialized index selection applies to scans of the table.
type KeysType int

const (
	// UnknownKeys is the zero value; index selection does not apply.
	UnknownKeys KeysType = iota
	// AggregateKeys tables pre-aggregate rows sharing a key.
	AggregateKeys
	// UniqueKeys tables keep the latest row per key.
	UniqueKeys
	// DuplicateKeys tables keep every row, sorted by key.
	DuplicateKeys
)

func (k KeysType) String() string {
	switch k {
	case AggregateKeys:
		return "AGGREGATE"
	case UniqueKeys:
		return "UNIQUE"
	case DuplicateKeys:
		return "DUPLICATE"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// AggregationType is the aggregation applied to a value column when rows
// collapse onto the same key.
type AggregationType int

const (
	AggNone AggregationType = iota
	AggSum
	AggMin
	AggMax
	AggReplace
	AggBitmapUnion
	AggHLLUnion
)

func (a AggregationType) String() string {
	switch a {
	case AggNone:
		return "NONE"
	case AggSum:
		return "SUM"
	case AggMin:
		return "MIN"
	case AggMax:
		return "MAX"
	case AggReplace:
		return "REPLACE"
	case AggBitmapUnion:
		return "BITMAP_UNION"
	case AggHLLUnion:
		return "HLL_UNION"
	default:
		return fmt.Sprintf("Unknown(%d)", int(a))
	}
}

// GeneratedColumnPrefix marks physical columns synthesized by a rollup
// rewrite (e.g. a bitmap column materializing to_bitmap_with_check(c)).
const GeneratedColumnPrefix = "mv_"

// Column represents a column of a table or materialized index.
type Column struct {
	ID         int64
	Name       string
	DataType   types.DataType
	IsKey      bool
	IsNullable bool
	AggType    AggregationType

	// SourceName is the logical column a generated column was rewritten
	// from. Empty for ordinary columns.
	SourceName string

	Stats *ColumnStats
}

// IsGenerated reports whether the column was synthesized by a rollup rewrite.
func (c *Column) IsGenerated() bool {
	return c.SourceName != "" || strings.HasPrefix(c.Name, GeneratedColumnPrefix)
}

// NameWithoutPrefix returns the logical name a generated column stands for.
// For ordinary columns it is the plain column name.
func (c *Column) NameWithoutPrefix() string {
	if c.SourceName != "" {
		return c.SourceName
	}
	return strings.TrimPrefix(c.Name, GeneratedColumnPrefix)
}

// MaterializedIndex is a rollup: a precomputed, independently sorted copy of
// a table's data over a subset or aggregation of its columns. Columns is
// ordered; the leading KeyColumnCount columns define the sort key, fixed at
// creation. Row counts live on the table's partitions.
type MaterializedIndex struct {
	ID             int64
	Name           string
	TableID        int64
	Columns        []*Column
	KeyColumnCount int
	CreatedAt      time.Time
}

// KeyColumns returns the ordered key-prefix columns.
func (i *MaterializedIndex) KeyColumns() []*Column {
	return i.Columns[:i.KeyColumnCount]
}

// Partition holds per-index row counts for one partition of a table.
type Partition struct {
	ID        int64
	Name      string
	rowCounts map[int64]uint64 // index id -> rows
}

// RowCount returns the number of rows the given index holds in this
// partition.
func (p *Partition) RowCount(indexID int64) uint64 {
	return p.rowCounts[indexID]
}

// AddRows records ingested rows for the given index.
func (p *Partition) AddRows(indexID int64, rows uint64) {
	if p.rowCounts == nil {
		p.rowCounts = make(map[int64]uint64)
	}
	p.rowCounts[indexID] += rows
}

// Table represents an OLAP table: a base index plus zero or more rollup
// indexes, split into partitions.
type Table struct {
	ID          int64
	SchemaName  string
	TableName   string
	KeysType    KeysType
	BaseIndexID int64
	Columns     []*Column
	Indexes     map[int64]*MaterializedIndex
	Partitions  map[int64]*Partition
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Index returns the materialized index with the given id.
func (t *Table) Index(indexID int64) (*MaterializedIndex, error) {
	idx, ok := t.Indexes[indexID]
	if !ok {
		return nil, errors.UndefinedIndexError(t.TableName, indexID)
	}
	return idx, nil
}

// Partition returns the partition with the given id.
func (t *Table) Partition(partitionID int64) (*Partition, error) {
	p, ok := t.Partitions[partitionID]
	if !ok {
		return nil, errors.UndefinedPartitionError(t.TableName, partitionID)
	}
	return p, nil
}

// SchemaByIndexID returns the ordered schema of the given index. When
// includeGenerated is false, columns synthesized by rollup rewrites are
// filtered out.
func (t *Table) SchemaByIndexID(indexID int64, includeGenerated bool) ([]*Column, error) {
	idx, err := t.Index(indexID)
	if err != nil {
		return nil, err
	}
	if includeGenerated {
		return idx.Columns, nil
	}
	cols := make([]*Column, 0, len(idx.Columns))
	for _, c := range idx.Columns {
		if c.IsGenerated() {
			continue
		}
		cols = append(cols, c)
	}
	return cols, nil
}

// TableSchema defines the structure for creating a new table.
type TableSchema struct {
	SchemaName string
	TableName  string
	KeysType   KeysType
	Columns    []ColumnDef
}

// ColumnDef defines a column of a table or rollup.
type ColumnDef struct {
	Name       string
	DataType   types.DataType
	IsKey      bool
	IsNullable bool
	AggType    AggregationType
	SourceName string
}

// RollupDef defines a rollup index over an existing table. Columns is
// ordered; key columns must form a prefix.
type RollupDef struct {
	Name    string
	Columns []ColumnDef
}
