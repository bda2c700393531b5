package catalog

import (
	"fmt"
	"sync"
	"time"

	"github.com/meridiandb/MeridianDB/internal/errors"
	"github.com/meridiandb/MeridianDB/internal/sql/types"
)

const defaultSchemaName = "public"

// MemoryCatalog is an in-memory implementation of the Catalog interface,
// used for planning tests and tools that work from metadata snapshots.
type MemoryCatalog struct {
	mu      sync.RWMutex
	tables  map[string]*Table // "schema.table" -> Table
	tableID map[int64]*Table
	nextID  int64
}

// NewMemoryCatalog creates a new in-memory catalog.
func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{
		tables:  make(map[string]*Table),
		tableID: make(map[int64]*Table),
		nextID:  1,
	}
}

func (c *MemoryCatalog) allocID() int64 {
	id := c.nextID
	c.nextID++
	return id
}

// CreateTable creates a new table together with its base index.
func (c *MemoryCatalog) CreateTable(schema *TableSchema) (*Table, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	schemaName := schema.SchemaName
	if schemaName == "" {
		schemaName = defaultSchemaName
	}
	key := fmt.Sprintf("%s.%s", schemaName, schema.TableName)
	if _, exists := c.tables[key]; exists {
		return nil, fmt.Errorf("table %q already exists", key)
	}
	if schema.KeysType == UnknownKeys {
		return nil, errors.FeatureNotSupportedError("table without keys type")
	}

	table := &Table{
		ID:         c.allocID(),
		SchemaName: schemaName,
		TableName:  schema.TableName,
		KeysType:   schema.KeysType,
		Indexes:    make(map[int64]*MaterializedIndex),
		Partitions: make(map[int64]*Partition),
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	cols, keyCount, err := c.buildColumns(schema.Columns)
	if err != nil {
		return nil, err
	}
	table.Columns = cols

	// The base index covers every table column in declaration order.
	base := &MaterializedIndex{
		ID:             c.allocID(),
		Name:           schema.TableName,
		TableID:        table.ID,
		Columns:        cols,
		KeyColumnCount: keyCount,
		CreatedAt:      time.Now(),
	}
	table.BaseIndexID = base.ID
	table.Indexes[base.ID] = base

	c.tables[key] = table
	c.tableID[table.ID] = table
	return table, nil
}

// buildColumns materializes column definitions, enforcing that key columns
// form a leading prefix of the declaration order.
func (c *MemoryCatalog) buildColumns(defs []ColumnDef) ([]*Column, int, error) {
	cols := make([]*Column, 0, len(defs))
	keyCount := 0
	sawValue := false
	for _, def := range defs {
		if def.IsKey {
			if sawValue {
				return nil, 0, errors.FeatureNotSupportedError(
					fmt.Sprintf("key column %q after value columns", def.Name))
			}
			keyCount++
		} else {
			sawValue = true
		}
		cols = append(cols, &Column{
			ID:         c.allocID(),
			Name:       def.Name,
			DataType:   def.DataType,
			IsKey:      def.IsKey,
			IsNullable: def.IsNullable,
			AggType:    def.AggType,
			SourceName: def.SourceName,
			Stats:      NewColumnStats(),
		})
	}
	return cols, keyCount, nil
}

// GetTable retrieves a table by name.
func (c *MemoryCatalog) GetTable(schemaName, tableName string) (*Table, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if schemaName == "" {
		schemaName = defaultSchemaName
	}
	table, exists := c.tables[fmt.Sprintf("%s.%s", schemaName, tableName)]
	if !exists {
		return nil, errors.Newf(errors.UndefinedTable, "table %q does not exist", tableName)
	}
	return table, nil
}

// DropTable removes a table and all of its indexes and partitions.
func (c *MemoryCatalog) DropTable(schemaName, tableName string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if schemaName == "" {
		schemaName = defaultSchemaName
	}
	key := fmt.Sprintf("%s.%s", schemaName, tableName)
	table, exists := c.tables[key]
	if !exists {
		return errors.Newf(errors.UndefinedTable, "table %q does not exist", tableName)
	}
	delete(c.tables, key)
	delete(c.tableID, table.ID)
	return nil
}

// ListTables returns all tables in a schema.
func (c *MemoryCatalog) ListTables(schemaName string) ([]*Table, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if schemaName == "" {
		schemaName = defaultSchemaName
	}
	var tables []*Table
	for _, t := range c.tables {
		if t.SchemaName == schemaName {
			tables = append(tables, t)
		}
	}
	return tables, nil
}

// AddRollupIndex creates a materialized rollup index on an existing table.
func (c *MemoryCatalog) AddRollupIndex(tableID int64, def *RollupDef) (*MaterializedIndex, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	table, ok := c.tableID[tableID]
	if !ok {
		return nil, errors.UndefinedTableError(tableID)
	}
	cols, keyCount, err := c.buildColumns(def.Columns)
	if err != nil {
		return nil, err
	}
	idx := &MaterializedIndex{
		ID:             c.allocID(),
		Name:           def.Name,
		TableID:        tableID,
		Columns:        cols,
		KeyColumnCount: keyCount,
		CreatedAt:      time.Now(),
	}
	table.Indexes[idx.ID] = idx
	table.UpdatedAt = time.Now()
	return idx, nil
}

// AddPartition creates a new empty partition on a table.
func (c *MemoryCatalog) AddPartition(tableID int64, name string) (*Partition, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	table, ok := c.tableID[tableID]
	if !ok {
		return nil, errors.UndefinedTableError(tableID)
	}
	p := &Partition{
		ID:        c.allocID(),
		Name:      name,
		rowCounts: make(map[int64]uint64),
	}
	table.Partitions[p.ID] = p
	table.UpdatedAt = time.Now()
	return p, nil
}

// AddRows records ingested rows for one index within one partition.
func (c *MemoryCatalog) AddRows(tableID, partitionID, indexID int64, rows uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	table, ok := c.tableID[tableID]
	if !ok {
		return errors.UndefinedTableError(tableID)
	}
	if _, err := table.Index(indexID); err != nil {
		return err
	}
	p, err := table.Partition(partitionID)
	if err != nil {
		return err
	}
	p.AddRows(indexID, rows)
	return nil
}

// ObserveColumnValue feeds one ingested value into the column's distinct
// sketches.
func (c *MemoryCatalog) ObserveColumnValue(tableID int64, columnName string, v types.Value) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	table, ok := c.tableID[tableID]
	if !ok {
		return errors.UndefinedTableError(tableID)
	}
	for _, col := range table.Columns {
		if col.Name == columnName {
			col.Stats.Observe(v)
			return nil
		}
	}
	return errors.Newf(errors.UndefinedColumn, "column %q does not exist in table %q",
		columnName, table.TableName).WithColumn(columnName)
}

// Accessor implementation.

// TableByID returns the table with the given id.
func (c *MemoryCatalog) TableByID(tableID int64) (*Table, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	table, ok := c.tableID[tableID]
	if !ok {
		return nil, errors.UndefinedTableError(tableID)
	}
	return table, nil
}

// SchemaByIndexID returns the ordered schema of an index.
func (c *MemoryCatalog) SchemaByIndexID(tableID, indexID int64, includeGenerated bool) ([]*Column, error) {
	table, err := c.TableByID(tableID)
	if err != nil {
		return nil, err
	}
	return table.SchemaByIndexID(indexID, includeGenerated)
}

// PartitionRowCount returns the row count of an index within a partition.
func (c *MemoryCatalog) PartitionRowCount(tableID, partitionID, indexID int64) (uint64, error) {
	table, err := c.TableByID(tableID)
	if err != nil {
		return 0, err
	}
	p, err := table.Partition(partitionID)
	if err != nil {
		return 0, err
	}
	return p.RowCount(indexID), nil
}

// BaseIndexID returns the id of the table's base index.
func (c *MemoryCatalog) BaseIndexID(tableID int64) (int64, error) {
	table, err := c.TableByID(tableID)
	if err != nil {
		return 0, err
	}
	return table.BaseIndexID, nil
}
