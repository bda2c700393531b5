package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridiandb/MeridianDB/internal/errors"
	"github.com/meridiandb/MeridianDB/internal/sql/types"
)

func salesSchema() *TableSchema {
	return &TableSchema{
		TableName: "sales",
		KeysType:  AggregateKeys,
		Columns: []ColumnDef{
			{Name: "day", DataType: types.BigInt, IsKey: true},
			{Name: "region", DataType: types.Varchar, IsKey: true},
			{Name: "amount", DataType: types.BigInt, AggType: AggSum},
			{Name: "user_id", DataType: types.BigInt, AggType: AggNone},
		},
	}
}

func TestCreateTable(t *testing.T) {
	cat := NewMemoryCatalog()
	table, err := cat.CreateTable(salesSchema())
	require.NoError(t, err)

	assert.Equal(t, "public", table.SchemaName)
	assert.Equal(t, AggregateKeys, table.KeysType)
	require.Len(t, table.Columns, 4)

	// The base index covers every column with the same key prefix.
	base, err := table.Index(table.BaseIndexID)
	require.NoError(t, err)
	assert.Equal(t, "sales", base.Name)
	assert.Len(t, base.Columns, 4)
	require.Equal(t, 2, base.KeyColumnCount)
	keys := base.KeyColumns()
	assert.Equal(t, "day", keys[0].Name)
	assert.Equal(t, "region", keys[1].Name)

	got, err := cat.GetTable("", "sales")
	require.NoError(t, err)
	assert.Same(t, table, got)

	byID, err := cat.TableByID(table.ID)
	require.NoError(t, err)
	assert.Same(t, table, byID)

	baseID, err := cat.BaseIndexID(table.ID)
	require.NoError(t, err)
	assert.Equal(t, table.BaseIndexID, baseID)
}

func TestCreateTableValidation(t *testing.T) {
	cat := NewMemoryCatalog()

	_, err := cat.CreateTable(&TableSchema{
		TableName: "nokeys",
		Columns:   []ColumnDef{{Name: "a", DataType: types.BigInt}},
	})
	require.Error(t, err)
	assert.True(t, errors.IsError(err, errors.FeatureNotSupported))

	_, err = cat.CreateTable(&TableSchema{
		TableName: "badkeys",
		KeysType:  DuplicateKeys,
		Columns: []ColumnDef{
			{Name: "v", DataType: types.BigInt},
			{Name: "k", DataType: types.BigInt, IsKey: true},
		},
	})
	require.Error(t, err)
	assert.True(t, errors.IsError(err, errors.FeatureNotSupported),
		"key columns must form a leading prefix")

	_, err = cat.CreateTable(salesSchema())
	require.NoError(t, err)
	_, err = cat.CreateTable(salesSchema())
	require.Error(t, err, "duplicate table name")
}

func TestAddRollupIndex(t *testing.T) {
	cat := NewMemoryCatalog()
	table, err := cat.CreateTable(salesSchema())
	require.NoError(t, err)

	idx, err := cat.AddRollupIndex(table.ID, &RollupDef{
		Name: "sales_by_region",
		Columns: []ColumnDef{
			{Name: "region", DataType: types.Varchar, IsKey: true},
			{Name: "amount", DataType: types.BigInt, AggType: AggSum},
			{Name: "mv_bitmap_union_user_id", DataType: types.Bitmap,
				AggType: AggBitmapUnion, SourceName: "user_id"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, idx.KeyColumnCount)
	assert.Same(t, idx, table.Indexes[idx.ID])

	// Generated columns are visible only when asked for.
	full, err := cat.SchemaByIndexID(table.ID, idx.ID, true)
	require.NoError(t, err)
	assert.Len(t, full, 3)

	plain, err := cat.SchemaByIndexID(table.ID, idx.ID, false)
	require.NoError(t, err)
	require.Len(t, plain, 2)
	assert.Equal(t, "region", plain[0].Name)
	assert.Equal(t, "amount", plain[1].Name)

	_, err = cat.AddRollupIndex(999, &RollupDef{Name: "ghost"})
	require.Error(t, err)
	assert.True(t, errors.IsError(err, errors.UndefinedTable))
}

func TestPartitionRowCounts(t *testing.T) {
	cat := NewMemoryCatalog()
	table, err := cat.CreateTable(salesSchema())
	require.NoError(t, err)

	p, err := cat.AddPartition(table.ID, "p202601")
	require.NoError(t, err)

	require.NoError(t, cat.AddRows(table.ID, p.ID, table.BaseIndexID, 100))
	require.NoError(t, cat.AddRows(table.ID, p.ID, table.BaseIndexID, 50))

	rows, err := cat.PartitionRowCount(table.ID, p.ID, table.BaseIndexID)
	require.NoError(t, err)
	assert.Equal(t, uint64(150), rows)

	// Unknown index id within a partition reads as zero rows.
	rows, err = cat.PartitionRowCount(table.ID, p.ID, 12345)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), rows)

	err = cat.AddRows(table.ID, 999, table.BaseIndexID, 1)
	require.Error(t, err)
	assert.True(t, errors.IsError(err, errors.UndefinedObject))

	err = cat.AddRows(table.ID, p.ID, 999, 1)
	require.Error(t, err)
	assert.True(t, errors.IsError(err, errors.UndefinedObject))
}

func TestObserveColumnValue(t *testing.T) {
	cat := NewMemoryCatalog()
	table, err := cat.CreateTable(salesSchema())
	require.NoError(t, err)

	for i := int64(0); i < 10; i++ {
		require.NoError(t, cat.ObserveColumnValue(table.ID, "user_id", types.NewBigIntValue(i%5)))
	}
	require.NoError(t, cat.ObserveColumnValue(table.ID, "user_id", types.NewNullValue()))

	var userID *Column
	for _, col := range table.Columns {
		if col.Name == "user_id" {
			userID = col
		}
	}
	require.NotNil(t, userID)
	assert.Equal(t, uint64(5), userID.Stats.DistinctCount())
	assert.Equal(t, int64(1), userID.Stats.NullCount)

	err = cat.ObserveColumnValue(table.ID, "no_such_column", types.NewBigIntValue(1))
	require.Error(t, err)
	assert.True(t, errors.IsError(err, errors.UndefinedColumn))
}

func TestDropTable(t *testing.T) {
	cat := NewMemoryCatalog()
	table, err := cat.CreateTable(salesSchema())
	require.NoError(t, err)

	require.NoError(t, cat.DropTable("", "sales"))
	_, err = cat.GetTable("", "sales")
	require.Error(t, err)
	_, err = cat.TableByID(table.ID)
	require.Error(t, err)

	err = cat.DropTable("", "sales")
	require.Error(t, err)
	assert.True(t, errors.IsError(err, errors.UndefinedTable))
}

func TestListTables(t *testing.T) {
	cat := NewMemoryCatalog()
	_, err := cat.CreateTable(salesSchema())
	require.NoError(t, err)
	_, err = cat.CreateTable(&TableSchema{
		SchemaName: "other",
		TableName:  "t",
		KeysType:   DuplicateKeys,
		Columns:    []ColumnDef{{Name: "k", DataType: types.BigInt, IsKey: true}},
	})
	require.NoError(t, err)

	tables, err := cat.ListTables("")
	require.NoError(t, err)
	assert.Len(t, tables, 1)

	tables, err = cat.ListTables("other")
	require.NoError(t, err)
	assert.Len(t, tables, 1)
}

func TestColumnNameWithoutPrefix(t *testing.T) {
	tests := []struct {
		name      string
		col       Column
		generated bool
		logical   string
	}{
		{
			name:      "plain column",
			col:       Column{Name: "user_id"},
			generated: false,
			logical:   "user_id",
		},
		{
			name:      "source name wins",
			col:       Column{Name: "mv_bitmap_union_user_id", SourceName: "user_id"},
			generated: true,
			logical:   "user_id",
		},
		{
			name:      "prefix stripped without source",
			col:       Column{Name: "mv_user_id"},
			generated: true,
			logical:   "user_id",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.generated, tt.col.IsGenerated())
			assert.Equal(t, tt.logical, tt.col.NameWithoutPrefix())
		})
	}
}
