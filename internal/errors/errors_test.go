package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorFormatting(t *testing.T) {
	err := New(UndefinedTable, "table does not exist")
	assert.Equal(t, "table does not exist (SQLSTATE 42P01)", err.Error())

	err = err.WithDetail("looked in schema public")
	assert.Contains(t, err.Error(), "DETAIL: looked in schema public")
}

func TestBuilders(t *testing.T) {
	err := Newf(UndefinedColumn, "column %q does not exist", "k1").
		WithTable("t").
		WithColumn("k1").
		WithHint("check the rollup definition")
	assert.Equal(t, UndefinedColumn, err.Code)
	assert.Equal(t, "t", err.Table)
	assert.Equal(t, "k1", err.Column)
	assert.Equal(t, "check the rollup definition", err.Hint)
}

func TestConstructors(t *testing.T) {
	assert.True(t, IsError(UndefinedTableError(7), UndefinedTable))
	assert.True(t, IsError(UndefinedIndexError("t", 3), UndefinedObject))
	assert.True(t, IsError(UndefinedPartitionError("t", 9), UndefinedObject))
	assert.True(t, IsError(UndefinedColumnRefError(5), InternalError))
	assert.True(t, IsError(NumericValueOutOfRangeError("BITMAP", -1), NumericValueOutOfRange))
	assert.True(t, IsError(UndefinedFunctionError("nope"), UndefinedFunction))
	assert.True(t, IsError(FeatureNotSupportedError("x"), FeatureNotSupported))
}

func TestIsError(t *testing.T) {
	err := UndefinedTableError(1)
	assert.True(t, IsError(err, UndefinedTable))
	assert.False(t, IsError(err, InternalError))
	assert.False(t, IsError(nil, UndefinedTable))
	assert.False(t, IsError(fmt.Errorf("plain"), UndefinedTable))
}

func TestGetError(t *testing.T) {
	require.Nil(t, GetError(nil))

	orig := UndefinedTableError(1)
	assert.Same(t, orig, GetError(orig))

	wrapped := GetError(fmt.Errorf("disk on fire"))
	require.NotNil(t, wrapped)
	assert.Equal(t, InternalError, wrapped.Code)
	assert.Contains(t, wrapped.Message, "disk on fire")
}
