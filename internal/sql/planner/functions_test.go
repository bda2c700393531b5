package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridiandb/MeridianDB/internal/errors"
	"github.com/meridiandb/MeridianDB/internal/sketch"
	"github.com/meridiandb/MeridianDB/internal/sql/types"
)

func TestEvalToBitmap(t *testing.T) {
	v, err := EvalSketchBuiltin("to_bitmap", []types.Value{types.NewBigIntValue(42)})
	require.NoError(t, err)
	bm, ok := v.Data.(*sketch.Bitmap)
	require.True(t, ok)
	assert.True(t, bm.Contains(42))
	assert.Equal(t, uint64(1), bm.Cardinality())

	// Out-of-range input degrades to NULL without error.
	v, err = EvalSketchBuiltin("to_bitmap", []types.Value{types.NewBigIntValue(-1)})
	require.NoError(t, err)
	assert.True(t, v.IsNull())

	v, err = EvalSketchBuiltin("to_bitmap", []types.Value{types.NewNullValue()})
	require.NoError(t, err)
	assert.True(t, v.IsNull())
}

func TestEvalToBitmapWithCheck(t *testing.T) {
	v, err := EvalSketchBuiltin("to_bitmap_with_check", []types.Value{types.NewBigIntValue(42)})
	require.NoError(t, err)
	bm, ok := v.Data.(*sketch.Bitmap)
	require.True(t, ok)
	assert.True(t, bm.Contains(42))

	// Out-of-range input is an error rather than NULL.
	_, err = EvalSketchBuiltin("to_bitmap_with_check", []types.Value{types.NewBigIntValue(-1)})
	require.Error(t, err)
	assert.True(t, errors.IsError(err, errors.NumericValueOutOfRange))

	_, err = EvalSketchBuiltin("to_bitmap_with_check",
		[]types.Value{types.NewBigIntValue(sketch.MaxBitmapValue + 1)})
	require.Error(t, err)
	assert.True(t, errors.IsError(err, errors.NumericValueOutOfRange))

	// NULL input is still NULL, not an error.
	v, err = EvalSketchBuiltin("to_bitmap_with_check", []types.Value{types.NewNullValue()})
	require.NoError(t, err)
	assert.True(t, v.IsNull())
}

func TestEvalHLLHash(t *testing.T) {
	v, err := EvalSketchBuiltin("hll_hash", []types.Value{types.NewVarcharValue("user-1")})
	require.NoError(t, err)
	h, ok := v.Data.(*sketch.HLL)
	require.True(t, ok)
	assert.Equal(t, uint64(1), h.Count())

	v, err = EvalSketchBuiltin("hll_hash", []types.Value{types.NewNullValue()})
	require.NoError(t, err)
	assert.True(t, v.IsNull())
}

func TestEvalSketchBuiltinErrors(t *testing.T) {
	_, err := EvalSketchBuiltin("no_such_builtin", []types.Value{types.NewBigIntValue(1)})
	require.Error(t, err)
	assert.True(t, errors.IsError(err, errors.UndefinedFunction))

	_, err = EvalSketchBuiltin("to_bitmap", nil)
	require.Error(t, err)
	assert.True(t, errors.IsError(err, errors.InvalidParameterValue))

	_, err = EvalSketchBuiltin("to_bitmap_with_check", []types.Value{types.NewVarcharValue("x")})
	require.Error(t, err)
	assert.True(t, errors.IsError(err, errors.InvalidParameterValue))
}
