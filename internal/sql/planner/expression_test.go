package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/meridiandb/MeridianDB/internal/sql/types"
)

func TestExpressionString(t *testing.T) {
	k1 := colRef(1, "k1")

	tests := []struct {
		expr Expression
		want string
	}{
		{eq(k1, 5), "(k1 = 5)"},
		{gt(k1, 10), "(k1 > 10)"},
		{&ComparisonExpr{Op: OpNullSafeEqual, Left: k1, Right: intLit(5)}, "(k1 <=> 5)"},
		{&InPredicate{Compare: k1, Options: []Expression{intLit(1), intLit(2)}}, "k1 IN (1, 2)"},
		{&IsNull{Expr: k1}, "k1 IS NULL"},
		{&Cast{Expr: k1, Type: types.Varchar}, "CAST(k1 AS VARCHAR)"},
		{&Literal{Value: types.NewVarcharValue("o'brien"), Type: types.Varchar}, "'o''brien'"},
		{&Literal{Value: types.NewNullValue(), Type: types.Unknown}, "NULL"},
		{&ScalarFunc{Name: "to_bitmap", Args: []Expression{k1}, Type: types.Bitmap}, "to_bitmap(k1)"},
		{&AggregateExpr{Function: AggCount, Args: []Expression{k1}, Distinct: true, Type: types.BigInt}, "COUNT(DISTINCT k1)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.expr.String())
	}
}

func TestIsConstant(t *testing.T) {
	k1 := colRef(1, "k1")

	assert.True(t, IsConstant(intLit(1)))
	assert.True(t, IsConstant(&Cast{Expr: intLit(1), Type: types.Varchar}))
	assert.True(t, IsConstant(&ScalarFunc{Name: "abs", Args: []Expression{intLit(-1)}, Type: types.BigInt}))
	assert.False(t, IsConstant(k1))
	assert.False(t, IsConstant(&Cast{Expr: k1, Type: types.Varchar}))
	assert.False(t, IsConstant(&ScalarFunc{Name: "abs", Args: []Expression{k1}, Type: types.BigInt}))
	assert.False(t, IsConstant(&ComparisonExpr{Op: OpEqual, Left: k1, Right: intLit(1)}))
}

func TestCollectColumnNames(t *testing.T) {
	k1 := colRef(1, "k1")
	k2 := colRef(2, "k2")

	names := CollectColumnNames(
		eq(k1, 5),
		&InPredicate{Compare: k2, Options: []Expression{intLit(1)}},
		NullIndicator(colRef(3, "v1")),
	)
	assert.Equal(t, map[string]struct{}{"k1": {}, "k2": {}, "v1": {}}, names)

	assert.Empty(t, CollectColumnNames(intLit(1)))
	assert.Empty(t, CollectColumnNames())
}
