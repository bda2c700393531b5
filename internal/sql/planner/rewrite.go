package planner

import (
	"strings"

	"github.com/meridiandb/MeridianDB/internal/sql/types"
)

// Sketch builtins targeted by rollup rewrites.
const (
	FuncToBitmap          = "to_bitmap"
	FuncToBitmapWithCheck = "to_bitmap_with_check"
	FuncHLLHash           = "hll_hash"
)

// RewriteScalarFunc renders a scalar function application so it reads from
// the representation stored by the selected materialized index. Converting
// into a bitmap column goes through the checked variant, which rejects
// out-of-range input instead of producing NULL. Unrecognized functions are
// rebuilt over the target column unchanged.
func RewriteScalarFunc(fn *ScalarFunc, col *ColumnRef) string {
	if strings.EqualFold(fn.Name, FuncToBitmap) {
		rewritten := &ScalarFunc{Name: FuncToBitmapWithCheck, Args: []Expression{col}, Type: types.Bitmap}
		return rewritten.String()
	}
	rebuilt := &ScalarFunc{Name: fn.Name, Args: []Expression{col}, Type: fn.Type}
	return rebuilt.String()
}

// RewriteAggFunc renders an aggregate function application against the
// selected index's pre-aggregated columns. An exact single-column distinct
// count becomes bitmap-union-compatible input; NDV is served from a
// HyperLogLog column. Everything else is rebuilt over the target column
// unchanged, preserving DISTINCT.
func RewriteAggFunc(agg *AggregateExpr, col *ColumnRef) string {
	if agg.Function == AggCount && agg.Distinct && len(agg.Args) == 1 {
		rewritten := &ScalarFunc{Name: FuncToBitmapWithCheck, Args: []Expression{col}, Type: types.Bitmap}
		return rewritten.String()
	}
	if agg.Function == AggNDV {
		rewritten := &ScalarFunc{Name: FuncHLLHash, Args: []Expression{col}, Type: types.HLL}
		return rewritten.String()
	}
	rebuilt := &AggregateExpr{Function: agg.Function, Args: []Expression{col}, Distinct: agg.Distinct, Type: agg.Type}
	return rebuilt.String()
}

// NullIndicator builds CASE WHEN expr IS NULL THEN 0 ELSE 1 END as a
// TINYINT expression: the null-aware 0/1 indicator aggregate rewrites use
// to distinguish NULL from present values.
func NullIndicator(expr Expression) Expression {
	return &CaseWhen{
		Clauses: []WhenClause{{
			When: &IsNull{Expr: expr},
			Then: &Literal{Value: types.NewTinyIntValue(0), Type: types.TinyInt},
		}},
		Else: &Literal{Value: types.NewTinyIntValue(1), Type: types.TinyInt},
	}
}
