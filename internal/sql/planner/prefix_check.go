package planner

import (
	"github.com/meridiandb/MeridianDB/internal/errors"
)

// prefixCheckKind classifies how a single predicate conjunct can constrain
// an index's sorted key prefix.
type prefixCheckKind int

const (
	// checkUnusable predicates cannot seek a key prefix and are dropped
	// from consideration.
	checkUnusable prefixCheckKind = iota
	// checkEqual predicates pin a key column to a single value.
	checkEqual
	// checkNonEqual predicates constrain a key column to a range.
	checkNonEqual
)

// prefixIndexCheck is the outcome of classifying one conjunct.
type prefixIndexCheck struct {
	kind    prefixCheckKind
	colName string
}

var prefixCheckFailure = prefixIndexCheck{kind: checkUnusable}

// columnRefOrCast returns the column reference if expr is a bare column
// reference or a cast directly wrapping one.
func columnRefOrCast(expr Expression) (*ColumnRef, bool) {
	switch e := expr.(type) {
	case *ColumnRef:
		return e, true
	case *Cast:
		if ref, ok := e.Expr.(*ColumnRef); ok {
			return ref, true
		}
	}
	return nil, false
}

// checkPrefixIndex classifies one top-level conjunct against the sorted key
// prefix of a materialized index. Callers split conjunctions beforehand.
//
// A membership test is usable when the tested expression is a column (or a
// cast on one) and every option is a literal; it pins the column like an
// equality. A comparison is usable when exactly one side is a column (or
// cast on one) and the other side folds to a constant, in either order.
// Everything else is unusable; classification narrows, it never rejects.
//
// The only error case is a usable column reference whose id has no name in
// the scan output: that is an inconsistent plan snapshot, not a predicate
// shape problem.
func checkPrefixIndex(expr Expression, nameByID map[int64]string) (prefixIndexCheck, error) {
	switch e := expr.(type) {
	case *InPredicate:
		ref, ok := columnRefOrCast(e.Compare)
		if !ok {
			return prefixCheckFailure, nil
		}
		for _, opt := range e.Options {
			if _, isLit := opt.(*Literal); !isLit {
				return prefixCheckFailure, nil
			}
		}
		name, err := resolveColumnName(ref, nameByID)
		if err != nil {
			return prefixCheckFailure, err
		}
		return prefixIndexCheck{kind: checkEqual, colName: name}, nil

	case *ComparisonExpr:
		ref, ok := comparisonColumn(e.Left, e.Right)
		if !ok {
			ref, ok = comparisonColumn(e.Right, e.Left)
		}
		if !ok {
			return prefixCheckFailure, nil
		}
		name, err := resolveColumnName(ref, nameByID)
		if err != nil {
			return prefixCheckFailure, err
		}
		kind := checkNonEqual
		if e.Op.IsEquality() {
			kind = checkEqual
		}
		return prefixIndexCheck{kind: kind, colName: name}, nil

	default:
		return prefixCheckFailure, nil
	}
}

// comparisonColumn returns the column side of a comparison if maybeCol is a
// column (or cast on one) and maybeConst folds to a constant.
func comparisonColumn(maybeCol, maybeConst Expression) (*ColumnRef, bool) {
	ref, ok := columnRefOrCast(maybeCol)
	if !ok || !IsConstant(maybeConst) {
		return nil, false
	}
	return ref, true
}

func resolveColumnName(ref *ColumnRef, nameByID map[int64]string) (string, error) {
	name, ok := nameByID[ref.ColumnID]
	if !ok {
		return "", errors.UndefinedColumnRefError(ref.ColumnID)
	}
	return name, nil
}
