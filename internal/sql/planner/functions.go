package planner

import (
	"strings"

	"github.com/meridiandb/MeridianDB/internal/errors"
	"github.com/meridiandb/MeridianDB/internal/sketch"
	"github.com/meridiandb/MeridianDB/internal/sql/types"
)

// EvalSketchBuiltin evaluates one of the sketch builtins over constant
// arguments. It pins down the semantic difference the rollup rewrite relies
// on: to_bitmap yields NULL for input outside the bitmap domain, while
// to_bitmap_with_check rejects it with an error.
func EvalSketchBuiltin(name string, args []types.Value) (types.Value, error) {
	switch strings.ToLower(name) {
	case FuncToBitmap:
		v, null, err := singleIntArg(name, args)
		if err != nil {
			return types.NewNullValue(), err
		}
		if null {
			return types.NewNullValue(), nil
		}
		bm := sketch.NewBitmap()
		if err := bm.AddChecked(v); err != nil {
			return types.NewNullValue(), nil
		}
		return types.NewValue(bm), nil

	case FuncToBitmapWithCheck:
		v, null, err := singleIntArg(name, args)
		if err != nil {
			return types.NewNullValue(), err
		}
		if null {
			return types.NewNullValue(), nil
		}
		bm := sketch.NewBitmap()
		if err := bm.AddChecked(v); err != nil {
			return types.NewNullValue(), err
		}
		return types.NewValue(bm), nil

	case FuncHLLHash:
		if len(args) != 1 {
			return types.NewNullValue(), arityError(name, len(args))
		}
		if args[0].IsNull() {
			return types.NewNullValue(), nil
		}
		h := sketch.NewHLL()
		h.Add([]byte(args[0].String()))
		return types.NewValue(h), nil

	default:
		return types.NewNullValue(), errors.UndefinedFunctionError(name)
	}
}

func singleIntArg(name string, args []types.Value) (v int64, null bool, err error) {
	if len(args) != 1 {
		return 0, false, arityError(name, len(args))
	}
	if args[0].IsNull() {
		return 0, true, nil
	}
	v, err = args[0].AsInt64()
	if err != nil {
		return 0, false, errors.Newf(errors.InvalidParameterValue,
			"%s expects an integer argument, got %s", name, args[0].Type().Name())
	}
	return v, false, nil
}

func arityError(name string, got int) error {
	return errors.Newf(errors.InvalidParameterValue, "%s expects 1 argument, got %d", name, got)
}
