package types

import (
	"fmt"
	"time"
)

// DataType represents a SQL data type known to the planner and catalog.
type DataType interface {
	// Name returns the SQL name of the type (e.g., "BIGINT", "BITMAP")
	Name() string

	// Size returns the storage size in bytes (-1 for variable size)
	Size() int
}

type scalarType struct {
	name string
	size int
}

func (t scalarType) Name() string { return t.name }
func (t scalarType) Size() int    { return t.size }

func (t scalarType) String() string { return t.name }

// Built-in types. Bitmap and HLL are the sketch-valued column types used by
// materialized rollup indexes for exact and approximate distinct sets.
var (
	Boolean   DataType = scalarType{name: "BOOLEAN", size: 1}
	TinyInt   DataType = scalarType{name: "TINYINT", size: 1}
	SmallInt  DataType = scalarType{name: "SMALLINT", size: 2}
	Integer   DataType = scalarType{name: "INTEGER", size: 4}
	BigInt    DataType = scalarType{name: "BIGINT", size: 8}
	Float     DataType = scalarType{name: "FLOAT", size: 4}
	Double    DataType = scalarType{name: "DOUBLE", size: 8}
	Varchar   DataType = scalarType{name: "VARCHAR", size: -1}
	Timestamp DataType = scalarType{name: "TIMESTAMP", size: 8}
	Bitmap    DataType = scalarType{name: "BITMAP", size: -1}
	HLL       DataType = scalarType{name: "HLL", size: -1}
	Unknown   DataType = scalarType{name: "UNKNOWN", size: -1}
)

// Value represents a SQL value that can be NULL.
type Value struct {
	Data interface{}
	Null bool
}

// NewValue creates a non-null value.
func NewValue(data interface{}) Value {
	return Value{Data: data, Null: false}
}

// NewNullValue creates a null value.
func NewNullValue() Value {
	return Value{Data: nil, Null: true}
}

// NewTinyIntValue creates a TINYINT value.
func NewTinyIntValue(v int8) Value {
	return NewValue(v)
}

// NewIntegerValue creates an INTEGER value.
func NewIntegerValue(v int32) Value {
	return NewValue(v)
}

// NewBigIntValue creates a BIGINT value.
func NewBigIntValue(v int64) Value {
	return NewValue(v)
}

// NewVarcharValue creates a VARCHAR value.
func NewVarcharValue(v string) Value {
	return NewValue(v)
}

// NewBooleanValue creates a BOOLEAN value.
func NewBooleanValue(v bool) Value {
	return NewValue(v)
}

// IsNull returns true if the value is NULL.
func (v Value) IsNull() bool {
	return v.Null
}

// String returns a string representation of the value.
func (v Value) String() string {
	if v.Null {
		return "NULL"
	}
	return fmt.Sprintf("%v", v.Data)
}

// AsInt64 returns the value as an int64.
func (v Value) AsInt64() (int64, error) {
	if v.Null {
		return 0, fmt.Errorf("cannot convert NULL to int64")
	}
	switch val := v.Data.(type) {
	case int8:
		return int64(val), nil
	case int16:
		return int64(val), nil
	case int32:
		return int64(val), nil
	case int64:
		return val, nil
	case int:
		return int64(val), nil
	default:
		return 0, fmt.Errorf("cannot convert %T to int64", v.Data)
	}
}

// AsString returns the value as a string.
func (v Value) AsString() (string, error) {
	if v.Null {
		return "", fmt.Errorf("cannot convert NULL to string")
	}
	if s, ok := v.Data.(string); ok {
		return s, nil
	}
	return "", fmt.Errorf("cannot convert %T to string", v.Data)
}

// Type returns the DataType of the value based on its underlying type.
func (v Value) Type() DataType {
	if v.Null {
		return Unknown
	}
	switch v.Data.(type) {
	case bool:
		return Boolean
	case int8:
		return TinyInt
	case int16:
		return SmallInt
	case int32:
		return Integer
	case int64:
		return BigInt
	case float32:
		return Float
	case float64:
		return Double
	case string:
		return Varchar
	case time.Time:
		return Timestamp
	default:
		return Unknown
	}
}

// Equal reports whether two values are equal. NULL equals NULL here; callers
// that need SQL tri-valued logic must check IsNull first.
func (v Value) Equal(other Value) bool {
	if v.Null || other.Null {
		return v.Null && other.Null
	}
	return v.Data == other.Data
}
