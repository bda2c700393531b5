package sketch

import (
	"math"

	"github.com/bits-and-blooms/bitset"

	"github.com/meridiandb/MeridianDB/internal/errors"
)

// MaxBitmapValue is the largest value a bitmap column accepts. Values are
// stored by position, so the domain is restricted to unsigned 32-bit ints.
const MaxBitmapValue = math.MaxUint32

// Bitmap is an exact distinct set over non-negative integers, the
// representation behind BITMAP-typed materialized columns.
type Bitmap struct {
	bs *bitset.BitSet
}

// NewBitmap creates an empty bitmap.
func NewBitmap() *Bitmap {
	return &Bitmap{bs: bitset.New(0)}
}

// Add inserts a value. The caller is responsible for range checking.
func (b *Bitmap) Add(v uint) {
	b.bs.Set(v)
}

// AddChecked inserts a value after validating it fits the bitmap domain.
// This is the to_bitmap_with_check builtin: out-of-range input is an error,
// where the unchecked to_bitmap builtin yields NULL instead.
func (b *Bitmap) AddChecked(v int64) error {
	if v < 0 || v > MaxBitmapValue {
		return errors.NumericValueOutOfRangeError("BITMAP", v)
	}
	b.bs.Set(uint(v))
	return nil
}

// Contains reports whether a value is in the set.
func (b *Bitmap) Contains(v uint) bool {
	return b.bs.Test(v)
}

// Cardinality returns the exact number of distinct values added.
func (b *Bitmap) Cardinality() uint64 {
	return uint64(b.bs.Count())
}

// Union folds another bitmap into this one.
func (b *Bitmap) Union(other *Bitmap) {
	b.bs.InPlaceUnion(other.bs)
}
