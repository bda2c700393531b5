package catalog

import (
	"encoding/binary"

	"github.com/meridiandb/MeridianDB/internal/sketch"
	"github.com/meridiandb/MeridianDB/internal/sql/types"
)

// ColumnStats tracks the distinct-value structure of a column as rows are
// ingested. Small non-negative integer domains are tracked exactly with a
// bitmap; everything else falls back to an HLL estimate. The planner reads
// these counts as advisory only; staleness is tolerated.
type ColumnStats struct {
	NullCount int64

	hll   *sketch.HLL
	exact *sketch.Bitmap
	// exactOK stays true while every observed value fits the bitmap domain.
	exactOK bool
}

// NewColumnStats creates empty column statistics.
func NewColumnStats() *ColumnStats {
	return &ColumnStats{
		hll:     sketch.NewHLL(),
		exact:   sketch.NewBitmap(),
		exactOK: true,
	}
}

// Observe feeds one ingested value into the sketches.
func (s *ColumnStats) Observe(v types.Value) {
	if v.IsNull() {
		s.NullCount++
		return
	}
	if i, err := v.AsInt64(); err == nil {
		s.observeInt(i)
		return
	}
	s.exactOK = false
	s.hll.Add([]byte(v.String()))
}

func (s *ColumnStats) observeInt(v int64) {
	if s.exactOK {
		if err := s.exact.AddChecked(v); err != nil {
			s.exactOK = false
		}
	}
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(v))
	s.hll.Add(buf[:])
}

// DistinctCount returns the number of distinct non-null values observed:
// exact while the bitmap holds, estimated otherwise.
func (s *ColumnStats) DistinctCount() uint64 {
	if s.exactOK {
		return s.exact.Cardinality()
	}
	return s.hll.Count()
}

// Exact reports whether DistinctCount is exact rather than estimated.
func (s *ColumnStats) Exact() bool {
	return s.exactOK
}
