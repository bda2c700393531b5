// Package sketch provides the compact distinct-set representations stored in
// materialized rollup columns: HyperLogLog sketches for approximate distinct
// counts and validated bitmaps for exact ones.
package sketch

import (
	"hash/fnv"

	"github.com/axiomhq/hyperloglog"
)

// HLL is an approximate distinct counter backed by a 14-bit precision
// HyperLogLog sketch. The zero value is not usable; use NewHLL.
type HLL struct {
	sk *hyperloglog.Sketch
}

// NewHLL creates an empty HLL sketch.
func NewHLL() *HLL {
	return &HLL{sk: hyperloglog.New14()}
}

// Hash returns the stable 64-bit hash under which a raw value is folded into
// an HLL column.
func Hash(data []byte) uint64 {
	h := fnv.New64a()
	_, _ = h.Write(data)
	return h.Sum64()
}

// Add folds a raw value into the sketch.
func (h *HLL) Add(data []byte) {
	h.sk.InsertHash(Hash(data))
}

// AddHash folds an already-hashed value into the sketch.
func (h *HLL) AddHash(hash uint64) {
	h.sk.InsertHash(hash)
}

// Count returns the estimated number of distinct values added.
func (h *HLL) Count() uint64 {
	return h.sk.Estimate()
}

// Merge folds another sketch into this one.
func (h *HLL) Merge(other *HLL) error {
	return h.sk.Merge(other.sk)
}
