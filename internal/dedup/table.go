// internal/dedup/table.go
package dedup

import "github.com/creativeyann17/go-arraycow/internal/chunk"

// table is the transient hash index over the reference middle. It maps
// a chunk key to the reference indices carrying it, in insertion order,
// and lives only for the duration of one add.
type table struct {
	refs    []*chunk.Ref
	buckets map[uint64][]int
}

// buildTable indexes refs[lo:hi] by chunk key.
func buildTable(cfg Config, refs []*chunk.Ref, lo, hi int) *table {
	t := &table{
		refs:    refs,
		buckets: make(map[uint64][]int, hi-lo),
	}
	scratch := make([]uint64, cfg.readAheadUnits)
	for i := lo; i < hi; i++ {
		key := chunkKey(cfg, refs[i].Chunk(), scratch)
		t.buckets[key] = append(t.buckets[key], i)
	}
	return t
}

// lookup returns the first indexed reference whose chunk bytes equal
// data at offset, or -1. Key matches are candidates only; every
// candidate is confirmed byte-exact, and candidates longer than the
// remaining bytes are rejected.
func (t *table) lookup(data []byte, dataLen, offset int, key uint64) int {
	for _, ci := range t.buckets[key] {
		if t.refs[ci].Chunk().EqualAt(data, dataLen, offset) {
			return ci
		}
	}
	return -1
}
