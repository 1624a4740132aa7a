// internal/dedup/accum.go
package dedup

import (
	"github.com/cespare/xxhash/v2"

	"github.com/creativeyann17/go-arraycow/internal/chunk"
)

// Accumulated hashing. One 64-bit sub-hash is taken per stride unit,
// then propagated backwards so that position i keys the readAheadUnits
// units starting at i. Reference chunks are keyed with the same scheme
// over their leading bytes, so equal content produces equal keys.

// subHashes fills dst with one xxHash64 per stride unit of data.
// len(data) must be at least len(dst)*stride bytes.
func subHashes(cfg Config, data []byte, dst []uint64) {
	for j := range dst {
		dst[j] = xxhash.Sum64(data[j*cfg.Stride : (j+1)*cfg.Stride])
	}
}

// accumulate propagates sub-hashes backwards over the whole array.
// Positions within steps of the end keep partial keys; probes there
// only ever match via the byte-exact verify, never by key.
func accumulate(h []uint64, steps int) {
	if steps > len(h) {
		steps = len(h)
	}
	searchLen := len(h) - steps
	for iter := steps; iter > 0; iter-- {
		off := iter
		for i := 0; i < searchLen; i++ {
			h[i] += h[i+off] * ((h[i] & 0xff) + 1)
		}
	}
}

// accumulateSingle produces in h[0] the same value accumulate would,
// while touching progressively less of the tail each pass.
func accumulateSingle(h []uint64, steps int) {
	if steps > len(h) {
		steps = len(h)
	}
	sub := steps
	for iter := steps; iter > 0; {
		searchLen := len(h) - sub
		off := iter
		for i := 0; i < searchLen; i++ {
			h[i] += h[i+off] * ((h[i] & 0xff) + 1)
		}
		iter--
		sub += iter
	}
}

// probeKeys builds the per-unit key array for the new middle bytes.
// O(len(m)/stride * steps) time, released before the add returns.
func probeKeys(cfg Config, m []byte) []uint64 {
	units := len(m) / cfg.Stride
	h := make([]uint64, units)
	subHashes(cfg, m[:units*cfg.Stride], h)
	accumulate(h, cfg.accumSteps)
	return h
}

// chunkKey returns c's index key, computing and caching it on first
// demand. Chunks shorter than the read-ahead window are keyed over
// their whole content. scratch must hold readAheadUnits entries.
func chunkKey(cfg Config, c *chunk.Chunk, scratch []uint64) uint64 {
	if key, ok := c.CachedKey(); ok {
		return key
	}
	var key uint64
	if c.Len() >= cfg.readAheadBytes {
		subHashes(cfg, c.Data()[:cfg.readAheadBytes], scratch)
		accumulateSingle(scratch, cfg.accumSteps)
		key = scratch[0]
	} else {
		key = xxhash.Sum64(c.Data())
	}
	return c.CacheKey(key)
}
