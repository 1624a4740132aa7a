// internal/dedup/merge.go
package dedup

import "github.com/creativeyann17/go-arraycow/internal/chunk"

// Fill builds a list from data with no reference: spans of exactly
// ChunkSize bytes, the last possibly shorter.
func Fill(cfg Config, p *chunk.Pools, data []byte) *chunk.List {
	l := p.NewList()
	appendFresh(cfg, p, l, data)
	return l
}

// appendFresh cuts span into fresh chunks of exactly ChunkSize bytes,
// the last possibly shorter.
func appendFresh(cfg Config, p *chunk.Pools, l *chunk.List, span []byte) {
	for len(span) > cfg.ChunkSize {
		l.AppendData(p, span[:cfg.ChunkSize])
		span = span[cfg.ChunkSize:]
	}
	if len(span) > 0 {
		l.AppendData(p, span)
	}
}

// Merge builds a list for data, reusing chunks from ref wherever runs
// of bytes match. ref is never modified. The result always reproduces
// data exactly; in the worst case every chunk is fresh.
func Merge(cfg Config, p *chunk.Pools, data []byte, ref *chunk.List) *chunk.List {
	refs := ref.Refs()
	out := p.NewList()

	// Head scan: reuse reference chunks while they match the prefix.
	headLen := 0
	iPrev := 0
	for headLen < len(refs) && iPrev < len(data) &&
		refs[headLen].Chunk().EqualAt(data, len(data), iPrev) {
		c := refs[headLen].Chunk()
		out.AppendChunk(p, c)
		iPrev += c.Len()
		headLen++
	}
	if iPrev == len(data) {
		// Full match, or bytes removed from the end of the array.
		return out
	}

	// Tail scan, backwards. Shrinking dataLen marks the matched suffix
	// off limits. The walk may not consume head-matched refs nor byte
	// ranges the head already claimed, and leaves the first ref to the
	// head scan even when the head matched nothing.
	dataLen := len(data)
	tailStart := len(refs)
	lowest := max(1, headLen)
	for ti := len(refs) - 1; ti >= lowest; ti-- {
		c := refs[ti].Chunk()
		if c.Len() > dataLen-iPrev {
			break
		}
		if !c.EqualAt(data, dataLen, dataLen-c.Len()) {
			break
		}
		dataLen -= c.Len()
		tailStart = ti
	}

	// Middle: hash-driven reuse over the remaining span.
	m := data[iPrev:dataLen]
	tableLo := headLen
	if headLen > 0 {
		// Index the last head-matched chunk too, so content repeating
		// right after the head can still be reused.
		tableLo = headLen - 1
	}
	if len(m) >= cfg.readAheadBytes && tableLo < tailStart {
		mid := p.NewList()
		mStart := iPrev
		keys := probeKeys(cfg, m)
		tbl := buildTable(cfg, refs, tableLo, tailStart)

		i := iPrev
		pending := iPrev
		for i < dataLen {
			ci := tbl.lookup(data, dataLen, i, keys[(i-mStart)/cfg.Stride])
			if ci < 0 {
				// Pending-fresh span grows; keep probes stride aligned.
				i += cfg.Stride
				continue
			}
			if pending < i {
				appendFresh(cfg, p, mid, data[pending:i])
			}
			c := refs[ci].Chunk()
			mid.AppendChunk(p, c)
			i += c.Len()
			// Chain-extend: runs of intact reference chunks match
			// without further hash probes.
			for ci+1 < tailStart {
				next := refs[ci+1].Chunk()
				if !next.EqualAt(data, dataLen, i) {
					break
				}
				mid.AppendChunk(p, next)
				i += next.Len()
				ci++
			}
			pending = i
		}
		if pending < dataLen {
			appendFresh(cfg, p, mid, data[pending:dataLen])
		}
		out.Splice(mid)
		mid.Release(p)
	} else if len(m) > 0 {
		appendFresh(cfg, p, out, m)
	}

	// Tail refs, in reference order from the split boundary to the end.
	for ti := tailStart; ti < len(refs); ti++ {
		out.AppendChunk(p, refs[ti].Chunk())
	}
	return out
}
