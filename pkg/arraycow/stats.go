// pkg/arraycow/stats.go
package arraycow

import (
	"fmt"
	"strings"
)

// Stats is a snapshot of the store's bookkeeping.
type Stats struct {
	States int // live states
	Chunks int // live chunks (shared chunks counted once)
	Refs   int // live chunk refs across all states

	SizeExpanded  int // total logical bytes across states
	SizeCompacted int // bytes actually held by chunks
}

// Stats returns a snapshot of the store's current bookkeeping.
func (s *Store) Stats() Stats {
	return Stats{
		States:        len(s.states),
		Chunks:        s.pools.LiveChunks(),
		Refs:          s.pools.LiveRefs(),
		SizeExpanded:  s.SizeExpanded(),
		SizeCompacted: s.SizeCompacted(),
	}
}

// DedupRatio returns the share of logical bytes saved by chunk
// sharing, as a percentage.
func (st Stats) DedupRatio() float64 {
	if st.SizeExpanded == 0 {
		return 0
	}
	saved := st.SizeExpanded - st.SizeCompacted
	return float64(saved) / float64(st.SizeExpanded) * 100
}

// FormatSummary formats stats into a human-readable summary string.
func FormatSummary(st Stats) string {
	var sb strings.Builder
	sb.WriteString("Store:\n")
	fmt.Fprintf(&sb, "  States:          %d\n", st.States)
	fmt.Fprintf(&sb, "  Chunks:          %d (%d refs)\n", st.Chunks, st.Refs)
	fmt.Fprintf(&sb, "  Expanded size:   %.2f MiB\n", float64(st.SizeExpanded)/1024/1024)
	fmt.Fprintf(&sb, "  Compacted size:  %.2f MiB\n", float64(st.SizeCompacted)/1024/1024)
	fmt.Fprintf(&sb, "  Dedup ratio:     %.1f%%\n", st.DedupRatio())
	return sb.String()
}
