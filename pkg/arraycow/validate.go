// pkg/arraycow/validate.go
package arraycow

import (
	"fmt"

	"github.com/creativeyann17/go-arraycow/internal/chunk"
)

// Validate walks the whole store and cross-checks cached sizes, chunk
// user counts and pool accounting. It returns nil when everything is
// consistent, or an error wrapping ErrCorrupted. Intended for tests
// and debugging; it visits every ref of every state.
func (s *Store) Validate() error {
	// Cached sizes.
	for h, list := range s.states {
		size := 0
		for _, r := range list.Refs() {
			size += r.Chunk().Len()
		}
		if size != list.TotalSize() {
			return fmt.Errorf("%w: state %d cached size %d, walked %d",
				ErrCorrupted, h, list.TotalSize(), size)
		}
	}

	// User counts and lost references.
	users := make(map[*chunk.Chunk]int)
	refs := 0
	for _, list := range s.states {
		for _, r := range list.Refs() {
			users[r.Chunk()]++
			refs++
		}
	}
	for c, n := range users {
		if c.Users() != n {
			return fmt.Errorf("%w: chunk has %d users, %d refs observed",
				ErrCorrupted, c.Users(), n)
		}
	}

	// Pool accounting.
	if got := s.pools.LiveChunks(); got != len(users) {
		return fmt.Errorf("%w: %d live chunks pooled, %d reachable",
			ErrCorrupted, got, len(users))
	}
	if got := s.pools.LiveRefs(); got != refs {
		return fmt.Errorf("%w: %d live refs pooled, %d reachable",
			ErrCorrupted, got, refs)
	}
	if got := s.pools.LiveLists(); got != len(s.states) {
		return fmt.Errorf("%w: %d live lists pooled, %d states",
			ErrCorrupted, got, len(s.states))
	}
	bytes := 0
	for c := range users {
		bytes += c.Len()
	}
	if got := s.pools.ChunkBytes(); got != bytes {
		return fmt.Errorf("%w: %d chunk bytes pooled, %d reachable",
			ErrCorrupted, got, bytes)
	}
	return nil
}
