// pkg/arraycow/store.go

// Package arraycow is an in-memory, content-addressed, copy-on-write
// store for many versions of a byte array. Each add produces a new
// state; adjacent states share chunks, so the memory cost of a state
// is proportional to what changed, not to its total size. Designed to
// back an undo history for a structured editor.
//
// The store is single-threaded: callers must serialize access
// externally. Every operation completes before returning; StateFree
// reclaims unreferenced memory synchronously.
package arraycow

import (
	"github.com/creativeyann17/go-arraycow/internal/chunk"
	"github.com/creativeyann17/go-arraycow/internal/dedup"
)

// StateHandle identifies one state held by a Store. Handles stay
// unique for the lifetime of the store, including across Clear.
type StateHandle uint64

// Store holds any number of states sharing one stride and target
// chunk size.
type Store struct {
	cfg    dedup.Config
	pools  *chunk.Pools
	states map[StateHandle]*chunk.List
	next   StateHandle
}

// New creates a store. stride is the minimum meaningful byte
// granularity (>= 1); chunkSize is the target chunk byte length and is
// rounded down to a positive multiple of stride.
//
// A small chunk size increases the ability to share chunks but adds
// bookkeeping per state; a large one cheapens bookkeeping but makes an
// isolated change duplicate more bytes.
func New(stride, chunkSize uint32) (*Store, error) {
	if stride == 0 || chunkSize < stride {
		return nil, ErrInvalidConfig
	}
	chunkSize -= chunkSize % stride
	return &Store{
		cfg:    dedup.NewConfig(int(stride), int(chunkSize)),
		pools:  chunk.NewPools(),
		states: make(map[StateHandle]*chunk.List),
	}, nil
}

// Stride returns the configured stride.
func (s *Store) Stride() int { return s.cfg.Stride }

// ChunkSize returns the effective target chunk size.
func (s *Store) ChunkSize() int { return s.cfg.ChunkSize }

// AddData creates a state holding a copy of data, chunked fresh with
// no reference. Empty data is legal and yields an empty state.
func (s *Store) AddData(data []byte) (StateHandle, error) {
	if len(data)%s.cfg.Stride != 0 {
		return 0, ErrUnalignedData
	}
	return s.register(dedup.Fill(s.cfg, s.pools, data)), nil
}

// AddDataWithRef creates a state holding a copy of data, reusing
// chunks from the reference state wherever runs of bytes match
// byte-exactly. The reference state is unchanged, and no relationship
// to it is kept: states may be freed in any order.
func (s *Store) AddDataWithRef(data []byte, ref StateHandle) (StateHandle, error) {
	if len(data)%s.cfg.Stride != 0 {
		return 0, ErrUnalignedData
	}
	refList, ok := s.states[ref]
	if !ok {
		return 0, ErrUnknownState
	}
	if len(data) == 0 || refList.Len() == 0 {
		return s.register(dedup.Fill(s.cfg, s.pools, data)), nil
	}
	return s.register(dedup.Merge(s.cfg, s.pools, data, refList)), nil
}

// StateFree removes a state, dropping its chunk list and freeing any
// chunk that becomes unreferenced before returning.
func (s *Store) StateFree(h StateHandle) error {
	list, ok := s.states[h]
	if !ok {
		return ErrUnknownState
	}
	list.Release(s.pools)
	delete(s.states, h)
	return nil
}

// StateSize returns the byte length of a state.
func (s *Store) StateSize(h StateHandle) (int, error) {
	list, ok := s.states[h]
	if !ok {
		return 0, ErrUnknownState
	}
	return list.TotalSize(), nil
}

// StateDataGet writes the state's bytes into out, which must be
// exactly the state's length. The bytes are always identical to those
// passed to the add that created the state.
func (s *Store) StateDataGet(h StateHandle, out []byte) error {
	list, ok := s.states[h]
	if !ok {
		return ErrUnknownState
	}
	if len(out) != list.TotalSize() {
		return ErrOutputBufferSize
	}
	list.CopyTo(out)
	return nil
}

// StateBytes allocates and returns the state's bytes.
func (s *Store) StateBytes(h StateHandle) ([]byte, error) {
	list, ok := s.states[h]
	if !ok {
		return nil, ErrUnknownState
	}
	out := make([]byte, list.TotalSize())
	list.CopyTo(out)
	return out, nil
}

// Clear drops all states and returns the store's memory to its
// initial condition, allowing reuse.
func (s *Store) Clear() {
	s.states = make(map[StateHandle]*chunk.List)
	s.pools.Reset()
}

// SizeExpanded returns the total logical size of all states: the
// memory that fetching every state's bytes would take.
func (s *Store) SizeExpanded() int {
	total := 0
	for _, list := range s.states {
		total += list.TotalSize()
	}
	return total
}

// SizeCompacted returns the bytes actually held by chunks, counting
// each shared chunk once.
func (s *Store) SizeCompacted() int {
	return s.pools.ChunkBytes()
}

func (s *Store) register(list *chunk.List) StateHandle {
	h := s.next
	s.next++
	s.states[h] = list
	return h
}
