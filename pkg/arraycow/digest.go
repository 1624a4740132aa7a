// pkg/arraycow/digest.go
package arraycow

import "github.com/zeebo/blake3"

// StateDigest returns the BLAKE3 digest of a state's content,
// streamed chunk by chunk without materializing the state.
func (s *Store) StateDigest(h StateHandle) ([32]byte, error) {
	var digest [32]byte
	list, ok := s.states[h]
	if !ok {
		return digest, ErrUnknownState
	}
	hasher := blake3.New()
	for _, r := range list.Refs() {
		hasher.Write(r.Chunk().Data())
	}
	copy(digest[:], hasher.Sum(nil))
	return digest, nil
}
