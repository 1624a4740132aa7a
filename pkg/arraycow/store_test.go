// pkg/arraycow/store_test.go
package arraycow

import (
	"bytes"
	"errors"
	"testing"

	"github.com/zeebo/blake3"
)

func mustAdd(t *testing.T, s *Store, data []byte) StateHandle {
	t.Helper()
	h, err := s.AddData(data)
	if err != nil {
		t.Fatalf("AddData: %v", err)
	}
	return h
}

func mustAddRef(t *testing.T, s *Store, data []byte, ref StateHandle) StateHandle {
	t.Helper()
	h, err := s.AddDataWithRef(data, ref)
	if err != nil {
		t.Fatalf("AddDataWithRef: %v", err)
	}
	return h
}

func mustBytes(t *testing.T, s *Store, h StateHandle) []byte {
	t.Helper()
	data, err := s.StateBytes(h)
	if err != nil {
		t.Fatalf("StateBytes: %v", err)
	}
	return data
}

func TestNewInvalidConfig(t *testing.T) {
	if _, err := New(0, 8); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("stride 0: got %v", err)
	}
	if _, err := New(4, 2); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("chunk size < stride: got %v", err)
	}
}

func TestNewRoundsChunkSizeDown(t *testing.T) {
	s, err := New(4, 18)
	if err != nil {
		t.Fatal(err)
	}
	if s.ChunkSize() != 16 {
		t.Errorf("chunk size %d, want 16", s.ChunkSize())
	}
}

func TestRoundTrip(t *testing.T) {
	s, _ := New(1, 8)

	inputs := [][]byte{
		[]byte("The quick brown fox jumps over the lazy dog"),
		[]byte("The quick brown fox almost jumps over the lazy dog"),
		[]byte("The little quick brown fox jumps over the lazy dog!"),
	}

	a := mustAdd(t, s, inputs[0])
	b := mustAddRef(t, s, inputs[1], a)
	c := mustAddRef(t, s, inputs[2], b)

	for i, h := range []StateHandle{a, b, c} {
		if got := mustBytes(t, s, h); !bytes.Equal(got, inputs[i]) {
			t.Errorf("state %d: got %q, want %q", i, got, inputs[i])
		}
	}
	if err := s.Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestEmptyState(t *testing.T) {
	s, _ := New(1, 8)
	h := mustAdd(t, s, nil)

	size, err := s.StateSize(h)
	if err != nil || size != 0 {
		t.Fatalf("StateSize: %d, %v", size, err)
	}
	if got := mustBytes(t, s, h); len(got) != 0 {
		t.Fatalf("expected empty bytes, got %d", len(got))
	}
	// An empty state is a legal reference.
	h2 := mustAddRef(t, s, []byte("abc"), h)
	if got := mustBytes(t, s, h2); !bytes.Equal(got, []byte("abc")) {
		t.Fatalf("got %q", got)
	}
	// And empty data against a non-empty reference.
	h3 := mustAddRef(t, s, nil, h2)
	if got := mustBytes(t, s, h3); len(got) != 0 {
		t.Fatalf("expected empty bytes, got %d", len(got))
	}
}

func TestUnknownState(t *testing.T) {
	s, _ := New(1, 8)
	h := mustAdd(t, s, []byte("abcd"))

	bogus := h + 100
	if _, err := s.AddDataWithRef([]byte("ab"), bogus); !errors.Is(err, ErrUnknownState) {
		t.Errorf("AddDataWithRef: got %v", err)
	}
	if err := s.StateFree(bogus); !errors.Is(err, ErrUnknownState) {
		t.Errorf("StateFree: got %v", err)
	}
	if _, err := s.StateSize(bogus); !errors.Is(err, ErrUnknownState) {
		t.Errorf("StateSize: got %v", err)
	}
	if err := s.StateDataGet(bogus, nil); !errors.Is(err, ErrUnknownState) {
		t.Errorf("StateDataGet: got %v", err)
	}
	if _, err := s.StateBytes(bogus); !errors.Is(err, ErrUnknownState) {
		t.Errorf("StateBytes: got %v", err)
	}
	if _, err := s.StateDigest(bogus); !errors.Is(err, ErrUnknownState) {
		t.Errorf("StateDigest: got %v", err)
	}

	// Freed handles become unknown too.
	if err := s.StateFree(h); err != nil {
		t.Fatal(err)
	}
	if err := s.StateFree(h); !errors.Is(err, ErrUnknownState) {
		t.Errorf("double free: got %v", err)
	}
}

func TestOutputBufferSize(t *testing.T) {
	s, _ := New(1, 8)
	h := mustAdd(t, s, []byte("abcdef"))

	if err := s.StateDataGet(h, make([]byte, 5)); !errors.Is(err, ErrOutputBufferSize) {
		t.Errorf("short buffer: got %v", err)
	}
	if err := s.StateDataGet(h, make([]byte, 7)); !errors.Is(err, ErrOutputBufferSize) {
		t.Errorf("long buffer: got %v", err)
	}
	out := make([]byte, 6)
	if err := s.StateDataGet(h, out); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out, []byte("abcdef")) {
		t.Errorf("got %q", out)
	}
}

func TestUnalignedData(t *testing.T) {
	s, _ := New(4, 16)
	if _, err := s.AddData(make([]byte, 10)); !errors.Is(err, ErrUnalignedData) {
		t.Errorf("AddData: got %v", err)
	}
	h := mustAdd(t, s, make([]byte, 16))
	if _, err := s.AddDataWithRef(make([]byte, 10), h); !errors.Is(err, ErrUnalignedData) {
		t.Errorf("AddDataWithRef: got %v", err)
	}
}

func TestStateFreeReclaims(t *testing.T) {
	s, _ := New(1, 8)
	h := mustAdd(t, s, bytes.Repeat([]byte("a"), 64))

	if s.SizeCompacted() == 0 {
		t.Fatal("expected chunk bytes held")
	}
	if err := s.StateFree(h); err != nil {
		t.Fatal(err)
	}
	st := s.Stats()
	if st.States != 0 || st.Chunks != 0 || st.Refs != 0 || st.SizeCompacted != 0 {
		t.Fatalf("leak after free: %+v", st)
	}
}

func TestClear(t *testing.T) {
	s, _ := New(1, 8)
	a := mustAdd(t, s, []byte("abcdefgh"))
	mustAddRef(t, s, []byte("abcdefghijkl"), a)

	s.Clear()
	st := s.Stats()
	if st.States != 0 || st.Chunks != 0 || st.Refs != 0 {
		t.Fatalf("clear left %+v", st)
	}
	// Old handles are gone; the store is reusable.
	if _, err := s.StateBytes(a); !errors.Is(err, ErrUnknownState) {
		t.Errorf("old handle after clear: got %v", err)
	}
	h := mustAdd(t, s, []byte("fresh"))
	if got := mustBytes(t, s, h); !bytes.Equal(got, []byte("fresh")) {
		t.Fatalf("got %q", got)
	}
}

func TestStateDigest(t *testing.T) {
	s, _ := New(1, 8)
	data := []byte("digest me across several chunks please")
	h := mustAdd(t, s, data)

	got, err := s.StateDigest(h)
	if err != nil {
		t.Fatal(err)
	}
	want := blake3.Sum256(data)
	if got != want {
		t.Fatalf("digest mismatch")
	}
}

func TestSizes(t *testing.T) {
	s, _ := New(1, 8)
	data := bytes.Repeat([]byte("ab"), 32) // 64 bytes
	a := mustAdd(t, s, data)
	mustAddRef(t, s, data, a)

	if got := s.SizeExpanded(); got != 128 {
		t.Errorf("expanded %d, want 128", got)
	}
	// The second state shares every chunk with the first.
	if got := s.SizeCompacted(); got != 64 {
		t.Errorf("compacted %d, want 64", got)
	}
	if ratio := s.Stats().DedupRatio(); ratio != 50 {
		t.Errorf("dedup ratio %.1f, want 50", ratio)
	}
}
