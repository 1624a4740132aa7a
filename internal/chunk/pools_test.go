// internal/chunk/pools_test.go
package chunk

import "testing"

func TestPoolRecyclesFreedElements(t *testing.T) {
	p := NewPools()
	l := p.NewList()
	l.AppendData(p, []byte("abc"))
	c := l.Refs()[0].Chunk()

	l.Release(p)

	// The freed chunk comes back from the free list, fully reset.
	c2 := p.NewChunk([]byte("xy"))
	if c2 != c {
		t.Fatalf("expected the freed chunk to be recycled")
	}
	if string(c2.Data()) != "xy" {
		t.Fatalf("recycled chunk holds stale data: %q", c2.Data())
	}
	if _, ok := c2.CachedKey(); ok {
		t.Fatalf("recycled chunk has a stale cached key")
	}
}

func TestPoolSlabGrowth(t *testing.T) {
	p := NewPools()
	l := p.NewList()
	// More elements than one slab holds.
	for i := 0; i < slabSize+10; i++ {
		l.AppendData(p, []byte{byte(i)})
	}
	if p.LiveChunks() != slabSize+10 {
		t.Fatalf("expected %d live chunks, got %d", slabSize+10, p.LiveChunks())
	}
	l.Release(p)
	if p.LiveChunks() != 0 {
		t.Fatalf("expected 0 live chunks after release")
	}
}

func TestCacheKeySentinel(t *testing.T) {
	p := NewPools()
	c := p.NewChunk([]byte("data"))

	if _, ok := c.CachedKey(); ok {
		t.Fatal("fresh chunk must not have a cached key")
	}
	// A computed key equal to the unset sentinel is remapped so the
	// cache stays valid.
	got := c.CacheKey(keyUnset)
	if got != keyFallback {
		t.Fatalf("expected fallback key, got %#x", got)
	}
	key, ok := c.CachedKey()
	if !ok || key != keyFallback {
		t.Fatalf("cached key lost: %#x, %v", key, ok)
	}
}

func TestReset(t *testing.T) {
	p := NewPools()
	l := p.NewList()
	l.AppendData(p, []byte("abc"))

	p.Reset()
	if p.LiveChunks() != 0 || p.LiveRefs() != 0 || p.LiveLists() != 0 || p.ChunkBytes() != 0 {
		t.Fatal("reset did not zero the counters")
	}
}
