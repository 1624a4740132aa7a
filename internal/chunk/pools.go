// internal/chunk/pools.go
package chunk

// Free-list slab pools for chunks, refs and lists. Thousands of refs
// churn per edit; handing back fixed-size elements from slabs keeps
// that churn away from the garbage collector.

// slabSize is the number of elements allocated per slab.
const slabSize = 512

type pool[T any] struct {
	slab []T
	free []*T
}

func (p *pool[T]) get() *T {
	if n := len(p.free); n > 0 {
		el := p.free[n-1]
		p.free = p.free[:n-1]
		return el
	}
	if len(p.slab) == 0 {
		p.slab = make([]T, slabSize)
	}
	el := &p.slab[0]
	p.slab = p.slab[1:]
	return el
}

func (p *pool[T]) put(el *T) {
	var zero T
	*el = zero
	p.free = append(p.free, el)
}

func (p *pool[T]) reset() {
	p.slab = nil
	p.free = nil
}

// Pools owns all chunk, ref and list storage for one store and tracks
// live-object counts for stats and validation.
type Pools struct {
	chunks pool[Chunk]
	refs   pool[Ref]
	lists  pool[List]

	liveChunks int
	liveRefs   int
	liveLists  int
	chunkBytes int
}

// NewPools returns an empty pool set.
func NewPools() *Pools {
	return &Pools{}
}

// NewChunk allocates a chunk holding a copy of data.
// The new chunk starts with zero users.
func (p *Pools) NewChunk(data []byte) *Chunk {
	c := p.chunks.get()
	c.data = append(make([]byte, 0, len(data)), data...)
	c.users = 0
	c.key = keyUnset
	p.liveChunks++
	p.chunkBytes += len(data)
	return c
}

// NewList allocates an empty list.
func (p *Pools) NewList() *List {
	l := p.lists.get()
	p.liveLists++
	return l
}

func (p *Pools) newRef(c *Chunk) *Ref {
	r := p.refs.get()
	r.chunk = c
	p.liveRefs++
	return r
}

// decChunk drops one user from c, freeing it at zero.
func (p *Pools) decChunk(c *Chunk) {
	c.users--
	if c.users == 0 {
		p.chunkBytes -= len(c.data)
		p.liveChunks--
		p.chunks.put(c)
	}
}

func (p *Pools) freeRef(r *Ref) {
	p.liveRefs--
	p.refs.put(r)
}

func (p *Pools) freeList(l *List) {
	p.liveLists--
	p.lists.put(l)
}

// LiveChunks returns the number of live chunks.
func (p *Pools) LiveChunks() int { return p.liveChunks }

// LiveRefs returns the number of live refs.
func (p *Pools) LiveRefs() int { return p.liveRefs }

// LiveLists returns the number of live lists.
func (p *Pools) LiveLists() int { return p.liveLists }

// ChunkBytes returns the bytes held by live chunks
// (shared chunks counted once).
func (p *Pools) ChunkBytes() int { return p.chunkBytes }

// Reset drops all slabs and free lists, returning the pools to their
// initial empty condition. Everything previously allocated from them
// becomes invalid.
func (p *Pools) Reset() {
	p.chunks.reset()
	p.refs.reset()
	p.lists.reset()
	p.liveChunks = 0
	p.liveRefs = 0
	p.liveLists = 0
	p.chunkBytes = 0
}
