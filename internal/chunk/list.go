// internal/chunk/list.go
package chunk

// Ref is a single occurrence of a Chunk inside one List.
// It owns no bytes and contributes one count to its chunk's users.
type Ref struct {
	chunk *Chunk
}

// Chunk returns the target chunk.
func (r *Ref) Chunk() *Chunk { return r.chunk }

// List is the ordered sequence of Refs making up one state.
// Concatenating the chunks in list order reproduces the state's bytes.
type List struct {
	refs      []*Ref
	totalSize int
}

// Refs returns the list's refs in order.
func (l *List) Refs() []*Ref { return l.refs }

// Len returns the number of refs.
func (l *List) Len() int { return len(l.refs) }

// TotalSize returns the cached total byte length.
func (l *List) TotalSize() int { return l.totalSize }

// AppendChunk appends a new Ref to an existing chunk,
// incrementing the chunk's user count.
func (l *List) AppendChunk(p *Pools, c *Chunk) {
	r := p.newRef(c)
	c.users++
	l.refs = append(l.refs, r)
	l.totalSize += len(c.data)
}

// AppendData copies data into a freshly allocated chunk and appends
// a Ref to it.
func (l *List) AppendData(p *Pools, data []byte) {
	l.AppendChunk(p, p.NewChunk(data))
}

// Splice moves all of other's refs to the end of l, transferring
// ownership without touching chunk user counts. other is left empty
// but still allocated; the caller frees it.
func (l *List) Splice(other *List) {
	l.refs = append(l.refs, other.refs...)
	l.totalSize += other.totalSize
	other.refs = nil
	other.totalSize = 0
}

// CopyTo writes the list's bytes into out and returns the number of
// bytes written. out must hold at least TotalSize() bytes.
func (l *List) CopyTo(out []byte) int {
	n := 0
	for _, r := range l.refs {
		n += copy(out[n:], r.chunk.data)
	}
	return n
}

// Release drops every ref, decrementing chunk user counts and freeing
// chunks that reach zero, then frees the list itself.
func (l *List) Release(p *Pools) {
	for _, r := range l.refs {
		p.decChunk(r.chunk)
		p.freeRef(r)
	}
	l.refs = nil
	l.totalSize = 0
	p.freeList(l)
}
