package pool

import "errors"

// ErrNoMemory is returned when an allocation cannot be satisfied.
var ErrNoMemory = errors.New("pool: out of memory")

// Pool hands out byte buffers. Buffers must be returned to the pool
// they came from; Owns lets a caller work out which one that was.
type Pool interface {
	Alloc(size int) ([]byte, error)
	Free(buf []byte)
	Owns(buf []byte) bool
}

// Heap is a Pool backed directly by the Go heap. It never fails and
// Free is a no-op (the garbage collector reclaims the buffer).
type Heap struct{}

func (Heap) Alloc(size int) ([]byte, error) { return make([]byte, size), nil }
func (Heap) Free(buf []byte)                {}
func (Heap) Owns(buf []byte) bool           { return true }

// NewBounded returns a Pool with a fixed byte budget. Alloc fails with
// ErrNoMemory once outstanding allocations would exceed the budget.
func NewBounded(capacity int) *Bounded {
	return &Bounded{
		capacity:    capacity,
		outstanding: make(map[*byte]int),
	}
}

// Bounded models a fixed-size memory arena, such as the external fast
// RAM on a camera board. It tracks outstanding buffers so Free returns
// their bytes to the budget.
type Bounded struct {
	capacity    int
	used        int
	outstanding map[*byte]int
}

func (p *Bounded) Alloc(size int) ([]byte, error) {
	if size <= 0 || p.used+size > p.capacity {
		return nil, ErrNoMemory
	}
	buf := make([]byte, size)
	p.outstanding[&buf[0]] = size
	p.used += size
	return buf, nil
}

func (p *Bounded) Free(buf []byte) {
	if len(buf) == 0 {
		return
	}
	if size, ok := p.outstanding[&buf[0]]; ok {
		p.used -= size
		delete(p.outstanding, &buf[0])
	}
}

func (p *Bounded) Owns(buf []byte) bool {
	if len(buf) == 0 {
		return false
	}
	_, ok := p.outstanding[&buf[0]]
	return ok
}

// Available returns the number of bytes left in the budget.
func (p *Bounded) Available() int {
	return p.capacity - p.used
}

// NewFallback returns a Pool which allocates from fast first and falls
// back to general when fast is exhausted.
func NewFallback(fast, general Pool) *Fallback {
	return &Fallback{fast: fast, general: general}
}

// Fallback chains two pools. Callers never learn which pool satisfied
// a request; Free routes the buffer back to its owner.
type Fallback struct {
	fast    Pool
	general Pool
}

func (p *Fallback) Alloc(size int) ([]byte, error) {
	if buf, err := p.fast.Alloc(size); err == nil {
		return buf, nil
	}
	return p.general.Alloc(size)
}

func (p *Fallback) Free(buf []byte) {
	if p.fast.Owns(buf) {
		p.fast.Free(buf)
		return
	}
	p.general.Free(buf)
}

func (p *Fallback) Owns(buf []byte) bool {
	return p.fast.Owns(buf) || p.general.Owns(buf)
}
