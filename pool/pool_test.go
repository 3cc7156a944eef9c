package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundedBudget(t *testing.T) {
	p := NewBounded(100)

	a, err := p.Alloc(60)
	require.NoError(t, err)
	assert.Len(t, a, 60)
	assert.Equal(t, 40, p.Available())

	_, err = p.Alloc(50)
	assert.Equal(t, ErrNoMemory, err)

	p.Free(a)
	assert.Equal(t, 100, p.Available())

	b, err := p.Alloc(100)
	require.NoError(t, err)
	assert.True(t, p.Owns(b))
	assert.False(t, p.Owns(a))
}

func TestBoundedDoubleFree(t *testing.T) {
	p := NewBounded(10)
	buf, err := p.Alloc(10)
	require.NoError(t, err)

	p.Free(buf)
	p.Free(buf)
	assert.Equal(t, 10, p.Available())
}

func TestFallbackPrefersFastPool(t *testing.T) {
	fast := NewBounded(32)
	p := NewFallback(fast, Heap{})

	a, err := p.Alloc(32)
	require.NoError(t, err)
	assert.True(t, fast.Owns(a))

	// Fast pool is now full; the general pool takes over.
	b, err := p.Alloc(32)
	require.NoError(t, err)
	assert.False(t, fast.Owns(b))

	p.Free(a)
	assert.Equal(t, 32, fast.Available())
}

func TestFallbackTotalFailure(t *testing.T) {
	p := NewFallback(NewBounded(8), NewBounded(8))

	_, err := p.Alloc(16)
	assert.Equal(t, ErrNoMemory, err)
}
