package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCurrentSizeNeverExceedsMax(t *testing.T) {
	m := NewMemory(10, 0)
	m.Put("a", []byte("1111"))
	m.Put("b", []byte("2222"))
	m.Put("c", []byte("333333333333")) // bigger than MaxBytes on its own

	assert.LessOrEqual(t, m.CurrentSize(), 10)
}

func TestMemoryLRUEvictsLeastRecentlyUsed(t *testing.T) {
	// Seed scenario 6: max_size=10, put a->"1111", b->"2222" (total 8),
	// get(a), put c->"3333" (exceeds): expect b evicted, a and c present,
	// current_size == 8.
	m := NewMemory(10, 0)
	m.Put("a", []byte("1111"))
	m.Put("b", []byte("2222"))

	_, ok := m.Get("a")
	require.True(t, ok)

	m.Put("c", []byte("3333"))

	_, bPresent := m.Get("b")
	assert.False(t, bPresent)

	av, aPresent := m.Get("a")
	require.True(t, aPresent)
	assert.Equal(t, []byte("1111"), av)

	cv, cPresent := m.Get("c")
	require.True(t, cPresent)
	assert.Equal(t, []byte("3333"), cv)

	assert.Equal(t, 8, m.CurrentSize())
}

func TestMemoryGetAfterExpirationIsMissAndRemoves(t *testing.T) {
	clock := time.Now()
	m := NewMemory(1024, time.Second)
	m.now = func() time.Time { return clock }

	m.Put("k", []byte("hello"))
	sizeBefore := m.CurrentSize()
	require.Greater(t, sizeBefore, 0)

	clock = clock.Add(2 * time.Second)
	_, ok := m.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, m.CurrentSize())
}

func TestMemoryPutClonesValue(t *testing.T) {
	m := NewMemory(1024, 0)
	src := []byte("mutable")
	m.Put("k", src)
	src[0] = 'X'

	v, ok := m.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("mutable"), v)
}
