package registry

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	r := New[string, int]()
	assert.NotNil(t, r)
	assert.Equal(t, 0, r.Len())
	assert.Equal(t, 0, r.Capacity())
}

func TestRegisterAndGet(t *testing.T) {
	r := New[string, int]()

	r.Register("one", 1)
	r.Register("two", 2)

	v, ok := r.Get("one")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	// Non-existent key
	v, ok = r.Get("three")
	assert.False(t, ok)
	assert.Equal(t, 0, v)
}

func TestRegisterOverwriteKeepsPosition(t *testing.T) {
	r := New[string, string]()

	r.Register("a", "old")
	r.Register("b", "b")
	r.Register("a", "new")

	v, ok := r.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "new", v)
	assert.Equal(t, []string{"a", "b"}, r.Keys())
}

func TestDelete(t *testing.T) {
	r := New[string, int]()
	r.Register("a", 1)
	r.Register("b", 2)

	r.Delete("a")
	r.Delete("missing")

	assert.False(t, r.Has("a"))
	assert.True(t, r.Has("b"))
	assert.Equal(t, []string{"b"}, r.Keys())
}

func TestClear(t *testing.T) {
	r := New[int, int]()
	r.Register(1, 1)
	r.Register(2, 2)

	r.Clear()

	assert.Equal(t, 0, r.Len())
	assert.Empty(t, r.Keys())
}

func TestCapacityEvictsOldest(t *testing.T) {
	r := New[string, int](WithCapacity(2))

	r.Register("a", 1)
	r.Register("b", 2)
	r.Register("c", 3)

	assert.Equal(t, 2, r.Len())
	assert.False(t, r.Has("a"))
	assert.Equal(t, []string{"b", "c"}, r.Keys())

	_, cached, err := r.GetOrCreate("d", func() (int, error) { return 4, nil })
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, []string{"c", "d"}, r.Keys())
}

func TestRangeInsertionOrder(t *testing.T) {
	r := New[string, int]()
	r.Register("x", 1)
	r.Register("y", 2)
	r.Register("z", 3)

	var keys []string
	r.Range(func(k string, _ int) bool {
		keys = append(keys, k)
		return k != "y"
	})

	assert.Equal(t, []string{"x", "y"}, keys)
}

func TestRangeAllowsMutation(t *testing.T) {
	r := New[string, int]()
	r.Register("a", 1)
	r.Register("b", 2)

	r.Range(func(k string, _ int) bool {
		r.Delete(k)
		r.Register(k+"!", 0)
		return true
	})

	assert.Equal(t, []string{"a!", "b!"}, r.Keys())
}

func TestGetOrCreate(t *testing.T) {
	r := New[string, int]()

	v, cached, err := r.GetOrCreate("key", func() (int, error) { return 42, nil })
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 42, v)

	v, cached, err = r.GetOrCreate("key", func() (int, error) {
		t.Fatal("factory called for existing key")
		return 0, nil
	})
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, 42, v)
}

func TestGetOrCreateDoesNotStoreFailures(t *testing.T) {
	r := New[string, int]()
	boom := errors.New("boom")

	_, _, err := r.GetOrCreate("key", func() (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, r.Has("key"))

	v, cached, err := r.GetOrCreate("key", func() (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 7, v)
}

func TestConcurrentGetOrCreate(t *testing.T) {
	r := New[string, int]()
	var wg sync.WaitGroup
	n := 100
	var callCount atomic.Int32

	factory := func() (int, error) {
		callCount.Add(1)
		return 42, nil
	}

	// Many goroutines trying to create the same key
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, _, err := r.GetOrCreate("key", factory)
			assert.NoError(t, err)
			assert.Equal(t, 42, v)
		}()
	}

	wg.Wait()

	// Factory should only be called once
	assert.Equal(t, int32(1), callCount.Load())
	assert.Equal(t, 1, r.Len())
}

func TestConcurrentBoundedWrites(t *testing.T) {
	r := New[int, int](WithCapacity(10))
	var wg sync.WaitGroup

	for i := range 200 {
		wg.Add(1)
		go func(key int) {
			defer wg.Done()
			r.Register(key, key)
			r.Get(key)
		}(i)
	}

	wg.Wait()

	assert.Equal(t, 10, r.Len())
	assert.Len(t, r.Keys(), 10)
}
