package cache

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrComputeCachesValue(t *testing.T) {
	s := New(time.Hour, 10)
	calls := 0

	for i := 0; i < 3; i++ {
		got, err := GetOrCompute(s, Posts, "page-1", func() (string, error) {
			calls++
			return "result", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "result", got)
	}

	assert.Equal(t, 1, calls)
}

func TestComputeErrorIsNotCached(t *testing.T) {
	s := New(time.Hour, 10)
	calls := 0

	_, err := GetOrCompute(s, Posts, "k", func() (int, error) {
		calls++
		return 0, errors.New("boom")
	})
	require.Error(t, err)

	got, err := GetOrCompute(s, Posts, "k", func() (int, error) {
		calls++
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, 2, calls)
}

func TestInvalidateFlushesWholeRegionOnly(t *testing.T) {
	s := New(time.Hour, 10)
	s.Put(Posts, "a", 1)
	s.Put(Posts, "b", 2)
	s.Put(Categories, "all", 3)

	s.Invalidate(Posts)

	_, ok := s.Get(Posts, "a")
	assert.False(t, ok)
	_, ok = s.Get(Posts, "b")
	assert.False(t, ok)

	v, ok := s.Get(Categories, "all")
	require.True(t, ok)
	assert.Equal(t, 3, v)
}

func TestEntriesExpireAfterTTL(t *testing.T) {
	s := New(time.Minute, 10)
	current := time.Unix(1000, 0)
	s.now = func() time.Time { return current }

	s.Put(Posts, "k", "v")
	_, ok := s.Get(Posts, "k")
	assert.True(t, ok)

	current = current.Add(2 * time.Minute)
	_, ok = s.Get(Posts, "k")
	assert.False(t, ok)
}

func TestRegionCapEvicts(t *testing.T) {
	s := New(time.Hour, 2)
	s.Put(Posts, "a", 1)
	s.Put(Posts, "b", 2)
	s.Put(Posts, "c", 3)

	count := 0
	for _, k := range []string{"a", "b", "c"} {
		if _, ok := s.Get(Posts, k); ok {
			count++
		}
	}
	assert.Equal(t, 2, count)
}

func TestConcurrentMissesCollapse(t *testing.T) {
	s := New(time.Hour, 10)
	var calls atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := GetOrCompute(s, Posts, "hot", func() (string, error) {
				calls.Add(1)
				time.Sleep(10 * time.Millisecond)
				return "v", nil
			})
			assert.NoError(t, err)
			assert.Equal(t, "v", got)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
}
