package memo

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGetOrComputeCachesSuccess(t *testing.T) {
	t.Parallel()

	c := New[string](4)
	calls := 0
	compute := func() (string, error) {
		calls++
		return "v", nil
	}

	v, hit, err := c.GetOrCompute("k", compute)
	require.NoError(t, err)
	require.False(t, hit)
	require.Equal(t, "v", v)

	v, hit, err = c.GetOrCompute("k", compute)
	require.NoError(t, err)
	require.True(t, hit)
	require.Equal(t, "v", v)
	require.Equal(t, 1, calls)
}

func TestGetOrComputeDoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	c := New[int](4)
	boom := errors.New("boom")
	_, _, err := c.GetOrCompute("k", func() (int, error) { return 0, boom })
	require.ErrorIs(t, err, boom)
	require.Equal(t, 0, c.Len())

	v, hit, err := c.GetOrCompute("k", func() (int, error) { return 7, nil })
	require.NoError(t, err)
	require.False(t, hit)
	require.Equal(t, 7, v)
}

func TestGetOrComputeSharesConcurrentCalls(t *testing.T) {
	t.Parallel()

	c := New[int](4)
	var calls atomic.Int32
	release := make(chan struct{})
	compute := func() (int, error) {
		calls.Add(1)
		<-release
		return 42, nil
	}

	var wg sync.WaitGroup
	results := make([]int, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, _, err := c.GetOrCompute("same", compute)
			if err == nil {
				results[i] = v
			}
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	require.Equal(t, int32(1), calls.Load())
	for _, v := range results {
		require.Equal(t, 42, v)
	}
}

func TestSetEvictsOldestWhenFull(t *testing.T) {
	t.Parallel()

	c := New[int](2)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("a", 10)
	c.Set("c", 3)

	_, ok := c.Get("a")
	require.False(t, ok)
	v, ok := c.Get("b")
	require.True(t, ok)
	require.Equal(t, 2, v)
	require.Equal(t, 2, c.Len())
}
