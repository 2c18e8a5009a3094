// internal/catalog/cache_test.go
package catalog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_MemoizesPerKey(t *testing.T) {
	c := NewCache()
	calls := 0

	fetch := func(ctx context.Context) (interface{}, error) {
		calls++
		return "value", nil
	}

	for i := 0; i < 3; i++ {
		v, err := c.Do(context.Background(), "k", fetch)
		require.NoError(t, err)
		assert.Equal(t, "value", v)
	}
	assert.Equal(t, 1, calls)

	_, err := c.Do(context.Background(), "other", fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestCache_ConcurrentCallersShareOneFetch(t *testing.T) {
	c := NewCache()
	var calls int32
	started := make(chan struct{})

	fetch := func(ctx context.Context) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		<-started
		return 42, nil
	}

	var wg sync.WaitGroup
	results := make([]interface{}, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := c.Do(context.Background(), "k", fetch)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}

	time.Sleep(20 * time.Millisecond)
	close(started)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for _, v := range results {
		assert.Equal(t, 42, v)
	}
}

func TestCache_FailedFetchIsEvicted(t *testing.T) {
	c := NewCache()
	calls := 0

	_, err := c.Do(context.Background(), "k", func(ctx context.Context) (interface{}, error) {
		calls++
		return nil, errors.New("backend down")
	})
	require.Error(t, err)

	v, err := c.Do(context.Background(), "k", func(ctx context.Context) (interface{}, error) {
		calls++
		return "recovered", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "recovered", v)
	assert.Equal(t, 2, calls)
}

func TestCache_WaiterRespectsContext(t *testing.T) {
	c := NewCache()
	block := make(chan struct{})
	defer close(block)

	go c.Do(context.Background(), "k", func(ctx context.Context) (interface{}, error) {
		<-block
		return "slow", nil
	})

	time.Sleep(10 * time.Millisecond) // let the fetch claim the key

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.Do(ctx, "k", func(ctx context.Context) (interface{}, error) {
		t.Fatal("second fetch must not run")
		return nil, nil
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCache_ClearAndReset(t *testing.T) {
	c := NewCache()
	calls := 0
	fetch := func(ctx context.Context) (interface{}, error) {
		calls++
		return calls, nil
	}

	c.Do(context.Background(), "a", fetch)
	c.Do(context.Background(), "b", fetch)
	assert.Equal(t, 2, calls)

	c.Clear("a")
	c.Do(context.Background(), "a", fetch)
	c.Do(context.Background(), "b", fetch)
	assert.Equal(t, 3, calls)

	c.Reset()
	c.Do(context.Background(), "a", fetch)
	c.Do(context.Background(), "b", fetch)
	assert.Equal(t, 5, calls)
}
