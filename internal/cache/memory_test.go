package cache

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

func TestMemoryStore_GetSetExpire(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewMemoryStore()
	s.now = func() time.Time { return now }

	require.NoError(t, s.Set(ctx, "a", []byte("1"), time.Minute))
	v, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), v)

	now = now.Add(2 * time.Minute)
	_, err = s.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemoryStore_DeletePrefix(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_ = s.Set(ctx, "news:list:1", []byte("x"), 0)
	_ = s.Set(ctx, "news:item:2", []byte("y"), 0)
	_ = s.Set(ctx, "school:info", []byte("z"), 0)

	require.NoError(t, s.DeletePrefix(ctx, "news:"))

	ok, err := s.Exists(ctx, "news:list:1")
	require.NoError(t, err)
	assert.False(t, ok)
	ok, _ = s.Exists(ctx, "school:info")
	assert.True(t, ok)
}

func TestMemoryStore_Incr(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewMemoryStore()
	s.now = func() time.Time { return now }

	for i := int64(1); i <= 3; i++ {
		n, err := s.Incr(ctx, "rl", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}

	now = now.Add(time.Minute + time.Second)
	n, err := s.Incr(ctx, "rl", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestLoader_CollapsesConcurrentMisses(t *testing.T) {
	ctx := context.Background()
	l := NewLoader(NewMemoryStore())

	var calls int32
	release := make(chan struct{})
	load := func(context.Context) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return map[string]int{"n": 42}, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var dst map[string]int
			assert.NoError(t, l.GetOrLoad(ctx, "k", time.Minute, &dst, load))
			assert.Equal(t, 42, dst["n"])
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	var dst map[string]int
	require.NoError(t, l.GetOrLoad(ctx, "k", time.Minute, &dst, func(context.Context) (interface{}, error) {
		return nil, errors.New("should be cached")
	}))
	assert.Equal(t, 42, dst["n"])
}

func TestLoader_PropagatesLoadError(t *testing.T) {
	l := NewLoader(NewMemoryStore())
	boom := errors.New("boom")

	var dst string
	err := l.GetOrLoad(context.Background(), "k", time.Minute, &dst, func(context.Context) (interface{}, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestLoader_LoadOutlivesCanceledCaller(t *testing.T) {
	l := NewLoader(NewMemoryStore())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var dst map[string]int
	err := l.GetOrLoad(ctx, "k", time.Minute, &dst, func(ctx context.Context) (interface{}, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return map[string]int{"n": 7}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, dst["n"])

	raw, err := l.Store().Get(context.Background(), "k")
	require.NoError(t, err)
	assert.JSONEq(t, `{"n":7}`, string(raw))
}
