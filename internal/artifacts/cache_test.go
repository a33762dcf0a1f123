package artifacts_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/programme-lv/zktester/internal/artifacts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_LoadsOnce(t *testing.T) {
	var loads atomic.Int32
	cache := artifacts.NewCacheWithLoader(func(dir string) (*artifacts.Set, error) {
		loads.Add(1)
		return artifacts.NewSet(map[string]artifacts.Artifact{"Foo": {}}), nil
	})

	var wg sync.WaitGroup
	sets := make([]*artifacts.Set, 16)
	for i := range sets {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			set, err := cache.Get("out/")
			assert.NoError(t, err)
			sets[i] = set
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), loads.Load())
	for _, s := range sets {
		assert.Same(t, sets[0], s)
	}
}

func TestCache_CachesError(t *testing.T) {
	var loads atomic.Int32
	cache := artifacts.NewCacheWithLoader(func(dir string) (*artifacts.Set, error) {
		loads.Add(1)
		return nil, errors.New("compile failed")
	})

	_, err := cache.Get("out")
	require.Error(t, err)
	_, err = cache.Get("out")
	require.Error(t, err)
	assert.Equal(t, int32(1), loads.Load())
}
