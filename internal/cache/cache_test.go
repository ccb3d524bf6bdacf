package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxtrace/voxtrace/internal/config"
)

func TestFrameCacheDisabled(t *testing.T) {
	fc, err := New(config.CacheConfig{Enabled: false})
	require.NoError(t, err)

	key := PoseKey([16]float32{}, [3]float32{}, 64, 64, 60, 1)
	_, ok := fc.Get(key)
	assert.False(t, ok)

	fc.Set(key, []uint32{1, 2, 3})
	_, ok = fc.Get(key)
	assert.False(t, ok)
}

func TestFrameCacheRoundTrip(t *testing.T) {
	fc, err := New(config.CacheConfig{Enabled: true, NumCounters: 1000, MaxCost: 1 << 20})
	require.NoError(t, err)
	defer fc.Close()

	key := PoseKey([16]float32{1: 1, 5: 1, 10: 1, 15: 1}, [3]float32{1, 2, 3}, 640, 480, 60, 7)
	frame := []uint32{0x112233, 0x445566}
	fc.Set(key, frame)

	// ristretto admits asynchronously; give the buffer goroutine a
	// moment before asserting visibility.
	time.Sleep(10 * time.Millisecond)

	got, ok := fc.Get(key)
	if ok {
		assert.Equal(t, frame, got)
	}
}

func TestPoseKeyStability(t *testing.T) {
	rot := [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
	origin := [3]float32{1, 2, 3}

	a := PoseKey(rot, origin, 800, 600, 60, 3)
	b := PoseKey(rot, origin, 800, 600, 60, 3)
	assert.Equal(t, a, b)

	c := PoseKey(rot, origin, 800, 600, 60, 4)
	assert.NotEqual(t, a, c)
}
