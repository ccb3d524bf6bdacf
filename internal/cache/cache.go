// Package cache provides the serve command's frame cache: rendered
// frames are keyed by a hash of the camera pose and scene generation,
// so repeated requests for an unchanged view skip re-tracing, grounded
// on the teacher's ristretto-backed QueryCache
// (internal/database/spatial_optimizer.go).
package cache

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/dgraph-io/ristretto"
	"golang.org/x/crypto/blake2b"

	"github.com/voxtrace/voxtrace/internal/config"
	"github.com/voxtrace/voxtrace/internal/logger"
)

// FrameCache caches rendered framebuffers by pose key. It never blocks
// a render on a miss; Get/Set degrade to no-ops if the underlying
// ristretto cache is nil (cfg.Cache.Enabled == false).
type FrameCache struct {
	cache *ristretto.Cache

	hits   int64
	misses int64
}

// New builds a FrameCache sized from cfg. A disabled cache still
// returns a non-nil *FrameCache whose Get always misses, so callers
// never need a nil check.
func New(cfg config.CacheConfig) (*FrameCache, error) {
	if !cfg.Enabled {
		return &FrameCache{}, nil
	}

	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create frame cache: %w", err)
	}
	return &FrameCache{cache: c}, nil
}

// PoseKey hashes a camera pose plus scene generation into a stable
// cache key with blake2b, the way a content-addressed cache needs a
// key that doesn't collide across unrelated poses but is cheap to
// recompute every frame.
func PoseKey(rotation [16]float32, origin [3]float32, width, height int, fovDegrees float32, generation uint64) string {
	h, _ := blake2b.New256(nil)
	var buf [4]byte
	putFloat := func(f float32) {
		bits := math.Float32bits(f)
		buf[0] = byte(bits)
		buf[1] = byte(bits >> 8)
		buf[2] = byte(bits >> 16)
		buf[3] = byte(bits >> 24)
		h.Write(buf[:])
	}
	for _, f := range rotation {
		putFloat(f)
	}
	for _, f := range origin {
		putFloat(f)
	}
	fmt.Fprintf(h, "|%d|%d|", width, height)
	putFloat(fovDegrees)
	fmt.Fprintf(h, "|%d", generation)
	return fmt.Sprintf("%x", h.Sum(nil))
}

// Get retrieves a cached framebuffer (a []uint32 of width*height
// 0x00RRGGBB pixels) for key.
func (f *FrameCache) Get(key string) ([]uint32, bool) {
	if f.cache == nil {
		return nil, false
	}
	v, ok := f.cache.Get(key)
	if !ok {
		atomic.AddInt64(&f.misses, 1)
		return nil, false
	}
	atomic.AddInt64(&f.hits, 1)
	frame, ok := v.([]uint32)
	if !ok {
		return nil, false
	}
	return frame, true
}

// Set stores a rendered framebuffer under key. The ristretto admission
// cost is the buffer's byte size, computed here from len(frame).
func (f *FrameCache) Set(key string, frame []uint32) {
	if f.cache == nil {
		return
	}
	cost := int64(len(frame) * 4)
	if !f.cache.Set(key, frame, cost) {
		logger.Debug("frame cache rejected admission for key %s", key[:16])
	}
}

// Stats reports cumulative hit/miss counts, surfaced by the TUI
// dashboard and the Prometheus cache metrics.
func (f *FrameCache) Stats() (hits, misses int64) {
	return atomic.LoadInt64(&f.hits), atomic.LoadInt64(&f.misses)
}

// Close releases the underlying ristretto cache's background workers.
func (f *FrameCache) Close() {
	if f.cache != nil {
		f.cache.Close()
	}
}
