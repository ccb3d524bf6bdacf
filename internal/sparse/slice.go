// Package sparse provides a lazily-committed, virtually-mapped array
// indexable by a 64-bit Morton key. Unwritten pages read back as zero;
// physical memory is only committed by the OS on first write to a page.
package sparse

import (
	"math/bits"
	"unsafe"

	"github.com/voxtrace/voxtrace/internal/errors"
)

// Slice is a demand-paged array of T, sized to the next power of two of
// the requested length, doubled (matching the original mmap-backed
// implementation's `next_power_of_two(len) << 1`). It is released by
// calling Close; a Slice that is never closed leaks its mapping for the
// lifetime of the process, same as the unsafe mmap it wraps.
type Slice[T any] struct {
	backing []byte
	data    []T
}

// New allocates a page-mapped region sized to hold at least len elements
// of T, rounded up as described above. It fails with a resource error if
// the mapping cannot be established — mmap failures are a startup
// condition, never a mid-frame one (see internal/errors).
func New[T any](length int) (*Slice[T], error) {
	if length <= 0 {
		return nil, errors.New(errors.KindInput, "sparse", "New", "length must be positive")
	}

	var zero T
	elemSize := int(unsafe.Sizeof(zero))
	count := nextPowerOfTwo(length) << 1
	if count <= 0 || elemSize <= 0 {
		return nil, errors.New(errors.KindInput, "sparse", "New", "slice size overflow")
	}

	backing, err := mmapAnonymous(count * elemSize)
	if err != nil {
		return nil, errors.Wrap(errors.KindResource, "sparse", "New", err)
	}

	s := &Slice[T]{backing: backing}
	s.data = unsafe.Slice((*T)(unsafe.Pointer(&backing[0])), count)
	return s, nil
}

// Len returns the number of addressable elements.
func (s *Slice[T]) Len() int { return len(s.data) }

// Get returns the element at index i, or the zero value if the page
// backing it was never written.
func (s *Slice[T]) Get(i uint64) T { return s.data[i] }

// Set writes v at index i. Concurrent writes to distinct indices from
// different goroutines are safe; the Slice itself performs no
// synchronization, matching the component's documented contract.
func (s *Slice[T]) Set(i uint64, v T) { s.data[i] = v }

// Close unmaps the entire backing region. It is an invariant violation to
// use the Slice afterwards.
func (s *Slice[T]) Close() error {
	if s.backing == nil {
		return nil
	}
	err := munmapAnonymous(s.backing)
	s.backing = nil
	s.data = nil
	if err != nil {
		return errors.Wrap(errors.KindResource, "sparse", "Close", err)
	}
	return nil
}

func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}
