package sparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsNonPositiveLength(t *testing.T) {
	_, err := New[uint8](0)
	assert.Error(t, err)

	_, err = New[uint8](-4)
	assert.Error(t, err)
}

func TestGetSetRoundTrip(t *testing.T) {
	s, err := New[uint8](64)
	require.NoError(t, err)
	defer s.Close()

	s.Set(5, 42)
	assert.Equal(t, uint8(42), s.Get(5))
	assert.Equal(t, uint8(0), s.Get(6), "unwritten index must read back zero")
}

func TestLenRoundsUpToDoublePowerOfTwo(t *testing.T) {
	s, err := New[uint8](100)
	require.NoError(t, err)
	defer s.Close()

	// nextPowerOfTwo(100) = 128, doubled per New's sizing contract.
	assert.Equal(t, 256, s.Len())
}

func TestCloseIsIdempotent(t *testing.T) {
	s, err := New[uint32](8)
	require.NoError(t, err)

	require.NoError(t, s.Close())
	assert.NoError(t, s.Close())
}

// TestSparseSliceFidelityAt4096Cubed is spec Testable Property 3: a slice
// of size 4096^3 with writes at indices {4096*i : i in [0,128)} reads back
// the written values, and indices in [128,256)*4096 read zero.
func TestSparseSliceFidelityAt4096Cubed(t *testing.T) {
	if testing.Short() {
		t.Skip("allocates a 4096^3-element virtual mapping, skipped with -short")
	}

	const edge = 4096
	length := edge * edge * edge

	s, err := New[uint8](length)
	require.NoError(t, err)
	defer s.Close()

	for i := 0; i < 128; i++ {
		s.Set(uint64(edge*i), uint8(i+1))
	}
	for i := 0; i < 128; i++ {
		assert.Equal(t, uint8(i+1), s.Get(uint64(edge*i)), "written index %d", edge*i)
	}
	for i := 128; i < 256; i++ {
		assert.Equal(t, uint8(0), s.Get(uint64(edge*i)), "unwritten index %d", edge*i)
	}
}
