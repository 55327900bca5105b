package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCopyRoundTrip(t *testing.T) {
	mem := NewMemory(16, 8)

	require.NoError(t, mem.CopyOut(UserSpace, 4, []byte("abcd")))

	got := make([]byte, 4)
	require.NoError(t, mem.CopyIn(got, UserSpace, 4))
	assert.Equal(t, "abcd", string(got))

	// The kernel arena is separate.
	require.NoError(t, mem.CopyIn(got, KernelSpace, 4))
	assert.Equal(t, []byte{0, 0, 0, 0}, got)
}

func TestMemoryFault(t *testing.T) {
	mem := NewMemory(16, 8)

	tests := []struct {
		name  string
		space Space
		addr  uint64
		n     int
	}{
		{name: "past end", space: UserSpace, addr: 14, n: 4},
		{name: "addr beyond arena", space: KernelSpace, addr: 9, n: 0},
		{name: "huge addr", space: UserSpace, addr: ^uint64(0), n: 1},
		{name: "unknown space", space: Space(7), addr: 0, n: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mem.CopyOut(tt.space, tt.addr, make([]byte, tt.n))
			assert.ErrorIs(t, err, ErrFault)
			err = mem.CopyIn(make([]byte, tt.n), tt.space, tt.addr)
			assert.ErrorIs(t, err, ErrFault)
		})
	}
}

func TestMemoryEdgeOfArena(t *testing.T) {
	mem := NewMemory(8, 8)

	assert.NoError(t, mem.CopyOut(UserSpace, 7, []byte{1}))
	assert.NoError(t, mem.CopyOut(UserSpace, 8, nil))
	assert.ErrorIs(t, mem.CopyOut(UserSpace, 8, []byte{1}), ErrFault)
}

func TestMemoryDefaults(t *testing.T) {
	mem := NewMemory(0, -1)
	assert.Equal(t, DefaultUserSize, mem.Size(UserSpace))
	assert.Equal(t, DefaultKernelSize, mem.Size(KernelSpace))
	assert.Equal(t, 0, mem.Size(Space(9)))
}

func TestLoadStoreWrapFault(t *testing.T) {
	mem := NewMemory(4, 4)
	err := mem.Store(UserSpace, 2, []byte("xyz"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFault)
	assert.Contains(t, err.Error(), "store user")

	p := make([]byte, 2)
	require.NoError(t, mem.Store(KernelSpace, 0, []byte("ok")))
	require.NoError(t, mem.Load(KernelSpace, 0, p))
	assert.Equal(t, "ok", string(p))
}

func TestSpaceString(t *testing.T) {
	assert.Equal(t, "user", UserSpace.String())
	assert.Equal(t, "kernel", KernelSpace.String())
	assert.Equal(t, "space(5)", Space(5).String())
}
