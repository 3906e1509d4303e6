package buffer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		size int
	}{
		{"small", 16},
		{"default", defaultBufSize},
		{"big", bigBufSize},
		{"huge", maxBufSize + 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b := Get(tt.size)
			require.Equal(t, tt.size, b.Len())
			require.Len(t, b.Data(), tt.size)
			require.GreaterOrEqual(t, b.Cap(), tt.size)
			b.Release()
		})
	}
}

func TestResize(t *testing.T) {
	t.Parallel()

	b := Get(4)
	defer b.Release()
	copy(b.Data(), "flv!")

	b.Resize(2)
	require.Equal(t, "fl", string(b.Data()))
	b.Resize(b.Cap() + 1)
	require.Equal(t, "fl", string(b.Data()[:2]))
	require.Equal(t, b.Cap(), b.Len())
}
