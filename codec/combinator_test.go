package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ugparu/goflv"
	"github.com/ugparu/goflv/utils"
)

func TestLength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		inner   func() goflv.Decoder[[]byte]
		bound   uint64
		input   []byte
		eos     bool
		want    []byte
		wantErr error
	}{
		{
			name:  "exact fit",
			inner: func() goflv.Decoder[[]byte] { return NewFixedBytesDecoder(3) },
			bound: 3,
			input: []byte{1, 2, 3, 4},
			want:  []byte{1, 2, 3},
		},
		{
			name:    "inner needs more than the bound",
			inner:   func() goflv.Decoder[[]byte] { return NewFixedBytesDecoder(3) },
			bound:   2,
			input:   []byte{1, 2, 3},
			wantErr: utils.ErrSizeMismatch,
		},
		{
			name:    "inner done before the bound",
			inner:   func() goflv.Decoder[[]byte] { return NewFixedBytesDecoder(3) },
			bound:   4,
			input:   []byte{1, 2, 3, 4},
			wantErr: utils.ErrSizeMismatch,
		},
		{
			name:  "remaining bytes end at the bound",
			inner: func() goflv.Decoder[[]byte] { return &RemainingBytesDecoder{} },
			bound: 2,
			input: []byte{7, 8, 9},
			want:  []byte{7, 8},
		},
		{
			name:  "empty bound",
			inner: func() goflv.Decoder[[]byte] { return &RemainingBytesDecoder{} },
			bound: 0,
			input: []byte{7},
			want:  nil,
		},
		{
			name:    "stream ends inside the bound",
			inner:   func() goflv.Decoder[[]byte] { return &RemainingBytesDecoder{} },
			bound:   5,
			input:   []byte{1, 2},
			eos:     true,
			wantErr: utils.ErrPrematureEOS,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			l := NewLength(tt.inner(), tt.bound)
			_, err := l.Decode(tt.input, tt.eos)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.True(t, l.IsIdle())
			got, err := l.FinishDecoding()
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestLengthIncremental(t *testing.T) {
	t.Parallel()

	l := NewLength[[]byte](&RemainingBytesDecoder{}, 4)
	for i, b := range []byte{1, 2, 3, 4} {
		require.Equal(t, goflv.Finite(uint64(4-i)), l.RequiringBytes())
		n, err := l.Decode([]byte{b}, false)
		require.NoError(t, err)
		require.Equal(t, 1, n)
	}
	require.True(t, l.IsIdle())
	got, err := l.FinishDecoding()
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3, 4}, got)

	l.Reset(NewFixedBytesDecoder(1), 1)
	require.False(t, l.IsIdle())
	_, err = l.FinishDecoding()
	require.ErrorIs(t, err, utils.ErrInconsistentState)
}

func TestPeekable(t *testing.T) {
	t.Parallel()

	p := NewPeekable[uint32](&U24beDecoder{})
	_, ok := p.Peek()
	require.False(t, ok)

	n, err := p.Decode([]byte{0, 0}, false)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, goflv.Finite(1), p.RequiringBytes())

	n, err = p.Decode([]byte{5, 9}, false)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	v, ok := p.Peek()
	require.True(t, ok)
	require.Equal(t, uint32(5), v)

	n, err = p.Decode([]byte{9}, false)
	require.NoError(t, err)
	require.Zero(t, n)

	v, err = p.FinishDecoding()
	require.NoError(t, err)
	require.Equal(t, uint32(5), v)
	require.False(t, p.IsIdle())

	_, err = p.FinishDecoding()
	require.ErrorIs(t, err, utils.ErrInconsistentState)
}

func TestMaybeEOS(t *testing.T) {
	t.Parallel()

	m := NewMaybeEOS[uint32](&U32beDecoder{})
	n, err := m.Decode(nil, true)
	require.NoError(t, err)
	require.Zero(t, n)
	require.False(t, m.IsIdle())
	require.False(t, m.InProgress())

	m = NewMaybeEOS[uint32](&U32beDecoder{})
	_, err = m.Decode([]byte{1}, false)
	require.NoError(t, err)
	require.True(t, m.InProgress())
	_, err = m.Decode(nil, true)
	require.ErrorIs(t, err, utils.ErrPrematureEOS)
}
