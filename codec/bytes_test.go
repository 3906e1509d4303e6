package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ugparu/goflv"
	"github.com/ugparu/goflv/utils"
)

func TestFixedBytesDecoder(t *testing.T) {
	t.Parallel()

	d := NewFixedBytesDecoder(3)
	n, err := d.Decode([]byte("FL"), false)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, goflv.Finite(1), d.RequiringBytes())

	n, err = d.Decode([]byte("VX"), false)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	got, err := d.FinishDecoding()
	require.NoError(t, err)
	require.Equal(t, []byte("FLV"), got)

	_, err = d.Decode([]byte("F"), true)
	require.ErrorIs(t, err, utils.ErrPrematureEOS)
}

func TestRemainingBytesDecoder(t *testing.T) {
	t.Parallel()

	var d RemainingBytesDecoder
	d.Reserve(4)
	_, err := d.FinishDecoding()
	require.ErrorIs(t, err, utils.ErrInconsistentState)
	require.Equal(t, goflv.Unknown, d.RequiringBytes())

	_, err = d.Decode([]byte{1, 2}, false)
	require.NoError(t, err)
	_, err = d.Decode([]byte{3}, true)
	require.NoError(t, err)
	require.True(t, d.IsIdle())

	got, err := d.FinishDecoding()
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, got)

	_, err = d.Decode(nil, true)
	require.NoError(t, err)
	got, err = d.FinishDecoding()
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestPaddingDecoder(t *testing.T) {
	t.Parallel()

	var d PaddingDecoder
	n, err := d.Decode(make([]byte, 5), true)
	require.NoError(t, err)
	require.Equal(t, 5, n)
	skipped, err := d.FinishDecoding()
	require.NoError(t, err)
	require.Equal(t, uint64(5), skipped)
}

func TestBytesEncoder(t *testing.T) {
	t.Parallel()

	var e BytesEncoder
	require.True(t, e.IsIdle())
	require.NoError(t, e.StartEncoding([]byte("abc")))
	require.ErrorIs(t, e.StartEncoding([]byte("x")), utils.ErrInconsistentState)

	buf := make([]byte, 2)
	n, err := e.Encode(buf)
	require.NoError(t, err)
	require.Equal(t, "ab", string(buf[:n]))
	require.Equal(t, uint64(1), e.ExactRequiringBytes())
	n, err = e.Encode(buf)
	require.NoError(t, err)
	require.Equal(t, "c", string(buf[:n]))
	require.True(t, e.IsIdle())

	require.NoError(t, e.StartEncoding(nil))
	require.True(t, e.IsIdle())
}
