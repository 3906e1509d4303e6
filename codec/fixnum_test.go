package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ugparu/goflv"
	"github.com/ugparu/goflv/utils"
)

func TestU24beDecoderByteByByte(t *testing.T) {
	t.Parallel()

	var d U24beDecoder
	input := []byte{0x01, 0x02, 0x03}
	for i, b := range input {
		require.False(t, d.IsIdle())
		require.Equal(t, goflv.Finite(uint64(3-i)), d.RequiringBytes())
		n, err := d.Decode([]byte{b}, false)
		require.NoError(t, err)
		require.Equal(t, 1, n)
	}
	require.True(t, d.IsIdle())

	n, err := d.Decode([]byte{0xFF}, false)
	require.NoError(t, err)
	require.Zero(t, n, "idle decoder must not consume")

	v, err := d.FinishDecoding()
	require.NoError(t, err)
	require.Equal(t, uint32(0x010203), v)
	require.False(t, d.IsIdle(), "finish resets the decoder")
}

func TestFixnumDecoders(t *testing.T) {
	t.Parallel()

	var u8 U8Decoder
	n, err := u8.Decode([]byte{0xAF, 0x01}, false)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	v8, err := u8.FinishDecoding()
	require.NoError(t, err)
	require.Equal(t, uint8(0xAF), v8)

	var u32 U32beDecoder
	n, err = u32.Decode([]byte{0xDE, 0xAD, 0xBE, 0xEF, 0x00}, true)
	require.NoError(t, err)
	require.Equal(t, 4, n)
	v32, err := u32.FinishDecoding()
	require.NoError(t, err)
	require.Equal(t, uint32(0xDEADBEEF), v32)
}

func TestFixnumDecoderPrematureEOS(t *testing.T) {
	t.Parallel()

	var d U32beDecoder
	n, err := d.Decode([]byte{0x00, 0x01}, true)
	require.Equal(t, 2, n)
	require.ErrorIs(t, err, utils.ErrPrematureEOS)

	var e U8Decoder
	_, err = e.FinishDecoding()
	require.ErrorIs(t, err, utils.ErrInconsistentState)
}

func TestFixnumEncoders(t *testing.T) {
	t.Parallel()

	var u24 U24beEncoder
	require.True(t, u24.IsIdle())
	require.NoError(t, u24.StartEncoding(0x0A0B0C))
	require.Equal(t, uint64(3), u24.ExactRequiringBytes())
	require.ErrorIs(t, u24.StartEncoding(1), utils.ErrInconsistentState)

	var out []byte
	buf := make([]byte, 1)
	for !u24.IsIdle() {
		n, err := u24.Encode(buf)
		require.NoError(t, err)
		out = append(out, buf[:n]...)
	}
	require.Equal(t, []byte{0x0A, 0x0B, 0x0C}, out)

	require.ErrorIs(t, u24.StartEncoding(0x1000000), utils.ErrInvalidInput)
	require.True(t, u24.IsIdle())

	var u32 U32beEncoder
	require.NoError(t, u32.StartEncoding(0x01020304))
	buf = make([]byte, 8)
	n, err := u32.Encode(buf)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3, 4}, buf[:n])
	require.Equal(t, goflv.Finite(0), u32.RequiringBytes())
}
