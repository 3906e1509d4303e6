package codec

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/require"
	"github.com/ugparu/goflv/utils"
)

func TestReadBuf(t *testing.T) {
	t.Parallel()

	rb := NewReadBuf(4)
	defer rb.Release()
	r := iotest.OneByteReader(strings.NewReader("abcdef"))

	for rb.Len() < 4 {
		require.NoError(t, rb.Fill(r))
	}
	require.Equal(t, []byte("abcd"), rb.Bytes())
	require.False(t, rb.IsEOS())

	rb.Consume(3)
	for !rb.IsEOS() {
		require.NoError(t, rb.Fill(r))
	}
	require.Equal(t, []byte("def"), rb.Bytes())
	rb.Consume(3)
	require.True(t, rb.IsDrained())
}

func TestReadBufFillUpTo(t *testing.T) {
	t.Parallel()

	rb := NewReadBuf(0)
	defer rb.Release()
	require.NoError(t, rb.FillUpTo(strings.NewReader("0123456789"), 3))
	require.Equal(t, []byte("012"), rb.Bytes())
}

func TestReadBufReadError(t *testing.T) {
	t.Parallel()

	rb := NewReadBuf(8)
	defer rb.Release()
	errRead := errors.New("read failed")
	require.ErrorIs(t, rb.Fill(iotest.ErrReader(errRead)), errRead)
}

func TestDecodeFromReadBuf(t *testing.T) {
	t.Parallel()

	rb := NewReadBuf(16)
	defer rb.Release()
	require.NoError(t, rb.Fill(bytes.NewReader([]byte{0, 0, 1, 0xFF})))

	var d U24beDecoder
	require.NoError(t, DecodeFromReadBuf(&d, rb))
	require.True(t, d.IsIdle())
	require.Equal(t, 1, rb.Len())
}

func TestDecodeExact(t *testing.T) {
	t.Parallel()

	r := strings.NewReader("abcdef")
	got, err := DecodeExact[[]byte](NewFixedBytesDecoder(3), r)
	require.NoError(t, err)
	require.Equal(t, []byte("abc"), got)
	require.Equal(t, 3, r.Len(), "no read past the item")

	got, err = DecodeExact[[]byte](&RemainingBytesDecoder{}, iotest.HalfReader(r))
	require.NoError(t, err)
	require.Equal(t, []byte("def"), got)
}

func TestDecodeExactEOF(t *testing.T) {
	t.Parallel()

	_, err := DecodeExact[uint32](&U32beDecoder{}, strings.NewReader(""))
	require.ErrorIs(t, err, utils.ErrPrematureEOS)

	_, err = DecodeExact[uint32](NewMaybeEOS[uint32](&U32beDecoder{}), strings.NewReader(""))
	require.ErrorIs(t, err, io.EOF)

	_, err = DecodeExact[uint32](NewMaybeEOS[uint32](&U32beDecoder{}), strings.NewReader("ab"))
	require.ErrorIs(t, err, utils.ErrPrematureEOS)
}

func TestEncodeAll(t *testing.T) {
	t.Parallel()

	var e BytesEncoder
	payload := bytes.Repeat([]byte{0x5A}, DefaultReadBufSize+10)
	require.NoError(t, e.StartEncoding(payload))

	var out bytes.Buffer
	require.NoError(t, EncodeAll(&e, &out))
	require.Equal(t, payload, out.Bytes())
	require.True(t, e.IsIdle())
}
