package flv

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ugparu/goflv/codec"
	"github.com/ugparu/goflv/utils"
)

func TestHeaderDecoder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		data     []byte
		want     Header
		consumed int
	}{
		{
			name:     "audio and video",
			data:     []byte{0x46, 0x4C, 0x56, 0x01, 0x05, 0x00, 0x00, 0x00, 0x09},
			want:     Header{HasAudio: true, HasVideo: true},
			consumed: 9,
		},
		{
			name:     "video only",
			data:     []byte{0x46, 0x4C, 0x56, 0x01, 0x01, 0x00, 0x00, 0x00, 0x09},
			want:     Header{HasVideo: true},
			consumed: 9,
		},
		{
			name:     "reserved flag bits are ignored",
			data:     []byte{0x46, 0x4C, 0x56, 0x01, 0xFC, 0x00, 0x00, 0x00, 0x09},
			want:     Header{HasAudio: true},
			consumed: 9,
		},
		{
			name:     "padding is skipped",
			data:     []byte{0x46, 0x4C, 0x56, 0x01, 0x04, 0x00, 0x00, 0x00, 0x0C, 0xAA, 0xBB, 0xCC, 0x00},
			want:     Header{HasAudio: true},
			consumed: 12,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dec := NewHeaderDecoder()
			n, err := dec.Decode(tt.data, false)
			require.NoError(t, err)
			require.Equal(t, tt.consumed, n)
			require.True(t, dec.IsIdle())

			h, err := dec.FinishDecoding()
			require.NoError(t, err)
			require.Equal(t, tt.want, h)
		})
	}
}

func TestHeaderDecoderErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		data     []byte
		eos      bool
		wantErr  error
		consumed int
	}{
		{"malformed signature", []byte{0x00, 0x00, 0x00}, false, utils.ErrMalformedSignature, 3},
		{"unknown version", []byte{0x46, 0x4C, 0x56, 0x02}, false, utils.ErrUnknownVersion, 4},
		{"data offset below header size", []byte{0x46, 0x4C, 0x56, 0x01, 0x05, 0x00, 0x00, 0x00, 0x08}, false, utils.ErrInvalidInput, 9},
		{"truncated signature", []byte{0x46, 0x4C}, true, utils.ErrPrematureEOS, 2},
		{"truncated padding", []byte{0x46, 0x4C, 0x56, 0x01, 0x05, 0x00, 0x00, 0x00, 0x0B, 0x00}, true, utils.ErrPrematureEOS, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			n, err := NewHeaderDecoder().Decode(tt.data, tt.eos)
			require.ErrorIs(t, err, tt.wantErr)
			require.Equal(t, tt.consumed, n)
		})
	}
}

func TestHeaderDecoderPeekBeforePadding(t *testing.T) {
	t.Parallel()

	dec := NewHeaderDecoder()
	_, ok := dec.Peek()
	require.False(t, ok)
	require.Equal(t, uint64(HeaderSize), mustFinite(t, dec))

	n, err := dec.Decode([]byte{0x46, 0x4C, 0x56, 0x01, 0x01, 0x00, 0x00, 0x00, 0x0D}, false)
	require.NoError(t, err)
	require.Equal(t, HeaderSize, n)
	require.False(t, dec.IsIdle())
	require.Equal(t, uint64(4), mustFinite(t, dec))

	h, ok := dec.Peek()
	require.True(t, ok)
	require.Equal(t, Header{HasVideo: true}, h)

	_, err = dec.FinishDecoding()
	require.ErrorIs(t, err, utils.ErrInconsistentState)
}

func TestHeaderEncoder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		header Header
		want   []byte
	}{
		{Header{HasAudio: true, HasVideo: true}, []byte{0x46, 0x4C, 0x56, 0x01, 0x05, 0x00, 0x00, 0x00, 0x09}},
		{Header{HasAudio: true}, []byte{0x46, 0x4C, 0x56, 0x01, 0x04, 0x00, 0x00, 0x00, 0x09}},
		{Header{}, []byte{0x46, 0x4C, 0x56, 0x01, 0x00, 0x00, 0x00, 0x00, 0x09}},
	}

	for _, tt := range tests {
		enc := NewHeaderEncoder()
		require.NoError(t, enc.StartEncoding(tt.header))
		require.Equal(t, uint64(HeaderSize), enc.ExactRequiringBytes())
		require.ErrorIs(t, enc.StartEncoding(tt.header), utils.ErrInconsistentState)

		var out bytes.Buffer
		require.NoError(t, codec.EncodeAll(enc, &out))
		require.Equal(t, tt.want, out.Bytes())
		require.True(t, enc.IsIdle())
	}
}
