package reader

import (
	"bytes"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/ugparu/goflv/format/flv"
	"github.com/ugparu/goflv/utils"
)

func TestMain(m *testing.M) {
	logrus.SetLevel(logrus.FatalLevel)
	m.Run()
}

func muxTags(t *testing.T, tags ...flv.Tag) []byte {
	t.Helper()

	var out bytes.Buffer
	mux := flv.NewMuxer(&out)
	require.NoError(t, mux.Mux(flv.Header{HasAudio: true, HasVideo: true}))
	for _, tag := range tags {
		require.NoError(t, mux.WriteTag(tag))
	}
	require.NoError(t, mux.Close())
	return out.Bytes()
}

func video(ts flv.Timestamp) flv.Tag {
	return flv.VideoTag{
		Timestamp:       ts,
		FrameType:       flv.FrameTypeInterFrame,
		CodecID:         flv.CodecIDAVC,
		AVCPacketType:   flv.Ref(flv.AVCPacketTypeNALU),
		CompositionTime: flv.Ref(flv.TimeOffset(0)),
		Data:            []byte{0x00, 0x00, 0x00, 0x01, 0x41},
	}
}

func audio(ts flv.Timestamp) flv.Tag {
	return flv.AudioTag{
		Timestamp:     ts,
		SoundFormat:   flv.SoundFormatAAC,
		SoundRate:     flv.SoundRate44kHz,
		SoundSize:     flv.SoundSize16Bit,
		SoundType:     flv.SoundTypeStereo,
		AACPacketType: flv.Ref(flv.AACPacketTypeRaw),
		Data:          []byte{0x21},
	}
}

func collect(t *testing.T, rdr *Reader) []flv.Tag {
	t.Helper()

	var tags []flv.Tag
	for tag := range rdr.Tags() {
		tags = append(tags, tag)
	}
	select {
	case <-rdr.Done():
	case <-time.After(time.Second):
		t.Fatal("reader did not stop")
	}
	return tags
}

func TestReaderReadsAllTags(t *testing.T) {
	t.Parallel()

	tags := []flv.Tag{
		flv.ScriptDataTag{Data: []byte{0x02}},
		video(0), audio(0), video(40), audio(23),
	}
	rdr := NewFLV(bytes.NewReader(muxTags(t, tags...)), 2, WithName("TEST"))
	defer rdr.Close()

	h, err := rdr.Read()
	require.NoError(t, err)
	require.Equal(t, flv.Header{HasAudio: true, HasVideo: true}, h)
	require.Equal(t, h, rdr.Header())
	require.Equal(t, "TEST", rdr.String())

	require.Equal(t, tags, collect(t, rdr))
	require.NoError(t, rdr.Err())
}

func TestReaderBadHeader(t *testing.T) {
	t.Parallel()

	rdr := NewFLV(bytes.NewReader([]byte("not a video")), 1)
	defer rdr.Close()

	_, err := rdr.Read()
	require.ErrorIs(t, err, utils.ErrMalformedSignature)
	require.Empty(t, collect(t, rdr))
	require.ErrorIs(t, rdr.Err(), utils.ErrMalformedSignature)
}

func TestReaderTruncatedStream(t *testing.T) {
	t.Parallel()

	data := muxTags(t, video(0), video(40))
	rdr := NewFLV(bytes.NewReader(data[:len(data)-6]), 4, WithDemuxerOptions(flv.WithChunkSize(8)))
	defer rdr.Close()

	_, err := rdr.Read()
	require.NoError(t, err)
	require.Equal(t, []flv.Tag{video(0)}, collect(t, rdr))
	require.ErrorIs(t, rdr.Err(), utils.ErrPrematureEOS)
}

func TestReaderRebase(t *testing.T) {
	t.Parallel()

	data := muxTags(t,
		flv.ScriptDataTag{Timestamp: 500},
		video(1000), audio(1010), video(1040), audio(1033), video(1080),
	)
	rdr := NewFLV(bytes.NewReader(data), 8, WithRebase())
	defer rdr.Close()

	_, err := rdr.Read()
	require.NoError(t, err)

	var got []flv.Timestamp
	for _, tag := range collect(t, rdr) {
		got = append(got, tag.Time())
	}
	require.Equal(t, []flv.Timestamp{500, 0, 0, 40, 23, 80}, got)
	require.NoError(t, rdr.Err())
}

func TestReaderCloseWhileBlocked(t *testing.T) {
	t.Parallel()

	var tags []flv.Tag
	for i := range 16 {
		tags = append(tags, video(flv.Timestamp(i*40)))
	}
	rdr := NewFLV(bytes.NewReader(muxTags(t, tags...)), 0)

	_, err := rdr.Read()
	require.NoError(t, err)
	require.Equal(t, tags[0], <-rdr.Tags())

	rdr.Close()
	for range rdr.Tags() {
	}
	require.NoError(t, rdr.Err())
}

func TestOffsetHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []flv.Timestamp
		want []flv.Timestamp
	}{
		{"starts at zero", []flv.Timestamp{5000, 5040, 5080}, []flv.Timestamp{0, 40, 80}},
		{"small backward step is kept", []flv.Timestamp{100, 140, 130, 180}, []flv.Timestamp{0, 40, 30, 80}},
		{"backward jump is spliced", []flv.Timestamp{90000, 90040, 90080, 10, 50}, []flv.Timestamp{0, 40, 80, 120, 160}},
		{"negative start", []flv.Timestamp{-40, 0, 40}, []flv.Timestamp{0, 40, 80}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var oh offsetHandler
			var got []flv.Timestamp
			for _, ts := range tt.in {
				got = append(got, oh.apply(ts))
			}
			require.Equal(t, tt.want, got)
		})
	}
}
