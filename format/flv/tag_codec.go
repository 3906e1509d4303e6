package flv

import (
	"github.com/ugparu/goflv"
	"github.com/ugparu/goflv/codec"
	"github.com/ugparu/goflv/utils"
	"github.com/ugparu/goflv/utils/logger"
)

// TagDecoder decodes a single tag: the tag header followed by exactly
// DataSize bytes of audio, video or script data.
type TagDecoder struct {
	header  *codec.Peekable[tagHeader]
	data    *codec.Length[Tag]
	started bool

	audio  *audioDataDecoder
	video  *videoDataDecoder
	script *scriptDataDecoder
}

// NewTagDecoder creates a decoder waiting for the first header byte.
func NewTagDecoder() *TagDecoder {
	d := &TagDecoder{
		header: codec.NewPeekable[tagHeader](&tagHeaderDecoder{}),
		audio:  newAudioDataDecoder(),
		video:  newVideoDataDecoder(),
		script: &scriptDataDecoder{},
	}
	d.data = codec.NewLength[Tag](d.script, 0)
	return d
}

func (d *TagDecoder) Decode(buf []byte, eos bool) (int, error) {
	offset := 0
	done, err := codec.Step(d.header, &offset, buf, eos)
	if err != nil || !done {
		return offset, utils.Track(err, "tag header")
	}

	h, _ := d.header.Peek()
	if !d.started {
		d.start(h)
	}
	if _, err = codec.Step(d.data, &offset, buf, eos); err != nil {
		return offset, utils.Track(err, h.tagType.String()+" tag data")
	}
	return offset, nil
}

func (d *TagDecoder) start(h tagHeader) {
	var payload goflv.Decoder[Tag]
	switch h.tagType {
	case TagTypeAudio:
		d.audio.data.Reserve(int(h.dataSize))
		payload = d.audio
	case TagTypeVideo:
		d.video.data.Reserve(int(h.dataSize))
		payload = d.video
	default:
		d.script.data.Reserve(int(h.dataSize))
		payload = d.script
	}
	d.data.Reset(payload, uint64(h.dataSize))
	d.started = true
}

func (d *TagDecoder) IsIdle() bool {
	return d.started && d.data.IsIdle()
}

func (d *TagDecoder) RequiringBytes() goflv.ByteCount {
	if !d.header.IsIdle() {
		return d.header.RequiringBytes()
	}
	if !d.started {
		h, _ := d.header.Peek()
		return goflv.Finite(uint64(h.dataSize))
	}
	return d.data.RequiringBytes()
}

func (d *TagDecoder) FinishDecoding() (Tag, error) {
	if !d.IsIdle() {
		return nil, utils.NewError(utils.ErrInconsistentState, "tag is not fully decoded")
	}
	h, err := d.header.FinishDecoding()
	if err != nil {
		return nil, err
	}
	d.started = false
	tag, err := d.data.FinishDecoding()
	if err != nil {
		return nil, utils.Track(err, h.tagType.String()+" tag data")
	}

	switch t := tag.(type) {
	case AudioTag:
		t.Timestamp, t.StreamID = h.timestamp, h.streamID
		tag = t
	case VideoTag:
		t.Timestamp, t.StreamID = h.timestamp, h.streamID
		tag = t
	case ScriptDataTag:
		t.Timestamp, t.StreamID = h.timestamp, h.streamID
		tag = t
	}
	logger.Tracef(d, "decoded %s tag: ts=%d size=%d", h.tagType, h.timestamp, h.dataSize)
	return tag, nil
}

// TagEncoder encodes one tag at a time. Its output for a tag is exactly
// TagSize bytes.
type TagEncoder struct {
	header tagHeaderEncoder
	audio  audioDataEncoder
	video  videoDataEncoder
	script codec.BytesEncoder
}

// NewTagEncoder creates an idle encoder.
func NewTagEncoder() *TagEncoder {
	return &TagEncoder{}
}

// StartEncoding validates tag and queues it for Encode.
func (e *TagEncoder) StartEncoding(tag Tag) error {
	if !e.IsIdle() {
		return utils.NewError(utils.ErrInconsistentState, "tag encoder is busy")
	}
	if tag == nil {
		return utils.NewError(utils.ErrInvalidInput, "nil tag")
	}
	if err := tag.Validate(); err != nil {
		return utils.Track(err, tag.Type().String()+" tag")
	}

	h := tagHeader{
		tagType:   tag.Type(),
		dataSize:  uint32(tag.dataSize()),
		timestamp: tag.Time(),
		streamID:  tag.Stream(),
	}
	if err := e.header.StartEncoding(h); err != nil {
		return utils.Track(err, "tag header")
	}

	var err error
	switch t := tag.(type) {
	case AudioTag:
		err = e.audio.start(t)
	case VideoTag:
		err = e.video.start(t)
	case ScriptDataTag:
		err = e.script.StartEncoding(t.Data)
	case *AudioTag:
		err = e.audio.start(*t)
	case *VideoTag:
		err = e.video.start(*t)
	case *ScriptDataTag:
		err = e.script.StartEncoding(t.Data)
	default:
		err = utils.NewError(utils.ErrInvalidInput, "unsupported tag implementation %T", tag)
	}
	return utils.Track(err, tag.Type().String()+" tag data")
}

func (e *TagEncoder) Encode(buf []byte) (int, error) {
	offset := 0
	for _, em := range []codec.Emitter{&e.header, &e.audio, &e.video, &e.script} {
		done, err := codec.StepEncode(em, &offset, buf)
		if err != nil || !done {
			return offset, err
		}
	}
	return offset, nil
}

func (e *TagEncoder) IsIdle() bool {
	return e.header.IsIdle() && e.audio.IsIdle() && e.video.IsIdle() && e.script.IsIdle()
}

func (e *TagEncoder) ExactRequiringBytes() uint64 {
	return e.header.ExactRequiringBytes() + e.audio.ExactRequiringBytes() +
		e.video.ExactRequiringBytes() + e.script.ExactRequiringBytes()
}

func (e *TagEncoder) RequiringBytes() goflv.ByteCount {
	return goflv.Finite(e.ExactRequiringBytes())
}
