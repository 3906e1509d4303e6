package flv

import (
	"github.com/ugparu/goflv"
	"github.com/ugparu/goflv/codec"
	"github.com/ugparu/goflv/utils"
)

// tagHeader is the 11-byte prefix shared by all tags.
type tagHeader struct {
	tagType   TagType
	dataSize  uint32
	timestamp Timestamp
	streamID  StreamID
}

type tagHeaderDecoder struct {
	tagType      codec.U8Decoder
	dataSize     codec.U24beDecoder
	timestamp    codec.U24beDecoder
	timestampExt codec.U8Decoder
	streamID     codec.U24beDecoder
}

func (d *tagHeaderDecoder) steppers() []goflv.Stepper {
	return []goflv.Stepper{&d.tagType, &d.dataSize, &d.timestamp, &d.timestampExt, &d.streamID}
}

func (d *tagHeaderDecoder) Decode(buf []byte, eos bool) (int, error) {
	offset := 0
	for _, s := range d.steppers() {
		done, err := codec.Step(s, &offset, buf, eos)
		if err != nil || !done {
			return offset, err
		}
	}
	return offset, nil
}

func (d *tagHeaderDecoder) IsIdle() bool {
	return d.streamID.IsIdle()
}

func (d *tagHeaderDecoder) RequiringBytes() goflv.ByteCount {
	n := uint64(0)
	for _, s := range d.steppers() {
		if !s.IsIdle() {
			v, _ := s.RequiringBytes().Value()
			n += v
		}
	}
	return goflv.Finite(n)
}

func (d *tagHeaderDecoder) FinishDecoding() (h tagHeader, err error) {
	rawType, err := d.tagType.FinishDecoding()
	if err != nil {
		return h, err
	}
	size, err := d.dataSize.FinishDecoding()
	if err != nil {
		return h, err
	}
	low, err := d.timestamp.FinishDecoding()
	if err != nil {
		return h, err
	}
	ext, err := d.timestampExt.FinishDecoding()
	if err != nil {
		return h, err
	}
	stream, err := d.streamID.FinishDecoding()
	if err != nil {
		return h, err
	}
	if h.tagType, err = parseTagType(rawType); err != nil {
		return h, err
	}
	h.dataSize = size
	h.timestamp = joinTimestamp(low, ext)
	h.streamID = StreamID(stream)
	return h, nil
}

type tagHeaderEncoder struct {
	tagType      codec.U8Encoder
	dataSize     codec.U24beEncoder
	timestamp    codec.U24beEncoder
	timestampExt codec.U8Encoder
	streamID     codec.U24beEncoder
}

func (e *tagHeaderEncoder) emitters() []codec.Emitter {
	return []codec.Emitter{&e.tagType, &e.dataSize, &e.timestamp, &e.timestampExt, &e.streamID}
}

func (e *tagHeaderEncoder) StartEncoding(h tagHeader) error {
	if !e.IsIdle() {
		return utils.NewError(utils.ErrInconsistentState, "tag header encoder is busy")
	}
	if h.dataSize > MaxDataSize || h.streamID > MaxStreamID {
		return utils.NewError(utils.ErrInvalidInput, "data size %d or stream id %d exceeds 24 bits", h.dataSize, h.streamID)
	}
	low, ext := h.timestamp.split()
	if err := e.tagType.StartEncoding(uint8(h.tagType)); err != nil {
		return err
	}
	if err := e.dataSize.StartEncoding(h.dataSize); err != nil {
		return err
	}
	if err := e.timestamp.StartEncoding(low); err != nil {
		return err
	}
	if err := e.timestampExt.StartEncoding(ext); err != nil {
		return err
	}
	return e.streamID.StartEncoding(uint32(h.streamID))
}

func (e *tagHeaderEncoder) Encode(buf []byte) (int, error) {
	offset := 0
	for _, em := range e.emitters() {
		done, err := codec.StepEncode(em, &offset, buf)
		if err != nil || !done {
			return offset, err
		}
	}
	return offset, nil
}

func (e *tagHeaderEncoder) IsIdle() bool {
	return e.streamID.IsIdle()
}

func (e *tagHeaderEncoder) ExactRequiringBytes() uint64 {
	return e.tagType.ExactRequiringBytes() + e.dataSize.ExactRequiringBytes() +
		e.timestamp.ExactRequiringBytes() + e.timestampExt.ExactRequiringBytes() +
		e.streamID.ExactRequiringBytes()
}
