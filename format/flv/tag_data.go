package flv

import (
	"github.com/ugparu/goflv"
	"github.com/ugparu/goflv/codec"
	"github.com/ugparu/goflv/utils"
)

// Payload decoders run under a Length bound, so the end of stream they see is
// the end of the tag data. They return tags with Timestamp and StreamID unset;
// those come from the tag header.

type audioHeader struct {
	format SoundFormat
	rate   SoundRate
	size   SoundSize
	typ    SoundType
}

func (h audioHeader) pack() uint8 {
	b := uint8(h.format)<<4 | uint8(h.rate)<<2
	if h.size == SoundSize16Bit {
		b |= 0x02
	}
	if h.typ == SoundTypeStereo {
		b |= 0x01
	}
	return b
}

type audioHeaderDecoder struct{ codec.U8Decoder }

func (d *audioHeaderDecoder) FinishDecoding() (h audioHeader, err error) {
	b, err := d.U8Decoder.FinishDecoding()
	if err != nil {
		return h, err
	}
	if h.format, err = parseSoundFormat(b >> 4); err != nil {
		return h, err
	}
	if h.rate, err = parseSoundRate((b >> 2) & 0x03); err != nil {
		return h, err
	}
	h.size = soundSizeFromBit(b&0x02 != 0)
	h.typ = soundTypeFromBit(b&0x01 != 0)
	return h, nil
}

type aacPacketTypeDecoder struct{ codec.U8Decoder }

func (d *aacPacketTypeDecoder) FinishDecoding() (AACPacketType, error) {
	b, err := d.U8Decoder.FinishDecoding()
	if err != nil {
		return 0, err
	}
	return parseAACPacketType(b)
}

type audioDataDecoder struct {
	header  *codec.Peekable[audioHeader]
	aacType *codec.Peekable[AACPacketType]
	data    codec.RemainingBytesDecoder
}

func newAudioDataDecoder() *audioDataDecoder {
	return &audioDataDecoder{
		header:  codec.NewPeekable[audioHeader](&audioHeaderDecoder{}),
		aacType: codec.NewPeekable[AACPacketType](&aacPacketTypeDecoder{}),
	}
}

func (d *audioDataDecoder) Decode(buf []byte, eos bool) (int, error) {
	offset := 0
	done, err := codec.Step(d.header, &offset, buf, eos)
	if err != nil || !done {
		return offset, utils.Track(err, "audio header")
	}
	if h, _ := d.header.Peek(); h.format == SoundFormatAAC {
		done, err = codec.Step(d.aacType, &offset, buf, eos)
		if err != nil || !done {
			return offset, utils.Track(err, "aac packet type")
		}
	}
	_, err = codec.Step(&d.data, &offset, buf, eos)
	return offset, err
}

func (d *audioDataDecoder) IsIdle() bool {
	return d.data.IsIdle()
}

func (d *audioDataDecoder) RequiringBytes() goflv.ByteCount {
	return d.data.RequiringBytes()
}

func (d *audioDataDecoder) FinishDecoding() (Tag, error) {
	h, err := d.header.FinishDecoding()
	if err != nil {
		return nil, err
	}
	tag := AudioTag{SoundFormat: h.format, SoundRate: h.rate, SoundSize: h.size, SoundType: h.typ}
	if h.format == SoundFormatAAC {
		pt, err := d.aacType.FinishDecoding()
		if err != nil {
			return nil, err
		}
		tag.AACPacketType = &pt
	}
	if tag.Data, err = d.data.FinishDecoding(); err != nil {
		return nil, err
	}
	return tag, nil
}

type videoHeader struct {
	frame FrameType
	codec CodecID
}

type videoHeaderDecoder struct{ codec.U8Decoder }

func (d *videoHeaderDecoder) FinishDecoding() (h videoHeader, err error) {
	b, err := d.U8Decoder.FinishDecoding()
	if err != nil {
		return h, err
	}
	if h.frame, err = parseFrameType(b >> 4); err != nil {
		return h, err
	}
	if h.codec, err = parseCodecID(b & 0x0F); err != nil {
		return h, err
	}
	return h, nil
}

type avcPacketTypeDecoder struct{ codec.U8Decoder }

func (d *avcPacketTypeDecoder) FinishDecoding() (AVCPacketType, error) {
	b, err := d.U8Decoder.FinishDecoding()
	if err != nil {
		return 0, err
	}
	return parseAVCPacketType(b)
}

type videoDataDecoder struct {
	header          *codec.Peekable[videoHeader]
	avcType         *codec.Peekable[AVCPacketType]
	compositionTime codec.U24beDecoder
	data            codec.RemainingBytesDecoder
}

func newVideoDataDecoder() *videoDataDecoder {
	return &videoDataDecoder{
		header:  codec.NewPeekable[videoHeader](&videoHeaderDecoder{}),
		avcType: codec.NewPeekable[AVCPacketType](&avcPacketTypeDecoder{}),
	}
}

func (d *videoDataDecoder) Decode(buf []byte, eos bool) (int, error) {
	offset := 0
	done, err := codec.Step(d.header, &offset, buf, eos)
	if err != nil || !done {
		return offset, utils.Track(err, "video header")
	}
	if h, _ := d.header.Peek(); hasAVCFields(h.frame, h.codec) {
		if done, err = codec.Step(d.avcType, &offset, buf, eos); err != nil || !done {
			return offset, utils.Track(err, "avc packet type")
		}
		if done, err = codec.Step(&d.compositionTime, &offset, buf, eos); err != nil || !done {
			return offset, utils.Track(err, "composition time")
		}
	}
	_, err = codec.Step(&d.data, &offset, buf, eos)
	return offset, err
}

func (d *videoDataDecoder) IsIdle() bool {
	return d.data.IsIdle()
}

func (d *videoDataDecoder) RequiringBytes() goflv.ByteCount {
	return d.data.RequiringBytes()
}

func (d *videoDataDecoder) FinishDecoding() (Tag, error) {
	h, err := d.header.FinishDecoding()
	if err != nil {
		return nil, err
	}
	tag := VideoTag{FrameType: h.frame, CodecID: h.codec}
	if hasAVCFields(h.frame, h.codec) {
		pt, err := d.avcType.FinishDecoding()
		if err != nil {
			return nil, err
		}
		cts, err := d.compositionTime.FinishDecoding()
		if err != nil {
			return nil, err
		}
		offset := timeOffsetFromU24(cts)
		tag.AVCPacketType, tag.CompositionTime = &pt, &offset
	}
	if tag.Data, err = d.data.FinishDecoding(); err != nil {
		return nil, err
	}
	return tag, nil
}

type scriptDataDecoder struct {
	data codec.RemainingBytesDecoder
}

func (d *scriptDataDecoder) Decode(buf []byte, eos bool) (int, error) {
	return d.data.Decode(buf, eos)
}

func (d *scriptDataDecoder) IsIdle() bool                    { return d.data.IsIdle() }
func (d *scriptDataDecoder) RequiringBytes() goflv.ByteCount { return d.data.RequiringBytes() }

func (d *scriptDataDecoder) FinishDecoding() (Tag, error) {
	data, err := d.data.FinishDecoding()
	if err != nil {
		return nil, err
	}
	return ScriptDataTag{Data: data}, nil
}

// Payload encoders. The tag is validated before any of them starts.

type audioDataEncoder struct {
	header  codec.U8Encoder
	aacType codec.U8Encoder
	data    codec.BytesEncoder
}

func (e *audioDataEncoder) start(t AudioTag) error {
	h := audioHeader{format: t.SoundFormat, rate: t.SoundRate, size: t.SoundSize, typ: t.SoundType}
	if err := e.header.StartEncoding(h.pack()); err != nil {
		return err
	}
	if t.AACPacketType != nil {
		if err := e.aacType.StartEncoding(uint8(*t.AACPacketType)); err != nil {
			return err
		}
	}
	return e.data.StartEncoding(t.Data)
}

func (e *audioDataEncoder) Encode(buf []byte) (int, error) {
	offset := 0
	for _, em := range []codec.Emitter{&e.header, &e.aacType, &e.data} {
		done, err := codec.StepEncode(em, &offset, buf)
		if err != nil || !done {
			return offset, err
		}
	}
	return offset, nil
}

func (e *audioDataEncoder) IsIdle() bool {
	return e.header.IsIdle() && e.aacType.IsIdle() && e.data.IsIdle()
}

func (e *audioDataEncoder) ExactRequiringBytes() uint64 {
	return e.header.ExactRequiringBytes() + e.aacType.ExactRequiringBytes() + e.data.ExactRequiringBytes()
}

type videoDataEncoder struct {
	header          codec.U8Encoder
	avcType         codec.U8Encoder
	compositionTime codec.U24beEncoder
	data            codec.BytesEncoder
}

func (e *videoDataEncoder) start(t VideoTag) error {
	if err := e.header.StartEncoding(uint8(t.FrameType)<<4 | uint8(t.CodecID)); err != nil {
		return err
	}
	if t.AVCPacketType != nil {
		if err := e.avcType.StartEncoding(uint8(*t.AVCPacketType)); err != nil {
			return err
		}
		if err := e.compositionTime.StartEncoding(t.CompositionTime.u24()); err != nil {
			return err
		}
	}
	return e.data.StartEncoding(t.Data)
}

func (e *videoDataEncoder) Encode(buf []byte) (int, error) {
	offset := 0
	for _, em := range []codec.Emitter{&e.header, &e.avcType, &e.compositionTime, &e.data} {
		done, err := codec.StepEncode(em, &offset, buf)
		if err != nil || !done {
			return offset, err
		}
	}
	return offset, nil
}

func (e *videoDataEncoder) IsIdle() bool {
	return e.header.IsIdle() && e.avcType.IsIdle() && e.compositionTime.IsIdle() && e.data.IsIdle()
}

func (e *videoDataEncoder) ExactRequiringBytes() uint64 {
	return e.header.ExactRequiringBytes() + e.avcType.ExactRequiringBytes() +
		e.compositionTime.ExactRequiringBytes() + e.data.ExactRequiringBytes()
}
