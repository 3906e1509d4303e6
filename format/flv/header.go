package flv

import (
	"bytes"
	"encoding/binary"

	"github.com/ugparu/goflv"
	"github.com/ugparu/goflv/codec"
	"github.com/ugparu/goflv/utils"
	"github.com/ugparu/goflv/utils/logger"
)

// Header is the FLV file header.
type Header struct {
	HasAudio bool
	HasVideo bool
}

func (h Header) flags() uint8 {
	var b uint8
	if h.HasAudio {
		b |= flagAudio
	}
	if h.HasVideo {
		b |= flagVideo
	}
	return b
}

type headerFields struct {
	header     Header
	dataOffset uint32
}

type signatureDecoder struct{ *codec.FixedBytesDecoder }

func (d signatureDecoder) FinishDecoding() ([]byte, error) {
	sig, err := d.FixedBytesDecoder.FinishDecoding()
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(sig, []byte(Signature)) {
		return nil, utils.NewError(utils.ErrMalformedSignature, "not an FLV file, signature % x", sig)
	}
	return sig, nil
}

type versionDecoder struct{ codec.U8Decoder }

func (d *versionDecoder) FinishDecoding() (uint8, error) {
	v, err := d.U8Decoder.FinishDecoding()
	if err != nil {
		return 0, err
	}
	if v != Version {
		return 0, utils.NewError(utils.ErrUnknownVersion, "version %d", v)
	}
	return v, nil
}

// headerFieldsDecoder decodes the fixed 9-byte part. Signature and version are
// checked as soon as their bytes arrive.
type headerFieldsDecoder struct {
	signature  *codec.Peekable[[]byte]
	version    *codec.Peekable[uint8]
	flags      codec.U8Decoder
	dataOffset codec.U32beDecoder
}

func newHeaderFieldsDecoder() *headerFieldsDecoder {
	return &headerFieldsDecoder{
		signature: codec.NewPeekable[[]byte](signatureDecoder{codec.NewFixedBytesDecoder(len(Signature))}),
		version:   codec.NewPeekable[uint8](&versionDecoder{}),
	}
}

func (d *headerFieldsDecoder) steppers() []goflv.Stepper {
	return []goflv.Stepper{d.signature, d.version, &d.flags, &d.dataOffset}
}

func (d *headerFieldsDecoder) Decode(buf []byte, eos bool) (int, error) {
	offset := 0
	for _, s := range d.steppers() {
		done, err := codec.Step(s, &offset, buf, eos)
		if err != nil || !done {
			return offset, err
		}
	}
	return offset, nil
}

func (d *headerFieldsDecoder) IsIdle() bool {
	return d.dataOffset.IsIdle()
}

func (d *headerFieldsDecoder) RequiringBytes() goflv.ByteCount {
	n := uint64(0)
	for _, s := range d.steppers() {
		v, _ := s.RequiringBytes().Value()
		n += v
	}
	return goflv.Finite(n)
}

func (d *headerFieldsDecoder) FinishDecoding() (f headerFields, err error) {
	if _, err = d.signature.FinishDecoding(); err != nil {
		return f, err
	}
	if _, err = d.version.FinishDecoding(); err != nil {
		return f, err
	}
	flags, err := d.flags.FinishDecoding()
	if err != nil {
		return f, err
	}
	if f.dataOffset, err = d.dataOffset.FinishDecoding(); err != nil {
		return f, err
	}
	if f.dataOffset < HeaderSize {
		return f, utils.NewError(utils.ErrInvalidInput, "data offset %d is shorter than the %d-byte header", f.dataOffset, HeaderSize)
	}
	f.header = Header{HasAudio: flags&flagAudio != 0, HasVideo: flags&flagVideo != 0}
	return f, nil
}

// HeaderDecoder decodes the file header including the padding up to the
// declared data offset.
type HeaderDecoder struct {
	fields  *codec.Peekable[headerFields]
	padding *codec.Length[uint64]
	pad     codec.PaddingDecoder
	started bool
}

// NewHeaderDecoder creates a decoder waiting for the signature.
func NewHeaderDecoder() *HeaderDecoder {
	d := &HeaderDecoder{fields: codec.NewPeekable[headerFields](newHeaderFieldsDecoder())}
	d.padding = codec.NewLength[uint64](&d.pad, 0)
	return d
}

func (d *HeaderDecoder) Decode(buf []byte, eos bool) (int, error) {
	offset := 0
	done, err := codec.Step(d.fields, &offset, buf, eos)
	if err != nil || !done {
		return offset, utils.Track(err, "file header")
	}
	if !d.started {
		f, _ := d.fields.Peek()
		d.padding.Reset(&d.pad, uint64(f.dataOffset-HeaderSize))
		d.started = true
	}
	_, err = codec.Step(d.padding, &offset, buf, eos)
	return offset, utils.Track(err, "header padding")
}

func (d *HeaderDecoder) IsIdle() bool {
	return d.started && d.padding.IsIdle()
}

func (d *HeaderDecoder) RequiringBytes() goflv.ByteCount {
	if !d.started {
		return d.fields.RequiringBytes()
	}
	return d.padding.RequiringBytes()
}

// Peek returns the header once its fixed part was decoded, possibly before
// the padding was skipped.
func (d *HeaderDecoder) Peek() (Header, bool) {
	f, ok := d.fields.Peek()
	return f.header, ok
}

func (d *HeaderDecoder) FinishDecoding() (Header, error) {
	if !d.IsIdle() {
		return Header{}, utils.NewError(utils.ErrInconsistentState, "file header is not fully decoded")
	}
	f, err := d.fields.FinishDecoding()
	if err != nil {
		return Header{}, err
	}
	skipped, err := d.padding.FinishDecoding()
	if err != nil {
		return Header{}, err
	}
	d.started = false
	logger.Debugf(d, "decoded header: audio=%t video=%t padding=%d", f.header.HasAudio, f.header.HasVideo, skipped)
	return f.header, nil
}

// HeaderEncoder writes the file header with a data offset of 9, i.e. without
// padding.
type HeaderEncoder struct {
	buf [HeaderSize]byte
	out codec.BytesEncoder
}

// NewHeaderEncoder creates an idle encoder.
func NewHeaderEncoder() *HeaderEncoder {
	return &HeaderEncoder{}
}

func (e *HeaderEncoder) StartEncoding(h Header) error {
	if !e.IsIdle() {
		return utils.NewError(utils.ErrInconsistentState, "header encoder is busy")
	}
	copy(e.buf[:], Signature)
	e.buf[3] = Version
	e.buf[4] = h.flags()
	binary.BigEndian.PutUint32(e.buf[5:], HeaderSize)
	return e.out.StartEncoding(e.buf[:])
}

func (e *HeaderEncoder) Encode(buf []byte) (int, error) { return e.out.Encode(buf) }
func (e *HeaderEncoder) IsIdle() bool                   { return e.out.IsIdle() }
func (e *HeaderEncoder) ExactRequiringBytes() uint64    { return e.out.ExactRequiringBytes() }
func (e *HeaderEncoder) RequiringBytes() goflv.ByteCount {
	return goflv.Finite(e.ExactRequiringBytes())
}
