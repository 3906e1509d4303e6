package flv

import (
	"github.com/ugparu/goflv"
	"github.com/ugparu/goflv/codec"
	"github.com/ugparu/goflv/utils"
	"github.com/ugparu/goflv/utils/logger"
)

// FileDecoder decodes a whole FLV stream and yields its tags one by one.
// Errors carry the absolute offset of the item that failed: the header, the
// leading size or a tag.
type FileDecoder struct {
	headerDec *HeaderDecoder
	header    *codec.Peekable[Header]
	leading   *codec.Peekable[uint32]
	body      *BodyDecoder

	position  int64
	itemStart int64
	tags      uint64
}

// NewFileDecoder creates a decoder waiting for the file header.
func NewFileDecoder() *FileDecoder {
	hd := NewHeaderDecoder()
	return &FileDecoder{
		headerDec: hd,
		header:    codec.NewPeekable[Header](hd),
		leading:   newFirstPrevTagSize(),
		body:      newTagsDecoder(),
	}
}

// Header returns the file header once its fixed part was decoded.
func (d *FileDecoder) Header() (Header, bool) {
	if h, ok := d.header.Peek(); ok {
		return h, true
	}
	return d.headerDec.Peek()
}

func (d *FileDecoder) Decode(buf []byte, eos bool) (int, error) {
	offset, err := d.decode(buf, eos)
	d.position += int64(offset)
	if err != nil {
		logger.Warningf(d, "decoding failed at offset %d: %v", d.itemStart, err)
		return offset, utils.WithOffset(err, d.itemStart)
	}
	return offset, nil
}

func (d *FileDecoder) decode(buf []byte, eos bool) (int, error) {
	offset := 0
	if !d.header.IsIdle() {
		done, err := codec.Step(d.header, &offset, buf, eos)
		if err != nil || !done {
			return offset, err
		}
		d.itemStart = d.position + int64(offset)
	}
	if !d.leading.IsIdle() {
		done, err := codec.Step(d.leading, &offset, buf, eos)
		if err != nil || !done {
			return offset, utils.Track(err, "first previous tag size")
		}
		d.itemStart = d.position + int64(offset)
	}
	_, err := codec.Step(d.body, &offset, buf, eos)
	return offset, err
}

func (d *FileDecoder) IsIdle() bool {
	return d.header.IsIdle() && d.leading.IsIdle() && d.body.IsIdle()
}

// InProgress reports whether part of an item was consumed, i.e. whether an end
// of stream now would be premature.
func (d *FileDecoder) InProgress() bool {
	return !d.header.IsIdle() || !d.leading.IsIdle() || d.body.InProgress()
}

func (d *FileDecoder) RequiringBytes() goflv.ByteCount {
	if !d.header.IsIdle() {
		return d.header.RequiringBytes()
	}
	return d.leading.RequiringBytes().Add(d.body.RequiringBytes())
}

// FinishDecoding returns the next tag.
func (d *FileDecoder) FinishDecoding() (Tag, error) {
	tag, err := d.body.FinishDecoding()
	if err != nil {
		return nil, utils.WithOffset(err, d.itemStart)
	}
	d.itemStart = d.position
	d.tags++
	return tag, nil
}

// Tags is the number of tags returned so far.
func (d *FileDecoder) Tags() uint64 {
	return d.tags
}

// Position is the number of bytes consumed so far.
func (d *FileDecoder) Position() int64 {
	return d.position
}

// FileEncoder writes a file header followed by the tags passed to
// StartEncoding. The header is queued by the constructor and comes out with
// the first Encode call.
type FileEncoder struct {
	header *HeaderEncoder
	body   *BodyEncoder
}

// NewFileEncoder creates an encoder for a file with header h.
func NewFileEncoder(h Header) *FileEncoder {
	e := &FileEncoder{header: NewHeaderEncoder(), body: NewBodyEncoder()}
	_ = e.header.StartEncoding(h)
	return e
}

func (e *FileEncoder) StartEncoding(tag Tag) error {
	return e.body.StartEncoding(tag)
}

func (e *FileEncoder) Encode(buf []byte) (int, error) {
	offset := 0
	done, err := codec.StepEncode(e.header, &offset, buf)
	if err != nil || !done {
		return offset, err
	}
	_, err = codec.StepEncode(e.body, &offset, buf)
	return offset, err
}

func (e *FileEncoder) IsIdle() bool {
	return e.header.IsIdle() && e.body.IsIdle()
}

func (e *FileEncoder) ExactRequiringBytes() uint64 {
	return e.header.ExactRequiringBytes() + e.body.ExactRequiringBytes()
}

func (e *FileEncoder) RequiringBytes() goflv.ByteCount {
	return goflv.Finite(e.ExactRequiringBytes())
}
