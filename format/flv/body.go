package flv

import (
	"github.com/ugparu/goflv"
	"github.com/ugparu/goflv/codec"
	"github.com/ugparu/goflv/utils"
)

type firstPrevTagSizeDecoder struct{ codec.U32beDecoder }

func (d *firstPrevTagSizeDecoder) FinishDecoding() (uint32, error) {
	v, err := d.U32beDecoder.FinishDecoding()
	if err != nil {
		return 0, err
	}
	if v != FirstPrevTagSize {
		return 0, utils.NewError(utils.ErrInvalidInput, "size before the first tag is %d, want %d", v, FirstPrevTagSize)
	}
	return v, nil
}

func newFirstPrevTagSize() *codec.Peekable[uint32] {
	return codec.NewPeekable[uint32](&firstPrevTagSizeDecoder{})
}

// BodyDecoder decodes everything after the file header: the zero size that
// precedes the first tag, then tags each followed by its size.
//
// An end of stream between two tags is a normal end: Decode returns no error
// and the decoder stays non-idle. An end of stream inside a tag fails.
type BodyDecoder struct {
	leading  *codec.Peekable[uint32]
	tag      *codec.MaybeEOS[Tag]
	trailing codec.U32beDecoder
}

// NewBodyDecoder creates a decoder expecting the leading zero size.
func NewBodyDecoder() *BodyDecoder {
	d := newTagsDecoder()
	d.leading = newFirstPrevTagSize()
	return d
}

// newTagsDecoder decodes (tag, size) pairs only.
func newTagsDecoder() *BodyDecoder {
	return &BodyDecoder{tag: codec.NewMaybeEOS[Tag](NewTagDecoder())}
}

func (d *BodyDecoder) Decode(buf []byte, eos bool) (int, error) {
	offset := 0
	if d.leading != nil {
		done, err := codec.Step(d.leading, &offset, buf, eos)
		if err != nil || !done {
			return offset, utils.Track(err, "first previous tag size")
		}
	}
	done, err := codec.Step(d.tag, &offset, buf, eos)
	if err != nil || !done {
		return offset, err
	}
	_, err = codec.Step(&d.trailing, &offset, buf, eos)
	return offset, utils.Track(err, "previous tag size")
}

func (d *BodyDecoder) IsIdle() bool {
	return d.tag.IsIdle() && d.trailing.IsIdle()
}

// InProgress reports whether part of a tag was consumed.
func (d *BodyDecoder) InProgress() bool {
	return d.tag.InProgress()
}

func (d *BodyDecoder) RequiringBytes() goflv.ByteCount {
	n := d.trailing.RequiringBytes()
	if !d.tag.IsIdle() {
		n = n.Add(d.tag.RequiringBytes())
	}
	if d.leading != nil {
		n = n.Add(d.leading.RequiringBytes())
	}
	return n
}

// FinishDecoding returns the decoded tag after checking the size that
// follows it.
func (d *BodyDecoder) FinishDecoding() (Tag, error) {
	if !d.IsIdle() {
		return nil, utils.NewError(utils.ErrInconsistentState, "no tag is fully decoded")
	}
	tag, err := d.tag.FinishDecoding()
	if err != nil {
		return nil, err
	}
	size, err := d.trailing.FinishDecoding()
	if err != nil {
		return nil, err
	}
	if size != tag.TagSize() {
		return nil, utils.NewError(utils.ErrSizeMismatch,
			"%s tag is followed by size %d, its encoded size is %d", tag.Type(), size, tag.TagSize())
	}
	return tag, nil
}

// BodyEncoder writes the leading zero size, then each tag followed by its
// size.
type BodyEncoder struct {
	leading  codec.U32beEncoder
	tag      *TagEncoder
	trailing codec.U32beEncoder
}

// NewBodyEncoder creates an encoder with the leading zero size queued.
func NewBodyEncoder() *BodyEncoder {
	e := &BodyEncoder{tag: NewTagEncoder()}
	_ = e.leading.StartEncoding(FirstPrevTagSize)
	return e
}

// StartEncoding queues tag. Bytes of the previous tag or of the leading size
// that were not written yet stay in front of it.
func (e *BodyEncoder) StartEncoding(tag Tag) error {
	if !e.tag.IsIdle() || !e.trailing.IsIdle() {
		return utils.NewError(utils.ErrInconsistentState, "body encoder is busy")
	}
	if err := e.tag.StartEncoding(tag); err != nil {
		return err
	}
	return e.trailing.StartEncoding(tag.TagSize())
}

func (e *BodyEncoder) Encode(buf []byte) (int, error) {
	offset := 0
	for _, em := range []codec.Emitter{&e.leading, e.tag, &e.trailing} {
		done, err := codec.StepEncode(em, &offset, buf)
		if err != nil || !done {
			return offset, err
		}
	}
	return offset, nil
}

func (e *BodyEncoder) IsIdle() bool {
	return e.leading.IsIdle() && e.tag.IsIdle() && e.trailing.IsIdle()
}

func (e *BodyEncoder) ExactRequiringBytes() uint64 {
	return e.leading.ExactRequiringBytes() + e.tag.ExactRequiringBytes() + e.trailing.ExactRequiringBytes()
}

func (e *BodyEncoder) RequiringBytes() goflv.ByteCount {
	return goflv.Finite(e.ExactRequiringBytes())
}
