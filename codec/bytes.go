package codec

import (
	"github.com/ugparu/goflv"
	"github.com/ugparu/goflv/utils"
)

// FixedBytesDecoder collects exactly N bytes.
type FixedBytesDecoder struct {
	buf []byte
	n   int
}

// NewFixedBytesDecoder creates a decoder for runs of size bytes.
func NewFixedBytesDecoder(size int) *FixedBytesDecoder {
	return &FixedBytesDecoder{buf: make([]byte, size)}
}

func (d *FixedBytesDecoder) Decode(buf []byte, eos bool) (int, error) {
	size := copy(d.buf[d.n:], buf)
	d.n += size
	if d.n < len(d.buf) && eos {
		return size, utils.NewError(utils.ErrPrematureEOS, "%d of %d bytes", d.n, len(d.buf))
	}
	return size, nil
}

func (d *FixedBytesDecoder) IsIdle() bool {
	return d.n == len(d.buf)
}

func (d *FixedBytesDecoder) RequiringBytes() goflv.ByteCount {
	return goflv.Finite(uint64(len(d.buf) - d.n))
}

// FinishDecoding returns a copy of the collected bytes.
func (d *FixedBytesDecoder) FinishDecoding() ([]byte, error) {
	if !d.IsIdle() {
		return nil, utils.NewError(utils.ErrInconsistentState, "%d of %d bytes collected", d.n, len(d.buf))
	}
	out := append([]byte(nil), d.buf...)
	d.n = 0
	return out, nil
}

// RemainingBytesDecoder collects everything up to the end of stream.
// Under a Length bound the end of stream is the end of the bound.
type RemainingBytesDecoder struct {
	buf []byte
	eos bool
}

// Reserve preallocates room for n bytes.
func (d *RemainingBytesDecoder) Reserve(n int) {
	if d.buf == nil && n > 0 {
		d.buf = make([]byte, 0, n)
	}
}

func (d *RemainingBytesDecoder) Decode(buf []byte, eos bool) (int, error) {
	if d.eos {
		return 0, nil
	}
	d.buf = append(d.buf, buf...)
	d.eos = eos
	return len(buf), nil
}

func (d *RemainingBytesDecoder) IsIdle() bool {
	return d.eos
}

func (d *RemainingBytesDecoder) RequiringBytes() goflv.ByteCount {
	if d.eos {
		return goflv.Finite(0)
	}
	return goflv.Unknown
}

// FinishDecoding returns the collected bytes, nil when nothing was collected.
func (d *RemainingBytesDecoder) FinishDecoding() ([]byte, error) {
	if !d.eos {
		return nil, utils.NewError(utils.ErrInconsistentState, "remaining bytes finished before end of stream")
	}
	out := d.buf
	if len(out) == 0 {
		out = nil
	}
	d.buf, d.eos = nil, false
	return out, nil
}

// PaddingDecoder discards everything up to the end of stream.
type PaddingDecoder struct {
	skipped uint64
	eos     bool
}

func (d *PaddingDecoder) Decode(buf []byte, eos bool) (int, error) {
	if d.eos {
		return 0, nil
	}
	d.skipped += uint64(len(buf))
	d.eos = eos
	return len(buf), nil
}

func (d *PaddingDecoder) IsIdle() bool {
	return d.eos
}

func (d *PaddingDecoder) RequiringBytes() goflv.ByteCount {
	if d.eos {
		return goflv.Finite(0)
	}
	return goflv.Unknown
}

// FinishDecoding returns the number of skipped bytes.
func (d *PaddingDecoder) FinishDecoding() (uint64, error) {
	if !d.eos {
		return 0, utils.NewError(utils.ErrInconsistentState, "padding finished before end of stream")
	}
	n := d.skipped
	d.skipped, d.eos = 0, false
	return n, nil
}

// BytesEncoder writes a caller-owned slice. The slice must not change until
// the encoder is idle again.
type BytesEncoder struct {
	buf []byte
	off int
}

func (e *BytesEncoder) StartEncoding(b []byte) error {
	if !e.IsIdle() {
		return utils.NewError(utils.ErrInconsistentState, "bytes encoder is busy")
	}
	e.buf, e.off = b, 0
	return nil
}

func (e *BytesEncoder) Encode(buf []byte) (int, error) {
	n := copy(buf, e.buf[e.off:])
	e.off += n
	if e.off == len(e.buf) {
		e.buf, e.off = nil, 0
	}
	return n, nil
}

func (e *BytesEncoder) IsIdle() bool                    { return e.off == len(e.buf) }
func (e *BytesEncoder) ExactRequiringBytes() uint64     { return uint64(len(e.buf) - e.off) }
func (e *BytesEncoder) RequiringBytes() goflv.ByteCount { return goflv.Finite(e.ExactRequiringBytes()) }
