package codec

import (
	"github.com/ugparu/goflv"
	"github.com/ugparu/goflv/utils"
)

// beDecoder accumulates up to four big-endian bytes across calls.
type beDecoder struct {
	buf [4]byte
	n   int
}

func (d *beDecoder) decode(width int, buf []byte, eos bool) (int, error) {
	if d.n == width {
		return 0, nil
	}
	size := copy(d.buf[d.n:width], buf)
	d.n += size
	if d.n < width && eos {
		return size, utils.NewError(utils.ErrPrematureEOS, "%d of %d bytes of a number", d.n, width)
	}
	return size, nil
}

func (d *beDecoder) finish(width int) (uint32, error) {
	if d.n != width {
		return 0, utils.NewError(utils.ErrInconsistentState, "number decoder finished with %d of %d bytes", d.n, width)
	}
	var v uint32
	for _, b := range d.buf[:width] {
		v = v<<8 | uint32(b)
	}
	d.n = 0
	return v, nil
}

// U8Decoder decodes a single byte.
type U8Decoder struct{ beDecoder }

func (d *U8Decoder) Decode(buf []byte, eos bool) (int, error) { return d.decode(1, buf, eos) }
func (d *U8Decoder) IsIdle() bool                             { return d.n == 1 }
func (d *U8Decoder) RequiringBytes() goflv.ByteCount          { return goflv.Finite(uint64(1 - d.n)) }

func (d *U8Decoder) FinishDecoding() (uint8, error) {
	v, err := d.finish(1)
	return uint8(v), err
}

// U24beDecoder decodes an unsigned 24-bit big-endian integer.
type U24beDecoder struct{ beDecoder }

func (d *U24beDecoder) Decode(buf []byte, eos bool) (int, error) { return d.decode(3, buf, eos) }
func (d *U24beDecoder) IsIdle() bool                             { return d.n == 3 }
func (d *U24beDecoder) RequiringBytes() goflv.ByteCount          { return goflv.Finite(uint64(3 - d.n)) }
func (d *U24beDecoder) FinishDecoding() (uint32, error)          { return d.finish(3) }

// U32beDecoder decodes an unsigned 32-bit big-endian integer.
type U32beDecoder struct{ beDecoder }

func (d *U32beDecoder) Decode(buf []byte, eos bool) (int, error) { return d.decode(4, buf, eos) }
func (d *U32beDecoder) IsIdle() bool                             { return d.n == 4 }
func (d *U32beDecoder) RequiringBytes() goflv.ByteCount          { return goflv.Finite(uint64(4 - d.n)) }
func (d *U32beDecoder) FinishDecoding() (uint32, error)          { return d.finish(4) }

// beEncoder holds up to four pending big-endian bytes.
type beEncoder struct {
	buf   [4]byte
	width int
	off   int
}

func (e *beEncoder) start(v uint32, width int) error {
	if e.off != e.width {
		return utils.NewError(utils.ErrInconsistentState, "number encoder is busy")
	}
	for i := width - 1; i >= 0; i-- {
		e.buf[i] = byte(v)
		v >>= 8
	}
	e.width, e.off = width, 0
	return nil
}

func (e *beEncoder) Encode(buf []byte) (int, error) {
	n := copy(buf, e.buf[e.off:e.width])
	e.off += n
	return n, nil
}

func (e *beEncoder) IsIdle() bool                    { return e.off == e.width }
func (e *beEncoder) ExactRequiringBytes() uint64     { return uint64(e.width - e.off) }
func (e *beEncoder) RequiringBytes() goflv.ByteCount { return goflv.Finite(e.ExactRequiringBytes()) }

// U8Encoder encodes a single byte.
type U8Encoder struct{ beEncoder }

func (e *U8Encoder) StartEncoding(v uint8) error { return e.start(uint32(v), 1) }

// U24beEncoder encodes an unsigned 24-bit big-endian integer.
type U24beEncoder struct{ beEncoder }

func (e *U24beEncoder) StartEncoding(v uint32) error {
	if v > 0xFFFFFF {
		return utils.NewError(utils.ErrInvalidInput, "%d does not fit in 24 bits", v)
	}
	return e.start(v, 3)
}

// U32beEncoder encodes an unsigned 32-bit big-endian integer.
type U32beEncoder struct{ beEncoder }

func (e *U32beEncoder) StartEncoding(v uint32) error { return e.start(v, 4) }
