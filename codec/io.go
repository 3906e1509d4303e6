package codec

import (
	"errors"
	"io"

	"github.com/ugparu/goflv"
	"github.com/ugparu/goflv/utils"
	"github.com/ugparu/goflv/utils/buffer"
)

// DefaultReadBufSize is the capacity used by NewReadBuf when size <= 0.
const DefaultReadBufSize = 4 * 1024

// ReadBuf is a fixed-capacity window over an io.Reader that remembers whether
// the reader reached its end.
type ReadBuf struct {
	buf        buffer.PooledBuffer
	head, tail int
	eos        bool
}

// NewReadBuf borrows a buffer of size bytes from the pool.
func NewReadBuf(size int) *ReadBuf {
	if size <= 0 {
		size = DefaultReadBufSize
	}
	return &ReadBuf{buf: buffer.Get(size)}
}

// Fill reads once from r into the free tail of the buffer. It returns no
// error when the reader is exhausted; IsEOS reports that instead.
func (rb *ReadBuf) Fill(r io.Reader) error {
	return rb.FillUpTo(r, rb.buf.Len())
}

// FillUpTo is Fill limited to at most limit new bytes.
func (rb *ReadBuf) FillUpTo(r io.Reader, limit int) error {
	if rb.eos {
		return nil
	}
	data := rb.buf.Data()
	if rb.head == rb.tail {
		rb.head, rb.tail = 0, 0
	} else if rb.tail == len(data) && rb.head > 0 {
		rb.tail = copy(data, data[rb.head:rb.tail])
		rb.head = 0
	}
	free := data[rb.tail:]
	if len(free) == 0 || limit <= 0 {
		return nil
	}
	if limit < len(free) {
		free = free[:limit]
	}

	n, err := r.Read(free)
	rb.tail += n
	if errors.Is(err, io.EOF) {
		rb.eos = true
		return nil
	}
	return err
}

// Bytes returns the buffered, not yet consumed bytes.
func (rb *ReadBuf) Bytes() []byte {
	return rb.buf.Data()[rb.head:rb.tail]
}

// Consume drops n bytes from the front of the buffer.
func (rb *ReadBuf) Consume(n int) {
	rb.head += n
}

// Len is the number of buffered bytes.
func (rb *ReadBuf) Len() int {
	return rb.tail - rb.head
}

// IsEOS reports whether the reader is exhausted. Buffered bytes may remain.
func (rb *ReadBuf) IsEOS() bool {
	return rb.eos
}

// IsDrained reports whether the reader is exhausted and nothing is buffered.
func (rb *ReadBuf) IsDrained() bool {
	return rb.eos && rb.head == rb.tail
}

// Release returns the storage to the pool.
func (rb *ReadBuf) Release() {
	if rb.buf != nil {
		rb.buf.Release()
		rb.buf = nil
	}
}

// DecodeFromReadBuf runs one decode step over the buffered bytes.
func DecodeFromReadBuf(d goflv.Stepper, rb *ReadBuf) error {
	n, err := d.Decode(rb.Bytes(), rb.IsEOS())
	rb.Consume(n)
	return err
}

// DecodeExact decodes one item from r without reading past its end, sizing
// every read by RequiringBytes. It returns io.EOF when r ends cleanly before
// the item starts.
func DecodeExact[T any](d goflv.Decoder[T], r io.Reader) (item T, err error) {
	scratch := buffer.Get(DefaultReadBufSize)
	defer scratch.Release()
	buf := scratch.Data()

	for !d.IsIdle() {
		size := len(buf)
		if n, ok := d.RequiringBytes().Value(); ok && n < uint64(size) {
			size = int(n)
		}
		if size == 0 {
			size = 1
		}

		read, rerr := io.ReadFull(r, buf[:size])
		eos := errors.Is(rerr, io.EOF) || errors.Is(rerr, io.ErrUnexpectedEOF)
		if rerr != nil && !eos {
			return item, rerr
		}

		n, derr := d.Decode(buf[:read], eos)
		if derr != nil {
			return item, derr
		}
		if n != read {
			return item, utils.NewError(utils.ErrInconsistentState,
				"decoder took %d of %d bytes it asked for", n, read)
		}
		if eos && !d.IsIdle() {
			return item, io.EOF
		}
	}
	return d.FinishDecoding()
}

// EncodeAll drains e into w.
func EncodeAll(e Emitter, w io.Writer) error {
	scratch := buffer.Get(DefaultReadBufSize)
	defer scratch.Release()
	buf := scratch.Data()

	for !e.IsIdle() {
		n, err := e.Encode(buf)
		if err != nil {
			return err
		}
		if _, err = w.Write(buf[:n]); err != nil {
			return err
		}
	}
	return nil
}
