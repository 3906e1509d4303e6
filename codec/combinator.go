package codec

import (
	"errors"

	"github.com/ugparu/goflv"
	"github.com/ugparu/goflv/utils"
)

// Length bounds an inner decoder to exactly n bytes. The inner decoder sees
// the end of stream at the bound and must become idle having consumed all of it.
type Length[T any] struct {
	inner     goflv.Decoder[T]
	expected  uint64
	remaining uint64
}

// NewLength wraps inner with a bound of n bytes.
func NewLength[T any](inner goflv.Decoder[T], n uint64) *Length[T] {
	return &Length[T]{inner: inner, expected: n, remaining: n}
}

// Reset replaces the inner decoder and the bound.
func (l *Length[T]) Reset(inner goflv.Decoder[T], n uint64) {
	l.inner, l.expected, l.remaining = inner, n, n
}

// Inner returns the bounded decoder.
func (l *Length[T]) Inner() goflv.Decoder[T] {
	return l.inner
}

func (l *Length[T]) Decode(buf []byte, eos bool) (int, error) {
	atBound := false
	if uint64(len(buf)) >= l.remaining {
		buf = buf[:l.remaining]
		atBound = true
	}

	n, err := l.inner.Decode(buf, atBound)
	l.remaining -= uint64(n)
	if err != nil {
		if atBound && errors.Is(err, utils.ErrPrematureEOS) {
			return n, utils.NewError(utils.ErrSizeMismatch,
				"content does not fit the declared %d bytes", l.expected)
		}
		return n, err
	}

	if l.inner.IsIdle() {
		if l.remaining != 0 {
			return n, utils.NewError(utils.ErrSizeMismatch,
				"content ended with %d of the declared %d bytes unread", l.remaining, l.expected)
		}
		return n, nil
	}
	if eos {
		return n, utils.NewError(utils.ErrPrematureEOS, "%d of %d bounded bytes missing", l.remaining, l.expected)
	}
	return n, nil
}

func (l *Length[T]) IsIdle() bool {
	return l.remaining == 0 && l.inner.IsIdle()
}

func (l *Length[T]) RequiringBytes() goflv.ByteCount {
	return goflv.Finite(l.remaining)
}

func (l *Length[T]) FinishDecoding() (item T, err error) {
	if l.remaining != 0 {
		return item, utils.NewError(utils.ErrInconsistentState,
			"bounded decoder finished with %d bytes remaining", l.remaining)
	}
	return l.inner.FinishDecoding()
}

// Peekable finishes its inner decoder as soon as it is idle and keeps the
// value, so a caller can inspect a discriminant before deciding what follows.
type Peekable[T any] struct {
	inner goflv.Decoder[T]
	item  T
	has   bool
}

// NewPeekable wraps inner.
func NewPeekable[T any](inner goflv.Decoder[T]) *Peekable[T] {
	return &Peekable[T]{inner: inner}
}

func (p *Peekable[T]) Decode(buf []byte, eos bool) (int, error) {
	if p.has {
		return 0, nil
	}
	n, err := p.inner.Decode(buf, eos)
	if err != nil {
		return n, err
	}
	if p.inner.IsIdle() {
		if p.item, err = p.inner.FinishDecoding(); err != nil {
			return n, err
		}
		p.has = true
	}
	return n, nil
}

func (p *Peekable[T]) IsIdle() bool {
	return p.has
}

func (p *Peekable[T]) RequiringBytes() goflv.ByteCount {
	if p.has {
		return goflv.Finite(0)
	}
	return p.inner.RequiringBytes()
}

// Peek returns the decoded value without taking it.
func (p *Peekable[T]) Peek() (T, bool) {
	return p.item, p.has
}

func (p *Peekable[T]) FinishDecoding() (item T, err error) {
	if !p.has {
		return item, utils.NewError(utils.ErrInconsistentState, "nothing to take from peekable decoder")
	}
	item = p.item
	var zero T
	p.item, p.has = zero, false
	return item, nil
}

// MaybeEOS turns an end of stream that arrives before the first byte of an
// item into a clean stop instead of ErrPrematureEOS.
type MaybeEOS[T any] struct {
	inner   goflv.Decoder[T]
	started bool
}

// NewMaybeEOS wraps inner.
func NewMaybeEOS[T any](inner goflv.Decoder[T]) *MaybeEOS[T] {
	return &MaybeEOS[T]{inner: inner}
}

func (m *MaybeEOS[T]) Decode(buf []byte, eos bool) (int, error) {
	if !m.started && len(buf) == 0 && eos {
		return 0, nil
	}
	n, err := m.inner.Decode(buf, eos)
	if n > 0 {
		m.started = true
	}
	return n, err
}

func (m *MaybeEOS[T]) IsIdle() bool {
	return m.inner.IsIdle()
}

// InProgress reports whether part of an item was consumed.
func (m *MaybeEOS[T]) InProgress() bool {
	return m.started
}

func (m *MaybeEOS[T]) RequiringBytes() goflv.ByteCount {
	return m.inner.RequiringBytes()
}

func (m *MaybeEOS[T]) FinishDecoding() (T, error) {
	m.started = false
	return m.inner.FinishDecoding()
}
