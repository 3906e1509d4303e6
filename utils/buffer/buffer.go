// Package buffer pools the scratch buffers used to shuttle bytes between
// IO and the codecs.
package buffer

import (
	"sync"
)

const (
	defaultBufSize = 4 * 1024
	bigBufSize     = 64 * 1024
	maxBufSize     = 1 * 1024 * 1024 // larger buffers are left to the GC
)

var bufPool = sync.Pool{
	New: func() any {
		return &memBuffer{
			buf: make([]byte, 0, defaultBufSize),
		}
	},
}

var bigBufPool = sync.Pool{
	New: func() any {
		return &memBuffer{
			buf: make([]byte, 0, bigBufSize),
		}
	},
}

// Get borrows a buffer of exactly size bytes.
func Get(size int) PooledBuffer {
	var b *memBuffer
	if size >= bigBufSize {
		b = bigBufPool.Get().(*memBuffer)
	} else {
		b = bufPool.Get().(*memBuffer)
	}

	if cap(b.buf) < size {
		b.buf = make([]byte, size)
	}
	b.buf = b.buf[:size]
	return b
}

type memBuffer struct {
	buf []byte
}

func (b *memBuffer) Data() []byte {
	return b.buf
}

func (b *memBuffer) Len() int {
	return len(b.buf)
}

func (b *memBuffer) Cap() int {
	return cap(b.buf)
}

// Resize changes the length, reallocating only when the capacity is exceeded.
func (b *memBuffer) Resize(size int) {
	if size > cap(b.buf) {
		newBuf := make([]byte, size)
		copy(newBuf, b.buf)
		b.buf = newBuf
	} else {
		b.buf = b.buf[:size]
	}
}

func (b *memBuffer) Release() {
	if cap(b.buf) > maxBufSize {
		return
	}

	b.buf = b.buf[:0]
	if cap(b.buf) >= bigBufSize {
		bigBufPool.Put(b)
	} else {
		bufPool.Put(b)
	}
}
