// Package goflv defines the resumable decode/encode contract shared by every
// codec in this module. Decoders consume partial buffers and report progress
// instead of blocking; all waiting for bytes is left to the caller.
package goflv

import (
	"fmt"
	"math"
)

// ByteCount is a best-effort hint of how many more bytes a codec needs.
type ByteCount uint64

// Unknown means the remaining size cannot be derived from what was read so far.
const Unknown ByteCount = math.MaxUint64

// Finite returns a known byte count.
func Finite(n uint64) ByteCount {
	return ByteCount(n)
}

// IsFinite reports whether the count is known.
func (c ByteCount) IsFinite() bool {
	return c != Unknown
}

// Value returns the count and whether it is known.
func (c ByteCount) Value() (uint64, bool) {
	return uint64(c), c.IsFinite()
}

// Add sums two counts. An unknown operand makes the sum unknown.
func (c ByteCount) Add(o ByteCount) ByteCount {
	if !c.IsFinite() || !o.IsFinite() {
		return Unknown
	}
	return c + o
}

func (c ByteCount) String() string {
	if !c.IsFinite() {
		return "unknown"
	}
	return fmt.Sprintf("%d", uint64(c))
}

// Stepper is the item-agnostic half of a Decoder.
type Stepper interface {
	Decode(buf []byte, eos bool) (int, error) // Consumes what it can from buf, never more than needed.
	IsIdle() bool                             // True when FinishDecoding may be called.
	RequiringBytes() ByteCount                // Lower bound of bytes needed to become idle.
}

// Decoder is a resumable state machine producing items of type T.
type Decoder[T any] interface {
	Stepper
	FinishDecoding() (T, error) // Takes the decoded item and resets for the next one.
}

// Encoder serializes items of type T into caller-supplied buffers.
type Encoder[T any] interface {
	StartEncoding(item T) error     // Queues an item; fails unless the encoder is idle.
	Encode(buf []byte) (int, error) // Writes as many pending bytes as fit into buf.
	IsIdle() bool                   // True when every byte of the started item was written.
	RequiringBytes() ByteCount      // Bytes still to be written.
}

// SizedEncoder is an Encoder that always knows its pending size exactly.
type SizedEncoder[T any] interface {
	Encoder[T]
	ExactRequiringBytes() uint64 // Exact number of bytes still to be written.
}
