// Package codec provides the byte-level building blocks the container codecs
// are composed of: fixed-width numbers, raw byte runs, length bounds, peeking
// and adapters between the resumable contract and standard IO.
package codec

import (
	"github.com/ugparu/goflv"
)

// Emitter is the item-agnostic half of an Encoder.
type Emitter interface {
	Encode(buf []byte) (int, error)
	IsIdle() bool
}

// Step feeds buf[*offset:] to d unless d is already idle and advances *offset
// by the consumed bytes. It returns true when d is idle afterwards, i.e. when
// the caller may go on with the next field.
func Step(d goflv.Stepper, offset *int, buf []byte, eos bool) (bool, error) {
	if d.IsIdle() {
		return true, nil
	}
	n, err := d.Decode(buf[*offset:], eos)
	*offset += n
	if err != nil {
		return false, err
	}
	return d.IsIdle(), nil
}

// StepEncode is the encoding counterpart of Step.
func StepEncode(e Emitter, offset *int, buf []byte) (bool, error) {
	if e.IsIdle() {
		return true, nil
	}
	n, err := e.Encode(buf[*offset:])
	*offset += n
	if err != nil {
		return false, err
	}
	return e.IsIdle(), nil
}
