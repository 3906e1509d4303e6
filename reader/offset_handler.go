package reader

import (
	"github.com/ugparu/goflv/format/flv"
)

// maxBackwardJump is how far timestamps may go back before it is treated as
// a discontinuity, in milliseconds.
const maxBackwardJump = 60 * 1000

// offsetHandler rebases the timestamps of one tag type so the first tag
// starts at zero and splices over backward jumps.
type offsetHandler struct {
	started      bool
	offset       int64
	last         int64
	lastDuration int64
}

func (oh *offsetHandler) apply(ts flv.Timestamp) flv.Timestamp {
	if !oh.started {
		oh.started = true
		oh.offset = -int64(ts)
		oh.last = 0
		return 0
	}

	out := int64(ts) + oh.offset
	if oh.last-out > maxBackwardJump {
		oh.offset = oh.last + oh.lastDuration - int64(ts)
		out = oh.last + oh.lastDuration
	}
	if d := out - oh.last; d > 0 {
		oh.lastDuration = d
	}
	oh.last = out
	return flv.Timestamp(out)
}
