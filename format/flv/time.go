package flv

import (
	"math"
	"time"

	"github.com/ugparu/goflv/utils"
)

// Timestamp is a signed 32-bit time in milliseconds.
type Timestamp int32

// Duration converts a non-negative timestamp to a time.Duration.
func (ts Timestamp) Duration() (time.Duration, bool) {
	if ts < 0 {
		return 0, false
	}
	return time.Duration(ts) * time.Millisecond, true
}

// TimestampFromDuration converts d, truncated to milliseconds.
func TimestampFromDuration(d time.Duration) (Timestamp, error) {
	ms := d.Milliseconds()
	if ms < 0 || ms > math.MaxInt32 {
		return 0, utils.NewError(utils.ErrInvalidInput, "duration %s does not fit a timestamp", d)
	}
	return Timestamp(ms), nil
}

// joinTimestamp rebuilds a timestamp from its 24-bit low part and the
// extended byte holding bits 24-31.
func joinTimestamp(low uint32, extended uint8) Timestamp {
	return Timestamp(int32(low&0xFFFFFF | uint32(extended)<<24))
}

func (ts Timestamp) split() (low uint32, extended uint8) {
	u := uint32(ts)
	return u & 0xFFFFFF, uint8(u >> 24)
}

// TimeOffset is a signed 24-bit offset in milliseconds, used as the
// composition time of AVC video tags.
type TimeOffset int32

const (
	minTimeOffset = -1 << 23
	maxTimeOffset = 1<<23 - 1
)

// NewTimeOffset fails for values outside the signed 24-bit range.
func NewTimeOffset(ms int32) (TimeOffset, error) {
	if ms < minTimeOffset || ms > maxTimeOffset {
		return 0, utils.NewError(utils.ErrInvalidInput, "time offset %d out of 24-bit range", ms)
	}
	return TimeOffset(ms), nil
}

// timeOffsetFromU24 sign-extends a 24-bit wire field.
func timeOffsetFromU24(n uint32) TimeOffset {
	return TimeOffset(int32(n<<8) >> 8)
}

func (o TimeOffset) u24() uint32 {
	return uint32(o) & 0xFFFFFF
}
