package flv

import "github.com/ugparu/goflv/utils"

// StreamID identifies the stream a tag belongs to. Files normally use 0.
type StreamID uint32

// MaxStreamID is the largest value the 24-bit field can carry.
const MaxStreamID = 0xFFFFFF

// NewStreamID fails for values that do not fit 24 bits.
func NewStreamID(id uint32) (StreamID, error) {
	if id > MaxStreamID {
		return 0, utils.NewError(utils.ErrInvalidInput, "stream id %d exceeds 24 bits", id)
	}
	return StreamID(id), nil
}
