package flv

import (
	"fmt"

	"github.com/ugparu/goflv/utils"
)

// FrameType is the kind of video frame carried by a video tag.
type FrameType uint8

const (
	FrameTypeKeyFrame             FrameType = 1 // seekable frame for AVC
	FrameTypeInterFrame           FrameType = 2
	FrameTypeDisposableInterFrame FrameType = 3 // H.263 only
	FrameTypeGeneratedKeyFrame    FrameType = 4 // reserved for server use
	FrameTypeInfoOrCommand        FrameType = 5
)

func parseFrameType(b uint8) (FrameType, error) {
	if b < uint8(FrameTypeKeyFrame) || b > uint8(FrameTypeInfoOrCommand) {
		return 0, utils.NewError(utils.ErrInvalidInput, "unknown video frame type %d", b)
	}
	return FrameType(b), nil
}

func (t FrameType) String() string {
	switch t {
	case FrameTypeKeyFrame:
		return "KEY"
	case FrameTypeInterFrame:
		return "INTER"
	case FrameTypeDisposableInterFrame:
		return "DISPOSABLE_INTER"
	case FrameTypeGeneratedKeyFrame:
		return "GENERATED_KEY"
	case FrameTypeInfoOrCommand:
		return "INFO_OR_COMMAND"
	}
	return fmt.Sprintf("FrameType(%d)", uint8(t))
}

// CodecID is the video codec of a video tag.
type CodecID uint8

const (
	CodecIDJPEG          CodecID = 1
	CodecIDH263          CodecID = 2 // Sorenson H.263
	CodecIDScreenVideo   CodecID = 3
	CodecIDVP6           CodecID = 4
	CodecIDVP6Alpha      CodecID = 5
	CodecIDScreenVideoV2 CodecID = 6
	CodecIDAVC           CodecID = 7
)

func parseCodecID(b uint8) (CodecID, error) {
	if b < uint8(CodecIDJPEG) || b > uint8(CodecIDAVC) {
		return 0, utils.NewError(utils.ErrInvalidInput, "unknown video codec id %d", b)
	}
	return CodecID(b), nil
}

func (c CodecID) String() string {
	switch c {
	case CodecIDJPEG:
		return "JPEG"
	case CodecIDH263:
		return "H263"
	case CodecIDScreenVideo:
		return "SCREEN_VIDEO"
	case CodecIDVP6:
		return "VP6"
	case CodecIDVP6Alpha:
		return "VP6_ALPHA"
	case CodecIDScreenVideoV2:
		return "SCREEN_VIDEO_V2"
	case CodecIDAVC:
		return "AVC"
	}
	return fmt.Sprintf("CodecID(%d)", uint8(c))
}

// AVCPacketType tells AVC sequence headers, NAL units and end of sequence apart.
type AVCPacketType uint8

const (
	AVCPacketTypeSequenceHeader AVCPacketType = 0
	AVCPacketTypeNALU           AVCPacketType = 1
	AVCPacketTypeEndOfSequence  AVCPacketType = 2
)

func parseAVCPacketType(b uint8) (AVCPacketType, error) {
	if b > uint8(AVCPacketTypeEndOfSequence) {
		return 0, utils.NewError(utils.ErrInvalidInput, "unknown avc packet type %d", b)
	}
	return AVCPacketType(b), nil
}

func (t AVCPacketType) String() string {
	switch t {
	case AVCPacketTypeSequenceHeader:
		return "SEQUENCE_HEADER"
	case AVCPacketTypeNALU:
		return "NALU"
	case AVCPacketTypeEndOfSequence:
		return "END_OF_SEQUENCE"
	}
	return fmt.Sprintf("AVCPacketType(%d)", uint8(t))
}

// hasAVCFields reports whether a video tag with this frame type and codec
// carries the AVC packet type and composition time fields.
func hasAVCFields(frame FrameType, codec CodecID) bool {
	return codec == CodecIDAVC && frame != FrameTypeInfoOrCommand
}
