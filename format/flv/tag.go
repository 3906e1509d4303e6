package flv

import (
	"fmt"

	"github.com/ugparu/goflv/utils"
)

// TagType is the kind of payload a tag carries.
type TagType uint8

const (
	TagTypeAudio      TagType = tagTypeAudio
	TagTypeVideo      TagType = tagTypeVideo
	TagTypeScriptData TagType = tagTypeScriptData
)

func parseTagType(b uint8) (TagType, error) {
	switch t := TagType(b); t {
	case TagTypeAudio, TagTypeVideo, TagTypeScriptData:
		return t, nil
	}
	return 0, utils.NewError(utils.ErrInvalidInput, "unknown tag type %d", b)
}

func (t TagType) String() string {
	switch t {
	case TagTypeAudio:
		return "audio"
	case TagTypeVideo:
		return "video"
	case TagTypeScriptData:
		return "script_data"
	}
	return fmt.Sprintf("TagType(%d)", uint8(t))
}

// Tag is one framed unit of the body: an AudioTag, VideoTag or ScriptDataTag.
type Tag interface {
	Type() TagType    // Kind of the tag.
	Time() Timestamp  // Timestamp of the tag.
	Stream() StreamID // Stream the tag belongs to.
	TagSize() uint32  // Encoded size including the 11-byte tag header.
	Validate() error  // Checks ranges and conditional fields before encoding.
	dataSize() uint64
}

// Ref returns a pointer to a copy of v, for filling optional tag fields.
func Ref[T any](v T) *T {
	return &v
}

// AudioTag carries an audio frame. AACPacketType is set exactly when
// SoundFormat is SoundFormatAAC.
type AudioTag struct {
	Timestamp     Timestamp
	StreamID      StreamID
	SoundFormat   SoundFormat
	SoundRate     SoundRate
	SoundSize     SoundSize
	SoundType     SoundType
	AACPacketType *AACPacketType
	Data          []byte
}

func (t AudioTag) Type() TagType    { return TagTypeAudio }
func (t AudioTag) Time() Timestamp  { return t.Timestamp }
func (t AudioTag) Stream() StreamID { return t.StreamID }
func (t AudioTag) TagSize() uint32  { return uint32(TagHeaderSize + t.dataSize()) }

func (t AudioTag) dataSize() uint64 {
	n := uint64(1 + len(t.Data))
	if t.AACPacketType != nil {
		n++
	}
	return n
}

// IsSequenceHeader reports whether the tag holds an AAC AudioSpecificConfig.
func (t AudioTag) IsSequenceHeader() bool {
	return t.AACPacketType != nil && *t.AACPacketType == AACPacketTypeSequenceHeader
}

func (t AudioTag) Validate() error {
	if _, err := parseSoundFormat(uint8(t.SoundFormat)); err != nil {
		return err
	}
	if _, err := parseSoundRate(uint8(t.SoundRate)); err != nil {
		return err
	}
	if t.SoundSize > SoundSize16Bit || t.SoundType > SoundTypeStereo {
		return utils.NewError(utils.ErrInvalidInput, "sound size %d or type %d is not a single bit", t.SoundSize, t.SoundType)
	}
	isAAC := t.SoundFormat == SoundFormatAAC
	if isAAC != (t.AACPacketType != nil) {
		return utils.NewError(utils.ErrInvalidInput, "aac packet type must be set iff sound format is AAC, format %s", t.SoundFormat)
	}
	if t.AACPacketType != nil {
		if _, err := parseAACPacketType(uint8(*t.AACPacketType)); err != nil {
			return err
		}
	}
	return validateCommon(t)
}

// VideoTag carries a video frame. AVCPacketType and CompositionTime are both
// set exactly when CodecID is CodecIDAVC and FrameType is not
// FrameTypeInfoOrCommand.
type VideoTag struct {
	Timestamp       Timestamp
	StreamID        StreamID
	FrameType       FrameType
	CodecID         CodecID
	AVCPacketType   *AVCPacketType
	CompositionTime *TimeOffset
	Data            []byte
}

func (t VideoTag) Type() TagType    { return TagTypeVideo }
func (t VideoTag) Time() Timestamp  { return t.Timestamp }
func (t VideoTag) Stream() StreamID { return t.StreamID }
func (t VideoTag) TagSize() uint32  { return uint32(TagHeaderSize + t.dataSize()) }

func (t VideoTag) dataSize() uint64 {
	n := uint64(1 + len(t.Data))
	if t.AVCPacketType != nil {
		n += 4
	}
	return n
}

// IsKeyFrame reports whether the tag is a seekable frame.
func (t VideoTag) IsKeyFrame() bool {
	return t.FrameType == FrameTypeKeyFrame
}

// IsSequenceHeader reports whether the tag holds an AVC decoder configuration record.
func (t VideoTag) IsSequenceHeader() bool {
	return t.AVCPacketType != nil && *t.AVCPacketType == AVCPacketTypeSequenceHeader
}

func (t VideoTag) Validate() error {
	if _, err := parseFrameType(uint8(t.FrameType)); err != nil {
		return err
	}
	if _, err := parseCodecID(uint8(t.CodecID)); err != nil {
		return err
	}
	if (t.AVCPacketType == nil) != (t.CompositionTime == nil) {
		return utils.NewError(utils.ErrInvalidInput, "avc packet type and composition time must be set together")
	}
	if hasAVCFields(t.FrameType, t.CodecID) != (t.AVCPacketType != nil) {
		return utils.NewError(utils.ErrInvalidInput,
			"avc fields must be set iff codec is AVC and frame is not info/command, got %s/%s", t.CodecID, t.FrameType)
	}
	if t.AVCPacketType != nil {
		if _, err := parseAVCPacketType(uint8(*t.AVCPacketType)); err != nil {
			return err
		}
		if _, err := NewTimeOffset(int32(*t.CompositionTime)); err != nil {
			return err
		}
	}
	return validateCommon(t)
}

// ScriptDataTag carries script data, typically AMF-encoded metadata, as
// opaque bytes.
type ScriptDataTag struct {
	Timestamp Timestamp
	StreamID  StreamID
	Data      []byte
}

func (t ScriptDataTag) Type() TagType    { return TagTypeScriptData }
func (t ScriptDataTag) Time() Timestamp  { return t.Timestamp }
func (t ScriptDataTag) Stream() StreamID { return t.StreamID }
func (t ScriptDataTag) TagSize() uint32  { return uint32(TagHeaderSize + t.dataSize()) }
func (t ScriptDataTag) dataSize() uint64 { return uint64(len(t.Data)) }
func (t ScriptDataTag) Validate() error  { return validateCommon(t) }

func validateCommon(t Tag) error {
	if _, err := NewStreamID(uint32(t.Stream())); err != nil {
		return err
	}
	if n := t.dataSize(); n > MaxDataSize {
		return utils.NewError(utils.ErrInvalidInput, "%s tag data of %d bytes exceeds %d", t.Type(), n, MaxDataSize)
	}
	return nil
}

// WithTimestamp returns a copy of t carrying ts.
func WithTimestamp(t Tag, ts Timestamp) Tag {
	switch v := t.(type) {
	case AudioTag:
		v.Timestamp = ts
		return v
	case VideoTag:
		v.Timestamp = ts
		return v
	case ScriptDataTag:
		v.Timestamp = ts
		return v
	case *AudioTag:
		return WithTimestamp(*v, ts)
	case *VideoTag:
		return WithTimestamp(*v, ts)
	case *ScriptDataTag:
		return WithTimestamp(*v, ts)
	}
	return t
}
