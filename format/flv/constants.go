// Package flv implements an incremental codec for the FLV container: the file
// header, the tag framing with its redundant trailing sizes, and the audio,
// video and script data tag headers. Payload bitstreams are carried opaque.
package flv

// File header.
const (
	Signature  = "FLV"
	Version    = 1
	HeaderSize = 9

	flagAudio = 0x04
	flagVideo = 0x01
)

// Tag framing.
const (
	TagHeaderSize   = 11
	PrevTagSizeSize = 4
	MaxDataSize     = 0xFFFFFF

	// FirstPrevTagSize is the redundant size that precedes the first tag.
	FirstPrevTagSize = 0
)

// Tag type codes.
const (
	tagTypeAudio      = 8
	tagTypeVideo      = 9
	tagTypeScriptData = 18
)
