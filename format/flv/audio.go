package flv

import (
	"fmt"

	"github.com/ugparu/goflv/utils"
)

// SoundFormat is the audio codec of an audio tag.
type SoundFormat uint8

const (
	SoundFormatLinearPCMPlatformEndian SoundFormat = 0
	SoundFormatADPCM                   SoundFormat = 1
	SoundFormatMP3                     SoundFormat = 2
	SoundFormatLinearPCMLittleEndian   SoundFormat = 3
	SoundFormatNellymoser16kHzMono     SoundFormat = 4
	SoundFormatNellymoser8kHzMono      SoundFormat = 5
	SoundFormatNellymoser              SoundFormat = 6
	SoundFormatG711ALaw                SoundFormat = 7
	SoundFormatG711MuLaw               SoundFormat = 8
	SoundFormatAAC                     SoundFormat = 10
	SoundFormatSpeex                   SoundFormat = 11
	SoundFormatMP3At8kHz               SoundFormat = 14
	SoundFormatDeviceSpecific          SoundFormat = 15
)

func parseSoundFormat(b uint8) (SoundFormat, error) {
	switch f := SoundFormat(b); f {
	case SoundFormatLinearPCMPlatformEndian, SoundFormatADPCM, SoundFormatMP3,
		SoundFormatLinearPCMLittleEndian, SoundFormatNellymoser16kHzMono,
		SoundFormatNellymoser8kHzMono, SoundFormatNellymoser, SoundFormatG711ALaw,
		SoundFormatG711MuLaw, SoundFormatAAC, SoundFormatSpeex, SoundFormatMP3At8kHz,
		SoundFormatDeviceSpecific:
		return f, nil
	}
	return 0, utils.NewError(utils.ErrInvalidInput, "unknown sound format %d", b)
}

func (f SoundFormat) String() string {
	switch f {
	case SoundFormatLinearPCMPlatformEndian:
		return "PCM_PLATFORM_ENDIAN"
	case SoundFormatADPCM:
		return "ADPCM"
	case SoundFormatMP3:
		return "MP3"
	case SoundFormatLinearPCMLittleEndian:
		return "PCM_LE"
	case SoundFormatNellymoser16kHzMono:
		return "NELLYMOSER_16KHZ_MONO"
	case SoundFormatNellymoser8kHzMono:
		return "NELLYMOSER_8KHZ_MONO"
	case SoundFormatNellymoser:
		return "NELLYMOSER"
	case SoundFormatG711ALaw:
		return "PCM_ALAW"
	case SoundFormatG711MuLaw:
		return "PCM_MULAW"
	case SoundFormatAAC:
		return "AAC"
	case SoundFormatSpeex:
		return "SPEEX"
	case SoundFormatMP3At8kHz:
		return "MP3_8KHZ"
	case SoundFormatDeviceSpecific:
		return "DEVICE_SPECIFIC"
	}
	return fmt.Sprintf("SoundFormat(%d)", uint8(f))
}

// SoundRate is the sampling rate. AAC streams always declare SoundRate44kHz.
type SoundRate uint8

const (
	SoundRate5kHz  SoundRate = 0 // 5.5 kHz
	SoundRate11kHz SoundRate = 1
	SoundRate22kHz SoundRate = 2
	SoundRate44kHz SoundRate = 3
)

func parseSoundRate(b uint8) (SoundRate, error) {
	if b > uint8(SoundRate44kHz) {
		return 0, utils.NewError(utils.ErrInvalidInput, "unknown sound rate %d", b)
	}
	return SoundRate(b), nil
}

// Hz returns the nominal sampling frequency.
func (r SoundRate) Hz() uint {
	switch r {
	case SoundRate5kHz:
		return 5512
	case SoundRate11kHz:
		return 11025
	case SoundRate22kHz:
		return 22050
	case SoundRate44kHz:
		return 44100
	}
	return 0
}

func (r SoundRate) String() string {
	switch r {
	case SoundRate5kHz:
		return "5.5kHz"
	case SoundRate11kHz:
		return "11kHz"
	case SoundRate22kHz:
		return "22kHz"
	case SoundRate44kHz:
		return "44kHz"
	}
	return fmt.Sprintf("SoundRate(%d)", uint8(r))
}

// SoundSize is the sample width of uncompressed formats.
type SoundSize uint8

const (
	SoundSize8Bit  SoundSize = 0
	SoundSize16Bit SoundSize = 1
)

func soundSizeFromBit(set bool) SoundSize {
	if set {
		return SoundSize16Bit
	}
	return SoundSize8Bit
}

func (s SoundSize) String() string {
	if s == SoundSize16Bit {
		return "16bit"
	}
	return "8bit"
}

// SoundType is mono or stereo.
type SoundType uint8

const (
	SoundTypeMono   SoundType = 0
	SoundTypeStereo SoundType = 1
)

func soundTypeFromBit(set bool) SoundType {
	if set {
		return SoundTypeStereo
	}
	return SoundTypeMono
}

func (s SoundType) String() string {
	if s == SoundTypeStereo {
		return "stereo"
	}
	return "mono"
}

// AACPacketType tells an AAC sequence header from raw AAC frames.
type AACPacketType uint8

const (
	AACPacketTypeSequenceHeader AACPacketType = 0
	AACPacketTypeRaw            AACPacketType = 1
)

func parseAACPacketType(b uint8) (AACPacketType, error) {
	if b > uint8(AACPacketTypeRaw) {
		return 0, utils.NewError(utils.ErrInvalidInput, "unknown aac packet type %d", b)
	}
	return AACPacketType(b), nil
}

func (t AACPacketType) String() string {
	switch t {
	case AACPacketTypeSequenceHeader:
		return "SEQUENCE_HEADER"
	case AACPacketTypeRaw:
		return "RAW"
	}
	return fmt.Sprintf("AACPacketType(%d)", uint8(t))
}
