package flv

import (
	"io"
	"os"

	"github.com/ugparu/goflv/codec"
	"github.com/ugparu/goflv/utils"
	"github.com/ugparu/goflv/utils/logger"
)

// DemuxerConfig tunes how a Demuxer reads its source.
type DemuxerConfig struct {
	// ChunkSize is the read buffer size. Defaults to codec.DefaultReadBufSize.
	ChunkSize int
	// ExactReads limits every read to what the decoder asks for, so the
	// source is never read past the last complete tag.
	ExactReads bool
}

// DemuxerOption modifies a DemuxerConfig.
type DemuxerOption func(*DemuxerConfig)

// WithChunkSize sets DemuxerConfig.ChunkSize.
func WithChunkSize(size int) DemuxerOption {
	return func(c *DemuxerConfig) { c.ChunkSize = size }
}

// WithExactReads sets DemuxerConfig.ExactReads.
func WithExactReads() DemuxerOption {
	return func(c *DemuxerConfig) { c.ExactReads = true }
}

// Demuxer reads FLV tags from an io.Reader.
type Demuxer struct {
	r      io.Reader
	closer io.Closer
	url    string
	cfg    DemuxerConfig
	rb     *codec.ReadBuf
	dec    *FileDecoder
	header *Header
	err    error
}

// NewDemuxer creates a demuxer over r.
func NewDemuxer(r io.Reader, options ...DemuxerOption) *Demuxer {
	dmx := &Demuxer{r: r, dec: NewFileDecoder()}
	for _, opt := range options {
		opt(&dmx.cfg)
	}
	if dmx.cfg.ChunkSize <= 0 {
		dmx.cfg.ChunkSize = codec.DefaultReadBufSize
	}
	return dmx
}

// NewFileDemuxer creates a demuxer that opens url on Demux and closes it on
// Close.
func NewFileDemuxer(url string, options ...DemuxerOption) *Demuxer {
	dmx := NewDemuxer(nil, options...)
	dmx.url = url
	return dmx
}

// Demux reads up to the end of the fixed file header and returns it.
func (dmx *Demuxer) Demux() (Header, error) {
	if dmx.header != nil {
		return *dmx.header, nil
	}
	if dmx.r == nil {
		f, err := os.Open(dmx.url)
		if err != nil {
			return Header{}, err
		}
		dmx.r, dmx.closer = f, f
	}
	if dmx.rb == nil {
		dmx.rb = codec.NewReadBuf(dmx.cfg.ChunkSize)
	}

	for {
		ended, err := dmx.decode()
		if err != nil {
			return Header{}, err
		}
		if h, ok := dmx.dec.Header(); ok {
			dmx.header = &h
			logger.Debugf(dmx, "demuxing %s: audio=%t video=%t", dmx.name(), h.HasAudio, h.HasVideo)
			return h, nil
		}
		if ended {
			return Header{}, dmx.fail(utils.NewError(utils.ErrPrematureEOS, "stream ended inside the file header"))
		}
		if err = dmx.fill(); err != nil {
			return Header{}, err
		}
	}
}

// ReadTag returns the next tag, or io.EOF after the last one.
func (dmx *Demuxer) ReadTag() (Tag, error) {
	if _, err := dmx.Demux(); err != nil {
		return nil, err
	}
	for {
		ended, err := dmx.decode()
		if err != nil {
			return nil, err
		}
		if dmx.dec.IsIdle() {
			tag, err := dmx.dec.FinishDecoding()
			if err != nil {
				return nil, dmx.fail(err)
			}
			return tag, nil
		}
		if ended {
			logger.Debugf(dmx, "%s ended after %d tags", dmx.name(), dmx.dec.Tags())
			return nil, io.EOF
		}
		if err = dmx.fill(); err != nil {
			return nil, err
		}
	}
}

// decode feeds the buffered bytes to the decoder. ended is set when the
// decoder saw the end of the source between two items.
func (dmx *Demuxer) decode() (ended bool, err error) {
	if dmx.err != nil {
		return false, dmx.err
	}
	eos := dmx.rb.IsEOS()
	if err = codec.DecodeFromReadBuf(dmx.dec, dmx.rb); err != nil {
		return false, dmx.fail(err)
	}
	return eos && !dmx.dec.IsIdle(), nil
}

// fill reads more bytes, no more than the decoder asks for with ExactReads.
func (dmx *Demuxer) fill() error {
	limit := dmx.cfg.ChunkSize
	if dmx.cfg.ExactReads {
		if n, ok := dmx.dec.RequiringBytes().Value(); ok && n > 0 && n < uint64(limit) {
			limit = int(n)
		}
	}
	if err := dmx.rb.FillUpTo(dmx.r, limit); err != nil {
		return dmx.fail(err)
	}
	return nil
}

func (dmx *Demuxer) fail(err error) error {
	dmx.err = err
	return err
}

func (dmx *Demuxer) name() string {
	if dmx.url != "" {
		return dmx.url
	}
	return "stream"
}

// Close releases the read buffer and closes the file opened by Demux.
func (dmx *Demuxer) Close() error {
	if dmx.rb != nil {
		dmx.rb.Release()
		dmx.rb = nil
	}
	if dmx.closer != nil {
		return dmx.closer.Close()
	}
	return nil
}
