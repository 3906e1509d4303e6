// Package reader reads FLV tags on a background goroutine and publishes them
// on a channel.
package reader

import (
	"errors"
	"io"
	"sync"

	"github.com/ugparu/goflv/format/flv"
	"github.com/ugparu/goflv/utils/lifecycle"
	"github.com/ugparu/goflv/utils/logger"
)

// Option configures a Reader.
type Option func(*Reader)

// WithName sets the name the reader logs under.
func WithName(name string) Option {
	return func(rdr *Reader) { rdr.name = name }
}

// WithRebase makes audio and video timestamps start at zero and stay
// continuous over backward jumps.
func WithRebase() Option {
	return func(rdr *Reader) { rdr.rebase = true }
}

// WithDemuxerOptions passes options to the underlying flv.Demuxer.
func WithDemuxerOptions(options ...flv.DemuxerOption) Option {
	return func(rdr *Reader) { rdr.dmxOptions = append(rdr.dmxOptions, options...) }
}

// Reader demuxes one FLV source. The Tags channel is closed when the source
// ends, fails or the reader is closed; Err tells these apart.
type Reader struct {
	lifecycle.AsyncManager[*Reader] // Runs Step on its own goroutine.
	src                             io.Reader
	dmx                             *flv.Demuxer
	dmxOptions                      []flv.DemuxerOption
	tags                            chan flv.Tag
	header                          flv.Header
	name                            string
	rebase                          bool
	videoOffsetHandler              offsetHandler
	audioOffsetHandler              offsetHandler
	count                           uint64
	closeTags                       sync.Once
}

// NewFLV creates a reader over src with a tag channel of chanSize.
func NewFLV(src io.Reader, chanSize int, options ...Option) *Reader {
	rdr := &Reader{
		src:  src,
		tags: make(chan flv.Tag, chanSize),
		name: "FLV READER",
	}
	for _, opt := range options {
		opt(rdr)
	}
	rdr.dmx = flv.NewDemuxer(src, rdr.dmxOptions...)
	rdr.AsyncManager = lifecycle.NewAsyncManager(rdr)
	return rdr
}

// Read decodes the file header and starts publishing tags.
func (rdr *Reader) Read() (flv.Header, error) {
	startFunc := func(r *Reader) (err error) {
		if r.header, err = r.dmx.Demux(); err != nil {
			logger.Warningf(r, "Failed to start demuxer: %s", err.Error())
			r.finish()
			return err
		}
		logger.Infof(r, "Demuxer started. Video: %t, Audio: %t", r.header.HasVideo, r.header.HasAudio)
		return nil
	}
	if err := rdr.Start(startFunc); err != nil {
		return flv.Header{}, err
	}
	return rdr.header, nil
}

// Step reads one tag and publishes it.
func (rdr *Reader) Step(stopCh <-chan struct{}) error {
	select {
	case <-stopCh:
		rdr.finish()
		return &lifecycle.BreakError{}
	default:
	}

	tag, err := rdr.dmx.ReadTag()
	if errors.Is(err, io.EOF) {
		logger.Infof(rdr, "Source ended after %d tags", rdr.count)
		rdr.finish()
		return &lifecycle.BreakError{}
	}
	if err != nil {
		rdr.finish()
		return err
	}
	logger.Tracef(rdr, "Read %s tag at %d", tag.Type(), tag.Time())

	if rdr.rebase {
		switch tag.Type() {
		case flv.TagTypeVideo:
			tag = flv.WithTimestamp(tag, rdr.videoOffsetHandler.apply(tag.Time()))
		case flv.TagTypeAudio:
			tag = flv.WithTimestamp(tag, rdr.audioOffsetHandler.apply(tag.Time()))
		}
	}

	select {
	case rdr.tags <- tag:
		rdr.count++
		return nil
	case <-stopCh:
		rdr.finish()
		return &lifecycle.BreakError{}
	}
}

func (rdr *Reader) finish() {
	rdr.closeTags.Do(func() {
		close(rdr.tags)
	})
}

// Close_ releases the demuxer. It runs once the read loop has stopped.
func (rdr *Reader) Close_() { //nolint: revive
	logger.Infof(rdr, "Closing reader")
	rdr.finish()
	if err := rdr.dmx.Close(); err != nil {
		logger.Warningf(rdr, "Failed to close demuxer: %s", err.Error())
	}
}

// Tags returns the channel the decoded tags are published on.
func (rdr *Reader) Tags() <-chan flv.Tag {
	return rdr.tags
}

// Header returns the file header decoded by Read.
func (rdr *Reader) Header() flv.Header {
	return rdr.header
}

// String returns the name of the reader.
func (rdr *Reader) String() string {
	return rdr.name
}
