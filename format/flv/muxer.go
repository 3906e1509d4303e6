package flv

import (
	"bufio"
	"io"

	"github.com/ugparu/goflv/codec"
	"github.com/ugparu/goflv/utils"
	"github.com/ugparu/goflv/utils/logger"
)

const muxBufSize = 64 * 1024

// Muxer writes an FLV stream to an io.Writer.
type Muxer struct {
	writer         io.Writer     // The underlying writer.
	bufferedWriter *bufio.Writer // Buffered writer in front of writer.
	enc            *FileEncoder
	tags           uint64
}

// NewMuxer creates a new Muxer writing to writer.
func NewMuxer(writer io.Writer) *Muxer {
	return &Muxer{
		writer:         writer,
		bufferedWriter: bufio.NewWriterSize(writer, muxBufSize),
	}
}

// Mux writes the file header. It must be called once before WriteTag.
func (mux *Muxer) Mux(h Header) error {
	if mux.enc != nil {
		return utils.NewError(utils.ErrInconsistentState, "file header was already written")
	}
	mux.enc = NewFileEncoder(h)
	logger.Debugf(mux, "muxing: audio=%t video=%t", h.HasAudio, h.HasVideo)
	return codec.EncodeAll(mux.enc, mux.bufferedWriter)
}

// WriteTag writes tag followed by its size.
func (mux *Muxer) WriteTag(tag Tag) error {
	if mux.enc == nil {
		return utils.NewError(utils.ErrInconsistentState, "tag written before the file header")
	}
	if err := mux.enc.StartEncoding(tag); err != nil {
		return err
	}
	if err := codec.EncodeAll(mux.enc, mux.bufferedWriter); err != nil {
		return err
	}
	mux.tags++
	return nil
}

// Flush writes buffered bytes to the underlying writer.
func (mux *Muxer) Flush() error {
	return mux.bufferedWriter.Flush()
}

// Close flushes the muxer. It does not close the underlying writer.
func (mux *Muxer) Close() error {
	logger.Debugf(mux, "closing after %d tags", mux.tags)
	return mux.Flush()
}
