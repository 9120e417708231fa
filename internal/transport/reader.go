// Package transport moves fixed-size chunks between the host and the
// subsystem: serial ports, hidraw nodes and a watched text file.
package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/photonicat/mintaka_screen/internal/logging"
	"github.com/photonicat/mintaka_screen/internal/protocol"
)

// Reader splits a byte stream into chunks. A read timeout in the middle of
// a chunk drops the partial chunk, so a stalled sender cannot shift the
// framing of everything that follows.
type Reader struct {
	r         io.Reader
	isTimeout func(error) bool
	buf       [protocol.ChunkSize]byte
	n         int
	partials  uint64
}

// NewReader wraps r. isTimeout may be nil when r never times out.
func NewReader(r io.Reader, isTimeout func(error) bool) *Reader {
	if isTimeout == nil {
		isTimeout = func(error) bool { return false }
	}
	return &Reader{r: r, isTimeout: isTimeout}
}

// Next blocks until a full chunk has been read.
func (cr *Reader) Next() (protocol.Chunk, error) {
	for {
		m, err := cr.r.Read(cr.buf[cr.n:])
		cr.n += m
		if cr.n == protocol.ChunkSize {
			cr.n = 0
			return protocol.ParseChunk(cr.buf[:])
		}
		if err == nil {
			continue
		}
		if cr.isTimeout(err) {
			if cr.n > 0 {
				cr.partials++
				logging.Debug("transport: dropped partial chunk of %d bytes", cr.n)
				cr.n = 0
			}
			continue
		}
		if errors.Is(err, io.EOF) && cr.n > 0 {
			return protocol.Chunk{}, fmt.Errorf("transport: %w after %d bytes", io.ErrUnexpectedEOF, cr.n)
		}
		return protocol.Chunk{}, err
	}
}

// Partials returns how many incomplete chunks were dropped.
func (cr *Reader) Partials() uint64 { return cr.partials }

// Pump reads chunks until the reader fails or ctx is done.
func Pump(ctx context.Context, name string, cr *Reader, out chan<- protocol.Chunk) error {
	for {
		c, err := cr.Next()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return nil
			}
			log.Printf("transport %s: read error: %v", name, err)
			return err
		}
		select {
		case out <- c:
		case <-ctx.Done():
			return nil
		}
	}
}

// Send writes each chunk as one write, prefixed by prefix when it is not nil.
func Send(w io.Writer, prefix []byte, chunks []protocol.Chunk) error {
	frame := make([]byte, 0, len(prefix)+protocol.ChunkSize)
	for i, c := range chunks {
		frame = append(frame[:0], prefix...)
		frame = append(frame, c[:]...)
		if _, err := w.Write(frame); err != nil {
			return fmt.Errorf("send chunk %d: %w", i, err)
		}
	}
	return nil
}
