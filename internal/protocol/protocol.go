// Package protocol defines the fixed-size chunk format used to stream screen
// text from the host.
//
// Every chunk is ChunkSize bytes:
//
//	| tag | ScreenNumChars line bytes | reserved padding |
//
// A tag of TagStart begins a new transfer and resynchronises the receiver.
// Any other tag continues the current transfer. TagContinue is what the
// encoder emits. Reserved bytes are zero on send and ignored on receive.
package protocol

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/photonicat/mintaka_screen/internal/screentext"
)

const (
	ChunkSize = 32

	TagStart    byte = 0x01
	TagContinue byte = 0x02

	payloadOffset = 1
)

var ErrChunkSize = errors.New("protocol: wrong chunk size")

// Chunk is one transport frame.
type Chunk [ChunkSize]byte

func (c Chunk) Tag() byte { return c[0] }

func (c Chunk) IsStart() bool { return c[0] == TagStart }

// Payload returns the line bytes carried by the chunk.
func (c Chunk) Payload() []byte {
	return c[payloadOffset : payloadOffset+screentext.ScreenNumChars]
}

// ParseChunk copies b into a Chunk. b must be exactly ChunkSize bytes.
func ParseChunk(b []byte) (Chunk, error) {
	var c Chunk
	if len(b) != ChunkSize {
		return c, fmt.Errorf("%w: got %d bytes, want %d", ErrChunkSize, len(b), ChunkSize)
	}
	copy(c[:], b)
	return c, nil
}

// NewChunk builds a chunk carrying one line. Text longer than a line is cut
// at the last rune boundary that fits.
func NewChunk(tag byte, line string) Chunk {
	var c Chunk
	c[0] = tag
	n := len(line)
	if n > screentext.ScreenNumChars {
		n = screentext.ScreenNumChars
		for n > 0 && !utf8.RuneStart(line[n]) {
			n--
		}
	}
	copy(c[payloadOffset:], line[:n])
	return c
}

// EncodeLines turns lines into one complete transfer of TotalLines chunks.
// Missing rows are sent blank and extra rows are dropped.
func EncodeLines(lines []string) []Chunk {
	chunks := make([]Chunk, screentext.TotalLines)
	for i := range chunks {
		tag := TagContinue
		if i == 0 {
			tag = TagStart
		}
		var line string
		if i < len(lines) {
			line = lines[i]
		}
		chunks[i] = NewChunk(tag, line)
	}
	return chunks
}

// SplitText splits s on newlines, dropping a trailing carriage return from
// each line and a single trailing empty line.
func SplitText(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
