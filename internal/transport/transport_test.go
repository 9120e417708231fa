package transport

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/photonicat/mintaka_screen/internal/protocol"
	"github.com/photonicat/mintaka_screen/internal/screentext"
)

var errFakeTimeout = errors.New("fake timeout")

type step struct {
	data []byte
	err  error
}

type scriptedReader struct {
	steps []step
}

func (s *scriptedReader) Read(p []byte) (int, error) {
	if len(s.steps) == 0 {
		return 0, io.EOF
	}
	st := s.steps[0]
	n := copy(p, st.data)
	if n < len(st.data) {
		s.steps[0].data = st.data[n:]
		return n, nil
	}
	s.steps = s.steps[1:]
	return n, st.err
}

func chunkBytes(tag byte, line string) []byte {
	c := protocol.NewChunk(tag, line)
	return c[:]
}

func TestReaderSplitsStream(t *testing.T) {
	var stream []byte
	stream = append(stream, chunkBytes(protocol.TagStart, "one")...)
	stream = append(stream, chunkBytes(protocol.TagContinue, "two")...)
	cr := NewReader(bytes.NewReader(stream), nil)

	c, err := cr.Next()
	if err != nil || !c.IsStart() {
		t.Fatalf("first chunk = %v, %v", c.Tag(), err)
	}
	c, err = cr.Next()
	if err != nil || c.Tag() != protocol.TagContinue {
		t.Fatalf("second chunk = %v, %v", c.Tag(), err)
	}
	if _, err := cr.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("err = %v, want EOF", err)
	}
}

func TestReaderReassemblesShortReads(t *testing.T) {
	b := chunkBytes(protocol.TagStart, "split")
	r := &scriptedReader{steps: []step{{data: b[:10]}, {data: b[10:25]}, {data: b[25:]}}}
	cr := NewReader(r, nil)
	c, err := cr.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	var l screentext.Line
	l.Set(c.Payload())
	if l.String() != "split" {
		t.Errorf("payload = %q", l.String())
	}
}

func TestReaderDropsPartialOnTimeout(t *testing.T) {
	good := chunkBytes(protocol.TagStart, "good")
	r := &scriptedReader{steps: []step{
		{data: []byte{protocol.TagStart, 'b', 'a', 'd'}, err: errFakeTimeout},
		{err: errFakeTimeout},
		{data: good},
	}}
	cr := NewReader(r, func(err error) bool { return errors.Is(err, errFakeTimeout) })

	c, err := cr.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if !bytes.Equal(c[:], good) {
		t.Error("partial bytes leaked into the next chunk")
	}
	if cr.Partials() != 1 {
		t.Errorf("Partials = %d, want 1", cr.Partials())
	}
}

func TestReaderTruncatedStream(t *testing.T) {
	cr := NewReader(bytes.NewReader(make([]byte, 5)), nil)
	if _, err := cr.Next(); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("err = %v, want ErrUnexpectedEOF", err)
	}
}

func TestPumpDeliversChunks(t *testing.T) {
	var stream bytes.Buffer
	if err := Send(&stream, nil, protocol.EncodeLines([]string{"a", "b"})); err != nil {
		t.Fatalf("Send: %v", err)
	}
	out := make(chan protocol.Chunk, screentext.TotalLines)
	if err := Pump(context.Background(), "test", NewReader(&stream, nil), out); err != nil {
		t.Fatalf("Pump: %v", err)
	}
	if len(out) != screentext.TotalLines {
		t.Errorf("pumped %d chunks, want %d", len(out), screentext.TotalLines)
	}
}

func TestSendPrefix(t *testing.T) {
	var buf bytes.Buffer
	chunks := protocol.EncodeLines(nil)
	if err := Send(&buf, HidrawReportPrefix, chunks[:2]); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if buf.Len() != 2*(protocol.ChunkSize+1) {
		t.Fatalf("wrote %d bytes", buf.Len())
	}
	if buf.Bytes()[0] != 0x00 || buf.Bytes()[1] != protocol.TagStart {
		t.Errorf("frame header = % x", buf.Bytes()[:2])
	}
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) { return 0, errors.New("broken pipe") }

func TestSendError(t *testing.T) {
	if err := Send(failingWriter{}, nil, protocol.EncodeLines(nil)); err == nil {
		t.Error("Send should return the write error")
	}
}

func TestWatchFileSendsOnStartAndWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "screen.txt")
	if err := os.WriteFile(path, []byte("first\n"), 0644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	out := make(chan protocol.Chunk, 4*screentext.TotalLines)
	done := make(chan error, 1)
	go func() { done <- WatchFile(ctx, path, out) }()

	first := recvTransfer(t, out)
	if first[0] != "first" {
		t.Fatalf("initial transfer row 0 = %q", first[0])
	}

	if err := os.WriteFile(path, []byte("second\nline\n"), 0644); err != nil {
		t.Fatal(err)
	}
	var rows []string
	for {
		rows = recvTransfer(t, out)
		if rows[0] == "second" {
			break
		}
	}
	if rows[1] != "line" {
		t.Errorf("row 1 = %q, want %q", rows[1], "line")
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("WatchFile returned %v", err)
	}
}

func recvTransfer(t *testing.T, out <-chan protocol.Chunk) []string {
	t.Helper()
	rows := make([]string, 0, screentext.TotalLines)
	timeout := time.After(5 * time.Second)
	for len(rows) < screentext.TotalLines {
		select {
		case c := <-out:
			if len(rows) == 0 && !c.IsStart() {
				t.Fatal("transfer did not begin with a start tag")
			}
			var l screentext.Line
			l.Set(c.Payload())
			rows = append(rows, l.String())
		case <-timeout:
			t.Fatal("timed out waiting for a transfer")
		}
	}
	return rows
}
