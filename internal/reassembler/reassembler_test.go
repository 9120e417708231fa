package reassembler

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/photonicat/mintaka_screen/internal/protocol"
	"github.com/photonicat/mintaka_screen/internal/screentext"
)

func linesFor(prefix string) []string {
	lines := make([]string, screentext.TotalLines)
	for i := range lines {
		lines[i] = fmt.Sprintf("%s line %02d", prefix, i)
	}
	return lines
}

func feed(r *Reassembler, chunks []protocol.Chunk) (completions int) {
	for _, c := range chunks {
		if r.Ingest(c) {
			completions++
		}
	}
	return completions
}

func TestFullTransferCommits(t *testing.T) {
	store := screentext.NewStore()
	r := New(store)
	lines := linesFor("A")
	chunks := protocol.EncodeLines(lines)

	for i, c := range chunks {
		done := r.Ingest(c)
		if last := i == len(chunks)-1; done != last {
			t.Fatalf("chunk %d: completed = %v, want %v", i, done, last)
		}
	}

	live := store.Live()
	for i, want := range lines {
		row, _ := live.Row(i)
		if got := row.String(); got != want {
			t.Errorf("live row %d = %q, want %q", i, got, want)
		}
	}
	if r.NextLine() != 0 {
		t.Errorf("cursor = %d after commit, want 0", r.NextLine())
	}
	staging := store.Staging()
	if !staging.IsZero() {
		t.Error("staging should be cleared after commit")
	}
}

func TestLiveEqualsConcatenatedPayloads(t *testing.T) {
	store := screentext.NewStore()
	r := New(store)

	var want []byte
	chunks := make([]protocol.Chunk, screentext.TotalLines)
	for i := range chunks {
		tag := byte(0x7f)
		if i == 0 {
			tag = protocol.TagStart
		}
		for j := 1; j < protocol.ChunkSize; j++ {
			chunks[i][j] = byte('a' + (i+j)%26)
		}
		chunks[i][0] = tag
		want = append(want, chunks[i].Payload()...)
	}
	if n := feed(r, chunks); n != 1 {
		t.Fatalf("completions = %d, want 1", n)
	}
	live := store.Live()
	if !bytes.Equal(live.Bytes(), want) {
		t.Error("live buffer is not the concatenation of chunk payloads")
	}
}

func TestReingestIsIdempotent(t *testing.T) {
	store := screentext.NewStore()
	r := New(store)
	chunks := protocol.EncodeLines(linesFor("same"))

	feed(r, chunks)
	first := store.Live()
	feed(r, chunks)
	second := store.Live()

	if first != second {
		t.Error("re-ingesting the same transfer changed the live buffer")
	}
}

func TestInterruptedTransferRecovers(t *testing.T) {
	store := screentext.NewStore()
	r := New(store)

	partial := protocol.EncodeLines([]string{
		"XXXXXXXXXXXXXXXXXXX", "XXXXXXXXXXXXXXXXXXX", "XXXXXXXXXXXXXXXXXXX",
		"XXXXXXXXXXXXXXXXXXX", "XXXXXXXXXXXXXXXXXXX",
	})[:7]
	if n := feed(r, partial); n != 0 {
		t.Fatalf("partial transfer completed %d times", n)
	}

	second := protocol.EncodeLines([]string{"ok"})
	if n := feed(r, second); n != 1 {
		t.Fatalf("second transfer completions = %d, want 1", n)
	}

	live := store.Live()
	for i := 0; i < screentext.TotalLines; i++ {
		row, _ := live.Row(i)
		want := ""
		if i == 0 {
			want = "ok"
		}
		if got := row.String(); got != want {
			t.Errorf("row %d = %q, want %q", i, got, want)
		}
		if bytes.IndexByte(row[:], 'X') >= 0 {
			t.Errorf("row %d leaked bytes from the interrupted transfer", i)
		}
	}
	if s := r.Stats(); s.Resyncs != 1 || s.Transfers != 1 {
		t.Errorf("stats = %+v, want 1 resync and 1 transfer", s)
	}
}

func TestContinueWithoutStartStillAccumulates(t *testing.T) {
	store := screentext.NewStore()
	r := New(store)

	var n int
	for i := 0; i < screentext.TotalLines; i++ {
		if r.Ingest(protocol.NewChunk(protocol.TagContinue, "c")) {
			n++
		}
	}
	if n != 1 {
		t.Errorf("completions = %d, want 1", n)
	}
}

func TestResetDropsPartial(t *testing.T) {
	store := screentext.NewStore()
	r := New(store)
	r.Ingest(protocol.NewChunk(protocol.TagStart, "half"))
	r.Reset()

	if r.NextLine() != 0 {
		t.Errorf("cursor = %d, want 0", r.NextLine())
	}
	staging := store.Staging()
	if !staging.IsZero() {
		t.Error("staging should be empty after Reset")
	}
}
