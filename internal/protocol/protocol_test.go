package protocol

import (
	"errors"
	"testing"
	"unicode/utf8"

	"github.com/photonicat/mintaka_screen/internal/screentext"
)

func TestParseChunk(t *testing.T) {
	b := make([]byte, ChunkSize)
	b[0] = TagStart
	copy(b[1:], "hello")

	c, err := ParseChunk(b)
	if err != nil {
		t.Fatalf("ParseChunk: %v", err)
	}
	if !c.IsStart() {
		t.Error("chunk should be start-tagged")
	}
	if got := string(c.Payload()[:5]); got != "hello" {
		t.Errorf("payload = %q", got)
	}
	if len(c.Payload()) != screentext.ScreenNumChars {
		t.Errorf("payload length = %d, want %d", len(c.Payload()), screentext.ScreenNumChars)
	}

	for _, n := range []int{0, 1, ChunkSize - 1, ChunkSize + 1, 64} {
		if _, err := ParseChunk(make([]byte, n)); !errors.Is(err, ErrChunkSize) {
			t.Errorf("ParseChunk(%d bytes) err = %v, want ErrChunkSize", n, err)
		}
	}
}

func TestNewChunkIgnoresReserved(t *testing.T) {
	c := NewChunk(TagContinue, "this line is far too long for one row")
	if c.IsStart() {
		t.Error("continue chunk reported as start")
	}
	for i := 1 + screentext.ScreenNumChars; i < ChunkSize; i++ {
		if c[i] != 0 {
			t.Fatalf("reserved byte %d = %#x, want 0", i, c[i])
		}
	}
}

func TestEncodeLines(t *testing.T) {
	chunks := EncodeLines([]string{"BASE LAYER ACTIVE", "second"})
	if len(chunks) != screentext.TotalLines {
		t.Fatalf("got %d chunks, want %d", len(chunks), screentext.TotalLines)
	}
	if !chunks[0].IsStart() {
		t.Error("first chunk must carry the start tag")
	}
	for i, c := range chunks[1:] {
		if c.Tag() != TagContinue {
			t.Errorf("chunk %d tag = %#x, want continue", i+1, c.Tag())
		}
	}
	var l screentext.Line
	l.Set(chunks[1].Payload())
	if l.String() != "second" {
		t.Errorf("chunk 1 line = %q", l.String())
	}
	l.Set(chunks[5].Payload())
	if l.String() != "" {
		t.Errorf("padding chunk should be blank, got %q", l.String())
	}
}

func TestEncodeLinesDropsExtraRows(t *testing.T) {
	lines := make([]string, screentext.TotalLines+3)
	for i := range lines {
		lines[i] = "x"
	}
	if n := len(EncodeLines(lines)); n != screentext.TotalLines {
		t.Errorf("got %d chunks, want %d", n, screentext.TotalLines)
	}
}

func TestSplitText(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"one", []string{"one"}},
		{"one\ntwo\n", []string{"one", "two"}},
		{"a\r\nb", []string{"a", "b"}},
		{"a\n\nb", []string{"a", "", "b"}},
	}
	for _, tt := range tests {
		got := SplitText(tt.in)
		if len(got) != len(tt.want) {
			t.Errorf("SplitText(%q) = %q, want %q", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("SplitText(%q)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
			}
		}
	}
}

func TestNewChunkCutsOnRuneBoundary(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"two byte rune straddles the cut", "abcdefghijklmnopqr\u00e9", "abcdefghijklmnopqr"},
		{"three byte rune straddles the cut", "abcdefghijklmnopq\u20ac", "abcdefghijklmnopq"},
		{"rune ends on the cut", "abcdefghijklmnopq\u00e9xyz", "abcdefghijklmnopq\u00e9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChunk(TagContinue, tt.line)
			var l screentext.Line
			l.Set(c.Payload())
			got := l.String()
			if got != tt.want {
				t.Errorf("line = %q, want %q", got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("line %q is not valid UTF-8", got)
			}
		})
	}
}
