package paginator

import (
	"math/rand"
	"testing"

	"github.com/photonicat/mintaka_screen/internal/screentext"
)

func TestForwardSaturates(t *testing.T) {
	p := New()
	for i := 0; i < screentext.NumScreens*3; i++ {
		p.Advance(Forward)
	}
	if p.Index() != screentext.NumScreens-1 {
		t.Errorf("index = %d, want %d", p.Index(), screentext.NumScreens-1)
	}
	if p.Advance(Forward) {
		t.Error("Advance at the last screen should report no change")
	}
}

func TestBackwardSaturates(t *testing.T) {
	p := New()
	if p.Advance(Backward) {
		t.Error("Advance backward at 0 should report no change")
	}
	if p.Index() != 0 {
		t.Errorf("index = %d, want 0", p.Index())
	}
}

func TestRandomWalkStaysInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	p := New()
	for i := 0; i < 1000; i++ {
		dir := Forward
		if rng.Intn(2) == 0 {
			dir = Backward
		}
		p.Advance(dir)
		if p.Index() < 0 || p.Index() >= screentext.NumScreens {
			t.Fatalf("step %d: index %d out of range", i, p.Index())
		}
	}
}

func TestWindow(t *testing.T) {
	p := New()
	p.Advance(Forward)
	p.Advance(Forward)
	first, last := p.Window()
	if first != 8 || last != 12 {
		t.Errorf("Window() = [%d, %d), want [8, 12)", first, last)
	}
}

func TestDirectionString(t *testing.T) {
	tests := map[Direction]string{Forward: "forward", Backward: "backward", Direction(9): "unknown"}
	for d, want := range tests {
		if got := d.String(); got != want {
			t.Errorf("Direction(%d).String() = %q, want %q", int(d), got, want)
		}
	}
}
