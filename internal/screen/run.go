package screen

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/photonicat/mintaka_screen/internal/input"
	"github.com/photonicat/mintaka_screen/internal/protocol"
)

// Sources are the inbound event streams. Nil channels are never selected.
type Sources struct {
	Chunks <-chan protocol.Chunk
	Events <-chan input.Event
	Status <-chan string
}

// ErrHalted is returned by Run once a shutdown has been handled.
var ErrHalted = errors.New("screen: halted by shutdown request")

// Handle dispatches one input event.
func (s *Subsystem) Handle(e input.Event) {
	switch e.Kind {
	case input.KindRotate:
		s.Rotate(e.Direction)
	case input.KindKey:
		s.KeyEvent(e.Pressed)
	case input.KindShutdown:
		s.Shutdown(e.ToBootloader)
	default:
		log.Printf("screen: unknown input kind %d", e.Kind)
	}
}

// Run owns the subsystem until ctx is done or a shutdown is handled, in which
// case it returns ErrHalted. Each event runs to completion before the next is
// taken, and timers are polled once per tick.
func (s *Subsystem) Run(ctx context.Context, src Sources) error {
	ticker := time.NewTicker(s.opts.Tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case c, ok := <-src.Chunks:
			if !ok {
				src.Chunks = nil
				continue
			}
			s.Ingest(c)

		case e, ok := <-src.Events:
			if !ok {
				src.Events = nil
				continue
			}
			s.Handle(e)
			if s.halted {
				return ErrHalted
			}

		case text, ok := <-src.Status:
			if !ok {
				src.Status = nil
				continue
			}
			s.SetStatus(text)

		case <-ticker.C:
			s.Tick()
		}
	}
}
