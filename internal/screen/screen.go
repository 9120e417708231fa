// Package screen ties chunk reassembly, paging, rendering and the two
// timeouts into the display subsystem.
//
// A Subsystem is not safe for concurrent use. Run serialises chunks, input
// events and timer ticks onto one goroutine; everything else reads Snapshot.
package screen

import (
	"log"
	"sync"
	"time"

	"github.com/photonicat/mintaka_screen/internal/paginator"
	"github.com/photonicat/mintaka_screen/internal/protocol"
	"github.com/photonicat/mintaka_screen/internal/reassembler"
	"github.com/photonicat/mintaka_screen/internal/render"
	"github.com/photonicat/mintaka_screen/internal/screentext"
	"github.com/photonicat/mintaka_screen/internal/timeout"
)

const (
	DefaultTick  = 25 * time.Millisecond
	DefaultWidth = 128
)

var bootloaderNotice = [2]string{"Awaiting", "Firmware"}

type Options struct {
	StaleAfter time.Duration
	IdleAfter  time.Duration
	Tick       time.Duration
	Width      int
	Now        func() time.Time
}

func (o *Options) applyDefaults() {
	if o.StaleAfter == 0 {
		o.StaleAfter = timeout.DefaultStaleness
	}
	if o.IdleAfter == 0 {
		o.IdleAfter = timeout.DefaultInactivity
	}
	if o.Tick == 0 {
		o.Tick = DefaultTick
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// Snapshot is a point-in-time view of the subsystem for diagnostics.
type Snapshot struct {
	Mode           string            `json:"mode"`
	Screen         int               `json:"screen"`
	TransferActive bool              `json:"transfer_active"`
	PoweredOff     bool              `json:"powered_off"`
	Halted         bool              `json:"halted"`
	NextLine       int               `json:"next_line"`
	Status         string            `json:"status,omitempty"`
	Lines          []string          `json:"lines"`
	Stats          reassembler.Stats `json:"stats"`
}

type Subsystem struct {
	opts        Options
	store       *screentext.Store
	reassembler *reassembler.Reassembler
	pages       *paginator.Paginator
	supervisor  *timeout.Supervisor
	renderer    *render.Renderer

	transferActive bool
	poweredOff     bool
	halted         bool
	status         string

	snapMu sync.RWMutex
	snap   Snapshot
}

// New draws the splash and arms the inactivity timer.
func New(surface render.Surface, opts Options) *Subsystem {
	opts.applyDefaults()
	store := screentext.NewStore()
	s := &Subsystem{
		opts:        opts,
		store:       store,
		reassembler: reassembler.New(store),
		pages:       paginator.New(),
		supervisor:  timeout.NewSupervisor(opts.StaleAfter, opts.IdleAfter, opts.Now()),
		renderer:    render.New(surface, opts.Width),
	}
	s.renderer.Power(true)
	s.renderer.Splash()
	s.publish()
	return s
}

// Ingest handles one inbound chunk.
func (s *Subsystem) Ingest(c protocol.Chunk) {
	if s.halted {
		return
	}
	defer s.publish()
	if !s.reassembler.Ingest(c) {
		return
	}
	if !s.transferActive {
		log.Printf("screen: transfer complete, showing screen %d", s.pages.Index())
	}
	s.transferActive = true
	s.supervisor.TransferCompleted(s.opts.Now())
	s.redraw()
}

// Rotate handles an encoder turn.
func (s *Subsystem) Rotate(dir paginator.Direction) {
	if s.halted {
		return
	}
	defer s.publish()
	s.activity()
	s.pages.Advance(dir)
	s.redraw()
}

// KeyEvent handles a key press or release.
func (s *Subsystem) KeyEvent(pressed bool) {
	if s.halted {
		return
	}
	defer s.publish()
	if s.activity() {
		s.redraw()
	}
}

// Shutdown shows the bootloader notice when requested, flushes the surface
// and stops the subsystem from reacting to further events.
func (s *Subsystem) Shutdown(toBootloader bool) {
	if s.halted {
		return
	}
	defer s.publish()
	if toBootloader {
		s.store.SetLiveRow(0, bootloaderNotice[0])
		s.store.SetLiveRow(1, bootloaderNotice[1])
		live := s.store.Live()
		first, _ := live.Row(0)
		second, _ := live.Row(1)
		s.renderer.Power(true)
		s.renderer.Notice(first.String(), second.String())
	}
	s.renderer.Flush()
	s.halted = true
	log.Printf("screen: shutdown (bootloader=%v)", toBootloader)
}

// Tick polls both timeouts.
func (s *Subsystem) Tick() {
	if s.halted {
		return
	}
	e := s.supervisor.Poll(s.opts.Now(), s.transferActive)
	if !e.Stale && !e.Inactive {
		return
	}
	defer s.publish()
	if e.Stale {
		log.Println("screen: host stopped sending, reverting to splash")
		s.transferActive = false
		s.store.ClearAll()
		s.reassembler.Reset()
		s.renderer.Splash()
	}
	if e.Inactive {
		log.Println("screen: no input, powering display off")
		s.poweredOff = true
		s.renderer.Power(false)
	}
}

// SetStatus sets the status bar text shown over the screen view.
func (s *Subsystem) SetStatus(text string) {
	if s.halted || text == s.status {
		return
	}
	defer s.publish()
	s.status = text
	if s.transferActive {
		s.redraw()
	}
}

// activity re-arms the inactivity timer and re-powers the surface. It
// reports whether the surface had been powered off.
func (s *Subsystem) activity() bool {
	wasOff := s.supervisor.UserActivity(s.opts.Now()) || s.poweredOff
	s.poweredOff = false
	s.renderer.Power(true)
	return wasOff
}

func (s *Subsystem) redraw() {
	if !s.transferActive {
		s.renderer.Splash()
		return
	}
	live := s.store.Live()
	s.renderer.Screen(&live, s.pages.Index(), s.status)
}

func (s *Subsystem) publish() {
	live := s.store.Live()
	snap := Snapshot{
		Mode:           render.ModeName(s.renderer.Mode()),
		Screen:         s.pages.Index(),
		TransferActive: s.transferActive,
		PoweredOff:     s.poweredOff,
		Halted:         s.halted,
		NextLine:       s.reassembler.NextLine(),
		Status:         s.status,
		Lines:          live.Screen(s.pages.Index()),
		Stats:          s.reassembler.Stats(),
	}
	s.snapMu.Lock()
	s.snap = snap
	s.snapMu.Unlock()
}

// Snapshot may be called from any goroutine.
func (s *Subsystem) Snapshot() Snapshot {
	s.snapMu.RLock()
	defer s.snapMu.RUnlock()
	return s.snap
}

// Live returns a copy of the live grid.
func (s *Subsystem) Live() screentext.Grid { return s.store.Live() }

// Staging returns a copy of the staging grid.
func (s *Subsystem) Staging() screentext.Grid { return s.store.Staging() }

func (s *Subsystem) TransferActive() bool { return s.transferActive }

func (s *Subsystem) Index() int { return s.pages.Index() }

func (s *Subsystem) Mode() render.Mode { return s.renderer.Mode() }
