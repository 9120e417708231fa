// Package input turns evdev events from the encoder and keys into subsystem
// input events.
package input

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	evdev "github.com/holoplot/go-evdev"

	"github.com/photonicat/mintaka_screen/internal/logging"
	"github.com/photonicat/mintaka_screen/internal/paginator"
)

const (
	KEYBOARD_DEBOUNCE_TIME = 50 * time.Millisecond
	LONG_PRESS_TIME        = 2 * time.Second
)

type Kind int

const (
	KindRotate Kind = iota
	KindKey
	KindShutdown
)

func (k Kind) String() string {
	switch k {
	case KindRotate:
		return "rotate"
	case KindKey:
		return "key"
	case KindShutdown:
		return "shutdown"
	default:
		return "unknown"
	}
}

// Event is one user input delivered to the subsystem.
type Event struct {
	Kind         Kind
	Direction    paginator.Direction
	Pressed      bool
	ToBootloader bool
}

func Rotate(dir paginator.Direction) Event { return Event{Kind: KindRotate, Direction: dir} }

func Key(pressed bool) Event { return Event{Kind: KindKey, Pressed: pressed} }

func Shutdown(toBootloader bool) Event {
	return Event{Kind: KindShutdown, ToBootloader: toBootloader}
}

// Translator maps raw evdev events to Events. It keeps the press times it
// needs for debounce and long-press detection.
type Translator struct {
	pressedAt map[evdev.EvCode]time.Time
}

func NewTranslator() *Translator {
	return &Translator{pressedAt: make(map[evdev.EvCode]time.Time)}
}

// Translate returns the events for ev observed at now.
func (t *Translator) Translate(ev *evdev.InputEvent, now time.Time) []Event {
	switch ev.Type {
	case evdev.EV_REL:
		if ev.Code != evdev.REL_WHEEL && ev.Code != evdev.REL_DIAL {
			return nil
		}
		dir := paginator.Forward
		if ev.Value < 0 {
			dir = paginator.Backward
		}
		n := int(ev.Value)
		if n < 0 {
			n = -n
		}
		out := make([]Event, 0, n)
		for i := 0; i < n; i++ {
			out = append(out, Rotate(dir))
		}
		return out

	case evdev.EV_KEY:
		return t.key(ev, now)
	}
	return nil
}

func (t *Translator) key(ev *evdev.InputEvent, now time.Time) []Event {
	switch ev.Value {
	case 1:
		t.pressedAt[ev.Code] = now
		switch ev.Code {
		case evdev.KEY_VOLUMEUP:
			return []Event{Rotate(paginator.Forward)}
		case evdev.KEY_VOLUMEDOWN:
			return []Event{Rotate(paginator.Backward)}
		case evdev.KEY_RESTART:
			return []Event{Shutdown(true)}
		}
		return []Event{Key(true)}

	case 0:
		pressed, ok := t.pressedAt[ev.Code]
		delete(t.pressedAt, ev.Code)
		if ok && now.Sub(pressed) < KEYBOARD_DEBOUNCE_TIME {
			return nil
		}
		if ev.Code == evdev.KEY_POWER && ok && now.Sub(pressed) >= LONG_PRESS_TIME {
			return []Event{Shutdown(false)}
		}
		if ev.Code == evdev.KEY_VOLUMEUP || ev.Code == evdev.KEY_VOLUMEDOWN || ev.Code == evdev.KEY_RESTART {
			return nil
		}
		return []Event{Key(false)}
	}
	// autorepeat counts as activity
	return []Event{Key(true)}
}

var ErrNoDevice = errors.New("input: device not found")

// FindDevice returns the evdev path of the device with the given name.
func FindDevice(name string) (string, error) {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return "", fmt.Errorf("list input devices: %w", err)
	}
	for _, ip := range paths {
		if ip.Name == name {
			return ip.Path, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrNoDevice, name)
}

// Monitor reads the named device until ctx is done and sends translated
// events to out.
func Monitor(ctx context.Context, name string, grab bool, out chan<- Event) error {
	devPath, err := FindDevice(name)
	if err != nil {
		return err
	}
	dev, err := evdev.Open(devPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", devPath, err)
	}
	if grab {
		if err := dev.Grab(); err != nil {
			log.Printf("warning: failed to grab device: %v", err)
		} else {
			defer dev.Ungrab()
		}
	}
	devName, _ := dev.Name()
	log.Printf("using input device: %s (%s)", devPath, devName)

	go func() {
		<-ctx.Done()
		dev.Close()
	}()

	tr := NewTranslator()
	for {
		ev, err := dev.ReadOne()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Printf("read error: %v", err)
			time.Sleep(100 * time.Millisecond)
			continue
		}
		for _, e := range tr.Translate(ev, time.Now()) {
			logging.Debug("input: %s %+v", e.Kind, e)
			select {
			case out <- e:
			case <-ctx.Done():
				return nil
			}
		}
	}
}
