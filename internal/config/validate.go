// internal/config/validate.go
package config

import (
	"errors"
	"fmt"
)

var ErrInvalid = errors.New("invalid config")

// Validate checks configuration correctness.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: nil config", ErrInvalid)
	}

	// ------------------------------------------------------------
	// PANEL
	// ------------------------------------------------------------

	if cfg.Panel.Width <= 0 || cfg.Panel.Height <= 0 {
		return fmt.Errorf("%w: panel size %dx%d", ErrInvalid, cfg.Panel.Width, cfg.Panel.Height)
	}
	if cfg.Panel.Height%8 != 0 {
		return fmt.Errorf("%w: panel height %d is not a multiple of 8", ErrInvalid, cfg.Panel.Height)
	}

	// ------------------------------------------------------------
	// TIMEOUTS
	// ------------------------------------------------------------

	t := cfg.Timeouts
	if t.StaleMs < 0 || t.IdleMs < 0 || t.TickMs <= 0 {
		return fmt.Errorf("%w: timeouts must be positive", ErrInvalid)
	}
	if t.TickMs >= t.StaleMs {
		return fmt.Errorf("%w: tick_ms %d must be shorter than stale_ms %d", ErrInvalid, t.TickMs, t.StaleMs)
	}
	if t.IdleMs <= t.StaleMs {
		return fmt.Errorf("%w: idle_ms %d must be longer than stale_ms %d", ErrInvalid, t.IdleMs, t.StaleMs)
	}

	// ------------------------------------------------------------
	// TRANSPORT
	// ------------------------------------------------------------

	if s := cfg.Transport.Serial; s != nil {
		if s.Address == "" {
			return fmt.Errorf("%w: transport.serial.address is required", ErrInvalid)
		}
		if s.BaudRate <= 0 {
			return fmt.Errorf("%w: transport.serial.baud_rate %d", ErrInvalid, s.BaudRate)
		}
	}

	// ------------------------------------------------------------
	// FONTS
	// ------------------------------------------------------------

	if cfg.Fonts.Normal.Size <= 0 || cfg.Fonts.Large.Size <= 0 {
		return fmt.Errorf("%w: font sizes must be positive", ErrInvalid)
	}

	return nil
}
