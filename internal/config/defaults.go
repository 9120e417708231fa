// internal/config/defaults.go
package config

const (
	DefaultI2CBus   = "1"
	DefaultWidth    = 128
	DefaultHeight   = 64
	DefaultStaleMs  = 5000
	DefaultIdleMs   = 300000
	DefaultTickMs   = 25
	DefaultBaudRate = 115200
	DefaultSerialMs = 100
	DefaultListen   = ":8081"
	DefaultNormalPt = 10
	DefaultLargePt  = 22
)

// ApplyDefaults fills every zero field that has a default.
// It MUST be called before Validate.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Panel.I2CBus == "" {
		cfg.Panel.I2CBus = DefaultI2CBus
	}
	if cfg.Panel.Width == 0 {
		cfg.Panel.Width = DefaultWidth
	}
	if cfg.Panel.Height == 0 {
		cfg.Panel.Height = DefaultHeight
	}

	if cfg.Fonts.Normal.Size == 0 {
		cfg.Fonts.Normal.Size = DefaultNormalPt
	}
	if cfg.Fonts.Large.Size == 0 {
		cfg.Fonts.Large.Size = DefaultLargePt
	}

	if cfg.Timeouts.StaleMs == 0 {
		cfg.Timeouts.StaleMs = DefaultStaleMs
	}
	if cfg.Timeouts.IdleMs == 0 {
		cfg.Timeouts.IdleMs = DefaultIdleMs
	}
	if cfg.Timeouts.TickMs == 0 {
		cfg.Timeouts.TickMs = DefaultTickMs
	}

	if s := cfg.Transport.Serial; s != nil {
		if s.BaudRate == 0 {
			s.BaudRate = DefaultBaudRate
		}
		if s.TimeoutMs == 0 {
			s.TimeoutMs = DefaultSerialMs
		}
	}

	if cfg.HTTP.Listen == "" {
		cfg.HTTP.Listen = DefaultListen
	}
}
