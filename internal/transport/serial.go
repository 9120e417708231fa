package transport

import (
	"errors"
	"fmt"
	"time"

	"github.com/goburrow/serial"
)

type SerialConfig struct {
	Address  string
	BaudRate int
	Timeout  time.Duration
}

// OpenSerial opens a serial port in 8N1 mode. The read timeout doubles as the
// inter-chunk gap after which a partial chunk is discarded.
func OpenSerial(cfg SerialConfig) (serial.Port, error) {
	port, err := serial.Open(&serial.Config{
		Address:  cfg.Address,
		BaudRate: cfg.BaudRate,
		DataBits: 8,
		StopBits: 1,
		Parity:   "N",
		Timeout:  cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("open serial %s: %w", cfg.Address, err)
	}
	return port, nil
}

// IsSerialTimeout reports whether err is a read timeout on a serial port.
func IsSerialTimeout(err error) bool {
	return errors.Is(err, serial.ErrTimeout)
}
