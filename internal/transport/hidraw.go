package transport

import (
	"fmt"
	"os"
)

// OpenHidraw opens a raw HID node. Reads return one input report each,
// which for this device is exactly one chunk.
func OpenHidraw(path string, write bool) (*os.File, error) {
	flag := os.O_RDONLY
	if write {
		flag = os.O_RDWR
	}
	f, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return nil, fmt.Errorf("open hidraw %s: %w", path, err)
	}
	return f, nil
}

// HidrawReportPrefix is prepended to host writes: report number 0 for
// devices without numbered reports.
var HidrawReportPrefix = []byte{0x00}
