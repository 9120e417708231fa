// Package logging provides debug logging on top of the standard logger.
package logging

import "log"

// DebugEnabled controls whether Debug produces output.
// Set via the -debug flag or the debug key in the config file.
var DebugEnabled bool

// Debug logs a message only when DebugEnabled is true.
func Debug(format string, args ...any) {
	if DebugEnabled {
		log.Printf("DEBUG: "+format, args...)
	}
}
