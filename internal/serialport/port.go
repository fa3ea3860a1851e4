// Package serialport abstracts the two serial interfaces the relay sits
// between: the GNSS receiver's correction output and the RF radio's input.
// The abstraction keeps the relay engine and console testable without real
// hardware.
package serialport

import (
	"errors"
	"io"
	"time"
)

// ErrWriteFailed is returned when a port accepts a write but reports fewer
// bytes written than requested.
var ErrWriteFailed = errors.New("short write to serial port")

// Porter is the minimal interface the relay needs from a serial port.
type Porter interface {
	io.ReadWriter
	io.Closer
}

// TimeoutPorter extends Porter with a read timeout. Ports that implement it
// can be polled without blocking; go.bug.st/serial ports do.
type TimeoutPorter interface {
	Porter
	SetReadTimeout(timeout time.Duration) error
}
