package serialport

import (
	"time"
)

// pollTimeout bounds how long a Source read may wait for data. Short enough
// that the poll loop stays responsive to console input and shutdown.
const pollTimeout = time.Millisecond

// Source adapts a Porter to the relay engine's non-blocking ByteSource. It
// reads in small batches to avoid a syscall per byte but still hands the
// engine exactly one byte per step.
type Source struct {
	port Porter
	buf  [256]byte
	r, n int
}

// NewSource wraps a port. Ports with timeout support are switched to a short
// read timeout so ReadByte never blocks indefinitely on an idle line.
func NewSource(port Porter) *Source {
	if tp, ok := port.(TimeoutPorter); ok {
		// Best effort: a port that rejects timeouts still works, it just
		// blocks in Read until data arrives.
		_ = tp.SetReadTimeout(pollTimeout)
	}
	return &Source{port: port}
}

// ReadByte returns the next byte from the port, ok=false when the line is
// idle.
func (s *Source) ReadByte() (byte, bool, error) {
	if s.r < s.n {
		b := s.buf[s.r]
		s.r++
		return b, true, nil
	}
	n, err := s.port.Read(s.buf[:])
	if err != nil {
		return 0, false, err
	}
	if n == 0 {
		return 0, false, nil
	}
	s.r, s.n = 1, n
	return s.buf[0], true, nil
}

// Sink adapts a Porter to io.ByteWriter for the relay's output side.
type Sink struct {
	port Porter
	b    [1]byte
}

// NewSink wraps a port.
func NewSink(port Porter) *Sink {
	return &Sink{port: port}
}

// WriteByte writes exactly one byte to the port.
func (s *Sink) WriteByte(c byte) error {
	s.b[0] = c
	n, err := s.port.Write(s.b[:])
	if err != nil {
		return err
	}
	if n != 1 {
		return ErrWriteFailed
	}
	return nil
}
