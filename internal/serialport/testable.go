package serialport

import (
	"bytes"
	"errors"
	"sync"
	"time"
)

// TestablePort implements TimeoutPorter with configurable behaviour for unit
// tests: scripted read data, captured writes, and injectable errors.
type TestablePort struct {
	mu sync.Mutex

	readBuf  bytes.Buffer
	writeBuf bytes.Buffer

	// ReadError is returned by the next Read call if set, then cleared.
	ReadError error
	// WriteError is returned by the next Write call if set, then cleared.
	WriteError error
	// CloseError is returned by Close if set.
	CloseError error
	// ShortWrite makes Write report one byte fewer than requested.
	ShortWrite bool

	closed      bool
	readTimeout time.Duration
	readCalls   int
	writeCalls  int
}

// NewTestablePort returns an empty TestablePort.
func NewTestablePort() *TestablePort {
	return &TestablePort{}
}

// Read drains scripted data; with none queued it reports an idle line
// (n=0, nil), mirroring a timeout-mode serial read.
func (t *TestablePort) Read(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.readCalls++
	if t.closed {
		return 0, errors.New("serial port closed")
	}
	if t.ReadError != nil {
		err := t.ReadError
		t.ReadError = nil
		return 0, err
	}
	if t.readBuf.Len() == 0 {
		return 0, nil
	}
	return t.readBuf.Read(p)
}

// Write captures written data.
func (t *TestablePort) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.writeCalls++
	if t.closed {
		return 0, errors.New("serial port closed")
	}
	if t.WriteError != nil {
		err := t.WriteError
		t.WriteError = nil
		return 0, err
	}
	n, _ := t.writeBuf.Write(p)
	if t.ShortWrite && n > 0 {
		return n - 1, nil
	}
	return n, nil
}

// Close marks the port closed.
func (t *TestablePort) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	return t.CloseError
}

// SetReadTimeout records the requested timeout.
func (t *TestablePort) SetReadTimeout(timeout time.Duration) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.readTimeout = timeout
	return nil
}

// QueueRead appends data to be returned by subsequent Read calls.
func (t *TestablePort) QueueRead(data []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.readBuf.Write(data)
}

// Written returns a copy of everything written to the port.
func (t *TestablePort) Written() []byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]byte, t.writeBuf.Len())
	copy(out, t.writeBuf.Bytes())
	return out
}

// ReadTimeout returns the last timeout passed to SetReadTimeout.
func (t *TestablePort) ReadTimeout() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.readTimeout
}

// Calls returns the number of Read and Write calls made.
func (t *TestablePort) Calls() (reads, writes int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.readCalls, t.writeCalls
}
