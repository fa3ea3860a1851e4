package console

import (
	"bytes"
	"strings"
	"time"

	"github.com/ghost-rover/rtcm-relay/internal/serialport"
)

// exchangeReadTimeout is the per-read timeout used while draining the
// radio's response, so an idle line reports n==0 instead of blocking.
const exchangeReadTimeout = 50 * time.Millisecond

// exchangeDeadline caps the whole drain in case the port keeps producing
// data (the correction stream restarting mid-exchange).
const exchangeDeadline = time.Second

// Exchange writes one AT command to the radio, waits for the module to
// process it, then drains and returns the response. The radio must already
// be in command mode; during normal relaying the port carries the correction
// stream instead.
//
// The port is switched to a short read timeout for the drain so an exhausted
// response ends the exchange instead of blocking the shell. A port without
// timeout support blocks until the radio sends at least one byte.
func Exchange(port serialport.Porter, command string, settle time.Duration) (string, error) {
	if !strings.HasSuffix(command, "\r\n") {
		command += "\r\n"
	}
	n, err := port.Write([]byte(command))
	if err != nil {
		return "", err
	}
	if n != len(command) {
		return "", serialport.ErrWriteFailed
	}

	time.Sleep(settle)

	if tp, ok := port.(serialport.TimeoutPorter); ok {
		_ = tp.SetReadTimeout(exchangeReadTimeout)
	}

	deadline := time.Now().Add(exchangeDeadline)
	var out bytes.Buffer
	buf := make([]byte, 256)
	for {
		n, err := port.Read(buf)
		if n > 0 {
			out.Write(buf[:n])
		}
		if err != nil {
			return strings.TrimSpace(out.String()), err
		}
		if n == 0 || time.Now().After(deadline) {
			break
		}
	}
	return strings.TrimSpace(out.String()), nil
}
