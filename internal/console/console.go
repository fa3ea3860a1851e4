// Package console provides the interactive diagnostic shell: counters and
// build info, verbose-debug toggling, indicator exercising, and an AT
// passthrough mode for configuring the HC-12 radio.
package console

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/ghost-rover/rtcm-relay/internal/indicator"
	"github.com/ghost-rover/rtcm-relay/internal/relay"
	"github.com/ghost-rover/rtcm-relay/internal/serialport"
	"github.com/ghost-rover/rtcm-relay/internal/version"
)

const exitWord = "!"

// atSettleDelay gives the HC-12 time to process a command before the
// response is read.
const atSettleDelay = 200 * time.Millisecond

// Console wires the diagnostic shell to the running relay components.
type Console struct {
	shell  *ishell.Shell
	engine *relay.Engine
	signal *indicator.Signal
	tap    *relay.Tap
	radio  serialport.Porter
}

// New builds the shell and registers its commands. The radio port may be nil
// when the process runs against a mock output; the radio command then reports
// that no radio is attached.
func New(engine *relay.Engine, signal *indicator.Signal, tap *relay.Tap, radio serialport.Porter) *Console {
	c := &Console{
		shell:  ishell.New(),
		engine: engine,
		signal: signal,
		tap:    tap,
		radio:  radio,
	}
	c.shell.SetPrompt("relay> ")
	c.shell.AddCmd(&ishell.Cmd{
		Name: "status",
		Help: "show build info and relay counters",
		Func: c.status,
	})
	c.shell.AddCmd(&ishell.Cmd{
		Name: "debug",
		Help: "toggle the verbose sentence dump",
		Func: c.toggleDebug,
	})
	c.shell.AddCmd(&ishell.Cmd{
		Name: "testled",
		Help: "exercise the indicator: testled 0|1|blink",
		Func: c.testLED,
	})
	c.shell.AddCmd(&ishell.Cmd{
		Name: "radio",
		Help: "HC-12 AT command passthrough (" + exitWord + " to leave)",
		Func: c.radioMode,
	})
	c.shell.AddCmd(&ishell.Cmd{
		Name: "watch",
		Help: "print boundary events: watch [count]",
		Func: c.watch,
	})
	return c
}

// Run starts the interactive shell and blocks until the user exits or the
// context is cancelled.
func (c *Console) Run(ctx context.Context) {
	go func() {
		<-ctx.Done()
		c.shell.Stop()
	}()
	c.shell.Println(version.Banner())
	c.shell.Run()
}

func (c *Console) status(sc *ishell.Context) {
	sc.Println(version.Banner())
	sc.Printf("sentences relayed:    %d\n", c.engine.Sentences())
	sc.Printf("bytes since boundary: %d\n", c.engine.BytesSinceBoundary())
	sc.Printf("verbose debug:        %v\n", c.engine.DebugEnabled())
	sc.Printf("indicator active:     %v\n", c.signal.IsActive())
}

func (c *Console) toggleDebug(sc *ishell.Context) {
	next := !c.engine.DebugEnabled()
	c.engine.SetDebug(next)
	if next {
		sc.Println("debug enabled.")
	} else {
		sc.Println("debug disabled.")
	}
}

func (c *Console) testLED(sc *ishell.Context) {
	if len(sc.Args) != 1 {
		sc.Println("usage: testled 0|1|blink")
		return
	}
	switch sc.Args[0] {
	case "0":
		c.signal.Tick(time.Now().Add(24 * time.Hour)) // force expiry
		sc.Println("indicator off.")
	case "1":
		c.signal.Trigger()
		sc.Println("indicator on (for one flash duration).")
	case "blink":
		for i := 0; i < 5; i++ {
			c.signal.Trigger()
			sc.Printf("blink %d\n", i+1)
			time.Sleep(time.Second)
		}
	default:
		sc.Println("usage: testled 0|1|blink")
	}
}

func (c *Console) radioMode(sc *ishell.Context) {
	if c.radio == nil {
		sc.Println("no radio port attached.")
		return
	}
	sc.Println("HC-12 command mode (" + exitWord + " to leave).")
	sc.Println("  AT, AT+Bxxxx, AT+Cxxx, AT+FUx, AT+Px, AT+Ry, AT+V, AT+DEFAULT")
	sc.Println("  note: hold the radio's SET line low while in this mode.")
	for {
		line := sc.ReadLine()
		if line == exitWord {
			sc.Println("command mode left.")
			return
		}
		if line == "" {
			continue
		}
		resp, err := Exchange(c.radio, line, atSettleDelay)
		if err != nil {
			sc.Err(fmt.Errorf("radio exchange: %w", err))
			continue
		}
		sc.Println(resp)
	}
}

func (c *Console) watch(sc *ishell.Context) {
	count := 5
	if len(sc.Args) == 1 {
		n, err := strconv.Atoi(sc.Args[0])
		if err != nil || n <= 0 {
			sc.Println("usage: watch [count]")
			return
		}
		count = n
	}
	id, events := c.tap.Subscribe()
	defer c.tap.Unsubscribe(id)

	timeout := time.After(10 * time.Second)
	for i := 0; i < count; i++ {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if ev.MessageType != 0 {
				sc.Printf("#%d RTCM3 %d: %d bytes\n", ev.Seq, ev.MessageType, ev.SentenceBytes)
			} else {
				sc.Printf("#%d: %d bytes\n", ev.Seq, ev.SentenceBytes)
			}
		case <-timeout:
			sc.Println("no more boundary events within 10s.")
			return
		}
	}
}
