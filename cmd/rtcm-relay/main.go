// Command rtcm-relay forwards an RTCM3 correction stream from a GNSS
// receiver's serial port to an RF radio's serial port, flashing an indicator
// once per relayed sentence. An optional interactive console exposes
// counters, verbose debugging, and an AT passthrough for the radio.
package main

import (
	"context"
	"encoding/hex"
	"errors"
	"flag"
	"log"
	"os/signal"
	"sync"
	"syscall"

	"github.com/ghost-rover/rtcm-relay/internal/config"
	"github.com/ghost-rover/rtcm-relay/internal/console"
	"github.com/ghost-rover/rtcm-relay/internal/indicator"
	"github.com/ghost-rover/rtcm-relay/internal/monitoring"
	"github.com/ghost-rover/rtcm-relay/internal/relay"
	"github.com/ghost-rover/rtcm-relay/internal/serialport"
	"github.com/ghost-rover/rtcm-relay/internal/version"
)

var (
	configPath  = flag.String("config", "", "Path to TOML config file")
	gnssPort    = flag.String("in", "", "GNSS serial port (overrides config)")
	radioPort   = flag.String("out", "", "Radio serial port (overrides config)")
	interactive = flag.Bool("console", false, "Run the interactive diagnostic console")
	debug       = flag.Bool("debug", false, "Enable the verbose sentence dump")
)

func main() {
	flag.Parse()
	log.Print(version.Banner())

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *gnssPort != "" {
		cfg.GNSSPort = *gnssPort
	}
	if *radioPort != "" {
		cfg.RadioPort = *radioPort
	}
	if *debug {
		cfg.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}
	flash, err := cfg.Flash()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	in, err := serialport.Open(cfg.GNSSPort, cfg.GNSS)
	if err != nil {
		log.Fatalf("gnss port: %v", err)
	}
	defer in.Close()

	out, err := serialport.Open(cfg.RadioPort, cfg.Radio)
	if err != nil {
		log.Fatalf("radio port: %v", err)
	}
	defer out.Close()

	engine := relay.NewEngine(serialport.NewSource(in), serialport.NewSink(out))
	engine.SetDebug(cfg.Debug)
	engine.SetDiagnosticSink(func(msgType uint16, sentence []byte) {
		monitoring.Logf("RTCM3 %d: %d bytes\n%s", msgType, len(sentence), hex.Dump(sentence))
	})

	sig := indicator.New(indicator.DriverFunc(func(on bool) {
		if engine.DebugEnabled() {
			monitoring.Logf("indicator: %v", on)
		}
	}), flash)

	tap := relay.NewTap()
	defer tap.Close()

	engine.OnBoundary(func(relay.BoundaryEvent) { sig.Trigger() })
	engine.OnBoundary(tap.Publish)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup

	// Relay poll loop: step the engine as fast as data arrives, backing off
	// briefly when the line is idle.
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := relay.Poll(ctx, engine, relay.DefaultIdleSleep); err != nil && !errors.Is(err, context.Canceled) {
			monitoring.Logf("relay: %v", err)
		}
	}()

	// Indicator expiry runs on its own timer so a flash never stalls the
	// poll loop.
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := sig.Run(ctx, 0); err != nil && !errors.Is(err, context.Canceled) {
			monitoring.Logf("indicator: %v", err)
		}
	}()

	if *interactive {
		console.New(engine, sig, tap, out).Run(ctx)
		stop()
	} else {
		<-ctx.Done()
	}

	wg.Wait()
}
