// Package relay implements the byte-at-a-time RTCM3 relay: every byte read
// from the source is forwarded to the sink immediately, and a two-byte
// preamble matcher recognises sentence boundaries in the forwarded stream
// without ever buffering or holding back data.
package relay

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/ghost-rover/rtcm-relay/internal/rtcm"
)

// ByteSource is the non-blocking input side of the relay. ReadByte returns
// ok=false when no byte is waiting; it must never block.
type ByteSource interface {
	ReadByte() (b byte, ok bool, err error)
}

// Step classifies the outcome of one engine step.
type Step int

const (
	// StepIdle means no byte was available (or the byte was dropped on an
	// I/O error).
	StepIdle Step = iota
	// StepForwarded means one byte was read and written through.
	StepForwarded
	// StepBoundary means the forwarded byte completed a sentence boundary.
	StepBoundary
)

func (s Step) String() string {
	switch s {
	case StepIdle:
		return "idle"
	case StepForwarded:
		return "forwarded"
	case StepBoundary:
		return "boundary"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// BoundaryEvent describes one detected sentence boundary.
type BoundaryEvent struct {
	// Seq is the running count of boundaries since startup, starting at 1.
	Seq uint64
	// SentenceBytes is the number of bytes forwarded since the previous
	// boundary, including the two header bytes of the next sentence that
	// complete the match.
	SentenceBytes uint64
	// MessageType is the parsed RTCM3 message type of the completed
	// sentence, or zero when verbose debugging is disabled and no sentence
	// was assembled.
	MessageType uint16
}

// DiagnosticSink receives the completed sentence and its parsed message type.
// Called only when verbose debugging is enabled. Purely observational.
type DiagnosticSink func(msgType uint16, sentence []byte)

// Engine forwards bytes from a source to a sink and detects RTCM3 sentence
// boundaries. All state is owned by the engine and mutated only from Step,
// which is intended to be called from a single polling context.
type Engine struct {
	src ByteSource
	dst io.ByteWriter

	// match counts consecutively matched preamble bytes: 0 (idle),
	// 1 (saw 0xD3), and is consumed immediately on reaching 2.
	match int

	// The counters are written only from Step but read from the console
	// goroutine, so they are atomics.
	sinceBoundary atomic.Uint64
	sentences     atomic.Uint64

	debug atomic.Bool
	// asmReset asks the next Step to discard the assembler buffer. The
	// assembler itself is touched only from the polling context.
	asmReset atomic.Bool
	sink     DiagnosticSink
	asm      *rtcm.Assembler

	onBoundary []func(BoundaryEvent)
}

// NewEngine binds an engine to its input and output streams.
func NewEngine(src ByteSource, dst io.ByteWriter) *Engine {
	return &Engine{
		src: src,
		dst: dst,
		asm: rtcm.NewAssembler(),
	}
}

// SetDiagnosticSink installs the verbose-debug sink. The sink runs on the
// polling context; it must not block.
func (e *Engine) SetDiagnosticSink(sink DiagnosticSink) {
	e.sink = sink
}

// OnBoundary registers a callback invoked from the polling context once per
// detected boundary. Callbacks must not block; long-running reactions belong
// behind a Tap or the indicator signal.
func (e *Engine) OnBoundary(fn func(BoundaryEvent)) {
	e.onBoundary = append(e.onBoundary, fn)
}

// SetDebug toggles verbose debugging. Safe to call from any goroutine; the
// console shares this flag with the polling loop.
func (e *Engine) SetDebug(enabled bool) {
	e.debug.Store(enabled)
	if !enabled {
		// Sentence assembly restarts cleanly next time debugging turns
		// on. The reset itself runs inside Step: the assembler belongs to
		// the polling context and must not be touched from here.
		e.asmReset.Store(true)
	}
}

// DebugEnabled reports whether verbose debugging is on.
func (e *Engine) DebugEnabled() bool {
	return e.debug.Load()
}

// BytesSinceBoundary returns the number of bytes forwarded since the last
// detected boundary. Diagnostic only; safe to call from any goroutine.
func (e *Engine) BytesSinceBoundary() uint64 {
	return e.sinceBoundary.Load()
}

// Sentences returns the number of boundaries detected since startup. Safe to
// call from any goroutine.
func (e *Engine) Sentences() uint64 {
	return e.sentences.Load()
}

// Step performs one relay step: if a byte is available it is read exactly
// once, written exactly once, and classified. With no byte available Step is
// a no-op and mutates nothing.
//
// On a read or write failure the byte for this step is dropped and the error
// returned; the relay keeps polling. A retry would risk duplicating or
// reordering already-forwarded data.
func (e *Engine) Step() (Step, error) {
	b, ok, err := e.src.ReadByte()
	if err != nil {
		return StepIdle, fmt.Errorf("relay read: %w", err)
	}
	if !ok {
		return StepIdle, nil
	}
	if err := e.dst.WriteByte(b); err != nil {
		return StepIdle, fmt.Errorf("relay write: %w", err)
	}
	e.sinceBoundary.Add(1)

	if e.asmReset.Swap(false) {
		e.asm.Reset()
	}
	debug := e.debug.Load()
	if debug {
		e.asm.Feed(b)
	}

	// Look for the RTCM3 preamble: 0xD3 followed by a byte whose top six
	// reserved bits are zero. A byte that breaks the sequence always resets
	// the match to zero, so back-to-back 0xD3 bytes restart from scratch.
	switch e.match {
	case 0:
		if b == rtcm.Preamble {
			e.match = 1
		}
	case 1:
		if b < 3 {
			e.match = 2
		} else {
			e.match = 0
		}
	}

	if e.match != 2 {
		return StepForwarded, nil
	}

	e.match = 0
	sentenceBytes := e.sinceBoundary.Load()
	e.sinceBoundary.Store(0)
	seq := e.sentences.Add(1)

	var msgType uint16
	if debug {
		if sentence := e.asm.TakeSentence(); sentence != nil {
			msgType, _ = rtcm.MessageType(sentence)
			if e.sink != nil {
				e.sink(msgType, sentence)
			}
		}
	}

	ev := BoundaryEvent{
		Seq:           seq,
		SentenceBytes: sentenceBytes,
		MessageType:   msgType,
	}
	for _, fn := range e.onBoundary {
		fn(ev)
	}
	return StepBoundary, nil
}
