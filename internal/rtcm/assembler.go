package rtcm

// Assembler accumulates relayed bytes so the sentence that just ended can be
// handed to a diagnostic sink when a boundary is detected. It is an optional
// companion to the relay engine: the relay forwards every byte before the
// assembler sees it, so assembly can never stall or corrupt the stream.
//
// Because a boundary is recognised two bytes into the next sentence (preamble
// plus length byte), the last two accumulated bytes always belong to the next
// sentence and are carried over when a sentence is taken.
type Assembler struct {
	buf []byte
}

// NewAssembler returns an empty Assembler.
func NewAssembler() *Assembler {
	return &Assembler{buf: make([]byte, 0, MaxFrameLen)}
}

// Feed appends one relayed byte. If the buffer would exceed the largest legal
// frame plus the two carried-over header bytes, sync has been lost and the
// buffer is discarded.
func (a *Assembler) Feed(b byte) {
	if len(a.buf) >= MaxFrameLen+2 {
		a.buf = a.buf[:0]
	}
	a.buf = append(a.buf, b)
}

// TakeSentence returns a copy of the completed sentence at a boundary and
// restarts accumulation with the two header bytes of the next sentence. It
// returns nil when no complete sentence has been accumulated, which happens at
// the first boundary after startup or after a buffer overflow reset.
func (a *Assembler) TakeSentence() []byte {
	if len(a.buf) < 2 {
		a.buf = a.buf[:0]
		return nil
	}
	cut := len(a.buf) - 2
	if cut == 0 {
		return nil
	}
	sentence := make([]byte, cut)
	copy(sentence, a.buf[:cut])
	copy(a.buf, a.buf[cut:])
	a.buf = a.buf[:2]
	return sentence
}

// Reset discards any accumulated bytes.
func (a *Assembler) Reset() {
	a.buf = a.buf[:0]
}
