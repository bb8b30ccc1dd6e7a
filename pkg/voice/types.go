// Package voice implements the per-session real-time duplex pipeline:
// frame normalization, voice-activity gated recognition, response
// generation, cancellable synthesis, and the state machine that wires
// them together with barge-in support.
package voice

import (
	"context"
	"sync/atomic"
)

// FrameBytes is the fixed wire size of one normalized PCM frame: 320
// signed 16-bit little-endian samples, 20ms at 16kHz mono.
const FrameBytes = 640

// FrameSamples is FrameBytes expressed in int16 samples.
const FrameSamples = FrameBytes / 2

// SampleRateHz is the sample rate every frame carries after normalization.
const SampleRateHz = 16000

// FrameDurationMs is the wall-clock duration one frame represents.
const FrameDurationMs = 20

// Frame is an immutable 20ms mono 16kHz S16LE buffer. The only PCM shape
// that crosses component boundaries after the Normalizer.
type Frame [FrameSamples]int16

// Bytes renders the frame as little-endian wire bytes.
func (f *Frame) Bytes() []byte {
	out := make([]byte, FrameBytes)
	for i, s := range f {
		out[2*i] = byte(uint16(s))
		out[2*i+1] = byte(uint16(s) >> 8)
	}
	return out
}

// TranscriptKind tags a TranscriptEvent.
type TranscriptKind string

const (
	TranscriptPartial TranscriptKind = "partial"
	TranscriptFinal   TranscriptKind = "final"
)

// TranscriptEvent is a tagged Partial/Final recognition result. Partial
// text is a non-strictly-growing prefix within one utterance; Final
// terminates it.
type TranscriptEvent struct {
	Kind TranscriptKind
	Text string
}

// Recognizer consumes normalized frames and produces the transcript event
// stream. Implementations are stubbed per the spec: the streaming/gating
// contract matters, not the underlying model.
type Recognizer interface {
	// ProcessFrame inspects one frame and returns an event, or nil if the
	// frame did not cross a reporting boundary.
	ProcessFrame(frame *Frame) *TranscriptEvent
	// RMS returns the energy of the given frame, exported so the
	// Controller can reuse it for barge-in detection.
	RMS(frame *Frame) float64
	Reset()
}

// Responder produces a reply string for a final transcript. The policy is
// intentionally trivial; the contract (one string in, one string out,
// context-cancellable) is what callers depend on.
type Responder interface {
	Respond(ctx context.Context, history []Message, transcript string) (string, error)
	Name() string
}

// Message is one turn of conversation history handed to a Responder.
type Message struct {
	Role    string
	Content string
}

// CancelToken is a one-shot, monotonic cancellation flag. Tripping it is
// idempotent. A fresh token is allocated on each LISTENING->PROCESSING->
// SPEAKING traversal; the old one is dropped.
type CancelToken struct {
	done    chan struct{}
	tripped atomic.Bool
}

// NewCancelToken allocates an untripped token.
func NewCancelToken() *CancelToken {
	return &CancelToken{done: make(chan struct{})}
}

// Trip flips the token. Safe to call multiple times or concurrently.
func (c *CancelToken) Trip() {
	if c.tripped.CompareAndSwap(false, true) {
		close(c.done)
	}
}

// Tripped reports whether Trip has been called.
func (c *CancelToken) Tripped() bool {
	return c.tripped.Load()
}

// Done returns a channel closed when the token is tripped, for select-based
// cancellable sleeps.
func (c *CancelToken) Done() <-chan struct{} {
	return c.done
}

// Synthesizer lazily produces a cancellable PCM frame sequence for a reply
// string.
type Synthesizer interface {
	// Synthesize begins producing frames for text; cancel is consulted
	// before each frame. total is the frame count absent cancellation.
	Synthesize(text string, cancel *CancelToken) (stream FrameStream, total int)
	// Reset re-initializes any carried phase/state. Idempotent.
	Reset()
	Name() string
}

// FrameStream is a lazy sequence of frames. Next blocks for real-time
// pacing and returns ok=false once the stream is exhausted or cancelled;
// it never returns an error — cancellation is a normal outcome.
type FrameStream interface {
	Next(ctx context.Context) (frame Frame, ok bool)
}
