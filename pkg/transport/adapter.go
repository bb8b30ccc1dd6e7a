// Package transport hosts Transport Adapter implementations: the boundary
// that deposits inbound PCM into a voice.Session's Frame Normalizer and
// ships outbound PCM to whatever media sink a concrete transport owns.
// The core only depends on the narrow interfaces here; SDP/ICE/RTP
// negotiation itself lives entirely in this package's concrete adapters.
package transport

import (
	"context"

	"github.com/silvertone-audio/duplexvoice/pkg/voice"
)

// MediaSink is what a concrete adapter sends synthesized PCM through —
// the transport-specific half of voice.OutboundSink. Implementations may
// rechunk 20ms frames into smaller slices (e.g. 10ms/160 samples) to
// match what the underlying media library expects; that rechunking is
// adapter-specific and has no bearing on any core invariant.
type MediaSink interface {
	WriteSamples(ctx context.Context, samples []int16, sampleRateHz int) error
}

// SessionSink adapts a MediaSink into the voice.OutboundSink the Session
// drains synthesized frames through.
type SessionSink struct {
	sink MediaSink
}

// NewSessionSink wraps sink as a voice.OutboundSink.
func NewSessionSink(sink MediaSink) *SessionSink {
	return &SessionSink{sink: sink}
}

// SendFrame implements voice.OutboundSink.
func (s *SessionSink) SendFrame(ctx context.Context, f voice.Frame) error {
	return s.sink.WriteSamples(ctx, f[:], voice.SampleRateHz)
}

// SignalEvent is one of the three logical signaling events the core
// reacts to.
type SignalEvent string

const (
	SignalOfferReceived    SignalEvent = "offer_received"
	SignalCloseReceived    SignalEvent = "close_received"
	SignalTransportFailed  SignalEvent = "transport_failed"
)

// Lifecycle describes process wiring that owns the Session Registry and
// reacts to signaling events by creating or tearing down sessions.
// httpapi.Service offers CreateSession/DestroySession with different
// signatures and does not implement this interface.
type Lifecycle interface {
	CreateSession(ctx context.Context, sessionID string, sink MediaSink) (*voice.Session, error)
	DestroySession(ctx context.Context, sessionID string, reason SignalEvent)
}
