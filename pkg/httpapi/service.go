// Package httpapi exposes the process-level HTTP surface: session
// signaling (offer/close), the per-session and process metrics
// endpoints, and a media websocket. SDP/ICE negotiation, RTP, and the
// browser UI are external collaborators reached only through the
// transport package's adapters.
package httpapi

import (
	"context"
	"sync/atomic"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/silvertone-audio/duplexvoice/pkg/transport"
	"github.com/silvertone-audio/duplexvoice/pkg/transport/wsadapter"
	"github.com/silvertone-audio/duplexvoice/pkg/voice"
)

// SessionFactory builds the owned components a new Session needs. It is
// supplied by cmd/server so this package stays agnostic of which
// Recognizer/Synthesizer/Responder implementations are wired in.
type SessionFactory func(id string, sink voice.OutboundSink) *voice.Session

// Service owns the Session Registry and reacts to signaling events by
// creating or tearing down sessions, per the three logical events named
// in the external interfaces.
type Service struct {
	registry   *voice.Registry
	newSession SessionFactory
	logger     voice.Logger
	sessions   atomic.Int64
}

// NewService builds a Service backed by registry.
func NewService(registry *voice.Registry, newSession SessionFactory, logger voice.Logger) *Service {
	if logger == nil {
		logger = voice.NoOpLogger{}
	}
	return &Service{registry: registry, newSession: newSession, logger: logger}
}

// CreateSession implements offer_received: allocates a session id,
// constructs the session's components, and starts it.
func (s *Service) CreateSession(ctx context.Context, sink voice.OutboundSink) *voice.Session {
	id := uuid.NewString()
	sess := s.newSession(id, sink)
	s.registry.Add(sess)
	sess.Start()
	s.sessions.Add(1)
	return sess
}

// DestroySession implements close_received / transport_failed: stops the
// session and removes it from the registry.
func (s *Service) DestroySession(id string, reason transport.SignalEvent) {
	sess, err := s.registry.Get(id)
	if err != nil {
		return
	}
	sess.Close()
	s.registry.Remove(id)
	s.logger.Info("session destroyed", "sessionID", id, "reason", reason)
}

// ServeMediaWebsocket takes an already-accepted websocket, creates a
// session bound to it, and blocks serving inbound PCM until the peer disconnects, at
// which point the session is torn down as transport_failed.
func (s *Service) ServeMediaWebsocket(ctx context.Context, ws *websocket.Conn) error {
	// The session needs its sink before it exists and the wsadapter needs
	// the session before it can Accept; wire them together via a small
	// forwarding sink resolved once both sides are built.
	var conn *wsadapter.Conn
	sink := sinkFunc(func(c context.Context, f voice.Frame) error {
		if conn == nil {
			return nil
		}
		return conn.WriteSamples(c, f[:], voice.SampleRateHz)
	})

	sess := s.CreateSession(ctx, sink)

	c, err := wsadapter.Accept(ctx, ws, sess, s.logger)
	if err != nil {
		s.DestroySession(sess.ID, transport.SignalTransportFailed)
		return err
	}
	conn = c

	c.Serve(ctx, func() {
		s.DestroySession(sess.ID, transport.SignalTransportFailed)
	})
	return nil
}

// sinkFunc adapts a function to voice.OutboundSink.
type sinkFunc func(ctx context.Context, f voice.Frame) error

func (f sinkFunc) SendFrame(ctx context.Context, fr voice.Frame) error { return f(ctx, fr) }
