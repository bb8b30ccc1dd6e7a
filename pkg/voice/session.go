package voice

import (
	"context"
	"sync"
	"time"
)

// OutboundSink is the narrow boundary the Controller ships synthesized
// frames through. The Transport Adapter implements it; backpressure is
// the adapter's concern, not the core's.
type OutboundSink interface {
	SendFrame(ctx context.Context, f Frame) error
}

// Session is a process-local, independently-owned instance of the full
// pipeline: Frame Normalizer, VAD/Recognizer, Synthesizer, state machine,
// and Metrics Recorder, plus the sole active cancellation handle. No two
// sessions share mutable state.
type Session struct {
	ID        string
	logger    Logger
	cfg       Config
	transport OutboundSink

	normalizer  *Normalizer
	recognizer  Recognizer
	synthesizer Synthesizer
	responder   Responder
	metrics     *Metrics

	mu           sync.Mutex
	sm           *stateMachine
	cancel       *CancelToken
	audioEnabled bool
	history      []Message
	maxHistory   int
}

// SessionOptions bundles the owned components a Session is built from.
type SessionOptions struct {
	ID          string
	Transport   OutboundSink
	Recognizer  Recognizer
	Synthesizer Synthesizer
	Responder   Responder
	Metrics     *Metrics
	Logger      Logger
	Config      Config
	MaxHistory  int
}

// NewSession constructs a Session in state IDLE. It does not start audio
// processing — call Start for that.
func NewSession(opts SessionOptions) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = NoOpLogger{}
	}
	maxHistory := opts.MaxHistory
	if maxHistory <= 0 {
		maxHistory = 20
	}
	return &Session{
		ID:          opts.ID,
		logger:      logger,
		cfg:         opts.Config,
		transport:   opts.Transport,
		normalizer:  NewNormalizer(),
		recognizer:  opts.Recognizer,
		synthesizer: opts.Synthesizer,
		responder:   opts.Responder,
		metrics:     opts.Metrics,
		sm:          newStateMachine(logger),
		maxHistory:  maxHistory,
	}
}

// State returns the session's current state. Safe for concurrent use by
// the observability boundary while the session's owning goroutine drives
// the audio hot path.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sm.current
}

func (s *Session) record(name EventName, latencyMs int64, text string) {
	if s.metrics == nil {
		return
	}
	s.metrics.Record(Event{Name: name, Timestamp: time.Now(), LatencyMs: latencyMs, Text: text})
}

// Start transitions IDLE -> LISTENING and enables audio processing.
func (s *Session) Start() bool {
	s.mu.Lock()
	ok := s.sm.Transition(StateListening)
	if ok {
		s.audioEnabled = true
	}
	s.mu.Unlock()
	if ok {
		s.record(EventSessionStart, 0, "")
	}
	return ok
}

// Close aborts the active cancellation handle (if any), stops audio
// processing, and records a session-close event. Valid from any
// non-terminal state since every state transitions directly to IDLE.
func (s *Session) Close() {
	s.mu.Lock()
	s.audioEnabled = false
	if s.cancel != nil {
		s.cancel.Trip()
		s.cancel = nil
	}
	s.sm.Transition(StateIdle)
	s.mu.Unlock()
	s.record(EventSessionClose, 0, "")
}

// PushInbound normalizes an arbitrary-rate/channel PCM block and feeds the
// resulting frames to OnInboundFrame in order.
func (s *Session) PushInbound(ctx context.Context, chunk []byte, sourceRateHz, sourceChannels int) {
	frames := s.normalizer.Push(chunk, sourceRateHz, sourceChannels)
	for i := range frames {
		s.OnInboundFrame(ctx, &frames[i])
	}
}

// OnInboundFrame routes one normalized frame per §4.4: while SPEAKING it
// is only inspected for barge-in energy; while LISTENING it is forwarded
// to the Recognizer; in any other state it is dropped.
func (s *Session) OnInboundFrame(ctx context.Context, frame *Frame) {
	s.mu.Lock()
	enabled := s.audioEnabled
	state := s.sm.current
	s.mu.Unlock()
	if !enabled {
		return
	}

	switch state {
	case StateSpeaking:
		if s.recognizer.RMS(frame) > s.cfg.VoiceThreshold {
			s.bargeIn()
		}
	case StateListening:
		ev := s.recognizer.ProcessFrame(frame)
		if ev == nil {
			return
		}
		switch ev.Kind {
		case TranscriptPartial:
			s.record(EventSTTPartial, 0, ev.Text)
		case TranscriptFinal:
			s.record(EventSTTFinal, 0, ev.Text)
			s.mu.Lock()
			ok := s.sm.Transition(StateProcessing)
			s.mu.Unlock()
			if ok {
				go s.generateAndSpeak(ctx, ev.Text)
			}
		}
	default:
		// IDLE, PROCESSING, INTERRUPTED: drop.
	}
}

// generateAndSpeak formulates a reply, transitions PROCESSING -> SPEAKING,
// allocates a fresh cancellation handle, and drains the Synthesizer
// stream to the Transport Adapter. It runs on its own goroutine so that
// OnInboundFrame keeps observing inbound frames (for barge-in) while a
// reply is in flight, matching the suspension points named in the
// concurrency model.
func (s *Session) generateAndSpeak(ctx context.Context, transcript string) {
	s.mu.Lock()
	history := append([]Message(nil), s.history...)
	s.mu.Unlock()

	reply, err := s.responder.Respond(ctx, history, transcript)
	if err != nil {
		s.logger.Error("responder failed", "sessionID", s.ID, "error", err)
		s.mu.Lock()
		s.sm.Transition(StateListening)
		s.mu.Unlock()
		return
	}

	s.mu.Lock()
	s.history = append(s.history, Message{Role: "user", Content: transcript}, Message{Role: "assistant", Content: reply})
	if len(s.history) > s.maxHistory {
		s.history = s.history[len(s.history)-s.maxHistory:]
	}

	if !s.sm.Transition(StateSpeaking) {
		s.mu.Unlock()
		return
	}
	cancel := NewCancelToken()
	s.cancel = cancel
	s.mu.Unlock()

	s.record(EventTTSStart, 0, reply)

	stream, _ := s.synthesizer.Synthesize(reply, cancel)

	firstChunk := true
	start := time.Now()
	for {
		frame, ok := stream.Next(ctx)
		if !ok {
			break
		}
		if cancel.Tripped() {
			break
		}
		if firstChunk {
			s.record(EventTTSFirstChunk, time.Since(start).Milliseconds(), "")
			firstChunk = false
		}
		if s.transport != nil {
			if err := s.transport.SendFrame(ctx, frame); err != nil {
				s.logger.Warn("transport send failed", "sessionID", s.ID, "error", err)
			}
		}
	}

	s.mu.Lock()
	completedNormally := !cancel.Tripped() && s.sm.current == StateSpeaking
	if completedNormally {
		s.sm.Transition(StateListening)
		s.synthesizer.Reset()
	}
	if s.cancel == cancel {
		s.cancel = nil
	}
	s.mu.Unlock()

	if completedNormally {
		s.record(EventTTSComplete, 0, "")
	}
}

// bargeIn executes the eight-step procedure of §4.5 in strict order.
func (s *Session) bargeIn() {
	t0 := time.Now()

	s.mu.Lock()
	if !s.sm.Transition(StateInterrupted) {
		s.mu.Unlock()
		return
	}
	if s.cancel != nil {
		s.cancel.Trip()
	}
	s.synthesizer.Reset()
	s.sm.Transition(StateListening)
	s.recognizer.Reset()
	s.mu.Unlock()

	latency := time.Since(t0)
	s.record(EventBargeIn, latency.Milliseconds(), "")
	if latency > s.cfg.BargeInBudget {
		s.logger.Warn("barge-in exceeded latency budget", "sessionID", s.ID, "latencyMs", latency.Milliseconds())
	}
}

// MetricsRecorder exposes the session's recorder for the observability boundary.
func (s *Session) MetricsRecorder() *Metrics {
	return s.metrics
}
