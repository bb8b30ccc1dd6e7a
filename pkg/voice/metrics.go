package voice

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// EventName enumerates the named observability events produced by the
// core, per the external-interfaces observability surface.
type EventName string

const (
	EventSessionStart     EventName = "session_start"
	EventWebRTCConnected  EventName = "webrtc_connected"
	EventSTTPartial       EventName = "stt_partial"
	EventSTTFinal         EventName = "stt_final"
	EventTTSStart         EventName = "tts_start"
	EventTTSFirstChunk    EventName = "tts_first_chunk"
	EventTTSComplete      EventName = "tts_complete"
	EventBargeIn          EventName = "barge_in"
	EventSessionClose     EventName = "session_close"
	EventInvalidTransMsg  EventName = "invalid_transition"
	EventTransportFailure EventName = "transport_failed"
)

// Event is one timestamped observability record.
type Event struct {
	Name      EventName
	Timestamp time.Time
	LatencyMs int64
	Text      string
}

// Meters is the set of OpenTelemetry instruments shared by every Metrics
// instance in a process, built once by NewMeters and passed to each
// session's Metrics.
type Meters struct {
	eventCounter    metric.Int64Counter
	bargeInHist     metric.Float64Histogram
	sttLatencyHist  metric.Float64Histogram
	connectTimeHist metric.Float64Histogram
}

// NewMeters builds the process-wide instrument set from an otel Meter. A
// noop Meter is accepted for tests and for processes not wiring a real
// metrics exporter.
func NewMeters(meter metric.Meter) (*Meters, error) {
	if meter == nil {
		meter = noop.NewMeterProvider().Meter("voice")
	}
	eventCounter, err := meter.Int64Counter("voice.session.events",
		metric.WithDescription("count of observability events emitted by voice sessions"))
	if err != nil {
		return nil, WrapError("NewMeters", ErrCodeInvalidConfig, "building event counter", err)
	}
	bargeInHist, err := meter.Float64Histogram("voice.session.barge_in_latency_ms",
		metric.WithDescription("barge-in end-to-end latency in milliseconds"))
	if err != nil {
		return nil, WrapError("NewMeters", ErrCodeInvalidConfig, "building barge-in histogram", err)
	}
	sttLatencyHist, err := meter.Float64Histogram("voice.session.stt_latency_ms",
		metric.WithDescription("speech-to-text finalization latency in milliseconds"))
	if err != nil {
		return nil, WrapError("NewMeters", ErrCodeInvalidConfig, "building STT latency histogram", err)
	}
	connectTimeHist, err := meter.Float64Histogram("voice.session.connect_time_ms",
		metric.WithDescription("time to negotiate the transport connection in milliseconds"))
	if err != nil {
		return nil, WrapError("NewMeters", ErrCodeInvalidConfig, "building connect time histogram", err)
	}
	return &Meters{
		eventCounter:    eventCounter,
		bargeInHist:     bargeInHist,
		sttLatencyHist:  sttLatencyHist,
		connectTimeHist: connectTimeHist,
	}, nil
}

// Metrics time-stamps protocol events for one session. It appends to a
// bounded per-session log and mirrors select events into the process-wide
// otel instruments; it is never shared across sessions.
type Metrics struct {
	mu            sync.Mutex
	sessionID     string
	meters        *Meters
	log           []Event
	maxLen        int
	totalEvents   int
	bargeIns      []int64
	sttLatencies  []int64
	connectTimeMs int64
}

// NewMetrics builds a Metrics recorder for one session.
func NewMetrics(sessionID string, meters *Meters, maxLen int) *Metrics {
	if maxLen <= 0 {
		maxLen = 256
	}
	return &Metrics{sessionID: sessionID, meters: meters, maxLen: maxLen}
}

// Record appends ev to the session log and mirrors it into otel.
func (m *Metrics) Record(ev Event) {
	m.mu.Lock()
	m.log = append(m.log, ev)
	m.totalEvents++
	if len(m.log) > m.maxLen {
		m.log = m.log[len(m.log)-m.maxLen:]
	}
	switch ev.Name {
	case EventBargeIn:
		m.bargeIns = append(m.bargeIns, ev.LatencyMs)
	case EventSTTFinal:
		if ev.LatencyMs > 0 {
			m.sttLatencies = append(m.sttLatencies, ev.LatencyMs)
		}
	case EventWebRTCConnected:
		m.connectTimeMs = ev.LatencyMs
	}
	m.mu.Unlock()

	if m.meters == nil {
		return
	}
	ctx := context.Background()
	m.meters.eventCounter.Add(ctx, 1, metric.WithAttributes())
	switch ev.Name {
	case EventBargeIn:
		m.meters.bargeInHist.Record(ctx, float64(ev.LatencyMs))
	case EventSTTFinal:
		if ev.LatencyMs > 0 {
			m.meters.sttLatencyHist.Record(ctx, float64(ev.LatencyMs))
		}
	case EventWebRTCConnected:
		m.meters.connectTimeHist.Record(ctx, float64(ev.LatencyMs))
	}
}

// Summary is the aggregate the metrics endpoint returns for one session.
type Summary struct {
	SessionID        string  `json:"session_id"`
	ConnectTimeMs    int64   `json:"connect_time_ms"`
	AvgSTTLatencyMs  float64 `json:"avg_stt_latency_ms"`
	BargeInLatencies []int64 `json:"barge_in_latencies_ms"`
	MaxBargeInMs     int64   `json:"max_barge_in_ms"`
	TotalEvents      int     `json:"total_events"`
}

// Summarize computes the aggregate counters named in the external
// interfaces: WebRTC connect time, average STT latency, the per-barge-in
// latency list with its max, and the total event count.
func (m *Metrics) Summarize() Summary {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Summary{
		SessionID:     m.sessionID,
		ConnectTimeMs: m.connectTimeMs,
		TotalEvents:   m.totalEvents,
	}
	if len(m.sttLatencies) > 0 {
		var sum int64
		for _, v := range m.sttLatencies {
			sum += v
		}
		s.AvgSTTLatencyMs = float64(sum) / float64(len(m.sttLatencies))
	}
	s.BargeInLatencies = append(s.BargeInLatencies, m.bargeIns...)
	for _, v := range m.bargeIns {
		if v > s.MaxBargeInMs {
			s.MaxBargeInMs = v
		}
	}
	return s
}

// Events returns a copy of the bounded event log, newest last.
func (m *Metrics) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.log))
	copy(out, m.log)
	return out
}
