package voice

import (
	"testing"
	"time"
)

func TestMetricsSummarizeAggregatesBargeInsAndSTT(t *testing.T) {
	m := NewMetrics("sess-1", nil, 10)
	m.Record(Event{Name: EventBargeIn, Timestamp: time.Now(), LatencyMs: 120})
	m.Record(Event{Name: EventBargeIn, Timestamp: time.Now(), LatencyMs: 340})
	m.Record(Event{Name: EventSTTFinal, Timestamp: time.Now(), LatencyMs: 80})
	m.Record(Event{Name: EventSTTFinal, Timestamp: time.Now(), LatencyMs: 120})
	m.Record(Event{Name: EventWebRTCConnected, Timestamp: time.Now(), LatencyMs: 500})

	s := m.Summarize()
	if s.SessionID != "sess-1" {
		t.Errorf("SessionID = %q, want sess-1", s.SessionID)
	}
	if s.MaxBargeInMs != 340 {
		t.Errorf("MaxBargeInMs = %d, want 340", s.MaxBargeInMs)
	}
	if len(s.BargeInLatencies) != 2 {
		t.Errorf("BargeInLatencies len = %d, want 2", len(s.BargeInLatencies))
	}
	if s.AvgSTTLatencyMs != 100 {
		t.Errorf("AvgSTTLatencyMs = %v, want 100", s.AvgSTTLatencyMs)
	}
	if s.ConnectTimeMs != 500 {
		t.Errorf("ConnectTimeMs = %d, want 500", s.ConnectTimeMs)
	}
	if s.TotalEvents != 5 {
		t.Errorf("TotalEvents = %d, want 5", s.TotalEvents)
	}
}

func TestMetricsEventLogIsBounded(t *testing.T) {
	m := NewMetrics("sess-2", nil, 3)
	for i := 0; i < 10; i++ {
		m.Record(Event{Name: EventSTTPartial, Timestamp: time.Now()})
	}
	if got := len(m.Events()); got != 3 {
		t.Fatalf("bounded event log len = %d, want 3", got)
	}
}

func TestNewMetersAcceptsNilMeter(t *testing.T) {
	if _, err := NewMeters(nil); err != nil {
		t.Fatalf("NewMeters(nil) should fall back to a noop meter, got error: %v", err)
	}
}
