package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/silvertone-audio/duplexvoice/pkg/voice"
)

func TestHealthzReturnsOK(t *testing.T) {
	registry := voice.NewRegistry()
	svc := NewService(registry, func(id string, sink voice.OutboundSink) *voice.Session {
		return voice.NewSession(voice.SessionOptions{ID: id, Transport: sink, Config: voice.DefaultConfig()})
	}, nil)
	router := NewRouter(svc, registry)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestSessionMetricsUnknownIDReturnsNotFound(t *testing.T) {
	registry := voice.NewRegistry()
	svc := NewService(registry, func(id string, sink voice.OutboundSink) *voice.Session {
		return voice.NewSession(voice.SessionOptions{ID: id, Transport: sink, Config: voice.DefaultConfig()})
	}, nil)
	router := NewRouter(svc, registry)

	req := httptest.NewRequest(http.MethodGet, "/sessions/does-not-exist/metrics", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSessionMetricsKnownIDReturnsSummary(t *testing.T) {
	registry := voice.NewRegistry()
	sess := voice.NewSession(voice.SessionOptions{
		ID:      "sess-1",
		Metrics: voice.NewMetrics("sess-1", nil, 16),
		Config:  voice.DefaultConfig(),
	})
	registry.Add(sess)

	svc := NewService(registry, func(id string, sink voice.OutboundSink) *voice.Session { return sess }, nil)
	router := NewRouter(svc, registry)

	req := httptest.NewRequest(http.MethodGet, "/sessions/sess-1/metrics", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "sess-1")
}

func TestDestroySessionRemovesFromRegistry(t *testing.T) {
	registry := voice.NewRegistry()
	sess := voice.NewSession(voice.SessionOptions{ID: "sess-2", Config: voice.DefaultConfig()})
	registry.Add(sess)

	svc := NewService(registry, func(id string, sink voice.OutboundSink) *voice.Session { return sess }, nil)
	router := NewRouter(svc, registry)

	req := httptest.NewRequest(http.MethodDelete, "/sessions/sess-2", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	_, err := registry.Get("sess-2")
	assert.Error(t, err)
}
