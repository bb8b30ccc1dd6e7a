package httpapi

import (
	"net/http"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/silvertone-audio/duplexvoice/pkg/transport"
	"github.com/silvertone-audio/duplexvoice/pkg/voice"
)

// NewRouter builds the process HTTP surface: session signaling, the
// media websocket, per-session metrics, the Prometheus exposition
// endpoint, and a liveness check.
func NewRouter(svc *Service, registry *voice.Registry) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Get("/healthz", healthHandler)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/ws", mediaWebsocketHandler(svc))
		r.Delete("/{id}", closeSessionHandler(svc))
		r.Get("/{id}/metrics", sessionMetricsHandler(registry))
	})

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	okJSON(w, map[string]string{"status": "ok"})
}

// mediaWebsocketHandler implements offer_received implicitly: accepting
// the websocket upgrade is this deployment's stand-in for the signaling
// exchange that precedes media (the SDP/ICE negotiation itself is
// delegated, per the external interfaces).
func mediaWebsocketHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, err := websocket.Accept(w, r, nil)
		if err != nil {
			badRequest(w, "websocket upgrade failed")
			return
		}
		_ = svc.ServeMediaWebsocket(r.Context(), ws)
	}
}

// closeSessionHandler implements close_received.
func closeSessionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		svc.DestroySession(id, transport.SignalCloseReceived)
		w.WriteHeader(http.StatusNoContent)
	}
}

// sessionMetricsHandler returns the per-session counters named in the
// observability surface, or a 404-equivalent when the session id is
// unknown.
func sessionMetricsHandler(registry *voice.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		sess, err := registry.Get(id)
		if err != nil {
			notFound(w, "session not found")
			return
		}
		rec := sess.MetricsRecorder()
		if rec == nil {
			okJSON(w, voice.Summary{SessionID: id})
			return
		}
		okJSON(w, rec.Summarize())
	}
}
