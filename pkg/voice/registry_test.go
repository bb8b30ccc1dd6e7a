package voice

import (
	"context"
	"testing"
	"time"
)

func TestRegistryAddGetRemove(t *testing.T) {
	r := NewRegistry()
	sess := newTestSession(t, &recordingSink{}, &stubResponder{reply: "ok"}, &slowSynth{interval: 5 * time.Millisecond})
	sess.ID = "sess-a"
	r.Add(sess)

	got, err := r.Get("sess-a")
	if err != nil || got != sess {
		t.Fatalf("Get(sess-a) = %v, %v; want sess, nil", got, err)
	}
	if r.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", r.Len())
	}

	r.Remove("sess-a")
	if _, err := r.Get("sess-a"); !IsError(err, ErrCodeSessionNotFound) {
		t.Fatalf("Get after Remove = %v, want ErrCodeSessionNotFound", err)
	}
	if r.Len() != 0 {
		t.Fatalf("Len() after Remove = %d, want 0", r.Len())
	}
}

func TestRegistryGetMissingIsSessionNotFound(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Get("nope"); !IsError(err, ErrCodeSessionNotFound) {
		t.Fatalf("Get(missing) = %v, want ErrCodeSessionNotFound", err)
	}
}

// TestSessionIsolation covers scenario 6: two sessions run independently;
// a barge-in on one does not affect the other's state, cancellation
// handle, or metrics.
func TestSessionIsolation(t *testing.T) {
	r := NewRegistry()

	sinkA := &recordingSink{}
	sessA := newTestSession(t, sinkA, &stubResponder{reply: "ok"}, &slowSynth{interval: 20 * time.Millisecond})
	sessA.ID = "sess-a"
	r.Add(sessA)

	sinkB := &recordingSink{}
	sessB := newTestSession(t, sinkB, &stubResponder{reply: "ok"}, &slowSynth{interval: 20 * time.Millisecond})
	sessB.ID = "sess-b"
	r.Add(sessB)

	ctx := context.Background()
	for _, sess := range []*Session{sessA, sessB} {
		for i := 0; i < 2; i++ {
			sess.OnInboundFrame(ctx, loudFrame())
		}
		sess.OnInboundFrame(ctx, silentFrame())
	}

	for _, sess := range []*Session{sessA, sessB} {
		deadline := time.After(time.Second)
		for sess.State() != StateSpeaking {
			select {
			case <-deadline:
				t.Fatalf("session %s never reached SPEAKING, stuck at %s", sess.ID, sess.State())
			case <-time.After(2 * time.Millisecond):
			}
		}
	}

	// Barge in on A only.
	sessA.OnInboundFrame(ctx, loudFrame())

	deadline := time.After(time.Second)
	for sessA.State() != StateListening {
		select {
		case <-deadline:
			t.Fatalf("sessA did not return to LISTENING after barge-in, stuck at %s", sessA.State())
		case <-time.After(2 * time.Millisecond):
		}
	}

	if sessB.State() != StateSpeaking {
		t.Fatalf("sessB state affected by sessA's barge-in: got %s, want SPEAKING", sessB.State())
	}

	sessB.mu.Lock()
	bCancelled := sessB.cancel != nil && sessB.cancel.Tripped()
	sessB.mu.Unlock()
	if bCancelled {
		t.Fatalf("sessB's cancellation handle was tripped by sessA's barge-in")
	}

	if got := sessB.MetricsRecorder().Summarize().TotalEvents; got == 0 {
		t.Fatalf("sessB metrics should be unaffected and non-empty, got TotalEvents=0")
	}
}
