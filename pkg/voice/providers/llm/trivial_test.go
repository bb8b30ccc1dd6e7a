package llm

import (
	"context"
	"strings"
	"testing"
)

func TestTrivialResponderKeywordMatches(t *testing.T) {
	r := NewTrivialResponder()
	cases := []struct {
		transcript string
		wantSubstr string
	}{
		{"what's the weather like today", "weather"},
		{"can you set a timer for five minutes", "timer"},
		{"tell me a joke", ""},
	}
	for _, tc := range cases {
		reply, err := r.Respond(context.Background(), nil, tc.transcript)
		if err != nil {
			t.Fatalf("Respond(%q): %v", tc.transcript, err)
		}
		if reply == "" {
			t.Errorf("Respond(%q) returned empty reply", tc.transcript)
		}
		if tc.wantSubstr != "" && !strings.Contains(strings.ToLower(reply), tc.wantSubstr) {
			t.Errorf("Respond(%q) = %q, want it to mention %q", tc.transcript, reply, tc.wantSubstr)
		}
	}
}

func TestTrivialResponderFallsBackOnUnmatchedInput(t *testing.T) {
	r := NewTrivialResponder()
	reply, err := r.Respond(context.Background(), nil, "completely unrelated gibberish xyz")
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if reply == "" {
		t.Fatalf("expected a non-empty fallback reply")
	}
}

func TestTrivialResponderRespectsCancellation(t *testing.T) {
	r := NewTrivialResponder()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Respond(ctx, nil, "hello"); err == nil {
		t.Fatalf("expected an error for an already-cancelled context")
	}
}
