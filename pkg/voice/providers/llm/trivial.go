// Package llm provides voice.Responder implementations.
package llm

import (
	"context"
	"strings"

	"github.com/silvertone-audio/duplexvoice/pkg/voice"
)

// TrivialResponder implements the reference Responder policy: a small set
// of keyword-triggered canned replies with a generic fallback. The
// contract that matters to callers is the shape (one string in, one
// string out, context-cancellable), not the reply quality.
type TrivialResponder struct {
	fallback string
	rules    []rule
}

type rule struct {
	keyword string
	reply   string
}

// NewTrivialResponder builds the default policy.
func NewTrivialResponder() *TrivialResponder {
	return &TrivialResponder{
		fallback: "I heard you, but I'm not sure how to respond to that yet.",
		rules: []rule{
			{"weather", "I don't have live weather data, but it looks clear from here."},
			{"timer", "I've made a mental note, though I can't actually start a timer yet."},
			{"time", "I can't see a clock, but it's probably a good time to keep going."},
			{"joke", "Why did the PCM frame cross the buffer? To get to the other sample rate."},
			{"music", "I'd play something if I had speakers wired up."},
		},
	}
}

func (r *TrivialResponder) Name() string { return "trivial" }

// Respond returns the first rule whose keyword appears in transcript,
// case-insensitively, or the fallback reply otherwise.
func (r *TrivialResponder) Respond(ctx context.Context, history []voice.Message, transcript string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", voice.WrapError("TrivialResponder.Respond", voice.ErrCodeResponderFailed, "context cancelled", err)
	}
	lower := strings.ToLower(transcript)
	for _, rl := range r.rules {
		if strings.Contains(lower, rl.keyword) {
			return rl.reply, nil
		}
	}
	return r.fallback, nil
}
