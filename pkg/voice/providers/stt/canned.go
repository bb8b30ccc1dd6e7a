// Package stt provides voice.TextSource implementations consumed by
// voice.DefaultRecognizer, plus an optional HTTP-backed provider for
// swap-in testing against a real transcription service.
package stt

import "sync"

// cannedUtterances are the deterministic round-robin strings the
// reference recognizer returns, independent of the actual audio. The
// gating contract (VAD-gated Partial/Final emission) is what matters to
// implementers; the text content here is demo-only.
var cannedUtterances = []string{
	"what's the weather like today",
	"can you set a timer for five minutes",
	"play some music",
	"what time is it",
	"tell me a joke",
}

// RoundRobinSource cycles deterministically through a fixed list of
// canned strings, one per utterance.
type RoundRobinSource struct {
	mu      sync.Mutex
	phrases []string
	next    int
}

// NewRoundRobinSource builds a source over phrases, or the built-in
// canned list if phrases is empty.
func NewRoundRobinSource(phrases []string) *RoundRobinSource {
	if len(phrases) == 0 {
		phrases = cannedUtterances
	}
	return &RoundRobinSource{phrases: phrases}
}

// Partial returns the first voicedFrames bytes of the current utterance's
// target text (the whole text once voicedFrames exceeds its length), never
// shrinking within the utterance.
func (r *RoundRobinSource) Partial(voicedFrames int) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	full := r.phrases[r.next%len(r.phrases)]
	// Scale the visible prefix length with voicedFrames so successive
	// partials within one utterance are non-strictly-growing.
	cut := voicedFrames
	if cut > len(full) {
		cut = len(full)
	}
	return full[:cut]
}

// Final returns the terminal text and advances to the next utterance.
func (r *RoundRobinSource) Final() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	full := r.phrases[r.next%len(r.phrases)]
	r.next++
	return full
}
