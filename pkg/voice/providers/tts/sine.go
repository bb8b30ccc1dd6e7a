// Package tts provides Synthesizer implementations.
package tts

import (
	"context"
	"hash/fnv"
	"math"
	"time"

	"github.com/silvertone-audio/duplexvoice/pkg/voice"
)

// SineSynthesizer is the reference Synthesizer: it produces a sine wave at
// a frequency derived from a hash of the reply text. The exact waveform is
// unspecified by the contract — what's tested is frame count, frame size,
// sample rate, and cancellation responsiveness.
type SineSynthesizer struct {
	phase float64
}

// NewSineSynthesizer returns a Synthesizer with phase 0.
func NewSineSynthesizer() *SineSynthesizer {
	return &SineSynthesizer{}
}

func (s *SineSynthesizer) Name() string { return "sine" }

// Reset re-initializes the carried phase. Idempotent.
func (s *SineSynthesizer) Reset() {
	s.phase = 0
}

// frameCount implements ceil(max(2, words/3) * 1000 / 20).
func frameCount(text string) int {
	words := countWords(text)
	seconds := math.Max(2, float64(words)/3)
	durationMs := seconds * 1000
	return int(math.Ceil(durationMs / voice.FrameDurationMs))
}

func countWords(s string) int {
	n := 0
	inWord := false
	for _, r := range s {
		isSpace := r == ' ' || r == '\t' || r == '\n' || r == '\r'
		if !isSpace && !inWord {
			n++
			inWord = true
		} else if isSpace {
			inWord = false
		}
	}
	return n
}

// frequencyFor derives a stable audible tone from the reply text so
// repeated calls with the same text sound the same.
func frequencyFor(text string) float64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(text))
	// Spread across a comfortable 200-800Hz band.
	return 200 + float64(h.Sum32()%600)
}

// Synthesize begins producing frames for text. total is the frame count
// absent cancellation.
func (s *SineSynthesizer) Synthesize(text string, cancel *voice.CancelToken) (voice.FrameStream, int) {
	total := frameCount(text)
	freq := frequencyFor(text)
	return &sineStream{
		synth:  s,
		freq:   freq,
		total:  total,
		cancel: cancel,
	}, total
}

type sineStream struct {
	synth    *SineSynthesizer
	freq     float64
	total    int
	emitted  int
	cancel   *voice.CancelToken
	lastWake time.Time
}

// Next produces the next frame, pacing itself to real time and honoring
// cancellation at the frame boundary. Once the cancellation flag is
// tripped, the sequence terminates without emitting further frames and
// without error.
func (st *sineStream) Next(ctx context.Context) (voice.Frame, bool) {
	var zero voice.Frame
	if st.cancel != nil && st.cancel.Tripped() {
		return zero, false
	}
	if st.emitted >= st.total {
		return zero, false
	}

	if !st.lastWake.IsZero() {
		elapsed := time.Since(st.lastWake)
		wait := voice.FrameDurationMs*time.Millisecond - elapsed
		if wait > 0 {
			timer := time.NewTimer(wait)
			defer timer.Stop()
			var cancelDone <-chan struct{}
			if st.cancel != nil {
				cancelDone = st.cancel.Done()
			}
			select {
			case <-timer.C:
			case <-cancelDone:
				return zero, false
			case <-ctx.Done():
				return zero, false
			}
		}
	}
	st.lastWake = time.Now()

	if st.cancel != nil && st.cancel.Tripped() {
		return zero, false
	}

	var f voice.Frame
	for i := range f {
		t := float64(st.synth.phase+float64(i)) / voice.SampleRateHz
		f[i] = int16(8000 * math.Sin(2*math.Pi*st.freq*t))
	}
	st.synth.phase += voice.FrameSamples
	st.emitted++
	return f, true
}
