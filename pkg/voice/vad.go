package voice

import "math"

// RMS computes root-mean-square over samples normalized to [-1, 1].
// Exported because the Session Controller also uses it for barge-in
// detection while SPEAKING.
func RMS(f *Frame) float64 {
	var sum float64
	for _, s := range f {
		v := float64(s) / 32768.0
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(f)))
}

// DefaultRecognizer implements the VAD-gated Partial/Final contract of
// §4.2: a frame is voiced when its RMS exceeds VoiceThreshold; an
// utterance starts once VoiceStartFrames consecutive voiced frames have
// been seen, and ends once SilenceEndFrames consecutive silent frames
// follow. Transcript text itself is produced by a pluggable TextSource —
// the gating logic here is the contract implementers are held to, not the
// model behind it.
type DefaultRecognizer struct {
	cfg    Config
	text   TextSource
	voiced int
	silent int
	active bool
}

// TextSource supplies transcript text on demand. The reference
// implementation is a deterministic round-robin over canned strings,
// independent of audio content — only the gating contract matters.
type TextSource interface {
	// Partial returns the cumulative-prefix text for the in-progress
	// utterance at voicedFrames voiced frames seen so far.
	Partial(voicedFrames int) string
	// Final returns the terminal text for the utterance and advances the
	// source to the next utterance.
	Final() string
}

// NewDefaultRecognizer builds a recognizer gated by cfg and backed by src.
func NewDefaultRecognizer(cfg Config, src TextSource) *DefaultRecognizer {
	return &DefaultRecognizer{cfg: cfg, text: src}
}

func (r *DefaultRecognizer) RMS(f *Frame) float64 {
	return RMS(f)
}

func (r *DefaultRecognizer) ProcessFrame(f *Frame) *TranscriptEvent {
	voiced := RMS(f) > r.cfg.VoiceThreshold

	if voiced {
		r.voiced++
		r.silent = 0

		if !r.active {
			if r.voiced >= r.cfg.VoiceStartFrames {
				r.active = true
				return &TranscriptEvent{Kind: TranscriptPartial, Text: r.text.Partial(r.voiced)}
			}
			return nil
		}

		if r.voiced%r.cfg.PartialEveryFrames == 0 {
			return &TranscriptEvent{Kind: TranscriptPartial, Text: r.text.Partial(r.voiced)}
		}
		return nil
	}

	// silent frame
	if !r.active {
		return nil
	}

	r.silent++
	if r.silent >= r.cfg.SilenceEndFrames {
		final := &TranscriptEvent{Kind: TranscriptFinal, Text: r.text.Final()}
		r.Reset()
		return final
	}
	return nil
}

// Reset zeroes the voiced/silence counters and clears is_processing. Per
// the invariant in §3, this happens exactly on state exit from LISTENING
// or explicit reset after INTERRUPTED — callers (the Controller) are
// responsible for invoking it at those points, not on every silent frame.
func (r *DefaultRecognizer) Reset() {
	r.voiced = 0
	r.silent = 0
	r.active = false
}
