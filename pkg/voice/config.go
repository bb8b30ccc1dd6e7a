package voice

import "time"

// Config bundles the tunables named throughout the component design.
// Built via DefaultConfig and the WithX options below, the same
// functional-options shape used for provider configuration.
type Config struct {
	VoiceThreshold   float64
	VoiceStartFrames int
	SilenceEndFrames int
	// PartialEveryFrames controls how often an additional Partial is
	// emitted while is_processing is true, in voiced-frame multiples.
	PartialEveryFrames int
	// BargeInBudget is the end-to-end latency budget a barge-in is warned
	// against if exceeded.
	BargeInBudget time.Duration
	// EventLogSize bounds the per-session observability event ring.
	EventLogSize int
}

// DefaultConfig returns the values named in the component design.
func DefaultConfig() Config {
	return Config{
		VoiceThreshold:     0.02,
		VoiceStartFrames:   25,
		SilenceEndFrames:   15,
		PartialEveryFrames: 10,
		BargeInBudget:      300 * time.Millisecond,
		EventLogSize:       256,
	}
}

// Option mutates a Config under construction.
type Option func(*Config)

// WithVoiceThreshold overrides the RMS threshold above which a frame is
// considered voiced.
func WithVoiceThreshold(v float64) Option {
	return func(c *Config) { c.VoiceThreshold = v }
}

// WithVoiceStartFrames overrides how many consecutive voiced frames start
// an utterance.
func WithVoiceStartFrames(n int) Option {
	return func(c *Config) { c.VoiceStartFrames = n }
}

// WithSilenceEndFrames overrides how many consecutive silent frames end an
// utterance.
func WithSilenceEndFrames(n int) Option {
	return func(c *Config) { c.SilenceEndFrames = n }
}

// WithPartialEveryFrames overrides the voiced-frame cadence of extra
// Partial emissions.
func WithPartialEveryFrames(n int) Option {
	return func(c *Config) { c.PartialEveryFrames = n }
}

// WithBargeInBudget overrides the latency budget barge-in is measured
// against.
func WithBargeInBudget(d time.Duration) Option {
	return func(c *Config) { c.BargeInBudget = d }
}

// WithEventLogSize overrides the per-session observability ring size.
func WithEventLogSize(n int) Option {
	return func(c *Config) { c.EventLogSize = n }
}

// NewConfig applies opts over DefaultConfig and validates the result.
func NewConfig(opts ...Option) (Config, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg, cfg.Validate()
}

// Validate checks the invariants the rest of the package assumes hold.
func (c Config) Validate() error {
	if c.VoiceThreshold <= 0 {
		return NewError("Config.Validate", ErrCodeInvalidConfig, "VoiceThreshold must be positive")
	}
	if c.VoiceStartFrames <= 0 {
		return NewError("Config.Validate", ErrCodeInvalidConfig, "VoiceStartFrames must be positive")
	}
	if c.SilenceEndFrames <= 0 {
		return NewError("Config.Validate", ErrCodeInvalidConfig, "SilenceEndFrames must be positive")
	}
	if c.PartialEveryFrames <= 0 {
		return NewError("Config.Validate", ErrCodeInvalidConfig, "PartialEveryFrames must be positive")
	}
	if c.EventLogSize <= 0 {
		return NewError("Config.Validate", ErrCodeInvalidConfig, "EventLogSize must be positive")
	}
	return nil
}
