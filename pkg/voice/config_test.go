package voice

import "testing"

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig() failed validation: %v", err)
	}
}

func TestNewConfigAppliesOptions(t *testing.T) {
	cfg, err := NewConfig(WithVoiceThreshold(0.1), WithVoiceStartFrames(5))
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	if cfg.VoiceThreshold != 0.1 || cfg.VoiceStartFrames != 5 {
		t.Fatalf("options not applied: %+v", cfg)
	}
}

func TestConfigValidateRejectsNonPositiveFields(t *testing.T) {
	cases := []Config{
		{VoiceThreshold: 0, VoiceStartFrames: 1, SilenceEndFrames: 1, PartialEveryFrames: 1, EventLogSize: 1},
		{VoiceThreshold: 1, VoiceStartFrames: 0, SilenceEndFrames: 1, PartialEveryFrames: 1, EventLogSize: 1},
		{VoiceThreshold: 1, VoiceStartFrames: 1, SilenceEndFrames: 0, PartialEveryFrames: 1, EventLogSize: 1},
		{VoiceThreshold: 1, VoiceStartFrames: 1, SilenceEndFrames: 1, PartialEveryFrames: 0, EventLogSize: 1},
		{VoiceThreshold: 1, VoiceStartFrames: 1, SilenceEndFrames: 1, PartialEveryFrames: 1, EventLogSize: 0},
	}
	for i, c := range cases {
		if err := c.Validate(); err == nil {
			t.Errorf("case %d: expected validation error, got nil for %+v", i, c)
		}
	}
}
