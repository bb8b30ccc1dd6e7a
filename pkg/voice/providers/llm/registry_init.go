package llm

import (
	"github.com/silvertone-audio/duplexvoice/pkg/voice"
	"github.com/silvertone-audio/duplexvoice/pkg/voice/providers"
)

// init registers the built-in Responder implementations with the global
// provider registry.
func init() {
	registry := providers.GetRegistry()

	registry.Register("trivial", func(settings map[string]string) (voice.Responder, error) {
		return NewTrivialResponder(), nil
	})

	registry.Register("openai", func(settings map[string]string) (voice.Responder, error) {
		apiKey := settings["api_key"]
		if apiKey == "" {
			return nil, voice.NewError("llm.openai factory", voice.ErrCodeInvalidConfig, "api_key is required")
		}
		return NewOpenAIResponder(apiKey, settings["model"], settings["system_prompt"]), nil
	})
}
