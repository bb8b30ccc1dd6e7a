package llm

import (
	"context"

	"github.com/sashabaranov/go-openai"
	"github.com/silvertone-audio/duplexvoice/pkg/voice"
)

// OpenAIResponder is an optional Responder backed by a real chat model,
// reachable from the provider registry for deployments that want genuine
// replies instead of the trivial default policy.
type OpenAIResponder struct {
	client *openai.Client
	model  string
	system string
}

// NewOpenAIResponder builds a Responder against the given API key. model
// defaults to gpt-4o-mini when empty.
func NewOpenAIResponder(apiKey, model, systemPrompt string) *OpenAIResponder {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIResponder{
		client: openai.NewClient(apiKey),
		model:  model,
		system: systemPrompt,
	}
}

func (r *OpenAIResponder) Name() string { return "openai" }

// Respond turns the session history plus the new transcript into a chat
// completion request and returns the model's reply text.
func (r *OpenAIResponder) Respond(ctx context.Context, history []voice.Message, transcript string) (string, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	if r.system != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: r.system})
	}
	for _, m := range history {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}
	msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: transcript})

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    r.model,
		Messages: msgs,
	})
	if err != nil {
		return "", voice.WrapError("OpenAIResponder.Respond", voice.ErrCodeResponderFailed, "chat completion request failed", err)
	}
	if len(resp.Choices) == 0 {
		return "", voice.NewError("OpenAIResponder.Respond", voice.ErrCodeResponderFailed, "no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}
