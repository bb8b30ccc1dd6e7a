package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/silvertone-audio/duplexvoice/pkg/voice"
)

// DeepgramProvider is an optional batch transcription backend for the
// pre-recorded/export path (e.g. transcribing a captured utterance for
// debugging or an offline accuracy check). It is not wired as the
// session's streaming TextSource — the core's recognizer contract is the
// VAD gating, not the model behind it — but shares the provider shape so
// either can be swapped without touching voice.Session.
type DeepgramProvider struct {
	apiKey string
	url    string
	client *http.Client
}

// NewDeepgramProvider builds a batch transcription client.
func NewDeepgramProvider(apiKey string) *DeepgramProvider {
	return &DeepgramProvider{
		apiKey: apiKey,
		url:    "https://api.deepgram.com/v1/listen",
		client: http.DefaultClient,
	}
}

func (s *DeepgramProvider) Name() string { return "deepgram" }

// TranscribeUtterance sends raw 16kHz mono S16LE PCM and returns the best
// transcript alternative.
func (s *DeepgramProvider) TranscribeUtterance(ctx context.Context, pcm []byte) (string, error) {
	u, err := url.Parse(s.url)
	if err != nil {
		return "", voice.WrapError("DeepgramProvider.TranscribeUtterance", voice.ErrCodeResponderFailed, "parsing endpoint", err)
	}
	params := u.Query()
	params.Set("model", "nova-2")
	params.Set("smart_format", "true")
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(pcm))
	if err != nil {
		return "", voice.WrapError("DeepgramProvider.TranscribeUtterance", voice.ErrCodeResponderFailed, "building request", err)
	}
	req.Header.Set("Authorization", "Token "+s.apiKey)
	req.Header.Set("Content-Type", fmt.Sprintf("audio/l16; rate=%d; channels=1", voice.SampleRateHz))

	resp, err := s.client.Do(req)
	if err != nil {
		return "", voice.WrapError("DeepgramProvider.TranscribeUtterance", voice.ErrCodeResponderFailed, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", voice.NewError("DeepgramProvider.TranscribeUtterance", voice.ErrCodeResponderFailed, fmt.Sprintf("deepgram status %d: %s", resp.StatusCode, body))
	}

	var result struct {
		Results struct {
			Channels []struct {
				Alternatives []struct {
					Transcript string `json:"transcript"`
				} `json:"alternatives"`
			} `json:"channels"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", voice.WrapError("DeepgramProvider.TranscribeUtterance", voice.ErrCodeResponderFailed, "decoding response", err)
	}
	if len(result.Results.Channels) == 0 || len(result.Results.Channels[0].Alternatives) == 0 {
		return "", nil
	}
	return result.Results.Channels[0].Alternatives[0].Transcript, nil
}
