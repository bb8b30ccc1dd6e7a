package tts

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/silvertone-audio/duplexvoice/pkg/voice"
)

// RemoteSynthesizer is an alternate voice.Synthesizer that streams PCM from
// a remote websocket TTS service rather than generating it locally. Binary
// frames arriving off the wire are resliced into fixed FrameBytes chunks so
// the rest of the pipeline sees the same 20ms/16kHz/mono shape regardless
// of which Synthesizer produced it.
type RemoteSynthesizer struct {
	apiKey string
	host   string

	mu   sync.Mutex
	conn *websocket.Conn
}

// NewRemoteSynthesizer builds a Synthesizer against a remote host,
// authenticated with apiKey.
func NewRemoteSynthesizer(apiKey, host string) *RemoteSynthesizer {
	return &RemoteSynthesizer{apiKey: apiKey, host: host}
}

func (s *RemoteSynthesizer) Name() string { return "ws-remote" }

// Reset closes the held connection; it is reopened lazily on next use. The
// remote service has no local phase/state to rewind.
func (s *RemoteSynthesizer) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		s.conn.Close(websocket.StatusNormalClosure, "")
		s.conn = nil
	}
}

func (s *RemoteSynthesizer) getConn(ctx context.Context) (*websocket.Conn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		return s.conn, nil
	}
	u := url.URL{Scheme: "wss", Host: s.host, Path: "/ws", RawQuery: "api_key=" + s.apiKey}
	conn, _, err := websocket.Dial(ctx, u.String(), nil)
	if err != nil {
		return nil, voice.WrapError("RemoteSynthesizer.getConn", voice.ErrCodeResponderFailed, "dialing remote synthesizer", err)
	}
	s.conn = conn
	return conn, nil
}

// Synthesize requests synthesis of text and returns a stream that yields
// frames as binary payloads arrive. total is an estimate per the same
// frameCount law the local synthesizer uses, since the remote service does
// not report a length up front.
func (s *RemoteSynthesizer) Synthesize(text string, cancel *voice.CancelToken) (voice.FrameStream, int) {
	total := frameCount(text)
	return &remoteStream{synth: s, text: text, cancel: cancel}, total
}

type remoteStream struct {
	synth   *RemoteSynthesizer
	text    string
	cancel  *voice.CancelToken
	started bool
	residue []byte
	done    bool
}

func (rs *remoteStream) Next(ctx context.Context) (voice.Frame, bool) {
	var zero voice.Frame
	if rs.cancel != nil && rs.cancel.Tripped() {
		return zero, false
	}
	if rs.done {
		return zero, false
	}

	if !rs.started {
		rs.started = true
		if err := rs.beginRequest(ctx); err != nil {
			rs.done = true
			return zero, false
		}
	}

	for len(rs.residue) < voice.FrameBytes {
		chunk, eos, err := rs.readChunk(ctx)
		if err != nil || eos {
			rs.done = true
			if len(rs.residue) == 0 {
				return zero, false
			}
			break
		}
		rs.residue = append(rs.residue, chunk...)
	}

	if len(rs.residue) < voice.FrameBytes {
		// Trailing partial frame shorter than FrameBytes: drop it, mirroring
		// the Normalizer's odd-byte-tail discipline rather than padding with
		// synthetic silence.
		return zero, false
	}

	var f voice.Frame
	for i := 0; i < voice.FrameSamples; i++ {
		lo := rs.residue[2*i]
		hi := rs.residue[2*i+1]
		f[i] = int16(uint16(lo) | uint16(hi)<<8)
	}
	rs.residue = rs.residue[voice.FrameBytes:]
	return f, true
}

func (rs *remoteStream) beginRequest(ctx context.Context) error {
	conn, err := rs.synth.getConn(ctx)
	if err != nil {
		return err
	}
	req := map[string]any{"text": rs.text, "version": "duplexvoice-1"}
	if err := wsjson.Write(ctx, conn, req); err != nil {
		rs.synth.mu.Lock()
		rs.synth.conn = nil
		rs.synth.mu.Unlock()
		return fmt.Errorf("sending synthesis request: %w", err)
	}
	return nil
}

func (rs *remoteStream) readChunk(ctx context.Context) (chunk []byte, eos bool, err error) {
	conn, err := rs.synth.getConn(ctx)
	if err != nil {
		return nil, false, err
	}
	msgType, payload, err := conn.Read(ctx)
	if err != nil {
		rs.synth.mu.Lock()
		rs.synth.conn = nil
		rs.synth.mu.Unlock()
		return nil, false, err
	}
	switch msgType {
	case websocket.MessageBinary:
		return payload, false, nil
	case websocket.MessageText:
		if string(payload) == "EOS" {
			return nil, true, nil
		}
		return nil, false, nil
	default:
		return nil, false, nil
	}
}
