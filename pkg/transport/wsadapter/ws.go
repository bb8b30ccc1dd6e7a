// Package wsadapter carries session media over a plain websocket:
// binary frames are raw inbound PCM from the peer or outbound synthesized
// PCM to the peer; a small JSON control message on connect announces the
// source sample rate and channel count.
package wsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/coder/websocket"

	"github.com/silvertone-audio/duplexvoice/pkg/voice"
)

// handshake is the first text message a peer sends after the websocket
// upgrade, announcing the PCM shape it will deliver.
type handshake struct {
	SourceRateHz   int `json:"source_rate_hz"`
	SourceChannels int `json:"source_channels"`
}

// Conn wraps one peer's websocket connection, feeding inbound PCM into a
// voice.Session and exposing a MediaSink for outbound frames.
type Conn struct {
	ws      *websocket.Conn
	session *voice.Session
	logger  voice.Logger

	mu             sync.Mutex
	sourceRateHz   int
	sourceChannels int
}

// Accept performs the handshake read and returns a Conn ready to Serve.
func Accept(ctx context.Context, ws *websocket.Conn, session *voice.Session, logger voice.Logger) (*Conn, error) {
	if logger == nil {
		logger = voice.NoOpLogger{}
	}
	c := &Conn{ws: ws, session: session, logger: logger, sourceRateHz: 48000, sourceChannels: 1}

	_, payload, err := ws.Read(ctx)
	if err != nil {
		return nil, voice.WrapError("wsadapter.Accept", voice.ErrCodeTransportFatal, "reading handshake", err)
	}
	var hs handshake
	if err := json.Unmarshal(payload, &hs); err == nil && hs.SourceRateHz > 0 {
		c.mu.Lock()
		c.sourceRateHz = hs.SourceRateHz
		if hs.SourceChannels > 0 {
			c.sourceChannels = hs.SourceChannels
		}
		c.mu.Unlock()
	}
	return c, nil
}

// Serve reads binary PCM messages until ctx is cancelled or the peer
// closes, pushing each into the session. A persistent read failure is a
// transport-level fatal condition and tears the session down.
func (c *Conn) Serve(ctx context.Context, lifecycleClose func()) {
	defer lifecycleClose()
	for {
		msgType, payload, err := c.ws.Read(ctx)
		if err != nil {
			c.logger.Warn("websocket read failed, closing session", "error", err)
			return
		}
		if msgType != websocket.MessageBinary {
			continue
		}
		c.mu.Lock()
		rate, channels := c.sourceRateHz, c.sourceChannels
		c.mu.Unlock()
		c.session.PushInbound(ctx, payload, rate, channels)
	}
}

// WriteSamples implements transport.MediaSink by writing a binary
// websocket message of little-endian S16LE samples.
func (c *Conn) WriteSamples(ctx context.Context, samples []int16, sampleRateHz int) error {
	buf := make([]byte, len(samples)*2)
	for i, s := range samples {
		buf[2*i] = byte(uint16(s))
		buf[2*i+1] = byte(uint16(s) >> 8)
	}
	if err := c.ws.Write(ctx, websocket.MessageBinary, buf); err != nil {
		return voice.WrapError("Conn.WriteSamples", voice.ErrCodeTransportSend, fmt.Sprintf("writing %d samples", len(samples)), err)
	}
	return nil
}

// Close closes the underlying websocket with a normal closure status.
func (c *Conn) Close() error {
	return c.ws.Close(websocket.StatusNormalClosure, "session closed")
}
