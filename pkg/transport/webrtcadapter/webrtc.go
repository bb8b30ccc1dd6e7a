// Package webrtcadapter carries session media over a pion/webrtc peer
// connection. RTP/Opus packetization is explicitly out of scope per the
// core's transport boundary (the ICE/RTP/Opus stack is an external
// collaborator); this adapter instead carries raw PCM over an ordered,
// reliable DataChannel, giving callers real SDP offer/answer negotiation
// and ICE connect timing without requiring a media codec pipeline.
package webrtcadapter

import (
	"context"
	"sync"
	"time"

	"github.com/pion/webrtc/v4"

	"github.com/silvertone-audio/duplexvoice/pkg/voice"
)

// Conn wraps one peer connection, feeding inbound PCM (received on the
// data channel) into a voice.Session and exposing a MediaSink for
// outbound frames.
type Conn struct {
	pc      *webrtc.PeerConnection
	dc      *webrtc.DataChannel
	session *voice.Session
	logger  voice.Logger

	connectStart time.Time

	mu        sync.Mutex
	connected bool
}

// NewConn builds a peer connection with a single ordered "pcm" data
// channel and wires its message handler to session.PushInbound. The
// caller drives SDP negotiation via CreateOffer/SetRemoteDescription on
// the returned Conn's PeerConnection().
func NewConn(session *voice.Session, logger voice.Logger, onConnected func(connectTimeMs int64)) (*Conn, error) {
	if logger == nil {
		logger = voice.NoOpLogger{}
	}

	pc, err := webrtc.NewPeerConnection(webrtc.Configuration{
		ICEServers: []webrtc.ICEServer{{URLs: []string{"stun:stun.l.google.com:19302"}}},
	})
	if err != nil {
		return nil, voice.WrapError("webrtcadapter.NewConn", voice.ErrCodeTransportFatal, "creating peer connection", err)
	}

	ordered := true
	dc, err := pc.CreateDataChannel("pcm", &webrtc.DataChannelInit{Ordered: &ordered})
	if err != nil {
		_ = pc.Close()
		return nil, voice.WrapError("webrtcadapter.NewConn", voice.ErrCodeTransportFatal, "creating data channel", err)
	}

	c := &Conn{pc: pc, dc: dc, session: session, logger: logger, connectStart: time.Now()}

	dc.OnMessage(func(msg webrtc.DataChannelMessage) {
		if msg.IsString {
			return
		}
		// Source PCM over the data channel is assumed pre-negotiated at
		// 48kHz mono, the common case named in the external interfaces.
		c.session.PushInbound(context.Background(), msg.Data, 48000, 1)
	})

	pc.OnConnectionStateChange(func(state webrtc.PeerConnectionState) {
		if state == webrtc.PeerConnectionStateConnected {
			c.mu.Lock()
			already := c.connected
			c.connected = true
			c.mu.Unlock()
			if !already && onConnected != nil {
				onConnected(time.Since(c.connectStart).Milliseconds())
			}
		}
		if state == webrtc.PeerConnectionStateFailed || state == webrtc.PeerConnectionStateClosed {
			c.logger.Warn("webrtc connection entered terminal state", "state", state.String())
		}
	})

	return c, nil
}

// PeerConnection exposes the underlying pion connection for SDP
// negotiation, which stays entirely outside the core per the transport
// boundary.
func (c *Conn) PeerConnection() *webrtc.PeerConnection {
	return c.pc
}

// WriteSamples implements transport.MediaSink by sending little-endian
// S16LE samples as a binary data-channel message.
func (c *Conn) WriteSamples(ctx context.Context, samples []int16, sampleRateHz int) error {
	buf := make([]byte, len(samples)*2)
	for i, s := range samples {
		buf[2*i] = byte(uint16(s))
		buf[2*i+1] = byte(uint16(s) >> 8)
	}
	if err := c.dc.Send(buf); err != nil {
		return voice.WrapError("Conn.WriteSamples", voice.ErrCodeTransportSend, "sending data channel message", err)
	}
	return nil
}

// Close tears down the peer connection.
func (c *Conn) Close() error {
	return c.pc.Close()
}
