// Package transport adapts wire-level carriers (currently WebSocket)
// to the io.Reader/io.Writer pair internal/packets expects, and wraps
// packet sends with metrics recording. The session core itself never
// imports this package: per spec §1 transport is an external
// collaborator, wired in by whatever process owns the listener.
package transport

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/clsys/mqsession/internal/metrics"
	"github.com/clsys/mqsession/internal/packets"
)

// ErrNotBinary is returned when a WebSocket message arrives that isn't
// a binary frame; MQTT-over-WebSocket packets are always binary.
var ErrNotBinary = errors.New("received websocket message is not binary")

var closeMessage = websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")

// wsStream adapts one websocket.Conn to io.Reader/io.Writer, chunking
// MQTT packets across WebSocket message boundaries as needed.
type wsStream struct {
	conn   *websocket.Conn
	reader io.Reader
}

func (s *wsStream) Read(p []byte) (int, error) {
	for {
		if s.reader == nil {
			messageType, reader, err := s.conn.NextReader()
			if _, ok := err.(*websocket.CloseError); ok {
				return 0, io.EOF
			} else if err != nil {
				return 0, err
			} else if messageType != websocket.BinaryMessage {
				return 0, ErrNotBinary
			}
			s.reader = reader
		}

		n, err := s.reader.Read(p)
		if err == io.EOF {
			s.reader = nil
			if n > 0 {
				return n, nil
			}
			continue
		}
		return n, err
	}
}

func (s *wsStream) Write(p []byte) (int, error) {
	w, err := s.conn.NextWriter(websocket.BinaryMessage)
	if err != nil {
		return 0, err
	}
	n, err := w.Write(p)
	if err != nil {
		return n, err
	}
	return n, w.Close()
}

func (s *wsStream) Close() error {
	_ = s.conn.WriteMessage(websocket.CloseMessage, closeMessage)
	return s.conn.Close()
}

// Conn wraps one upgraded WebSocket connection, carrying the initial
// upgrade request's headers for the session's ws_initial_headers
// field (spec §3, §6) and a metrics.Recorder for the send path.
type Conn struct {
	stream         *wsStream
	InitialHeaders http.Header
	metrics        *metrics.Recorder
}

// Upgrade promotes an HTTP request to a WebSocket connection scoped to
// MQTT framing, recording the upgrade request's headers for later
// passthrough to the Session.
func Upgrade(w http.ResponseWriter, r *http.Request, upgrader *websocket.Upgrader) (*Conn, error) {
	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}
	return &Conn{
		stream:         &wsStream{conn: wsConn},
		InitialHeaders: r.Header.Clone(),
	}, nil
}

// WithMetrics attaches a recorder so Send increments per-packet-type
// counters (spec §6 "Observability side effects").
func (c *Conn) WithMetrics(rec *metrics.Recorder) *Conn {
	c.metrics = rec
	return c
}

// Send implements session.Sender: it writes one packet to the
// underlying WebSocket message stream and records it.
func (c *Conn) Send(pkt packets.Packet) error {
	if _, err := pkt.WriteTo(c.stream); err != nil {
		return err
	}
	if c.metrics != nil {
		c.metrics.Sent(packets.PacketNames[pkt.Type()])
	}
	return nil
}

// ReadPacket blocks until the next full MQTT packet is framed off the
// WebSocket stream, or returns an error. A stream error comes back
// wrapped by packets.ReadPacket (io.EOF on close, ErrNotBinary on a
// non-binary frame); match it with errors.Is.
func (c *Conn) ReadPacket(maxIncomingPacket int) (packets.Packet, error) {
	return packets.ReadPacket(c.stream, maxIncomingPacket)
}

// SetReadDeadline arms the keepalive watchdog at the transport layer;
// see Session.KeepaliveInterval for the duration to use.
func (c *Conn) SetReadDeadline(t time.Time) error {
	return c.stream.conn.SetReadDeadline(t)
}

// Close closes the underlying WebSocket connection.
func (c *Conn) Close() error {
	return c.stream.Close()
}
