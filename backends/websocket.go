package backends

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
)

// WebSocketBackend sends each payload as one binary message on a fresh
// connection.
type WebSocketBackend struct {
	target  string
	timeout time.Duration
	dialer  *websocket.Dialer
}

func NewWebSocketBackend(target string, timeout time.Duration) (*WebSocketBackend, error) {
	parsed, err := url.Parse(target)
	if err != nil {
		return nil, err
	}
	if parsed.Scheme != "ws" && parsed.Scheme != "wss" {
		return nil, errors.New("websocket backend target needs a ws or wss url")
	}
	dialer := *websocket.DefaultDialer
	dialer.HandshakeTimeout = timeout
	return &WebSocketBackend{
		target:  target,
		timeout: timeout,
		dialer:  &dialer,
	}, nil
}

func (self *WebSocketBackend) Deliver(ctx context.Context, payload []byte) error {
	conn, _, err := self.dialer.DialContext(ctx, self.target, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	conn.SetWriteDeadline(time.Now().Add(self.timeout))
	if err := conn.WriteMessage(websocket.BinaryMessage, payload); err != nil {
		return err
	}
	deadline := time.Now().Add(self.timeout)
	conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
	logger.WithField("target", self.target).WithField("bytes", len(payload)).Trace("Sent payload")
	return nil
}
