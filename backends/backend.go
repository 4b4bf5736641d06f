package backends

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/harlequix/hamrelay/log"
	"github.com/spf13/viper"
)

var logger *log.Logger

func init() {
	logger = log.NewLogger("Backend")
}

func init() {
	viper.SetDefault("BackendTimeout", 10*time.Second)
}

var ErrUnknownBackend = errors.New("unknown backend")

// Backend hands a reconstructed payload to the downstream service.
type Backend interface {
	Deliver(ctx context.Context, payload []byte) error
}

// New builds the backend called kind. An empty kind picks "http" when a
// target is set and "log" otherwise.
func New(kind string, target string, timeout time.Duration, contentType string) (Backend, error) {
	if timeout <= 0 {
		timeout = viper.GetDuration("BackendTimeout")
	}
	if kind == "" {
		if target == "" {
			kind = "log"
		} else {
			kind = "http"
		}
	}
	switch kind {
	case "http":
		return NewHTTPBackend(target, timeout, contentType)
	case "websocket":
		return NewWebSocketBackend(target, timeout)
	case "log":
		return NewLogBackend(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, kind)
	}
}

// LogBackend only records the payload.
type LogBackend struct {
	logger *log.Logger
}

func NewLogBackend() *LogBackend {
	return &LogBackend{
		logger: log.NewLogger("BackendLog"),
	}
}

func (self *LogBackend) Deliver(ctx context.Context, payload []byte) error {
	self.logger.WithField("bytes", len(payload)).WithField("payload", string(payload)).Info("Delivered payload")
	return nil
}
