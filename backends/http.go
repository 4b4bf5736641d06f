package backends

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// StatusError is a downstream answer outside 2xx.
type StatusError struct {
	Code int
	Body string
}

func (self *StatusError) Error() string {
	if self.Body == "" {
		return fmt.Sprintf("downstream answered %d", self.Code)
	}
	return fmt.Sprintf("downstream answered %d: %s", self.Code, self.Body)
}

type HTTPBackend struct {
	target      string
	contentType string
	client      *http.Client
}

func NewHTTPBackend(target string, timeout time.Duration, contentType string) (*HTTPBackend, error) {
	parsed, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("http backend target: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, errors.New("http backend target needs an http or https url")
	}
	if contentType == "" {
		contentType = "application/json"
	}
	logger.WithField("target", target).WithField("timeout", timeout).Info("creating new http backend")
	return &HTTPBackend{
		target:      target,
		contentType: contentType,
		client: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

func (self *HTTPBackend) Deliver(ctx context.Context, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, self.target, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", self.contentType)
	resp, err := self.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, Body: string(bytes.TrimSpace(body))}
	}
	logger.WithField("target", self.target).WithField("status", resp.StatusCode).Trace("Forwarded payload")
	return nil
}
