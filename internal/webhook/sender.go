// Package webhook is the outbound delivery integration: campaign messages
// are handed to an external automation endpoint that performs the actual
// WhatsApp delivery.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ronnysenna/envio-massa-sub000/internal/config"
)

// Message is one outbound delivery request
type Message struct {
	Nome     string `json:"nome"`
	Telefone string `json:"telefone"`
	Mensagem string `json:"mensagem"`
	ImageURL string `json:"image_url,omitempty"`
}

// Sender delivers one message to one recipient
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// HTTPSender posts messages as JSON to the configured webhook URL
type HTTPSender struct {
	url    string
	client *http.Client
}

// NewHTTPSender creates a sender with the configured timeout
func NewHTTPSender(cfg config.WebhookConfig) *HTTPSender {
	return &HTTPSender{
		url:    cfg.URL,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Send posts the message and treats any non-2xx status as a failure
func (s *HTTPSender) Send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()
	// Drain so the connection can be reused
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
