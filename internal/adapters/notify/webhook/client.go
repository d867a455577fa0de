package webhook

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"rescue-office/internal/platform/httpclient"
	"rescue-office/internal/ports/notify"
)

var (
	ErrNotConfigured = errors.New("notifier webhook not configured")
	ErrUpstream      = errors.New("notifier upstream error")
)

type Config struct {
	EndpointURL string
	APIKey      string

	APIKeyHeader string
	Timeout      time.Duration
}

// Client despacha eventos al webhook del sistema de notificaciones
// (emails a los admins, etc). Siempre se invoca como hook post-commit:
// un fallo acá nunca revierte la operación que lo originó.
type Client struct {
	http         *httpclient.Client
	endpoint     string
	apiKey       string
	apiKeyHeader string
}

func NewClient(cfg Config) *Client {
	h := strings.TrimSpace(cfg.APIKeyHeader)
	if h == "" {
		h = "X-Api-Key"
	}
	return &Client{
		http:         httpclient.New(cfg.Timeout),
		endpoint:     strings.TrimSpace(cfg.EndpointURL),
		apiKey:       strings.TrimSpace(cfg.APIKey),
		apiKeyHeader: h,
	}
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.endpoint != ""
}

func (c *Client) Send(ctx context.Context, e notify.Event) error {
	if !c.IsConfigured() {
		return ErrNotConfigured
	}

	headers := map[string]string{}
	if c.apiKey != "" {
		headers[c.apiKeyHeader] = c.apiKey
	}

	if err := c.http.DoJSON(ctx, http.MethodPost, c.endpoint, headers, e, nil); err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return nil
}

var _ notify.Notifier = (*Client)(nil)
