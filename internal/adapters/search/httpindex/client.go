package httpindex

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"rescue-office/internal/platform/httpclient"
	"rescue-office/internal/ports/search"
)

var (
	ErrNotConfigured = errors.New("search index client not configured")
	ErrUpstream      = errors.New("search index upstream error")
)

type Config struct {
	BaseURL string
	APIKey  string

	APIKeyHeader string
	Timeout      time.Duration
}

// Client habla con el servicio de búsqueda hosteado sobre su API REST.
// Implementa search.Index; los llamadores lo invocan solo post-commit.
type Client struct {
	http         *httpclient.Client
	apiKey       string
	apiKeyHeader string
}

func NewClient(cfg Config) (*Client, error) {
	h := strings.TrimSpace(cfg.APIKeyHeader)
	if h == "" {
		h = "X-Api-Key"
	}

	hc, err := httpclient.NewWithBaseURL(strings.TrimSpace(cfg.BaseURL), cfg.Timeout)
	if err != nil {
		return nil, err
	}

	return &Client{
		http:         hc,
		apiKey:       strings.TrimSpace(cfg.APIKey),
		apiKeyHeader: h,
	}, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.http != nil && c.http.BaseURL != "" && c.apiKey != ""
}

type saveRequest struct {
	Fields map[string]any `json:"fields"`
}

type searchRequest struct {
	Query   string            `json:"q"`
	Filters map[string]string `json:"filters,omitempty"`
}

type searchHit struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

type searchResponse struct {
	Hits []searchHit `json:"hits"`
}

func (c *Client) Save(ctx context.Context, index string, rec search.Record) error {
	if !c.IsConfigured() {
		return ErrNotConfigured
	}
	if strings.TrimSpace(rec.ID) == "" {
		return errors.New("record id required")
	}

	path := fmt.Sprintf("/indexes/%s/records/%s", url.PathEscape(index), url.PathEscape(rec.ID))
	err := c.http.DoJSON(ctx, http.MethodPut, path, c.headers(), saveRequest{Fields: rec.Fields}, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return nil
}

func (c *Client) Delete(ctx context.Context, index string, id string) error {
	if !c.IsConfigured() {
		return ErrNotConfigured
	}
	if strings.TrimSpace(id) == "" {
		return errors.New("record id required")
	}

	path := fmt.Sprintf("/indexes/%s/records/%s", url.PathEscape(index), url.PathEscape(id))
	err := c.http.DoJSON(ctx, http.MethodDelete, path, c.headers(), nil, nil)
	if err != nil {
		var httpErr *httpclient.HTTPError
		// borrar un registro que ya no está no es un error
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return nil
}

func (c *Client) Search(ctx context.Context, index, query string, filters map[string]string) ([]search.Record, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}

	path := fmt.Sprintf("/indexes/%s/search", url.PathEscape(index))
	var resp searchResponse
	if err := c.http.DoJSON(ctx, http.MethodPost, path, c.headers(), searchRequest{Query: query, Filters: filters}, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	out := make([]search.Record, 0, len(resp.Hits))
	for _, h := range resp.Hits {
		out = append(out, search.Record{ID: h.ID, Fields: h.Fields})
	}
	return out, nil
}

func (c *Client) headers() map[string]string {
	return map[string]string{c.apiKeyHeader: c.apiKey}
}
