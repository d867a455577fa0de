package sessionapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"rescue-office/internal/platform/httpclient"
	"rescue-office/internal/ports/auth"
)

var (
	ErrNotConfigured = errors.New("session api client not configured")
	ErrUnauthorized  = errors.New("session api unauthorized")
	ErrUpstream      = errors.New("session api upstream error")
	ErrTokenEmpty    = errors.New("token is empty")
)

type Config struct {
	BaseURL string
	APIKey  string

	APIKeyHeader string
	Timeout      time.Duration
}

// Verifier implementa auth.Verifier contra el servicio de sesiones de la
// asociación. Se instancia desde main/router; sin configurar, el middleware
// cae en modo dev.
type Verifier struct {
	http         *httpclient.Client
	apiKey       string
	apiKeyHeader string
}

func NewVerifier(cfg Config) (*Verifier, error) {
	h := strings.TrimSpace(cfg.APIKeyHeader)
	if h == "" {
		h = "X-Api-Key"
	}

	hc, err := httpclient.NewWithBaseURL(strings.TrimSpace(cfg.BaseURL), cfg.Timeout)
	if err != nil {
		return nil, err
	}

	return &Verifier{
		http:         hc,
		apiKey:       strings.TrimSpace(cfg.APIKey),
		apiKeyHeader: h,
	}, nil
}

func (v *Verifier) IsConfigured() bool {
	return v != nil && v.http != nil && v.http.BaseURL != ""
}

type verifyRequest struct {
	Token string `json:"token"`
}

type verifyResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if !v.IsConfigured() {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	headers := map[string]string{}
	if v.apiKey != "" {
		headers[v.apiKeyHeader] = v.apiKey
	}

	var resp verifyResponse
	err := v.http.DoJSON(ctx, http.MethodPost, "/v1/sessions/verify", headers, verifyRequest{Token: token}, &resp)
	if err != nil {
		var httpErr *httpclient.HTTPError
		if errors.As(err, &httpErr) && (httpErr.StatusCode == http.StatusUnauthorized || httpErr.StatusCode == http.StatusForbidden) {
			return auth.Claims{}, ErrUnauthorized
		}
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	resp.UserID = strings.TrimSpace(resp.UserID)
	if resp.UserID == "" {
		return auth.Claims{}, errors.New("session claims missing user id")
	}

	return auth.Claims{UserID: resp.UserID, Email: resp.Email}, nil
}
