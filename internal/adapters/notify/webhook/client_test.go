package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rescue-office/internal/ports/notify"
)

func TestSendPostsEvent(t *testing.T) {
	var got notify.Event
	var gotKey string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-Api-Key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(Config{EndpointURL: srv.URL, APIKey: "hook-key"})
	err := c.Send(context.Background(), notify.Event{
		Type:        notify.EventInvoicePaid,
		AggregateID: "invoice-1",
		Data:        map[string]any{"number": "2026-001"},
	})
	require.NoError(t, err)

	assert.Equal(t, "hook-key", gotKey)
	assert.Equal(t, notify.EventInvoicePaid, got.Type)
	assert.Equal(t, "invoice-1", got.AggregateID)
}

func TestSendUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(Config{EndpointURL: srv.URL})
	err := c.Send(context.Background(), notify.Event{Type: notify.EventApplicationStatusUpdated, AggregateID: "app-1"})
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestSendNotConfigured(t *testing.T) {
	c := NewClient(Config{})
	err := c.Send(context.Background(), notify.Event{Type: notify.EventInvoicePaid})
	assert.ErrorIs(t, err, ErrNotConfigured)
}
