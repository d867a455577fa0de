package notify

import "context"

// EventType discrimina los eventos que disparan email/notificación.
type EventType string

const (
	EventInvoicePaid              EventType = "invoice-paid"
	EventApplicationStatusUpdated EventType = "application-status-updated"
)

// Event es el payload fire-and-forget hacia el sistema de notificaciones.
type Event struct {
	Type        EventType      `json:"type"`
	AggregateID string         `json:"aggregate_id"`
	Data        map[string]any `json:"data,omitempty"`
}

// Notifier despacha eventos. Los fallos no se propagan al caller del
// delegate: el despacho corre siempre como hook post-commit.
type Notifier interface {
	Send(ctx context.Context, e Event) error
}
