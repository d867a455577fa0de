package invoices

import "time"

type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusCancelled:
		return true
	default:
		return false
	}
}

// Invoice es una factura del salón, emitida a un expositor.
// El número es único. La transición a paid dispara (una sola vez)
// la notificación "invoice-paid"; se detecta comparando el status
// anterior con el nuevo dentro de la misma transacción.
type Invoice struct {
	ID          string
	ExhibitorID string

	Number      string
	AmountCents int64
	DueDate     time.Time

	Status Status
	PaidAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
