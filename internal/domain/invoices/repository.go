package invoices

import (
	"context"
	"time"
)

type Repository interface {
	// Create mapea el conflicto de unicidad del número a ErrNumberAlreadyUsed.
	Create(ctx context.Context, inv Invoice) error

	// UpdateStatus lee el status anterior y escribe el nuevo en la misma
	// transacción; devuelve la factura actualizada y el status previo para
	// que el servicio decida los efectos post-commit.
	UpdateStatus(ctx context.Context, id string, status Status, paidAt *time.Time, updatedAt time.Time) (Invoice, Status, error)

	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Invoice, error)
	ListByExhibitor(ctx context.Context, exhibitorID string) ([]Invoice, error)
}
