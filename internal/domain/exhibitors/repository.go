package exhibitors

import (
	"context"
	"time"
)

type Repository interface {
	// CreateApplication mapea los conflictos de unicidad a
	// ErrEmailAlreadyUsed / ErrURLAlreadyUsed.
	CreateApplication(ctx context.Context, app Application) error
	GetApplication(ctx context.Context, id string) (Application, error)
	ListApplications(ctx context.Context) ([]Application, error)

	// UpdateApplicationStatus corre en una sola transacción: lee la fila
	// actual, escribe status/refusal message y, si status es validated y
	// exhibitor_id sigue null, crea el agregado candidate y setea el FK.
	// Devuelve la candidatura actualizada y si hubo promoción.
	UpdateApplicationStatus(ctx context.Context, id string, status ApplicationStatus, refusalMessage *string, updatedAt time.Time, candidate Exhibitor) (Application, bool, error)

	GetExhibitor(ctx context.Context, id string) (Exhibitor, error)
	ListExhibitors(ctx context.Context) ([]Exhibitor, error)
}
