package animals

import "context"

type Repository interface {
	GetDraft(ctx context.Context, ownerUserID string) (Draft, error)
	SaveDraft(ctx context.Context, d Draft) error

	// PromoteDraft inserta el animal y borra el draft del owner en una sola
	// transacción: o pasan las dos cosas o ninguna.
	PromoteDraft(ctx context.Context, a Animal, ownerUserID string) error

	GetByID(ctx context.Context, id string) (Animal, error)
	Update(ctx context.Context, a Animal) error
	Delete(ctx context.Context, id string) error
	ListByStatus(ctx context.Context, status Status) ([]Animal, error)
	List(ctx context.Context) ([]Animal, error)
}
