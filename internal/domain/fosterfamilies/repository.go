package fosterfamilies

import "context"

type Repository interface {
	// Create y Update mapean el conflicto de unicidad del email
	// a ErrEmailAlreadyUsed (nunca dejan filtrar el error crudo de la base).
	Create(ctx context.Context, f FosterFamily) error
	Update(ctx context.Context, f FosterFamily) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (FosterFamily, error)
	List(ctx context.Context) ([]FosterFamily, error)
}
