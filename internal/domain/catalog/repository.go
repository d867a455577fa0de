package catalog

import "context"

// DividerTypeUsage / StandSizeUsage traen la fila junto con el uso agregado
// (calculado por el adapter en la misma query o bajo el mismo lock).
type DividerTypeUsage struct {
	DividerType
	UsedCount int
}

type StandSizeUsage struct {
	StandSize
	UsedCount int
}

type Repository interface {
	CreateDividerType(ctx context.Context, d DividerType) error
	// UpdateDividerType valida dentro de la transacción que el nuevo
	// max_count no quede por debajo del uso actual (ErrMaxCountBelowUsage).
	UpdateDividerType(ctx context.Context, d DividerType) error
	GetDividerType(ctx context.Context, id string) (DividerTypeUsage, error)
	ListDividerTypes(ctx context.Context) ([]DividerTypeUsage, error)

	CreateStandSize(ctx context.Context, s StandSize) error
	UpdateStandSize(ctx context.Context, s StandSize) error
	GetStandSize(ctx context.Context, id string) (StandSizeUsage, error)
	ListStandSizes(ctx context.Context) ([]StandSizeUsage, error)
}
