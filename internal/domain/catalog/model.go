package catalog

import "time"

// DividerType es una fila de catálogo con capacidad limitada.
type DividerType struct {
	ID       string
	Label    string
	MaxCount int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// StandSize idem, con precio.
type StandSize struct {
	ID         string
	Label      string
	MaxCount   int
	PriceCents int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DividerTypeAvailability es la vista de lectura: UsedCount sale de sumar
// los divider_count de las configuraciones de stand; el ratio se recalcula
// siempre, nunca se persiste.
type DividerTypeAvailability struct {
	DividerType
	UsedCount         int
	AvailabilityRatio float64
}

type StandSizeAvailability struct {
	StandSize
	UsedCount         int
	AvailabilityRatio float64
}
