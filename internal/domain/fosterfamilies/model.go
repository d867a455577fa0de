package fosterfamilies

import (
	"time"

	"rescue-office/internal/domain/animals"
)

// Availability indica si la familia puede recibir animales ahora.
type Availability string

const (
	AvailabilityAvailable   Availability = "available"
	AvailabilityUnavailable Availability = "unavailable"
	AvailabilityUnknown     Availability = "unknown"
)

func (a Availability) Valid() bool {
	switch a {
	case AvailabilityAvailable, AvailabilityUnavailable, AvailabilityUnknown:
		return true
	default:
		return false
	}
}

// FosterFamily es una familia de acogida. El email es único entre familias.
type FosterFamily struct {
	ID string

	DisplayName string
	Email       string
	Phone       string

	Address string
	City    string
	ZipCode string

	Availability Availability
	// Solo tiene sentido con availability != unknown; debe ser futura.
	AvailabilityExpiresAt *time.Time

	// Especies que ya viven en la casa (informativo).
	SpeciesAlreadyPresent []animals.Species
	// Especies que la familia acepta acoger. Nunca vacío.
	SpeciesToHost []animals.Species

	Comments string

	CreatedAt time.Time
	UpdatedAt time.Time
}
