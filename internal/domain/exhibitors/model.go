package exhibitors

import "time"

// ApplicationStatus es el estado de tratamiento de una candidatura.
type ApplicationStatus string

const (
	StatusUntreated  ApplicationStatus = "untreated"
	StatusWaitlisted ApplicationStatus = "waitlisted"
	StatusRefused    ApplicationStatus = "refused"
	StatusValidated  ApplicationStatus = "validated"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusUntreated, StatusWaitlisted, StatusRefused, StatusValidated:
		return true
	default:
		return false
	}
}

// Application es la candidatura de un expositor al salón.
// Email de contacto y URL de la estructura son únicos.
// ExhibitorID queda seteado una única vez, al validar la candidatura.
type Application struct {
	ID string

	ContactFirstName string
	ContactLastName  string
	ContactEmail     string

	StructureName string
	StructureURL  string

	DesiredStandSizeID string
	DesiredDividerID   string
	DividerCount       int
	TableCount         int

	Status ApplicationStatus
	// Solo con status refused; se fuerza a nil para el resto.
	RefusalMessage *string

	// null hasta la promoción; el check de "como mucho una vez"
	// corre dentro de la misma transacción que el update de status.
	ExhibitorID *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Exhibitor es el agregado creado al validar una candidatura:
// registro + perfil + configuración de stand + carpeta de documentos.
type Exhibitor struct {
	ID            string
	ApplicationID string

	Name string

	Profile   Profile
	Stand     StandConfiguration
	Documents Documents

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Profile struct {
	ID          string
	Description string
	LogoPath    string
	Links       []string
}

type StandConfiguration struct {
	ID           string
	StandSizeID  string
	DividerID    string
	DividerCount int
	TableCount   int
}

type Documents struct {
	ID       string
	FolderID string
}
