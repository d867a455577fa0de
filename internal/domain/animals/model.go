package animals

import "time"

// Animal es un animal ya registrado (promovido desde su draft).
// El avatar es obligatorio desde la creación; Pictures puede ser vacío.
type Animal struct {
	ID string

	Name    string
	Species Species
	Breed   Breed // opcional ("" = sin raza conocida)
	Color   Color // opcional

	Status         Status
	PickUpDate     time.Time
	PickUpLocation string

	Avatar   string   // referencia en el storage de imágenes
	Pictures []string // referencias adicionales

	Description string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Draft es el área de staging para la creación multi-paso: uno por usuario.
// Se borra transaccionalmente al promoverse a Animal.
type Draft struct {
	OwnerUserID string

	// paso perfil
	Name        string
	Species     Species
	Breed       Breed
	Color       Color
	Description string

	// paso fotos
	Avatar   string
	Pictures []string

	// paso situación
	Status         Status
	PickUpDate     *time.Time
	PickUpLocation string

	CreatedAt time.Time
	UpdatedAt time.Time
}
