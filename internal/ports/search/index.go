package search

import "context"

// Record es la proyección desnormalizada que viaja al índice hosteado:
// solo los campos que necesita búsqueda/autocomplete, nunca la fila entera.
type Record struct {
	ID     string
	Fields map[string]any
}

// Index es el puerto hacia el servicio de búsqueda.
// El índice es una proyección derivada y eventualmente consistente de la
// base: un Save/Delete que falla después de un commit no es un error de la
// operación, se loguea y se sigue.
type Index interface {
	Save(ctx context.Context, index string, rec Record) error
	Delete(ctx context.Context, index string, id string) error
	Search(ctx context.Context, index, query string, filters map[string]string) ([]Record, error)
}

// Nombres de índices usados por los módulos de dominio.
const (
	IndexAnimals        = "animals"
	IndexFosterFamilies = "foster_families"
)
