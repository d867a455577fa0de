package images

import (
	"context"
	"fmt"
	"sync"
)

// Storage es el puerto hacia el almacenamiento de imágenes hosteado.
// La base de datos guarda solo referencias (paths); los binarios viven afuera
// y pueden divergir transitoriamente tras un fallo parcial.
type Storage interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) (string, error)
	PublicURL(path string) string
	Delete(ctx context.Context, path string) error
}

// DeleteAll borra todas las referencias en paralelo con semántica
// "settle all": cada borrado se intenta aunque otros fallen. Devuelve los
// errores individuales para que el caller los loguee; nunca aborta.
func DeleteAll(ctx context.Context, st Storage, paths []string) []error {
	if st == nil || len(paths) == 0 {
		return nil
	}

	errs := make([]error, len(paths))
	var wg sync.WaitGroup

	for i, p := range paths {
		if p == "" {
			continue
		}
		wg.Add(1)
		go func(i int, p string) {
			defer wg.Done()
			if err := st.Delete(ctx, p); err != nil {
				errs[i] = fmt.Errorf("delete %s: %w", p, err)
			}
		}(i, p)
	}
	wg.Wait()

	out := make([]error, 0)
	for _, err := range errs {
		if err != nil {
			out = append(out, err)
		}
	}
	return out
}
