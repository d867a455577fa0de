package postcommit

import (
	"context"
	"fmt"

	"rescue-office/internal/platform/logger"
)

// Hook es un efecto secundario a ejecutar después de un commit exitoso
// (sync del índice de búsqueda, notificación, limpieza de imágenes).
// Son best-effort: un hook que falla no deshace el write ya commiteado
// ni afecta la respuesta al usuario.
type Hook struct {
	Name string
	Run  func(ctx context.Context) error
}

// Run ejecuta los hooks en orden. Fallos y panics se loguean y se sigue
// con el resto; nunca retorna error.
func Run(ctx context.Context, log logger.Logger, hooks ...Hook) {
	for _, h := range hooks {
		if h.Run == nil {
			continue
		}
		runOne(ctx, log, h)
	}
}

func runOne(ctx context.Context, log logger.Logger, h Hook) {
	defer func() {
		if r := recover(); r != nil {
			if log != nil {
				log.Error("post-commit hook panicked", map[string]any{
					"hook":  h.Name,
					"panic": fmt.Sprintf("%v", r),
				})
			}
		}
	}()

	if err := h.Run(ctx); err != nil {
		if log != nil {
			log.Warn("post-commit hook failed", map[string]any{
				"hook": h.Name,
				"err":  err.Error(),
			})
		}
	}
}
