package middleware

import (
	"context"
	"net/http"
	"strings"

	"rescue-office/internal/ports/auth"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// DebugUserHeader inyecta una identidad sin pasar por el servicio de
// sesiones. Solo se honra cuando no hay verifier configurado.
const DebugUserHeader = "X-Debug-User-ID"

// SessionContext resuelve la sesión del request y deja los claims en el
// contexto. Nunca corta la cadena: un request anónimo sigue su curso y
// cada handler decide si exige identidad.
func SessionContext(verifier auth.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := resolveSession(r, verifier)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func resolveSession(r *http.Request, verifier auth.Verifier) (auth.Claims, bool) {
	if verifier == nil {
		// modo dev
		uid := strings.TrimSpace(r.Header.Get(DebugUserHeader))
		if uid == "" {
			return auth.Claims{}, false
		}
		return auth.Claims{UserID: uid}, true
	}

	token := bearerToken(r.Header.Get("Authorization"))
	if token == "" {
		return auth.Claims{}, false
	}
	claims, err := verifier.Verify(r.Context(), token)
	if err != nil {
		// token inválido o sesión expirada: tratamos el request como anónimo
		return auth.Claims{}, false
	}
	return claims, true
}

func GetClaims(ctx context.Context) (auth.Claims, bool) {
	v, ok := ctx.Value(claimsKey).(auth.Claims)
	return v, ok
}

func bearerToken(header string) string {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
