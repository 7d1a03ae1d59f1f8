package httpapi

import (
	"net/http"
	"strings"

	"custodia.org/internal/auth"
)

const (
	authHeader = "Authorization"
	bearer     = "Bearer "
)

// Localized message kept from the product: the role gate is user-facing.
const accessDeniedMessage = "Acesso negado. Requer permissão de administrador."

var publicPaths = []string{
	"/auth/register",
	"/auth/login",
	"/healthz",
	"/readyz",
	"/metrics",
	"/",
}

// withAuth is the auth gate. A missing or mis-shaped Authorization header
// short-circuits with a bare 401; a present token that fails verification
// for any reason short-circuits with a bare 403. On success the decoded
// identity rides the request context.
func (a *API) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions || isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		token, ok := extractBearerToken(r.Header.Get(authHeader))
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		claims, err := a.tokens.ParseAndValidate(token)
		if err != nil {
			w.WriteHeader(http.StatusForbidden)
			return
		}

		ctx := auth.ContextWithIdentity(r.Context(), claims.Identity())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin is the role gate. It assumes the auth gate ran first; a
// missing identity counts as non-admin rather than a failure.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := auth.IdentityFromContext(r.Context())
		if !ok || !identity.IsAdmin() {
			writeError(w, r, http.StatusForbidden, accessDeniedMessage)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// extractBearerToken returns the token portion of "Bearer <token>". Any
// other header shape is reported as "no token present".
func extractBearerToken(header string) (string, bool) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", false
	}
	if !strings.HasPrefix(strings.ToLower(header), strings.ToLower(bearer)) {
		return "", false
	}
	token := strings.TrimSpace(header[len(bearer):])
	if token == "" {
		return "", false
	}
	return token, true
}

func isPublicPath(path string) bool {
	for _, p := range publicPaths {
		if path == p {
			return true
		}
	}
	return false
}
