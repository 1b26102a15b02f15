package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/vfg2006/sales-dashboard/internal/usecases/authenticating"
	"github.com/vfg2006/sales-dashboard/pkg/apiErrors"
)

type contextKey string

const (
	// ContextKeySession guarda a sessão autenticada no contexto da requisição
	ContextKeySession contextKey = "session"
)

// SessionCookieName é o nome do cookie que carrega o token de sessão
const SessionCookieName = "sales_dashboard_session"

// Caminhos acessíveis sem sessão
var publicPaths = map[string]struct{}{
	"/":               {},
	"/login":          {},
	"/oauth/callback": {},
	"/logout":         {},
	"/healthcheck":    {},
}

// AuthMiddleware valida o cookie de sessão e injeta a sessão no contexto.
// Páginas sem sessão válida são redirecionadas para a tela de entrada;
// endpoints JSON recebem 401.
func AuthMiddleware(authService authenticating.Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := publicPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			cookie, err := r.Cookie(SessionCookieName)
			if err != nil {
				rejectUnauthenticated(w, r)
				return
			}

			session, err := authService.ValidateToken(cookie.Value)
			if err != nil {
				// Cookie que aponta para sessão inválida ou expirada
				// não serve mais; apaga antes de rejeitar
				if authenticating.IsSessionError(err) {
					http.SetCookie(w, &http.Cookie{
						Name:     SessionCookieName,
						Value:    "",
						Path:     "/",
						MaxAge:   -1,
						HttpOnly: true,
					})
				}
				rejectUnauthenticated(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeySession, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func rejectUnauthenticated(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/v1/") {
		apiErrors.WriteError(w, apiErrors.ErrUnauthenticated, "Sessão ausente ou inválida", nil)
		return
	}

	http.Redirect(w, r, "/", http.StatusFound)
}
