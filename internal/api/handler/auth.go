package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-dashboard/internal/config"
	"github.com/vfg2006/sales-dashboard/internal/usecases/authenticating"
	"github.com/vfg2006/sales-dashboard/pkg/middleware"
)

// Cookie temporário que amarra o redirect do Google à sessão do navegador
const oauthStateCookieName = "sales_dashboard_oauth_state"

type loginView struct {
	Message string
}

type unauthorizedView struct {
	Email string
}

type errorView struct {
	Title   string
	Message string
}

// IndexPage mostra a tela de entrada. Quem já tem sessão válida vai direto
// para o painel.
func IndexPage(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
			if _, err := service.ValidateToken(cookie.Value); err == nil {
				http.Redirect(w, r, "/dashboard", http.StatusFound)
				return
			}
		}

		renderPage(w, http.StatusOK, "login.html", loginView{})
	}
}

// Login inicia o fluxo OAuth redirecionando para a tela de consentimento do
// Google com um state aleatório amarrado por cookie
func Login(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := uuid.NewString()

		http.SetCookie(w, &http.Cookie{
			Name:     oauthStateCookieName,
			Value:    state,
			Path:     "/",
			MaxAge:   600,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})

		http.Redirect(w, r, service.AuthCodeURL(state), http.StatusFound)
	}
}

// OAuthCallback conclui o fluxo OAuth: confere o state, troca o código por
// identidade e emite o cookie de sessão
func OAuthCallback(service authenticating.Authenticator, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		stateCookie, err := r.Cookie(oauthStateCookieName)
		if err != nil || stateCookie.Value == "" || stateCookie.Value != query.Get("state") {
			logrus.Warn("Callback OAuth com state ausente ou divergente")
			renderPage(w, http.StatusBadRequest, "login.html", loginView{
				Message: "Não foi possível validar o login. Tente novamente.",
			})
			return
		}

		clearCookie(w, oauthStateCookieName)

		code := query.Get("code")
		if code == "" {
			renderPage(w, http.StatusBadRequest, "login.html", loginView{
				Message: "Login cancelado ou código ausente. Tente novamente.",
			})
			return
		}

		_, token, err := service.HandleCallback(r.Context(), code)
		if err != nil {
			var authErr *authenticating.AuthError
			if authenticating.IsUnauthorizedUser(err) && errors.As(err, &authErr) {
				logrus.WithField("email", authErr.Email).Warn("Tentativa de acesso por usuário não autorizado")
				renderPage(w, http.StatusForbidden, "unauthorized.html", unauthorizedView{Email: authErr.Email})
				return
			}

			logrus.WithError(err).Error("Erro ao concluir o fluxo OAuth")
			renderPage(w, http.StatusBadGateway, "error.html", errorView{
				Title:   "Falha no login",
				Message: "Não foi possível concluir o login com o Google. Tente novamente em instantes.",
			})
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     middleware.SessionCookieName,
			Value:    token,
			Path:     "/",
			MaxAge:   int(cfg.Auth.SessionTTL().Seconds()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})

		http.Redirect(w, r, "/dashboard", http.StatusFound)
	}
}

// Logout invalida a sessão no servidor e apaga o cookie do navegador
func Logout(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
			service.Logout(cookie.Value)
		}

		clearCookie(w, middleware.SessionCookieName)
		http.Redirect(w, r, "/", http.StatusFound)
	}
}

func clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
