package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-dashboard/internal/config"
	"github.com/vfg2006/sales-dashboard/internal/domain"
	"github.com/vfg2006/sales-dashboard/internal/usecases/authenticating"
	"github.com/vfg2006/sales-dashboard/pkg/middleware"
)

// fakeAuthenticator cobre os handlers sem depender do Google
type fakeAuthenticator struct {
	session     *domain.Session
	token       string
	callbackErr error
	loggedOut   []string
}

func (f *fakeAuthenticator) AuthCodeURL(state string) string {
	return "https://accounts.google.com/o/oauth2/auth?state=" + url.QueryEscape(state)
}

func (f *fakeAuthenticator) HandleCallback(ctx context.Context, code string) (*domain.Session, string, error) {
	if f.callbackErr != nil {
		return nil, "", f.callbackErr
	}
	return f.session, f.token, nil
}

func (f *fakeAuthenticator) ValidateToken(token string) (*domain.Session, error) {
	if f.session != nil && token == f.token {
		return f.session, nil
	}
	return nil, authenticating.ErrInvalidToken
}

func (f *fakeAuthenticator) Logout(token string) {
	f.loggedOut = append(f.loggedOut, token)
}

func handlerConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Auth.SessionTTLHours = 720
	return cfg
}

func stateCookie(t *testing.T, recorder *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	for _, cookie := range recorder.Result().Cookies() {
		if cookie.Name == oauthStateCookieName {
			return cookie
		}
	}

	t.Fatal("cookie de state não encontrado na resposta")
	return nil
}

func TestLogin(t *testing.T) {
	service := &fakeAuthenticator{}

	recorder := httptest.NewRecorder()
	Login(service).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/login", nil))

	require.Equal(t, http.StatusFound, recorder.Code)

	cookie := stateCookie(t, recorder)
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)

	location := recorder.Header().Get("Location")
	assert.Contains(t, location, "accounts.google.com")
	assert.Contains(t, location, url.QueryEscape(cookie.Value))
}

func TestOAuthCallback(t *testing.T) {
	session := &domain.Session{
		ID:   "sessao-1",
		User: domain.User{Email: "alice@example.com"},
	}

	t.Run("Callback válido emite cookie de sessão e redireciona", func(t *testing.T) {
		service := &fakeAuthenticator{session: session, token: "token-assinado"}

		req := httptest.NewRequest(http.MethodGet, "/oauth/callback?state=abc&code=xyz", nil)
		req.AddCookie(&http.Cookie{Name: oauthStateCookieName, Value: "abc"})

		recorder := httptest.NewRecorder()
		OAuthCallback(service, handlerConfig()).ServeHTTP(recorder, req)

		require.Equal(t, http.StatusFound, recorder.Code)
		assert.Equal(t, "/dashboard", recorder.Header().Get("Location"))

		var sessionCookie *http.Cookie
		for _, cookie := range recorder.Result().Cookies() {
			if cookie.Name == middleware.SessionCookieName {
				sessionCookie = cookie
			}
		}
		require.NotNil(t, sessionCookie)
		assert.Equal(t, "token-assinado", sessionCookie.Value)
		assert.True(t, sessionCookie.HttpOnly)
	})

	t.Run("State divergente volta para a tela de entrada", func(t *testing.T) {
		service := &fakeAuthenticator{session: session, token: "token-assinado"}

		req := httptest.NewRequest(http.MethodGet, "/oauth/callback?state=outro&code=xyz", nil)
		req.AddCookie(&http.Cookie{Name: oauthStateCookieName, Value: "abc"})

		recorder := httptest.NewRecorder()
		OAuthCallback(service, handlerConfig()).ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "Não foi possível validar o login")
	})

	t.Run("Usuário não autorizado vê a página de acesso negado", func(t *testing.T) {
		callbackErr := authenticating.NewAuthError(
			authenticating.ErrUnauthorizedUser,
			"AUTH_003",
			"email fora da lista de autorizados",
		)
		callbackErr.Email = "intruso@example.com"

		service := &fakeAuthenticator{callbackErr: callbackErr}

		req := httptest.NewRequest(http.MethodGet, "/oauth/callback?state=abc&code=xyz", nil)
		req.AddCookie(&http.Cookie{Name: oauthStateCookieName, Value: "abc"})

		recorder := httptest.NewRecorder()
		OAuthCallback(service, handlerConfig()).ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusForbidden, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "intruso@example.com")
	})
}

func TestLogout(t *testing.T) {
	service := &fakeAuthenticator{token: "token-assinado"}

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "token-assinado"})

	recorder := httptest.NewRecorder()
	Logout(service).ServeHTTP(recorder, req)

	require.Equal(t, http.StatusFound, recorder.Code)
	assert.Equal(t, "/", recorder.Header().Get("Location"))
	assert.Equal(t, []string{"token-assinado"}, service.loggedOut)

	// O cookie de sessão deve ser apagado
	var cleared bool
	for _, cookie := range recorder.Result().Cookies() {
		if cookie.Name == middleware.SessionCookieName && cookie.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared)
}
