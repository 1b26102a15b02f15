package authenticating

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-dashboard/internal/config"
	"github.com/vfg2006/sales-dashboard/internal/domain"
	"github.com/vfg2006/sales-dashboard/pkg/apiErrors"
	"github.com/vfg2006/sales-dashboard/pkg/utils"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Escopos pedidos ao Google: apenas identidade. A planilha é lida com
// service account, não com as credenciais do usuário.
var oauthScopes = []string{
	"openid",
	"https://www.googleapis.com/auth/userinfo.email",
	"https://www.googleapis.com/auth/userinfo.profile",
}

// Authenticator define o fluxo de login e a validação de sessões
type Authenticator interface {
	// AuthCodeURL monta a URL de consentimento do Google para o state dado
	AuthCodeURL(state string) string

	// HandleCallback troca o código OAuth, valida o usuário contra a
	// lista de autorizados e abre uma sessão; retorna a sessão e o
	// token assinado para o cookie
	HandleCallback(ctx context.Context, code string) (*domain.Session, string, error)

	// ValidateToken valida o token do cookie e devolve a sessão ativa
	ValidateToken(tokenString string) (*domain.Session, error)

	// Logout encerra a sessão associada ao token, quando houver
	Logout(tokenString string)
}

// UserInfoFetcher busca o perfil do usuário autenticado no Google
type UserInfoFetcher interface {
	Fetch(ctx context.Context, token *oauth2.Token) (*domain.User, error)
}

type Service struct {
	cfg       *config.Config
	oauth     *oauth2.Config
	allowlist *Allowlist
	sessions  *SessionStore
	userInfo  UserInfoFetcher

	// exchange é substituível em testes
	exchange func(ctx context.Context, code string) (*oauth2.Token, error)
	now      func() time.Time
}

// NewService cria o autenticador do dashboard
func NewService(cfg *config.Config, allowlist *Allowlist, userInfo UserInfoFetcher) *Service {
	oauthConfig := &oauth2.Config{
		ClientID:     cfg.Google.ClientID,
		ClientSecret: cfg.Google.ClientSecret,
		RedirectURL:  cfg.RedirectURL(),
		Scopes:       oauthScopes,
		Endpoint:     google.Endpoint,
	}

	return &Service{
		cfg:       cfg,
		oauth:     oauthConfig,
		allowlist: allowlist,
		sessions:  NewSessionStore(),
		userInfo:  userInfo,
		exchange: func(ctx context.Context, code string) (*oauth2.Token, error) {
			return oauthConfig.Exchange(ctx, code)
		},
		now:       time.Now,
	}
}

func (s *Service) AuthCodeURL(state string) string {
	return s.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

func (s *Service) HandleCallback(ctx context.Context, code string) (*domain.Session, string, error) {
	token, err := s.exchange(ctx, code)
	if err != nil {
		return nil, "", NewAuthError(ErrOAuthExchange, apiErrors.ErrOAuthExchange, err.Error())
	}

	user, err := s.userInfo.Fetch(ctx, token)
	if err != nil {
		return nil, "", NewAuthError(ErrUserInfo, apiErrors.ErrExternalService, err.Error())
	}

	if !s.allowlist.Contains(user.Email) {
		logrus.Warnf("Login negado: %s não está na lista de autorizados", user.Email)
		authErr := NewAuthError(ErrUnauthorizedUser, apiErrors.ErrUnauthorizedUser, user.Email)
		authErr.Email = user.Email
		return nil, "", authErr
	}

	return s.issueSession(*user)
}

// issueSession abre a sessão em memória e assina o token do cookie
func (s *Service) issueSession(user domain.User) (*domain.Session, string, error) {
	id, err := utils.GenerateSessionID()
	if err != nil {
		return nil, "", err
	}

	now := s.now()
	session := &domain.Session{
		ID:        id,
		User:      user,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.Auth.SessionTTL()),
	}
	s.sessions.Put(session)

	claims := domain.Claims{
		SessionID: session.ID,
		Email:     user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Auth.SessionSecret))
	if err != nil {
		return nil, "", err
	}

	logrus.WithFields(logrus.Fields{
		"email":      user.Email,
		"expires_at": session.ExpiresAt,
	}).Info("auth: sessão aberta com sucesso")

	return session, signed, nil
}

func (s *Service) ValidateToken(tokenString string) (*domain.Session, error) {
	claims, err := s.parseClaims(tokenString)
	if err != nil {
		return nil, err
	}

	session, ok := s.sessions.Get(claims.SessionID)
	if !ok {
		return nil, NewAuthError(ErrSessionNotFound, apiErrors.ErrExpiredSession, claims.Email)
	}

	return session, nil
}

func (s *Service) Logout(tokenString string) {
	claims, err := s.parseClaims(tokenString)
	if err != nil {
		return
	}

	s.sessions.Delete(claims.SessionID)
	logrus.WithField("email", claims.Email).Info("auth: sessão encerrada")
}

func (s *Service) parseClaims(tokenString string) (*domain.Claims, error) {
	claims := &domain.Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("método de assinatura inesperado: %v", t.Header["alg"])
		}
		return []byte(s.cfg.Auth.SessionSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, NewAuthError(ErrInvalidToken, apiErrors.ErrUnauthenticated, "")
	}

	return claims, nil
}
