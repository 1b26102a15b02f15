package domain

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// User representa um usuário autenticado pelo Google
type User struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Session é o estado de login mantido no servidor entre requisições
type Session struct {
	ID        string    `json:"id"`
	User      User      `json:"user"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired indica se a sessão passou do prazo de validade
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Claims é o conteúdo assinado do cookie de sessão
type Claims struct {
	SessionID string `json:"sid"`
	Email     string `json:"email"`
	jwt.RegisteredClaims
}
