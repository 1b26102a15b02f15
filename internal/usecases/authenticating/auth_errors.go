package authenticating

import (
	"fmt"

	"github.com/pkg/errors"
)

// Erros de autenticação e sessão
var (
	ErrInvalidToken     = errors.New("token de sessão inválido")
	ErrSessionNotFound  = errors.New("sessão não encontrada")
	ErrExpiredSession   = errors.New("sessão expirada")
	ErrUnauthorizedUser = errors.New("usuário não autorizado")
	ErrOAuthExchange    = errors.New("falha na troca do código OAuth")
	ErrUserInfo         = errors.New("falha ao obter o perfil do usuário no Google")
)

// AuthError é um erro com contexto adicional de autenticação
type AuthError struct {
	Err     error  // Erro base
	Code    string // Código de erro para API
	Email   string // Email envolvido (quando aplicável)
	Details string // Detalhes adicionais
}

// Error implementa a interface error
func (e *AuthError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

// Unwrap retorna o erro subjacente
func (e *AuthError) Unwrap() error {
	return e.Err
}

// NewAuthError cria um novo erro de autenticação
func NewAuthError(baseErr error, code string, details string) *AuthError {
	return &AuthError{
		Err:     baseErr,
		Code:    code,
		Details: details,
	}
}

// IsUnauthorizedUser verifica se o erro é de usuário fora da lista
func IsUnauthorizedUser(err error) bool {
	return errors.Is(err, ErrUnauthorizedUser)
}

// IsSessionError verifica se o erro está relacionado à sessão
func IsSessionError(err error) bool {
	return errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrSessionNotFound) ||
		errors.Is(err, ErrExpiredSession)
}
