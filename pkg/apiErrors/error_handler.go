package apiErrors

import (
	"encoding/json"
	"net/http"
)

// Códigos de erro retornados aos clientes dos endpoints JSON
const (
	// Erros de autenticação
	ErrUnauthenticated   = "AUTH_001" // Sessão ausente ou inválida
	ErrExpiredSession    = "AUTH_002" // Sessão expirada
	ErrUnauthorizedUser  = "AUTH_003" // Usuário fora da lista de autorizados
	ErrOAuthExchange     = "AUTH_004" // Falha na troca do código OAuth
	ErrInvalidOAuthState = "AUTH_005" // Parâmetro state inválido no callback

	// Erros de validação
	ErrInvalidRequest      = "VAL_001" // Requisição inválida
	ErrMissingRequiredData = "VAL_002" // Dados obrigatórios ausentes
	ErrInvalidFormat       = "VAL_003" // Formato de dados inválido

	// Erros do servidor
	ErrInternalServer  = "SRV_001" // Erro interno do servidor
	ErrFetchFailed     = "SRV_002" // Falha ao buscar a planilha de vendas
	ErrExternalService = "SRV_003" // Erro em serviço externo
	ErrEmptyDataset    = "SRV_004" // Snapshot sem registros
)

// Mapeamento de códigos de erro para status HTTP
var httpStatusMap = map[string]int{
	ErrUnauthenticated:     http.StatusUnauthorized,
	ErrExpiredSession:      http.StatusUnauthorized,
	ErrUnauthorizedUser:    http.StatusForbidden,
	ErrOAuthExchange:       http.StatusBadGateway,
	ErrInvalidOAuthState:   http.StatusBadRequest,
	ErrInvalidRequest:      http.StatusBadRequest,
	ErrMissingRequiredData: http.StatusBadRequest,
	ErrInvalidFormat:       http.StatusBadRequest,
	ErrInternalServer:      http.StatusInternalServerError,
	ErrFetchFailed:         http.StatusBadGateway,
	ErrExternalService:     http.StatusBadGateway,
	ErrEmptyDataset:        http.StatusOK,
}

// APIError representa um erro de API padronizado
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

// WriteError escreve o erro padronizado na resposta HTTP
func WriteError(w http.ResponseWriter, code string, message string, details any) {
	status, exists := httpStatusMap[code]
	if !exists {
		status = http.StatusInternalServerError
	}

	apiErr := APIError{
		Code:    code,
		Message: message,
		Details: details,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(apiErr)
}
