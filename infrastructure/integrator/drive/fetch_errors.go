package drive

import (
	"fmt"

	"github.com/pkg/errors"
)

// Erros base da integração com a fonte de dados
var (
	ErrDownloadFailed   = errors.New("falha ao baixar a planilha do Drive")
	ErrPermissionDenied = errors.New("acesso negado à planilha")
	ErrFileNotFound     = errors.New("planilha não encontrada no Drive")
	ErrWorkbookInvalid  = errors.New("planilha em formato inválido")
	ErrNoSheets         = errors.New("planilha sem abas")
)

// FetchError é um erro com contexto adicional da busca de dados
type FetchError struct {
	Err     error  // Erro base
	Stage   string // Etapa em que a falha ocorreu (download, open, parse)
	Details string // Detalhes adicionais
}

// Error implementa a interface error
func (e *FetchError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

// Unwrap retorna o erro subjacente
func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError cria um novo erro de busca de dados
func NewFetchError(baseErr error, stage string, details string) *FetchError {
	return &FetchError{
		Err:     baseErr,
		Stage:   stage,
		Details: details,
	}
}

// IsFetchError verifica se o erro veio da fronteira com a fonte de dados
func IsFetchError(err error) bool {
	var fetchErr *FetchError
	return errors.As(err, &fetchErr)
}
