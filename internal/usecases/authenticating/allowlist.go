package authenticating

import (
	"bufio"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

const allowlistPlaceholder = "# Adicione um email autorizado por linha\n"

// Allowlist é a lista fixa de emails com acesso ao dashboard
type Allowlist struct {
	path   string
	emails map[string]struct{}
}

// LoadAllowlist carrega os emails autorizados de um arquivo texto, um
// por linha; linhas vazias e comentários (#) são ignorados. Arquivo
// ausente gera um placeholder e uma lista vazia, como no comportamento
// original.
func LoadAllowlist(path string) (*Allowlist, error) {
	list := &Allowlist{
		path:   path,
		emails: make(map[string]struct{}),
	}

	file, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}

		logrus.Warnf("Arquivo de autorização %q não encontrado; criando placeholder", path)
		if writeErr := os.WriteFile(path, []byte(allowlistPlaceholder), 0o600); writeErr != nil {
			logrus.WithError(writeErr).Warn("Não foi possível criar o placeholder de autorização")
		}
		return list, nil
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		list.emails[strings.ToLower(line)] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	logrus.Infof("Lista de autorização carregada: %d usuário(s) de %q", len(list.emails), path)
	return list, nil
}

// Contains verifica se o email está autorizado (sem diferenciar caixa)
func (a *Allowlist) Contains(email string) bool {
	_, ok := a.emails[strings.ToLower(strings.TrimSpace(email))]
	return ok
}

// Size retorna a quantidade de emails autorizados
func (a *Allowlist) Size() int {
	return len(a.emails)
}
