package authenticating

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAllowlist(t *testing.T) {
	t.Run("Carrega emails ignorando comentários e linhas vazias", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "authorized_users.txt")
		content := "# equipe\nalice@example.com\n\n  bruno@example.com  \n# fim\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		list, err := LoadAllowlist(path)
		require.NoError(t, err)

		assert.Equal(t, 2, list.Size())
		assert.True(t, list.Contains("alice@example.com"))
		assert.True(t, list.Contains("bruno@example.com"))
		assert.False(t, list.Contains("carla@example.com"))
	})

	t.Run("Comparação de email não diferencia caixa", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "authorized_users.txt")
		require.NoError(t, os.WriteFile(path, []byte("Alice@Example.COM\n"), 0o600))

		list, err := LoadAllowlist(path)
		require.NoError(t, err)

		assert.True(t, list.Contains("alice@example.com"))
		assert.True(t, list.Contains("ALICE@EXAMPLE.COM"))
	})

	t.Run("Arquivo ausente cria placeholder e retorna lista vazia", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "authorized_users.txt")

		list, err := LoadAllowlist(path)
		require.NoError(t, err)
		assert.Equal(t, 0, list.Size())

		// O placeholder deve existir para o operador preencher depois
		created, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(created), "#")
	})
}
