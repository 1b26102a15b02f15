package cache

import (
	"context"
	"sync"
	"time"

	"github.com/vfg2006/sales-dashboard/infrastructure/integrator/drive"
	"github.com/vfg2006/sales-dashboard/internal/domain"
	"github.com/vfg2006/sales-dashboard/pkg/log"
	"golang.org/x/sync/singleflight"
)

// refreshKey é a chave única do singleflight: existe um só snapshot por
// processo, então todas as buscas concorrentes compartilham o mesmo voo
const refreshKey = "sales-snapshot"

// Holder guarda o último snapshot da planilha com validade por tempo.
// É o único estado mutável compartilhado do processo; toda mutação passa
// pelo mutex e buscas concorrentes em cache frio disparam no máximo um
// download simultâneo.
type Holder struct {
	fetcher drive.Integrator
	ttl     time.Duration

	mu        sync.RWMutex
	table     *domain.SalesTable
	fetchedAt time.Time
	forced    bool

	group singleflight.Group

	// now é substituível em testes
	now func() time.Time
}

// NewHolder cria o cache de snapshot da planilha
func NewHolder(fetcher drive.Integrator, ttl time.Duration) *Holder {
	return &Holder{
		fetcher: fetcher,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get retorna o snapshot vigente. Com cache válido, devolve o snapshot
// armazenado sem buscar nada; caso contrário busca na fonte, armazena e
// devolve. Se a busca falhar e existir um snapshot anterior, ele é
// servido no lugar do erro (dado obsoleto é melhor que página quebrada);
// sem snapshot anterior, o FetchError é propagado.
func (h *Holder) Get(ctx context.Context) (*domain.SalesTable, error) {
	if table, ok := h.fresh(); ok {
		return table, nil
	}

	result, err, _ := h.group.Do(refreshKey, func() (interface{}, error) {
		// Outro voo pode ter renovado o cache enquanto aguardávamos
		if table, ok := h.fresh(); ok {
			return table, nil
		}
		return h.refresh(ctx)
	})
	if err != nil {
		return nil, err
	}

	return result.(*domain.SalesTable), nil
}

// ForceRefresh invalida o snapshot incondicionalmente; a próxima chamada
// de Get fará uma busca na fonte, independente do TTL
func (h *Holder) ForceRefresh() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.forced = true
	log.L.Info("cache: snapshot invalidado manualmente")
}

// LastUpdated informa quando o snapshot vigente foi buscado
func (h *Holder) LastUpdated() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.fetchedAt
}

// fresh devolve o snapshot quando ele ainda está dentro da validade
func (h *Holder) fresh() (*domain.SalesTable, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.table == nil || h.forced {
		return nil, false
	}

	if h.now().Sub(h.fetchedAt) >= h.ttl {
		return nil, false
	}

	return h.table, true
}

func (h *Holder) refresh(ctx context.Context) (*domain.SalesTable, error) {
	log.ForContext(ctx).Info("cache: snapshot ausente ou expirado; buscando dados na fonte")

	table, err := h.fetcher.FetchAllRecords(ctx)
	if err != nil {
		h.mu.RLock()
		stale := h.table
		h.mu.RUnlock()

		if stale != nil {
			log.ForContext(ctx).WithError(err).Warn("cache: busca falhou; servindo snapshot obsoleto")
			return stale, nil
		}

		return nil, err
	}

	h.mu.Lock()
	h.table = table
	h.fetchedAt = h.now()
	h.forced = false
	h.mu.Unlock()

	log.ForContext(ctx).WithField("records", len(table.Records)).Info("cache: snapshot renovado com sucesso")
	return table, nil
}
