package handler

import (
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-dashboard/internal/cache"
	"github.com/vfg2006/sales-dashboard/internal/scheduler"
	"github.com/vfg2006/sales-dashboard/internal/usecases/reporting"
	"github.com/vfg2006/sales-dashboard/pkg/apiErrors"
)

// ListCustomers retorna os totais por cliente em JSON
func ListCustomers(holder *cache.Holder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		table, err := holder.Get(r.Context())
		if err != nil {
			logrus.WithError(err).Error("Erro ao obter snapshot para listagem de clientes")
			apiErrors.WriteError(w, apiErrors.ErrFetchFailed, "Erro ao buscar a planilha de vendas", nil)
			return
		}

		customers, err := reporting.CustomerTotals(table)
		if err != nil {
			if errors.Is(err, reporting.ErrEmptyTable) {
				apiErrors.WriteError(w, apiErrors.ErrEmptyDataset, "Nenhum registro de venda encontrado", nil)
				return
			}

			logrus.WithError(err).Error("Erro ao agregar totais por cliente")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao agregar totais por cliente", nil)
			return
		}

		writeJSON(w, http.StatusOK, customers)
	}
}

// GetSummary retorna o bloco de resumo do snapshot em JSON
func GetSummary(holder *cache.Holder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		table, err := holder.Get(r.Context())
		if err != nil {
			logrus.WithError(err).Error("Erro ao obter snapshot para o resumo")
			apiErrors.WriteError(w, apiErrors.ErrFetchFailed, "Erro ao buscar a planilha de vendas", nil)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"summary":     table.Summary,
			"records":     len(table.Records),
			"total_sales": reporting.TotalSales(table),
			"updated_at":  holder.LastUpdated(),
		})
	}
}

// GetSnapshotStatus retorna o estado do cache e do aquecimento em segundo plano
func GetSnapshotStatus(warmer *scheduler.CacheWarmerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, warmer.GetStatus())
	}
}
