package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-dashboard/internal/cache"
	"github.com/vfg2006/sales-dashboard/internal/domain"
	"github.com/vfg2006/sales-dashboard/internal/render"
	"github.com/vfg2006/sales-dashboard/internal/usecases/reporting"
)

// ItemShareChart serve o gráfico de rosca com a participação dos itens nas
// vendas como PNG
func ItemShareChart(holder *cache.Holder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		table, err := holder.Get(r.Context())
		if err != nil {
			logrus.WithError(err).Error("Erro ao obter snapshot para o gráfico de itens")
			http.Error(w, "snapshot indisponível", http.StatusBadGateway)
			return
		}

		items, err := reporting.ItemTotals(table)
		if err != nil {
			http.Error(w, "sem dados para o gráfico", http.StatusNotFound)
			return
		}

		png, err := render.ItemShareChart(items)
		if err != nil {
			logrus.WithError(err).Error("Erro ao renderizar o gráfico de itens")
			http.Error(w, "falha ao renderizar o gráfico", http.StatusInternalServerError)
			return
		}

		writePNG(w, png)
	}
}

// TrendChart serve a série diária de vendas do período como PNG. O recorte
// vem do parâmetro "range".
func TrendChart(holder *cache.Holder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		table, err := holder.Get(r.Context())
		if err != nil {
			logrus.WithError(err).Error("Erro ao obter snapshot para o gráfico de tendência")
			http.Error(w, "snapshot indisponível", http.StatusBadGateway)
			return
		}

		preset := domain.ParseRangePreset(r.URL.Query().Get("range"))

		series, err := reporting.DailyTrend(table, preset, time.Now())
		if err != nil {
			http.Error(w, "sem dados para o gráfico", http.StatusNotFound)
			return
		}

		png, err := render.TrendChart(series)
		if err != nil {
			logrus.WithError(err).Error("Erro ao renderizar o gráfico de tendência")
			http.Error(w, "falha ao renderizar o gráfico", http.StatusInternalServerError)
			return
		}

		writePNG(w, png)
	}
}

func writePNG(w http.ResponseWriter, png []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))

	if _, err := w.Write(png); err != nil {
		logrus.WithError(err).Warn("Erro ao enviar imagem do gráfico")
	}
}
