package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-dashboard/infrastructure/integrator/drive/mocks"
	"github.com/vfg2006/sales-dashboard/internal/cache"
	"github.com/vfg2006/sales-dashboard/internal/domain"
	"github.com/vfg2006/sales-dashboard/pkg/middleware"
	"go.uber.org/mock/gomock"
)

func testSalesTable() *domain.SalesTable {
	day := func(d int) time.Time {
		return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
	}

	return &domain.SalesTable{
		Records: []domain.SalesRecord{
			{Date: day(5), Customer: "Alice", Item: "Chocolate Chip", Quantity: 2, Amount: decimal.NewFromInt(100), Status: domain.StatusDelivered},
			{Date: day(9), Customer: "Bruno", Item: "Red Velvet", Quantity: 1, Amount: decimal.NewFromInt(50), Status: domain.StatusPending},
			{Date: day(12), Customer: "Alice", Item: "Chocolate Chip", Quantity: 1, Amount: decimal.NewFromInt(60), Status: domain.StatusDelivered},
		},
		Summary: domain.SummaryStats{
			TotalPaid:         decimal.NewFromInt(160),
			PendingOrders:     1,
			TotalDelivered:    2,
			TotalSalesAllTime: decimal.NewFromInt(210),
			TotalDue:          decimal.NewFromInt(50),
		},
	}
}

func testSession() *domain.Session {
	return &domain.Session{
		ID:        "sessao-de-teste",
		User:      domain.User{Email: "alice@example.com", Name: "Alice"},
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func dashboardRequest(target string, session *domain.Session) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if session != nil {
		ctx := context.WithValue(req.Context(), middleware.ContextKeySession, session)
		req = req.WithContext(ctx)
	}
	return req
}

func TestDashboardPage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fetcher := mocks.NewMockIntegrator(ctrl)
	fetcher.EXPECT().FetchAllRecords(gomock.Any()).Return(testSalesTable(), nil).AnyTimes()

	holder := cache.NewHolder(fetcher, 10*time.Minute)
	handler := DashboardPage(holder)

	t.Run("Aba mensal lista itens do mês mais recente", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, dashboardRequest("/dashboard", testSession()))

		require.Equal(t, http.StatusOK, recorder.Code)
		body := recorder.Body.String()
		assert.Contains(t, body, "Chocolate Chip")
		assert.Contains(t, body, "January 2024")
		assert.Contains(t, body, "alice@example.com")
	})

	t.Run("Aba de totais mostra o bloco de resumo", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, dashboardRequest("/dashboard?tab=totals", testSession()))

		require.Equal(t, http.StatusOK, recorder.Code)
		body := recorder.Body.String()
		assert.Contains(t, body, "160.00")
		assert.Contains(t, body, "210.00")
	})

	t.Run("Aba de clientes ordena por total gasto", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, dashboardRequest("/dashboard?tab=customers", testSession()))

		require.Equal(t, http.StatusOK, recorder.Code)
		body := recorder.Body.String()
		assert.Contains(t, body, "Alice")
		assert.Contains(t, body, "Bruno")
	})

	t.Run("Sem sessão no contexto redireciona para a tela de entrada", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, dashboardRequest("/dashboard", nil))

		require.Equal(t, http.StatusFound, recorder.Code)
		assert.Equal(t, "/", recorder.Header().Get("Location"))
	})
}

func TestDashboardPageEmptySnapshot(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fetcher := mocks.NewMockIntegrator(ctrl)
	fetcher.EXPECT().FetchAllRecords(gomock.Any()).Return(&domain.SalesTable{}, nil).AnyTimes()

	holder := cache.NewHolder(fetcher, 10*time.Minute)

	recorder := httptest.NewRecorder()
	DashboardPage(holder).ServeHTTP(recorder, dashboardRequest("/dashboard", testSession()))

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Nenhum registro de venda encontrado")
}

func TestActiveTab(t *testing.T) {
	assert.Equal(t, tabMonthwise, activeTab(""))
	assert.Equal(t, tabMonthwise, activeTab("desconhecida"))
	assert.Equal(t, tabTrends, activeTab("trends"))
	assert.Equal(t, tabItems, activeTab("items"))
}
