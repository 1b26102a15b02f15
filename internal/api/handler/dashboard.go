package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-dashboard/infrastructure/integrator/drive"
	"github.com/vfg2006/sales-dashboard/internal/cache"
	"github.com/vfg2006/sales-dashboard/internal/domain"
	"github.com/vfg2006/sales-dashboard/internal/usecases/reporting"
	"github.com/vfg2006/sales-dashboard/pkg/middleware"
)

const (
	tabMonthwise = "monthwise"
	tabTotals    = "totals"
	tabCustomers = "customers"
	tabItems     = "items"
	tabTrends    = "trends"
)

type dashboardView struct {
	User      *domain.User
	UpdatedAt string
	ActiveTab string
	Empty     bool

	Months    []monthOption
	Monthly   *monthlyView
	Totals    *totalsView
	Customers []customerRow
	Items     *itemsView
	Trends    *trendsView
}

type monthOption struct {
	Key      string
	Label    string
	Selected bool
}

type monthlyView struct {
	Label           string
	TotalOrders     int
	TotalSales      string
	MostOrderedItem string
	Items           []itemRow
}

type itemRow struct {
	Item       string
	OrderCount int
	TotalSales string
}

type totalsView struct {
	TotalPaid         string
	PendingOrders     int
	TotalDelivered    int
	TotalSalesAllTime string
	TotalDue          string
	DeliveredPaid     string
	DeliveredDue      string
	DeliveredSales    string
}

type customerRow struct {
	Customer    string
	TotalOrders int
	TotalSpent  string
}

type itemsView struct {
	Options []itemOption
	Stats   *itemStatsView
}

type itemOption struct {
	Name     string
	Selected bool
}

type itemStatsView struct {
	Item         string
	OrderCount   int
	TotalSales   string
	TopCustomers []customerRow
	RecentOrders []orderRow
}

type orderRow struct {
	Date     string
	Customer string
	Quantity int
	Amount   string
	Status   string
}

type trendsView struct {
	Presets  []presetOption
	Selected string
	Start    string
	End      string
	Total    string
}

type presetOption struct {
	Value    string
	Label    string
	Selected bool
}

var trendPresets = []presetOption{
	{Value: string(domain.RangeThisMonth), Label: "Este mês"},
	{Value: string(domain.RangeLast3Months), Label: "Últimos 3 meses"},
	{Value: string(domain.RangeLast6Months), Label: "Últimos 6 meses"},
	{Value: string(domain.RangeAllTime), Label: "Todo o período"},
}

// DashboardPage monta a página principal do painel a partir do snapshot em
// cache. Cada aba lê apenas as agregações de que precisa.
func DashboardPage(holder *cache.Holder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := r.Context().Value(middleware.ContextKeySession).(*domain.Session)
		if !ok {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}

		table, err := holder.Get(r.Context())
		if err != nil {
			logrus.WithError(err).Error("Erro ao obter snapshot de vendas para o painel")
			renderFetchError(w, err)
			return
		}

		view := &dashboardView{
			User:      &session.User,
			UpdatedAt: holder.LastUpdated().Format("02/01/2006 15:04"),
			ActiveTab: activeTab(r.URL.Query().Get("tab")),
			Empty:     table.Empty(),
		}

		if !view.Empty {
			if err := populateTab(view, table, r, time.Now()); err != nil {
				logrus.WithError(err).Error("Erro ao agregar dados para o painel")
				renderPage(w, http.StatusInternalServerError, "error.html", errorView{
					Title:   "Erro ao montar o painel",
					Message: "Não foi possível agregar os dados de vendas. Tente novamente.",
				})
				return
			}
		}

		renderPage(w, http.StatusOK, "dashboard.html", view)
	}
}

// RefreshSnapshot marca o snapshot para renovação forçada e volta ao painel
func RefreshSnapshot(holder *cache.Holder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		holder.ForceRefresh()
		logrus.Info("Renovação forçada do snapshot solicitada pelo usuário")
		http.Redirect(w, r, "/dashboard", http.StatusFound)
	}
}

func activeTab(tab string) string {
	switch tab {
	case tabTotals, tabCustomers, tabItems, tabTrends:
		return tab
	default:
		return tabMonthwise
	}
}

func populateTab(view *dashboardView, table *domain.SalesTable, r *http.Request, now time.Time) error {
	switch view.ActiveTab {
	case tabMonthwise:
		return populateMonthwise(view, table, r.URL.Query().Get("month"))
	case tabTotals:
		populateTotals(view, table)
		return nil
	case tabCustomers:
		return populateCustomers(view, table)
	case tabItems:
		return populateItems(view, table, r.URL.Query().Get("item"))
	case tabTrends:
		return populateTrends(view, table, r.URL.Query().Get("range"), now)
	}

	return nil
}

func populateMonthwise(view *dashboardView, table *domain.SalesTable, rawMonth string) error {
	months := table.Months()
	if len(months) == 0 {
		view.Empty = true
		return nil
	}

	selected := months[0]
	if parsed, err := domain.ParseMonth(rawMonth); err == nil {
		for _, month := range months {
			if month == parsed {
				selected = parsed
				break
			}
		}
	}

	view.Months = make([]monthOption, 0, len(months))
	for _, month := range months {
		view.Months = append(view.Months, monthOption{
			Key:      month.Key(),
			Label:    month.Label(),
			Selected: month == selected,
		})
	}

	summary, err := reporting.MonthlySummary(table, selected)
	if err != nil {
		return err
	}

	monthItems := monthItemRows(table, selected)

	view.Monthly = &monthlyView{
		Label:           selected.Label(),
		TotalOrders:     summary.TotalOrders,
		TotalSales:      formatMoney(summary.TotalSales),
		MostOrderedItem: summary.MostOrderedItem,
		Items:           monthItems,
	}

	return nil
}

// monthItemRows agrega os itens vendidos dentro de um único mês
func monthItemRows(table *domain.SalesTable, month domain.Month) []itemRow {
	filtered := &domain.SalesTable{Summary: table.Summary}
	for _, record := range table.Records {
		if month.Contains(record.Date) {
			filtered.Records = append(filtered.Records, record)
		}
	}

	items, err := reporting.ItemTotals(filtered)
	if err != nil {
		return nil
	}

	rows := make([]itemRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, itemRow{
			Item:       item.Item,
			OrderCount: item.OrderCount,
			TotalSales: formatMoney(item.TotalSales),
		})
	}

	return rows
}

func populateTotals(view *dashboardView, table *domain.SalesTable) {
	paid, due, sales := reporting.DeliveredTotals(table)

	view.Totals = &totalsView{
		TotalPaid:         formatMoney(table.Summary.TotalPaid),
		PendingOrders:     table.Summary.PendingOrders,
		TotalDelivered:    table.Summary.TotalDelivered,
		TotalSalesAllTime: formatMoney(table.Summary.TotalSalesAllTime),
		TotalDue:          formatMoney(table.Summary.TotalDue),
		DeliveredPaid:     formatMoney(paid),
		DeliveredDue:      formatMoney(due),
		DeliveredSales:    formatMoney(sales),
	}
}

func populateCustomers(view *dashboardView, table *domain.SalesTable) error {
	customers, err := reporting.CustomerTotals(table)
	if err != nil {
		return err
	}

	view.Customers = make([]customerRow, 0, len(customers))
	for _, customer := range customers {
		view.Customers = append(view.Customers, customerRow{
			Customer:    customer.Customer,
			TotalOrders: customer.TotalOrders,
			TotalSpent:  formatMoney(customer.TotalSpent),
		})
	}

	return nil
}

func populateItems(view *dashboardView, table *domain.SalesTable, rawItem string) error {
	items := table.Items()
	if len(items) == 0 {
		view.Empty = true
		return nil
	}

	selected := items[0]
	for _, item := range items {
		if item == rawItem {
			selected = item
			break
		}
	}

	stats, err := reporting.ItemStats(table, selected)
	if err != nil {
		return err
	}

	options := make([]itemOption, 0, len(items))
	for _, item := range items {
		options = append(options, itemOption{Name: item, Selected: item == selected})
	}

	statsView := &itemStatsView{
		Item:       stats.Item,
		OrderCount: stats.OrderCount,
		TotalSales: formatMoney(stats.TotalSales),
	}

	for _, customer := range stats.TopCustomers {
		statsView.TopCustomers = append(statsView.TopCustomers, customerRow{
			Customer:    customer.Customer,
			TotalOrders: customer.TotalOrders,
			TotalSpent:  formatMoney(customer.TotalSpent),
		})
	}

	for _, order := range stats.RecentOrders {
		statsView.RecentOrders = append(statsView.RecentOrders, orderRow{
			Date:     order.Date.Format("02/01/2006"),
			Customer: order.Customer,
			Quantity: order.Quantity,
			Amount:   formatMoney(order.Amount),
			Status:   string(order.Status),
		})
	}

	view.Items = &itemsView{Options: options, Stats: statsView}

	return nil
}

func populateTrends(view *dashboardView, table *domain.SalesTable, rawRange string, now time.Time) error {
	preset := domain.ParseRangePreset(rawRange)

	series, err := reporting.DailyTrend(table, preset, now)
	if err != nil {
		return err
	}

	total := decimal.Zero
	for _, point := range series.Points {
		total = total.Add(point.Total)
	}

	presets := make([]presetOption, len(trendPresets))
	copy(presets, trendPresets)
	for i := range presets {
		presets[i].Selected = presets[i].Value == string(preset)
	}

	view.Trends = &trendsView{
		Presets:  presets,
		Selected: string(preset),
		Start:    series.Start.Format("02/01/2006"),
		End:      series.End.Format("02/01/2006"),
		Total:    formatMoney(total),
	}

	return nil
}

// renderFetchError traduz falhas de busca da planilha em uma página de erro
func renderFetchError(w http.ResponseWriter, err error) {
	message := "Não foi possível carregar a planilha de vendas. Tente novamente em instantes."

	switch {
	case errors.Is(err, drive.ErrPermissionDenied):
		message = "O serviço não tem permissão para ler a planilha de vendas."
	case errors.Is(err, drive.ErrFileNotFound):
		message = "A planilha de vendas não foi encontrada no Drive."
	case errors.Is(err, drive.ErrWorkbookInvalid), errors.Is(err, drive.ErrNoSheets):
		message = "A planilha de vendas está em um formato inesperado."
	}

	renderPage(w, http.StatusBadGateway, "error.html", errorView{
		Title:   "Falha ao carregar os dados",
		Message: message,
	})
}

func formatMoney(value decimal.Decimal) string {
	return value.StringFixed(2)
}
