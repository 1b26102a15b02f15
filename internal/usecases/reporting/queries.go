// Package reporting contém as consultas de agregação do dashboard.
// Todas são funções puras sobre um snapshot: determinísticas, sem efeito
// colateral e seguras para qualquer número de requisições concorrentes.
package reporting

import (
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vfg2006/sales-dashboard/internal/domain"
	"github.com/vfg2006/sales-dashboard/pkg/utils"
)

// ErrEmptyTable indica consulta sobre um snapshot sem registros.
// Os handlers tratam este erro renderizando uma visão vazia, nunca
// quebrando a requisição.
var ErrEmptyTable = errors.New("snapshot de vendas sem registros")

// NoItemLabel é exibido quando um mês não tem vendas e agrupa pedidos
// cujo nome de item veio em branco da planilha
const NoItemLabel = "N/A"

// itemAccumulator acompanha a agregação por item preservando a ordem de
// primeira aparição na planilha, usada como desempate
type itemAccumulator struct {
	summary   domain.ItemSummary
	firstSeen int
}

// ItemTotals agrega pedidos por item: contagem e soma de vendas.
// Ordenação: vendas decrescentes; empates resolvidos pela ordem de
// primeira aparição do item na planilha. Pedidos sem nome de item
// entram no rótulo "N/A" para que a soma por item sempre feche com o
// total geral de vendas.
func ItemTotals(table *domain.SalesTable) ([]domain.ItemSummary, error) {
	if table.Empty() {
		return nil, ErrEmptyTable
	}

	byItem := make(map[string]*itemAccumulator)
	order := make([]string, 0)

	for idx, record := range table.Records {
		item := record.Item
		if item == "" {
			item = NoItemLabel
		}

		acc, ok := byItem[item]
		if !ok {
			acc = &itemAccumulator{
				summary:   domain.ItemSummary{Item: item, TotalSales: decimal.Zero},
				firstSeen: idx,
			}
			byItem[item] = acc
			order = append(order, item)
		}

		acc.summary.OrderCount++
		acc.summary.TotalSales = acc.summary.TotalSales.Add(record.Amount)
	}

	totals := make([]domain.ItemSummary, 0, len(order))
	for _, item := range order {
		totals = append(totals, byItem[item].summary)
	}

	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].TotalSales.GreaterThan(totals[j].TotalSales)
	})

	return totals, nil
}

// TopItems retorna os n itens com maior venda total; sempre um
// subconjunto (prefixo) de ItemTotals
func TopItems(table *domain.SalesTable, n int) ([]domain.ItemSummary, error) {
	totals, err := ItemTotals(table)
	if err != nil {
		return nil, err
	}

	if n < len(totals) {
		totals = totals[:n]
	}

	return totals, nil
}

// TotalSales soma o valor de todos os pedidos do snapshot
func TotalSales(table *domain.SalesTable) decimal.Decimal {
	total := decimal.Zero
	if table.Empty() {
		return total
	}

	for _, record := range table.Records {
		total = total.Add(record.Amount)
	}

	return total
}

// DeliveredTotals soma pago, pendente e vendas apenas dos pedidos
// entregues, que são os que contam como venda concluída
func DeliveredTotals(table *domain.SalesTable) (paid, due, sales decimal.Decimal) {
	paid, due, sales = decimal.Zero, decimal.Zero, decimal.Zero
	if table.Empty() {
		return paid, due, sales
	}

	for _, record := range table.Records {
		if !record.Delivered() {
			continue
		}
		paid = paid.Add(record.Paid)
		due = due.Add(record.Due)
		sales = sales.Add(record.Amount)
	}

	return paid, due, sales
}

// MonthlySummary resume os pedidos de um único mês
func MonthlySummary(table *domain.SalesTable, month domain.Month) (*domain.MonthlySummary, error) {
	if table.Empty() {
		return nil, ErrEmptyTable
	}

	summary := &domain.MonthlySummary{
		Month:           month,
		MonthKey:        month.Key(),
		TotalSales:      decimal.Zero,
		MostOrderedItem: NoItemLabel,
	}

	salesByItem := make(map[string]decimal.Decimal)
	itemOrder := make([]string, 0)

	for _, record := range table.Records {
		if !month.Contains(record.Date) {
			continue
		}

		summary.TotalOrders++
		summary.TotalSales = summary.TotalSales.Add(record.Amount)

		item := record.Item
		if item == "" {
			item = NoItemLabel
		}
		if _, ok := salesByItem[item]; !ok {
			itemOrder = append(itemOrder, item)
		}
		salesByItem[item] = salesByItem[item].Add(record.Amount)
	}

	if summary.TotalSales.IsPositive() {
		best := decimal.Zero
		for _, item := range itemOrder {
			if salesByItem[item].GreaterThan(best) {
				best = salesByItem[item]
				summary.MostOrderedItem = item
			}
		}
	}

	return summary, nil
}

// CustomerTotals agrega pedidos por cliente. Quando a planilha tem a aba
// dedicada de clientes, ela prevalece; senão os totais são derivados dos
// pedidos. Ordenação: gasto total decrescente.
func CustomerTotals(table *domain.SalesTable) ([]domain.CustomerSummary, error) {
	if table.Empty() {
		return nil, ErrEmptyTable
	}

	if len(table.SheetCustomers) > 0 {
		return table.SheetCustomers, nil
	}

	byCustomer := make(map[string]*domain.CustomerSummary)
	order := make([]string, 0)

	for _, record := range table.Records {
		if record.Customer == "" {
			continue
		}

		acc, ok := byCustomer[record.Customer]
		if !ok {
			acc = &domain.CustomerSummary{Customer: record.Customer, TotalSpent: decimal.Zero}
			byCustomer[record.Customer] = acc
			order = append(order, record.Customer)
		}

		acc.TotalOrders++
		acc.TotalSpent = acc.TotalSpent.Add(record.Amount)
	}

	customers := make([]domain.CustomerSummary, 0, len(order))
	for _, name := range order {
		customers = append(customers, *byCustomer[name])
	}

	sort.SliceStable(customers, func(i, j int) bool {
		return customers[i].TotalSpent.GreaterThan(customers[j].TotalSpent)
	})

	return customers, nil
}

// ItemStats calcula as estatísticas estendidas de um item: contagem,
// venda total, cinco maiores clientes e cinco pedidos mais recentes
func ItemStats(table *domain.SalesTable, item string) (*domain.ItemStats, error) {
	if table.Empty() {
		return nil, ErrEmptyTable
	}

	stats := &domain.ItemStats{
		Item:       item,
		TotalSales: decimal.Zero,
	}

	filtered := make([]domain.SalesRecord, 0)
	for _, record := range table.Records {
		if record.Item != item {
			continue
		}
		filtered = append(filtered, record)
		stats.OrderCount++
		stats.TotalSales = stats.TotalSales.Add(record.Amount)
	}

	if len(filtered) == 0 {
		return stats, nil
	}

	byCustomer := make(map[string]*domain.CustomerSummary)
	order := make([]string, 0)
	for _, record := range filtered {
		acc, ok := byCustomer[record.Customer]
		if !ok {
			acc = &domain.CustomerSummary{Customer: record.Customer, TotalSpent: decimal.Zero}
			byCustomer[record.Customer] = acc
			order = append(order, record.Customer)
		}
		acc.TotalOrders++
		acc.TotalSpent = acc.TotalSpent.Add(record.Amount)
	}

	customers := make([]domain.CustomerSummary, 0, len(order))
	for _, name := range order {
		customers = append(customers, *byCustomer[name])
	}
	sort.SliceStable(customers, func(i, j int) bool {
		return customers[i].TotalSpent.GreaterThan(customers[j].TotalSpent)
	})
	if len(customers) > 5 {
		customers = customers[:5]
	}
	stats.TopCustomers = customers

	recent := make([]domain.SalesRecord, len(filtered))
	copy(recent, filtered)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Date.After(recent[j].Date)
	})
	if len(recent) > 5 {
		recent = recent[:5]
	}
	stats.RecentOrders = recent

	return stats, nil
}

// DailyTrend calcula a série diária de vendas para um recorte de datas.
// O preset "all_time" cobre exatamente da menor à maior data de pedido
// do snapshot.
func DailyTrend(table *domain.SalesTable, preset domain.RangePreset, now time.Time) (*domain.TrendSeries, error) {
	if table.Empty() {
		return nil, ErrEmptyTable
	}

	start, end := resolveRange(table, preset, now)

	byDay := make(map[time.Time]decimal.Decimal)
	days := make([]time.Time, 0)

	for _, record := range table.Records {
		day := utils.DateOnly(record.Date)
		if day.Before(start) || day.After(end) {
			continue
		}

		if _, ok := byDay[day]; !ok {
			days = append(days, day)
		}
		byDay[day] = byDay[day].Add(record.Amount)
	}

	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	points := make([]domain.TrendPoint, 0, len(days))
	for _, day := range days {
		points = append(points, domain.TrendPoint{Date: day, Total: byDay[day]})
	}

	return &domain.TrendSeries{
		Preset: preset,
		Start:  start,
		End:    end,
		Points: points,
	}, nil
}

func resolveRange(table *domain.SalesTable, preset domain.RangePreset, now time.Time) (start, end time.Time) {
	today := utils.DateOnly(now)

	switch preset {
	case domain.RangeLast3Months:
		return utils.SubtractMonths(today, 2), today
	case domain.RangeLast6Months:
		return utils.SubtractMonths(today, 5), today
	case domain.RangeAllTime:
		first, last, _ := table.DateRange()
		return utils.DateOnly(first), utils.DateOnly(last)
	default:
		return utils.StartOfMonth(today), today
	}
}
