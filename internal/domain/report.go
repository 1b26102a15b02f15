package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Month identifica um mês de referência dos relatórios
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf extrai o mês de referência de uma data
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// ParseMonth interpreta uma chave no formato "2006-01"
func ParseMonth(key string) (Month, error) {
	parsed, err := time.Parse("2006-01", key)
	if err != nil {
		return Month{}, fmt.Errorf("mês inválido %q: use o formato AAAA-MM", key)
	}
	return MonthOf(parsed), nil
}

// Key retorna a chave estável do mês ("2006-01")
func (m Month) Key() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Label retorna o rótulo exibido nas páginas ("January 2006")
func (m Month) Label() string {
	return fmt.Sprintf("%s %d", m.Month.String(), m.Year)
}

// Contains indica se a data pertence a este mês
func (m Month) Contains(t time.Time) bool {
	return t.Year() == m.Year && t.Month() == m.Month
}

// Before compara meses cronologicamente
func (m Month) Before(other Month) bool {
	if m.Year != other.Year {
		return m.Year < other.Year
	}
	return m.Month < other.Month
}

// ItemSummary agrega os totais de um item
type ItemSummary struct {
	Item       string          `json:"item"`
	OrderCount int             `json:"order_count"`
	TotalSales decimal.Decimal `json:"total_sales"`
}

// CustomerSummary agrega os totais de um cliente
type CustomerSummary struct {
	Customer    string          `json:"customer"`
	TotalOrders int             `json:"total_orders"`
	TotalSpent  decimal.Decimal `json:"total_spent"`
}

// MonthlySummary resume as vendas de um único mês
type MonthlySummary struct {
	Month           Month           `json:"-"`
	MonthKey        string          `json:"month"`
	TotalOrders     int             `json:"total_orders"`
	TotalSales      decimal.Decimal `json:"total_sales"`
	MostOrderedItem string          `json:"most_ordered_item"`
}

// ItemStats reúne as estatísticas estendidas de um item para a aba de itens
type ItemStats struct {
	Item         string            `json:"item"`
	OrderCount   int               `json:"order_count"`
	TotalSales   decimal.Decimal   `json:"total_sales"`
	TopCustomers []CustomerSummary `json:"top_customers"`
	RecentOrders []SalesRecord     `json:"recent_orders"`
}

// RangePreset identifica o recorte de datas da aba de tendências
type RangePreset string

const (
	RangeThisMonth   RangePreset = "this_month"
	RangeLast3Months RangePreset = "last_3_months"
	RangeLast6Months RangePreset = "last_6_months"
	RangeAllTime     RangePreset = "all_time"
)

// ParseRangePreset normaliza o preset recebido da página; valores
// desconhecidos caem no mês atual, como no comportamento original
func ParseRangePreset(raw string) RangePreset {
	switch RangePreset(raw) {
	case RangeLast3Months, RangeLast6Months, RangeAllTime, RangeThisMonth:
		return RangePreset(raw)
	default:
		return RangeThisMonth
	}
}

// TrendPoint é o total de vendas de um único dia
type TrendPoint struct {
	Date  time.Time       `json:"date"`
	Total decimal.Decimal `json:"total"`
}

// TrendSeries é a série diária de vendas de um recorte de datas
type TrendSeries struct {
	Preset RangePreset  `json:"preset"`
	Start  time.Time    `json:"start"`
	End    time.Time    `json:"end"`
	Points []TrendPoint `json:"points"`
}
