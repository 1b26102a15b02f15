package domain

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DeliveryStatus representa a situação de entrega de um pedido
type DeliveryStatus string

const (
	StatusDelivered DeliveryStatus = "DELIVERED"
	StatusPending   DeliveryStatus = "PENDING"
	StatusCancelled DeliveryStatus = "CANCELLED"
	StatusUnknown   DeliveryStatus = "UNKNOWN"
)

// SalesRecord representa uma linha da aba de pedidos da planilha.
// Os campos são validados e tipados no carregamento; depois disso o
// registro nunca é alterado.
type SalesRecord struct {
	Date     time.Time       `json:"date"`
	Customer string          `json:"customer"`
	Item     string          `json:"item"`
	Quantity int             `json:"quantity"`
	Amount   decimal.Decimal `json:"amount"`
	Paid     decimal.Decimal `json:"paid"`
	Due      decimal.Decimal `json:"due"`
	Status   DeliveryStatus  `json:"status"`
}

// Delivered indica se o pedido conta como venda concluída
func (r SalesRecord) Delivered() bool {
	return r.Status == StatusDelivered
}

// SummaryStats agrega os totais do bloco de resumo da planilha
type SummaryStats struct {
	TotalPaid         decimal.Decimal `json:"total_paid"`
	PendingOrders     int             `json:"pending_orders"`
	TotalDelivered    int             `json:"total_delivered"`
	TotalSalesAllTime decimal.Decimal `json:"total_sales_all_time"`
	TotalDue          decimal.Decimal `json:"total_due"`
}

// SalesTable é um snapshot imutável de uma geração da planilha de vendas.
// O processo mantém no máximo um snapshot por vez; leitores nunca mutam
// os registros.
type SalesTable struct {
	Records []SalesRecord `json:"records"`
	Summary SummaryStats  `json:"summary"`

	// SheetCustomers vem da aba "Customers" quando ela existe; vazio
	// quando os totais por cliente precisam ser derivados dos pedidos
	SheetCustomers []CustomerSummary `json:"sheet_customers,omitempty"`
}

// Empty indica se o snapshot não possui registros de pedidos
func (t *SalesTable) Empty() bool {
	return t == nil || len(t.Records) == 0
}

// Months retorna os meses presentes na tabela, do mais recente para o
// mais antigo
func (t *SalesTable) Months() []Month {
	if t.Empty() {
		return nil
	}

	seen := make(map[Month]struct{})
	months := make([]Month, 0)

	for _, record := range t.Records {
		month := MonthOf(record.Date)
		if _, ok := seen[month]; ok {
			continue
		}
		seen[month] = struct{}{}
		months = append(months, month)
	}

	sort.Slice(months, func(i, j int) bool {
		return months[j].Before(months[i])
	})

	return months
}

// Items retorna os nomes de itens presentes na tabela em ordem alfabética
func (t *SalesTable) Items() []string {
	if t.Empty() {
		return nil
	}

	seen := make(map[string]struct{})
	items := make([]string, 0)

	for _, record := range t.Records {
		if record.Item == "" {
			continue
		}
		if _, ok := seen[record.Item]; ok {
			continue
		}
		seen[record.Item] = struct{}{}
		items = append(items, record.Item)
	}

	sort.Strings(items)
	return items
}

// DateRange retorna a menor e a maior data de pedido do snapshot
func (t *SalesTable) DateRange() (start, end time.Time, ok bool) {
	if t.Empty() {
		return time.Time{}, time.Time{}, false
	}

	start, end = t.Records[0].Date, t.Records[0].Date
	for _, record := range t.Records[1:] {
		if record.Date.Before(start) {
			start = record.Date
		}
		if record.Date.After(end) {
			end = record.Date
		}
	}

	return start, end, true
}

// ParseDeliveryStatus normaliza o texto de status vindo da planilha
func ParseDeliveryStatus(raw string) DeliveryStatus {
	normalized := strings.ToLower(strings.TrimSpace(raw))

	switch normalized {
	case "delivered", "entregue":
		return StatusDelivered
	case "pending", "pendente":
		return StatusPending
	case "cancelled", "canceled", "cancelado":
		return StatusCancelled
	default:
		return StatusUnknown
	}
}
