package drive

import (
	"bytes"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-dashboard/internal/domain"
	"github.com/xuri/excelize/v2"
)

// Posição do bloco de resumo na aba de pedidos: coluna I, linhas 2 a 6
const summaryColumn = 8

// Layouts de data aceitos nas células da planilha
var dateLayouts = []string{
	"2006-01-02",
	"01-02-06",
	"1/2/06",
	"01/02/2006",
	"02/01/2006",
	"2-Jan-06",
	"02 Jan 2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	"2006-01-02 15:04:05",
}

// Base de contagem dos números de série de data do Excel
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// ParseWorkbook converte o conteúdo binário da planilha em um SalesTable.
// A aba de pedidos preferida é `ordersSheet`; quando ausente, cai na
// primeira aba do arquivo, como no comportamento original.
func ParseWorkbook(content []byte, ordersSheet, customersSheet string) (*domain.SalesTable, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, NewFetchError(ErrWorkbookInvalid, "open", err.Error())
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, NewFetchError(ErrNoSheets, "open", "")
	}

	sheetName := ordersSheet
	if !containsSheet(sheets, sheetName) {
		logrus.Warnf("Aba %q não encontrada; usando a primeira aba %q", ordersSheet, sheets[0])
		sheetName = sheets[0]
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, NewFetchError(ErrWorkbookInvalid, "parse", err.Error())
	}

	table := &domain.SalesTable{}
	if len(rows) == 0 {
		return table, nil
	}

	columns := mapColumns(rows[0])
	table.Records = parseRecords(rows[1:], columns)
	table.Summary = parseSummary(rows)
	table.SheetCustomers = parseCustomers(f, customersSheet)

	return table, nil
}

func containsSheet(sheets []string, name string) bool {
	for _, sheet := range sheets {
		if sheet == name {
			return true
		}
	}
	return false
}

// mapColumns resolve os índices das colunas a partir do cabeçalho
func mapColumns(header []string) map[string]int {
	columns := make(map[string]int)

	for idx, raw := range header {
		switch normalizeHeader(raw) {
		case "DATE", "ORDER DATE":
			columns["date"] = idx
		case "ORDERED BY", "CUSTOMER":
			columns["customer"] = idx
		case "ITEM NAME", "ITEM":
			columns["item"] = idx
		case "QTY", "QUANTITY":
			columns["quantity"] = idx
		case "AMOUNT", "TOTAL AMOUNT":
			columns["amount"] = idx
		case "PAID", "PAID AMOUNT":
			columns["paid"] = idx
		case "DUE", "DUE AMOUNT":
			columns["due"] = idx
		case "STATUS", "DELIVERY STATUS":
			columns["status"] = idx
		}
	}

	return columns
}

func normalizeHeader(raw string) string {
	return strings.ToUpper(strings.Join(strings.Fields(raw), " "))
}

// parseRecords valida e tipa cada linha de pedido. A coluna de data é
// preenchida para frente (linhas de um mesmo dia deixam a data em branco
// na planilha); linhas sem data aproveitável são descartadas.
func parseRecords(rows [][]string, columns map[string]int) []domain.SalesRecord {
	records := make([]domain.SalesRecord, 0, len(rows))
	dropped := 0

	lastDate := ""
	for _, row := range rows {
		rawDate := cell(row, columns, "date")
		if strings.TrimSpace(rawDate) == "" {
			rawDate = lastDate
		} else {
			lastDate = rawDate
		}

		date, ok := parseSheetDate(rawDate)
		if !ok {
			dropped++
			continue
		}

		records = append(records, domain.SalesRecord{
			Date:     date,
			Customer: strings.TrimSpace(cell(row, columns, "customer")),
			Item:     strings.TrimSpace(cell(row, columns, "item")),
			Quantity: parseInt(cell(row, columns, "quantity")),
			Amount:   parseMoney(cell(row, columns, "amount")),
			Paid:     parseMoney(cell(row, columns, "paid")),
			Due:      parseMoney(cell(row, columns, "due")),
			Status:   domain.ParseDeliveryStatus(cell(row, columns, "status")),
		})
	}

	if dropped > 0 {
		logrus.Warnf("Planilha: %d linha(s) descartada(s) por data inválida", dropped)
	}

	return records
}

// parseSummary lê o bloco de totais mantido pela própria planilha
func parseSummary(rows [][]string) domain.SummaryStats {
	summary := domain.SummaryStats{
		TotalPaid:         decimal.Zero,
		TotalSalesAllTime: decimal.Zero,
		TotalDue:          decimal.Zero,
	}

	value := func(rowIdx int) string {
		if rowIdx >= len(rows) || summaryColumn >= len(rows[rowIdx]) {
			return ""
		}
		return rows[rowIdx][summaryColumn]
	}

	summary.TotalPaid = parseMoney(value(1))
	summary.PendingOrders = parseInt(value(2))
	summary.TotalDelivered = parseInt(value(3))
	summary.TotalSalesAllTime = parseMoney(value(4))
	summary.TotalDue = parseMoney(value(5))

	return summary
}

// parseCustomers lê a aba dedicada de clientes. Qualquer problema
// (aba ausente, colunas erradas) devolve nil e os totais por cliente
// passam a ser derivados dos pedidos.
func parseCustomers(f *excelize.File, customersSheet string) []domain.CustomerSummary {
	rows, err := f.GetRows(customersSheet)
	if err != nil || len(rows) < 2 {
		logrus.Infof("Aba %q indisponível; totais por cliente serão derivados dos pedidos", customersSheet)
		return nil
	}

	columns := mapColumns(rows[0])
	customerIdx, hasCustomer := columns["customer"]
	amountIdx, hasAmount := columns["amount"]
	if !hasCustomer || !hasAmount {
		logrus.Warnf("Aba %q sem as colunas ORDERED BY e TOTAL AMOUNT; usando fallback", customersSheet)
		return nil
	}

	customers := make([]domain.CustomerSummary, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if customerIdx >= len(row) {
			continue
		}

		name := strings.TrimSpace(row[customerIdx])
		if name == "" {
			continue
		}

		spent := decimal.Zero
		if amountIdx < len(row) {
			spent = parseMoney(row[amountIdx])
		}

		customers = append(customers, domain.CustomerSummary{
			Customer:   name,
			TotalSpent: spent,
		})
	}

	sort.SliceStable(customers, func(i, j int) bool {
		return customers[i].TotalSpent.GreaterThan(customers[j].TotalSpent)
	})

	return customers
}

func cell(row []string, columns map[string]int, name string) string {
	idx, ok := columns[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// parseSheetDate aceita os formatos usuais de célula e números de série
// do Excel
func parseSheetDate(raw string) (time.Time, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return parsed, true
		}
	}

	if serial, err := strconv.ParseFloat(trimmed, 64); err == nil && serial > 0 {
		days := int(serial)
		return excelEpoch.AddDate(0, 0, days), true
	}

	return time.Time{}, false
}

// parseMoney coage o valor monetário da célula; células vazias ou
// ilegíveis valem zero, como no carregamento original
func parseMoney(raw string) decimal.Decimal {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.NewReplacer("₹", "", "R$", "", "$", "", ",", "", " ", "").Replace(cleaned)
	if cleaned == "" {
		return decimal.Zero
	}

	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}

	return value
}

func parseInt(raw string) int {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return 0
	}

	if value, err := strconv.Atoi(cleaned); err == nil {
		return value
	}

	// Algumas planilhas formatam contagens como "12.0"
	if value, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return int(value)
	}

	return 0
}
