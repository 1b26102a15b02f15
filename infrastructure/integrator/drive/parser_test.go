package drive

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-dashboard/internal/domain"
	"github.com/xuri/excelize/v2"
)

// buildWorkbook monta uma planilha em memória no formato usado em produção
func buildWorkbook(t *testing.T, sheetName string, rows [][]interface{}) *excelize.File {
	t.Helper()

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", sheetName))

	for rowIdx, row := range rows {
		for colIdx, value := range row {
			cellName, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheetName, cellName, value))
		}
	}

	return f
}

func workbookBytes(t *testing.T, f *excelize.File) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func ordersRows() [][]interface{} {
	return [][]interface{}{
		{"DATE", "ORDERED BY", "ITEM NAME", "QTY", "AMOUNT", "PAID", "DUE", "STATUS", ""},
		{"2024-01-05", "Alice", "Chocolate Chip", 2, "100", "100", "0", "Delivered", "350"},
		{"", "Bruno", "Oatmeal", 1, "50", "25", "25", "Pending", "1"},
		{"2024-02-10", "Alice", "Chocolate Chip", 1, "50", "50", "0", "Delivered", "2"},
		{"sem data", "Carla", "Brownie", 1, "75", "0", "75", "Pending", "400"},
		{"2024-02-11", "Dora", "Brownie", 3, "225", "225", "0", "Cancelled", "120"},
	}
}

func TestParseWorkbook(t *testing.T) {
	t.Run("Linhas válidas com forward-fill de data", func(t *testing.T) {
		f := buildWorkbook(t, "Orders", ordersRows())

		table, err := ParseWorkbook(workbookBytes(t, f), "Orders", "Customers")
		require.NoError(t, err)

		// A linha com data ilegível ("sem data") é descartada na carga
		require.Len(t, table.Records, 4)

		first := table.Records[0]
		assert.Equal(t, "Alice", first.Customer)
		assert.Equal(t, "Chocolate Chip", first.Item)
		assert.Equal(t, 2, first.Quantity)
		assert.True(t, first.Amount.Equal(decimal.NewFromInt(100)))
		assert.Equal(t, domain.StatusDelivered, first.Status)

		// Segunda linha com a célula de data em branco herda a data da primeira
		assert.Equal(t, first.Date, table.Records[1].Date)
		assert.Equal(t, domain.StatusPending, table.Records[1].Status)

		// Última linha mantém a própria data
		assert.Equal(t, 11, table.Records[3].Date.Day())
		assert.Equal(t, domain.StatusCancelled, table.Records[3].Status)
	})

	t.Run("Bloco de resumo lido da coluna I", func(t *testing.T) {
		f := buildWorkbook(t, "Orders", ordersRows())

		table, err := ParseWorkbook(workbookBytes(t, f), "Orders", "Customers")
		require.NoError(t, err)

		assert.True(t, table.Summary.TotalPaid.Equal(decimal.NewFromInt(350)))
		assert.Equal(t, 1, table.Summary.PendingOrders)
		assert.Equal(t, 2, table.Summary.TotalDelivered)
		assert.True(t, table.Summary.TotalSalesAllTime.Equal(decimal.NewFromInt(400)))
		assert.True(t, table.Summary.TotalDue.Equal(decimal.NewFromInt(120)))
	})

	t.Run("Aba Orders ausente cai na primeira aba", func(t *testing.T) {
		f := buildWorkbook(t, "Planilha Principal", ordersRows())

		table, err := ParseWorkbook(workbookBytes(t, f), "Orders", "Customers")
		require.NoError(t, err)
		assert.Len(t, table.Records, 5)
	})

	t.Run("Aba Customers presente é usada e ordenada por gasto", func(t *testing.T) {
		f := buildWorkbook(t, "Orders", ordersRows())

		_, err := f.NewSheet("Customers")
		require.NoError(t, err)
		customerRows := [][]interface{}{
			{"ORDERED BY", "TOTAL AMOUNT"},
			{"Bruno", "50"},
			{"Alice", "150"},
		}
		for rowIdx, row := range customerRows {
			for colIdx, value := range row {
				cellName, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
				require.NoError(t, err)
				require.NoError(t, f.SetCellValue("Customers", cellName, value))
			}
		}

		table, err := ParseWorkbook(workbookBytes(t, f), "Orders", "Customers")
		require.NoError(t, err)

		require.Len(t, table.SheetCustomers, 2)
		assert.Equal(t, "Alice", table.SheetCustomers[0].Customer)
		assert.Equal(t, "Bruno", table.SheetCustomers[1].Customer)
	})

	t.Run("Aba Customers sem as colunas obrigatórias vira fallback", func(t *testing.T) {
		f := buildWorkbook(t, "Orders", ordersRows())

		_, err := f.NewSheet("Customers")
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue("Customers", "A1", "NOME"))
		require.NoError(t, f.SetCellValue("Customers", "A2", "Alice"))

		table, err := ParseWorkbook(workbookBytes(t, f), "Orders", "Customers")
		require.NoError(t, err)
		assert.Nil(t, table.SheetCustomers)
	})

	t.Run("Conteúdo inválido retorna FetchError", func(t *testing.T) {
		_, err := ParseWorkbook([]byte("isto não é um xlsx"), "Orders", "Customers")
		require.Error(t, err)
		assert.True(t, IsFetchError(err))
	})
}

func TestParseMoney(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected decimal.Decimal
	}{
		{"Valor simples", "1500", decimal.NewFromInt(1500)},
		{"Com símbolo de moeda e separador", "₹1,234.50", decimal.RequireFromString("1234.50")},
		{"Célula vazia vale zero", "", decimal.Zero},
		{"Texto ilegível vale zero", "n/a", decimal.Zero},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.expected.Equal(parseMoney(tt.raw)))
		})
	}
}

func TestParseSheetDate(t *testing.T) {
	t.Run("Número de série do Excel", func(t *testing.T) {
		// 45292 corresponde a 2024-01-01
		parsed, ok := parseSheetDate("45292")
		assert.True(t, ok)
		assert.Equal(t, 2024, parsed.Year())
		assert.Equal(t, 1, int(parsed.Month()))
		assert.Equal(t, 1, parsed.Day())
	})

	t.Run("Texto sem formato conhecido", func(t *testing.T) {
		_, ok := parseSheetDate("amanhã")
		assert.False(t, ok)
	})
}
