package render

import (
	"bytes"

	"github.com/pkg/errors"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/vfg2006/sales-dashboard/internal/domain"
)

const (
	chartWidth  = 640
	chartHeight = 420

	// Máximo de fatias nomeadas no gráfico de itens; o resto vira "Outros"
	maxSlices = 8
)

var (
	backgroundColor = drawing.ColorFromHex("1a1a1a")
	textColor       = drawing.ColorFromHex("e0e0e0")
	gridColor       = drawing.ColorFromHex("3a3a3a")

	palette = []drawing.Color{
		drawing.ColorFromHex("4e9af1"),
		drawing.ColorFromHex("f1734e"),
		drawing.ColorFromHex("4ef19a"),
		drawing.ColorFromHex("f1d24e"),
		drawing.ColorFromHex("b44ef1"),
		drawing.ColorFromHex("f14e9a"),
		drawing.ColorFromHex("4ef1d2"),
		drawing.ColorFromHex("f1a34e"),
		drawing.ColorFromHex("8a8a8a"),
	}
)

// ItemShareChart desenha um gráfico de rosca com a participação de cada item
// nas vendas. Itens além das primeiras fatias são agrupados em "Outros".
func ItemShareChart(items []domain.ItemSummary) ([]byte, error) {
	values := make([]chart.Value, 0, maxSlices+1)
	var others float64

	for i, item := range items {
		total := item.TotalSales.InexactFloat64()
		if total <= 0 {
			continue
		}

		if len(values) >= maxSlices {
			others += total
			continue
		}

		values = append(values, chart.Value{
			Label: item.Item,
			Value: total,
			Style: chart.Style{
				FillColor: palette[i%len(palette)],
				FontColor: textColor,
			},
		})
	}

	if others > 0 {
		values = append(values, chart.Value{
			Label: "Outros",
			Value: others,
			Style: chart.Style{
				FillColor: palette[len(palette)-1],
				FontColor: textColor,
			},
		})
	}

	if len(values) == 0 {
		return nil, errors.New("sem vendas para desenhar o gráfico de itens")
	}

	donut := chart.DonutChart{
		Width:      chartWidth,
		Height:     chartHeight,
		Background: chart.Style{FillColor: backgroundColor},
		Canvas:     chart.Style{FillColor: backgroundColor},
		Values:     values,
	}

	var buf bytes.Buffer
	if err := donut.Render(chart.PNG, &buf); err != nil {
		return nil, errors.Wrap(err, "falha ao renderizar gráfico de itens")
	}

	return buf.Bytes(), nil
}

// TrendChart desenha a série diária de vendas do período como um gráfico de
// linha. Com um único ponto a série é duplicada para manter o eixo válido.
func TrendChart(series *domain.TrendSeries) ([]byte, error) {
	if series == nil || len(series.Points) == 0 {
		return nil, errors.New("série de tendência vazia")
	}

	points := series.Points
	if len(points) == 1 {
		points = append(points, points[0])
	}

	xValues := make([]float64, 0, len(points))
	yValues := make([]float64, 0, len(points))
	for _, point := range points {
		xValues = append(xValues, chart.TimeToFloat64(point.Date))
		yValues = append(yValues, point.Total.InexactFloat64())
	}

	lineColor := palette[0]

	graph := chart.Chart{
		Width:      chartWidth,
		Height:     chartHeight,
		Background: chart.Style{FillColor: backgroundColor},
		Canvas:     chart.Style{FillColor: backgroundColor},
		XAxis: chart.XAxis{
			Style:          chart.Style{FontColor: textColor, StrokeColor: gridColor},
			ValueFormatter: chart.TimeDateValueFormatter,
		},
		YAxis: chart.YAxis{
			Style: chart.Style{FontColor: textColor, StrokeColor: gridColor},
			GridMajorStyle: chart.Style{
				StrokeColor: gridColor,
				StrokeWidth: 1.0,
			},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				XValues: xValues,
				YValues: yValues,
				Style: chart.Style{
					StrokeColor: lineColor,
					StrokeWidth: 2.5,
					FillColor:   lineColor.WithAlpha(48),
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, errors.Wrap(err, "falha ao renderizar gráfico de tendência")
	}

	return buf.Bytes(), nil
}
