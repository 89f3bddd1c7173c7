package app

import (
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	chart "github.com/wcharczuk/go-chart/v2"

	"finlab/internal/amortization"
	"finlab/internal/config"
	"finlab/internal/features"
	"finlab/internal/planner"
)

// downsample keeps at most max evenly spaced items, always including the
// first and the last one.
func downsample[T any](items []T, max int) []T {
	if max <= 1 || len(items) <= max {
		return items
	}

	result := make([]T, 0, max)
	step := float64(len(items)-1) / float64(max-1)
	for i := 0; i < max; i++ {
		idx := int(math.Round(step * float64(i)))
		if idx >= len(items) {
			idx = len(items) - 1
		}
		result = append(result, items[idx])
	}
	return result
}

func writeScheduleCSV(path string, rows []amortization.Row) error {
	return writeCSV(path, func(writer *csv.Writer) error {
		header := []string{"month", "emi", "principal", "interest", "remaining_balance"}
		if err := writer.Write(header); err != nil {
			return err
		}
		for _, row := range rows {
			record := []string{
				strconv.Itoa(row.Month),
				row.Payment.StringFixed(2),
				row.Principal.StringFixed(2),
				row.Interest.StringFixed(2),
				row.Balance.StringFixed(2),
			}
			if err := writer.Write(record); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeFeaturesCSV(path string, fs features.FeatureSet) error {
	return writeCSV(path, func(writer *csv.Writer) error {
		header := make([]string, 0, len(fs.Columns)+2)
		header = append(header, "date")
		header = append(header, fs.Columns...)
		header = append(header, "price")
		if err := writer.Write(header); err != nil {
			return err
		}

		for i, row := range fs.X {
			record := make([]string, 0, len(header))
			date := ""
			if i < len(fs.Dates) {
				date = fs.Dates[i].Format(time.DateOnly)
			}
			record = append(record, date)
			for _, v := range row {
				record = append(record, formatFloat(v))
			}
			record = append(record, formatFloat(fs.Y[i]))
			if err := writer.Write(record); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeCSV(path string, fill func(*csv.Writer) error) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := fill(writer); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}

func writeSchedulePNG(path string, rows []amortization.Row, cfg config.ExportConfig, currency string) error {
	x := make([]float64, len(rows))
	balance := make([]float64, len(rows))
	principal := make([]float64, len(rows))
	interest := make([]float64, len(rows))

	paidPrincipal := decimal.Zero
	paidInterest := decimal.Zero
	for i, row := range rows {
		paidPrincipal = paidPrincipal.Add(row.Principal)
		paidInterest = paidInterest.Add(row.Interest)
		x[i] = float64(row.Month)
		balance[i] = row.Balance.InexactFloat64()
		principal[i] = paidPrincipal.InexactFloat64()
		interest[i] = paidInterest.InexactFloat64()
	}

	wholeFormatter := func(v interface{}) string {
		return chart.FloatValueFormatterWithFormat(v, "%.0f")
	}
	graph := chart.Chart{
		Width:  cfg.ChartWidth,
		Height: cfg.ChartHeight,
		XAxis: chart.XAxis{
			Name:           "Month",
			ValueFormatter: wholeFormatter,
		},
		YAxis: chart.YAxis{
			Name:           "Amount (" + currency + ")",
			ValueFormatter: wholeFormatter,
		},
		Series: []chart.Series{
			chart.ContinuousSeries{Name: "Remaining balance", XValues: x, YValues: balance},
			chart.ContinuousSeries{Name: "Principal paid", XValues: x, YValues: principal},
			chart.ContinuousSeries{Name: "Interest paid", XValues: x, YValues: interest},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return renderPNG(path, graph)
}

type featurePoint struct {
	date  time.Time
	price float64
	ma20  float64
	upper float64
	lower float64
}

func writeFeaturesPNG(path string, fs features.FeatureSet, cfg config.ExportConfig, maxPoints int) error {
	ma20 := fs.Column(features.ColMA20)
	upper := fs.Column(features.ColBBUpper)
	lower := fs.Column(features.ColBBLower)

	points := make([]featurePoint, fs.Len())
	for i := range points {
		points[i] = featurePoint{date: fs.Dates[i], price: fs.Y[i], ma20: ma20[i], upper: upper[i], lower: lower[i]}
	}
	points = downsample(points, maxPoints)

	x := make([]time.Time, len(points))
	series := [4][]float64{}
	for k := range series {
		series[k] = make([]float64, len(points))
	}
	for i, p := range points {
		x[i] = p.date
		series[0][i] = p.price
		series[1][i] = p.ma20
		series[2][i] = p.upper
		series[3][i] = p.lower
	}

	priceFormatter := func(v interface{}) string {
		return chart.FloatValueFormatterWithFormat(v, "%.2f")
	}
	graph := chart.Chart{
		Width:  cfg.ChartWidth,
		Height: cfg.ChartHeight,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatter,
		},
		YAxis: chart.YAxis{
			Name:           "Price",
			ValueFormatter: priceFormatter,
		},
		Series: []chart.Series{
			chart.TimeSeries{Name: "Price", XValues: x, YValues: series[0]},
			chart.TimeSeries{Name: features.ColMA20, XValues: x, YValues: series[1]},
			chart.TimeSeries{Name: features.ColBBUpper, XValues: x, YValues: series[2]},
			chart.TimeSeries{Name: features.ColBBLower, XValues: x, YValues: series[3]},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return renderPNG(path, graph)
}

func writeMarketCSV(path string, table planner.MarketTable) error {
	return writeCSV(path, func(writer *csv.Writer) error {
		header := append([]string{"date"}, table.Stocks...)
		if err := writer.Write(header); err != nil {
			return err
		}
		for d, date := range table.Dates {
			record := make([]string, 0, len(header))
			record = append(record, date.Format(time.DateOnly))
			for s := range table.Stocks {
				record = append(record, table.Prices[s][d].StringFixed(2))
			}
			if err := writer.Write(record); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeMarketPNG(path string, table planner.MarketTable, cfg config.ExportConfig) error {
	priceFormatter := func(v interface{}) string {
		return chart.FloatValueFormatterWithFormat(v, "%.2f")
	}
	graph := chart.Chart{
		Width:  cfg.ChartWidth,
		Height: cfg.ChartHeight,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatter,
		},
		YAxis: chart.YAxis{
			Name:           "Price",
			ValueFormatter: priceFormatter,
		},
	}
	for s, name := range table.Stocks {
		y := make([]float64, len(table.Dates))
		for d := range y {
			y[d] = table.Prices[s][d].InexactFloat64()
		}
		graph.Series = append(graph.Series, chart.TimeSeries{Name: name, XValues: table.Dates, YValues: y})
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return renderPNG(path, graph)
}

func renderPNG(path string, graph chart.Chart) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return graph.Render(chart.PNG, file)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func formatDecimal(d decimal.Decimal, places int32) string {
	return d.StringFixed(places)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
