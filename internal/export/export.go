// Package export renders the catalog for people outside the service: a CSV
// of products and prices, and a PNG chart of the price trends.
package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"pricetrack/internal/analytics"
	"pricetrack/internal/catalog"
)

// ErrNoTrendData is returned when the series has too few labels or no datasets.
var ErrNoTrendData = errors.New("export: not enough trend data to chart")

// CSVHeader is the first line of every CSV export.
var CSVHeader = []string{"Product ID", "Product Name", "Category", "SKU", "Supplier ID", "Supplier Name", "Price", "Last Updated"}

// WriteCSV writes one row per product price whose supplier still exists, and
// a row with blank supplier columns for a product without prices. Values are
// always quoted; the header is not. An empty catalog writes nothing.
func WriteCSV(w io.Writer, snap catalog.Snapshot) error {
	rows := csvRows(snap)
	if len(rows) == 0 {
		return nil
	}

	bw := bufio.NewWriter(w)
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, strings.Join(CSVHeader, ","))
	for _, row := range rows {
		quoted := make([]string, len(row))
		for i, v := range row {
			quoted[i] = `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
		}
		lines = append(lines, strings.Join(quoted, ","))
	}
	if _, err := bw.WriteString(strings.Join(lines, "\n")); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func csvRows(snap catalog.Snapshot) [][]string {
	var rows [][]string
	for _, p := range snap.Products {
		base := []string{p.ID, p.Name, p.Category, p.SKU}
		for _, rec := range p.Prices {
			sup, ok := snap.Supplier(rec.SupplierID)
			if !ok {
				continue
			}
			rows = append(rows, append(append([]string{}, base...), sup.ID, sup.Name, rec.Price.String(), rec.LastUpdated.String()))
		}
		if len(p.Prices) == 0 {
			rows = append(rows, append(append([]string{}, base...), "", "", "", ""))
		}
	}
	return rows
}

var palette = []drawing.Color{
	{R: 10, G: 132, B: 255, A: 255},
	{R: 48, G: 209, B: 88, A: 255},
	{R: 255, G: 159, B: 10, A: 255},
	{R: 94, G: 92, B: 230, A: 255},
	{R: 255, G: 69, B: 58, A: 255},
	{R: 100, G: 210, B: 255, A: 255},
}

// WriteTrendsPNG renders every dataset as a step line over the weekly labels.
func WriteTrendsPNG(w io.Writer, series analytics.TrendSeries) error {
	if len(series.Labels) < 2 || len(series.Datasets) == 0 {
		return ErrNoTrendData
	}

	x := make([]time.Time, len(series.Labels))
	for i, label := range series.Labels {
		x[i] = label.Time()
	}

	lo, hi := 0.0, 0.0
	first := true
	chartSeries := make([]chart.Series, 0, len(series.Datasets))
	for i, ds := range series.Datasets {
		y := make([]float64, len(ds.Data))
		for j, v := range ds.Data {
			y[j] = v.InexactFloat64()
			if first || y[j] < lo {
				lo = y[j]
			}
			if first || y[j] > hi {
				hi = y[j]
			}
			first = false
		}
		chartSeries = append(chartSeries, chart.TimeSeries{
			Name:    ds.Label,
			XValues: x,
			YValues: y,
			Style: chart.Style{
				StrokeColor: palette[i%len(palette)],
				StrokeWidth: 2,
			},
		})
	}
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = 1
	}

	priceFormatter := func(v interface{}) string {
		return chart.FloatValueFormatterWithFormat(v, "%.2f")
	}
	graph := chart.Chart{
		Width:  1280,
		Height: 720,
		Background: chart.Style{
			Padding: chart.Box{Top: 20, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:           "Week",
			ValueFormatter: chart.TimeDateValueFormatter,
		},
		YAxis: chart.YAxis{
			Name:           "Price",
			ValueFormatter: priceFormatter,
			Range:          &chart.ContinuousRange{Min: lo - pad, Max: hi + pad},
		},
		Series: chartSeries,
	}
	graph.Elements = []chart.Renderable{chart.LegendLeft(&graph)}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render trends chart: %w", err)
	}
	return nil
}

// WriteCSVFile writes the CSV export to path, creating parent directories.
func WriteCSVFile(path string, snap catalog.Snapshot) error {
	return writeFile(path, func(w io.Writer) error { return WriteCSV(w, snap) })
}

// WriteTrendsPNGFile writes the trends chart to path, creating parent directories.
func WriteTrendsPNGFile(path string, series analytics.TrendSeries) error {
	if len(series.Labels) < 2 || len(series.Datasets) == 0 {
		return ErrNoTrendData
	}
	return writeFile(path, func(w io.Writer) error { return WriteTrendsPNG(w, series) })
}

func writeFile(path string, render func(io.Writer) error) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := render(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
