package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricetrack/internal/analytics"
	"pricetrack/internal/catalog"
)

func TestWriteCSV(t *testing.T) {
	snap := catalog.SampleData()
	snap.Products[0].Name = `Rice "Premium" (50kg)`
	snap.Products = append(snap.Products, catalog.Product{ID: "p7", Name: "Unpriced", Category: "misc"})

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, snap))

	lines := strings.Split(buf.String(), "\n")
	assert.Equal(t, "Product ID,Product Name,Category,SKU,Supplier ID,Supplier Name,Price,Last Updated", lines[0])
	assert.Equal(t, `"p1","Rice ""Premium"" (50kg)","grocery","GRO-RICE-50","s1","Global Supplies Inc.","42.5","2025-01-15"`, lines[1])
	assert.Equal(t, `"p7","Unpriced","misc","","","","",""`, lines[len(lines)-1])
	// 13 priced rows plus header and the unpriced product.
	assert.Len(t, lines, 15)
}

func TestWriteCSVEscapesLineBreaks(t *testing.T) {
	snap := catalog.SampleData()
	snap.Products[0].Name = "Rice\nPremium \"A\""
	snap.Products[1].SKU = "OIL\r\n10L"

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, snap))
	assert.Contains(t, buf.String(), `"Rice`+"\n"+`Premium ""A"""`)

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 14)
	assert.Equal(t, "Rice\nPremium \"A\"", records[1][1])
	assert.Equal(t, "OIL\n10L", records[3][3])
}

func TestWriteCSVSkipsDeletedSuppliersAndEmptyCatalog(t *testing.T) {
	snap := catalog.SampleData()
	snap.Suppliers = snap.Suppliers[:1]

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, snap))
	for _, line := range strings.Split(buf.String(), "\n")[1:] {
		assert.Contains(t, line, `"s1"`)
	}

	buf.Reset()
	require.NoError(t, WriteCSV(&buf, catalog.Snapshot{}))
	assert.Empty(t, buf.String())
}

func TestWriteTrendsPNG(t *testing.T) {
	now := time.Date(2025, time.January, 25, 0, 0, 0, 0, time.UTC)
	series := analytics.PriceTrendsSeries(catalog.SampleData(), analytics.Month, now)

	var buf bytes.Buffer
	require.NoError(t, WriteTrendsPNG(&buf, series))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG\r\n\x1a\n")))
}

func TestWriteTrendsPNGFlatSeries(t *testing.T) {
	now := time.Date(2025, time.January, 25, 0, 0, 0, 0, time.UTC)
	series := analytics.PriceTrendsSeries(catalog.SampleData(), analytics.Week, now)
	series.Datasets = series.Datasets[:1]

	var buf bytes.Buffer
	require.NoError(t, WriteTrendsPNG(&buf, series))
	assert.NotZero(t, buf.Len())
}

func TestWriteTrendsPNGNoData(t *testing.T) {
	var buf bytes.Buffer
	err := WriteTrendsPNG(&buf, analytics.TrendSeries{})
	assert.ErrorIs(t, err, ErrNoTrendData)
}

func TestFileHelpersCreateDirectories(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "exports", "nested", "out.csv")
	require.NoError(t, WriteCSVFile(csvPath, catalog.SampleData()))

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Product ID,"))

	pngPath := filepath.Join(dir, "charts", "trends.png")
	err = WriteTrendsPNGFile(pngPath, analytics.TrendSeries{})
	assert.ErrorIs(t, err, ErrNoTrendData)
}
