package csvpersist

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ashare-data/pkg/market"
)

func enrichedFixture(t *testing.T, n int) market.EnrichedSeries {
	t.Helper()
	bars := make([]market.Bar, n)
	for i := range bars {
		price := 10.0 + float64(i)
		bars[i] = market.Bar{
			Date:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
			Open:   price,
			High:   price + 0.5,
			Low:    price - 0.5,
			Close:  price + 0.25,
			Volume: int64(1000 + i),
		}
	}
	return market.Enrich(market.Series{Symbol: "600519", Bars: bars})
}

func TestWriteSeriesProducesReadableFile(t *testing.T) {
	dir := t.TempDir()
	enriched := enrichedFixture(t, 40)

	writer := NewWriter(dir)
	require.NoError(t, writer.WriteSeries(context.Background(), enriched))

	path := filepath.Join(dir, "600519.csv")
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}), "file should start with a UTF-8 BOM")

	records, err := csv.NewReader(bytes.NewReader(raw[3:])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, len(enriched.Bars)+1)
	require.Equal(t, header, records[0])

	first := records[1]
	require.Equal(t, enriched.Bars[0].Date.Format("2006-01-02"), first[0])
	require.Equal(t, "29.00", first[1])
	require.Equal(t, "1019", first[5])
	for _, record := range records[1:] {
		require.NotContains(t, record, "NaN")
	}
}

func TestWriteSeriesSkipsEmpty(t *testing.T) {
	dir := t.TempDir()
	writer := NewWriter(dir)

	empty := market.EnrichedSeries{Series: market.Series{Symbol: "300750"}}
	require.NoError(t, writer.WriteSeries(context.Background(), empty))

	_, err := os.Stat(filepath.Join(dir, "300750.csv"))
	require.True(t, os.IsNotExist(err))
}

func TestWriteSeriesOverwritesPreviousFile(t *testing.T) {
	dir := t.TempDir()
	writer := NewWriter(dir)

	require.NoError(t, writer.WriteSeries(context.Background(), enrichedFixture(t, 40)))
	require.NoError(t, writer.WriteSeries(context.Background(), enrichedFixture(t, 30)))

	raw, err := os.ReadFile(filepath.Join(dir, "600519.csv"))
	require.NoError(t, err)
	records, err := csv.NewReader(bytes.NewReader(raw[3:])).ReadAll()
	require.NoError(t, err)

	shorter := enrichedFixture(t, 30)
	require.Len(t, records, len(shorter.Bars)+1)
}
