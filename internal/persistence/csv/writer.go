package csvpersist

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/zeromicro/go-zero/core/logx"

	"ashare-data/pkg/market"
)

// utf8BOM keeps non-Latin content intact in spreadsheet tooling that
// sniffs encodings.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var header = []string{
	"Date", "Open", "High", "Low", "Close", "Volume",
	"MA5", "MA10", "MA20", "MACD", "Signal", "Hist", "RSI",
}

// Writer persists enriched series as one delimited file per symbol,
// named deterministically <dir>/<symbol>.csv.
type Writer struct {
	dir string
}

var _ market.Sink = (*Writer)(nil)

// NewWriter constructs a CSV sink rooted at dir. The directory is
// expected to exist; startup creates it before the batch runs.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// WriteSeries writes the full series, one row per bar, replacing any
// previous file for the symbol.
func (w *Writer) WriteSeries(ctx context.Context, series market.EnrichedSeries) error {
	if series.Empty() {
		return nil
	}

	path := filepath.Join(w.dir, series.Symbol+".csv")
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("csv %s: %w", series.Symbol, err)
	}
	defer file.Close()

	if _, err := file.Write(utf8BOM); err != nil {
		return fmt.Errorf("csv %s: %w", series.Symbol, err)
	}

	cw := csv.NewWriter(file)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("csv %s: %w", series.Symbol, err)
	}
	for i, bar := range series.Bars {
		row := []string{
			bar.Date.Format("2006-01-02"),
			price(bar.Open),
			price(bar.High),
			price(bar.Low),
			price(bar.Close),
			strconv.FormatInt(bar.Volume, 10),
			derived(series.MA5[i]),
			derived(series.MA10[i]),
			derived(series.MA20[i]),
			derived(series.MACD[i]),
			derived(series.Signal[i]),
			derived(series.Hist[i]),
			derived(series.RSI[i]),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("csv %s: %w", series.Symbol, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("csv %s: %w", series.Symbol, err)
	}

	logx.WithContext(ctx).Infof("csv %s: wrote %d rows to %s", series.Symbol, len(series.Bars), path)
	return nil
}

func price(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func derived(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
