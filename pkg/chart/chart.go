// Package chart renders one static multi-panel PNG per symbol: close
// price with moving averages, volume, the MACD family, and RSI with
// its 30/70 guides. It is presentation glue around the enriched
// series; failures here are logged by the caller and never abort the
// batch.
package chart

import (
	"context"
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"ashare-data/pkg/market"
)

var (
	colorClose  = color.RGBA{R: 0xd6, G: 0x2c, B: 0x2c, A: 0xff}
	colorMA5    = color.RGBA{R: 0xe6, G: 0xb4, B: 0x00, A: 0xff}
	colorMA10   = color.RGBA{R: 0x00, G: 0x8b, B: 0x8b, A: 0xff}
	colorMA20   = color.RGBA{R: 0xba, G: 0x55, B: 0xd3, A: 0xff}
	colorVolume = color.RGBA{R: 0x46, G: 0x82, B: 0xb4, A: 0xff}
	colorSignal = color.RGBA{R: 0x88, G: 0x44, B: 0xcc, A: 0xff}
	colorGuide  = color.RGBA{R: 0x99, G: 0x99, B: 0x99, A: 0xff}
)

// Renderer writes <dir>/<symbol>.png for every series it receives.
type Renderer struct {
	dir string
}

var _ market.Sink = (*Renderer)(nil)

// NewRenderer constructs a chart sink rooted at dir.
func NewRenderer(dir string) *Renderer {
	return &Renderer{dir: dir}
}

// WriteSeries implements market.Sink.
func (r *Renderer) WriteSeries(_ context.Context, series market.EnrichedSeries) error {
	if series.Empty() {
		return nil
	}
	path := filepath.Join(r.dir, series.Symbol+".png")
	return Render(series, path)
}

// Render draws the four panels and writes them as a single PNG.
func Render(series market.EnrichedSeries, path string) error {
	n := len(series.Bars)
	if n == 0 {
		return fmt.Errorf("chart %s: empty series", series.Symbol)
	}

	pricePanel := newPanel(series, fmt.Sprintf("%s daily (back-adjusted)", series.Symbol))
	addLine(pricePanel, series.Closes(), colorClose, "Close")
	addLine(pricePanel, series.MA5, colorMA5, "MA5")
	addLine(pricePanel, series.MA10, colorMA10, "MA10")
	addLine(pricePanel, series.MA20, colorMA20, "MA20")

	volumePanel := newPanel(series, "Volume")
	volumes := make(plotter.Values, n)
	for i, bar := range series.Bars {
		volumes[i] = float64(bar.Volume)
	}
	volumeBars, err := plotter.NewBarChart(volumes, vg.Points(1))
	if err != nil {
		return fmt.Errorf("chart %s: volume bars: %w", series.Symbol, err)
	}
	volumeBars.Color = colorVolume
	volumeBars.LineStyle.Width = 0
	volumePanel.Add(volumeBars)

	macdPanel := newPanel(series, "MACD (12,26,9)")
	histBars, err := plotter.NewBarChart(plotter.Values(series.Hist), vg.Points(1))
	if err != nil {
		return fmt.Errorf("chart %s: hist bars: %w", series.Symbol, err)
	}
	histBars.Color = colorVolume
	histBars.LineStyle.Width = 0
	macdPanel.Add(histBars)
	addLine(macdPanel, series.MACD, colorMA5, "MACD")
	addLine(macdPanel, series.Signal, colorSignal, "Signal")

	rsiPanel := newPanel(series, "RSI (14)")
	addLine(rsiPanel, series.RSI, colorMA20, "RSI")
	addGuide(rsiPanel, 70, n)
	addGuide(rsiPanel, 30, n)
	rsiPanel.Y.Min, rsiPanel.Y.Max = 0, 100

	const width, height = 16 * vg.Inch, 10 * vg.Inch
	img := vgimg.New(width, height)
	dc := draw.New(img)
	tiles := draw.Tiles{Rows: 4, Cols: 1, PadY: vg.Points(4)}
	panels := []*plot.Plot{pricePanel, volumePanel, macdPanel, rsiPanel}
	for i, panel := range panels {
		panel.Draw(tiles.At(dc, 0, i))
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("chart %s: %w", series.Symbol, err)
	}
	defer file.Close()

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(file); err != nil {
		return fmt.Errorf("chart %s: encode: %w", series.Symbol, err)
	}
	return nil
}

func newPanel(series market.EnrichedSeries, title string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Tick.Marker = dateTicks{series: series}
	p.Legend.Top = true
	p.Legend.Left = true
	return p
}

func addLine(p *plot.Plot, values []float64, c color.Color, label string) {
	xys := make(plotter.XYs, len(values))
	for i, v := range values {
		xys[i].X = float64(i)
		xys[i].Y = v
	}
	line, err := plotter.NewLine(xys)
	if err != nil {
		return
	}
	line.Color = c
	line.Width = vg.Points(1)
	p.Add(line)
	p.Legend.Add(label, line)
}

func addGuide(p *plot.Plot, level float64, n int) {
	guide, err := plotter.NewLine(plotter.XYs{{X: 0, Y: level}, {X: float64(n - 1), Y: level}})
	if err != nil {
		return
	}
	guide.Color = colorGuide
	guide.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
	p.Add(guide)
}

// dateTicks maps bar indices back to calendar dates on the X axis.
type dateTicks struct {
	series market.EnrichedSeries
}

func (d dateTicks) Ticks(min, max float64) []plot.Tick {
	n := len(d.series.Bars)
	if n == 0 {
		return nil
	}
	const want = 6
	step := n / want
	if step < 1 {
		step = 1
	}
	ticks := make([]plot.Tick, 0, want+1)
	for i := 0; i < n; i += step {
		ticks = append(ticks, plot.Tick{
			Value: float64(i),
			Label: d.series.Bars[i].Date.Format("2006-01-02"),
		})
	}
	return ticks
}
