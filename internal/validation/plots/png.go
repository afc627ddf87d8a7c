// Package plots renders recorded validation histograms as PNG files with
// gonum/plot and as a single HTML page with go-echarts.
package plots

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/l1track/internal/validation"
)

var (
	histFill    = color.RGBA{R: 70, G: 130, B: 180, A: 255}
	scatterDots = color.RGBA{R: 200, G: 60, B: 40, A: 255}
)

// FileName maps a histogram name such as "pairs/all_stubs_eta" to a flat
// file name with the given extension.
func FileName(name, ext string) string {
	return strings.ReplaceAll(name, "/", "_") + ext
}

// WritePNG saves one PNG per booked, non-empty histogram in rec under dir.
// It returns the number of plots written.
func WritePNG(rec *validation.Recorder, dir string) (int, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create output dir: %w", err)
	}

	count := 0
	for _, name := range rec.Names1D() {
		spec, ok := validation.Lookup(name)
		if !ok || spec.TwoD() {
			continue
		}
		p := histogramPlot(spec, rec.Values1D(name))
		if err := p.Save(8*vg.Inch, 5*vg.Inch, filepath.Join(dir, FileName(name, ".png"))); err != nil {
			return count, fmt.Errorf("save %s: %w", name, err)
		}
		count++
	}

	for _, name := range rec.Names2D() {
		spec, ok := validation.Lookup(name)
		if !ok || !spec.TwoD() {
			continue
		}
		p, err := scatterPlot(spec, rec.Values2D(name))
		if err != nil {
			return count, fmt.Errorf("%s: %w", name, err)
		}
		if err := p.Save(7*vg.Inch, 7*vg.Inch, filepath.Join(dir, FileName(name, ".png"))); err != nil {
			return count, fmt.Errorf("save %s: %w", name, err)
		}
		count++
	}
	return count, nil
}

// histogramPlot draws the booked binning of a 1D histogram.
func histogramPlot(spec validation.Spec, fills []validation.Weighted) *plot.Plot {
	counts := spec.Histogram(fills)
	width := (spec.Max - spec.Min) / float64(spec.Bins)

	bins := make([]plotter.HistogramBin, len(counts))
	for i, c := range counts {
		lo := spec.Min + width*float64(i)
		bins[i] = plotter.HistogramBin{Min: lo, Max: lo + width, Weight: c}
	}
	h := &plotter.Histogram{
		Bins:      bins,
		Width:     width,
		FillColor: histFill,
		LineStyle: plotter.DefaultLineStyle,
	}

	p := plot.New()
	p.Title.Text = spec.Title
	p.X.Label.Text = spec.XLabel
	p.Y.Label.Text = spec.YLabel
	p.X.Min, p.X.Max = spec.Min, spec.Max
	p.Add(h)
	return p
}

// scatterPlot draws 2D fills inside the booked ranges.
func scatterPlot(spec validation.Spec, fills []validation.Point) (*plot.Plot, error) {
	pts := make(plotter.XYs, 0, len(fills))
	for _, f := range fills {
		if !inRange(f.X, spec.Min, spec.Max) || !inRange(f.Y, spec.YMin, spec.YMax) {
			continue
		}
		pts = append(pts, plotter.XY{X: f.X, Y: f.Y})
	}

	p := plot.New()
	p.Title.Text = spec.Title
	p.X.Label.Text = spec.XLabel
	p.Y.Label.Text = spec.YLabel
	p.X.Min, p.X.Max = spec.Min, spec.Max
	p.Y.Min, p.Y.Max = spec.YMin, spec.YMax

	if len(pts) == 0 {
		return p, nil
	}
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, err
	}
	s.GlyphStyle.Color = scatterDots
	s.GlyphStyle.Radius = vg.Points(1.5)
	p.Add(s)
	return p, nil
}

func inRange(v, lo, hi float64) bool {
	return !math.IsNaN(v) && v >= lo && v < hi
}
