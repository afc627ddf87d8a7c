package plots

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/l1track/internal/validation"
)

// WriteHTML renders every booked, non-empty histogram in rec as one
// go-echarts page: bar charts for 1D and scatter charts for 2D.
func WriteHTML(rec *validation.Recorder, w io.Writer) error {
	page := components.NewPage()

	for _, name := range rec.Names1D() {
		spec, ok := validation.Lookup(name)
		if !ok || spec.TwoD() {
			continue
		}
		page.AddCharts(barChart(spec, rec.Values1D(name)))
	}
	for _, name := range rec.Names2D() {
		spec, ok := validation.Lookup(name)
		if !ok || !spec.TwoD() {
			continue
		}
		page.AddCharts(scatterChart(spec, rec.Values2D(name)))
	}

	if err := page.Render(w); err != nil {
		return fmt.Errorf("render error: %w", err)
	}
	return nil
}

// WriteHTMLFile is WriteHTML to a new file at path.
func WriteHTMLFile(rec *validation.Recorder, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteHTML(rec, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func barChart(spec validation.Spec, fills []validation.Weighted) *charts.Bar {
	counts := spec.Histogram(fills)
	x := make([]string, len(counts))
	y := make([]opts.BarData, len(counts))
	for i, c := range counts {
		x[i] = strconv.FormatFloat(spec.BinCentre(i), 'g', 4, 64)
		y[i] = opts.BarData{Value: c}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: spec.Name, Subtitle: spec.Title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: spec.XLabel, NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: spec.YLabel}),
	)
	bar.SetXAxis(x).AddSeries(spec.Name, y)
	return bar
}

func scatterChart(spec validation.Spec, fills []validation.Point) *charts.Scatter {
	data := make([]opts.ScatterData, 0, len(fills))
	for _, f := range fills {
		if !inRange(f.X, spec.Min, spec.Max) || !inRange(f.Y, spec.YMin, spec.YMax) {
			continue
		}
		data = append(data, opts.ScatterData{Value: []interface{}{f.X, f.Y}})
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "700px", Height: "700px"}),
		charts.WithTitleOpts(opts.Title{Title: spec.Name, Subtitle: fmt.Sprintf("%s (%d points)", spec.Title, len(data))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: spec.Min, Max: spec.Max, Name: spec.XLabel, NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: spec.YMin, Max: spec.YMax, Name: spec.YLabel, NameLocation: "middle", NameGap: 30}),
	)
	scatter.AddSeries(spec.Name, data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 4}))
	return scatter
}
