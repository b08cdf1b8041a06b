package viz

import (
	"fmt"
	"math"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/climsim/internal/climate"
)

// PlotOptions size a terminal chart.
type PlotOptions struct {
	Width  int
	Height int
}

func DefaultPlotOptions() PlotOptions {
	return PlotOptions{Width: 80, Height: 12}
}

func span(labels []string) string {
	if len(labels) == 0 {
		return ""
	}
	return fmt.Sprintf("%s to %s", labels[0], labels[len(labels)-1])
}

func hasValue(values []float64) bool {
	for _, v := range values {
		if !math.IsNaN(v) {
			return true
		}
	}
	return false
}

// AnomalyPlot charts recorded (green) and modeled (red) anomalies of the
// records that carry both.
func AnomalyPlot(records []climate.Record, opts PlotOptions) string {
	pairs := climate.Compare(records)
	if pairs.Len() == 0 {
		return ""
	}
	return asciigraph.PlotMany([][]float64{pairs.Recorded, pairs.Modeled},
		asciigraph.Height(opts.Height),
		asciigraph.Width(opts.Width),
		asciigraph.Precision(2),
		asciigraph.SeriesColors(asciigraph.Green, asciigraph.Red),
		asciigraph.SeriesLegends("recorded", "modeled"),
		asciigraph.Caption("temperature anomaly °C, "+span(pairs.Labels)),
	)
}

// TemperaturePlot charts the temperature of each record, recorded where
// present and modeled otherwise.
func TemperaturePlot(records []climate.Record, opts PlotOptions) string {
	s := climate.Extract(records)
	if !hasValue(s.Temperature) {
		return ""
	}
	return asciigraph.Plot(s.Temperature,
		asciigraph.Height(opts.Height),
		asciigraph.Width(opts.Width),
		asciigraph.Precision(2),
		asciigraph.Caption("temperature °C, "+span(s.Labels)),
	)
}

func ConcentrationPlot(records []climate.Record, opts PlotOptions) string {
	s := climate.Extract(records)
	if !hasValue(s.Concentration) {
		return ""
	}
	return asciigraph.Plot(s.Concentration,
		asciigraph.Height(opts.Height),
		asciigraph.Width(opts.Width),
		asciigraph.Precision(1),
		asciigraph.Caption("CO2 ppm, "+span(s.Labels)),
	)
}

// ErrorPlot charts per-period percent errors.
func ErrorPlot(labels []string, values []float64, opts PlotOptions) string {
	if len(values) == 0 {
		return ""
	}
	return asciigraph.Plot(values,
		asciigraph.Height(opts.Height),
		asciigraph.Width(opts.Width),
		asciigraph.Precision(1),
		asciigraph.Caption("error %, "+span(labels)),
	)
}
