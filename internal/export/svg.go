// Package export renders record series as standalone SVG charts.
package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/san-kum/climsim/internal/climate"
)

// Line is one plotted series. NaN values break the path.
type Line struct {
	Name   string
	Color  string
	Values []float64
}

const (
	ColorRecorded = "#00ff00"
	ColorModeled  = "#ff9900"
	ColorCO2      = "#3399ff"
)

type Chart struct {
	Title  string
	Labels []string
	Lines  []Line
	Width  int
	Height int
}

func bounds(lines []Line) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, l := range lines {
		for _, v := range l.Values {
			if math.IsNaN(v) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
			ok = true
		}
	}
	return lo, hi, ok
}

// SVG draws every line against a shared y axis. Labels are placed under the
// first and last points.
func (c Chart) SVG() string {
	n := 0
	for _, l := range c.Lines {
		if len(l.Values) > n {
			n = len(l.Values)
		}
	}
	minY, maxY, ok := bounds(c.Lines)
	if n < 2 || !ok {
		return ""
	}

	width, height := float64(c.Width), float64(c.Height)
	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	const pad = 40.0
	plotW, plotH := width-2*pad, height-2*pad
	x := func(i int) float64 { return pad + float64(i)/float64(n-1)*plotW }
	y := func(v float64) float64 { return pad + plotH - (v-minY)/rangeY*plotH }

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, c.Width, c.Height, c.Width, c.Height)

	if c.Title != "" {
		fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" fill="#cccccc" font-family="monospace" font-size="14" text-anchor="middle">%s</text>
`, width/2, pad/2, escape(c.Title))
	}
	fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" fill="#888888" font-family="monospace" font-size="10" text-anchor="end">%.2f</text>
<text x="%.1f" y="%.1f" fill="#888888" font-family="monospace" font-size="10" text-anchor="end">%.2f</text>
`, pad-4, y(maxY), maxY, pad-4, y(minY), minY)

	if len(c.Labels) > 0 {
		last := len(c.Labels) - 1
		fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" fill="#888888" font-family="monospace" font-size="10">%s</text>
<text x="%.1f" y="%.1f" fill="#888888" font-family="monospace" font-size="10" text-anchor="end">%s</text>
`, x(0), height-pad/2, escape(c.Labels[0]), x(last), height-pad/2, escape(c.Labels[last]))
	}

	for i, l := range c.Lines {
		color := l.Color
		if color == "" {
			color = ColorRecorded
		}
		var d strings.Builder
		pen := false
		for j, v := range l.Values {
			if math.IsNaN(v) {
				pen = false
				continue
			}
			if !pen {
				fmt.Fprintf(&d, "M%.1f,%.1f ", x(j), y(v))
				pen = true
			} else {
				fmt.Fprintf(&d, "L%.1f,%.1f ", x(j), y(v))
			}
		}
		if d.Len() == 0 {
			continue
		}
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="%s"/>
`, color, strings.TrimSpace(d.String()))
		if l.Name != "" {
			fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" fill="%s" font-family="monospace" font-size="10">%s</text>
`, width-pad-100, pad+14*float64(i+1), color, escape(l.Name))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func escape(s string) string {
	return strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;").Replace(s)
}

// AnomalyChart plots modeled against recorded anomalies of replayed records.
func AnomalyChart(records []climate.Record, width, height int) Chart {
	pairs := climate.Compare(records)
	return Chart{
		Title:  "Temperature anomaly (°C)",
		Labels: pairs.Labels,
		Lines: []Line{
			{Name: "recorded", Color: ColorRecorded, Values: pairs.Recorded},
			{Name: "modeled", Color: ColorModeled, Values: pairs.Modeled},
		},
		Width:  width,
		Height: height,
	}
}

// TemperatureChart plots the temperature of each record, recorded where
// available and modeled otherwise.
func TemperatureChart(records []climate.Record, width, height int) Chart {
	s := climate.Extract(records)
	return Chart{
		Title:  "Global temperature (°C)",
		Labels: s.Labels,
		Lines:  []Line{{Name: "temperature", Color: ColorModeled, Values: s.Temperature}},
		Width:  width,
		Height: height,
	}
}

func ConcentrationChart(records []climate.Record, width, height int) Chart {
	s := climate.Extract(records)
	return Chart{
		Title:  "CO2 concentration (ppm)",
		Labels: s.Labels,
		Lines:  []Line{{Name: "co2", Color: ColorCO2, Values: s.Concentration}},
		Width:  width,
		Height: height,
	}
}

// WriteSVG writes the chart, failing when there is nothing to draw.
func WriteSVG(w io.Writer, c Chart) error {
	svg := c.SVG()
	if svg == "" {
		return fmt.Errorf("export: %w", climate.ErrNoData)
	}
	_, err := io.WriteString(w, svg)
	return err
}
