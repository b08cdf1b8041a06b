package viz

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/san-kum/climsim/internal/accuracy"
	"github.com/san-kum/climsim/internal/climate"
	"github.com/san-kum/climsim/internal/model"
)

func replayed(t *testing.T) []climate.Record {
	t.Helper()
	conc := []float64{315.98, 316.91, 317.64, 318.45, 318.99, 319.62}
	anom := []float64{0.03, -0.02, 0.05, 0.03, 0.06, -0.2}
	out := make([]climate.Record, len(conc))
	for i := range conc {
		rec, err := climate.NewRecord(climate.Yearly(1959+i), conc[i])
		if err != nil {
			t.Fatal(err)
		}
		rec.SetRecorded(anom[i], model.DefaultReferenceTemp)
		out[i] = rec
	}
	if err := model.New(model.DefaultParams()).Replay(out, 3.0); err != nil {
		t.Fatal(err)
	}
	return out
}

func TestSlider(t *testing.T) {
	tests := []struct {
		value  float64
		filled int
	}{
		{2.0, 0},
		{3.5, 5},
		{5.0, 10},
		{9.0, 10},
		{-1, 0},
	}
	for _, tt := range tests {
		bar := Slider(tt.value, 2.0, 5.0, 10)
		if n := utf8.RuneCountInString(bar); n != 10 {
			t.Errorf("Slider(%v): width %d, want 10", tt.value, n)
		}
		if got := strings.Count(bar, "█"); got != tt.filled {
			t.Errorf("Slider(%v): %d filled, want %d", tt.value, got, tt.filled)
		}
	}
	if Slider(1, 0, 1, 0) != "" {
		t.Error("expected empty slider for zero width")
	}
}

func TestSparkline(t *testing.T) {
	line := []rune(Sparkline([]float64{1, 2, 3, 4, 5, 6, 7, 8}, 8))
	if len(line) != 8 || line[0] != '▁' || line[7] != '█' {
		t.Errorf("unexpected sparkline %q", string(line))
	}
	for i := 1; i < len(line); i++ {
		if line[i] < line[i-1] {
			t.Errorf("sparkline not monotonic: %q", string(line))
		}
	}
	if got := Sparkline([]float64{1, math.NaN(), 3}, 3); []rune(got)[1] != ' ' {
		t.Errorf("expected gap for NaN, got %q", got)
	}
	if got := Sparkline(nil, 4); got != "────" {
		t.Errorf("unexpected empty sparkline %q", got)
	}
}

func TestThemes(t *testing.T) {
	names := ThemeNames()
	if len(names) != len(Themes) {
		t.Fatalf("expected %d names, got %d", len(Themes), len(names))
	}
	if GetTheme("nope").Name != Themes[0].Name {
		t.Error("expected fallback to first theme")
	}
	seen := map[string]bool{}
	name := names[0]
	for range Themes {
		seen[name] = true
		name = NextTheme(name).Name
	}
	if len(seen) != len(Themes) || name != names[0] {
		t.Errorf("NextTheme does not cycle through all themes: %v", seen)
	}
}

func TestErrorStyle(t *testing.T) {
	s := NewStyles(ThemeMinimal)
	if s.ErrorStyle(1).GetForeground() != s.Good.GetForeground() {
		t.Error("small error should use good style")
	}
	if s.ErrorStyle(50).GetForeground() != s.Bad.GetForeground() {
		t.Error("large error should use bad style")
	}
}

func TestPlots(t *testing.T) {
	records := replayed(t)
	opts := DefaultPlotOptions()

	if out := AnomalyPlot(records, opts); !strings.Contains(out, "1960 to 1964") {
		t.Errorf("anomaly plot missing caption:\n%s", out)
	}
	if out := TemperaturePlot(records, opts); !strings.Contains(out, "1959 to 1964") {
		t.Errorf("temperature plot missing caption:\n%s", out)
	}
	if out := ConcentrationPlot(records, opts); out == "" {
		t.Error("expected concentration plot")
	}

	if AnomalyPlot(records[:1], opts) != "" {
		t.Error("expected no anomaly plot without modeled records")
	}
	if ErrorPlot(nil, nil, opts) != "" {
		t.Error("expected no error plot without values")
	}
}

func TestTables(t *testing.T) {
	records := replayed(t)

	var buf bytes.Buffer
	if err := WriteRecordTable(&buf, records); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != len(records)+1 {
		t.Fatalf("expected %d lines, got %d", len(records)+1, len(lines))
	}
	if !strings.HasPrefix(lines[1], "1959") || !strings.Contains(lines[1], "-") {
		t.Errorf("seed row should show unmodeled values: %q", lines[1])
	}

	report, summary, err := accuracy.Summarize(records)
	if err != nil {
		t.Fatal(err)
	}
	buf.Reset()
	if err := WriteErrorTable(&buf, report, summary); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"PERIOD", "1960", "1964", summary.Average, "rmse", "bias", "max_error"} {
		if !strings.Contains(out, want) {
			t.Errorf("error table missing %q:\n%s", want, out)
		}
	}
}
