// Package tui is the interactive control surface: sliders and toggles that
// re-run the model and redraw the chart on every change.
package tui

import (
	"errors"
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/climsim/internal/accuracy"
	"github.com/san-kum/climsim/internal/climate"
	"github.com/san-kum/climsim/internal/config"
	"github.com/san-kum/climsim/internal/model"
	"github.com/san-kum/climsim/internal/viz"
)

// Loader returns the unmodeled history at one granularity.
type Loader func(monthly bool) ([]climate.Record, error)

const (
	SectionSize = 12
	MaxYears    = 100
	sliderWidth = 24
)

type control int

const (
	ctrlGranularity control = iota
	ctrlExtrapolate
	ctrlSensitivity
	ctrlEmissions
	ctrlYears
	ctrlSection
	numControls
)

var controlNames = [numControls]string{"granularity", "extrapolate", "sensitivity", "emissions", "years", "section"}

// App is the bubbletea model of the control surface.
type App struct {
	engine  *model.Engine
	load    Loader
	history map[bool][]climate.Record

	monthly     bool
	extrapolate bool
	sectionOnly bool
	sensitivity float64
	emissions   float64
	years       int
	start       int

	cursor control
	styles viz.Styles

	records []climate.Record
	mean    float64
	average string
	err     error

	width  int
	height int
}

func NewApp(engine *model.Engine, load Loader, run config.RunConfig) *App {
	a := &App{
		engine:      engine,
		load:        load,
		history:     make(map[bool][]climate.Record),
		monthly:     run.Granularity == config.GranularityMonthly,
		sensitivity: run.Sensitivity,
		emissions:   run.Emissions,
		years:       run.Years,
		sectionOnly: true,
		styles:      viz.NewStyles(viz.Themes[0]),
		width:       80,
		height:      24,
	}
	a.recompute()
	return a
}

func (a *App) Init() tea.Cmd { return nil }

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKey(msg)
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return a, tea.Quit
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
		return a, nil
	case "down", "j":
		if a.cursor < numControls-1 {
			a.cursor++
		}
		return a, nil
	case "t":
		a.styles = viz.NewStyles(viz.NextTheme(a.styles.Theme.Name))
		return a, nil
	case "w":
		a.sectionOnly = !a.sectionOnly
	case "left", "h":
		a.adjust(-1)
	case "right", "l", "enter", " ":
		a.adjust(1)
	default:
		return a, nil
	}
	a.recompute()
	return a, nil
}

func step(v, delta, lo, hi float64) float64 {
	v = math.Round((v+delta)*10) / 10
	return math.Max(lo, math.Min(hi, v))
}

func (a *App) adjust(dir int) {
	p := a.engine.Params()
	switch a.cursor {
	case ctrlGranularity:
		a.monthly = !a.monthly
		a.start = 0
	case ctrlExtrapolate:
		a.extrapolate = !a.extrapolate
	case ctrlSensitivity:
		a.sensitivity = step(a.sensitivity, 0.1*float64(dir), p.SensitivityMin, p.SensitivityMax)
	case ctrlEmissions:
		a.emissions = step(a.emissions, 0.1*float64(dir), 0, config.MaxEmissions)
	case ctrlYears:
		a.years = max(1, min(MaxYears, a.years+dir))
	case ctrlSection:
		n := len(a.history[a.monthly])
		if n == 0 {
			return
		}
		a.start = max(0, min(n-1, a.start+dir))
	}
}

func (a *App) historyFor(monthly bool) ([]climate.Record, error) {
	if h, ok := a.history[monthly]; ok {
		return h, nil
	}
	if a.load == nil {
		return nil, errors.New("no data source configured")
	}
	h, err := a.load(monthly)
	if err != nil {
		return nil, err
	}
	a.history[monthly] = h
	return h, nil
}

// recompute re-runs the model for the current controls.
func (a *App) recompute() {
	a.err = nil
	a.average = ""
	a.records = nil

	if a.extrapolate {
		out, err := a.engine.Extrapolate(a.years, a.sensitivity, a.emissions)
		if err != nil {
			a.err = err
			return
		}
		a.records = out
		return
	}

	hist, err := a.historyFor(a.monthly)
	if err != nil {
		a.err = err
		return
	}
	records := make([]climate.Record, len(hist))
	copy(records, hist)
	if a.sectionOnly && len(records) > 0 {
		a.start = min(a.start, len(records)-1)
		records, err = climate.Window(records, records[a.start].Period, SectionSize)
		if err != nil {
			a.err = err
			return
		}
	}
	if err := a.engine.Replay(records, a.sensitivity); err != nil {
		a.err = err
		return
	}
	a.records = records

	report, err := accuracy.ComputeError(records)
	if err != nil {
		a.err = err
		return
	}
	if mean, err := report.Mean(); err == nil {
		a.mean = mean
		a.average = accuracy.FormatPercent(mean)
	}
}

func (a *App) View() string {
	s := a.styles
	var b strings.Builder

	b.WriteString(s.Title.Render("climsim") + "  " + s.Label.Render(a.mode()) + "\n\n")

	for c := control(0); c < numControls; c++ {
		b.WriteString(a.controlRow(c) + "\n")
	}
	b.WriteString("\n")

	if a.err != nil {
		b.WriteString(s.Bad.Render("error: "+a.err.Error()) + "\n")
	} else {
		b.WriteString(a.chart() + "\n")
		conc := climate.Extract(a.records).Concentration
		b.WriteString(s.Label.Render("co2 ") + s.Recorded.Render(viz.Sparkline(conc, min(len(conc), a.chartWidth()))) + "\n")
		if a.average != "" {
			b.WriteString(s.Label.Render("average error ") + s.ErrorStyle(a.mean).Render(a.average) + "\n")
		}
	}

	b.WriteString("\n" + s.KeyHint.Render("↑↓ select  ←→ adjust  w section/full  t theme  q quit") + "\n")
	return b.String()
}

func (a *App) mode() string {
	if a.extrapolate {
		return fmt.Sprintf("projection %d-%d", a.engine.Params().BaselineYear+1, a.engine.Params().BaselineYear+a.years)
	}
	g := config.GranularityYearly
	if a.monthly {
		g = config.GranularityMonthly
	}
	return "replay of " + g + " history"
}

func (a *App) controlRow(c control) string {
	s := a.styles
	selected := c == a.cursor
	p := a.engine.Params()

	toggle := func(label, on, off string, v bool) string {
		val := off
		if v {
			val = on
		}
		name := s.Label.Render(fmt.Sprintf("%-12s", label))
		if selected {
			name = s.Selected.Render(fmt.Sprintf("%-12s", "▸ "+label))
		}
		return name + " " + s.Value.Render(val)
	}

	switch c {
	case ctrlGranularity:
		return toggle(controlNames[c], "monthly", "yearly", a.monthly)
	case ctrlExtrapolate:
		return toggle(controlNames[c], "on", "off", a.extrapolate)
	case ctrlSensitivity:
		return s.SliderRow(controlNames[c], a.sensitivity, p.SensitivityMin, p.SensitivityMax, sliderWidth, selected)
	case ctrlEmissions:
		return s.SliderRow(controlNames[c], a.emissions, 0, config.MaxEmissions, sliderWidth, selected)
	case ctrlYears:
		return s.SliderRow(controlNames[c], float64(a.years), 1, MaxYears, sliderWidth, selected)
	case ctrlSection:
		label := "-"
		if h := a.history[a.monthly]; len(h) > 0 {
			label = h[min(a.start, len(h)-1)].Label()
		}
		if !a.sectionOnly {
			label += " (full series)"
		}
		return toggle(controlNames[c], label, label, true)
	}
	return ""
}

func (a *App) chartWidth() int {
	return max(20, a.width-12)
}

func (a *App) chart() string {
	opts := viz.PlotOptions{Width: a.chartWidth(), Height: max(6, a.height-20)}
	var out string
	if a.extrapolate {
		out = viz.TemperaturePlot(a.records, opts)
	} else {
		out = viz.AnomalyPlot(a.records, opts)
	}
	if out == "" {
		return a.styles.Label.Render("nothing to plot")
	}
	return out
}

func RunInteractive(engine *model.Engine, load Loader, run config.RunConfig) error {
	p := tea.NewProgram(NewApp(engine, load, run), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
