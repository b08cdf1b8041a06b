package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles are the lipgloss styles of one theme.
type Styles struct {
	Theme    Theme
	Title    lipgloss.Style
	Panel    lipgloss.Style
	Selected lipgloss.Style
	Label    lipgloss.Style
	Value    lipgloss.Style
	KeyHint  lipgloss.Style
	Recorded lipgloss.Style
	Modeled  lipgloss.Style
	Good     lipgloss.Style
	Warning  lipgloss.Style
	Bad      lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Theme: t,
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Primary).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(t.Muted),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Muted).
			Padding(0, 1),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		Label:    lipgloss.NewStyle().Foreground(t.Muted),
		Value:    lipgloss.NewStyle().Bold(true).Foreground(t.Text),
		KeyHint:  lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		Recorded: lipgloss.NewStyle().Foreground(t.Recorded),
		Modeled:  lipgloss.NewStyle().Foreground(t.Modeled),
		Good:     lipgloss.NewStyle().Bold(true).Foreground(t.Good),
		Warning:  lipgloss.NewStyle().Bold(true).Foreground(t.Warning),
		Bad:      lipgloss.NewStyle().Bold(true).Foreground(t.Bad),
	}
}

// DefaultStyles is the first theme's styles, used by the CLI.
var DefaultStyles = NewStyles(Themes[0])

// ErrorStyle picks a style by the size of a percent error.
func (s Styles) ErrorStyle(v float64) lipgloss.Style {
	switch {
	case v < 5:
		return s.Good
	case v < 15:
		return s.Warning
	default:
		return s.Bad
	}
}

// Slider renders value on [lo, hi] as a bar of the given width.
func Slider(value, lo, hi float64, width int) string {
	if width <= 0 {
		return ""
	}
	frac := 0.0
	if hi > lo {
		frac = (value - lo) / (hi - lo)
	}
	frac = math.Max(0, math.Min(1, frac))
	filled := int(math.Round(frac * float64(width)))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// SliderRow renders a labelled slider with its current value.
func (s Styles) SliderRow(label string, value, lo, hi float64, width int, selected bool) string {
	bar := Slider(value, lo, hi, width)
	name := s.Label.Render(fmt.Sprintf("%-12s", label))
	if selected {
		name = s.Selected.Render(fmt.Sprintf("%-12s", "▸ "+label))
		bar = s.Selected.Render(bar)
	}
	return fmt.Sprintf("%s %s %s", name, bar, s.Value.Render(fmt.Sprintf("%.1f", value)))
}

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders values as one line of block characters, sampled down to
// width. NaN values render as spaces.
func Sparkline(values []float64, width int) string {
	if width <= 0 {
		return ""
	}
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	rng := hi - lo
	if rng == 0 || math.IsInf(rng, 0) {
		rng = 1
	}

	step := len(values) / width
	if step < 1 {
		step = 1
	}

	var sb strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		v := values[i*step]
		if math.IsNaN(v) {
			sb.WriteRune(' ')
			continue
		}
		idx := int((v - lo) / rng * float64(len(sparkChars)-1))
		idx = max(0, min(idx, len(sparkChars)-1))
		sb.WriteRune(sparkChars[idx])
	}
	return sb.String()
}
