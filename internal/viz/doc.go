// Package viz renders climate series for the terminal.
//
// Charts are drawn with asciigraph, text styling uses lipgloss:
//
//   - [AnomalyPlot]: modeled against recorded anomalies of a replay
//   - [TemperaturePlot], [ConcentrationPlot]: single series charts
//   - [WriteErrorTable], [WriteRecordTable]: aligned tables for the CLI
//   - [Slider], [Sparkline]: compact widgets used by the control surface
//
// Styles are derived from a [Theme]; the control surface cycles through
// [Themes] with the T key.
package viz
