package viz

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/san-kum/climsim/internal/accuracy"
	"github.com/san-kum/climsim/internal/climate"
)

func optional(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.3f", *v)
}

// WriteRecordTable prints one row per record.
func WriteRecordTable(w io.Writer, records []climate.Record) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PERIOD\tCO2\tRECORDED\tANOMALY\tMODELED\tANOMALY")
	for i := range records {
		r := &records[i]
		fmt.Fprintf(tw, "%s\t%.2f\t%s\t%s\t%s\t%s\n",
			r.Label(), r.Concentration,
			optional(r.RecordedTemp), optional(r.RecordedAnomaly),
			optional(r.ModeledTemp), optional(r.ModeledAnomaly))
	}
	return tw.Flush()
}

// WriteErrorTable prints per-period errors followed by the summary metrics.
func WriteErrorTable(w io.Writer, report *accuracy.Report, summary *accuracy.Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PERIOD\tMODELED\tRECORDED\tERROR")
	for _, e := range report.Entries() {
		fmt.Fprintf(tw, "%s\t%.3f\t%.3f\t%.2f%%\n", e.Label, e.Modeled, e.Recorded, e.Value)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if summary == nil {
		return nil
	}
	return WriteSummary(w, summary)
}

// WriteSummary prints the average error and the remaining metrics sorted by
// name.
func WriteSummary(w io.Writer, summary *accuracy.Summary) error {
	fmt.Fprintf(w, "\n%s %s over %d periods\n",
		DefaultStyles.Label.Render("average error"),
		DefaultStyles.ErrorStyle(summary.Mean()).Render(summary.Average),
		summary.Periods)

	names := make([]string, 0, len(summary.Metrics))
	for name := range summary.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, name := range names {
		fmt.Fprintf(tw, "  %s\t%.4f\n", name, summary.Metrics[name])
	}
	return tw.Flush()
}
