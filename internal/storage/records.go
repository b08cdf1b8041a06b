package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/climsim/internal/climate"
)

var recordsHeader = []string{"period", "concentration", "recorded_anomaly", "recorded_temp", "modeled_temp", "modeled_anomaly"}

func formatPeriod(p climate.Period) string {
	if p.HasMonth() {
		return fmt.Sprintf("%d-%d", p.Year, p.Month)
	}
	return strconv.Itoa(p.Year)
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}

func parseOptional(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// WriteRecordsCSV writes records with a header row. Unset values are empty
// fields.
func WriteRecordsCSV(w io.Writer, records []climate.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(recordsHeader); err != nil {
		return err
	}
	for i := range records {
		r := &records[i]
		row := []string{
			formatPeriod(r.Period),
			strconv.FormatFloat(r.Concentration, 'g', -1, 64),
			formatOptional(r.RecordedAnomaly),
			formatOptional(r.RecordedTemp),
			formatOptional(r.ModeledTemp),
			formatOptional(r.ModeledAnomaly),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadRecordsCSV is the inverse of WriteRecordsCSV.
func ReadRecordsCSV(r io.Reader) ([]climate.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(recordsHeader)

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return []climate.Record{}, nil
	}

	out := make([]climate.Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		p, err := climate.ParsePeriod(row[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		conc, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: concentration: %w", i+1, err)
		}
		rec, err := climate.NewRecord(p, conc)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		fields := []**float64{&rec.RecordedAnomaly, &rec.RecordedTemp, &rec.ModeledTemp, &rec.ModeledAnomaly}
		for j, dst := range fields {
			v, err := parseOptional(row[2+j])
			if err != nil {
				return nil, fmt.Errorf("row %d: %s: %w", i+1, recordsHeader[2+j], err)
			}
			*dst = v
		}
		out = append(out, rec)
	}
	return out, nil
}

// Export is the JSON document written by ExportJSON.
type Export struct {
	Run     RunMetadata      `json:"run"`
	Records []climate.Record `json:"records"`
}

func ExportJSON(w io.Writer, meta RunMetadata, records []climate.Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Export{Run: meta, Records: records})
}
