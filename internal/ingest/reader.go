package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/san-kum/climsim/internal/series"
)

var (
	ErrLayout    = errors.New("ingest: invalid layout")
	ErrMalformed = errors.New("ingest: malformed row")
)

// RowError locates a malformed row in its source.
type RowError struct {
	Source string
	Line   int
	Reason string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s: %s line %d: %s", ErrMalformed, e.Source, e.Line, e.Reason)
}

func (e *RowError) Unwrap() error { return ErrMalformed }

// Reader decodes CSV tables. Title and column header rows are recognised as
// rows whose period field is not numeric and are only allowed before the
// first data row.
type Reader struct {
	logger *zap.Logger
}

func NewReader(logger *zap.Logger) *Reader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reader{logger: logger}
}

type rawRow struct {
	line   int
	period string
	month  string
	value  float64
}

func (r *Reader) scan(src io.Reader, name string, l Layout) ([]rawRow, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}

	cr := csv.NewReader(src)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	var (
		rows    []rawRow
		seen    int
		headers int
		missing int
	)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		line, _ := cr.FieldPos(0)

		seen++
		if seen <= l.SkipLines {
			continue
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}

		period := ""
		if l.YearColumn < len(rec) {
			period = strings.TrimSpace(rec[l.YearColumn])
		}
		if _, err := strconv.Atoi(period); err != nil {
			if len(rows) == 0 {
				headers++
				continue
			}
			return nil, &RowError{Source: name, Line: line, Reason: fmt.Sprintf("period %q is not numeric", period)}
		}
		if len(rec) < l.width() {
			return nil, &RowError{Source: name, Line: line, Reason: fmt.Sprintf("expected at least %d fields, got %d", l.width(), len(rec))}
		}

		raw := strings.TrimSpace(rec[l.ValueColumn])
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsInf(v, 0) {
			return nil, &RowError{Source: name, Line: line, Reason: fmt.Sprintf("value %q is not a number", raw)}
		}
		if math.IsNaN(v) || l.isMissing(v) {
			missing++
			r.logger.Debug("skipping missing value", zap.String("source", name), zap.Int("line", line), zap.String("period", period))
			continue
		}

		row := rawRow{line: line, period: period, value: v}
		if l.MonthColumn != NoColumn {
			row.month = strings.TrimSpace(rec[l.MonthColumn])
		}
		rows = append(rows, row)
	}

	r.logger.Debug("scanned table",
		zap.String("source", name),
		zap.Int("rows", len(rows)),
		zap.Int("headers", headers),
		zap.Int("missing", missing),
	)
	return rows, nil
}

// Concentration decodes a CO2 table. name identifies src in errors and logs.
func (r *Reader) Concentration(src io.Reader, name string, l Layout) ([]series.ConcentrationRow, error) {
	raw, err := r.scan(src, name, l)
	if err != nil {
		return nil, err
	}

	out := make([]series.ConcentrationRow, 0, len(raw))
	for _, row := range raw {
		c := series.ConcentrationRow{Concentration: row.value}
		if l.Packed {
			p, err := series.ParsePacked(row.period)
			if err != nil {
				return nil, &RowError{Source: name, Line: row.line, Reason: err.Error()}
			}
			c.Year, c.Month = p.Year, p.Month
		} else {
			c.Year, _ = strconv.Atoi(row.period)
			if l.MonthColumn != NoColumn {
				m, err := strconv.Atoi(row.month)
				if err != nil {
					return nil, &RowError{Source: name, Line: row.line, Reason: fmt.Sprintf("month %q is not numeric", row.month)}
				}
				c.Month = m
			}
		}
		out = append(out, c)
	}
	return out, nil
}

// Anomaly decodes a temperature anomaly table.
func (r *Reader) Anomaly(src io.Reader, name string, l Layout) ([]series.AnomalyRow, error) {
	if l.MonthColumn != NoColumn {
		return nil, fmt.Errorf("%w: anomaly tables key months by packed period", ErrLayout)
	}
	raw, err := r.scan(src, name, l)
	if err != nil {
		return nil, err
	}

	out := make([]series.AnomalyRow, 0, len(raw))
	for _, row := range raw {
		a := series.AnomalyRow{Anomaly: row.value}
		if l.Packed {
			a.Packed = row.period
		} else {
			a.Year, _ = strconv.Atoi(row.period)
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *Reader) ConcentrationFile(path string, l Layout) ([]series.ConcentrationRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return r.Concentration(f, path, l)
}

func (r *Reader) AnomalyFile(path string, l Layout) ([]series.AnomalyRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return r.Anomaly(f, path, l)
}
