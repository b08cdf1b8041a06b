package climate

import (
	"errors"
	"math"
	"testing"
)

func TestPeriod_Label(t *testing.T) {
	tests := []struct {
		p    Period
		want string
	}{
		{Yearly(1960), "1960"},
		{Monthly(1960, 1), "1960, 1"},
		{Monthly(2020, 12), "2020, 12"},
	}

	for _, tt := range tests {
		if got := tt.p.Label(); got != tt.want {
			t.Errorf("Label(%+v) = %q, want %q", tt.p, got, tt.want)
		}
	}
}

func TestPeriod_Next(t *testing.T) {
	tests := []struct {
		name string
		p    Period
		want Period
	}{
		{"year", Yearly(1999), Yearly(2000)},
		{"mid year", Monthly(1999, 6), Monthly(1999, 7)},
		{"december", Monthly(1999, 12), Monthly(2000, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Next(); got != tt.want {
				t.Errorf("Next() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		in      string
		want    Period
		wantErr bool
	}{
		{"1960", Yearly(1960), false},
		{"1960-3", Monthly(1960, 3), false},
		{"1960-03", Monthly(1960, 3), false},
		{"1960-13", Period{}, true},
		{"1960-0", Period{}, true},
		{"abc", Period{}, true},
		{"", Period{}, true},
	}

	for _, tt := range tests {
		got, err := ParsePeriod(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidPeriod) {
				t.Errorf("ParsePeriod(%q) error = %v, want ErrInvalidPeriod", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParsePeriod(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePeriod(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestNewRecord(t *testing.T) {
	r, err := NewRecord(Yearly(1960), 316.91)
	if err != nil {
		t.Fatalf("NewRecord failed: %v", err)
	}
	if r.HasRecorded() || r.HasModeled() {
		t.Error("new record should have no recorded or modeled values")
	}

	if _, err := NewRecord(Yearly(1960), -1); !errors.Is(err, ErrDomain) {
		t.Errorf("expected ErrDomain for negative concentration, got %v", err)
	}
	if _, err := NewRecord(Monthly(1960, 13), 300); !errors.Is(err, ErrInvalidPeriod) {
		t.Errorf("expected ErrInvalidPeriod, got %v", err)
	}
}

func TestRecord_SetRecorded(t *testing.T) {
	r, _ := NewRecord(Yearly(1960), 316.91)
	r.SetRecorded(0.08, 13.9)

	if !r.HasRecorded() {
		t.Fatal("expected recorded values")
	}
	if *r.RecordedAnomaly != 0.08 {
		t.Errorf("anomaly = %v, want 0.08", *r.RecordedAnomaly)
	}
	if *r.RecordedTemp != 13.98 {
		t.Errorf("temp = %v, want 13.98", *r.RecordedTemp)
	}
}

func TestCheckOrder(t *testing.T) {
	mk := func(ps ...Period) []Record {
		out := make([]Record, len(ps))
		for i, p := range ps {
			out[i] = Record{Period: p, Concentration: 300}
		}
		return out
	}

	tests := []struct {
		name    string
		records []Record
		ok      bool
	}{
		{"empty", nil, true},
		{"contiguous years", mk(Yearly(1959), Yearly(1960), Yearly(1961)), true},
		{"contiguous months", mk(Monthly(1959, 12), Monthly(1960, 1)), true},
		{"gap", mk(Yearly(1959), Yearly(1961)), false},
		{"duplicate", mk(Yearly(1959), Yearly(1959)), false},
		{"reversed", mk(Yearly(1960), Yearly(1959)), false},
		{"mixed", mk(Yearly(1959), Monthly(1960, 1)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckOrder(tt.records)
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrOrder) {
				t.Errorf("expected ErrOrder, got %v", err)
			}
		})
	}
}

func TestWindow(t *testing.T) {
	records := make([]Record, 0, 10)
	for y := 1959; y < 1969; y++ {
		records = append(records, Record{Period: Yearly(y), Concentration: 300})
	}

	w, err := Window(records, Yearly(1960), 3)
	if err != nil {
		t.Fatalf("Window failed: %v", err)
	}
	if len(w) != 3 || w[0].Period.Year != 1960 || w[2].Period.Year != 1962 {
		t.Errorf("unexpected window: %+v", w)
	}

	w, err = Window(records, Yearly(1966), 12)
	if err != nil {
		t.Fatalf("Window failed: %v", err)
	}
	if len(w) != 3 {
		t.Errorf("expected window capped at 3 records, got %d", len(w))
	}

	if _, err := Window(records, Yearly(2000), 3); !errors.Is(err, ErrInvalidPeriod) {
		t.Errorf("expected ErrInvalidPeriod, got %v", err)
	}
	if _, err := Window(records, Yearly(1960), 0); err == nil {
		t.Error("expected error for zero window")
	}
}

func TestExtractAndCompare(t *testing.T) {
	a, _ := NewRecord(Yearly(1959), 315.98)
	a.SetRecorded(0.03, 13.9)
	b, _ := NewRecord(Yearly(1960), 316.91)
	b.SetRecorded(0.08, 13.9)
	b.SetModeled(13.99, 0.09)
	c, _ := NewRecord(Yearly(2021), 416.2)
	c.SetModeled(15.6, 1.7)
	d, _ := NewRecord(Yearly(2022), 418.0)

	s := Extract([]Record{a, b, c, d})
	if len(s.Labels) != 4 || s.Labels[1] != "1960" {
		t.Errorf("unexpected labels: %v", s.Labels)
	}
	if s.Temperature[0] != 13.93 || s.Temperature[2] != 15.6 {
		t.Errorf("unexpected temperatures: %v", s.Temperature)
	}
	if !math.IsNaN(s.Temperature[3]) {
		t.Errorf("expected NaN for unset temperature, got %v", s.Temperature[3])
	}

	pairs := Compare([]Record{a, b, c})
	if pairs.Len() != 1 || pairs.Labels[0] != "1960" {
		t.Errorf("expected one comparable pair, got %+v", pairs)
	}
}
