package series

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/san-kum/climsim/internal/climate"
)

// ParsePacked decodes a "YYYYMM" period string.
func ParsePacked(s string) (climate.Period, error) {
	s = strings.TrimSpace(s)
	if len(s) != 6 {
		return climate.Period{}, fmt.Errorf("%w: packed period %q", climate.ErrInvalidPeriod, s)
	}
	year, err := strconv.Atoi(s[:4])
	if err != nil {
		return climate.Period{}, fmt.Errorf("%w: packed period %q", climate.ErrInvalidPeriod, s)
	}
	month, err := strconv.Atoi(s[4:])
	if err != nil || month < 1 || month > 12 {
		return climate.Period{}, fmt.Errorf("%w: packed period %q", climate.ErrInvalidPeriod, s)
	}
	return climate.Monthly(year, month), nil
}

// Pack is the inverse of ParsePacked.
func Pack(p climate.Period) string {
	return fmt.Sprintf("%04d%02d", p.Year, p.Month)
}
