package model

import (
	"bytes"
	"fmt"
	"strconv"
)

// Money is a currency-agnostic decimal amount. Upstream forms sometimes
// deliver prices as quoted strings, so unmarshalling accepts both.
type Money float64

func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		*m = 0
		return nil
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("invalid money value %q: %w", data, err)
	}
	*m = Money(v)
	return nil
}

// Minutes is a duration expressed in whole minutes, tolerant of
// string-typed input the same way Money is.
type Minutes int

func (m *Minutes) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		*m = 0
		return nil
	}
	v, err := strconv.Atoi(string(data))
	if err != nil {
		f, ferr := strconv.ParseFloat(string(data), 64)
		if ferr != nil {
			return fmt.Errorf("invalid minutes value %q: %w", data, err)
		}
		v = int(f)
	}
	*m = Minutes(v)
	return nil
}

// FormatMinutes renders a duration in minutes as "1h 30m", "2h" or "45m".
func FormatMinutes(total Minutes) string {
	h := int(total) / 60
	m := int(total) % 60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dm", m)
	}
}
