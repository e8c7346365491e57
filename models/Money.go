package models

import (
	"strconv"
	"strings"
)

// Money is a rupee amount inside the persisted state blob. Legacy exports
// stored amounts as numbers, numeric strings or null depending on the form
// that wrote them, so anything unparseable decodes to zero instead of
// failing the whole state load.
type Money float64

func (m *Money) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "" || raw == "null" {
		*m = 0
		return nil
	}
	raw = strings.Trim(raw, `"`)
	if raw == "" {
		*m = 0
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		*m = 0
		return nil
	}
	*m = Money(value)
	return nil
}

func (m Money) Float() float64 { return float64(m) }
