// README: Rate schedule source backed by an optional JSON override file.
package pricing

import (
	"encoding/json"
	"fmt"
	"os"

	"taxibook/internal/types"
)

// rateFileEntry is one row of the override file. Money is whole rupees.
type rateFileEntry struct {
	IncludedHours  float64 `json:"includedHours"`
	BaseFare       int64   `json:"baseFare"`
	OveragePerHour int64   `json:"overagePerHour"`
	Description    string  `json:"description"`
}

// LoadSchedule returns DefaultSchedule when path is empty, otherwise the
// schedule read from path. The file must define every service type.
func LoadSchedule(path string) (Schedule, error) {
	if path == "" {
		return DefaultSchedule(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rates file: %w", err)
	}
	return parseSchedule(data)
}

func parseSchedule(data []byte) (Schedule, error) {
	var raw map[string]rateFileEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}
	s := make(Schedule, len(raw))
	for key, e := range raw {
		t, ok := ParseServiceType(key)
		if !ok {
			return nil, fmt.Errorf("%w: unknown service type %q", ErrInvalidSchedule, key)
		}
		if e.IncludedHours < 0 {
			return nil, fmt.Errorf("%w: negative includedHours for %s", ErrInvalidSchedule, t)
		}
		if e.BaseFare > MaxRupees || e.OveragePerHour > MaxRupees {
			return nil, fmt.Errorf("%w: rate above ₹%d for %s", ErrInvalidSchedule, int64(MaxRupees), t)
		}
		r := Rate{
			ServiceType:    t,
			IncludedHours:  HoursFromFloat(e.IncludedHours),
			BaseFare:       types.Rupees(e.BaseFare),
			OveragePerHour: types.Rupees(e.OveragePerHour),
			Description:    e.Description,
		}
		if r.Description == "" {
			r.Description = describe(r)
		}
		s[t] = r
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func describe(r Rate) string {
	if r.IncludedHours == 0 && r.BaseFare.Amount == 0 {
		return fmt.Sprintf("Standard hourly rate: %s/hour", wholeRupees(r.OveragePerHour))
	}
	return fmt.Sprintf("Base rate: %s for %s hours\nAdditional hours: %s/hour",
		wholeRupees(r.BaseFare), r.IncludedHours, wholeRupees(r.OveragePerHour))
}

func wholeRupees(m types.Money) string {
	if m.Amount%100 == 0 {
		return fmt.Sprintf("₹%d", m.Amount/100)
	}
	return m.String()
}
