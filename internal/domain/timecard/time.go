package timecard

import (
	"fmt"
	"strings"
)

// TimeOfDay is a minute-precision clock time within a single day.
type TimeOfDay struct {
	Hour   int
	Minute int
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// TotalMinutes returns minutes since midnight.
func (t TimeOfDay) TotalMinutes() int {
	return t.Hour*60 + t.Minute
}

// ParseTimeOfDay parses a clock time from free-form input. All non-digit
// characters are stripped first, so "09:00", "0900" and "9:00 " are treated
// as "0900", "900". Exactly four digits must remain, with hour 00-23 and
// minute 00-59; anything else returns ErrTimeFormat.
func ParseTimeOfDay(raw string) (TimeOfDay, error) {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	s := digits.String()
	if len(s) != 4 {
		return TimeOfDay{}, ErrTimeFormat
	}

	hour := int(s[0]-'0')*10 + int(s[1]-'0')
	minute := int(s[2]-'0')*10 + int(s[3]-'0')
	if hour > 23 || minute > 59 {
		return TimeOfDay{}, ErrTimeFormat
	}

	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// SanitizeResult is the outcome of sanitizing a raw time field.
// When Cleared is true the input was malformed and the stored value
// must be emptied; callers may surface a warning but never a hard error.
type SanitizeResult struct {
	Value   string
	Cleared bool
}

// SanitizeTimeOfDay normalizes raw input to "HH:MM" or clears it.
// Empty input stays empty and is not reported as cleared.
func SanitizeTimeOfDay(raw string) SanitizeResult {
	if strings.TrimSpace(raw) == "" {
		return SanitizeResult{}
	}
	t, err := ParseTimeOfDay(raw)
	if err != nil {
		return SanitizeResult{Cleared: true}
	}
	return SanitizeResult{Value: t.String()}
}

// ComputeActualWork derives worked minutes as (end - start) - break.
// It returns nil when any input is missing or malformed, or when end is
// before start (overnight shifts are not supported). A break longer than
// the interval floors the result at zero rather than going negative.
func ComputeActualWork(start, end *string, breakMinutes *int) *int {
	if start == nil || end == nil || breakMinutes == nil {
		return nil
	}

	s, err := ParseTimeOfDay(*start)
	if err != nil {
		return nil
	}
	e, err := ParseTimeOfDay(*end)
	if err != nil {
		return nil
	}

	if e.TotalMinutes() < s.TotalMinutes() {
		return nil
	}

	worked := e.TotalMinutes() - s.TotalMinutes() - *breakMinutes
	if worked < 0 {
		worked = 0
	}
	return &worked
}

// SumWorkMinutes totals derived work minutes, skipping records without one.
// Bounded by days-in-month x 24h, so overflow is not a concern.
func SumWorkMinutes(records []DailyRecord) int {
	total := 0
	for _, r := range records {
		if r.ActualWorkMinutes != nil {
			total += *r.ActualWorkMinutes
		}
	}
	return total
}
