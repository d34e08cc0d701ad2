package timecard

import (
	"fmt"
	"sort"
	"time"
)

// Violation is one validation failure tied to a calendar date.
type Violation struct {
	Date    time.Time `json:"date"`
	Field   string    `json:"field"`
	Message string    `json:"message"`
}

// Violations is the full, ordered validation result for a month.
// It implements error so services can return it through the usual path.
type Violations []Violation

func (v Violations) Error() string {
	return fmt.Sprintf("attendance validation failed with %d violation(s)", len(v))
}

// ValidateRecords checks a full month of records before submit. Every
// violation is collected; there is no short-circuit, so the caller can
// surface all problems at once. The result is ordered by date.
//
// Rules:
//   - each stored time field must parse (or be blank)
//   - end time must not be earlier than start time when both present
//   - start and end must be present together or both absent
//   - partial rows: if any of start/end/break/remarks is set, all four
//     must be set
func ValidateRecords(records []DailyRecord) Violations {
	var violations Violations

	for _, r := range records {
		violations = append(violations, validateRecord(r)...)
	}

	sort.SliceStable(violations, func(i, j int) bool {
		return violations[i].Date.Before(violations[j].Date)
	})

	return violations
}

func validateRecord(r DailyRecord) Violations {
	var violations Violations

	add := func(field, message string) {
		violations = append(violations, Violation{Date: r.Date, Field: field, Message: message})
	}

	var start, end *TimeOfDay
	if r.StartTime != nil {
		t, err := ParseTimeOfDay(*r.StartTime)
		if err != nil {
			add("start_time", "start time is malformed")
		} else {
			start = &t
		}
	}
	if r.EndTime != nil {
		t, err := ParseTimeOfDay(*r.EndTime)
		if err != nil {
			add("end_time", "end time is malformed")
		} else {
			end = &t
		}
	}

	if start != nil && end != nil && end.TotalMinutes() < start.TotalMinutes() {
		add("end_time", "end time is earlier than start time")
	}

	if (r.StartTime == nil) != (r.EndTime == nil) {
		add("start_time", "start and end time must be entered together")
	}

	hasRemarks := r.Remarks != nil && *r.Remarks != ""
	anySet := r.StartTime != nil || r.EndTime != nil || r.BreakMinutes != nil || hasRemarks
	allSet := r.StartTime != nil && r.EndTime != nil && r.BreakMinutes != nil && hasRemarks
	if anySet && !allSet {
		add("record", "incomplete row: start, end, break and remarks must all be entered")
	}

	if r.BreakMinutes != nil && *r.BreakMinutes < 0 {
		add("break_minutes", "break minutes must not be negative")
	}

	if r.WorkType != nil && !IsValidWorkType(*r.WorkType) {
		add("work_type", "unknown work type code")
	}

	return violations
}
