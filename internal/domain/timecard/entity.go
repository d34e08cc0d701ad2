package timecard

import (
	"time"
)

// WorkType classifies a calendar day on the attendance ledger.
type WorkType string

const (
	WorkTypeRegular          WorkType = "regular"
	WorkTypeHolidayWork      WorkType = "holiday_work"
	WorkTypePaidLeave        WorkType = "paid_leave"
	WorkTypeAMLeave          WorkType = "am_leave"
	WorkTypePMLeave          WorkType = "pm_leave"
	WorkTypeSpecialLeave     WorkType = "special_leave"
	WorkTypeCompLeave        WorkType = "compensatory_leave"
	WorkTypeCompLeavePlanned WorkType = "compensatory_leave_planned"
	WorkTypeAbsence          WorkType = "absence"
	WorkTypeLate             WorkType = "late"
	WorkTypeEarlyLeave       WorkType = "early_leave"
	WorkTypeDelay            WorkType = "delay"
	WorkTypeShift            WorkType = "shift"
	WorkTypeBusinessHoliday  WorkType = "business_holiday"
)

var workTypes = map[WorkType]bool{
	WorkTypeRegular:          true,
	WorkTypeHolidayWork:      true,
	WorkTypePaidLeave:        true,
	WorkTypeAMLeave:          true,
	WorkTypePMLeave:          true,
	WorkTypeSpecialLeave:     true,
	WorkTypeCompLeave:        true,
	WorkTypeCompLeavePlanned: true,
	WorkTypeAbsence:          true,
	WorkTypeLate:             true,
	WorkTypeEarlyLeave:       true,
	WorkTypeDelay:            true,
	WorkTypeShift:            true,
	WorkTypeBusinessHoliday:  true,
}

// IsValidWorkType reports whether code is a known classification.
func IsValidWorkType(code WorkType) bool {
	return workTypes[code]
}

// LedgerStatus is the lifecycle state of a monthly ledger. The values are
// the two-digit codes carried on the wire and in storage.
type LedgerStatus string

const (
	StatusDraft          LedgerStatus = "00"
	StatusSubmitted      LedgerStatus = "01"
	StatusLeaderApproved LedgerStatus = "02"
	StatusReturned       LedgerStatus = "03"
	StatusAdminApproved  LedgerStatus = "04"
)

// Label returns the human-readable name for a status code.
func (s LedgerStatus) Label() string {
	switch s {
	case StatusDraft:
		return "draft"
	case StatusSubmitted:
		return "submitted"
	case StatusLeaderApproved:
		return "leader_approved"
	case StatusReturned:
		return "returned"
	case StatusAdminApproved:
		return "admin_approved"
	default:
		return "unknown"
	}
}

// Editable reports whether the owner may modify records and expense items.
// Only draft and returned ledgers are open for edits.
func (s LedgerStatus) Editable() bool {
	return s == StatusDraft || s == StatusReturned
}

// DailyRecord is one calendar day's attendance entry.
type DailyRecord struct {
	ID           string
	LedgerID     string
	Date         time.Time
	StartTime    *string // normalized "HH:MM", nil when blank
	EndTime      *string
	BreakMinutes *int
	WorkType     *WorkType
	Remarks      *string

	// LateEarlyHours is entered by the employee, independent of the
	// clock times.
	LateEarlyHours float64

	// ActualWorkMinutes is derived from (start, end, break). Stored
	// values are a cache only; Recompute is the source of truth.
	ActualWorkMinutes *int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Recompute refreshes ActualWorkMinutes from the raw time fields.
// Must be called after any mutation of start/end/break and on read of
// persisted rows.
func (r *DailyRecord) Recompute() {
	r.ActualWorkMinutes = ComputeActualWork(r.StartTime, r.EndTime, r.BreakMinutes)
}

// MonthlyLedger aggregates one employee's DailyRecords for a year/month.
// At most one ledger exists per (employee, year, month).
type MonthlyLedger struct {
	ID         string
	EmployeeID string
	Year       int
	Month      int
	Status     LedgerStatus
	Workplace  string

	// Version guards concurrent status transitions and record writes.
	Version int64

	CreatedAt time.Time
	UpdatedAt time.Time
	UpdatedBy string

	Records []DailyRecord
}

// DaysInMonth returns the number of calendar days of the ledger's month.
func (l *MonthlyLedger) DaysInMonth() int {
	return time.Date(l.Year, time.Month(l.Month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ContainsDate reports whether d falls inside the ledger's month.
func (l *MonthlyLedger) ContainsDate(d time.Time) bool {
	return d.Year() == l.Year && int(d.Month()) == l.Month
}
