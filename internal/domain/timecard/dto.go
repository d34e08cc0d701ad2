package timecard

import (
	"time"

	"github.com/kintaihub/kintai-backend-go/internal/pkg/validator"
)

// ========================================
// TIMECARD DTOs
// ========================================

// RecordInput is one day's entry as submitted by the client. Time fields
// are raw strings; they are sanitized on write, never rejected.
type RecordInput struct {
	Date           string   `json:"date"` // "2006-01-02"
	StartTime      string   `json:"start_time"`
	EndTime        string   `json:"end_time"`
	BreakMinutes   *int     `json:"break_minutes"`
	WorkType       *string  `json:"work_type"`
	Remarks        string   `json:"remarks"`
	LateEarlyHours *float64 `json:"late_early_hours"`
}

type SaveRecordsRequest struct {
	EmployeeID string        `json:"-"`
	Year       int           `json:"year"`
	Month      int           `json:"month"`
	Workplace  string        `json:"workplace"`
	Version    int64         `json:"version"`
	Records    []RecordInput `json:"records"`
}

func (r *SaveRecordsRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if r.Year < 2000 || r.Year > 2100 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be between 2000 and 2100",
		})
	}

	if r.Month < 1 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}

	for _, rec := range r.Records {
		if _, ok := validator.IsValidDate(rec.Date); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "records.date",
				Message: "date must be formatted as YYYY-MM-DD",
			})
			break
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ClearedField reports one sanitized-away time value so the caller can
// warn the user instead of silently losing input.
type ClearedField struct {
	Date  string `json:"date"`
	Field string `json:"field"`
}

type SaveRecordsResponse struct {
	LedgerID      string         `json:"ledger_id"`
	Version       int64          `json:"version"`
	ClearedFields []ClearedField `json:"cleared_fields,omitempty"`
	Summary       Summary        `json:"summary"`
}

// RecordResponse mirrors a DailyRecord for the month view.
type RecordResponse struct {
	Date              string   `json:"date"`
	StartTime         *string  `json:"start_time"`
	EndTime           *string  `json:"end_time"`
	BreakMinutes      *int     `json:"break_minutes"`
	WorkType          *string  `json:"work_type"`
	Remarks           *string  `json:"remarks"`
	LateEarlyHours    float64  `json:"late_early_hours"`
	ActualWorkMinutes *int     `json:"actual_work_minutes"`
	ActualWorkHours   *float64 `json:"actual_work_hours"`
	IsHoliday         bool     `json:"is_holiday"`
}

type LedgerResponse struct {
	ID          string           `json:"id"`
	EmployeeID  string           `json:"employee_id"`
	Year        int              `json:"year"`
	Month       int              `json:"month"`
	Status      string           `json:"status"`
	StatusLabel string           `json:"status_label"`
	Workplace   string           `json:"workplace"`
	Version     int64            `json:"version"`
	Editable    bool             `json:"editable"`
	Records     []RecordResponse `json:"records"`
	Summary     Summary          `json:"summary"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// NewRecordResponse converts an entity record for the month view.
func NewRecordResponse(r DailyRecord, isHoliday bool) RecordResponse {
	resp := RecordResponse{
		Date:              r.Date.Format("2006-01-02"),
		StartTime:         r.StartTime,
		EndTime:           r.EndTime,
		BreakMinutes:      r.BreakMinutes,
		Remarks:           r.Remarks,
		LateEarlyHours:    r.LateEarlyHours,
		ActualWorkMinutes: r.ActualWorkMinutes,
		IsHoliday:         isHoliday,
	}
	if r.WorkType != nil {
		wt := string(*r.WorkType)
		resp.WorkType = &wt
	}
	if r.ActualWorkMinutes != nil {
		hours := float64(*r.ActualWorkMinutes) / 60.0
		resp.ActualWorkHours = &hours
	}
	return resp
}
