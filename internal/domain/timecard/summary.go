package timecard

// Summary is the derived monthly aggregate. It is always recomputable from
// the record set; persisted copies are caches, never authoritative.
type Summary struct {
	TotalWorkDays   int     `json:"total_work_days"`
	RegularWorkDays int     `json:"regular_work_days"`
	HolidayWorkDays int     `json:"holiday_work_days"`
	AbsenceDays     int     `json:"absence_days"`
	TotalWorkHours  float64 `json:"total_work_hours"`
	LateEarlyHours  float64 `json:"late_early_hours"`
	PaidLeaveDays   float64 `json:"paid_leave_days"`
}

// ComputeSummary folds a month's records into a Summary. The fold is
// order-independent, so callers may pass records in any iteration order.
//
// Bucket rules:
//   - a day counts as worked only when it has derived work minutes > 0
//   - holiday-work days count toward TotalWorkDays but never
//     RegularWorkDays; the two buckets are mutually exclusive
//   - AbsenceDays counts by classification alone
//   - PaidLeaveDays: 1.0 for paid leave, 0.5 for am/pm half-day leave
func ComputeSummary(records []DailyRecord) Summary {
	var s Summary

	for _, r := range records {
		worked := r.ActualWorkMinutes != nil && *r.ActualWorkMinutes > 0
		isHolidayWork := r.WorkType != nil && *r.WorkType == WorkTypeHolidayWork

		if worked {
			s.TotalWorkDays++
			if isHolidayWork {
				s.HolidayWorkDays++
			} else {
				s.RegularWorkDays++
			}
		}

		if r.WorkType != nil {
			switch *r.WorkType {
			case WorkTypeAbsence:
				s.AbsenceDays++
			case WorkTypePaidLeave:
				s.PaidLeaveDays += 1.0
			case WorkTypeAMLeave, WorkTypePMLeave:
				s.PaidLeaveDays += 0.5
			}
		}

		s.LateEarlyHours += r.LateEarlyHours
	}

	s.TotalWorkHours = float64(SumWorkMinutes(records)) / 60.0
	return s
}
