package timecard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kintaihub/kintai-backend-go/internal/domain/holiday"
	"github.com/kintaihub/kintai-backend-go/internal/domain/timecard"
	"github.com/kintaihub/kintai-backend-go/internal/pkg/database"
)

type TimecardService interface {
	// GetMonth returns the owner's ledger for a month. When none exists
	// yet an unsaved draft skeleton (version 0) is returned; the row is
	// only created on first save.
	GetMonth(ctx context.Context, employeeID string, year, month int) (timecard.LedgerResponse, error)
	// SaveRecords replaces the month's records as one atomic unit,
	// sanitizing time fields on write and recomputing derived values.
	SaveRecords(ctx context.Context, req timecard.SaveRecordsRequest) (timecard.SaveRecordsResponse, error)
	// Validate runs the submit-gate checks and returns every violation.
	Validate(ctx context.Context, employeeID string, year, month int) (timecard.Violations, error)
}

type timecardServiceImpl struct {
	tx         database.TxManager
	ledgerRepo timecard.LedgerRepository
	holidays   holiday.Calendar
}

func NewTimecardService(tx database.TxManager, ledgerRepo timecard.LedgerRepository, holidays holiday.Calendar) TimecardService {
	return &timecardServiceImpl{
		tx:         tx,
		ledgerRepo: ledgerRepo,
		holidays:   holidays,
	}
}

func (s *timecardServiceImpl) GetMonth(ctx context.Context, employeeID string, year, month int) (timecard.LedgerResponse, error) {
	ledger, err := s.ledgerRepo.GetByOwnerMonth(ctx, employeeID, year, month)
	if err != nil {
		if errors.Is(err, timecard.ErrLedgerNotFound) {
			// Unsaved skeleton; persisted lazily on first save
			ledger = timecard.MonthlyLedger{
				EmployeeID: employeeID,
				Year:       year,
				Month:      month,
				Status:     timecard.StatusDraft,
				Records:    monthSkeleton(year, month),
			}
			return s.toResponse(ctx, ledger)
		}
		return timecard.LedgerResponse{}, fmt.Errorf("failed to get attendance ledger: %w", err)
	}

	records, err := s.ledgerRepo.GetRecords(ctx, ledger.ID)
	if err != nil {
		return timecard.LedgerResponse{}, fmt.Errorf("failed to get daily records: %w", err)
	}
	ledger.Records = records

	return s.toResponse(ctx, ledger)
}

func (s *timecardServiceImpl) SaveRecords(ctx context.Context, req timecard.SaveRecordsRequest) (timecard.SaveRecordsResponse, error) {
	if err := req.Validate(); err != nil {
		return timecard.SaveRecordsResponse{}, err
	}

	records, cleared, err := buildRecords(req)
	if err != nil {
		return timecard.SaveRecordsResponse{}, err
	}
	// A persisted ledger always carries one row per calendar day; days
	// the client did not send are stored blank.
	records = mergeIntoMonth(req.Year, req.Month, records)

	ledger, err := s.ledgerRepo.GetByOwnerMonth(ctx, req.EmployeeID, req.Year, req.Month)
	if err != nil && !errors.Is(err, timecard.ErrLedgerNotFound) {
		return timecard.SaveRecordsResponse{}, fmt.Errorf("failed to get attendance ledger: %w", err)
	}

	if errors.Is(err, timecard.ErrLedgerNotFound) {
		// First save of the month creates the ledger row
		ledger = timecard.MonthlyLedger{
			EmployeeID: req.EmployeeID,
			Year:       req.Year,
			Month:      req.Month,
			Status:     timecard.StatusDraft,
			Workplace:  req.Workplace,
			UpdatedBy:  req.EmployeeID,
			Records:    records,
		}
		err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
			created, createErr := s.ledgerRepo.Create(txCtx, ledger)
			if createErr != nil {
				return createErr
			}
			ledger = created
			return nil
		})
		if err != nil {
			return timecard.SaveRecordsResponse{}, fmt.Errorf("failed to create attendance ledger: %w", err)
		}
	} else {
		if !ledger.Status.Editable() {
			return timecard.SaveRecordsResponse{}, timecard.ErrLedgerNotEditable
		}

		err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
			return s.ledgerRepo.ReplaceRecords(txCtx, ledger.ID, req.Version, records, req.Workplace, req.EmployeeID)
		})
		if err != nil {
			if errors.Is(err, timecard.ErrVersionConflict) {
				return timecard.SaveRecordsResponse{}, err
			}
			return timecard.SaveRecordsResponse{}, fmt.Errorf("failed to replace daily records: %w", err)
		}
		ledger.Version = req.Version + 1
	}

	return timecard.SaveRecordsResponse{
		LedgerID:      ledger.ID,
		Version:       ledger.Version,
		ClearedFields: cleared,
		Summary:       timecard.ComputeSummary(records),
	}, nil
}

func (s *timecardServiceImpl) Validate(ctx context.Context, employeeID string, year, month int) (timecard.Violations, error) {
	ledger, err := s.ledgerRepo.GetByOwnerMonth(ctx, employeeID, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to get attendance ledger: %w", err)
	}

	records, err := s.ledgerRepo.GetRecords(ctx, ledger.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily records: %w", err)
	}

	return timecard.ValidateRecords(records), nil
}

// buildRecords converts the raw inputs into entities, sanitizing time
// fields on write. Malformed times are cleared, never rejected; the
// cleared fields are reported back so the caller can warn the user.
func buildRecords(req timecard.SaveRecordsRequest) ([]timecard.DailyRecord, []timecard.ClearedField, error) {
	var records []timecard.DailyRecord
	var cleared []timecard.ClearedField
	seen := make(map[string]bool)
	month := timecard.MonthlyLedger{Year: req.Year, Month: req.Month}

	for _, input := range req.Records {
		date, err := time.Parse("2006-01-02", input.Date)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse record date %q: %w", input.Date, err)
		}
		if !month.ContainsDate(date) {
			return nil, nil, timecard.ErrDateOutOfMonth
		}
		if seen[input.Date] {
			return nil, nil, timecard.ErrDuplicateDate
		}
		seen[input.Date] = true

		rec := timecard.DailyRecord{
			Date:         date,
			BreakMinutes: input.BreakMinutes,
		}

		start := timecard.SanitizeTimeOfDay(input.StartTime)
		if start.Cleared {
			cleared = append(cleared, timecard.ClearedField{Date: input.Date, Field: "start_time"})
		} else if start.Value != "" {
			rec.StartTime = &start.Value
		}

		end := timecard.SanitizeTimeOfDay(input.EndTime)
		if end.Cleared {
			cleared = append(cleared, timecard.ClearedField{Date: input.Date, Field: "end_time"})
		} else if end.Value != "" {
			rec.EndTime = &end.Value
		}

		if input.WorkType != nil && *input.WorkType != "" {
			wt := timecard.WorkType(*input.WorkType)
			rec.WorkType = &wt
		}
		if input.Remarks != "" {
			remarks := input.Remarks
			rec.Remarks = &remarks
		}
		if input.LateEarlyHours != nil {
			rec.LateEarlyHours = *input.LateEarlyHours
		}

		rec.Recompute()
		records = append(records, rec)
	}

	return records, cleared, nil
}

// monthSkeleton builds one blank record per calendar day.
func monthSkeleton(year, month int) []timecard.DailyRecord {
	days := (&timecard.MonthlyLedger{Year: year, Month: month}).DaysInMonth()
	records := make([]timecard.DailyRecord, 0, days)
	for day := 1; day <= days; day++ {
		records = append(records, timecard.DailyRecord{
			Date: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC),
		})
	}
	return records
}

// mergeIntoMonth lays the submitted records over a full-month skeleton,
// keeping the result ordered by date with one row per calendar day.
func mergeIntoMonth(year, month int, records []timecard.DailyRecord) []timecard.DailyRecord {
	byDay := make(map[int]timecard.DailyRecord, len(records))
	for _, rec := range records {
		byDay[rec.Date.Day()] = rec
	}

	full := monthSkeleton(year, month)
	for i := range full {
		if rec, ok := byDay[full[i].Date.Day()]; ok {
			full[i] = rec
		}
	}
	return full
}

func (s *timecardServiceImpl) toResponse(ctx context.Context, ledger timecard.MonthlyLedger) (timecard.LedgerResponse, error) {
	holidaySet := make(map[string]bool)
	if s.holidays != nil {
		// Holiday flags are display-only; a lookup failure degrades to
		// no highlighting rather than failing the request
		if dates, err := s.holidays.ListMonth(ctx, ledger.Year, ledger.Month); err == nil {
			for _, d := range dates {
				holidaySet[d.Format("2006-01-02")] = true
			}
		}
	}

	records := make([]timecard.RecordResponse, 0, len(ledger.Records))
	for _, rec := range ledger.Records {
		records = append(records, timecard.NewRecordResponse(rec, holidaySet[rec.Date.Format("2006-01-02")]))
	}

	return timecard.LedgerResponse{
		ID:          ledger.ID,
		EmployeeID:  ledger.EmployeeID,
		Year:        ledger.Year,
		Month:       ledger.Month,
		Status:      string(ledger.Status),
		StatusLabel: ledger.Status.Label(),
		Workplace:   ledger.Workplace,
		Version:     ledger.Version,
		Editable:    ledger.Status.Editable(),
		Records:     records,
		Summary:     timecard.ComputeSummary(ledger.Records),
		UpdatedAt:   ledger.UpdatedAt,
	}, nil
}
