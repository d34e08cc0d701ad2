package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/kintaihub/kintai-backend-go/internal/domain/timecard"
	"github.com/kintaihub/kintai-backend-go/internal/pkg/database"
)

type ledgerRepositoryImpl struct {
	db *database.DB
}

func NewLedgerRepository(db *database.DB) timecard.LedgerRepository {
	return &ledgerRepositoryImpl{db: db}
}

func (r *ledgerRepositoryImpl) Create(ctx context.Context, ledger timecard.MonthlyLedger) (timecard.MonthlyLedger, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_ledgers (
			id, employee_id, year, month, status, workplace, version,
			created_at, updated_at, updated_by
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5, 1,
			NOW(), NOW(), $6
		) RETURNING id, version, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		ledger.EmployeeID, ledger.Year, ledger.Month, ledger.Status, ledger.Workplace, ledger.UpdatedBy,
	).Scan(&ledger.ID, &ledger.Version, &ledger.CreatedAt, &ledger.UpdatedAt)
	if err != nil {
		return timecard.MonthlyLedger{}, fmt.Errorf("create attendance ledger: %w", err)
	}

	for i := range ledger.Records {
		ledger.Records[i].LedgerID = ledger.ID
	}
	if err := r.insertRecords(ctx, ledger.ID, ledger.Records); err != nil {
		return timecard.MonthlyLedger{}, err
	}

	return ledger, nil
}

func (r *ledgerRepositoryImpl) GetByID(ctx context.Context, id string) (timecard.MonthlyLedger, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, year, month, status, workplace, version,
			   created_at, updated_at, updated_by
		FROM attendance_ledgers
		WHERE id = $1
	`

	var l timecard.MonthlyLedger
	err := q.QueryRow(ctx, query, id).Scan(
		&l.ID, &l.EmployeeID, &l.Year, &l.Month, &l.Status, &l.Workplace, &l.Version,
		&l.CreatedAt, &l.UpdatedAt, &l.UpdatedBy,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return timecard.MonthlyLedger{}, timecard.ErrLedgerNotFound
		}
		return timecard.MonthlyLedger{}, err
	}

	return l, nil
}

func (r *ledgerRepositoryImpl) GetByOwnerMonth(ctx context.Context, employeeID string, year, month int) (timecard.MonthlyLedger, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, year, month, status, workplace, version,
			   created_at, updated_at, updated_by
		FROM attendance_ledgers
		WHERE employee_id = $1 AND year = $2 AND month = $3
	`

	var l timecard.MonthlyLedger
	err := q.QueryRow(ctx, query, employeeID, year, month).Scan(
		&l.ID, &l.EmployeeID, &l.Year, &l.Month, &l.Status, &l.Workplace, &l.Version,
		&l.CreatedAt, &l.UpdatedAt, &l.UpdatedBy,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return timecard.MonthlyLedger{}, timecard.ErrLedgerNotFound
		}
		return timecard.MonthlyLedger{}, err
	}

	return l, nil
}

// ReplaceRecords implements the replace-all-records pattern: the old rows
// are dropped and the new set inserted while the ledger version is bumped
// under an optimistic check, all inside the caller's transaction.
func (r *ledgerRepositoryImpl) ReplaceRecords(ctx context.Context, ledgerID string, expectedVersion int64, records []timecard.DailyRecord, workplace, actorID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE attendance_ledgers
		SET workplace = $2, version = version + 1, updated_at = NOW(), updated_by = $3
		WHERE id = $1 AND version = $4
	`, ledgerID, workplace, actorID, expectedVersion)
	if err != nil {
		return fmt.Errorf("bump ledger version: %w", err)
	}
	if tag.RowsAffected() != 1 {
		return timecard.ErrVersionConflict
	}

	if _, err := q.Exec(ctx, `DELETE FROM daily_records WHERE ledger_id = $1`, ledgerID); err != nil {
		return fmt.Errorf("clear daily records: %w", err)
	}

	return r.insertRecords(ctx, ledgerID, records)
}

func (r *ledgerRepositoryImpl) insertRecords(ctx context.Context, ledgerID string, records []timecard.DailyRecord) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO daily_records (
			id, ledger_id, record_date, start_time, end_time, break_minutes,
			work_type, remarks, late_early_hours, actual_work_minutes,
			created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5,
			$6, $7, $8, $9,
			NOW(), NOW()
		)
	`

	for _, rec := range records {
		var workType *string
		if rec.WorkType != nil {
			wt := string(*rec.WorkType)
			workType = &wt
		}
		_, err := q.Exec(ctx, query,
			ledgerID, rec.Date, rec.StartTime, rec.EndTime, rec.BreakMinutes,
			workType, rec.Remarks, rec.LateEarlyHours, rec.ActualWorkMinutes,
		)
		if err != nil {
			return fmt.Errorf("insert daily record %s: %w", rec.Date.Format("2006-01-02"), err)
		}
	}

	return nil
}

func (r *ledgerRepositoryImpl) GetRecords(ctx context.Context, ledgerID string) ([]timecard.DailyRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, ledger_id, record_date, start_time, end_time, break_minutes,
			   work_type, remarks, late_early_hours, actual_work_minutes,
			   created_at, updated_at
		FROM daily_records
		WHERE ledger_id = $1
		ORDER BY record_date ASC
	`

	rows, err := q.Query(ctx, query, ledgerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []timecard.DailyRecord
	for rows.Next() {
		var rec timecard.DailyRecord
		var workType *string
		err := rows.Scan(
			&rec.ID, &rec.LedgerID, &rec.Date, &rec.StartTime, &rec.EndTime, &rec.BreakMinutes,
			&workType, &rec.Remarks, &rec.LateEarlyHours, &rec.ActualWorkMinutes,
			&rec.CreatedAt, &rec.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		if workType != nil {
			wt := timecard.WorkType(*workType)
			rec.WorkType = &wt
		}
		// Stored actual minutes are a cache; derive again on read
		rec.Recompute()
		records = append(records, rec)
	}

	return records, rows.Err()
}

func (r *ledgerRepositoryImpl) UpdateStatus(ctx context.Context, ledgerID string, expectedVersion int64, status timecard.LedgerStatus, actorID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE attendance_ledgers
		SET status = $2, version = version + 1, updated_at = NOW(), updated_by = $3
		WHERE id = $1 AND version = $4
	`, ledgerID, status, actorID, expectedVersion)
	if err != nil {
		return fmt.Errorf("update ledger status: %w", err)
	}
	if tag.RowsAffected() != 1 {
		return timecard.ErrVersionConflict
	}

	return nil
}

func (r *ledgerRepositoryImpl) ListForReview(ctx context.Context, year, month int, status timecard.LedgerStatus) ([]timecard.ReviewEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT al.id, al.employee_id, al.year, al.month, al.status, al.workplace,
			   al.version, al.created_at, al.updated_at, al.updated_by,
			   e.full_name, e.branch_id
		FROM attendance_ledgers al
		INNER JOIN employees e ON al.employee_id = e.id
		WHERE al.year = $1 AND al.month = $2 AND al.status = $3
		ORDER BY e.branch_id, e.full_name
	`

	rows, err := q.Query(ctx, query, year, month, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []timecard.ReviewEntry
	for rows.Next() {
		var entry timecard.ReviewEntry
		err := rows.Scan(
			&entry.Ledger.ID, &entry.Ledger.EmployeeID, &entry.Ledger.Year, &entry.Ledger.Month,
			&entry.Ledger.Status, &entry.Ledger.Workplace, &entry.Ledger.Version,
			&entry.Ledger.CreatedAt, &entry.Ledger.UpdatedAt, &entry.Ledger.UpdatedBy,
			&entry.EmployeeName, &entry.BranchID,
		)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
