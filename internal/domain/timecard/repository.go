package timecard

import (
	"context"
)

// LedgerRepository - interface for attendance_ledgers and daily_records tables
type LedgerRepository interface {
	Create(ctx context.Context, ledger MonthlyLedger) (MonthlyLedger, error)
	GetByID(ctx context.Context, id string) (MonthlyLedger, error)
	GetByOwnerMonth(ctx context.Context, employeeID string, year, month int) (MonthlyLedger, error)
	// ReplaceRecords swaps the full record set of a ledger, stores the
	// workplace and bumps the ledger version. Fails with
	// ErrVersionConflict when expectedVersion no longer matches.
	ReplaceRecords(ctx context.Context, ledgerID string, expectedVersion int64, records []DailyRecord, workplace, actorID string) error
	GetRecords(ctx context.Context, ledgerID string) ([]DailyRecord, error)
	// UpdateStatus moves a ledger to status under an optimistic version
	// check, bumping the version. Fails with ErrVersionConflict when
	// expectedVersion no longer matches.
	UpdateStatus(ctx context.Context, ledgerID string, expectedVersion int64, status LedgerStatus, actorID string) error
	// ListForReview returns ledgers of a given month and status together
	// with their owners' branch, for the approver screens.
	ListForReview(ctx context.Context, year, month int, status LedgerStatus) ([]ReviewEntry, error)
}

// ReviewEntry is one row on an approver's review listing.
type ReviewEntry struct {
	Ledger       MonthlyLedger
	EmployeeName string
	BranchID     string
}
