package expense

import "context"

// LedgerRepository - interface for expense_ledgers, expense_items and
// receipts tables
type LedgerRepository interface {
	Create(ctx context.Context, ledger Ledger) (Ledger, error)
	// GetByID returns the ledger header without items or receipts.
	GetByID(ctx context.Context, id string) (Ledger, error)
	GetByOwnerMonth(ctx context.Context, employeeID string, year, month int) (Ledger, error)
	// ReplaceItems swaps all items of a ledger and bumps the version.
	// Fails with ErrVersionConflict when expectedVersion no longer
	// matches.
	ReplaceItems(ctx context.Context, ledgerID string, expectedVersion int64, items []Item) error
	AddReceipt(ctx context.Context, receipt Receipt) (Receipt, error)
	GetReceipt(ctx context.Context, receiptID string) (Receipt, error)
	DeleteReceipt(ctx context.Context, receiptID string) error
}
