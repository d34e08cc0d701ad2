package expense

import "errors"

var (
	ErrExpenseLedgerNotFound = errors.New("expense ledger not found")
	ErrReceiptNotFound       = errors.New("receipt not found")
	ErrLedgerNotEditable     = errors.New("expense ledger is read-only while the attendance ledger is under review")
	ErrVersionConflict       = errors.New("expense ledger was modified concurrently")
)
