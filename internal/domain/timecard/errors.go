package timecard

import "errors"

var (
	ErrTimeFormat        = errors.New("time must be four digits, hour 00-23 and minute 00-59")
	ErrLedgerNotFound    = errors.New("attendance ledger not found")
	ErrLedgerNotEditable = errors.New("attendance ledger is not editable in its current status")
	ErrDateOutOfMonth    = errors.New("record date falls outside the ledger month")
	ErrDuplicateDate     = errors.New("duplicate record date in the ledger month")
	ErrVersionConflict   = errors.New("attendance ledger was modified concurrently")
)
