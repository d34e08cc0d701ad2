package holiday

import (
	"context"
	"time"
)

// Calendar answers date -> is-holiday lookups. It only feeds display
// flags on the month view; no ledger invariant depends on it.
type Calendar interface {
	IsHoliday(ctx context.Context, date time.Time) (bool, error)
	// ListMonth returns the holiday dates of a year/month.
	ListMonth(ctx context.Context, year, month int) ([]time.Time, error)
}
