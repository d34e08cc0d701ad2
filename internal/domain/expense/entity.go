package expense

import "time"

// ItemKind separates the two sub-ledgers of a month's expenses.
type ItemKind string

const (
	KindCommute  ItemKind = "commute"
	KindBusiness ItemKind = "business"
)

// TripType classifies a travel expense line.
type TripType string

const (
	TripOneWay    TripType = "one_way"
	TripRoundTrip TripType = "round_trip"
	TripOther     TripType = "other"
)

// Item is one commute or business expense line.
type Item struct {
	ID               string
	LedgerID         string
	Kind             ItemKind
	Date             time.Time
	CarrierOrLodging string
	FromLocation     string
	ToLocation       string
	ExpenseType      string
	TripType         TripType
	Amount           int64 // positive, in currency units
	Remarks          string
	SortOrder        int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Receipt references an uploaded receipt file. The blob itself is opaque
// to the core; only the storage path is kept.
type Receipt struct {
	ID         string
	LedgerID   string
	FileName   string
	BlobPath   string
	Remarks    string
	UploadedAt time.Time
}

// Ledger is the per-employee, per-month expense container. It shares the
// (employee, year, month) key space with the attendance ledger but is only
// loosely associated: expenses may exist without an attendance ledger.
type Ledger struct {
	ID         string
	EmployeeID string
	Year       int
	Month      int
	Version    int64

	CreatedAt time.Time
	UpdatedAt time.Time

	CommuteItems  []Item
	BusinessItems []Item
	Receipts      []Receipt
}
