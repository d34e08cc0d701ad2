package expense

import (
	"time"

	"github.com/kintaihub/kintai-backend-go/internal/pkg/validator"
)

// ========================================
// EXPENSE DTOs
// ========================================

type ItemInput struct {
	Date             string `json:"date"` // "2006-01-02"
	CarrierOrLodging string `json:"carrier_or_lodging"`
	FromLocation     string `json:"from_location"`
	ToLocation       string `json:"to_location"`
	ExpenseType      string `json:"expense_type"`
	TripType         string `json:"trip_type"`
	Amount           int64  `json:"amount"`
	Remarks          string `json:"remarks"`
}

type SaveItemsRequest struct {
	EmployeeID    string      `json:"-"`
	Year          int         `json:"year"`
	Month         int         `json:"month"`
	Version       int64       `json:"version"`
	CommuteItems  []ItemInput `json:"commute_items"`
	BusinessItems []ItemInput `json:"business_items"`
}

func (r *SaveItemsRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if r.Month < 1 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}

	tripTypes := []string{string(TripOneWay), string(TripRoundTrip), string(TripOther)}
	for _, group := range [][]ItemInput{r.CommuteItems, r.BusinessItems} {
		for _, item := range group {
			if _, ok := validator.IsValidDate(item.Date); !ok {
				errs = append(errs, validator.ValidationError{
					Field:   "items.date",
					Message: "date must be formatted as YYYY-MM-DD",
				})
			}
			if item.Amount <= 0 {
				errs = append(errs, validator.ValidationError{
					Field:   "items.amount",
					Message: "amount must be a positive integer",
				})
			}
			if item.TripType != "" && !validator.IsInSlice(item.TripType, tripTypes) {
				errs = append(errs, validator.ValidationError{
					Field:   "items.trip_type",
					Message: "trip_type must be one_way, round_trip or other",
				})
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ItemWarning flags a soft problem on a saved item, e.g. a date outside
// the ledger month. Warnings never block the save.
type ItemWarning struct {
	Kind    string `json:"kind"`
	Index   int    `json:"index"`
	Message string `json:"message"`
}

type SaveItemsResponse struct {
	LedgerID string        `json:"ledger_id"`
	Version  int64         `json:"version"`
	Warnings []ItemWarning `json:"warnings,omitempty"`
}

type ItemResponse struct {
	ID               string `json:"id"`
	Date             string `json:"date"`
	CarrierOrLodging string `json:"carrier_or_lodging"`
	FromLocation     string `json:"from_location"`
	ToLocation       string `json:"to_location"`
	ExpenseType      string `json:"expense_type"`
	TripType         string `json:"trip_type"`
	Amount           int64  `json:"amount"`
	Remarks          string `json:"remarks"`
}

type ReceiptResponse struct {
	ID         string    `json:"id"`
	FileName   string    `json:"file_name"`
	URL        string    `json:"url"`
	Remarks    string    `json:"remarks"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type LedgerResponse struct {
	ID            string            `json:"id"`
	EmployeeID    string            `json:"employee_id"`
	Year          int               `json:"year"`
	Month         int               `json:"month"`
	Version       int64             `json:"version"`
	Editable      bool              `json:"editable"`
	CommuteItems  []ItemResponse    `json:"commute_items"`
	BusinessItems []ItemResponse    `json:"business_items"`
	Receipts      []ReceiptResponse `json:"receipts"`
	CommuteTotal  int64             `json:"commute_total"`
	BusinessTotal int64             `json:"business_total"`
}

// NewItemResponse converts an entity item.
func NewItemResponse(i Item) ItemResponse {
	return ItemResponse{
		ID:               i.ID,
		Date:             i.Date.Format("2006-01-02"),
		CarrierOrLodging: i.CarrierOrLodging,
		FromLocation:     i.FromLocation,
		ToLocation:       i.ToLocation,
		ExpenseType:      i.ExpenseType,
		TripType:         string(i.TripType),
		Amount:           i.Amount,
		Remarks:          i.Remarks,
	}
}
