package response

import (
	"errors"
	"net/http"

	"github.com/kintaihub/kintai-backend-go/internal/domain/approval"
	"github.com/kintaihub/kintai-backend-go/internal/domain/expense"
	"github.com/kintaihub/kintai-backend-go/internal/domain/identity"
	"github.com/kintaihub/kintai-backend-go/internal/domain/timecard"
	"github.com/kintaihub/kintai-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Request-shape validation errors
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Attendance validation violations block submit with the full list
	var violations timecard.Violations
	if errors.As(err, &violations) {
		AttendanceValidationError(w, violations)
		return
	}

	switch {
	// Timecard domain errors
	case errors.Is(err, timecard.ErrLedgerNotFound):
		NotFound(w, "Attendance ledger not found")
	case errors.Is(err, timecard.ErrLedgerNotEditable):
		TransitionRejected(w, "NOT_EDITABLE", "Ledger is read-only in its current status")
	case errors.Is(err, timecard.ErrDateOutOfMonth):
		BadRequest(w, "Record date falls outside the ledger month", nil)
	case errors.Is(err, timecard.ErrDuplicateDate):
		BadRequest(w, "Duplicate record date in the ledger month", nil)
	case errors.Is(err, timecard.ErrVersionConflict):
		Conflict(w, "Ledger was modified concurrently, re-fetch and retry")

	// Approval workflow errors
	case errors.Is(err, approval.ErrWrongState):
		TransitionRejected(w, "WRONG_STATE", "Transition is not allowed from the ledger's current status")
	case errors.Is(err, approval.ErrInsufficientRole):
		TransitionRejected(w, "INSUFFICIENT_ROLE", "Actor does not hold the required role")
	case errors.Is(err, approval.ErrMissingComment):
		TransitionRejected(w, "MISSING_COMMENT", "A comment is required when returning a ledger")
	case errors.Is(err, approval.ErrNotOwner):
		Forbidden(w, "Only the ledger owner may perform this action")

	// Expense domain errors
	case errors.Is(err, expense.ErrExpenseLedgerNotFound):
		NotFound(w, "Expense ledger not found")
	case errors.Is(err, expense.ErrReceiptNotFound):
		NotFound(w, "Receipt not found")
	case errors.Is(err, expense.ErrLedgerNotEditable):
		TransitionRejected(w, "NOT_EDITABLE", "Expense ledger is read-only while the attendance ledger is under review")
	case errors.Is(err, expense.ErrVersionConflict):
		Conflict(w, "Expense ledger was modified concurrently, re-fetch and retry")

	// Identity errors
	case errors.Is(err, identity.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
