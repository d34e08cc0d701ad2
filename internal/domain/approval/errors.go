package approval

import "errors"

var (
	ErrWrongState       = errors.New("transition is not allowed from the ledger's current status")
	ErrValidationFailed = errors.New("attendance records must pass validation before submit")
	ErrInsufficientRole = errors.New("actor does not hold the role required for this transition")
	ErrMissingComment   = errors.New("a comment is required when returning a ledger")
	ErrNotOwner         = errors.New("only the ledger owner may perform this action")
)
