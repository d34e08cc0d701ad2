package approval

import "context"

// AuditRepository - interface for approval_audit_entries table
type AuditRepository interface {
	Append(ctx context.Context, entry AuditEntry) (AuditEntry, error)
	ListByLedger(ctx context.Context, ledgerID string) ([]AuditEntry, error)
}
