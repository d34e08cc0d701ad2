package postgresql

import (
	"context"
	"fmt"

	"github.com/kintaihub/kintai-backend-go/internal/domain/approval"
	"github.com/kintaihub/kintai-backend-go/internal/pkg/database"
)

type auditRepositoryImpl struct {
	db *database.DB
}

func NewAuditRepository(db *database.DB) approval.AuditRepository {
	return &auditRepositoryImpl{db: db}
}

func (r *auditRepositoryImpl) Append(ctx context.Context, entry approval.AuditEntry) (approval.AuditEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO approval_audit_entries (
			id, ledger_id, stage, outcome, actor_id, comment, created_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5, NOW()
		) RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		entry.LedgerID, entry.Stage, entry.Outcome, entry.ActorID, entry.Comment,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return approval.AuditEntry{}, fmt.Errorf("append audit entry: %w", err)
	}

	return entry, nil
}

func (r *auditRepositoryImpl) ListByLedger(ctx context.Context, ledgerID string) ([]approval.AuditEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, ledger_id, stage, outcome, actor_id, comment, created_at
		FROM approval_audit_entries
		WHERE ledger_id = $1
		ORDER BY created_at ASC
	`

	rows, err := q.Query(ctx, query, ledgerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []approval.AuditEntry
	for rows.Next() {
		var e approval.AuditEntry
		err := rows.Scan(&e.ID, &e.LedgerID, &e.Stage, &e.Outcome, &e.ActorID, &e.Comment, &e.CreatedAt)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
