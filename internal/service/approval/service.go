package approval

import (
	"context"
	"fmt"

	"github.com/kintaihub/kintai-backend-go/internal/domain/approval"
	"github.com/kintaihub/kintai-backend-go/internal/domain/identity"
	"github.com/kintaihub/kintai-backend-go/internal/domain/timecard"
	"github.com/kintaihub/kintai-backend-go/internal/pkg/database"
)

// ApprovalService drives ledger status transitions. Guards are enforced
// here on top of the transition table; status and audit entry always
// commit together.
type ApprovalService interface {
	Submit(ctx context.Context, actorID, ledgerID string, version int64) error
	LeaderApprove(ctx context.Context, actorID, ledgerID string, version int64) (approval.AuditEntry, error)
	LeaderReject(ctx context.Context, actorID, ledgerID string, version int64, comment string) (approval.AuditEntry, error)
	AdminApprove(ctx context.Context, actorID, ledgerID string, version int64) (approval.AuditEntry, error)
	Reopen(ctx context.Context, actorID, ledgerID string, version int64) error
	History(ctx context.Context, ledgerID string) ([]approval.AuditEntry, error)
	ListForReview(ctx context.Context, year, month int, status timecard.LedgerStatus) ([]timecard.ReviewEntry, error)
}

type approvalServiceImpl struct {
	tx         database.TxManager
	ledgerRepo timecard.LedgerRepository
	auditRepo  approval.AuditRepository
	roles      identity.RoleProvider
}

func NewApprovalService(tx database.TxManager, ledgerRepo timecard.LedgerRepository, auditRepo approval.AuditRepository, roles identity.RoleProvider) ApprovalService {
	return &approvalServiceImpl{
		tx:         tx,
		ledgerRepo: ledgerRepo,
		auditRepo:  auditRepo,
		roles:      roles,
	}
}

// Submit moves an owner's draft or returned ledger to submitted. The
// ledger must pass validation; every violation is reported, none blocks
// the others from being listed.
func (s *approvalServiceImpl) Submit(ctx context.Context, actorID, ledgerID string, version int64) error {
	ledger, err := s.ledgerRepo.GetByID(ctx, ledgerID)
	if err != nil {
		return fmt.Errorf("failed to get attendance ledger: %w", err)
	}

	if ledger.EmployeeID != actorID {
		return approval.ErrNotOwner
	}

	next, err := approval.Transition(ledger.Status, approval.EventSubmit)
	if err != nil {
		return err
	}

	records, err := s.ledgerRepo.GetRecords(ctx, ledgerID)
	if err != nil {
		return fmt.Errorf("failed to get daily records: %w", err)
	}
	if violations := timecard.ValidateRecords(records); len(violations) > 0 {
		return violations
	}

	if err := s.ledgerRepo.UpdateStatus(ctx, ledgerID, version, next, actorID); err != nil {
		return err
	}

	return nil
}

func (s *approvalServiceImpl) LeaderApprove(ctx context.Context, actorID, ledgerID string, version int64) (approval.AuditEntry, error) {
	return s.review(ctx, actorID, ledgerID, version, approval.EventLeaderApprove, nil)
}

func (s *approvalServiceImpl) LeaderReject(ctx context.Context, actorID, ledgerID string, version int64, comment string) (approval.AuditEntry, error) {
	if comment == "" {
		return approval.AuditEntry{}, approval.ErrMissingComment
	}
	return s.review(ctx, actorID, ledgerID, version, approval.EventLeaderReject, &comment)
}

func (s *approvalServiceImpl) AdminApprove(ctx context.Context, actorID, ledgerID string, version int64) (approval.AuditEntry, error) {
	return s.review(ctx, actorID, ledgerID, version, approval.EventAdminApprove, nil)
}

// review applies an approve/reject event: transition table, role guard,
// then status update and audit entry in one transaction. A guard failure
// applies nothing.
func (s *approvalServiceImpl) review(ctx context.Context, actorID, ledgerID string, version int64, event approval.Event, comment *string) (approval.AuditEntry, error) {
	ledger, err := s.ledgerRepo.GetByID(ctx, ledgerID)
	if err != nil {
		return approval.AuditEntry{}, fmt.Errorf("failed to get attendance ledger: %w", err)
	}

	next, err := approval.Transition(ledger.Status, event)
	if err != nil {
		return approval.AuditEntry{}, err
	}

	if err := s.checkRole(ctx, actorID, ledger.EmployeeID, event); err != nil {
		return approval.AuditEntry{}, err
	}

	stage, outcome, hasAudit := approval.AuditForEvent(event)
	if !hasAudit {
		return approval.AuditEntry{}, approval.ErrWrongState
	}

	entry := approval.AuditEntry{
		LedgerID: ledgerID,
		Stage:    stage,
		Outcome:  outcome,
		ActorID:  actorID,
		Comment:  comment,
	}

	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.ledgerRepo.UpdateStatus(txCtx, ledgerID, version, next, actorID); err != nil {
			return err
		}
		appended, err := s.auditRepo.Append(txCtx, entry)
		if err != nil {
			return err
		}
		entry = appended
		return nil
	})
	if err != nil {
		return approval.AuditEntry{}, err
	}

	return entry, nil
}

func (s *approvalServiceImpl) checkRole(ctx context.Context, actorID, ownerID string, event approval.Event) error {
	switch event {
	case approval.EventLeaderApprove, approval.EventLeaderReject:
		ok, err := s.roles.IsLeaderFor(ctx, actorID, ownerID)
		if err != nil {
			return fmt.Errorf("failed to check leader role: %w", err)
		}
		if !ok {
			return approval.ErrInsufficientRole
		}
	case approval.EventAdminApprove:
		ok, err := s.roles.IsAdmin(ctx, actorID)
		if err != nil {
			return fmt.Errorf("failed to check admin role: %w", err)
		}
		if !ok {
			return approval.ErrInsufficientRole
		}
	}
	return nil
}

// Reopen sends a ledger back to draft for edits. Allowed for the owner
// or an admin, as an explicit manual action.
func (s *approvalServiceImpl) Reopen(ctx context.Context, actorID, ledgerID string, version int64) error {
	ledger, err := s.ledgerRepo.GetByID(ctx, ledgerID)
	if err != nil {
		return fmt.Errorf("failed to get attendance ledger: %w", err)
	}

	next, err := approval.Transition(ledger.Status, approval.EventReopen)
	if err != nil {
		return err
	}

	if ledger.EmployeeID != actorID {
		isAdmin, err := s.roles.IsAdmin(ctx, actorID)
		if err != nil {
			return fmt.Errorf("failed to check admin role: %w", err)
		}
		if !isAdmin {
			return approval.ErrInsufficientRole
		}
	}

	return s.ledgerRepo.UpdateStatus(ctx, ledgerID, version, next, actorID)
}

func (s *approvalServiceImpl) History(ctx context.Context, ledgerID string) ([]approval.AuditEntry, error) {
	entries, err := s.auditRepo.ListByLedger(ctx, ledgerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	return entries, nil
}

func (s *approvalServiceImpl) ListForReview(ctx context.Context, year, month int, status timecard.LedgerStatus) ([]timecard.ReviewEntry, error) {
	entries, err := s.ledgerRepo.ListForReview(ctx, year, month, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledgers for review: %w", err)
	}
	return entries, nil
}
