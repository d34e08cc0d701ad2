package approval

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/kintaihub/kintai-backend-go/internal/domain/approval"
	"github.com/kintaihub/kintai-backend-go/internal/domain/timecard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// In-memory fakes. The ledger fake enforces the same optimistic version
// check as the real repository so conflict behavior is observable here.

type fakeTxManager struct{}

func (fakeTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeLedgerRepo struct {
	mu      sync.Mutex
	ledgers map[string]*timecard.MonthlyLedger
	records map[string][]timecard.DailyRecord
}

func newFakeLedgerRepo() *fakeLedgerRepo {
	return &fakeLedgerRepo{
		ledgers: make(map[string]*timecard.MonthlyLedger),
		records: make(map[string][]timecard.DailyRecord),
	}
}

func (f *fakeLedgerRepo) Create(ctx context.Context, ledger timecard.MonthlyLedger) (timecard.MonthlyLedger, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ledger.ID = fmt.Sprintf("ledger-%d", len(f.ledgers)+1)
	ledger.Version = 1
	f.ledgers[ledger.ID] = &ledger
	return ledger, nil
}

func (f *fakeLedgerRepo) GetByID(ctx context.Context, id string) (timecard.MonthlyLedger, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.ledgers[id]
	if !ok {
		return timecard.MonthlyLedger{}, timecard.ErrLedgerNotFound
	}
	return *l, nil
}

func (f *fakeLedgerRepo) GetByOwnerMonth(ctx context.Context, employeeID string, year, month int) (timecard.MonthlyLedger, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.ledgers {
		if l.EmployeeID == employeeID && l.Year == year && l.Month == month {
			return *l, nil
		}
	}
	return timecard.MonthlyLedger{}, timecard.ErrLedgerNotFound
}

func (f *fakeLedgerRepo) ReplaceRecords(ctx context.Context, ledgerID string, expectedVersion int64, records []timecard.DailyRecord, workplace, actorID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.ledgers[ledgerID]
	if !ok {
		return timecard.ErrLedgerNotFound
	}
	if l.Version != expectedVersion {
		return timecard.ErrVersionConflict
	}
	f.records[ledgerID] = records
	l.Workplace = workplace
	l.Version++
	l.UpdatedBy = actorID
	return nil
}

func (f *fakeLedgerRepo) GetRecords(ctx context.Context, ledgerID string) ([]timecard.DailyRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.records[ledgerID], nil
}

func (f *fakeLedgerRepo) UpdateStatus(ctx context.Context, ledgerID string, expectedVersion int64, status timecard.LedgerStatus, actorID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.ledgers[ledgerID]
	if !ok {
		return timecard.ErrLedgerNotFound
	}
	if l.Version != expectedVersion {
		return timecard.ErrVersionConflict
	}
	l.Status = status
	l.Version++
	l.UpdatedBy = actorID
	return nil
}

func (f *fakeLedgerRepo) ListForReview(ctx context.Context, year, month int, status timecard.LedgerStatus) ([]timecard.ReviewEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var entries []timecard.ReviewEntry
	for _, l := range f.ledgers {
		if l.Year == year && l.Month == month && l.Status == status {
			entries = append(entries, timecard.ReviewEntry{Ledger: *l})
		}
	}
	return entries, nil
}

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []approval.AuditEntry
}

func (f *fakeAuditRepo) Append(ctx context.Context, entry approval.AuditEntry) (approval.AuditEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry.ID = fmt.Sprintf("audit-%d", len(f.entries)+1)
	f.entries = append(f.entries, entry)
	return entry, nil
}

func (f *fakeAuditRepo) ListByLedger(ctx context.Context, ledgerID string) ([]approval.AuditEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []approval.AuditEntry
	for _, e := range f.entries {
		if e.LedgerID == ledgerID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeRoleProvider struct {
	leaders map[string]bool
	admins  map[string]bool
}

func (f *fakeRoleProvider) IsLeaderFor(ctx context.Context, actorID, ownerID string) (bool, error) {
	return f.leaders[actorID] || f.admins[actorID], nil
}

func (f *fakeRoleProvider) IsAdmin(ctx context.Context, actorID string) (bool, error) {
	return f.admins[actorID], nil
}

type approvalFixture struct {
	svc        ApprovalService
	ledgerRepo *fakeLedgerRepo
	auditRepo  *fakeAuditRepo
	ledger     timecard.MonthlyLedger
}

func newApprovalFixture(t *testing.T, status timecard.LedgerStatus) *approvalFixture {
	ledgerRepo := newFakeLedgerRepo()
	auditRepo := &fakeAuditRepo{}
	roles := &fakeRoleProvider{
		leaders: map[string]bool{"leader-1": true},
		admins:  map[string]bool{"admin-1": true},
	}

	ledger, err := ledgerRepo.Create(context.Background(), timecard.MonthlyLedger{
		EmployeeID: "emp-1",
		Year:       2026,
		Month:      7,
		Status:     status,
	})
	require.NoError(t, err)

	return &approvalFixture{
		svc:        NewApprovalService(fakeTxManager{}, ledgerRepo, auditRepo, roles),
		ledgerRepo: ledgerRepo,
		auditRepo:  auditRepo,
		ledger:     ledger,
	}
}

func (f *approvalFixture) currentStatus(t *testing.T) timecard.LedgerStatus {
	l, err := f.ledgerRepo.GetByID(context.Background(), f.ledger.ID)
	require.NoError(t, err)
	return l.Status
}

func TestSubmit_DraftToSubmitted(t *testing.T) {
	ctx := context.Background()
	f := newApprovalFixture(t, timecard.StatusDraft)

	err := f.svc.Submit(ctx, "emp-1", f.ledger.ID, f.ledger.Version)
	require.NoError(t, err)
	assert.Equal(t, timecard.StatusSubmitted, f.currentStatus(t))
}

func TestSubmit_OnlyOwner(t *testing.T) {
	ctx := context.Background()
	f := newApprovalFixture(t, timecard.StatusDraft)

	err := f.svc.Submit(ctx, "emp-2", f.ledger.ID, f.ledger.Version)
	assert.ErrorIs(t, err, approval.ErrNotOwner)
	assert.Equal(t, timecard.StatusDraft, f.currentStatus(t))
}

func TestSubmit_BlockedByValidation(t *testing.T) {
	ctx := context.Background()
	f := newApprovalFixture(t, timecard.StatusDraft)

	start := "09:00"
	f.ledgerRepo.records[f.ledger.ID] = []timecard.DailyRecord{
		{StartTime: &start}, // partial row
	}

	err := f.svc.Submit(ctx, "emp-1", f.ledger.ID, f.ledger.Version)
	require.Error(t, err)

	var violations timecard.Violations
	require.ErrorAs(t, err, &violations)
	assert.NotEmpty(t, violations)
	assert.Equal(t, timecard.StatusDraft, f.currentStatus(t))
}

func TestSubmit_WrongState(t *testing.T) {
	ctx := context.Background()
	f := newApprovalFixture(t, timecard.StatusSubmitted)

	err := f.svc.Submit(ctx, "emp-1", f.ledger.ID, f.ledger.Version)
	assert.ErrorIs(t, err, approval.ErrWrongState)
}

func TestLeaderApprove(t *testing.T) {
	ctx := context.Background()
	f := newApprovalFixture(t, timecard.StatusSubmitted)

	entry, err := f.svc.LeaderApprove(ctx, "leader-1", f.ledger.ID, f.ledger.Version)
	require.NoError(t, err)

	assert.Equal(t, timecard.StatusLeaderApproved, f.currentStatus(t))
	assert.Equal(t, approval.StageLeader, entry.Stage)
	assert.Equal(t, approval.OutcomeApproved, entry.Outcome)
	assert.Equal(t, "leader-1", entry.ActorID)
	assert.NotEmpty(t, entry.ID)
}

func TestLeaderApprove_RequiresLeaderRole(t *testing.T) {
	ctx := context.Background()
	f := newApprovalFixture(t, timecard.StatusSubmitted)

	_, err := f.svc.LeaderApprove(ctx, "emp-1", f.ledger.ID, f.ledger.Version)
	assert.ErrorIs(t, err, approval.ErrInsufficientRole)
	assert.Equal(t, timecard.StatusSubmitted, f.currentStatus(t))
	assert.Empty(t, f.auditRepo.entries)
}

func TestLeaderReject_ReturnsLedgerWithComment(t *testing.T) {
	ctx := context.Background()
	f := newApprovalFixture(t, timecard.StatusSubmitted)

	entry, err := f.svc.LeaderReject(ctx, "leader-1", f.ledger.ID, f.ledger.Version, "break minutes missing on the 12th")
	require.NoError(t, err)

	assert.Equal(t, timecard.StatusReturned, f.currentStatus(t))
	assert.Equal(t, approval.OutcomeReturned, entry.Outcome)
	require.NotNil(t, entry.Comment)
	assert.Equal(t, "break minutes missing on the 12th", *entry.Comment)

	history, err := f.svc.History(ctx, f.ledger.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, entry.ID, history[0].ID)
}

func TestLeaderReject_CommentRequired(t *testing.T) {
	ctx := context.Background()
	f := newApprovalFixture(t, timecard.StatusSubmitted)

	_, err := f.svc.LeaderReject(ctx, "leader-1", f.ledger.ID, f.ledger.Version, "")
	assert.ErrorIs(t, err, approval.ErrMissingComment)
	assert.Equal(t, timecard.StatusSubmitted, f.currentStatus(t))
}

func TestAdminApprove(t *testing.T) {
	ctx := context.Background()
	f := newApprovalFixture(t, timecard.StatusLeaderApproved)

	entry, err := f.svc.AdminApprove(ctx, "admin-1", f.ledger.ID, f.ledger.Version)
	require.NoError(t, err)

	assert.Equal(t, timecard.StatusAdminApproved, f.currentStatus(t))
	assert.Equal(t, approval.StageAdmin, entry.Stage)
	assert.Equal(t, approval.OutcomeApproved, entry.Outcome)
}

func TestAdminApprove_LeaderIsNotEnough(t *testing.T) {
	ctx := context.Background()
	f := newApprovalFixture(t, timecard.StatusLeaderApproved)

	_, err := f.svc.AdminApprove(ctx, "leader-1", f.ledger.ID, f.ledger.Version)
	assert.ErrorIs(t, err, approval.ErrInsufficientRole)
}

func TestAdminApprove_SkippingLeaderStage(t *testing.T) {
	ctx := context.Background()
	f := newApprovalFixture(t, timecard.StatusSubmitted)

	_, err := f.svc.AdminApprove(ctx, "admin-1", f.ledger.ID, f.ledger.Version)
	assert.ErrorIs(t, err, approval.ErrWrongState)
}

func TestReopen(t *testing.T) {
	ctx := context.Background()

	t.Run("owner reopens a submitted ledger", func(t *testing.T) {
		f := newApprovalFixture(t, timecard.StatusSubmitted)
		err := f.svc.Reopen(ctx, "emp-1", f.ledger.ID, f.ledger.Version)
		require.NoError(t, err)
		assert.Equal(t, timecard.StatusDraft, f.currentStatus(t))
	})

	t.Run("admin reopens a finalized ledger", func(t *testing.T) {
		f := newApprovalFixture(t, timecard.StatusAdminApproved)
		err := f.svc.Reopen(ctx, "admin-1", f.ledger.ID, f.ledger.Version)
		require.NoError(t, err)
		assert.Equal(t, timecard.StatusDraft, f.currentStatus(t))
	})

	t.Run("other employees may not reopen", func(t *testing.T) {
		f := newApprovalFixture(t, timecard.StatusSubmitted)
		err := f.svc.Reopen(ctx, "emp-2", f.ledger.ID, f.ledger.Version)
		assert.ErrorIs(t, err, approval.ErrInsufficientRole)
	})

	t.Run("draft has nothing to reopen", func(t *testing.T) {
		f := newApprovalFixture(t, timecard.StatusDraft)
		err := f.svc.Reopen(ctx, "emp-1", f.ledger.ID, f.ledger.Version)
		assert.ErrorIs(t, err, approval.ErrWrongState)
	})
}

// Two reviewers racing on the same version: exactly one transition wins,
// the loser sees a version conflict, and exactly one audit entry exists.
func TestLeaderApprove_ConcurrentVersionConflict(t *testing.T) {
	ctx := context.Background()
	f := newApprovalFixture(t, timecard.StatusSubmitted)

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.LeaderApprove(ctx, "leader-1", f.ledger.ID, f.ledger.Version)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var succeeded, conflicted int
	for err := range errs {
		switch {
		case err == nil:
			succeeded++
		default:
			// the loser fails either on the version check or, if it read
			// the ledger after the winner committed, on the state check
			conflicted++
			assert.True(t,
				errors.Is(err, timecard.ErrVersionConflict) || errors.Is(err, approval.ErrWrongState),
				"unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, conflicted)
	assert.Equal(t, timecard.StatusLeaderApproved, f.currentStatus(t))
	assert.Len(t, f.auditRepo.entries, 1)
}

func TestListForReview(t *testing.T) {
	ctx := context.Background()
	f := newApprovalFixture(t, timecard.StatusSubmitted)

	entries, err := f.svc.ListForReview(ctx, 2026, 7, timecard.StatusSubmitted)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, f.ledger.ID, entries[0].Ledger.ID)

	entries, err = f.svc.ListForReview(ctx, 2026, 8, timecard.StatusSubmitted)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
