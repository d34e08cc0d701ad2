package expense

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/kintaihub/kintai-backend-go/internal/domain/expense"
	"github.com/kintaihub/kintai-backend-go/internal/domain/timecard"
	"github.com/kintaihub/kintai-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTxManager struct{}

func (fakeTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fakeAttendanceRepo only serves the editability gate.
type fakeAttendanceRepo struct {
	status *timecard.LedgerStatus
}

func (f *fakeAttendanceRepo) Create(ctx context.Context, ledger timecard.MonthlyLedger) (timecard.MonthlyLedger, error) {
	return ledger, nil
}

func (f *fakeAttendanceRepo) GetByID(ctx context.Context, id string) (timecard.MonthlyLedger, error) {
	return timecard.MonthlyLedger{}, timecard.ErrLedgerNotFound
}

func (f *fakeAttendanceRepo) GetByOwnerMonth(ctx context.Context, employeeID string, year, month int) (timecard.MonthlyLedger, error) {
	if f.status == nil {
		return timecard.MonthlyLedger{}, timecard.ErrLedgerNotFound
	}
	return timecard.MonthlyLedger{
		ID:         "att-1",
		EmployeeID: employeeID,
		Year:       year,
		Month:      month,
		Status:     *f.status,
	}, nil
}

func (f *fakeAttendanceRepo) ReplaceRecords(ctx context.Context, ledgerID string, expectedVersion int64, records []timecard.DailyRecord, workplace, actorID string) error {
	return nil
}

func (f *fakeAttendanceRepo) GetRecords(ctx context.Context, ledgerID string) ([]timecard.DailyRecord, error) {
	return nil, nil
}

func (f *fakeAttendanceRepo) UpdateStatus(ctx context.Context, ledgerID string, expectedVersion int64, status timecard.LedgerStatus, actorID string) error {
	return nil
}

func (f *fakeAttendanceRepo) ListForReview(ctx context.Context, year, month int, status timecard.LedgerStatus) ([]timecard.ReviewEntry, error) {
	return nil, nil
}

type fakeExpenseRepo struct {
	ledgers  map[string]*expense.Ledger
	items    map[string][]expense.Item
	receipts map[string]expense.Receipt
}

func newFakeExpenseRepo() *fakeExpenseRepo {
	return &fakeExpenseRepo{
		ledgers:  make(map[string]*expense.Ledger),
		items:    make(map[string][]expense.Item),
		receipts: make(map[string]expense.Receipt),
	}
}

func (f *fakeExpenseRepo) Create(ctx context.Context, ledger expense.Ledger) (expense.Ledger, error) {
	ledger.ID = fmt.Sprintf("exp-%d", len(f.ledgers)+1)
	ledger.Version = 1
	f.ledgers[ledger.ID] = &ledger
	return ledger, nil
}

func (f *fakeExpenseRepo) GetByID(ctx context.Context, id string) (expense.Ledger, error) {
	l, ok := f.ledgers[id]
	if !ok {
		return expense.Ledger{}, expense.ErrExpenseLedgerNotFound
	}
	return *l, nil
}

func (f *fakeExpenseRepo) GetByOwnerMonth(ctx context.Context, employeeID string, year, month int) (expense.Ledger, error) {
	for _, l := range f.ledgers {
		if l.EmployeeID == employeeID && l.Year == year && l.Month == month {
			out := *l
			for _, item := range f.items[l.ID] {
				if item.Kind == expense.KindCommute {
					out.CommuteItems = append(out.CommuteItems, item)
				} else {
					out.BusinessItems = append(out.BusinessItems, item)
				}
			}
			for _, r := range f.receipts {
				if r.LedgerID == l.ID {
					out.Receipts = append(out.Receipts, r)
				}
			}
			return out, nil
		}
	}
	return expense.Ledger{}, expense.ErrExpenseLedgerNotFound
}

func (f *fakeExpenseRepo) ReplaceItems(ctx context.Context, ledgerID string, expectedVersion int64, items []expense.Item) error {
	l, ok := f.ledgers[ledgerID]
	if !ok {
		return expense.ErrExpenseLedgerNotFound
	}
	if l.Version != expectedVersion {
		return expense.ErrVersionConflict
	}
	f.items[ledgerID] = items
	l.Version++
	return nil
}

func (f *fakeExpenseRepo) AddReceipt(ctx context.Context, receipt expense.Receipt) (expense.Receipt, error) {
	receipt.ID = fmt.Sprintf("receipt-%d", len(f.receipts)+1)
	receipt.UploadedAt = time.Now()
	f.receipts[receipt.ID] = receipt
	return receipt, nil
}

func (f *fakeExpenseRepo) GetReceipt(ctx context.Context, receiptID string) (expense.Receipt, error) {
	r, ok := f.receipts[receiptID]
	if !ok {
		return expense.Receipt{}, expense.ErrReceiptNotFound
	}
	return r, nil
}

func (f *fakeExpenseRepo) DeleteReceipt(ctx context.Context, receiptID string) error {
	if _, ok := f.receipts[receiptID]; !ok {
		return expense.ErrReceiptNotFound
	}
	delete(f.receipts, receiptID)
	return nil
}

type fakeFileService struct {
	blobs   map[string][]byte
	deleted []string
}

func newFakeFileService() *fakeFileService {
	return &fakeFileService{blobs: make(map[string][]byte)}
}

func (f *fakeFileService) UploadReceipt(ctx context.Context, employeeID string, year, month int, file io.Reader, filename string) (string, error) {
	ext := strings.ToLower(filename[strings.LastIndex(filename, "."):])
	switch ext {
	case ".jpg", ".jpeg", ".png", ".pdf":
	default:
		return "", fmt.Errorf("invalid file type: only jpg, jpeg, png, pdf allowed")
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	path := fmt.Sprintf("receipts/%s/%04d-%02d/%s", employeeID, year, month, filename)
	f.blobs[path] = data
	return path, nil
}

func (f *fakeFileService) DeleteFile(ctx context.Context, path string) error {
	delete(f.blobs, path)
	f.deleted = append(f.deleted, path)
	return nil
}

func (f *fakeFileService) GetFileURL(ctx context.Context, path string, expiry time.Duration) (string, error) {
	if _, ok := f.blobs[path]; !ok {
		return "", fmt.Errorf("file not found: %s", path)
	}
	return "http://localhost:8080/uploads/" + path, nil
}

type expenseFixture struct {
	svc            ExpenseService
	expenseRepo    *fakeExpenseRepo
	attendanceRepo *fakeAttendanceRepo
	files          *fakeFileService
}

func newExpenseFixture() *expenseFixture {
	expenseRepo := newFakeExpenseRepo()
	attendanceRepo := &fakeAttendanceRepo{}
	files := newFakeFileService()
	return &expenseFixture{
		svc:            NewExpenseService(fakeTxManager{}, expenseRepo, attendanceRepo, files),
		expenseRepo:    expenseRepo,
		attendanceRepo: attendanceRepo,
		files:          files,
	}
}

func (f *expenseFixture) setAttendanceStatus(status timecard.LedgerStatus) {
	f.attendanceRepo.status = &status
}

func itemsRequest(items ...expense.ItemInput) expense.SaveItemsRequest {
	return expense.SaveItemsRequest{
		EmployeeID:   "emp-1",
		Year:         2026,
		Month:        7,
		CommuteItems: items,
	}
}

func TestGetMonth_EmptySkeleton(t *testing.T) {
	ctx := context.Background()
	f := newExpenseFixture()

	resp, err := f.svc.GetMonth(ctx, "emp-1", 2026, 7)
	require.NoError(t, err)

	assert.Empty(t, resp.ID)
	assert.Equal(t, int64(0), resp.Version)
	assert.True(t, resp.Editable)
	assert.Empty(t, resp.CommuteItems)
	assert.Empty(t, resp.BusinessItems)
	assert.Empty(t, resp.Receipts)
}

func TestSaveItems_FirstSaveCreatesLedger(t *testing.T) {
	ctx := context.Background()
	f := newExpenseFixture()

	resp, err := f.svc.SaveItems(ctx, itemsRequest(expense.ItemInput{
		Date:         "2026-07-03",
		FromLocation: "Shinjuku",
		ToLocation:   "Shibuya",
		TripType:     "round_trip",
		Amount:       340,
	}))
	require.NoError(t, err)

	assert.NotEmpty(t, resp.LedgerID)
	assert.Equal(t, int64(2), resp.Version)
	assert.Empty(t, resp.Warnings)

	month, err := f.svc.GetMonth(ctx, "emp-1", 2026, 7)
	require.NoError(t, err)
	require.Len(t, month.CommuteItems, 1)
	assert.Equal(t, int64(340), month.CommuteTotal)
}

func TestSaveItems_AmountMustBePositive(t *testing.T) {
	ctx := context.Background()
	f := newExpenseFixture()

	_, err := f.svc.SaveItems(ctx, itemsRequest(expense.ItemInput{
		Date:   "2026-07-03",
		Amount: 0,
	}))

	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, "items.amount", errs[0].Field)
}

func TestSaveItems_OutOfMonthDateIsAWarning(t *testing.T) {
	ctx := context.Background()
	f := newExpenseFixture()

	resp, err := f.svc.SaveItems(ctx, itemsRequest(
		expense.ItemInput{Date: "2026-07-03", Amount: 340},
		expense.ItemInput{Date: "2026-08-01", Amount: 500},
	))
	require.NoError(t, err)

	require.Len(t, resp.Warnings, 1)
	assert.Equal(t, "commute", resp.Warnings[0].Kind)
	assert.Equal(t, 1, resp.Warnings[0].Index)

	// both items were saved regardless
	month, err := f.svc.GetMonth(ctx, "emp-1", 2026, 7)
	require.NoError(t, err)
	assert.Len(t, month.CommuteItems, 2)
}

func TestSaveItems_BlockedWhileAttendanceSubmitted(t *testing.T) {
	ctx := context.Background()
	f := newExpenseFixture()
	f.setAttendanceStatus(timecard.StatusSubmitted)

	_, err := f.svc.SaveItems(ctx, itemsRequest(expense.ItemInput{
		Date: "2026-07-03", Amount: 340,
	}))
	assert.ErrorIs(t, err, expense.ErrLedgerNotEditable)
}

func TestSaveItems_OpenAgainAfterReturn(t *testing.T) {
	ctx := context.Background()
	f := newExpenseFixture()
	f.setAttendanceStatus(timecard.StatusReturned)

	_, err := f.svc.SaveItems(ctx, itemsRequest(expense.ItemInput{
		Date: "2026-07-03", Amount: 340,
	}))
	assert.NoError(t, err)
}

func TestSaveItems_StaleVersionConflicts(t *testing.T) {
	ctx := context.Background()
	f := newExpenseFixture()

	first, err := f.svc.SaveItems(ctx, itemsRequest(expense.ItemInput{
		Date: "2026-07-03", Amount: 340,
	}))
	require.NoError(t, err)

	stale := itemsRequest(expense.ItemInput{Date: "2026-07-04", Amount: 500})
	stale.Version = first.Version - 1
	_, err = f.svc.SaveItems(ctx, stale)
	assert.ErrorIs(t, err, expense.ErrVersionConflict)
}

func TestAddReceipt(t *testing.T) {
	ctx := context.Background()
	f := newExpenseFixture()

	resp, err := f.svc.AddReceipt(ctx, "emp-1", 2026, 7, strings.NewReader("fake image"), "taxi.jpg", "client visit")
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "taxi.jpg", resp.FileName)
	assert.Equal(t, "client visit", resp.Remarks)
	assert.NotEmpty(t, resp.URL)

	month, err := f.svc.GetMonth(ctx, "emp-1", 2026, 7)
	require.NoError(t, err)
	assert.Len(t, month.Receipts, 1)
}

func TestAddReceipt_RejectsUnknownExtension(t *testing.T) {
	ctx := context.Background()
	f := newExpenseFixture()

	_, err := f.svc.AddReceipt(ctx, "emp-1", 2026, 7, strings.NewReader("x"), "receipt.exe", "")
	assert.Error(t, err)
}

func TestAddReceipt_BlockedWhileAttendanceSubmitted(t *testing.T) {
	ctx := context.Background()
	f := newExpenseFixture()
	f.setAttendanceStatus(timecard.StatusSubmitted)

	_, err := f.svc.AddReceipt(ctx, "emp-1", 2026, 7, strings.NewReader("x"), "taxi.jpg", "")
	assert.ErrorIs(t, err, expense.ErrLedgerNotEditable)
}

func TestDeleteReceipt(t *testing.T) {
	ctx := context.Background()
	f := newExpenseFixture()

	receipt, err := f.svc.AddReceipt(ctx, "emp-1", 2026, 7, strings.NewReader("fake image"), "taxi.jpg", "")
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteReceipt(ctx, "emp-1", receipt.ID))

	month, err := f.svc.GetMonth(ctx, "emp-1", 2026, 7)
	require.NoError(t, err)
	assert.Empty(t, month.Receipts)
	assert.NotEmpty(t, f.files.deleted)
}

func TestDeleteReceipt_OnlyOwner(t *testing.T) {
	ctx := context.Background()
	f := newExpenseFixture()

	receipt, err := f.svc.AddReceipt(ctx, "emp-1", 2026, 7, strings.NewReader("fake image"), "taxi.jpg", "")
	require.NoError(t, err)

	err = f.svc.DeleteReceipt(ctx, "emp-2", receipt.ID)
	assert.ErrorIs(t, err, expense.ErrReceiptNotFound)

	month, err := f.svc.GetMonth(ctx, "emp-1", 2026, 7)
	require.NoError(t, err)
	assert.Len(t, month.Receipts, 1)
}
