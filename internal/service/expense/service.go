package expense

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/kintaihub/kintai-backend-go/internal/domain/expense"
	"github.com/kintaihub/kintai-backend-go/internal/domain/timecard"
	"github.com/kintaihub/kintai-backend-go/internal/pkg/database"
	"github.com/kintaihub/kintai-backend-go/internal/service/file"
)

type ExpenseService interface {
	// GetMonth returns the owner's expense ledger; a skeleton with
	// version 0 when none exists yet.
	GetMonth(ctx context.Context, employeeID string, year, month int) (expense.LedgerResponse, error)
	// SaveItems replaces the month's commute and business items as one
	// atomic unit. Out-of-month dates are reported as warnings, not
	// rejections.
	SaveItems(ctx context.Context, req expense.SaveItemsRequest) (expense.SaveItemsResponse, error)
	AddReceipt(ctx context.Context, employeeID string, year, month int, fileReader io.Reader, filename, remarks string) (expense.ReceiptResponse, error)
	DeleteReceipt(ctx context.Context, employeeID, receiptID string) error
}

type expenseServiceImpl struct {
	tx             database.TxManager
	expenseRepo    expense.LedgerRepository
	attendanceRepo timecard.LedgerRepository
	fileService    file.FileService
}

func NewExpenseService(tx database.TxManager, expenseRepo expense.LedgerRepository, attendanceRepo timecard.LedgerRepository, fileService file.FileService) ExpenseService {
	return &expenseServiceImpl{
		tx:             tx,
		expenseRepo:    expenseRepo,
		attendanceRepo: attendanceRepo,
		fileService:    fileService,
	}
}

func (s *expenseServiceImpl) GetMonth(ctx context.Context, employeeID string, year, month int) (expense.LedgerResponse, error) {
	editable, err := s.monthEditable(ctx, employeeID, year, month)
	if err != nil {
		return expense.LedgerResponse{}, err
	}

	ledger, err := s.expenseRepo.GetByOwnerMonth(ctx, employeeID, year, month)
	if err != nil {
		if errors.Is(err, expense.ErrExpenseLedgerNotFound) {
			return expense.LedgerResponse{
				EmployeeID:    employeeID,
				Year:          year,
				Month:         month,
				Editable:      editable,
				CommuteItems:  []expense.ItemResponse{},
				BusinessItems: []expense.ItemResponse{},
				Receipts:      []expense.ReceiptResponse{},
			}, nil
		}
		return expense.LedgerResponse{}, fmt.Errorf("failed to get expense ledger: %w", err)
	}

	return s.toResponse(ctx, ledger, editable)
}

func (s *expenseServiceImpl) SaveItems(ctx context.Context, req expense.SaveItemsRequest) (expense.SaveItemsResponse, error) {
	if err := req.Validate(); err != nil {
		return expense.SaveItemsResponse{}, err
	}

	editable, err := s.monthEditable(ctx, req.EmployeeID, req.Year, req.Month)
	if err != nil {
		return expense.SaveItemsResponse{}, err
	}
	if !editable {
		return expense.SaveItemsResponse{}, expense.ErrLedgerNotEditable
	}

	ledger, created, err := s.getOrCreate(ctx, req.EmployeeID, req.Year, req.Month)
	if err != nil {
		return expense.SaveItemsResponse{}, err
	}

	items, warnings := buildItems(req)

	version := req.Version
	if created {
		// Ledger row was just created by this save
		version = ledger.Version
	}

	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		return s.expenseRepo.ReplaceItems(txCtx, ledger.ID, version, items)
	})
	if err != nil {
		if errors.Is(err, expense.ErrVersionConflict) {
			return expense.SaveItemsResponse{}, err
		}
		return expense.SaveItemsResponse{}, fmt.Errorf("failed to replace expense items: %w", err)
	}

	return expense.SaveItemsResponse{
		LedgerID: ledger.ID,
		Version:  version + 1,
		Warnings: warnings,
	}, nil
}

func (s *expenseServiceImpl) AddReceipt(ctx context.Context, employeeID string, year, month int, fileReader io.Reader, filename, remarks string) (expense.ReceiptResponse, error) {
	editable, err := s.monthEditable(ctx, employeeID, year, month)
	if err != nil {
		return expense.ReceiptResponse{}, err
	}
	if !editable {
		return expense.ReceiptResponse{}, expense.ErrLedgerNotEditable
	}

	ledger, _, err := s.getOrCreate(ctx, employeeID, year, month)
	if err != nil {
		return expense.ReceiptResponse{}, err
	}

	blobPath, err := s.fileService.UploadReceipt(ctx, employeeID, year, month, fileReader, filename)
	if err != nil {
		return expense.ReceiptResponse{}, fmt.Errorf("failed to upload receipt: %w", err)
	}

	receipt, err := s.expenseRepo.AddReceipt(ctx, expense.Receipt{
		LedgerID: ledger.ID,
		FileName: filename,
		BlobPath: blobPath,
		Remarks:  remarks,
	})
	if err != nil {
		// Orphaned blob cleanup; failure is non-fatal
		_ = s.fileService.DeleteFile(ctx, blobPath)
		return expense.ReceiptResponse{}, fmt.Errorf("failed to store receipt reference: %w", err)
	}

	url, err := s.fileService.GetFileURL(ctx, blobPath, 24*time.Hour)
	if err != nil {
		url = ""
	}

	return expense.ReceiptResponse{
		ID:         receipt.ID,
		FileName:   receipt.FileName,
		URL:        url,
		Remarks:    receipt.Remarks,
		UploadedAt: receipt.UploadedAt,
	}, nil
}

func (s *expenseServiceImpl) DeleteReceipt(ctx context.Context, employeeID, receiptID string) error {
	receipt, err := s.expenseRepo.GetReceipt(ctx, receiptID)
	if err != nil {
		return err
	}

	ledger, err := s.expenseRepo.GetByID(ctx, receipt.LedgerID)
	if err != nil {
		return err
	}
	if ledger.EmployeeID != employeeID {
		return expense.ErrReceiptNotFound
	}

	editable, err := s.monthEditable(ctx, employeeID, ledger.Year, ledger.Month)
	if err != nil {
		return err
	}
	if !editable {
		return expense.ErrLedgerNotEditable
	}

	if err := s.expenseRepo.DeleteReceipt(ctx, receiptID); err != nil {
		return err
	}

	if err := s.fileService.DeleteFile(ctx, receipt.BlobPath); err != nil {
		return fmt.Errorf("failed to delete receipt blob: %w", err)
	}

	return nil
}

// monthEditable mirrors the attendance ledger's status gate. A month with
// no attendance ledger yet is editable; expense entry never requires one.
func (s *expenseServiceImpl) monthEditable(ctx context.Context, employeeID string, year, month int) (bool, error) {
	attendance, err := s.attendanceRepo.GetByOwnerMonth(ctx, employeeID, year, month)
	if err != nil {
		if errors.Is(err, timecard.ErrLedgerNotFound) {
			return true, nil
		}
		return false, fmt.Errorf("failed to get attendance ledger: %w", err)
	}
	return attendance.Status.Editable(), nil
}

func (s *expenseServiceImpl) getOrCreate(ctx context.Context, employeeID string, year, month int) (expense.Ledger, bool, error) {
	ledger, err := s.expenseRepo.GetByOwnerMonth(ctx, employeeID, year, month)
	if err == nil {
		return ledger, false, nil
	}
	if !errors.Is(err, expense.ErrExpenseLedgerNotFound) {
		return expense.Ledger{}, false, fmt.Errorf("failed to get expense ledger: %w", err)
	}

	created, err := s.expenseRepo.Create(ctx, expense.Ledger{
		EmployeeID: employeeID,
		Year:       year,
		Month:      month,
	})
	if err != nil {
		return expense.Ledger{}, false, fmt.Errorf("failed to create expense ledger: %w", err)
	}
	return created, true, nil
}

// buildItems converts inputs into entities and collects soft warnings for
// item dates outside the ledger month.
func buildItems(req expense.SaveItemsRequest) ([]expense.Item, []expense.ItemWarning) {
	var items []expense.Item
	var warnings []expense.ItemWarning

	appendGroup := func(kind expense.ItemKind, inputs []expense.ItemInput) {
		for i, input := range inputs {
			date, _ := time.Parse("2006-01-02", input.Date)
			if date.Year() != req.Year || int(date.Month()) != req.Month {
				warnings = append(warnings, expense.ItemWarning{
					Kind:    string(kind),
					Index:   i,
					Message: "item date falls outside the ledger month",
				})
			}
			items = append(items, expense.Item{
				Kind:             kind,
				Date:             date,
				CarrierOrLodging: input.CarrierOrLodging,
				FromLocation:     input.FromLocation,
				ToLocation:       input.ToLocation,
				ExpenseType:      input.ExpenseType,
				TripType:         expense.TripType(input.TripType),
				Amount:           input.Amount,
				Remarks:          input.Remarks,
				SortOrder:        i,
			})
		}
	}

	appendGroup(expense.KindCommute, req.CommuteItems)
	appendGroup(expense.KindBusiness, req.BusinessItems)

	return items, warnings
}

func (s *expenseServiceImpl) toResponse(ctx context.Context, ledger expense.Ledger, editable bool) (expense.LedgerResponse, error) {
	resp := expense.LedgerResponse{
		ID:            ledger.ID,
		EmployeeID:    ledger.EmployeeID,
		Year:          ledger.Year,
		Month:         ledger.Month,
		Version:       ledger.Version,
		Editable:      editable,
		CommuteItems:  []expense.ItemResponse{},
		BusinessItems: []expense.ItemResponse{},
		Receipts:      []expense.ReceiptResponse{},
	}

	for _, item := range ledger.CommuteItems {
		resp.CommuteItems = append(resp.CommuteItems, expense.NewItemResponse(item))
		resp.CommuteTotal += item.Amount
	}
	for _, item := range ledger.BusinessItems {
		resp.BusinessItems = append(resp.BusinessItems, expense.NewItemResponse(item))
		resp.BusinessTotal += item.Amount
	}

	for _, receipt := range ledger.Receipts {
		url, err := s.fileService.GetFileURL(ctx, receipt.BlobPath, 24*time.Hour)
		if err != nil {
			url = ""
		}
		resp.Receipts = append(resp.Receipts, expense.ReceiptResponse{
			ID:         receipt.ID,
			FileName:   receipt.FileName,
			URL:        url,
			Remarks:    receipt.Remarks,
			UploadedAt: receipt.UploadedAt,
		})
	}

	return resp, nil
}
