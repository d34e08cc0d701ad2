package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/kintaihub/kintai-backend-go/internal/domain/expense"
	"github.com/kintaihub/kintai-backend-go/internal/pkg/database"
)

type expenseRepositoryImpl struct {
	db *database.DB
}

func NewExpenseRepository(db *database.DB) expense.LedgerRepository {
	return &expenseRepositoryImpl{db: db}
}

func (r *expenseRepositoryImpl) Create(ctx context.Context, ledger expense.Ledger) (expense.Ledger, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO expense_ledgers (
			id, employee_id, year, month, version, created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3, 1, NOW(), NOW()
		) RETURNING id, version, created_at, updated_at
	`

	err := q.QueryRow(ctx, query, ledger.EmployeeID, ledger.Year, ledger.Month).
		Scan(&ledger.ID, &ledger.Version, &ledger.CreatedAt, &ledger.UpdatedAt)
	if err != nil {
		return expense.Ledger{}, fmt.Errorf("create expense ledger: %w", err)
	}

	return ledger, nil
}

func (r *expenseRepositoryImpl) GetByID(ctx context.Context, id string) (expense.Ledger, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, year, month, version, created_at, updated_at
		FROM expense_ledgers
		WHERE id = $1
	`

	var l expense.Ledger
	err := q.QueryRow(ctx, query, id).Scan(
		&l.ID, &l.EmployeeID, &l.Year, &l.Month, &l.Version, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return expense.Ledger{}, expense.ErrExpenseLedgerNotFound
		}
		return expense.Ledger{}, err
	}

	return l, nil
}

func (r *expenseRepositoryImpl) GetByOwnerMonth(ctx context.Context, employeeID string, year, month int) (expense.Ledger, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, year, month, version, created_at, updated_at
		FROM expense_ledgers
		WHERE employee_id = $1 AND year = $2 AND month = $3
	`

	var l expense.Ledger
	err := q.QueryRow(ctx, query, employeeID, year, month).Scan(
		&l.ID, &l.EmployeeID, &l.Year, &l.Month, &l.Version, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return expense.Ledger{}, expense.ErrExpenseLedgerNotFound
		}
		return expense.Ledger{}, err
	}

	items, err := r.getItems(ctx, l.ID)
	if err != nil {
		return expense.Ledger{}, err
	}
	for _, item := range items {
		if item.Kind == expense.KindCommute {
			l.CommuteItems = append(l.CommuteItems, item)
		} else {
			l.BusinessItems = append(l.BusinessItems, item)
		}
	}

	receipts, err := r.getReceipts(ctx, l.ID)
	if err != nil {
		return expense.Ledger{}, err
	}
	l.Receipts = receipts

	return l, nil
}

func (r *expenseRepositoryImpl) getItems(ctx context.Context, ledgerID string) ([]expense.Item, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, ledger_id, kind, item_date, carrier_or_lodging, from_location,
			   to_location, expense_type, trip_type, amount, remarks, sort_order,
			   created_at, updated_at
		FROM expense_items
		WHERE ledger_id = $1
		ORDER BY kind, sort_order ASC
	`

	rows, err := q.Query(ctx, query, ledgerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []expense.Item
	for rows.Next() {
		var item expense.Item
		err := rows.Scan(
			&item.ID, &item.LedgerID, &item.Kind, &item.Date, &item.CarrierOrLodging,
			&item.FromLocation, &item.ToLocation, &item.ExpenseType, &item.TripType,
			&item.Amount, &item.Remarks, &item.SortOrder,
			&item.CreatedAt, &item.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func (r *expenseRepositoryImpl) getReceipts(ctx context.Context, ledgerID string) ([]expense.Receipt, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, ledger_id, file_name, blob_path, remarks, uploaded_at
		FROM receipts
		WHERE ledger_id = $1
		ORDER BY uploaded_at ASC
	`

	rows, err := q.Query(ctx, query, ledgerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var receipts []expense.Receipt
	for rows.Next() {
		var rec expense.Receipt
		err := rows.Scan(&rec.ID, &rec.LedgerID, &rec.FileName, &rec.BlobPath, &rec.Remarks, &rec.UploadedAt)
		if err != nil {
			return nil, err
		}
		receipts = append(receipts, rec)
	}

	return receipts, rows.Err()
}

// ReplaceItems swaps all line items of a ledger, bumping the version under
// an optimistic check.
func (r *expenseRepositoryImpl) ReplaceItems(ctx context.Context, ledgerID string, expectedVersion int64, items []expense.Item) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE expense_ledgers
		SET version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $2
	`, ledgerID, expectedVersion)
	if err != nil {
		return fmt.Errorf("bump expense ledger version: %w", err)
	}
	if tag.RowsAffected() != 1 {
		return expense.ErrVersionConflict
	}

	if _, err := q.Exec(ctx, `DELETE FROM expense_items WHERE ledger_id = $1`, ledgerID); err != nil {
		return fmt.Errorf("clear expense items: %w", err)
	}

	query := `
		INSERT INTO expense_items (
			id, ledger_id, kind, item_date, carrier_or_lodging, from_location,
			to_location, expense_type, trip_type, amount, remarks, sort_order,
			created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10, $11,
			NOW(), NOW()
		)
	`

	for _, item := range items {
		_, err := q.Exec(ctx, query,
			ledgerID, item.Kind, item.Date, item.CarrierOrLodging, item.FromLocation,
			item.ToLocation, item.ExpenseType, item.TripType, item.Amount, item.Remarks, item.SortOrder,
		)
		if err != nil {
			return fmt.Errorf("insert expense item: %w", err)
		}
	}

	return nil
}

func (r *expenseRepositoryImpl) AddReceipt(ctx context.Context, receipt expense.Receipt) (expense.Receipt, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO receipts (
			id, ledger_id, file_name, blob_path, remarks, uploaded_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4, NOW()
		) RETURNING id, uploaded_at
	`

	err := q.QueryRow(ctx, query,
		receipt.LedgerID, receipt.FileName, receipt.BlobPath, receipt.Remarks,
	).Scan(&receipt.ID, &receipt.UploadedAt)
	if err != nil {
		return expense.Receipt{}, fmt.Errorf("add receipt: %w", err)
	}

	return receipt, nil
}

func (r *expenseRepositoryImpl) GetReceipt(ctx context.Context, receiptID string) (expense.Receipt, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, ledger_id, file_name, blob_path, remarks, uploaded_at
		FROM receipts
		WHERE id = $1
	`

	var rec expense.Receipt
	err := q.QueryRow(ctx, query, receiptID).Scan(
		&rec.ID, &rec.LedgerID, &rec.FileName, &rec.BlobPath, &rec.Remarks, &rec.UploadedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return expense.Receipt{}, expense.ErrReceiptNotFound
		}
		return expense.Receipt{}, err
	}

	return rec, nil
}

func (r *expenseRepositoryImpl) DeleteReceipt(ctx context.Context, receiptID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM receipts WHERE id = $1`, receiptID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() != 1 {
		return expense.ErrReceiptNotFound
	}
	return nil
}
