package postgresql

import (
	"context"
	"time"

	"github.com/kintaihub/kintai-backend-go/internal/domain/holiday"
	"github.com/kintaihub/kintai-backend-go/internal/pkg/database"
)

type holidayCalendarImpl struct {
	db *database.DB
}

func NewHolidayCalendar(db *database.DB) holiday.Calendar {
	return &holidayCalendarImpl{db: db}
}

func (r *holidayCalendarImpl) IsHoliday(ctx context.Context, date time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM holidays WHERE holiday_date = $1)`,
		date,
	).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}

func (r *holidayCalendarImpl) ListMonth(ctx context.Context, year, month int) ([]time.Time, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT holiday_date
		FROM holidays
		WHERE EXTRACT(YEAR FROM holiday_date) = $1 AND EXTRACT(MONTH FROM holiday_date) = $2
		ORDER BY holiday_date ASC
	`, year, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}

	return dates, rows.Err()
}
