package timecard

import (
	"encoding/json"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wtPtr(w WorkType) *WorkType { return &w }

func workedDay(day int, workType WorkType, minutes int) DailyRecord {
	return DailyRecord{
		Date:              time.Date(2026, 7, day, 0, 0, 0, 0, time.UTC),
		WorkType:          wtPtr(workType),
		ActualWorkMinutes: intPtr(minutes),
	}
}

func classifiedDay(day int, workType WorkType) DailyRecord {
	return DailyRecord{
		Date:     time.Date(2026, 7, day, 0, 0, 0, 0, time.UTC),
		WorkType: wtPtr(workType),
	}
}

func TestComputeSummary_Buckets(t *testing.T) {
	records := []DailyRecord{
		workedDay(1, WorkTypeRegular, 480),
		workedDay(2, WorkTypeRegular, 480),
		workedDay(4, WorkTypeHolidayWork, 300),
		classifiedDay(5, WorkTypeAbsence),
		classifiedDay(6, WorkTypePaidLeave),
		classifiedDay(7, WorkTypeAMLeave),
		classifiedDay(8, WorkTypePMLeave),
		classifiedDay(9, WorkTypePaidLeave),
		{Date: time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC)}, // untouched day
	}

	s := ComputeSummary(records)

	assert.Equal(t, 3, s.TotalWorkDays)
	assert.Equal(t, 2, s.RegularWorkDays)
	assert.Equal(t, 1, s.HolidayWorkDays)
	assert.Equal(t, 1, s.AbsenceDays)
	assert.InDelta(t, 3.0, s.PaidLeaveDays, 0.001)
	assert.InDelta(t, 21.0, s.TotalWorkHours, 0.001)
}

func TestComputeSummary_HolidayWorkExcludedFromRegular(t *testing.T) {
	s := ComputeSummary([]DailyRecord{
		workedDay(4, WorkTypeHolidayWork, 480),
	})

	assert.Equal(t, 1, s.TotalWorkDays)
	assert.Equal(t, 1, s.HolidayWorkDays)
	assert.Equal(t, 0, s.RegularWorkDays)
}

func TestComputeSummary_ZeroMinutesNotAWorkDay(t *testing.T) {
	s := ComputeSummary([]DailyRecord{
		workedDay(1, WorkTypeRegular, 0),
	})

	assert.Equal(t, 0, s.TotalWorkDays)
	assert.Equal(t, 0, s.RegularWorkDays)
}

func TestComputeSummary_HalfDayLeaveAccumulates(t *testing.T) {
	s := ComputeSummary([]DailyRecord{
		classifiedDay(1, WorkTypePaidLeave),
		classifiedDay(2, WorkTypeAMLeave),
		classifiedDay(3, WorkTypePMLeave),
	})

	assert.InDelta(t, 2.0, s.PaidLeaveDays, 0.001)
}

func TestComputeSummary_LateEarlyHours(t *testing.T) {
	s := ComputeSummary([]DailyRecord{
		{Date: time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), LateEarlyHours: 1.5},
		{Date: time.Date(2026, 7, 2, 0, 0, 0, 0, time.UTC), LateEarlyHours: 0.5},
	})

	assert.InDelta(t, 2.0, s.LateEarlyHours, 0.001)
}

func TestComputeSummary_OrderIndependent(t *testing.T) {
	records := []DailyRecord{
		workedDay(1, WorkTypeRegular, 480),
		workedDay(2, WorkTypeHolidayWork, 240),
		classifiedDay(3, WorkTypePaidLeave),
		classifiedDay(4, WorkTypeAbsence),
		classifiedDay(5, WorkTypeAMLeave),
		workedDay(6, WorkTypeRegular, 510),
	}
	want := ComputeSummary(records)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 10; i++ {
		shuffled := make([]DailyRecord, len(records))
		copy(shuffled, records)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		assert.Equal(t, want, ComputeSummary(shuffled))
	}
}

func TestComputeSummary_Empty(t *testing.T) {
	assert.Equal(t, Summary{}, ComputeSummary(nil))
}

// A stored record set read back and recomputed must yield the same
// summary; the persisted actual-minutes column is only a cache.
func TestComputeSummary_StableAcrossRoundTrip(t *testing.T) {
	start, end := "09:00", "18:00"
	brk := 60
	records := []DailyRecord{
		{Date: day(1), StartTime: &start, EndTime: &end, BreakMinutes: &brk, WorkType: wtPtr(WorkTypeRegular)},
		{Date: day(4), StartTime: &start, EndTime: &end, BreakMinutes: &brk, WorkType: wtPtr(WorkTypeHolidayWork)},
		{Date: day(5), WorkType: wtPtr(WorkTypePaidLeave)},
	}
	for i := range records {
		records[i].Recompute()
	}
	want := ComputeSummary(records)

	data, err := json.Marshal(records)
	require.NoError(t, err)

	var restored []DailyRecord
	require.NoError(t, json.Unmarshal(data, &restored))
	for i := range restored {
		restored[i].ActualWorkMinutes = nil // stale cache
		restored[i].Recompute()
	}

	assert.Equal(t, want, ComputeSummary(restored))
}
