package timecard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "colon separated", input: "09:00", want: "09:00"},
		{name: "bare digits", input: "0900", want: "09:00"},
		{name: "trailing space", input: "0900 ", want: "09:00"},
		{name: "full width noise stripped", input: "18.30", want: "18:30"},
		{name: "midnight", input: "00:00", want: "00:00"},
		{name: "last minute", input: "23:59", want: "23:59"},
		{name: "three digits", input: "900", wantErr: true},
		{name: "five digits", input: "09000", wantErr: true},
		{name: "hour out of range", input: "24:00", wantErr: true},
		{name: "minute out of range", input: "12:60", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "letters only", input: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrTimeFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestSanitizeTimeOfDay(t *testing.T) {
	t.Run("normalizes valid input", func(t *testing.T) {
		res := SanitizeTimeOfDay("0930")
		assert.False(t, res.Cleared)
		assert.Equal(t, "09:30", res.Value)
	})

	t.Run("clears malformed input", func(t *testing.T) {
		for _, raw := range []string{"25:00", "930", "9am"} {
			res := SanitizeTimeOfDay(raw)
			assert.True(t, res.Cleared, raw)
			assert.Empty(t, res.Value, raw)
		}
	})

	t.Run("blank stays blank without a cleared flag", func(t *testing.T) {
		res := SanitizeTimeOfDay("   ")
		assert.False(t, res.Cleared)
		assert.Empty(t, res.Value)
	})
}

func TestComputeActualWork(t *testing.T) {
	t.Run("standard day", func(t *testing.T) {
		got := ComputeActualWork(strPtr("09:00"), strPtr("18:00"), intPtr(60))
		require.NotNil(t, got)
		assert.Equal(t, 480, *got)
	})

	t.Run("end before start yields nothing", func(t *testing.T) {
		got := ComputeActualWork(strPtr("09:00"), strPtr("08:00"), intPtr(60))
		assert.Nil(t, got)
	})

	t.Run("missing break yields nothing", func(t *testing.T) {
		got := ComputeActualWork(strPtr("09:00"), strPtr("18:00"), nil)
		assert.Nil(t, got)
	})

	t.Run("malformed time yields nothing", func(t *testing.T) {
		got := ComputeActualWork(strPtr("9:0"), strPtr("18:00"), intPtr(60))
		assert.Nil(t, got)
	})

	t.Run("break longer than interval floors at zero", func(t *testing.T) {
		got := ComputeActualWork(strPtr("09:00"), strPtr("09:30"), intPtr(90))
		require.NotNil(t, got)
		assert.Equal(t, 0, *got)
	})

	t.Run("zero length day", func(t *testing.T) {
		got := ComputeActualWork(strPtr("09:00"), strPtr("09:00"), intPtr(0))
		require.NotNil(t, got)
		assert.Equal(t, 0, *got)
	})
}

func TestSumWorkMinutes(t *testing.T) {
	records := []DailyRecord{
		{ActualWorkMinutes: intPtr(480)},
		{ActualWorkMinutes: nil},
		{ActualWorkMinutes: intPtr(300)},
	}
	assert.Equal(t, 780, SumWorkMinutes(records))
	assert.Equal(t, 0, SumWorkMinutes(nil))
}
