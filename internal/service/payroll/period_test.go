package payroll

import (
	"testing"
	"time"

	"github.com/paycore/payroll-engine-go/internal/domain/payroll"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewResolver_RejectsInvalidCutoff(t *testing.T) {
	for _, day := range []int{0, -3, 32} {
		_, err := NewResolver(day, time.UTC)
		assert.ErrorIs(t, err, payroll.ErrInvalidCutoffDay, "cutoff %d", day)
	}
	_, err := NewResolver(1, nil)
	assert.NoError(t, err)
}

func TestPeriodFor_CutoffOne(t *testing.T) {
	r, err := NewResolver(1, time.UTC)
	require.NoError(t, err)

	assert.Equal(t, payroll.Period{Month: 3, Year: 2025}, r.PeriodFor(date(2025, time.March, 1)))
	assert.Equal(t, payroll.Period{Month: 3, Year: 2025}, r.PeriodFor(date(2025, time.March, 31)))
}

func TestPeriodFor_CutoffRollover(t *testing.T) {
	r, err := NewResolver(25, time.UTC)
	require.NoError(t, err)

	cases := []struct {
		day  time.Time
		want payroll.Period
	}{
		{date(2025, time.May, 24), payroll.Period{Month: 5, Year: 2025}},
		{date(2025, time.May, 25), payroll.Period{Month: 6, Year: 2025}},
		{date(2025, time.May, 26), payroll.Period{Month: 6, Year: 2025}},
		{date(2025, time.December, 26), payroll.Period{Month: 1, Year: 2026}},
		{date(2025, time.January, 24), payroll.Period{Month: 1, Year: 2025}},
		{date(2025, time.January, 25), payroll.Period{Month: 2, Year: 2025}},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, r.PeriodFor(c.day), "date %s", c.day.Format("2006-01-02"))
	}
}

func TestPeriodNextPrev_YearRollover(t *testing.T) {
	dec := payroll.Period{Month: 12, Year: 2025}
	jan := payroll.Period{Month: 1, Year: 2026}

	assert.Equal(t, jan, dec.Next())
	assert.Equal(t, dec, jan.Prev())
	assert.Equal(t, payroll.Period{Month: 11, Year: 2025}, dec.Prev())
}

func TestPeriodsInRange_Distinct(t *testing.T) {
	r, err := NewResolver(25, time.UTC)
	require.NoError(t, err)

	got := r.PeriodsInRange(date(2025, time.November, 20), date(2026, time.January, 5))
	want := []payroll.Period{
		{Month: 11, Year: 2025},
		{Month: 12, Year: 2025},
		{Month: 1, Year: 2026},
		{Month: 2, Year: 2026},
	}
	assert.Equal(t, want, got)
}

func TestPeriodsInRange_SingleDay(t *testing.T) {
	r, err := NewResolver(1, time.UTC)
	require.NoError(t, err)

	got := r.PeriodsInRange(date(2025, time.July, 10), date(2025, time.July, 10))
	assert.Equal(t, []payroll.Period{{Month: 7, Year: 2025}}, got)
}

func TestBounds(t *testing.T) {
	r, err := NewResolver(25, time.UTC)
	require.NoError(t, err)

	start, end := r.Bounds(payroll.Period{Month: 6, Year: 2025})
	assert.Equal(t, date(2025, time.May, 25), start)
	assert.Equal(t, date(2025, time.June, 24), end)

	// January period spans the year boundary.
	start, end = r.Bounds(payroll.Period{Month: 1, Year: 2026})
	assert.Equal(t, date(2025, time.December, 25), start)
	assert.Equal(t, date(2026, time.January, 24), end)
}

func TestBounds_CutoffOne(t *testing.T) {
	r, err := NewResolver(1, time.UTC)
	require.NoError(t, err)

	start, end := r.Bounds(payroll.Period{Month: 2, Year: 2025})
	assert.Equal(t, date(2025, time.February, 1), start)
	assert.Equal(t, date(2025, time.February, 28), end)
}

func TestBounds_CutoffPastMonthLength(t *testing.T) {
	r, err := NewResolver(31, time.UTC)
	require.NoError(t, err)

	// February has no day 31, so nothing rolls into March; March starts
	// on its own first day.
	start, end := r.Bounds(payroll.Period{Month: 3, Year: 2025})
	assert.Equal(t, date(2025, time.March, 1), start)
	assert.Equal(t, date(2025, time.March, 30), end)

	// And February's own end clamps to its real last day.
	start, end = r.Bounds(payroll.Period{Month: 2, Year: 2025})
	assert.Equal(t, date(2025, time.January, 31), start)
	assert.Equal(t, date(2025, time.February, 28), end)
}

func TestBounds_EveryDayResolvesToOwnPeriod(t *testing.T) {
	for _, cutoff := range []int{1, 15, 25, 31} {
		r, err := NewResolver(cutoff, time.UTC)
		require.NoError(t, err)

		day := date(2025, time.January, 1)
		for day.Year() == 2025 {
			p := r.PeriodFor(day)
			start, end := r.Bounds(p)
			assert.False(t, day.Before(start) || day.After(end),
				"cutoff %d: day %s outside bounds [%s, %s] of its period %v",
				cutoff, day.Format("2006-01-02"), start.Format("2006-01-02"), end.Format("2006-01-02"), p)
			day = day.AddDate(0, 0, 1)
		}
	}
}
