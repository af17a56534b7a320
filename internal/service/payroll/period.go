package payroll

import (
	"time"

	"github.com/paycore/payroll-engine-go/internal/domain/payroll"
)

// Resolver maps calendar days to pay periods under the cutoff-day
// policy: with cutoff c > 1, days on or after c roll into the next
// calendar month's period. Resolvers are pure and cheap; build one per
// run from the current settings.
type Resolver struct {
	cutoffDay int
	loc       *time.Location
}

func NewResolver(cutoffDay int, loc *time.Location) (*Resolver, error) {
	if cutoffDay < 1 || cutoffDay > 31 {
		return nil, payroll.ErrInvalidCutoffDay
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Resolver{cutoffDay: cutoffDay, loc: loc}, nil
}

// PeriodFor resolves the pay period a timestamp belongs to.
func (r *Resolver) PeriodFor(t time.Time) payroll.Period {
	t = t.In(r.loc)
	p := payroll.Period{Month: int(t.Month()), Year: t.Year()}
	if r.cutoffDay > 1 && t.Day() >= r.cutoffDay {
		p = p.Next()
	}
	return p
}

// PeriodsInRange walks day by day from start to end (inclusive) in the
// resolver's timezone and returns the distinct periods touched, in
// order of first appearance. Used to decide which periods a late
// attendance or leave correction must trigger a recompute for.
func (r *Resolver) PeriodsInRange(start, end time.Time) []payroll.Period {
	day := dateOf(start.In(r.loc))
	last := dateOf(end.In(r.loc))

	var out []payroll.Period
	seen := make(map[payroll.Period]bool)
	for !day.After(last) {
		p := r.PeriodFor(day)
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
		day = day.AddDate(0, 0, 1)
	}
	return out
}

// Bounds returns the inclusive [first day, last day] span of calendar
// days that resolve to the given period. Cutoff days that exceed a
// month's length are clamped to that month's real boundaries.
func (r *Resolver) Bounds(p payroll.Period) (time.Time, time.Time) {
	if r.cutoffDay == 1 {
		start := time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, r.loc)
		return start, start.AddDate(0, 1, -1)
	}

	// Days >= cutoff of the previous month roll into p. A cutoff past
	// the previous month's length contributes nothing, so p starts on
	// its own first day.
	prev := p.Prev()
	var start time.Time
	if r.cutoffDay > daysIn(prev) {
		start = time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, r.loc)
	} else {
		start = time.Date(prev.Year, time.Month(prev.Month), r.cutoffDay, 0, 0, 0, 0, r.loc)
	}
	end := time.Date(p.Year, time.Month(p.Month), clampDay(r.cutoffDay-1, p), 0, 0, 0, 0, r.loc)
	return start, end
}

func clampDay(day int, p payroll.Period) int {
	if max := daysIn(p); day > max {
		return max
	}
	return day
}

func daysIn(p payroll.Period) int {
	// Day 0 of the next month normalizes to the last day of this one.
	return time.Date(p.Year, time.Month(p.Month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
