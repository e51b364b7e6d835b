package sales

import (
	"fmt"

	"salescope/domain/core"
)

// Period is a closed calendar-date interval [Start, End] used to scope
// aggregation. Both endpoints are inclusive.
type Period struct {
	Start core.Date `json:"start"`
	End   core.Date `json:"end"`
}

// NewPeriod builds a period, rejecting inverted ranges
func NewPeriod(start, end core.Date) (Period, error) {
	if start.After(end) {
		return Period{}, NewInvalidRangeError(start, end)
	}
	return Period{Start: start, End: end}, nil
}

// Days returns the inclusive day count of the period
func (p Period) Days() int {
	return p.Start.DaysUntil(p.End) + 1
}

// Contains reports whether d falls inside the period
func (p Period) Contains(d core.Date) bool {
	return !d.Before(p.Start) && !d.After(p.End)
}

// PreviousPeriod derives the window of equal duration immediately preceding
// this one: previous.End = Start - 1 day, previous.Start = previous.End -
// (Days - 1). The result may reach before a dataset's earliest date; that
// only makes the window sparser, never an error.
func (p Period) PreviousPeriod() Period {
	end := p.Start.AddDays(-1)
	start := end.AddDays(-(p.Days() - 1))
	return Period{Start: start, End: end}
}

// String returns "start..end" in ISO form
func (p Period) String() string {
	return fmt.Sprintf("%s..%s", p.Start, p.End)
}
