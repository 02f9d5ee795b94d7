package engine

import "time"

// MonthIndex is year*12 + (month-1): a total ordering over calendar months that
// keeps all range arithmetic in plain integers.
type MonthIndex int

func NewMonthIndex(year, month int) MonthIndex {
	return MonthIndex(year*12 + (month - 1))
}

func MonthIndexOf(t time.Time) MonthIndex {
	return NewMonthIndex(t.Year(), int(t.Month()))
}

func (mi MonthIndex) Year() int { return int(mi) / 12 }

// Month returns the calendar month, 1-12.
func (mi MonthIndex) Month() int { return int(mi)%12 + 1 }

// Interval is a closed [Start, End] month range. AllTime intervals carry no
// bounds and accept every month. FullYear marks calendar-year intervals, which
// reconcile with zero-filled months rather than only months that hold data.
type Interval struct {
	Start    MonthIndex
	End      MonthIndex
	AllTime  bool
	FullYear bool
}

// Contains reports whether the month falls inside the interval.
func (iv Interval) Contains(mi MonthIndex) bool {
	if iv.AllTime {
		return true
	}
	return mi >= iv.Start && mi <= iv.End
}

// ContainsDate is Contains over a calendar date; nil dates are never in range.
func (iv Interval) ContainsDate(t *time.Time) bool {
	if t == nil {
		return false
	}
	return iv.Contains(MonthIndexOf(*t))
}
