package engine

import "time"

// RangeKind selects how a dashboard range is resolved.
type RangeKind string

const (
	RangeCurrentYear  RangeKind = "current_year"
	RangePastMonths   RangeKind = "past_months"
	RangeSpecificYear RangeKind = "specific_year"
	RangeAllTime      RangeKind = "all_time"
)

// RangeSelector names a dashboard range. Months applies to RangePastMonths,
// Year to RangeSpecificYear; both are ignored otherwise.
type RangeSelector struct {
	Kind   RangeKind
	Months int
	Year   int
}

// ResolveRange turns a selector and an injected "now" into an absolute month
// interval. An unrecognized selector resolves as the current year: the
// dashboard always renders something, so bad input degrades instead of
// erroring.
func ResolveRange(sel RangeSelector, now time.Time) Interval {
	switch sel.Kind {
	case RangePastMonths:
		if sel.Months <= 0 {
			return fullYear(now.Year())
		}
		end := MonthIndexOf(now)
		start := end - MonthIndex(sel.Months-1)
		if start < 0 {
			start = 0
		}
		return Interval{Start: start, End: end}
	case RangeSpecificYear:
		if sel.Year <= 0 {
			return fullYear(now.Year())
		}
		return fullYear(sel.Year)
	case RangeAllTime:
		return Interval{AllTime: true}
	default:
		// RangeCurrentYear and anything unknown.
		return fullYear(now.Year())
	}
}

// fullYear spans January through December so missing months come back
// zero-filled rather than absent.
func fullYear(year int) Interval {
	return Interval{
		Start:    NewMonthIndex(year, 1),
		End:      NewMonthIndex(year, 12),
		FullYear: true,
	}
}
