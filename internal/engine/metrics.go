package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// Totals sums every numeric field across a reconciled sequence.
type Totals struct {
	Inquiries   int   `json:"inquiries"`
	CallsBooked int   `json:"calls_booked"`
	CallsTaken  int   `json:"calls_taken"`
	Closes      int   `json:"closes"`
	Bookings    int64 `json:"bookings"`
	Cash        int64 `json:"cash"`
}

// Averages are per-month averages over months that hold data. Money averages
// stay in integer minor units, rounded half up.
type Averages struct {
	Inquiries   int   `json:"inquiries"`
	CallsBooked int   `json:"calls_booked"`
	CallsTaken  int   `json:"calls_taken"`
	Closes      int   `json:"closes"`
	Bookings    int64 `json:"bookings"`
	Cash        int64 `json:"cash"`
}

// ConversionRates are percentages formatted to one decimal place, "0.0" when
// the denominator is zero.
type ConversionRates struct {
	InquiryToClose      string `json:"inquiry_to_close"`
	InquiryToCallBooked string `json:"inquiry_to_call_booked"`
	InquiryToCallTaken  string `json:"inquiry_to_call_taken"`
	CallShowUpRate      string `json:"call_show_up_rate"`
	CallTakenToClose    string `json:"call_taken_to_close"`
}

// Metrics is the bundle the dashboard renders for a reconciled range.
type Metrics struct {
	Totals              Totals          `json:"totals"`
	MonthsWithData      int             `json:"months_with_data"`
	Averages            Averages        `json:"averages"`
	Rates               ConversionRates `json:"rates"`
	RevenuePerCallTaken int64           `json:"revenue_per_call_taken"` // minor units
}

// Calculate derives the metrics bundle from a reconciled month sequence. It is
// a pure function: empty input yields all zeros and "0.0" rates, never an
// error.
func Calculate(rows []MonthRow) Metrics {
	var m Metrics
	for _, r := range rows {
		m.Totals.Inquiries += r.Inquiries
		m.Totals.CallsBooked += r.CallsBooked
		m.Totals.CallsTaken += r.CallsTaken
		m.Totals.Closes += r.Closes
		m.Totals.Bookings += r.Bookings
		m.Totals.Cash += r.Cash
		if r.Inquiries != 0 || r.CallsBooked != 0 || r.CallsTaken != 0 || r.Closes != 0 || r.Bookings != 0 {
			m.MonthsWithData++
		}
	}

	if n := m.MonthsWithData; n > 0 {
		m.Averages = Averages{
			Inquiries:   divRound(int64(m.Totals.Inquiries), int64(n)),
			CallsBooked: divRound(int64(m.Totals.CallsBooked), int64(n)),
			CallsTaken:  divRound(int64(m.Totals.CallsTaken), int64(n)),
			Closes:      divRound(int64(m.Totals.Closes), int64(n)),
			Bookings:    divRound64(m.Totals.Bookings, int64(n)),
			Cash:        divRound64(m.Totals.Cash, int64(n)),
		}
	}

	m.Rates = ConversionRates{
		InquiryToClose:      ratioPct(int64(m.Totals.Closes), int64(m.Totals.Inquiries)),
		InquiryToCallBooked: ratioPct(int64(m.Totals.CallsBooked), int64(m.Totals.Inquiries)),
		InquiryToCallTaken:  ratioPct(int64(m.Totals.CallsTaken), int64(m.Totals.Inquiries)),
		CallShowUpRate:      ratioPct(int64(m.Totals.CallsTaken), int64(m.Totals.CallsBooked)),
		CallTakenToClose:    ratioPct(int64(m.Totals.Closes), int64(m.Totals.CallsTaken)),
	}

	if m.Totals.CallsTaken > 0 {
		m.RevenuePerCallTaken = divRound64(m.Totals.Bookings, int64(m.Totals.CallsTaken))
	}
	return m
}

// GoalPace tracks progress toward a cash goal over an interval.
type GoalPace struct {
	Goal             int64  `json:"goal"`
	Actual           int64  `json:"actual"`
	Remaining        int64  `json:"remaining"`
	PctOfGoal        string `json:"pct_of_goal"`
	MonthsLeft       int    `json:"months_left"`
	RequiredPerMonth int64  `json:"required_per_month"` // minor units
}

// PaceGoal compares collected cash against a goal for the interval. MonthsLeft
// counts the current month through the interval's end; RequiredPerMonth is the
// flat run rate that would close the gap, 0 once the goal is met or the
// interval has no months left.
func PaceGoal(actual, goal int64, iv Interval, now time.Time) GoalPace {
	gp := GoalPace{
		Goal:      goal,
		Actual:    actual,
		PctOfGoal: ratioPct(actual, goal),
	}
	if goal > actual {
		gp.Remaining = goal - actual
	}
	if !iv.AllTime {
		left := int(iv.End-MonthIndexOf(now)) + 1
		span := int(iv.End-iv.Start) + 1
		if left < 0 {
			left = 0
		}
		if left > span {
			left = span
		}
		gp.MonthsLeft = left
	}
	if gp.Remaining > 0 && gp.MonthsLeft > 0 {
		gp.RequiredPerMonth = divRound64(gp.Remaining, int64(gp.MonthsLeft))
	}
	return gp
}

var oneHundred = decimal.NewFromInt(100)

// ratioPct formats num/den as a percentage with one decimal place. A zero
// denominator reads "0.0" so the dashboard never sees NaN or Inf.
func ratioPct(num, den int64) string {
	if den == 0 {
		return "0.0"
	}
	return decimal.NewFromInt(num).Mul(oneHundred).DivRound(decimal.NewFromInt(den), 1).StringFixed(1)
}

func divRound(num, den int64) int { return int(divRound64(num, den)) }

// divRound64 is integer division rounded half up; callers guarantee den > 0.
func divRound64(num, den int64) int64 {
	return (num + den/2) / den
}
