package engine

import "time"

// ForecastMonth is one synthetic future month carrying the historical
// averages.
type ForecastMonth struct {
	Year        int   `json:"year"`
	Month       int   `json:"month"`
	Inquiries   int   `json:"inquiries"`
	CallsBooked int   `json:"calls_booked"`
	CallsTaken  int   `json:"calls_taken"`
	Closes      int   `json:"closes"`
	Bookings    int64 `json:"bookings"` // minor units
}

// Forecast is a flat projection over a horizon, with totals summed per month.
type Forecast struct {
	Months []ForecastMonth `json:"months"`
	Totals Totals          `json:"totals"`
}

// Project repeats the historical monthly averages over the next horizon
// months, starting the month after now. This is deliberately not a trend
// model: the projection encodes "keep doing what the recent months did".
// Totals are accumulated month by month so rounding happens once per month,
// the same as it would over real data.
func Project(avg Averages, horizon int, now time.Time) Forecast {
	var f Forecast
	if horizon <= 0 {
		return f
	}
	start := MonthIndexOf(now) + 1
	f.Months = make([]ForecastMonth, 0, horizon)
	for i := 0; i < horizon; i++ {
		mi := start + MonthIndex(i)
		fm := ForecastMonth{
			Year:        mi.Year(),
			Month:       mi.Month(),
			Inquiries:   avg.Inquiries,
			CallsBooked: avg.CallsBooked,
			CallsTaken:  avg.CallsTaken,
			Closes:      avg.Closes,
			Bookings:    avg.Bookings,
		}
		f.Months = append(f.Months, fm)
		f.Totals.Inquiries += fm.Inquiries
		f.Totals.CallsBooked += fm.CallsBooked
		f.Totals.CallsTaken += fm.CallsTaken
		f.Totals.Closes += fm.Closes
		f.Totals.Bookings += fm.Bookings
	}
	return f
}
