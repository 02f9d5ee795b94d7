package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jdelgadoc/funnelboard-go/internal/models"
)

// Dataset is everything the data-access side supplies for one account. The
// engine only reads it.
type Dataset struct {
	AccountID    string
	Funnel       []models.FunnelRecord
	Bookings     []models.Booking
	Payments     []models.Payment
	ServiceTypes []models.ServiceType
	LeadSources  []models.LeadSource
	Campaigns    []models.AdCampaign
}

// MonthRow is one reconciled calendar month: manually entered counts taken
// verbatim from storage, closes/bookings/cash resolved between stored and
// dynamic values.
type MonthRow struct {
	ID          string `json:"id"`
	Year        int    `json:"year"`
	Month       int    `json:"month"`
	Inquiries   int    `json:"inquiries"`
	CallsBooked int    `json:"calls_booked"`
	CallsTaken  int    `json:"calls_taken"`
	Closes      int    `json:"closes"`
	Bookings    int64  `json:"bookings"`
	Cash        int64  `json:"cash"`
}

// Namespace for ids of months synthesized during full-year zero-fill. SHA1
// uuids keep the id stable across recomputations of the same account/month.
var monthRowNamespace = uuid.MustParse("9b1c6a52-7e05-4f2e-8d43-2f6d9a0c1b7e")

type dynamicMonth struct {
	closes   int
	bookings int64
	cash     int64
}

// Reconcile merges stored funnel snapshots with values derived live from
// bookings and payments, producing one row per month in range. Full-year
// intervals materialize all twelve months; window and all-time intervals only
// materialize months that have a stored record. Per field, the dynamic value
// wins unless the record's manual flag says otherwise — including when the
// dynamic value is zero because no bookings exist.
func Reconcile(ds Dataset, iv Interval) []MonthRow {
	dyn := dynamicByMonth(ds, iv)

	stored := make(map[MonthIndex]models.FunnelRecord, len(ds.Funnel))
	for _, fr := range ds.Funnel {
		mi := NewMonthIndex(fr.Year, fr.Month)
		if !iv.Contains(mi) {
			continue
		}
		if _, ok := stored[mi]; ok {
			continue // one record per month; first wins
		}
		stored[mi] = fr
	}

	var months []MonthIndex
	if iv.FullYear {
		for mi := iv.Start; mi <= iv.End; mi++ {
			months = append(months, mi)
		}
	} else {
		for mi := range stored {
			months = append(months, mi)
		}
		sort.Slice(months, func(i, j int) bool { return months[i] < months[j] })
	}

	rows := make([]MonthRow, 0, len(months))
	for _, mi := range months {
		rows = append(rows, resolveMonth(ds.AccountID, mi, stored, dyn))
	}
	return rows
}

// dynamicByMonth scans bookings and payments independently of the stored
// funnel records. Bookings count only when their service type tracks in the
// funnel; payment dates resolve expected, then due, then paid. Records with no
// usable date are skipped silently.
func dynamicByMonth(ds Dataset, iv Interval) map[MonthIndex]dynamicMonth {
	tracked := make(map[string]bool, len(ds.ServiceTypes))
	for _, st := range ds.ServiceTypes {
		tracked[st.ID] = st.TracksInFunnel
	}

	dyn := make(map[MonthIndex]dynamicMonth)
	for _, b := range ds.Bookings {
		if !tracked[b.ServiceTypeID] || !iv.ContainsDate(b.DateBooked) {
			continue
		}
		mi := MonthIndexOf(*b.DateBooked)
		d := dyn[mi]
		d.closes++
		d.bookings += b.BookedRevenue
		dyn[mi] = d
	}
	for _, p := range ds.Payments {
		when := paymentDate(p)
		if !iv.ContainsDate(when) {
			continue
		}
		mi := MonthIndexOf(*when)
		d := dyn[mi]
		d.cash += p.Amount
		dyn[mi] = d
	}
	return dyn
}

func paymentDate(p models.Payment) *time.Time {
	switch {
	case p.ExpectedDate != nil:
		return p.ExpectedDate
	case p.DueDate != nil:
		return p.DueDate
	default:
		return p.PaymentDate
	}
}

func resolveMonth(accountID string, mi MonthIndex, stored map[MonthIndex]models.FunnelRecord, dyn map[MonthIndex]dynamicMonth) MonthRow {
	d := dyn[mi]
	row := MonthRow{
		Year:     mi.Year(),
		Month:    mi.Month(),
		Closes:   d.closes,
		Bookings: d.bookings,
		Cash:     d.cash,
	}

	fr, ok := stored[mi]
	if !ok {
		row.ID = synthRowID(accountID, mi)
		return row
	}

	row.ID = fr.ID
	// Inquiries and call counts have no dynamic source; storage is the truth.
	row.Inquiries = fr.Inquiries
	row.CallsBooked = fr.CallsBooked
	row.CallsTaken = fr.CallsTaken
	if fr.ClosesManual {
		row.Closes = fr.Closes
	}
	if fr.BookingsManual {
		row.Bookings = fr.Bookings
	}
	if fr.CashManual {
		row.Cash = fr.Cash
	}
	return row
}

func synthRowID(accountID string, mi MonthIndex) string {
	name := fmt.Sprintf("%s/%04d-%02d", accountID, mi.Year(), mi.Month())
	return uuid.NewSHA1(monthRowNamespace, []byte(name)).String()
}
