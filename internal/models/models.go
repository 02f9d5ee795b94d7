package models

import "time"

// FunnelRecord is one calendar month of tracked funnel activity for an account.
// At most one record exists per (account, year, month). Closes, bookings and cash
// have dynamic counterparts computed from Booking/Payment records; the Manual
// flags mark stored values that must win during reconciliation.
type FunnelRecord struct {
	ID             string `json:"id"`
	AccountID      string `json:"account_id"`
	Year           int    `json:"year"`
	Month          int    `json:"month"` // 1-12
	Inquiries      int    `json:"inquiries"`
	CallsBooked    int    `json:"calls_booked"`
	CallsTaken     int    `json:"calls_taken"`
	Closes         int    `json:"closes"`
	Bookings       int64  `json:"bookings"` // minor units
	Cash           int64  `json:"cash"`     // minor units
	ClosesManual   bool   `json:"closes_manual"`
	BookingsManual bool   `json:"bookings_manual"`
	CashManual     bool   `json:"cash_manual"`
}

// Booking is a closed sale. Immutable from the engine's perspective.
type Booking struct {
	ID            string     `json:"id"`
	ServiceTypeID string     `json:"service_type_id"`
	LeadSourceID  string     `json:"lead_source_id"`
	DateBooked    *time.Time `json:"date_booked"`
	BookedRevenue int64      `json:"booked_revenue"` // minor units
}

// Payment is a scheduled or received cash event. Its effective date resolves as
// ExpectedDate, then DueDate, then PaymentDate; a payment with none of the three
// set never lands in any month.
type Payment struct {
	ID           string     `json:"id"`
	ExpectedDate *time.Time `json:"expected_date"`
	DueDate      *time.Time `json:"due_date"`
	PaymentDate  *time.Time `json:"payment_date"`
	Amount       int64      `json:"amount"` // minor units
}

// ServiceType classifies bookings. Only bookings whose service type tracks in
// the funnel contribute to close/revenue reconciliation and attribution.
type ServiceType struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	TracksInFunnel bool   `json:"tracks_in_funnel"`
}

// LeadSource is a grouping label referenced by Booking and AdCampaign.
type LeadSource struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AdCampaign is one (leadSource, year, month) advertising spend record.
// Placeholder rows are synthetic fillers and are ignored by attribution.
type AdCampaign struct {
	ID             string `json:"id"`
	LeadSourceID   string `json:"lead_source_id"`
	Year           int    `json:"year"`
	Month          int    `json:"month"`
	Spend          int64  `json:"spend"` // minor units
	LeadsGenerated int    `json:"leads_generated"`
	Placeholder    bool   `json:"placeholder"`
}
