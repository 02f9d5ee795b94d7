package ingest

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/jdelgadoc/funnelboard-go/internal/config"
	"github.com/jdelgadoc/funnelboard-go/internal/models"
	"github.com/jdelgadoc/funnelboard-go/internal/store"
)

// Sync pulls an account's record sets from the backoffice and bookings APIs
// into the store. Rows with unusable dates or months are skipped rather than
// failing the run.
type Sync struct {
	c   HTTPClient
	st  *store.MemoryStore
	log *slog.Logger
	cfg config.Config
}

func NewSync(c HTTPClient, st *store.MemoryStore, log *slog.Logger, cfg config.Config) *Sync {
	return &Sync{c: c, st: st, log: log, cfg: cfg}
}

type backofficeResp struct {
	FunnelRecords []struct {
		ID             string `json:"id"`
		Year           int    `json:"year"`
		Month          int    `json:"month"`
		Inquiries      int    `json:"inquiries"`
		CallsBooked    int    `json:"calls_booked"`
		CallsTaken     int    `json:"calls_taken"`
		Closes         int    `json:"closes"`
		Bookings       int64  `json:"bookings"`
		Cash           int64  `json:"cash"`
		ClosesManual   bool   `json:"closes_manual"`
		BookingsManual bool   `json:"bookings_manual"`
		CashManual     bool   `json:"cash_manual"`
	} `json:"funnel_records"`
	ServiceTypes []struct {
		ID             string `json:"id"`
		Name           string `json:"name"`
		TracksInFunnel bool   `json:"tracks_in_funnel"`
	} `json:"service_types"`
	LeadSources []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"lead_sources"`
	AdCampaigns []struct {
		ID             string `json:"id"`
		LeadSourceID   string `json:"lead_source_id"`
		Year           int    `json:"year"`
		Month          int    `json:"month"`
		Spend          int64  `json:"spend"`
		LeadsGenerated int    `json:"leads_generated"`
		Placeholder    bool   `json:"placeholder"`
	} `json:"ad_campaigns"`
}

type bookingsResp struct {
	Bookings []struct {
		ID            string `json:"id"`
		ServiceTypeID string `json:"service_type_id"`
		LeadSourceID  string `json:"lead_source_id"`
		DateBooked    string `json:"date_booked"`
		BookedRevenue int64  `json:"booked_revenue"`
	} `json:"bookings"`
	Payments []struct {
		ID           string `json:"id"`
		ExpectedDate string `json:"expected_date"`
		DueDate      string `json:"due_date"`
		PaymentDate  string `json:"payment_date"`
		Amount       int64  `json:"amount"`
	} `json:"payments"`
}

func (s *Sync) Run(ctx context.Context, account string) error {
	var bo backofficeResp
	if err := GetJSONWithRetry(ctx, s.c, accountURL(s.cfg.BackofficeURL, account), &bo); err != nil {
		return err
	}
	var bk bookingsResp
	if err := GetJSONWithRetry(ctx, s.c, accountURL(s.cfg.BookingsURL, account), &bk); err != nil {
		return err
	}

	ingested := 0
	for _, r := range bo.FunnelRecords {
		if r.Month < 1 || r.Month > 12 || r.Year <= 0 {
			continue
		}
		if !s.st.MarkSeen("funnel|" + account + "|" + r.ID) {
			continue
		}
		s.st.UpsertFunnel(account, models.FunnelRecord{
			ID:             strings.TrimSpace(r.ID),
			AccountID:      account,
			Year:           r.Year,
			Month:          r.Month,
			Inquiries:      max0(r.Inquiries),
			CallsBooked:    max0(r.CallsBooked),
			CallsTaken:     max0(r.CallsTaken),
			Closes:         max0(r.Closes),
			Bookings:       max0i64(r.Bookings),
			Cash:           max0i64(r.Cash),
			ClosesManual:   r.ClosesManual,
			BookingsManual: r.BookingsManual,
			CashManual:     r.CashManual,
		})
		ingested++
	}

	for _, r := range bo.ServiceTypes {
		s.st.UpsertServiceType(account, models.ServiceType{
			ID:             strings.TrimSpace(r.ID),
			Name:           strings.TrimSpace(r.Name),
			TracksInFunnel: r.TracksInFunnel,
		})
	}
	for _, r := range bo.LeadSources {
		s.st.UpsertLeadSource(account, models.LeadSource{
			ID:   strings.TrimSpace(r.ID),
			Name: strings.TrimSpace(r.Name),
		})
	}
	for _, r := range bo.AdCampaigns {
		if r.Month < 1 || r.Month > 12 || r.Year <= 0 {
			continue
		}
		if !s.st.MarkSeen("campaign|" + account + "|" + r.ID) {
			continue
		}
		s.st.UpsertCampaign(account, models.AdCampaign{
			ID:             strings.TrimSpace(r.ID),
			LeadSourceID:   strings.TrimSpace(r.LeadSourceID),
			Year:           r.Year,
			Month:          r.Month,
			Spend:          max0i64(r.Spend),
			LeadsGenerated: max0(r.LeadsGenerated),
			Placeholder:    r.Placeholder,
		})
		ingested++
	}

	for _, r := range bk.Bookings {
		if !s.st.MarkSeen("booking|" + account + "|" + r.ID) {
			continue
		}
		s.st.UpsertBooking(account, models.Booking{
			ID:            strings.TrimSpace(r.ID),
			ServiceTypeID: strings.TrimSpace(r.ServiceTypeID),
			LeadSourceID:  strings.TrimSpace(r.LeadSourceID),
			DateBooked:    parseDate(r.DateBooked),
			BookedRevenue: max0i64(r.BookedRevenue),
		})
		ingested++
	}
	for _, r := range bk.Payments {
		if !s.st.MarkSeen("payment|" + account + "|" + r.ID) {
			continue
		}
		s.st.UpsertPayment(account, models.Payment{
			ID:           strings.TrimSpace(r.ID),
			ExpectedDate: parseDate(r.ExpectedDate),
			DueDate:      parseDate(r.DueDate),
			PaymentDate:  parseDate(r.PaymentDate),
			Amount:       max0i64(r.Amount),
		})
		ingested++
	}

	s.log.Info("sync complete", slog.String("account", account), slog.Int("records", ingested))
	return nil
}

func accountURL(base, account string) string {
	if base == "" {
		return ""
	}
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + "account=" + url.QueryEscape(account)
}

// parseDate accepts YYYY-MM-DD or RFC3339; anything else (including empty)
// resolves to nil and the record stays out of range-scoped aggregation.
func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return &t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t
	}
	return nil
}

func max0(i int) int {
	if i < 0 {
		return 0
	}
	return i
}

func max0i64(i int64) int64 {
	if i < 0 {
		return 0
	}
	return i
}
