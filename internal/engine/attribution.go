package engine

import (
	"sort"

	"github.com/shopspring/decimal"
)

// SourceShare is one lead source's slice of the in-range bookings.
type SourceShare struct {
	LeadSourceID string `json:"lead_source_id"`
	Name         string `json:"name"`
	Count        int    `json:"count"`
	Revenue      int64  `json:"revenue"` // minor units
	PctCount     int    `json:"pct_count"`
	PctRevenue   int    `json:"pct_revenue"`
}

// Attribution is the lead-source breakdown plus advertising ROI for a range.
// OverallROI is nil when there is not enough data to divide; callers render
// that as "N/A".
type Attribution struct {
	ByCount            []SourceShare    `json:"by_count"`
	ByRevenue          []SourceShare    `json:"by_revenue"`
	TotalAdSpend       int64            `json:"total_ad_spend"` // minor units
	ClosesFromAds      int              `json:"closes_from_ads"`
	TotalBookedFromAds int64            `json:"total_booked_from_ads"` // minor units
	OverallROI         *decimal.Decimal `json:"overall_roi"`
	CostPerClose       int64            `json:"cost_per_close"` // minor units
}

type campaignKey struct {
	leadSourceID string
	year, month  int
}

// Attribute groups in-range bookings by lead source and reconciles ad spend
// against the bookings those sources produced.
func Attribute(ds Dataset, iv Interval) Attribution {
	var out Attribution

	tracked := make(map[string]bool, len(ds.ServiceTypes))
	for _, st := range ds.ServiceTypes {
		tracked[st.ID] = st.TracksInFunnel
	}
	names := make(map[string]string, len(ds.LeadSources))
	for _, ls := range ds.LeadSources {
		names[ls.ID] = ls.Name
	}

	// Lead-source breakdown over funnel-tracked bookings, groups kept in
	// first-encounter order so ties sort deterministically later.
	groups := make(map[string]*SourceShare)
	var order []string
	totalCount := 0
	var totalRevenue int64
	for _, b := range ds.Bookings {
		if !tracked[b.ServiceTypeID] || !iv.ContainsDate(b.DateBooked) {
			continue
		}
		g, ok := groups[b.LeadSourceID]
		if !ok {
			g = &SourceShare{LeadSourceID: b.LeadSourceID, Name: names[b.LeadSourceID]}
			groups[b.LeadSourceID] = g
			order = append(order, b.LeadSourceID)
		}
		g.Count++
		g.Revenue += b.BookedRevenue
		totalCount++
		totalRevenue += b.BookedRevenue
	}

	shares := make([]SourceShare, 0, len(order))
	for _, id := range order {
		g := *groups[id]
		if totalCount > 0 {
			g.PctCount = divRound(int64(g.Count)*100, int64(totalCount))
		}
		if totalRevenue > 0 {
			g.PctRevenue = divRound(g.Revenue*100, totalRevenue)
		}
		shares = append(shares, g)
	}

	out.ByCount = append([]SourceShare(nil), shares...)
	sort.SliceStable(out.ByCount, func(i, j int) bool { return out.ByCount[i].Count > out.ByCount[j].Count })
	out.ByRevenue = append([]SourceShare(nil), shares...)
	sort.SliceStable(out.ByRevenue, func(i, j int) bool { return out.ByRevenue[i].Revenue > out.ByRevenue[j].Revenue })

	// Ad spend: placeholders discarded, duplicates by (source, year, month)
	// collapse to the first occurrence.
	seen := make(map[campaignKey]bool)
	adSources := make(map[string]bool)
	for _, c := range ds.Campaigns {
		if c.Placeholder {
			continue
		}
		k := campaignKey{c.LeadSourceID, c.Year, c.Month}
		if seen[k] {
			continue
		}
		seen[k] = true
		if !iv.Contains(NewMonthIndex(c.Year, c.Month)) {
			continue
		}
		out.TotalAdSpend += c.Spend
		adSources[c.LeadSourceID] = true
	}

	for _, b := range ds.Bookings {
		if !adSources[b.LeadSourceID] || !iv.ContainsDate(b.DateBooked) {
			continue
		}
		out.ClosesFromAds++
		out.TotalBookedFromAds += b.BookedRevenue
	}

	if out.TotalAdSpend > 0 && out.TotalBookedFromAds > 0 {
		roi := decimal.NewFromInt(out.TotalBookedFromAds).DivRound(decimal.NewFromInt(out.TotalAdSpend), 2)
		out.OverallROI = &roi
	}
	if out.ClosesFromAds > 0 {
		out.CostPerClose = divRound64(out.TotalAdSpend, int64(out.ClosesFromAds))
	}
	return out
}
