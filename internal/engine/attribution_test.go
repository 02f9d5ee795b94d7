package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdelgadoc/funnelboard-go/internal/models"
)

func attributionDataset() Dataset {
	return Dataset{
		AccountID: "acct-1",
		Bookings: []models.Booking{
			{ID: "b1", ServiceTypeID: "st-coaching", LeadSourceID: "ls-ig", DateBooked: dptr(2024, 2, 1), BookedRevenue: 500000},
			{ID: "b2", ServiceTypeID: "st-coaching", LeadSourceID: "ls-ref", DateBooked: dptr(2024, 3, 1), BookedRevenue: 900000},
			{ID: "b3", ServiceTypeID: "st-coaching", LeadSourceID: "ls-ig", DateBooked: dptr(2024, 4, 1), BookedRevenue: 300000},
			{ID: "b4", ServiceTypeID: "st-merch", LeadSourceID: "ls-ig", DateBooked: dptr(2024, 4, 2), BookedRevenue: 9999999},
			{ID: "b5", ServiceTypeID: "st-coaching", LeadSourceID: "ls-ig", DateBooked: dptr(2023, 4, 1), BookedRevenue: 100000},
		},
		ServiceTypes: trackedTypes(),
		LeadSources: []models.LeadSource{
			{ID: "ls-ig", Name: "Instagram"},
			{ID: "ls-ref", Name: "Referral"},
		},
		Campaigns: []models.AdCampaign{
			{ID: "c1", LeadSourceID: "ls-ig", Year: 2024, Month: 2, Spend: 100000, LeadsGenerated: 40},
			{ID: "c2", LeadSourceID: "ls-ig", Year: 2024, Month: 2, Spend: 777777}, // duplicate key, ignored
			{ID: "c3", LeadSourceID: "ls-ig", Year: 2024, Month: 3, Spend: 50000, Placeholder: true},
			{ID: "c4", LeadSourceID: "ls-ig", Year: 2024, Month: 4, Spend: 60000},
			{ID: "c5", LeadSourceID: "ls-ig", Year: 2023, Month: 4, Spend: 999999}, // out of range
		},
	}
}

func year2024() Interval {
	return ResolveRange(RangeSelector{Kind: RangeSpecificYear, Year: 2024}, time.Now())
}

func TestAttributeLeadSourceBreakdown(t *testing.T) {
	a := Attribute(attributionDataset(), year2024())

	require.Len(t, a.ByCount, 2)
	assert.Equal(t, "ls-ig", a.ByCount[0].LeadSourceID)
	assert.Equal(t, "Instagram", a.ByCount[0].Name)
	assert.Equal(t, 2, a.ByCount[0].Count)
	assert.Equal(t, int64(800000), a.ByCount[0].Revenue)
	assert.Equal(t, 67, a.ByCount[0].PctCount)
	assert.Equal(t, 33, a.ByCount[1].PctCount)

	// Revenue ordering differs: referral booked more on fewer closes.
	assert.Equal(t, "ls-ref", a.ByRevenue[0].LeadSourceID)
	assert.Equal(t, int64(900000), a.ByRevenue[0].Revenue)
	assert.Equal(t, 53, a.ByRevenue[0].PctRevenue)
	assert.Equal(t, 47, a.ByRevenue[1].PctRevenue)
}

func TestAttributePctCountSumsToHundred(t *testing.T) {
	a := Attribute(attributionDataset(), year2024())

	sum := 0
	for _, s := range a.ByCount {
		sum += s.PctCount
	}
	assert.InDelta(t, 100, sum, 1, "shares sum to 100 within rounding")
}

func TestAttributeTiesKeepEncounterOrder(t *testing.T) {
	ds := Dataset{
		AccountID: "acct-1",
		Bookings: []models.Booking{
			{ID: "b1", ServiceTypeID: "st-coaching", LeadSourceID: "ls-b", DateBooked: dptr(2024, 1, 1), BookedRevenue: 100},
			{ID: "b2", ServiceTypeID: "st-coaching", LeadSourceID: "ls-a", DateBooked: dptr(2024, 1, 2), BookedRevenue: 100},
		},
		ServiceTypes: trackedTypes(),
	}
	a := Attribute(ds, year2024())
	require.Len(t, a.ByCount, 2)
	assert.Equal(t, "ls-b", a.ByCount[0].LeadSourceID, "stable sort: first-seen source stays first on ties")
	assert.Equal(t, "ls-b", a.ByRevenue[0].LeadSourceID)
}

func TestAttributeAdSpendDedupAndROI(t *testing.T) {
	a := Attribute(attributionDataset(), year2024())

	// c1 + c4; duplicate, placeholder and out-of-range rows excluded.
	assert.Equal(t, int64(160000), a.TotalAdSpend)
	assert.Equal(t, 3, a.ClosesFromAds) // b1, b3, b4 (all ls-ig in range)
	assert.Equal(t, int64(10799999), a.TotalBookedFromAds)

	require.NotNil(t, a.OverallROI)
	assert.Equal(t, "67.5", a.OverallROI.StringFixed(1))
	assert.Equal(t, int64(53333), a.CostPerClose)
}

func TestAttributeROINilWithoutData(t *testing.T) {
	// No campaigns at all.
	ds := attributionDataset()
	ds.Campaigns = nil
	a := Attribute(ds, year2024())
	assert.Nil(t, a.OverallROI)
	assert.Zero(t, a.CostPerClose)

	// Spend but no bookings from ad sources.
	ds = attributionDataset()
	ds.Bookings = nil
	a = Attribute(ds, year2024())
	assert.Equal(t, int64(160000), a.TotalAdSpend)
	assert.Nil(t, a.OverallROI)
	assert.Zero(t, a.ClosesFromAds)
	assert.Zero(t, a.CostPerClose)
}

func TestAttributeEmptyDataset(t *testing.T) {
	a := Attribute(Dataset{AccountID: "acct-1"}, year2024())
	assert.Empty(t, a.ByCount)
	assert.Empty(t, a.ByRevenue)
	assert.Zero(t, a.TotalAdSpend)
	assert.Nil(t, a.OverallROI)
	assert.Zero(t, a.CostPerClose)
}
