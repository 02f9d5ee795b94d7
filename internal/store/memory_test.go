package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdelgadoc/funnelboard-go/internal/models"
)

func TestUpsertFunnelOnePerMonth(t *testing.T) {
	st := NewMemoryStore()
	st.UpsertFunnel("acct-1", models.FunnelRecord{ID: "fr-1", Year: 2024, Month: 5, Inquiries: 10})
	st.UpsertFunnel("acct-1", models.FunnelRecord{ID: "fr-1", Year: 2024, Month: 5, Inquiries: 22})
	st.UpsertFunnel("acct-1", models.FunnelRecord{ID: "fr-2", Year: 2024, Month: 6, Inquiries: 7})

	ds := st.Snapshot("acct-1")
	require.Len(t, ds.Funnel, 2)
	assert.Equal(t, 22, ds.Funnel[0].Inquiries, "second write replaced the month's record")
}

func TestSnapshotOrdersFunnelByMonth(t *testing.T) {
	st := NewMemoryStore()
	st.UpsertFunnel("acct-1", models.FunnelRecord{ID: "fr-2", Year: 2024, Month: 9})
	st.UpsertFunnel("acct-1", models.FunnelRecord{ID: "fr-3", Year: 2025, Month: 1})
	st.UpsertFunnel("acct-1", models.FunnelRecord{ID: "fr-1", Year: 2024, Month: 2})

	ds := st.Snapshot("acct-1")
	require.Len(t, ds.Funnel, 3)
	assert.Equal(t, "fr-1", ds.Funnel[0].ID)
	assert.Equal(t, "fr-2", ds.Funnel[1].ID)
	assert.Equal(t, "fr-3", ds.Funnel[2].ID)
}

func TestBookingsKeepInsertionOrder(t *testing.T) {
	st := NewMemoryStore()
	st.UpsertBooking("acct-1", models.Booking{ID: "b2", BookedRevenue: 200})
	st.UpsertBooking("acct-1", models.Booking{ID: "b1", BookedRevenue: 100})
	st.UpsertBooking("acct-1", models.Booking{ID: "b2", BookedRevenue: 250}) // replace in place

	ds := st.Snapshot("acct-1")
	require.Len(t, ds.Bookings, 2)
	assert.Equal(t, "b2", ds.Bookings[0].ID)
	assert.Equal(t, int64(250), ds.Bookings[0].BookedRevenue)
	assert.Equal(t, "b1", ds.Bookings[1].ID)
}

func TestSnapshotIsolatesAccounts(t *testing.T) {
	st := NewMemoryStore()
	st.UpsertBooking("acct-1", models.Booking{ID: "b1"})
	st.UpsertLeadSource("acct-1", models.LeadSource{ID: "ls-1"})

	ds := st.Snapshot("acct-2")
	assert.Equal(t, "acct-2", ds.AccountID)
	assert.Empty(t, ds.Bookings)
	assert.Empty(t, ds.LeadSources)
}

func TestSnapshotReturnsCopies(t *testing.T) {
	st := NewMemoryStore()
	st.UpsertBooking("acct-1", models.Booking{ID: "b1", BookedRevenue: 100})

	ds := st.Snapshot("acct-1")
	ds.Bookings[0].BookedRevenue = 999

	again := st.Snapshot("acct-1")
	assert.Equal(t, int64(100), again.Bookings[0].BookedRevenue)
}

func TestMarkSeen(t *testing.T) {
	st := NewMemoryStore()
	assert.True(t, st.MarkSeen("booking|acct-1|b1"))
	assert.False(t, st.MarkSeen("booking|acct-1|b1"))
	assert.True(t, st.MarkSeen("booking|acct-2|b1"))
}
