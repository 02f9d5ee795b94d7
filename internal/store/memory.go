package store

import (
	"sort"
	"sync"

	"github.com/jdelgadoc/funnelboard-go/internal/engine"
	"github.com/jdelgadoc/funnelboard-go/internal/models"
)

// MemoryStore holds per-account record sets. The engine never touches it
// directly; callers take a Snapshot and hand the engine value copies.
// Insertion order is preserved because attribution resolves ties and campaign
// duplicates by first-seen order.
type MemoryStore struct {
	mu       sync.RWMutex
	accounts map[string]*accountData
	seen     map[string]struct{} // per-record ingest idempotency
}

type monthKey struct{ year, month int }

type accountData struct {
	funnel       map[monthKey]models.FunnelRecord
	bookings     []models.Booking
	bookingIdx   map[string]int
	payments     []models.Payment
	paymentIdx   map[string]int
	serviceTypes []models.ServiceType
	serviceIdx   map[string]int
	leadSources  []models.LeadSource
	sourceIdx    map[string]int
	campaigns    []models.AdCampaign
	campaignIdx  map[string]int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts: make(map[string]*accountData),
		seen:     make(map[string]struct{}),
	}
}

func (s *MemoryStore) account(id string) *accountData {
	ad, ok := s.accounts[id]
	if !ok {
		ad = &accountData{
			funnel:      make(map[monthKey]models.FunnelRecord),
			bookingIdx:  make(map[string]int),
			paymentIdx:  make(map[string]int),
			serviceIdx:  make(map[string]int),
			sourceIdx:   make(map[string]int),
			campaignIdx: make(map[string]int),
		}
		s.accounts[id] = ad
	}
	return ad
}

// MarkSeen records an ingest key and reports whether it was new.
func (s *MemoryStore) MarkSeen(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen[key]; ok {
		return false
	}
	s.seen[key] = struct{}{}
	return true
}

// UpsertFunnel replaces the record for its (account, year, month) slot; there
// is never more than one record per calendar month.
func (s *MemoryStore) UpsertFunnel(account string, fr models.FunnelRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.account(account).funnel[monthKey{fr.Year, fr.Month}] = fr
}

func (s *MemoryStore) UpsertBooking(account string, b models.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ad := s.account(account)
	if i, ok := ad.bookingIdx[b.ID]; ok {
		ad.bookings[i] = b
		return
	}
	ad.bookingIdx[b.ID] = len(ad.bookings)
	ad.bookings = append(ad.bookings, b)
}

func (s *MemoryStore) UpsertPayment(account string, p models.Payment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ad := s.account(account)
	if i, ok := ad.paymentIdx[p.ID]; ok {
		ad.payments[i] = p
		return
	}
	ad.paymentIdx[p.ID] = len(ad.payments)
	ad.payments = append(ad.payments, p)
}

func (s *MemoryStore) UpsertServiceType(account string, st models.ServiceType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ad := s.account(account)
	if i, ok := ad.serviceIdx[st.ID]; ok {
		ad.serviceTypes[i] = st
		return
	}
	ad.serviceIdx[st.ID] = len(ad.serviceTypes)
	ad.serviceTypes = append(ad.serviceTypes, st)
}

func (s *MemoryStore) UpsertLeadSource(account string, ls models.LeadSource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ad := s.account(account)
	if i, ok := ad.sourceIdx[ls.ID]; ok {
		ad.leadSources[i] = ls
		return
	}
	ad.sourceIdx[ls.ID] = len(ad.leadSources)
	ad.leadSources = append(ad.leadSources, ls)
}

func (s *MemoryStore) UpsertCampaign(account string, c models.AdCampaign) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ad := s.account(account)
	if i, ok := ad.campaignIdx[c.ID]; ok {
		ad.campaigns[i] = c
		return
	}
	ad.campaignIdx[c.ID] = len(ad.campaigns)
	ad.campaigns = append(ad.campaigns, c)
}

// Snapshot copies the account's records into an engine dataset. Funnel records
// come out ordered by calendar month; the other collections keep insertion
// order.
func (s *MemoryStore) Snapshot(account string) engine.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ds := engine.Dataset{AccountID: account}
	ad, ok := s.accounts[account]
	if !ok {
		return ds
	}

	ds.Funnel = make([]models.FunnelRecord, 0, len(ad.funnel))
	for _, fr := range ad.funnel {
		ds.Funnel = append(ds.Funnel, fr)
	}
	sort.Slice(ds.Funnel, func(i, j int) bool {
		if ds.Funnel[i].Year != ds.Funnel[j].Year {
			return ds.Funnel[i].Year < ds.Funnel[j].Year
		}
		return ds.Funnel[i].Month < ds.Funnel[j].Month
	})

	ds.Bookings = append([]models.Booking(nil), ad.bookings...)
	ds.Payments = append([]models.Payment(nil), ad.payments...)
	ds.ServiceTypes = append([]models.ServiceType(nil), ad.serviceTypes...)
	ds.LeadSources = append([]models.LeadSource(nil), ad.leadSources...)
	ds.Campaigns = append([]models.AdCampaign(nil), ad.campaigns...)
	return ds
}
