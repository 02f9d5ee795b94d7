package dashboard

import (
	"net/url"
	"strconv"
	"time"

	"github.com/jdelgadoc/funnelboard-go/internal/engine"
	"github.com/jdelgadoc/funnelboard-go/internal/store"
)

// Service translates dashboard queries into engine calls over a store
// snapshot. The clock is injected so responses are deterministic under test.
type Service struct {
	st  *store.MemoryStore
	now func() time.Time
}

func NewService(st *store.MemoryStore, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{st: st, now: now}
}

// Summary is the main dashboard bundle: the reconciled months, the derived
// metrics and, when a goal was supplied, pacing against it.
type Summary struct {
	Months   []engine.MonthRow `json:"months"`
	Metrics  engine.Metrics    `json:"metrics"`
	GoalPace *engine.GoalPace  `json:"goal_pace,omitempty"`
}

func (s *Service) Summary(account string, v url.Values) Summary {
	now := s.now()
	iv := engine.ResolveRange(parseSelector(v), now)
	ds := s.st.Snapshot(account)
	rows := engine.Reconcile(ds, iv)
	m := engine.Calculate(rows)

	out := Summary{Months: rows, Metrics: m}
	if goal, err := strconv.ParseInt(v.Get("goal"), 10, 64); err == nil && goal > 0 {
		gp := engine.PaceGoal(m.Totals.Cash, goal, iv, now)
		out.GoalPace = &gp
	}
	return out
}

func (s *Service) Attribution(account string, v url.Values) engine.Attribution {
	iv := engine.ResolveRange(parseSelector(v), s.now())
	return engine.Attribute(s.st.Snapshot(account), iv)
}

// Forecast projects the lookback range's averages over the requested horizon.
func (s *Service) Forecast(account string, v url.Values) engine.Forecast {
	now := s.now()
	iv := engine.ResolveRange(parseSelector(v), now)
	rows := engine.Reconcile(s.st.Snapshot(account), iv)
	m := engine.Calculate(rows)

	horizon := atoiDef(v.Get("horizon"), 6)
	if horizon < 1 {
		horizon = 1
	}
	if horizon > 24 {
		horizon = 24
	}
	return engine.Project(m.Averages, horizon, now)
}

// parseSelector reads range parameters with permissive defaults; anything the
// engine does not recognize resolves as the current year.
func parseSelector(v url.Values) engine.RangeSelector {
	sel := engine.RangeSelector{Kind: engine.RangeKind(v.Get("range"))}
	switch sel.Kind {
	case engine.RangePastMonths:
		sel.Months = atoiDef(v.Get("months"), 6)
	case engine.RangeSpecificYear:
		sel.Year = atoiDef(v.Get("year"), 0)
	}
	return sel
}

func atoiDef(s string, d int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return n
}
