package planner

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/simaogato/wealthflow-planner/internal/clock"
	"github.com/simaogato/wealthflow-planner/internal/date"
	"github.com/simaogato/wealthflow-planner/internal/domain"
	"github.com/simaogato/wealthflow-planner/internal/usecase/budget"
	"github.com/simaogato/wealthflow-planner/internal/usecase/cadence"
	"github.com/simaogato/wealthflow-planner/internal/usecase/cycle"
	"github.com/simaogato/wealthflow-planner/internal/usecase/funding"
	"github.com/simaogato/wealthflow-planner/internal/usecase/health"
	"github.com/simaogato/wealthflow-planner/internal/usecase/liquidity"
	"github.com/simaogato/wealthflow-planner/internal/usecase/memo"
)

// Options tunes the projections; zero values fall back to the engine defaults
type Options struct {
	WindowDays         int
	LookaheadDays      int
	AutopayHorizonDays int
	ForecastWindows    []int
	MemoSize           int // cached timelines; 0 disables caching
	Location           *time.Location
}

// PlannerService reads snapshots from the repositories and runs the projection engine over them
type PlannerService struct {
	Repos domain.Repositories
	Clock clock.Clock

	opts     Options
	timeline *memo.Func[liquidity.Input, liquidity.Timeline]
}

// NewPlannerService creates a new PlannerService instance
func NewPlannerService(repos domain.Repositories, clk clock.Clock, opts Options) *PlannerService {
	if clk == nil {
		clk = clock.SystemClock{}
	}
	if opts.WindowDays <= 0 {
		opts.WindowDays = 30
	}
	if opts.AutopayHorizonDays <= 0 {
		opts.AutopayHorizonDays = health.DefaultAutopayHorizonDays
	}
	if len(opts.ForecastWindows) == 0 {
		opts.ForecastWindows = budget.DefaultForecastWindows
	}

	s := &PlannerService{
		Repos: repos,
		Clock: clk,
		opts:  opts,
	}
	if opts.MemoSize > 0 {
		s.timeline = memo.New(liquidity.ProjectTimeline, opts.MemoSize)
	}
	return s
}

// Today is the current calendar day in the configured location
func (s *PlannerService) Today() date.Date {
	return clock.Today(s.Clock, s.opts.Location)
}

// CacheStats reports the timeline cache counters; zero when caching is disabled
func (s *PlannerService) CacheStats() memo.Stats {
	if s.timeline == nil {
		return memo.Stats{}
	}
	return s.timeline.Stats()
}

// accountSnapshot is every account with its balances
type accountSnapshot struct {
	accounts []domain.Account
	balances map[uuid.UUID]domain.AccountBalances
}

func (a accountSnapshot) liquid() []domain.LiquidAccount {
	out := make([]domain.LiquidAccount, 0, len(a.accounts))
	for _, acc := range a.accounts {
		out = append(out, acc.LiquidView(a.balances[acc.ID]))
	}
	return out
}

func (s *PlannerService) loadAccounts(ctx context.Context) (accountSnapshot, error) {
	accounts, err := s.Repos.Accounts.List(ctx)
	if err != nil {
		return accountSnapshot{}, fmt.Errorf("failed to list accounts: %w", err)
	}
	balances, err := s.Repos.Accounts.Balances(ctx)
	if err != nil {
		return accountSnapshot{}, fmt.Errorf("failed to load account balances: %w", err)
	}
	return accountSnapshot{accounts: values(accounts), balances: balances}, nil
}

func (s *PlannerService) loadObligations(ctx context.Context) ([]domain.Obligation, error) {
	obligations, err := s.Repos.Obligations.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list obligations: %w", err)
	}
	return values(obligations), nil
}

func (s *PlannerService) loadReconciliations(ctx context.Context) (*health.ReconciliationIndex, error) {
	records, err := s.Repos.Reconciliations.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list reconciliations: %w", err)
	}
	return health.NewReconciliationIndex(records), nil
}

// values copies repository results into a plain slice, skipping nils
func values[T any](items []*T) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if item != nil {
			out = append(out, *item)
		}
	}
	return out
}

// Timeline projects the shared liquidity pool against every upcoming obligation.
// A non-positive windowDays uses the configured window.
func (s *PlannerService) Timeline(ctx context.Context, windowDays int) (*liquidity.Timeline, error) {
	obligations, err := s.loadObligations(ctx)
	if err != nil {
		return nil, err
	}
	snap, err := s.loadAccounts(ctx)
	if err != nil {
		return nil, err
	}

	if windowDays <= 0 {
		windowDays = s.opts.WindowDays
	}
	in := liquidity.Input{
		Today:         s.Today(),
		Obligations:   obligations,
		Accounts:      snap.liquid(),
		WindowDays:    windowDays,
		LookaheadDays: s.opts.LookaheadDays,
	}

	var tl liquidity.Timeline
	if s.timeline != nil {
		tl = detach(s.timeline.Call(in))
	} else {
		tl = liquidity.ProjectTimeline(in)
	}

	if len(tl.Unscheduled) > 0 {
		log.Debugf("timeline: %d obligation(s) have no schedulable recurrence", len(tl.Unscheduled))
	}
	return &tl, nil
}

// detach copies the slices and pointers of a cached timeline so callers cannot reach the cache
func detach(tl liquidity.Timeline) liquidity.Timeline {
	events := make([]domain.TimelineEvent, len(tl.Events))
	copy(events, tl.Events)
	tl.Events = events
	unscheduled := make([]uuid.UUID, len(tl.Unscheduled))
	copy(unscheduled, tl.Unscheduled)
	tl.Unscheduled = unscheduled
	if tl.FirstShortfall != nil {
		first := *tl.FirstShortfall
		tl.FirstShortfall = &first
	}
	return tl
}

// AccountHealth is the health score of one account
type AccountHealth struct {
	Account  domain.Account
	Balances domain.AccountBalances
	Latest   *domain.ReconciliationRecord
	health.Score
}

// AccountHealth scores every account against its latest reconciliation.
// Results are ordered by score, weakest first.
func (s *PlannerService) AccountHealth(ctx context.Context) ([]AccountHealth, error) {
	snap, err := s.loadAccounts(ctx)
	if err != nil {
		return nil, err
	}
	idx, err := s.loadReconciliations(ctx)
	if err != nil {
		return nil, err
	}

	today := s.Today()
	out := make([]AccountHealth, 0, len(snap.accounts))
	for _, acc := range snap.accounts {
		b, ok := snap.balances[acc.ID]
		if !ok {
			log.Debugf("account health: no balances for account %s, scoring as empty", acc.ID)
			b = domain.AccountBalances{AccountID: acc.ID}
		}
		latest := idx.Latest(acc.ID)
		out = append(out, AccountHealth{
			Account:  acc,
			Balances: b,
			Latest:   latest,
			Score:    health.ScoreAccount(acc, b, latest, today),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score.Score != out[j].Score.Score {
			return out[i].Score.Score < out[j].Score.Score
		}
		return out[i].Account.Name < out[j].Account.Name
	})
	return out, nil
}

// AutopayRisks checks every autopay obligation due within the autopay horizon
// against the available balance of its linked account
func (s *PlannerService) AutopayRisks(ctx context.Context) ([]health.AutopayRisk, error) {
	risks, _, err := s.autopayRisks(ctx)
	return risks, err
}

func (s *PlannerService) autopayRisks(ctx context.Context) ([]health.AutopayRisk, accountSnapshot, error) {
	obligations, err := s.loadObligations(ctx)
	if err != nil {
		return nil, accountSnapshot{}, err
	}
	snap, err := s.loadAccounts(ctx)
	if err != nil {
		return nil, accountSnapshot{}, err
	}

	available := make(map[uuid.UUID]decimal.Decimal, len(snap.balances))
	for id, b := range snap.balances {
		available[id] = b.Available
	}
	return health.AssessAutopay(obligations, available, s.Today(), s.opts.AutopayHorizonDays), snap, nil
}

// FundingPlan suggests transfers between liquid accounts that lift every
// linked autopay draft in the horizon to good
func (s *PlannerService) FundingPlan(ctx context.Context) (*funding.Plan, error) {
	risks, snap, err := s.autopayRisks(ctx)
	if err != nil {
		return nil, err
	}

	plan := funding.SuggestTransfers(snap.liquid(), risks)
	if plan.Unfunded.IsPositive() {
		log.Debugf("funding: %s of autopay need has no donor account", plan.Unfunded)
	}
	return &plan, nil
}

// CardCycle is the cycle projection of one credit account
type CardCycle struct {
	AccountID  uuid.UUID
	Name       string
	Projection cycle.Projection
	Dates      cycle.Dates
}

// CardCycles projects the current billing cycle of every credit account
func (s *PlannerService) CardCycles(ctx context.Context) ([]CardCycle, error) {
	states, err := s.Repos.Credit.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list credit accounts: %w", err)
	}
	accounts, err := s.Repos.Accounts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	names := make(map[uuid.UUID]string, len(accounts))
	for _, a := range accounts {
		names[a.ID] = a.Name
	}

	today := s.Today()
	out := make([]CardCycle, 0, len(states))
	for _, st := range values(states) {
		out = append(out, CardCycle{
			AccountID:  st.AccountID,
			Name:       names[st.AccountID],
			Projection: cycle.ProjectCycle(st, today.Day()),
			Dates:      cycle.CycleDates(st, today),
		})
	}
	return out, nil
}

// BudgetPerformance measures every envelope against the current month's spend
func (s *PlannerService) BudgetPerformance(ctx context.Context) (*budget.PerformanceReport, error) {
	envelopes, err := s.Repos.Budgets.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list budget envelopes: %w", err)
	}

	today := s.Today()
	from := date.New(today.Year(), today.Month(), 1)
	to := date.New(today.Year(), today.Month(), date.DaysIn(today.Year(), today.Month()))
	spend, err := s.Repos.Spend.ListBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list spend: %w", err)
	}

	report := budget.Performance(values(envelopes), values(spend), today)
	return &report, nil
}

// Forecast projects the liquidity pool over the configured forecast windows
func (s *PlannerService) Forecast(ctx context.Context) (*budget.Forecast, error) {
	obligations, err := s.loadObligations(ctx)
	if err != nil {
		return nil, err
	}
	incomes, err := s.Repos.Incomes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list income streams: %w", err)
	}
	snap, err := s.loadAccounts(ctx)
	if err != nil {
		return nil, err
	}

	f := budget.ForecastCash(budget.ForecastInput{
		Today:       s.Today(),
		Liquidity:   liquidity.StartingPool(snap.liquid()),
		Incomes:     values(incomes),
		Obligations: obligations,
		Windows:     s.opts.ForecastWindows,
	})
	return &f, nil
}

// BillVariance is how much the actual amounts of a bill move from cycle to cycle
type BillVariance struct {
	ObligationID uuid.UUID
	Name         string
	Samples      []decimal.Decimal // monthly-normalized actual amounts, oldest cycle first
	Stats        budget.Stats
}

// BillVariance computes the variance of every bill with recorded actual amounts.
//
// Logic:
//   - Samples are the actual amounts of the latest record of each cycle
//   - Each sample is normalized to a monthly amount through the bill's cadence;
//     bills without a repeating cadence use the raw amounts
//   - Bills without any actual amount are left out
func (s *PlannerService) BillVariance(ctx context.Context) ([]BillVariance, error) {
	obligations, err := s.loadObligations(ctx)
	if err != nil {
		return nil, err
	}
	idx, err := s.loadReconciliations(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]BillVariance, 0)
	for _, o := range obligations {
		samples := make([]decimal.Decimal, 0)
		for _, r := range idx.History(o.ID) {
			if r.ActualAmount == nil {
				continue
			}
			amount := *r.ActualAmount
			if monthly, ok := cadence.MonthlyEquivalent(o.Recurrence, amount); ok {
				amount = monthly
			}
			samples = append(samples, amount)
		}
		if len(samples) == 0 {
			continue
		}
		out = append(out, BillVariance{
			ObligationID: o.ID,
			Name:         o.Name,
			Samples:      samples,
			Stats:        budget.Variance(samples),
		})
	}
	return out, nil
}

// BillStatusView is the schedule position of one obligation
type BillStatusView struct {
	ObligationID uuid.UUID
	Name         string
	Amount       decimal.Decimal
	Autopay      bool
	health.BillStatus
}

// BillStatuses places every obligation on its schedule, soonest due first
func (s *PlannerService) BillStatuses(ctx context.Context) ([]BillStatusView, error) {
	obligations, err := s.loadObligations(ctx)
	if err != nil {
		return nil, err
	}
	idx, err := s.loadReconciliations(ctx)
	if err != nil {
		return nil, err
	}

	today := s.Today()
	out := make([]BillStatusView, 0, len(obligations))
	for _, o := range obligations {
		out = append(out, BillStatusView{
			ObligationID: o.ID,
			Name:         o.Name,
			Amount:       domain.RoundMoney(domain.NonNegative(o.Amount)),
			Autopay:      o.Autopay,
			BillStatus:   health.BillDueStatus(o.Recurrence, today, idx.ForCycle(o.ID, today.CycleKey())),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.NextDue.IsZero() != b.NextDue.IsZero() {
			return !a.NextDue.IsZero()
		}
		if c := a.NextDue.Compare(b.NextDue); c != 0 {
			return c < 0
		}
		return a.Name < b.Name
	})
	return out, nil
}

// NetLiquidityResult represents the calculated net position
type NetLiquidityResult struct {
	Liquidity   decimal.Decimal // available balances of liquid accounts
	Investments decimal.Decimal // available balances of non-liquid, non-debt accounts
	Debt        decimal.Decimal // amounts owed on debt accounts, positive
	Net         decimal.Decimal
}

// NetLiquidity calculates the net position
// Logic:
//   - Liquidity: Sum of available balances of liquid accounts (the liquidity pool)
//   - Investments: Sum of available balances of other non-debt accounts
//   - Debt: Sum of the owed ledger balances of debt accounts
//   - Net: Liquidity + Investments - Debt
func (s *PlannerService) NetLiquidity(ctx context.Context) (*NetLiquidityResult, error) {
	snap, err := s.loadAccounts(ctx)
	if err != nil {
		return nil, err
	}

	investments := decimal.Zero
	debt := decimal.Zero
	for _, acc := range snap.accounts {
		b := snap.balances[acc.ID]
		switch {
		case acc.Type.IsDebt():
			debt = debt.Add(b.Ledger.Abs())
		case !acc.IsLiquid:
			investments = investments.Add(b.Available)
		}
	}
	pool := liquidity.StartingPool(snap.liquid())

	return &NetLiquidityResult{
		Liquidity:   pool,
		Investments: investments,
		Debt:        debt,
		Net:         pool.Add(investments).Sub(debt),
	}, nil
}
