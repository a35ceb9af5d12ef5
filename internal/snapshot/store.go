package snapshot

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/simaogato/wealthflow-planner/internal/date"
	"github.com/simaogato/wealthflow-planner/internal/domain"
)

// Repositories serves s through the domain repository interfaces, so the
// planner service runs unchanged over a file instead of Postgres. Budget
// envelopes created through them are kept in s.
func (s *Snapshot) Repositories() domain.Repositories {
	return domain.Repositories{
		Accounts:        accountRepo{s},
		Obligations:     obligationRepo{s},
		Credit:          creditRepo{s},
		Reconciliations: reconciliationRepo{s},
		Budgets:         &budgetRepo{s: s},
		Spend:           spendRepo{s},
		Incomes:         incomeRepo{s},
	}
}

func pointers[T any](items []T) []*T {
	out := make([]*T, 0, len(items))
	for i := range items {
		item := items[i]
		out = append(out, &item)
	}
	return out
}

type accountRepo struct{ s *Snapshot }

func (r accountRepo) List(ctx context.Context) ([]*domain.Account, error) {
	return pointers(r.s.Accounts), nil
}

func (r accountRepo) Balances(ctx context.Context) (map[uuid.UUID]domain.AccountBalances, error) {
	out := make(map[uuid.UUID]domain.AccountBalances, len(r.s.Balances))
	for id, b := range r.s.Balances {
		out[id] = b
	}
	return out, nil
}

type obligationRepo struct{ s *Snapshot }

func (r obligationRepo) List(ctx context.Context) ([]*domain.Obligation, error) {
	return pointers(r.s.Obligations), nil
}

type creditRepo struct{ s *Snapshot }

func (r creditRepo) List(ctx context.Context) ([]*domain.CreditAccountState, error) {
	return pointers(r.s.Credit), nil
}

type reconciliationRepo struct{ s *Snapshot }

func (r reconciliationRepo) List(ctx context.Context) ([]*domain.ReconciliationRecord, error) {
	return pointers(r.s.Reconciliations), nil
}

type incomeRepo struct{ s *Snapshot }

func (r incomeRepo) List(ctx context.Context) ([]*domain.IncomeStream, error) {
	return pointers(r.s.Incomes), nil
}

type spendRepo struct{ s *Snapshot }

func (r spendRepo) ListBetween(ctx context.Context, from, to date.Date) ([]*domain.SpendEntry, error) {
	out := make([]*domain.SpendEntry, 0)
	for i := range r.s.Spend {
		e := r.s.Spend[i]
		if e.Date.Before(from) || e.Date.After(to) {
			continue
		}
		out = append(out, &e)
	}
	return out, nil
}

type budgetRepo struct {
	mu sync.Mutex
	s  *Snapshot
}

func (r *budgetRepo) List(ctx context.Context) ([]*domain.BudgetEnvelope, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return pointers(r.s.Budgets), nil
}

func (r *budgetRepo) GetByCategory(ctx context.Context, category string) (*domain.BudgetEnvelope, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.s.Budgets {
		if strings.EqualFold(r.s.Budgets[i].Category, category) {
			env := r.s.Budgets[i]
			return &env, nil
		}
	}
	return nil, fmt.Errorf("budget envelope %q: %w", category, domain.ErrNotFound)
}

func (r *budgetRepo) Create(ctx context.Context, envelope *domain.BudgetEnvelope) error {
	if envelope.ID == uuid.Nil {
		envelope.ID = uuid.New()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.s.Budgets = append(r.s.Budgets, *envelope)
	return nil
}
