package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/simaogato/wealthflow-planner/internal/date"
)

// ErrNotFound is returned by repositories when a lookup matches no record
var ErrNotFound = errors.New("not found")

// AccountRepository defines the interface for account persistence operations
type AccountRepository interface {
	// List retrieves all accounts
	List(ctx context.Context) ([]*Account, error)

	// Balances retrieves the latest balance snapshot of every account, keyed by account ID
	Balances(ctx context.Context) (map[uuid.UUID]AccountBalances, error)
}

// ObligationRepository defines the interface for obligation persistence operations
type ObligationRepository interface {
	// List retrieves all obligations
	List(ctx context.Context) ([]*Obligation, error)
}

// CreditAccountRepository defines the interface for credit account state persistence operations
type CreditAccountRepository interface {
	// List retrieves the billing state of every credit account
	List(ctx context.Context) ([]*CreditAccountState, error)
}

// ReconciliationRepository defines the interface for reconciliation persistence operations
type ReconciliationRepository interface {
	// List retrieves every reconciliation record, including superseded ones.
	// Selecting the latest record per entity and cycle is the caller's job.
	List(ctx context.Context) ([]*ReconciliationRecord, error)
}

// BudgetRepository defines the interface for budget envelope persistence operations
type BudgetRepository interface {
	// List retrieves all envelopes
	List(ctx context.Context) ([]*BudgetEnvelope, error)

	// GetByCategory retrieves the envelope of a category
	GetByCategory(ctx context.Context, category string) (*BudgetEnvelope, error)

	// Create creates a new envelope
	Create(ctx context.Context, envelope *BudgetEnvelope) error
}

// SpendRepository defines the interface for category spend persistence operations
type SpendRepository interface {
	// ListBetween retrieves spend entries dated within [from, to], both inclusive
	ListBetween(ctx context.Context, from, to date.Date) ([]*SpendEntry, error)
}

// IncomeRepository defines the interface for income stream persistence operations
type IncomeRepository interface {
	// List retrieves all income streams
	List(ctx context.Context) ([]*IncomeStream, error)
}

// Repositories bundles every repository a projection run reads from
type Repositories struct {
	Accounts        AccountRepository
	Obligations     ObligationRepository
	Credit          CreditAccountRepository
	Reconciliations ReconciliationRepository
	Budgets         BudgetRepository
	Spend           SpendRepository
	Incomes         IncomeRepository
}
