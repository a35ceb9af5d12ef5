package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/simaogato/wealthflow-planner/internal/domain"
)

// accountRepository implements domain.AccountRepository
type accountRepository struct {
	db *DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *DB) domain.AccountRepository {
	return &accountRepository{db: db}
}

// List retrieves all accounts
func (r *accountRepository) List(ctx context.Context) ([]*domain.Account, error) {
	query := `
		SELECT id, name, account_type, is_liquid
		FROM accounts
		ORDER BY name
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	accounts := make([]*domain.Account, 0)
	for rows.Next() {
		var account domain.Account
		if err := rows.Scan(&account.ID, &account.Name, &account.Type, &account.IsLiquid); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, &account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}

	return accounts, nil
}

// Balances retrieves the balance snapshot of every account
func (r *accountRepository) Balances(ctx context.Context) (map[uuid.UUID]domain.AccountBalances, error) {
	query := `
		SELECT account_id, ledger, available, pending
		FROM account_balances
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list account balances: %w", err)
	}
	defer rows.Close()

	balances := make(map[uuid.UUID]domain.AccountBalances)
	for rows.Next() {
		var b domain.AccountBalances
		var ledgerStr, availableStr, pendingStr string
		if err := rows.Scan(&b.AccountID, &ledgerStr, &availableStr, &pendingStr); err != nil {
			return nil, fmt.Errorf("failed to scan account balances: %w", err)
		}

		if b.Ledger, err = parseDecimal(ledgerStr, "ledger"); err != nil {
			return nil, err
		}
		if b.Available, err = parseDecimal(availableStr, "available"); err != nil {
			return nil, err
		}
		if b.Pending, err = parseDecimal(pendingStr, "pending"); err != nil {
			return nil, err
		}
		balances[b.AccountID] = b
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate account balances: %w", err)
	}

	return balances, nil
}
