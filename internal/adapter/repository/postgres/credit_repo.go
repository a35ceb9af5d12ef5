package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/simaogato/wealthflow-planner/internal/domain"
)

// creditAccountRepository implements domain.CreditAccountRepository
type creditAccountRepository struct {
	db *DB
}

// NewCreditAccountRepository creates a new credit account state repository
func NewCreditAccountRepository(db *DB) domain.CreditAccountRepository {
	return &creditAccountRepository{db: db}
}

// List retrieves the billing state of every credit account
func (r *creditAccountRepository) List(ctx context.Context) ([]*domain.CreditAccountState, error) {
	query := `
		SELECT account_id, credit_limit, current_balance, statement_balance, pending_charges,
		       minimum_payment, apr_percent, statement_day, due_day, planned_monthly_spend
		FROM credit_accounts
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list credit accounts: %w", err)
	}
	defer rows.Close()

	states := make([]*domain.CreditAccountState, 0)
	for rows.Next() {
		var s domain.CreditAccountState
		var limitStr, currentStr, statementStr, minimumStr, aprStr, plannedStr string
		var pending sql.NullString

		err := rows.Scan(
			&s.AccountID,
			&limitStr,
			&currentStr,
			&statementStr,
			&pending,
			&minimumStr,
			&aprStr,
			&s.StatementDay,
			&s.DueDay,
			&plannedStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan credit account: %w", err)
		}

		if s.CreditLimit, err = parseDecimal(limitStr, "credit_limit"); err != nil {
			return nil, err
		}
		if s.CurrentBalance, err = parseDecimal(currentStr, "current_balance"); err != nil {
			return nil, err
		}
		if s.StatementBalance, err = parseDecimal(statementStr, "statement_balance"); err != nil {
			return nil, err
		}
		if s.PendingCharges, err = parseNullDecimal(pending, "pending_charges"); err != nil {
			return nil, err
		}
		if s.MinimumPayment, err = parseDecimal(minimumStr, "minimum_payment"); err != nil {
			return nil, err
		}
		if s.APRPercent, err = parseDecimal(aprStr, "apr_percent"); err != nil {
			return nil, err
		}
		if s.PlannedMonthlySpend, err = parseDecimal(plannedStr, "planned_monthly_spend"); err != nil {
			return nil, err
		}

		states = append(states, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate credit accounts: %w", err)
	}

	return states, nil
}
