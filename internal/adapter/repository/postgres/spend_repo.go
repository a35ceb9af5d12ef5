package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/simaogato/wealthflow-planner/internal/date"
	"github.com/simaogato/wealthflow-planner/internal/domain"
)

// spendRepository implements domain.SpendRepository
type spendRepository struct {
	db *DB
}

// NewSpendRepository creates a new spend entry repository
func NewSpendRepository(db *DB) domain.SpendRepository {
	return &spendRepository{db: db}
}

// ListBetween retrieves spend entries dated within [from, to], both inclusive
func (r *spendRepository) ListBetween(ctx context.Context, from, to date.Date) ([]*domain.SpendEntry, error) {
	query := `
		SELECT id, category, amount, spent_on
		FROM spend_entries
		WHERE spent_on BETWEEN $1 AND $2
		ORDER BY spent_on, category
	`

	rows, err := r.db.QueryContext(ctx, query, from.Time(), to.Time())
	if err != nil {
		return nil, fmt.Errorf("failed to list spend entries: %w", err)
	}
	defer rows.Close()

	entries := make([]*domain.SpendEntry, 0)
	for rows.Next() {
		var entry domain.SpendEntry
		var amountStr string
		var spentOn time.Time

		if err := rows.Scan(&entry.ID, &entry.Category, &amountStr, &spentOn); err != nil {
			return nil, fmt.Errorf("failed to scan spend entry: %w", err)
		}

		if entry.Amount, err = parseDecimal(amountStr, "amount"); err != nil {
			return nil, err
		}
		entry.Date = date.FromTime(spentOn)
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate spend entries: %w", err)
	}

	return entries, nil
}
