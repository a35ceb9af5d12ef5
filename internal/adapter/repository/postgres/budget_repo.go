package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/simaogato/wealthflow-planner/internal/domain"
)

// budgetRepository implements domain.BudgetRepository
type budgetRepository struct {
	db *DB
}

// NewBudgetRepository creates a new budget envelope repository
func NewBudgetRepository(db *DB) domain.BudgetRepository {
	return &budgetRepository{db: db}
}

// envelopeScanner is satisfied by *sql.Row and *sql.Rows
type envelopeScanner interface {
	Scan(dest ...interface{}) error
}

func scanEnvelope(row envelopeScanner) (*domain.BudgetEnvelope, error) {
	var envelope domain.BudgetEnvelope
	var targetStr, carryoverStr string

	err := row.Scan(
		&envelope.ID,
		&envelope.Category,
		&targetStr,
		&carryoverStr,
		&envelope.RolloverEnabled,
	)
	if err != nil {
		return nil, err
	}

	if envelope.TargetAmount, err = parseDecimal(targetStr, "target_amount"); err != nil {
		return nil, err
	}
	if envelope.CarryoverAmount, err = parseDecimal(carryoverStr, "carryover_amount"); err != nil {
		return nil, err
	}

	return &envelope, nil
}

// List retrieves all envelopes
func (r *budgetRepository) List(ctx context.Context) ([]*domain.BudgetEnvelope, error) {
	query := `
		SELECT id, category, target_amount, carryover_amount, rollover_enabled
		FROM budget_envelopes
		ORDER BY category
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list budget envelopes: %w", err)
	}
	defer rows.Close()

	envelopes := make([]*domain.BudgetEnvelope, 0)
	for rows.Next() {
		envelope, err := scanEnvelope(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan budget envelope: %w", err)
		}
		envelopes = append(envelopes, envelope)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate budget envelopes: %w", err)
	}

	return envelopes, nil
}

// GetByCategory retrieves the envelope of a category, ignoring case
func (r *budgetRepository) GetByCategory(ctx context.Context, category string) (*domain.BudgetEnvelope, error) {
	query := `
		SELECT id, category, target_amount, carryover_amount, rollover_enabled
		FROM budget_envelopes
		WHERE lower(category) = lower($1)
	`

	envelope, err := scanEnvelope(r.db.QueryRowContext(ctx, query, category))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("budget envelope not found for category %s: %w", category, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get budget envelope: %w", err)
	}

	return envelope, nil
}

// Create creates a new envelope
func (r *budgetRepository) Create(ctx context.Context, envelope *domain.BudgetEnvelope) error {
	query := `
		INSERT INTO budget_envelopes (id, category, target_amount, carryover_amount, rollover_enabled)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query,
		envelope.ID,
		envelope.Category,
		envelope.TargetAmount.String(),
		envelope.CarryoverAmount.String(),
		envelope.RolloverEnabled,
	)
	if err != nil {
		return fmt.Errorf("failed to create budget envelope: %w", err)
	}

	return nil
}
