package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/simaogato/wealthflow-planner/internal/date"
	"github.com/simaogato/wealthflow-planner/internal/domain"
)

// ruleColumns are scanned into a recurrence rule
type ruleColumns struct {
	cadence        string
	anchor         sql.NullTime
	dayOfMonth     int
	customInterval int
	customUnit     string
}

func (c ruleColumns) rule() domain.RecurrenceRule {
	rule := domain.RecurrenceRule{
		Cadence:        domain.Cadence(c.cadence),
		DayOfMonth:     c.dayOfMonth,
		CustomInterval: c.customInterval,
		CustomUnit:     domain.CustomUnit(c.customUnit),
	}
	// a NULL anchor leaves the rule unschedulable
	if c.anchor.Valid {
		rule.AnchorDate = date.FromTime(c.anchor.Time)
	}
	return rule
}

// obligationRepository implements domain.ObligationRepository
type obligationRepository struct {
	db *DB
}

// NewObligationRepository creates a new obligation repository
func NewObligationRepository(db *DB) domain.ObligationRepository {
	return &obligationRepository{db: db}
}

// List retrieves all obligations
func (r *obligationRepository) List(ctx context.Context) ([]*domain.Obligation, error) {
	query := `
		SELECT id, name, kind, amount, cadence, anchor_date, day_of_month,
		       custom_interval, custom_unit, autopay, linked_account_id, notes
		FROM obligations
		ORDER BY name
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list obligations: %w", err)
	}
	defer rows.Close()

	obligations := make([]*domain.Obligation, 0)
	for rows.Next() {
		var o domain.Obligation
		var rc ruleColumns
		var amountStr string
		var linkedID sql.NullString

		err := rows.Scan(
			&o.ID,
			&o.Name,
			&o.Kind,
			&amountStr,
			&rc.cadence,
			&rc.anchor,
			&rc.dayOfMonth,
			&rc.customInterval,
			&rc.customUnit,
			&o.Autopay,
			&linkedID,
			&o.Notes,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan obligation: %w", err)
		}

		if o.Amount, err = parseDecimal(amountStr, "amount"); err != nil {
			return nil, err
		}
		o.Recurrence = rc.rule()

		// Parse linked_account_id (nullable)
		if linkedID.Valid {
			accountID, err := uuid.Parse(linkedID.String)
			if err != nil {
				return nil, fmt.Errorf("failed to parse linked_account_id: %w", err)
			}
			o.LinkedAccountID = &accountID
		}

		obligations = append(obligations, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate obligations: %w", err)
	}

	return obligations, nil
}

// incomeRepository implements domain.IncomeRepository
type incomeRepository struct {
	db *DB
}

// NewIncomeRepository creates a new income stream repository
func NewIncomeRepository(db *DB) domain.IncomeRepository {
	return &incomeRepository{db: db}
}

// List retrieves all income streams
func (r *incomeRepository) List(ctx context.Context) ([]*domain.IncomeStream, error) {
	query := `
		SELECT id, name, amount, cadence, anchor_date, day_of_month, custom_interval, custom_unit
		FROM income_streams
		ORDER BY name
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list income streams: %w", err)
	}
	defer rows.Close()

	streams := make([]*domain.IncomeStream, 0)
	for rows.Next() {
		var s domain.IncomeStream
		var rc ruleColumns
		var amountStr string

		err := rows.Scan(&s.ID, &s.Name, &amountStr, &rc.cadence, &rc.anchor, &rc.dayOfMonth, &rc.customInterval, &rc.customUnit)
		if err != nil {
			return nil, fmt.Errorf("failed to scan income stream: %w", err)
		}

		if s.Amount, err = parseDecimal(amountStr, "amount"); err != nil {
			return nil, err
		}
		s.Recurrence = rc.rule()
		streams = append(streams, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate income streams: %w", err)
	}

	return streams, nil
}
