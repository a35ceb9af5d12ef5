package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/simaogato/wealthflow-planner/internal/domain"
)

// reconciliationRepository implements domain.ReconciliationRepository
type reconciliationRepository struct {
	db *DB
}

// NewReconciliationRepository creates a new reconciliation repository
func NewReconciliationRepository(db *DB) domain.ReconciliationRepository {
	return &reconciliationRepository{db: db}
}

// List retrieves every reconciliation record
func (r *reconciliationRepository) List(ctx context.Context) ([]*domain.ReconciliationRecord, error) {
	query := `
		SELECT id, entity_id, cycle_key, expected_amount, actual_amount, unmatched_delta, reconciled, updated_at
		FROM reconciliations
		ORDER BY entity_id, cycle_key, updated_at
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list reconciliations: %w", err)
	}
	defer rows.Close()

	records := make([]*domain.ReconciliationRecord, 0)
	for rows.Next() {
		var rec domain.ReconciliationRecord
		var expectedStr, deltaStr string
		var actual sql.NullString

		err := rows.Scan(
			&rec.ID,
			&rec.EntityID,
			&rec.CycleKey,
			&expectedStr,
			&actual,
			&deltaStr,
			&rec.Reconciled,
			&rec.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reconciliation: %w", err)
		}

		rec.CycleKey = strings.TrimSpace(rec.CycleKey)
		if rec.ExpectedAmount, err = parseDecimal(expectedStr, "expected_amount"); err != nil {
			return nil, err
		}
		if rec.ActualAmount, err = parseNullDecimal(actual, "actual_amount"); err != nil {
			return nil, err
		}
		if rec.UnmatchedDelta, err = parseDecimal(deltaStr, "unmatched_delta"); err != nil {
			return nil, err
		}

		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reconciliations: %w", err)
	}

	return records, nil
}
