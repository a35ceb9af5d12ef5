package seeder

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/wealthflow-planner/internal/domain"
)

// Fixed UUIDs for the default envelopes, so reseeding never duplicates them
var (
	ENVELOPE_GROCERIES     = uuid.MustParse("00000000-0000-0000-0000-000000000101")
	ENVELOPE_DINING        = uuid.MustParse("00000000-0000-0000-0000-000000000102")
	ENVELOPE_TRANSPORT     = uuid.MustParse("00000000-0000-0000-0000-000000000103")
	ENVELOPE_ENTERTAINMENT = uuid.MustParse("00000000-0000-0000-0000-000000000104")
	ENVELOPE_HEALTH        = uuid.MustParse("00000000-0000-0000-0000-000000000105")
	ENVELOPE_MISC          = uuid.MustParse("00000000-0000-0000-0000-000000000106")
)

// DefaultEnvelope defines an envelope to be seeded
type DefaultEnvelope struct {
	ID       uuid.UUID
	Category string
}

// DefaultEnvelopes are the categories every household starts with, all with a zero target
var DefaultEnvelopes = []DefaultEnvelope{
	{ID: ENVELOPE_GROCERIES, Category: "groceries"},
	{ID: ENVELOPE_DINING, Category: "dining"},
	{ID: ENVELOPE_TRANSPORT, Category: "transport"},
	{ID: ENVELOPE_ENTERTAINMENT, Category: "entertainment"},
	{ID: ENVELOPE_HEALTH, Category: "health"},
	{ID: ENVELOPE_MISC, Category: "miscellaneous"},
}

// EnvelopeSeeder handles seeding of the default budget envelopes
type EnvelopeSeeder struct {
	repo domain.BudgetRepository
}

// NewEnvelopeSeeder creates a new EnvelopeSeeder instance
func NewEnvelopeSeeder(repo domain.BudgetRepository) *EnvelopeSeeder {
	return &EnvelopeSeeder{
		repo: repo,
	}
}

// Seed ensures all default envelopes exist.
// Existing envelopes are left untouched, whatever their target.
func (s *EnvelopeSeeder) Seed(ctx context.Context) (int, error) {
	created := 0
	for _, def := range DefaultEnvelopes {
		_, err := s.repo.GetByCategory(ctx, def.Category)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return created, fmt.Errorf("failed to look up envelope %s: %w", def.Category, err)
		}

		envelope := &domain.BudgetEnvelope{
			ID:              def.ID,
			Category:        def.Category,
			TargetAmount:    decimal.Zero,
			CarryoverAmount: decimal.Zero,
		}

		// Validate before creating
		if err := envelope.Validate(); err != nil {
			return created, err
		}

		if err := s.repo.Create(ctx, envelope); err != nil {
			return created, fmt.Errorf("failed to create envelope %s: %w", def.Category, err)
		}
		created++
	}

	return created, nil
}
