package seeder

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/simaogato/wealthflow-planner/internal/domain"
)

// MockBudgetRepository is a mock implementation of BudgetRepository
type MockBudgetRepository struct {
	mock.Mock
}

func (m *MockBudgetRepository) List(ctx context.Context) ([]*domain.BudgetEnvelope, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.BudgetEnvelope), args.Error(1)
}

func (m *MockBudgetRepository) GetByCategory(ctx context.Context, category string) (*domain.BudgetEnvelope, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BudgetEnvelope), args.Error(1)
}

func (m *MockBudgetRepository) Create(ctx context.Context, envelope *domain.BudgetEnvelope) error {
	args := m.Called(ctx, envelope)
	return args.Error(0)
}

func notFound(category string) error {
	return fmt.Errorf("budget envelope %s: %w", category, domain.ErrNotFound)
}

func TestEnvelopeSeeder_Seed_AllMissing(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockBudgetRepository)
	seeder := NewEnvelopeSeeder(mockRepo)

	for _, def := range DefaultEnvelopes {
		mockRepo.On("GetByCategory", ctx, def.Category).Return(nil, notFound(def.Category))
	}
	mockRepo.On("Create", ctx, mock.MatchedBy(func(e *domain.BudgetEnvelope) bool {
		return e.TargetAmount.IsZero() && e.CarryoverAmount.IsZero() && !e.RolloverEnabled
	})).Return(nil)

	created, err := seeder.Seed(ctx)

	assert.NoError(t, err)
	assert.Equal(t, len(DefaultEnvelopes), created)
	mockRepo.AssertExpectations(t)
	mockRepo.AssertNumberOfCalls(t, "Create", len(DefaultEnvelopes))
}

func TestEnvelopeSeeder_Seed_AllExist(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockBudgetRepository)
	seeder := NewEnvelopeSeeder(mockRepo)

	for _, def := range DefaultEnvelopes {
		mockRepo.On("GetByCategory", ctx, def.Category).Return(&domain.BudgetEnvelope{ID: def.ID, Category: def.Category}, nil)
	}

	created, err := seeder.Seed(ctx)

	assert.NoError(t, err)
	assert.Equal(t, 0, created)
	mockRepo.AssertNotCalled(t, "Create")
}

func TestEnvelopeSeeder_Seed_PartiallyExisting(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockBudgetRepository)
	seeder := NewEnvelopeSeeder(mockRepo)

	for i, def := range DefaultEnvelopes {
		if i%2 == 0 {
			mockRepo.On("GetByCategory", ctx, def.Category).Return(&domain.BudgetEnvelope{ID: def.ID, Category: def.Category}, nil)
		} else {
			mockRepo.On("GetByCategory", ctx, def.Category).Return(nil, notFound(def.Category))
		}
	}
	mockRepo.On("Create", ctx, mock.MatchedBy(func(e *domain.BudgetEnvelope) bool {
		return e.ID == ENVELOPE_DINING || e.ID == ENVELOPE_ENTERTAINMENT || e.ID == ENVELOPE_MISC
	})).Return(nil)

	created, err := seeder.Seed(ctx)

	assert.NoError(t, err)
	assert.Equal(t, 3, created)
	mockRepo.AssertNumberOfCalls(t, "Create", 3)
}

func TestEnvelopeSeeder_Seed_LookupFailure(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockBudgetRepository)
	seeder := NewEnvelopeSeeder(mockRepo)

	mockRepo.On("GetByCategory", ctx, "groceries").Return(nil, errors.New("connection refused"))

	created, err := seeder.Seed(ctx)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, 0, created)
	mockRepo.AssertNotCalled(t, "Create")
}

func TestEnvelopeSeeder_Seed_CreateFailure(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockBudgetRepository)
	seeder := NewEnvelopeSeeder(mockRepo)

	mockRepo.On("GetByCategory", ctx, "groceries").Return(nil, notFound("groceries"))
	mockRepo.On("Create", ctx, mock.Anything).Return(errors.New("database error"))

	created, err := seeder.Seed(ctx)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "groceries")
	assert.Equal(t, 0, created)
}
