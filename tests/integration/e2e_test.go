//go:build integration

package integration

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	grpcadapter "github.com/simaogato/wealthflow-planner/internal/adapter/grpc"
	"github.com/simaogato/wealthflow-planner/internal/adapter/repository/postgres"
	"github.com/simaogato/wealthflow-planner/internal/config"
	"github.com/simaogato/wealthflow-planner/internal/date"
	"github.com/simaogato/wealthflow-planner/internal/domain"
	"github.com/simaogato/wealthflow-planner/internal/usecase/seeder"
)

// Fixture rows use fixed IDs so reruns overwrite instead of piling up
var (
	checkingID   = uuid.MustParse("7e1a0000-0000-4000-8000-000000000001")
	cardID       = uuid.MustParse("7e1a0000-0000-4000-8000-000000000002")
	rentID       = uuid.MustParse("7e1a0000-0000-4000-8000-000000000003")
	reconcileID  = uuid.MustParse("7e1a0000-0000-4000-8000-000000000004")
	envelopeID   = uuid.MustParse("7e1a0000-0000-4000-8000-000000000005")
	spendEntryID = uuid.MustParse("7e1a0000-0000-4000-8000-000000000006")
	salaryID     = uuid.MustParse("7e1a0000-0000-4000-8000-000000000007")
)

var (
	cfg        config.Application
	db         *postgres.DB
	grpcClient *grpcadapter.ProjectionClient
	grpcConn   *grpc.ClientConn
	today      date.Date
)

// TestMain sets up the test environment
func TestMain(m *testing.M) {
	ctx := context.Background()

	// 1. Load configuration from defaults and WEALTHFLOW_* variables
	var err error
	cfg, err = config.Load("")
	if err != nil {
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}

	// 2. Connect to Database
	db, err = postgres.NewDB(cfg.Database.ConnString())
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to database: %v", err))
	}
	if err := db.Bootstrap(ctx); err != nil {
		panic(fmt.Sprintf("Failed to bootstrap schema: %v", err))
	}

	// 3. Self-Healing Setup: upsert the fixture household
	today = date.FromTime(time.Now())
	if err := setupFixture(ctx); err != nil {
		panic(fmt.Sprintf("Failed to setup fixture: %v", err))
	}

	// 4. Connect to gRPC Server
	grpcConn, err = grpc.NewClient(getGRPCAddress(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to gRPC server: %v", err))
	}
	grpcClient = grpcadapter.NewProjectionClient(grpcConn)

	// Run tests
	code := m.Run()

	grpcConn.Close()
	db.Close()
	os.Exit(code)
}

// setupFixture writes one checking account, a card, rent and a month of spend
func setupFixture(ctx context.Context) error {
	statements := []struct {
		query string
		args  []interface{}
	}{
		{`INSERT INTO accounts (id, name, account_type, is_liquid) VALUES ($1, 'Integration Checking', 'checking', TRUE)
		  ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, is_liquid = EXCLUDED.is_liquid`, []interface{}{checkingID}},
		{`INSERT INTO account_balances (account_id, ledger, available, pending) VALUES ($1, 1000, 1000, 0)
		  ON CONFLICT (account_id) DO UPDATE SET ledger = 1000, available = 1000, pending = 0`, []interface{}{checkingID}},
		{`INSERT INTO accounts (id, name, account_type, is_liquid) VALUES ($1, 'Integration Card', 'credit_card', FALSE)
		  ON CONFLICT (id) DO NOTHING`, []interface{}{cardID}},
		{`INSERT INTO account_balances (account_id, ledger, available, pending) VALUES ($1, -300, -300, 0)
		  ON CONFLICT (account_id) DO UPDATE SET ledger = -300, available = -300`, []interface{}{cardID}},
		{`INSERT INTO credit_accounts (account_id, credit_limit, current_balance, statement_balance, minimum_payment, apr_percent, statement_day, due_day)
		  VALUES ($1, 2000, 300, 250, 25, 24, 1, 21)
		  ON CONFLICT (account_id) DO UPDATE SET pending_charges = NULL`, []interface{}{cardID}},
		{`INSERT INTO obligations (id, name, kind, amount, cadence, anchor_date, day_of_month, autopay, linked_account_id)
		  VALUES ($1, 'Integration Rent', 'bill', 600, 'monthly', '2024-01-01', 1, TRUE, $2)
		  ON CONFLICT (id) DO NOTHING`, []interface{}{rentID, checkingID}},
		{`INSERT INTO income_streams (id, name, amount, cadence, anchor_date)
		  VALUES ($1, 'Integration Salary', 2000, 'monthly', '2024-01-15')
		  ON CONFLICT (id) DO NOTHING`, []interface{}{salaryID}},
		{`INSERT INTO reconciliations (id, entity_id, cycle_key, expected_amount, actual_amount, unmatched_delta, reconciled)
		  VALUES ($1, $2, '2024-05', 600, 612.50, 12.50, TRUE)
		  ON CONFLICT (id) DO NOTHING`, []interface{}{reconcileID, rentID}},
		{`INSERT INTO budget_envelopes (id, category, target_amount) VALUES ($1, 'integration', 100)
		  ON CONFLICT (id) DO NOTHING`, []interface{}{envelopeID}},
		{`INSERT INTO spend_entries (id, category, amount, spent_on) VALUES ($1, 'integration', 42.10, $2)
		  ON CONFLICT (id) DO UPDATE SET spent_on = EXCLUDED.spent_on`, []interface{}{spendEntryID, today.Time()}},
	}

	for _, st := range statements {
		if _, err := db.ExecContext(ctx, st.query, st.args...); err != nil {
			return fmt.Errorf("failed to write fixture: %w", err)
		}
	}
	return nil
}

func getAuthContext() context.Context {
	md := metadata.New(map[string]string{
		"authorization": "Bearer " + cfg.Server.Token,
	})
	return metadata.NewOutgoingContext(context.Background(), md)
}

func getGRPCAddress() string {
	addr := os.Getenv("GRPC_ADDRESS")
	if addr == "" {
		addr = fmt.Sprintf("localhost:%d", cfg.Server.Port)
	}
	return addr
}

func TestRepositories(t *testing.T) {
	ctx := context.Background()
	repos := postgres.NewRepositories(db)

	balances, err := repos.Accounts.Balances(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1000", balances[checkingID].Available.String())
	assert.Equal(t, "-300", balances[cardID].Ledger.String())

	obligations, err := repos.Obligations.List(ctx)
	require.NoError(t, err)
	var rent *domain.Obligation
	for _, o := range obligations {
		if o.ID == rentID {
			rent = o
		}
	}
	require.NotNil(t, rent, "fixture rent must be listed")
	assert.Equal(t, domain.CadenceMonthly, rent.Recurrence.Cadence)
	assert.Equal(t, date.MustParse("2024-01-01"), rent.Recurrence.AnchorDate)
	require.NotNil(t, rent.LinkedAccountID)
	assert.Equal(t, checkingID, *rent.LinkedAccountID)

	credit, err := repos.Credit.List(ctx)
	require.NoError(t, err)
	for _, c := range credit {
		if c.AccountID == cardID {
			assert.Nil(t, c.PendingCharges, "NULL pending stays unknown")
			assert.Equal(t, "250", c.StatementBalance.String())
		}
	}

	records, err := repos.Reconciliations.List(ctx)
	require.NoError(t, err)
	for _, rec := range records {
		if rec.ID == reconcileID {
			assert.Equal(t, "2024-05", rec.CycleKey)
			require.NotNil(t, rec.ActualAmount)
			assert.Equal(t, "612.5", rec.ActualAmount.String())
		}
	}

	envelope, err := repos.Budgets.GetByCategory(ctx, "INTEGRATION")
	require.NoError(t, err)
	assert.Equal(t, envelopeID, envelope.ID)

	_, err = repos.Budgets.GetByCategory(ctx, "no-such-category")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	spend, err := repos.Spend.ListBetween(ctx, today, today)
	require.NoError(t, err)
	found := false
	for _, entry := range spend {
		if entry.ID == spendEntryID {
			found = true
			assert.Equal(t, today, entry.Date)
		}
	}
	assert.True(t, found, "spend entry dated today must be listed")

	incomes, err := repos.Incomes.List(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, incomes)
}

func TestEnvelopeSeeder_Idempotent(t *testing.T) {
	ctx := context.Background()
	s := seeder.NewEnvelopeSeeder(postgres.NewBudgetRepository(db))

	_, err := s.Seed(ctx)
	require.NoError(t, err)

	created, err := s.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, created, "second run creates nothing")
}

func TestProjectionService(t *testing.T) {
	ctx := getAuthContext()

	timeline, err := grpcClient.Call(ctx, "GetTimeline", nil)
	require.NoError(t, err)
	names := make([]string, 0)
	for _, ev := range timeline.AsMap()["events"].([]interface{}) {
		names = append(names, ev.(map[string]interface{})["name"].(string))
	}
	assert.Contains(t, names, "Integration Rent", "monthly rent always falls within a 30 day window")

	for _, method := range []string{
		"GetAccountHealth", "GetAutopayRisks", "GetFundingPlan", "GetCardCycles", "GetBudgetPerformance",
		"GetForecast", "GetBillVariance", "GetBillStatuses", "GetNetLiquidity",
	} {
		_, err := grpcClient.Call(ctx, method, nil)
		assert.NoError(t, err, method)
	}
}

func TestNegativeScenarios(t *testing.T) {
	_, err := grpcClient.Call(context.Background(), "GetNetLiquidity", nil)
	require.Error(t, err)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	_, err = grpcClient.Call(getAuthContext(), "GetNoSuchReport", nil)
	require.Error(t, err)
	assert.Equal(t, codes.Unimplemented, status.Code(err))
}
