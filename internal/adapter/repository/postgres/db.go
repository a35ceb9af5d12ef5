package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/shopspring/decimal"

	"github.com/simaogato/wealthflow-planner/internal/domain"
)

//go:embed schema.sql
var schema string

// DB wraps the database connection
type DB struct {
	*sql.DB
}

// NewDB creates a new database connection
// connectionString should be in the format: "host=localhost port=5432 user=postgres password=postgres dbname=wealthflow sslmode=disable"
func NewDB(connectionString string) (*DB, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}

// Bootstrap creates the tables that do not exist yet
func (db *DB) Bootstrap(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to bootstrap schema: %w", err)
	}
	return nil
}

// NewRepositories wires every repository over one connection
func NewRepositories(db *DB) domain.Repositories {
	return domain.Repositories{
		Accounts:        NewAccountRepository(db),
		Obligations:     NewObligationRepository(db),
		Credit:          NewCreditAccountRepository(db),
		Reconciliations: NewReconciliationRepository(db),
		Budgets:         NewBudgetRepository(db),
		Spend:           NewSpendRepository(db),
		Incomes:         NewIncomeRepository(db),
	}
}

// parseDecimal parses a NUMERIC column scanned as text
func parseDecimal(value, column string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse %s: %w", column, err)
	}
	return d, nil
}

// parseNullDecimal parses a nullable NUMERIC column; NULL yields nil
func parseNullDecimal(value sql.NullString, column string) (*decimal.Decimal, error) {
	if !value.Valid {
		return nil, nil
	}
	d, err := parseDecimal(value.String, column)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
