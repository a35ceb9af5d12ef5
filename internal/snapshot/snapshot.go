// Package snapshot loads a complete planning snapshot from a YAML file and
// serves it through the domain repository interfaces.
package snapshot

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/simaogato/wealthflow-planner/internal/date"
	"github.com/simaogato/wealthflow-planner/internal/domain"
)

// namespace seeds the IDs derived from names when a record has no explicit id
var namespace = uuid.MustParse("5b0b7c1e-2f0a-4f53-9d55-7e8f4a1c6b21")

// Snapshot is every record a projection run reads
type Snapshot struct {
	AsOf            date.Date // zero when the file does not pin a date
	Currency        string
	Accounts        []domain.Account
	Balances        map[uuid.UUID]domain.AccountBalances
	Obligations     []domain.Obligation
	Incomes         []domain.IncomeStream
	Credit          []domain.CreditAccountState
	Reconciliations []domain.ReconciliationRecord
	Budgets         []domain.BudgetEnvelope
	Spend           []domain.SpendEntry
}

type fileRule struct {
	Cadence domain.Cadence    `yaml:"cadence"`
	Anchor  date.Date         `yaml:"anchor"`
	Day     int               `yaml:"day"`
	Every   int               `yaml:"every"`
	Unit    domain.CustomUnit `yaml:"unit"`
}

type fileAccount struct {
	ID        uuid.UUID          `yaml:"id"`
	Name      string             `yaml:"name"`
	Type      domain.AccountType `yaml:"type"`
	Liquid    bool               `yaml:"liquid"`
	Ledger    decimal.Decimal    `yaml:"ledger"`
	Available *decimal.Decimal   `yaml:"available"` // defaults to ledger
	Pending   decimal.Decimal    `yaml:"pending"`
}

type fileObligation struct {
	fileRule `yaml:",inline"`

	ID      uuid.UUID             `yaml:"id"`
	Name    string                `yaml:"name"`
	Kind    domain.ObligationKind `yaml:"kind"`
	Amount  decimal.Decimal       `yaml:"amount"`
	Autopay bool                  `yaml:"autopay"`
	Account string                `yaml:"account"`
	Notes   string                `yaml:"notes"`
}

type fileIncome struct {
	fileRule `yaml:",inline"`

	ID     uuid.UUID       `yaml:"id"`
	Name   string          `yaml:"name"`
	Amount decimal.Decimal `yaml:"amount"`
}

type fileCredit struct {
	Account      string           `yaml:"account"`
	Limit        decimal.Decimal  `yaml:"limit"`
	Balance      decimal.Decimal  `yaml:"balance"`
	Statement    decimal.Decimal  `yaml:"statement"`
	Pending      *decimal.Decimal `yaml:"pending"`
	Minimum      decimal.Decimal  `yaml:"minimum"`
	APR          decimal.Decimal  `yaml:"apr"`
	StatementDay int              `yaml:"statementday"`
	DueDay       int              `yaml:"dueday"`
	PlannedSpend decimal.Decimal  `yaml:"plannedspend"`
}

type fileReconciliation struct {
	Entity     string           `yaml:"entity"` // account or obligation name
	Cycle      string           `yaml:"cycle"`
	Expected   decimal.Decimal  `yaml:"expected"`
	Actual     *decimal.Decimal `yaml:"actual"`
	Delta      decimal.Decimal  `yaml:"delta"`
	Reconciled bool             `yaml:"reconciled"`
	Updated    time.Time        `yaml:"updated"`
}

type fileBudget struct {
	Category  string          `yaml:"category"`
	Target    decimal.Decimal `yaml:"target"`
	Carryover decimal.Decimal `yaml:"carryover"`
	Rollover  bool            `yaml:"rollover"`
}

type fileSpend struct {
	Category string          `yaml:"category"`
	Amount   decimal.Decimal `yaml:"amount"`
	Date     date.Date       `yaml:"date"`
}

type file struct {
	AsOf            date.Date            `yaml:"asof"`
	Currency        string               `yaml:"currency"`
	Accounts        []fileAccount        `yaml:"accounts"`
	Obligations     []fileObligation     `yaml:"obligations"`
	Incomes         []fileIncome         `yaml:"incomes"`
	Credit          []fileCredit         `yaml:"credit"`
	Reconciliations []fileReconciliation `yaml:"reconciliations"`
	Budgets         []fileBudget         `yaml:"budgets"`
	Spend           []fileSpend          `yaml:"spend"`
}

// Parse decodes a YAML snapshot. Records reference accounts and obligations
// by name; records without an id get one derived from their name.
func Parse(data []byte) (*Snapshot, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("snapshot: payload is empty")
	}
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("snapshot: decode: %w", err)
	}
	return f.build()
}

// Load reads and parses the snapshot file at path
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("snapshot: read %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func idFor(id uuid.UUID, kind, name string) uuid.UUID {
	if id != uuid.Nil {
		return id
	}
	return uuid.NewSHA1(namespace, []byte(kind+":"+strings.ToLower(name)))
}

func (r fileRule) rule() domain.RecurrenceRule {
	return domain.RecurrenceRule{
		Cadence:        r.Cadence,
		AnchorDate:     r.Anchor,
		DayOfMonth:     r.Day,
		CustomInterval: r.Every,
		CustomUnit:     r.Unit,
	}
}

func (f file) build() (*Snapshot, error) {
	s := &Snapshot{
		AsOf:            f.AsOf,
		Currency:        f.Currency,
		Accounts:        make([]domain.Account, 0, len(f.Accounts)),
		Balances:        make(map[uuid.UUID]domain.AccountBalances, len(f.Accounts)),
		Obligations:     make([]domain.Obligation, 0, len(f.Obligations)),
		Incomes:         make([]domain.IncomeStream, 0, len(f.Incomes)),
		Credit:          make([]domain.CreditAccountState, 0, len(f.Credit)),
		Reconciliations: make([]domain.ReconciliationRecord, 0, len(f.Reconciliations)),
		Budgets:         make([]domain.BudgetEnvelope, 0, len(f.Budgets)),
		Spend:           make([]domain.SpendEntry, 0, len(f.Spend)),
	}

	accounts := make(map[string]uuid.UUID, len(f.Accounts))
	for _, a := range f.Accounts {
		if a.Name == "" {
			return nil, errors.New("snapshot: account name cannot be empty")
		}
		key := strings.ToLower(a.Name)
		if _, dup := accounts[key]; dup {
			return nil, fmt.Errorf("snapshot: duplicate account %q", a.Name)
		}
		id := idFor(a.ID, "account", a.Name)
		accounts[key] = id

		available := a.Ledger
		if a.Available != nil {
			available = *a.Available
		}
		s.Accounts = append(s.Accounts, domain.Account{ID: id, Name: a.Name, Type: a.Type, IsLiquid: a.Liquid})
		s.Balances[id] = domain.AccountBalances{AccountID: id, Ledger: a.Ledger, Available: available, Pending: a.Pending}
	}

	entities := make(map[string]uuid.UUID, len(accounts)+len(f.Obligations))
	for name, id := range accounts {
		entities[name] = id
	}

	for _, o := range f.Obligations {
		if o.Name == "" {
			return nil, errors.New("snapshot: obligation name cannot be empty")
		}
		ob := domain.Obligation{
			ID:         idFor(o.ID, "obligation", o.Name),
			Name:       o.Name,
			Kind:       o.Kind,
			Amount:     o.Amount,
			Recurrence: o.rule(),
			Autopay:    o.Autopay,
			Notes:      o.Notes,
		}
		if ob.Kind == "" {
			ob.Kind = domain.ObligationKindBill
		}
		if o.Account != "" {
			id, ok := accounts[strings.ToLower(o.Account)]
			if !ok {
				return nil, fmt.Errorf("snapshot: obligation %q: unknown account %q", o.Name, o.Account)
			}
			ob.LinkedAccountID = &id
		}
		if _, taken := entities[strings.ToLower(o.Name)]; !taken {
			entities[strings.ToLower(o.Name)] = ob.ID
		}
		s.Obligations = append(s.Obligations, ob)
	}

	for _, in := range f.Incomes {
		s.Incomes = append(s.Incomes, domain.IncomeStream{
			ID:         idFor(in.ID, "income", in.Name),
			Name:       in.Name,
			Amount:     in.Amount,
			Recurrence: in.rule(),
		})
	}

	for _, c := range f.Credit {
		id, ok := accounts[strings.ToLower(c.Account)]
		if !ok {
			return nil, fmt.Errorf("snapshot: credit state: unknown account %q", c.Account)
		}
		s.Credit = append(s.Credit, domain.CreditAccountState{
			AccountID:           id,
			CreditLimit:         c.Limit,
			CurrentBalance:      c.Balance,
			StatementBalance:    c.Statement,
			PendingCharges:      c.Pending,
			MinimumPayment:      c.Minimum,
			APRPercent:          c.APR,
			StatementDay:        c.StatementDay,
			DueDay:              c.DueDay,
			PlannedMonthlySpend: c.PlannedSpend,
		})
	}

	for i, r := range f.Reconciliations {
		id, ok := entities[strings.ToLower(r.Entity)]
		if !ok {
			return nil, fmt.Errorf("snapshot: reconciliation %d: unknown account or obligation %q", i, r.Entity)
		}
		rec := domain.ReconciliationRecord{
			ID:             uuid.NewSHA1(namespace, []byte(fmt.Sprintf("reconciliation:%s:%s:%d", id, r.Cycle, i))),
			EntityID:       id,
			CycleKey:       r.Cycle,
			ExpectedAmount: r.Expected,
			ActualAmount:   r.Actual,
			UnmatchedDelta: r.Delta,
			Reconciled:     r.Reconciled,
			UpdatedAt:      r.Updated,
		}
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("snapshot: reconciliation %d: %w", i, err)
		}
		s.Reconciliations = append(s.Reconciliations, rec)
	}

	for _, b := range f.Budgets {
		env := domain.BudgetEnvelope{
			ID:              idFor(uuid.Nil, "budget", b.Category),
			Category:        b.Category,
			TargetAmount:    b.Target,
			CarryoverAmount: b.Carryover,
			RolloverEnabled: b.Rollover,
		}
		if err := env.Validate(); err != nil {
			return nil, fmt.Errorf("snapshot: budget %q: %w", b.Category, err)
		}
		s.Budgets = append(s.Budgets, env)
	}

	for i, sp := range f.Spend {
		s.Spend = append(s.Spend, domain.SpendEntry{
			ID:       uuid.NewSHA1(namespace, []byte(fmt.Sprintf("spend:%d", i))),
			Category: sp.Category,
			Amount:   sp.Amount,
			Date:     sp.Date,
		})
	}

	return s, nil
}

// LiquidAccounts is the projection view of every account
func (s *Snapshot) LiquidAccounts() []domain.LiquidAccount {
	out := make([]domain.LiquidAccount, 0, len(s.Accounts))
	for _, a := range s.Accounts {
		out = append(out, a.LiquidView(s.Balances[a.ID]))
	}
	return out
}
