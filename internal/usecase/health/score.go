package health

import (
	"github.com/shopspring/decimal"

	"github.com/simaogato/wealthflow-planner/internal/date"
	"github.com/simaogato/wealthflow-planner/internal/domain"
)

// Status is the health tier derived from a score
type Status string

const (
	StatusHealthy  Status = "healthy"
	StatusWatch    Status = "watch"
	StatusCritical Status = "critical"
)

// Notes surfaced with a score, highest priority first
const (
	NoteOverdrawn        = "Overdrawn position"
	NotePendingStress    = "Pending outflows stress the balance"
	NoteUnreconciled     = "Latest cycle is not reconciled"
	NoteLargeDelta       = "Large unmatched reconciliation delta"
	NoteNoReconciliation = "No reconciliation on file"
	NoteStable           = "Stable"
)

// Score is the health of one account
type Score struct {
	Score  int
	Status Status
	Note   string
}

var (
	lowAvailable      = decimal.NewFromInt(150)
	thinAvailable     = decimal.NewFromInt(600)
	illiquidAvailable = decimal.NewFromInt(250)
	highPendingStress = decimal.RequireFromString("0.4")
	pendingStress     = decimal.RequireFromString("0.2")
	largeDelta        = decimal.NewFromInt(100)
	notableDelta      = decimal.NewFromInt(25)
	matchedDelta      = decimal.RequireFromString("0.01")
)

// ScoreAccount rates an account from 0 to 100 by deducting points for risk factors.
//
// Logic (starting at 100):
//   - Debt account: -38
//   - Available < 0: -45, else < 150: -28, else < 600: -14
//   - Pending outflow / max(|ledger|, 1) >= 0.4: -24, >= 0.2: -12
//   - Non-liquid, non-debt account with available < 250: -8
//   - No reconciliation: -8. Otherwise stale cycle: -6, not reconciled: -14,
//     |delta| >= 100: -24, >= 25: -12, reconciled with |delta| <= 0.01: +4
//
// The score is clamped to [0, 100]. Only the highest priority note is reported.
func ScoreAccount(account domain.Account, balances domain.AccountBalances, latest *domain.ReconciliationRecord, today date.Date) Score {
	score := 100

	if account.Type.IsDebt() {
		score -= 38
	}

	available := balances.Available
	switch {
	case available.IsNegative():
		score -= 45
	case available.LessThan(lowAvailable):
		score -= 28
	case available.LessThan(thinAvailable):
		score -= 14
	}

	stress := pendingStressRatio(balances)
	switch {
	case stress.GreaterThanOrEqual(highPendingStress):
		score -= 24
	case stress.GreaterThanOrEqual(pendingStress):
		score -= 12
	}

	if !account.IsLiquid && !account.Type.IsDebt() && available.LessThan(illiquidAvailable) {
		score -= 8
	}

	if latest == nil {
		score -= 8
	} else {
		if latest.CycleKey != today.CycleKey() {
			score -= 6
		}
		if !latest.Reconciled {
			score -= 14
		}
		delta := latest.UnmatchedDelta.Abs()
		switch {
		case delta.GreaterThanOrEqual(largeDelta):
			score -= 24
		case delta.GreaterThanOrEqual(notableDelta):
			score -= 12
		case latest.Reconciled && delta.LessThanOrEqual(matchedDelta):
			score += 4
		}
	}

	score = clamp(score, 0, 100)

	return Score{
		Score:  score,
		Status: StatusFor(score),
		Note:   note(available, stress, latest),
	}
}

// StatusFor maps a score to its tier: healthy >= 75, watch >= 50, critical below
func StatusFor(score int) Status {
	switch {
	case score >= 75:
		return StatusHealthy
	case score >= 50:
		return StatusWatch
	default:
		return StatusCritical
	}
}

// pendingStressRatio is max(-pending, 0) / max(|ledger|, 1)
func pendingStressRatio(b domain.AccountBalances) decimal.Decimal {
	outflow := domain.NonNegative(b.Pending.Neg())
	base := decimal.Max(b.Ledger.Abs(), decimal.NewFromInt(1))
	return outflow.Div(base)
}

// note picks the first matching reason:
// overdrawn > pending stress > unreconciled > large delta > no reconciliation > stable
func note(available, stress decimal.Decimal, latest *domain.ReconciliationRecord) string {
	switch {
	case available.IsNegative():
		return NoteOverdrawn
	case stress.GreaterThanOrEqual(pendingStress):
		return NotePendingStress
	case latest != nil && !latest.Reconciled:
		return NoteUnreconciled
	case latest != nil && latest.UnmatchedDelta.Abs().GreaterThanOrEqual(notableDelta):
		return NoteLargeDelta
	case latest == nil:
		return NoteNoReconciliation
	default:
		return NoteStable
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
