// Package wire encodes planner results as google.protobuf.Struct messages.
// The gRPC service sends them as-is and the CLI prints them through protojson.
// Money travels as fixed two-decimal strings and dates as YYYY-MM-DD.
package wire

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/wealthflow-planner/internal/date"
	"github.com/simaogato/wealthflow-planner/internal/domain"
	"github.com/simaogato/wealthflow-planner/internal/usecase/budget"
	"github.com/simaogato/wealthflow-planner/internal/usecase/funding"
	"github.com/simaogato/wealthflow-planner/internal/usecase/health"
	"github.com/simaogato/wealthflow-planner/internal/usecase/liquidity"
	"github.com/simaogato/wealthflow-planner/internal/usecase/planner"
)

type fields = map[string]interface{}

func money(d decimal.Decimal) string { return d.StringFixed(2) }

func ratio(d decimal.Decimal) string { return d.StringFixed(4) }

// day returns nil for the zero date so absent dates encode as null
func day(d date.Date) interface{} {
	if d.IsZero() {
		return nil
	}
	return d.String()
}

func optionalID(id *uuid.UUID) interface{} {
	if id == nil {
		return nil
	}
	return id.String()
}

func optionalMoney(d *decimal.Decimal) interface{} {
	if d == nil {
		return nil
	}
	return money(*d)
}

func list[T any](items []T, encode func(T) fields) []interface{} {
	out := make([]interface{}, 0, len(items))
	for _, item := range items {
		out = append(out, encode(item))
	}
	return out
}

func event(ev domain.TimelineEvent) fields {
	return fields{
		"obligation_id":  ev.ObligationID.String(),
		"name":           ev.Name,
		"kind":           string(ev.Kind),
		"autopay":        ev.Autopay,
		"due_date":       day(ev.DueDate),
		"amount":         money(ev.Amount),
		"days_away":      ev.DaysAway,
		"before_balance": money(ev.BeforeBalance),
		"after_balance":  money(ev.AfterBalance),
		"severity":       string(ev.Severity),
	}
}

// Timeline encodes a liquidity projection
func Timeline(tl *liquidity.Timeline) (*structpb.Struct, error) {
	var shortfall interface{}
	if tl.FirstShortfall != nil {
		shortfall = event(*tl.FirstShortfall)
	}
	unscheduled := make([]interface{}, 0, len(tl.Unscheduled))
	for _, id := range tl.Unscheduled {
		unscheduled = append(unscheduled, id.String())
	}

	return structpb.NewStruct(fields{
		"starting_pool":    money(tl.StartingPool),
		"monthly_baseline": money(tl.MonthlyBaseline),
		"events":           list(tl.Events, event),
		"simulated":        tl.Simulated,
		"ending_balance":   money(tl.EndingBalance),
		"lowest_balance":   money(tl.LowestBalance),
		"first_shortfall":  shortfall,
		"unscheduled":      unscheduled,
	})
}

// AccountHealth encodes scored accounts, worst first
func AccountHealth(rows []planner.AccountHealth) (*structpb.Struct, error) {
	return structpb.NewStruct(fields{
		"accounts": list(rows, func(row planner.AccountHealth) fields {
			return fields{
				"account_id":   row.Account.ID.String(),
				"name":         row.Account.Name,
				"type":         string(row.Account.Type),
				"ledger":       money(row.Balances.Ledger),
				"available":    money(row.Balances.Available),
				"pending":      money(row.Balances.Pending),
				"latest":       reconciliation(row.Latest),
				"score":        row.Score.Score,
				"status":       string(row.Status),
				"note":         row.Note,
			}
		}),
	})
}

// AutopayRisks encodes autopay bounce risks
func AutopayRisks(risks []health.AutopayRisk) (*structpb.Struct, error) {
	return structpb.NewStruct(fields{
		"risks": list(risks, func(r health.AutopayRisk) fields {
			return fields{
				"obligation_id":        r.ObligationID.String(),
				"name":                 r.Name,
				"account_id":           optionalID(r.AccountID),
				"due_date":             day(r.DueDate),
				"days_away":            r.DaysAway,
				"amount":               money(r.Amount),
				"projected_before_due": money(r.ProjectedBeforeDue),
				"projected_after_due":  money(r.ProjectedAfterDue),
				"level":                string(r.Level),
			}
		}),
	})
}

// CardCycles encodes credit card cycle projections
func CardCycles(cards []planner.CardCycle) (*structpb.Struct, error) {
	return structpb.NewStruct(fields{
		"cards": list(cards, func(c planner.CardCycle) fields {
			p := c.Projection
			return fields{
				"account_id":               c.AccountID.String(),
				"name":                     c.Name,
				"pending_charges":          money(p.PendingCharges),
				"interest_amount":          money(p.InterestAmount),
				"new_statement_balance":    money(p.NewStatementBalance),
				"minimum_due":              money(p.MinimumDue),
				"due_adjusted_current":     money(p.DueAdjustedCurrent),
				"due_applied":              p.DueApplied,
				"displayed_balance":        money(p.DisplayedBalance),
				"available_credit":         money(p.AvailableCredit),
				"utilization":              ratio(p.Utilization),
				"projected_next_statement": money(p.ProjectedNextStatement),
				"projected_utilization":    ratio(p.ProjectedUtilization),
				"next_statement":           day(c.Dates.NextStatement),
				"next_due":                 day(c.Dates.NextDue),
			}
		}),
	})
}

// FundingPlan encodes suggested transfers ahead of autopay drafts
func FundingPlan(plan *funding.Plan) (*structpb.Struct, error) {
	return structpb.NewStruct(fields{
		"transfers": list(plan.Transfers, func(tr funding.Transfer) fields {
			return fields{
				"from_account_id": tr.FromAccountID.String(),
				"from_name":       tr.FromName,
				"to_account_id":   tr.ToAccountID.String(),
				"to_name":         tr.ToName,
				"amount":          money(tr.Amount),
				"by":              day(tr.By),
			}
		}),
		"unfunded": money(plan.Unfunded),
	})
}

// BudgetPerformance encodes the current month's envelope report
func BudgetPerformance(report *budget.PerformanceReport) (*structpb.Struct, error) {
	over := make([]interface{}, 0, len(report.OverBudgetCats))
	for _, category := range report.OverBudgetCats {
		over = append(over, category)
	}

	return structpb.NewStruct(fields{
		"month": report.Month,
		"envelopes": list(report.Envelopes, func(e budget.EnvelopePerformance) fields {
			return fields{
				"envelope_id":         e.EnvelopeID.String(),
				"category":            e.Category,
				"target":              money(e.Target),
				"carryover":           money(e.Carryover),
				"effective_target":    money(e.EffectiveTarget),
				"spent":               money(e.Spent),
				"variance":            money(e.Variance),
				"status":              string(e.Status),
				"projected_month_end": money(e.ProjectedMonthEnd),
				"next_carryover":      money(e.NextCarryover),
			}
		}),
		"total_target":     money(report.TotalTarget),
		"total_spent":      money(report.TotalSpent),
		"total_variance":   money(report.TotalVariance),
		"unbudgeted":       money(report.Unbudgeted),
		"over_budget_cats": over,
	})
}

// Forecast encodes the cash-flow forecast windows
func Forecast(f *budget.Forecast) (*structpb.Struct, error) {
	return structpb.NewStruct(fields{
		"monthly_income":      money(f.MonthlyIncome),
		"monthly_commitments": money(f.MonthlyCommitments),
		"windows": list(f.Windows, func(w budget.ForecastWindow) fields {
			return fields{
				"days":            w.Days,
				"income":          money(w.Income),
				"commitments":     money(w.Commitments),
				"projected_cash":  money(w.ProjectedCash),
				"coverage_months": money(w.CoverageMonths),
				"tier":            string(w.Tier),
			}
		}),
	})
}

// stats leaves undefined figures null rather than zero
func stats(st budget.Stats) fields {
	out := fields{
		"samples":  st.Samples,
		"mean":     money(st.Mean),
		"std_dev":  nil,
		"relative": nil,
	}
	if st.Defined {
		out["std_dev"] = money(st.StdDev)
	}
	if st.RelativeDefined {
		out["relative"] = money(st.Relative)
	}
	return out
}

// BillVariance encodes month-to-month variance of bill actuals
func BillVariance(bills []planner.BillVariance) (*structpb.Struct, error) {
	return structpb.NewStruct(fields{
		"bills": list(bills, func(b planner.BillVariance) fields {
			samples := make([]interface{}, 0, len(b.Samples))
			for _, s := range b.Samples {
				samples = append(samples, money(s))
			}
			return fields{
				"obligation_id": b.ObligationID.String(),
				"name":          b.Name,
				"samples":       samples,
				"stats":         stats(b.Stats),
			}
		}),
	})
}

// BillStatuses encodes where every bill stands against its schedule
func BillStatuses(bills []planner.BillStatusView) (*structpb.Struct, error) {
	return structpb.NewStruct(fields{
		"bills": list(bills, func(b planner.BillStatusView) fields {
			return fields{
				"obligation_id": b.ObligationID.String(),
				"name":          b.Name,
				"amount":        money(b.Amount),
				"autopay":       b.Autopay,
				"status":        string(b.Status),
				"next_due":      day(b.NextDue),
				"last_due":      day(b.LastDue),
				"days_away":     b.DaysAway,
			}
		}),
	})
}

// NetLiquidity encodes the liquidity, investment and debt totals
func NetLiquidity(r *planner.NetLiquidityResult) (*structpb.Struct, error) {
	return structpb.NewStruct(fields{
		"liquidity":   money(r.Liquidity),
		"investments": money(r.Investments),
		"debt":        money(r.Debt),
		"net":         money(r.Net),
	})
}

// reconciliation returns nil when no record is on file
func reconciliation(rec *domain.ReconciliationRecord) interface{} {
	if rec == nil {
		return nil
	}
	return fields{
		"id":              rec.ID.String(),
		"cycle_key":       rec.CycleKey,
		"expected_amount": money(rec.ExpectedAmount),
		"actual_amount":   optionalMoney(rec.ActualAmount),
		"unmatched_delta": money(rec.UnmatchedDelta),
		"reconciled":      rec.Reconciled,
	}
}
