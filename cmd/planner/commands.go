package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/simaogato/wealthflow-planner/internal/adapter/wire"
	"github.com/simaogato/wealthflow-planner/internal/date"
	"github.com/simaogato/wealthflow-planner/internal/format"
	"github.com/simaogato/wealthflow-planner/internal/usecase/budget"
	"github.com/simaogato/wealthflow-planner/internal/usecase/funding"
	"github.com/simaogato/wealthflow-planner/internal/usecase/health"
	"github.com/simaogato/wealthflow-planner/internal/usecase/liquidity"
	"github.com/simaogato/wealthflow-planner/internal/usecase/planner"
)

func dayOrDash(d date.Date) string {
	if d.IsZero() {
		return "-"
	}
	return d.String()
}

func newTimelineCmd(a *app) *cobra.Command {
	var window int

	cmd := newReportCmd(a, "timeline", "Walk upcoming obligations against the liquidity pool",
		func(svc *planner.PlannerService, ctx context.Context) (*liquidity.Timeline, error) {
			return svc.Timeline(ctx, window)
		},
		wire.Timeline,
		func(w io.Writer, tl *liquidity.Timeline, v view) {
			renderPairs(w, [][2]string{
				{"Starting pool", v.money(tl.StartingPool)},
				{"Monthly baseline", v.money(tl.MonthlyBaseline)},
				{"Lowest balance", v.money(tl.LowestBalance)},
			})
			fmt.Fprintln(w)

			if len(tl.Events) == 0 {
				empty(w, "No obligations fall due in the window.")
			} else {
				rows := make([][]string, 0, len(tl.Events))
				for _, ev := range tl.Events {
					rows = append(rows, []string{
						ev.DueDate.String(),
						strconv.Itoa(ev.DaysAway),
						ev.Name,
						v.money(ev.Amount),
						v.money(ev.AfterBalance),
						level(string(ev.Severity)),
					})
				}
				renderTable(w, "LIQUIDITY TIMELINE  as of "+v.today.String(),
					[]string{"Due", "Days", "Obligation", "Amount", "Balance after", "Risk"},
					rows, rightAligned{1: true, 3: true, 4: true})
			}

			if tl.FirstShortfall != nil {
				fmt.Fprintf(w, "First shortfall: %s on %s leaves %s\n",
					tl.FirstShortfall.Name, tl.FirstShortfall.DueDate, v.money(tl.FirstShortfall.AfterBalance))
			}
			if n := len(tl.Unscheduled); n > 0 {
				empty(w, fmt.Sprintf("%d obligation(s) have no schedulable recurrence.", n))
			}
		},
	)
	cmd.Flags().IntVarP(&window, "window", "w", 0, "Days of events to show (default 30)")
	return cmd
}

func newCycleCmd(a *app) *cobra.Command {
	return newReportCmd(a, "cycle", "Project the next statement of every credit card",
		(*planner.PlannerService).CardCycles,
		wire.CardCycles,
		func(w io.Writer, cards []planner.CardCycle, v view) {
			if len(cards) == 0 {
				empty(w, "No credit accounts in the snapshot.")
				return
			}
			rows := make([][]string, 0, len(cards))
			for _, c := range cards {
				p := c.Projection
				rows = append(rows, []string{
					c.Name,
					v.money(p.InterestAmount),
					v.money(p.NewStatementBalance),
					v.money(p.MinimumDue),
					v.money(p.DisplayedBalance),
					v.money(p.AvailableCredit),
					format.Percent(p.Utilization),
					dayOrDash(c.Dates.NextDue),
				})
			}
			renderTable(w, "CARD CYCLES",
				[]string{"Card", "Interest", "New statement", "Minimum", "Balance", "Available", "Utilization", "Next due"},
				rows, rightAligned{1: true, 2: true, 3: true, 4: true, 5: true, 6: true})
		},
	)
}

func newHealthCmd(a *app) *cobra.Command {
	return newReportCmd(a, "health", "Score every account, weakest first",
		(*planner.PlannerService).AccountHealth,
		wire.AccountHealth,
		func(w io.Writer, accounts []planner.AccountHealth, v view) {
			if len(accounts) == 0 {
				empty(w, "No accounts in the snapshot.")
				return
			}
			rows := make([][]string, 0, len(accounts))
			for _, acc := range accounts {
				rows = append(rows, []string{
					acc.Account.Name,
					string(acc.Account.Type),
					v.money(acc.Balances.Available),
					strconv.Itoa(acc.Score.Score),
					level(string(acc.Status)),
					acc.Note,
				})
			}
			renderTable(w, "ACCOUNT HEALTH",
				[]string{"Account", "Type", "Available", "Score", "Status", "Note"},
				rows, rightAligned{2: true, 3: true})
		},
	)
}

func newAutopayCmd(a *app) *cobra.Command {
	return newReportCmd(a, "autopay", "Check autopay drafts against their funding accounts",
		(*planner.PlannerService).AutopayRisks,
		wire.AutopayRisks,
		func(w io.Writer, risks []health.AutopayRisk, v view) {
			if len(risks) == 0 {
				empty(w, "No autopay drafts in the horizon.")
				return
			}
			rows := make([][]string, 0, len(risks))
			for _, r := range risks {
				rows = append(rows, []string{
					r.Name,
					r.DueDate.String(),
					strconv.Itoa(r.DaysAway),
					v.money(r.Amount),
					v.money(r.ProjectedBeforeDue),
					v.money(r.ProjectedAfterDue),
					level(string(r.Level)),
				})
			}
			renderTable(w, "AUTOPAY RISK",
				[]string{"Obligation", "Due", "Days", "Amount", "Before", "After", "Risk"},
				rows, rightAligned{2: true, 3: true, 4: true, 5: true})
		},
	)
}

func newFundingCmd(a *app) *cobra.Command {
	return newReportCmd(a, "funding", "Suggest transfers that keep autopay drafts covered",
		(*planner.PlannerService).FundingPlan,
		wire.FundingPlan,
		func(w io.Writer, plan *funding.Plan, v view) {
			if len(plan.Transfers) == 0 && !plan.Unfunded.IsPositive() {
				empty(w, "Every autopay draft in the horizon is covered.")
				return
			}
			if len(plan.Transfers) > 0 {
				rows := make([][]string, 0, len(plan.Transfers))
				for _, tr := range plan.Transfers {
					rows = append(rows, []string{tr.FromName, tr.ToName, v.money(tr.Amount), dayOrDash(tr.By)})
				}
				renderTable(w, "SUGGESTED TRANSFERS",
					[]string{"From", "To", "Amount", "By"},
					rows, rightAligned{2: true})
			}
			if plan.Unfunded.IsPositive() {
				fmt.Fprintf(w, "Unfunded: %s has no donor account\n", v.money(plan.Unfunded))
			}
		},
	)
}

func newBudgetCmd(a *app) *cobra.Command {
	return newReportCmd(a, "budget", "Compare this month's spend against the envelopes",
		(*planner.PlannerService).BudgetPerformance,
		wire.BudgetPerformance,
		func(w io.Writer, report *budget.PerformanceReport, v view) {
			rows := make([][]string, 0, len(report.Envelopes))
			for _, e := range report.Envelopes {
				rows = append(rows, []string{
					e.Category,
					v.money(e.EffectiveTarget),
					v.money(e.Spent),
					v.money(e.Variance),
					v.money(e.ProjectedMonthEnd),
					level(string(e.Status)),
				})
			}
			if len(rows) == 0 {
				empty(w, "No budget envelopes in the snapshot.")
			} else {
				renderTable(w, "BUDGET  "+report.Month,
					[]string{"Category", "Target", "Spent", "Remaining", "Month end", "Status"},
					rows, rightAligned{1: true, 2: true, 3: true, 4: true})
			}

			renderPairs(w, [][2]string{
				{"Total target", v.money(report.TotalTarget)},
				{"Total spent", v.money(report.TotalSpent)},
				{"Remaining", v.money(report.TotalVariance)},
				{"Unbudgeted", v.money(report.Unbudgeted)},
			})
		},
	)
}

func newForecastCmd(a *app) *cobra.Command {
	return newReportCmd(a, "forecast", "Forecast cash over the next 30, 90 and 365 days",
		(*planner.PlannerService).Forecast,
		wire.Forecast,
		func(w io.Writer, f *budget.Forecast, v view) {
			rows := make([][]string, 0, len(f.Windows))
			for _, win := range f.Windows {
				rows = append(rows, []string{
					fmt.Sprintf("%dd", win.Days),
					v.money(win.Income),
					v.money(win.Commitments),
					v.money(win.ProjectedCash),
					format.Coverage(win.CoverageMonths),
					level(string(win.Tier)),
				})
			}
			renderTable(w, "CASH FORECAST  from "+v.today.String(),
				[]string{"Window", "Income", "Commitments", "Projected cash", "Coverage", "Tier"},
				rows, rightAligned{0: true, 1: true, 2: true, 3: true, 4: true})

			renderPairs(w, [][2]string{
				{"Monthly income", v.money(f.MonthlyIncome)},
				{"Monthly commitments", v.money(f.MonthlyCommitments)},
			})
		},
	)
}

func newVarianceCmd(a *app) *cobra.Command {
	return newReportCmd(a, "variance", "Month-to-month variance of reconciled bill amounts",
		(*planner.PlannerService).BillVariance,
		wire.BillVariance,
		func(w io.Writer, bills []planner.BillVariance, v view) {
			if len(bills) == 0 {
				empty(w, "No bills in the snapshot.")
				return
			}
			rows := make([][]string, 0, len(bills))
			for _, b := range bills {
				mean := format.NotAvailable
				if b.Stats.Samples > 0 {
					mean = v.money(b.Stats.Mean)
				}
				rows = append(rows, []string{
					b.Name,
					strconv.Itoa(b.Stats.Samples),
					mean,
					format.Variance(b.Stats, v.currency),
				})
			}
			renderTable(w, "BILL VARIANCE",
				[]string{"Bill", "Samples", "Mean", "Std dev"},
				rows, rightAligned{1: true, 2: true, 3: true})
		},
	)
}

func newBillsCmd(a *app) *cobra.Command {
	return newReportCmd(a, "bills", "Show where every bill stands against its schedule",
		(*planner.PlannerService).BillStatuses,
		wire.BillStatuses,
		func(w io.Writer, bills []planner.BillStatusView, v view) {
			if len(bills) == 0 {
				empty(w, "No bills in the snapshot.")
				return
			}
			rows := make([][]string, 0, len(bills))
			for _, b := range bills {
				rows = append(rows, []string{
					b.Name,
					v.money(b.Amount),
					dayOrDash(b.NextDue),
					dayOrDash(b.LastDue),
					level(string(b.Status)),
				})
			}
			renderTable(w, "BILLS  as of "+v.today.String(),
				[]string{"Bill", "Amount", "Next due", "Last due", "Status"},
				rows, rightAligned{1: true})
		},
	)
}

func newNetCmd(a *app) *cobra.Command {
	return newReportCmd(a, "net", "Net position across liquid, invested and owed balances",
		(*planner.PlannerService).NetLiquidity,
		wire.NetLiquidity,
		func(w io.Writer, r *planner.NetLiquidityResult, v view) {
			renderPairs(w, [][2]string{
				{"Liquidity", v.money(r.Liquidity)},
				{"Investments", v.money(r.Investments)},
				{"Debt", v.money(r.Debt)},
				{"Net", v.money(r.Net)},
			})
		},
	)
}
