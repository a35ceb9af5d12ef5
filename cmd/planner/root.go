package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/wealthflow-planner/internal/clock"
	"github.com/simaogato/wealthflow-planner/internal/date"
	"github.com/simaogato/wealthflow-planner/internal/format"
	"github.com/simaogato/wealthflow-planner/internal/snapshot"
	"github.com/simaogato/wealthflow-planner/internal/usecase/planner"
)

// app holds the persistent flags shared by every command
type app struct {
	snapshotPath string
	today        string
	currency     string
	asJSON       bool
}

// view is what renderers need besides the report itself
type view struct {
	today    date.Date
	currency string
}

func (v view) money(amount decimal.Decimal) string {
	return format.Money(amount, v.currency)
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "planner",
		Short:         "Household liquidity and budget projections",
		Long:          "Project bills against your liquid balances, score account health and track budgets from a YAML snapshot.",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&a.snapshotPath, "snapshot", "s", "snapshot.yaml", "Household snapshot file")
	root.PersistentFlags().StringVar(&a.today, "today", "", "Project as of this date (YYYY-MM-DD); defaults to the snapshot date")
	root.PersistentFlags().StringVarP(&a.currency, "currency", "c", "", "ISO currency code; defaults to the snapshot currency")
	root.PersistentFlags().BoolVar(&a.asJSON, "json", false, "Print the raw report as JSON")

	root.AddCommand(
		newTimelineCmd(a),
		newCycleCmd(a),
		newHealthCmd(a),
		newAutopayCmd(a),
		newFundingCmd(a),
		newBudgetCmd(a),
		newForecastCmd(a),
		newVarianceCmd(a),
		newBillsCmd(a),
		newNetCmd(a),
	)

	return root
}

// load reads the snapshot and builds a planner pinned to the projection date
func (a *app) load() (*planner.PlannerService, view, error) {
	snap, err := snapshot.Load(a.snapshotPath)
	if err != nil {
		return nil, view{}, err
	}

	today := snap.AsOf
	if a.today != "" {
		if today, err = date.Parse(a.today); err != nil {
			return nil, view{}, fmt.Errorf("invalid --today: %w", err)
		}
	}
	if today.IsZero() {
		today = clock.Today(clock.SystemClock{}, time.Local)
	}

	currency := a.currency
	if currency == "" {
		currency = snap.Currency
	}
	if currency == "" {
		currency = format.DefaultCurrency
	}

	clk := &clock.MockClock{FixedNow: today.Time()}
	svc := planner.NewPlannerService(snap.Repositories(), clk, planner.Options{Location: time.UTC})
	return svc, view{today: today, currency: currency}, nil
}

// newReportCmd builds a command that fetches one planner report and prints it
// either through render or, with --json, through the wire encoder.
func newReportCmd[T any](
	a *app,
	use, short string,
	fetch func(*planner.PlannerService, context.Context) (T, error),
	encode func(T) (*structpb.Struct, error),
	render func(io.Writer, T, view),
) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, v, err := a.load()
			if err != nil {
				return err
			}

			report, err := fetch(svc, cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if a.asJSON {
				msg, err := encode(report)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, protojson.MarshalOptions{Multiline: true, Indent: "  "}.Format(msg))
				return nil
			}

			render(out, report, v)
			return nil
		},
	}
}
