package funding

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/wealthflow-planner/internal/date"
	"github.com/simaogato/wealthflow-planner/internal/domain"
	"github.com/simaogato/wealthflow-planner/internal/usecase/health"
)

// Transfer is a suggested move of money between two accounts ahead of an autopay draft
type Transfer struct {
	FromAccountID uuid.UUID
	FromName      string
	ToAccountID   uuid.UUID
	ToName        string
	Amount        decimal.Decimal
	By            date.Date // due date of the first draft the transfer protects
}

// Plan is the set of transfers that lifts every linked autopay draft to good
type Plan struct {
	Transfers []Transfer
	Unfunded  decimal.Decimal // need no donor account could cover
}

type account struct {
	id     uuid.UUID
	name   string
	amount decimal.Decimal // need for receivers, surplus for donors
	by     date.Date
}

// SuggestTransfers matches accounts whose autopay drafts rate below good with
// liquid accounts that can spare the difference.
//
// Logic:
//   - An account needs funding when any of its drafts rates below good:
//     need = max over its drafts of (amount * AutopayCushion - projected before due).
//     Raising the balance lifts every later draft on the account by the same amount,
//     so the largest deficit covers them all
//   - Every other liquid account may donate its balance minus its own drafts times
//     AutopayCushion
//   - Donors with the most surplus give first; accounts with the earliest shortfall
//     receive first
//   - Each transfer moves min(surplus, need); need left over is reported as Unfunded
func SuggestTransfers(accounts []domain.LiquidAccount, risks []health.AutopayRisk) Plan {
	names := make(map[uuid.UUID]string, len(accounts))
	for _, acc := range accounts {
		names[acc.ID] = acc.Name
	}

	needs := make(map[uuid.UUID]*account)
	committed := make(map[uuid.UUID]decimal.Decimal)
	for _, r := range risks {
		if r.AccountID == nil || r.Level == health.AutopayUnlinked {
			continue
		}
		id := *r.AccountID
		committed[id] = committed[id].Add(r.Amount)

		deficit := r.Amount.Mul(health.AutopayCushion).Sub(r.ProjectedBeforeDue).RoundCeil(2)
		if !deficit.IsPositive() {
			continue
		}
		n, ok := needs[id]
		if !ok {
			needs[id] = &account{id: id, name: names[id], amount: deficit, by: r.DueDate}
			continue
		}
		n.amount = decimal.Max(n.amount, deficit)
		if r.DueDate.Before(n.by) {
			n.by = r.DueDate
		}
	}

	plan := Plan{Transfers: make([]Transfer, 0), Unfunded: decimal.Zero}
	if len(needs) == 0 {
		return plan
	}

	donors := make([]*account, 0)
	for _, acc := range accounts {
		if !acc.IsLiquid {
			continue
		}
		if _, receiving := needs[acc.ID]; receiving {
			continue
		}
		surplus := domain.RoundMoney(acc.Balance.Sub(committed[acc.ID].Mul(health.AutopayCushion)))
		if surplus.IsPositive() {
			donors = append(donors, &account{id: acc.ID, name: acc.Name, amount: surplus})
		}
	}
	sort.SliceStable(donors, func(i, j int) bool {
		if !donors[i].amount.Equal(donors[j].amount) {
			return donors[i].amount.GreaterThan(donors[j].amount)
		}
		return donors[i].name < donors[j].name
	})

	receivers := make([]*account, 0, len(needs))
	for _, n := range needs {
		receivers = append(receivers, n)
	}
	sort.Slice(receivers, func(i, j int) bool {
		a, b := receivers[i], receivers[j]
		if c := a.by.Compare(b.by); c != 0 {
			return c < 0
		}
		if !a.amount.Equal(b.amount) {
			return a.amount.GreaterThan(b.amount)
		}
		if a.name != b.name {
			return a.name < b.name
		}
		return a.id.String() < b.id.String()
	})

	for _, to := range receivers {
		for _, from := range donors {
			if !to.amount.IsPositive() {
				break
			}
			amount := decimal.Min(from.amount, to.amount)
			if !amount.IsPositive() {
				continue
			}
			plan.Transfers = append(plan.Transfers, Transfer{
				FromAccountID: from.id,
				FromName:      from.name,
				ToAccountID:   to.id,
				ToName:        to.name,
				Amount:        amount,
				By:            to.by,
			})
			from.amount = from.amount.Sub(amount)
			to.amount = to.amount.Sub(amount)
		}
		plan.Unfunded = plan.Unfunded.Add(to.amount)
	}

	return plan
}
