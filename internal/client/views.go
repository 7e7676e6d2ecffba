package client

import (
	"time"

	"github.com/shopspring/decimal"

	"spendtrack/internal/models"
)

// Totals are the sums of earned and spent amounts over the visible
// transaction list.
type Totals struct {
	Earned decimal.Decimal
	Spent  decimal.Decimal
}

// SummaryState is the qualitative reading of the totals.
type SummaryState string

const (
	SummaryOverspending SummaryState = "overspending"
	SummarySaving       SummaryState = "saving"
	SummaryBalanced     SummaryState = "balanced"
)

// BudgetState compares total spending against the active monthly budget.
type BudgetState string

const (
	BudgetNone    BudgetState = "no-budget-set"
	BudgetOnTrack BudgetState = "on-track"
	BudgetOver    BudgetState = "over-budget"
)

// Views are the derived projections recomputed after every change to the
// transaction list.
type Views struct {
	Totals    Totals
	Summary   SummaryState
	Budget    BudgetState
	Breakdown map[string]decimal.Decimal
}

// ComputeTotals sums earned and spent amounts.
func ComputeTotals(transactions []models.Transaction) Totals {
	var totals Totals
	for _, t := range transactions {
		switch t.Status {
		case models.TransactionStatusEarned:
			totals.Earned = totals.Earned.Add(t.Amount)
		case models.TransactionStatusSpent:
			totals.Spent = totals.Spent.Add(t.Amount)
		}
	}
	return totals
}

// ComputeSummary reads the totals qualitatively.
func ComputeSummary(totals Totals) SummaryState {
	switch totals.Spent.Cmp(totals.Earned) {
	case 1:
		return SummaryOverspending
	case -1:
		return SummarySaving
	default:
		return SummaryBalanced
	}
}

// ComputeBudgetStatus compares total spending against the summed amount of
// all Active monthly plans. A zero budget counts as no budget at all, and
// spending exactly the budget is still on track.
func ComputeBudgetStatus(plans []models.Plan, totalSpent decimal.Decimal) BudgetState {
	budget := decimal.Zero
	for _, p := range plans {
		if p.Status == models.PlanStatusActive && p.Type == models.PlanTypeMonthly {
			budget = budget.Add(p.Amount)
		}
	}
	if !budget.IsPositive() {
		return BudgetNone
	}
	if totalSpent.GreaterThan(budget) {
		return BudgetOver
	}
	return BudgetOnTrack
}

// ComputeBreakdown sums spent amounts per category.
func ComputeBreakdown(transactions []models.Transaction) map[string]decimal.Decimal {
	breakdown := make(map[string]decimal.Decimal)
	for _, t := range transactions {
		if t.IsSpent() {
			breakdown[t.Category] = breakdown[t.Category].Add(t.Amount)
		}
	}
	return breakdown
}

// ComputeViews re-derives every projection from the current mirror.
func ComputeViews(transactions []models.Transaction, plans []models.Plan) Views {
	totals := ComputeTotals(transactions)
	return Views{
		Totals:    totals,
		Summary:   ComputeSummary(totals),
		Budget:    ComputeBudgetStatus(plans, totals.Spent),
		Breakdown: ComputeBreakdown(transactions),
	}
}

// DerivePlanStatuses refreshes each plan's status field against today,
// mirroring what the server does at list time.
func DerivePlanStatuses(plans []models.Plan, today time.Time) {
	for i := range plans {
		plans[i].Status = plans[i].DeriveStatus(today)
	}
}
