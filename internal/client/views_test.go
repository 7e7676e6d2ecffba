package client

import (
	"testing"

	"github.com/shopspring/decimal"

	"spendtrack/internal/models"
	"spendtrack/internal/testutil"
)

func spent(category string, amount int64) models.Transaction {
	return models.Transaction{
		Status:   models.TransactionStatusSpent,
		Category: category,
		Amount:   decimal.NewFromInt(amount),
	}
}

func earned(amount int64) models.Transaction {
	return models.Transaction{
		Status:   models.TransactionStatusEarned,
		Category: "Salary",
		Amount:   decimal.NewFromInt(amount),
	}
}

func TestComputeTotals(t *testing.T) {
	totals := ComputeTotals([]models.Transaction{earned(500), spent("Food", 120), spent("Rent", 80)})
	testutil.AssertDecimalEqual(t, decimal.NewFromInt(500), totals.Earned)
	testutil.AssertDecimalEqual(t, decimal.NewFromInt(200), totals.Spent)
}

func TestComputeSummary(t *testing.T) {
	t.Run("overspending", func(t *testing.T) {
		if got := ComputeSummary(Totals{Earned: decimal.NewFromInt(100), Spent: decimal.NewFromInt(150)}); got != SummaryOverspending {
			t.Errorf("expected overspending, got %s", got)
		}
	})
	t.Run("saving", func(t *testing.T) {
		if got := ComputeSummary(Totals{Earned: decimal.NewFromInt(150), Spent: decimal.NewFromInt(100)}); got != SummarySaving {
			t.Errorf("expected saving, got %s", got)
		}
	})
	t.Run("balanced on equality", func(t *testing.T) {
		if got := ComputeSummary(Totals{Earned: decimal.NewFromInt(100), Spent: decimal.NewFromInt(100)}); got != SummaryBalanced {
			t.Errorf("expected balanced, got %s", got)
		}
	})
}

func TestComputeBudgetStatus(t *testing.T) {
	monthly := func(amount int64, status models.PlanStatus) models.Plan {
		return models.Plan{
			Type:   models.PlanTypeMonthly,
			Amount: decimal.NewFromInt(amount),
			Status: status,
		}
	}

	t.Run("no plans means no budget", func(t *testing.T) {
		if got := ComputeBudgetStatus(nil, decimal.NewFromInt(50)); got != BudgetNone {
			t.Errorf("expected no-budget-set, got %s", got)
		}
	})

	t.Run("only custom or inactive plans means no budget", func(t *testing.T) {
		plans := []models.Plan{
			{Type: models.PlanTypeCustom, Amount: decimal.NewFromInt(100), Status: models.PlanStatusActive},
			monthly(100, models.PlanStatusFailed),
		}
		if got := ComputeBudgetStatus(plans, decimal.NewFromInt(50)); got != BudgetNone {
			t.Errorf("expected no-budget-set, got %s", got)
		}
	})

	t.Run("a zero-amount monthly plan is no budget", func(t *testing.T) {
		plans := []models.Plan{monthly(0, models.PlanStatusActive)}
		if got := ComputeBudgetStatus(plans, decimal.NewFromInt(10)); got != BudgetNone {
			t.Errorf("expected no-budget-set, got %s", got)
		}
	})

	t.Run("spending exactly the budget is on track", func(t *testing.T) {
		plans := []models.Plan{monthly(100, models.PlanStatusActive)}
		if got := ComputeBudgetStatus(plans, decimal.NewFromInt(100)); got != BudgetOnTrack {
			t.Errorf("expected on-track, got %s", got)
		}
	})

	t.Run("spending over the summed budget is over budget", func(t *testing.T) {
		plans := []models.Plan{monthly(100, models.PlanStatusActive), monthly(50, models.PlanStatusActive)}
		if got := ComputeBudgetStatus(plans, decimal.NewFromInt(151)); got != BudgetOver {
			t.Errorf("expected over-budget, got %s", got)
		}
	})
}

func TestComputeBreakdown(t *testing.T) {
	breakdown := ComputeBreakdown([]models.Transaction{
		spent("Food", 30), spent("Food", 20), spent("Rent", 100), earned(500),
	})
	testutil.AssertDecimalEqual(t, decimal.NewFromInt(50), breakdown["Food"])
	testutil.AssertDecimalEqual(t, decimal.NewFromInt(100), breakdown["Rent"])
	if _, ok := breakdown["Salary"]; ok {
		t.Error("earned transactions must not appear in the spending breakdown")
	}
}

func TestDerivePlanStatuses(t *testing.T) {
	plans := []models.Plan{
		{
			Type:      models.PlanTypeMonthly,
			FromDate:  testToday.AddDate(0, -2, 0),
			ToDate:    testToday.AddDate(0, -1, 0),
			Amount:    decimal.NewFromInt(100),
			LeftMoney: decimal.NewFromInt(40),
			Status:    models.PlanStatusActive,
		},
		{
			Type:      models.PlanTypeMonthly,
			FromDate:  testToday.AddDate(0, -2, 0),
			ToDate:    testToday.AddDate(0, -1, 0),
			Amount:    decimal.NewFromInt(100),
			LeftMoney: decimal.Zero,
			Status:    models.PlanStatusActive,
		},
	}
	DerivePlanStatuses(plans, testToday)
	if plans[0].Status != models.PlanStatusFailed {
		t.Errorf("leftover budget after the window should fail, got %s", plans[0].Status)
	}
	if plans[1].Status != models.PlanStatusCompleted {
		t.Errorf("fully spent budget after the window should complete, got %s", plans[1].Status)
	}
}
