package client

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"spendtrack/internal/models"
	"spendtrack/internal/testutil"
)

var testToday = time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

func activePlan(amount int64, from, to time.Time, categories ...string) models.Plan {
	cats := make([]models.PlanCategory, 0, len(categories))
	for _, name := range categories {
		cats = append(cats, models.PlanCategory{Name: name})
	}
	return models.Plan{
		Type:       models.PlanTypeMonthly,
		Categories: cats,
		FromDate:   models.Day(from),
		ToDate:     models.Day(to),
		Amount:     decimal.NewFromInt(amount),
		LeftMoney:  decimal.NewFromInt(amount),
		Status:     models.PlanStatusActive,
	}
}

func TestApplySpend(t *testing.T) {
	t.Run("deducts from matching plan", func(t *testing.T) {
		plans := []models.Plan{activePlan(200, testToday.AddDate(0, 0, -1), testToday.AddDate(0, 0, 30), "Food")}
		ApplySpend(plans, "Food", decimal.NewFromInt(50), testToday)
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(150), plans[0].LeftMoney)
	})

	t.Run("wildcard covers any category", func(t *testing.T) {
		plans := []models.Plan{activePlan(200, testToday, testToday.AddDate(0, 0, 7), models.PlanCategoryAll)}
		ApplySpend(plans, "Transport", decimal.NewFromInt(60), testToday)
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(140), plans[0].LeftMoney)
	})

	t.Run("clamps at zero", func(t *testing.T) {
		plans := []models.Plan{activePlan(5, testToday, testToday.AddDate(0, 0, 7), "Food")}
		ApplySpend(plans, "Food", decimal.NewFromInt(10), testToday)
		testutil.AssertDecimalEqual(t, decimal.Zero, plans[0].LeftMoney)
	})

	t.Run("skips closed window even when transaction date was inside it", func(t *testing.T) {
		plans := []models.Plan{activePlan(100, testToday.AddDate(0, -2, 0), testToday.AddDate(0, -1, 0), "Food")}
		ApplySpend(plans, "Food", decimal.NewFromInt(40), testToday)
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(100), plans[0].LeftMoney)
	})

	t.Run("skips non-active plan", func(t *testing.T) {
		plans := []models.Plan{activePlan(100, testToday, testToday.AddDate(0, 0, 7), "Food")}
		plans[0].Status = models.PlanStatusFailed
		ApplySpend(plans, "Food", decimal.NewFromInt(40), testToday)
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(100), plans[0].LeftMoney)
	})

	t.Run("skips unrelated category", func(t *testing.T) {
		plans := []models.Plan{activePlan(100, testToday, testToday.AddDate(0, 0, 7), "Food")}
		ApplySpend(plans, "Transport", decimal.NewFromInt(40), testToday)
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(100), plans[0].LeftMoney)
	})

	t.Run("window boundaries are inclusive", func(t *testing.T) {
		plans := []models.Plan{activePlan(100, testToday, testToday, "Food")}
		ApplySpend(plans, "Food", decimal.NewFromInt(10), testToday)
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(90), plans[0].LeftMoney)
	})
}

func TestApplyRefund(t *testing.T) {
	t.Run("ignores window and status", func(t *testing.T) {
		plans := []models.Plan{activePlan(100, testToday.AddDate(0, -2, 0), testToday.AddDate(0, -1, 0), "Food")}
		plans[0].Status = models.PlanStatusFailed
		ApplyRefund(plans, "Food", decimal.NewFromInt(25))
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(125), plans[0].LeftMoney)
	})

	t.Run("spend then refund restores prior balance", func(t *testing.T) {
		plans := []models.Plan{activePlan(80, testToday, testToday.AddDate(0, 0, 7), "Food")}
		ApplySpend(plans, "Food", decimal.NewFromInt(30), testToday)
		ApplyRefund(plans, "Food", decimal.NewFromInt(30))
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(80), plans[0].LeftMoney)
	})

	t.Run("clamp engaged breaks the round trip", func(t *testing.T) {
		plans := []models.Plan{activePlan(5, testToday, testToday.AddDate(0, 0, 7), "Food")}
		ApplySpend(plans, "Food", decimal.NewFromInt(10), testToday)
		testutil.AssertDecimalEqual(t, decimal.Zero, plans[0].LeftMoney)
		ApplyRefund(plans, "Food", decimal.NewFromInt(10))
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(10), plans[0].LeftMoney)
	})
}

func TestReconcileEdit(t *testing.T) {
	t.Run("category moved out of plan scope nets a refund", func(t *testing.T) {
		plans := []models.Plan{activePlan(200, testToday.AddDate(0, 0, -1), testToday.AddDate(0, 0, 30), "Food")}
		old := models.Transaction{
			Status:   models.TransactionStatusSpent,
			Category: "Food",
			Amount:   decimal.NewFromInt(60),
		}
		ReconcileAdd(plans, old, testToday)
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(140), plans[0].LeftMoney)

		updated := old
		updated.Category = "Transport"
		ReconcileEdit(plans, old, updated, testToday)
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(200), plans[0].LeftMoney)
	})

	t.Run("earned transactions never touch plans", func(t *testing.T) {
		plans := []models.Plan{activePlan(100, testToday, testToday.AddDate(0, 0, 7), models.PlanCategoryAll)}
		earned := models.Transaction{
			Status:   models.TransactionStatusEarned,
			Category: "Salary",
			Amount:   decimal.NewFromInt(500),
		}
		ReconcileAdd(plans, earned, testToday)
		ReconcileDelete(plans, earned)
		ReconcileEdit(plans, earned, earned, testToday)
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(100), plans[0].LeftMoney)
	})
}
