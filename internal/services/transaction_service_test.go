package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"spendtrack/internal/fx"
	"spendtrack/internal/models"
	"spendtrack/internal/testutil"
)

func setupTransactionService(t *testing.T) (*gorm.DB, TransactionServicer, PlanServicer) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	plans := NewPlanServiceWithClock(db, fixedClock)
	converter := fx.NewClient("http://unused", "", time.Hour)
	return db, NewTransactionService(db, plans, converter), plans
}

func TestCreateTransaction(t *testing.T) {
	db, svc, plans := setupTransactionService(t)

	t.Run("spent transaction deducts from covering plan", func(t *testing.T) {
		plan := testutil.CreateTestPlanWithWindow(t, db, decimal.NewFromInt(200),
			testToday.AddDate(0, 0, -1), testToday.AddDate(0, 0, 30), models.PlanCategoryAll)

		_, err := svc.CreateTransaction(testToday, models.TransactionStatusSpent,
			"Food", decimal.NewFromInt(50), "QAR", "lunch")
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(150), reloadPlan(t, plans, plan.ID).LeftMoney)
	})

	t.Run("earned transaction never touches plans", func(t *testing.T) {
		plan := testutil.CreateTestPlanWithWindow(t, db, decimal.NewFromInt(100),
			testToday, testToday.AddDate(0, 0, 7), "Salary")

		_, err := svc.CreateTransaction(testToday, models.TransactionStatusEarned,
			"Salary", decimal.NewFromInt(5000), "QAR", "payday")
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(100), reloadPlan(t, plans, plan.ID).LeftMoney)
	})

	t.Run("rejects negative amount", func(t *testing.T) {
		_, err := svc.CreateTransaction(testToday, models.TransactionStatusSpent,
			"Food", decimal.NewFromInt(-5), "QAR", "")
		testutil.AssertAppError(t, err, "NEGATIVE_AMOUNT")
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		_, err := svc.CreateTransaction(testToday, "borrowed",
			"Food", decimal.NewFromInt(5), "QAR", "")
		testutil.AssertAppError(t, err, "INVALID_TRANSACTION_STATUS")
	})

	t.Run("rejects empty category", func(t *testing.T) {
		_, err := svc.CreateTransaction(testToday, models.TransactionStatusSpent,
			"", decimal.NewFromInt(5), "QAR", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestDeleteTransaction(t *testing.T) {
	db, svc, plans := setupTransactionService(t)

	t.Run("deleting a spent transaction refunds the plan", func(t *testing.T) {
		plan := testutil.CreateTestPlanWithWindow(t, db, decimal.NewFromInt(200),
			testToday.AddDate(0, 0, -1), testToday.AddDate(0, 0, 30), models.PlanCategoryAll)

		created, err := svc.CreateTransaction(testToday, models.TransactionStatusSpent,
			"Food", decimal.NewFromInt(50), "QAR", "lunch")
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(150), reloadPlan(t, plans, plan.ID).LeftMoney)

		testutil.AssertNoError(t, svc.DeleteTransaction(created.ID))
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(200), reloadPlan(t, plans, plan.ID).LeftMoney)

		_, err = svc.GetTransactionByID(created.ID)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})

	t.Run("unknown transaction", func(t *testing.T) {
		testutil.AssertAppError(t, svc.DeleteTransaction(99999), "TRANSACTION_NOT_FOUND")
	})
}

func TestUpdateTransaction(t *testing.T) {
	db, svc, plans := setupTransactionService(t)

	t.Run("moving category out of plan scope refunds the plan", func(t *testing.T) {
		plan := testutil.CreateTestPlanWithWindow(t, db, decimal.NewFromInt(200),
			testToday.AddDate(0, 0, -1), testToday.AddDate(0, 0, 30), "Food")

		created, err := svc.CreateTransaction(testToday, models.TransactionStatusSpent,
			"Food", decimal.NewFromInt(60), "QAR", "groceries")
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(140), reloadPlan(t, plans, plan.ID).LeftMoney)

		_, err = svc.UpdateTransaction(created.ID, testToday, models.TransactionStatusSpent,
			"Transport", decimal.NewFromInt(60), "QAR", "bus pass")
		testutil.AssertNoError(t, err)
		// Old amount refunded, new category not covered by the plan.
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(200), reloadPlan(t, plans, plan.ID).LeftMoney)
	})

	t.Run("changing amount within scope re-deducts the new amount", func(t *testing.T) {
		plan := testutil.CreateTestPlanWithWindow(t, db, decimal.NewFromInt(100),
			testToday.AddDate(0, 0, -1), testToday.AddDate(0, 0, 30), "Coffee")

		created, err := svc.CreateTransaction(testToday, models.TransactionStatusSpent,
			"Coffee", decimal.NewFromInt(20), "QAR", "")
		testutil.AssertNoError(t, err)

		updated, err := svc.UpdateTransaction(created.ID, testToday, models.TransactionStatusSpent,
			"Coffee", decimal.NewFromInt(35), "QAR", "")
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(35), updated.Amount)
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(65), reloadPlan(t, plans, plan.ID).LeftMoney)
	})

	t.Run("switching spent to earned refunds without re-deducting", func(t *testing.T) {
		plan := testutil.CreateTestPlanWithWindow(t, db, decimal.NewFromInt(100),
			testToday.AddDate(0, 0, -1), testToday.AddDate(0, 0, 30), "Gifts")

		created, err := svc.CreateTransaction(testToday, models.TransactionStatusSpent,
			"Gifts", decimal.NewFromInt(40), "QAR", "")
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(60), reloadPlan(t, plans, plan.ID).LeftMoney)

		_, err = svc.UpdateTransaction(created.ID, testToday, models.TransactionStatusEarned,
			"Gifts", decimal.NewFromInt(40), "QAR", "")
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(100), reloadPlan(t, plans, plan.ID).LeftMoney)
	})
}

func TestListTransactions(t *testing.T) {
	db, svc, _ := setupTransactionService(t)

	food := testutil.CreateTestTransaction(t, db, models.TransactionStatusSpent, "ListFood", decimal.NewFromInt(10))
	testutil.CreateTestTransaction(t, db, models.TransactionStatusEarned, "ListSalary", decimal.NewFromInt(100))

	t.Run("filter by category", func(t *testing.T) {
		category := "ListFood"
		got, err := svc.ListTransactions(TransactionFilter{Category: &category})
		testutil.AssertNoError(t, err)
		if len(got) != 1 || got[0].ID != food.ID {
			t.Errorf("expected single ListFood transaction, got %d rows", len(got))
		}
	})

	t.Run("filter by status", func(t *testing.T) {
		status := models.TransactionStatusEarned
		got, err := svc.ListTransactions(TransactionFilter{Status: &status})
		testutil.AssertNoError(t, err)
		for _, tx := range got {
			if tx.Status != models.TransactionStatusEarned {
				t.Errorf("expected only earned transactions, got %s", tx.Status)
			}
		}
	})

	t.Run("views convert amounts into display currency", func(t *testing.T) {
		category := "ListFood"
		views, err := svc.ListTransactionViews(context.Background(), TransactionFilter{Category: &category}, "USD")
		testutil.AssertNoError(t, err)
		if len(views) != 1 {
			t.Fatalf("expected 1 view, got %d", len(views))
		}
		// QAR 10 at the fallback rate of 3.641 per USD.
		want := decimal.NewFromInt(10).Div(decimal.NewFromFloat(3.641))
		testutil.AssertDecimalEqual(t, want.Round(6), views[0].ConvertedAmount.Round(6))
		if views[0].DisplayCurrency != "USD" {
			t.Errorf("expected display currency USD, got %s", views[0].DisplayCurrency)
		}
	})
}
