package services

import (
	"testing"

	"github.com/shopspring/decimal"

	"spendtrack/internal/models"
	"spendtrack/internal/testutil"
)

func TestCreateCategory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewCategoryService(db)

	t.Run("normalizes name casing", func(t *testing.T) {
		category, err := svc.CreateCategory("gROCERIES")
		testutil.AssertNoError(t, err)
		if category.Name != "Groceries" {
			t.Errorf("expected Groceries, got %q", category.Name)
		}
	})

	t.Run("rejects duplicate name", func(t *testing.T) {
		_, err := svc.CreateCategory("groceries")
		testutil.AssertAppError(t, err, "CATEGORY_EXISTS")
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := svc.CreateCategory("   ")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestUpdateCategory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewCategoryService(db)

	t.Run("rename does not cascade to existing records", func(t *testing.T) {
		category := testutil.CreateTestCategoryWithName(t, db, "Dining")
		tx := testutil.CreateTestTransaction(t, db, models.TransactionStatusSpent, "Dining", decimal.NewFromInt(10))

		_, err := svc.UpdateCategory(category.ID, "Restaurants")
		testutil.AssertNoError(t, err)

		var reloaded models.Transaction
		if err := db.First(&reloaded, tx.ID).Error; err != nil {
			t.Fatalf("failed to reload transaction: %v", err)
		}
		if reloaded.Category != "Dining" {
			t.Errorf("expected transaction to keep old name, got %q", reloaded.Category)
		}
	})

	t.Run("rename to taken name conflicts", func(t *testing.T) {
		testutil.CreateTestCategoryWithName(t, db, "Bills")
		other := testutil.CreateTestCategoryWithName(t, db, "Utilities")

		_, err := svc.UpdateCategory(other.ID, "Bills")
		testutil.AssertAppError(t, err, "CATEGORY_EXISTS")
	})
}

func TestDeleteCategory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewCategoryService(db)

	t.Run("delete leaves transactions untouched", func(t *testing.T) {
		category := testutil.CreateTestCategoryWithName(t, db, "Hobbies")
		tx := testutil.CreateTestTransaction(t, db, models.TransactionStatusSpent, "Hobbies", decimal.NewFromInt(15))

		testutil.AssertNoError(t, svc.DeleteCategory(category.ID))

		var reloaded models.Transaction
		if err := db.First(&reloaded, tx.ID).Error; err != nil {
			t.Fatalf("failed to reload transaction: %v", err)
		}
		if reloaded.Category != "Hobbies" {
			t.Errorf("expected transaction to keep category name, got %q", reloaded.Category)
		}
	})

	t.Run("unknown category", func(t *testing.T) {
		testutil.AssertAppError(t, svc.DeleteCategory(99999), "CATEGORY_NOT_FOUND")
	})
}
