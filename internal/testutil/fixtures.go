package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"spendtrack/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestCategory creates a category with a unique name.
func CreateTestCategory(t *testing.T, db *gorm.DB) *models.Category {
	t.Helper()
	return CreateTestCategoryWithName(t, db, fmt.Sprintf("Test Category %d", nextID()))
}

// CreateTestCategoryWithName creates a category with the given name.
func CreateTestCategoryWithName(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()

	category := &models.Category{Name: name}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestTransaction creates a transaction of the given status, category
// and amount, dated today in QAR.
func CreateTestTransaction(t *testing.T, db *gorm.DB, status models.TransactionStatus, category string, amount decimal.Decimal) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		Date:        models.Day(time.Now()),
		Status:      status,
		Category:    category,
		Amount:      amount,
		Currency:    "QAR",
		Description: fmt.Sprintf("test transaction %d", nextID()),
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestPlan creates an Active monthly plan for the given categories,
// with a window spanning yesterday through thirty days out.
func CreateTestPlan(t *testing.T, db *gorm.DB, amount decimal.Decimal, categories ...string) *models.Plan {
	t.Helper()

	today := models.Day(time.Now())
	return CreateTestPlanWithWindow(t, db, amount, today.AddDate(0, 0, -1), today.AddDate(0, 0, 30), categories...)
}

// CreateTestPlanWithWindow creates an Active monthly plan with an explicit
// date window.
func CreateTestPlanWithWindow(t *testing.T, db *gorm.DB, amount decimal.Decimal, from, to time.Time, categories ...string) *models.Plan {
	t.Helper()

	if len(categories) == 0 {
		categories = []string{models.PlanCategoryAll}
	}
	cats := make([]models.PlanCategory, 0, len(categories))
	for _, name := range categories {
		cats = append(cats, models.PlanCategory{Name: name})
	}

	plan := &models.Plan{
		Type:        models.PlanTypeMonthly,
		Description: fmt.Sprintf("test plan %d", nextID()),
		Categories:  cats,
		FromDate:    models.Day(from),
		ToDate:      models.Day(to),
		Amount:      amount,
	}
	if err := db.Create(plan).Error; err != nil {
		t.Fatalf("failed to create test plan: %v", err)
	}
	return plan
}
