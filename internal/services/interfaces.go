package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"spendtrack/internal/models"
)

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate *time.Time
	ToDate   *time.Time
	Status   *models.TransactionStatus
	Category *string
}

// TransactionView is a transaction together with its amount converted into
// the requested display currency.
type TransactionView struct {
	ID              uint                     `json:"id"`
	Date            string                   `json:"date"`
	Status          models.TransactionStatus `json:"status"`
	Category        string                   `json:"category"`
	Amount          decimal.Decimal          `json:"amount"`
	Currency        string                   `json:"currency"`
	Description     string                   `json:"description"`
	ConvertedAmount decimal.Decimal          `json:"converted_amount"`
	DisplayCurrency string                   `json:"display_currency"`
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(date time.Time, status models.TransactionStatus, category string, amount decimal.Decimal, currency, description string) (*models.Transaction, error)
	ListTransactions(filter TransactionFilter) ([]models.Transaction, error)
	ListTransactionViews(ctx context.Context, filter TransactionFilter, displayCurrency string) ([]TransactionView, error)
	GetTransactionByID(id uint) (*models.Transaction, error)
	UpdateTransaction(id uint, date time.Time, status models.TransactionStatus, category string, amount decimal.Decimal, currency, description string) (*models.Transaction, error)
	DeleteTransaction(id uint) error
}

// CategoryServicer defines the contract for category-related business logic.
// Transactions and plans reference categories by name; renaming or deleting a
// category leaves existing records untouched.
type CategoryServicer interface {
	CreateCategory(name string) (*models.Category, error)
	ListCategories() ([]models.Category, error)
	GetCategoryByID(id uint) (*models.Category, error)
	UpdateCategory(id uint, name string) (*models.Category, error)
	DeleteCategory(id uint) error
}

// PlanServicer defines the contract for plan-related business logic,
// including reconciliation of plan balances against spent transactions.
type PlanServicer interface {
	CreatePlan(planType models.PlanType, description string, categories []string, fromDate, toDate time.Time, amount decimal.Decimal) (*models.Plan, error)
	ListPlans() ([]models.Plan, error)
	GetPlanByID(id uint) (*models.Plan, error)
	UpdatePlan(id uint, planType models.PlanType, description string, categories []string, fromDate, toDate time.Time, amount decimal.Decimal) (*models.Plan, error)
	DeletePlan(id uint) error

	// ApplySpend deducts amount from every Active plan whose window contains
	// today and whose category set covers the given category, clamping at 0.
	ApplySpend(tx *gorm.DB, category string, amount decimal.Decimal) error
	// ApplyRefund adds amount back to every plan covering the category,
	// regardless of plan status or date window.
	ApplyRefund(tx *gorm.DB, category string, amount decimal.Decimal) error
}

// ReportServicer defines the contract for generating downloadable reports.
type ReportServicer interface {
	Generate(ctx context.Context, filter TransactionFilter, format, displayCurrency string) (*Report, error)
}

// Report is a generated report file ready to be served.
type Report struct {
	Filename    string
	ContentType string
	Data        []byte
}
