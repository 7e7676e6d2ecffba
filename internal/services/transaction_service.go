package services

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "spendtrack/internal/errors"
	"spendtrack/internal/fx"
	"spendtrack/internal/models"
)

// transactionService handles transaction-related business logic. Every
// mutation of a spent transaction reconciles plan balances in the same
// database transaction.
type transactionService struct {
	db        *gorm.DB
	plans     PlanServicer
	converter fx.Converter
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, plans PlanServicer, converter fx.Converter) TransactionServicer {
	return &transactionService{db: db, plans: plans, converter: converter}
}

// CreateTransaction records a transaction. A spent transaction deducts its
// amount from matching active plans.
func (s *transactionService) CreateTransaction(
	date time.Time,
	status models.TransactionStatus,
	category string,
	amount decimal.Decimal,
	currency, description string,
) (*models.Transaction, error) {
	if status != models.TransactionStatusEarned && status != models.TransactionStatusSpent {
		return nil, apperrors.ErrInvalidTransactionStatus
	}
	if amount.IsNegative() {
		return nil, apperrors.ErrNegativeAmount
	}
	if category == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category is required")
	}

	transaction := &models.Transaction{
		Date:        models.Day(date),
		Status:      status,
		Category:    category,
		Amount:      amount,
		Currency:    currency,
		Description: description,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if transaction.IsSpent() {
			return s.plans.ApplySpend(tx, category, amount)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return transaction, nil
}

func applyFilter(db *gorm.DB, filter TransactionFilter) *gorm.DB {
	if filter.FromDate != nil {
		db = db.Where("date >= ?", models.Day(*filter.FromDate))
	}
	if filter.ToDate != nil {
		db = db.Where("date <= ?", models.Day(*filter.ToDate))
	}
	if filter.Status != nil {
		db = db.Where("status = ?", *filter.Status)
	}
	if filter.Category != nil {
		db = db.Where("category = ?", *filter.Category)
	}
	return db
}

// ListTransactions retrieves transactions matching the filter, newest first.
func (s *transactionService) ListTransactions(filter TransactionFilter) ([]models.Transaction, error) {
	var transactions []models.Transaction
	query := applyFilter(s.db.Model(&models.Transaction{}), filter)
	if err := query.Order("date DESC, id DESC").Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transactions, nil
}

// ListTransactionViews lists matching transactions with amounts converted
// into the display currency.
func (s *transactionService) ListTransactionViews(ctx context.Context, filter TransactionFilter, displayCurrency string) ([]TransactionView, error) {
	transactions, err := s.ListTransactions(filter)
	if err != nil {
		return nil, err
	}

	views := make([]TransactionView, 0, len(transactions))
	for _, t := range transactions {
		views = append(views, TransactionView{
			ID:              t.ID,
			Date:            t.Date.Format(models.DateLayout),
			Status:          t.Status,
			Category:        t.Category,
			Amount:          t.Amount,
			Currency:        t.Currency,
			Description:     t.Description,
			ConvertedAmount: s.converter.Convert(ctx, t.Amount, t.Currency, displayCurrency),
			DisplayCurrency: displayCurrency,
		})
	}
	return views, nil
}

// GetTransactionByID retrieves a transaction by ID.
func (s *transactionService) GetTransactionByID(id uint) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.First(&transaction, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// UpdateTransaction replaces a transaction's fields. Plan balances are
// reconciled by refunding the old spent amount, then deducting the new one.
func (s *transactionService) UpdateTransaction(
	id uint,
	date time.Time,
	status models.TransactionStatus,
	category string,
	amount decimal.Decimal,
	currency, description string,
) (*models.Transaction, error) {
	if status != models.TransactionStatusEarned && status != models.TransactionStatusSpent {
		return nil, apperrors.ErrInvalidTransactionStatus
	}
	if amount.IsNegative() {
		return nil, apperrors.ErrNegativeAmount
	}
	if category == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category is required")
	}

	transaction, err := s.GetTransactionByID(id)
	if err != nil {
		return nil, err
	}

	oldSpent := transaction.IsSpent()
	oldCategory := transaction.Category
	oldAmount := transaction.Amount

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if oldSpent {
			if err := s.plans.ApplyRefund(tx, oldCategory, oldAmount); err != nil {
				return err
			}
		}

		updates := map[string]interface{}{
			"date":        models.Day(date),
			"status":      status,
			"category":    category,
			"amount":      amount,
			"currency":    currency,
			"description": description,
		}
		if err := tx.Model(transaction).Updates(updates).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if status == models.TransactionStatusSpent {
			return s.plans.ApplySpend(tx, category, amount)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetTransactionByID(id)
}

// DeleteTransaction deletes a transaction, refunding its amount to matching
// plans when it was spent.
func (s *transactionService) DeleteTransaction(id uint) error {
	transaction, err := s.GetTransactionByID(id)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if transaction.IsSpent() {
			return s.plans.ApplyRefund(tx, transaction.Category, transaction.Amount)
		}
		return nil
	})
}
