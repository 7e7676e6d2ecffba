package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus says whether money came in or went out.
type TransactionStatus string

const (
	TransactionStatusEarned TransactionStatus = "earned"
	TransactionStatusSpent  TransactionStatus = "spent"
)

// Transaction represents a single earned or spent amount.
//
// Category holds the category NAME, not a foreign key. Renaming or deleting
// a category leaves existing transactions untouched; they keep the name they
// were recorded with.
type Transaction struct {
	Base
	Date        time.Time         `gorm:"type:date;not null;index" json:"-"`
	Status      TransactionStatus `gorm:"not null" json:"status"`
	Category    string            `gorm:"not null;index" json:"category"`
	Amount      decimal.Decimal   `gorm:"type:decimal(12,2);not null" json:"amount"`
	Currency    string            `gorm:"size:3;not null" json:"currency"`
	Description string            `json:"description"`
}

// IsSpent reports whether the transaction counts against budget plans.
func (t *Transaction) IsSpent() bool {
	return t.Status == TransactionStatusSpent
}

// MarshalJSON renders Date as a calendar date string.
func (t Transaction) MarshalJSON() ([]byte, error) {
	type alias Transaction
	return json.Marshal(struct {
		alias
		Date string `json:"date"`
	}{
		alias: alias(t),
		Date:  t.Date.Format(DateLayout),
	})
}

// UnmarshalJSON parses the calendar date string back into Date.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	type alias Transaction
	aux := struct {
		*alias
		Date string `json:"date"`
	}{alias: (*alias)(t)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Date != "" {
		parsed, err := time.Parse(DateLayout, aux.Date)
		if err != nil {
			return err
		}
		t.Date = parsed
	}
	return nil
}
