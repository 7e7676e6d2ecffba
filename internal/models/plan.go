package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PlanType represents the period type for a budget plan.
type PlanType string

const (
	PlanTypeMonthly PlanType = "monthly"
	PlanTypeCustom  PlanType = "custom"
)

// PlanStatus is the lifecycle state of a plan.
//
// A plan whose window has closed is Completed when its budget was fully
// spent and Failed when money was left over. Leftover budget means the plan
// to spend it was not met; this is deliberate, not a typo.
type PlanStatus string

const (
	PlanStatusActive    PlanStatus = "Active"
	PlanStatusCompleted PlanStatus = "Completed"
	PlanStatusFailed    PlanStatus = "Failed"
)

// PlanCategoryAll is the wildcard name that scopes a plan to every category.
const PlanCategoryAll = "all"

// Plan is a spending limit over a date range and a set of category names.
// LeftMoney starts at Amount and is decremented by matching spent
// transactions, clamped at zero.
type Plan struct {
	Base
	Type        PlanType        `gorm:"not null" json:"type"`
	Description string          `json:"description"`
	Categories  []PlanCategory  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	FromDate    time.Time       `gorm:"type:date;not null" json:"-"`
	ToDate      time.Time       `gorm:"type:date;not null" json:"-"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	LeftMoney   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"left_money"`
	Status      PlanStatus      `gorm:"default:Active" json:"status"`
}

// PlanCategory scopes a plan to one category name. Names are stored verbatim
// so later category renames do not retarget existing plans.
type PlanCategory struct {
	ID     uint   `gorm:"primaryKey" json:"-"`
	PlanID uint   `gorm:"not null;index" json:"-"`
	Name   string `gorm:"not null" json:"name"`
}

// BeforeCreate defaults the remaining budget to the full amount.
func (p *Plan) BeforeCreate(tx *gorm.DB) error {
	if p.LeftMoney.IsZero() {
		p.LeftMoney = p.Amount
	}
	if p.Status == "" {
		p.Status = PlanStatusActive
	}
	return nil
}

// CategoryNames returns the plan's category names in stored order.
func (p *Plan) CategoryNames() []string {
	names := make([]string, 0, len(p.Categories))
	for _, c := range p.Categories {
		names = append(names, c.Name)
	}
	return names
}

// Covers reports whether the plan's category set includes the given name,
// either literally or through the "all" wildcard.
func (p *Plan) Covers(category string) bool {
	for _, c := range p.Categories {
		if c.Name == category || strings.EqualFold(c.Name, PlanCategoryAll) {
			return true
		}
	}
	return false
}

// WindowContains reports whether day falls within [FromDate, ToDate].
func (p *Plan) WindowContains(day time.Time) bool {
	d := Day(day)
	return !d.Before(Day(p.FromDate)) && !d.After(Day(p.ToDate))
}

// MarshalJSON renders the date window as calendar date strings and the
// category set as a plain list of names.
func (p Plan) MarshalJSON() ([]byte, error) {
	type alias Plan
	return json.Marshal(struct {
		alias
		FromDate   string   `json:"from_date"`
		ToDate     string   `json:"to_date"`
		Categories []string `json:"categories"`
	}{
		alias:      alias(p),
		FromDate:   p.FromDate.Format(DateLayout),
		ToDate:     p.ToDate.Format(DateLayout),
		Categories: p.CategoryNames(),
	})
}

// UnmarshalJSON parses the date strings and category name list back into
// their model forms.
func (p *Plan) UnmarshalJSON(data []byte) error {
	type alias Plan
	aux := struct {
		*alias
		FromDate   string   `json:"from_date"`
		ToDate     string   `json:"to_date"`
		Categories []string `json:"categories"`
	}{alias: (*alias)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.FromDate != "" {
		parsed, err := time.Parse(DateLayout, aux.FromDate)
		if err != nil {
			return err
		}
		p.FromDate = parsed
	}
	if aux.ToDate != "" {
		parsed, err := time.Parse(DateLayout, aux.ToDate)
		if err != nil {
			return err
		}
		p.ToDate = parsed
	}
	if aux.Categories != nil {
		p.Categories = make([]PlanCategory, 0, len(aux.Categories))
		for _, name := range aux.Categories {
			p.Categories = append(p.Categories, PlanCategory{PlanID: p.ID, Name: name})
		}
	}
	return nil
}

// DeriveStatus returns the status the plan should carry as of today:
// Active while the window is open, then Completed if the budget was fully
// spent and Failed otherwise.
func (p *Plan) DeriveStatus(today time.Time) PlanStatus {
	if Day(today).After(Day(p.ToDate)) {
		if p.LeftMoney.Sign() <= 0 {
			return PlanStatusCompleted
		}
		return PlanStatusFailed
	}
	return PlanStatusActive
}
