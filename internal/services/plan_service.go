package services

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "spendtrack/internal/errors"
	"spendtrack/internal/models"
)

// planService handles plan-related business logic.
type planService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewPlanService creates a new PlanServicer.
func NewPlanService(db *gorm.DB) PlanServicer {
	return &planService{db: db, now: time.Now}
}

// NewPlanServiceWithClock creates a PlanServicer with an injected clock.
// Reconciliation and status derivation depend on "today", so tests pin it.
func NewPlanServiceWithClock(db *gorm.DB, now func() time.Time) PlanServicer {
	return &planService{db: db, now: now}
}

func normalizeCategories(categories []string) []models.PlanCategory {
	out := make([]models.PlanCategory, 0, len(categories))
	seen := make(map[string]bool, len(categories))
	for _, name := range categories {
		name = strings.TrimSpace(name)
		if name == "" || seen[strings.ToLower(name)] {
			continue
		}
		seen[strings.ToLower(name)] = true
		out = append(out, models.PlanCategory{Name: name})
	}
	return out
}

// CreatePlan creates a new plan. LeftMoney starts equal to Amount.
func (s *planService) CreatePlan(
	planType models.PlanType,
	description string,
	categories []string,
	fromDate, toDate time.Time,
	amount decimal.Decimal,
) (*models.Plan, error) {
	if planType != models.PlanTypeMonthly && planType != models.PlanTypeCustom {
		return nil, apperrors.ErrInvalidPlanType
	}
	if amount.IsNegative() {
		return nil, apperrors.ErrNegativeAmount
	}
	fromDate, toDate = models.Day(fromDate), models.Day(toDate)
	if fromDate.After(toDate) {
		return nil, apperrors.ErrInvalidDateRange
	}

	cats := normalizeCategories(categories)
	if len(cats) == 0 {
		cats = []models.PlanCategory{{Name: models.PlanCategoryAll}}
	}

	plan := &models.Plan{
		Type:        planType,
		Description: description,
		Categories:  cats,
		FromDate:    fromDate,
		ToDate:      toDate,
		Amount:      amount,
	}

	if err := s.db.Create(plan).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return plan, nil
}

// ListPlans retrieves all plans with statuses refreshed against today.
// A plan whose window has passed becomes Completed when fully spent and
// Failed otherwise; the derived status is persisted.
func (s *planService) ListPlans() ([]models.Plan, error) {
	var plans []models.Plan
	if err := s.db.Preload("Categories").Order("id").Find(&plans).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	today := models.Day(s.now())
	for i := range plans {
		derived := plans[i].DeriveStatus(today)
		if derived != plans[i].Status {
			plans[i].Status = derived
			if err := s.db.Model(&plans[i]).Update("status", derived).Error; err != nil {
				return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
	}
	return plans, nil
}

// GetPlanByID retrieves a plan by ID.
func (s *planService) GetPlanByID(id uint) (*models.Plan, error) {
	var plan models.Plan
	if err := s.db.Preload("Categories").First(&plan, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPlanNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &plan, nil
}

// UpdatePlan replaces a plan's fields. The remaining balance resets to the
// new amount and the plan becomes Active again; past spending is not replayed.
func (s *planService) UpdatePlan(
	id uint,
	planType models.PlanType,
	description string,
	categories []string,
	fromDate, toDate time.Time,
	amount decimal.Decimal,
) (*models.Plan, error) {
	if planType != models.PlanTypeMonthly && planType != models.PlanTypeCustom {
		return nil, apperrors.ErrInvalidPlanType
	}
	if amount.IsNegative() {
		return nil, apperrors.ErrNegativeAmount
	}
	fromDate, toDate = models.Day(fromDate), models.Day(toDate)
	if fromDate.After(toDate) {
		return nil, apperrors.ErrInvalidDateRange
	}

	plan, err := s.GetPlanByID(id)
	if err != nil {
		return nil, err
	}

	cats := normalizeCategories(categories)
	if len(cats) == 0 {
		cats = []models.PlanCategory{{Name: models.PlanCategoryAll}}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("plan_id = ?", plan.ID).Delete(&models.PlanCategory{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		updates := map[string]interface{}{
			"type":        planType,
			"description": description,
			"from_date":   fromDate,
			"to_date":     toDate,
			"amount":      amount,
			"left_money":  amount,
			"status":      models.PlanStatusActive,
		}
		// Update through a bare model: plan still carries the Categories
		// loaded by GetPlanByID, and saving through it would re-create the
		// rows deleted above.
		if err := tx.Model(&models.Plan{Base: models.Base{ID: plan.ID}}).Updates(updates).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		for i := range cats {
			cats[i].PlanID = plan.ID
			if err := tx.Create(&cats[i]).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetPlanByID(id)
}

// DeletePlan deletes a plan and its category rows.
func (s *planService) DeletePlan(id uint) error {
	plan, err := s.GetPlanByID(id)
	if err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("plan_id = ?", plan.ID).Delete(&models.PlanCategory{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(plan).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// ApplySpend deducts amount from matching plans, clamping left_money at 0.
// Only Active plans whose window contains today participate; this is a
// compatibility rule, so a spend dated inside a closed window still does
// not touch that plan.
func (s *planService) ApplySpend(tx *gorm.DB, category string, amount decimal.Decimal) error {
	if amount.IsZero() {
		return nil
	}

	var plans []models.Plan
	if err := tx.Preload("Categories").Where("status = ?", models.PlanStatusActive).Find(&plans).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	today := models.Day(s.now())
	for i := range plans {
		plan := &plans[i]
		if !plan.WindowContains(today) || !plan.Covers(category) {
			continue
		}
		left := plan.LeftMoney.Sub(amount)
		if left.IsNegative() {
			left = decimal.Zero
		}
		if err := tx.Model(plan).Update("left_money", left).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return nil
}

// ApplyRefund adds amount back to every plan covering the category. Unlike
// ApplySpend there is no status or date-window gate.
func (s *planService) ApplyRefund(tx *gorm.DB, category string, amount decimal.Decimal) error {
	if amount.IsZero() {
		return nil
	}

	var plans []models.Plan
	if err := tx.Preload("Categories").Find(&plans).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	for i := range plans {
		plan := &plans[i]
		if !plan.Covers(category) {
			continue
		}
		if err := tx.Model(plan).Update("left_money", plan.LeftMoney.Add(amount)).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return nil
}
