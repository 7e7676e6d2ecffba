package client

import (
	"time"

	"github.com/shopspring/decimal"

	"spendtrack/internal/models"
)

// ApplySpend deducts amount from every plan in the mirror that is Active,
// whose window contains today, and whose category set covers the given
// category. left_money clamps at 0. A spend against a plan whose window no
// longer contains today deliberately leaves it untouched, even when the
// transaction's own date falls inside that window.
func ApplySpend(plans []models.Plan, category string, amount decimal.Decimal, today time.Time) {
	if amount.IsZero() {
		return
	}
	day := models.Day(today)
	for i := range plans {
		plan := &plans[i]
		if plan.Status != models.PlanStatusActive || !plan.WindowContains(day) || !plan.Covers(category) {
			continue
		}
		left := plan.LeftMoney.Sub(amount)
		if left.IsNegative() {
			left = decimal.Zero
		}
		plan.LeftMoney = left
	}
}

// ApplyRefund adds amount back to every plan covering the category. There is
// no status or date-window gate; the asymmetry with ApplySpend is part of
// the reconciliation contract.
func ApplyRefund(plans []models.Plan, category string, amount decimal.Decimal) {
	if amount.IsZero() {
		return
	}
	for i := range plans {
		plan := &plans[i]
		if !plan.Covers(category) {
			continue
		}
		plan.LeftMoney = plan.LeftMoney.Add(amount)
	}
}

// ReconcileAdd adjusts plans for a newly recorded transaction. Earned
// transactions never touch plans.
func ReconcileAdd(plans []models.Plan, t models.Transaction, today time.Time) {
	if t.IsSpent() {
		ApplySpend(plans, t.Category, t.Amount, today)
	}
}

// ReconcileDelete adjusts plans for a removed transaction.
func ReconcileDelete(plans []models.Plan, t models.Transaction) {
	if t.IsSpent() {
		ApplyRefund(plans, t.Category, t.Amount)
	}
}

// ReconcileEdit adjusts plans for an edited transaction: the old spent
// amount is refunded before the new one is deducted.
func ReconcileEdit(plans []models.Plan, old, updated models.Transaction, today time.Time) {
	if old.IsSpent() {
		ApplyRefund(plans, old.Category, old.Amount)
	}
	if updated.IsSpent() {
		ApplySpend(plans, updated.Category, updated.Amount, today)
	}
}
