package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"spendtrack/internal/logger"
	"spendtrack/internal/models"
)

// TransactionForm carries the raw field values of a transaction form.
// Amount stays a string until validation so a reopened form can re-surface
// exactly what the user typed.
type TransactionForm struct {
	Date        string
	Status      string
	Category    string
	Amount      string
	Currency    string
	Description string
}

// PlanForm carries the raw field values of a plan form.
type PlanForm struct {
	Type        string
	Description string
	Categories  []string
	FromDate    string
	ToDate      string
	Amount      string
}

// FormState is the reopened-form affordance: after a failed mutation the
// originating form resurfaces pre-populated with the attempted values.
type FormState struct {
	Open    bool
	Kind    string
	Values  interface{}
	Message string
}

// ValidationError is a local validation failure. It blocks the action before
// any network call; nothing is mutated and nothing needs rolling back.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Controller coordinates optimistic mutations against the remote store.
// It must only be driven from a single goroutine (see Dispatcher).
type Controller struct {
	api     API
	store   *Store
	now     func() time.Time
	confirm func(prompt string) bool
	refresh func()

	form  FormState
	views Views
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock pins the controller's notion of "today".
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithConfirm sets the yes/no gate asked before delete operations.
func WithConfirm(confirm func(prompt string) bool) Option {
	return func(c *Controller) { c.confirm = confirm }
}

// WithBackgroundRefresh sets the hook invoked after a successful add to
// schedule a fire-and-forget refresh of the mirror.
func WithBackgroundRefresh(refresh func()) Option {
	return func(c *Controller) { c.refresh = refresh }
}

// NewController creates a Controller over the given API and store.
func NewController(api API, store *Store, opts ...Option) *Controller {
	c := &Controller{
		api:     api,
		store:   store,
		now:     time.Now,
		confirm: func(string) bool { return true },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Form returns the current form state.
func (c *Controller) Form() FormState { return c.form }

// Views returns the last derived projections.
func (c *Controller) Views() Views { return c.views }

// Store returns the underlying mirror.
func (c *Controller) Store() *Store { return c.store }

// Load fetches all three collections and derives the initial views.
func (c *Controller) Load(ctx context.Context) error {
	transactions, err := c.api.FetchTransactions(ctx)
	if err != nil {
		return err
	}
	categories, err := c.api.FetchCategories(ctx)
	if err != nil {
		return err
	}
	plans, err := c.api.FetchPlans(ctx)
	if err != nil {
		return err
	}
	c.store.Merge(&Collections{Transactions: transactions, Categories: categories, Plans: plans})
	c.recomputeViews()
	return nil
}

func (c *Controller) recomputeViews() {
	plans := c.store.Plans()
	DerivePlanStatuses(plans, models.Day(c.now()))
	c.views = ComputeViews(c.store.Transactions(), plans)
}

// rollback restores the pre-attempt snapshot and reopens the originating
// form with the attempted values.
func (c *Controller) rollback(snap Collections, kind string, values interface{}, err error) {
	c.store.Restore(snap)
	c.recomputeViews()
	c.form = FormState{Open: true, Kind: kind, Values: values, Message: err.Error()}
	logger.Get().Warnw("mutation rolled back", "form", kind, "error", err)
}

// settle merges the authoritative payload, closes the form, and re-derives
// the views.
func (c *Controller) settle(echo *Collections) {
	c.store.Merge(echo)
	c.form = FormState{}
	c.recomputeViews()
}

func (f TransactionForm) validate() (models.Transaction, error) {
	if strings.TrimSpace(f.Amount) == "" {
		return models.Transaction{}, &ValidationError{Message: "amount is required"}
	}
	amount, err := decimal.NewFromString(f.Amount)
	if err != nil {
		return models.Transaction{}, &ValidationError{Message: "amount must be numeric"}
	}
	if amount.IsNegative() {
		return models.Transaction{}, &ValidationError{Message: "amount must be non-negative"}
	}
	for field, value := range map[string]string{
		"date":     f.Date,
		"status":   f.Status,
		"category": f.Category,
		"currency": f.Currency,
	} {
		if strings.TrimSpace(value) == "" {
			return models.Transaction{}, &ValidationError{Message: field + " is required"}
		}
	}
	date, err := time.Parse(models.DateLayout, f.Date)
	if err != nil {
		return models.Transaction{}, &ValidationError{Message: "date must be YYYY-MM-DD"}
	}
	status := models.TransactionStatus(f.Status)
	if status != models.TransactionStatusEarned && status != models.TransactionStatusSpent {
		return models.Transaction{}, &ValidationError{Message: "status must be earned or spent"}
	}
	return models.Transaction{
		Date:        models.Day(date),
		Status:      status,
		Category:    f.Category,
		Amount:      amount,
		Currency:    f.Currency,
		Description: f.Description,
	}, nil
}

func (f PlanForm) validate() (models.Plan, error) {
	if strings.TrimSpace(f.Amount) == "" {
		return models.Plan{}, &ValidationError{Message: "amount is required"}
	}
	amount, err := decimal.NewFromString(f.Amount)
	if err != nil {
		return models.Plan{}, &ValidationError{Message: "amount must be numeric"}
	}
	if amount.IsNegative() {
		return models.Plan{}, &ValidationError{Message: "amount must be non-negative"}
	}
	planType := models.PlanType(f.Type)
	if planType != models.PlanTypeMonthly && planType != models.PlanTypeCustom {
		return models.Plan{}, &ValidationError{Message: "type must be monthly or custom"}
	}
	fromDate, err := time.Parse(models.DateLayout, f.FromDate)
	if err != nil {
		return models.Plan{}, &ValidationError{Message: "from_date must be YYYY-MM-DD"}
	}
	toDate, err := time.Parse(models.DateLayout, f.ToDate)
	if err != nil {
		return models.Plan{}, &ValidationError{Message: "to_date must be YYYY-MM-DD"}
	}
	if fromDate.After(toDate) {
		return models.Plan{}, &ValidationError{Message: "from_date must not be after to_date"}
	}

	categories := f.Categories
	if len(categories) == 0 {
		categories = []string{models.PlanCategoryAll}
	}
	cats := make([]models.PlanCategory, 0, len(categories))
	for _, name := range categories {
		cats = append(cats, models.PlanCategory{Name: name})
	}

	return models.Plan{
		Type:        planType,
		Description: f.Description,
		Categories:  cats,
		FromDate:    models.Day(fromDate),
		ToDate:      models.Day(toDate),
		Amount:      amount,
		LeftMoney:   amount,
		Status:      models.PlanStatusActive,
	}, nil
}

// AddTransaction validates the form, applies the optimistic mutation, and
// issues the create request. On failure the mirror is rolled back and the
// form reopens with the attempted values. On success a background refresh
// is scheduled, fire and forget.
func (c *Controller) AddTransaction(ctx context.Context, form TransactionForm) error {
	transaction, err := form.validate()
	if err != nil {
		c.form = FormState{Open: true, Kind: "transaction", Values: form, Message: err.Error()}
		return err
	}

	snap := c.store.Snapshot()
	c.store.PrependTransaction(transaction)
	ReconcileAdd(c.store.Plans(), transaction, c.now())
	c.recomputeViews()

	echo, err := c.api.CreateTransaction(ctx, form)
	if err != nil {
		c.rollback(snap, "transaction", form, err)
		return err
	}

	c.settle(echo)
	if c.refresh != nil {
		c.refresh()
	}
	return nil
}

// EditTransaction validates the form, applies the optimistic edit with
// refund-then-spend reconciliation, and issues the update request.
func (c *Controller) EditTransaction(ctx context.Context, id uint, form TransactionForm) error {
	updated, err := form.validate()
	if err != nil {
		c.form = FormState{Open: true, Kind: "transaction", Values: form, Message: err.Error()}
		return err
	}

	old, ok := c.store.FindTransaction(id)
	if !ok {
		return fmt.Errorf("transaction %d not in local state", id)
	}

	snap := c.store.Snapshot()
	updated.ID = id
	c.store.ReplaceTransaction(id, updated)
	ReconcileEdit(c.store.Plans(), old, updated, c.now())
	c.recomputeViews()

	echo, err := c.api.UpdateTransaction(ctx, id, form)
	if err != nil {
		c.rollback(snap, "transaction", form, err)
		return err
	}

	c.settle(echo)
	return nil
}

// RemoveTransaction asks for confirmation, then applies the optimistic
// removal with a refund and issues the delete request. No local mutation
// happens until the user confirms.
func (c *Controller) RemoveTransaction(ctx context.Context, id uint) error {
	old, ok := c.store.FindTransaction(id)
	if !ok {
		return fmt.Errorf("transaction %d not in local state", id)
	}
	if !c.confirm(fmt.Sprintf("Delete transaction %d?", id)) {
		return nil
	}

	snap := c.store.Snapshot()
	c.store.RemoveTransaction(id)
	ReconcileDelete(c.store.Plans(), old)
	c.recomputeViews()

	echo, err := c.api.DeleteTransaction(ctx, id)
	if err != nil {
		c.rollback(snap, "transaction", nil, err)
		return err
	}

	c.settle(echo)
	return nil
}

// AddCategory validates the name, applies the optimistic append, and issues
// the create request.
func (c *Controller) AddCategory(ctx context.Context, name string) error {
	if strings.TrimSpace(name) == "" {
		err := &ValidationError{Message: "category name is required"}
		c.form = FormState{Open: true, Kind: "category", Values: name, Message: err.Error()}
		return err
	}

	snap := c.store.Snapshot()
	c.store.Merge(&Collections{Categories: append(c.store.Categories(), models.Category{Name: name})})
	echo, err := c.api.CreateCategory(ctx, name)
	if err != nil {
		c.rollback(snap, "category", name, err)
		return err
	}

	c.settle(echo)
	return nil
}

// RenameCategory renames a category optimistically. Transactions and plans
// keep the old name; no cascade runs locally or remotely.
func (c *Controller) RenameCategory(ctx context.Context, id uint, name string) error {
	if strings.TrimSpace(name) == "" {
		err := &ValidationError{Message: "category name is required"}
		c.form = FormState{Open: true, Kind: "category", Values: name, Message: err.Error()}
		return err
	}

	snap := c.store.Snapshot()
	categories := c.store.Categories()
	for i := range categories {
		if categories[i].ID == id {
			categories[i].Name = name
		}
	}

	echo, err := c.api.UpdateCategory(ctx, id, name)
	if err != nil {
		c.rollback(snap, "category", name, err)
		return err
	}

	c.settle(echo)
	return nil
}

// RemoveCategory asks for confirmation, then deletes the category.
func (c *Controller) RemoveCategory(ctx context.Context, id uint) error {
	if !c.confirm(fmt.Sprintf("Delete category %d?", id)) {
		return nil
	}

	snap := c.store.Snapshot()
	categories := c.store.Categories()
	for i := range categories {
		if categories[i].ID == id {
			c.store.Merge(&Collections{Categories: append(categories[:i:i], categories[i+1:]...)})
			break
		}
	}

	echo, err := c.api.DeleteCategory(ctx, id)
	if err != nil {
		c.rollback(snap, "category", nil, err)
		return err
	}

	c.settle(echo)
	return nil
}

// AddPlan validates the form, applies the optimistic append, and issues the
// create request.
func (c *Controller) AddPlan(ctx context.Context, form PlanForm) error {
	plan, err := form.validate()
	if err != nil {
		c.form = FormState{Open: true, Kind: "plan", Values: form, Message: err.Error()}
		return err
	}

	snap := c.store.Snapshot()
	c.store.Merge(&Collections{Plans: append(c.store.Plans(), plan)})
	c.recomputeViews()

	echo, err := c.api.CreatePlan(ctx, form)
	if err != nil {
		c.rollback(snap, "plan", form, err)
		return err
	}

	c.settle(echo)
	return nil
}

// EditPlan validates the form and replaces the plan optimistically. The
// remaining balance resets to the new amount, as the server does.
func (c *Controller) EditPlan(ctx context.Context, id uint, form PlanForm) error {
	plan, err := form.validate()
	if err != nil {
		c.form = FormState{Open: true, Kind: "plan", Values: form, Message: err.Error()}
		return err
	}

	snap := c.store.Snapshot()
	plans := c.store.Plans()
	for i := range plans {
		if plans[i].ID == id {
			plan.ID = id
			plans[i] = plan
		}
	}
	c.recomputeViews()

	echo, err := c.api.UpdatePlan(ctx, id, form)
	if err != nil {
		c.rollback(snap, "plan", form, err)
		return err
	}

	c.settle(echo)
	return nil
}

// RemovePlan asks for confirmation, then deletes the plan.
func (c *Controller) RemovePlan(ctx context.Context, id uint) error {
	if !c.confirm(fmt.Sprintf("Delete plan %d?", id)) {
		return nil
	}

	snap := c.store.Snapshot()
	plans := c.store.Plans()
	for i := range plans {
		if plans[i].ID == id {
			c.store.Merge(&Collections{Plans: append(plans[:i:i], plans[i+1:]...)})
			break
		}
	}
	c.recomputeViews()

	echo, err := c.api.DeletePlan(ctx, id)
	if err != nil {
		c.rollback(snap, "plan", nil, err)
		return err
	}

	c.settle(echo)
	return nil
}

// Refresh replaces the whole mirror with fresh server state.
func (c *Controller) Refresh(ctx context.Context) error {
	return c.Load(ctx)
}
