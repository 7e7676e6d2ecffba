package client

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"spendtrack/internal/models"
	"spendtrack/internal/testutil"
)

// fakeAPI records calls and returns canned collections or a canned error.
type fakeAPI struct {
	calls int
	fail  error
	echo  *Collections
}

func (f *fakeAPI) respond() (*Collections, error) {
	f.calls++
	if f.fail != nil {
		return nil, f.fail
	}
	return f.echo, nil
}

func (f *fakeAPI) FetchTransactions(context.Context) ([]models.Transaction, error) {
	f.calls++
	if f.fail != nil {
		return nil, f.fail
	}
	return f.echo.Transactions, nil
}

func (f *fakeAPI) FetchCategories(context.Context) ([]models.Category, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	return f.echo.Categories, nil
}

func (f *fakeAPI) FetchPlans(context.Context) ([]models.Plan, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	return f.echo.Plans, nil
}

func (f *fakeAPI) CreateTransaction(context.Context, TransactionForm) (*Collections, error) {
	return f.respond()
}

func (f *fakeAPI) UpdateTransaction(context.Context, uint, TransactionForm) (*Collections, error) {
	return f.respond()
}

func (f *fakeAPI) DeleteTransaction(context.Context, uint) (*Collections, error) {
	return f.respond()
}

func (f *fakeAPI) CreateCategory(context.Context, string) (*Collections, error) { return f.respond() }
func (f *fakeAPI) UpdateCategory(context.Context, uint, string) (*Collections, error) {
	return f.respond()
}
func (f *fakeAPI) DeleteCategory(context.Context, uint) (*Collections, error) { return f.respond() }
func (f *fakeAPI) CreatePlan(context.Context, PlanForm) (*Collections, error) { return f.respond() }
func (f *fakeAPI) UpdatePlan(context.Context, uint, PlanForm) (*Collections, error) {
	return f.respond()
}
func (f *fakeAPI) DeletePlan(context.Context, uint) (*Collections, error) { return f.respond() }
func (f *fakeAPI) DownloadReport(context.Context, string) ([]byte, error) { return nil, nil }

func validForm() TransactionForm {
	return TransactionForm{
		Date:        testToday.Format(models.DateLayout),
		Status:      "spent",
		Category:    "Food",
		Amount:      "50",
		Currency:    "QAR",
		Description: "lunch",
	}
}

func pinnedController(api API, store *Store) *Controller {
	return NewController(api, store, WithClock(func() time.Time { return testToday }))
}

func TestAddTransactionOptimistic(t *testing.T) {
	t.Run("success merges authoritative echo and schedules refresh", func(t *testing.T) {
		store := NewStore()
		authoritative := models.Transaction{
			Status: models.TransactionStatusSpent, Category: "Food",
			Amount: decimal.NewFromInt(50), Currency: "QAR",
		}
		authoritative.ID = 42
		api := &fakeAPI{echo: &Collections{Transactions: []models.Transaction{authoritative}}}

		refreshed := false
		c := NewController(api, store,
			WithClock(func() time.Time { return testToday }),
			WithBackgroundRefresh(func() { refreshed = true }),
		)

		err := c.AddTransaction(context.Background(), validForm())
		testutil.AssertNoError(t, err)
		if len(store.Transactions()) != 1 || store.Transactions()[0].ID != 42 {
			t.Errorf("expected authoritative transaction with ID 42, got %+v", store.Transactions())
		}
		if !refreshed {
			t.Error("expected background refresh to be scheduled")
		}
		if c.Form().Open {
			t.Error("expected form to be closed after success")
		}
	})

	t.Run("failure rolls back and reopens form with attempted values", func(t *testing.T) {
		store := NewStore()
		plan := activePlan(200, testToday.AddDate(0, 0, -1), testToday.AddDate(0, 0, 30), models.PlanCategoryAll)
		store.Merge(&Collections{Plans: []models.Plan{plan}})
		before := store.Snapshot()

		api := &fakeAPI{fail: &APIError{Code: "INTERNAL_ERROR", Message: "boom"}}
		c := pinnedController(api, store)

		form := validForm()
		err := c.AddTransaction(context.Background(), form)
		if err == nil {
			t.Fatal("expected error")
		}

		if len(store.Transactions()) != len(before.Transactions) {
			t.Errorf("expected transaction list unchanged, got %d rows", len(store.Transactions()))
		}
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(200), store.Plans()[0].LeftMoney)

		formState := c.Form()
		if !formState.Open || formState.Kind != "transaction" {
			t.Fatalf("expected reopened transaction form, got %+v", formState)
		}
		if got, ok := formState.Values.(TransactionForm); !ok || got.Amount != form.Amount || got.Category != form.Category {
			t.Errorf("expected attempted values re-surfaced, got %+v", formState.Values)
		}
		if formState.Message != "boom" {
			t.Errorf("expected server message surfaced, got %q", formState.Message)
		}
	})

	t.Run("validation failure makes no network call and no mutation", func(t *testing.T) {
		store := NewStore()
		api := &fakeAPI{echo: &Collections{}}
		c := pinnedController(api, store)

		form := validForm()
		form.Amount = "not-a-number"
		err := c.AddTransaction(context.Background(), form)
		if _, ok := err.(*ValidationError); !ok {
			t.Fatalf("expected ValidationError, got %T", err)
		}
		if api.calls != 0 {
			t.Errorf("expected no network call, got %d", api.calls)
		}
		if len(store.Transactions()) != 0 {
			t.Error("expected no local mutation")
		}
		if !c.Form().Open {
			t.Error("expected form kept open with message")
		}
	})

	t.Run("zero amount is valid", func(t *testing.T) {
		store := NewStore()
		api := &fakeAPI{echo: &Collections{}}
		c := pinnedController(api, store)

		form := validForm()
		form.Amount = "0"
		testutil.AssertNoError(t, c.AddTransaction(context.Background(), form))
		if api.calls != 1 {
			t.Errorf("expected one network call, got %d", api.calls)
		}
	})
}

func TestLoadDerivesExpiredPlanStatuses(t *testing.T) {
	expired := models.Plan{
		Type:      models.PlanTypeMonthly,
		FromDate:  testToday.AddDate(0, -2, 0),
		ToDate:    testToday.AddDate(0, -1, 0),
		Amount:    decimal.NewFromInt(100),
		LeftMoney: decimal.Zero,
		Status:    models.PlanStatusActive,
	}
	api := &fakeAPI{echo: &Collections{Plans: []models.Plan{expired}}}
	store := NewStore()
	c := pinnedController(api, store)

	testutil.AssertNoError(t, c.Load(context.Background()))
	if got := store.Plans()[0].Status; got != models.PlanStatusCompleted {
		t.Errorf("expected fully spent expired plan derived Completed, got %s", got)
	}
}

func TestEditTransactionOptimistic(t *testing.T) {
	store := NewStore()
	plan := activePlan(200, testToday.AddDate(0, 0, -1), testToday.AddDate(0, 0, 30), "Food")
	existing := models.Transaction{
		Status: models.TransactionStatusSpent, Category: "Food",
		Amount: decimal.NewFromInt(60), Currency: "QAR",
	}
	existing.ID = 7
	plan.LeftMoney = decimal.NewFromInt(140)
	store.Merge(&Collections{
		Transactions: []models.Transaction{existing},
		Plans:        []models.Plan{plan},
	})

	api := &fakeAPI{echo: &Collections{}}
	c := pinnedController(api, store)

	form := validForm()
	form.Category = "Transport"
	form.Amount = "60"

	// The optimistic edit happens before settle; inspect via the rollback
	// path by making the API fail, then check restoration.
	api.fail = &APIError{Code: "INTERNAL_ERROR", Message: "down"}
	if err := c.EditTransaction(context.Background(), 7, form); err == nil {
		t.Fatal("expected error")
	}
	if store.Transactions()[0].Category != "Food" {
		t.Errorf("expected rollback to old category, got %q", store.Transactions()[0].Category)
	}
	testutil.AssertDecimalEqual(t, decimal.NewFromInt(140), store.Plans()[0].LeftMoney)
}

func TestRemoveTransactionConfirmGate(t *testing.T) {
	store := NewStore()
	existing := models.Transaction{
		Status: models.TransactionStatusSpent, Category: "Food",
		Amount: decimal.NewFromInt(60), Currency: "QAR",
	}
	existing.ID = 7
	store.Merge(&Collections{Transactions: []models.Transaction{existing}})

	api := &fakeAPI{echo: &Collections{}}
	c := NewController(api, store,
		WithClock(func() time.Time { return testToday }),
		WithConfirm(func(string) bool { return false }),
	)

	testutil.AssertNoError(t, c.RemoveTransaction(context.Background(), 7))
	if api.calls != 0 {
		t.Errorf("expected no network call when confirmation declined, got %d", api.calls)
	}
	if len(store.Transactions()) != 1 {
		t.Error("expected no local mutation when confirmation declined")
	}
}
