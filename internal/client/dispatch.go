package client

import (
	"context"
	"fmt"

	"spendtrack/internal/logger"
)

// IntentKind names a user intent handled by the dispatcher.
type IntentKind string

const (
	IntentLoad IntentKind = "load"

	IntentAddTransaction    IntentKind = "add-transaction"
	IntentEditTransaction   IntentKind = "edit-transaction"
	IntentRemoveTransaction IntentKind = "remove-transaction"

	IntentAddCategory    IntentKind = "add-category"
	IntentRenameCategory IntentKind = "rename-category"
	IntentRemoveCategory IntentKind = "remove-category"

	IntentAddPlan    IntentKind = "add-plan"
	IntentEditPlan   IntentKind = "edit-plan"
	IntentRemovePlan IntentKind = "remove-plan"

	IntentRefresh IntentKind = "refresh"
)

// Intent is one queued command. ID and the form fields are read by the
// handler matching the kind.
type Intent struct {
	Kind            IntentKind
	ID              uint
	TransactionForm TransactionForm
	PlanForm        PlanForm
	Name            string

	// Done, when non-nil, receives the handler's result.
	Done chan error
}

type intentHandler func(ctx context.Context, intent Intent) error

// Dispatcher owns the controller and store, executing intents strictly one
// at a time on a single goroutine. All shared state is mutated only from
// that goroutine; callers interact through Enqueue and snapshots.
type Dispatcher struct {
	controller *Controller
	queue      chan Intent
	handlers   map[IntentKind]intentHandler
}

// NewDispatcher creates a dispatcher over the controller with a buffered
// intent queue.
func NewDispatcher(controller *Controller) *Dispatcher {
	d := &Dispatcher{
		controller: controller,
		queue:      make(chan Intent, 64),
	}
	d.handlers = map[IntentKind]intentHandler{
		IntentLoad: func(ctx context.Context, _ Intent) error {
			return controller.Load(ctx)
		},
		IntentAddTransaction: func(ctx context.Context, in Intent) error {
			return controller.AddTransaction(ctx, in.TransactionForm)
		},
		IntentEditTransaction: func(ctx context.Context, in Intent) error {
			return controller.EditTransaction(ctx, in.ID, in.TransactionForm)
		},
		IntentRemoveTransaction: func(ctx context.Context, in Intent) error {
			return controller.RemoveTransaction(ctx, in.ID)
		},
		IntentAddCategory: func(ctx context.Context, in Intent) error {
			return controller.AddCategory(ctx, in.Name)
		},
		IntentRenameCategory: func(ctx context.Context, in Intent) error {
			return controller.RenameCategory(ctx, in.ID, in.Name)
		},
		IntentRemoveCategory: func(ctx context.Context, in Intent) error {
			return controller.RemoveCategory(ctx, in.ID)
		},
		IntentAddPlan: func(ctx context.Context, in Intent) error {
			return controller.AddPlan(ctx, in.PlanForm)
		},
		IntentEditPlan: func(ctx context.Context, in Intent) error {
			return controller.EditPlan(ctx, in.ID, in.PlanForm)
		},
		IntentRemovePlan: func(ctx context.Context, in Intent) error {
			return controller.RemovePlan(ctx, in.ID)
		},
		IntentRefresh: func(ctx context.Context, _ Intent) error {
			return controller.Refresh(ctx)
		},
	}
	return d
}

// Enqueue adds an intent to the queue without waiting for its result.
// The background refresh after a successful add uses this path, so it may
// interleave with later user intents in queue order.
func (d *Dispatcher) Enqueue(intent Intent) {
	select {
	case d.queue <- intent:
	default:
		logger.Get().Warnw("intent queue full, dropping", "kind", intent.Kind)
	}
}

// Do enqueues an intent and blocks until its handler has run.
func (d *Dispatcher) Do(ctx context.Context, intent Intent) error {
	intent.Done = make(chan error, 1)
	d.queue <- intent
	select {
	case err := <-intent.Done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run consumes the queue until ctx is cancelled. Handlers run sequentially;
// there is never more than one in flight.
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case intent := <-d.queue:
			handler, ok := d.handlers[intent.Kind]
			var err error
			if !ok {
				err = fmt.Errorf("unknown intent kind %q", intent.Kind)
			} else {
				err = handler(ctx, intent)
			}
			if err != nil {
				logger.Get().Warnw("intent failed", "kind", intent.Kind, "error", err)
			}
			if intent.Done != nil {
				intent.Done <- err
			}
		}
	}
}
