package services

import (
	"context"

	"financeai/internal/amqp"
	"financeai/internal/core"
	"financeai/internal/log"
	"financeai/internal/store"

	"github.com/shopspring/decimal"
)

// EventPublisher delivers finance events to the outside world. *amqp.Client
// satisfies it.
type EventPublisher interface {
	PublishEvent(ctx context.Context, e amqp.FinanceEvent) error
}

// FinanceService orchestrates store mutations, logging and event publishing.
type FinanceService struct {
	store     *store.Store
	publisher EventPublisher
	logger    *log.Logger
}

// NewFinanceService wires st to an optional publisher. A nil logger discards.
func NewFinanceService(st *store.Store, publisher EventPublisher, logger *log.Logger) *FinanceService {
	if logger == nil {
		logger = log.Discard()
	}
	return &FinanceService{
		store:     st,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentFinance),
	}
}

func (s *FinanceService) Store() *store.Store {
	return s.store
}

func (s *FinanceService) Snapshot() core.State {
	return s.store.Snapshot()
}

// RecordTransaction stores tx and publishes transaction.recorded. An expense
// that pushes its budget from within the limit to over it also publishes
// budget.exceeded.
func (s *FinanceService) RecordTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, *core.Budget) {
	stored, budget := s.store.RecordTransaction(ctx, tx)

	s.logger.InfoContext(ctx, "Transaction recorded", log.NewFields().
		WithTransaction(stored.ID, string(stored.Kind), stored.Category, stored.Amount).
		WithOperation(log.OpRecord).
		ToSlice()...)
	s.publish(ctx, amqp.NewFinanceEvent(amqp.TransactionRecorded, stored.ID, stored.Category, stored.Amount.String()))

	if budget != nil {
		before := budget.Spent.Sub(stored.Amount)
		if budget.Over() && !before.GreaterThan(budget.Limit) {
			s.logger.WarnContext(ctx, "Budget exceeded", log.NewFields().
				WithBudget(budget.ID, budget.Category, budget.Spent, budget.Limit).
				ToSlice()...)
			s.publish(ctx, amqp.NewFinanceEvent(amqp.BudgetExceeded, budget.ID, budget.Category, budget.Spent.String()))
		}
	}
	return stored, budget
}

func (s *FinanceService) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	created, err := s.store.CreateBudget(ctx, b)
	if err != nil {
		s.logger.WarnContext(ctx, "Budget rejected", log.NewFields().
			WithOperation(log.OpCreate).
			WithError(err).
			ToSlice()...)
		return core.Budget{}, err
	}

	s.logger.InfoContext(ctx, "Budget created", log.NewFields().
		WithBudget(created.ID, created.Category, created.Spent, created.Limit).
		WithOperation(log.OpCreate).
		ToSlice()...)
	s.publish(ctx, amqp.NewFinanceEvent(amqp.BudgetCreated, created.ID, created.Category, created.Limit.String()))
	return created, nil
}

// ReviseBudget updates the budget with the given id. found is false when no
// budget has that id.
func (s *FinanceService) ReviseBudget(ctx context.Context, id string, upd core.BudgetUpdate) (core.Budget, bool, error) {
	b, found, err := s.store.ReviseBudget(ctx, id, upd)
	if err != nil || !found {
		s.logger.WarnContext(ctx, "Budget not revised",
			log.FieldEntityID, id,
			log.FieldOperation, log.OpRevise,
			"found", found,
			log.FieldError, errString(err))
		return b, found, err
	}

	s.logger.InfoContext(ctx, "Budget revised", log.NewFields().
		WithBudget(b.ID, b.Category, b.Spent, b.Limit).
		WithOperation(log.OpRevise).
		ToSlice()...)
	s.publish(ctx, amqp.NewFinanceEvent(amqp.BudgetRevised, b.ID, b.Category, b.Limit.String()))
	return b, true, nil
}

func (s *FinanceService) CreateSavingsGoal(ctx context.Context, g core.SavingsGoal) core.SavingsGoal {
	created := s.store.CreateSavingsGoal(ctx, g)

	s.logger.InfoContext(ctx, "Savings goal created", log.NewFields().
		WithGoal(created.ID, created.CurrentAmount, created.TargetAmount).
		WithOperation(log.OpCreate).
		ToSlice()...)
	s.publish(ctx, amqp.NewFinanceEvent(amqp.GoalCreated, created.ID, created.Category, created.TargetAmount.String()))
	return created
}

// ContributeToGoal adds amount to the goal. Reaching the target for the first
// time publishes goal.completed as well.
func (s *FinanceService) ContributeToGoal(ctx context.Context, id string, amount decimal.Decimal) (core.SavingsGoal, bool) {
	g, found := s.store.ContributeToGoal(ctx, id, amount)
	if !found {
		s.logger.WarnContext(ctx, "Contribution to unknown goal ignored",
			log.FieldEntityID, id,
			log.FieldOperation, log.OpContribute)
		return g, false
	}

	s.logger.InfoContext(ctx, "Goal contribution recorded", log.NewFields().
		WithGoal(g.ID, g.CurrentAmount, g.TargetAmount).
		WithOperation(log.OpContribute).
		ToSlice()...)
	s.publish(ctx, amqp.NewFinanceEvent(amqp.GoalContributed, g.ID, g.Category, amount.String()))

	before := g.CurrentAmount.Sub(amount)
	if g.Completed() && before.LessThan(g.TargetAmount) {
		s.logger.InfoContext(ctx, "Savings goal completed", log.FieldEntityID, g.ID)
		s.publish(ctx, amqp.NewFinanceEvent(amqp.GoalCompleted, g.ID, g.Category, g.CurrentAmount.String()))
	}
	return g, true
}

func (s *FinanceService) SetLoading(ctx context.Context, loading bool) {
	s.store.SetLoading(ctx, loading)
	s.logger.DebugContext(ctx, "Loading flag changed", "loading", loading)
}

// publish never fails the caller: the mutation has already happened.
func (s *FinanceService) publish(ctx context.Context, e amqp.FinanceEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishEvent(ctx, e); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish finance event",
			log.FieldEventType, e.Type,
			log.FieldEntityID, e.EntityID,
			log.FieldOperation, log.OpPublish,
			log.FieldError, err)
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
