// Package store owns the single in-memory finance state for a session.
//
// Every exported operation takes the store mutex for its whole duration, so
// mutations never interleave even when callers run on different goroutines.
// Lookups by unknown id are no-ops reported through a boolean, never an error.
package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"financeai/internal/core"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrDuplicateCategory = errors.New("a budget for this category already exists")

type Store struct {
	mu    sync.Mutex
	state core.State
	newID func() string
	now   func() time.Time
}

type Option func(*Store)

// WithIDGenerator replaces the UUID generator used for new records.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// WithClock replaces time.Now for chat timestamps.
func WithClock(fn func() time.Time) Option {
	return func(s *Store) { s.now = fn }
}

// New builds a store around a copy of initial.
func New(initial core.State, opts ...Option) *Store {
	s := &Store{
		state: initial.Clone(),
		newID: uuid.NewString,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewSeeded builds a store holding the demo fixtures.
func NewSeeded(opts ...Option) *Store {
	return New(SeedState(), opts...)
}

// RecordTransaction inserts tx at the front of the history. For an expense,
// the first budget with exactly the same category has its spent increased by
// the amount. The returned budget is a copy of that budget after the update,
// or nil when no budget matched.
func (s *Store) RecordTransaction(_ context.Context, tx core.Transaction) (core.Transaction, *core.Budget) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx.ID = s.newID()
	s.state.Transactions = append([]core.Transaction{tx}, s.state.Transactions...)

	if tx.Kind != core.Expense {
		return tx, nil
	}
	i := s.budgetIndexByCategory(tx.Category)
	if i < 0 {
		return tx, nil
	}
	s.state.Budgets[i].Spent = s.state.Budgets[i].Spent.Add(tx.Amount)
	b := s.state.Budgets[i]
	return tx, &b
}

// CreateBudget appends b. Categories are unique across budgets so that
// expense matching is unambiguous.
func (s *Store) CreateBudget(_ context.Context, b core.Budget) (core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.budgetIndexByCategory(b.Category) >= 0 {
		return core.Budget{}, ErrDuplicateCategory
	}
	b.ID = s.newID()
	s.state.Budgets = append(s.state.Budgets, b)
	return b, nil
}

// ReviseBudget applies the set fields of upd to the budget with the given id.
// found is false, and nothing changes, when no budget has that id.
func (s *Store) ReviseBudget(_ context.Context, id string, upd core.BudgetUpdate) (b core.Budget, found bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.budgetIndexByID(id)
	if i < 0 {
		return core.Budget{}, false, nil
	}
	if upd.Category != nil {
		if j := s.budgetIndexByCategory(*upd.Category); j >= 0 && j != i {
			return s.state.Budgets[i], true, ErrDuplicateCategory
		}
	}
	s.state.Budgets[i] = upd.Apply(s.state.Budgets[i])
	return s.state.Budgets[i], true, nil
}

func (s *Store) CreateSavingsGoal(_ context.Context, g core.SavingsGoal) core.SavingsGoal {
	s.mu.Lock()
	defer s.mu.Unlock()

	g.ID = s.newID()
	s.state.SavingsGoals = append(s.state.SavingsGoals, g)
	return g
}

// ContributeToGoal adds amount to the goal's current amount. The target is
// not a cap.
func (s *Store) ContributeToGoal(_ context.Context, id string, amount decimal.Decimal) (core.SavingsGoal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.state.SavingsGoals {
		if s.state.SavingsGoals[i].ID == id {
			s.state.SavingsGoals[i].CurrentAmount = s.state.SavingsGoals[i].CurrentAmount.Add(amount)
			return s.state.SavingsGoals[i], true
		}
	}
	return core.SavingsGoal{}, false
}

// AppendChatMessage adds m to the end of the chat history, stamping it with
// the current time when no timestamp is set.
func (s *Store) AppendChatMessage(_ context.Context, m core.ChatMessage) core.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	m.ID = s.newID()
	if m.Timestamp.IsZero() {
		m.Timestamp = s.now()
	}
	s.state.ChatHistory = append(s.state.ChatHistory, m)
	return m
}

func (s *Store) SetLoading(_ context.Context, loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = loading
}

// Snapshot returns a deep copy of the whole state.
func (s *Store) Snapshot() core.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

func (s *Store) Transactions() []core.Transaction {
	return s.Snapshot().Transactions
}

func (s *Store) Budgets() []core.Budget {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Budget{}, s.state.Budgets...)
}

func (s *Store) SavingsGoals() []core.SavingsGoal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.SavingsGoal{}, s.state.SavingsGoals...)
}

func (s *Store) ChatHistory() []core.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.ChatMessage{}, s.state.ChatHistory...)
}

func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Loading
}

func (s *Store) Budget(id string) (core.Budget, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.budgetIndexByID(id); i >= 0 {
		return s.state.Budgets[i], true
	}
	return core.Budget{}, false
}

func (s *Store) SavingsGoal(id string) (core.SavingsGoal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range s.state.SavingsGoals {
		if g.ID == id {
			return g, true
		}
	}
	return core.SavingsGoal{}, false
}

// budgetIndexByCategory is a case-sensitive linear scan; first match wins.
func (s *Store) budgetIndexByCategory(category string) int {
	for i, b := range s.state.Budgets {
		if b.Category == category {
			return i
		}
	}
	return -1
}

func (s *Store) budgetIndexByID(id string) int {
	for i, b := range s.state.Budgets {
		if b.ID == id {
			return i
		}
	}
	return -1
}
