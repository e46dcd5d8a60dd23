package core

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  Kind = "income"
	Expense Kind = "expense"

	Weekly  BudgetPeriod = "weekly"
	Monthly BudgetPeriod = "monthly"

	User      Sender = "user"
	Assistant Sender = "assistant"
)

// DateLayout is the ISO-8601 calendar date layout used on the wire.
const DateLayout = "2006-01-02"

type (
	Kind         string
	BudgetPeriod string
	Sender       string

	// Date is a calendar day in UTC.
	Date struct {
		time.Time
	}

	Transaction struct {
		ID          string          `json:"id"`
		Kind        Kind            `json:"kind"`
		Amount      decimal.Decimal `json:"amount"`
		Category    string          `json:"category"`
		Description string          `json:"description"`
		Date        Date            `json:"date"`
	}

	Budget struct {
		ID       string          `json:"id"`
		Category string          `json:"category"`
		Limit    decimal.Decimal `json:"limit"`
		Spent    decimal.Decimal `json:"spent"`
		Period   BudgetPeriod    `json:"period"`
	}

	// BudgetUpdate lists every field ReviseBudget may overwrite. Nil fields are kept.
	BudgetUpdate struct {
		Category *string          `json:"category,omitempty"`
		Limit    *decimal.Decimal `json:"limit,omitempty"`
		Spent    *decimal.Decimal `json:"spent,omitempty"`
		Period   *BudgetPeriod    `json:"period,omitempty"`
	}

	SavingsGoal struct {
		ID            string          `json:"id"`
		Title         string          `json:"title"`
		TargetAmount  decimal.Decimal `json:"target_amount"`
		CurrentAmount decimal.Decimal `json:"current_amount"`
		Deadline      Date            `json:"deadline"`
		Category      string          `json:"category"`
	}

	ChatMessage struct {
		ID        string    `json:"id"`
		Content   string    `json:"content"`
		Sender    Sender    `json:"sender"`
		Timestamp time.Time `json:"timestamp"`
	}

	// State is the aggregate root owned by the finance store.
	State struct {
		Transactions []Transaction `json:"transactions"` // newest first
		Budgets      []Budget      `json:"budgets"`
		SavingsGoals []SavingsGoal `json:"savings_goals"`
		ChatHistory  []ChatMessage `json:"chat_history"` // oldest first
		Loading      bool          `json:"loading"`
	}
)

var (
	ErrInvalidKind        = errors.New("invalid transaction kind")
	ErrInvalidPeriod      = errors.New("invalid budget period")
	ErrInvalidSender      = errors.New("invalid chat sender")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidLimit       = errors.New("budget limit must be positive")
	ErrInvalidTarget      = errors.New("target amount must be positive")
	ErrEmptyCategory      = errors.New("empty category")
	ErrEmptyDescription   = errors.New("empty description")
	ErrEmptyTitle         = errors.New("empty title")
	ErrEmptyContent       = errors.New("empty message content")
	ErrEmptyDate          = errors.New("date cannot be zero")
	ErrDescriptionTooLong = errors.New("description too long (max 200 characters)")
)

func (k Kind) Valid() bool {
	return k == Income || k == Expense
}

func (p BudgetPeriod) Valid() bool {
	return p == Weekly || p == Monthly
}

func (s Sender) Valid() bool {
	return s == User || s == Assistant
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an instant to its calendar day in the instant's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses a date string in YYYY-MM-DD format.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// SameDay reports whether both dates fall on the same calendar day.
func (d Date) SameDay(o Date) bool {
	y1, m1, d1 := d.Date()
	y2, m2, d2 := o.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrEmptyDate
	}
	return nil
}

func (t Transaction) Validate() error {
	if !t.Kind.Valid() {
		return ErrInvalidKind
	}
	if t.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return ErrDescriptionTooLong
	}
	return t.Date.Validate()
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	if !b.Limit.IsPositive() {
		return ErrInvalidLimit
	}
	if b.Spent.IsNegative() {
		return ErrInvalidAmount
	}
	if !b.Period.Valid() {
		return ErrInvalidPeriod
	}
	return nil
}

// Validate checks only the fields that are set.
func (u BudgetUpdate) Validate() error {
	if u.Category != nil && strings.TrimSpace(*u.Category) == "" {
		return ErrEmptyCategory
	}
	if u.Limit != nil && !u.Limit.IsPositive() {
		return ErrInvalidLimit
	}
	if u.Spent != nil && u.Spent.IsNegative() {
		return ErrInvalidAmount
	}
	if u.Period != nil && !u.Period.Valid() {
		return ErrInvalidPeriod
	}
	return nil
}

// Apply returns b with every set field of u copied over.
func (u BudgetUpdate) Apply(b Budget) Budget {
	if u.Category != nil {
		b.Category = *u.Category
	}
	if u.Limit != nil {
		b.Limit = *u.Limit
	}
	if u.Spent != nil {
		b.Spent = *u.Spent
	}
	if u.Period != nil {
		b.Period = *u.Period
	}
	return b
}

// Over reports whether spending has exceeded the limit.
func (b Budget) Over() bool {
	return b.Spent.GreaterThan(b.Limit)
}

func (g SavingsGoal) Validate() error {
	if strings.TrimSpace(g.Title) == "" {
		return ErrEmptyTitle
	}
	if !g.TargetAmount.IsPositive() {
		return ErrInvalidTarget
	}
	if g.CurrentAmount.IsNegative() {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(g.Category) == "" {
		return ErrEmptyCategory
	}
	return g.Deadline.Validate()
}

// Completed reports whether contributions have reached the target.
func (g SavingsGoal) Completed() bool {
	return g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount)
}

func (m ChatMessage) Validate() error {
	if strings.TrimSpace(m.Content) == "" {
		return ErrEmptyContent
	}
	if !m.Sender.Valid() {
		return ErrInvalidSender
	}
	return nil
}

// Clone returns a deep copy whose slices share nothing with s.
func (s State) Clone() State {
	return State{
		Transactions: append(make([]Transaction, 0, len(s.Transactions)), s.Transactions...),
		Budgets:      append(make([]Budget, 0, len(s.Budgets)), s.Budgets...),
		SavingsGoals: append(make([]SavingsGoal, 0, len(s.SavingsGoals)), s.SavingsGoals...),
		ChatHistory:  append(make([]ChatMessage, 0, len(s.ChatHistory)), s.ChatHistory...),
		Loading:      s.Loading,
	}
}
