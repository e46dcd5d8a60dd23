package core

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func amt(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestDateJSON(t *testing.T) {
	d := NewDate(2025, 1, 3)
	b, err := json.Marshal(d)
	if err != nil || string(b) != `"2025-01-03"` {
		t.Fatalf("marshal: %s err=%v", b, err)
	}
	var back Date
	if err := json.Unmarshal([]byte(`"2025-12-31"`), &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.SameDay(NewDate(2025, 12, 31)) {
		t.Fatalf("unexpected date %v", back)
	}
	if err := json.Unmarshal([]byte(`"31/12/2025"`), &back); err == nil {
		t.Fatalf("expected error for non ISO date")
	}
}

func TestDateOfIgnoresClock(t *testing.T) {
	d := DateOf(time.Date(2025, 3, 9, 23, 59, 0, 0, time.UTC))
	if !d.SameDay(NewDate(2025, 3, 9)) || d.Hour() != 0 {
		t.Fatalf("unexpected %v", d.Time)
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Kind:        Expense,
		Amount:      amt("12.50"),
		Category:    "Groceries",
		Description: "ok",
		Date:        NewDate(2025, 1, 1),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	zero := good
	zero.Amount = decimal.Zero
	if err := zero.Validate(); err != nil {
		t.Fatalf("zero amount should be accepted, got %v", err)
	}

	bads := []struct {
		mutate func(*Transaction)
		want   error
	}{
		{func(tx *Transaction) { tx.Kind = "transfer" }, ErrInvalidKind},
		{func(tx *Transaction) { tx.Amount = amt("-1") }, ErrInvalidAmount},
		{func(tx *Transaction) { tx.Category = " " }, ErrEmptyCategory},
		{func(tx *Transaction) { tx.Description = "" }, ErrEmptyDescription},
		{func(tx *Transaction) { tx.Date = Date{} }, ErrEmptyDate},
	}
	for i, tc := range bads {
		tx := good
		tc.mutate(&tx)
		if err := tx.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("case %d: expected %v, got %v", i, tc.want, err)
		}
	}
}

func TestBudgetValidateAndOver(t *testing.T) {
	b := Budget{Category: "Groceries", Limit: amt("600"), Spent: amt("450"), Period: Monthly}
	if err := b.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if b.Over() {
		t.Fatalf("450 of 600 is not over")
	}
	b.Spent = amt("600")
	if b.Over() {
		t.Fatalf("spent equal to limit is not over")
	}
	b.Spent = amt("600.01")
	if !b.Over() {
		t.Fatalf("expected over")
	}

	b.Limit = decimal.Zero
	if err := b.Validate(); !errors.Is(err, ErrInvalidLimit) {
		t.Fatalf("expected ErrInvalidLimit, got %v", err)
	}
	b.Limit = amt("10")
	b.Period = "daily"
	if err := b.Validate(); !errors.Is(err, ErrInvalidPeriod) {
		t.Fatalf("expected ErrInvalidPeriod, got %v", err)
	}
}

func TestBudgetUpdateApply(t *testing.T) {
	base := Budget{ID: "1", Category: "Groceries", Limit: amt("600"), Spent: amt("450"), Period: Monthly}
	limit := amt("700")
	period := Weekly
	got := BudgetUpdate{Limit: &limit, Period: &period}.Apply(base)
	if got.ID != "1" || got.Category != "Groceries" || !got.Spent.Equal(amt("450")) {
		t.Fatalf("unset fields changed: %+v", got)
	}
	if !got.Limit.Equal(limit) || got.Period != Weekly {
		t.Fatalf("set fields not applied: %+v", got)
	}

	empty := ""
	if err := (BudgetUpdate{Category: &empty}).Validate(); !errors.Is(err, ErrEmptyCategory) {
		t.Fatalf("expected ErrEmptyCategory, got %v", err)
	}
	if err := (BudgetUpdate{}).Validate(); err != nil {
		t.Fatalf("empty update should validate, got %v", err)
	}
}

func TestSavingsGoalValidateAndCompleted(t *testing.T) {
	g := SavingsGoal{
		Title:         "Vacation",
		TargetAmount:  amt("3500"),
		CurrentAmount: amt("1200"),
		Deadline:      NewDate(2025, 8, 15),
		Category:      "Travel",
	}
	if err := g.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if g.Completed() {
		t.Fatalf("not completed yet")
	}
	g.CurrentAmount = amt("4000")
	if !g.Completed() {
		t.Fatalf("overshoot counts as completed")
	}
	g.TargetAmount = decimal.Zero
	if err := g.Validate(); !errors.Is(err, ErrInvalidTarget) {
		t.Fatalf("expected ErrInvalidTarget, got %v", err)
	}
}

func TestStateCloneIsIndependent(t *testing.T) {
	s := State{Budgets: []Budget{{ID: "1", Spent: amt("1")}}}
	c := s.Clone()
	c.Budgets[0].Spent = amt("99")
	if !s.Budgets[0].Spent.Equal(amt("1")) {
		t.Fatalf("clone shares backing array")
	}
	if c.Transactions == nil || c.ChatHistory == nil {
		t.Fatalf("clone should produce empty, non-nil slices")
	}
}
