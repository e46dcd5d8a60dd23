package metrics

import (
	"math"
	"time"

	"financeai/internal/core"

	"github.com/shopspring/decimal"
)

// Level grades how far a budget or goal has progressed.
type Level string

const (
	LevelOK      Level = "ok"
	LevelWarning Level = "warning"
	LevelOver    Level = "over"

	LevelLow      Level = "low"
	LevelHalfway  Level = "halfway"
	LevelNear     Level = "near"
	LevelComplete Level = "complete"
)

type BudgetStatus struct {
	Budget    core.Budget     `json:"budget"`
	Percent   float64         `json:"percent"` // capped at 100
	Remaining decimal.Decimal `json:"remaining"`
	Level     Level           `json:"level"`
}

type GoalProgress struct {
	Goal           core.SavingsGoal `json:"goal"`
	Percent        float64          `json:"percent"` // capped at 100
	Completed      bool             `json:"completed"`
	DaysRemaining  int              `json:"days_remaining"`
	DeadlinePassed bool             `json:"deadline_passed"`
	Level          Level            `json:"level"`
}

// Snapshot carries the figures the advisory responder interpolates.
type Snapshot struct {
	TotalIncome           decimal.Decimal `json:"total_income"`
	TotalExpense          decimal.Decimal `json:"total_expense"`
	NetPosition           decimal.Decimal `json:"net_position"`
	OverBudgetCount       int             `json:"over_budget_count"`
	SavingsRatio          float64         `json:"savings_ratio"`
	MostExpensiveCategory string          `json:"most_expensive_category"`
	ExpenseCount          int             `json:"expense_count"`
	AverageExpense        decimal.Decimal `json:"average_expense"`
}

// Dashboard is everything the overview screen shows.
type Dashboard struct {
	Snapshot
	Breakdown []core.CategoryAmount `json:"breakdown"`
	Daily     []DailyPoint          `json:"daily"`
	Budgets   []BudgetStatus        `json:"budgets"`
	Goals     []GoalProgress        `json:"goals"`
}

func Snap(s core.State) Snapshot {
	top, _ := MostExpensiveCategory(s)
	return Snapshot{
		TotalIncome:           TotalByKind(s, core.Income),
		TotalExpense:          TotalByKind(s, core.Expense),
		NetPosition:           NetPosition(s),
		OverBudgetCount:       OverBudgetCount(s),
		SavingsRatio:          SavingsProgressRatio(s),
		MostExpensiveCategory: top,
		ExpenseCount:          ExpenseCount(s),
		AverageExpense:        AverageExpense(s),
	}
}

func Summarize(s core.State, today time.Time, windowDays int) Dashboard {
	breakdown := ExpenseBreakdownByCategory(s)
	if breakdown == nil {
		breakdown = []core.CategoryAmount{}
	}
	return Dashboard{
		Snapshot:  Snap(s),
		Breakdown: breakdown,
		Daily:     DailySeries(s, today, windowDays),
		Budgets:   BudgetStatuses(s),
		Goals:     GoalProgresses(s, today),
	}
}

func BudgetStatuses(s core.State) []BudgetStatus {
	out := make([]BudgetStatus, 0, len(s.Budgets))
	for _, b := range s.Budgets {
		pct := percent(b.Spent, b.Limit)
		level := LevelOK
		switch {
		case pct >= 100:
			level = LevelOver
		case pct >= 80:
			level = LevelWarning
		}
		remaining := b.Limit.Sub(b.Spent)
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}
		out = append(out, BudgetStatus{
			Budget:    b,
			Percent:   math.Min(pct, 100),
			Remaining: remaining,
			Level:     level,
		})
	}
	return out
}

func GoalProgresses(s core.State, today time.Time) []GoalProgress {
	day := core.DateOf(today)
	out := make([]GoalProgress, 0, len(s.SavingsGoals))
	for _, g := range s.SavingsGoals {
		pct := percent(g.CurrentAmount, g.TargetAmount)
		level := LevelLow
		switch {
		case pct >= 100:
			level = LevelComplete
		case pct >= 75:
			level = LevelNear
		case pct >= 50:
			level = LevelHalfway
		}
		days := int(g.Deadline.Sub(day.Time).Hours() / 24)
		out = append(out, GoalProgress{
			Goal:           g,
			Percent:        math.Min(pct, 100),
			Completed:      g.Completed(),
			DaysRemaining:  days,
			DeadlinePassed: days <= 0,
			Level:          level,
		})
	}
	return out
}

// percent returns part/whole*100, or 0 when whole is zero.
func percent(part, whole decimal.Decimal) float64 {
	if whole.IsZero() {
		return 0
	}
	return part.Div(whole).Mul(decimal.NewFromInt(100)).InexactFloat64()
}
