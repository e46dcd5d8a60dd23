// Package metrics computes read-side figures from a finance state.
//
// Every function is pure and recomputes from scratch; nothing is cached.
package metrics

import (
	"time"

	"financeai/internal/core"

	"github.com/shopspring/decimal"
)

// NoCategory is reported by MostExpensiveCategory when there are no expenses.
const NoCategory = "various categories"

// DailyPoint holds the income and expense sums of one calendar day.
type DailyPoint struct {
	Date    core.Date       `json:"date"`
	Label   string          `json:"label"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// TotalByKind sums the amounts of all transactions of the given kind.
func TotalByKind(s core.State, kind core.Kind) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range s.Transactions {
		if tx.Kind == kind {
			total = total.Add(tx.Amount)
		}
	}
	return total
}

// NetPosition is total income minus total expense.
func NetPosition(s core.State) decimal.Decimal {
	return TotalByKind(s, core.Income).Sub(TotalByKind(s, core.Expense))
}

// OverBudgetCount counts budgets whose spent is strictly above the limit.
func OverBudgetCount(s core.State) int {
	n := 0
	for _, b := range s.Budgets {
		if b.Over() {
			n++
		}
	}
	return n
}

// SavingsProgressRatio is the sum of current amounts over the sum of targets.
// It is 0 when there are no goals or the targets add up to zero.
func SavingsProgressRatio(s core.State) float64 {
	saved, target := decimal.Zero, decimal.Zero
	for _, g := range s.SavingsGoals {
		saved = saved.Add(g.CurrentAmount)
		target = target.Add(g.TargetAmount)
	}
	if target.IsZero() {
		return 0
	}
	return saved.Div(target).InexactFloat64()
}

// ExpenseBreakdownByCategory sums expenses per category, ordered by the first
// occurrence of each category in the transaction sequence.
func ExpenseBreakdownByCategory(s core.State) []core.CategoryAmount {
	var out []core.CategoryAmount
	index := map[string]int{}
	for _, tx := range s.Transactions {
		if tx.Kind != core.Expense {
			continue
		}
		i, ok := index[tx.Category]
		if !ok {
			i = len(out)
			index[tx.Category] = i
			out = append(out, core.CategoryAmount{Name: tx.Category, Amount: decimal.Zero})
		}
		out[i].Amount = out[i].Amount.Add(tx.Amount)
	}
	return out
}

// MostExpensiveCategory returns the category with the largest expense sum.
// Ties go to the category encountered first. ok is false, and the name is
// NoCategory, when there are no expenses.
func MostExpensiveCategory(s core.State) (name string, ok bool) {
	var best *core.CategoryAmount
	breakdown := ExpenseBreakdownByCategory(s)
	for i := range breakdown {
		if best == nil || breakdown[i].Amount.GreaterThan(best.Amount) {
			best = &breakdown[i]
		}
	}
	if best == nil {
		return NoCategory, false
	}
	return best.Name, true
}

// ExpenseCount is the number of expense transactions.
func ExpenseCount(s core.State) int {
	n := 0
	for _, tx := range s.Transactions {
		if tx.Kind == core.Expense {
			n++
		}
	}
	return n
}

// AverageExpense divides total expense by the number of expenses, treating
// an empty history as one expense so the result is zero rather than undefined.
func AverageExpense(s core.State) decimal.Decimal {
	n := ExpenseCount(s)
	if n < 1 {
		n = 1
	}
	return TotalByKind(s, core.Expense).Div(decimal.NewFromInt(int64(n)))
}

// DailySeries returns one point per calendar day for the windowDays days
// ending on today, oldest first. Transactions count toward a day only when
// their date is that exact calendar day.
func DailySeries(s core.State, today time.Time, windowDays int) []DailyPoint {
	if windowDays <= 0 {
		return []DailyPoint{}
	}
	end := core.DateOf(today)
	points := make([]DailyPoint, windowDays)
	for i := range points {
		day := core.Date{Time: end.AddDate(0, 0, i-(windowDays-1))}
		points[i] = DailyPoint{
			Date:    day,
			Label:   day.Format("01/02"),
			Income:  decimal.Zero,
			Expense: decimal.Zero,
		}
	}
	for _, tx := range s.Transactions {
		for i := range points {
			if !points[i].Date.SameDay(tx.Date) {
				continue
			}
			switch tx.Kind {
			case core.Income:
				points[i].Income = points[i].Income.Add(tx.Amount)
			case core.Expense:
				points[i].Expense = points[i].Expense.Add(tx.Amount)
			}
			break
		}
	}
	return points
}
