package store

import (
	"financeai/internal/core"

	"github.com/shopspring/decimal"
)

// SeedState returns the demo fixtures a new session starts with.
func SeedState() core.State {
	d := decimal.NewFromInt
	return core.State{
		Transactions: []core.Transaction{
			{ID: "1", Kind: core.Income, Amount: d(5000), Category: "Salary", Description: "Monthly salary", Date: core.NewDate(2025, 1, 1)},
			{ID: "2", Kind: core.Expense, Amount: d(1200), Category: "Rent", Description: "Monthly rent payment", Date: core.NewDate(2025, 1, 2)},
			{ID: "3", Kind: core.Expense, Amount: d(450), Category: "Groceries", Description: "Weekly grocery shopping", Date: core.NewDate(2025, 1, 3)},
			{ID: "4", Kind: core.Expense, Amount: d(120), Category: "Utilities", Description: "Electricity bill", Date: core.NewDate(2025, 1, 4)},
			{ID: "5", Kind: core.Expense, Amount: d(80), Category: "Entertainment", Description: "Movie night", Date: core.NewDate(2025, 1, 5)},
		},
		Budgets: []core.Budget{
			{ID: "1", Category: "Groceries", Limit: d(600), Spent: d(450), Period: core.Monthly},
			{ID: "2", Category: "Entertainment", Limit: d(300), Spent: d(80), Period: core.Monthly},
			{ID: "3", Category: "Utilities", Limit: d(200), Spent: d(120), Period: core.Monthly},
		},
		SavingsGoals: []core.SavingsGoal{
			{ID: "1", Title: "Emergency Fund", TargetAmount: d(10000), CurrentAmount: d(6500), Deadline: core.NewDate(2025, 12, 31), Category: "Emergency"},
			{ID: "2", Title: "Vacation to Europe", TargetAmount: d(3500), CurrentAmount: d(1200), Deadline: core.NewDate(2025, 8, 15), Category: "Travel"},
		},
		ChatHistory: []core.ChatMessage{},
	}
}
