package core

import "github.com/shopspring/decimal"

// Categories offered when entering records. Free text is still accepted.
var (
	ExpenseCategories = []string{"Rent", "Groceries", "Utilities", "Entertainment", "Transportation", "Healthcare", "Shopping", "Other"}
	IncomeCategories  = []string{"Salary", "Freelance", "Investment", "Side Hustle", "Gift", "Other"}
	BudgetCategories  = []string{"Groceries", "Entertainment", "Transportation", "Utilities", "Healthcare", "Shopping", "Other"}
	GoalCategories    = []string{"Emergency", "Travel", "Home", "Education", "Retirement", "Investment", "Other"}
)

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}
