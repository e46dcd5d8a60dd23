// Package advisor answers free-text finance questions with canned replies.
//
// A query is lower-cased and tested against an ordered list of topic rules;
// the first rule with a matching keyword renders its template from the
// metrics snapshot. Queries that match nothing get one of a fixed pool of
// generic replies, picked at random.
package advisor

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"financeai/internal/core"
	"financeai/internal/metrics"

	"github.com/shopspring/decimal"
)

// Topic names the rule that produced a reply.
type Topic string

const (
	TopicBudget    Topic = "budget"
	TopicSaving    Topic = "saving"
	TopicIncome    Topic = "income"
	TopicInvesting Topic = "investing"
	TopicDebt      Topic = "debt"
	TopicEmergency Topic = "emergency"
	TopicGeneral   Topic = "general"
)

// Greeting is shown before the first message of a conversation.
const Greeting = "Hi! I'm your AI financial advisor. I can help you with budgeting, saving strategies, investment advice, and more. What would you like to know about your finances?"

// Picker selects an index in [0, n). *rand.Rand satisfies it.
type Picker interface {
	IntN(n int) int
}

type globalPicker struct{}

func (globalPicker) IntN(n int) int { return rand.IntN(n) }

type rule struct {
	topic    Topic
	keywords []string
	render   func(metrics.Snapshot, []core.SavingsGoal) string
}

var investThreshold = decimal.NewFromInt(1000)

// rules are evaluated in order; the first keyword hit wins.
var rules = []rule{
	{TopicBudget, []string{"budget", "spending"}, budgetReply},
	{TopicSaving, []string{"save", "saving"}, savingReply},
	{TopicIncome, []string{"income", "earn"}, incomeReply},
	{TopicInvesting, []string{"invest", "investment"}, investReply},
	{TopicDebt, []string{"debt", "loan"}, debtReply},
	{TopicEmergency, []string{"emergency", "fund"}, emergencyReply},
}

// generalReplies is the fallback pool. Its size is fixed.
var generalReplies = [3]func(metrics.Snapshot) string{
	func(m metrics.Snapshot) string {
		mood := "Let's work on improving this together."
		if m.NetPosition.IsPositive() {
			mood = "That's positive progress!"
		}
		return fmt.Sprintf("Based on your financial data, you have a net worth of %s. %s What specific area would you like to focus on?",
			core.Dollars(m.NetPosition), mood)
	},
	func(m metrics.Snapshot) string {
		return fmt.Sprintf("I can help you with budgeting, saving strategies, investment advice, and expense optimization. Your current monthly expenses average $%s. What would you like to explore?",
			m.AverageExpense.StringFixed(0))
	},
	func(m metrics.Snapshot) string {
		return fmt.Sprintf("Looking at your spending patterns, I notice most of your expenses go to %s. Would you like tips on optimizing this category or discussing other financial goals?",
			m.MostExpensiveCategory)
	},
}

type Responder struct {
	picker Picker
}

// New returns a responder drawing fallback replies from picker. A nil picker
// uses the shared math/rand/v2 source.
func New(picker Picker) *Responder {
	if picker == nil {
		picker = globalPicker{}
	}
	return &Responder{picker: picker}
}

// Respond maps query to a reply using only the given snapshots.
func (r *Responder) Respond(query string, m metrics.Snapshot, goals []core.SavingsGoal) string {
	if rl, ok := match(query); ok {
		return rl.render(m, goals)
	}
	return generalReplies[r.picker.IntN(len(generalReplies))](m)
}

// Match reports which topic a query falls under.
func Match(query string) Topic {
	if rl, ok := match(query); ok {
		return rl.topic
	}
	return TopicGeneral
}

// GeneralPool renders every fallback reply for m, in pool order.
func GeneralPool(m metrics.Snapshot) []string {
	out := make([]string, len(generalReplies))
	for i, fn := range generalReplies {
		out[i] = fn(m)
	}
	return out
}

func match(query string) (rule, bool) {
	q := strings.ToLower(query)
	for _, rl := range rules {
		for _, kw := range rl.keywords {
			if strings.Contains(q, kw) {
				return rl, true
			}
		}
	}
	return rule{}, false
}

func budgetReply(m metrics.Snapshot, _ []core.SavingsGoal) string {
	if m.OverBudgetCount > 0 {
		noun := "category"
		if m.OverBudgetCount > 1 {
			noun = "categories"
		}
		return fmt.Sprintf("I notice you're over budget in %d %s. Consider reducing spending in these areas or adjusting your budget limits. Would you like specific suggestions for cutting expenses?",
			m.OverBudgetCount, noun)
	}
	return "Your budgets look healthy! You're staying within limits across all categories. Keep up the good work with your spending discipline."
}

func savingReply(m metrics.Snapshot, _ []core.SavingsGoal) string {
	return fmt.Sprintf("You're %.1f%% towards your savings goals! Based on your current income of %s, I recommend saving at least 20%% monthly. Consider setting up automatic transfers to boost your savings rate.",
		m.SavingsRatio*100, core.Dollars(m.TotalIncome))
}

func incomeReply(m metrics.Snapshot, _ []core.SavingsGoal) string {
	return fmt.Sprintf("Your current income is %s. To improve your financial situation, consider: 1) Asking for a raise, 2) Starting a side hustle, 3) Investing in skills that increase your earning potential. What interests you most?",
		core.Dollars(m.TotalIncome))
}

func investReply(m metrics.Snapshot, _ []core.SavingsGoal) string {
	if m.NetPosition.GreaterThan(investThreshold) {
		return fmt.Sprintf("With your positive net worth of %s, you're in a good position to start investing. Consider low-cost index funds or ETFs as a starting point. Remember to maintain 3-6 months of emergency savings first!",
			core.Dollars(m.NetPosition))
	}
	return "Before investing, focus on building an emergency fund and paying off high-interest debt. Once you have a solid foundation, investing in diversified funds can help grow your wealth long-term."
}

func debtReply(metrics.Snapshot, []core.SavingsGoal) string {
	return "I don't see specific debt information in your current data. If you have debts, prioritize paying off high-interest debt first (like credit cards), while making minimum payments on others. The avalanche method can save you money on interest!"
}

func emergencyReply(m metrics.Snapshot, goals []core.SavingsGoal) string {
	for _, g := range goals {
		if !strings.Contains(strings.ToLower(g.Category), "emergency") {
			continue
		}
		progress := 0.0
		if !g.TargetAmount.IsZero() {
			progress = g.CurrentAmount.Div(g.TargetAmount).InexactFloat64() * 100
		}
		return fmt.Sprintf("Your emergency fund is %.1f%% complete at %s. Aim for 3-6 months of expenses. Based on your spending, you're making good progress!",
			progress, core.Dollars(g.CurrentAmount))
	}
	return fmt.Sprintf("Consider creating an emergency fund with 3-6 months of expenses. Based on your current spending patterns, this would be around %s to %s.",
		core.Dollars(m.TotalExpense.Mul(decimal.NewFromInt(3))), core.Dollars(m.TotalExpense.Mul(decimal.NewFromInt(6))))
}
