package advisor

import (
	"math/rand/v2"
	"slices"
	"strings"
	"testing"

	"financeai/internal/core"
	"financeai/internal/metrics"
	"financeai/internal/store"

	"github.com/shopspring/decimal"
)

type fixedPicker int

func (p fixedPicker) IntN(int) int { return int(p) }

func seedSnapshot() (metrics.Snapshot, []core.SavingsGoal) {
	s := store.SeedState()
	return metrics.Snap(s), s.SavingsGoals
}

func TestMatchPriority(t *testing.T) {
	cases := []struct {
		query string
		want  Topic
	}{
		{"How is my BUDGET?", TopicBudget},
		{"spending habits", TopicBudget},
		{"I want to save more", TopicSaving},
		{"saving tips", TopicSaving},
		{"how to earn more", TopicIncome},
		{"should I invest", TopicInvesting},
		{"my student loan", TopicDebt},
		{"emergency", TopicEmergency},
		{"index fund", TopicEmergency},
		// budget outranks saving when both appear
		{"budget to save for a trip", TopicBudget},
		// income outranks investing
		{"investment income", TopicIncome},
		{"hello there", TopicGeneral},
		{"", TopicGeneral},
	}
	for _, tc := range cases {
		if got := Match(tc.query); got != tc.want {
			t.Errorf("Match(%q) = %s, want %s", tc.query, got, tc.want)
		}
	}
}

func TestBudgetRepliesFollowOverBudgetCount(t *testing.T) {
	r := New(nil)
	m, goals := seedSnapshot()

	healthy := r.Respond("how is my budget", m, goals)
	if !strings.HasPrefix(healthy, "Your budgets look healthy!") {
		t.Fatalf("expected healthy template, got %q", healthy)
	}

	m.OverBudgetCount = 1
	one := r.Respond("budget?", m, goals)
	if !strings.Contains(one, "over budget in 1 category.") {
		t.Fatalf("unexpected single over-budget reply %q", one)
	}
	m.OverBudgetCount = 2
	two := r.Respond("budget?", m, goals)
	if !strings.Contains(two, "over budget in 2 categories.") {
		t.Fatalf("unexpected plural over-budget reply %q", two)
	}
}

func TestSavingReply(t *testing.T) {
	m, goals := seedSnapshot()
	got := New(nil).Respond("saving", m, goals)
	want := "You're 57.0% towards your savings goals! Based on your current income of $5,000, I recommend saving at least 20% monthly."
	if !strings.HasPrefix(got, want) {
		t.Fatalf("got %q", got)
	}

	empty := metrics.Snap(core.State{})
	if got := New(nil).Respond("save", empty, nil); !strings.HasPrefix(got, "You're 0.0% towards") {
		t.Fatalf("empty goals should report 0.0%%, got %q", got)
	}
}

func TestIncomeReply(t *testing.T) {
	m, goals := seedSnapshot()
	if got := New(nil).Respond("income", m, goals); !strings.HasPrefix(got, "Your current income is $5,000.") {
		t.Fatalf("got %q", got)
	}
}

func TestInvestReplyThreshold(t *testing.T) {
	m, goals := seedSnapshot()
	got := New(nil).Respond("invest", m, goals)
	if !strings.HasPrefix(got, "With your positive net worth of $3,150,") {
		t.Fatalf("got %q", got)
	}
	m.NetPosition = decimal.NewFromInt(1000)
	if got := New(nil).Respond("invest", m, goals); !strings.HasPrefix(got, "Before investing") {
		t.Fatalf("net position of exactly 1000 should not qualify, got %q", got)
	}
}

func TestDebtReply(t *testing.T) {
	m, goals := seedSnapshot()
	if got := New(nil).Respond("Debt", m, goals); !strings.Contains(got, "avalanche method") {
		t.Fatalf("got %q", got)
	}
}

func TestEmergencyReply(t *testing.T) {
	m, goals := seedSnapshot()
	got := New(nil).Respond("emergency", m, goals)
	if got != "Your emergency fund is 65.0% complete at $6,500. Aim for 3-6 months of expenses. Based on your spending, you're making good progress!" {
		t.Fatalf("got %q", got)
	}

	noGoal := New(nil).Respond("emergency", m, goals[1:])
	if !strings.HasSuffix(noGoal, "this would be around $5,550 to $11,100.") {
		t.Fatalf("got %q", noGoal)
	}
}

func TestGeneralReplyIsFromPool(t *testing.T) {
	m, goals := seedSnapshot()
	pool := GeneralPool(m)
	if len(pool) != 3 {
		t.Fatalf("pool size = %d", len(pool))
	}

	r := New(rand.New(rand.NewPCG(1, 2)))
	for i := 0; i < 50; i++ {
		got := r.Respond("what's up?", m, goals)
		if !slices.Contains(pool, got) {
			t.Fatalf("reply %q is not in the generic pool", got)
		}
	}

	defaultRand := New(nil)
	for i := 0; i < 20; i++ {
		if got := defaultRand.Respond("tell me something", m, goals); !slices.Contains(pool, got) {
			t.Fatalf("reply %q is not in the generic pool", got)
		}
	}
}

func TestGeneralPoolContents(t *testing.T) {
	m, goals := seedSnapshot()
	cases := []struct {
		pick int
		want string
	}{
		{0, "Based on your financial data, you have a net worth of $3,150. That's positive progress!"},
		{1, "Your current monthly expenses average $463."},
		{2, "most of your expenses go to Rent."},
	}
	for _, tc := range cases {
		got := New(fixedPicker(tc.pick)).Respond("hmm", m, goals)
		if !strings.Contains(got, tc.want) {
			t.Errorf("pick %d: %q does not contain %q", tc.pick, got, tc.want)
		}
	}

	empty := metrics.Snap(core.State{})
	if got := New(fixedPicker(2)).Respond("hmm", empty, nil); !strings.Contains(got, "go to various categories.") {
		t.Fatalf("expected no-data sentinel, got %q", got)
	}
	if got := New(fixedPicker(0)).Respond("hmm", empty, nil); !strings.Contains(got, "Let's work on improving this together.") {
		t.Fatalf("zero net position should not be called positive, got %q", got)
	}
}
