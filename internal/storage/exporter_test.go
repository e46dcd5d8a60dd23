package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"financeai/internal/core"
	"financeai/internal/store"

	"github.com/shopspring/decimal"
)

func newTestExporter(t *testing.T) *SQLiteExporter {
	t.Helper()
	exp, err := NewSQLiteExporter(filepath.Join(t.TempDir(), "nested", "export.db"))
	if err != nil {
		t.Fatalf("NewSQLiteExporter() error = %v", err)
	}
	t.Cleanup(func() { exp.Close() })
	return exp
}

func countRows(t *testing.T, exp *SQLiteExporter, table string) int {
	t.Helper()
	var n int
	if err := exp.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

func TestMigrationsApplied(t *testing.T) {
	exp := newTestExporter(t)

	v, dirty, err := SchemaVersion(exp.Path())
	if err != nil {
		t.Fatalf("SchemaVersion() error = %v", err)
	}
	if v != 1 || dirty {
		t.Fatalf("schema version = %d dirty=%v, want 1 clean", v, dirty)
	}

	// Running again on an up-to-date schema is a no-op.
	if err := RunMigrations(exp.Path()); err != nil {
		t.Fatalf("second RunMigrations() error = %v", err)
	}
}

func TestExportSeedState(t *testing.T) {
	exp := newTestExporter(t)
	ctx := context.Background()
	at := time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC)

	summary, err := exp.Export(ctx, store.SeedState(), at)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if summary.ID == 0 || summary.Transactions != 5 || summary.Budgets != 3 || summary.SavingsGoals != 2 || summary.ChatMessages != 0 {
		t.Fatalf("unexpected summary %+v", summary)
	}

	want := map[string]int{"transactions": 5, "budgets": 3, "savings_goals": 2, "chat_messages": 0}
	for table, n := range want {
		if got := countRows(t, exp, table); got != n {
			t.Errorf("%s rows = %d, want %d", table, got, n)
		}
	}

	var amount, date string
	err = exp.db.QueryRow(`SELECT amount, date FROM transactions WHERE position = 0`).Scan(&amount, &date)
	if err != nil {
		t.Fatal(err)
	}
	if amount != "5000" || date != "2025-01-01" {
		t.Fatalf("first transaction = %s on %s", amount, date)
	}
}

func TestExportReplacesPreviousSnapshot(t *testing.T) {
	exp := newTestExporter(t)
	ctx := context.Background()
	st := store.NewSeeded()

	if _, err := exp.Export(ctx, st.Snapshot(), time.Now()); err != nil {
		t.Fatal(err)
	}

	st.RecordTransaction(ctx, core.Transaction{
		Kind: core.Expense, Amount: decimal.RequireFromString("19.99"), Category: "Groceries",
		Description: "Snacks", Date: core.NewDate(2025, 1, 7),
	})
	st.AppendChatMessage(ctx, core.ChatMessage{Content: "hi", Sender: core.User})

	if _, err := exp.Export(ctx, st.Snapshot(), time.Now()); err != nil {
		t.Fatal(err)
	}

	if got := countRows(t, exp, "transactions"); got != 6 {
		t.Fatalf("transactions = %d, want 6", got)
	}
	if got := countRows(t, exp, "chat_messages"); got != 1 {
		t.Fatalf("chat_messages = %d, want 1", got)
	}
	n, err := exp.ExportCount(ctx)
	if err != nil || n != 2 {
		t.Fatalf("ExportCount() = %d, %v; want 2", n, err)
	}

	var spent string
	if err := exp.db.QueryRow(`SELECT spent FROM budgets WHERE category = 'Groceries'`).Scan(&spent); err != nil {
		t.Fatal(err)
	}
	if spent != "469.99" {
		t.Fatalf("groceries spent = %s, want 469.99", spent)
	}
}

func TestExportCancelledContext(t *testing.T) {
	exp := newTestExporter(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := exp.Export(ctx, store.SeedState(), time.Now()); err == nil {
		t.Fatal("expected error for cancelled context")
	}
	if n, _ := exp.ExportCount(context.Background()); n != 0 {
		t.Fatalf("cancelled export must not be recorded, count = %d", n)
	}
}
