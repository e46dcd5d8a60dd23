// Package storage writes snapshots of the finance state to a SQLite file.
//
// The file is an export for offline inspection. Nothing in the application
// reads it back, so every session still starts from the seed.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"financeai/internal/core"

	_ "modernc.org/sqlite"
)

// ExportSummary describes one completed export.
type ExportSummary struct {
	ID           int64     `json:"id"`
	ExportedAt   time.Time `json:"exported_at"`
	Transactions int       `json:"transactions"`
	Budgets      int       `json:"budgets"`
	SavingsGoals int       `json:"savings_goals"`
	ChatMessages int       `json:"chat_messages"`
}

type SQLiteExporter struct {
	db   *sql.DB
	path string
}

func NewSQLiteExporter(dbPath string) (*SQLiteExporter, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// A single connection keeps writes serialised in SQLite.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteExporter{db: db, path: dbPath}, nil
}

func (e *SQLiteExporter) Path() string {
	return e.path
}

func (e *SQLiteExporter) Close() error {
	if e.db != nil {
		return e.db.Close()
	}
	return nil
}

// Export replaces the previous snapshot with s in a single transaction and
// records the run in the exports table.
func (e *SQLiteExporter) Export(ctx context.Context, s core.State, at time.Time) (ExportSummary, error) {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return ExportSummary{}, fmt.Errorf("begin export: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"transactions", "budgets", "savings_goals", "chat_messages"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return ExportSummary{}, fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for i, t := range s.Transactions {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO transactions (id, position, kind, amount, category, description, date) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			t.ID, i, string(t.Kind), t.Amount.String(), t.Category, t.Description, t.Date.String())
		if err != nil {
			return ExportSummary{}, fmt.Errorf("insert transaction %s: %w", t.ID, err)
		}
	}

	for i, b := range s.Budgets {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO budgets (id, position, category, limit_amount, spent, period) VALUES (?, ?, ?, ?, ?, ?)`,
			b.ID, i, b.Category, b.Limit.String(), b.Spent.String(), string(b.Period))
		if err != nil {
			return ExportSummary{}, fmt.Errorf("insert budget %s: %w", b.ID, err)
		}
	}

	for i, g := range s.SavingsGoals {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO savings_goals (id, position, title, target_amount, current_amount, deadline, category) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			g.ID, i, g.Title, g.TargetAmount.String(), g.CurrentAmount.String(), g.Deadline.String(), g.Category)
		if err != nil {
			return ExportSummary{}, fmt.Errorf("insert savings goal %s: %w", g.ID, err)
		}
	}

	for i, m := range s.ChatHistory {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO chat_messages (id, position, content, sender, sent_at) VALUES (?, ?, ?, ?, ?)`,
			m.ID, i, m.Content, string(m.Sender), m.Timestamp.UTC())
		if err != nil {
			return ExportSummary{}, fmt.Errorf("insert chat message %s: %w", m.ID, err)
		}
	}

	summary := ExportSummary{
		ExportedAt:   at.UTC(),
		Transactions: len(s.Transactions),
		Budgets:      len(s.Budgets),
		SavingsGoals: len(s.SavingsGoals),
		ChatMessages: len(s.ChatHistory),
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO exports (exported_at, transaction_count, budget_count, goal_count, message_count) VALUES (?, ?, ?, ?, ?)`,
		summary.ExportedAt, summary.Transactions, summary.Budgets, summary.SavingsGoals, summary.ChatMessages)
	if err != nil {
		return ExportSummary{}, fmt.Errorf("record export: %w", err)
	}
	if summary.ID, err = res.LastInsertId(); err != nil {
		return ExportSummary{}, fmt.Errorf("read export id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return ExportSummary{}, fmt.Errorf("commit export: %w", err)
	}

	slog.InfoContext(ctx, "State exported to SQLite",
		"export_id", summary.ID,
		"path", e.path,
		"transactions", summary.Transactions,
		"budgets", summary.Budgets,
		"savings_goals", summary.SavingsGoals,
		"chat_messages", summary.ChatMessages)
	return summary, nil
}

// ExportCount returns how many exports have been written to this file.
func (e *SQLiteExporter) ExportCount(ctx context.Context) (int, error) {
	var n int
	if err := e.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM exports`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count exports: %w", err)
	}
	return n, nil
}
