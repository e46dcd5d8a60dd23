// Package http exposes the finance core as a JSON API.
//
// This file decodes request bodies into domain values. Decoding problems
// (malformed JSON, unknown fields) become 400s; values that decode but break
// a domain rule surface as the core sentinel errors and become 422s.

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"financeai/internal/core"

	"github.com/shopspring/decimal"
)

const maxBodyBytes = 64 << 10

type requestError struct {
	msg string
}

func (e *requestError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &requestError{msg: fmt.Sprintf(format, args...)}
}

// decodeJSON reads a single JSON object from r into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return badRequest("request body is empty")
		case errors.As(err, &maxErr):
			return badRequest("request body exceeds %d bytes", maxErr.Limit)
		default:
			return badRequest("malformed JSON: %v", err)
		}
	}
	if dec.More() {
		return badRequest("request body must contain a single JSON object")
	}
	return nil
}

// amountField accepts an amount written as a JSON string ("12,50") or number.
type amountField struct {
	raw string
	set bool
}

func (a *amountField) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	a.set = true
	if len(b) > 0 && b[0] == '"' {
		return json.Unmarshal(b, &a.raw)
	}
	a.raw = string(b)
	return nil
}

func (a amountField) parse(field string) (decimal.Decimal, error) {
	d, err := core.ParseAmount(sanitizeInput(a.raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", field, err)
	}
	return d, nil
}

func (a amountField) parsePositive(field string) (decimal.Decimal, error) {
	d, err := core.ParsePositiveAmount(sanitizeInput(a.raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", field, err)
	}
	return d, nil
}

type transactionRequest struct {
	Kind        string      `json:"kind"`
	Amount      amountField `json:"amount"`
	Category    string      `json:"category"`
	Description string      `json:"description"`
	Date        string      `json:"date"`
}

// toTransaction builds a validated transaction. A missing date means today.
func (req transactionRequest) toTransaction(today time.Time) (core.Transaction, error) {
	amount, err := req.Amount.parse("amount")
	if err != nil {
		return core.Transaction{}, err
	}
	date := core.DateOf(today)
	if s := sanitizeInput(req.Date); s != "" {
		if date, err = core.ParseDate(s); err != nil {
			return core.Transaction{}, badRequest("date must be YYYY-MM-DD")
		}
	}
	tx := core.Transaction{
		Kind:        core.Kind(strings.ToLower(sanitizeInput(req.Kind))),
		Amount:      amount,
		Category:    sanitizeInput(req.Category),
		Description: sanitizeInput(req.Description),
		Date:        date,
	}
	return tx, tx.Validate()
}

type budgetRequest struct {
	Category string      `json:"category"`
	Limit    amountField `json:"limit"`
	Spent    amountField `json:"spent"`
	Period   string      `json:"period"`
}

// toBudget builds a validated budget. Spent defaults to zero, period to monthly.
func (req budgetRequest) toBudget() (core.Budget, error) {
	limit, err := req.Limit.parse("limit")
	if err != nil {
		return core.Budget{}, err
	}
	spent := decimal.Zero
	if req.Spent.set {
		if spent, err = req.Spent.parse("spent"); err != nil {
			return core.Budget{}, err
		}
	}
	period := core.Monthly
	if p := sanitizeInput(req.Period); p != "" {
		period = core.BudgetPeriod(strings.ToLower(p))
	}
	b := core.Budget{
		Category: sanitizeInput(req.Category),
		Limit:    limit,
		Spent:    spent,
		Period:   period,
	}
	return b, b.Validate()
}

type budgetUpdateRequest struct {
	Category *string     `json:"category"`
	Limit    amountField `json:"limit"`
	Spent    amountField `json:"spent"`
	Period   *string     `json:"period"`
}

func (req budgetUpdateRequest) toUpdate() (core.BudgetUpdate, error) {
	var upd core.BudgetUpdate
	if req.Category != nil {
		c := sanitizeInput(*req.Category)
		upd.Category = &c
	}
	if req.Limit.set {
		l, err := req.Limit.parse("limit")
		if err != nil {
			return upd, err
		}
		upd.Limit = &l
	}
	if req.Spent.set {
		s, err := req.Spent.parse("spent")
		if err != nil {
			return upd, err
		}
		upd.Spent = &s
	}
	if req.Period != nil {
		p := core.BudgetPeriod(strings.ToLower(sanitizeInput(*req.Period)))
		upd.Period = &p
	}
	if upd == (core.BudgetUpdate{}) {
		return upd, badRequest("no fields to update")
	}
	return upd, upd.Validate()
}

type goalRequest struct {
	Title         string      `json:"title"`
	TargetAmount  amountField `json:"target_amount"`
	CurrentAmount amountField `json:"current_amount"`
	Deadline      string      `json:"deadline"`
	Category      string      `json:"category"`
}

func (req goalRequest) toGoal() (core.SavingsGoal, error) {
	target, err := req.TargetAmount.parse("target_amount")
	if err != nil {
		return core.SavingsGoal{}, err
	}
	current := decimal.Zero
	if req.CurrentAmount.set {
		if current, err = req.CurrentAmount.parse("current_amount"); err != nil {
			return core.SavingsGoal{}, err
		}
	}
	var deadline core.Date
	if s := sanitizeInput(req.Deadline); s != "" {
		if deadline, err = core.ParseDate(s); err != nil {
			return core.SavingsGoal{}, badRequest("deadline must be YYYY-MM-DD")
		}
	}
	g := core.SavingsGoal{
		Title:         sanitizeInput(req.Title),
		TargetAmount:  target,
		CurrentAmount: current,
		Deadline:      deadline,
		Category:      sanitizeInput(req.Category),
	}
	return g, g.Validate()
}

type contributionRequest struct {
	Amount amountField `json:"amount"`
}

type chatRequest struct {
	Message string `json:"message"`
}

type loadingRequest struct {
	Loading *bool `json:"loading"`
}

// parseDays reads the dashboard window from the query, falling back to def.
func parseDays(query url.Values, def int) (int, error) {
	v := strings.TrimSpace(query.Get("days"))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 || n > 366 {
		return 0, badRequest("days must be an integer between 1 and 366")
	}
	return n, nil
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
