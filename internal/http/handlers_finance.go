package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"financeai/internal/core"
	"financeai/internal/log"
	"financeai/internal/metrics"
)

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	NewResponse().JSON(s.finance.Snapshot()).Write(w)
}

func handleCategories(w http.ResponseWriter, _ *http.Request) {
	NewResponse().JSON(map[string][]string{
		"expense": core.ExpenseCategories,
		"income":  core.IncomeCategories,
		"budget":  core.BudgetCategories,
		"goal":    core.GoalCategories,
	}).Write(w)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	days, err := parseDays(r.URL.Query(), s.dashboardDays)
	if err != nil {
		errorFor(err).Write(w)
		return
	}
	NewResponse().JSON(metrics.Summarize(s.finance.Snapshot(), s.now(), days)).Write(w)
}

func (s *Server) handleSetLoading(w http.ResponseWriter, r *http.Request) {
	var req loadingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		errorFor(err).Write(w)
		return
	}
	if req.Loading == nil {
		BadRequestError("loading is required").Write(w)
		return
	}
	s.finance.SetLoading(r.Context(), *req.Loading)
	NewResponse().Status(http.StatusNoContent).Write(w)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if s.exporter == nil {
		ServiceUnavailableError("export is not configured").Write(w)
		return
	}
	summary, err := s.exporter.Export(r.Context(), s.finance.Snapshot(), s.now())
	if err != nil {
		log.FromContext(r.Context()).WithComponent(log.ComponentStorage).
			ErrorContext(r.Context(), "Export failed", log.FieldOperation, log.OpExport, log.FieldError, err)
		InternalServerError("export failed").Write(w)
		return
	}
	NewResponse().JSON(summary).Write(w)
}

// handleListTransactions returns transactions newest first, optionally
// filtered by kind and a case-insensitive search over description and
// category.
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	kind := core.Kind(strings.ToLower(strings.TrimSpace(q.Get("kind"))))
	if kind != "" && !kind.Valid() {
		errorFor(core.ErrInvalidKind).Write(w)
		return
	}
	search := strings.ToLower(sanitizeInput(q.Get("q")))

	all := s.finance.Store().Transactions()
	out := make([]core.Transaction, 0, len(all))
	for _, tx := range all {
		if kind != "" && tx.Kind != kind {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(tx.Description), search) &&
			!strings.Contains(strings.ToLower(tx.Category), search) {
			continue
		}
		out = append(out, tx)
	}
	NewResponse().JSON(out).Write(w)
}

type recordedTransaction struct {
	Transaction core.Transaction `json:"transaction"`
	Budget      *core.Budget     `json:"budget"`
}

func (s *Server) handleRecordTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		errorFor(err).Write(w)
		return
	}
	tx, err := req.toTransaction(s.now())
	if err != nil {
		errorFor(err).Write(w)
		return
	}
	stored, budget := s.finance.RecordTransaction(r.Context(), tx)
	NewResponse().Status(http.StatusCreated).
		JSON(recordedTransaction{Transaction: stored, Budget: budget}).
		Write(w)
}

func (s *Server) handleListBudgets(w http.ResponseWriter, _ *http.Request) {
	NewResponse().JSON(metrics.BudgetStatuses(s.finance.Snapshot())).Write(w)
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		errorFor(err).Write(w)
		return
	}
	b, err := req.toBudget()
	if err != nil {
		errorFor(err).Write(w)
		return
	}
	created, err := s.finance.CreateBudget(r.Context(), b)
	if err != nil {
		errorFor(err).Write(w)
		return
	}
	NewResponse().Status(http.StatusCreated).JSON(created).Write(w)
}

func (s *Server) handleReviseBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		errorFor(err).Write(w)
		return
	}
	upd, err := req.toUpdate()
	if err != nil {
		errorFor(err).Write(w)
		return
	}
	b, found, err := s.finance.ReviseBudget(r.Context(), chi.URLParam(r, "id"), upd)
	if !found {
		NotFoundError("budget not found").Write(w)
		return
	}
	if err != nil {
		errorFor(err).Write(w)
		return
	}
	NewResponse().JSON(b).Write(w)
}

func (s *Server) handleListGoals(w http.ResponseWriter, _ *http.Request) {
	NewResponse().JSON(metrics.GoalProgresses(s.finance.Snapshot(), s.now())).Write(w)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		errorFor(err).Write(w)
		return
	}
	g, err := req.toGoal()
	if err != nil {
		errorFor(err).Write(w)
		return
	}
	NewResponse().Status(http.StatusCreated).
		JSON(s.finance.CreateSavingsGoal(r.Context(), g)).
		Write(w)
}

func (s *Server) handleContribute(w http.ResponseWriter, r *http.Request) {
	var req contributionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		errorFor(err).Write(w)
		return
	}
	amount, err := req.Amount.parsePositive("amount")
	if err != nil {
		errorFor(err).Write(w)
		return
	}
	g, found := s.finance.ContributeToGoal(r.Context(), chi.URLParam(r, "id"), amount)
	if !found {
		NotFoundError("savings goal not found").Write(w)
		return
	}
	NewResponse().JSON(g).Write(w)
}
