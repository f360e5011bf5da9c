package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/sellhub/pos-backend/internal/expense/domain"
	userhttp "github.com/sellhub/pos-backend/internal/user/delivery/http"
	userdomain "github.com/sellhub/pos-backend/internal/user/domain"
	"github.com/sellhub/pos-backend/pkg/logger"
	"github.com/sellhub/pos-backend/pkg/validator"
)

// ExpenseHandler handles HTTP requests for expenses
type ExpenseHandler struct {
	repo domain.ExpenseRepository
}

// NewExpenseHandler creates a new expense handler
func NewExpenseHandler(repo domain.ExpenseRepository) *ExpenseHandler {
	return &ExpenseHandler{repo: repo}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Fields  interface{} `json:"fields,omitempty"`
}

type expenseRequest struct {
	Type   string          `json:"type" validate:"required,max=50"`
	Amount decimal.Decimal `json:"amount" validate:"decimal_gte_zero"`
	Date   time.Time       `json:"date" validate:"required"`
	Note   string          `json:"note"`
}

// CreateExpense handles POST /api/expenses
func (h *ExpenseHandler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	if fields := validator.ValidateStruct(req); len(fields) > 0 {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Validation failed", Fields: fields})
		return
	}

	expense := &domain.Expense{
		ID:        uuid.New(),
		Type:      req.Type,
		Amount:    req.Amount,
		Date:      req.Date,
		Note:      req.Note,
		CreatedBy: userhttp.UserID(r),
	}

	if err := h.repo.Create(r.Context(), expense); err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to create expense")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to create expense"})
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Expense created successfully",
		Data:    expense,
	})
}

// GetExpense handles GET /api/expenses/{id}
func (h *ExpenseHandler) GetExpense(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid expense ID"})
		return
	}

	expense, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		respondJSON(w, statusFor(err), Response{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: expense})
}

// ListExpenses handles GET /api/expenses, optionally bounded by from/to
func (h *ExpenseHandler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	from, to, err := dateRange(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	var expenses []domain.Expense
	if !from.IsZero() {
		expenses, err = h.repo.FindByDateRange(r.Context(), from, to)
	} else {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		if limit == 0 {
			limit = 50
		}
		expenses, err = h.repo.FindAll(r.Context(), limit, offset)
	}
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list expenses")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to list expenses"})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: expenses})
}

// Totals handles GET /api/expenses/totals?from=&to=
func (h *ExpenseHandler) Totals(w http.ResponseWriter, r *http.Request) {
	from, to, err := dateRange(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}
	if from.IsZero() {
		// Default to the current month
		now := time.Now()
		from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		to = from.AddDate(0, 1, 0)
	}

	totals, err := h.repo.TotalsByType(r.Context(), from, to)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to total expenses")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to total expenses"})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: totals})
}

// UpdateExpense handles PUT /api/expenses/{id}
func (h *ExpenseHandler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid expense ID"})
		return
	}

	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	if fields := validator.ValidateStruct(req); len(fields) > 0 {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Validation failed", Fields: fields})
		return
	}

	expense, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		respondJSON(w, statusFor(err), Response{Success: false, Error: err.Error()})
		return
	}

	expense.Type = req.Type
	expense.Amount = req.Amount
	expense.Date = req.Date
	expense.Note = req.Note

	if err := h.repo.Update(r.Context(), expense); err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to update expense")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to update expense"})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Expense updated successfully",
		Data:    expense,
	})
}

// DeleteExpense handles DELETE /api/expenses/{id}
func (h *ExpenseHandler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid expense ID"})
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		respondJSON(w, statusFor(err), Response{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Expense deleted successfully"})
}

// RegisterRoutes registers all expense routes
func (h *ExpenseHandler) RegisterRoutes(router *mux.Router) {
	employee := func(next http.HandlerFunc) http.HandlerFunc {
		return userhttp.RequireRole(next, userdomain.RoleEmployee)
	}
	router.HandleFunc("/api/expenses", employee(h.ListExpenses)).Methods("GET")
	router.HandleFunc("/api/expenses", employee(h.CreateExpense)).Methods("POST")
	router.HandleFunc("/api/expenses/totals", employee(h.Totals)).Methods("GET")
	router.HandleFunc("/api/expenses/{id}", employee(h.GetExpense)).Methods("GET")
	router.HandleFunc("/api/expenses/{id}", userhttp.AdminMiddleware(h.UpdateExpense)).Methods("PUT")
	router.HandleFunc("/api/expenses/{id}", userhttp.AdminMiddleware(h.DeleteExpense)).Methods("DELETE")
}

// dateRange parses optional from/to query parameters. to defaults to now
// when only from is given.
func dateRange(r *http.Request) (time.Time, time.Time, error) {
	rawFrom := r.URL.Query().Get("from")
	if rawFrom == "" {
		return time.Time{}, time.Time{}, nil
	}
	from, err := time.Parse("2006-01-02", rawFrom)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("invalid from date, expected YYYY-MM-DD")
	}
	to := time.Now()
	if rawTo := r.URL.Query().Get("to"); rawTo != "" {
		to, err = time.Parse("2006-01-02", rawTo)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("invalid to date, expected YYYY-MM-DD")
		}
		to = to.AddDate(0, 0, 1)
	}
	return from, to, nil
}

func statusFor(err error) int {
	if errors.Is(err, domain.ErrExpenseNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
