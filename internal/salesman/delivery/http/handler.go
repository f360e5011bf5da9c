package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/sellhub/pos-backend/internal/salesman/domain"
	userhttp "github.com/sellhub/pos-backend/internal/user/delivery/http"
	userdomain "github.com/sellhub/pos-backend/internal/user/domain"
	"github.com/sellhub/pos-backend/pkg/logger"
	"github.com/sellhub/pos-backend/pkg/validator"
)

// SalesmanHandler handles HTTP requests for salesmen
type SalesmanHandler struct {
	repo domain.SalesmanRepository
}

// NewSalesmanHandler creates a new salesman handler
func NewSalesmanHandler(repo domain.SalesmanRepository) *SalesmanHandler {
	return &SalesmanHandler{repo: repo}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Fields  interface{} `json:"fields,omitempty"`
}

type salesmanRequest struct {
	Code           string          `json:"code" validate:"required,max=20"`
	Name           string          `json:"name" validate:"required,max=100"`
	Phone          string          `json:"phone" validate:"max=30"`
	CommissionRate decimal.Decimal `json:"commission_rate" validate:"decimal_gte_zero"`
	IsActive       *bool           `json:"is_active"`
}

// CreateSalesman handles POST /api/salesmen
func (h *SalesmanHandler) CreateSalesman(w http.ResponseWriter, r *http.Request) {
	var req salesmanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	if fields := validator.ValidateStruct(req); len(fields) > 0 {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Validation failed", Fields: fields})
		return
	}

	salesman := &domain.Salesman{
		ID:             uuid.New(),
		Code:           req.Code,
		Name:           req.Name,
		Phone:          req.Phone,
		CommissionRate: req.CommissionRate,
		IsActive:       true,
	}
	if req.IsActive != nil {
		salesman.IsActive = *req.IsActive
	}

	if err := h.repo.Create(r.Context(), salesman); err != nil {
		respondJSON(w, statusFor(err), Response{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Salesman created successfully",
		Data:    salesman,
	})
}

// GetSalesman handles GET /api/salesmen/{id}
func (h *SalesmanHandler) GetSalesman(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid salesman ID"})
		return
	}

	salesman, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		respondJSON(w, statusFor(err), Response{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: salesman})
}

// ListSalesmen handles GET /api/salesmen
func (h *SalesmanHandler) ListSalesmen(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if limit == 0 {
		limit = 50
	}

	salesmen, err := h.repo.FindAll(r.Context(), limit, offset)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list salesmen")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to list salesmen"})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: salesmen})
}

// UpdateSalesman handles PUT /api/salesmen/{id}
func (h *SalesmanHandler) UpdateSalesman(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid salesman ID"})
		return
	}

	var req salesmanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	if fields := validator.ValidateStruct(req); len(fields) > 0 {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Validation failed", Fields: fields})
		return
	}

	salesman, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		respondJSON(w, statusFor(err), Response{Success: false, Error: err.Error()})
		return
	}

	salesman.Code = req.Code
	salesman.Name = req.Name
	salesman.Phone = req.Phone
	salesman.CommissionRate = req.CommissionRate
	if req.IsActive != nil {
		salesman.IsActive = *req.IsActive
	}

	if err := h.repo.Update(r.Context(), salesman); err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to update salesman")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to update salesman"})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Salesman updated successfully",
		Data:    salesman,
	})
}

// DeleteSalesman handles DELETE /api/salesmen/{id}
func (h *SalesmanHandler) DeleteSalesman(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid salesman ID"})
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		respondJSON(w, statusFor(err), Response{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Salesman deleted successfully"})
}

// RegisterRoutes registers all salesman routes
func (h *SalesmanHandler) RegisterRoutes(router *mux.Router) {
	employee := func(next http.HandlerFunc) http.HandlerFunc {
		return userhttp.RequireRole(next, userdomain.RoleEmployee)
	}
	router.HandleFunc("/api/salesmen", employee(h.ListSalesmen)).Methods("GET")
	router.HandleFunc("/api/salesmen", userhttp.AdminMiddleware(h.CreateSalesman)).Methods("POST")
	router.HandleFunc("/api/salesmen/{id}", employee(h.GetSalesman)).Methods("GET")
	router.HandleFunc("/api/salesmen/{id}", userhttp.AdminMiddleware(h.UpdateSalesman)).Methods("PUT")
	router.HandleFunc("/api/salesmen/{id}", userhttp.AdminMiddleware(h.DeleteSalesman)).Methods("DELETE")
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSalesmanNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateCode):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
