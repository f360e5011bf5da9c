package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/sellhub/pos-backend/internal/customer/domain"
	userhttp "github.com/sellhub/pos-backend/internal/user/delivery/http"
	userdomain "github.com/sellhub/pos-backend/internal/user/domain"
	"github.com/sellhub/pos-backend/pkg/logger"
	"github.com/sellhub/pos-backend/pkg/validator"
)

// CustomerHandler handles HTTP requests for customers
type CustomerHandler struct {
	repo domain.CustomerRepository
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(repo domain.CustomerRepository) *CustomerHandler {
	return &CustomerHandler{repo: repo}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Fields  interface{} `json:"fields,omitempty"`
}

type customerRequest struct {
	Name        string          `json:"name" validate:"required,max=100"`
	Phone       string          `json:"phone" validate:"max=30"`
	Email       string          `json:"email" validate:"omitempty,email"`
	Address     string          `json:"address"`
	City        string          `json:"city" validate:"max=50"`
	CreditLimit decimal.Decimal `json:"credit_limit" validate:"decimal_gte_zero"`
	Notes       string          `json:"notes"`
}

// CreateCustomer handles POST /api/customers
func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	if fields := validator.ValidateStruct(req); len(fields) > 0 {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Validation failed", Fields: fields})
		return
	}

	customer := &domain.Customer{
		ID:          uuid.New(),
		Name:        req.Name,
		Phone:       req.Phone,
		Email:       req.Email,
		Address:     req.Address,
		City:        req.City,
		CreditLimit: req.CreditLimit,
		Notes:       req.Notes,
	}

	if err := h.repo.Create(r.Context(), customer); err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to create customer")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to create customer"})
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Customer created successfully",
		Data:    customer,
	})
}

// GetCustomer handles GET /api/customers/{id}
func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid customer ID"})
		return
	}

	customer, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		respondJSON(w, statusFor(err), Response{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: customer})
}

// ListCustomers handles GET /api/customers with optional search term
func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if limit == 0 {
		limit = 50
	}

	var (
		customers []domain.Customer
		err       error
	)
	if term := r.URL.Query().Get("q"); term != "" {
		customers, err = h.repo.Search(r.Context(), term, limit, offset)
	} else {
		customers, err = h.repo.FindAll(r.Context(), limit, offset)
	}
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list customers")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to list customers"})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: customers})
}

// UpdateCustomer handles PUT /api/customers/{id}
func (h *CustomerHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid customer ID"})
		return
	}

	var req customerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	if fields := validator.ValidateStruct(req); len(fields) > 0 {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Validation failed", Fields: fields})
		return
	}

	customer, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		respondJSON(w, statusFor(err), Response{Success: false, Error: err.Error()})
		return
	}

	customer.Name = req.Name
	customer.Phone = req.Phone
	customer.Email = req.Email
	customer.Address = req.Address
	customer.City = req.City
	customer.CreditLimit = req.CreditLimit
	customer.Notes = req.Notes

	if err := h.repo.Update(r.Context(), customer); err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to update customer")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to update customer"})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Customer updated successfully",
		Data:    customer,
	})
}

// DeleteCustomer handles DELETE /api/customers/{id}
func (h *CustomerHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid customer ID"})
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		respondJSON(w, statusFor(err), Response{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Customer deleted successfully"})
}

// RegisterRoutes registers all customer routes
func (h *CustomerHandler) RegisterRoutes(router *mux.Router) {
	cashier := func(next http.HandlerFunc) http.HandlerFunc {
		return userhttp.RequireRole(next, userdomain.RoleCashier)
	}
	employee := func(next http.HandlerFunc) http.HandlerFunc {
		return userhttp.RequireRole(next, userdomain.RoleEmployee)
	}
	router.HandleFunc("/api/customers", cashier(h.ListCustomers)).Methods("GET")
	router.HandleFunc("/api/customers", userhttp.AdminMiddleware(h.CreateCustomer)).Methods("POST")
	router.HandleFunc("/api/customers/{id}", cashier(h.GetCustomer)).Methods("GET")
	router.HandleFunc("/api/customers/{id}", employee(h.UpdateCustomer)).Methods("PUT")
	router.HandleFunc("/api/customers/{id}", userhttp.AdminMiddleware(h.DeleteCustomer)).Methods("DELETE")
}

func statusFor(err error) int {
	if errors.Is(err, domain.ErrCustomerNotFound) {
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
