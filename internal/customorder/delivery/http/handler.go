package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/sellhub/pos-backend/internal/customorder/domain"
	invoicedomain "github.com/sellhub/pos-backend/internal/invoice/domain"
	userhttp "github.com/sellhub/pos-backend/internal/user/delivery/http"
	userdomain "github.com/sellhub/pos-backend/internal/user/domain"
	"github.com/sellhub/pos-backend/pkg/logger"
	"github.com/sellhub/pos-backend/pkg/validator"
)

// CustomOrderHandler handles HTTP requests for custom orders
type CustomOrderHandler struct {
	repo     domain.CustomOrderRepository
	invoices invoicedomain.InvoiceRepository
}

// NewCustomOrderHandler creates a new custom order handler
func NewCustomOrderHandler(repo domain.CustomOrderRepository, invoices invoicedomain.InvoiceRepository) *CustomOrderHandler {
	return &CustomOrderHandler{repo: repo, invoices: invoices}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Fields  interface{} `json:"fields,omitempty"`
}

type orderRequest struct {
	CustomerID  *uuid.UUID      `json:"customer_id"`
	Description string          `json:"description" validate:"required,max=200"`
	Details     string          `json:"details"`
	Quote       decimal.Decimal `json:"quote" validate:"decimal_gte_zero"`
	DueDate     *time.Time      `json:"due_date"`
}

// CreateOrder handles POST /api/custom-orders
func (h *CustomOrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	if fields := validator.ValidateStruct(req); len(fields) > 0 {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Validation failed", Fields: fields})
		return
	}

	order := &domain.CustomOrder{
		ID:          uuid.New(),
		CustomerID:  req.CustomerID,
		Description: req.Description,
		Details:     req.Details,
		Quote:       req.Quote,
		Status:      domain.StatusPending,
		DueDate:     req.DueDate,
	}

	if err := h.repo.Create(r.Context(), order); err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to create custom order")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to create custom order"})
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Custom order created successfully",
		Data:    order,
	})
}

// GetOrder handles GET /api/custom-orders/{id}
func (h *CustomOrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid order ID"})
		return
	}

	order, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		respondJSON(w, statusFor(err), Response{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: order})
}

// ListOrders handles GET /api/custom-orders with optional status filter
func (h *CustomOrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if limit == 0 {
		limit = 50
	}

	status := r.URL.Query().Get("status")
	if status != "" && !domain.ValidStatus(status) {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid status filter"})
		return
	}

	orders, err := h.repo.FindAll(r.Context(), status, limit, offset)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list custom orders")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to list custom orders"})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: orders})
}

// UpdateOrder handles PUT /api/custom-orders/{id}
func (h *CustomOrderHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid order ID"})
		return
	}

	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	if fields := validator.ValidateStruct(req); len(fields) > 0 {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Validation failed", Fields: fields})
		return
	}

	order, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		respondJSON(w, statusFor(err), Response{Success: false, Error: err.Error()})
		return
	}

	order.CustomerID = req.CustomerID
	order.Description = req.Description
	order.Details = req.Details
	order.Quote = req.Quote
	order.DueDate = req.DueDate

	if err := h.repo.Update(r.Context(), order); err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to update custom order")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to update custom order"})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Custom order updated successfully",
		Data:    order,
	})
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateStatus handles PATCH /api/custom-orders/{id}/status
func (h *CustomOrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid order ID"})
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}
	if !domain.ValidStatus(req.Status) {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: domain.ErrInvalidStatus.Error()})
		return
	}

	order, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		respondJSON(w, statusFor(err), Response{Success: false, Error: err.Error()})
		return
	}

	if !domain.CanTransition(order.Status, req.Status) {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   fmt.Sprintf("cannot transition order from %s to %s", order.Status, req.Status),
		})
		return
	}

	order.Status = req.Status
	if err := h.repo.Update(r.Context(), order); err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to update custom order status")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to update custom order"})
		return
	}

	logger.Info(r.Context()).
		Str("order_id", order.ID.String()).
		Str("status", order.Status).
		Msg("Custom order status updated")

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Order status updated successfully",
		Data:    order,
	})
}

type linkRequest struct {
	InvoiceID uuid.UUID `json:"invoice_id" validate:"uuid_required"`
}

// LinkInvoice handles POST /api/custom-orders/{id}/invoice
func (h *CustomOrderHandler) LinkInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid order ID"})
		return
	}

	var req linkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	if fields := validator.ValidateStruct(req); len(fields) > 0 {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Validation failed", Fields: fields})
		return
	}

	order, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		respondJSON(w, statusFor(err), Response{Success: false, Error: err.Error()})
		return
	}
	if order.InvoiceID != nil {
		respondJSON(w, http.StatusConflict, Response{Success: false, Error: domain.ErrAlreadyLinked.Error()})
		return
	}

	if _, err := h.invoices.FindByID(r.Context(), req.InvoiceID); err != nil {
		if errors.Is(err, invoicedomain.ErrInvoiceNotFound) {
			respondJSON(w, http.StatusNotFound, Response{Success: false, Error: err.Error()})
			return
		}
		logger.Error(r.Context()).Err(err).Msg("Failed to look up invoice for order link")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to link invoice"})
		return
	}

	order.InvoiceID = &req.InvoiceID
	if err := h.repo.Update(r.Context(), order); err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to link invoice to custom order")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to link invoice"})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Invoice linked to order successfully",
		Data:    order,
	})
}

// DeleteOrder handles DELETE /api/custom-orders/{id}
func (h *CustomOrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid order ID"})
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		respondJSON(w, statusFor(err), Response{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Custom order deleted successfully"})
}

// RegisterRoutes registers all custom order routes
func (h *CustomOrderHandler) RegisterRoutes(router *mux.Router) {
	employee := func(next http.HandlerFunc) http.HandlerFunc {
		return userhttp.RequireRole(next, userdomain.RoleEmployee)
	}
	router.HandleFunc("/api/custom-orders", employee(h.ListOrders)).Methods("GET")
	router.HandleFunc("/api/custom-orders", employee(h.CreateOrder)).Methods("POST")
	router.HandleFunc("/api/custom-orders/{id}", employee(h.GetOrder)).Methods("GET")
	router.HandleFunc("/api/custom-orders/{id}", employee(h.UpdateOrder)).Methods("PUT")
	router.HandleFunc("/api/custom-orders/{id}", userhttp.AdminMiddleware(h.DeleteOrder)).Methods("DELETE")
	router.HandleFunc("/api/custom-orders/{id}/status", employee(h.UpdateStatus)).Methods("PATCH")
	router.HandleFunc("/api/custom-orders/{id}/invoice", employee(h.LinkInvoice)).Methods("POST")
}

func statusFor(err error) int {
	if errors.Is(err, domain.ErrOrderNotFound) {
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
