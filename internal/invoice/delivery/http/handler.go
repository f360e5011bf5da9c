package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/sellhub/pos-backend/internal/invoice/domain"
	"github.com/sellhub/pos-backend/internal/invoice/usecase/command"
	"github.com/sellhub/pos-backend/internal/invoice/usecase/query"
	productdomain "github.com/sellhub/pos-backend/internal/product/domain"
	stockdomain "github.com/sellhub/pos-backend/internal/stock/domain"
	userhttp "github.com/sellhub/pos-backend/internal/user/delivery/http"
	userdomain "github.com/sellhub/pos-backend/internal/user/domain"
	"github.com/sellhub/pos-backend/pkg/logger"
	"github.com/sellhub/pos-backend/pkg/validator"
)

// InvoiceHandler handles HTTP requests for invoices
type InvoiceHandler struct {
	createHandler *command.CreateInvoiceHandler
	statusHandler *command.UpdateStatusHandler
	paidHandler   *command.MarkPaidHandler
	deleteHandler *command.DeleteInvoiceHandler

	getHandler  *query.GetInvoiceHandler
	listHandler *query.ListInvoicesHandler

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(
	createHandler *command.CreateInvoiceHandler,
	statusHandler *command.UpdateStatusHandler,
	paidHandler *command.MarkPaidHandler,
	deleteHandler *command.DeleteInvoiceHandler,
	getHandler *query.GetInvoiceHandler,
	listHandler *query.ListInvoicesHandler,
) *InvoiceHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "invoice_service_requests_total",
			Help: "Total number of requests to invoice endpoints",
		},
		[]string{"method", "endpoint", "status"},
	)
	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "invoice_service_request_duration_seconds",
			Help:    "Duration of invoice requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)
	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)

	return &InvoiceHandler{
		createHandler:  createHandler,
		statusHandler:  statusHandler,
		paidHandler:    paidHandler,
		deleteHandler:  deleteHandler,
		getHandler:     getHandler,
		listHandler:    listHandler,
		requestCounter: requestCounter,
		requestLatency: requestLatency,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Fields  interface{} `json:"fields,omitempty"`
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// metricsMiddleware wraps handlers with Prometheus metrics
func (h *InvoiceHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
	}
}

type invoiceItemRequest struct {
	ProductID uuid.UUID        `json:"product_id" validate:"uuid_required"`
	Quantity  int              `json:"quantity" validate:"gt=0"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

type createInvoiceRequest struct {
	CustomerID *uuid.UUID           `json:"customer_id"`
	SalesmanID *uuid.UUID           `json:"salesman_id"`
	Items      []invoiceItemRequest `json:"items" validate:"required,min=1,dive"`
	Taxes      decimal.Decimal      `json:"taxes" validate:"decimal_gte_zero"`
	Discounts  decimal.Decimal      `json:"discounts" validate:"decimal_gte_zero"`
	Status     string               `json:"status"`
}

// CreateInvoice handles POST /api/invoices
func (h *InvoiceHandler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	var req createInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	if fields := validator.ValidateStruct(req); len(fields) > 0 {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Validation failed",
			Fields:  fields,
		})
		return
	}

	cmd := command.CreateInvoiceCommand{
		CustomerID: req.CustomerID,
		SalesmanID: req.SalesmanID,
		Taxes:      req.Taxes,
		Discounts:  req.Discounts,
		Status:     req.Status,
		UserID:     userhttp.UserID(r),
	}
	for _, item := range req.Items {
		cmd.Items = append(cmd.Items, command.ItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	invoice, err := h.createHandler.Handle(r.Context(), cmd)
	// A concurrent quantity change is worth one transparent retry before
	// surfacing the conflict.
	if errors.Is(err, stockdomain.ErrConcurrentModification) {
		invoice, err = h.createHandler.Handle(r.Context(), cmd)
	}
	if err != nil {
		logger.Warn(r.Context()).Err(err).Msg("Invoice creation rejected")
		respondJSON(w, statusFor(err), Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Invoice created successfully",
		Data:    invoice,
	})
}

// GetInvoice handles GET /api/invoices/{id}
func (h *InvoiceHandler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid invoice ID",
		})
		return
	}

	invoice, err := h.getHandler.Handle(r.Context(), query.GetInvoiceQuery{InvoiceID: id})
	if err != nil {
		respondJSON(w, statusFor(err), Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    invoice,
	})
}

// ListInvoices handles GET /api/invoices
func (h *InvoiceHandler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	q := query.ListInvoicesQuery{Limit: limit, Offset: offset}
	if raw := r.URL.Query().Get("customer_id"); raw != "" {
		customerID, err := uuid.Parse(raw)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, Response{
				Success: false,
				Error:   "Invalid customer ID",
			})
			return
		}
		q.CustomerID = &customerID
	}

	invoices, err := h.listHandler.Handle(r.Context(), q)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list invoices")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to list invoices",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    invoices,
	})
}

// UpdateStatus handles PATCH /api/invoices/{id}/status
func (h *InvoiceHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid invoice ID",
		})
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	cmd := command.UpdateStatusCommand{
		InvoiceID: id,
		Status:    req.Status,
		UserID:    userhttp.UserID(r),
	}

	invoice, err := h.statusHandler.Handle(r.Context(), cmd)
	if errors.Is(err, stockdomain.ErrConcurrentModification) {
		invoice, err = h.statusHandler.Handle(r.Context(), cmd)
	}
	if err != nil {
		respondJSON(w, statusFor(err), Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Invoice status updated",
		Data:    invoice,
	})
}

// MarkPaid handles POST /api/invoices/{id}/pay
func (h *InvoiceHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid invoice ID",
		})
		return
	}

	cmd := command.MarkPaidCommand{InvoiceID: id, UserID: userhttp.UserID(r)}
	invoice, err := h.paidHandler.Handle(r.Context(), cmd)
	if errors.Is(err, stockdomain.ErrConcurrentModification) {
		invoice, err = h.paidHandler.Handle(r.Context(), cmd)
	}
	if err != nil {
		respondJSON(w, statusFor(err), Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Invoice marked as paid",
		Data:    invoice,
	})
}

// DeleteInvoice handles DELETE /api/invoices/{id}
func (h *InvoiceHandler) DeleteInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid invoice ID",
		})
		return
	}

	if err := h.deleteHandler.Handle(r.Context(), command.DeleteInvoiceCommand{
		InvoiceID: id,
		UserID:    userhttp.UserID(r),
	}); err != nil {
		respondJSON(w, statusFor(err), Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Invoice deleted successfully",
	})
}

// RegisterRoutes registers all invoice routes
func (h *InvoiceHandler) RegisterRoutes(router *mux.Router) {
	cashier := func(next http.HandlerFunc) http.HandlerFunc {
		return userhttp.RequireRole(next, userdomain.RoleCashier)
	}
	employee := func(next http.HandlerFunc) http.HandlerFunc {
		return userhttp.RequireRole(next, userdomain.RoleEmployee)
	}
	router.HandleFunc("/api/invoices", h.metricsMiddleware("/api/invoices", cashier(h.ListInvoices))).Methods("GET")
	router.HandleFunc("/api/invoices", h.metricsMiddleware("/api/invoices", cashier(h.CreateInvoice))).Methods("POST")
	router.HandleFunc("/api/invoices/{id}", h.metricsMiddleware("/api/invoices/{id}", cashier(h.GetInvoice))).Methods("GET")
	router.HandleFunc("/api/invoices/{id}", h.metricsMiddleware("/api/invoices/{id}", userhttp.AdminMiddleware(h.DeleteInvoice))).Methods("DELETE")
	router.HandleFunc("/api/invoices/{id}/status", h.metricsMiddleware("/api/invoices/{id}/status", employee(h.UpdateStatus))).Methods("PATCH")
	router.HandleFunc("/api/invoices/{id}/pay", h.metricsMiddleware("/api/invoices/{id}/pay", cashier(h.MarkPaid))).Methods("POST")
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvoiceNotFound),
		errors.Is(err, productdomain.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, stockdomain.ErrConcurrentModification):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrNoItems),
		errors.Is(err, stockdomain.ErrInsufficientStock),
		errors.Is(err, stockdomain.ErrInvalidQuantity):
		return http.StatusBadRequest
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
