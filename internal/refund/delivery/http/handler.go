package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	invoicedomain "github.com/sellhub/pos-backend/internal/invoice/domain"
	"github.com/sellhub/pos-backend/internal/refund/domain"
	"github.com/sellhub/pos-backend/internal/refund/usecase/command"
	"github.com/sellhub/pos-backend/internal/refund/usecase/query"
	stockdomain "github.com/sellhub/pos-backend/internal/stock/domain"
	userhttp "github.com/sellhub/pos-backend/internal/user/delivery/http"
	userdomain "github.com/sellhub/pos-backend/internal/user/domain"
	"github.com/sellhub/pos-backend/pkg/logger"
	"github.com/sellhub/pos-backend/pkg/validator"
)

// RefundHandler handles HTTP requests for refunds
type RefundHandler struct {
	createHandler *command.CreateRefundHandler
	deleteHandler *command.DeleteRefundHandler
	getHandler    *query.GetRefundHandler
	listHandler   *query.ListRefundsHandler
}

// NewRefundHandler creates a new refund handler
func NewRefundHandler(
	createHandler *command.CreateRefundHandler,
	deleteHandler *command.DeleteRefundHandler,
	getHandler *query.GetRefundHandler,
	listHandler *query.ListRefundsHandler,
) *RefundHandler {
	return &RefundHandler{
		createHandler: createHandler,
		deleteHandler: deleteHandler,
		getHandler:    getHandler,
		listHandler:   listHandler,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Fields  interface{} `json:"fields,omitempty"`
}

type refundItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"uuid_required"`
	Quantity  int       `json:"quantity" validate:"gt=0"`
}

type createRefundRequest struct {
	InvoiceID uuid.UUID           `json:"invoice_id" validate:"uuid_required"`
	Items     []refundItemRequest `json:"items" validate:"required,min=1,dive"`
	Reason    string              `json:"reason" validate:"required"`
}

// CreateRefund handles POST /api/refunds
func (h *RefundHandler) CreateRefund(w http.ResponseWriter, r *http.Request) {
	var req createRefundRequest
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

	cmd := command.CreateRefundCommand{
		InvoiceID:   req.InvoiceID,
		Reason:      req.Reason,
		ProcessedBy: userhttp.UserID(r),
	}
	for _, item := range req.Items {
		cmd.Items = append(cmd.Items, command.ItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	refund, err := h.createHandler.Handle(r.Context(), cmd)
	if err != nil {
		logger.Warn(r.Context()).Err(err).Msg("Refund rejected")
		respondJSON(w, statusFor(err), Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Refund created successfully",
		Data:    refund,
	})
}

// GetRefund handles GET /api/refunds/{id}
func (h *RefundHandler) GetRefund(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid refund ID",
		})
		return
	}

	refund, err := h.getHandler.Handle(r.Context(), query.GetRefundQuery{RefundID: id})
	if err != nil {
		respondJSON(w, statusFor(err), Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    refund,
	})
}

// ListRefunds handles GET /api/refunds
func (h *RefundHandler) ListRefunds(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	q := query.ListRefundsQuery{Limit: limit, Offset: offset}
	if raw := r.URL.Query().Get("invoice_id"); raw != "" {
		invoiceID, err := uuid.Parse(raw)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, Response{
				Success: false,
				Error:   "Invalid invoice ID",
			})
			return
		}
		q.InvoiceID = &invoiceID
	}

	refunds, err := h.listHandler.Handle(r.Context(), q)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list refunds")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to list refunds",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    refunds,
	})
}

// DeleteRefund handles DELETE /api/refunds/{id}
func (h *RefundHandler) DeleteRefund(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid refund ID",
		})
		return
	}

	if err := h.deleteHandler.Handle(r.Context(), command.DeleteRefundCommand{
		RefundID: id,
		UserID:   userhttp.UserID(r),
	}); err != nil {
		respondJSON(w, statusFor(err), Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Refund deleted successfully",
	})
}

// RegisterRoutes registers all refund routes
func (h *RefundHandler) RegisterRoutes(router *mux.Router) {
	employee := func(next http.HandlerFunc) http.HandlerFunc {
		return userhttp.RequireRole(next, userdomain.RoleEmployee)
	}
	router.HandleFunc("/api/refunds", employee(h.ListRefunds)).Methods("GET")
	router.HandleFunc("/api/refunds", employee(h.CreateRefund)).Methods("POST")
	router.HandleFunc("/api/refunds/{id}", employee(h.GetRefund)).Methods("GET")
	router.HandleFunc("/api/refunds/{id}", userhttp.AdminMiddleware(h.DeleteRefund)).Methods("DELETE")
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrRefundNotFound),
		errors.Is(err, invoicedomain.ErrInvoiceNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrOverRefund),
		errors.Is(err, domain.ErrItemNotOnInvoice),
		errors.Is(err, domain.ErrInvoiceNotRefundable),
		errors.Is(err, domain.ErrNoItems),
		errors.Is(err, stockdomain.ErrInvalidQuantity):
		return http.StatusBadRequest
	case errors.Is(err, stockdomain.ErrConcurrentModification):
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
