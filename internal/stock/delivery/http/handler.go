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

	productdomain "github.com/sellhub/pos-backend/internal/product/domain"
	"github.com/sellhub/pos-backend/internal/stock"
	"github.com/sellhub/pos-backend/internal/stock/domain"
	userhttp "github.com/sellhub/pos-backend/internal/user/delivery/http"
	userdomain "github.com/sellhub/pos-backend/internal/user/domain"
	"github.com/sellhub/pos-backend/pkg/logger"
)

// StockHandler handles HTTP requests for stock entries
type StockHandler struct {
	coordinator *stock.Coordinator
	ledger      domain.LedgerRepository

	mutationCounter *prometheus.CounterVec
	rejectedCounter *prometheus.CounterVec
}

// NewStockHandler creates a new stock handler
func NewStockHandler(coordinator *stock.Coordinator, ledger domain.LedgerRepository) *StockHandler {
	mutationCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stock_mutations_total",
			Help: "Total number of applied stock mutations",
		},
		[]string{"kind"},
	)
	rejectedCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stock_mutations_rejected_total",
			Help: "Total number of rejected stock mutations",
		},
		[]string{"reason"},
	)
	prometheus.MustRegister(mutationCounter)
	prometheus.MustRegister(rejectedCounter)

	return &StockHandler{
		coordinator:     coordinator,
		ledger:          ledger,
		mutationCounter: mutationCounter,
		rejectedCounter: rejectedCounter,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// CreateEntry handles POST /api/stock/entries, the manual mutation
// endpoint for receiving, corrections and write-offs
func (h *StockHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID     uuid.UUID  `json:"product_id"`
		Qty           int        `json:"qty"`
		Kind          string     `json:"kind"`
		Location      string     `json:"location"`
		Batch         string     `json:"batch"`
		Expiry        *time.Time `json:"expiry"`
		Ref           string     `json:"ref"`
		AllowNegative bool       `json:"allow_negative"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	// Negative balances are only ever reachable through corrective ADJUST
	// entries.
	if req.AllowNegative && req.Kind != domain.KindAdjust {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "allow_negative requires an ADJUST entry",
		})
		return
	}

	qty, err := h.coordinator.ApplyDelta(r.Context(), domain.Mutation{
		ProductID:     req.ProductID,
		Delta:         req.Qty,
		Kind:          req.Kind,
		Location:      req.Location,
		Batch:         req.Batch,
		Expiry:        req.Expiry,
		Ref:           req.Ref,
		AllowNegative: req.AllowNegative,
	})
	if err != nil {
		h.rejectedCounter.WithLabelValues(reason(err)).Inc()
		respondJSON(w, statusFor(err), Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}
	h.mutationCounter.WithLabelValues(req.Kind).Inc()

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Stock entry applied",
		Data:    map[string]interface{}{"quantity": qty},
	})
}

// GetEntry handles GET /api/stock/entries/{id}
func (h *StockHandler) GetEntry(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid entry ID",
		})
		return
	}

	entry, err := h.ledger.FindByID(r.Context(), id)
	if err != nil {
		respondJSON(w, statusFor(err), Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    entry,
	})
}

// ListEntries handles GET /api/stock/entries
func (h *StockHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if limit == 0 {
		limit = 50
	}

	entries, err := h.ledger.FindAll(r.Context(), limit, offset)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list stock entries")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to list stock entries",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    entries,
	})
}

// ProductHistory handles GET /api/stock/products/{id}/entries
func (h *StockHandler) ProductHistory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid product ID",
		})
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if limit == 0 {
		limit = 50
	}

	entries, err := h.ledger.FindByProduct(r.Context(), id, limit, offset)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to load stock history")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to load stock history",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    entries,
	})
}

// VerifyProduct handles GET /api/stock/products/{id}/verify and reports
// whether the ledger still sums to the on-hand quantity
func (h *StockHandler) VerifyProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid product ID",
		})
		return
	}

	current, ledgerSum, err := h.coordinator.VerifyLedger(r.Context(), id)
	if err != nil {
		respondJSON(w, statusFor(err), Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"quantity":   current,
			"ledger_sum": ledgerSum,
			"consistent": current == ledgerSum,
		},
	})
}

// RegisterRoutes registers all stock routes
func (h *StockHandler) RegisterRoutes(router *mux.Router) {
	employee := func(next http.HandlerFunc) http.HandlerFunc {
		return userhttp.RequireRole(next, userdomain.RoleEmployee)
	}
	router.HandleFunc("/api/stock/entries", employee(h.ListEntries)).Methods("GET")
	router.HandleFunc("/api/stock/entries", userhttp.AdminMiddleware(h.CreateEntry)).Methods("POST")
	router.HandleFunc("/api/stock/entries/{id}", employee(h.GetEntry)).Methods("GET")
	router.HandleFunc("/api/stock/products/{id}/entries", employee(h.ProductHistory)).Methods("GET")
	router.HandleFunc("/api/stock/products/{id}/verify", userhttp.AdminMiddleware(h.VerifyProduct)).Methods("GET")
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, productdomain.ErrProductNotFound), errors.Is(err, domain.ErrEntryNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrInvalidKind),
		errors.Is(err, domain.ErrInvalidQuantity):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrConcurrentModification):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func reason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrConcurrentModification):
		return "concurrent_modification"
	case errors.Is(err, productdomain.ErrProductNotFound):
		return "product_not_found"
	default:
		return "invalid"
	}
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
