package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/sellhub/pos-backend/internal/admin/domain"
	"github.com/sellhub/pos-backend/internal/admin/usecase/query"
	auditdomain "github.com/sellhub/pos-backend/internal/audit/domain"
	userhttp "github.com/sellhub/pos-backend/internal/user/delivery/http"
	"github.com/sellhub/pos-backend/pkg/logger"
	"github.com/sellhub/pos-backend/pkg/validator"
)

// AdminHandler handles admin dashboard, settings, and audit log requests
type AdminHandler struct {
	dashboard *query.DashboardHandler
	settings  domain.SettingsRepository
	audits    auditdomain.AuditRepository
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(
	dashboard *query.DashboardHandler,
	settings domain.SettingsRepository,
	audits auditdomain.AuditRepository,
) *AdminHandler {
	return &AdminHandler{dashboard: dashboard, settings: settings, audits: audits}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Fields  interface{} `json:"fields,omitempty"`
}

// Dashboard handles GET /api/admin/dashboard
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.dashboard.Handle(r.Context(), query.DashboardQuery{})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to build dashboard")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to build dashboard"})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: dashboard})
}

// GetSettings handles GET /api/admin/settings
func (h *AdminHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.Get(r.Context())
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to load settings")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to load settings"})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: settings})
}

type settingsRequest struct {
	StoreName         string          `json:"store_name" validate:"required,max=100"`
	Address           string          `json:"address"`
	Phone             string          `json:"phone" validate:"max=30"`
	Currency          string          `json:"currency" validate:"required,max=10"`
	DefaultTaxRate    decimal.Decimal `json:"default_tax_rate" validate:"decimal_gte_zero"`
	ReceiptFooter     string          `json:"receipt_footer"`
	LowStockThreshold int             `json:"low_stock_threshold" validate:"gte=0"`
}

// UpdateSettings handles PUT /api/admin/settings
func (h *AdminHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	if fields := validator.ValidateStruct(req); len(fields) > 0 {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Validation failed", Fields: fields})
		return
	}

	settings, err := h.settings.Get(r.Context())
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to load settings")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to load settings"})
		return
	}

	settings.StoreName = req.StoreName
	settings.Address = req.Address
	settings.Phone = req.Phone
	settings.Currency = req.Currency
	settings.DefaultTaxRate = req.DefaultTaxRate
	settings.ReceiptFooter = req.ReceiptFooter
	settings.LowStockThreshold = req.LowStockThreshold

	if err := h.settings.Update(r.Context(), settings); err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to update settings")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to update settings"})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Settings updated successfully",
		Data:    settings,
	})
}

// AuditLogs handles GET /api/admin/audit-logs with an optional entity filter
func (h *AdminHandler) AuditLogs(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if limit == 0 {
		limit = 100
	}

	logs, err := h.audits.FindAll(r.Context(), r.URL.Query().Get("entity"), limit, offset)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to load audit logs")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to load audit logs"})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: logs})
}

// RegisterRoutes registers all admin routes behind the admin-only middleware
func (h *AdminHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/admin/dashboard", userhttp.AdminMiddleware(h.Dashboard)).Methods("GET")
	router.HandleFunc("/api/admin/settings", userhttp.AdminMiddleware(h.GetSettings)).Methods("GET")
	router.HandleFunc("/api/admin/settings", userhttp.AdminMiddleware(h.UpdateSettings)).Methods("PUT")
	router.HandleFunc("/api/admin/audit-logs", userhttp.AdminMiddleware(h.AuditLogs)).Methods("GET")
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
