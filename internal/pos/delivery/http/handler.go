package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	invoicedomain "github.com/sellhub/pos-backend/internal/invoice/domain"
	"github.com/sellhub/pos-backend/internal/pos/domain"
	"github.com/sellhub/pos-backend/internal/pos/usecase/command"
	"github.com/sellhub/pos-backend/internal/pos/usecase/query"
	productdomain "github.com/sellhub/pos-backend/internal/product/domain"
	stockdomain "github.com/sellhub/pos-backend/internal/stock/domain"
	userhttp "github.com/sellhub/pos-backend/internal/user/delivery/http"
	userdomain "github.com/sellhub/pos-backend/internal/user/domain"
	"github.com/sellhub/pos-backend/pkg/logger"
	"github.com/sellhub/pos-backend/pkg/validator"
)

// POSHandler handles HTTP requests for counter operations
type POSHandler struct {
	quickSell     *command.QuickSellHandler
	openDrawer    *command.OpenDrawerHandler
	closeDrawer   *command.CloseDrawerHandler
	closeShift    *command.CloseShiftHandler
	dailyReport   *query.DailyReportHandler
	salesReport   *query.SalesReportHandler
	duplicateBill *query.DuplicateBillHandler
	events        domain.DrawerEventRepository
}

// NewPOSHandler creates a new POS handler
func NewPOSHandler(
	quickSell *command.QuickSellHandler,
	openDrawer *command.OpenDrawerHandler,
	closeDrawer *command.CloseDrawerHandler,
	closeShift *command.CloseShiftHandler,
	dailyReport *query.DailyReportHandler,
	salesReport *query.SalesReportHandler,
	duplicateBill *query.DuplicateBillHandler,
	events domain.DrawerEventRepository,
) *POSHandler {
	return &POSHandler{
		quickSell:     quickSell,
		openDrawer:    openDrawer,
		closeDrawer:   closeDrawer,
		closeShift:    closeShift,
		dailyReport:   dailyReport,
		salesReport:   salesReport,
		duplicateBill: duplicateBill,
		events:        events,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Fields  interface{} `json:"fields,omitempty"`
}

type sellRequest struct {
	ProductID  uuid.UUID  `json:"product_id" validate:"uuid_required"`
	Quantity   int        `json:"quantity" validate:"gt=0"`
	CustomerID *uuid.UUID `json:"customer_id"`
	SalesmanID *uuid.UUID `json:"salesman_id"`
}

// Sell handles POST /api/pos/sell, a single-product counter sale
func (h *POSHandler) Sell(w http.ResponseWriter, r *http.Request) {
	var req sellRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	if fields := validator.ValidateStruct(req); len(fields) > 0 {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Validation failed", Fields: fields})
		return
	}

	cmd := command.QuickSellCommand{
		CustomerID: req.CustomerID,
		SalesmanID: req.SalesmanID,
		Items:      []command.SaleItem{{ProductID: req.ProductID, Quantity: req.Quantity}},
		UserID:     userhttp.UserID(r),
	}
	h.runSale(w, r, cmd)
}

type multiSellRequest struct {
	Items []struct {
		ProductID uuid.UUID `json:"product_id" validate:"uuid_required"`
		Quantity  int       `json:"quantity" validate:"gt=0"`
	} `json:"items" validate:"min=1,dive"`
	CustomerID *uuid.UUID `json:"customer_id"`
	SalesmanID *uuid.UUID `json:"salesman_id"`
}

// SellMulti handles POST /api/pos/sell/multi, a multi-product counter sale
func (h *POSHandler) SellMulti(w http.ResponseWriter, r *http.Request) {
	var req multiSellRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	if fields := validator.ValidateStruct(req); len(fields) > 0 {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Validation failed", Fields: fields})
		return
	}

	cmd := command.QuickSellCommand{
		CustomerID: req.CustomerID,
		SalesmanID: req.SalesmanID,
		UserID:     userhttp.UserID(r),
	}
	for _, item := range req.Items {
		cmd.Items = append(cmd.Items, command.SaleItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	h.runSale(w, r, cmd)
}

// runSale executes a quick sale with a single retry when a concurrent
// mutation beat the pre-check
func (h *POSHandler) runSale(w http.ResponseWriter, r *http.Request, cmd command.QuickSellCommand) {
	invoice, err := h.quickSell.Handle(r.Context(), cmd)
	if errors.Is(err, stockdomain.ErrConcurrentModification) {
		invoice, err = h.quickSell.Handle(r.Context(), cmd)
	}
	if err != nil {
		logger.Warn(r.Context()).Err(err).Msg("Quick sale rejected")
		respondJSON(w, statusFor(err), Response{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Sale completed successfully",
		Data:    invoice,
	})
}

type drawerRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"decimal_gte_zero"`
	Note   string          `json:"note"`
}

// OpenDrawer handles POST /api/pos/drawer/open
func (h *POSHandler) OpenDrawer(w http.ResponseWriter, r *http.Request) {
	var req drawerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	if fields := validator.ValidateStruct(req); len(fields) > 0 {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Validation failed", Fields: fields})
		return
	}

	event, err := h.openDrawer.Handle(r.Context(), command.OpenDrawerCommand{
		OpeningFloat: req.Amount,
		Note:         req.Note,
		UserID:       userhttp.UserID(r),
	})
	if err != nil {
		respondJSON(w, statusFor(err), Response{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusCreated, Response{Success: true, Message: "Drawer opened", Data: event})
}

// CloseDrawer handles POST /api/pos/drawer/close
func (h *POSHandler) CloseDrawer(w http.ResponseWriter, r *http.Request) {
	var req drawerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	if fields := validator.ValidateStruct(req); len(fields) > 0 {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Validation failed", Fields: fields})
		return
	}

	event, err := h.closeDrawer.Handle(r.Context(), command.CloseDrawerCommand{
		CountedCash: req.Amount,
		Note:        req.Note,
		UserID:      userhttp.UserID(r),
	})
	if err != nil {
		respondJSON(w, statusFor(err), Response{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Drawer closed", Data: event})
}

// CloseShift handles POST /api/pos/shift/close
func (h *POSHandler) CloseShift(w http.ResponseWriter, r *http.Request) {
	var req drawerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	if fields := validator.ValidateStruct(req); len(fields) > 0 {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Validation failed", Fields: fields})
		return
	}

	summary, err := h.closeShift.Handle(r.Context(), command.CloseShiftCommand{
		CountedCash: req.Amount,
		Note:        req.Note,
		UserID:      userhttp.UserID(r),
	})
	if err != nil {
		respondJSON(w, statusFor(err), Response{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Shift closed", Data: summary})
}

// DrawerHistory handles GET /api/pos/drawer/history
func (h *POSHandler) DrawerHistory(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.FindAll(r.Context(), 50, 0)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to load drawer history")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to load drawer history"})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: events})
}

// DailyReport handles GET /api/pos/reports/daily with an optional date param
func (h *POSHandler) DailyReport(w http.ResponseWriter, r *http.Request) {
	date := time.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid date, expected YYYY-MM-DD"})
			return
		}
		date = parsed
	}

	report, err := h.dailyReport.Handle(r.Context(), query.DailyReportQuery{Date: date})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to build daily report")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to build daily report"})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: report})
}

// SalesReport handles GET /api/pos/reports/sales?from=&to=
func (h *POSHandler) SalesReport(w http.ResponseWriter, r *http.Request) {
	from, err := time.Parse("2006-01-02", r.URL.Query().Get("from"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid from date, expected YYYY-MM-DD"})
		return
	}
	to, err := time.Parse("2006-01-02", r.URL.Query().Get("to"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid to date, expected YYYY-MM-DD"})
		return
	}

	report, err := h.salesReport.Handle(r.Context(), query.SalesReportQuery{
		From: from,
		To:   to.AddDate(0, 0, 1),
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to build sales report")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to build sales report"})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: report})
}

// DuplicateBill handles GET /api/pos/bills/{invoice_no}/duplicate
func (h *POSHandler) DuplicateBill(w http.ResponseWriter, r *http.Request) {
	invoiceNo := mux.Vars(r)["invoice_no"]

	bill, err := h.duplicateBill.Handle(r.Context(), query.DuplicateBillQuery{InvoiceNo: invoiceNo})
	if err != nil {
		respondJSON(w, statusFor(err), Response{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: bill})
}

// RegisterRoutes registers all POS routes
func (h *POSHandler) RegisterRoutes(router *mux.Router) {
	cashier := func(next http.HandlerFunc) http.HandlerFunc {
		return userhttp.RequireRole(next, userdomain.RoleCashier)
	}
	router.HandleFunc("/api/pos/sell", cashier(h.Sell)).Methods("POST")
	router.HandleFunc("/api/pos/sell/multi", cashier(h.SellMulti)).Methods("POST")
	router.HandleFunc("/api/pos/drawer/open", cashier(h.OpenDrawer)).Methods("POST")
	router.HandleFunc("/api/pos/drawer/close", cashier(h.CloseDrawer)).Methods("POST")
	router.HandleFunc("/api/pos/drawer/history", cashier(h.DrawerHistory)).Methods("GET")
	router.HandleFunc("/api/pos/shift/close", cashier(h.CloseShift)).Methods("POST")
	router.HandleFunc("/api/pos/reports/daily", cashier(h.DailyReport)).Methods("GET")
	router.HandleFunc("/api/pos/reports/sales", cashier(h.SalesReport)).Methods("GET")
	router.HandleFunc("/api/pos/bills/{invoice_no}/duplicate", cashier(h.DuplicateBill)).Methods("GET")
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, productdomain.ErrProductNotFound),
		errors.Is(err, invoicedomain.ErrInvoiceNotFound):
		return http.StatusNotFound
	case errors.Is(err, stockdomain.ErrInsufficientStock),
		errors.Is(err, stockdomain.ErrInvalidQuantity),
		errors.Is(err, invoicedomain.ErrNoItems):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrDrawerAlreadyOpen),
		errors.Is(err, domain.ErrDrawerNotOpen),
		errors.Is(err, stockdomain.ErrConcurrentModification):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
