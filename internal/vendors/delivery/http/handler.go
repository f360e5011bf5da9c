package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/sellhub/pos-backend/internal/vendors/domain"
	userhttp "github.com/sellhub/pos-backend/internal/user/delivery/http"
	userdomain "github.com/sellhub/pos-backend/internal/user/domain"
	"github.com/sellhub/pos-backend/pkg/logger"
	"github.com/sellhub/pos-backend/pkg/validator"
)

// VendorHandler handles HTTP requests for vendors
type VendorHandler struct {
	repo domain.VendorRepository
}

// NewVendorHandler creates a new vendor handler
func NewVendorHandler(repo domain.VendorRepository) *VendorHandler {
	return &VendorHandler{repo: repo}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Fields  interface{} `json:"fields,omitempty"`
}

type vendorRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	ContactName string `json:"contact_name" validate:"max=100"`
	Phone       string `json:"phone" validate:"max=30"`
	Email       string `json:"email" validate:"omitempty,email"`
	Address     string `json:"address"`
	Terms       string `json:"terms" validate:"max=100"`
}

// CreateVendor handles POST /api/vendors
func (h *VendorHandler) CreateVendor(w http.ResponseWriter, r *http.Request) {
	var req vendorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	if fields := validator.ValidateStruct(req); len(fields) > 0 {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Validation failed", Fields: fields})
		return
	}

	vendor := &domain.Vendor{
		ID:          uuid.New(),
		Name:        req.Name,
		ContactName: req.ContactName,
		Phone:       req.Phone,
		Email:       req.Email,
		Address:     req.Address,
		Terms:       req.Terms,
	}

	if err := h.repo.Create(r.Context(), vendor); err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to create vendor")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to create vendor"})
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Vendor created successfully",
		Data:    vendor,
	})
}

// GetVendor handles GET /api/vendors/{id}
func (h *VendorHandler) GetVendor(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid vendor ID"})
		return
	}

	vendor, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		respondJSON(w, statusFor(err), Response{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: vendor})
}

// ListVendors handles GET /api/vendors
func (h *VendorHandler) ListVendors(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if limit == 0 {
		limit = 50
	}

	vendors, err := h.repo.FindAll(r.Context(), limit, offset)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list vendors")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to list vendors"})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: vendors})
}

// UpdateVendor handles PUT /api/vendors/{id}
func (h *VendorHandler) UpdateVendor(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid vendor ID"})
		return
	}

	var req vendorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	if fields := validator.ValidateStruct(req); len(fields) > 0 {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Validation failed", Fields: fields})
		return
	}

	vendor, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		respondJSON(w, statusFor(err), Response{Success: false, Error: err.Error()})
		return
	}

	vendor.Name = req.Name
	vendor.ContactName = req.ContactName
	vendor.Phone = req.Phone
	vendor.Email = req.Email
	vendor.Address = req.Address
	vendor.Terms = req.Terms

	if err := h.repo.Update(r.Context(), vendor); err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to update vendor")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to update vendor"})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Vendor updated successfully",
		Data:    vendor,
	})
}

// DeleteVendor handles DELETE /api/vendors/{id}
func (h *VendorHandler) DeleteVendor(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid vendor ID"})
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		respondJSON(w, statusFor(err), Response{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Vendor deleted successfully"})
}

// RegisterRoutes registers all vendor routes
func (h *VendorHandler) RegisterRoutes(router *mux.Router) {
	employee := func(next http.HandlerFunc) http.HandlerFunc {
		return userhttp.RequireRole(next, userdomain.RoleEmployee)
	}
	router.HandleFunc("/api/vendors", employee(h.ListVendors)).Methods("GET")
	router.HandleFunc("/api/vendors", userhttp.AdminMiddleware(h.CreateVendor)).Methods("POST")
	router.HandleFunc("/api/vendors/{id}", employee(h.GetVendor)).Methods("GET")
	router.HandleFunc("/api/vendors/{id}", userhttp.AdminMiddleware(h.UpdateVendor)).Methods("PUT")
	router.HandleFunc("/api/vendors/{id}", userhttp.AdminMiddleware(h.DeleteVendor)).Methods("DELETE")
}

func statusFor(err error) int {
	if errors.Is(err, domain.ErrVendorNotFound) {
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
