package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/sellhub/pos-backend/internal/product/domain"
	"github.com/sellhub/pos-backend/internal/stock"
	stockdomain "github.com/sellhub/pos-backend/internal/stock/domain"
	userhttp "github.com/sellhub/pos-backend/internal/user/delivery/http"
	userdomain "github.com/sellhub/pos-backend/internal/user/domain"
	"github.com/sellhub/pos-backend/pkg/logger"
	"github.com/sellhub/pos-backend/pkg/validator"
)

// ProductHandler handles HTTP requests for products
type ProductHandler struct {
	repo  domain.ProductRepository
	stock *stock.Coordinator
}

// NewProductHandler creates a new product handler
func NewProductHandler(repo domain.ProductRepository, stock *stock.Coordinator) *ProductHandler {
	return &ProductHandler{repo: repo, stock: stock}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Fields  interface{} `json:"fields,omitempty"`
}

type createProductRequest struct {
	SKU          string          `json:"sku" validate:"required,max=50"`
	Name         string          `json:"name" validate:"required,max=100"`
	Description  string          `json:"description"`
	UnitPrice    decimal.Decimal `json:"unit_price" validate:"decimal_gte_zero"`
	CostPrice    decimal.Decimal `json:"cost_price" validate:"decimal_gte_zero"`
	TaxRate      decimal.Decimal `json:"tax_rate" validate:"decimal_gte_zero"`
	Discount     decimal.Decimal `json:"discount" validate:"decimal_gte_zero"`
	VendorID     *uuid.UUID      `json:"vendor_id"`
	InitialStock int             `json:"initial_stock" validate:"gte=0"`
	Barcode      *string         `json:"barcode"`
	Category     string          `json:"category" validate:"max=50"`
	Branch       string          `json:"branch" validate:"max=50"`
	LimitedQty   bool            `json:"limited_qty"`
}

// CreateProduct handles POST /api/products. Initial stock is booked through
// the mutation ledger rather than written onto the row directly.
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
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

	product := &domain.Product{
		ID:          uuid.New(),
		SKU:         req.SKU,
		Name:        req.Name,
		Description: req.Description,
		UnitPrice:   req.UnitPrice,
		CostPrice:   req.CostPrice,
		TaxRate:     req.TaxRate,
		Discount:    req.Discount,
		VendorID:    req.VendorID,
		Barcode:     req.Barcode,
		Category:    req.Category,
		Branch:      req.Branch,
		LimitedQty:  req.LimitedQty,
	}

	if err := h.repo.Create(r.Context(), product); err != nil {
		if errors.Is(err, domain.ErrDuplicateSKU) {
			respondJSON(w, http.StatusConflict, Response{
				Success: false,
				Error:   err.Error(),
			})
			return
		}
		logger.Error(r.Context()).Err(err).Msg("Failed to create product")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to create product",
		})
		return
	}

	if req.InitialStock > 0 {
		qty, err := h.stock.ApplyDelta(r.Context(), stockdomain.Mutation{
			ProductID: product.ID,
			Delta:     req.InitialStock,
			Kind:      stockdomain.KindIn,
			Ref:       "initial",
		})
		if err != nil {
			logger.Error(r.Context()).Err(err).Str("sku", product.SKU).Msg("Failed to book initial stock")
			respondJSON(w, http.StatusInternalServerError, Response{
				Success: false,
				Error:   "Failed to book initial stock",
			})
			return
		}
		product.StockLevel = qty
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Product created successfully",
		Data:    product,
	})
}

// GetProduct handles GET /api/products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid product ID",
		})
		return
	}

	product, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		respondJSON(w, statusFor(err), Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    product,
	})
}

// LookupProduct handles GET /api/products/lookup?sku=|barcode=
func (h *ProductHandler) LookupProduct(w http.ResponseWriter, r *http.Request) {
	var (
		product *domain.Product
		err     error
	)
	switch {
	case r.URL.Query().Get("sku") != "":
		product, err = h.repo.FindBySKU(r.Context(), r.URL.Query().Get("sku"))
	case r.URL.Query().Get("barcode") != "":
		product, err = h.repo.FindByBarcode(r.Context(), r.URL.Query().Get("barcode"))
	default:
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "sku or barcode query parameter required",
		})
		return
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
		Data:    product,
	})
}

// ListProducts handles GET /api/products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	category := r.URL.Query().Get("category")

	if limit == 0 {
		limit = 50
	}

	var (
		products []domain.Product
		err      error
	)
	if category != "" {
		products, err = h.repo.FindByCategory(r.Context(), category, limit, offset)
	} else {
		products, err = h.repo.FindAll(r.Context(), limit, offset)
	}
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list products")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to list products",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    products,
	})
}

// LowStock handles GET /api/products/low-stock?threshold=
func (h *ProductHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	threshold, _ := strconv.Atoi(r.URL.Query().Get("threshold"))
	if threshold == 0 {
		threshold = 10
	}

	products, err := h.repo.FindBelowStock(r.Context(), threshold)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list low stock products")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to list low stock products",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    products,
	})
}

// UpdateProduct handles PUT /api/products/{id}. The stock level is not
// updatable here; quantity changes go through stock entries only.
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid product ID",
		})
		return
	}

	var req struct {
		Name        *string          `json:"name"`
		Description *string          `json:"description"`
		UnitPrice   *decimal.Decimal `json:"unit_price"`
		CostPrice   *decimal.Decimal `json:"cost_price"`
		TaxRate     *decimal.Decimal `json:"tax_rate"`
		Discount    *decimal.Decimal `json:"discount"`
		VendorID    *uuid.UUID       `json:"vendor_id"`
		Barcode     *string          `json:"barcode"`
		Category    *string          `json:"category"`
		Branch      *string          `json:"branch"`
		LimitedQty  *bool            `json:"limited_qty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	product, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		respondJSON(w, statusFor(err), Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.UnitPrice != nil {
		product.UnitPrice = *req.UnitPrice
	}
	if req.CostPrice != nil {
		product.CostPrice = *req.CostPrice
	}
	if req.TaxRate != nil {
		product.TaxRate = *req.TaxRate
	}
	if req.Discount != nil {
		product.Discount = *req.Discount
	}
	if req.VendorID != nil {
		product.VendorID = req.VendorID
	}
	if req.Barcode != nil {
		product.Barcode = req.Barcode
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Branch != nil {
		product.Branch = *req.Branch
	}
	if req.LimitedQty != nil {
		product.LimitedQty = *req.LimitedQty
	}

	if err := h.repo.Update(r.Context(), product); err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to update product")
		respondJSON(w, statusFor(err), Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Product updated successfully",
		Data:    product,
	})
}

// DeleteProduct handles DELETE /api/products/{id}. A product with
// transaction history cannot be removed.
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid product ID",
		})
		return
	}

	referenced, err := h.repo.ReferencedByInvoice(r.Context(), id)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to check product references")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to delete product",
		})
		return
	}
	if referenced {
		respondJSON(w, http.StatusConflict, Response{
			Success: false,
			Error:   domain.ErrProductReferenced.Error(),
		})
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		respondJSON(w, statusFor(err), Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Product deleted successfully",
	})
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(router *mux.Router) {
	cashier := func(next http.HandlerFunc) http.HandlerFunc {
		return userhttp.RequireRole(next, userdomain.RoleCashier)
	}
	router.HandleFunc("/api/products", cashier(h.ListProducts)).Methods("GET")
	router.HandleFunc("/api/products", userhttp.AdminMiddleware(h.CreateProduct)).Methods("POST")
	router.HandleFunc("/api/products/lookup", cashier(h.LookupProduct)).Methods("GET")
	router.HandleFunc("/api/products/low-stock", cashier(h.LowStock)).Methods("GET")
	router.HandleFunc("/api/products/{id}", cashier(h.GetProduct)).Methods("GET")
	router.HandleFunc("/api/products/{id}", userhttp.AdminMiddleware(h.UpdateProduct)).Methods("PUT")
	router.HandleFunc("/api/products/{id}", userhttp.AdminMiddleware(h.DeleteProduct)).Methods("DELETE")
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateSKU), errors.Is(err, domain.ErrProductReferenced):
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
