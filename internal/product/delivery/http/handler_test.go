package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/sellhub/pos-backend/internal/product/domain"
	"github.com/sellhub/pos-backend/internal/product/producttest"
	userdomain "github.com/sellhub/pos-backend/internal/user/domain"
	"github.com/sellhub/pos-backend/pkg/auth"
	"github.com/sellhub/pos-backend/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init("product-http-test", false)
	m.Run()
}

// updateIntercept lets a test interleave work between the handler's read
// and its write-back.
type updateIntercept struct {
	domain.ProductRepository
	beforeUpdate func()
}

func (r *updateIntercept) Update(ctx context.Context, product *domain.Product) error {
	if r.beforeUpdate != nil {
		r.beforeUpdate()
	}
	return r.ProductRepository.Update(ctx, product)
}

func TestUpdateProductPreservesStockLevel(t *testing.T) {
	fake := producttest.NewFakeRepository()
	product := fake.Seed(domain.Product{
		SKU:        "SKU-1",
		Name:       "Beans",
		UnitPrice:  decimal.NewFromInt(3),
		CostPrice:  decimal.NewFromInt(2),
		StockLevel: 10,
	})

	repo := &updateIntercept{ProductRepository: fake}
	// A sale lands after the handler loaded the product and before the
	// edit is written back. The stale quantity in the loaded copy must
	// not overwrite it.
	repo.beforeUpdate = func() { fake.SetStock(product.ID, 6) }

	handler := NewProductHandler(repo, nil)
	router := mux.NewRouter()
	router.HandleFunc("/api/products/{id}", handler.UpdateProduct).Methods("PUT")

	body, _ := json.Marshal(map[string]string{"name": "Baked Beans"})
	req := httptest.NewRequest(http.MethodPut, "/api/products/"+product.ID.String(), bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	stored, err := fake.FindByID(context.Background(), product.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if stored.Name != "Baked Beans" {
		t.Errorf("name = %q, want %q", stored.Name, "Baked Beans")
	}
	if stored.StockLevel != 6 {
		t.Errorf("stock level = %d, want 6 after concurrent sale", stored.StockLevel)
	}
}

func TestRegisteredRoutesEnforceRoles(t *testing.T) {
	handler := NewProductHandler(producttest.NewFakeRepository(), nil)
	router := mux.NewRouter()
	handler.RegisterRoutes(router)

	cashierToken, err := auth.GenerateToken(uuid.New(), "cashier", userdomain.RoleCashier)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"anonymous list", http.MethodGet, "/api/products", "", http.StatusUnauthorized},
		{"cashier list", http.MethodGet, "/api/products", cashierToken, http.StatusOK},
		{"cashier create", http.MethodPost, "/api/products", cashierToken, http.StatusForbidden},
		{"cashier delete", http.MethodDelete, "/api/products/" + uuid.New().String(), cashierToken, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}
