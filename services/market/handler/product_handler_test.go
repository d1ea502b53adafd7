package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"smart-deals/internal/marketerrors"
	model "smart-deals/internal/models"
	"smart-deals/services/market/helpers"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func setupProductRouter(t *testing.T) (*MockMarketServiceInterface, *gin.Engine) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockService := NewMockMarketServiceInterface(ctrl)
	handler := NewMarketHandler(mockService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/products", handler.ListProductsHandler)
	router.GET("/latest-products", handler.LatestProductsHandler)
	router.GET("/products/:id", handler.GetProductHandler)
	router.POST("/products", handler.CreateProductHandler)
	router.PATCH("/products/:id", handler.UpdateProductHandler)
	router.DELETE("/products/:id", handler.DeleteProductHandler)
	return mockService, router
}

// Test ListProductsHandler
func TestListProductsHandler(t *testing.T) {
	mockService, router := setupProductRouter(t)

	tests := []struct {
		name          string
		url           string
		mockSetup     func()
		expectedCount int
	}{
		{
			name: "no_filter_returns_all",
			url:  "/products",
			mockSetup: func() {
				mockService.EXPECT().
					ListProducts(gomock.Any(), "").
					Return([]model.Product{{Name: "lamp"}, {Name: "desk"}}, nil)
			},
			expectedCount: 2,
		},
		{
			name: "email_filter_forwarded",
			url:  "/products?email=alice%40example.com",
			mockSetup: func() {
				mockService.EXPECT().
					ListProducts(gomock.Any(), "alice@example.com").
					Return([]model.Product{{Name: "lamp", Email: "alice@example.com"}}, nil)
			},
			expectedCount: 1,
		},
		{
			name: "empty_result_is_empty_array",
			url:  "/products?email=nobody%40example.com",
			mockSetup: func() {
				mockService.EXPECT().
					ListProducts(gomock.Any(), "nobody@example.com").
					Return(nil, nil)
			},
			expectedCount: 0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.mockSetup()

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.url, nil))

			require.Equal(t, http.StatusOK, w.Code)

			var resp map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			data, ok := resp["data"].([]any)
			require.True(t, ok, "data must be an array, even when empty")
			require.Len(t, data, tc.expectedCount)
		})
	}
}

// Test LatestProductsHandler
func TestLatestProductsHandler(t *testing.T) {
	mockService, router := setupProductRouter(t)

	now := time.Now().UTC()
	products := make([]model.Product, 6)
	for i := range products {
		products[i] = model.Product{
			Name:      fmt.Sprintf("p%d", i),
			CreatedAt: now.Add(-time.Duration(i) * time.Minute),
		}
	}
	mockService.EXPECT().LatestProducts(gomock.Any()).Return(products, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/latest-products", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].([]any)
	require.Len(t, data, 6)
}

// Test GetProductHandler
func TestGetProductHandler(t *testing.T) {
	mockService, router := setupProductRouter(t)

	oid := primitive.NewObjectID()

	tests := []struct {
		name           string
		id             string
		mockSetup      func()
		expectedStatus int
		expectedMsg    string
	}{
		{
			name: "found",
			id:   oid.Hex(),
			mockSetup: func() {
				mockService.EXPECT().
					GetProduct(gomock.Any(), oid.Hex()).
					Return(model.Product{ID: oid, Name: "lamp"}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "product retrieved successfully",
		},
		{
			name: "not_found",
			id:   oid.Hex(),
			mockSetup: func() {
				mockService.EXPECT().
					GetProduct(gomock.Any(), oid.Hex()).
					Return(model.Product{}, fmt.Errorf("service: %w", marketerrors.ErrProductNotFound))
			},
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "product not found",
		},
		{
			name: "malformed_id",
			id:   "not-a-hex-id",
			mockSetup: func() {
				mockService.EXPECT().
					GetProduct(gomock.Any(), "not-a-hex-id").
					Return(model.Product{}, fmt.Errorf("service: %w", marketerrors.ErrInvalidID))
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid document id",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.mockSetup()

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/products/"+tc.id, nil))

			require.Equal(t, tc.expectedStatus, w.Code)

			var resp map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			require.Equal(t, tc.expectedMsg, resp["message"])
		})
	}
}

// Test CreateProductHandler
func TestCreateProductHandler(t *testing.T) {
	mockService, router := setupProductRouter(t)

	oid := primitive.NewObjectID()
	mockService.EXPECT().
		CreateProduct(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p model.Product) (model.Product, error) {
			require.Equal(t, "alice@example.com", p.Email)
			require.Equal(t, "lamp", p.Name)
			p.ID = oid
			return p, nil
		})

	body, err := json.Marshal(helpers.CreateProductRequest{
		Email: "alice@example.com",
		Name:  "lamp",
		Price: 10,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]any)
	require.Equal(t, oid.Hex(), data["id"])
}

// Test UpdateProductHandler partial-update semantics
func TestUpdateProductHandler(t *testing.T) {
	mockService, router := setupProductRouter(t)

	oid := primitive.NewObjectID()

	tests := []struct {
		name           string
		body           string
		mockSetup      func()
		expectedStatus int
		wantMatched    float64
		wantModified   float64
	}{
		{
			name: "name_and_price",
			body: `{"name":"brass lamp","price":15.5}`,
			mockSetup: func() {
				mockService.EXPECT().
					UpdateProduct(gomock.Any(), oid.Hex(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, update model.ProductUpdate) (int64, int64, error) {
						require.NotNil(t, update.Name)
						require.Equal(t, "brass lamp", *update.Name)
						require.NotNil(t, update.Price)
						require.Equal(t, 15.5, *update.Price)
						return 1, 1, nil
					})
			},
			expectedStatus: http.StatusOK,
			wantMatched:    1,
			wantModified:   1,
		},
		{
			name: "absent_fields_stay_nil",
			body: `{"name":"brass lamp"}`,
			mockSetup: func() {
				mockService.EXPECT().
					UpdateProduct(gomock.Any(), oid.Hex(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, update model.ProductUpdate) (int64, int64, error) {
						require.NotNil(t, update.Name)
						require.Nil(t, update.Price)
						return 1, 1, nil
					})
			},
			expectedStatus: http.StatusOK,
			wantMatched:    1,
			wantModified:   1,
		},
		{
			name: "missing_product_reports_zero_matched",
			body: `{"price":3}`,
			mockSetup: func() {
				mockService.EXPECT().
					UpdateProduct(gomock.Any(), oid.Hex(), gomock.Any()).
					Return(int64(0), int64(0), nil)
			},
			expectedStatus: http.StatusOK,
			wantMatched:    0,
			wantModified:   0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.mockSetup()

			req := httptest.NewRequest(http.MethodPatch, "/products/"+oid.Hex(), bytes.NewReader([]byte(tc.body)))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, tc.expectedStatus, w.Code)

			var resp map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			data := resp["data"].(map[string]any)
			require.Equal(t, tc.wantMatched, data["matched_count"])
			require.Equal(t, tc.wantModified, data["modified_count"])
		})
	}
}

// Test DeleteProductHandler
func TestDeleteProductHandler(t *testing.T) {
	mockService, router := setupProductRouter(t)

	oid := primitive.NewObjectID()

	tests := []struct {
		name        string
		mockSetup   func()
		wantDeleted float64
	}{
		{
			name: "existing_product",
			mockSetup: func() {
				mockService.EXPECT().DeleteProduct(gomock.Any(), oid.Hex()).Return(int64(1), nil)
			},
			wantDeleted: 1,
		},
		{
			name: "missing_product_completes_with_zero",
			mockSetup: func() {
				mockService.EXPECT().DeleteProduct(gomock.Any(), oid.Hex()).Return(int64(0), nil)
			},
			wantDeleted: 0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.mockSetup()

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/products/"+oid.Hex(), nil))

			require.Equal(t, http.StatusOK, w.Code)

			var resp map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			data := resp["data"].(map[string]any)
			require.Equal(t, tc.wantDeleted, data["deleted_count"])
		})
	}
}

// Test store failures mapped to 500
func TestProductHandlers_StoreFailure(t *testing.T) {
	mockService, router := setupProductRouter(t)

	mockService.EXPECT().
		ListProducts(gomock.Any(), "").
		Return(nil, errors.New("connection reset"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/products", nil))

	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "internal server error", resp["message"])
}
