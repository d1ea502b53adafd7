package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"smart-deals/internal/auth"
	model "smart-deals/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// setupBidRouter wires the bid routes with a middleware standing in for the
// auth layer: it attaches tokenEmail as the verified claim.
func setupBidRouter(t *testing.T, tokenEmail string) (*MockMarketServiceInterface, *gin.Engine) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockService := NewMockMarketServiceInterface(ctrl)
	handler := NewMarketHandler(mockService)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	claim := func(c *gin.Context) {
		c.Set(auth.ContextEmailKey, tokenEmail)
		c.Next()
	}

	router.GET("/bids", claim, handler.ListBidsHandler)
	router.GET("/products/bids/:productId", claim, handler.ListBidsByProductHandler)
	router.POST("/bids", handler.CreateBidHandler)
	router.DELETE("/bids/:id", handler.DeleteBidHandler)
	return mockService, router
}

// Test ListBidsHandler
func TestListBidsHandler(t *testing.T) {
	t.Run("no_filter_lists_everything", func(t *testing.T) {
		mockService, router := setupBidRouter(t, "alice@example.com")
		mockService.EXPECT().
			ListBids(gomock.Any(), "").
			Return([]model.Bid{{BuyerEmail: "bob@example.com", BidPrice: 120}}, nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bids", nil))

		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("matching_filter_forwarded", func(t *testing.T) {
		mockService, router := setupBidRouter(t, "alice@example.com")
		mockService.EXPECT().
			ListBids(gomock.Any(), "alice@example.com").
			Return([]model.Bid{
				{BuyerEmail: "alice@example.com", BidPrice: 90},
				{BuyerEmail: "alice@example.com", BidPrice: 40},
			}, nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bids?email=alice%40example.com", nil))

		require.Equal(t, http.StatusOK, w.Code)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		data := resp["data"].([]any)
		require.Len(t, data, 2)
		first := data[0].(map[string]any)
		second := data[1].(map[string]any)
		require.GreaterOrEqual(t, first["bid_price"].(float64), second["bid_price"].(float64))
	})

	t.Run("mismatched_filter_forbidden_without_service_call", func(t *testing.T) {
		// no EXPECT set up: a service call would fail the test
		_, router := setupBidRouter(t, "bob@example.com")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bids?email=alice%40example.com", nil))

		require.Equal(t, http.StatusForbidden, w.Code)
		require.JSONEq(t, `{"message":"forbidden access"}`, w.Body.String())
	})

	t.Run("empty_result_is_empty_array", func(t *testing.T) {
		mockService, router := setupBidRouter(t, "alice@example.com")
		mockService.EXPECT().ListBids(gomock.Any(), "").Return(nil, nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bids", nil))

		require.Equal(t, http.StatusOK, w.Code)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		_, ok := resp["data"].([]any)
		require.True(t, ok, "data must be an array, even when empty")
	})
}

// Test ListBidsByProductHandler
func TestListBidsByProductHandler(t *testing.T) {
	mockService, router := setupBidRouter(t, "alice@example.com")

	productID := primitive.NewObjectID().Hex()
	mockService.EXPECT().
		ListBidsForProduct(gomock.Any(), productID).
		Return([]model.Bid{
			{Product: productID, BuyerEmail: "bob@example.com", BidPrice: 120},
			{Product: productID, BuyerEmail: "alice@example.com", BidPrice: 75},
		}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/products/bids/"+productID, nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].([]any)
	require.Len(t, data, 2)
}

// Test CreateBidHandler
func TestCreateBidHandler(t *testing.T) {
	mockService, router := setupBidRouter(t, "")

	oid := primitive.NewObjectID()
	mockService.EXPECT().
		CreateBid(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, b model.Bid) (model.Bid, error) {
			// stored verbatim, including a reference no product carries
			require.Equal(t, "dangling-ref", b.Product)
			require.Equal(t, "alice@example.com", b.BuyerEmail)
			b.ID = oid
			return b, nil
		})

	body := []byte(`{"product":"dangling-ref","buyer_email":"alice@example.com","bid_price":42}`)
	req := httptest.NewRequest(http.MethodPost, "/bids", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]any)
	require.Equal(t, oid.Hex(), data["id"])
	require.Equal(t, 42.0, data["bid_price"])
}

// Test DeleteBidHandler
func TestDeleteBidHandler(t *testing.T) {
	mockService, router := setupBidRouter(t, "")

	oid := primitive.NewObjectID()
	mockService.EXPECT().DeleteBid(gomock.Any(), oid.Hex()).Return(int64(1), nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/bids/"+oid.Hex(), nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]any)
	require.Equal(t, 1.0, data["deleted_count"])
}
