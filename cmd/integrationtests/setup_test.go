package integrationtests

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"smart-deals/internal/auth"
	market "smart-deals/internal/marketService"
	"smart-deals/internal/repository"
	"smart-deals/internal/server"

	"github.com/gin-gonic/gin"
)

// tokenVerifierStub maps fixed bearer tokens to emails; anything else fails
// verification, as an expired or forged Firebase token would.
type tokenVerifierStub struct{}

func (tokenVerifierStub) Verify(_ context.Context, token string) (auth.Claim, error) {
	switch token {
	case "token-alice":
		return auth.Claim{Email: "alice@example.com"}, nil
	case "token-bob":
		return auth.Claim{Email: "bob@example.com"}, nil
	default:
		return auth.Claim{}, errors.New("stub: unverifiable token")
	}
}

// SetupTestRouter initializes the router with the in-memory store for
// integration testing and returns the store for direct seeding.
func SetupTestRouter() (*gin.Engine, *repository.MemoryStore) {
	gin.SetMode(gin.TestMode)
	store := repository.NewMemoryStore()
	service := market.NewMarketService(store)
	router := server.SetupRouter(service, tokenVerifierStub{})
	return router, store
}

// ExecuteRequest executes an HTTP request and returns the response recorder.
// An empty token leaves the Authorization header unset.
func ExecuteRequest(t *testing.T, router *gin.Engine, method, url string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody []byte
	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	case string:
		reqBody = []byte(v)
	default:
		var err error
		reqBody, err = json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
	}

	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// ParseEnvelope decodes the standard {status, message, data} response.
func ParseEnvelope(t *testing.T, w *httptest.ResponseRecorder) (string, any) {
	t.Helper()

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response %q: %v", w.Body.String(), err)
	}
	message, _ := resp["message"].(string)
	return message, resp["data"]
}
