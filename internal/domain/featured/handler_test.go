package featured_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hirelane/hirelane-api/internal/domain/featured"
)

func newPricingHandler() *featured.Handler {
	service := featured.NewService(nil, nil, nil, featured.DefaultPricingConfig(), featured.Config{}, nil)
	return featured.NewHandler(service)
}

/* =========================
   Test: Pricing Endpoint
   ========================= */

func TestGetPricingEndpoint(t *testing.T) {
	handler := newPricingHandler()

	req := httptest.NewRequest(http.MethodGet, "/featured/pricing?quantity=20", nil)
	rec := httptest.NewRecorder()
	handler.GetPricing(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Success bool           `json:"success"`
		Data    featured.Quote `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if !body.Success {
		t.Error("expected success=true")
	}
	if body.Data.OriginalPrice != 500 || body.Data.FinalPrice != 425 {
		t.Errorf("expected 500/425, got %v/%v", body.Data.OriginalPrice, body.Data.FinalPrice)
	}
}

/* =========================
   Test: Pricing Bad Input
   ========================= */

func TestGetPricingBadInput(t *testing.T) {
	handler := newPricingHandler()

	cases := []struct {
		query string
		code  int
	}{
		{"?quantity=0", http.StatusBadRequest},
		{"?quantity=-5", http.StatusBadRequest},
		{"?quantity=abc", http.StatusBadRequest},
		{"", http.StatusBadRequest},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/featured/pricing"+tc.query, nil)
		rec := httptest.NewRecorder()
		handler.GetPricing(rec, req)

		if rec.Code != tc.code {
			t.Errorf("query %q: expected %d, got %d", tc.query, tc.code, rec.Code)
		}
	}
}
