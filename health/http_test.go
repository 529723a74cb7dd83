package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLivenessHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()

	LivenessHandler()(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if w.Body.String() != "OK" {
		t.Errorf("body = %q, want OK", w.Body.String())
	}
}

func TestReadinessHandler(t *testing.T) {
	tests := []struct {
		name     string
		result   Result
		wantCode int
		wantBody string
	}{
		{"healthy", Healthy("ok"), http.StatusOK, "OK"},
		{"degraded", Degraded("slow"), http.StatusOK, "DEGRADED"},
		{"unhealthy", Unhealthy("down", errors.New("refused")), http.StatusServiceUnavailable, "UNHEALTHY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := NewAggregator(AggregatorConfig{})
			agg.Register(staticCheck("dep", tt.result))

			req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
			w := httptest.NewRecorder()
			ReadinessHandler(agg)(w, req)

			if w.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", w.Code, tt.wantCode)
			}
			if w.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", w.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestDetailedHandler(t *testing.T) {
	agg := NewAggregator(AggregatorConfig{})
	agg.Register(staticCheck("circuit:openai", Healthy("circuit closed").WithDetails(
		map[string]any{"state": "closed"},
	)))
	agg.Register(staticCheck("ratelimiter", Degraded("minute quota exhausted")))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	DetailedHandler(agg)(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (degraded still serves)", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var resp HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("body is not valid JSON: %v", err)
	}
	if resp.Status != "degraded" {
		t.Errorf("overall status = %q, want degraded", resp.Status)
	}
	if len(resp.Checks) != 2 {
		t.Fatalf("checks = %d, want 2", len(resp.Checks))
	}
	if resp.Checks["circuit:openai"].Status != "healthy" {
		t.Errorf("circuit check = %q, want healthy", resp.Checks["circuit:openai"].Status)
	}
	if resp.Checks["circuit:openai"].Details["state"] != "closed" {
		t.Errorf("circuit details = %v, want state closed", resp.Checks["circuit:openai"].Details)
	}
}

func TestDetailedHandler_Unhealthy(t *testing.T) {
	agg := NewAggregator(AggregatorConfig{})
	agg.Register(staticCheck("taskproc", Unhealthy("processor is not running", context.Canceled)))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	DetailedHandler(agg)(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}

	var resp HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("body is not valid JSON: %v", err)
	}
	if resp.Checks["taskproc"].Error == "" {
		t.Error("check error missing from response")
	}
}

func TestRegisterHandlers(t *testing.T) {
	agg := NewAggregator(AggregatorConfig{})
	agg.Register(staticCheck("dep", Healthy("ok")))

	mux := http.NewServeMux()
	RegisterHandlers(mux, agg)

	for _, path := range []string{"/healthz", "/readyz", "/health"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, w.Code)
		}
	}
}
