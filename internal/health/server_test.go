package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

type stubChecker struct{ healthy bool }

func (s stubChecker) Healthy() bool { return s.healthy }

func TestHealthEndpoint(t *testing.T) {
	tests := []struct {
		name       string
		checker    Checker
		wantStatus string
		wantCode   int
	}{
		{"healthy", stubChecker{healthy: true}, "healthy", http.StatusOK},
		{"degraded", stubChecker{healthy: false}, "degraded", http.StatusServiceUnavailable},
		{"nil checker defaults healthy", nil, "healthy", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewServer(tt.checker, 0)

			rec := httptest.NewRecorder()
			s.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			if rec.Code != tt.wantCode {
				t.Errorf("status code = %d, want %d", rec.Code, tt.wantCode)
			}

			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("response is not JSON: %v", err)
			}
			if body["status"] != tt.wantStatus {
				t.Errorf("status = %q, want %q", body["status"], tt.wantStatus)
			}
		})
	}
}

func TestMetricsEndpointRegistered(t *testing.T) {
	s := NewServer(stubChecker{healthy: true}, 0)

	srv := httptest.NewServer(s.server.Handler)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("metrics request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("metrics status = %d, want 200", resp.StatusCode)
	}
}
