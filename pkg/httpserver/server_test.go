package httpserver

import (
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/goldbar123467/arb-bot/internal/risk"
	"github.com/goldbar123467/arb-bot/pkg/healthprobe"
)

func newTestServer(t *testing.T) (*Server, *risk.Ledger) {
	t.Helper()
	logger, _ := zap.NewDevelopment()
	ledger := risk.NewLedger(risk.Config{Logger: logger})
	hc := healthprobe.New()
	hc.SetReady(true)

	return New(&Config{
		Port:          "0",
		Logger:        logger,
		HealthChecker: hc,
		Ledger:        ledger,
	}), ledger
}

func TestHealthAndReadyEndpoints(t *testing.T) {
	s, _ := newTestServer(t)

	for _, path := range []string{"/health", "/ready", "/metrics"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		s.server.Handler.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("%s returned %d, want %d", path, w.Code, http.StatusOK)
		}
	}
}

func TestRiskStateEndpoint(t *testing.T) {
	s, ledger := newTestServer(t)

	ledger.CommitExecution(risk.ExecutionCommit{
		Orders:             3,
		OpenDelta:          1,
		WorstCaseLossCents: 100,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/risk", nil)
	w := httptest.NewRecorder()
	s.server.Handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", w.Code)
	}

	var resp riskStateResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Halted {
		t.Error("expected not halted")
	}
	if resp.OpenPositions != 1 || resp.DailyOrders != 3 || resp.DailyLossCents != 100 {
		t.Errorf("unexpected state: %+v", resp)
	}
	if resp.Day == "" {
		t.Error("day is empty")
	}
}

func TestClearHaltEndpoint(t *testing.T) {
	s, ledger := newTestServer(t)

	ledger.CommitExecution(risk.ExecutionCommit{
		WorstCaseLossCents: risk.DailyLossCeilingCents,
	})
	if !ledger.Snapshot().Halted {
		t.Fatal("expected ledger halted")
	}

	req := httptest.NewRequest(http.MethodPost, "/api/risk/clear-halt", nil)
	w := httptest.NewRecorder()
	s.server.Handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", w.Code)
	}

	var resp riskStateResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Halted {
		t.Error("expected halt cleared")
	}
	if ledger.Snapshot().Halted {
		t.Error("ledger still halted")
	}
}

func TestResetDayEndpoint(t *testing.T) {
	s, ledger := newTestServer(t)

	ledger.CommitExecution(risk.ExecutionCommit{Orders: 10, WorstCaseLossCents: 50})

	req := httptest.NewRequest(http.MethodPost, "/api/risk/reset-day", nil)
	w := httptest.NewRecorder()
	s.server.Handler.ServeHTTP(w, req)

	var resp riskStateResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.DailyOrders != 0 || resp.DailyLossCents != 0 {
		t.Errorf("expected counters reset, got %+v", resp)
	}
}

func TestRiskEndpointsRequirePost(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/risk/clear-halt", nil)
	w := httptest.NewRecorder()
	s.server.Handler.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected %d, got %d", http.StatusMethodNotAllowed, w.Code)
	}
}
