package httpserver

import (
	"net/http"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/goldbar123467/arb-bot/internal/risk"
)

// RiskHandler serves the ledger state and the operator-only overrides.
type RiskHandler struct {
	ledger *risk.Ledger
	logger *zap.Logger
}

// NewRiskHandler creates a risk API handler.
func NewRiskHandler(ledger *risk.Ledger, logger *zap.Logger) *RiskHandler {
	return &RiskHandler{ledger: ledger, logger: logger}
}

type riskStateResponse struct {
	Halted                bool   `json:"halted"`
	HaltReason            string `json:"halt_reason,omitempty"`
	OpenPositions         int    `json:"open_positions"`
	DailyOrders           int    `json:"daily_orders"`
	DailyLossCents        int64  `json:"daily_loss_cents"`
	DailyRealizedPnLCents int64  `json:"daily_realized_pnl_cents"`
	Day                   string `json:"day"`
}

// HandleState returns the current ledger snapshot.
func (h *RiskHandler) HandleState(w http.ResponseWriter, _ *http.Request) {
	state := h.ledger.Snapshot()
	resp := riskStateResponse{
		Halted:                state.Halted,
		HaltReason:            state.HaltReason,
		OpenPositions:         state.OpenPositions,
		DailyOrders:           state.DailyOrders,
		DailyLossCents:        state.DailyLossCents,
		DailyRealizedPnLCents: state.DailyRealizedPnLCents,
		Day:                   state.Day.Format("2006-01-02"),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("risk-state-encode-failed", zap.Error(err))
	}
}

// HandleClearHalt clears a standing halt. This is the only way a halt ends.
func (h *RiskHandler) HandleClearHalt(w http.ResponseWriter, r *http.Request) {
	h.logger.Warn("operator-clear-halt", zap.String("remote", r.RemoteAddr))
	h.ledger.ClearHalt()
	h.HandleState(w, r)
}

// HandleResetDay forces a counter reset without waiting for rollover. The
// halt flag is not touched.
func (h *RiskHandler) HandleResetDay(w http.ResponseWriter, r *http.Request) {
	h.logger.Warn("operator-reset-day", zap.String("remote", r.RemoteAddr))
	h.ledger.ResetDay()
	h.HandleState(w, r)
}
