package server

import (
	"net/http"
)

// handleWallet handles GET /api/wallet — the authenticated user's
// holdings valued against the current market snapshot.
func (s *Server) handleWallet(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	uc, ok := requireUser(w, r)
	if !ok {
		return
	}

	summary, err := s.app.PortfolioService.Summary(r.Context(), uc.UserID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", uc.UserID).Msg("Portfolio summary failed")
		WriteError(w, http.StatusInternalServerError, "failed to compute wallet summary")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"data":   summary,
	})
}

// handleWalletHoldings handles POST /api/wallet/holdings — start
// tracking a coin at zero quantity.
func (s *Server) handleWalletHoldings(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	uc, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req struct {
		CoinID string `json:"coin_id"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	wallet, err := s.app.WalletService.Track(r.Context(), uc.UserID, req.CoinID)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"data":   wallet,
	})
}

// routeWalletHoldings dispatches /api/wallet/holdings/{id}.
func (s *Server) routeWalletHoldings(w http.ResponseWriter, r *http.Request) {
	coinID := PathParam(r, "/api/wallet/holdings/", "")
	if coinID == "" {
		s.handleWalletHoldings(w, r)
		return
	}
	s.handleWalletUntrack(w, r, coinID)
}

// handleWalletUntrack handles DELETE /api/wallet/holdings/{id} — stop
// tracking a coin. A holding with a balance survives; the response
// carries the (possibly unchanged) wallet either way.
func (s *Server) handleWalletUntrack(w http.ResponseWriter, r *http.Request, coinID string) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}

	uc, ok := requireUser(w, r)
	if !ok {
		return
	}

	wallet, err := s.app.WalletService.Untrack(r.Context(), uc.UserID, coinID)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"data":   wallet,
	})
}
