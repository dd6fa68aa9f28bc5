package server

import (
	"net/http"
)

// handleMarketCoins handles GET /api/market/coins — the current polled
// snapshot, native coin first.
func (s *Server) handleMarketCoins(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	snapshot := s.app.MarketService.Snapshot()
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"data": map[string]interface{}{
			"coins":      snapshot.Coins,
			"updated_at": snapshot.UpdatedAt,
		},
	})
}

// routeMarketCoins dispatches /api/market/coins/{id} to the detail handler.
func (s *Server) routeMarketCoins(w http.ResponseWriter, r *http.Request) {
	coinID := PathParam(r, "/api/market/coins/", "")
	if coinID == "" {
		s.handleMarketCoins(w, r)
		return
	}
	s.handleCoinDetail(w, r, coinID)
}

// handleCoinDetail handles GET /api/market/coins/{id} — extended data
// for one coin, fetched on demand.
func (s *Server) handleCoinDetail(w http.ResponseWriter, r *http.Request, coinID string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	detail, err := s.app.MarketService.CoinDetail(r.Context(), coinID)
	if err != nil {
		s.logger.Warn().Err(err).Str("coin", coinID).Msg("Coin detail fetch failed")
		WriteError(w, http.StatusBadGateway, "failed to fetch coin detail")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"data":   detail,
	})
}
