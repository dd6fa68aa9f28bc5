package server

import (
	"net/http"
	"runtime"
	"time"

	"github.com/vortexhq/vortex/internal/common"
)

// handleShutdown handles POST /api/shutdown (dev mode only).
func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if s.app.Config.IsProduction() {
		WriteError(w, http.StatusForbidden, "Shutdown endpoint disabled in production")
		return
	}

	s.logger.Info().Msg("Shutdown requested via HTTP endpoint")

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Shutting down gracefully...\n"))

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	if s.shutdownChan != nil {
		go func() {
			time.Sleep(100 * time.Millisecond)
			s.shutdownChan <- struct{}{}
		}()
	}
}

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/config", s.handleConfig)
	mux.HandleFunc("/api/shutdown", s.handleShutdown)
	mux.HandleFunc("/debug/memstats", s.handleMemstats)

	// Auth
	mux.HandleFunc("/api/auth/register", s.handleAuthRegister)
	mux.HandleFunc("/api/auth/login", s.handleAuthLogin)
	mux.HandleFunc("/api/auth/logout", s.handleAuthLogout)
	mux.HandleFunc("/api/auth/validate", s.handleAuthValidate)

	// Market
	mux.HandleFunc("/api/market/coins/", s.routeMarketCoins)
	mux.HandleFunc("/api/market/coins", s.handleMarketCoins)

	// Wallet
	mux.HandleFunc("/api/wallet/ws", s.handleWalletWS)
	mux.HandleFunc("/api/wallet/holdings/", s.routeWalletHoldings)
	mux.HandleFunc("/api/wallet/holdings", s.handleWalletHoldings)
	mux.HandleFunc("/api/wallet", s.handleWallet)

	// Profile
	mux.HandleFunc("/api/profile", s.handleProfile)

	// Admin
	mux.HandleFunc("/api/admin/users", s.handleAdminListUsers)
}

// --- System handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.Version,
		"build":   common.Build,
		"commit":  common.GitCommit,
	})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	snapshot := s.app.MarketService.Snapshot()
	uptime := time.Since(s.app.StartupTime).Round(time.Second)

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"environment":        s.app.Config.Environment,
		"uptime":             uptime.String(),
		"storage_address":    s.app.Config.Storage.Address,
		"storage_namespace":  s.app.Config.Storage.Namespace,
		"storage_database":   s.app.Config.Storage.Database,
		"cache_path":         s.app.Config.Cache.Path,
		"market_refresh":     s.app.Config.Market.GetRefreshInterval().String(),
		"market_updated_at":  snapshot.UpdatedAt,
		"market_coins":       len(snapshot.Coins),
		"coingecko_base_url": s.app.Config.Clients.CoinGecko.BaseURL,
		"jwt_secret":         maskSecret(s.app.Config.Auth.JWTSecret),
		"logging_level":      s.app.Config.Logging.Level,
	})
}

func (s *Server) handleMemstats(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"heap_alloc_bytes": m.HeapAlloc,
		"heap_inuse_bytes": m.HeapInuse,
		"heap_idle_bytes":  m.HeapIdle,
		"sys_bytes":        m.Sys,
		"num_gc":           m.NumGC,
		"heap_alloc_mb":    float64(m.HeapAlloc) / 1024 / 1024,
		"heap_inuse_mb":    float64(m.HeapInuse) / 1024 / 1024,
		"heap_idle_mb":     float64(m.HeapIdle) / 1024 / 1024,
		"sys_mb":           float64(m.Sys) / 1024 / 1024,
	})
}
