// Package app wires configuration, storage, clients, and services into
// a single dependency-injected core shared by cmd/vortex-server and
// the server package's tests.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vortexhq/vortex/internal/clients/coingecko"
	"github.com/vortexhq/vortex/internal/common"
	"github.com/vortexhq/vortex/internal/interfaces"
	"github.com/vortexhq/vortex/internal/services/market"
	"github.com/vortexhq/vortex/internal/services/portfolio"
	"github.com/vortexhq/vortex/internal/services/session"
	"github.com/vortexhq/vortex/internal/services/wallet"
	"github.com/vortexhq/vortex/internal/storage/marketdb"
	"github.com/vortexhq/vortex/internal/storage/surrealdb"
)

// App holds all initialized services and clients.
type App struct {
	Config           *common.Config
	Logger           *common.Logger
	Storage          interfaces.StorageManager
	SnapshotCache    interfaces.SnapshotCache
	MarketClient     interfaces.MarketDataClient
	SessionService   interfaces.SessionService
	WalletService    interfaces.WalletService
	MarketService    interfaces.MarketService
	PortfolioService interfaces.PortfolioService
	StartupTime      time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes configuration, storage, clients, and services.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	// Load version from .version file (fallback if ldflags not set)
	common.LoadVersionFromFile()

	binDir := getBinaryDir()

	// Load configuration - check provided path, VORTEX_CONFIG, then binary dir, then fallback
	if configPath == "" {
		configPath = os.Getenv("VORTEX_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "vortex.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/vortex.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative cache path to binary directory
	if config.Cache.Path != "" && !filepath.IsAbs(config.Cache.Path) {
		config.Cache.Path = filepath.Join(binDir, config.Cache.Path)
	}

	logger := common.NewLogger(config.Logging.Level)

	storageManager, err := surrealdb.NewManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	snapshotCache, err := marketdb.NewStore(logger, config.Cache.Path)
	if err != nil {
		storageManager.Close()
		return nil, fmt.Errorf("failed to open snapshot cache: %w", err)
	}

	marketClient := coingecko.NewClient(
		coingecko.WithBaseURL(config.Clients.CoinGecko.BaseURL),
		coingecko.WithLogger(logger),
		coingecko.WithRateLimit(config.Clients.CoinGecko.RateLimit),
		coingecko.WithTimeout(config.Clients.CoinGecko.GetTimeout()),
		coingecko.WithDefaults(config.Clients.CoinGecko.VsCurrency, config.Clients.CoinGecko.PerPage),
	)

	sessionService := session.NewService(storageManager, logger, config.Auth.AdminEmail)
	walletService := wallet.NewService(storageManager, logger)
	marketService := market.NewService(marketClient, snapshotCache, logger, config.Market.GetRefreshInterval())
	portfolioService := portfolio.NewService(walletService, marketService, logger)

	a := &App{
		Config:           config,
		Logger:           logger,
		Storage:          storageManager,
		SnapshotCache:    snapshotCache,
		MarketClient:     marketClient,
		SessionService:   sessionService,
		WalletService:    walletService,
		MarketService:    marketService,
		PortfolioService: portfolioService,
		StartupTime:      startupStart,
	}

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")
	return a, nil
}

// StartMarketFeed begins the market poll loop: one immediate fetch,
// then fixed-interval refreshes.
func (a *App) StartMarketFeed(ctx context.Context) {
	a.MarketService.Start(ctx)
}

// Close releases all resources held by the App.
// Shutdown order: stop the market poller, close the cache, close storage.
func (a *App) Close() {
	if a.MarketService != nil {
		a.MarketService.Stop()
	}
	if a.SnapshotCache != nil {
		a.SnapshotCache.Close()
		a.SnapshotCache = nil
	}
	if a.Storage != nil {
		a.Storage.Close()
		a.Storage = nil
	}
}
