// Package portfolio values wallets against the polled market snapshot.
package portfolio

import (
	"context"
	"fmt"

	"github.com/vortexhq/vortex/internal/common"
	"github.com/vortexhq/vortex/internal/interfaces"
	"github.com/vortexhq/vortex/internal/models"
)

// Compile-time interface check
var _ interfaces.PortfolioService = (*Service)(nil)

// Service implements PortfolioService by joining the wallet service's
// holdings with the market service's snapshot. It holds no state of its
// own; every summary is computed fresh from its two inputs.
type Service struct {
	wallet interfaces.WalletService
	market interfaces.MarketService
	logger *common.Logger
}

// NewService creates a new portfolio service
func NewService(wallet interfaces.WalletService, market interfaces.MarketService, logger *common.Logger) *Service {
	return &Service{
		wallet: wallet,
		market: market,
		logger: logger,
	}
}

// Summary prices the user's holdings against the current snapshot. A
// holding with no snapshot entry is carried at zero and flagged
// unpriced rather than dropped.
func (s *Service) Summary(ctx context.Context, userID string) (*models.PortfolioSummary, error) {
	wallet, err := s.wallet.GetWallet(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load wallet: %w", err)
	}

	snapshot := s.market.Snapshot()

	summary := &models.PortfolioSummary{
		UserID:   userID,
		Holdings: make([]models.HoldingValue, 0, len(wallet.Holdings)),
		PricedAt: snapshot.UpdatedAt,
		Stale:    !common.IsFresh(snapshot.UpdatedAt, common.FreshnessMarketSnapshot),
	}

	for _, holding := range wallet.Holdings {
		value := models.HoldingValue{
			ID:       holding.ID,
			Quantity: holding.Quantity,
		}
		if coin := snapshot.FindCoin(holding.ID); coin != nil {
			value.Name = coin.Name
			value.Symbol = coin.Symbol
			value.Price = coin.CurrentPrice
			value.Value = holding.Quantity * coin.CurrentPrice
			value.Priced = true
		}
		summary.Holdings = append(summary.Holdings, value)
	}
	summary.TotalValue = ComputeTotal(wallet.Holdings, snapshot.Coins)

	s.logger.Debug().
		Str("user_id", userID).
		Int("holdings", len(summary.Holdings)).
		Float64("total", summary.TotalValue).
		Msg("Portfolio summary computed")

	return summary, nil
}

// ComputeTotal sums quantity times current price across holdings.
// Holdings absent from the coin list contribute zero.
func ComputeTotal(holdings []models.Holding, coins []models.MarketCoin) float64 {
	prices := make(map[string]float64, len(coins))
	for _, coin := range coins {
		prices[coin.ID] = coin.CurrentPrice
	}

	total := 0.0
	for _, holding := range holdings {
		total += holding.Quantity * prices[holding.ID]
	}
	return total
}
