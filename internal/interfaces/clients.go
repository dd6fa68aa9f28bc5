// Package interfaces defines service contracts for Vortex
package interfaces

import (
	"context"

	"github.com/vortexhq/vortex/internal/models"
)

// MarketDataClient provides access to the public market data API
type MarketDataClient interface {
	// GetMarkets retrieves the top coins ordered by market cap
	GetMarkets(ctx context.Context, opts ...MarketOption) ([]models.MarketCoin, error)

	// GetCoinDetail retrieves extended data for a single coin
	GetCoinDetail(ctx context.Context, coinID string) (*models.CoinDetail, error)
}

// MarketOption configures market list requests
type MarketOption func(*MarketParams)

// MarketParams holds market list query parameters
type MarketParams struct {
	VsCurrency string
	PerPage    int
	Page       int
}

// WithVsCurrency sets the quote currency for the market list
func WithVsCurrency(currency string) MarketOption {
	return func(p *MarketParams) {
		p.VsCurrency = currency
	}
}

// WithPerPage sets the page size for the market list
func WithPerPage(perPage int) MarketOption {
	return func(p *MarketParams) {
		p.PerPage = perPage
	}
}

// WithPage sets the page number for the market list
func WithPage(page int) MarketOption {
	return func(p *MarketParams) {
		p.Page = page
	}
}
