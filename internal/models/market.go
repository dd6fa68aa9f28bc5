package models

import "time"

// MarketCoin is one entry in the polled market feed.
type MarketCoin struct {
	ID                       string  `json:"id"`
	Name                     string  `json:"name"`
	Symbol                   string  `json:"symbol"`
	Image                    string  `json:"image,omitempty"`
	CurrentPrice             float64 `json:"current_price"`
	PriceChangePercentage24h float64 `json:"price_change_percentage_24h"`
}

// Native coin constants. The native coin is never fetched; it is
// synthesized locally and always leads the snapshot.
const (
	NativeCoinID     = "vex"
	NativeCoinName   = "Vortex Coin"
	NativeCoinSymbol = "VEX"
	NativeCoinPrice  = 1.25
	NativeCoinChange = 10.5
)

// NewNativeCoin returns the synthetic native coin entry.
func NewNativeCoin() MarketCoin {
	return MarketCoin{
		ID:                       NativeCoinID,
		Name:                     NativeCoinName,
		Symbol:                   NativeCoinSymbol,
		CurrentPrice:             NativeCoinPrice,
		PriceChangePercentage24h: NativeCoinChange,
	}
}

// MarketSnapshot is the current state of the market feed: the coin list
// with the native coin first, plus the time it was last refreshed.
type MarketSnapshot struct {
	Coins     []MarketCoin `json:"coins"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// FindCoin returns the coin with the given ID, or nil when absent.
func (s *MarketSnapshot) FindCoin(id string) *MarketCoin {
	for i := range s.Coins {
		if s.Coins[i].ID == id {
			return &s.Coins[i]
		}
	}
	return nil
}

// CoinDetail holds the extended per-coin data from the detail endpoint.
type CoinDetail struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Symbol       string    `json:"symbol"`
	Image        string    `json:"image,omitempty"`
	CurrentPrice float64   `json:"current_price"`
	MarketCap    float64   `json:"market_cap"`
	TotalVolume  float64   `json:"total_volume"`
	Description  string    `json:"description,omitempty"`
	FetchedAt    time.Time `json:"fetched_at"`
}
