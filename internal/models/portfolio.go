package models

import "time"

// HoldingValue is one wallet holding priced against the market snapshot.
// Priced is false when the snapshot has no entry for the coin; such
// holdings contribute zero to the total.
type HoldingValue struct {
	ID       string  `json:"id"`
	Name     string  `json:"name,omitempty"`
	Symbol   string  `json:"symbol,omitempty"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
	Value    float64 `json:"value"`
	Priced   bool    `json:"priced"`
}

// PortfolioSummary is the valued view of a wallet at a point in time.
type PortfolioSummary struct {
	UserID     string         `json:"user_id"`
	Holdings   []HoldingValue `json:"holdings"`
	TotalValue float64        `json:"total_value"`
	PricedAt   time.Time      `json:"priced_at"`
	Stale      bool           `json:"stale"`
}
