package models

// Holding is a single tracked coin inside a wallet. A freshly tracked
// coin starts at quantity 0; the seeded native holding starts at 100.
type Holding struct {
	ID       string  `json:"id"`
	Quantity float64 `json:"quantity"`
}

// WalletRecord is the per-user wallet document. Exactly one exists per
// registered user, keyed by user ID.
type WalletRecord struct {
	UserID   string    `json:"user_id"`
	Holdings []Holding `json:"holdings"`
}

// SeedQuantity is the native coin balance granted at registration.
const SeedQuantity = 100

// NewWalletRecord creates the wallet document for a freshly registered
// user, seeded with the native coin balance.
func NewWalletRecord(userID string) *WalletRecord {
	return &WalletRecord{
		UserID:   userID,
		Holdings: []Holding{{ID: NativeCoinID, Quantity: SeedQuantity}},
	}
}

// FindHolding returns the holding with the given coin ID and its index,
// or index -1 when absent.
func (w *WalletRecord) FindHolding(coinID string) (Holding, int) {
	for i, h := range w.Holdings {
		if h.ID == coinID {
			return h, i
		}
	}
	return Holding{}, -1
}

// Clone returns a deep copy so subscribers can't mutate shared state.
func (w *WalletRecord) Clone() *WalletRecord {
	out := &WalletRecord{UserID: w.UserID}
	out.Holdings = append(out.Holdings, w.Holdings...)
	return out
}
