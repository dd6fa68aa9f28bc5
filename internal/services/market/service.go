// Package market implements the polled market feed.
package market

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vortexhq/vortex/internal/common"
	"github.com/vortexhq/vortex/internal/interfaces"
	"github.com/vortexhq/vortex/internal/models"
)

// Compile-time interface check
var _ interfaces.MarketService = (*Service)(nil)

// Service polls the market data API on a fixed interval and holds the
// latest snapshot in memory. The native coin always leads the snapshot;
// a failed fetch keeps the previous snapshot in place until the next
// tick. Responses are sequence-tagged so a late reply from an older
// request can never clobber a newer snapshot.
type Service struct {
	client   interfaces.MarketDataClient
	cache    interfaces.SnapshotCache
	logger   *common.Logger
	interval time.Duration

	seq uint64 // last issued request sequence

	mu       sync.RWMutex
	snapshot *models.MarketSnapshot
	applied  uint64 // sequence of the snapshot currently applied

	cancel context.CancelFunc
	done   chan struct{}
}

// NewService creates the market feed service. The cache is optional;
// when present the last snapshot is persisted across restarts.
func NewService(client interfaces.MarketDataClient, cache interfaces.SnapshotCache, logger *common.Logger, interval time.Duration) *Service {
	if interval <= 0 {
		interval = 60 * time.Second
	}
	s := &Service{
		client:   client,
		cache:    cache,
		logger:   logger,
		interval: interval,
		snapshot: &models.MarketSnapshot{Coins: []models.MarketCoin{models.NewNativeCoin()}},
	}
	s.warmStart()
	return s
}

// warmStart loads the cached snapshot so prices are available before the
// first poll completes. The cached timestamp is kept: a stale warm start
// reads as stale until the feed refreshes it.
func (s *Service) warmStart() {
	if s.cache == nil {
		return
	}
	cached, err := s.cache.GetSnapshot(context.Background())
	if err != nil || len(cached.Coins) == 0 {
		return
	}
	s.snapshot = &models.MarketSnapshot{
		Coins:     withNativeCoin(cached.Coins),
		UpdatedAt: cached.UpdatedAt,
	}
	s.logger.Info().
		Int("coins", len(cached.Coins)).
		Time("cached_at", cached.UpdatedAt).
		Msg("Market feed warm start from cached snapshot")
}

// Start begins polling: one immediate fetch, then fixed-interval ticks.
// Calling Start twice is a no-op until Stop.
func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	if s.cancel != nil {
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.mu.Unlock()

	go s.run(ctx)
}

func (s *Service) run(ctx context.Context) {
	defer close(s.done)

	s.refresh(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Market feed poller stopped")
			return
		case <-ticker.C:
			s.refresh(ctx)
		}
	}
}

// Stop halts the poll loop and waits for it to exit. The last applied
// snapshot remains readable after Stop.
func (s *Service) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	done := s.done
	s.cancel = nil
	s.done = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// refresh performs one fetch and applies the result if it is still the
// newest response.
func (s *Service) refresh(ctx context.Context) {
	seq := atomic.AddUint64(&s.seq, 1)
	start := time.Now()

	coins, err := s.client.GetMarkets(ctx)
	if err != nil {
		// Keep the previous snapshot; the next tick is the retry.
		s.logger.Warn().Err(err).Uint64("seq", seq).Msg("Market feed refresh failed, retaining previous snapshot")
		return
	}

	fetchedAt := time.Now()
	if !s.applyIfNewest(seq, coins, fetchedAt) {
		return
	}

	if s.cache != nil {
		// The cache stores the fetched feed only; the native coin is
		// re-prepended on read.
		if err := s.cache.SaveSnapshot(ctx, &models.MarketSnapshot{Coins: coins, UpdatedAt: fetchedAt}); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to cache market snapshot")
		}
	}

	s.logger.Info().
		Int("coins", len(coins)).
		Dur("elapsed", time.Since(start)).
		Msg("Market feed refreshed")
}

// applyIfNewest installs a fetched coin list unless a newer request has
// already been applied (latest request wins).
func (s *Service) applyIfNewest(seq uint64, coins []models.MarketCoin, fetchedAt time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq < s.applied {
		s.logger.Warn().
			Uint64("seq", seq).
			Uint64("applied", s.applied).
			Msg("Market feed discarding stale response")
		return false
	}
	s.applied = seq
	s.snapshot = &models.MarketSnapshot{
		Coins:     withNativeCoin(coins),
		UpdatedAt: fetchedAt,
	}
	return true
}

// Snapshot returns the current coin list (native coin first) and its
// refresh timestamp. The returned value is a copy.
func (s *Service) Snapshot() *models.MarketSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := &models.MarketSnapshot{UpdatedAt: s.snapshot.UpdatedAt}
	out.Coins = append(out.Coins, s.snapshot.Coins...)
	return out
}

// CoinDetail fetches extended data for one coin on demand. The native
// coin is answered locally; it has no remote detail page.
func (s *Service) CoinDetail(ctx context.Context, coinID string) (*models.CoinDetail, error) {
	if coinID == models.NativeCoinID {
		return &models.CoinDetail{
			ID:           models.NativeCoinID,
			Name:         models.NativeCoinName,
			Symbol:       models.NativeCoinSymbol,
			CurrentPrice: models.NativeCoinPrice,
			FetchedAt:    time.Now(),
		}, nil
	}
	return s.client.GetCoinDetail(ctx, coinID)
}

// withNativeCoin prepends the synthetic native coin, dropping any
// remote entry that collides with its ID so it can never appear twice.
func withNativeCoin(coins []models.MarketCoin) []models.MarketCoin {
	out := make([]models.MarketCoin, 0, len(coins)+1)
	out = append(out, models.NewNativeCoin())
	for _, coin := range coins {
		if coin.ID == models.NativeCoinID {
			continue
		}
		out = append(out, coin)
	}
	return out
}
