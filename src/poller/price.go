package poller

// Repeating background tasks behind the dashboard: the price poll and the
// position P&L simulation. Both stop when their context is cancelled, which
// is how the owning view releases its polling lease on teardown. A fetch
// completing after cancellation is discarded instead of applied.

import (
	"context"

	logger "github.com/sirupsen/logrus"

	"algotrader/src/clock"
	"algotrader/src/model"
	"algotrader/src/store"
)

type PriceFetcher interface {
	FetchPrice(ctx context.Context) model.PriceSnapshot
}

// RunPriceLoop fetches the index price immediately and then on every tick,
// applying each snapshot to the market store. Never returns a fetch error:
// the gateway degrades to simulated snapshots on its own.
func RunPriceLoop(ctx context.Context, clk clock.Clock, fetcher PriceFetcher, market *store.MarketStore) error {
	config := GetConfig()

	ticker := clk.NewTicker(config.PricePeriod)
	defer ticker.Stop()

	applyPrice(ctx, fetcher, market)

	for {
		select {
		case <-ctx.Done():
			logger.Info("price loop stopped")
			return nil

		case <-ticker.C():
			applyPrice(ctx, fetcher, market)
		}
	}
}

func applyPrice(ctx context.Context, fetcher PriceFetcher, market *store.MarketStore) {
	snap := fetcher.FetchPrice(ctx)

	// The view may have been torn down while the fetch was in flight.
	if ctx.Err() != nil {
		logger.Debug("discarding price snapshot fetched after teardown")
		return
	}

	market.ApplyPriceSnapshot(snap)
}
