package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"pricetrack/internal/catalog"
	"pricetrack/internal/feed"
	"pricetrack/internal/metrics"
	"pricetrack/internal/scheduler"
	"pricetrack/internal/store"
)

// PriceStore is the part of the store the feed sync needs.
type PriceStore interface {
	Product(id string) (catalog.Product, bool)
	UpdateProductPrice(ctx context.Context, productID, supplierID string, price decimal.Decimal) (store.PriceUpdate, error)
}

// Summary counts quote outcomes of one sync.
type Summary struct {
	Applied   int `json:"applied"`
	Unchanged int `json:"unchanged"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
	Alerts    int `json:"alerts"`
}

// FeedSync pulls every configured feed and applies its quotes to the store.
type FeedSync struct {
	scheduler *scheduler.Scheduler
	fetcher   feed.Fetcher
	sources   []feed.Source
	store     PriceStore
	metrics   *metrics.Metrics
	logger    zerolog.Logger
}

// New constructs the feed sync job. sched may be nil when only Sync is used.
func New(sched *scheduler.Scheduler, fetcher feed.Fetcher, sources []feed.Source, prices PriceStore, m *metrics.Metrics, logger zerolog.Logger) *FeedSync {
	return &FeedSync{
		scheduler: sched,
		fetcher:   fetcher,
		sources:   sources,
		store:     prices,
		metrics:   m,
		logger:    logger.With().Str("component", "feed_sync").Logger(),
	}
}

// Run begins the scheduled sync loop.
func (s *FeedSync) Run(ctx context.Context) error {
	if s.scheduler == nil {
		return fmt.Errorf("scheduler not configured")
	}
	return s.scheduler.Run(ctx, func(ctx context.Context, at time.Time) error {
		_, err := s.Sync(ctx)
		return err
	})
}

// Sync fetches each source once. Quotes for unknown products or suppliers
// are skipped; quotes equal to the current price are left alone so the
// history only records real changes. A source that cannot be fetched does
// not stop the others; its error is returned joined with the rest.
func (s *FeedSync) Sync(ctx context.Context) (Summary, error) {
	var summary Summary
	var errs []error

	for _, src := range s.sources {
		quotes, err := s.fetcher.Fetch(ctx, src)
		if err != nil {
			s.logger.Error().Err(err).Str("source", src.Name).Msg("failed to fetch feed")
			errs = append(errs, fmt.Errorf("fetch %s: %w", src.Name, err))
			continue
		}

		for _, q := range quotes {
			outcome := s.apply(ctx, src, q, &summary)
			s.metrics.FeedQuote(src.Name, outcome)
		}
	}

	s.logger.Info().
		Int("applied", summary.Applied).
		Int("unchanged", summary.Unchanged).
		Int("skipped", summary.Skipped).
		Int("failed", summary.Failed).
		Int("alerts", summary.Alerts).
		Msg("feed sync finished")
	return summary, errors.Join(errs...)
}

func (s *FeedSync) apply(ctx context.Context, src feed.Source, q feed.Quote, summary *Summary) string {
	if product, ok := s.store.Product(q.ProductID); ok {
		if rec, priced := product.PriceFor(q.SupplierID); priced && rec.Price.Equal(q.Price) {
			summary.Unchanged++
			return "unchanged"
		}
	}

	update, err := s.store.UpdateProductPrice(ctx, q.ProductID, q.SupplierID, q.Price)
	switch {
	case errors.Is(err, store.ErrNotFound):
		s.logger.Warn().
			Str("source", src.Name).
			Str("product_id", q.ProductID).
			Str("supplier_id", q.SupplierID).
			Msg("skipping quote for unknown product or supplier")
		summary.Skipped++
		return "skipped"
	case err != nil:
		s.logger.Error().Err(err).
			Str("source", src.Name).
			Str("product_id", q.ProductID).
			Str("supplier_id", q.SupplierID).
			Msg("failed to apply quote")
		summary.Failed++
		return "failed"
	}

	summary.Applied++
	summary.Alerts += len(update.Alerts)
	return "applied"
}
