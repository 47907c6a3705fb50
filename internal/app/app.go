package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"pricetrack/internal/alerting"
	"pricetrack/internal/config"
	"pricetrack/internal/feed"
	"pricetrack/internal/httpapi"
	"pricetrack/internal/metrics"
	"pricetrack/internal/scheduler"
	"pricetrack/internal/service"
	"pricetrack/internal/storage"
	"pricetrack/internal/store"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Metrics *metrics.Metrics
	// Out receives command output; defaults to stdout.
	Out io.Writer
	Now func() time.Time
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{
		Config:  cfg,
		Logger:  logger.With().Str("component", "app").Logger(),
		Metrics: metrics.New(),
		Out:     os.Stdout,
		Now:     time.Now,
	}
}

func (a *App) newNotifier() alerting.Notifier {
	if a.Config.Alerting.Telegram.Enabled {
		cfg := a.Config.Alerting.Telegram
		return alerting.NewTelegramNotifier(cfg.BotToken, cfg.ChatID, cfg.APIBase, cfg.Timeout, a.Logger)
	}
	return nil
}

func (a *App) rules() alerting.Rules {
	return alerting.Rules{
		ChangeThresholdPct:      decimal.NewFromFloat(a.Config.Alerting.ChangeThresholdPct),
		OpportunityThresholdPct: decimal.NewFromFloat(a.Config.Alerting.OpportunityThresholdPct),
	}
}

// openStore opens the configured backend and loads the catalog, seeding
// the sample data on first use.
func (a *App) openStore(ctx context.Context) (*store.Store, func(), error) {
	blobs, closeBlobs, err := storage.Open(ctx, a.Config.Storage)
	if err != nil {
		return nil, nil, err
	}

	s := store.New(blobs,
		store.WithKey(a.Config.Storage.Key),
		store.WithLogger(a.Logger),
		store.WithClock(a.Now),
		store.WithRules(a.rules()),
		store.WithMetrics(a.Metrics),
		store.WithAlertSink(alerting.NewDispatcher(a.newNotifier(), a.Metrics, a.Logger)),
	)
	if _, err := s.Load(ctx); err != nil {
		closeBlobs()
		return nil, nil, err
	}
	return s, closeBlobs, nil
}

func (a *App) newFeedSync(s *store.Store, sched *scheduler.Scheduler) *service.FeedSync {
	cfg := a.Config.Feeds
	client := feed.NewClient(feed.Options{Timeout: cfg.Timeout, UserAgent: cfg.UserAgent}, a.Logger)

	sources := make([]feed.Source, 0, len(cfg.Sources))
	for _, src := range cfg.Sources {
		sources = append(sources, feed.Source{Name: src.Name, URL: src.URL})
	}
	return service.New(sched, client, sources, s, a.Metrics, a.Logger)
}

// Serve runs the HTTP API together with the feed scheduler and the export
// cron until SIGINT or SIGTERM.
func (a *App) Serve(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	s, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	g, ctx := errgroup.WithContext(ctx)

	handler := httpapi.NewHandler(s, a.Metrics, a.Now, a.Logger)
	server := httpapi.NewServer(a.Config.HTTP, handler.Router(), a.Logger)
	g.Go(func() error { return server.Run(ctx) })

	if a.Config.Feeds.Enabled && len(a.Config.Feeds.Sources) > 0 {
		sched := scheduler.New(scheduler.Options{
			Interval:     a.Config.Feeds.Interval,
			Align:        a.Config.Feeds.Align,
			StartupDelay: a.Config.Feeds.StartupDelay,
			RunOnStart:   true,
		}, a.Logger)
		feedSync := a.newFeedSync(s, sched)
		g.Go(func() error { return feedSync.Run(ctx) })
	} else {
		a.Logger.Info().Msg("feed polling disabled")
	}

	if a.Config.Export.Schedule != "" {
		g.Go(func() error { return a.runExportCron(ctx, s) })
	}

	a.Logger.Info().Str("addr", a.Config.HTTP.Addr).Msg("starting pricetrack service")
	err = g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		a.Logger.Error().Err(err).Msg("service terminated with error")
		return err
	}

	a.Logger.Info().Msg("pricetrack service stopped")
	return nil
}

// SyncFeeds pulls every configured feed once.
func (a *App) SyncFeeds(ctx context.Context) error {
	if len(a.Config.Feeds.Sources) == 0 {
		return errors.New("no feeds.sources configured")
	}

	s, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	summary, err := a.newFeedSync(s, nil).Sync(ctx)
	p := a.printer()
	p.Fprintf(a.Out, "applied %d, unchanged %d, skipped %d, failed %d, alerts %d\n",
		summary.Applied, summary.Unchanged, summary.Skipped, summary.Failed, summary.Alerts)
	if err != nil {
		return fmt.Errorf("sync feeds: %w", err)
	}
	return nil
}
