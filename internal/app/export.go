package app

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"

	"pricetrack/internal/analytics"
	"pricetrack/internal/export"
	"pricetrack/internal/store"
)

// ExportOptions override the export paths and timeframe from config.
type ExportOptions struct {
	CSVPath   string
	PNGPath   string
	Timeframe string
}

// Export writes the catalog CSV and the trends chart.
func (a *App) Export(ctx context.Context, opts ExportOptions) error {
	s, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	return a.writeExports(s, a.resolveExport(opts), a.Now())
}

func (a *App) resolveExport(opts ExportOptions) ExportOptions {
	if opts.CSVPath == "" && opts.PNGPath == "" {
		opts.CSVPath = a.Config.Export.CSVPath
		opts.PNGPath = a.Config.Export.PNGPath
	}
	if opts.Timeframe == "" {
		opts.Timeframe = a.Config.Export.Timeframe
	}
	return opts
}

func (a *App) writeExports(s *store.Store, opts ExportOptions, now time.Time) error {
	if opts.CSVPath == "" && opts.PNGPath == "" {
		return errors.New("at least one of --csv or --png must be provided")
	}
	tf, err := analytics.ParseTimeframe(opts.Timeframe)
	if err != nil {
		return err
	}

	snap := s.Snapshot()
	if opts.CSVPath != "" {
		if err := export.WriteCSVFile(opts.CSVPath, snap); err != nil {
			return err
		}
		a.Logger.Info().Str("path", opts.CSVPath).Msg("csv export written")
	}

	if opts.PNGPath != "" {
		series := analytics.PriceTrendsSeries(snap, tf, now)
		err := export.WriteTrendsPNGFile(opts.PNGPath, series)
		switch {
		case errors.Is(err, export.ErrNoTrendData):
			a.Logger.Info().Str("timeframe", string(tf)).Msg("no trend data in window; chart skipped")
		case err != nil:
			return err
		default:
			a.Logger.Info().Str("path", opts.PNGPath).Msg("trends chart written")
		}
	}
	return nil
}

// runExportCron writes the configured exports on export.schedule until ctx
// is done.
func (a *App) runExportCron(ctx context.Context, s *store.Store) error {
	logger := a.Logger.With().Str("component", "export_cron").Logger()
	c := cron.New()

	opts := a.resolveExport(ExportOptions{})
	_, err := c.AddFunc(a.Config.Export.Schedule, func() {
		if err := a.writeExports(s, opts, a.Now()); err != nil {
			logger.Error().Err(err).Msg("scheduled export failed")
		}
	})
	if err != nil {
		return err
	}

	c.Start()
	logger.Info().Str("schedule", a.Config.Export.Schedule).Msg("export cron started")

	<-ctx.Done()
	<-c.Stop().Done()
	logger.Info().Msg("export cron stopped")
	return ctx.Err()
}
