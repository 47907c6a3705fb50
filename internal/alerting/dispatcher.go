package alerting

import (
	"context"

	"github.com/rs/zerolog"

	"pricetrack/internal/metrics"
)

// Sink receives alerts right after the store has persisted them.
type Sink interface {
	AlertsCreated(ctx context.Context, events []Event)
}

// Dispatcher logs and counts every alert and forwards it to an optional
// notifier. Delivery failures are logged only; the price mutation that
// produced the alert has already succeeded.
type Dispatcher struct {
	notifier Notifier
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

// NewDispatcher builds a dispatcher; notifier and m may be nil.
func NewDispatcher(notifier Notifier, m *metrics.Metrics, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		notifier: notifier,
		metrics:  m,
		logger:   logger.With().Str("component", "alert_dispatcher").Logger(),
	}
}

// AlertsCreated implements Sink.
func (d *Dispatcher) AlertsCreated(ctx context.Context, events []Event) {
	for _, ev := range events {
		d.metrics.AlertCreated(string(ev.Alert.Type))
		d.logger.Info().
			Str("alert_id", ev.Alert.ID).
			Str("type", string(ev.Alert.Type)).
			Str("product_id", ev.Alert.ProductID).
			Str("supplier_id", ev.Alert.SupplierID).
			Msg("alert created")

		if d.notifier == nil {
			continue
		}
		if err := d.notifier.Notify(ctx, ev); err != nil {
			d.logger.Error().Err(err).Str("alert_id", ev.Alert.ID).Msg("failed to dispatch alert")
		}
	}
}

var _ Sink = (*Dispatcher)(nil)
