// Package store owns the catalog graph. Every mutation runs to completion
// under one lock, then the whole graph is written back as a single blob.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"pricetrack/internal/alerting"
	"pricetrack/internal/catalog"
	"pricetrack/internal/metrics"
	"pricetrack/internal/storage"
)

// DefaultKey is the blob key the catalog is stored under.
const DefaultKey = "priceTrackData"

var (
	// ErrNotFound is returned for operations on an unknown id.
	ErrNotFound = errors.New("store: not found")
	// ErrInvalidInput is returned when input fails validation. Nothing is mutated.
	ErrInvalidInput = errors.New("store: invalid input")
)

// Store is the catalog handle shared by the HTTP API, the CLI and the feed
// sync job.
type Store struct {
	mu sync.Mutex

	blobs    storage.BlobStore
	key      string
	logger   zerolog.Logger
	now      func() time.Time
	newID    IDGenerator
	rules    alerting.Rules
	sink     alerting.Sink
	metrics  *metrics.Metrics
	validate *validator.Validate

	data   catalog.Snapshot
	loaded bool
}

// Option customises a Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithClock overrides time.Now; dates are taken from the clock's UTC day.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides the uuid-based id generator.
func WithIDGenerator(gen IDGenerator) Option {
	return func(s *Store) { s.newID = gen }
}

// WithAlertSink receives every alert the store creates.
func WithAlertSink(sink alerting.Sink) Option {
	return func(s *Store) { s.sink = sink }
}

// WithRules overrides the default 2%/5% alert thresholds.
func WithRules(rules alerting.Rules) Option {
	return func(s *Store) { s.rules = rules }
}

// WithMetrics records mutations, persist failures and catalog sizes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// WithKey overrides the blob key.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// New creates a store over blobs. Load must be called before the read
// accessors return data; mutators load lazily.
func New(blobs storage.BlobStore, opts ...Option) *Store {
	s := &Store{
		blobs:    blobs,
		key:      DefaultKey,
		logger:   zerolog.Nop(),
		now:      time.Now,
		newID:    UUIDs,
		rules:    alerting.DefaultRules(),
		validate: newValidator(),
		data:     emptySnapshot(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With().Str("component", "store").Logger()
	return s
}

// Load reads the persisted blob, seeding and persisting the sample dataset
// when the key is absent. Later calls return the cached graph without I/O.
func (s *Store) Load(ctx context.Context) (catalog.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return catalog.Snapshot{}, err
	}
	return s.data.Clone(), nil
}

// Reload discards the cached graph and reads the blob again.
func (s *Store) Reload(ctx context.Context) (catalog.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loaded = false
	if err := s.ensureLoaded(ctx); err != nil {
		return catalog.Snapshot{}, err
	}
	return s.data.Clone(), nil
}

// Snapshot returns a deep copy of the cached graph for the analytics
// functions.
func (s *Store) Snapshot() catalog.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Clone()
}

func (s *Store) ensureLoaded(ctx context.Context) error {
	if s.loaded {
		return nil
	}

	raw, ok, err := s.blobs.Load(ctx, s.key)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	if !ok {
		s.data = catalog.SampleData()
		normalize(&s.data)
		s.loaded = true
		s.logger.Info().Str("key", s.key).Msg("no stored catalog, seeding sample data")
		return s.persist(ctx)
	}

	var snap catalog.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return fmt.Errorf("decode catalog: %w", err)
	}
	normalize(&snap)
	s.data = snap
	s.loaded = true
	s.metrics.SetCatalogSize(len(snap.Suppliers), len(snap.Products), len(snap.Alerts))
	s.logger.Debug().
		Int("suppliers", len(snap.Suppliers)).
		Int("products", len(snap.Products)).
		Int("alerts", len(snap.Alerts)).
		Msg("catalog loaded")
	return nil
}

// persist overwrites the whole blob. The in-memory graph keeps the mutation
// when the write fails.
func (s *Store) persist(ctx context.Context) error {
	s.metrics.SetCatalogSize(len(s.data.Suppliers), len(s.data.Products), len(s.data.Alerts))

	raw, err := json.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	if err := s.blobs.Save(ctx, s.key, raw); err != nil {
		s.metrics.PersistFailed()
		s.logger.Error().Err(err).Str("key", s.key).Msg("failed to persist catalog")
		return fmt.Errorf("persist catalog: %w", err)
	}
	return nil
}

// commit persists after a mutation and records it.
func (s *Store) commit(ctx context.Context, op string) error {
	s.metrics.Mutation(op)
	return s.persist(ctx)
}

// notify hands alerts to the sink. It must be called without s.mu held.
func (s *Store) notify(ctx context.Context, events []alerting.Event) {
	if s.sink == nil || len(events) == 0 {
		return
	}
	s.sink.AlertsCreated(ctx, events)
}

func (s *Store) eventFor(a catalog.Alert) alerting.Event {
	ev := alerting.Event{Alert: a.Clone()}
	if p := s.productIndex(a.ProductID); p >= 0 {
		ev.ProductName = s.data.Products[p].Name
	}
	if i := s.supplierIndex(a.SupplierID); i >= 0 {
		ev.SupplierName = s.data.Suppliers[i].Name
	}
	return ev
}

func (s *Store) today() catalog.Date {
	return catalog.DateOf(s.now())
}

func emptySnapshot() catalog.Snapshot {
	return catalog.Snapshot{
		Suppliers: []catalog.Supplier{},
		Products:  []catalog.Product{},
		Alerts:    []catalog.Alert{},
	}
}

// normalize replaces nil slices so the blob always carries arrays.
func normalize(snap *catalog.Snapshot) {
	if snap.Suppliers == nil {
		snap.Suppliers = []catalog.Supplier{}
	}
	if snap.Products == nil {
		snap.Products = []catalog.Product{}
	}
	if snap.Alerts == nil {
		snap.Alerts = []catalog.Alert{}
	}
	for i := range snap.Products {
		if snap.Products[i].Prices == nil {
			snap.Products[i].Prices = []catalog.PriceRecord{}
		}
		if snap.Products[i].PriceHistory == nil {
			snap.Products[i].PriceHistory = []catalog.PriceObservation{}
		}
	}
}
