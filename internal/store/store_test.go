package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricetrack/internal/alerting"
	"pricetrack/internal/catalog"
	"pricetrack/internal/metrics"
	"pricetrack/internal/storage"
)

var fixedNow = time.Date(2025, time.January, 25, 14, 30, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type countingBlobs struct {
	storage.BlobStore
	mu    sync.Mutex
	loads int
	saves int
	fail  error
}

func (c *countingBlobs) Load(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	c.loads++
	c.mu.Unlock()
	return c.BlobStore.Load(ctx, key)
}

func (c *countingBlobs) Save(ctx context.Context, key string, data []byte) error {
	c.mu.Lock()
	c.saves++
	fail := c.fail
	c.mu.Unlock()
	if fail != nil {
		return fail
	}
	return c.BlobStore.Save(ctx, key, data)
}

type recordingSink struct {
	mu     sync.Mutex
	events []alerting.Event
}

func (r *recordingSink) AlertsCreated(_ context.Context, events []alerting.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, events...)
}

func newSampleStore(t *testing.T, opts ...Option) (*Store, *countingBlobs) {
	t.Helper()
	blobs := &countingBlobs{BlobStore: storage.NewMemory()}
	base := []Option{
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(Sequential()),
	}
	s := New(blobs, append(base, opts...)...)
	_, err := s.Load(context.Background())
	require.NoError(t, err)
	return s, blobs
}

func alertsOfType(alerts []catalog.Alert, kind catalog.AlertType) []catalog.Alert {
	var out []catalog.Alert
	for _, a := range alerts {
		if a.Type == kind {
			out = append(out, a)
		}
	}
	return out
}

func TestLoadSeedsSampleDataOnce(t *testing.T) {
	s, blobs := newSampleStore(t)

	assert.Equal(t, 1, blobs.loads)
	assert.Equal(t, 1, blobs.saves)

	snap, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, blobs.loads)
	assert.Len(t, snap.Suppliers, 4)
	assert.Len(t, snap.Products, 6)
	assert.Len(t, snap.Alerts, 3)

	raw, ok, err := blobs.BlobStore.Load(context.Background(), DefaultKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, string(raw), `"Global Supplies Inc."`)
}

func TestLoadReadsExistingBlob(t *testing.T) {
	mem := storage.NewMemory()
	require.NoError(t, mem.Save(context.Background(), "custom", []byte(`{"suppliers":[{"id":"x1","name":"X","productCount":0,"avgPriceChange":0}]}`)))

	s := New(mem, WithKey("custom"))
	snap, err := s.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Suppliers, 1)
	assert.Equal(t, "x1", snap.Suppliers[0].ID)
	assert.NotNil(t, snap.Products)
	assert.NotNil(t, snap.Alerts)
}

func TestLoadRejectsCorruptBlob(t *testing.T) {
	mem := storage.NewMemory()
	require.NoError(t, mem.Save(context.Background(), DefaultKey, []byte(`{not json`)))

	_, err := New(mem).Load(context.Background())
	assert.Error(t, err)
}

func TestUpdateProductPriceDropCreatesAlert(t *testing.T) {
	s, _ := newSampleStore(t)
	ctx := context.Background()

	_, err := s.UpdateProductPrice(ctx, "p1", "s3", dec("41.25"))
	require.NoError(t, err)

	update, err := s.UpdateProductPrice(ctx, "p1", "s3", dec("39.99"))
	require.NoError(t, err)

	drops := alertsOfType(update.Alerts, catalog.AlertPriceDrop)
	require.Len(t, drops, 1)
	assert.Empty(t, alertsOfType(update.Alerts, catalog.AlertPriceIncrease))
	assert.True(t, drops[0].OldPrice.Equal(dec("41.25")))
	assert.True(t, drops[0].NewPrice.Equal(dec("39.99")))
	assert.Equal(t, catalog.DateOf(fixedNow), drops[0].Date)
	assert.False(t, drops[0].Read)

	rec, ok := update.Product.PriceFor("s3")
	require.True(t, ok)
	assert.True(t, rec.Price.Equal(dec("39.99")))
	assert.Equal(t, catalog.DateOf(fixedNow), rec.LastUpdated)

	history := update.Product.HistoryFor("s3")
	require.Len(t, history, 4)
	assert.True(t, history[3].Price.Equal(dec("39.99")))
}

func TestUpdateProductPriceIncreaseAndThreshold(t *testing.T) {
	s, _ := newSampleStore(t)
	ctx := context.Background()

	update, err := s.UpdateProductPrice(ctx, "p1", "s1", dec("43.35"))
	require.NoError(t, err)
	require.Len(t, update.Alerts, 1)
	assert.Equal(t, catalog.AlertPriceIncrease, update.Alerts[0].Type)

	// 43.35 -> 42.50 is -1.96%.
	update, err = s.UpdateProductPrice(ctx, "p1", "s1", dec("42.50"))
	require.NoError(t, err)
	assert.Empty(t, update.Alerts)
	assert.Len(t, s.Alerts(), 4)
}

func TestUpdateProductPriceFirstPriceOpportunity(t *testing.T) {
	s, _ := newSampleStore(t)

	update, err := s.UpdateProductPrice(context.Background(), "p4", "s1", dec("80.00"))
	require.NoError(t, err)

	require.Len(t, update.Alerts, 1)
	opp := update.Alerts[0]
	assert.Equal(t, catalog.AlertOpportunity, opp.Type)
	assert.Equal(t, "s1", opp.SupplierID)
	assert.True(t, opp.BestPrice.Equal(dec("80.00")))
	assert.True(t, opp.Savings.Equal(dec("9.99")))
	assert.Nil(t, opp.OldPrice)

	assert.Len(t, update.Product.Prices, 3)
	assert.Len(t, update.Product.HistoryFor("s1"), 1)
}

func TestUpdateProductPriceOpportunityBelowFivePercent(t *testing.T) {
	s, _ := newSampleStore(t)

	// 89.99 * 0.96 = 86.39; savings 4%.
	update, err := s.UpdateProductPrice(context.Background(), "p4", "s1", dec("86.39"))
	require.NoError(t, err)
	assert.Empty(t, update.Alerts)
}

func TestUpdateProductPriceErrorsLeaveGraphUntouched(t *testing.T) {
	s, blobs := newSampleStore(t)
	ctx := context.Background()
	before := s.Snapshot()

	_, err := s.UpdateProductPrice(ctx, "nope", "s1", dec("1"))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.UpdateProductPrice(ctx, "p1", "nope", dec("1"))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.UpdateProductPrice(ctx, "p1", "s1", dec("-1"))
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.Equal(t, before, s.Snapshot())
	assert.Equal(t, 1, blobs.saves)
}

func TestGeneratedAlertIDsSkipTakenIDs(t *testing.T) {
	s, _ := newSampleStore(t)

	update, err := s.UpdateProductPrice(context.Background(), "p4", "s1", dec("80.00"))
	require.NoError(t, err)
	require.Len(t, update.Alerts, 1)
	assert.Equal(t, "a4", update.Alerts[0].ID)
}

func TestDeleteSupplierCascades(t *testing.T) {
	s, _ := newSampleStore(t)
	ctx := context.Background()

	require.NoError(t, s.DeleteSupplier(ctx, "s3"))

	_, ok := s.Supplier("s3")
	assert.False(t, ok)
	for _, p := range s.Products() {
		_, priced := p.PriceFor("s3")
		assert.False(t, priced, p.ID)
		assert.Empty(t, p.HistoryFor("s3"), p.ID)
	}
	for _, a := range s.Alerts() {
		assert.NotEqual(t, "s3", a.SupplierID)
	}
	_, ok = s.Alert("a2")
	assert.True(t, ok)

	assert.ErrorIs(t, s.DeleteSupplier(ctx, "s3"), ErrNotFound)
}

func TestDeleteProductRemovesOnlyItsAlerts(t *testing.T) {
	s, _ := newSampleStore(t)
	ctx := context.Background()

	require.NoError(t, s.DeleteProduct(ctx, "p2"))

	_, ok := s.Product("p2")
	assert.False(t, ok)
	alerts := s.Alerts()
	require.Len(t, alerts, 2)
	assert.Equal(t, "a1", alerts[0].ID)
	assert.Equal(t, "a3", alerts[1].ID)

	s1, _ := s.Supplier("s1")
	assert.Equal(t, 3, s1.ProductCount)

	assert.ErrorIs(t, s.DeleteProduct(ctx, "p2"), ErrNotFound)
}

func TestDeleteAlert(t *testing.T) {
	s, _ := newSampleStore(t)

	require.NoError(t, s.DeleteAlert(context.Background(), "a1"))
	assert.Len(t, s.Alerts(), 2)
	assert.ErrorIs(t, s.DeleteAlert(context.Background(), "a1"), ErrNotFound)
}

func TestSupplierStatsRecomputedAfterMutation(t *testing.T) {
	s, _ := newSampleStore(t)

	sup, err := s.AddSupplier(context.Background(), SupplierInput{Name: "Fresh Co."})
	require.NoError(t, err)
	assert.Equal(t, "s5", sup.ID)
	assert.Zero(t, sup.ProductCount)
	assert.True(t, sup.AvgPriceChange.IsZero())

	s1, _ := s.Supplier("s1")
	assert.Equal(t, 4, s1.ProductCount)
	assert.True(t, s1.AvgPriceChange.Equal(dec("-1.94")), s1.AvgPriceChange.String())
}

func TestAddSupplierValidation(t *testing.T) {
	s, blobs := newSampleStore(t)
	ctx := context.Background()

	_, err := s.AddSupplier(ctx, SupplierInput{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = s.AddSupplier(ctx, SupplierInput{Name: "Dup", ID: "s1"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = s.AddSupplier(ctx, SupplierInput{Name: "Bad", Email: "not-an-email"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.Len(t, s.Suppliers(), 4)
	assert.Equal(t, 1, blobs.saves)
}

func TestUpdateSupplier(t *testing.T) {
	s, _ := newSampleStore(t)
	ctx := context.Background()

	notes := "Closed on Fridays."
	sup, err := s.UpdateSupplier(ctx, "s2", SupplierPatch{Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, notes, sup.Notes)
	assert.Equal(t, "Value Distributors", sup.Name)

	empty := ""
	_, err = s.UpdateSupplier(ctx, "s2", SupplierPatch{Name: &empty})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = s.UpdateSupplier(ctx, "s9", SupplierPatch{Notes: &notes})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddProductSeedsHistory(t *testing.T) {
	s, _ := newSampleStore(t)

	product, err := s.AddProduct(context.Background(), ProductInput{
		Name:     "Flour (10kg)",
		Category: "grocery",
		Prices: []PriceInput{
			{SupplierID: "s1", Price: dec("12.00")},
			{SupplierID: "s2", Price: dec("11.50")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "p7", product.ID)

	today := catalog.DateOf(fixedNow)
	require.Len(t, product.Prices, 2)
	require.Len(t, product.PriceHistory, 2)
	for i, rec := range product.Prices {
		assert.Equal(t, today, rec.LastUpdated)
		assert.Equal(t, rec.SupplierID, product.PriceHistory[i].SupplierID)
		assert.True(t, rec.Price.Equal(product.PriceHistory[i].Price))
		assert.Equal(t, today, product.PriceHistory[i].Date)
	}

	s2, _ := s.Supplier("s2")
	assert.Equal(t, 3, s2.ProductCount)
}

func TestAddProductKeepsSuppliedHistory(t *testing.T) {
	s, _ := newSampleStore(t)

	product, err := s.AddProduct(context.Background(), ProductInput{
		Name:     "Salt",
		Category: "grocery",
		Prices:   []PriceInput{{SupplierID: "s1", Price: dec("3.00")}, {SupplierID: "s2", Price: dec("3.10")}},
		PriceHistory: []catalog.PriceObservation{
			{SupplierID: "s1", Price: dec("3.20"), Date: catalog.NewDate(2024, time.December, 1)},
		},
	})
	require.NoError(t, err)
	require.Len(t, product.PriceHistory, 2)
	assert.True(t, product.PriceHistory[0].Price.Equal(dec("3.20")))
	assert.Equal(t, "s2", product.PriceHistory[1].SupplierID)
}

func TestAddProductValidation(t *testing.T) {
	s, _ := newSampleStore(t)
	ctx := context.Background()

	cases := map[string]ProductInput{
		"missing name":     {Category: "c", Prices: []PriceInput{{SupplierID: "s1", Price: dec("1")}}},
		"missing category": {Name: "n", Prices: []PriceInput{{SupplierID: "s1", Price: dec("1")}}},
		"no prices":        {Name: "n", Category: "c"},
		"negative price":   {Name: "n", Category: "c", Prices: []PriceInput{{SupplierID: "s1", Price: dec("-1")}}},
		"unknown supplier": {Name: "n", Category: "c", Prices: []PriceInput{{SupplierID: "s9", Price: dec("1")}}},
		"repeated supplier": {Name: "n", Category: "c", Prices: []PriceInput{
			{SupplierID: "s1", Price: dec("1")}, {SupplierID: "s1", Price: dec("2")},
		}},
		"duplicate id": {ID: "p1", Name: "n", Category: "c", Prices: []PriceInput{{SupplierID: "s1", Price: dec("1")}}},
		"history unknown supplier": {Name: "n", Category: "c", Prices: []PriceInput{{SupplierID: "s1", Price: dec("1")}},
			PriceHistory: []catalog.PriceObservation{{SupplierID: "ghost", Price: dec("1"), Date: catalog.DateOf(fixedNow)}}},
		"history negative price": {Name: "n", Category: "c", Prices: []PriceInput{{SupplierID: "s1", Price: dec("1")}},
			PriceHistory: []catalog.PriceObservation{{SupplierID: "s1", Price: dec("-5"), Date: catalog.DateOf(fixedNow)}}},
		"history missing date": {Name: "n", Category: "c", Prices: []PriceInput{{SupplierID: "s1", Price: dec("1")}},
			PriceHistory: []catalog.PriceObservation{{SupplierID: "s1", Price: dec("1")}}},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := s.AddProduct(ctx, in)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
	assert.Len(t, s.Products(), 6)
}

func TestUpdateProductPricesPatch(t *testing.T) {
	s, _ := newSampleStore(t)
	ctx := context.Background()

	name := "Rice (25kg)"
	prices := []PriceInput{
		{SupplierID: "s1", Price: dec("42.50")},
		{SupplierID: "s3", Price: dec("38.00")},
		{SupplierID: "s2", Price: dec("40.00")},
	}
	product, err := s.UpdateProduct(ctx, "p1", ProductPatch{Name: &name, Prices: &prices})
	require.NoError(t, err)

	assert.Equal(t, name, product.Name)
	assert.Equal(t, "grocery", product.Category)
	require.Len(t, product.Prices, 3)
	assert.Equal(t, catalog.MustParseDate("2025-01-15"), product.Prices[0].LastUpdated)
	assert.Equal(t, catalog.DateOf(fixedNow), product.Prices[1].LastUpdated)
	assert.Len(t, product.PriceHistory, 6)
	assert.Len(t, s.Alerts(), 3)

	_, err = s.UpdateProduct(ctx, "p9", ProductPatch{Name: &name})
	assert.ErrorIs(t, err, ErrNotFound)

	none := []PriceInput{}
	_, err = s.UpdateProduct(ctx, "p1", ProductPatch{Prices: &none})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateProductWithoutPricesAfterSupplierRemoval(t *testing.T) {
	s, _ := newSampleStore(t)
	ctx := context.Background()

	require.NoError(t, s.DeleteSupplier(ctx, "s2"))
	require.NoError(t, s.DeleteSupplier(ctx, "s4"))
	p4, _ := s.Product("p4")
	require.Empty(t, p4.Prices)

	sku := "ELE-PHONE-B2"
	product, err := s.UpdateProduct(ctx, "p4", ProductPatch{SKU: &sku})
	require.NoError(t, err)
	assert.Equal(t, sku, product.SKU)
}

func TestAlertsReadFlag(t *testing.T) {
	s, _ := newSampleStore(t)
	ctx := context.Background()

	assert.Equal(t, 2, s.UnreadAlertCount())
	require.NoError(t, s.MarkAlertAsRead(ctx, "a1"))
	assert.Equal(t, 1, s.UnreadAlertCount())

	a1, ok := s.Alert("a1")
	require.True(t, ok)
	assert.True(t, a1.Read)

	assert.ErrorIs(t, s.MarkAlertAsRead(ctx, "a9"), ErrNotFound)
}

func TestAddAlert(t *testing.T) {
	sink := &recordingSink{}
	s, _ := newSampleStore(t, WithAlertSink(sink))
	ctx := context.Background()

	alert, err := s.AddAlert(ctx, catalog.Alert{
		Type: catalog.AlertOpportunity, ProductID: "p1", SupplierID: "s3",
		BestPrice: catalog.DecimalPtr(dec("39.99")), Savings: catalog.DecimalPtr(dec("2.51")),
	})
	require.NoError(t, err)
	assert.Equal(t, "a4", alert.ID)
	assert.Equal(t, catalog.DateOf(fixedNow), alert.Date)
	require.Len(t, sink.events, 1)
	assert.Equal(t, "Rice (50kg)", sink.events[0].ProductName)

	_, err = s.AddAlert(ctx, catalog.Alert{Type: "bogus", ProductID: "p1", SupplierID: "s1"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = s.AddAlert(ctx, catalog.Alert{
		ID: "a1", Type: catalog.AlertPriceDrop, ProductID: "p1", SupplierID: "s1",
		OldPrice: catalog.DecimalPtr(dec("2")), NewPrice: catalog.DecimalPtr(dec("1")),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	rejected := map[string]catalog.Alert{
		"unknown product": {Type: catalog.AlertPriceDrop, ProductID: "nope", SupplierID: "s1",
			OldPrice: catalog.DecimalPtr(dec("2")), NewPrice: catalog.DecimalPtr(dec("1"))},
		"unknown supplier": {Type: catalog.AlertPriceDrop, ProductID: "p1", SupplierID: "nope",
			OldPrice: catalog.DecimalPtr(dec("2")), NewPrice: catalog.DecimalPtr(dec("1"))},
		"drop without prices":      {Type: catalog.AlertPriceDrop, ProductID: "p1", SupplierID: "s1"},
		"increase without old":     {Type: catalog.AlertPriceIncrease, ProductID: "p1", SupplierID: "s1", NewPrice: catalog.DecimalPtr(dec("1"))},
		"opportunity without best": {Type: catalog.AlertOpportunity, ProductID: "p1", SupplierID: "s1", Savings: catalog.DecimalPtr(dec("1"))},
	}
	for name, in := range rejected {
		t.Run(name, func(t *testing.T) {
			_, err := s.AddAlert(ctx, in)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
	assert.Len(t, s.Alerts(), 4)
	assert.Len(t, sink.events, 1)
}

func TestAccessorsReturnCopies(t *testing.T) {
	s, _ := newSampleStore(t)

	p, _ := s.Product("p1")
	p.Prices[0].Price = dec("0.01")
	p.PriceHistory = nil

	again, _ := s.Product("p1")
	assert.True(t, again.Prices[0].Price.Equal(dec("42.50")))
	assert.Len(t, again.PriceHistory, 4)

	alerts := s.Alerts()
	*alerts[0].OldPrice = dec("1")
	a1, _ := s.Alert("a1")
	assert.True(t, a1.OldPrice.Equal(dec("41.25")))
}

func TestPersistRoundTrip(t *testing.T) {
	s, blobs := newSampleStore(t)
	ctx := context.Background()

	_, err := s.UpdateProductPrice(ctx, "p4", "s1", dec("80.00"))
	require.NoError(t, err)
	require.NoError(t, s.DeleteSupplier(ctx, "s4"))
	require.NoError(t, s.MarkAlertAsRead(ctx, "a1"))

	want, err := json.Marshal(s.Snapshot())
	require.NoError(t, err)

	other := New(blobs.BlobStore)
	snap, err := other.Load(ctx)
	require.NoError(t, err)
	got, err := json.Marshal(snap)
	require.NoError(t, err)
	assert.JSONEq(t, string(want), string(got))

	reloaded, err := s.Reload(ctx)
	require.NoError(t, err)
	again, err := json.Marshal(reloaded)
	require.NoError(t, err)
	assert.JSONEq(t, string(want), string(again))
}

func TestPersistFailureKeepsMutation(t *testing.T) {
	m := metrics.New()
	s, blobs := newSampleStore(t, WithMetrics(m))
	blobs.fail = errors.New("disk full")

	_, err := s.UpdateProductPrice(context.Background(), "p1", "s1", dec("50.00"))
	require.Error(t, err)
	assert.ErrorContains(t, err, "disk full")

	p1, _ := s.Product("p1")
	rec, _ := p1.PriceFor("s1")
	assert.True(t, rec.Price.Equal(dec("50.00")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.PersistFailures))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.StoreMutations.WithLabelValues("update_price")))
}

func TestSinkReceivesCreatedAlerts(t *testing.T) {
	sink := &recordingSink{}
	s, _ := newSampleStore(t, WithAlertSink(sink))

	_, err := s.UpdateProductPrice(context.Background(), "p1", "s3", dec("35.00"))
	require.NoError(t, err)

	require.Len(t, sink.events, 2)
	assert.Equal(t, catalog.AlertPriceDrop, sink.events[0].Alert.Type)
	assert.Equal(t, catalog.AlertOpportunity, sink.events[1].Alert.Type)
	assert.Equal(t, "Local Wholesale Co.", sink.events[0].SupplierName)
}

func TestCustomRules(t *testing.T) {
	rules := alerting.Rules{ChangeThresholdPct: dec("10"), OpportunityThresholdPct: dec("50")}
	s, _ := newSampleStore(t, WithRules(rules))

	update, err := s.UpdateProductPrice(context.Background(), "p1", "s3", dec("35.00"))
	require.NoError(t, err)
	require.Len(t, update.Alerts, 1)
	assert.Equal(t, catalog.AlertPriceDrop, update.Alerts[0].Type)
}

func TestConcurrentPriceUpdates(t *testing.T) {
	s, _ := newSampleStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.UpdateProductPrice(ctx, "p2", "s1", decimal.NewFromInt(int64(20+i)))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	p2, _ := s.Product("p2")
	assert.Len(t, p2.HistoryFor("s1"), 22)
}

func TestSequentialNeverReuses(t *testing.T) {
	gen := Sequential()
	assert.Equal(t, "s1", gen("s"))
	assert.Equal(t, "a1", gen("a"))
	assert.Equal(t, "s2", gen("s"))
	assert.Regexp(t, `^p[0-9a-f-]{36}$`, UUIDs("p"))
}
