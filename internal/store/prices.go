package store

import (
	"context"

	"github.com/shopspring/decimal"

	"pricetrack/internal/alerting"
	"pricetrack/internal/catalog"
)

// PriceUpdate is the outcome of UpdateProductPrice.
type PriceUpdate struct {
	Product catalog.Product
	Alerts  []catalog.Alert
}

// UpdateProductPrice replaces or inserts the supplier's current price,
// appends a history entry dated today and evaluates the alert rules against
// the prices held before the change.
func (s *Store) UpdateProductPrice(ctx context.Context, productID, supplierID string, price decimal.Decimal) (PriceUpdate, error) {
	s.mu.Lock()
	update, events, err := s.updateProductPrice(ctx, productID, supplierID, price)
	s.mu.Unlock()

	s.notify(ctx, events)
	return update, err
}

func (s *Store) updateProductPrice(ctx context.Context, productID, supplierID string, price decimal.Decimal) (PriceUpdate, []alerting.Event, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return PriceUpdate{}, nil, err
	}
	idx := s.productIndex(productID)
	if idx < 0 {
		return PriceUpdate{}, nil, notFound("product", productID)
	}
	if s.supplierIndex(supplierID) < 0 {
		return PriceUpdate{}, nil, notFound("supplier", supplierID)
	}
	if price.IsNegative() {
		return PriceUpdate{}, nil, invalid("price must not be negative")
	}

	today := s.today()
	product := &s.data.Products[idx]

	change := alerting.PriceChange{
		ProductID:  productID,
		SupplierID: supplierID,
		NewPrice:   price,
		Date:       today,
	}
	replaced := false
	for i := range product.Prices {
		rec := &product.Prices[i]
		if rec.SupplierID != supplierID {
			change.Others = append(change.Others, *rec)
			continue
		}
		change.OldPrice = catalog.DecimalPtr(rec.Price)
		rec.Price = price
		rec.LastUpdated = today
		replaced = true
	}
	if !replaced {
		product.Prices = append(product.Prices, catalog.PriceRecord{
			SupplierID:  supplierID,
			Price:       price,
			LastUpdated: today,
		})
	}
	product.PriceHistory = append(product.PriceHistory, catalog.PriceObservation{
		SupplierID: supplierID,
		Price:      price,
		Date:       today,
	})

	update := PriceUpdate{}
	var events []alerting.Event
	for _, draft := range s.rules.Evaluate(change) {
		alert := s.appendAlert(draft)
		update.Alerts = append(update.Alerts, alert.Clone())
		events = append(events, s.eventFor(alert))
	}

	s.recomputeSupplierStats()
	update.Product = s.data.Products[idx].Clone()

	s.logger.Debug().
		Str("product_id", productID).
		Str("supplier_id", supplierID).
		Str("price", price.String()).
		Int("alerts", len(update.Alerts)).
		Msg("price updated")
	return update, events, s.commit(ctx, "update_price")
}
