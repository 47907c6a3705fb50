package store

import (
	"context"

	"pricetrack/internal/catalog"
)

// Products returns a deep copy of every product.
func (s *Store) Products() []catalog.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]catalog.Product, len(s.data.Products))
	for i, p := range s.data.Products {
		out[i] = p.Clone()
	}
	return out
}

// Product returns a deep copy of one product.
func (s *Store) Product(id string) (catalog.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.data.Product(id)
	if !ok {
		return catalog.Product{}, false
	}
	return p.Clone(), true
}

// AddProduct stores a new product. Prices are stamped with today's date and,
// when no history is supplied, the history is seeded from them.
func (s *Store) AddProduct(ctx context.Context, in ProductInput) (catalog.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return catalog.Product{}, err
	}
	if err := s.check(in); err != nil {
		return catalog.Product{}, err
	}
	if err := s.checkPrices(in.Prices); err != nil {
		return catalog.Product{}, err
	}
	if err := s.checkHistory(in.PriceHistory); err != nil {
		return catalog.Product{}, err
	}

	id := in.ID
	taken := func(id string) bool { return s.productIndex(id) >= 0 }
	switch {
	case id == "":
		id = s.generateID(ProductPrefix, taken)
	case taken(id):
		return catalog.Product{}, invalid("product %s already exists", id)
	}

	today := s.today()
	product := catalog.Product{
		ID:           id,
		Name:         in.Name,
		Category:     in.Category,
		SKU:          in.SKU,
		Prices:       make([]catalog.PriceRecord, 0, len(in.Prices)),
		PriceHistory: append([]catalog.PriceObservation{}, in.PriceHistory...),
	}
	for _, p := range in.Prices {
		product.Prices = append(product.Prices, catalog.PriceRecord{
			SupplierID:  p.SupplierID,
			Price:       p.Price,
			LastUpdated: today,
		})
		if len(product.HistoryFor(p.SupplierID)) == 0 {
			product.PriceHistory = append(product.PriceHistory, catalog.PriceObservation{
				SupplierID: p.SupplierID,
				Price:      p.Price,
				Date:       today,
			})
		}
	}

	s.data.Products = append(s.data.Products, product)
	s.recomputeSupplierStats()

	s.logger.Debug().Str("product_id", id).Int("prices", len(product.Prices)).Msg("product added")
	return product.Clone(), s.commit(ctx, "add_product")
}

// UpdateProduct merges the non-nil patch fields. A Prices patch replaces the
// current prices and appends history for every new or changed price; it does
// not raise alerts.
func (s *Store) UpdateProduct(ctx context.Context, id string, patch ProductPatch) (catalog.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return catalog.Product{}, err
	}
	idx := s.productIndex(id)
	if idx < 0 {
		return catalog.Product{}, notFound("product", id)
	}

	cur := s.data.Products[idx]
	merged := productFields{
		Name:     pick(patch.Name, cur.Name),
		Category: pick(patch.Category, cur.Category),
		SKU:      pick(patch.SKU, cur.SKU),
	}
	if err := s.check(merged); err != nil {
		return catalog.Product{}, err
	}
	if patch.Prices != nil {
		if err := s.check(priceList{Prices: *patch.Prices}); err != nil {
			return catalog.Product{}, err
		}
		if err := s.checkPrices(*patch.Prices); err != nil {
			return catalog.Product{}, err
		}
	}

	next := cur.Clone()
	next.Name = merged.Name
	next.Category = merged.Category
	next.SKU = merged.SKU
	if patch.Prices != nil {
		today := s.today()
		prices := make([]catalog.PriceRecord, 0, len(*patch.Prices))
		for _, p := range *patch.Prices {
			old, had := cur.PriceFor(p.SupplierID)
			if had && old.Price.Equal(p.Price) {
				prices = append(prices, old)
				continue
			}
			prices = append(prices, catalog.PriceRecord{SupplierID: p.SupplierID, Price: p.Price, LastUpdated: today})
			next.PriceHistory = append(next.PriceHistory, catalog.PriceObservation{
				SupplierID: p.SupplierID,
				Price:      p.Price,
				Date:       today,
			})
		}
		next.Prices = prices
	}

	s.data.Products[idx] = next
	s.recomputeSupplierStats()

	s.logger.Debug().Str("product_id", id).Msg("product updated")
	return next.Clone(), s.commit(ctx, "update_product")
}

// DeleteProduct removes the product and its alerts.
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}
	idx := s.productIndex(id)
	if idx < 0 {
		return notFound("product", id)
	}

	s.data.Products = append(s.data.Products[:idx], s.data.Products[idx+1:]...)
	s.cascade(ref{kind: refProduct, id: id})

	s.logger.Debug().Str("product_id", id).Msg("product deleted")
	return s.commit(ctx, "delete_product")
}

func (s *Store) productIndex(id string) int {
	for i := range s.data.Products {
		if s.data.Products[i].ID == id {
			return i
		}
	}
	return -1
}
