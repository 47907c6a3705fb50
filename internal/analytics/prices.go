package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"pricetrack/internal/catalog"
)

var hundred = decimal.NewFromInt(100)

// ComparisonEntry is one supplier's current price for a product.
type ComparisonEntry struct {
	SupplierID   string          `json:"supplierId"`
	SupplierName string          `json:"supplierName"`
	Price        decimal.Decimal `json:"price"`
	LastUpdated  catalog.Date    `json:"lastUpdated"`
	IsBestPrice  bool            `json:"isBestPrice"`
}

// PriceComparison lists the product's prices lowest first. Every entry at
// the minimum price is marked best. Prices of deleted suppliers are skipped.
// ok is false when the product is unknown.
func PriceComparison(snap catalog.Snapshot, productID string) (entries []ComparisonEntry, ok bool) {
	product, ok := snap.Product(productID)
	if !ok {
		return nil, false
	}

	entries = []ComparisonEntry{}
	for _, rec := range product.Prices {
		sup, known := snap.Supplier(rec.SupplierID)
		if !known {
			continue
		}
		entries = append(entries, ComparisonEntry{
			SupplierID:   rec.SupplierID,
			SupplierName: sup.Name,
			Price:        rec.Price,
			LastUpdated:  rec.LastUpdated,
		})
	}
	if len(entries) == 0 {
		return entries, true
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if c := entries[i].Price.Cmp(entries[j].Price); c != 0 {
			return c < 0
		}
		return entries[i].SupplierID < entries[j].SupplierID
	})
	best := entries[0].Price
	for i := range entries {
		entries[i].IsBestPrice = entries[i].Price.Equal(best)
	}
	return entries, true
}

// Opportunity suggests switching a product from its current supplier to a
// cheaper one.
type Opportunity struct {
	ProductID           string          `json:"productId"`
	ProductName         string          `json:"productName"`
	CurrentSupplierID   string          `json:"currentSupplierId"`
	CurrentSupplierName string          `json:"currentSupplierName"`
	CurrentPrice        decimal.Decimal `json:"currentPrice"`
	BestSupplierID      string          `json:"bestSupplierId"`
	BestSupplierName    string          `json:"bestSupplierName"`
	BestPrice           decimal.Decimal `json:"bestPrice"`
	Savings             decimal.Decimal `json:"savings"`
	SavingsPercent      decimal.Decimal `json:"savingsPercent"`
}

// SavingsOpportunities compares, for every product with at least two prices,
// the current price (most recent lastUpdated) with the lowest one. Ties on
// either side go to the lower supplier id. Results are ordered by savings,
// largest first.
func SavingsOpportunities(snap catalog.Snapshot) []Opportunity {
	out := []Opportunity{}
	for _, product := range snap.Products {
		if len(product.Prices) < 2 {
			continue
		}

		current, best := product.Prices[0], product.Prices[0]
		for _, rec := range product.Prices[1:] {
			if c := rec.LastUpdated.Compare(current.LastUpdated); c > 0 || (c == 0 && rec.SupplierID < current.SupplierID) {
				current = rec
			}
			if c := rec.Price.Cmp(best.Price); c < 0 || (c == 0 && rec.SupplierID < best.SupplierID) {
				best = rec
			}
		}
		if current.SupplierID == best.SupplierID || !current.Price.GreaterThan(best.Price) {
			continue
		}

		currentSup, ok := snap.Supplier(current.SupplierID)
		if !ok {
			continue
		}
		bestSup, ok := snap.Supplier(best.SupplierID)
		if !ok {
			continue
		}

		savings := current.Price.Sub(best.Price)
		out = append(out, Opportunity{
			ProductID:           product.ID,
			ProductName:         product.Name,
			CurrentSupplierID:   current.SupplierID,
			CurrentSupplierName: currentSup.Name,
			CurrentPrice:        current.Price,
			BestSupplierID:      best.SupplierID,
			BestSupplierName:    bestSup.Name,
			BestPrice:           best.Price,
			Savings:             savings,
			SavingsPercent:      savings.Div(current.Price).Mul(hundred).Round(2),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Savings.GreaterThan(out[j].Savings)
	})
	return out
}

// RecentUpdate is one history entry with names resolved.
type RecentUpdate struct {
	ProductID    string          `json:"productId"`
	ProductName  string          `json:"productName"`
	SupplierID   string          `json:"supplierId"`
	SupplierName string          `json:"supplierName"`
	Price        decimal.Decimal `json:"price"`
	Date         catalog.Date    `json:"date"`
}

// DefaultRecentLimit applies when RecentPriceUpdates gets limit <= 0.
const DefaultRecentLimit = 10

// RecentPriceUpdates flattens every history entry, newest first, keeping
// insertion order among entries of the same day.
func RecentPriceUpdates(snap catalog.Snapshot, limit int) []RecentUpdate {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	updates := []RecentUpdate{}
	for _, product := range snap.Products {
		for _, obs := range product.PriceHistory {
			sup, ok := snap.Supplier(obs.SupplierID)
			if !ok {
				continue
			}
			updates = append(updates, RecentUpdate{
				ProductID:    product.ID,
				ProductName:  product.Name,
				SupplierID:   obs.SupplierID,
				SupplierName: sup.Name,
				Price:        obs.Price,
				Date:         obs.Date,
			})
		}
	}

	sort.SliceStable(updates, func(i, j int) bool {
		return updates[i].Date.After(updates[j].Date)
	})
	if len(updates) > limit {
		updates = updates[:limit]
	}
	return updates
}

// PriceHistory returns one supplier's history for a product, oldest first.
func PriceHistory(snap catalog.Snapshot, productID, supplierID string) ([]catalog.PriceObservation, bool) {
	product, ok := snap.Product(productID)
	if !ok {
		return nil, false
	}
	history := append([]catalog.PriceObservation{}, product.HistoryFor(supplierID)...)
	sortByDate(history)
	return history, true
}

func sortByDate(history []catalog.PriceObservation) {
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Date.Before(history[j].Date)
	})
}
