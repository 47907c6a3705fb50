package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"pricetrack/internal/catalog"
)

// TrendProducts is how many products, in catalog order, feed the trend chart.
const TrendProducts = 5

// ChangeStats summarises price movement over a timeframe.
type ChangeStats struct {
	PriceDrops         int             `json:"priceDrops"`
	PriceIncreases     int             `json:"priceIncreases"`
	TotalSavings       decimal.Decimal `json:"totalSavings"`
	OpportunitiesCount int             `json:"opportunitiesCount"`
}

// PriceChangeStats compares, per (product, supplier), the latest observation
// on or before the window start with the latest observation overall. Pairs
// without a baseline are skipped. TotalSavings sums the absolute drops.
func PriceChangeStats(snap catalog.Snapshot, tf Timeframe, now time.Time) ChangeStats {
	start := tf.Start(now)
	stats := ChangeStats{TotalSavings: decimal.Zero}

	for _, product := range snap.Products {
		for _, history := range groupBySupplier(product.PriceHistory) {
			var baseline *catalog.PriceObservation
			for i := range history {
				if history[i].Date.After(start) {
					break
				}
				baseline = &history[i]
			}
			if baseline == nil {
				continue
			}

			diff := history[len(history)-1].Price.Sub(baseline.Price)
			switch diff.Sign() {
			case -1:
				stats.PriceDrops++
				stats.TotalSavings = stats.TotalSavings.Add(diff.Neg())
			case 1:
				stats.PriceIncreases++
			}
		}
	}

	stats.OpportunitiesCount = len(SavingsOpportunities(snap))
	return stats
}

// TrendSeries is the chart feed: one label per week and one dataset per
// (product, supplier) pair.
type TrendSeries struct {
	Labels   []catalog.Date `json:"labels"`
	Datasets []TrendDataset `json:"datasets"`
}

// TrendDataset holds one value per label.
type TrendDataset struct {
	Label      string            `json:"label"`
	ProductID  string            `json:"productId"`
	SupplierID string            `json:"supplierId"`
	Data       []decimal.Decimal `json:"data"`
}

// PriceTrendsSeries builds weekly labels from the window start to today and,
// for the first five products, a step series per supplier with history in
// the window. Each value is the latest observation on or before the label;
// before the first one the series carries the last pre-window observation,
// or the first in-window observation when there is none.
func PriceTrendsSeries(snap catalog.Snapshot, tf Timeframe, now time.Time) TrendSeries {
	start := tf.Start(now)
	today := catalog.DateOf(now)

	series := TrendSeries{Labels: []catalog.Date{}, Datasets: []TrendDataset{}}
	for label := start; !label.After(today); label = label.AddDays(7) {
		series.Labels = append(series.Labels, label)
	}

	products := snap.Products
	if len(products) > TrendProducts {
		products = products[:TrendProducts]
	}

	for _, product := range products {
		for _, history := range groupBySupplier(product.PriceHistory) {
			supplierID := history[0].SupplierID
			sup, ok := snap.Supplier(supplierID)
			if !ok {
				continue
			}

			firstInWindow := -1
			for i := range history {
				if !history[i].Date.Before(start) {
					firstInWindow = i
					break
				}
			}
			if firstInWindow < 0 {
				continue
			}

			current := history[firstInWindow].Price
			if firstInWindow > 0 {
				current = history[firstInWindow-1].Price
			}

			data := make([]decimal.Decimal, 0, len(series.Labels))
			next := 0
			for _, label := range series.Labels {
				for next < len(history) && !history[next].Date.After(label) {
					current = history[next].Price
					next++
				}
				data = append(data, current)
			}

			series.Datasets = append(series.Datasets, TrendDataset{
				Label:      product.Name + " - " + sup.Name,
				ProductID:  product.ID,
				SupplierID: supplierID,
				Data:       data,
			})
		}
	}
	return series
}

// groupBySupplier splits history per supplier in first-appearance order,
// each group sorted oldest first.
func groupBySupplier(history []catalog.PriceObservation) [][]catalog.PriceObservation {
	index := make(map[string]int)
	var groups [][]catalog.PriceObservation
	for _, obs := range history {
		i, ok := index[obs.SupplierID]
		if !ok {
			i = len(groups)
			index[obs.SupplierID] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], obs)
	}
	for _, g := range groups {
		sortByDate(g)
	}
	return groups
}
