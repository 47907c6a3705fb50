package store

import (
	"sort"

	"github.com/shopspring/decimal"

	"pricetrack/internal/alerting"
	"pricetrack/internal/catalog"
)

type refKind int

const (
	refSupplier refKind = iota + 1
	refProduct
)

// ref names an entity that was just removed.
type ref struct {
	kind refKind
	id   string
}

// cascade drops everything that points at a removed entity and refreshes
// the derived supplier stats. It is the only place referential rules live.
//
//	supplier -> its current prices, its history entries, its alerts
//	product  -> its alerts
func (s *Store) cascade(removed ref) {
	switch removed.kind {
	case refSupplier:
		for i := range s.data.Products {
			p := &s.data.Products[i]
			p.Prices = filter(p.Prices, func(r catalog.PriceRecord) bool { return r.SupplierID != removed.id })
			p.PriceHistory = filter(p.PriceHistory, func(o catalog.PriceObservation) bool { return o.SupplierID != removed.id })
		}
		s.data.Alerts = filter(s.data.Alerts, func(a catalog.Alert) bool { return a.SupplierID != removed.id })
	case refProduct:
		s.data.Alerts = filter(s.data.Alerts, func(a catalog.Alert) bool { return a.ProductID != removed.id })
	}
	s.recomputeSupplierStats()
}

// recomputeSupplierStats refreshes ProductCount (products the supplier
// currently prices) and AvgPriceChange (mean first-to-last percent change
// over those products with at least two history entries).
func (s *Store) recomputeSupplierStats() {
	for i := range s.data.Suppliers {
		sup := &s.data.Suppliers[i]
		count := 0
		total := decimal.Zero
		changes := 0

		for _, p := range s.data.Products {
			if _, ok := p.PriceFor(sup.ID); !ok {
				continue
			}
			count++

			history := p.HistoryFor(sup.ID)
			if len(history) < 2 {
				continue
			}
			sort.SliceStable(history, func(a, b int) bool { return history[a].Date.Before(history[b].Date) })
			pct, ok := alerting.ChangePct(history[0].Price, history[len(history)-1].Price)
			if !ok {
				continue
			}
			total = total.Add(pct)
			changes++
		}

		sup.ProductCount = count
		sup.AvgPriceChange = decimal.Zero
		if changes > 0 {
			sup.AvgPriceChange = total.Div(decimal.NewFromInt(int64(changes))).Round(2)
		}
	}
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := items[:0]
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}
