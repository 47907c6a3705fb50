package analytics

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"pricetrack/internal/catalog"
)

// ProductSort orders FilterProducts results.
type ProductSort string

const (
	SortName      ProductSort = "name"
	SortPriceLow  ProductSort = "price-low"
	SortPriceHigh ProductSort = "price-high"
	SortUpdated   ProductSort = "updated"
)

// ParseProductSort accepts the four sort keys; empty means name.
func ParseProductSort(s string) (ProductSort, error) {
	switch ps := ProductSort(strings.ToLower(strings.TrimSpace(s))); ps {
	case "":
		return SortName, nil
	case SortName, SortPriceLow, SortPriceHigh, SortUpdated:
		return ps, nil
	default:
		return "", fmt.Errorf("unknown sort %q", s)
	}
}

// ProductFilter narrows and orders the product list. Empty or "all"
// Category keeps every product; Query matches name, category, SKU and the
// names of pricing suppliers, case-insensitively.
type ProductFilter struct {
	Category string
	Sort     ProductSort
	Query    string
}

// FilterProducts applies f and returns copies of the matching products.
// Products without prices sort last under the price and updated orders.
func FilterProducts(snap catalog.Snapshot, f ProductFilter) []catalog.Product {
	query := strings.ToLower(strings.TrimSpace(f.Query))
	out := []catalog.Product{}
	for _, p := range snap.Products {
		if f.Category != "" && f.Category != "all" && p.Category != f.Category {
			continue
		}
		if query != "" && !productMatches(snap, p, query) {
			continue
		}
		out = append(out, p.Clone())
	}

	switch f.Sort {
	case SortPriceLow:
		sort.SliceStable(out, func(i, j int) bool {
			return lessPriced(out[i], out[j], -1)
		})
	case SortPriceHigh:
		sort.SliceStable(out, func(i, j int) bool {
			return lessPriced(out[i], out[j], 1)
		})
	case SortUpdated:
		sort.SliceStable(out, func(i, j int) bool {
			a, aok := latestUpdate(out[i])
			b, bok := latestUpdate(out[j])
			if aok != bok {
				return aok
			}
			return a.After(b)
		})
	default:
		col := collate.New(language.AmericanEnglish, collate.IgnoreCase)
		sort.SliceStable(out, func(i, j int) bool {
			return col.CompareString(out[i].Name, out[j].Name) < 0
		})
	}
	return out
}

// lessPriced orders by lowest price ascending (dir -1) or highest price
// descending (dir +1), unpriced products last.
func lessPriced(a, b catalog.Product, dir int) bool {
	pa, aok := extremePrice(a, dir)
	pb, bok := extremePrice(b, dir)
	if aok != bok {
		return aok
	}
	if !aok {
		return false
	}
	return pa.Price.Cmp(pb.Price) == dir
}

func extremePrice(p catalog.Product, dir int) (catalog.PriceRecord, bool) {
	if len(p.Prices) == 0 {
		return catalog.PriceRecord{}, false
	}
	best := p.Prices[0]
	for _, rec := range p.Prices[1:] {
		if rec.Price.Cmp(best.Price) == dir {
			best = rec
		}
	}
	return best, true
}

func latestUpdate(p catalog.Product) (catalog.Date, bool) {
	var latest catalog.Date
	for _, rec := range p.Prices {
		if rec.LastUpdated.After(latest) {
			latest = rec.LastUpdated
		}
	}
	return latest, len(p.Prices) > 0
}

func productMatches(snap catalog.Snapshot, p catalog.Product, query string) bool {
	if containsFold(p.Name, query) || containsFold(p.Category, query) || containsFold(p.SKU, query) {
		return true
	}
	for _, rec := range p.Prices {
		if sup, ok := snap.Supplier(rec.SupplierID); ok && containsFold(sup.Name, query) {
			return true
		}
	}
	return false
}

// SearchSuppliers matches name, contact, phone, email and notes.
func SearchSuppliers(snap catalog.Snapshot, query string) []catalog.Supplier {
	query = strings.ToLower(strings.TrimSpace(query))
	out := []catalog.Supplier{}
	for _, s := range snap.Suppliers {
		if query == "" ||
			containsFold(s.Name, query) ||
			containsFold(s.Contact, query) ||
			containsFold(s.Phone, query) ||
			containsFold(s.Email, query) ||
			containsFold(s.Notes, query) {
			out = append(out, s)
		}
	}
	return out
}

// SortedAlerts orders alerts unread first, then newest first. Alerts whose
// product or supplier is gone are dropped.
func SortedAlerts(snap catalog.Snapshot, unreadOnly bool) []catalog.Alert {
	out := []catalog.Alert{}
	for _, a := range snap.Alerts {
		if unreadOnly && a.Read {
			continue
		}
		if _, ok := snap.Product(a.ProductID); !ok {
			continue
		}
		if _, ok := snap.Supplier(a.SupplierID); !ok {
			continue
		}
		out = append(out, a.Clone())
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Read != out[j].Read {
			return !out[i].Read
		}
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// Categories lists the distinct product categories in first-seen order.
func Categories(snap catalog.Snapshot) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, p := range snap.Products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}

func containsFold(s, lowerQuery string) bool {
	return s != "" && strings.Contains(strings.ToLower(s), lowerQuery)
}
