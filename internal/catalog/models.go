package catalog

import (
	"github.com/shopspring/decimal"
)

func init() {
	// The persisted blob carries prices as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// AlertType classifies an alert record.
type AlertType string

const (
	AlertPriceDrop     AlertType = "price-drop"
	AlertPriceIncrease AlertType = "price-increase"
	AlertOpportunity   AlertType = "opportunity"
)

// Valid reports whether t is one of the known alert kinds.
func (t AlertType) Valid() bool {
	switch t {
	case AlertPriceDrop, AlertPriceIncrease, AlertOpportunity:
		return true
	default:
		return false
	}
}

// Supplier offers products at a price. ProductCount and AvgPriceChange are
// derived and recomputed by the store after every product or price mutation.
type Supplier struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Contact        string          `json:"contact,omitempty"`
	Phone          string          `json:"phone,omitempty"`
	Email          string          `json:"email,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	ProductCount   int             `json:"productCount"`
	AvgPriceChange decimal.Decimal `json:"avgPriceChange"`
}

// PriceRecord is the current price a supplier charges for a product.
type PriceRecord struct {
	SupplierID  string          `json:"supplierId"`
	Price       decimal.Decimal `json:"price"`
	LastUpdated Date            `json:"lastUpdated"`
}

// PriceObservation is one append-only history entry.
type PriceObservation struct {
	SupplierID string          `json:"supplierId"`
	Price      decimal.Decimal `json:"price"`
	Date       Date            `json:"date"`
}

// Product is a catalog item tracked across suppliers. Prices holds at most
// one record per supplier; PriceHistory is insertion ordered, not date sorted.
type Product struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Category     string             `json:"category"`
	SKU          string             `json:"sku,omitempty"`
	Prices       []PriceRecord      `json:"prices"`
	PriceHistory []PriceObservation `json:"priceHistory"`
}

// PriceFor returns the current price record of supplierID.
func (p Product) PriceFor(supplierID string) (PriceRecord, bool) {
	for _, rec := range p.Prices {
		if rec.SupplierID == supplierID {
			return rec, true
		}
	}
	return PriceRecord{}, false
}

// HistoryFor returns the history entries of supplierID in insertion order.
func (p Product) HistoryFor(supplierID string) []PriceObservation {
	var out []PriceObservation
	for _, obs := range p.PriceHistory {
		if obs.SupplierID == supplierID {
			out = append(out, obs)
		}
	}
	return out
}

// Alert is created as a side effect of a price mutation. Price-change alerts
// carry OldPrice/NewPrice, opportunity alerts carry BestPrice/Savings.
type Alert struct {
	ID         string           `json:"id"`
	Type       AlertType        `json:"type"`
	ProductID  string           `json:"productId"`
	SupplierID string           `json:"supplierId"`
	OldPrice   *decimal.Decimal `json:"oldPrice,omitempty"`
	NewPrice   *decimal.Decimal `json:"newPrice,omitempty"`
	BestPrice  *decimal.Decimal `json:"bestPrice,omitempty"`
	Savings    *decimal.Decimal `json:"savings,omitempty"`
	Date       Date             `json:"date"`
	Read       bool             `json:"read"`
}

// Snapshot is the whole persisted graph.
type Snapshot struct {
	Suppliers []Supplier `json:"suppliers"`
	Products  []Product  `json:"products"`
	Alerts    []Alert    `json:"alerts"`
}

// Supplier looks up a supplier by id.
func (s Snapshot) Supplier(id string) (Supplier, bool) {
	for _, sup := range s.Suppliers {
		if sup.ID == id {
			return sup, true
		}
	}
	return Supplier{}, false
}

// Product looks up a product by id.
func (s Snapshot) Product(id string) (Product, bool) {
	for _, p := range s.Products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// Alert looks up an alert by id.
func (s Snapshot) Alert(id string) (Alert, bool) {
	for _, a := range s.Alerts {
		if a.ID == id {
			return a, true
		}
	}
	return Alert{}, false
}

// Clone returns a deep copy so callers never share slices with the store.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Suppliers: make([]Supplier, len(s.Suppliers)),
		Products:  make([]Product, len(s.Products)),
		Alerts:    make([]Alert, len(s.Alerts)),
	}
	copy(out.Suppliers, s.Suppliers)
	for i, p := range s.Products {
		out.Products[i] = p.Clone()
	}
	for i, a := range s.Alerts {
		out.Alerts[i] = a.Clone()
	}
	return out
}

// Clone deep-copies the product's price slices.
func (p Product) Clone() Product {
	out := p
	out.Prices = append(make([]PriceRecord, 0, len(p.Prices)), p.Prices...)
	out.PriceHistory = append(make([]PriceObservation, 0, len(p.PriceHistory)), p.PriceHistory...)
	return out
}

// Clone deep-copies the optional price fields.
func (a Alert) Clone() Alert {
	out := a
	out.OldPrice = cloneDecimal(a.OldPrice)
	out.NewPrice = cloneDecimal(a.NewPrice)
	out.BestPrice = cloneDecimal(a.BestPrice)
	out.Savings = cloneDecimal(a.Savings)
	return out
}

func cloneDecimal(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}

// DecimalPtr is a helper for populating optional alert fields.
func DecimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}
