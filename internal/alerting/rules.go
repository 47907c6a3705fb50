package alerting

import (
	"github.com/shopspring/decimal"

	"pricetrack/internal/catalog"
)

var hundred = decimal.NewFromInt(100)

// Default thresholds, in percent.
var (
	DefaultChangeThresholdPct      = decimal.NewFromInt(2)
	DefaultOpportunityThresholdPct = decimal.NewFromInt(5)
)

// PriceChange is the event evaluated after every price mutation.
type PriceChange struct {
	ProductID  string
	SupplierID string
	// OldPrice is nil when the supplier had no price for the product yet.
	OldPrice *decimal.Decimal
	NewPrice decimal.Decimal
	// Others are the current prices of every other supplier for the product.
	Others []catalog.PriceRecord
	Date   catalog.Date
}

// Rules turns price changes into alert drafts.
type Rules struct {
	ChangeThresholdPct      decimal.Decimal
	OpportunityThresholdPct decimal.Decimal
}

// DefaultRules returns the 2% change / 5% opportunity policy.
func DefaultRules() Rules {
	return Rules{
		ChangeThresholdPct:      DefaultChangeThresholdPct,
		OpportunityThresholdPct: DefaultOpportunityThresholdPct,
	}
}

// Evaluate applies both rules independently and returns zero, one or two
// unsaved alerts (no ID). A price-change alert always precedes an opportunity.
func (r Rules) Evaluate(ev PriceChange) []catalog.Alert {
	var drafts []catalog.Alert
	if a, ok := r.priceChange(ev); ok {
		drafts = append(drafts, a)
	}
	if a, ok := r.opportunity(ev); ok {
		drafts = append(drafts, a)
	}
	return drafts
}

// ChangePct returns (new-old)/old*100, or false when old is zero.
func ChangePct(oldPrice, newPrice decimal.Decimal) (decimal.Decimal, bool) {
	if oldPrice.IsZero() {
		return decimal.Zero, false
	}
	return newPrice.Sub(oldPrice).Div(oldPrice).Mul(hundred), true
}

func (r Rules) priceChange(ev PriceChange) (catalog.Alert, bool) {
	if ev.OldPrice == nil {
		return catalog.Alert{}, false
	}
	pct, ok := ChangePct(*ev.OldPrice, ev.NewPrice)
	if !ok || pct.Abs().LessThan(r.ChangeThresholdPct) || pct.IsZero() {
		return catalog.Alert{}, false
	}

	kind := catalog.AlertPriceIncrease
	if pct.IsNegative() {
		kind = catalog.AlertPriceDrop
	}
	return catalog.Alert{
		Type:       kind,
		ProductID:  ev.ProductID,
		SupplierID: ev.SupplierID,
		OldPrice:   catalog.DecimalPtr(*ev.OldPrice),
		NewPrice:   catalog.DecimalPtr(ev.NewPrice),
		Date:       ev.Date,
	}, true
}

func (r Rules) opportunity(ev PriceChange) (catalog.Alert, bool) {
	var best *decimal.Decimal
	for _, rec := range ev.Others {
		if rec.SupplierID == ev.SupplierID {
			continue
		}
		if best == nil || rec.Price.LessThan(*best) {
			p := rec.Price
			best = &p
		}
	}
	if best == nil || best.IsZero() || !ev.NewPrice.LessThan(*best) {
		return catalog.Alert{}, false
	}

	savings := best.Sub(ev.NewPrice)
	if savings.Div(*best).Mul(hundred).LessThan(r.OpportunityThresholdPct) {
		return catalog.Alert{}, false
	}
	return catalog.Alert{
		Type:       catalog.AlertOpportunity,
		ProductID:  ev.ProductID,
		SupplierID: ev.SupplierID,
		BestPrice:  catalog.DecimalPtr(ev.NewPrice),
		Savings:    catalog.DecimalPtr(savings),
		Date:       ev.Date,
	}, true
}
