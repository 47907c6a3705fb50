package app

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"pricetrack/internal/analytics"
	"pricetrack/internal/catalog"
)

// ListOptions configure the products, suppliers and alerts commands.
type ListOptions struct {
	Category   string
	Sort       string
	Query      string
	UnreadOnly bool
}

func (a *App) printer() *message.Printer {
	return message.NewPrinter(language.AmericanEnglish)
}

func (a *App) table() *tabwriter.Writer {
	return tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
}

func money(p *message.Printer, d decimal.Decimal) string {
	return p.Sprintf("$%.2f", d.Round(2).InexactFloat64())
}

func percent(p *message.Printer, d decimal.Decimal) string {
	return p.Sprintf("%+.2f%%", d.Round(2).InexactFloat64())
}

// snapshot opens the store just long enough to copy the catalog.
func (a *App) snapshot(ctx context.Context) (catalog.Snapshot, error) {
	s, closeStore, err := a.openStore(ctx)
	if err != nil {
		return catalog.Snapshot{}, err
	}
	defer closeStore()
	return s.Snapshot(), nil
}

// Products prints the filtered product list with each product's price range.
func (a *App) Products(ctx context.Context, opts ListOptions) error {
	sort, err := analytics.ParseProductSort(opts.Sort)
	if err != nil {
		return err
	}
	snap, err := a.snapshot(ctx)
	if err != nil {
		return err
	}

	products := analytics.FilterProducts(snap, analytics.ProductFilter{Category: opts.Category, Sort: sort, Query: opts.Query})
	if len(products) == 0 {
		fmt.Fprintln(a.Out, "no products found")
		return nil
	}

	p := a.printer()
	w := a.table()
	fmt.Fprintln(w, "ID\tName\tCategory\tSKU\tSuppliers\tBest\tHighest")
	for _, product := range products {
		best, highest := "-", "-"
		if len(product.Prices) > 0 {
			lo, hi := product.Prices[0].Price, product.Prices[0].Price
			for _, rec := range product.Prices[1:] {
				lo = decimal.Min(lo, rec.Price)
				hi = decimal.Max(hi, rec.Price)
			}
			best, highest = money(p, lo), money(p, hi)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			product.ID, product.Name, product.Category, product.SKU, len(product.Prices), best, highest)
	}
	return w.Flush()
}

// Suppliers prints suppliers matching the query with their derived stats.
func (a *App) Suppliers(ctx context.Context, opts ListOptions) error {
	snap, err := a.snapshot(ctx)
	if err != nil {
		return err
	}

	suppliers := analytics.SearchSuppliers(snap, opts.Query)
	if len(suppliers) == 0 {
		fmt.Fprintln(a.Out, "no suppliers found")
		return nil
	}

	p := a.printer()
	w := a.table()
	fmt.Fprintln(w, "ID\tName\tContact\tEmail\tProducts\tAvg Change")
	for _, sup := range suppliers {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
			sup.ID, sup.Name, sup.Contact, sup.Email, sup.ProductCount, percent(p, sup.AvgPriceChange))
	}
	return w.Flush()
}

// Alerts prints alerts, unread first.
func (a *App) Alerts(ctx context.Context, opts ListOptions) error {
	snap, err := a.snapshot(ctx)
	if err != nil {
		return err
	}

	alerts := analytics.SortedAlerts(snap, opts.UnreadOnly)
	if len(alerts) == 0 {
		fmt.Fprintln(a.Out, "no alerts")
		return nil
	}

	p := a.printer()
	w := a.table()
	fmt.Fprintln(w, "ID\tDate\tType\tProduct\tSupplier\tDetail\tRead")
	for _, alert := range alerts {
		product, _ := snap.Product(alert.ProductID)
		supplier, _ := snap.Supplier(alert.SupplierID)
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%t\n",
			alert.ID, alert.Date, alert.Type, product.Name, supplier.Name, alertDetail(p, alert), alert.Read)
	}
	return w.Flush()
}

func alertDetail(p *message.Printer, alert catalog.Alert) string {
	switch {
	case alert.OldPrice != nil && alert.NewPrice != nil:
		return money(p, *alert.OldPrice) + " -> " + money(p, *alert.NewPrice)
	case alert.BestPrice != nil && alert.Savings != nil:
		return "best " + money(p, *alert.BestPrice) + ", save " + money(p, *alert.Savings)
	default:
		return ""
	}
}

// Compare prints every supplier price of one product, cheapest first.
func (a *App) Compare(ctx context.Context, productID string) error {
	snap, err := a.snapshot(ctx)
	if err != nil {
		return err
	}

	entries, ok := analytics.PriceComparison(snap, productID)
	if !ok {
		return fmt.Errorf("product %q not found", productID)
	}
	if len(entries) == 0 {
		fmt.Fprintln(a.Out, "no prices recorded")
		return nil
	}

	p := a.printer()
	w := a.table()
	fmt.Fprintln(w, "Supplier\tPrice\tLast Updated\tBest")
	for _, e := range entries {
		best := ""
		if e.IsBestPrice {
			best = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.SupplierName, money(p, e.Price), e.LastUpdated, best)
	}
	return w.Flush()
}

// Savings prints the products where switching supplier saves money.
func (a *App) Savings(ctx context.Context) error {
	snap, err := a.snapshot(ctx)
	if err != nil {
		return err
	}

	opps := analytics.SavingsOpportunities(snap)
	if len(opps) == 0 {
		fmt.Fprintln(a.Out, "no savings opportunities")
		return nil
	}

	p := a.printer()
	w := a.table()
	fmt.Fprintln(w, "Product\tCurrent\tPrice\tBest\tPrice\tSavings\tSavings %")
	for _, o := range opps {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			o.ProductName, o.CurrentSupplierName, money(p, o.CurrentPrice),
			o.BestSupplierName, money(p, o.BestPrice), money(p, o.Savings),
			p.Sprintf("%.2f%%", o.SavingsPercent.InexactFloat64()))
	}
	return w.Flush()
}

// Stats prints the price change summary of the timeframe.
func (a *App) Stats(ctx context.Context, timeframe string) error {
	tf, err := analytics.ParseTimeframe(timeframe)
	if err != nil {
		return err
	}
	snap, err := a.snapshot(ctx)
	if err != nil {
		return err
	}

	now := a.Now()
	stats := analytics.PriceChangeStats(snap, tf, now)
	p := a.printer()
	p.Fprintf(a.Out, "timeframe:       %s (since %s)\n", tf, tf.Start(now))
	p.Fprintf(a.Out, "price drops:     %d\n", stats.PriceDrops)
	p.Fprintf(a.Out, "price increases: %d\n", stats.PriceIncreases)
	p.Fprintf(a.Out, "total savings:   %s\n", money(p, stats.TotalSavings))
	p.Fprintf(a.Out, "opportunities:   %d\n", stats.OpportunitiesCount)
	return nil
}

// Recent prints the newest price observations.
func (a *App) Recent(ctx context.Context, limit int) error {
	snap, err := a.snapshot(ctx)
	if err != nil {
		return err
	}

	updates := analytics.RecentPriceUpdates(snap, limit)
	if len(updates) == 0 {
		fmt.Fprintln(a.Out, "no price updates")
		return nil
	}

	p := a.printer()
	w := a.table()
	fmt.Fprintln(w, "Date\tProduct\tSupplier\tPrice")
	for _, u := range updates {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.Date, sanitizeInline(u.ProductName), sanitizeInline(u.SupplierName), money(p, u.Price))
	}
	return w.Flush()
}

func sanitizeInline(v string) string {
	cleaned := strings.ReplaceAll(v, "\n", " ")
	return strings.ReplaceAll(cleaned, "\r", " ")
}
