package app

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// SetPrice records a supplier price and reports any alerts it raised.
func (a *App) SetPrice(ctx context.Context, productID, supplierID string, price decimal.Decimal) error {
	s, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	update, err := s.UpdateProductPrice(ctx, productID, supplierID, price)
	if err != nil {
		return err
	}

	p := a.printer()
	p.Fprintf(a.Out, "%s: %s now %s\n", update.Product.Name, supplierID, money(p, price))
	for _, alert := range update.Alerts {
		fmt.Fprintf(a.Out, "alert %s: %s (%s)\n", alert.ID, alert.Type, alertDetail(p, alert))
	}
	return nil
}

// MarkRead marks one alert as read.
func (a *App) MarkRead(ctx context.Context, alertID string) error {
	s, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	if err := s.MarkAlertAsRead(ctx, alertID); err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "alert %s marked as read\n", alertID)
	return nil
}
