package store

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"pricetrack/internal/catalog"
)

// SupplierInput is the caller-editable part of a supplier.
type SupplierInput struct {
	ID      string `json:"id"`
	Name    string `json:"name" validate:"required"`
	Contact string `json:"contact"`
	Phone   string `json:"phone"`
	Email   string `json:"email" validate:"omitempty,email"`
	Notes   string `json:"notes"`
}

// PriceInput is one supplier price on a product form.
type PriceInput struct {
	SupplierID string          `json:"supplierId" validate:"required"`
	Price      decimal.Decimal `json:"price" validate:"gte=0"`
}

// ProductInput creates a product. PriceHistory is optional; when nil the
// history is seeded from Prices dated today.
type ProductInput struct {
	ID           string                     `json:"id"`
	Name         string                     `json:"name" validate:"required"`
	Category     string                     `json:"category" validate:"required"`
	SKU          string                     `json:"sku"`
	Prices       []PriceInput               `json:"prices" validate:"required,min=1,dive"`
	PriceHistory []catalog.PriceObservation `json:"priceHistory,omitempty"`
}

// SupplierPatch updates only the non-nil fields.
type SupplierPatch struct {
	Name    *string `json:"name"`
	Contact *string `json:"contact"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	Notes   *string `json:"notes"`
}

// ProductPatch updates only the non-nil fields. Prices, when set, replaces
// the current prices.
type ProductPatch struct {
	Name     *string       `json:"name"`
	Category *string       `json:"category"`
	SKU      *string       `json:"sku"`
	Prices   *[]PriceInput `json:"prices"`
}

type productFields struct {
	Name     string `json:"name" validate:"required"`
	Category string `json:"category" validate:"required"`
	SKU      string `json:"sku"`
}

type priceList struct {
	Prices []PriceInput `json:"prices" validate:"required,min=1,dive"`
}

type alertInput struct {
	Type       catalog.AlertType `validate:"required,oneof=price-drop price-increase opportunity"`
	ProductID  string            `validate:"required"`
	SupplierID string            `validate:"required"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

func (s *Store) check(input interface{}) error {
	err := s.validate.Struct(input)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s failed on %s", fe.Namespace(), fe.Tag()))
		}
		return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(msgs, "; "))
	}
	return fmt.Errorf("%w: %v", ErrInvalidInput, err)
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func notFound(kind, id string) error {
	return fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
}

// checkPrices rejects unknown and repeated suppliers.
func (s *Store) checkPrices(prices []PriceInput) error {
	seen := make(map[string]struct{}, len(prices))
	for _, p := range prices {
		if s.supplierIndex(p.SupplierID) < 0 {
			return invalid("unknown supplier %s", p.SupplierID)
		}
		if _, dup := seen[p.SupplierID]; dup {
			return invalid("supplier %s priced twice", p.SupplierID)
		}
		seen[p.SupplierID] = struct{}{}
	}
	return nil
}

// checkHistory holds supplied history to the same rules as prices.
func (s *Store) checkHistory(history []catalog.PriceObservation) error {
	for i, obs := range history {
		if s.supplierIndex(obs.SupplierID) < 0 {
			return invalid("priceHistory[%d]: unknown supplier %q", i, obs.SupplierID)
		}
		if obs.Price.IsNegative() {
			return invalid("priceHistory[%d]: negative price", i)
		}
		if obs.Date.IsZero() {
			return invalid("priceHistory[%d]: missing date", i)
		}
	}
	return nil
}

// checkAlertRefs requires existing references and the payload of the kind.
func (s *Store) checkAlertRefs(a catalog.Alert) error {
	if s.productIndex(a.ProductID) < 0 {
		return invalid("unknown product %s", a.ProductID)
	}
	if s.supplierIndex(a.SupplierID) < 0 {
		return invalid("unknown supplier %s", a.SupplierID)
	}
	switch a.Type {
	case catalog.AlertPriceDrop, catalog.AlertPriceIncrease:
		if a.OldPrice == nil || a.NewPrice == nil {
			return invalid("%s alert needs oldPrice and newPrice", a.Type)
		}
	case catalog.AlertOpportunity:
		if a.BestPrice == nil || a.Savings == nil {
			return invalid("opportunity alert needs bestPrice and savings")
		}
	}
	return nil
}
