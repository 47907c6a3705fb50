package store

import (
	"context"

	"github.com/shopspring/decimal"

	"pricetrack/internal/catalog"
)

// Suppliers returns a copy of every supplier.
func (s *Store) Suppliers() []catalog.Supplier {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]catalog.Supplier{}, s.data.Suppliers...)
}

// Supplier returns a copy of one supplier.
func (s *Store) Supplier(id string) (catalog.Supplier, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Supplier(id)
}

// AddSupplier stores a new supplier with zeroed derived stats.
func (s *Store) AddSupplier(ctx context.Context, in SupplierInput) (catalog.Supplier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return catalog.Supplier{}, err
	}
	if err := s.check(in); err != nil {
		return catalog.Supplier{}, err
	}

	id := in.ID
	taken := func(id string) bool { return s.supplierIndex(id) >= 0 }
	switch {
	case id == "":
		id = s.generateID(SupplierPrefix, taken)
	case taken(id):
		return catalog.Supplier{}, invalid("supplier %s already exists", id)
	}

	sup := catalog.Supplier{
		ID:             id,
		Name:           in.Name,
		Contact:        in.Contact,
		Phone:          in.Phone,
		Email:          in.Email,
		Notes:          in.Notes,
		AvgPriceChange: decimal.Zero,
	}
	s.data.Suppliers = append(s.data.Suppliers, sup)
	s.recomputeSupplierStats()

	s.logger.Debug().Str("supplier_id", id).Msg("supplier added")
	sup, _ = s.data.Supplier(id)
	return sup, s.commit(ctx, "add_supplier")
}

// UpdateSupplier merges the non-nil patch fields. The id never changes.
func (s *Store) UpdateSupplier(ctx context.Context, id string, patch SupplierPatch) (catalog.Supplier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return catalog.Supplier{}, err
	}
	idx := s.supplierIndex(id)
	if idx < 0 {
		return catalog.Supplier{}, notFound("supplier", id)
	}

	cur := s.data.Suppliers[idx]
	merged := SupplierInput{
		ID:      cur.ID,
		Name:    pick(patch.Name, cur.Name),
		Contact: pick(patch.Contact, cur.Contact),
		Phone:   pick(patch.Phone, cur.Phone),
		Email:   pick(patch.Email, cur.Email),
		Notes:   pick(patch.Notes, cur.Notes),
	}
	if err := s.check(merged); err != nil {
		return catalog.Supplier{}, err
	}

	cur.Name = merged.Name
	cur.Contact = merged.Contact
	cur.Phone = merged.Phone
	cur.Email = merged.Email
	cur.Notes = merged.Notes
	s.data.Suppliers[idx] = cur
	s.recomputeSupplierStats()

	s.logger.Debug().Str("supplier_id", id).Msg("supplier updated")
	return s.data.Suppliers[idx], s.commit(ctx, "update_supplier")
}

// DeleteSupplier removes the supplier together with its prices, history
// entries and alerts.
func (s *Store) DeleteSupplier(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}
	idx := s.supplierIndex(id)
	if idx < 0 {
		return notFound("supplier", id)
	}

	s.data.Suppliers = append(s.data.Suppliers[:idx], s.data.Suppliers[idx+1:]...)
	s.cascade(ref{kind: refSupplier, id: id})

	s.logger.Debug().Str("supplier_id", id).Msg("supplier deleted")
	return s.commit(ctx, "delete_supplier")
}

func (s *Store) supplierIndex(id string) int {
	for i := range s.data.Suppliers {
		if s.data.Suppliers[i].ID == id {
			return i
		}
	}
	return -1
}

func pick(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	return *v
}
