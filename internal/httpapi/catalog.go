package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"pricetrack/internal/analytics"
	"pricetrack/internal/store"
)

// ListSuppliers handles GET /api/suppliers?q=.
func (h *Handler) ListSuppliers(w http.ResponseWriter, r *http.Request) {
	snap := h.store.Snapshot()
	respondJSON(w, http.StatusOK, analytics.SearchSuppliers(snap, r.URL.Query().Get("q")))
}

// CreateSupplier handles POST /api/suppliers.
func (h *Handler) CreateSupplier(w http.ResponseWriter, r *http.Request) {
	var in store.SupplierInput
	if !decodeBody(w, r, &in) {
		return
	}
	sup, err := h.store.AddSupplier(r.Context(), in)
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, sup)
}

// GetSupplier handles GET /api/suppliers/{id}.
func (h *Handler) GetSupplier(w http.ResponseWriter, r *http.Request) {
	sup, ok := h.store.Supplier(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusNotFound, "supplier not found")
		return
	}
	respondJSON(w, http.StatusOK, sup)
}

// UpdateSupplier handles PATCH /api/suppliers/{id}.
func (h *Handler) UpdateSupplier(w http.ResponseWriter, r *http.Request) {
	var patch store.SupplierPatch
	if !decodeBody(w, r, &patch) {
		return
	}
	sup, err := h.store.UpdateSupplier(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, sup)
}

// DeleteSupplier handles DELETE /api/suppliers/{id}.
func (h *Handler) DeleteSupplier(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteSupplier(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListProducts handles GET /api/products?category=&sort=&q=.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sort, err := analytics.ParseProductSort(q.Get("sort"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	products := analytics.FilterProducts(h.store.Snapshot(), analytics.ProductFilter{
		Category: q.Get("category"),
		Sort:     sort,
		Query:    q.Get("q"),
	})
	respondJSON(w, http.StatusOK, products)
}

// CreateProduct handles POST /api/products.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var in store.ProductInput
	if !decodeBody(w, r, &in) {
		return
	}
	product, err := h.store.AddProduct(r.Context(), in)
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, product)
}

// GetProduct handles GET /api/products/{id}.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, ok := h.store.Product(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusNotFound, "product not found")
		return
	}
	respondJSON(w, http.StatusOK, product)
}

// UpdateProduct handles PATCH /api/products/{id}.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var patch store.ProductPatch
	if !decodeBody(w, r, &patch) {
		return
	}
	product, err := h.store.UpdateProduct(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

// DeleteProduct handles DELETE /api/products/{id}.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListCategories handles GET /api/categories.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, analytics.Categories(h.store.Snapshot()))
}
