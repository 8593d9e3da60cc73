package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prashant0268/shamyraweb/internal/catalog"
	"github.com/prashant0268/shamyraweb/internal/domain"
)

type ProductHandler struct {
	catalog catalog.Repository
}

func NewProductHandler(catalog catalog.Repository) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	var (
		products []*domain.Product
		err      error
	)

	switch {
	case r.URL.Query().Get("featured") == "true":
		products, err = h.catalog.ListFeatured(r.Context())
	case r.URL.Query().Get("category") != "" && r.URL.Query().Get("category") != "all":
		products, err = h.catalog.ListByCategory(r.Context(), r.URL.Query().Get("category"))
	default:
		products, err = h.catalog.GetAllProducts(r.Context())
	}

	if err != nil {
		handleServiceError(w, err)
		return
	}
	if products == nil {
		products = []*domain.Product{}
	}

	respondJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), productID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, categories)
}
