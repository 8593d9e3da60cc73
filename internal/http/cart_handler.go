package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prashant0268/shamyraweb/internal/cart"
	"github.com/prashant0268/shamyraweb/internal/catalog"
	"github.com/prashant0268/shamyraweb/internal/domain"
)

type CartHandler struct {
	registry *cart.Registry
	catalog  catalog.Repository
}

func NewCartHandler(registry *cart.Registry, catalog catalog.Repository) *CartHandler {
	return &CartHandler{
		registry: registry,
		catalog:  catalog,
	}
}

type AddItemRequestDTO struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type CartResponseDTO struct {
	Items  []domain.LineItem `json:"items"`
	Total  float64           `json:"total"`
	Count  int               `json:"count"`
	Loaded bool              `json:"loaded"`
}

func (h *CartHandler) engine(r *http.Request) *cart.Engine {
	return h.registry.EngineFor(getDeviceID(r.Context()), getSession(r.Context()))
}

func (h *CartHandler) respondCart(w http.ResponseWriter, status int, e *cart.Engine) {
	items := e.Items()
	if items == nil {
		items = []domain.LineItem{}
	}
	respondJSON(w, status, CartResponseDTO{
		Items:  items,
		Total:  e.CartTotal(),
		Count:  e.CartCount(),
		Loaded: e.Loaded(),
	})
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	h.respondCart(w, http.StatusOK, h.engine(r))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if !product.InStock {
		respondError(w, http.StatusConflict, "out_of_stock", "product is out of stock")
		return
	}

	e := h.engine(r)
	if err := e.AddToCart(*product, req.Quantity); err != nil {
		if errors.Is(err, cart.ErrInvalidQuantity) {
			respondError(w, http.StatusBadRequest, "invalid_quantity", err.Error())
			return
		}
		handleServiceError(w, err)
		return
	}

	h.respondCart(w, http.StatusCreated, e)
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be at most 99")
		return
	}

	// Zero or below removes the item.
	e := h.engine(r)
	e.UpdateQuantity(productID, req.Quantity)

	h.respondCart(w, http.StatusOK, e)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}

	e := h.engine(r)
	e.RemoveFromCart(productID)

	h.respondCart(w, http.StatusOK, e)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	e := h.engine(r)
	e.ClearCart()

	h.respondCart(w, http.StatusOK, e)
}
