package http

import (
	"encoding/json"
	"net/http"

	"github.com/prashant0268/shamyraweb/internal/cart"
	"github.com/prashant0268/shamyraweb/internal/checkout"
	"github.com/prashant0268/shamyraweb/internal/domain"
)

type CheckoutHandler struct {
	registry *cart.Registry
	checkout *checkout.Service
}

func NewCheckoutHandler(registry *cart.Registry, checkout *checkout.Service) *CheckoutHandler {
	return &CheckoutHandler{
		registry: registry,
		checkout: checkout,
	}
}

type CheckoutRequestDTO struct {
	ShippingAddress domain.ShippingAddress `json:"shipping_address"`
}

func (h *CheckoutHandler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	session := getSession(r.Context())
	engine := h.registry.EngineFor(getDeviceID(r.Context()), session)

	order, err := h.checkout.CreateOrder(r.Context(), session, engine, req.ShippingAddress)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, order)
}

func (h *CheckoutHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.checkout.ListOrders(r.Context(), getSession(r.Context()))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if orders == nil {
		orders = []*domain.Order{}
	}

	respondJSON(w, http.StatusOK, orders)
}
