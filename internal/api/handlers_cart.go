package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	subtotal, tax, total := h.cart.Totals(r.Context())
	h.respondJSON(w, http.StatusOK, cartResponse{
		Items:    h.cart.Items(r.Context()),
		Subtotal: subtotal,
		Tax:      tax,
		Total:    total,
	})
}

// AddCartItem stages a line. A low-stock advisory, when present, rides along
// in the response without blocking the add.
func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var req addCartItemRequest
	if err := h.decode(r, &req); err != nil {
		h.respondError(w, err)
		return
	}
	advisory, err := h.cart.AddItem(r.Context(), req.ProductID, req.Quantity)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, map[string]any{
		"items":    h.cart.Items(r.Context()),
		"advisory": advisory,
	})
}

func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	h.cart.RemoveItem(r.Context(), chi.URLParam(r, "id"))
	h.respondJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.cart.Clear(r.Context())
	h.respondJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) AbandonCart(w http.ResponseWriter, r *http.Request) {
	h.cart.Abandon(r.Context())
	h.respondJSON(w, http.StatusNoContent, nil)
}
