package httphandler

import (
	"log/slog"
	"net/http"

	"github.com/niksmo/craft-store/internal/core/port"
)

// GET    v1/cart                                   (200 OK)
// POST   v1/cart/items JSON {"product_id"}         (200 OK, 404 Not found, 409 Conflict)
// PATCH  v1/cart/items/{id} JSON {"delta"}         (200 OK)
// DELETE v1/cart/items/{id}                        (200 OK)

type CartHandler struct {
	cart port.CartKeeper
}

func RegisterCart(mux *http.ServeMux, cart port.CartKeeper) {
	h := CartHandler{cart}
	mux.HandleFunc("GET /v1/cart", h.GetCart)
	mux.HandleFunc("POST /v1/cart/items", h.AddItem)
	mux.HandleFunc("PATCH /v1/cart/items/{id}", h.AdjustItem)
	mux.HandleFunc("DELETE /v1/cart/items/{id}", h.RemoveItem)
}

func (h CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, fromCart(h.cart.Cart()))
}

func (h CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.AddItem"
	log := slog.With("op", op)

	var v CartItemAdd
	if !decodeJSON(w, r, log, &v) {
		return
	}

	c, err := h.cart.AddToCart(v.ProductID)
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeJSON(w, http.StatusOK, fromCart(c))
}

func (h CartHandler) AdjustItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.AdjustItem"
	log := slog.With("op", op)

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var v CartItemAdjust
	if !decodeJSON(w, r, log, &v) {
		return
	}

	writeJSON(w, http.StatusOK, fromCart(h.cart.AdjustQuantity(id, v.Delta)))
}

func (h CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, fromCart(h.cart.RemoveFromCart(id)))
}
