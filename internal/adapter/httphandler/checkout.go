package httphandler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/niksmo/craft-store/internal/core/domain"
	"github.com/niksmo/craft-store/internal/core/port"
)

// GET  v1/checkout                                 (200 OK)
// PUT  v1/checkout/fields/{field} JSON {"value"}   (200 OK, 400 Bad request)
// POST v1/checkout JSON form [?wait=true]          (202 Accepted, 200 OK when waiting,
//                                                  422 Unprocessable entity, 409 Conflict)
// GET  v1/orders/{id}                              (200 OK, 404 Not found)

type CheckoutHandler struct {
	// ctx outlives the request: the placement continues after the
	// response is written.
	ctx       context.Context
	submitter port.CheckoutSubmitter
}

func RegisterCheckout(
	mux *http.ServeMux, ctx context.Context, submitter port.CheckoutSubmitter,
) {
	h := CheckoutHandler{ctx, submitter}
	mux.HandleFunc("GET /v1/checkout", h.GetCheckout)
	mux.HandleFunc("PUT /v1/checkout/fields/{field}", h.UpdateField)
	mux.HandleFunc("POST /v1/checkout", h.Submit)
}

func (h CheckoutHandler) GetCheckout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, fromCheckout(h.submitter.Checkout()))
}

func (h CheckoutHandler) UpdateField(w http.ResponseWriter, r *http.Request) {
	const op = "CheckoutHandler.UpdateField"
	log := slog.With("op", op)

	field, err := domain.ParseField(r.PathValue("field"))
	if err != nil {
		writeError(w, log, err)
		return
	}

	var v FieldValue
	if !decodeJSON(w, r, log, &v) {
		return
	}

	st, err := h.submitter.UpdateField(field, v.Value)
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeJSON(w, http.StatusOK, fromCheckout(st))
}

func (h CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	const op = "CheckoutHandler.Submit"
	log := slog.With("op", op)

	var v CheckoutForm
	if !decodeJSON(w, r, log, &v) {
		return
	}

	res, err := h.submitter.SubmitCheckout(h.ctx, v.toDomain())
	if err != nil {
		writeError(w, log, err)
		return
	}

	if r.URL.Query().Get("wait") != "true" {
		writeJSON(w, http.StatusAccepted, fromCheckout(h.submitter.Checkout()))
		return
	}

	select {
	case <-r.Context().Done():
		return
	case result := <-res:
		if result.Err != nil {
			writeError(w, log, result.Err)
			return
		}
		writeJSON(w, http.StatusOK, fromCheckout(h.submitter.Checkout()))
	}
}

type OrdersHandler struct {
	finder port.OrderFinder
}

func RegisterOrders(mux *http.ServeMux, finder port.OrderFinder) {
	h := OrdersHandler{finder}
	mux.HandleFunc("GET /v1/orders/{id}", h.GetOrder)
}

func (h OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	const op = "OrdersHandler.GetOrder"
	log := slog.With("op", op)

	o, err := h.finder.FindOrder(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeJSON(w, http.StatusOK, fromOrder(o))
}
