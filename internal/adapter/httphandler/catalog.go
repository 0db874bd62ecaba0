package httphandler

import (
	"log/slog"
	"net/http"

	"github.com/niksmo/craft-store/internal/core/domain"
	"github.com/niksmo/craft-store/internal/core/port"
)

// GET    v1/products              visible products (200 OK)
// GET    v1/products/{id}         product and related products (200 OK, 404 Not found)
// GET    v1/filters               facets and current selection (200 OK)
// POST   v1/filters/toggle JSON {"dimension", "value"} (200 OK, 400 Bad request)
// DELETE v1/filters               clear selection (200 OK)

type CatalogHandler struct {
	browser port.CatalogBrowser
	filters port.ProductFilterSetter
}

func RegisterCatalog(
	mux *http.ServeMux,
	browser port.CatalogBrowser,
	filters port.ProductFilterSetter,
) {
	h := CatalogHandler{browser, filters}
	mux.HandleFunc("GET /v1/products", h.GetProducts)
	mux.HandleFunc("GET /v1/products/{id}", h.GetProduct)
	mux.HandleFunc("GET /v1/filters", h.GetFilters)
	mux.HandleFunc("POST /v1/filters/toggle", h.ToggleFilter)
	mux.HandleFunc("DELETE /v1/filters", h.ClearFilters)
}

func (h CatalogHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, fromProducts(h.browser.VisibleProducts()))
}

func (h CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetProduct"
	log := slog.With("op", op)

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	p, err := h.browser.Product(id)
	if err != nil {
		writeError(w, log, err)
		return
	}

	related, err := h.browser.Related(id)
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeJSON(w, http.StatusOK, ProductDetail{
		Product: fromProduct(p),
		Related: fromProducts(related),
	})
}

func (h CatalogHandler) GetFilters(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, fromFacets(h.browser.Facets()))
}

func (h CatalogHandler) ToggleFilter(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.ToggleFilter"
	log := slog.With("op", op)

	var v FilterToggle
	if !decodeJSON(w, r, log, &v) {
		return
	}

	d, err := domain.ParseDimension(v.Dimension)
	if err != nil {
		writeError(w, log, err)
		return
	}

	s, err := h.filters.ToggleFilter(d, v.Value)
	if err != nil {
		writeError(w, log, err)
		return
	}

	h.writeFiltered(w, s)
}

func (h CatalogHandler) ClearFilters(w http.ResponseWriter, r *http.Request) {
	h.writeFiltered(w, h.filters.ClearFilters())
}

func (h CatalogHandler) writeFiltered(w http.ResponseWriter, s domain.FilterSelection) {
	writeJSON(w, http.StatusOK, FilteredProducts{
		Selection: fromSelection(s),
		Products:  fromProducts(h.browser.VisibleProducts()),
	})
}
