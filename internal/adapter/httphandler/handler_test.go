package httphandler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/niksmo/craft-store/internal/adapter/catalog"
	"github.com/niksmo/craft-store/internal/adapter/httphandler"
	"github.com/niksmo/craft-store/internal/adapter/kafka"
	"github.com/niksmo/craft-store/internal/core/domain"
	"github.com/niksmo/craft-store/internal/core/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderPlacer struct {
	mock.Mock
}

func (m *MockOrderPlacer) PlaceOrder(ctx context.Context, o domain.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

type MockOrderFinder struct {
	mock.Mock
}

func (m *MockOrderFinder) FindOrder(ctx context.Context, id string) (domain.Order, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Order), args.Error(1)
}

func newServer(t *testing.T, placer *MockOrderPlacer, finder *MockOrderFinder) http.Handler {
	t.Helper()

	s := service.New(domain.NewCatalog(catalog.Builtin()), placer, nil, service.Config{
		NewID: func() string { return "order-1" },
	})

	mux := http.NewServeMux()
	httphandler.RegisterCatalog(mux, s, s)
	httphandler.RegisterCart(mux, s)
	httphandler.RegisterCheckout(mux, t.Context(), s)
	if finder != nil {
		httphandler.RegisterOrders(mux, finder)
	}
	return httphandler.AllowJSON(mux)
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v))
	return v
}

const validFormJSON = `{
	"first_name": "Anna",
	"last_name": "Petrova",
	"email": "a@b.c",
	"phone": "+7 999 123 45 67",
	"address": "Lenina 1",
	"city": "Moscow",
	"postal_code": "101000",
	"delivery_method": "pickup",
	"payment_method": "cash"
}`

func TestCatalogHandler(t *testing.T) {
	h := newServer(t, nil, nil)

	t.Run("Products", func(t *testing.T) {
		w := do(t, h, http.MethodGet, "/v1/products", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decode[[]httphandler.Product](t, w), 6)
	})

	t.Run("Product", func(t *testing.T) {
		w := do(t, h, http.MethodGet, "/v1/products/1", "")
		require.Equal(t, http.StatusOK, w.Code)
		v := decode[httphandler.ProductDetail](t, w)
		assert.Equal(t, 1, v.Product.ID)
		require.Len(t, v.Related, 1)
		assert.Equal(t, 6, v.Related[0].ID)
	})

	t.Run("ProductNotFound", func(t *testing.T) {
		w := do(t, h, http.MethodGet, "/v1/products/100", "")
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = do(t, h, http.MethodGet, "/v1/products/abc", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("ToggleAndClear", func(t *testing.T) {
		w := do(t, h, http.MethodPost, "/v1/filters/toggle",
			`{"dimension": "difficulty", "value": "Beginner"}`)
		require.Equal(t, http.StatusOK, w.Code)
		v := decode[httphandler.FilteredProducts](t, w)
		assert.Equal(t, []string{"Beginner"}, v.Selection.Difficulties)
		assert.Len(t, v.Products, 3)

		w = do(t, h, http.MethodGet, "/v1/filters", "")
		require.Equal(t, http.StatusOK, w.Code)
		facets := decode[httphandler.Facets](t, w)
		assert.Equal(t, []string{"Beginner", "Intermediate", "Professional"}, facets.Difficulties)
		assert.Equal(t, []string{"Beginner"}, facets.Selection.Difficulties)

		w = do(t, h, http.MethodDelete, "/v1/filters", "")
		require.Equal(t, http.StatusOK, w.Code)
		v = decode[httphandler.FilteredProducts](t, w)
		assert.Empty(t, v.Selection.Difficulties)
		assert.Len(t, v.Products, 6)
	})

	t.Run("UnknownDimension", func(t *testing.T) {
		w := do(t, h, http.MethodPost, "/v1/filters/toggle",
			`{"dimension": "color", "value": "red"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("NotJSON", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/v1/filters/toggle", strings.NewReader("x"))
		r.Header.Set("Content-Type", "text/plain")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	})
}

func TestCartHandler(t *testing.T) {
	h := newServer(t, nil, nil)

	w := do(t, h, http.MethodPost, "/v1/cart/items", `{"product_id": 1}`)
	require.Equal(t, http.StatusOK, w.Code)
	w = do(t, h, http.MethodPost, "/v1/cart/items", `{"product_id": 1}`)
	require.Equal(t, http.StatusOK, w.Code)
	w = do(t, h, http.MethodPost, "/v1/cart/items", `{"product_id": 2}`)
	require.Equal(t, http.StatusOK, w.Code)

	c := decode[httphandler.Cart](t, w)
	require.Len(t, c.Lines, 2)
	assert.Equal(t, 2, c.Lines[0].Quantity)
	assert.Equal(t, 2598, c.Lines[0].Amount)
	assert.Equal(t, 3, c.TotalItems)
	assert.Equal(t, 3497, c.TotalPrice)

	w = do(t, h, http.MethodPost, "/v1/cart/items", `{"product_id": 6}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	w = do(t, h, http.MethodPost, "/v1/cart/items", `{"product_id": 60}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, http.MethodPatch, "/v1/cart/items/1", `{"delta": -2}`)
	require.Equal(t, http.StatusOK, w.Code)
	c = decode[httphandler.Cart](t, w)
	require.Len(t, c.Lines, 1)
	assert.Equal(t, 2, c.Lines[0].Product.ID)

	w = do(t, h, http.MethodDelete, "/v1/cart/items/2", "")
	require.Equal(t, http.StatusOK, w.Code)
	c = decode[httphandler.Cart](t, w)
	assert.Empty(t, c.Lines)
	assert.Zero(t, c.TotalPrice)
}

func TestCheckoutHandler(t *testing.T) {
	t.Run("Invalid", func(t *testing.T) {
		placer := new(MockOrderPlacer)
		h := newServer(t, placer, nil)

		w := do(t, h, http.MethodPost, "/v1/checkout", `{"first_name": "Anna", "email": "abc"}`)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		v := decode[httphandler.ErrorResponse](t, w)
		assert.Equal(t, domain.MsgEmailInvalid, v.Fields["email"])
		assert.Equal(t, domain.MsgPhoneRequired, v.Fields["phone"])
		assert.NotContains(t, v.Fields, "first_name")

		w = do(t, h, http.MethodGet, "/v1/checkout", "")
		st := decode[httphandler.Checkout](t, w)
		assert.False(t, st.Submitting)
		assert.Equal(t, "Anna", st.Form.FirstName)
		require.NotNil(t, st.Notification)
		assert.Equal(t, "validation_failure", st.Notification.Kind)

		w = do(t, h, http.MethodPut, "/v1/checkout/fields/email", `{"value": "a@b.c"}`)
		require.Equal(t, http.StatusOK, w.Code)
		st = decode[httphandler.Checkout](t, w)
		assert.NotContains(t, st.Errors, "email")
		assert.Contains(t, st.Errors, "phone")

		placer.AssertNotCalled(t, "PlaceOrder", mock.Anything, mock.Anything)
	})

	t.Run("UnknownField", func(t *testing.T) {
		h := newServer(t, nil, nil)
		w := do(t, h, http.MethodPut, "/v1/checkout/fields/age", `{"value": "42"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Summary", func(t *testing.T) {
		h := newServer(t, nil, nil)
		do(t, h, http.MethodPost, "/v1/cart/items", `{"product_id": 1}`)
		do(t, h, http.MethodPost, "/v1/cart/items", `{"product_id": 1}`)
		do(t, h, http.MethodPost, "/v1/cart/items", `{"product_id": 2}`)

		w := do(t, h, http.MethodGet, "/v1/checkout", "")
		st := decode[httphandler.Checkout](t, w)
		assert.Equal(t, httphandler.OrderSummary{Subtotal: 3497, DeliveryFee: 300, Total: 3797}, st.Summary)

		w = do(t, h, http.MethodPut, "/v1/checkout/fields/delivery_method", `{"value": "pickup"}`)
		st = decode[httphandler.Checkout](t, w)
		assert.Equal(t, httphandler.OrderSummary{Subtotal: 3497, DeliveryFee: 0, Total: 3497}, st.Summary)
	})

	t.Run("Accepted", func(t *testing.T) {
		placer := new(MockOrderPlacer)
		release := make(chan time.Time)
		placer.On("PlaceOrder", mock.Anything, mock.Anything).
			WaitUntil(release).Return(nil).Once()
		h := newServer(t, placer, nil)

		w := do(t, h, http.MethodPost, "/v1/checkout", validFormJSON)
		require.Equal(t, http.StatusAccepted, w.Code)
		st := decode[httphandler.Checkout](t, w)
		assert.True(t, st.Submitting)

		w = do(t, h, http.MethodPost, "/v1/checkout", validFormJSON)
		assert.Equal(t, http.StatusConflict, w.Code)

		close(release)
		require.Eventually(t, func() bool {
			w := do(t, h, http.MethodGet, "/v1/checkout", "")
			return !decode[httphandler.Checkout](t, w).Submitting
		}, time.Second, 10*time.Millisecond)

		w = do(t, h, http.MethodGet, "/v1/checkout", "")
		st = decode[httphandler.Checkout](t, w)
		require.NotNil(t, st.Notification)
		assert.Equal(t, "success", st.Notification.Kind)
		require.NotNil(t, st.Redirect)
		assert.Equal(t, httphandler.Redirect{Route: "/", AfterMs: 2000}, *st.Redirect)
		assert.Equal(t, "order-1", st.LastOrderID)
	})

	t.Run("Wait", func(t *testing.T) {
		placer := new(MockOrderPlacer)
		placer.On("PlaceOrder", mock.Anything, mock.Anything).Return(nil)
		h := newServer(t, placer, nil)

		w := do(t, h, http.MethodPost, "/v1/checkout?wait=true", validFormJSON)
		require.Equal(t, http.StatusOK, w.Code)
		st := decode[httphandler.Checkout](t, w)
		assert.False(t, st.Submitting)
		require.NotNil(t, st.Notification)
		assert.Equal(t, "success", st.Notification.Kind)
	})
}

func TestOrdersHandler(t *testing.T) {
	finder := new(MockOrderFinder)
	h := newServer(t, nil, finder)

	order := domain.Order{
		ID:       "order-1",
		PlacedAt: time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC),
		Form:     domain.NewCheckoutForm(),
		Summary:  domain.OrderSummary{Subtotal: 100, DeliveryFee: 300, Total: 400},
	}
	finder.On("FindOrder", mock.Anything, "order-1").Return(order, nil)
	finder.On("FindOrder", mock.Anything, "order-2").
		Return(domain.Order{}, kafka.ErrOrderNotFound)

	w := do(t, h, http.MethodGet, "/v1/orders/order-1", "")
	require.Equal(t, http.StatusOK, w.Code)
	v := decode[httphandler.Order](t, w)
	assert.Equal(t, "order-1", v.ID)
	assert.Equal(t, "2026-03-08T12:00:00.000Z", v.PlacedAt)
	assert.Equal(t, 400, v.Summary.Total)

	w = do(t, h, http.MethodGet, "/v1/orders/order-2", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
