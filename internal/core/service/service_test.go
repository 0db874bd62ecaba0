package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/niksmo/craft-store/internal/core/domain"
	"github.com/niksmo/craft-store/internal/core/port"
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

type MockOrderPublisher struct {
	mock.Mock
}

func (m *MockOrderPublisher) PublishOrder(ctx context.Context, o domain.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

var placedAt = time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC)

func testCatalog() domain.Catalog {
	return domain.NewCatalog([]domain.Product{
		{ID: 1, Name: "Rainbow yarn set", Price: 1299, Category: "Knitting",
			Material: "Yarn", Difficulty: domain.Beginner, Technique: "Knitting", InStock: true},
		{ID: 2, Name: "Flowers embroidery kit", Price: 899, Category: "Embroidery",
			Material: "Floss", Difficulty: domain.Intermediate, Technique: "Cross-stitch", InStock: true},
		{ID: 6, Name: "Crochet hooks", Price: 599, Category: "Knitting",
			Material: "Assorted", Difficulty: domain.Beginner, Technique: "Crochet", InStock: false},
	})
}

func newStorefront(placer port.OrderPlacer, publisher port.OrderPublisher) *service.Storefront {
	return service.New(testCatalog(), placer, publisher, service.Config{
		Now:   func() time.Time { return placedAt },
		NewID: func() string { return "order-1" },
	})
}

func validForm() domain.CheckoutForm {
	f := domain.NewCheckoutForm()
	f.FirstName = "Anna"
	f.LastName = "Petrova"
	f.Email = "a@b.c"
	f.Phone = "+7 999 123 45 67"
	f.Address = "Lenina 1"
	f.City = "Moscow"
	f.PostalCode = "101000"
	return f
}

func receive(t *testing.T, c <-chan port.SubmitResult) port.SubmitResult {
	t.Helper()
	select {
	case r, ok := <-c:
		require.True(t, ok, "result channel closed without result")
		return r
	case <-time.After(time.Second):
		t.Fatal("submission did not complete")
	}
	return port.SubmitResult{}
}

func TestStorefrontFilters(t *testing.T) {
	s := newStorefront(nil, nil)

	sel, err := s.ToggleFilter(domain.DimensionMaterial, "Yarn")
	require.NoError(t, err)
	assert.Equal(t, []string{"Yarn"}, sel.Materials)
	require.Len(t, s.VisibleProducts(), 1)
	assert.Equal(t, 1, s.VisibleProducts()[0].ID)

	_, err = s.ToggleFilter(domain.Dimension("color"), "red")
	assert.ErrorIs(t, err, domain.ErrUnknownDimension)

	facets := s.Facets()
	assert.Equal(t, []string{"Yarn", "Floss", "Assorted"}, facets.Materials)
	assert.Equal(t, domain.Difficulties, facets.Difficulties)
	assert.Equal(t, []string{"Yarn"}, facets.Selection.Materials)

	sel = s.ClearFilters()
	assert.True(t, sel.Empty())
	assert.Len(t, s.VisibleProducts(), 3)
}

func TestStorefrontProductDetail(t *testing.T) {
	s := newStorefront(nil, nil)

	p, err := s.Product(2)
	require.NoError(t, err)
	assert.Equal(t, "Flowers embroidery kit", p.Name)

	related, err := s.Related(1)
	require.NoError(t, err)
	require.Len(t, related, 1)
	assert.Equal(t, 6, related[0].ID)

	_, err = s.Product(99)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestStorefrontCart(t *testing.T) {
	s := newStorefront(nil, nil)

	_, err := s.AddToCart(1)
	require.NoError(t, err)
	c, err := s.AddToCart(1)
	require.NoError(t, err)
	require.Len(t, c.Lines(), 1)
	assert.Equal(t, 2, c.TotalItemCount())

	_, err = s.AddToCart(6)
	assert.ErrorIs(t, err, domain.ErrOutOfStock)
	_, err = s.AddToCart(99)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	_, err = s.AddToCart(2)
	require.NoError(t, err)
	assert.Equal(t, 1299*2+899, s.Cart().TotalPrice())

	c = s.AdjustQuantity(1, -2)
	_, ok := c.Line(1)
	assert.False(t, ok)

	c = s.RemoveFromCart(2)
	assert.True(t, c.Empty())
}

func TestStorefrontUpdateField(t *testing.T) {
	s := newStorefront(nil, nil)

	_, err := s.SubmitCheckout(t.Context(), domain.NewCheckoutForm())
	require.Error(t, err)
	require.Contains(t, s.Checkout().Errors, domain.FieldCity)

	st, err := s.UpdateField(domain.FieldCity, "Kazan")
	require.NoError(t, err)
	assert.Equal(t, "Kazan", st.Form.City)
	assert.NotContains(t, st.Errors, domain.FieldCity)
	assert.Contains(t, st.Errors, domain.FieldEmail)

	st, err = s.UpdateField(domain.FieldDeliveryMethod, "pickup")
	require.NoError(t, err)
	assert.Equal(t, domain.DeliveryPickup, st.Form.DeliveryMethod)

	_, err = s.UpdateField(domain.Field("nickname"), "x")
	assert.ErrorIs(t, err, domain.ErrUnknownField)
}

func TestStorefrontSummary(t *testing.T) {
	s := newStorefront(nil, nil)
	_, _ = s.AddToCart(1)
	_, _ = s.AddToCart(1)
	_, _ = s.AddToCart(2)

	assert.Equal(t,
		domain.OrderSummary{Subtotal: 3497, DeliveryFee: 300, Total: 3797},
		s.Checkout().Summary,
	)

	_, err := s.UpdateField(domain.FieldDeliveryMethod, string(domain.DeliveryPickup))
	require.NoError(t, err)
	assert.Equal(t,
		domain.OrderSummary{Subtotal: 3497, DeliveryFee: 0, Total: 3497},
		s.Checkout().Summary,
	)
}

func TestStorefrontSubmitCheckout(t *testing.T) {
	t.Run("Invalid", func(t *testing.T) {
		placer := new(MockOrderPlacer)
		s := newStorefront(placer, nil)

		f := validForm()
		f.FirstName = " "
		res, err := s.SubmitCheckout(t.Context(), f)
		require.Error(t, err)
		assert.Nil(t, res)

		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, domain.FieldErrors{
			domain.FieldFirstName: domain.MsgFirstNameRequired,
		}, verr.Fields)

		st := s.Checkout()
		assert.False(t, st.Submitting)
		assert.Equal(t, f, st.Form, "entered data must be kept")
		require.NotNil(t, st.Notification)
		assert.Equal(t, domain.NotificationValidationFailure, st.Notification.Kind)
		assert.Nil(t, st.Redirect)
		placer.AssertNotCalled(t, "PlaceOrder", mock.Anything, mock.Anything)
	})

	t.Run("Success", func(t *testing.T) {
		placer := new(MockOrderPlacer)
		publisher := new(MockOrderPublisher)
		s := newStorefront(placer, publisher)

		_, _ = s.AddToCart(1)
		_, _ = s.AddToCart(1)
		_, _ = s.AddToCart(2)

		release := make(chan time.Time)
		placer.On("PlaceOrder", mock.Anything, mock.Anything).
			WaitUntil(release).Return(nil).Once()
		publisher.On("PublishOrder", mock.Anything, mock.Anything).Return(nil).Once()

		res, err := s.SubmitCheckout(t.Context(), validForm())
		require.NoError(t, err)

		st := s.Checkout()
		assert.True(t, st.Submitting)
		assert.Nil(t, st.Notification)

		_, err = s.SubmitCheckout(t.Context(), validForm())
		assert.ErrorIs(t, err, domain.ErrSubmissionPending)

		close(release)
		r := receive(t, res)
		require.NoError(t, r.Err)

		assert.Equal(t, "order-1", r.Order.ID)
		assert.Equal(t, placedAt, r.Order.PlacedAt)
		assert.Equal(t,
			domain.OrderSummary{Subtotal: 3497, DeliveryFee: 300, Total: 3797},
			r.Order.Summary,
		)
		assert.Equal(t, domain.Redirect{Route: "/", After: 2 * time.Second}, r.Redirect)

		st = s.Checkout()
		assert.False(t, st.Submitting)
		require.NotNil(t, st.Notification)
		assert.Equal(t, domain.NotificationSuccess, st.Notification.Kind)
		require.NotNil(t, st.Redirect)
		assert.Equal(t, "/", st.Redirect.Route)
		assert.Equal(t, "order-1", st.LastOrderID)
		assert.True(t, s.Cart().Empty())
		assert.Equal(t, domain.NewCheckoutForm(), st.Form)

		placer.AssertExpectations(t)
		publisher.AssertExpectations(t)
	})

	t.Run("PublishFailureIgnored", func(t *testing.T) {
		placer := new(MockOrderPlacer)
		publisher := new(MockOrderPublisher)
		s := newStorefront(placer, publisher)

		placer.On("PlaceOrder", mock.Anything, mock.Anything).Return(nil)
		publisher.On("PublishOrder", mock.Anything, mock.Anything).
			Return(errors.New("broker is down"))

		res, err := s.SubmitCheckout(t.Context(), validForm())
		require.NoError(t, err)
		r := receive(t, res)
		assert.NoError(t, r.Err)
		assert.Equal(t, domain.NotificationSuccess, s.Checkout().Notification.Kind)
	})

	t.Run("CartChangedWhilePending", func(t *testing.T) {
		placer := new(MockOrderPlacer)
		s := newStorefront(placer, nil)

		_, _ = s.AddToCart(1)

		release := make(chan time.Time)
		placer.On("PlaceOrder", mock.Anything, mock.Anything).
			WaitUntil(release).Return(nil).Once()

		res, err := s.SubmitCheckout(t.Context(), validForm())
		require.NoError(t, err)

		_, err = s.AddToCart(1)
		require.NoError(t, err)
		_, err = s.AddToCart(2)
		require.NoError(t, err)

		close(release)
		r := receive(t, res)
		require.NoError(t, r.Err)
		require.Len(t, r.Order.Lines, 1)
		assert.Equal(t, 1, r.Order.Lines[0].Quantity)

		lines := s.Cart().Lines()
		require.Len(t, lines, 2)
		assert.Equal(t, 1, lines[0].Product.ID)
		assert.Equal(t, 1, lines[0].Quantity)
		assert.Equal(t, 2, lines[1].Product.ID)
		assert.Equal(t, 1, lines[1].Quantity)
	})

	t.Run("PlacementCanceled", func(t *testing.T) {
		placer := new(MockOrderPlacer)
		s := newStorefront(placer, nil)

		placer.On("PlaceOrder", mock.Anything, mock.Anything).Return(context.Canceled)

		res, err := s.SubmitCheckout(t.Context(), validForm())
		require.NoError(t, err)
		r := receive(t, res)
		assert.ErrorIs(t, r.Err, context.Canceled)

		st := s.Checkout()
		assert.False(t, st.Submitting)
		assert.Nil(t, st.Notification)
	})

	t.Run("CanceledContext", func(t *testing.T) {
		s := newStorefront(new(MockOrderPlacer), nil)
		ctx, cancel := context.WithCancel(t.Context())
		cancel()
		_, err := s.SubmitCheckout(ctx, validForm())
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, s.Checkout().Submitting)
	})
}

func TestStorefrontWait(t *testing.T) {
	t.Run("Idle", func(t *testing.T) {
		s := newStorefront(nil, nil)
		assert.NoError(t, s.Wait(t.Context()))
	})

	t.Run("PublishedBeforeReturn", func(t *testing.T) {
		placer := new(MockOrderPlacer)
		publisher := new(MockOrderPublisher)
		s := newStorefront(placer, publisher)

		release := make(chan time.Time)
		placer.On("PlaceOrder", mock.Anything, mock.Anything).
			WaitUntil(release).Return(nil).Once()
		publisher.On("PublishOrder", mock.Anything, mock.Anything).Return(nil).Once()

		_, err := s.SubmitCheckout(t.Context(), validForm())
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
		defer cancel()
		assert.ErrorIs(t, s.Wait(ctx), context.DeadlineExceeded)

		close(release)
		require.NoError(t, s.Wait(t.Context()))
		publisher.AssertExpectations(t)
	})
}
