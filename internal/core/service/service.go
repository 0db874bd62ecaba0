package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/niksmo/craft-store/internal/core/domain"
	"github.com/niksmo/craft-store/internal/core/port"
)

var _ port.CatalogBrowser = (*Storefront)(nil)
var _ port.ProductFilterSetter = (*Storefront)(nil)
var _ port.CartKeeper = (*Storefront)(nil)
var _ port.CheckoutSubmitter = (*Storefront)(nil)

const (
	defaultRedirectRoute = "/"
	defaultRedirectAfter = 2 * time.Second
)

type Config struct {
	// RedirectRoute and RedirectAfter describe the navigation requested
	// after a placed order.
	RedirectRoute string
	RedirectAfter time.Duration

	Now   func() time.Time
	NewID func() string
}

func (c *Config) normalize() {
	if c.RedirectRoute == "" {
		c.RedirectRoute = defaultRedirectRoute
	}
	if c.RedirectAfter == 0 {
		c.RedirectAfter = defaultRedirectAfter
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.NewID == nil {
		c.NewID = uuid.NewString
	}
}

// A Storefront is the state machine of the single storefront session.
//
// Every state transition happens under one lock, so events are applied in
// the order they arrive.
type Storefront struct {
	catalog   domain.Catalog
	placer    port.OrderPlacer
	publisher port.OrderPublisher
	cfg       Config

	// placements tracks in-flight place goroutines.
	placements sync.WaitGroup

	mu           sync.Mutex
	filters      domain.FilterSelection
	cart         domain.Cart
	form         domain.CheckoutForm
	errors       domain.FieldErrors
	submitting   bool
	notification *domain.Notification
	redirect     *domain.Redirect
	lastOrderID  string
}

// New returns the storefront over the catalog. The publisher may be nil.
func New(
	catalog domain.Catalog,
	placer port.OrderPlacer,
	publisher port.OrderPublisher,
	cfg Config,
) *Storefront {
	cfg.normalize()
	return &Storefront{
		catalog:   catalog,
		placer:    placer,
		publisher: publisher,
		cfg:       cfg,
		form:      domain.NewCheckoutForm(),
	}
}

func (s *Storefront) VisibleProducts() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.VisibleProducts(s.catalog, s.filters)
}

func (s *Storefront) Product(id int) (domain.Product, error) {
	const op = "Storefront.Product"

	p, err := s.catalog.Product(id)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func (s *Storefront) Related(id int) ([]domain.Product, error) {
	const op = "Storefront.Related"

	ps, err := s.catalog.Related(id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

func (s *Storefront) Facets() port.Facets {
	s.mu.Lock()
	defer s.mu.Unlock()
	return port.Facets{
		Materials:    s.catalog.Materials(),
		Difficulties: domain.Difficulties,
		Techniques:   s.catalog.Techniques(),
		Selection:    s.filters,
	}
}

func (s *Storefront) ToggleFilter(
	d domain.Dimension, value string,
) (domain.FilterSelection, error) {
	const op = "Storefront.ToggleFilter"

	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.filters.Toggle(d, value)
	if err != nil {
		return s.filters, fmt.Errorf("%s: %w", op, err)
	}
	s.filters = next

	slog.Debug("filter toggled", "op", op, "dimension", d, "value", value)
	return s.filters, nil
}

func (s *Storefront) ClearFilters() domain.FilterSelection {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = s.filters.Clear()
	return s.filters
}

func (s *Storefront) Cart() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart
}

func (s *Storefront) AddToCart(productID int) (domain.Cart, error) {
	const op = "Storefront.AddToCart"

	p, err := s.catalog.Product(productID)
	if err != nil {
		return s.Cart(), fmt.Errorf("%s: %w", op, err)
	}
	if !p.InStock {
		return s.Cart(), fmt.Errorf("%s: %w", op, domain.ErrOutOfStock)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = s.cart.Add(p)

	slog.Debug("added to cart", "op", op, "productID", productID,
		"nItems", s.cart.TotalItemCount())
	return s.cart, nil
}

func (s *Storefront) RemoveFromCart(productID int) domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = s.cart.Remove(productID)
	return s.cart
}

func (s *Storefront) AdjustQuantity(productID, delta int) domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = s.cart.AdjustQuantity(productID, delta)
	return s.cart
}

func (s *Storefront) Checkout() port.CheckoutState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkoutState()
}

// UpdateField stores the value and clears the error shown for the field.
func (s *Storefront) UpdateField(
	f domain.Field, value string,
) (port.CheckoutState, error) {
	const op = "Storefront.UpdateField"

	s.mu.Lock()
	defer s.mu.Unlock()

	form, err := s.form.Set(f, value)
	if err != nil {
		return s.checkoutState(), fmt.Errorf("%s: %w", op, err)
	}
	s.form = form
	s.errors = s.errors.Without(f)
	return s.checkoutState(), nil
}

// SubmitCheckout validates the form and starts the order placement.
//
// An invalid form is rejected with [*domain.ValidationError] and keeps the
// entered data. A valid form switches the session into the pending state
// until the placement completes; the outcome is sent to the returned
// channel, which is closed afterwards.
func (s *Storefront) SubmitCheckout(
	ctx context.Context, f domain.CheckoutForm,
) (<-chan port.SubmitResult, error) {
	const op = "Storefront.SubmitCheckout"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return nil, fmt.Errorf("%s: %w", op, domain.ErrSubmissionPending)
	}

	s.form = f
	s.errors = f.Validate()
	if len(s.errors) != 0 {
		n := domain.ValidationFailedNotification()
		s.notification = &n
		s.redirect = nil
		verr := &domain.ValidationError{Fields: s.errors.Clone()}
		s.mu.Unlock()
		log.Info("checkout rejected", "err", verr)
		return nil, fmt.Errorf("%s: %w", op, verr)
	}

	s.submitting = true
	s.notification = nil
	s.redirect = nil
	order := domain.NewOrder(s.cfg.NewID(), s.cfg.Now(), f, s.cart)
	s.mu.Unlock()

	log.Info("placing order", "orderID", order.ID, "total", order.Summary.Total)

	res := make(chan port.SubmitResult, 1)
	s.placements.Add(1)
	go s.place(ctx, order, res)
	return res, nil
}

func (s *Storefront) place(
	ctx context.Context, order domain.Order, res chan<- port.SubmitResult,
) {
	const op = "Storefront.place"
	log := slog.With("op", op, "orderID", order.ID)

	defer s.placements.Done()
	defer close(res)

	if err := s.placer.PlaceOrder(ctx, order); err != nil {
		s.mu.Lock()
		s.submitting = false
		s.mu.Unlock()
		log.Error("failed to place order", "err", err)
		res <- port.SubmitResult{Order: order, Err: fmt.Errorf("%s: %w", op, err)}
		return
	}

	redirect := domain.Redirect{
		Route: s.cfg.RedirectRoute,
		After: s.cfg.RedirectAfter,
	}
	notification := domain.OrderPlacedNotification()

	s.mu.Lock()
	s.submitting = false
	s.notification = &notification
	s.redirect = &redirect
	s.lastOrderID = order.ID
	for _, l := range order.Lines {
		s.cart = s.cart.AdjustQuantity(l.Product.ID, -l.Quantity)
	}
	s.form = domain.NewCheckoutForm()
	s.errors = nil
	s.mu.Unlock()

	log.Info("order placed")

	s.publish(ctx, order)

	res <- port.SubmitResult{Order: order, Redirect: redirect}
}

// publish is best effort: the order is already placed.
func (s *Storefront) publish(ctx context.Context, order domain.Order) {
	const op = "Storefront.publish"

	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishOrder(ctx, order); err != nil {
		slog.Error("failed to publish order", "op", op,
			"orderID", order.ID, "err", err)
	}
}

// Wait blocks until in-flight placements, publishing included, are done
// or ctx expires.
func (s *Storefront) Wait(ctx context.Context) error {
	const op = "Storefront.Wait"

	done := make(chan struct{})
	go func() {
		s.placements.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	}
}

func (s *Storefront) checkoutState() port.CheckoutState {
	st := port.CheckoutState{
		Form:        s.form,
		Errors:      s.errors.Clone(),
		Summary:     domain.Summarize(s.cart, s.form.DeliveryMethod),
		Submitting:  s.submitting,
		LastOrderID: s.lastOrderID,
	}
	if s.notification != nil {
		n := *s.notification
		st.Notification = &n
	}
	if s.redirect != nil {
		r := *s.redirect
		st.Redirect = &r
	}
	return st
}
