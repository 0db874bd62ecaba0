package port

import (
	"context"
	"sync"

	"github.com/niksmo/craft-store/internal/core/domain"
)

type (
	runnerContextWg interface {
		Run(context.Context, context.CancelFunc, *sync.WaitGroup)
	}

	closer interface {
		Close()
	}
)

// Inbound ports.

type CatalogBrowser interface {
	VisibleProducts() []domain.Product
	Product(id int) (domain.Product, error)
	Related(id int) ([]domain.Product, error)
	Facets() Facets
}

type Facets struct {
	Materials    []string
	Difficulties []domain.Difficulty
	Techniques   []string
	Selection    domain.FilterSelection
}

type ProductFilterSetter interface {
	ToggleFilter(d domain.Dimension, value string) (domain.FilterSelection, error)
	ClearFilters() domain.FilterSelection
}

type CartKeeper interface {
	Cart() domain.Cart
	AddToCart(productID int) (domain.Cart, error)
	RemoveFromCart(productID int) domain.Cart
	AdjustQuantity(productID, delta int) domain.Cart
}

type CheckoutState struct {
	Form         domain.CheckoutForm
	Errors       domain.FieldErrors
	Summary      domain.OrderSummary
	Submitting   bool
	Notification *domain.Notification
	Redirect     *domain.Redirect
	LastOrderID  string
}

type SubmitResult struct {
	Order    domain.Order
	Redirect domain.Redirect
	Err      error
}

type CheckoutSubmitter interface {
	Checkout() CheckoutState
	UpdateField(f domain.Field, value string) (CheckoutState, error)
	SubmitCheckout(ctx context.Context, f domain.CheckoutForm) (<-chan SubmitResult, error)
}

type OrderFinder interface {
	FindOrder(ctx context.Context, orderID string) (domain.Order, error)
}

// Outbound ports.

type CatalogLoader interface {
	LoadProducts(context.Context) ([]domain.Product, error)
}

type OrderPlacer interface {
	PlaceOrder(context.Context, domain.Order) error
}

type OrderPublisher interface {
	PublishOrder(context.Context, domain.Order) error
}

type OrderLedgerProcessor interface {
	runnerContextWg
	closer
}
