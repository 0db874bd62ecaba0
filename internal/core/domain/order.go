package domain

import (
	"errors"
	"time"
)

var ErrSubmissionPending = errors.New("checkout submission is pending")

type Order struct {
	ID       string
	PlacedAt time.Time
	Form     CheckoutForm
	Lines    []CartLine
	Summary  OrderSummary
}

func NewOrder(id string, placedAt time.Time, f CheckoutForm, c Cart) Order {
	return Order{
		ID:       id,
		PlacedAt: placedAt,
		Form:     f,
		Lines:    c.Lines(),
		Summary:  Summarize(c, f.DeliveryMethod),
	}
}

// A Redirect asks the view to navigate to Route once After has elapsed.
type Redirect struct {
	Route string
	After time.Duration
}
