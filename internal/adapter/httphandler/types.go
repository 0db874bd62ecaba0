package httphandler

import (
	"github.com/niksmo/craft-store/internal/core/domain"
	"github.com/niksmo/craft-store/internal/core/port"
)

type (
	Product struct {
		ID          int      `json:"id"`
		Name        string   `json:"name"`
		Price       int      `json:"price"`
		Image       string   `json:"image"`
		Category    string   `json:"category"`
		Material    string   `json:"material"`
		Difficulty  string   `json:"difficulty"`
		Technique   string   `json:"technique"`
		Description string   `json:"description,omitempty"`
		Features    []string `json:"features,omitempty"`
		InStock     bool     `json:"in_stock"`
	}

	ProductDetail struct {
		Product Product   `json:"product"`
		Related []Product `json:"related"`
	}

	FilterSelection struct {
		Materials    []string `json:"materials"`
		Difficulties []string `json:"difficulties"`
		Techniques   []string `json:"techniques"`
	}

	Facets struct {
		Materials    []string        `json:"materials"`
		Difficulties []string        `json:"difficulties"`
		Techniques   []string        `json:"techniques"`
		Selection    FilterSelection `json:"selection"`
	}

	FilterToggle struct {
		Dimension string `json:"dimension"`
		Value     string `json:"value"`
	}

	FilteredProducts struct {
		Selection FilterSelection `json:"selection"`
		Products  []Product       `json:"products"`
	}
)

type (
	CartLine struct {
		Product  Product `json:"product"`
		Quantity int     `json:"quantity"`
		Amount   int     `json:"amount"`
	}

	Cart struct {
		Lines      []CartLine `json:"lines"`
		TotalItems int        `json:"total_items"`
		TotalPrice int        `json:"total_price"`
	}

	CartItemAdd struct {
		ProductID int `json:"product_id"`
	}

	CartItemAdjust struct {
		Delta int `json:"delta"`
	}
)

type (
	CheckoutForm struct {
		FirstName      string `json:"first_name"`
		LastName       string `json:"last_name"`
		Email          string `json:"email"`
		Phone          string `json:"phone"`
		Address        string `json:"address"`
		City           string `json:"city"`
		PostalCode     string `json:"postal_code"`
		DeliveryMethod string `json:"delivery_method"`
		PaymentMethod  string `json:"payment_method"`
		Comment        string `json:"comment"`
	}

	FieldValue struct {
		Value string `json:"value"`
	}

	OrderSummary struct {
		Subtotal    int `json:"subtotal"`
		DeliveryFee int `json:"delivery_fee"`
		Total       int `json:"total"`
	}

	Notification struct {
		Kind        string `json:"kind"`
		Title       string `json:"title"`
		Description string `json:"description"`
	}

	Redirect struct {
		Route   string `json:"route"`
		AfterMs int64  `json:"after_ms"`
	}

	Checkout struct {
		Form         CheckoutForm      `json:"form"`
		Errors       map[string]string `json:"errors"`
		Summary      OrderSummary      `json:"summary"`
		Submitting   bool              `json:"submitting"`
		Notification *Notification     `json:"notification,omitempty"`
		Redirect     *Redirect         `json:"redirect,omitempty"`
		LastOrderID  string            `json:"last_order_id,omitempty"`
	}

	Order struct {
		ID       string       `json:"id"`
		PlacedAt string       `json:"placed_at"`
		Form     CheckoutForm `json:"form"`
		Lines    []CartLine   `json:"lines"`
		Summary  OrderSummary `json:"summary"`
	}

	ErrorResponse struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields,omitempty"`
	}
)

func fromProduct(p domain.Product) Product {
	return Product{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Image:       p.Image,
		Category:    p.Category,
		Material:    p.Material,
		Difficulty:  string(p.Difficulty),
		Technique:   p.Technique,
		Description: p.Description,
		Features:    p.Features,
		InStock:     p.InStock,
	}
}

func fromProducts(ps []domain.Product) []Product {
	vs := make([]Product, len(ps))
	for i, p := range ps {
		vs[i] = fromProduct(p)
	}
	return vs
}

func fromSelection(s domain.FilterSelection) FilterSelection {
	return FilterSelection{
		Materials:    nonNil(s.Materials),
		Difficulties: nonNil(s.Difficulties),
		Techniques:   nonNil(s.Techniques),
	}
}

func fromFacets(f port.Facets) Facets {
	difficulties := make([]string, len(f.Difficulties))
	for i, d := range f.Difficulties {
		difficulties[i] = string(d)
	}
	return Facets{
		Materials:    nonNil(f.Materials),
		Difficulties: difficulties,
		Techniques:   nonNil(f.Techniques),
		Selection:    fromSelection(f.Selection),
	}
}

func fromLines(ls []domain.CartLine) []CartLine {
	vs := make([]CartLine, len(ls))
	for i, l := range ls {
		vs[i] = CartLine{
			Product:  fromProduct(l.Product),
			Quantity: l.Quantity,
			Amount:   l.Amount(),
		}
	}
	return vs
}

func fromCart(c domain.Cart) Cart {
	return Cart{
		Lines:      fromLines(c.Lines()),
		TotalItems: c.TotalItemCount(),
		TotalPrice: c.TotalPrice(),
	}
}

func (f CheckoutForm) toDomain() domain.CheckoutForm {
	return domain.CheckoutForm{
		FirstName:      f.FirstName,
		LastName:       f.LastName,
		Email:          f.Email,
		Phone:          f.Phone,
		Address:        f.Address,
		City:           f.City,
		PostalCode:     f.PostalCode,
		DeliveryMethod: domain.DeliveryMethod(f.DeliveryMethod),
		PaymentMethod:  domain.PaymentMethod(f.PaymentMethod),
		Comment:        f.Comment,
	}
}

func fromForm(f domain.CheckoutForm) CheckoutForm {
	return CheckoutForm{
		FirstName:      f.FirstName,
		LastName:       f.LastName,
		Email:          f.Email,
		Phone:          f.Phone,
		Address:        f.Address,
		City:           f.City,
		PostalCode:     f.PostalCode,
		DeliveryMethod: string(f.DeliveryMethod),
		PaymentMethod:  string(f.PaymentMethod),
		Comment:        f.Comment,
	}
}

func fromFieldErrors(errs domain.FieldErrors) map[string]string {
	m := make(map[string]string, len(errs))
	for f, msg := range errs {
		m[string(f)] = msg
	}
	return m
}

func fromSummary(s domain.OrderSummary) OrderSummary {
	return OrderSummary{
		Subtotal:    s.Subtotal,
		DeliveryFee: s.DeliveryFee,
		Total:       s.Total,
	}
}

func fromCheckout(st port.CheckoutState) Checkout {
	v := Checkout{
		Form:        fromForm(st.Form),
		Errors:      fromFieldErrors(st.Errors),
		Summary:     fromSummary(st.Summary),
		Submitting:  st.Submitting,
		LastOrderID: st.LastOrderID,
	}
	if n := st.Notification; n != nil {
		v.Notification = &Notification{
			Kind:        string(n.Kind),
			Title:       n.Title,
			Description: n.Description,
		}
	}
	if r := st.Redirect; r != nil {
		v.Redirect = &Redirect{
			Route:   r.Route,
			AfterMs: r.After.Milliseconds(),
		}
	}
	return v
}

func fromOrder(o domain.Order) Order {
	return Order{
		ID:       o.ID,
		PlacedAt: o.PlacedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		Form:     fromForm(o.Form),
		Lines:    fromLines(o.Lines),
		Summary:  fromSummary(o.Summary),
	}
}

func nonNil(vs []string) []string {
	if vs == nil {
		return []string{}
	}
	return vs
}
