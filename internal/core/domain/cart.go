package domain

import "slices"

type CartLine struct {
	Product  Product
	Quantity int
}

func (l CartLine) Amount() int {
	return l.Product.Price * l.Quantity
}

// A Cart keeps at most one line per product id, in insertion order.
// Quantities are always positive.
//
// Cart is a value: every operation returns a new Cart.
type Cart struct {
	lines []CartLine
}

func NewCart(lines ...CartLine) Cart {
	var c Cart
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		if i := c.index(l.Product.ID); i >= 0 {
			c.lines[i].Quantity += l.Quantity
			continue
		}
		c.lines = append(c.lines, l)
	}
	return c
}

func (c Cart) Lines() []CartLine {
	return slices.Clone(c.lines)
}

func (c Cart) Line(productID int) (CartLine, bool) {
	if i := c.index(productID); i >= 0 {
		return c.lines[i], true
	}
	return CartLine{}, false
}

func (c Cart) Empty() bool {
	return len(c.lines) == 0
}

func (c Cart) Add(p Product) Cart {
	lines := slices.Clone(c.lines)
	if i := c.index(p.ID); i >= 0 {
		lines[i].Quantity++
		return Cart{lines}
	}
	return Cart{append(lines, CartLine{Product: p, Quantity: 1})}
}

func (c Cart) Remove(productID int) Cart {
	i := c.index(productID)
	if i < 0 {
		return c
	}
	return Cart{slices.Delete(slices.Clone(c.lines), i, i+1)}
}

// AdjustQuantity adds delta to the line quantity. A line whose quantity
// drops to zero or below is removed. Unknown ids leave the cart unchanged.
func (c Cart) AdjustQuantity(productID, delta int) Cart {
	i := c.index(productID)
	if i < 0 {
		return c
	}
	quantity := c.lines[i].Quantity + delta
	if quantity <= 0 {
		return c.Remove(productID)
	}
	lines := slices.Clone(c.lines)
	lines[i].Quantity = quantity
	return Cart{lines}
}

func (c Cart) TotalItemCount() (n int) {
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

func (c Cart) TotalPrice() (total int) {
	for _, l := range c.lines {
		total += l.Amount()
	}
	return total
}

func (c Cart) index(productID int) int {
	return slices.IndexFunc(c.lines, func(l CartLine) bool {
		return l.Product.ID == productID
	})
}
