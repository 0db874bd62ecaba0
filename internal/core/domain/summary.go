package domain

// CourierFee is charged for courier delivery, in minor currency units.
const CourierFee = 300

type OrderSummary struct {
	Subtotal    int
	DeliveryFee int
	Total       int
}

func DeliveryFee(m DeliveryMethod) int {
	if m == DeliveryCourier {
		return CourierFee
	}
	return 0
}

func Summarize(c Cart, m DeliveryMethod) OrderSummary {
	subtotal := c.TotalPrice()
	fee := DeliveryFee(m)
	return OrderSummary{
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Total:       subtotal + fee,
	}
}
