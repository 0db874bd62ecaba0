package schema

import "github.com/hamba/avro/v2"

const OrderPlacedSchemaTextV1 = `{
	"type": "record",
	"namespace": "orders",
	"name": "order_placed",
	"fields": [
		{"name": "order_id", "type": "string"},
		{"name": "placed_at", "type": "long"},
		{"name": "customer", "type": {
			"type": "record",
			"name": "customer",
			"fields": [
				{"name": "first_name", "type": "string"},
				{"name": "last_name", "type": "string"},
				{"name": "email", "type": "string"},
				{"name": "phone", "type": "string"}
			]
		}},
		{"name": "delivery", "type": {
			"type": "record",
			"name": "delivery",
			"fields": [
				{"name": "method", "type": "string"},
				{"name": "address", "type": "string"},
				{"name": "city", "type": "string"},
				{"name": "postal_code", "type": "string"}
			]
		}},
		{"name": "payment_method", "type": "string"},
		{"name": "comment", "type": "string"},
		{"name": "lines", "type": {
			"type": "array",
			"items": {
				"type": "record",
				"name": "order_line",
				"fields": [
					{"name": "product_id", "type": "int"},
					{"name": "name", "type": "string"},
					{"name": "unit_price", "type": "long"},
					{"name": "quantity", "type": "int"}
				]
			}
		}},
		{"name": "subtotal", "type": "long"},
		{"name": "delivery_fee", "type": "long"},
		{"name": "total", "type": "long"}
	]
}`

type (
	OrderPlacedV1 struct {
		OrderID       string        `avro:"order_id"`
		PlacedAt      int64         `avro:"placed_at"` // unix millis
		Customer      CustomerV1    `avro:"customer"`
		Delivery      DeliveryV1    `avro:"delivery"`
		PaymentMethod string        `avro:"payment_method"`
		Comment       string        `avro:"comment"`
		Lines         []OrderLineV1 `avro:"lines"`
		Subtotal      int64         `avro:"subtotal"`
		DeliveryFee   int64         `avro:"delivery_fee"`
		Total         int64         `avro:"total"`
	}

	CustomerV1 struct {
		FirstName string `avro:"first_name"`
		LastName  string `avro:"last_name"`
		Email     string `avro:"email"`
		Phone     string `avro:"phone"`
	}

	DeliveryV1 struct {
		Method     string `avro:"method"`
		Address    string `avro:"address"`
		City       string `avro:"city"`
		PostalCode string `avro:"postal_code"`
	}

	OrderLineV1 struct {
		ProductID int    `avro:"product_id"`
		Name      string `avro:"name"`
		UnitPrice int64  `avro:"unit_price"`
		Quantity  int    `avro:"quantity"`
	}
)

// OrderPlacedV1Avro returns the parsed schema. Panics on invalid schema text.
func OrderPlacedV1Avro() avro.Schema {
	return avro.MustParse(OrderPlacedSchemaTextV1)
}
