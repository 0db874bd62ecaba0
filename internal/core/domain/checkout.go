package domain

import (
	"errors"
	"maps"
	"regexp"
	"slices"
	"strings"
)

var ErrUnknownField = errors.New("unknown checkout field")

type Field string

const (
	FieldFirstName      Field = "first_name"
	FieldLastName       Field = "last_name"
	FieldEmail          Field = "email"
	FieldPhone          Field = "phone"
	FieldAddress        Field = "address"
	FieldCity           Field = "city"
	FieldPostalCode     Field = "postal_code"
	FieldDeliveryMethod Field = "delivery_method"
	FieldPaymentMethod  Field = "payment_method"
	FieldComment        Field = "comment"
)

// Fields lists the checkout fields in form order.
var Fields = []Field{
	FieldFirstName, FieldLastName, FieldEmail, FieldPhone,
	FieldAddress, FieldCity, FieldPostalCode,
	FieldDeliveryMethod, FieldPaymentMethod, FieldComment,
}

func ParseField(s string) (Field, error) {
	f := Field(s)
	if slices.Contains(Fields, f) {
		return f, nil
	}
	return "", ErrUnknownField
}

type DeliveryMethod string

const (
	DeliveryCourier DeliveryMethod = "courier"
	DeliveryPickup  DeliveryMethod = "pickup"
)

func (m DeliveryMethod) Valid() bool {
	return m == DeliveryCourier || m == DeliveryPickup
}

type PaymentMethod string

const (
	PaymentCard PaymentMethod = "card"
	PaymentCash PaymentMethod = "cash"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentCard || m == PaymentCash
}

type CheckoutForm struct {
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	Address        string
	City           string
	PostalCode     string
	DeliveryMethod DeliveryMethod
	PaymentMethod  PaymentMethod
	Comment        string
}

// NewCheckoutForm returns an empty form with courier delivery and card
// payment preselected.
func NewCheckoutForm() CheckoutForm {
	return CheckoutForm{
		DeliveryMethod: DeliveryCourier,
		PaymentMethod:  PaymentCard,
	}
}

func (f CheckoutForm) Set(field Field, value string) (CheckoutForm, error) {
	p, err := f.field(field)
	if err != nil {
		return f, err
	}
	*p = value
	return f, nil
}

func (f CheckoutForm) Get(field Field) (string, error) {
	p, err := f.field(field)
	if err != nil {
		return "", err
	}
	return *p, nil
}

func (f *CheckoutForm) field(field Field) (*string, error) {
	switch field {
	case FieldFirstName:
		return &f.FirstName, nil
	case FieldLastName:
		return &f.LastName, nil
	case FieldEmail:
		return &f.Email, nil
	case FieldPhone:
		return &f.Phone, nil
	case FieldAddress:
		return &f.Address, nil
	case FieldCity:
		return &f.City, nil
	case FieldPostalCode:
		return &f.PostalCode, nil
	case FieldDeliveryMethod:
		return (*string)(&f.DeliveryMethod), nil
	case FieldPaymentMethod:
		return (*string)(&f.PaymentMethod), nil
	case FieldComment:
		return &f.Comment, nil
	}
	return nil, ErrUnknownField
}

// FieldErrors maps a field to its error message. A missing key means the
// field is valid.
type FieldErrors map[Field]string

func (e FieldErrors) Clone() FieldErrors {
	if e == nil {
		return nil
	}
	return maps.Clone(e)
}

// Without returns a copy of e with the error for field removed.
func (e FieldErrors) Without(field Field) FieldErrors {
	if _, ok := e[field]; !ok {
		return e
	}
	c := maps.Clone(e)
	delete(c, field)
	return c
}

type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	fs := slices.Sorted(maps.Keys(e.Fields))
	names := make([]string, len(fs))
	for i, f := range fs {
		names[i] = string(f)
	}
	return "invalid checkout form: " + strings.Join(names, ", ")
}

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe = regexp.MustCompile(`^\+?[0-9\s\-()]{10,}$`)
)

const (
	MsgFirstNameRequired  = "Enter first name"
	MsgLastNameRequired   = "Enter last name"
	MsgEmailRequired      = "Enter email"
	MsgEmailInvalid       = "Invalid email"
	MsgPhoneRequired      = "Enter phone number"
	MsgPhoneInvalid       = "Invalid phone number"
	MsgAddressRequired    = "Enter address"
	MsgCityRequired       = "Enter city"
	MsgPostalCodeRequired = "Enter postal code"
	MsgDeliveryInvalid    = "Choose courier or pickup"
	MsgPaymentInvalid     = "Choose card or cash"
)

// Validate checks every field and returns the collected errors.
// The result is empty for a valid form.
func (f CheckoutForm) Validate() FieldErrors {
	errs := make(FieldErrors)

	required := func(field Field, value, msg string) {
		if strings.TrimSpace(value) == "" {
			errs[field] = msg
		}
	}

	required(FieldFirstName, f.FirstName, MsgFirstNameRequired)
	required(FieldLastName, f.LastName, MsgLastNameRequired)
	required(FieldAddress, f.Address, MsgAddressRequired)
	required(FieldCity, f.City, MsgCityRequired)
	required(FieldPostalCode, f.PostalCode, MsgPostalCodeRequired)

	switch {
	case strings.TrimSpace(f.Email) == "":
		errs[FieldEmail] = MsgEmailRequired
	case !emailRe.MatchString(f.Email):
		errs[FieldEmail] = MsgEmailInvalid
	}

	switch phone := strings.TrimSpace(f.Phone); {
	case phone == "":
		errs[FieldPhone] = MsgPhoneRequired
	case !phoneRe.MatchString(phone):
		errs[FieldPhone] = MsgPhoneInvalid
	}

	if !f.DeliveryMethod.Valid() {
		errs[FieldDeliveryMethod] = MsgDeliveryInvalid
	}
	if !f.PaymentMethod.Valid() {
		errs[FieldPaymentMethod] = MsgPaymentInvalid
	}

	return errs
}

type NotificationKind string

const (
	NotificationSuccess           NotificationKind = "success"
	NotificationValidationFailure NotificationKind = "validation_failure"
)

type Notification struct {
	Kind        NotificationKind
	Title       string
	Description string
}

func OrderPlacedNotification() Notification {
	return Notification{
		Kind:        NotificationSuccess,
		Title:       "Order placed!",
		Description: "We will contact you shortly",
	}
}

func ValidationFailedNotification() Notification {
	return Notification{
		Kind:        NotificationValidationFailure,
		Title:       "Validation error",
		Description: "Please fill in all required fields correctly",
	}
}
