package validate

import (
	"strings"

	"storefront/internal/model"
	"storefront/internal/orderflow"
)

// Quantity bounds of a single add-to-cart.
const (
	MinQuantity = 1
	MaxQuantity = 999
)

// CheckoutForm is the delivery and contact details collected at checkout.
type CheckoutForm struct {
	Email         string `json:"email" validate:"required,email"`
	Phone         string `json:"phone" validate:"required"`
	CityID        int64  `json:"city_id" validate:"required,gt=0"`
	State         string `json:"state" validate:"required"`
	ZipCode       string `json:"zip_code" validate:"required"`
	StreetAddress string `json:"street_address" validate:"required"`
	Notes         string `json:"notes"`
}

// Normalize trims surrounding whitespace from every text field.
func (f CheckoutForm) Normalize() CheckoutForm {
	f.Email = strings.TrimSpace(f.Email)
	f.Phone = strings.TrimSpace(f.Phone)
	f.State = strings.TrimSpace(f.State)
	f.ZipCode = strings.TrimSpace(f.ZipCode)
	f.StreetAddress = strings.TrimSpace(f.StreetAddress)
	f.Notes = strings.TrimSpace(f.Notes)
	return f
}

// Checkout validates the checkout form.
func Checkout(f CheckoutForm) error {
	return Struct(f.Normalize())
}

// StatusUpdate validates a status transition: the status must be in the flow,
// a payment status if present must be paid or unpaid, and delivering requires paid.
func StatusUpdate(t orderflow.Transition) error {
	return Struct(t)
}

// AddToCart validates an add-to-cart selection against the item it was made
// from: the item id is set, the chosen price exists and is positive, and the
// quantity is within bounds.
func AddToCart(item *model.MenuItem, priceID int64, qty int) error {
	if item == nil || item.ID <= 0 {
		return model.ErrInvalidItem
	}

	price, ok := item.Price(priceID)
	if !ok || price.Price <= 0 {
		return model.ErrPriceUnavailable
	}

	if err := engine().Var(qty, "min=1,max=999"); err != nil {
		return model.ErrInvalidQuantity
	}

	return nil
}
