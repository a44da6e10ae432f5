package model

// Owner identifies who a cart belongs to. Exactly one field is set; build it
// with identity.Identity.Owner rather than by hand.
type Owner struct {
	UserID  *int64 `json:"user_id,omitempty"`
	GuestID string `json:"guest_id,omitempty"`
}

// Cart is the server-side cart of a user or guest.
type Cart struct {
	ID           int64          `json:"id"`
	GuestID      *string        `json:"guest_id"`
	UserID       *int64         `json:"user_id"`
	User         map[string]any `json:"user,omitempty"`
	Items        []CartLine     `json:"items"`
	ItemsPrice   float64        `json:"items_price"`
	Discount     Discount       `json:"discount"`
	Charges      CartCharges    `json:"charges"`
	PayablePrice float64        `json:"payable_price"`
	CreatedAt    string         `json:"created_at,omitempty"`
	UpdatedAt    string         `json:"updated_at,omitempty"`
}

// CartLine is one line item of a cart.
type CartLine struct {
	ID       int64     `json:"id"`
	ItemID   int64     `json:"item_id,omitempty"`
	Title    string    `json:"title"`
	Quantity int       `json:"quantity"`
	Price    MenuPrice `json:"price"`
}

// MenuItemID returns the menu item id of the line. Older API responses omit
// item_id, in which case the line id is the item id.
func (l CartLine) MenuItemID() int64 {
	if l.ItemID != 0 {
		return l.ItemID
	}
	return l.ID
}

// Total is the line price times quantity.
func (l CartLine) Total() float64 {
	return l.Price.Price * float64(l.Quantity)
}

// Discount is the coupon applied to a cart.
type Discount struct {
	Coupon string  `json:"coupon"`
	Amount float64 `json:"amount"`
}

// Active reports whether a discount is applied.
func (d Discount) Active() bool {
	return d.Amount > 0
}

// CartCharges holds tax and delivery charges of a cart.
type CartCharges struct {
	Tax             float64 `json:"tax"`
	TaxPrice        float64 `json:"tax_price"`
	DeliveryCharges float64 `json:"delivery_charges"`
}

// DisplayTotal returns the amount shown to the customer. The server-computed
// payable price wins; the sum of components is only a rendering fallback.
func (c *Cart) DisplayTotal() float64 {
	if c.PayablePrice > 0 {
		return c.PayablePrice
	}
	return c.ItemsPrice + c.Charges.TaxPrice + c.Charges.DeliveryCharges - c.Discount.Amount
}

// Line returns the line with the given id.
func (c *Cart) Line(id int64) (CartLine, bool) {
	for _, l := range c.Items {
		if l.ID == id {
			return l, true
		}
	}
	return CartLine{}, false
}

// AddToCartRequest adds one or more items to the cart.
type AddToCartRequest struct {
	Owner
	Items []CartItemRequest `json:"items"`
}

// CartItemRequest is a single item of an add-to-cart request.
type CartItemRequest struct {
	ItemID      int64 `json:"item_id"`
	ItemPriceID int64 `json:"item_price_id"`
	Quantity    int   `json:"quantity"`
}

// UpdateQuantityRequest sets the quantity of a cart line.
type UpdateQuantityRequest struct {
	Owner
	ItemID      int64 `json:"item_id"`
	ItemPriceID int64 `json:"item_price_id"`
	Quantity    int   `json:"quantity"`
}

// DeleteCartItemRequest removes a cart line.
type DeleteCartItemRequest struct {
	Owner
	ItemID      int64 `json:"item_id"`
	ItemPriceID int64 `json:"item_price_id"`
}

// ApplyDiscountRequest applies a coupon code to the cart.
type ApplyDiscountRequest struct {
	Owner
	Code string `json:"code"`
}

// AdminCarts is the admin cart listing.
type AdminCarts struct {
	Carts []Cart `json:"carts"`
	Total int    `json:"total"`
}
