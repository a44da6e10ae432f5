package model

// OrderStatus is the fulfilment stage of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCooking   OrderStatus = "cooking"
	OrderStatusOnTheWay  OrderStatus = "on_the_way"
	OrderStatusDelivered OrderStatus = "delivered"
)

// PaymentStatus is the payment state of an order.
type PaymentStatus string

const (
	PaymentStatusUnpaid  PaymentStatus = "unpaid"
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// Order represents a placed order as returned by the API.
type Order struct {
	ID              int64         `json:"id"`
	UserID          *int64        `json:"user_id"`
	GuestID         *string       `json:"guest_id"`
	CartID          *int64        `json:"cart_id"`
	TotalAmount     float64       `json:"total_amount"`
	Status          OrderStatus   `json:"status"`
	PaymentStatus   PaymentStatus `json:"payment_status"`
	Phone           string        `json:"phone"`
	Email           string        `json:"email"`
	Notes           string        `json:"notes"`
	CreatedAt       string        `json:"created_at"`
	UpdatedAt       string        `json:"updated_at"`
	User            *User         `json:"user"`
	Address         OrderAddress  `json:"address"`
	OrderItems      []OrderItem   `json:"order_items"`
	Summary         OrderSummary  `json:"summary"`
	OrderItemsCount int           `json:"order_items_count"`
}

// OrderAddress is the delivery address snapshot of an order.
type OrderAddress struct {
	State         string `json:"state"`
	ZipCode       string `json:"zip_code"`
	StreetAddress string `json:"street_address"`
	City          City   `json:"city"`
}

// OrderItem is a line of an order.
type OrderItem struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Quantity    int       `json:"quantity"`
	Price       MenuPrice `json:"price"`
}

// OrderCharges holds the charges applied to an order.
type OrderCharges struct {
	Tax             float64 `json:"tax"`
	TaxPrice        float64 `json:"tax_price"`
	DeliveryCharges float64 `json:"delivery_charges"`
	Discount        float64 `json:"discount"`
}

// OrderSummary holds the server-computed totals of an order.
type OrderSummary struct {
	ItemsPrice   float64      `json:"items_price"`
	Charges      OrderCharges `json:"charges"`
	PayablePrice float64      `json:"payable_price"`
}

// OrdersPage is the paginated order list.
type OrdersPage struct {
	Orders     []Order    `json:"orders"`
	Pagination Pagination `json:"pagination"`
}

// CreateOrderRequest is the checkout payload.
type CreateOrderRequest struct {
	Owner
	CartID        int64  `json:"cart_id"`
	CityID        int64  `json:"city_id"`
	State         string `json:"state"`
	ZipCode       string `json:"zip_code"`
	StreetAddress string `json:"street_address"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Notes         string `json:"notes"`
}

// UpdateOrderStatusRequest is the status transition payload.
type UpdateOrderStatusRequest struct {
	Status        OrderStatus   `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status,omitempty"`
}

// OrdersQuery filters the admin order list.
type OrdersQuery struct {
	Status  OrderStatus
	Page    int
	PerPage int
}
