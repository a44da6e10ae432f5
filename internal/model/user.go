package model

// Roles returned by the API.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is an authenticated account.
type User struct {
	ID              int64            `json:"id"`
	Name            string           `json:"name"`
	Email           string           `json:"email"`
	Role            string           `json:"role"`
	DeliveryAddress *DeliveryAddress `json:"delivery_address"`
	CreatedAt       string           `json:"created_at"`
	UpdatedAt       string           `json:"updated_at"`
}

// IsAdmin reports whether the user may use the admin dashboard.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// DeliveryAddress is the saved address of a user.
type DeliveryAddress struct {
	ID            int64  `json:"id"`
	UserID        int64  `json:"user_id"`
	CityID        int64  `json:"city_id"`
	State         string `json:"state"`
	ZipCode       string `json:"zip_code"`
	StreetAddress string `json:"street_address"`
	City          City   `json:"city"`
}

// Credentials are the login payload.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Registration is the sign-up payload.
type Registration struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// AuthResult is returned by login and register.
type AuthResult struct {
	User        User   `json:"user"`
	AccessToken string `json:"access_token"`
}

// AdminUser is a user row in the admin listing.
type AdminUser struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	Role            string  `json:"role"`
	AddressID       *int64  `json:"address_id"`
	EmailVerifiedAt *string `json:"email_verified_at"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

// UserList is the admin user listing.
type UserList struct {
	Users []AdminUser `json:"users"`
	Total int         `json:"total"`
}

// DashboardStats are the admin dashboard counters.
type DashboardStats struct {
	TotalUsers        int `json:"total_users"`
	TotalAdmins       int `json:"total_admins"`
	TotalRegularUsers int `json:"total_regular_users"`
}

// DashboardData wraps the dashboard counters.
type DashboardData struct {
	Stats DashboardStats `json:"stats"`
}

// Restaurant holds the restaurant settings.
type Restaurant struct {
	ID             int64    `json:"id"`
	PrivacyPolicy  string   `json:"privacy_policy"`
	Terms          string   `json:"terms"`
	RefundProcess  string   `json:"refund_process"`
	License        string   `json:"license"`
	ShopName       string   `json:"shop_name"`
	ShopAddress    string   `json:"shop_address"`
	ShopDetails    string   `json:"shop_details"`
	ShopPhone      string   `json:"shop_phone,omitempty"`
	Tax            *float64 `json:"tax,omitempty"`
	DeliveryCharge *float64 `json:"delivery_charge,omitempty"`
	ShopLogo       string   `json:"shop_logo,omitempty"`
	IsOpen         *bool    `json:"is_open,omitempty"`
	CreatedAt      string   `json:"created_at"`
	UpdatedAt      string   `json:"updated_at"`
}

// RestaurantData wraps the restaurant settings.
type RestaurantData struct {
	Restaurant Restaurant `json:"restaurant"`
}

// RestaurantUpdate is the settings payload; nil fields are left unchanged.
type RestaurantUpdate struct {
	ShopName       *string  `json:"shop_name,omitempty"`
	ShopAddress    *string  `json:"shop_address,omitempty"`
	ShopDetails    *string  `json:"shop_details,omitempty"`
	ShopPhone      *string  `json:"shop_phone,omitempty"`
	PrivacyPolicy  *string  `json:"privacy_policy,omitempty"`
	Terms          *string  `json:"terms,omitempty"`
	RefundProcess  *string  `json:"refund_process,omitempty"`
	License        *string  `json:"license,omitempty"`
	Tax            *float64 `json:"tax,omitempty" validate:"omitempty,gte=0,lte=100"`
	DeliveryCharge *float64 `json:"delivery_charge,omitempty" validate:"omitempty,gte=0"`
	IsOpen         *bool    `json:"is_open,omitempty"`
}

// ContactMessage is the public contact form.
type ContactMessage struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone,omitempty"`
	Subject string `json:"subject" validate:"required"`
	Message string `json:"message" validate:"required,min=10"`
}

// Contact is a stored contact message.
type Contact struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Phone      string  `json:"phone,omitempty"`
	Subject    string  `json:"subject"`
	Message    string  `json:"message"`
	Status     string  `json:"status"`
	AdminNotes *string `json:"admin_notes"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}

// ContactList is the admin contact listing.
type ContactList struct {
	Contacts []Contact `json:"contacts"`
	Total    int       `json:"total"`
}
