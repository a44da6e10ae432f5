package model

// Publication states shared by menu items, categories and cities.
const (
	StatusPublished   = "published"
	StatusUnpublished = "unpublished"
)

// MenuPrice is one size/price variant of a menu item.
type MenuPrice struct {
	ID        int64   `json:"id"`
	Price     float64 `json:"price"`
	Size      string  `json:"size,omitempty"`
	CreatedAt string  `json:"created_at,omitempty"`
	UpdatedAt string  `json:"updated_at,omitempty"`
}

// MenuCategory is the category reference embedded in a menu item.
type MenuCategory struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// MenuItem is a dish on the menu.
type MenuItem struct {
	ID        int64        `json:"id,omitempty"`
	Name      string       `json:"name"`
	Details   string       `json:"details"`
	Thumbnail string       `json:"thumbnail"`
	Status    string       `json:"status"`
	IsSpecial bool         `json:"isSpecial,omitempty"`
	Category  MenuCategory `json:"category"`
	Prices    []MenuPrice  `json:"prices"`
	CreatedAt string       `json:"created_at,omitempty"`
	UpdatedAt string       `json:"updated_at,omitempty"`
}

// Price returns the price variant with the given id.
func (m *MenuItem) Price(id int64) (MenuPrice, bool) {
	for _, p := range m.Prices {
		if p.ID == id {
			return p, true
		}
	}
	return MenuPrice{}, false
}

// MenuList is the menu item listing.
type MenuList struct {
	Items []MenuItem `json:"items"`
	Total int        `json:"total"`
}

// MenuQuery filters the menu listing. Zero values are not sent.
type MenuQuery struct {
	CategoryID int64
	HasPrice   bool
	IsSpecial  bool
}

// CategorisedItem is a menu item inside the grouped storefront menu.
type CategorisedItem struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Prices      []MenuPrice `json:"prices"`
	Thumbnail   string      `json:"thumbnail"`
	Description string      `json:"description"`
	IsAvailable bool        `json:"isAvailable"`
	IsSpecial   bool        `json:"isSpecial"`
}

// CategorisedCategory is one group of the storefront menu.
type CategorisedCategory struct {
	ID           int64             `json:"id"`
	CategoryName string            `json:"categoryName"`
	Description  *string           `json:"description"`
	Items        []CategorisedItem `json:"items"`
}

// CategorisedMenu is the storefront menu grouped by category.
type CategorisedMenu struct {
	Total      int                   `json:"total"`
	Categories []CategorisedCategory `json:"categories"`
}

// MenuItemInput is the admin payload for creating or updating a menu item.
type MenuItemInput struct {
	Name          string `json:"name" validate:"required"`
	Details       string `json:"details" validate:"required"`
	CategoryID    int64  `json:"category_id" validate:"gt=0"`
	Status        string `json:"status" validate:"required,oneof=published unpublished"`
	IsSpecial     bool   `json:"isSpecial"`
	ThumbnailPath string `json:"-"` // optional local image uploaded as multipart "thumbnail"
}

// PriceInput is the admin payload for a price variant.
type PriceInput struct {
	Price float64 `json:"price" validate:"gt=0"`
	Size  string  `json:"size,omitempty" validate:"max=50"`
}

// PriceList is the price listing returned by price mutations.
type PriceList struct {
	Prices []MenuPrice `json:"prices"`
	Total  int         `json:"total"`
}

// Category is a menu category.
type Category struct {
	ID        int64  `json:"id,omitempty"`
	Name      string `json:"name" validate:"required"`
	Status    string `json:"status" validate:"required,oneof=published unpublished"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// CategoryList is the category listing.
type CategoryList struct {
	Categories []Category `json:"categories"`
	Total      int        `json:"total"`
}

// City is a delivery city.
type City struct {
	ID        int64  `json:"id,omitempty"`
	Name      string `json:"name" validate:"required"`
	Status    string `json:"status" validate:"required,oneof=published unpublished"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// CityList is the city listing.
type CityList struct {
	Cities []City `json:"cities"`
	Total  int    `json:"total"`
}

// Published returns the cities customers can deliver to.
func (l CityList) Published() []City {
	out := make([]City, 0, len(l.Cities))
	for _, c := range l.Cities {
		if c.Status == StatusPublished {
			out = append(out, c)
		}
	}
	return out
}
