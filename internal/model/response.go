package model

// Envelope is the standard response wrapper of the API.
type Envelope[T any] struct {
	Success bool         `json:"success"`
	Status  int          `json:"status"`
	Message string       `json:"message"`
	Data    T            `json:"data"`
	Errors  []FieldError `json:"errors,omitempty"`
	Meta    *Pagination  `json:"meta,omitempty"`
}

// Pagination describes a page of a listing.
type Pagination struct {
	CurrentPage int `json:"current_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
	LastPage    int `json:"last_page"`
	From        int `json:"from"`
	To          int `json:"to"`
}
