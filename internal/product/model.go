package product

import "time"

// Variant is one sellable size of a product, e.g. "500g" or "1kg".
type Variant struct {
	Label string `json:"label"`
	// We store price as a string to avoid rounding errors (NUMERIC semantics)
	Price string `json:"price"`
	Stock int    `json:"stock"`
}

type Product struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	Subcategory  string    `json:"subcategory,omitempty"`
	Description  string    `json:"description,omitempty"`
	Image        string    `json:"image,omitempty"`
	IsTopSelling bool      `json:"isTopSelling"`
	Featured     bool      `json:"featured"`
	EventID      string    `json:"eventId,omitempty"`
	Variants     []Variant `json:"variants"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HTTPError represents a standard error in JSON.
// swagger:model
type HTTPError struct {
	// Error message
	// example: not found
	Message string `json:"message"`
}

// CreateProductRequest payload of creation.
// swagger:model CreateProductRequest
type CreateProductRequest struct {
	Name         string    `json:"name"        example:"Chocolate Cake"`
	Category     string    `json:"category"    example:"Cake"`
	Subcategory  string    `json:"subcategory" example:"Birthday"`
	Description  string    `json:"description" example:"Rich chocolate layered cake"`
	Image        string    `json:"image"`
	IsTopSelling bool      `json:"isTopSelling"`
	Featured     bool      `json:"featured"`
	EventID      string    `json:"eventId"`
	Variants     []Variant `json:"variants"`
}

// UpdateProductRequest payload of partial update.
// swagger:model UpdateProductRequest
type UpdateProductRequest struct {
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	Subcategory  string    `json:"subcategory"`
	Description  string    `json:"description"`
	Image        string    `json:"image"`
	IsTopSelling *bool     `json:"isTopSelling"`
	Featured     *bool     `json:"featured"`
	EventID      string    `json:"eventId"`
	Variants     []Variant `json:"variants"`
}
