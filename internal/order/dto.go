package order

// CreateOrderItem is one checkout line item.
// swagger:model CreateOrderItem
type CreateOrderItem struct {
	ProductID    string `json:"productId" example:"4e7d4e5c-5cb9-4a3f-9f21-7e1a4f9f2b2a"`
	Name         string `json:"name"      example:"Chocolate Cake"`
	Image        string `json:"image"`
	VariantLabel string `json:"variantLabel" example:"1kg"`
	Price        string `json:"price"     example:"300.00"`
	Qty          int    `json:"qty"       example:"1"`
}

// CreateOrderRequest is the checkout payload.
// swagger:model CreateOrderRequest
type CreateOrderRequest struct {
	Items         []CreateOrderItem `json:"items"`
	Subtotal      string            `json:"subtotal" example:"300.00"`
	Shipping      string            `json:"shipping" example:"40.00"`
	Total         string            `json:"total"    example:"340.00"`
	Customer      Customer          `json:"customer"`
	PaymentMethod string            `json:"paymentMethod" example:"razorpay"`
	UserID        string            `json:"userId"`
	Notes         string            `json:"notes"`
}

// UpdateStatusRequest is the admin fulfillment transition payload.
// swagger:model UpdateStatusRequest
type UpdateStatusRequest struct {
	Status string `json:"status" example:"shipped"`
}

// SetPaymentStatusRequest is the admin payment override payload, used for
// COD/UPI orders that are settled out of band.
// swagger:model SetPaymentStatusRequest
type SetPaymentStatusRequest struct {
	PaymentStatus string `json:"paymentStatus" example:"paid"`
}
