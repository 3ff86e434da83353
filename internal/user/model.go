package user

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email,omitempty"`
	Mobile       string    `json:"mobile,omitempty"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	ResetToken        string    `json:"-"`
	ResetTokenExpires time.Time `json:"-"`
}

// CartItem is one line of a user's saved cart.
type CartItem struct {
	ProductID string `json:"productId"`
	Qty       int    `json:"qty"`
}
