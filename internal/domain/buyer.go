// internal/domain/buyer.go
package domain

import "time"

// Buyer is the local profile of an externally authenticated commercial account.
type Buyer struct {
	ID          string    `db:"id" json:"id"`                     // Opaque id issued by the identity provider
	Email       string    `db:"email" json:"email"`               // Notification recipient
	CompanyName *string   `db:"company_name" json:"company_name"` // Optional display name
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// NewBuyer creates a new Buyer instance.
func NewBuyer(id, email string, companyName *string) *Buyer {
	now := time.Now().UTC()
	return &Buyer{
		ID:          id,
		Email:       email,
		CompanyName: companyName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
