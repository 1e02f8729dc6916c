// internal/repository/buyer_repo.go
package repository

import (
	"context"

	"leadcredit/internal/domain"
)

// BuyerRepository defines the interface for buyer profile operations.
type BuyerRepository interface {
	CreateBuyer(ctx context.Context, q DBExecutor, buyer *domain.Buyer) error
	GetBuyerByID(ctx context.Context, q DBExecutor, id string) (*domain.Buyer, error)
}
