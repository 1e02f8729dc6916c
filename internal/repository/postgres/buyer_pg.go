// internal/repository/postgres/buyer_pg.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"leadcredit/internal/domain"
	"leadcredit/internal/repository"
	"leadcredit/internal/util"
)

// BuyerRepository implements repository.BuyerRepository for PostgreSQL.
type BuyerRepository struct{}

// NewBuyerRepository creates a new BuyerRepository.
func NewBuyerRepository() repository.BuyerRepository {
	return &BuyerRepository{}
}

// CreateBuyer inserts a new buyer profile.
func (r *BuyerRepository) CreateBuyer(ctx context.Context, q repository.DBExecutor, buyer *domain.Buyer) error {
	query := `INSERT INTO buyers (id, email, company_name, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`
	_, err := q.ExecContext(ctx, query, buyer.ID, buyer.Email, buyer.CompanyName, buyer.CreatedAt, buyer.UpdatedAt)
	if err != nil {
		if util.IsUniqueViolation(err, "") {
			return fmt.Errorf("buyer %s: %w", buyer.ID, util.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to create buyer: %w", err)
	}
	return nil
}

// GetBuyerByID retrieves a buyer by id.
func (r *BuyerRepository) GetBuyerByID(ctx context.Context, q repository.DBExecutor, id string) (*domain.Buyer, error) {
	var buyer domain.Buyer
	query := `SELECT id, email, company_name, created_at, updated_at FROM buyers WHERE id = $1`
	err := q.GetContext(ctx, &buyer, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrBuyerNotFound
		}
		return nil, fmt.Errorf("failed to get buyer by ID %s: %w", id, err)
	}
	return &buyer, nil
}
