package postgres

import (
	"context"
	"fmt"

	"wishlist-backend/internal/domain"
)

type customerRepository struct {
	db DBTX
}

func NewCustomerRepository(db DBTX) domain.CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	err := conn(ctx, r.db).QueryRow(ctx,
		`SELECT id, email, first_name, last_name, role, created_at, updated_at FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return &u, nil
}
