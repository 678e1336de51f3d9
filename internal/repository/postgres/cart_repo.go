package postgres

import (
	"context"
	"fmt"
	"time"

	"wishlist-backend/internal/domain"

	"github.com/google/uuid"
)

type cartRepository struct {
	db DBTX
}

func NewCartRepository(db DBTX) domain.CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) GetOrCreateForCustomer(ctx context.Context, customerID string) (*domain.Cart, error) {
	q := conn(ctx, r.db)
	now := time.Now().UTC()

	query := `
		INSERT INTO carts (id, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING id, user_id, created_at, updated_at`

	var (
		cart   domain.Cart
		userID string
	)
	err := q.QueryRow(ctx, query, uuid.NewString(), customerID, now).
		Scan(&cart.ID, &userID, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get or create cart: %w", err)
	}
	cart.UserID = &userID

	rows, err := q.Query(ctx, `
		SELECT id, cart_id, product_id, sku, name, quantity, price, buy_request
		FROM cart_items WHERE cart_id = $1 ORDER BY position`, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	defer rows.Close()

	cart.Items = []domain.CartItem{}
	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(
			&item.ID, &item.CartID, &item.ProductID, &item.SKU, &item.Name,
			&item.Quantity, &item.Price, &item.BuyRequest,
		); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		cart.Items = append(cart.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cart items: %w", err)
	}
	return &cart, nil
}

// Save replaces the stored lines of the cart with cart.Items, keeping their order.
func (r *cartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	now := time.Now().UTC()

	return withTx(ctx, r.db, func(q DBTX) error {
		if _, err := q.Exec(ctx, `UPDATE carts SET updated_at = $2 WHERE id = $1`, cart.ID, now); err != nil {
			return fmt.Errorf("update cart: %w", err)
		}

		keep := make([]string, 0, len(cart.Items))
		for _, item := range cart.Items {
			keep = append(keep, item.ID)
		}
		_, err := q.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1 AND NOT (id = ANY($2))`, cart.ID, keep)
		if err != nil {
			return fmt.Errorf("delete cart items: %w", err)
		}

		upsert := `
			INSERT INTO cart_items (id, cart_id, product_id, sku, name, quantity, price, buy_request, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (id) DO UPDATE SET
				quantity = EXCLUDED.quantity,
				price = EXCLUDED.price,
				buy_request = EXCLUDED.buy_request,
				position = EXCLUDED.position`

		for i := range cart.Items {
			item := &cart.Items[i]
			item.CartID = cart.ID
			_, err := q.Exec(ctx, upsert,
				item.ID, item.CartID, item.ProductID, item.SKU, item.Name,
				item.Quantity, item.Price, item.BuyRequest, i,
			)
			if err != nil {
				return fmt.Errorf("upsert cart item %s: %w", item.ID, err)
			}
		}

		cart.UpdatedAt = now
		return nil
	})
}
