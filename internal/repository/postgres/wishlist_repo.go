package postgres

import (
	"context"
	"fmt"
	"time"

	"wishlist-backend/internal/domain"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const wishlistColumns = `id, user_id, COALESCE(sharing_code, ''), share_count, created_at, updated_at`

const wishlistItemColumns = `id, wishlist_id, product_id, sku, qty, description, buy_request, options, added_at`

type wishlistRepository struct {
	db DBTX
}

func NewWishlistRepository(db DBTX) domain.WishlistRepository {
	return &wishlistRepository{db: db}
}

func (r *wishlistRepository) GetByCustomerID(ctx context.Context, customerID string) (*domain.Wishlist, error) {
	return r.getBy(ctx, `SELECT `+wishlistColumns+` FROM wishlists WHERE user_id = $1`, customerID)
}

func (r *wishlistRepository) GetBySharingCode(ctx context.Context, sharingCode string) (*domain.Wishlist, error) {
	return r.getBy(ctx, `SELECT `+wishlistColumns+` FROM wishlists WHERE sharing_code = $1`, sharingCode)
}

func (r *wishlistRepository) getBy(ctx context.Context, query string, arg string) (*domain.Wishlist, error) {
	q := conn(ctx, r.db)

	w, err := scanWishlist(q.QueryRow(ctx, query, arg))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get wishlist: %w", err)
	}

	items, err := r.listItems(ctx, q, w.ID)
	if err != nil {
		return nil, err
	}
	w.Items = items
	return w, nil
}

// Create returns the customer's wishlist, inserting it when missing.
func (r *wishlistRepository) Create(ctx context.Context, customerID string) (*domain.Wishlist, error) {
	now := time.Now().UTC()
	query := `
		INSERT INTO wishlists (id, user_id, share_count, created_at, updated_at)
		VALUES ($1, $2, 0, $3, $3)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING ` + wishlistColumns

	w, err := scanWishlist(conn(ctx, r.db).QueryRow(ctx, query, uuid.NewString(), customerID, now))
	if err != nil {
		return nil, fmt.Errorf("create wishlist: %w", err)
	}
	w.Items = []domain.WishlistItem{}
	return w, nil
}

func (r *wishlistRepository) GetItem(ctx context.Context, itemID string) (*domain.WishlistItem, string, error) {
	query := `
		SELECT i.id, i.wishlist_id, i.product_id, i.sku, i.qty, i.description, i.buy_request, i.options, i.added_at, w.user_id
		FROM wishlist_items i
		JOIN wishlists w ON w.id = i.wishlist_id
		WHERE i.id = $1`

	var (
		item    domain.WishlistItem
		options []byte
		ownerID string
	)
	err := conn(ctx, r.db).QueryRow(ctx, query, itemID).Scan(
		&item.ID, &item.WishlistID, &item.ProductID, &item.SKU, &item.Quantity,
		&item.Description, &item.BuyRequest, &options, &item.AddedAt, &ownerID,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, "", nil
		}
		return nil, "", fmt.Errorf("get wishlist item: %w", err)
	}
	if item.Options, err = decodeOptions(options); err != nil {
		return nil, "", err
	}
	return &item, ownerID, nil
}

// Save writes the header and replaces the stored item set with w.Items in a
// single transaction.
func (r *wishlistRepository) Save(ctx context.Context, w *domain.Wishlist) error {
	now := time.Now().UTC()

	return withTx(ctx, r.db, func(q DBTX) error {
		_, err := q.Exec(ctx,
			`UPDATE wishlists SET sharing_code = NULLIF($2, ''), share_count = $3, updated_at = $4 WHERE id = $1`,
			w.ID, w.SharingCode, w.ShareCount, now,
		)
		if err != nil {
			return fmt.Errorf("update wishlist: %w", err)
		}

		keep := make([]string, 0, len(w.Items))
		for _, item := range w.Items {
			keep = append(keep, item.ID)
		}
		_, err = q.Exec(ctx,
			`DELETE FROM wishlist_items WHERE wishlist_id = $1 AND NOT (id = ANY($2))`,
			w.ID, keep,
		)
		if err != nil {
			return fmt.Errorf("delete wishlist items: %w", err)
		}

		upsert := `
			INSERT INTO wishlist_items (` + wishlistItemColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (id) DO UPDATE SET
				qty = EXCLUDED.qty,
				description = EXCLUDED.description,
				buy_request = EXCLUDED.buy_request,
				options = EXCLUDED.options`

		for i := range w.Items {
			item := &w.Items[i]
			item.WishlistID = w.ID
			if item.AddedAt.IsZero() {
				item.AddedAt = now
			}
			options, err := encodeOptions(item.Options)
			if err != nil {
				return err
			}
			_, err = q.Exec(ctx, upsert,
				item.ID, item.WishlistID, item.ProductID, item.SKU, item.Quantity,
				item.Description, item.BuyRequest, options, item.AddedAt,
			)
			if err != nil {
				return fmt.Errorf("upsert wishlist item %s: %w", item.ID, err)
			}
		}

		w.UpdatedAt = now
		return nil
	})
}

func (r *wishlistRepository) listItems(ctx context.Context, q DBTX, wishlistID string) ([]domain.WishlistItem, error) {
	rows, err := q.Query(ctx,
		`SELECT `+wishlistItemColumns+` FROM wishlist_items WHERE wishlist_id = $1 ORDER BY added_at, id`,
		wishlistID,
	)
	if err != nil {
		return nil, fmt.Errorf("list wishlist items: %w", err)
	}
	defer rows.Close()

	items := []domain.WishlistItem{}
	for rows.Next() {
		var (
			item    domain.WishlistItem
			options []byte
		)
		if err := rows.Scan(
			&item.ID, &item.WishlistID, &item.ProductID, &item.SKU, &item.Quantity,
			&item.Description, &item.BuyRequest, &options, &item.AddedAt,
		); err != nil {
			return nil, fmt.Errorf("scan wishlist item: %w", err)
		}
		if item.Options, err = decodeOptions(options); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wishlist items: %w", err)
	}
	return items, nil
}

func scanWishlist(row pgx.Row) (*domain.Wishlist, error) {
	var w domain.Wishlist
	if err := row.Scan(&w.ID, &w.UserID, &w.SharingCode, &w.ShareCount, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return nil, err
	}
	return &w, nil
}

func encodeOptions(o *domain.OptionInput) ([]byte, error) {
	if o.IsEmpty() {
		return nil, nil
	}
	b, err := json.Marshal(o)
	if err != nil {
		return nil, fmt.Errorf("marshal item options: %w", err)
	}
	return b, nil
}

func decodeOptions(b []byte) (*domain.OptionInput, error) {
	if len(b) == 0 || string(b) == "null" {
		return nil, nil
	}
	var o domain.OptionInput
	if err := json.Unmarshal(b, &o); err != nil {
		return nil, fmt.Errorf("unmarshal item options: %w", err)
	}
	return &o, nil
}
