package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type CartRepository struct {
	db *pgxpool.Pool
}

func NewCartRepository(db *pgxpool.Pool) *CartRepository {
	return &CartRepository{db: db}
}

func (r *CartRepository) Create(ctx context.Context, cart *models.Cart) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO carts (id, created_at) VALUES ($1::uuid, NOW()) RETURNING created_at`,
		cart.ID.String(),
	).Scan(&cart.CreatedAt)
	if err != nil {
		return err
	}
	cart.Items = []models.CartItem{}
	return nil
}

func (r *CartRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
	cart := models.Cart{ID: id}
	err := r.db.QueryRow(ctx, `SELECT created_at FROM carts WHERE id = $1::uuid`, id.String()).Scan(&cart.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	items, err := r.ListItems(ctx, id)
	if err != nil {
		return nil, err
	}
	cart.Items = items
	return &cart, nil
}

func (r *CartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM carts WHERE id = $1::uuid`, id.String())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrRecordNotFound
	}
	return nil
}

func (r *CartRepository) DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM carts WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const cartItemSelect = `
	SELECT ci.id, ci.cart_id::text, ci.product_id, ci.quantity, p.title, p.unit_price::text
	FROM cart_items ci
	JOIN products p ON p.id = ci.product_id`

func scanCartItem(row pgx.Row, extra ...any) (*models.CartItem, error) {
	var item models.CartItem
	var cartID, price string
	product := &models.Product{}
	dest := append([]any{&item.ID, &cartID, &item.ProductID, &item.Quantity, &product.Title, &price}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	parsedID, err := uuid.Parse(cartID)
	if err != nil {
		return nil, fmt.Errorf("cart item %d: bad cart id %q: %w", item.ID, cartID, err)
	}
	unitPrice, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("cart item %d: bad unit_price %q: %w", item.ID, price, err)
	}
	item.CartID = parsedID
	product.ID = item.ProductID
	product.UnitPrice = unitPrice
	item.Product = product
	return &item, nil
}

func (r *CartRepository) ListItems(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error) {
	rows, err := r.db.Query(ctx, cartItemSelect+` WHERE ci.cart_id = $1::uuid ORDER BY ci.id`, cartID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.CartItem{}
	for rows.Next() {
		item, err := scanCartItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (r *CartRepository) GetItem(ctx context.Context, cartID uuid.UUID, itemID int) (*models.CartItem, error) {
	item, err := scanCartItem(r.db.QueryRow(ctx,
		cartItemSelect+` WHERE ci.cart_id = $1::uuid AND ci.id = $2`, cartID.String(), itemID))
	if err != nil {
		return nil, mapError(err)
	}
	return item, nil
}

// UpsertItem relies on the UNIQUE (cart_id, product_id) constraint; concurrent adds of the
// same product serialize on that row. The bool reports whether a new row was inserted.
// An add that would push the line past the INTEGER range updates nothing and returns
// models.ErrOutOfRange.
func (r *CartRepository) UpsertItem(ctx context.Context, cartID uuid.UUID, productID, quantity int) (*models.CartItem, bool, error) {
	var inserted bool
	item, err := scanCartItem(r.db.QueryRow(ctx, `
		WITH up AS (
			INSERT INTO cart_items (cart_id, product_id, quantity)
			VALUES ($1::uuid, $2, $3)
			ON CONFLICT (cart_id, product_id)
			DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
			WHERE cart_items.quantity::bigint + EXCLUDED.quantity <= 2147483647
			RETURNING id, cart_id, product_id, quantity, (xmax = 0) AS inserted
		)
		SELECT up.id, up.cart_id::text, up.product_id, up.quantity, p.title, p.unit_price::text, up.inserted
		FROM up
		JOIN products p ON p.id = up.product_id`,
		cartID.String(), productID, quantity,
	), &inserted)
	if errors.Is(err, pgx.ErrNoRows) {
		// the conflict guard rejected the update
		return nil, false, models.ErrOutOfRange
	}
	if err != nil {
		return nil, false, mapError(err)
	}
	return item, inserted, nil
}

func (r *CartRepository) UpdateItemQuantity(ctx context.Context, cartID uuid.UUID, itemID, quantity int) (*models.CartItem, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE cart_items SET quantity = $1 WHERE cart_id = $2::uuid AND id = $3`,
		quantity, cartID.String(), itemID)
	if err != nil {
		return nil, mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return nil, models.ErrRecordNotFound
	}
	return r.GetItem(ctx, cartID, itemID)
}

func (r *CartRepository) DeleteItem(ctx context.Context, cartID uuid.UUID, itemID int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1::uuid AND id = $2`, cartID.String(), itemID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrRecordNotFound
	}
	return nil
}
