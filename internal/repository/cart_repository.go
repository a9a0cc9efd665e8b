package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quickcart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// cartRepository implements the CartRepository interface using PostgreSQL.
type cartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

func scanCart(row pgx.Row) (*model.Cart, error) {
	var c model.Cart
	if err := row.Scan(&c.ID, &c.UserID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// GetOrCreate returns the user's cart, creating it on first access.
func (r *cartRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	selectQuery := `
		SELECT id, user_id, created_at, updated_at
		FROM carts
		WHERE user_id = $1
	`

	cart, err := scanCart(r.pool.QueryRow(ctx, selectQuery, userID))
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to query cart")
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}

	now := time.Now().UTC()
	insertQuery := `
		INSERT INTO carts (id, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (user_id) DO NOTHING
	`
	if _, err := r.pool.Exec(ctx, insertQuery, uuid.New(), userID, now); err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to create cart")
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}

	// A concurrent request may have won the insert; read whichever row exists.
	cart, err = scanCart(r.pool.QueryRow(ctx, selectQuery, userID))
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to query cart")
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}

	r.logger.Debug().
		Str("user_id", userID.String()).
		Str("cart_id", cart.ID.String()).
		Msg("cart ready")

	return cart, nil
}

// LockForUser selects the user's cart row FOR UPDATE within tx.
func (r *cartRepository) LockForUser(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*model.Cart, error) {
	query := `
		SELECT id, user_id, created_at, updated_at
		FROM carts
		WHERE user_id = $1
		FOR UPDATE
	`

	cart, err := scanCart(tx.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to lock cart")
		return nil, fmt.Errorf("failed to lock cart: %w", err)
	}

	return cart, nil
}

// ListItems retrieves the items of a cart with their product summaries.
func (r *cartRepository) ListItems(ctx context.Context, cartID uuid.UUID) ([]model.CartItem, error) {
	return r.listItems(ctx, r.pool, cartID)
}

// ListItemsTx is ListItems executed within tx.
func (r *cartRepository) ListItemsTx(ctx context.Context, tx pgx.Tx, cartID uuid.UUID) ([]model.CartItem, error) {
	return r.listItems(ctx, tx, cartID)
}

func (r *cartRepository) listItems(ctx context.Context, q querier, cartID uuid.UUID) ([]model.CartItem, error) {
	query := `
		SELECT ci.id, ci.cart_id, ci.product_id, ci.quantity, ci.price, ci.created_at,
		       p.name, p.slug, p.image
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.created_at, ci.id
	`

	rows, err := q.Query(ctx, query, cartID)
	if err != nil {
		r.logger.Error().Err(err).Str("cart_id", cartID.String()).Msg("failed to query cart items")
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	items := []model.CartItem{}
	for rows.Next() {
		var item model.CartItem
		err := rows.Scan(
			&item.ID, &item.CartID, &item.ProductID, &item.Quantity, &item.Price, &item.CreatedAt,
			&item.Product.Name, &item.Product.Slug, &item.Product.Image,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan cart item row")
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating cart item rows")
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	return items, nil
}

// GetItem retrieves an item only if it belongs to the given cart.
func (r *cartRepository) GetItem(ctx context.Context, cartID, itemID uuid.UUID) (*model.CartItem, error) {
	query := `
		SELECT ci.id, ci.cart_id, ci.product_id, ci.quantity, ci.price, ci.created_at,
		       p.name, p.slug, p.image
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.id = $1 AND ci.cart_id = $2
	`

	var item model.CartItem
	err := r.pool.QueryRow(ctx, query, itemID, cartID).Scan(
		&item.ID, &item.CartID, &item.ProductID, &item.Quantity, &item.Price, &item.CreatedAt,
		&item.Product.Name, &item.Product.Slug, &item.Product.Image,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().
				Str("cart_id", cartID.String()).
				Str("item_id", itemID.String()).
				Msg("cart item not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("item_id", itemID.String()).Msg("failed to query cart item")
		return nil, fmt.Errorf("failed to query cart item: %w", err)
	}

	return &item, nil
}

// UpsertItem inserts a new line or increments an existing one without touching its price.
// A line already at model.MaxQuantity is left alone and model.ErrInvalidQuantity returned.
func (r *cartRepository) UpsertItem(ctx context.Context, tx pgx.Tx, cartID, productID uuid.UUID, price decimal.Decimal) (*model.CartItem, bool, error) {
	query := `
		INSERT INTO cart_items (id, cart_id, product_id, quantity, price, created_at)
		VALUES ($1, $2, $3, 1, $4, $5)
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + 1
		WHERE cart_items.quantity < $6
		RETURNING id, cart_id, product_id, quantity, price, created_at, (xmax = 0) AS inserted
	`

	var (
		item     model.CartItem
		inserted bool
	)
	err := tx.QueryRow(ctx, query, uuid.New(), cartID, productID, price, time.Now().UTC(), model.MaxQuantity).Scan(
		&item.ID, &item.CartID, &item.ProductID, &item.Quantity, &item.Price, &item.CreatedAt, &inserted,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, model.ErrInvalidQuantity
	}
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("cart_id", cartID.String()).
			Str("product_id", productID.String()).
			Msg("failed to upsert cart item")
		return nil, false, fmt.Errorf("failed to upsert cart item: %w", err)
	}

	return &item, inserted, nil
}

// UpdateItemQuantity overwrites the quantity of an item.
func (r *cartRepository) UpdateItemQuantity(ctx context.Context, tx pgx.Tx, itemID uuid.UUID, quantity int) error {
	tag, err := tx.Exec(ctx, `UPDATE cart_items SET quantity = $2 WHERE id = $1`, itemID, quantity)
	if err != nil {
		r.logger.Error().Err(err).Str("item_id", itemID.String()).Msg("failed to update cart item")
		return fmt.Errorf("failed to update cart item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCartItemNotFound
	}
	return nil
}

// DeleteItem removes a single item.
func (r *cartRepository) DeleteItem(ctx context.Context, tx pgx.Tx, itemID uuid.UUID) error {
	tag, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE id = $1`, itemID)
	if err != nil {
		r.logger.Error().Err(err).Str("item_id", itemID.String()).Msg("failed to delete cart item")
		return fmt.Errorf("failed to delete cart item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCartItemNotFound
	}
	return nil
}

// ClearItems removes every item of a cart.
func (r *cartRepository) ClearItems(ctx context.Context, tx pgx.Tx, cartID uuid.UUID) (int64, error) {
	tag, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID)
	if err != nil {
		r.logger.Error().Err(err).Str("cart_id", cartID.String()).Msg("failed to clear cart")
		return 0, fmt.Errorf("failed to clear cart: %w", err)
	}

	r.logger.Debug().
		Str("cart_id", cartID.String()).
		Int64("removed", tag.RowsAffected()).
		Msg("cart cleared")

	return tag.RowsAffected(), nil
}

// Touch refreshes the cart's updated_at timestamp.
func (r *cartRepository) Touch(ctx context.Context, tx pgx.Tx, cartID uuid.UUID) error {
	if _, err := tx.Exec(ctx, `UPDATE carts SET updated_at = NOW() WHERE id = $1`, cartID); err != nil {
		r.logger.Error().Err(err).Str("cart_id", cartID.String()).Msg("failed to touch cart")
		return fmt.Errorf("failed to touch cart: %w", err)
	}
	return nil
}
