package repository

import (
	"context"

	"quickcart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// TxManager runs a function inside a single database transaction.
type TxManager interface {
	// WithinTx begins a transaction, runs fn and commits. If fn returns an error
	// or panics the transaction is rolled back and the error (or panic) is propagated.
	WithinTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// ListActive retrieves active products, newest first, with pagination support.
	ListActive(ctx context.Context, limit, offset int) ([]model.Product, error)

	// CountActive returns the number of active products.
	CountActive(ctx context.Context) (int, error)

	// ListAll retrieves every product regardless of its active flag, ordered by name.
	ListAll(ctx context.Context) ([]model.Product, error)

	// GetByID retrieves a single product by its ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)

	// GetBySlug retrieves a single product by its slug.
	GetBySlug(ctx context.Context, slug string) (*model.Product, error)

	// GetByName retrieves a single product by its exact name.
	GetByName(ctx context.Context, name string) (*model.Product, error)

	// Create inserts a product. An empty slug is derived from the name and a
	// numeric suffix is appended until the slug is unique.
	Create(ctx context.Context, product *model.Product) error

	// UpdateImage replaces the image reference of a product.
	UpdateImage(ctx context.Context, id uuid.UUID, image string) error

	// SetActive toggles the active flag and returns the updated product.
	SetActive(ctx context.Context, id uuid.UUID, isActive bool) (*model.Product, error)

	// Delete removes a product together with the cart and order lines that reference it.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// CartRepository defines the interface for cart data access operations.
type CartRepository interface {
	// GetOrCreate returns the user's cart, creating it on first access.
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*model.Cart, error)

	// LockForUser selects the user's cart row FOR UPDATE within tx.
	LockForUser(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*model.Cart, error)

	// ListItems retrieves the items of a cart with their product summaries.
	ListItems(ctx context.Context, cartID uuid.UUID) ([]model.CartItem, error)

	// ListItemsTx is ListItems executed within tx.
	ListItemsTx(ctx context.Context, tx pgx.Tx, cartID uuid.UUID) ([]model.CartItem, error)

	// GetItem retrieves an item only if it belongs to the given cart.
	GetItem(ctx context.Context, cartID, itemID uuid.UUID) (*model.CartItem, error)

	// UpsertItem inserts a line with quantity 1 at price, or increments the
	// quantity of the existing line leaving its price untouched. The boolean
	// reports whether a new line was inserted.
	UpsertItem(ctx context.Context, tx pgx.Tx, cartID, productID uuid.UUID, price decimal.Decimal) (*model.CartItem, bool, error)

	// UpdateItemQuantity overwrites the quantity of an item.
	UpdateItemQuantity(ctx context.Context, tx pgx.Tx, itemID uuid.UUID, quantity int) error

	// DeleteItem removes a single item.
	DeleteItem(ctx context.Context, tx pgx.Tx, itemID uuid.UUID) error

	// ClearItems removes every item of a cart and returns how many were removed.
	ClearItems(ctx context.Context, tx pgx.Tx, cartID uuid.UUID) (int64, error)

	// Touch refreshes the cart's updated_at timestamp.
	Touch(ctx context.Context, tx pgx.Tx, cartID uuid.UUID) error
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts multiple order items within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order by its ID along with its items.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderItem, error)

	// ListByUser retrieves a user's orders, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error)

	// UpdateStatus sets the status of an order and returns the updated order.
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (*model.Order, error)
}

// UserRepository defines the interface for user data access operations.
type UserRepository interface {
	// Create inserts a new user. Returns model.ErrEmailTaken when the email is in use.
	Create(ctx context.Context, user *model.User) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	// GetByEmail retrieves a user by (lower-cased) email.
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// Delete removes a user with their cart and orders.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}
