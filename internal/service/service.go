package service

import (
	"context"
	"time"

	"quickcart/internal/model"

	"github.com/google/uuid"
)

// ProductService defines operations for browsing and managing the catalogue.
type ProductService interface {
	// ListActive returns one page of active products. Out-of-range pages are
	// clamped to the nearest valid page and pageSize <= 0 uses the configured size.
	ListActive(ctx context.Context, page, pageSize int) (*model.ProductPage, error)

	// GetBySlug retrieves an active product by its slug.
	GetBySlug(ctx context.Context, slug string) (*model.Product, error)

	// GetByID retrieves a product by ID regardless of its active flag.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)

	// ListAll retrieves every product, active or not.
	ListAll(ctx context.Context) ([]model.Product, error)

	// SetActive enables or disables a product.
	SetActive(ctx context.Context, id uuid.UUID, isActive bool) (*model.Product, error)

	// Delete removes a product together with the cart and order lines that reference it.
	Delete(ctx context.Context, id uuid.UUID) error
}

// CartService defines operations on the caller's shopping cart.
type CartService interface {
	// AddToCart puts one unit of an active product into the cart.
	AddToCart(ctx context.Context, userID, productID uuid.UUID) (*model.AddToCartResponse, error)

	// SetQuantity overwrites the quantity of a cart line; quantity <= 0 removes it.
	SetQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*model.CartView, error)

	// RemoveItem deletes a cart line.
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*model.CartView, error)

	// GetCart returns the cart with its items and total.
	GetCart(ctx context.Context, userID uuid.UUID) (*model.CartView, error)
}

// CheckoutService converts a cart into an order.
type CheckoutService interface {
	Checkout(ctx context.Context, userID uuid.UUID) (*model.CheckoutResult, error)
}

// OrderService defines operations for order history and fulfilment.
type OrderService interface {
	// ListForUser returns the user's orders, newest first.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]model.OrderSummary, error)

	// GetForUser returns an order with its items if it belongs to the user.
	GetForUser(ctx context.Context, userID, orderID uuid.UUID) (*model.OrderResponse, error)

	// UpdateStatus moves an order to a new stage.
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status model.OrderStatus) (*model.OrderSummary, error)
}

// UserService defines account operations.
type UserService interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error)

	// Delete removes an account with its cart and order history.
	Delete(ctx context.Context, id uuid.UUID) error
}

// OrderNotifier sends the order confirmation after a successful checkout.
type OrderNotifier interface {
	OrderPlaced(ctx context.Context, recipient string, order model.Order) model.NotificationOutcome
}

// CheckoutMetrics counts checkout outcomes.
type CheckoutMetrics interface {
	IncCheckout(outcome string)
}

// TokenIssuer issues access tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID uuid.UUID) (string, time.Time, error)
}

// PasswordHasher hashes and verifies user passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) (bool, error)
}
