package model

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxQuantity is the largest quantity a cart line can hold; cart_items.quantity is an INTEGER.
const MaxQuantity = math.MaxInt32

// ValidateQuantity rejects quantities the cart_items column cannot store.
// Zero and negative values are valid and mean "remove the line".
func ValidateQuantity(quantity int) error {
	if quantity > MaxQuantity {
		return ErrInvalidQuantity
	}
	return nil
}

// Cart is the shopping cart owned by exactly one user.
type Cart struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"userId" db:"user_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// CartItem is a line in a cart. Price is the catalogue price captured when the
// product was first added and is never refreshed afterwards.
type CartItem struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	CartID    uuid.UUID       `json:"-" db:"cart_id"`
	ProductID uuid.UUID       `json:"productId" db:"product_id"`
	Quantity  int             `json:"quantity" db:"quantity"`
	Price     decimal.Decimal `json:"price" db:"price"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
	Product   ProductSummary  `json:"product"`
}

// ProductSummary is the catalogue data shown next to a cart or order line.
type ProductSummary struct {
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Image string `json:"image,omitempty"`
}

// Subtotal returns price × quantity for the line.
func (i CartItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CartTotal sums the snapshot subtotals of items.
func CartTotal(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total.Round(2)
}

// CartView is a cart together with its items and computed total.
type CartView struct {
	Cart  Cart            `json:"cart"`
	Items []CartItem      `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// NewCartView computes the total for items and wraps them with the cart.
func NewCartView(cart Cart, items []CartItem) *CartView {
	if items == nil {
		items = []CartItem{}
	}
	return &CartView{
		Cart:  cart,
		Items: items,
		Total: CartTotal(items),
	}
}

// AddResult tells the caller whether a product was added as a new line or
// whether an existing line was incremented.
type AddResult string

const (
	AddResultAdded       AddResult = "added"
	AddResultIncremented AddResult = "incremented"
)

// AddToCartResponse is returned after a product has been put in the cart.
type AddToCartResponse struct {
	Result AddResult `json:"result"`
	Item   CartItem  `json:"item"`
	Cart   *CartView `json:"cart"`
}

// AddToCartRequest is the payload for adding a product to the cart.
type AddToCartRequest struct {
	ProductID string `json:"productId" validate:"required,uuid"`
}

// SetQuantityRequest is the payload for changing a cart line quantity.
// Zero or negative quantities remove the line.
type SetQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}
