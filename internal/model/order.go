package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the fulfilment stage of an order. Transitions are manual.
type OrderStatus string

const (
	OrderStatusCreated    OrderStatus = "created"
	OrderStatusInAssembly OrderStatus = "in_assembly"
	OrderStatusReady      OrderStatus = "ready"
	OrderStatusDelivered  OrderStatus = "delivered"
)

var orderStatusLabels = map[OrderStatus]string{
	OrderStatusCreated:    "Created",
	OrderStatusInAssembly: "In assembly",
	OrderStatusReady:      "Ready for pickup",
	OrderStatusDelivered:  "Delivered",
}

// IsValid reports whether s is one of the four known stages.
func (s OrderStatus) IsValid() bool {
	_, ok := orderStatusLabels[s]
	return ok
}

// Label returns the human readable stage name.
func (s OrderStatus) Label() string {
	if label, ok := orderStatusLabels[s]; ok {
		return label
	}
	return string(s)
}

// Order is an immutable record of a completed checkout. Only Status may change.
type Order struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	UserID      uuid.UUID       `json:"-" db:"user_id"`
	Status      OrderStatus     `json:"status" db:"status"`
	TotalAmount decimal.Decimal `json:"totalAmount" db:"total_amount"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
}

// OrderItem is a line item in an order, priced from the cart snapshot.
type OrderItem struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	OrderID   uuid.UUID       `json:"-" db:"order_id"`
	ProductID uuid.UUID       `json:"productId" db:"product_id"`
	Quantity  int             `json:"quantity" db:"quantity"`
	Price     decimal.Decimal `json:"price" db:"price"`
	Product   ProductSummary  `json:"product"`
}

// Subtotal returns price × quantity for the line.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderResponse represents the response payload for an order.
type OrderResponse struct {
	Order
	StatusLabel string      `json:"statusLabel"`
	Items       []OrderItem `json:"items"`
}

// NewOrderResponse wraps an order and its items for output.
func NewOrderResponse(order Order, items []OrderItem) *OrderResponse {
	if items == nil {
		items = []OrderItem{}
	}
	return &OrderResponse{
		Order:       order,
		StatusLabel: order.Status.Label(),
		Items:       items,
	}
}

// OrderSummary is an order without its lines, as shown in order history.
type OrderSummary struct {
	Order
	StatusLabel string `json:"statusLabel"`
}

// NewOrderSummaries labels each order for output.
func NewOrderSummaries(orders []Order) []OrderSummary {
	summaries := make([]OrderSummary, 0, len(orders))
	for _, o := range orders {
		summaries = append(summaries, OrderSummary{Order: o, StatusLabel: o.Status.Label()})
	}
	return summaries
}

// NotificationOutcome describes what happened to the order confirmation email.
type NotificationOutcome string

const (
	NotificationDisabled         NotificationOutcome = "disabled"
	NotificationSkipped          NotificationOutcome = "skipped"
	NotificationInvalidRecipient NotificationOutcome = "invalid_recipient"
	NotificationQueued           NotificationOutcome = "queued"
)

// CheckoutResult is returned by a successful checkout.
type CheckoutResult struct {
	Order        *OrderResponse      `json:"order"`
	Notification NotificationOutcome `json:"notification"`
	Message      string              `json:"message"`
}

// UpdateOrderStatusRequest is the admin payload for moving an order to a new stage.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=created in_assembly ready delivered"`
}
