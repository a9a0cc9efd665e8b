package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quickcart/internal/model"
	"quickcart/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// Checkout outcomes reported to CheckoutMetrics.
const (
	CheckoutOutcomeSuccess   = "success"
	CheckoutOutcomeEmptyCart = "empty_cart"
	CheckoutOutcomeError     = "error"
)

// checkoutService implements CheckoutService.
type checkoutService struct {
	txm       repository.TxManager
	cartRepo  repository.CartRepository
	orderRepo repository.OrderRepository
	userRepo  repository.UserRepository
	notifier  OrderNotifier
	metrics   CheckoutMetrics
	now       func() time.Time
	logger    zerolog.Logger
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(
	txm repository.TxManager,
	cartRepo repository.CartRepository,
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	notifier OrderNotifier,
	metrics CheckoutMetrics,
	logger zerolog.Logger,
) CheckoutService {
	return &checkoutService{
		txm:       txm,
		cartRepo:  cartRepo,
		orderRepo: orderRepo,
		userRepo:  userRepo,
		notifier:  notifier,
		metrics:   metrics,
		now:       time.Now,
		logger:    logger.With().Str("service", "checkout").Logger(),
	}
}

// Checkout turns the user's cart into an order in a single transaction. The
// cart row is locked for the duration so concurrent checkouts of the same cart
// serialise and the second one finds the cart empty. The confirmation email is
// sent after commit and its outcome never fails the checkout.
func (s *checkoutService) Checkout(ctx context.Context, userID uuid.UUID) (*model.CheckoutResult, error) {
	if userID == uuid.Nil {
		return nil, model.ErrUnauthenticated
	}

	var (
		order model.Order
		items []model.OrderItem
	)

	err := s.txm.WithinTx(ctx, func(tx pgx.Tx) error {
		cart, err := s.cartRepo.LockForUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		if cart == nil {
			return model.ErrEmptyCart
		}

		cartItems, err := s.cartRepo.ListItemsTx(ctx, tx, cart.ID)
		if err != nil {
			return err
		}
		if len(cartItems) == 0 {
			return model.ErrEmptyCart
		}

		order = model.Order{
			ID:          uuid.New(),
			UserID:      userID,
			Status:      model.OrderStatusCreated,
			TotalAmount: model.CartTotal(cartItems),
			CreatedAt:   s.now().UTC(),
		}
		if err := s.orderRepo.CreateOrder(ctx, tx, &order); err != nil {
			return err
		}

		items = make([]model.OrderItem, len(cartItems))
		for i, ci := range cartItems {
			items[i] = model.OrderItem{
				ID:        uuid.New(),
				OrderID:   order.ID,
				ProductID: ci.ProductID,
				Quantity:  ci.Quantity,
				Price:     ci.Price,
				Product:   ci.Product,
			}
		}
		if err := s.orderRepo.CreateOrderItems(ctx, tx, items); err != nil {
			return err
		}

		if _, err := s.cartRepo.ClearItems(ctx, tx, cart.ID); err != nil {
			return err
		}
		return s.cartRepo.Touch(ctx, tx, cart.ID)
	})
	if err != nil {
		if errors.Is(err, model.ErrEmptyCart) {
			s.metrics.IncCheckout(CheckoutOutcomeEmptyCart)
			s.logger.Debug().Str("user_id", userID.String()).Msg("checkout of empty cart")
			return nil, model.ErrEmptyCart
		}
		s.metrics.IncCheckout(CheckoutOutcomeError)
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("checkout failed")
		return nil, fmt.Errorf("failed to checkout: %w", err)
	}

	s.metrics.IncCheckout(CheckoutOutcomeSuccess)
	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("user_id", userID.String()).
		Int("item_count", len(items)).
		Str("total", order.TotalAmount.StringFixed(2)).
		Msg("order placed")

	outcome := s.notifier.OrderPlaced(ctx, s.recipient(ctx, userID), order)

	return &model.CheckoutResult{
		Order:        model.NewOrderResponse(order, items),
		Notification: outcome,
		Message:      checkoutMessage(order, outcome),
	}, nil
}

// recipient returns the user's email, or "" when it cannot be resolved, which
// the notifier reports as an invalid recipient.
func (s *checkoutService) recipient(ctx context.Context, userID uuid.UUID) string {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID.String()).Msg("failed to look up order recipient")
		return ""
	}
	if user == nil {
		return ""
	}
	return user.Email
}

func checkoutMessage(order model.Order, outcome model.NotificationOutcome) string {
	switch outcome {
	case model.NotificationQueued:
		return fmt.Sprintf("Order #%s has been placed! A confirmation is on its way to your inbox.", order.ID)
	case model.NotificationSkipped:
		return fmt.Sprintf("Order #%s has been placed! No confirmation was sent to a test address.", order.ID)
	case model.NotificationInvalidRecipient:
		return fmt.Sprintf("Order #%s has been placed, but your email address is malformed so no confirmation was sent.", order.ID)
	default:
		return fmt.Sprintf("Order #%s has been placed!", order.ID)
	}
}
