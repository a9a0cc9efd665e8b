package service

import (
	"context"
	"fmt"

	"quickcart/internal/model"
	"quickcart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo repository.OrderRepository
	logger    zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(orderRepo repository.OrderRepository, logger zerolog.Logger) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		logger:    logger.With().Str("service", "order").Logger(),
	}
}

// ListForUser returns the user's orders, newest first.
func (s *orderService) ListForUser(ctx context.Context, userID uuid.UUID) ([]model.OrderSummary, error) {
	if userID == uuid.Nil {
		return nil, model.ErrUnauthenticated
	}

	orders, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return model.NewOrderSummaries(orders), nil
}

// GetForUser retrieves an order with all its items. Orders owned by another
// user are reported as not found.
func (s *orderService) GetForUser(ctx context.Context, userID, orderID uuid.UUID) (*model.OrderResponse, error) {
	if userID == uuid.Nil {
		return nil, model.ErrUnauthenticated
	}

	order, items, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order == nil || order.UserID != userID {
		s.logger.Debug().Str("order_id", orderID.String()).Msg("order not found")
		return nil, model.ErrOrderNotFound
	}

	return model.NewOrderResponse(*order, items), nil
}

// UpdateStatus moves an order to a new stage. Any valid stage may follow any other.
func (s *orderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status model.OrderStatus) (*model.OrderSummary, error) {
	if !status.IsValid() {
		return nil, model.ErrInvalidOrderStatus
	}

	order, err := s.orderRepo.UpdateStatus(ctx, orderID, status)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to update order status")
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	s.logger.Info().
		Str("order_id", orderID.String()).
		Str("status", string(status)).
		Msg("order status updated")

	return &model.OrderSummary{Order: *order, StatusLabel: order.Status.Label()}, nil
}
