package service

import (
	"context"
	"errors"
	"fmt"

	"quickcart/internal/model"
	"quickcart/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// cartService implements CartService.
type cartService struct {
	txm         repository.TxManager
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(
	txm repository.TxManager,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	logger zerolog.Logger,
) CartService {
	return &cartService{
		txm:         txm,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		logger:      logger.With().Str("service", "cart").Logger(),
	}
}

// AddToCart puts one unit of an active product into the user's cart. A product
// already in the cart has its quantity incremented and keeps its original price.
func (s *cartService) AddToCart(ctx context.Context, userID, productID uuid.UUID) (*model.AddToCartResponse, error) {
	if userID == uuid.Nil {
		return nil, model.ErrUnauthenticated
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", productID.String()).Msg("failed to get product")
		return nil, fmt.Errorf("failed to add to cart: %w", err)
	}
	if product == nil || !product.IsActive {
		return nil, model.ErrProductNotFound
	}

	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to get cart")
		return nil, fmt.Errorf("failed to add to cart: %w", err)
	}

	var (
		item    *model.CartItem
		created bool
	)
	err = s.txm.WithinTx(ctx, func(tx pgx.Tx) error {
		var err error
		item, created, err = s.cartRepo.UpsertItem(ctx, tx, cart.ID, product.ID, product.Price)
		if err != nil {
			return err
		}
		return s.cartRepo.Touch(ctx, tx, cart.ID)
	})
	if errors.Is(err, model.ErrInvalidQuantity) {
		return nil, err
	}
	if err != nil {
		s.logger.Error().Err(err).
			Str("cart_id", cart.ID.String()).
			Str("product_id", product.ID.String()).
			Msg("failed to upsert cart item")
		return nil, fmt.Errorf("failed to add to cart: %w", err)
	}

	item.Product = model.ProductSummary{Name: product.Name, Slug: product.Slug, Image: product.Image}

	view, err := s.view(ctx, cart)
	if err != nil {
		return nil, err
	}

	result := model.AddResultIncremented
	if created {
		result = model.AddResultAdded
	}

	s.logger.Debug().
		Str("cart_id", cart.ID.String()).
		Str("product_id", product.ID.String()).
		Str("result", string(result)).
		Int("quantity", item.Quantity).
		Msg("product added to cart")

	return &model.AddToCartResponse{Result: result, Item: *item, Cart: view}, nil
}

// SetQuantity overwrites a line's quantity, or deletes the line when quantity <= 0.
func (s *cartService) SetQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*model.CartView, error) {
	if err := model.ValidateQuantity(quantity); err != nil {
		return nil, err
	}
	return s.mutateItem(ctx, userID, itemID, func(tx pgx.Tx, item *model.CartItem) error {
		if quantity > 0 {
			return s.cartRepo.UpdateItemQuantity(ctx, tx, item.ID, quantity)
		}
		return s.cartRepo.DeleteItem(ctx, tx, item.ID)
	})
}

// RemoveItem deletes a line from the user's cart.
func (s *cartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*model.CartView, error) {
	return s.mutateItem(ctx, userID, itemID, func(tx pgx.Tx, item *model.CartItem) error {
		return s.cartRepo.DeleteItem(ctx, tx, item.ID)
	})
}

// GetCart returns the user's cart, creating an empty one on first access.
func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*model.CartView, error) {
	if userID == uuid.Nil {
		return nil, model.ErrUnauthenticated
	}

	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to get cart")
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	return s.view(ctx, cart)
}

// mutateItem resolves itemID inside the user's cart and runs fn on it in a
// transaction that also refreshes the cart timestamp.
func (s *cartService) mutateItem(
	ctx context.Context,
	userID, itemID uuid.UUID,
	fn func(tx pgx.Tx, item *model.CartItem) error,
) (*model.CartView, error) {
	if userID == uuid.Nil {
		return nil, model.ErrUnauthenticated
	}

	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to get cart")
		return nil, fmt.Errorf("failed to update cart: %w", err)
	}

	item, err := s.cartRepo.GetItem(ctx, cart.ID, itemID)
	if err != nil {
		s.logger.Error().Err(err).Str("item_id", itemID.String()).Msg("failed to get cart item")
		return nil, fmt.Errorf("failed to update cart: %w", err)
	}
	if item == nil {
		return nil, model.ErrCartItemNotFound
	}

	err = s.txm.WithinTx(ctx, func(tx pgx.Tx) error {
		if err := fn(tx, item); err != nil {
			return err
		}
		return s.cartRepo.Touch(ctx, tx, cart.ID)
	})
	if err != nil {
		if _, ok := model.AsDomainError(err); ok {
			return nil, err
		}
		s.logger.Error().Err(err).Str("item_id", itemID.String()).Msg("failed to update cart item")
		return nil, fmt.Errorf("failed to update cart: %w", err)
	}

	return s.view(ctx, cart)
}

func (s *cartService) view(ctx context.Context, cart *model.Cart) (*model.CartView, error) {
	items, err := s.cartRepo.ListItems(ctx, cart.ID)
	if err != nil {
		s.logger.Error().Err(err).Str("cart_id", cart.ID.String()).Msg("failed to list cart items")
		return nil, fmt.Errorf("failed to get cart items: %w", err)
	}
	return model.NewCartView(*cart, items), nil
}
