package service

import (
	"context"
	"errors"
	"testing"

	"quickcart/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCartService_AddToCart(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	cart := &model.Cart{ID: uuid.New(), UserID: userID}
	product := &model.Product{
		ID:       uuid.New(),
		Name:     "Pixel 9",
		Slug:     "pixel-9",
		Price:    decimal.RequireFromString("699.00"),
		IsActive: true,
	}

	tests := []struct {
		name     string
		created  bool
		quantity int
		expected model.AddResult
	}{
		{name: "New line", created: true, quantity: 1, expected: model.AddResultAdded},
		{name: "Existing line incremented", created: false, quantity: 3, expected: model.AddResultIncremented},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txm := newFakeTxManager()
			cartRepo := new(MockCartRepository)
			productRepo := new(MockProductRepository)
			service := NewCartService(txm, cartRepo, productRepo, zerolog.Nop())

			item := &model.CartItem{
				ID:        uuid.New(),
				CartID:    cart.ID,
				ProductID: product.ID,
				Quantity:  tt.quantity,
				Price:     decimal.RequireFromString("599.00"),
			}

			productRepo.On("GetByID", ctx, product.ID).Return(product, nil)
			cartRepo.On("GetOrCreate", ctx, userID).Return(cart, nil)
			cartRepo.On("UpsertItem", ctx, txm.tx, cart.ID, product.ID, product.Price).Return(item, tt.created, nil)
			cartRepo.On("Touch", ctx, txm.tx, cart.ID).Return(nil)
			txm.tx.On("Commit", ctx).Return(nil)
			cartRepo.On("ListItems", ctx, cart.ID).Return([]model.CartItem{*item}, nil)

			resp, err := service.AddToCart(ctx, userID, product.ID)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, resp.Result)
			assert.Equal(t, tt.quantity, resp.Item.Quantity)
			assert.Equal(t, "Pixel 9", resp.Item.Product.Name)
			assert.Equal(t, "599.00", resp.Item.Price.StringFixed(2), "snapshot price is kept")
			assert.Equal(t, cart.ID, resp.Cart.Cart.ID)
			assert.Len(t, resp.Cart.Items, 1)

			cartRepo.AssertExpectations(t)
			productRepo.AssertExpectations(t)
			txm.tx.AssertExpectations(t)
		})
	}
}

func TestCartService_AddToCart_Errors(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	productID := uuid.New()

	tests := []struct {
		name        string
		userID      uuid.UUID
		product     *model.Product
		repoErr     error
		expectedErr error
	}{
		{
			name:        "Unauthenticated",
			userID:      uuid.Nil,
			expectedErr: model.ErrUnauthenticated,
		},
		{
			name:        "Product not found",
			userID:      userID,
			expectedErr: model.ErrProductNotFound,
		},
		{
			name:        "Inactive product",
			userID:      userID,
			product:     &model.Product{ID: productID, Name: "Old", IsActive: false},
			expectedErr: model.ErrProductNotFound,
		},
		{
			name:    "Repository error",
			userID:  userID,
			repoErr: errors.New("database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txm := newFakeTxManager()
			cartRepo := new(MockCartRepository)
			productRepo := new(MockProductRepository)
			service := NewCartService(txm, cartRepo, productRepo, zerolog.Nop())

			if tt.userID != uuid.Nil {
				productRepo.On("GetByID", ctx, productID).Return(tt.product, tt.repoErr)
			}

			resp, err := service.AddToCart(ctx, tt.userID, productID)

			require.Error(t, err)
			assert.Nil(t, resp)
			if tt.expectedErr != nil {
				assert.Equal(t, tt.expectedErr, err)
			} else {
				assert.Contains(t, err.Error(), "failed to add to cart")
			}
			cartRepo.AssertNotCalled(t, "GetOrCreate", mock.Anything, mock.Anything)
			assert.Zero(t, txm.calls)
			productRepo.AssertExpectations(t)
		})
	}
}

func TestCartService_SetQuantity(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	cart := &model.Cart{ID: uuid.New(), UserID: userID}
	laptop := model.CartItem{ID: uuid.New(), CartID: cart.ID, Quantity: 2, Price: decimal.RequireFromString("100.00")}
	mouse := model.CartItem{ID: uuid.New(), CartID: cart.ID, Quantity: 1, Price: decimal.RequireFromString("50.00")}

	tests := []struct {
		name          string
		quantity      int
		expectDelete  bool
		remaining     []model.CartItem
		expectedTotal string
	}{
		{
			name:          "Positive quantity overwrites",
			quantity:      5,
			remaining:     []model.CartItem{{ID: laptop.ID, Quantity: 5, Price: laptop.Price}, mouse},
			expectedTotal: "550.00",
		},
		{
			name:          "Zero quantity deletes",
			quantity:      0,
			expectDelete:  true,
			remaining:     []model.CartItem{mouse},
			expectedTotal: "50.00",
		},
		{
			name:          "Negative quantity deletes",
			quantity:      -3,
			expectDelete:  true,
			remaining:     []model.CartItem{mouse},
			expectedTotal: "50.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txm := newFakeTxManager()
			cartRepo := new(MockCartRepository)
			service := NewCartService(txm, cartRepo, new(MockProductRepository), zerolog.Nop())

			cartRepo.On("GetOrCreate", ctx, userID).Return(cart, nil)
			cartRepo.On("GetItem", ctx, cart.ID, laptop.ID).Return(&laptop, nil)
			if tt.expectDelete {
				cartRepo.On("DeleteItem", ctx, txm.tx, laptop.ID).Return(nil)
			} else {
				cartRepo.On("UpdateItemQuantity", ctx, txm.tx, laptop.ID, tt.quantity).Return(nil)
			}
			cartRepo.On("Touch", ctx, txm.tx, cart.ID).Return(nil)
			txm.tx.On("Commit", ctx).Return(nil)
			cartRepo.On("ListItems", ctx, cart.ID).Return(tt.remaining, nil)

			view, err := service.SetQuantity(ctx, userID, laptop.ID, tt.quantity)

			require.NoError(t, err)
			assert.Equal(t, tt.expectedTotal, view.Total.StringFixed(2))
			assert.Len(t, view.Items, len(tt.remaining))
			if tt.expectDelete {
				cartRepo.AssertNotCalled(t, "UpdateItemQuantity", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			}

			cartRepo.AssertExpectations(t)
			txm.tx.AssertExpectations(t)
		})
	}
}

func TestCartService_SetQuantity_BeyondColumnRange(t *testing.T) {
	txm := newFakeTxManager()
	cartRepo := new(MockCartRepository)
	service := NewCartService(txm, cartRepo, new(MockProductRepository), zerolog.Nop())

	view, err := service.SetQuantity(context.Background(), uuid.New(), uuid.New(), model.MaxQuantity+1)

	assert.Nil(t, view)
	assert.ErrorIs(t, err, model.ErrInvalidQuantity)
	assert.Zero(t, txm.calls)
	cartRepo.AssertNotCalled(t, "GetOrCreate", mock.Anything, mock.Anything)
}

func TestCartService_AddToCart_QuantityCeiling(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	cart := &model.Cart{ID: uuid.New(), UserID: userID}
	product := &model.Product{ID: uuid.New(), Name: "Phone", Price: decimal.RequireFromString("50.00"), IsActive: true}

	txm := newFakeTxManager()
	cartRepo := new(MockCartRepository)
	productRepo := new(MockProductRepository)
	service := NewCartService(txm, cartRepo, productRepo, zerolog.Nop())

	productRepo.On("GetByID", ctx, product.ID).Return(product, nil)
	cartRepo.On("GetOrCreate", ctx, userID).Return(cart, nil)
	cartRepo.On("UpsertItem", ctx, txm.tx, cart.ID, product.ID, product.Price).Return(nil, false, model.ErrInvalidQuantity)
	txm.tx.On("Rollback", ctx).Return(nil)

	resp, err := service.AddToCart(ctx, userID, product.ID)

	assert.Nil(t, resp)
	assert.Equal(t, model.ErrInvalidQuantity, err)
	cartRepo.AssertNotCalled(t, "Touch", mock.Anything, mock.Anything, mock.Anything)
}

func TestCartService_ItemNotInCart(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	cart := &model.Cart{ID: uuid.New(), UserID: userID}
	foreignItem := uuid.New()

	txm := newFakeTxManager()
	cartRepo := new(MockCartRepository)
	service := NewCartService(txm, cartRepo, new(MockProductRepository), zerolog.Nop())

	cartRepo.On("GetOrCreate", ctx, userID).Return(cart, nil)
	cartRepo.On("GetItem", ctx, cart.ID, foreignItem).Return(nil, nil)

	view, err := service.SetQuantity(ctx, userID, foreignItem, 2)
	assert.Nil(t, view)
	assert.ErrorIs(t, err, model.ErrCartItemNotFound)

	view, err = service.RemoveItem(ctx, userID, foreignItem)
	assert.Nil(t, view)
	assert.ErrorIs(t, err, model.ErrCartItemNotFound)

	assert.Zero(t, txm.calls)
	cartRepo.AssertExpectations(t)
}

func TestCartService_RemoveItem(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	cart := &model.Cart{ID: uuid.New(), UserID: userID}
	item := &model.CartItem{ID: uuid.New(), CartID: cart.ID, Quantity: 1, Price: decimal.NewFromInt(10)}

	txm := newFakeTxManager()
	cartRepo := new(MockCartRepository)
	service := NewCartService(txm, cartRepo, new(MockProductRepository), zerolog.Nop())

	cartRepo.On("GetOrCreate", ctx, userID).Return(cart, nil)
	cartRepo.On("GetItem", ctx, cart.ID, item.ID).Return(item, nil)
	cartRepo.On("DeleteItem", ctx, txm.tx, item.ID).Return(nil)
	cartRepo.On("Touch", ctx, txm.tx, cart.ID).Return(nil)
	txm.tx.On("Commit", ctx).Return(nil)
	cartRepo.On("ListItems", ctx, cart.ID).Return([]model.CartItem{}, nil)

	view, err := service.RemoveItem(ctx, userID, item.ID)

	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.True(t, view.Total.IsZero())

	cartRepo.AssertExpectations(t)
	txm.tx.AssertExpectations(t)
}

func TestCartService_RemoveItem_RollsBack(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	cart := &model.Cart{ID: uuid.New(), UserID: userID}
	item := &model.CartItem{ID: uuid.New(), CartID: cart.ID, Quantity: 1, Price: decimal.NewFromInt(10)}

	txm := newFakeTxManager()
	cartRepo := new(MockCartRepository)
	service := NewCartService(txm, cartRepo, new(MockProductRepository), zerolog.Nop())

	cartRepo.On("GetOrCreate", ctx, userID).Return(cart, nil)
	cartRepo.On("GetItem", ctx, cart.ID, item.ID).Return(item, nil)
	cartRepo.On("DeleteItem", ctx, txm.tx, item.ID).Return(errors.New("database error"))
	txm.tx.On("Rollback", ctx).Return(nil)

	view, err := service.RemoveItem(ctx, userID, item.ID)

	assert.Nil(t, view)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to update cart")
	assert.True(t, txm.tx.rolledBack)
	cartRepo.AssertNotCalled(t, "Touch", mock.Anything, mock.Anything, mock.Anything)
}

func TestCartService_GetCart(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	cart := &model.Cart{ID: uuid.New(), UserID: userID}

	t.Run("Empty cart is created lazily", func(t *testing.T) {
		cartRepo := new(MockCartRepository)
		service := NewCartService(newFakeTxManager(), cartRepo, new(MockProductRepository), zerolog.Nop())

		cartRepo.On("GetOrCreate", ctx, userID).Return(cart, nil)
		cartRepo.On("ListItems", ctx, cart.ID).Return(nil, nil)

		view, err := service.GetCart(ctx, userID)

		require.NoError(t, err)
		assert.NotNil(t, view.Items)
		assert.Empty(t, view.Items)
		assert.Equal(t, "0.00", view.Total.StringFixed(2))
		cartRepo.AssertExpectations(t)
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		cartRepo := new(MockCartRepository)
		service := NewCartService(newFakeTxManager(), cartRepo, new(MockProductRepository), zerolog.Nop())

		view, err := service.GetCart(ctx, uuid.Nil)

		assert.Nil(t, view)
		assert.ErrorIs(t, err, model.ErrUnauthenticated)
		cartRepo.AssertNotCalled(t, "GetOrCreate", mock.Anything, mock.Anything)
	})
}
