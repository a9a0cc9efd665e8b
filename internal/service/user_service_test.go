package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"quickcart/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()
	expiresAt := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name        string
		req         model.RegisterRequest
		createErr   error
		expectedErr error
		expectError bool
		reachesRepo bool
	}{
		{
			name:        "Success",
			req:         model.RegisterRequest{Email: " New@Example.com ", Password: "secret123", PasswordConfirm: "secret123"},
			reachesRepo: true,
		},
		{
			name:        "Passwords differ",
			req:         model.RegisterRequest{Email: "a@example.com", Password: "secret123", PasswordConfirm: "secret124"},
			expectError: true,
			expectedErr: model.ErrPasswordMismatch,
		},
		{
			name:        "Password too short",
			req:         model.RegisterRequest{Email: "a@example.com", Password: "short", PasswordConfirm: "short"},
			expectError: true,
		},
		{
			name:        "Email taken",
			req:         model.RegisterRequest{Email: "taken@example.com", Password: "secret123", PasswordConfirm: "secret123"},
			createErr:   model.ErrEmailTaken,
			expectError: true,
			expectedErr: model.ErrEmailTaken,
			reachesRepo: true,
		},
		{
			name:        "Repository error",
			req:         model.RegisterRequest{Email: "a@example.com", Password: "secret123", PasswordConfirm: "secret123"},
			createErr:   errors.New("database error"),
			expectError: true,
			reachesRepo: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := new(MockUserRepository)
			hasher := new(MockPasswordHasher)
			tokens := new(MockTokenIssuer)
			service := NewUserService(userRepo, hasher, tokens, 8, zerolog.Nop())

			if tt.reachesRepo {
				hasher.On("Hash", tt.req.Password).Return("encoded", nil)
				userRepo.On("Create", ctx, mock.MatchedBy(func(u *model.User) bool {
					return u.PasswordHash == "encoded"
				})).Run(func(args mock.Arguments) {
					args.Get(1).(*model.User).ID = uuid.New()
				}).Return(tt.createErr)
			}
			if tt.reachesRepo && tt.createErr == nil {
				tokens.On("Issue", mock.AnythingOfType("uuid.UUID")).Return("token", expiresAt, nil)
			}

			resp, err := service.Register(ctx, &tt.req)

			if tt.expectError {
				require.Error(t, err)
				assert.Nil(t, resp)
				if tt.expectedErr != nil {
					assert.ErrorIs(t, err, tt.expectedErr)
				}
			} else {
				require.NoError(t, err)
				assert.Equal(t, "new@example.com", resp.User.Email)
				assert.Equal(t, "token", resp.AccessToken)
				assert.Equal(t, expiresAt, resp.ExpiresAt)
			}

			if !tt.reachesRepo {
				hasher.AssertNotCalled(t, "Hash", mock.Anything)
			}
			userRepo.AssertExpectations(t)
			hasher.AssertExpectations(t)
			tokens.AssertExpectations(t)
		})
	}
}

func TestUserService_Login(t *testing.T) {
	ctx := context.Background()
	user := &model.User{ID: uuid.New(), Email: "alice@example.com", PasswordHash: "encoded"}
	expiresAt := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name        string
		user        *model.User
		verifyOK    bool
		verifyErr   error
		expectedErr error
		expectError bool
	}{
		{
			name:     "Success",
			user:     user,
			verifyOK: true,
		},
		{
			name:        "Unknown email",
			expectError: true,
			expectedErr: model.ErrInvalidCredentials,
		},
		{
			name:        "Wrong password",
			user:        user,
			verifyOK:    false,
			expectError: true,
			expectedErr: model.ErrInvalidCredentials,
		},
		{
			name:        "Corrupt hash",
			user:        user,
			verifyErr:   errors.New("invalid hash"),
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := new(MockUserRepository)
			hasher := new(MockPasswordHasher)
			tokens := new(MockTokenIssuer)
			service := NewUserService(userRepo, hasher, tokens, 8, zerolog.Nop())

			req := &model.LoginRequest{Email: "alice@example.com", Password: "secret123"}
			userRepo.On("GetByEmail", ctx, req.Email).Return(tt.user, nil)
			if tt.user != nil {
				hasher.On("Verify", req.Password, user.PasswordHash).Return(tt.verifyOK, tt.verifyErr)
			}
			if tt.verifyOK {
				tokens.On("Issue", user.ID).Return("token", expiresAt, nil)
			}

			resp, err := service.Login(ctx, req)

			if tt.expectError {
				require.Error(t, err)
				assert.Nil(t, resp)
				if tt.expectedErr != nil {
					assert.Equal(t, tt.expectedErr, err)
				}
			} else {
				require.NoError(t, err)
				assert.Equal(t, user.ID, resp.User.ID)
				assert.Equal(t, "token", resp.AccessToken)
			}

			userRepo.AssertExpectations(t)
			hasher.AssertExpectations(t)
			tokens.AssertExpectations(t)
		})
	}
}

func TestUserService_Delete(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	tests := []struct {
		name        string
		deleted     bool
		mockError   error
		expectedErr error
	}{
		{name: "Success", deleted: true},
		{name: "Unknown user", expectedErr: model.ErrUserNotFound},
		{name: "Repository error", mockError: errors.New("database error")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := new(MockUserRepository)
			service := NewUserService(userRepo, nil, nil, 8, zerolog.Nop())

			userRepo.On("Delete", ctx, id).Return(tt.deleted, tt.mockError)

			err := service.Delete(ctx, id)

			switch {
			case tt.expectedErr != nil:
				assert.ErrorIs(t, err, tt.expectedErr)
			case tt.mockError != nil:
				require.Error(t, err)
				assert.Contains(t, err.Error(), "failed to delete user")
			default:
				assert.NoError(t, err)
			}

			userRepo.AssertExpectations(t)
		})
	}
}
