package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"quickcart/internal/model"
	"quickcart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// userService implements UserService.
type userService struct {
	userRepo          repository.UserRepository
	hasher            PasswordHasher
	tokens            TokenIssuer
	passwordMinLength int
	logger            zerolog.Logger
}

// NewUserService creates a new user service.
func NewUserService(
	userRepo repository.UserRepository,
	hasher PasswordHasher,
	tokens TokenIssuer,
	passwordMinLength int,
	logger zerolog.Logger,
) UserService {
	return &userService{
		userRepo:          userRepo,
		hasher:            hasher,
		tokens:            tokens,
		passwordMinLength: passwordMinLength,
		logger:            logger.With().Str("service", "user").Logger(),
	}
}

// Register creates an account and returns an access token for it.
func (s *userService) Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error) {
	if req.Password != req.PasswordConfirm {
		return nil, model.ErrPasswordMismatch
	}
	if len(req.Password) < s.passwordMinLength {
		return nil, model.NewDomainError(model.KindValidation, model.ErrCodeValidation,
			fmt.Sprintf("Password must be at least %d characters", s.passwordMinLength))
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to hash password")
		return nil, fmt.Errorf("failed to register: %w", err)
	}

	user := &model.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, model.ErrEmailTaken) {
			s.logger.Debug().Str("email", user.Email).Msg("email already registered")
			return nil, err
		}
		s.logger.Error().Err(err).Msg("failed to create user")
		return nil, fmt.Errorf("failed to register: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID.String()).Msg("user registered")

	return s.authResponse(user)
}

// Login verifies the credentials and returns a fresh access token.
func (s *userService) Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get user by email")
		return nil, fmt.Errorf("failed to log in: %w", err)
	}
	if user == nil {
		return nil, model.ErrInvalidCredentials
	}

	ok, err := s.hasher.Verify(req.Password, user.PasswordHash)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to verify password")
		return nil, fmt.Errorf("failed to log in: %w", err)
	}
	if !ok {
		s.logger.Debug().Str("user_id", user.ID.String()).Msg("password mismatch")
		return nil, model.ErrInvalidCredentials
	}

	return s.authResponse(user)
}

func (s *userService) authResponse(user *model.User) (*model.AuthResponse, error) {
	token, expiresAt, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to issue token")
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &model.AuthResponse{
		User:        *user,
		AccessToken: token,
		ExpiresAt:   expiresAt.UTC().Truncate(time.Second),
	}, nil
}

// Delete removes an account with its cart and orders.
func (s *userService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.userRepo.Delete(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", id.String()).Msg("failed to delete user")
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if !deleted {
		return model.ErrUserNotFound
	}

	s.logger.Info().Str("user_id", id.String()).Msg("user deleted")

	return nil
}
