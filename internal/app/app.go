// Package app assembles the HTTP application from configuration.
package app

import (
	"context"
	"fmt"
	"net/http"

	"quickcart/internal/auth"
	"quickcart/internal/cache"
	"quickcart/internal/config"
	"quickcart/internal/handler"
	"quickcart/internal/metrics"
	"quickcart/internal/notify"
	"quickcart/internal/repository"
	"quickcart/internal/router"
	"quickcart/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"go.uber.org/multierr"
)

// App is the wired application.
type App struct {
	Handler  http.Handler
	notifier *notify.Notifier
	redis    *cache.Client
	logger   zerolog.Logger
}

// New wires repositories, services, handlers and middleware on top of pool.
// Metrics are registered on reg; a nil reg disables them.
func New(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, reg *prometheus.Registry, logger zerolog.Logger) (*App, error) {
	a := &App{logger: logger}
	m := metrics.New(reg)

	// Repositories
	txm := repository.NewTxManager(pool, logger)
	productRepo := repository.NewProductRepository(pool, logger)
	cartRepo := repository.NewCartRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	userRepo := repository.NewUserRepository(pool, logger)

	// Notifications
	sender, err := notify.NewSender(cfg.Notify, cfg.SMTP, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialise mail sender: %w", err)
	}
	a.notifier = notify.NewNotifier(cfg.Notify, sender, m, logger)

	// Identity
	tokens, err := auth.NewTokenIssuer(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialise token issuer: %w", err)
	}
	hasher := auth.NewPasswordHasher(auth.DefaultArgonParams)

	// Services
	productService := service.NewProductService(productRepo, cfg.Catalog.PageSize, logger)
	cartService := service.NewCartService(txm, cartRepo, productRepo, logger)
	checkoutService := service.NewCheckoutService(txm, cartRepo, orderRepo, userRepo, a.notifier, m, logger)
	orderService := service.NewOrderService(orderRepo, logger)
	userService := service.NewUserService(userRepo, hasher, tokens, cfg.Auth.PasswordMinLength, logger)

	checks := map[string]handler.Pinger{"database": pool}

	opts := router.Options{
		APIKey:         cfg.Auth.APIKey,
		Tokens:         tokens,
		IdempotencyTTL: cfg.Redis.IdempotencyTTL,
		Metrics:        m,
	}

	if cfg.Redis.Enabled {
		client, err := cache.New(ctx, cfg.Redis, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialise redis: %w", err)
		}
		a.redis = client
		opts.Idempotency = client
		checks["redis"] = client
	} else {
		logger.Info().Msg("redis disabled, Idempotency-Key headers are ignored")
	}

	a.Handler = router.New(router.Handlers{
		Health:   handler.NewHealthHandler(checks, logger),
		Auth:     handler.NewAuthHandler(userService, logger),
		Product:  handler.NewProductHandler(productService, logger),
		Cart:     handler.NewCartHandler(cartService, logger),
		Checkout: handler.NewCheckoutHandler(checkoutService, logger),
		Order:    handler.NewOrderHandler(orderService, logger),
		Admin:    handler.NewAdminHandler(productService, orderService, userService, logger),
	}, opts, logger)

	return a, nil
}

// Close waits for in-flight notifications and releases the Redis connection.
func (a *App) Close() error {
	a.notifier.Wait()

	var err error
	if a.redis != nil {
		err = multierr.Append(err, a.redis.Close())
	}
	return err
}
