package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quickcart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const (
	productColumns  = `id, name, slug, description, price, image, is_active, created_at`
	productSlugKey  = "products_slug_key"
	maxSlugAttempts = 100
)

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

func scanProduct(row pgx.Row) (*model.Product, error) {
	var p model.Product
	err := row.Scan(&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.Image, &p.IsActive, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) queryProducts(ctx context.Context, query string, args ...any) ([]model.Product, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// ListActive retrieves active products, newest first, with pagination support.
func (r *productRepository) ListActive(ctx context.Context, limit, offset int) ([]model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE is_active = TRUE
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2
	`

	return r.queryProducts(ctx, query, limit, offset)
}

// CountActive returns the number of active products.
func (r *productRepository) CountActive(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE is_active = TRUE`).Scan(&count)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to count products")
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

// ListAll retrieves every product ordered by name.
func (r *productRepository) ListAll(ctx context.Context) ([]model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		ORDER BY name, id
	`

	return r.queryProducts(ctx, query)
}

func (r *productRepository) getOne(ctx context.Context, field string, value any) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE ` + field + ` = $1`

	p, err := scanProduct(r.pool.QueryRow(ctx, query, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str(field, fmt.Sprint(value)).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str(field, fmt.Sprint(value)).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return p, nil
}

// GetByID retrieves a single product by its ID.
func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return r.getOne(ctx, "id", id)
}

// GetBySlug retrieves a single product by its slug.
func (r *productRepository) GetBySlug(ctx context.Context, slug string) (*model.Product, error) {
	return r.getOne(ctx, "slug", slug)
}

// GetByName retrieves a single product by its exact name.
func (r *productRepository) GetByName(ctx context.Context, name string) (*model.Product, error) {
	return r.getOne(ctx, "name", name)
}

// Create inserts a product, retrying with -2, -3, ... while the slug is taken.
func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now().UTC()
	}

	base := product.Slug
	if base == "" {
		base = model.Slugify(product.Name)
	}

	query := `
		INSERT INTO products (id, name, slug, description, price, image, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	for n := 1; n <= maxSlugAttempts; n++ {
		slug := model.SlugCandidate(base, n)

		_, err := r.pool.Exec(ctx, query,
			product.ID, product.Name, slug, product.Description,
			product.Price, product.Image, product.IsActive, product.CreatedAt,
		)
		if err == nil {
			product.Slug = slug
			r.logger.Debug().
				Str("product_id", product.ID.String()).
				Str("slug", slug).
				Msg("product created successfully")
			return nil
		}

		if !isUniqueViolation(err, productSlugKey) {
			r.logger.Error().Err(err).Str("name", product.Name).Msg("failed to create product")
			return fmt.Errorf("failed to create product: %w", err)
		}
	}

	return fmt.Errorf("failed to create product: no free slug for %q after %d attempts", base, maxSlugAttempts)
}

// UpdateImage replaces the image reference of a product.
func (r *productRepository) UpdateImage(ctx context.Context, id uuid.UUID, image string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE products SET image = $2 WHERE id = $1`, id, image)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to update product image")
		return fmt.Errorf("failed to update product image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrProductNotFound
	}
	return nil
}

// SetActive toggles the active flag and returns the updated product.
func (r *productRepository) SetActive(ctx context.Context, id uuid.UUID, isActive bool) (*model.Product, error) {
	query := `
		UPDATE products SET is_active = $2
		WHERE id = $1
		RETURNING ` + productColumns

	p, err := scanProduct(r.pool.QueryRow(ctx, query, id, isActive))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to update product")
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	r.logger.Info().
		Str("product_id", id.String()).
		Bool("is_active", isActive).
		Msg("product active flag changed")

	return p, nil
}

// Delete removes a product. Cart and order lines referencing it go first, in the same transaction.
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return deleteCascade(ctx, r.pool, r.logger, "product", id, []string{
		`DELETE FROM cart_items WHERE product_id = $1`,
		`DELETE FROM order_items WHERE product_id = $1`,
	}, `DELETE FROM products WHERE id = $1`)
}

// deleteCascade runs the dependent deletes and then the owner delete in one transaction.
func deleteCascade(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger, target string, id uuid.UUID, dependents []string, owner string) (bool, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, stmt := range dependents {
		if _, err := tx.Exec(ctx, stmt, id); err != nil {
			logger.Error().Err(err).Str("id", id.String()).Msgf("failed to delete %s dependents", target)
			return false, fmt.Errorf("failed to delete %s dependents: %w", target, err)
		}
	}

	tag, err := tx.Exec(ctx, owner, id)
	if err != nil {
		logger.Error().Err(err).Str("id", id.String()).Msgf("failed to delete %s", target)
		return false, fmt.Errorf("failed to delete %s: %w", target, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	deleted := tag.RowsAffected() > 0
	if deleted {
		logger.Info().Str("id", id.String()).Msgf("%s deleted", target)
	}
	return deleted, nil
}
