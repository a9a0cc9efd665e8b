package seed

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"quickcart/internal/model"
	"quickcart/internal/repository"

	"github.com/rs/zerolog"
	"go.uber.org/multierr"
)

// Report summarises a seeding run.
type Report struct {
	Created       int
	ImagesUpdated int
	warnings      error
}

// Warnings returns the non-fatal problems met during the run, such as missing images.
func (r *Report) Warnings() []string {
	errs := multierr.Errors(r.warnings)
	out := make([]string, 0, len(errs))
	for _, err := range errs {
		out = append(out, err.Error())
	}
	return out
}

func (r *Report) warn(err error) {
	r.warnings = multierr.Append(r.warnings, err)
}

// Loader upserts catalog entries and attaches their images.
type Loader struct {
	products  repository.ProductRepository
	assets    AssetStore
	imagesDir string
	logger    zerolog.Logger
}

// NewLoader creates a loader reading images from imagesDir.
func NewLoader(products repository.ProductRepository, assets AssetStore, imagesDir string, logger zerolog.Logger) *Loader {
	return &Loader{
		products:  products,
		assets:    assets,
		imagesDir: imagesDir,
		logger:    logger.With().Str("component", "seed-loader").Logger(),
	}
}

// Run loads entries. Products are matched by exact name: missing ones are
// created active, existing ones keep their fields and only have their image
// re-attached. Running it again is safe.
func (l *Loader) Run(ctx context.Context, entries []CatalogEntry) (*Report, error) {
	report := &Report{}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		product, err := l.products.GetByName(ctx, entry.Name)
		if err != nil {
			return report, fmt.Errorf("failed to look up product %q: %w", entry.Name, err)
		}

		if product != nil {
			if l.attachImage(ctx, report, product) {
				report.ImagesUpdated++
			}
			continue
		}

		product = &model.Product{
			Name:        entry.Name,
			Description: entry.Description,
			Price:       entry.Price,
			IsActive:    true,
		}
		if err := l.products.Create(ctx, product); err != nil {
			return report, fmt.Errorf("failed to create product %q: %w", entry.Name, err)
		}
		report.Created++

		l.logger.Info().
			Str("product_id", product.ID.String()).
			Str("name", product.Name).
			Str("slug", product.Slug).
			Str("price", product.Price.StringFixed(2)).
			Msg("product created")

		l.attachImage(ctx, report, product)
	}

	l.logger.Info().
		Int("created", report.Created).
		Int("images_updated", report.ImagesUpdated).
		Int("warnings", len(report.Warnings())).
		Msg("seeding finished")

	return report, nil
}

// attachImage stores the product's image and records its reference. Problems
// are added to the report as warnings; it reports whether the image was attached.
func (l *Loader) attachImage(ctx context.Context, report *Report, product *model.Product) bool {
	src, name, err := l.findImage(product.Name)
	if err != nil {
		l.logger.Warn().Err(err).Str("name", product.Name).Msg("image not attached")
		report.warn(err)
		return false
	}
	defer src.Close()

	ref, err := l.assets.Put(ctx, name, src)
	if err != nil {
		err = fmt.Errorf("failed to store image for %q: %w", product.Name, err)
		l.logger.Warn().Err(err).Msg("image not attached")
		report.warn(err)
		return false
	}

	if err := l.products.UpdateImage(ctx, product.ID, ref); err != nil {
		err = fmt.Errorf("failed to save image reference for %q: %w", product.Name, err)
		l.logger.Warn().Err(err).Msg("image not attached")
		report.warn(err)
		return false
	}

	product.Image = ref
	l.logger.Debug().Str("name", product.Name).Str("image", ref).Msg("image attached")
	return true
}

func (l *Loader) findImage(productName string) (*os.File, string, error) {
	candidates := imageCandidates(productName)
	for _, name := range candidates {
		f, err := os.Open(filepath.Join(l.imagesDir, name))
		if err == nil {
			return f, name, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, "", fmt.Errorf("failed to open image for %q: %w", productName, err)
		}
	}
	return nil, "", fmt.Errorf("image not found for %q: %s", productName, filepath.Join(l.imagesDir, candidates[0]))
}
