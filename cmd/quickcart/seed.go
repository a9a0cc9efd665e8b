package main

import (
	"fmt"

	"quickcart/internal/repository"
	"quickcart/internal/seed"

	"github.com/spf13/cobra"
)

func newSeedCmd() *cobra.Command {
	var imagesDir string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the demo catalogue",
		Long: `Creates the demo laptops and smartphones that are missing and attaches
their images. Existing products keep their fields, so running it again is safe.
Images go to S3 when S3_ENABLED is set, otherwise under MEDIA_ROOT.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close()

			if imagesDir == "" {
				imagesDir = e.cfg.Media.SeedImagesDir
			}

			assets, err := seed.NewAssetStore(cmd.Context(), e.cfg.S3, e.cfg.Media, e.logger)
			if err != nil {
				return fmt.Errorf("failed to initialise asset store: %w", err)
			}

			loader := seed.NewLoader(repository.NewProductRepository(e.pool, e.logger), assets, imagesDir, e.logger)
			report, err := loader.Run(cmd.Context(), seed.DemoCatalog)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "created %d products, refreshed %d images\n", report.Created, report.ImagesUpdated)
			for _, w := range report.Warnings() {
				fmt.Fprintf(out, "warning: %s\n", w)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&imagesDir, "images", "", "directory holding the product images (default SEED_IMAGES_DIR)")
	return cmd
}
