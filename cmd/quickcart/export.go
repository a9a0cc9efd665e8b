package main

import (
	"fmt"
	"os"

	"quickcart/internal/export"
	"quickcart/internal/repository"
	"quickcart/internal/service"

	"github.com/spf13/cobra"
)

func newExportProductsCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export-products",
		Short: "Write every product to an XLSX file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close()

			products, err := service.NewProductService(repository.NewProductRepository(e.pool, e.logger), e.cfg.Catalog.PageSize, e.logger).
				ListAll(cmd.Context())
			if err != nil {
				return err
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", out, err)
			}

			if err := export.WriteProducts(f, products); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to close %s: %w", out, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "exported %d products to %s\n", len(products), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "products.xlsx", "output file")
	return cmd
}
