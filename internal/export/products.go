package export

import (
	"fmt"
	"io"
	"time"

	"quickcart/internal/model"

	"github.com/tealeg/xlsx"
)

// ContentType is the MIME type of the generated workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const productsSheet = "Products"

var productHeaders = []string{
	"ID", "Name", "Slug", "Description", "Price", "Image", "Active", "CreatedAt",
}

// WriteProducts writes products as a single-sheet XLSX workbook to w.
func WriteProducts(w io.Writer, products []model.Product) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(productsSheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	header := sheet.AddRow()
	for _, h := range productHeaders {
		header.AddCell().SetString(h)
	}

	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetString(p.ID.String())
		row.AddCell().SetString(p.Name)
		row.AddCell().SetString(p.Slug)
		row.AddCell().SetString(p.Description)
		row.AddCell().SetValue(p.Price.InexactFloat64())
		row.AddCell().SetString(p.Image)
		row.AddCell().SetBool(p.IsActive)
		row.AddCell().SetString(p.CreatedAt.UTC().Format(time.DateTime))
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
