package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"quickcart/internal/export"
	"quickcart/internal/model"
	"quickcart/internal/service"

	"github.com/rs/zerolog"
)

// AdminHandler serves the API-key protected management endpoints.
type AdminHandler struct {
	products service.ProductService
	orders   service.OrderService
	users    service.UserService
	logger   zerolog.Logger
	now      func() time.Time
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(
	products service.ProductService,
	orders service.OrderService,
	users service.UserService,
	logger zerolog.Logger,
) *AdminHandler {
	return &AdminHandler{
		products: products,
		orders:   orders,
		users:    users,
		logger:   logger.With().Str("handler", "admin").Logger(),
		now:      time.Now,
	}
}

// UpdateOrderStatus handles PATCH /api/admin/orders/{id}/status.
func (h *AdminHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuidParam(r, "id")
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	var req model.UpdateOrderStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	order, err := h.orders.UpdateStatus(r.Context(), orderID, model.OrderStatus(req.Status))
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	h.logger.Info().
		Str("order_id", orderID.String()).
		Str("status", req.Status).
		Msg("order status updated")

	writeJSON(w, http.StatusOK, order)
}

// SetProductActive handles PATCH /api/admin/products/{id}/active.
func (h *AdminHandler) SetProductActive(w http.ResponseWriter, r *http.Request) {
	productID, err := uuidParam(r, "id")
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	var req model.SetProductActiveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	product, err := h.products.SetActive(r.Context(), productID, *req.IsActive)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// DeleteProduct handles DELETE /api/admin/products/{id}.
func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := uuidParam(r, "id")
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	if err := h.products.Delete(r.Context(), productID); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteUser handles DELETE /api/admin/users/{id}.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, err := uuidParam(r, "id")
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	if err := h.users.Delete(r.Context(), userID); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ExportProducts handles GET /api/admin/products/export and returns every
// product as an XLSX attachment.
func (h *AdminHandler) ExportProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.ListAll(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteProducts(&buf, products); err != nil {
		writeServiceError(w, fmt.Errorf("failed to export products: %w", err), h.logger)
		return
	}

	filename := fmt.Sprintf("products-%s.xlsx", h.now().UTC().Format("20060102-150405"))
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", fmt.Sprint(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Warn().Err(err).Msg("failed to write export")
		return
	}

	h.logger.Info().Int("products", len(products)).Msg("products exported")
}
