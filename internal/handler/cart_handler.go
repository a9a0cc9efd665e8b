package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"quickcart/internal/middleware"
	"quickcart/internal/model"
	"quickcart/internal/service"

	"github.com/rs/zerolog"
)

// CartHandler handles the authenticated user's cart.
type CartHandler struct {
	service service.CartService
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

// Get handles GET /api/cart.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	cart, err := h.service.GetCart(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, cart)
}

// AddItem handles POST /api/cart/items. It answers 201 when a new line was
// created and 200 when an existing line was incremented.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req model.AddToCartRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	productID, err := parseUUID(req.ProductID, "productId")
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	result, err := h.service.AddToCart(r.Context(), middleware.UserIDFromContext(r.Context()), productID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	status := http.StatusOK
	if result.Result == model.AddResultAdded {
		status = http.StatusCreated
	}
	writeJSON(w, status, result)
}

// SetQuantity handles PATCH /api/cart/items/{id}.
func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuidParam(r, "id")
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	var req model.SetQuantityRequest
	if err := decodeJSON(r, &req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field == "quantity" {
			err = model.ErrInvalidQuantity
		}
		writeServiceError(w, err, h.logger)
		return
	}
	if err := model.ValidateQuantity(*req.Quantity); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	cart, err := h.service.SetQuantity(r.Context(), middleware.UserIDFromContext(r.Context()), itemID, *req.Quantity)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, cart)
}

// RemoveItem handles DELETE /api/cart/items/{id}.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuidParam(r, "id")
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	cart, err := h.service.RemoveItem(r.Context(), middleware.UserIDFromContext(r.Context()), itemID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, cart)
}
