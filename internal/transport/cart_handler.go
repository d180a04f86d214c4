package transport

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/shangamerbaby/farm-fresh-feast-mobile/internal/cart"
	"github.com/shangamerbaby/farm-fresh-feast-mobile/internal/middleware"
	"github.com/shangamerbaby/farm-fresh-feast-mobile/internal/repository"
	"github.com/shangamerbaby/farm-fresh-feast-mobile/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AddItemRequest represents the add-to-cart payload. Quantity defaults to 1
// when omitted.
type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  *int   `json:"quantity,omitempty"`
}

// UpdateQuantityRequest represents the absolute quantity-set payload.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// CartResponse is the cart view with its derived totals and, when an
// operation just ran, the notification message for it.
type CartResponse struct {
	Items      []cart.Line `json:"items"`
	TotalItems int         `json:"total_items"`
	TotalPrice float64     `json:"total_price"`
	Message    string      `json:"message,omitempty"`
}

// CartHandler handles the session cart and checkout.
type CartHandler struct {
	carts          *cart.Store
	catalogService service.CatalogService
	orderService   service.OrderService
	logger         *zap.Logger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(carts *cart.Store, catalogService service.CatalogService, orderService service.OrderService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		carts:          carts,
		catalogService: catalogService,
		orderService:   orderService,
		logger:         logger,
	}
}

// RegisterRoutes registers cart and order routes; all require a session.
func (h *CartHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)

		r.Route("/api/cart", func(r chi.Router) {
			r.Get("/", h.GetCart)
			r.Delete("/", h.ClearCart)
			r.Post("/items", h.AddItem)
			r.Put("/items/{productID}", h.UpdateQuantity)
			r.Delete("/items/{productID}", h.RemoveItem)
		})

		r.Route("/api/orders", func(r chi.Router) {
			r.Post("/", h.Checkout)
			r.Get("/", h.ListOrders)
		})
	})
}

// GetCart returns the current cart with fresh totals.
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUserID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	h.respondWithCart(w, h.carts.Get(userID), "")
}

// AddItem merges the product into the cart. The message distinguishes a
// fresh line from a quantity update, mirroring the storefront toasts.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUserID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req AddItemRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Add-to-cart validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := h.catalogService.GetProductByID(r.Context(), productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to load product for cart", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to add to cart")
		return
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	c := h.carts.Get(userID)
	outcome := c.AddItem(*product, quantity)

	message := fmt.Sprintf("Added to cart: %s", product.Name)
	if outcome == cart.OutcomeQuantityUpdated {
		message = fmt.Sprintf("Updated quantity: %s", product.Name)
	}

	h.respondWithCart(w, c, message)
}

// UpdateQuantity sets a line's quantity; zero or less removes the line.
// An unknown product id is a silent no-op.
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUserID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req UpdateQuantityRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c := h.carts.Get(userID)
	c.UpdateQuantity(productID, req.Quantity)

	h.respondWithCart(w, c, "")
}

// RemoveItem deletes a line. Removing an absent product is not an error.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUserID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	c := h.carts.Get(userID)
	name, found := c.RemoveItem(productID)

	message := ""
	if found {
		message = fmt.Sprintf("Removed from cart: %s", name)
	}

	h.respondWithCart(w, c, message)
}

// ClearCart empties the cart unconditionally.
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUserID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	c := h.carts.Get(userID)
	c.Clear()

	h.respondWithCart(w, c, "Cart cleared")
}

// Checkout persists the cart as a pending order.
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUserID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	c := h.carts.Get(userID)
	order, err := h.orderService.Checkout(r.Context(), userID, c)
	if err != nil {
		if errors.Is(err, service.ErrEmptyCart) {
			middleware.RespondWithError(w, http.StatusUnprocessableEntity, "cart is empty")
			return
		}
		if errors.Is(err, repository.ErrStoreUnavailable) {
			h.logger.Warn("Checkout failed: backend unreachable", zap.Error(err))
			middleware.RespondWithError(w, http.StatusServiceUnavailable, "unable to reach the store backend")
			return
		}
		h.logger.Error("Checkout failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to place order")
		return
	}

	h.logger.Info("Order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("user_id", userID.String()),
		zap.Float64("total", order.Total),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, order)
}

// ListOrders returns the user's order history with nested line items.
func (h *CartHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUserID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	orders, err := h.orderService.GetOrders(r.Context(), userID)
	if err != nil {
		// The history view renders empty rather than crashing.
		h.logger.Error("Failed to list orders", zap.Error(err))
		middleware.RespondWithJSON(w, http.StatusOK, []struct{}{})
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

func (h *CartHandler) respondWithCart(w http.ResponseWriter, c *cart.Cart, message string) {
	middleware.RespondWithJSON(w, http.StatusOK, CartResponse{
		Items:      c.Lines(),
		TotalItems: c.TotalItems(),
		TotalPrice: c.TotalPrice(),
		Message:    message,
	})
}
