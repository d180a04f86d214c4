package transport

import (
	"errors"
	"net/http"

	"github.com/shangamerbaby/farm-fresh-feast-mobile/internal/domain"
	"github.com/shangamerbaby/farm-fresh-feast-mobile/internal/fulfillment"
	"github.com/shangamerbaby/farm-fresh-feast-mobile/internal/middleware"
	"github.com/shangamerbaby/farm-fresh-feast-mobile/internal/repository"
	"github.com/shangamerbaby/farm-fresh-feast-mobile/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductRequest represents the admin product create/update payload.
type ProductRequest struct {
	Name        string  `json:"name" validate:"required"`
	Category    string  `json:"category" validate:"required"`
	Cut         string  `json:"cut"`
	Price       float64 `json:"price" validate:"gte=0"`
	ImageURL    string  `json:"image_url"`
	Description string  `json:"description"`
}

// CreateUserRequest represents the admin user-provisioning payload.
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required"`
}

// BoardOrder is one active order as the packing board renders it: the raw
// order plus its derived progress and whether completion is currently
// allowed, so the client can disable the control instead of round-tripping
// a rejection.
type BoardOrder struct {
	*domain.Order
	ProgressPercent int  `json:"progress_percent"`
	CanComplete     bool `json:"can_complete"`
}

// AdvanceStatusRequest represents the status-change payload.
type AdvanceStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// AdminHandler handles the back-office: product CRUD, user management, and
// the fulfillment board.
type AdminHandler struct {
	catalogService     service.CatalogService
	userService        service.UserService
	fulfillmentService service.FulfillmentService
	logger             *zap.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(
	catalogService service.CatalogService,
	userService service.UserService,
	fulfillmentService service.FulfillmentService,
	logger *zap.Logger,
) *AdminHandler {
	return &AdminHandler{
		catalogService:     catalogService,
		userService:        userService,
		fulfillmentService: fulfillmentService,
		logger:             logger,
	}
}

// RegisterRoutes registers all admin routes behind auth + admin gates.
func (h *AdminHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(adminMiddleware)

		r.Route("/products", func(r chi.Router) {
			r.Post("/", h.CreateProduct)
			r.Put("/{id}", h.UpdateProduct)
			r.Delete("/{id}", h.DeleteProduct)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", h.ListUsers)
			r.Post("/", h.CreateUser)
			r.Delete("/{id}", h.DeleteUser)
		})

		r.Route("/fulfillment", func(r chi.Router) {
			r.Get("/orders", h.ListActiveOrders)
			r.Post("/orders/{orderID}/items/{itemID}/toggle", h.ToggleItemPacked)
			r.Post("/orders/{orderID}/status", h.AdvanceStatus)
			r.Post("/orders/{orderID}/complete", h.CompleteOrder)
			r.Get("/log", h.ListCompletedOrders)
		})
	})
}

// CreateProduct adds a product to the catalog.
func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if !h.decodeProduct(w, r, &req) {
		return
	}

	product := &domain.Product{
		Name:        req.Name,
		Category:    req.Category,
		Cut:         req.Cut,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Description: req.Description,
	}

	if err := h.catalogService.CreateProduct(r.Context(), product); err != nil {
		h.logger.Error("Failed to create product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create product")
		return
	}

	h.logger.Info("Product created", zap.String("product_id", product.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// UpdateProduct edits an existing product.
func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req ProductRequest
	if !h.decodeProduct(w, r, &req) {
		return
	}

	product := &domain.Product{
		ID:          id,
		Name:        req.Name,
		Category:    req.Category,
		Cut:         req.Cut,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Description: req.Description,
	}

	if err := h.catalogService.UpdateProduct(r.Context(), product); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to update product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// DeleteProduct removes a product from the catalog.
func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	if err := h.catalogService.DeleteProduct(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to delete product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

// ListUsers returns all accounts for the user manager.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListUsers(r.Context())
	if err != nil {
		h.logger.Error("Failed to list users", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list users")
		return
	}

	profiles := make([]UserProfile, 0, len(users))
	for _, user := range users {
		profiles = append(profiles, profileOf(user.ID.String(), user.Email, user.Role.String()))
	}

	middleware.RespondWithJSON(w, http.StatusOK, profiles)
}

// CreateUser provisions an account with an explicit role.
func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "role must be admin or customer")
		return
	}

	user, err := h.userService.CreateUser(r.Context(), req.Email, req.Password, role)
	if err != nil {
		if errors.Is(err, repository.ErrUserAlreadyExists) {
			middleware.RespondWithError(w, http.StatusConflict, "user with this email already exists")
			return
		}
		h.logger.Error("Failed to create user", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	h.logger.Info("User provisioned",
		zap.String("user_id", user.ID.String()),
		zap.String("role", user.Role.String()),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, profileOf(user.ID.String(), user.Email, user.Role.String()))
}

// DeleteUser removes an account. Self-deletion and the primary admin are
// rejected.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actingUserID, ok := authenticatedUserID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	targetID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := h.userService.DeleteUser(r.Context(), actingUserID, targetID); err != nil {
		switch {
		case errors.Is(err, service.ErrCannotDeleteSelf):
			middleware.RespondWithError(w, http.StatusForbidden, "cannot delete your own account")
		case errors.Is(err, service.ErrCannotDeletePrimaryAdmin):
			middleware.RespondWithError(w, http.StatusForbidden, "cannot delete the primary admin account")
		case errors.Is(err, repository.ErrUserNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "user not found")
		default:
			h.logger.Error("Failed to delete user", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete user")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "user deleted"})
}

// ListActiveOrders renders the packing board.
func (h *AdminHandler) ListActiveOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.fulfillmentService.ActiveOrders(r.Context())
	if err != nil {
		h.logger.Error("Failed to list active orders", zap.Error(err))
		middleware.RespondWithJSON(w, http.StatusOK, []BoardOrder{})
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, boardView(orders))
}

// ToggleItemPacked flips one line item's packed flag and returns the
// refreshed board entry.
func (h *AdminHandler) ToggleItemPacked(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order id")
		return
	}
	itemID, err := uuid.Parse(chi.URLParam(r, "itemID"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	order, err := h.fulfillmentService.ToggleItemPacked(r.Context(), orderID, itemID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrOrderNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "order not found")
		case errors.Is(err, repository.ErrOrderItemNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "order item not found")
		default:
			h.logger.Error("Failed to toggle packed flag", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update item")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toBoardOrder(order))
}

// AdvanceStatus moves a pending order to processing.
func (h *AdminHandler) AdvanceStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var req AdvanceStatusRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err = h.fulfillmentService.AdvanceStatus(r.Context(), orderID, domain.OrderStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidStatusChange):
			middleware.RespondWithError(w, http.StatusUnprocessableEntity, "invalid status change")
		case errors.Is(err, repository.ErrOrderNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "order not found")
		default:
			h.logger.Error("Failed to advance order status", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update order")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "order updated"})
}

// CompleteOrder archives a fully packed order off the board.
func (h *AdminHandler) CompleteOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	completed, err := h.fulfillmentService.CompleteOrder(r.Context(), orderID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrItemsUnpacked):
			middleware.RespondWithError(w, http.StatusConflict, "order has unpacked items")
		case errors.Is(err, repository.ErrOrderNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "order not found")
		default:
			h.logger.Error("Failed to complete order", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to complete order")
		}
		return
	}

	h.logger.Info("Order completed", zap.String("order_id", orderID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, completed)
}

// ListCompletedOrders returns the archived order log.
func (h *AdminHandler) ListCompletedOrders(w http.ResponseWriter, r *http.Request) {
	completed, err := h.fulfillmentService.CompletedOrders(r.Context())
	if err != nil {
		h.logger.Error("Failed to list completed orders", zap.Error(err))
		middleware.RespondWithJSON(w, http.StatusOK, []struct{}{})
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, completed)
}

func (h *AdminHandler) decodeProduct(w http.ResponseWriter, r *http.Request, req *ProductRequest) bool {
	if err := middleware.DecodeAndValidate(r, req); err != nil {
		h.logger.Debug("Product validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return false
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func boardView(orders []*domain.Order) []BoardOrder {
	view := make([]BoardOrder, 0, len(orders))
	for _, order := range orders {
		view = append(view, toBoardOrder(order))
	}
	return view
}

func toBoardOrder(order *domain.Order) BoardOrder {
	return BoardOrder{
		Order:           order,
		ProgressPercent: fulfillment.ProgressPercent(order),
		CanComplete:     fulfillment.AllPacked(order),
	}
}
