package transport

import (
	"errors"
	"net/http"

	"github.com/shangamerbaby/farm-fresh-feast-mobile/internal/domain"
	"github.com/shangamerbaby/farm-fresh-feast-mobile/internal/middleware"
	"github.com/shangamerbaby/farm-fresh-feast-mobile/internal/repository"
	"github.com/shangamerbaby/farm-fresh-feast-mobile/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CatalogHandler serves the public storefront reads. Failed reads log the
// error and render an empty list; absence of data is never fatal to a view.
type CatalogHandler struct {
	catalogService service.CatalogService
	logger         *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalogService service.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// RegisterRoutes registers the public catalog routes
func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Get("/featured", h.ListFeatured)
		r.Get("/best-selling", h.ListBestSelling)
		r.Get("/{id}", h.GetProduct)
	})
	r.Get("/api/categories", h.ListCategories)
	r.Get("/api/cuts", h.ListCuts)
}

// ListProducts returns the whole catalog, optionally filtered by the
// category or cut query parameter.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	var (
		products []*domain.Product
		err      error
	)

	switch {
	case r.URL.Query().Get("category") != "":
		products, err = h.catalogService.GetProductsByCategory(r.Context(), r.URL.Query().Get("category"))
	case r.URL.Query().Get("cut") != "":
		products, err = h.catalogService.GetProductsByCut(r.Context(), r.URL.Query().Get("cut"))
	default:
		products, err = h.catalogService.GetProducts(r.Context())
	}

	h.respondWithList(w, products, err, "Failed to list products")
}

// GetProduct returns one product by id.
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := h.catalogService.GetProductByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to get product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// ListFeatured returns the bounded featured subset.
func (h *CatalogHandler) ListFeatured(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalogService.GetFeaturedProducts(r.Context())
	h.respondWithList(w, products, err, "Failed to list featured products")
}

// ListBestSelling returns the bounded best-selling subset.
func (h *CatalogHandler) ListBestSelling(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalogService.GetBestSellingProducts(r.Context())
	h.respondWithList(w, products, err, "Failed to list best-selling products")
}

// ListCategories returns the deduplicated category labels.
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalogService.GetCategories(r.Context())
	if err != nil {
		h.logger.Error("Failed to list categories", zap.Error(err))
		categories = []string{}
	}
	middleware.RespondWithJSON(w, http.StatusOK, categories)
}

// ListCuts returns the deduplicated cut labels.
func (h *CatalogHandler) ListCuts(w http.ResponseWriter, r *http.Request) {
	cuts, err := h.catalogService.GetCuts(r.Context())
	if err != nil {
		h.logger.Error("Failed to list cuts", zap.Error(err))
		cuts = []string{}
	}
	middleware.RespondWithJSON(w, http.StatusOK, cuts)
}

func (h *CatalogHandler) respondWithList(w http.ResponseWriter, products []*domain.Product, err error, logMsg string) {
	if err != nil {
		h.logger.Error(logMsg, zap.Error(err))
		products = []*domain.Product{}
	}
	middleware.RespondWithJSON(w, http.StatusOK, products)
}
