package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shangamerbaby/farm-fresh-feast-mobile/internal/config"
	"github.com/shangamerbaby/farm-fresh-feast-mobile/internal/domain"
	"github.com/shangamerbaby/farm-fresh-feast-mobile/internal/repository"

	"github.com/google/uuid"
)

var ErrNegativePrice = fmt.Errorf("product price must not be negative")

// CatalogService is the read-shaping layer over the product set, plus the
// admin-only mutations. Category and cut listings are deduplicated
// projections; featured and best-selling are bounded arbitrary subsets.
type CatalogService interface {
	GetProducts(ctx context.Context) ([]*domain.Product, error)
	GetProductsByCategory(ctx context.Context, category string) ([]*domain.Product, error)
	GetProductsByCut(ctx context.Context, cut string) ([]*domain.Product, error)
	GetProductByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	GetCategories(ctx context.Context) ([]string, error)
	GetCuts(ctx context.Context) ([]string, error)
	GetFeaturedProducts(ctx context.Context) ([]*domain.Product, error)
	GetBestSellingProducts(ctx context.Context) ([]*domain.Product, error)

	CreateProduct(ctx context.Context, p *domain.Product) error
	UpdateProduct(ctx context.Context, p *domain.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type catalogService struct {
	productRepo repository.ProductRepository
	cfg         config.CatalogConfig
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(productRepo repository.ProductRepository, cfg config.CatalogConfig) CatalogService {
	return &catalogService{productRepo: productRepo, cfg: cfg}
}

func (s *catalogService) GetProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.productRepo.List(ctx)
}

func (s *catalogService) GetProductsByCategory(ctx context.Context, category string) ([]*domain.Product, error) {
	return s.productRepo.ListByCategory(ctx, category)
}

func (s *catalogService) GetProductsByCut(ctx context.Context, cut string) ([]*domain.Product, error) {
	return s.productRepo.ListByCut(ctx, cut)
}

func (s *catalogService) GetProductByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

func (s *catalogService) GetCategories(ctx context.Context) ([]string, error) {
	return s.productRepo.Categories(ctx)
}

func (s *catalogService) GetCuts(ctx context.Context) ([]string, error) {
	return s.productRepo.Cuts(ctx)
}

func (s *catalogService) GetFeaturedProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.productRepo.Featured(ctx, s.cfg.FeaturedCount)
}

func (s *catalogService) GetBestSellingProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.productRepo.BestSelling(ctx, s.cfg.BestSellingCount)
}

// CreateProduct validates and stores a new product.
func (s *catalogService) CreateProduct(ctx context.Context, p *domain.Product) error {
	if p.Price < 0 {
		return ErrNegativePrice
	}

	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	if err := s.productRepo.Create(ctx, p); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// UpdateProduct validates and stores changes to an existing product.
func (s *catalogService) UpdateProduct(ctx context.Context, p *domain.Product) error {
	if p.Price < 0 {
		return ErrNegativePrice
	}
	p.UpdatedAt = time.Now()

	if err := s.productRepo.Update(ctx, p); err != nil {
		return err
	}
	return nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.productRepo.Delete(ctx, id)
}
