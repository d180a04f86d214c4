package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shangamerbaby/farm-fresh-feast-mobile/internal/domain"

	"github.com/google/uuid"
)

var ErrProductNotFound = errors.New("product not found")

// ProductRepository defines the interface for catalog data access.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
	ListByCategory(ctx context.Context, category string) ([]*domain.Product, error)
	ListByCut(ctx context.Context, cut string) ([]*domain.Product, error)
	Categories(ctx context.Context) ([]string, error)
	Cuts(ctx context.Context) ([]string, error)
	Featured(ctx context.Context, count int) ([]*domain.Product, error)
	BestSelling(ctx context.Context, count int) ([]*domain.Product, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = "id, name, category, cut, price, image_url, description, created_at, updated_at"

// Create inserts a new product into the database using parameterized queries
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (id, name, category, cut, price, image_url, description, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Category,
		product.Cut,
		product.Price,
		product.ImageURL,
		product.Description,
		product.CreatedAt,
		product.UpdatedAt,
	)

	if err != nil {
		return classify(fmt.Errorf("failed to create product: %w", err))
	}

	return nil
}

// Update updates an existing product in the database using parameterized queries
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET name = $2, category = $3, cut = NULLIF($4, ''), price = $5,
		    image_url = $6, description = $7, updated_at = $8
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Category,
		product.Cut,
		product.Price,
		product.ImageURL,
		product.Description,
		product.UpdatedAt,
	)

	if err != nil {
		return classify(fmt.Errorf("failed to update product: %w", err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// Delete removes a product from the database using parameterized queries
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return classify(fmt.Errorf("failed to delete product: %w", err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// FindByID retrieves a product by ID using parameterized queries
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)

	product, err := r.scanOne(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, classify(fmt.Errorf("failed to find product by ID: %w", err))
	}

	return product, nil
}

// List retrieves the whole catalog.
func (r *productRepository) List(ctx context.Context) ([]*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products ORDER BY name ASC`, productColumns)
	return r.queryMany(ctx, "list products", query)
}

// ListByCategory retrieves products carrying the given category label.
func (r *productRepository) ListByCategory(ctx context.Context, category string) ([]*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE category = $1 ORDER BY name ASC`, productColumns)
	return r.queryMany(ctx, "list products by category", query, category)
}

// ListByCut retrieves products carrying the given cut label.
func (r *productRepository) ListByCut(ctx context.Context, cut string) ([]*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE cut = $1 ORDER BY name ASC`, productColumns)
	return r.queryMany(ctx, "list products by cut", query, cut)
}

// Categories returns the distinct category labels across all products.
// Uniqueness is the contract; ordering is incidental.
func (r *productRepository) Categories(ctx context.Context) ([]string, error) {
	return r.distinctLabels(ctx, `SELECT DISTINCT category FROM products`)
}

// Cuts returns the distinct cut labels across products that have one.
func (r *productRepository) Cuts(ctx context.Context) ([]string, error) {
	return r.distinctLabels(ctx, `SELECT DISTINCT cut FROM products WHERE cut IS NOT NULL`)
}

// Featured returns a bounded subset for the storefront hero grid. There is
// no ranking signal; newest rows are as good a pick as any.
func (r *productRepository) Featured(ctx context.Context, count int) ([]*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products ORDER BY created_at DESC LIMIT $1`, productColumns)
	return r.queryMany(ctx, "list featured products", query, count)
}

// BestSelling returns a bounded subset for the "best sellers" grid. No sales
// signal exists, so the selection is arbitrary insertion order, not a rank.
func (r *productRepository) BestSelling(ctx context.Context, count int) ([]*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products ORDER BY id LIMIT $1`, productColumns)
	return r.queryMany(ctx, "list best-selling products", query, count)
}

func (r *productRepository) distinctLabels(ctx context.Context, query string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, classify(fmt.Errorf("failed to list labels: %w", err))
	}
	defer rows.Close()

	labels := []string{}
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, fmt.Errorf("failed to scan label: %w", err)
		}
		labels = append(labels, label)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating labels: %w", err)
	}

	return labels, nil
}

func (r *productRepository) queryMany(ctx context.Context, op, query string, args ...interface{}) ([]*domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(fmt.Errorf("failed to %s: %w", op, err))
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := r.scanOne(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *productRepository) scanOne(row rowScanner) (*domain.Product, error) {
	product := &domain.Product{}
	var cut sql.NullString
	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Category,
		&cut,
		&product.Price,
		&product.ImageURL,
		&product.Description,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	product.Cut = cut.String
	return product, nil
}
