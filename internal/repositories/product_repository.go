package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/hivetax/hivetax-platform/internal/models"
	"github.com/hivetax/hivetax-platform/internal/utils"
)

type ProductRepository interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	ListProductsBySeller(ctx context.Context, sellerID uuid.UUID, page, size int) ([]*models.Product, int, error)
}

type productRepository struct {
	DB *sql.DB
}

func NewProductRepo(db *sql.DB) ProductRepository {
	return &productRepository{DB: db}
}

func (r *productRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `INSERT INTO products (seller_id, name, category, unit_price, vat_rate, stock, is_active)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id, created_at, updated_at
	`

	return r.DB.QueryRowContext(dbCtx, query,
		product.SellerID, product.Name, product.Category, product.UnitPrice,
		product.VATRate, product.Stock, product.IsActive).
		Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
}

func (r *productRepository) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	product := &models.Product{}

	query := `SELECT id, seller_id, name, category, unit_price, vat_rate, stock, is_active, created_at, updated_at
			  FROM products WHERE id = $1`

	err := r.DB.QueryRowContext(dbCtx, query, id).
		Scan(&product.ID, &product.SellerID, &product.Name, &product.Category, &product.UnitPrice,
			&product.VATRate, &product.Stock, &product.IsActive, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("querying database: %w", err)
	}

	return product, nil
}

func (r *productRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE products SET name = $1, unit_price = $2, stock = $3, is_active = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at
	`

	return r.DB.QueryRowContext(dbCtx, query,
		product.Name, product.UnitPrice, product.Stock, product.IsActive, product.ID).
		Scan(&product.UpdatedAt)
}

func (r *productRepository) ListProductsBySeller(ctx context.Context, sellerID uuid.UUID, page, size int) ([]*models.Product, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int
	if err := r.DB.QueryRowContext(dbCtx, `SELECT COUNT(*) FROM products WHERE seller_id = $1`, sellerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("querying database: %w", err)
	}

	query := `SELECT id, seller_id, name, category, unit_price, vat_rate, stock, is_active, created_at, updated_at
			  FROM products
			  WHERE seller_id = $1
			  ORDER BY created_at DESC
			  LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(dbCtx, query, sellerID, size, (page-1)*size)
	if err != nil {
		return nil, 0, fmt.Errorf("querying database: %w", err)
	}
	defer rows.Close()

	var products []*models.Product

	for rows.Next() {
		product := &models.Product{}

		if err := rows.Scan(&product.ID, &product.SellerID, &product.Name, &product.Category,
			&product.UnitPrice, &product.VATRate, &product.Stock, &product.IsActive,
			&product.CreatedAt, &product.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scanning row: %w", err)
		}

		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating rows: %w", err)
	}

	return products, total, nil
}
