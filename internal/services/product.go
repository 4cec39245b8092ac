package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/hivetax/hivetax-platform/internal/errors"
	"github.com/hivetax/hivetax-platform/internal/models"
	repository "github.com/hivetax/hivetax-platform/internal/repositories"
)

type ProductService interface {
	CreateProduct(ctx context.Context, sellerID uuid.UUID, req *models.CreateProductRequest) (*models.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	UpdateProduct(ctx context.Context, sellerID uuid.UUID, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, error)
	ListProducts(ctx context.Context, sellerID uuid.UUID, page, size int) ([]*models.Product, int, error)
}

type productService struct {
	repo repository.ProductRepository
}

func NewProductService(repo repository.ProductRepository) ProductService {
	return &productService{repo: repo}
}

// CreateProduct implements ProductService. The VAT rate is never taken from
// the request; it follows the registered business category.
func (s *productService) CreateProduct(ctx context.Context, sellerID uuid.UUID, req *models.CreateProductRequest) (*models.Product, error) {

	product := &models.Product{
		SellerID:  sellerID,
		Name:      req.Name,
		Category:  req.Category,
		UnitPrice: req.Price,
		VATRate:   models.VATRateForCategory(req.Category),
		Stock:     req.Stock,
		IsActive:  true,
	}

	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, errors.DatabaseError("Failed to create product").WithError(err)
	}

	return product, nil
}

// GetProduct implements ProductService.
func (s *productService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return nil, errors.NotFoundError("Product not found").WithError(err)
	}

	return product, nil
}

// UpdateProduct implements ProductService.
func (s *productService) UpdateProduct(ctx context.Context, sellerID uuid.UUID, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, error) {

	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return nil, errors.NotFoundError("Product not found").WithError(err)
	}

	if product.SellerID != sellerID {
		return nil, errors.ForbiddenError("Product belongs to another seller")
	}

	if req.Name != nil {
		product.Name = *req.Name
	}

	if req.Price != nil {
		product.UnitPrice = *req.Price
	}

	if req.Stock != nil {
		product.Stock = *req.Stock
	}

	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		return nil, errors.DatabaseError("Failed to update product").WithError(err)
	}

	return product, nil
}

// ListProducts implements ProductService.
func (s *productService) ListProducts(ctx context.Context, sellerID uuid.UUID, page, size int) ([]*models.Product, int, error) {
	products, total, err := s.repo.ListProductsBySeller(ctx, sellerID, page, size)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to fetch products").WithError(err)
	}

	return products, total, nil
}
