package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hivetax/hivetax-platform/internal/errors"
	"github.com/hivetax/hivetax-platform/internal/models"
	repository "github.com/hivetax/hivetax-platform/internal/repositories"
)

type CartService interface {
	GetCart(ctx context.Context, sellerID uuid.UUID) (*models.Cart, error)
	AddItem(ctx context.Context, sellerID uuid.UUID, req *models.AddCartItemRequest) (*models.Cart, error)
	UpdateQuantity(ctx context.Context, sellerID uuid.UUID, req *models.UpdateCartQuantityRequest) (*models.Cart, error)
	RemoveItem(ctx context.Context, sellerID uuid.UUID, productID uuid.UUID) (*models.Cart, error)
	ClearCart(ctx context.Context, sellerID uuid.UUID) error
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{cartRepo: cartRepo, productRepo: productRepo}
}

// GetCart implements CartService.
func (s *cartService) GetCart(ctx context.Context, sellerID uuid.UUID) (*models.Cart, error) {
	cart, err := s.cartRepo.GetCart(ctx, sellerID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to load cart").WithError(err)
	}

	return cart, nil
}

// AddItem merges into an existing line when the product is already in the
// cart, otherwise appends a new line. Derived fields are recomputed either
// way.
func (s *cartService) AddItem(ctx context.Context, sellerID uuid.UUID, req *models.AddCartItemRequest) (*models.Cart, error) {

	product, err := s.productRepo.GetProductByID(ctx, req.ProductID)
	if err != nil {
		return nil, errors.NotFoundError("Product not found").WithError(err)
	}

	if !product.IsActive {
		return nil, errors.BadRequestError("Product is not active")
	}

	cart, err := s.cartRepo.GetCart(ctx, sellerID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to load cart").WithError(err)
	}

	merged := false

	for i := range cart.Lines {
		if cart.Lines[i].ProductID == req.ProductID {
			cart.Lines[i].Quantity += req.Quantity
			cart.Lines[i].Recalculate()
			merged = true

			break
		}
	}

	if !merged {
		line := models.CartLine{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    req.Quantity,
			UnitPrice:   product.UnitPrice,
			VATRate:     product.VATRate,
		}
		line.Recalculate()

		cart.Lines = append(cart.Lines, line)
	}

	cart.UpdatedAt = time.Now()

	if err := s.cartRepo.SaveCart(ctx, cart); err != nil {
		return nil, errors.DatabaseError("Failed to update cart").WithError(err)
	}

	return cart, nil
}

// UpdateQuantity sets the absolute quantity of a line. Zero or negative
// removes the line; a zero-quantity line is never stored.
func (s *cartService) UpdateQuantity(ctx context.Context, sellerID uuid.UUID, req *models.UpdateCartQuantityRequest) (*models.Cart, error) {

	cart, err := s.cartRepo.GetCart(ctx, sellerID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to load cart").WithError(err)
	}

	index := -1

	for i := range cart.Lines {
		if cart.Lines[i].ProductID == req.ProductID {
			index = i

			break
		}
	}

	if index == -1 {
		return nil, errors.BadRequestError("Item not found in the cart")
	}

	if req.Quantity <= 0 {
		cart.Lines = append(cart.Lines[:index], cart.Lines[index+1:]...)
	} else {
		cart.Lines[index].Quantity = req.Quantity
		cart.Lines[index].Recalculate()
	}

	cart.UpdatedAt = time.Now()

	if err := s.cartRepo.SaveCart(ctx, cart); err != nil {
		return nil, errors.DatabaseError("Failed to update cart").WithError(err)
	}

	return cart, nil
}

// RemoveItem implements CartService.
func (s *cartService) RemoveItem(ctx context.Context, sellerID uuid.UUID, productID uuid.UUID) (*models.Cart, error) {

	cart, err := s.cartRepo.GetCart(ctx, sellerID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to load cart").WithError(err)
	}

	lines := cart.Lines[:0]

	for _, line := range cart.Lines {
		if line.ProductID != productID {
			lines = append(lines, line)
		}
	}

	cart.Lines = lines
	cart.UpdatedAt = time.Now()

	if err := s.cartRepo.SaveCart(ctx, cart); err != nil {
		return nil, errors.DatabaseError("Failed to update cart").WithError(err)
	}

	return cart, nil
}

// ClearCart implements CartService.
func (s *cartService) ClearCart(ctx context.Context, sellerID uuid.UUID) error {
	if err := s.cartRepo.DeleteCart(ctx, sellerID); err != nil {
		return errors.DatabaseError("Failed to clear cart").WithError(err)
	}

	return nil
}
