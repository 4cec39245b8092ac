package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hivetax/hivetax-platform/internal/config"
	"github.com/hivetax/hivetax-platform/internal/models"
	"github.com/redis/go-redis/v9"
)

type CartRepository interface {
	GetCart(ctx context.Context, sellerID uuid.UUID) (*models.Cart, error)
	SaveCart(ctx context.Context, cart *models.Cart) error
	DeleteCart(ctx context.Context, sellerID uuid.UUID) error
}

// Carts are transient working state, so they live in Redis as one JSON blob
// per seller with a TTL, not in Postgres.
type cartRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCartRepo(client *redis.Client, cfg *config.Config) CartRepository {
	return &cartRepository{client: client, ttl: cfg.Cart.TTL}
}

func cartKey(sellerID uuid.UUID) string {
	return fmt.Sprintf("cart:%s", sellerID)
}

func (r *cartRepository) GetCart(ctx context.Context, sellerID uuid.UUID) (*models.Cart, error) {

	data, err := r.client.Get(ctx, cartKey(sellerID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			// An absent key is just an empty cart.
			return &models.Cart{SellerID: sellerID}, nil
		}

		return nil, fmt.Errorf("failed to get cart for seller %s: %w", sellerID, err)
	}

	cart := &models.Cart{}
	if err := json.Unmarshal(data, cart); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart for seller %s: %w", sellerID, err)
	}

	return cart, nil
}

func (r *cartRepository) SaveCart(ctx context.Context, cart *models.Cart) error {

	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to marshal cart for seller %s: %w", cart.SellerID, err)
	}

	if err := r.client.Set(ctx, cartKey(cart.SellerID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cart for seller %s: %w", cart.SellerID, err)
	}

	return nil
}

func (r *cartRepository) DeleteCart(ctx context.Context, sellerID uuid.UUID) error {

	if err := r.client.Del(ctx, cartKey(sellerID)).Err(); err != nil {
		return fmt.Errorf("failed to delete cart for seller %s: %w", sellerID, err)
	}

	return nil
}
