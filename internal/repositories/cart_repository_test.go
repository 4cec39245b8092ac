package repository_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/hivetax/hivetax-platform/internal/config"
	"github.com/hivetax/hivetax-platform/internal/models"
	repository "github.com/hivetax/hivetax-platform/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cartTestConfig() *config.Config {
	return &config.Config{
		Cart: config.CartConfig{TTL: 24 * time.Hour},
	}
}

func TestCartRepository_GetCart(t *testing.T) {
	ctx := context.Background()
	sellerID := uuid.New()

	t.Run("Missing Key Means Empty Cart", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		repo := repository.NewCartRepo(client, cartTestConfig())

		mock.ExpectGet("cart:" + sellerID.String()).RedisNil()

		cart, err := repo.GetCart(ctx, sellerID)

		require.NoError(t, err)
		assert.Equal(t, sellerID, cart.SellerID)
		assert.Empty(t, cart.Lines)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Stored Cart Round-Trips", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		repo := repository.NewCartRepo(client, cartTestConfig())

		line := models.CartLine{ProductID: uuid.New(), ProductName: "Sugar 1kg", Quantity: 2, UnitPrice: 25, VATRate: 16}
		line.Recalculate()

		stored := &models.Cart{SellerID: sellerID, Lines: []models.CartLine{line}}
		data, _ := json.Marshal(stored)

		mock.ExpectGet("cart:" + sellerID.String()).SetVal(string(data))

		cart, err := repo.GetCart(ctx, sellerID)

		require.NoError(t, err)
		require.Len(t, cart.Lines, 1)
		assert.Equal(t, "Sugar 1kg", cart.Lines[0].ProductName)
		assert.InDelta(t, 8.00, cart.Lines[0].VATAmount, 0.001)
	})

	t.Run("Corrupt Blob Is An Error", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		repo := repository.NewCartRepo(client, cartTestConfig())

		mock.ExpectGet("cart:" + sellerID.String()).SetVal("{not json")

		cart, err := repo.GetCart(ctx, sellerID)

		assert.Nil(t, cart)
		assert.Error(t, err)
	})
}

func TestCartRepository_SaveCart(t *testing.T) {
	ctx := context.Background()
	sellerID := uuid.New()

	client, mock := redismock.NewClientMock()
	repo := repository.NewCartRepo(client, cartTestConfig())

	cart := &models.Cart{SellerID: sellerID, UpdatedAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)}
	data, _ := json.Marshal(cart)

	mock.ExpectSet("cart:"+sellerID.String(), data, 24*time.Hour).SetVal("OK")

	require.NoError(t, repo.SaveCart(ctx, cart))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartRepository_DeleteCart(t *testing.T) {
	ctx := context.Background()
	sellerID := uuid.New()

	client, mock := redismock.NewClientMock()
	repo := repository.NewCartRepo(client, cartTestConfig())

	mock.ExpectDel("cart:" + sellerID.String()).SetVal(1)

	require.NoError(t, repo.DeleteCart(ctx, sellerID))
	assert.NoError(t, mock.ExpectationsWereMet())
}
