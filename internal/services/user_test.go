package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/hivetax/hivetax-platform/internal/config"
	appErrors "github.com/hivetax/hivetax-platform/internal/errors"
	"github.com/hivetax/hivetax-platform/internal/models"
	repository "github.com/hivetax/hivetax-platform/internal/repositories"
	"github.com/hivetax/hivetax-platform/internal/repositories/mocks"
	service "github.com/hivetax/hivetax-platform/internal/services"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testJWTKey = []byte("test-key")

func newLoginFixture(t *testing.T) (service.UserService, *mocks.UserRepository, redismock.ClientMock) {
	t.Helper()

	mockUserRepo := new(mocks.UserRepository)

	client, redisMock := redismock.NewClientMock()
	cfg := &config.Config{
		RateConfig: config.RateConfig{MaxAttempts: 5, WindowSize: 15 * time.Second},
		Security:   config.Security{SessionTTL: time.Hour},
	}
	redisRepo := repository.NewRedisRepoWithClient(client, cfg)

	userService := service.NewUserService(mockUserRepo, redisRepo, testJWTKey, time.Hour)

	return userService, mockUserRepo, redisMock
}

// Attempt timestamps come from the clock, so the pipeline expectations match
// on shape only.
func matchAnything(expected, actual []interface{}) error {
	return nil
}

func expectLoginAttempt(redisMock redismock.ClientMock, email string, attempts int64) {
	key := "login_attempts:" + email

	redisMock.CustomMatch(matchAnything).ExpectZRemRangeByScore(key, "0", "0").SetVal(0)
	redisMock.CustomMatch(matchAnything).ExpectZAdd(key, redis.Z{}).SetVal(1)
	redisMock.ExpectZCard(key).SetVal(attempts)
	redisMock.ExpectExpire(key, 15*time.Second).SetVal(true)
}

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		userService, mockUserRepo, _ := newLoginFixture(t)

		req := &models.RegisterRequest{
			Name:     "ABC Groceries",
			Email:    "seller@example.com",
			Password: "P@ssword123!",
			Role:     models.RoleSeller,
		}

		mockUserRepo.On("GetUserByEmail", ctx, req.Email).Return(nil, errors.New("not found")).Once()
		mockUserRepo.On("CreateUser", ctx, mock.AnythingOfType("*models.User")).Return(nil).Once()

		user, err := userService.Register(ctx, req)

		require.NoError(t, err)
		assert.Equal(t, models.RoleSeller, user.Role)
		// Stored as a bcrypt hash, never plaintext.
		assert.NotEqual(t, req.Password, user.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)))
		mockUserRepo.AssertExpectations(t)
	})

	t.Run("Failure - Duplicate Email", func(t *testing.T) {
		userService, mockUserRepo, _ := newLoginFixture(t)

		req := &models.RegisterRequest{
			Name:     "ABC Groceries",
			Email:    "seller@example.com",
			Password: "P@ssword123!",
			Role:     models.RoleSeller,
		}

		mockUserRepo.On("GetUserByEmail", ctx, req.Email).
			Return(&models.User{ID: uuid.New(), Email: req.Email}, nil).Once()

		user, err := userService.Register(ctx, req)

		assert.Nil(t, user)
		var appErr *appErrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeDuplicateEntry, appErr.Code)
	})
}

func TestUserService_Login(t *testing.T) {
	ctx := context.Background()
	password := "P@ssword123!"

	t.Run("Success - Issues Token And Session", func(t *testing.T) {
		userService, mockUserRepo, redisMock := newLoginFixture(t)

		hashed, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		user := &models.User{
			ID:       uuid.New(),
			Name:     "Bwalya Mwansa",
			Email:    "buyer@example.com",
			Role:     models.RoleBuyer,
			Password: string(hashed),
		}

		expectLoginAttempt(redisMock, user.Email, 1)
		mockUserRepo.On("GetUserByEmail", ctx, user.Email).Return(user, nil).Once()

		// The session record carries the issue time.
		redisMock.Regexp().ExpectSet("session:"+user.ID.String(), `.*`, time.Hour).SetVal("OK")

		resp, err := userService.Login(ctx, &models.LoginRequest{Email: user.Email, Password: password})

		require.NoError(t, err)
		assert.True(t, resp.Success)
		require.NotEmpty(t, resp.Token)

		claims := &models.Claims{}
		parsed, err := jwt.ParseWithClaims(resp.Token, claims, func(t *jwt.Token) (any, error) {
			return testJWTKey, nil
		})
		require.NoError(t, err)
		assert.True(t, parsed.Valid)
		assert.Equal(t, user.ID, claims.UserID)
		assert.Equal(t, models.RoleBuyer, claims.Role)
	})

	t.Run("Failure - Wrong Password", func(t *testing.T) {
		userService, mockUserRepo, redisMock := newLoginFixture(t)

		hashed, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		user := &models.User{ID: uuid.New(), Email: "buyer@example.com", Password: string(hashed)}

		expectLoginAttempt(redisMock, user.Email, 2)
		mockUserRepo.On("GetUserByEmail", ctx, user.Email).Return(user, nil).Once()

		resp, err := userService.Login(ctx, &models.LoginRequest{Email: user.Email, Password: "wrong"})

		require.NoError(t, err)
		assert.False(t, resp.Success)
		assert.Empty(t, resp.Token)
		assert.Equal(t, 3, resp.RemainingTries)
	})

	t.Run("Failure - Rate Limited", func(t *testing.T) {
		userService, _, redisMock := newLoginFixture(t)

		email := "buyer@example.com"
		key := "login_attempts:" + email

		redisMock.CustomMatch(matchAnything).ExpectZRemRangeByScore(key, "0", "0").SetVal(0)
		redisMock.CustomMatch(matchAnything).ExpectZAdd(key, redis.Z{}).SetVal(1)
		redisMock.ExpectZCard(key).SetVal(5)
		redisMock.ExpectExpire(key, 15*time.Second).SetVal(true)
		redisMock.CustomMatch(matchAnything).ExpectZRange(key, 0, 0).SetVal([]string{"1700000000"})

		resp, err := userService.Login(ctx, &models.LoginRequest{Email: email, Password: password})

		require.NoError(t, err)
		assert.False(t, resp.Success)
		assert.Contains(t, resp.Message, "Too many login attempts")
	})
}

func TestUserService_Logout(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Session Deleted", func(t *testing.T) {
		userService, _, redisMock := newLoginFixture(t)

		id := uuid.New()
		redisMock.ExpectDel("session:" + id.String()).SetVal(1)

		require.NoError(t, userService.Logout(ctx, id))
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("Failure - Redis Error", func(t *testing.T) {
		userService, _, redisMock := newLoginFixture(t)

		id := uuid.New()
		redisMock.ExpectDel("session:" + id.String()).SetErr(errors.New("connection refused"))

		err := userService.Logout(ctx, id)

		var appErr *appErrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeThirdPartyError, appErr.Code)
	})
}

func TestUserService_GetUserByID(t *testing.T) {
	ctx := context.Background()

	t.Run("Not Found", func(t *testing.T) {
		userService, mockUserRepo, _ := newLoginFixture(t)

		id := uuid.New()
		mockUserRepo.On("GetUserByID", ctx, id).Return(nil, errors.New("no rows")).Once()

		user, err := userService.GetUserByID(ctx, id)

		assert.Nil(t, user)
		var appErr *appErrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
	})
}
