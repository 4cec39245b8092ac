package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hivetax/hivetax-platform/internal/models"
	"github.com/stretchr/testify/mock"
)

type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type ProductRepository struct {
	mock.Mock
}

func (m *ProductRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *ProductRepository) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *ProductRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *ProductRepository) ListProductsBySeller(ctx context.Context, sellerID uuid.UUID, page, size int) ([]*models.Product, int, error) {
	args := m.Called(ctx, sellerID, page, size)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.Product), args.Int(1), args.Error(2)
}

type TransactionRepository struct {
	mock.Mock
}

func (m *TransactionRepository) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *TransactionRepository) GetTransactionByCode(ctx context.Context, code string) (*models.Transaction, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *TransactionRepository) MarkCompleted(ctx context.Context, code string, buyerID uuid.UUID, method string, paidAt time.Time) error {
	args := m.Called(ctx, code, buyerID, method, paidAt)
	return args.Error(0)
}

func (m *TransactionRepository) ListBySellerBetween(ctx context.Context, sellerID uuid.UUID, from, to time.Time) ([]*models.Transaction, error) {
	args := m.Called(ctx, sellerID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Transaction), args.Error(1)
}

func (m *TransactionRepository) ListByBuyerBetween(ctx context.Context, buyerID uuid.UUID, from, to time.Time) ([]*models.Transaction, error) {
	args := m.Called(ctx, buyerID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Transaction), args.Error(1)
}

func (m *TransactionRepository) ListCompletedBetween(ctx context.Context, from, to time.Time) ([]*models.Transaction, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Transaction), args.Error(1)
}

type CartRepository struct {
	mock.Mock
}

func (m *CartRepository) GetCart(ctx context.Context, sellerID uuid.UUID) (*models.Cart, error) {
	args := m.Called(ctx, sellerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *CartRepository) SaveCart(ctx context.Context, cart *models.Cart) error {
	args := m.Called(ctx, cart)
	return args.Error(0)
}

func (m *CartRepository) DeleteCart(ctx context.Context, sellerID uuid.UUID) error {
	args := m.Called(ctx, sellerID)
	return args.Error(0)
}

type FraudReportRepository struct {
	mock.Mock
}

func (m *FraudReportRepository) CreateReport(ctx context.Context, report *models.FraudReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *FraudReportRepository) GetReportByID(ctx context.Context, id uuid.UUID) (*models.FraudReport, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FraudReport), args.Error(1)
}

func (m *FraudReportRepository) ListReports(ctx context.Context, status models.FraudReportStatus, page, size int) ([]*models.FraudReport, int, error) {
	args := m.Called(ctx, status, page, size)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.FraudReport), args.Int(1), args.Error(2)
}

func (m *FraudReportRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.FraudReportStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
