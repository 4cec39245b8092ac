package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hivetax/hivetax-platform/internal/models"
	"github.com/hivetax/hivetax-platform/internal/utils"
)

type TransactionRepository interface {
	CreateTransaction(ctx context.Context, tx *models.Transaction) error
	GetTransactionByCode(ctx context.Context, code string) (*models.Transaction, error)
	MarkCompleted(ctx context.Context, code string, buyerID uuid.UUID, method string, paidAt time.Time) error
	ListBySellerBetween(ctx context.Context, sellerID uuid.UUID, from, to time.Time) ([]*models.Transaction, error)
	ListByBuyerBetween(ctx context.Context, buyerID uuid.UUID, from, to time.Time) ([]*models.Transaction, error)
	ListCompletedBetween(ctx context.Context, from, to time.Time) ([]*models.Transaction, error)
}

type transactionRepository struct {
	DB *sql.DB
}

func NewTransactionRepo(db *sql.DB) TransactionRepository {
	return &transactionRepository{DB: db}
}

func (r *transactionRepository) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	items, err := json.Marshal(tx.Items)
	if err != nil {
		return fmt.Errorf("marshaling items: %w", err)
	}

	query := `INSERT INTO transactions (code, seller_id, items, subtotal, vat_amount, total, status)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id, created_at
	`

	return r.DB.QueryRowContext(dbCtx, query,
		tx.Code, tx.SellerID, items, tx.Subtotal, tx.VATAmount, tx.Total, tx.Status).
		Scan(&tx.ID, &tx.CreatedAt)
}

func (r *transactionRepository) GetTransactionByCode(ctx context.Context, code string) (*models.Transaction, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	tx := &models.Transaction{}

	var items []byte
	var paymentMethod sql.NullString

	query := `SELECT id, code, seller_id, buyer_id, items, subtotal, vat_amount, total, status, payment_method, created_at, paid_at
			  FROM transactions WHERE code = $1`

	err := r.DB.QueryRowContext(dbCtx, query, code).
		Scan(&tx.ID, &tx.Code, &tx.SellerID, &tx.BuyerID, &items, &tx.Subtotal,
			&tx.VATAmount, &tx.Total, &tx.Status, &paymentMethod, &tx.CreatedAt, &tx.PaidAt)
	if err != nil {
		return nil, fmt.Errorf("querying database: %w", err)
	}

	if err := json.Unmarshal(items, &tx.Items); err != nil {
		return nil, fmt.Errorf("unmarshaling items: %w", err)
	}

	tx.PaymentMethod = paymentMethod.String

	return tx, nil
}

func (r *transactionRepository) MarkCompleted(ctx context.Context, code string, buyerID uuid.UUID, method string, paidAt time.Time) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `UPDATE transactions
			  SET status = $1, buyer_id = $2, payment_method = $3, paid_at = $4
			  WHERE code = $5 AND status = $6`

	result, err := r.DB.ExecContext(dbCtx, query,
		models.TransactionCompleted, buyerID, method, paidAt, code, models.TransactionPending)
	if err != nil {
		return fmt.Errorf("updating transaction: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}

	if rows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *transactionRepository) ListBySellerBetween(ctx context.Context, sellerID uuid.UUID, from, to time.Time) ([]*models.Transaction, error) {
	query := `SELECT id, code, seller_id, buyer_id, items, subtotal, vat_amount, total, status, payment_method, created_at, paid_at
			  FROM transactions
			  WHERE seller_id = $1 AND created_at >= $2 AND created_at < $3
			  ORDER BY created_at DESC`

	return r.listTransactions(ctx, query, sellerID, from, to)
}

func (r *transactionRepository) ListByBuyerBetween(ctx context.Context, buyerID uuid.UUID, from, to time.Time) ([]*models.Transaction, error) {
	query := `SELECT id, code, seller_id, buyer_id, items, subtotal, vat_amount, total, status, payment_method, created_at, paid_at
			  FROM transactions
			  WHERE buyer_id = $1 AND created_at >= $2 AND created_at < $3
			  ORDER BY created_at DESC`

	return r.listTransactions(ctx, query, buyerID, from, to)
}

func (r *transactionRepository) ListCompletedBetween(ctx context.Context, from, to time.Time) ([]*models.Transaction, error) {
	query := `SELECT id, code, seller_id, buyer_id, items, subtotal, vat_amount, total, status, payment_method, created_at, paid_at
			  FROM transactions
			  WHERE status = 'completed' AND created_at >= $1 AND created_at < $2
			  ORDER BY created_at DESC`

	return r.listTransactions(ctx, query, from, to)
}

func (r *transactionRepository) listTransactions(ctx context.Context, query string, args ...any) ([]*models.Transaction, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	rows, err := r.DB.QueryContext(dbCtx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying database: %w", err)
	}
	defer rows.Close()

	var transactions []*models.Transaction

	for rows.Next() {
		tx := &models.Transaction{}

		var items []byte
		var paymentMethod sql.NullString

		if err := rows.Scan(&tx.ID, &tx.Code, &tx.SellerID, &tx.BuyerID, &items, &tx.Subtotal,
			&tx.VATAmount, &tx.Total, &tx.Status, &paymentMethod, &tx.CreatedAt, &tx.PaidAt); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		if err := json.Unmarshal(items, &tx.Items); err != nil {
			return nil, fmt.Errorf("unmarshaling items: %w", err)
		}

		tx.PaymentMethod = paymentMethod.String

		transactions = append(transactions, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}

	return transactions, nil
}
