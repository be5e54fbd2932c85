package walletrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/doclink/doclink/internal/domain"
	"github.com/doclink/doclink/internal/pg"
	"go.uber.org/zap"
)

// ErrBalanceBelowRequired is returned when a conditional debit finds the
// balance under the required floor. The conditional update is what keeps
// concurrent debits from both passing the check.
var ErrBalanceBelowRequired = errors.New("balance below required amount")

type Repository struct {
	db        pg.Database
	txManager pg.TXManager
}

func New(db pg.Database, txManager pg.TXManager) *Repository {
	return &Repository{
		db:        db,
		txManager: txManager,
	}
}

func (r *Repository) GetByUserID(ctx context.Context, userID int) (*domain.Wallet, error) {
	query := `
        SELECT id, user_id, balance, created_at
        FROM wallets
        WHERE user_id = $1
    `
	row := r.db.QueryRow(ctx, query, userID)
	var wallet domain.Wallet
	err := row.Scan(&wallet.ID, &wallet.UserID, &wallet.Balance, &wallet.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("failed to get wallet by user", zap.Error(err))
		return nil, err
	}
	return &wallet, nil
}

func (r *Repository) GetByID(ctx context.Context, walletID int) (*domain.Wallet, error) {
	query := `
        SELECT id, user_id, balance, created_at
        FROM wallets
        WHERE id = $1
    `
	row := r.db.QueryRow(ctx, query, walletID)
	var wallet domain.Wallet
	err := row.Scan(&wallet.ID, &wallet.UserID, &wallet.Balance, &wallet.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("failed to get wallet", zap.Error(err))
		return nil, err
	}
	return &wallet, nil
}

func (r *Repository) Create(ctx context.Context, userID int) (*domain.Wallet, error) {
	query := `
        INSERT INTO wallets (user_id, balance)
        VALUES ($1, 0)
        RETURNING id, user_id, balance, created_at
    `
	row := r.db.QueryRow(ctx, query, userID)
	var wallet domain.Wallet
	err := row.Scan(&wallet.ID, &wallet.UserID, &wallet.Balance, &wallet.CreatedAt)
	if err != nil {
		zap.L().Error("failed to create wallet", zap.Error(err))
		return nil, err
	}
	return &wallet, nil
}

// Credit adds amount to the wallet balance and returns the updated wallet.
func (r *Repository) Credit(ctx context.Context, walletID int, amount int64) (*domain.Wallet, error) {
	var updated domain.Wallet
	query := `
		UPDATE wallets
		SET balance = balance + $1
		WHERE id = $2
		RETURNING id, user_id, balance, created_at
	`
	err := r.txManager.Begin(ctx, func(ctx context.Context) error {
		row := r.db.QueryRow(ctx, query, amount, walletID)
		err := row.Scan(&updated.ID, &updated.UserID, &updated.Balance, &updated.CreatedAt)
		if err != nil {
			zap.L().Error("failed to credit wallet", zap.Error(err))
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Debit subtracts amount from the wallet balance only if the current balance
// is at least required. Check and decrement happen in one statement, so two
// concurrent debits cannot both succeed against the same funds.
func (r *Repository) Debit(ctx context.Context, walletID int, amount, required int64) (*domain.Wallet, error) {
	var updated domain.Wallet
	query := `
		UPDATE wallets
		SET balance = balance - $1
		WHERE id = $2 AND balance >= $3
		RETURNING id, user_id, balance, created_at
	`
	err := r.txManager.Begin(ctx, func(ctx context.Context) error {
		row := r.db.QueryRow(ctx, query, amount, walletID, required)
		err := row.Scan(&updated.ID, &updated.UserID, &updated.Balance, &updated.CreatedAt)
		if err != nil {
			if err == pgx.ErrNoRows {
				return ErrBalanceBelowRequired
			}
			zap.L().Error("failed to debit wallet", zap.Error(err))
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
