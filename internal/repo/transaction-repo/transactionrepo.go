package transactionrepo

import (
	"context"

	"github.com/google/uuid"

	"github.com/doclink/doclink/internal/domain"
	"github.com/doclink/doclink/internal/pg"
	"go.uber.org/zap"
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

// Create appends a ledger entry. Rows are never updated or deleted.
func (r *Repository) Create(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	query := `
		INSERT INTO transactions (id, wallet_id, amount, kind, description, promo_code)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	err := r.db.QueryRow(ctx, query, tx.ID, tx.WalletID, tx.Amount, tx.Kind, tx.Description, tx.PromoCode).Scan(&tx.CreatedAt)
	if err != nil {
		zap.L().Error("can't save transaction", zap.Error(err))
		return nil, err
	}
	return tx, nil
}

func (r *Repository) ListByWalletID(ctx context.Context, walletID int) ([]domain.Transaction, error) {
	query := `
        SELECT id, wallet_id, amount, kind, description, promo_code, created_at
        FROM transactions
        WHERE wallet_id = $1
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query, walletID)
	if err != nil {
		zap.L().Error("failed to fetch transactions", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var transactions []domain.Transaction
	for rows.Next() {
		var tx domain.Transaction
		err := rows.Scan(&tx.ID, &tx.WalletID, &tx.Amount, &tx.Kind, &tx.Description, &tx.PromoCode, &tx.CreatedAt)
		if err != nil {
			zap.L().Error("failed to scan transaction row", zap.Error(err))
			return nil, err
		}
		transactions = append(transactions, tx)
	}

	return transactions, nil
}
