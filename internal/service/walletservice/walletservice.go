package walletservice

import (
	"context"
	"errors"

	"github.com/doclink/doclink/internal/domain"
	"github.com/doclink/doclink/internal/pg"
	walletrepo "github.com/doclink/doclink/internal/repo/wallet-repo"
	"go.uber.org/zap"
)

type WalletRepo interface {
	GetByUserID(ctx context.Context, userID int) (*domain.Wallet, error)
	GetByID(ctx context.Context, walletID int) (*domain.Wallet, error)
	Create(ctx context.Context, userID int) (*domain.Wallet, error)
	Credit(ctx context.Context, walletID int, amount int64) (*domain.Wallet, error)
	Debit(ctx context.Context, walletID int, amount, required int64) (*domain.Wallet, error)
}

type TransactionRepo interface {
	Create(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error)
	ListByWalletID(ctx context.Context, walletID int) ([]domain.Transaction, error)
}

var (
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrWalletNotFound    = errors.New("wallet not found")
)

type Service struct {
	walletRepo      WalletRepo
	transactionRepo TransactionRepo
	txManager       pg.TXManager
}

func New(walletRepo WalletRepo, transactionRepo TransactionRepo, txManager pg.TXManager) *Service {
	return &Service{
		walletRepo:      walletRepo,
		transactionRepo: transactionRepo,
		txManager:       txManager,
	}
}

func (s *Service) CreateWallet(ctx context.Context, userID int) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.Create(ctx, userID)
	if err != nil {
		zap.L().Error("failed to create wallet", zap.Error(err))
		return nil, err
	}
	return wallet, nil
}

func (s *Service) GetWallet(ctx context.Context, userID int) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		zap.L().Error("failed to get wallet", zap.Error(err))
		return nil, err
	}
	if wallet == nil {
		return nil, ErrWalletNotFound
	}
	return wallet, nil
}

// Fund credits the wallet and appends a top-up transaction. Both writes
// commit or roll back together.
func (s *Service) Fund(ctx context.Context, walletID int, amount int64, description, promoCode string) (*domain.Wallet, *domain.Transaction, error) {
	if amount <= 0 {
		return nil, nil, ErrInvalidAmount
	}

	var wallet *domain.Wallet
	var transaction *domain.Transaction
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		existing, err := s.walletRepo.GetByID(ctx, walletID)
		if err != nil {
			return err
		}
		if existing == nil {
			return ErrWalletNotFound
		}

		wallet, err = s.walletRepo.Credit(ctx, walletID, amount)
		if err != nil {
			zap.L().Error("failed to credit wallet", zap.Error(err))
			return err
		}

		transaction, err = s.transactionRepo.Create(ctx, &domain.Transaction{
			WalletID:    walletID,
			Amount:      amount,
			Kind:        domain.TopUpKind,
			Description: description,
			PromoCode:   promoCode,
		})
		if err != nil {
			zap.L().Error("failed to create transaction record", zap.Error(err))
			return err
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return wallet, transaction, nil
}

// Withdraw debits the wallet and appends a withdrawal transaction with a
// negative amount. The balance check and the decrement are one conditional
// update, so concurrent withdrawals cannot overdraw.
func (s *Service) Withdraw(ctx context.Context, walletID int, amount int64, description string) (*domain.Wallet, *domain.Transaction, error) {
	if amount <= 0 {
		return nil, nil, ErrInvalidAmount
	}
	return s.debit(ctx, walletID, amount, amount, domain.WithdrawalKind, description)
}

// Charge debits consultation fees. The required floor may exceed the charged
// amount when a consultation type demands a higher minimum balance.
func (s *Service) Charge(ctx context.Context, walletID int, amount, required int64, kind domain.TransactionKind, description string) (*domain.Wallet, *domain.Transaction, error) {
	if amount <= 0 {
		return nil, nil, ErrInvalidAmount
	}
	if required < amount {
		required = amount
	}
	return s.debit(ctx, walletID, amount, required, kind, description)
}

func (s *Service) debit(ctx context.Context, walletID int, amount, required int64, kind domain.TransactionKind, description string) (*domain.Wallet, *domain.Transaction, error) {
	var wallet *domain.Wallet
	var transaction *domain.Transaction
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		existing, err := s.walletRepo.GetByID(ctx, walletID)
		if err != nil {
			return err
		}
		if existing == nil {
			return ErrWalletNotFound
		}

		wallet, err = s.walletRepo.Debit(ctx, walletID, amount, required)
		if err != nil {
			if errors.Is(err, walletrepo.ErrBalanceBelowRequired) {
				return ErrInsufficientFunds
			}
			zap.L().Error("failed to debit wallet", zap.Error(err))
			return err
		}

		transaction, err = s.transactionRepo.Create(ctx, &domain.Transaction{
			WalletID:    walletID,
			Amount:      -amount,
			Kind:        kind,
			Description: description,
		})
		if err != nil {
			zap.L().Error("failed to create transaction record", zap.Error(err))
			return err
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return wallet, transaction, nil
}

// ListTransactions returns the wallet ledger, newest first.
func (s *Service) ListTransactions(ctx context.Context, walletID int) ([]domain.Transaction, error) {
	transactions, err := s.transactionRepo.ListByWalletID(ctx, walletID)
	if err != nil {
		zap.L().Error("failed to fetch transactions", zap.Error(err))
		return nil, err
	}
	return transactions, nil
}
