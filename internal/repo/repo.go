package repo

import (
	"github.com/doclink/doclink/internal/pg"
	consultationrepo "github.com/doclink/doclink/internal/repo/consultation-repo"
	notificationrepo "github.com/doclink/doclink/internal/repo/notification-repo"
	transactionrepo "github.com/doclink/doclink/internal/repo/transaction-repo"
	userrepo "github.com/doclink/doclink/internal/repo/user-repo"
	walletrepo "github.com/doclink/doclink/internal/repo/wallet-repo"
)

type Repositories struct {
	UserRepo         *userrepo.Repository
	WalletRepo       *walletrepo.Repository
	TransactionRepo  *transactionrepo.Repository
	ConsultationRepo *consultationrepo.Repository
	NotificationRepo *notificationrepo.Repository
}

func New(conn pg.Database, txManager pg.TXManager) *Repositories {
	return &Repositories{
		UserRepo:         userrepo.New(conn),
		WalletRepo:       walletrepo.New(conn, txManager),
		TransactionRepo:  transactionrepo.New(conn),
		ConsultationRepo: consultationrepo.New(conn, txManager),
		NotificationRepo: notificationrepo.New(conn),
	}
}
