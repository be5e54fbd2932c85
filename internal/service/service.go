package service

import (
	"github.com/doclink/doclink/internal/calendar"
	"github.com/doclink/doclink/internal/config"
	"github.com/doclink/doclink/internal/notify"
	"github.com/doclink/doclink/internal/pg"
	"github.com/doclink/doclink/internal/repo"
	authservice "github.com/doclink/doclink/internal/service/authservice"
	bookingservice "github.com/doclink/doclink/internal/service/bookingservice"
	walletservice "github.com/doclink/doclink/internal/service/walletservice"
	pkgauth "github.com/doclink/doclink/pkg/auth"
	"github.com/doclink/doclink/pkg/clients"
)

type Services struct {
	AuthService    *authservice.Service
	WalletService  *walletservice.Service
	BookingService *bookingservice.Service
	NotifyService  *notify.Service
}

func New(cfg *config.Config, repo *repo.Repositories, txManager pg.TXManager, httpClient clients.HTTPClientI) *Services {
	walletService := walletservice.New(repo.WalletRepo, repo.TransactionRepo, txManager)
	notifyService := notify.New(cfg, repo.NotificationRepo, httpClient)
	calendarClient := calendar.New(cfg, httpClient)
	bookingService := bookingservice.New(cfg, repo.ConsultationRepo, repo.UserRepo, walletService, notifyService, calendarClient, txManager)
	authService := authservice.New(repo.UserRepo, walletService, &pkgauth.HashService{}, &pkgauth.JWTService{}, txManager)

	return &Services{
		AuthService:    authService,
		WalletService:  walletService,
		BookingService: bookingService,
		NotifyService:  notifyService,
	}
}
