package handlers

import (
	"net/http"

	_ "github.com/doclink/doclink/docs"
	authhandlers "github.com/doclink/doclink/internal/handlers/auth"
	consultationhandlers "github.com/doclink/doclink/internal/handlers/consultations"
	wallethandlers "github.com/doclink/doclink/internal/handlers/wallet"
	"github.com/doclink/doclink/internal/service"
	"github.com/doclink/doclink/pkg/auth"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	metrics "github.com/slok/go-http-metrics/metrics/prometheus"
	metricsmw "github.com/slok/go-http-metrics/middleware"
	"github.com/slok/go-http-metrics/middleware/std"
	httpSwagger "github.com/swaggo/http-swagger"
)

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
}

type WalletHandler interface {
	GetWallet(w http.ResponseWriter, r *http.Request)
	TopUp(w http.ResponseWriter, r *http.Request)
	Withdraw(w http.ResponseWriter, r *http.Request)
	GetTransactions(w http.ResponseWriter, r *http.Request)
}

type ConsultationHandler interface {
	CreateSession(w http.ResponseWriter, r *http.Request)
	Book(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
	Reschedule(w http.ResponseWriter, r *http.Request)
	Accept(w http.ResponseWriter, r *http.Request)
}

type Handlers struct {
	AuthHandler         AuthHandler
	WalletHandler       WalletHandler
	ConsultationHandler ConsultationHandler
}

func New(s *service.Services) *Handlers {
	return &Handlers{
		AuthHandler:         authhandlers.New(s.AuthService),
		WalletHandler:       wallethandlers.New(s.WalletService),
		ConsultationHandler: consultationhandlers.New(s.BookingService),
	}
}

func (h *Handlers) InitRoutes(r chi.Router) chi.Router {
	mdlw := metricsmw.New(metricsmw.Config{
		Recorder: metrics.NewRecorder(metrics.Config{}),
	})

	r.Use(
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		func(next http.Handler) http.Handler {
			return std.Handler("", mdlw, next)
		},
	)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("doc.json"),
	))
	r.Route("/api", func(r chi.Router) {
		r.Route("/user", func(r chi.Router) {
			r.Post("/register", h.AuthHandler.Register)
			r.Post("/login", h.AuthHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(auth.AuthMiddleware)
				r.Route("/wallet", func(r chi.Router) {
					r.Get("/", h.WalletHandler.GetWallet)
					r.Post("/topup", h.WalletHandler.TopUp)
					r.Post("/withdraw", h.WalletHandler.Withdraw)
					r.Get("/transactions", h.WalletHandler.GetTransactions)
				})
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.AuthMiddleware)
			r.Post("/consultations", h.ConsultationHandler.CreateSession)
			r.Route("/appointments", func(r chi.Router) {
				r.Post("/", h.ConsultationHandler.Book)
				r.Post("/{id}/cancel", h.ConsultationHandler.Cancel)
				r.Post("/{id}/reschedule", h.ConsultationHandler.Reschedule)
				r.Post("/{id}/accept", h.ConsultationHandler.Accept)
			})
		})
	})

	return r
}
