package bookingservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/doclink/doclink/internal/config"
	"github.com/doclink/doclink/internal/domain"
	"github.com/doclink/doclink/internal/pg"
	"github.com/doclink/doclink/internal/service/walletservice"
	"go.uber.org/zap"
)

type ConsultationRepo interface {
	Create(ctx context.Context, c *domain.Consultation) (*domain.Consultation, error)
	FindByID(ctx context.Context, id int) (*domain.Consultation, error)
	Cancel(ctx context.Context, id int, reason string) (*domain.Consultation, error)
	Confirm(ctx context.Context, id int, calendarEventID, meetingLink string) (*domain.Consultation, error)
	Reschedule(ctx context.Context, id int, startsAt, endsAt time.Time) (*domain.Consultation, error)
}

type UserRepo interface {
	Exists(ctx context.Context, id int, role domain.UserRole) (bool, error)
}

// Ledger is the wallet service surface the booking flow depends on.
type Ledger interface {
	GetWallet(ctx context.Context, userID int) (*domain.Wallet, error)
	Charge(ctx context.Context, walletID int, amount, required int64, kind domain.TransactionKind, description string) (*domain.Wallet, *domain.Transaction, error)
}

// Notifier is fire-and-forget: delivery failures never affect booking
// outcomes.
type Notifier interface {
	Notify(ctx context.Context, recipientID int, title, message, notificationType string) error
}

type CalendarEvent struct {
	EventID     string
	MeetingLink string
}

type Calendar interface {
	CreateEvent(ctx context.Context, c *domain.Consultation) (*CalendarEvent, error)
}

var (
	ErrNotFound               = errors.New("appointment not found")
	ErrUnauthorized           = errors.New("requester is not a party to this appointment")
	ErrInvalidStateTransition = errors.New("invalid appointment state transition")
	ErrInvalidSchedule        = errors.New("invalid appointment date or time")
)

const sessionDuration = time.Hour

type Service struct {
	cfg              *config.Config
	consultationRepo ConsultationRepo
	userRepo         UserRepo
	ledger           Ledger
	notifier         Notifier
	calendar         Calendar
	txManager        pg.TXManager
}

func New(cfg *config.Config, consultationRepo ConsultationRepo, userRepo UserRepo, ledger Ledger, notifier Notifier, calendar Calendar, txManager pg.TXManager) *Service {
	return &Service{
		cfg:              cfg,
		consultationRepo: consultationRepo,
		userRepo:         userRepo,
		ledger:           ledger,
		notifier:         notifier,
		calendar:         calendar,
		txManager:        txManager,
	}
}

// CreateSession starts an instant consultation. The consultation row and the
// wallet charge commit in one transaction: a failed charge leaves no
// consultation behind.
func (s *Service) CreateSession(ctx context.Context, userID, doctorID int, consultationType domain.ConsultationType, symptoms string) (*domain.Consultation, error) {
	exists, err := s.userRepo.Exists(ctx, doctorID, domain.DoctorRole)
	if err != nil {
		return nil, err
	}
	if !exists {
		zap.L().Info("doctor not found", zap.Int("doctorID", doctorID))
		return nil, ErrNotFound
	}

	wallet, err := s.ledger.GetWallet(ctx, userID)
	if err != nil {
		return nil, err
	}

	required := s.cfg.MinBalanceFor(string(consultationType))
	if wallet.Balance < required {
		zap.L().Info("balance below consultation minimum",
			zap.Int64("balance", wallet.Balance),
			zap.Int64("required", required),
		)
		return nil, walletservice.ErrInsufficientFunds
	}

	now := time.Now()
	consultation := &domain.Consultation{
		PatientID: userID,
		DoctorID:  doctorID,
		Type:      consultationType,
		Status:    domain.ConfirmedStatus,
		Symptoms:  symptoms,
		StartsAt:  now,
		EndsAt:    now.Add(sessionDuration),
	}

	err = s.txManager.Begin(ctx, func(ctx context.Context) error {
		if _, err := s.consultationRepo.Create(ctx, consultation); err != nil {
			return err
		}
		description := fmt.Sprintf("%s consultation #%d", consultationType, consultation.ID)
		if _, _, err := s.ledger.Charge(ctx, wallet.ID, required, required, domain.ConsultationChargeKind, description); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyParties(ctx, consultation, "Consultation started", "consultation_started")
	return consultation, nil
}

// BookConsultation schedules a pending appointment over a one-hour window.
// Notifications are sent after the commit and cannot roll it back.
func (s *Service) BookConsultation(ctx context.Context, doctorID, patientID int, date, timeOfDay string) (*domain.Consultation, error) {
	startsAt, err := parseWindow(date, timeOfDay)
	if err != nil {
		return nil, err
	}

	exists, err := s.userRepo.Exists(ctx, doctorID, domain.DoctorRole)
	if err != nil {
		return nil, err
	}
	if !exists {
		zap.L().Info("doctor not found", zap.Int("doctorID", doctorID))
		return nil, ErrNotFound
	}
	exists, err = s.userRepo.Exists(ctx, patientID, domain.PatientRole)
	if err != nil {
		return nil, err
	}
	if !exists {
		zap.L().Info("patient not found", zap.Int("patientID", patientID))
		return nil, ErrNotFound
	}

	consultation := &domain.Consultation{
		PatientID: patientID,
		DoctorID:  doctorID,
		Type:      domain.InPersonConsultation,
		Status:    domain.PendingStatus,
		StartsAt:  startsAt,
		EndsAt:    startsAt.Add(sessionDuration),
	}
	if _, err := s.consultationRepo.Create(ctx, consultation); err != nil {
		zap.L().Error("can't save consultation", zap.Error(err))
		return nil, err
	}

	s.notifyParties(ctx, consultation, "Appointment booked", "appointment_booked")
	return consultation, nil
}

// CancelAppointment moves a pending or confirmed appointment to cancelled.
// The transition is a conditional update; a concurrent conflicting
// transition makes this call fail instead of overwriting.
func (s *Service) CancelAppointment(ctx context.Context, appointmentID, requestingUserID int, reason, otherReason string) (*domain.Consultation, error) {
	consultation, err := s.consultationRepo.FindByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if consultation == nil {
		return nil, ErrNotFound
	}
	if requestingUserID != consultation.PatientID && requestingUserID != consultation.DoctorID {
		zap.L().Info("cancel requested by non-party", zap.Int("userID", requestingUserID), zap.Int("appointmentID", appointmentID))
		return nil, ErrNotFound
	}
	if consultation.Status == domain.CancelledStatus || consultation.Status == domain.CompletedStatus {
		return nil, ErrInvalidStateTransition
	}

	if reason == "Others" && otherReason != "" {
		reason = otherReason
	}

	cancelled, err := s.consultationRepo.Cancel(ctx, appointmentID, reason)
	if err != nil {
		return nil, err
	}
	if cancelled == nil {
		return nil, ErrInvalidStateTransition
	}

	s.notifyParties(ctx, cancelled, "Appointment cancelled", "appointment_cancelled")
	return cancelled, nil
}

// RescheduleAppointment moves the appointment to a new one-hour window and
// confirms it.
func (s *Service) RescheduleAppointment(ctx context.Context, appointmentID int, date, timeOfDay string) (*domain.Consultation, error) {
	startsAt, err := parseWindow(date, timeOfDay)
	if err != nil {
		return nil, err
	}

	consultation, err := s.consultationRepo.FindByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if consultation == nil {
		return nil, ErrNotFound
	}

	rescheduled, err := s.consultationRepo.Reschedule(ctx, appointmentID, startsAt, startsAt.Add(sessionDuration))
	if err != nil {
		return nil, err
	}
	if rescheduled == nil {
		return nil, ErrInvalidStateTransition
	}

	s.notifyParties(ctx, rescheduled, "Appointment rescheduled", "appointment_rescheduled")
	return rescheduled, nil
}

// AcceptAppointment confirms a pending appointment on behalf of its doctor
// and records the external calendar event. The calendar call precedes the
// transition; a calendar failure leaves the appointment pending.
func (s *Service) AcceptAppointment(ctx context.Context, appointmentID, doctorID int) (*domain.Consultation, error) {
	consultation, err := s.consultationRepo.FindByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if consultation == nil {
		return nil, ErrNotFound
	}
	if consultation.DoctorID != doctorID {
		zap.L().Info("accept requested by wrong doctor", zap.Int("doctorID", doctorID), zap.Int("appointmentID", appointmentID))
		return nil, ErrUnauthorized
	}
	if consultation.Status != domain.PendingStatus {
		return nil, ErrInvalidStateTransition
	}

	event, err := s.calendar.CreateEvent(ctx, consultation)
	if err != nil {
		zap.L().Error("can't create calendar event", zap.Error(err))
		return nil, fmt.Errorf("can't create calendar event: %w", err)
	}

	confirmed, err := s.consultationRepo.Confirm(ctx, appointmentID, event.EventID, event.MeetingLink)
	if err != nil {
		return nil, err
	}
	if confirmed == nil {
		return nil, ErrInvalidStateTransition
	}

	if err := s.notifier.Notify(ctx, confirmed.PatientID, "Appointment confirmed", notificationMessage(confirmed), "appointment_confirmed"); err != nil {
		zap.L().Error("failed to queue notification", zap.Error(err))
	}
	return confirmed, nil
}

func (s *Service) notifyParties(ctx context.Context, c *domain.Consultation, title, notificationType string) {
	message := notificationMessage(c)
	if err := s.notifier.Notify(ctx, c.PatientID, title, message, notificationType); err != nil {
		zap.L().Error("failed to queue patient notification", zap.Error(err))
	}
	if err := s.notifier.Notify(ctx, c.DoctorID, title, message, notificationType); err != nil {
		zap.L().Error("failed to queue doctor notification", zap.Error(err))
	}
}

func notificationMessage(c *domain.Consultation) string {
	return fmt.Sprintf("Appointment #%d on %s", c.ID, c.StartsAt.Format("2006-01-02 15:04"))
}

func parseWindow(date, timeOfDay string) (time.Time, error) {
	startsAt, err := time.ParseInLocation("2006-01-02 15:04", date+" "+timeOfDay, time.Local)
	if err != nil {
		zap.L().Info("invalid schedule", zap.String("date", date), zap.String("time", timeOfDay))
		return time.Time{}, ErrInvalidSchedule
	}
	return startsAt, nil
}
