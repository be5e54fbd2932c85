package bookingservice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/doclink/doclink/internal/config"
	"github.com/doclink/doclink/internal/domain"
	"github.com/doclink/doclink/internal/pg"
	"github.com/doclink/doclink/internal/service/walletservice"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"
)

type mocks struct {
	consultationRepo *MockConsultationRepo
	userRepo         *MockUserRepo
	ledger           *MockLedger
	notifier         *MockNotifier
	calendar         *MockCalendar
	txManager        *pg.MockTXManager
}

func NewMock(t *testing.T) (*Service, *mocks) {
	ctrl := gomock.NewController(t)
	m := &mocks{
		consultationRepo: NewMockConsultationRepo(ctrl),
		userRepo:         NewMockUserRepo(ctrl),
		ledger:           NewMockLedger(ctrl),
		notifier:         NewMockNotifier(ctrl),
		calendar:         NewMockCalendar(ctrl),
		txManager:        pg.NewMockTXManager(ctrl),
	}
	cfg := &config.Config{
		MinBalanceMessaging: 4000,
		MinBalanceConsult:   10500,
	}
	service := New(cfg, m.consultationRepo, m.userRepo, m.ledger, m.notifier, m.calendar, m.txManager)
	defer ctrl.Finish()
	return service, m
}

func passthroughBegin(txManager *pg.MockTXManager) {
	txManager.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, fn func(ctx context.Context) error) error {
		return fn(ctx)
	})
}

func TestCreateSession(t *testing.T) {
	service, m := NewMock(t)

	tests := []struct {
		name             string
		consultationType domain.ConsultationType
		prepareMock      func()
		expectedError    error
	}{
		{
			name:             "Messaging session with sufficient balance",
			consultationType: domain.MessagingConsultation,
			prepareMock: func() {
				m.userRepo.EXPECT().Exists(gomock.Any(), 2, domain.DoctorRole).Return(true, nil)
				m.ledger.EXPECT().GetWallet(gomock.Any(), 1).Return(&domain.Wallet{ID: 5, UserID: 1, Balance: 4000}, nil)
				passthroughBegin(m.txManager)
				m.consultationRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, c *domain.Consultation) (*domain.Consultation, error) {
					c.ID = 10
					return c, nil
				})
				m.ledger.EXPECT().Charge(gomock.Any(), 5, int64(4000), int64(4000), domain.ConsultationChargeKind, gomock.Any()).
					Return(&domain.Wallet{ID: 5, UserID: 1, Balance: 0}, &domain.Transaction{}, nil)
				m.notifier.EXPECT().Notify(gomock.Any(), 1, "Consultation started", gomock.Any(), "consultation_started").Return(nil)
				m.notifier.EXPECT().Notify(gomock.Any(), 2, "Consultation started", gomock.Any(), "consultation_started").Return(nil)
			},
			expectedError: nil,
		},
		{
			name:             "Messaging session below minimum balance",
			consultationType: domain.MessagingConsultation,
			prepareMock: func() {
				m.userRepo.EXPECT().Exists(gomock.Any(), 2, domain.DoctorRole).Return(true, nil)
				m.ledger.EXPECT().GetWallet(gomock.Any(), 1).Return(&domain.Wallet{ID: 5, UserID: 1, Balance: 3999}, nil)
			},
			expectedError: walletservice.ErrInsufficientFunds,
		},
		{
			name:             "Video session below its higher minimum",
			consultationType: domain.VideoConsultation,
			prepareMock: func() {
				m.userRepo.EXPECT().Exists(gomock.Any(), 2, domain.DoctorRole).Return(true, nil)
				m.ledger.EXPECT().GetWallet(gomock.Any(), 1).Return(&domain.Wallet{ID: 5, UserID: 1, Balance: 10499}, nil)
			},
			expectedError: walletservice.ErrInsufficientFunds,
		},
		{
			name:             "Video session at exactly the minimum",
			consultationType: domain.VideoConsultation,
			prepareMock: func() {
				m.userRepo.EXPECT().Exists(gomock.Any(), 2, domain.DoctorRole).Return(true, nil)
				m.ledger.EXPECT().GetWallet(gomock.Any(), 1).Return(&domain.Wallet{ID: 5, UserID: 1, Balance: 10500}, nil)
				passthroughBegin(m.txManager)
				m.consultationRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, c *domain.Consultation) (*domain.Consultation, error) {
					c.ID = 11
					return c, nil
				})
				m.ledger.EXPECT().Charge(gomock.Any(), 5, int64(10500), int64(10500), domain.ConsultationChargeKind, gomock.Any()).
					Return(&domain.Wallet{ID: 5, UserID: 1, Balance: 0}, &domain.Transaction{}, nil)
				m.notifier.EXPECT().Notify(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)
			},
			expectedError: nil,
		},
		{
			name:             "Doctor not found",
			consultationType: domain.MessagingConsultation,
			prepareMock: func() {
				m.userRepo.EXPECT().Exists(gomock.Any(), 2, domain.DoctorRole).Return(false, nil)
			},
			expectedError: ErrNotFound,
		},
		{
			name:             "Wallet not found",
			consultationType: domain.MessagingConsultation,
			prepareMock: func() {
				m.userRepo.EXPECT().Exists(gomock.Any(), 2, domain.DoctorRole).Return(true, nil)
				m.ledger.EXPECT().GetWallet(gomock.Any(), 1).Return(nil, walletservice.ErrWalletNotFound)
			},
			expectedError: walletservice.ErrWalletNotFound,
		},
		{
			name:             "Charge fails inside transaction",
			consultationType: domain.MessagingConsultation,
			prepareMock: func() {
				m.userRepo.EXPECT().Exists(gomock.Any(), 2, domain.DoctorRole).Return(true, nil)
				m.ledger.EXPECT().GetWallet(gomock.Any(), 1).Return(&domain.Wallet{ID: 5, UserID: 1, Balance: 4000}, nil)
				passthroughBegin(m.txManager)
				m.consultationRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, c *domain.Consultation) (*domain.Consultation, error) {
					c.ID = 12
					return c, nil
				})
				m.ledger.EXPECT().Charge(gomock.Any(), 5, int64(4000), int64(4000), domain.ConsultationChargeKind, gomock.Any()).
					Return(nil, nil, walletservice.ErrInsufficientFunds)
			},
			expectedError: walletservice.ErrInsufficientFunds,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			consultation, err := service.CreateSession(context.Background(), 1, 2, tt.consultationType, "persistent headache")
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
				assert.Nil(t, consultation)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, consultation)
				assert.Equal(t, domain.ConfirmedStatus, consultation.Status)
				assert.Equal(t, tt.consultationType, consultation.Type)
				assert.Equal(t, time.Hour, consultation.EndsAt.Sub(consultation.StartsAt))
			}
		})
	}
}

func TestBookConsultation(t *testing.T) {
	service, m := NewMock(t)

	tests := []struct {
		name          string
		date          string
		timeOfDay     string
		prepareMock   func()
		expectedError error
	}{
		{
			name:      "Successful booking",
			date:      "2025-02-14",
			timeOfDay: "10:30",
			prepareMock: func() {
				m.userRepo.EXPECT().Exists(gomock.Any(), 2, domain.DoctorRole).Return(true, nil)
				m.userRepo.EXPECT().Exists(gomock.Any(), 1, domain.PatientRole).Return(true, nil)
				m.consultationRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, c *domain.Consultation) (*domain.Consultation, error) {
					c.ID = 10
					return c, nil
				})
				m.notifier.EXPECT().Notify(gomock.Any(), gomock.Any(), "Appointment booked", gomock.Any(), "appointment_booked").Return(nil).Times(2)
			},
			expectedError: nil,
		},
		{
			name:          "Malformed date rejected",
			date:          "14-02-2025",
			timeOfDay:     "10:30",
			prepareMock:   func() {},
			expectedError: ErrInvalidSchedule,
		},
		{
			name:      "Doctor not found",
			date:      "2025-02-14",
			timeOfDay: "10:30",
			prepareMock: func() {
				m.userRepo.EXPECT().Exists(gomock.Any(), 2, domain.DoctorRole).Return(false, nil)
			},
			expectedError: ErrNotFound,
		},
		{
			name:      "Patient not found",
			date:      "2025-02-14",
			timeOfDay: "10:30",
			prepareMock: func() {
				m.userRepo.EXPECT().Exists(gomock.Any(), 2, domain.DoctorRole).Return(true, nil)
				m.userRepo.EXPECT().Exists(gomock.Any(), 1, domain.PatientRole).Return(false, nil)
			},
			expectedError: ErrNotFound,
		},
		{
			name:      "Error saving consultation",
			date:      "2025-02-14",
			timeOfDay: "10:30",
			prepareMock: func() {
				m.userRepo.EXPECT().Exists(gomock.Any(), 2, domain.DoctorRole).Return(true, nil)
				m.userRepo.EXPECT().Exists(gomock.Any(), 1, domain.PatientRole).Return(true, nil)
				m.consultationRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, errors.New("db error"))
			},
			expectedError: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			consultation, err := service.BookConsultation(context.Background(), 2, 1, tt.date, tt.timeOfDay)
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
				assert.Nil(t, consultation)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, consultation)
				assert.Equal(t, domain.PendingStatus, consultation.Status)
				assert.Equal(t, domain.InPersonConsultation, consultation.Type)
				assert.Equal(t, time.Hour, consultation.EndsAt.Sub(consultation.StartsAt))
			}
		})
	}
}

func TestCancelAppointment(t *testing.T) {
	service, m := NewMock(t)

	pending := &domain.Consultation{
		ID:        10,
		PatientID: 1,
		DoctorID:  2,
		Status:    domain.PendingStatus,
	}

	tests := []struct {
		name           string
		userID         int
		reason         string
		otherReason    string
		prepareMock    func()
		expectedError  error
		expectedReason string
	}{
		{
			name:   "Patient cancels pending appointment",
			userID: 1,
			reason: "Schedule conflict",
			prepareMock: func() {
				m.consultationRepo.EXPECT().FindByID(gomock.Any(), 10).Return(pending, nil)
				m.consultationRepo.EXPECT().Cancel(gomock.Any(), 10, "Schedule conflict").Return(&domain.Consultation{
					ID: 10, PatientID: 1, DoctorID: 2, Status: domain.CancelledStatus, CancellationReason: "Schedule conflict",
				}, nil)
				m.notifier.EXPECT().Notify(gomock.Any(), gomock.Any(), "Appointment cancelled", gomock.Any(), "appointment_cancelled").Return(nil).Times(2)
			},
			expectedError:  nil,
			expectedReason: "Schedule conflict",
		},
		{
			name:        "Free-text reason replaces Others",
			userID:      2,
			reason:      "Others",
			otherReason: "Patient asked to postpone",
			prepareMock: func() {
				m.consultationRepo.EXPECT().FindByID(gomock.Any(), 10).Return(pending, nil)
				m.consultationRepo.EXPECT().Cancel(gomock.Any(), 10, "Patient asked to postpone").Return(&domain.Consultation{
					ID: 10, PatientID: 1, DoctorID: 2, Status: domain.CancelledStatus, CancellationReason: "Patient asked to postpone",
				}, nil)
				m.notifier.EXPECT().Notify(gomock.Any(), gomock.Any(), "Appointment cancelled", gomock.Any(), "appointment_cancelled").Return(nil).Times(2)
			},
			expectedError:  nil,
			expectedReason: "Patient asked to postpone",
		},
		{
			name:   "Appointment not found",
			userID: 1,
			reason: "Schedule conflict",
			prepareMock: func() {
				m.consultationRepo.EXPECT().FindByID(gomock.Any(), 10).Return(nil, nil)
			},
			expectedError: ErrNotFound,
		},
		{
			name:   "Non-party cannot cancel",
			userID: 3,
			reason: "Schedule conflict",
			prepareMock: func() {
				m.consultationRepo.EXPECT().FindByID(gomock.Any(), 10).Return(pending, nil)
			},
			expectedError: ErrNotFound,
		},
		{
			name:   "Already cancelled",
			userID: 1,
			reason: "Schedule conflict",
			prepareMock: func() {
				m.consultationRepo.EXPECT().FindByID(gomock.Any(), 10).Return(&domain.Consultation{
					ID: 10, PatientID: 1, DoctorID: 2, Status: domain.CancelledStatus,
				}, nil)
			},
			expectedError: ErrInvalidStateTransition,
		},
		{
			name:   "Completed appointment cannot be cancelled",
			userID: 1,
			reason: "Schedule conflict",
			prepareMock: func() {
				m.consultationRepo.EXPECT().FindByID(gomock.Any(), 10).Return(&domain.Consultation{
					ID: 10, PatientID: 1, DoctorID: 2, Status: domain.CompletedStatus,
				}, nil)
			},
			expectedError: ErrInvalidStateTransition,
		},
		{
			name:   "Lost race on conditional cancel",
			userID: 1,
			reason: "Schedule conflict",
			prepareMock: func() {
				m.consultationRepo.EXPECT().FindByID(gomock.Any(), 10).Return(pending, nil)
				m.consultationRepo.EXPECT().Cancel(gomock.Any(), 10, "Schedule conflict").Return(nil, nil)
			},
			expectedError: ErrInvalidStateTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			consultation, err := service.CancelAppointment(context.Background(), 10, tt.userID, tt.reason, tt.otherReason)
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
				assert.Nil(t, consultation)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, consultation)
				assert.Equal(t, domain.CancelledStatus, consultation.Status)
				assert.Equal(t, tt.expectedReason, consultation.CancellationReason)
			}
		})
	}
}

func TestRescheduleAppointment(t *testing.T) {
	service, m := NewMock(t)

	tests := []struct {
		name          string
		date          string
		timeOfDay     string
		prepareMock   func()
		expectedError error
	}{
		{
			name:      "Successful reschedule",
			date:      "2025-02-15",
			timeOfDay: "11:00",
			prepareMock: func() {
				m.consultationRepo.EXPECT().FindByID(gomock.Any(), 10).Return(&domain.Consultation{
					ID: 10, PatientID: 1, DoctorID: 2, Status: domain.ConfirmedStatus,
				}, nil)
				m.consultationRepo.EXPECT().Reschedule(gomock.Any(), 10, gomock.Any(), gomock.Any()).Return(&domain.Consultation{
					ID: 10, PatientID: 1, DoctorID: 2, Status: domain.ConfirmedStatus,
				}, nil)
				m.notifier.EXPECT().Notify(gomock.Any(), gomock.Any(), "Appointment rescheduled", gomock.Any(), "appointment_rescheduled").Return(nil).Times(2)
			},
			expectedError: nil,
		},
		{
			name:          "Malformed time rejected",
			date:          "2025-02-15",
			timeOfDay:     "quarter past",
			prepareMock:   func() {},
			expectedError: ErrInvalidSchedule,
		},
		{
			name:      "Appointment not found",
			date:      "2025-02-15",
			timeOfDay: "11:00",
			prepareMock: func() {
				m.consultationRepo.EXPECT().FindByID(gomock.Any(), 10).Return(nil, nil)
			},
			expectedError: ErrNotFound,
		},
		{
			name:      "Terminal appointment cannot be rescheduled",
			date:      "2025-02-15",
			timeOfDay: "11:00",
			prepareMock: func() {
				m.consultationRepo.EXPECT().FindByID(gomock.Any(), 10).Return(&domain.Consultation{
					ID: 10, PatientID: 1, DoctorID: 2, Status: domain.CancelledStatus,
				}, nil)
				m.consultationRepo.EXPECT().Reschedule(gomock.Any(), 10, gomock.Any(), gomock.Any()).Return(nil, nil)
			},
			expectedError: ErrInvalidStateTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			consultation, err := service.RescheduleAppointment(context.Background(), 10, tt.date, tt.timeOfDay)
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
				assert.Nil(t, consultation)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, consultation)
			}
		})
	}
}

func TestAcceptAppointment(t *testing.T) {
	service, m := NewMock(t)

	pending := &domain.Consultation{
		ID:        10,
		PatientID: 1,
		DoctorID:  2,
		Status:    domain.PendingStatus,
	}

	tests := []struct {
		name          string
		doctorID      int
		prepareMock   func()
		expectedError string
	}{
		{
			name:     "Doctor accepts pending appointment",
			doctorID: 2,
			prepareMock: func() {
				m.consultationRepo.EXPECT().FindByID(gomock.Any(), 10).Return(pending, nil)
				m.calendar.EXPECT().CreateEvent(gomock.Any(), pending).Return(&CalendarEvent{
					EventID:     "evt-1",
					MeetingLink: "https://meet.example/abc",
				}, nil)
				m.consultationRepo.EXPECT().Confirm(gomock.Any(), 10, "evt-1", "https://meet.example/abc").Return(&domain.Consultation{
					ID: 10, PatientID: 1, DoctorID: 2, Status: domain.ConfirmedStatus,
					CalendarEventID: "evt-1", MeetingLink: "https://meet.example/abc",
				}, nil)
				m.notifier.EXPECT().Notify(gomock.Any(), 1, "Appointment confirmed", gomock.Any(), "appointment_confirmed").Return(nil)
			},
			expectedError: "",
		},
		{
			name:     "Appointment not found",
			doctorID: 2,
			prepareMock: func() {
				m.consultationRepo.EXPECT().FindByID(gomock.Any(), 10).Return(nil, nil)
			},
			expectedError: ErrNotFound.Error(),
		},
		{
			name:     "Wrong doctor cannot accept",
			doctorID: 3,
			prepareMock: func() {
				m.consultationRepo.EXPECT().FindByID(gomock.Any(), 10).Return(pending, nil)
			},
			expectedError: ErrUnauthorized.Error(),
		},
		{
			name:     "Already confirmed",
			doctorID: 2,
			prepareMock: func() {
				m.consultationRepo.EXPECT().FindByID(gomock.Any(), 10).Return(&domain.Consultation{
					ID: 10, PatientID: 1, DoctorID: 2, Status: domain.ConfirmedStatus,
				}, nil)
			},
			expectedError: ErrInvalidStateTransition.Error(),
		},
		{
			name:     "Calendar failure leaves appointment pending",
			doctorID: 2,
			prepareMock: func() {
				m.consultationRepo.EXPECT().FindByID(gomock.Any(), 10).Return(pending, nil)
				m.calendar.EXPECT().CreateEvent(gomock.Any(), pending).Return(nil, errors.New("calendar unavailable"))
			},
			expectedError: "can't create calendar event: calendar unavailable",
		},
		{
			name:     "Lost race on conditional confirm",
			doctorID: 2,
			prepareMock: func() {
				m.consultationRepo.EXPECT().FindByID(gomock.Any(), 10).Return(pending, nil)
				m.calendar.EXPECT().CreateEvent(gomock.Any(), pending).Return(&CalendarEvent{EventID: "evt-1"}, nil)
				m.consultationRepo.EXPECT().Confirm(gomock.Any(), 10, "evt-1", "").Return(nil, nil)
			},
			expectedError: ErrInvalidStateTransition.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			consultation, err := service.AcceptAppointment(context.Background(), 10, tt.doctorID)
			if tt.expectedError != "" {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError, err.Error())
				assert.Nil(t, consultation)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, consultation)
				assert.Equal(t, domain.ConfirmedStatus, consultation.Status)
				assert.Equal(t, "evt-1", consultation.CalendarEventID)
			}
		})
	}
}
