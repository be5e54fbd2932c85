package domain

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	PatientRole UserRole = "patient"
	DoctorRole  UserRole = "doctor"
)

type User struct {
	ID           int        `db:"id"`
	Login        string     `db:"login"`
	PasswordHash string     `db:"password_hash"`
	Role         UserRole   `db:"role"`
	CreatedAt    time.Time  `db:"created_at"`
	DeletedAt    *time.Time `db:"deleted_at"`
}

// Wallet balance is stored in minor currency units. All mutations go through
// the wallet repository; the non-negative invariant is enforced there by a
// conditional update.
type Wallet struct {
	ID        int       `db:"id"`
	UserID    int       `db:"user_id"`
	Balance   int64     `db:"balance"`
	CreatedAt time.Time `db:"created_at"`
}

type TransactionKind string

const (
	TopUpKind              TransactionKind = "TOPUP"
	ConsultationChargeKind TransactionKind = "CONSULTATION_CHARGE"
	WithdrawalKind         TransactionKind = "WITHDRAWAL"
	RefundKind             TransactionKind = "REFUND"
)

// Transaction is an append-only ledger entry. Amount is signed: positive for
// credits, negative for debits.
type Transaction struct {
	ID          uuid.UUID       `db:"id"`
	WalletID    int             `db:"wallet_id"`
	Amount      int64           `db:"amount"`
	Kind        TransactionKind `db:"kind"`
	Description string          `db:"description"`
	PromoCode   string          `db:"promo_code"`
	CreatedAt   time.Time       `db:"created_at"`
}

type ConsultationType string

const (
	MessagingConsultation ConsultationType = "messaging"
	AudioConsultation     ConsultationType = "audio"
	VideoConsultation     ConsultationType = "video"
	InPersonConsultation  ConsultationType = "in_person"
	HomeVisitConsultation ConsultationType = "home_visit"
)

type ConsultationStatus string

const (
	PendingStatus   ConsultationStatus = "pending"
	ConfirmedStatus ConsultationStatus = "confirmed"
	CancelledStatus ConsultationStatus = "cancelled"
	CompletedStatus ConsultationStatus = "completed"
)

type Consultation struct {
	ID                 int                `db:"id"`
	PatientID          int                `db:"patient_id"`
	DoctorID           int                `db:"doctor_id"`
	Type               ConsultationType   `db:"type"`
	Status             ConsultationStatus `db:"status"`
	Symptoms           string             `db:"symptoms"`
	StartsAt           time.Time          `db:"starts_at"`
	EndsAt             time.Time          `db:"ends_at"`
	CancellationReason string             `db:"cancellation_reason"`
	CancelledAt        *time.Time         `db:"cancelled_at"`
	CalendarEventID    string             `db:"calendar_event_id"`
	MeetingLink        string             `db:"meeting_link"`
	CreatedAt          time.Time          `db:"created_at"`
}

type NotificationStatus string

const (
	PendingNotification NotificationStatus = "PENDING"
	SentNotification    NotificationStatus = "SENT"
	FailedNotification  NotificationStatus = "FAILED"
)

type Notification struct {
	ID          uuid.UUID          `db:"id"`
	RecipientID int                `db:"recipient_id"`
	Title       string             `db:"title"`
	Message     string             `db:"message"`
	Type        string             `db:"type"`
	Status      NotificationStatus `db:"status"`
	CreatedAt   time.Time          `db:"created_at"`
}
