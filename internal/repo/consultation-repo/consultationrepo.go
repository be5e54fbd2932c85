package consultationrepo

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/doclink/doclink/internal/domain"
	"github.com/doclink/doclink/internal/pg"
	"go.uber.org/zap"
)

const consultationColumns = `id, patient_id, doctor_id, type, status, symptoms, starts_at, ends_at,
		cancellation_reason, cancelled_at, calendar_event_id, meeting_link, created_at`

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

func scanConsultation(row pgx.Row) (*domain.Consultation, error) {
	var c domain.Consultation
	err := row.Scan(
		&c.ID, &c.PatientID, &c.DoctorID, &c.Type, &c.Status, &c.Symptoms, &c.StartsAt, &c.EndsAt,
		&c.CancellationReason, &c.CancelledAt, &c.CalendarEventID, &c.MeetingLink, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repository) Create(ctx context.Context, c *domain.Consultation) (*domain.Consultation, error) {
	query := `
		INSERT INTO consultations (patient_id, doctor_id, type, status, symptoms, starts_at, ends_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	err := r.txManager.Begin(ctx, func(ctx context.Context) error {
		row := r.db.QueryRow(ctx, query, c.PatientID, c.DoctorID, c.Type, c.Status, c.Symptoms, c.StartsAt, c.EndsAt)
		if err := row.Scan(&c.ID, &c.CreatedAt); err != nil {
			zap.L().Error("can't save consultation", zap.Error(err))
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *Repository) FindByID(ctx context.Context, id int) (*domain.Consultation, error) {
	query := `
        SELECT ` + consultationColumns + `
        FROM consultations
        WHERE id = $1
    `
	c, err := scanConsultation(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("can't find consultation", zap.Error(err))
		return nil, err
	}
	return c, nil
}

// Cancel transitions a consultation to cancelled only if it is still pending
// or confirmed, recording the reason and clearing calendar references. A nil
// result with nil error means the row was not in a cancellable state.
func (r *Repository) Cancel(ctx context.Context, id int, reason string) (*domain.Consultation, error) {
	query := `
		UPDATE consultations
		SET status = 'cancelled', cancellation_reason = $1, cancelled_at = $2,
		    calendar_event_id = '', meeting_link = ''
		WHERE id = $3 AND status IN ('pending', 'confirmed')
		RETURNING ` + consultationColumns + `
	`
	var cancelled *domain.Consultation
	err := r.txManager.Begin(ctx, func(ctx context.Context) error {
		c, err := scanConsultation(r.db.QueryRow(ctx, query, reason, time.Now(), id))
		if err != nil {
			if err == pgx.ErrNoRows {
				return nil
			}
			zap.L().Error("can't cancel consultation", zap.Error(err))
			return err
		}
		cancelled = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}

// Confirm transitions a pending consultation to confirmed and stores the
// calendar event reference. A nil result with nil error means the row was
// not pending anymore.
func (r *Repository) Confirm(ctx context.Context, id int, calendarEventID, meetingLink string) (*domain.Consultation, error) {
	query := `
		UPDATE consultations
		SET status = 'confirmed', calendar_event_id = $1, meeting_link = $2
		WHERE id = $3 AND status = 'pending'
		RETURNING ` + consultationColumns + `
	`
	var confirmed *domain.Consultation
	err := r.txManager.Begin(ctx, func(ctx context.Context) error {
		c, err := scanConsultation(r.db.QueryRow(ctx, query, calendarEventID, meetingLink, id))
		if err != nil {
			if err == pgx.ErrNoRows {
				return nil
			}
			zap.L().Error("can't confirm consultation", zap.Error(err))
			return err
		}
		confirmed = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return confirmed, nil
}

// Reschedule moves a not-yet-terminal consultation to a new window and marks
// it confirmed. A nil result with nil error means the row was terminal.
func (r *Repository) Reschedule(ctx context.Context, id int, startsAt, endsAt time.Time) (*domain.Consultation, error) {
	query := `
		UPDATE consultations
		SET status = 'confirmed', starts_at = $1, ends_at = $2
		WHERE id = $3 AND status IN ('pending', 'confirmed')
		RETURNING ` + consultationColumns + `
	`
	var rescheduled *domain.Consultation
	err := r.txManager.Begin(ctx, func(ctx context.Context) error {
		c, err := scanConsultation(r.db.QueryRow(ctx, query, startsAt, endsAt, id))
		if err != nil {
			if err == pgx.ErrNoRows {
				return nil
			}
			zap.L().Error("can't reschedule consultation", zap.Error(err))
			return err
		}
		rescheduled = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rescheduled, nil
}
