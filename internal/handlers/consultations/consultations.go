package consultations

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/doclink/doclink/internal/domain"
	"github.com/doclink/doclink/internal/dto"
	bookingservice "github.com/doclink/doclink/internal/service/bookingservice"
	walletservice "github.com/doclink/doclink/internal/service/walletservice"
	"github.com/doclink/doclink/pkg/auth"
	"github.com/doclink/doclink/pkg/utils"
)

type Service interface {
	CreateSession(ctx context.Context, userID, doctorID int, consultationType domain.ConsultationType, symptoms string) (*domain.Consultation, error)
	BookConsultation(ctx context.Context, doctorID, patientID int, date, timeOfDay string) (*domain.Consultation, error)
	CancelAppointment(ctx context.Context, appointmentID, requestingUserID int, reason, otherReason string) (*domain.Consultation, error)
	RescheduleAppointment(ctx context.Context, appointmentID int, date, timeOfDay string) (*domain.Consultation, error)
	AcceptAppointment(ctx context.Context, appointmentID, doctorID int) (*domain.Consultation, error)
}

type ConsultationHandler struct {
	bookingService Service
}

func New(bookingService Service) *ConsultationHandler {
	return &ConsultationHandler{
		bookingService: bookingService,
	}
}

func consultationDTO(c *domain.Consultation) dto.ConsultationResponseDTO {
	return dto.ConsultationResponseDTO{
		ID:                 c.ID,
		PatientID:          c.PatientID,
		DoctorID:           c.DoctorID,
		Type:               string(c.Type),
		Status:             string(c.Status),
		StartsAt:           c.StartsAt,
		EndsAt:             c.EndsAt,
		CancellationReason: c.CancellationReason,
		CancelledAt:        c.CancelledAt,
		MeetingLink:        c.MeetingLink,
	}
}

// CreateSession godoc
//
//	@Summary		Start an instant consultation
//	@Description	Create a consultation session and charge the wallet for it in one transaction.
//	@Tags			Consultations
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.CreateSessionRequestDTO	true	"Session request payload"
//	@Success		200		{object}	dto.ConsultationResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		402		{object}	utils.Response	"Insufficient funds"
//	@Failure		404		{object}	utils.Response	"Doctor or wallet not found"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/consultations [post]
func (h *ConsultationHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	var req dto.CreateSessionRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	consultation, err := h.bookingService.CreateSession(r.Context(), userID, req.DoctorID, domain.ConsultationType(req.Type), req.Symptoms)
	if err != nil {
		h.respondBookingError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, consultationDTO(consultation))
}

// Book godoc
//
//	@Summary		Book an appointment
//	@Description	Book a one-hour appointment with a doctor. The appointment stays pending until the doctor accepts it.
//	@Tags			Consultations
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.BookConsultationRequestDTO	true	"Booking request payload"
//	@Success		200		{object}	dto.ConsultationResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body or schedule"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		404		{object}	utils.Response	"Doctor or patient not found"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/appointments [post]
func (h *ConsultationHandler) Book(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	var req dto.BookConsultationRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	consultation, err := h.bookingService.BookConsultation(r.Context(), req.DoctorID, userID, req.Date, req.Time)
	if err != nil {
		h.respondBookingError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, consultationDTO(consultation))
}

// Cancel godoc
//
//	@Summary		Cancel an appointment
//	@Description	Cancel an appointment as one of its parties, recording the cancellation reason.
//	@Tags			Consultations
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int								true	"Appointment ID"
//	@Param			request	body		dto.CancelAppointmentRequestDTO	true	"Cancellation payload"
//	@Success		200		{object}	dto.ConsultationResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		404		{object}	utils.Response	"Appointment not found"
//	@Failure		409		{object}	utils.Response	"Appointment already terminal"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/appointments/{id}/cancel [post]
func (h *ConsultationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	appointmentID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid appointment id")
		return
	}

	var req dto.CancelAppointmentRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	consultation, err := h.bookingService.CancelAppointment(r.Context(), appointmentID, userID, req.Reason, req.OtherReason)
	if err != nil {
		h.respondBookingError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, consultationDTO(consultation))
}

// Reschedule godoc
//
//	@Summary		Reschedule an appointment
//	@Description	Move an appointment to a new one-hour window and confirm it.
//	@Tags			Consultations
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int									true	"Appointment ID"
//	@Param			request	body		dto.RescheduleAppointmentRequestDTO	true	"Reschedule payload"
//	@Success		200		{object}	dto.ConsultationResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body or schedule"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		404		{object}	utils.Response	"Appointment not found"
//	@Failure		409		{object}	utils.Response	"Appointment already terminal"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/appointments/{id}/reschedule [post]
func (h *ConsultationHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid appointment id")
		return
	}

	var req dto.RescheduleAppointmentRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	consultation, err := h.bookingService.RescheduleAppointment(r.Context(), appointmentID, req.Date, req.Time)
	if err != nil {
		h.respondBookingError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, consultationDTO(consultation))
}

// Accept godoc
//
//	@Summary		Accept a pending appointment
//	@Description	Confirm a pending appointment as its doctor and create the external calendar event.
//	@Tags			Consultations
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		int	true	"Appointment ID"
//	@Success		200	{object}	dto.ConsultationResponseDTO
//	@Failure		400	{object}	utils.Response	"Invalid appointment id"
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		403	{object}	utils.Response	"Not the appointment's doctor"
//	@Failure		404	{object}	utils.Response	"Appointment not found"
//	@Failure		409	{object}	utils.Response	"Appointment not pending"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/appointments/{id}/accept [post]
func (h *ConsultationHandler) Accept(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	appointmentID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid appointment id")
		return
	}

	consultation, err := h.bookingService.AcceptAppointment(r.Context(), appointmentID, userID)
	if err != nil {
		h.respondBookingError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, consultationDTO(consultation))
}

func (h *ConsultationHandler) respondBookingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, bookingservice.ErrInvalidSchedule):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, bookingservice.ErrNotFound):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, bookingservice.ErrUnauthorized):
		utils.RespondWithError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, bookingservice.ErrInvalidStateTransition):
		utils.RespondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, walletservice.ErrInsufficientFunds):
		utils.RespondWithError(w, http.StatusPaymentRequired, err.Error())
	case errors.Is(err, walletservice.ErrWalletNotFound):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
