package dto

import "time"

type CreateSessionRequestDTO struct {
	DoctorID int    `json:"doctor_id" example:"2"`
	Type     string `json:"type" example:"messaging"`
	Symptoms string `json:"symptoms,omitempty" example:"persistent headache"`
}

type BookConsultationRequestDTO struct {
	DoctorID int    `json:"doctor_id" example:"2"`
	Date     string `json:"date" example:"2025-02-14"`
	Time     string `json:"time" example:"10:30"`
}

type CancelAppointmentRequestDTO struct {
	Reason      string `json:"reason" example:"Schedule conflict"`
	OtherReason string `json:"other_reason,omitempty"`
}

type RescheduleAppointmentRequestDTO struct {
	Date string `json:"date" example:"2025-02-15"`
	Time string `json:"time" example:"11:00"`
}

type ConsultationResponseDTO struct {
	ID                 int        `json:"id" example:"10"`
	PatientID          int        `json:"patient_id" example:"1"`
	DoctorID           int        `json:"doctor_id" example:"2"`
	Type               string     `json:"type" example:"messaging"`
	Status             string     `json:"status" example:"confirmed"`
	StartsAt           time.Time  `json:"starts_at"`
	EndsAt             time.Time  `json:"ends_at"`
	CancellationReason string     `json:"cancellation_reason,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	MeetingLink        string     `json:"meeting_link,omitempty"`
}
