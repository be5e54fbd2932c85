package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/doclink/doclink/internal/config"
	"github.com/doclink/doclink/internal/domain"
	"github.com/doclink/doclink/internal/service/bookingservice"
	"github.com/doclink/doclink/pkg/clients"
	"go.uber.org/zap"
)

type eventRequest struct {
	ConsultationID int       `json:"consultation_id"`
	DoctorID       int       `json:"doctor_id"`
	PatientID      int       `json:"patient_id"`
	Summary        string    `json:"summary"`
	StartsAt       time.Time `json:"starts_at"`
	EndsAt         time.Time `json:"ends_at"`
}

type eventResponse struct {
	EventID     string `json:"event_id"`
	MeetingLink string `json:"meeting_link"`
}

// Client talks to the external calendar service over HTTP.
type Client struct {
	url    string
	client clients.HTTPClientI
}

func New(cfg *config.Config, client clients.HTTPClientI) *Client {
	return &Client{
		url:    cfg.CalendarAddress,
		client: client,
	}
}

func (c *Client) CreateEvent(ctx context.Context, consultation *domain.Consultation) (*bookingservice.CalendarEvent, error) {
	body, err := json.Marshal(eventRequest{
		ConsultationID: consultation.ID,
		DoctorID:       consultation.DoctorID,
		PatientID:      consultation.PatientID,
		Summary:        fmt.Sprintf("%s consultation #%d", consultation.Type, consultation.ID),
		StartsAt:       consultation.StartsAt,
		EndsAt:         consultation.EndsAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event request: %w", err)
	}

	statusCode, respBody, _, err := c.client.Post(c.url+"/api/events", nil, body)
	if err != nil {
		return nil, fmt.Errorf("calendar request failed: %w", err)
	}
	if statusCode != http.StatusOK && statusCode != http.StatusCreated {
		zap.L().Error("Unexpected status code from calendar", zap.Int("status", statusCode))
		return nil, fmt.Errorf("calendar returned status %d", statusCode)
	}

	var resp eventResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse calendar response: %w", err)
	}
	return &bookingservice.CalendarEvent{
		EventID:     resp.EventID,
		MeetingLink: resp.MeetingLink,
	}, nil
}
