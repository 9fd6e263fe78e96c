package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateAvailabilityRequest struct {
	DentistID     uuid.UUID `json:"dentist_id" validate:"required"`
	AvailableDate string    `json:"available_date" validate:"required,date_ymd"`
	StartTime     string    `json:"start_time" validate:"required_unless=IsDayOff true,omitempty,hhmm"`
	EndTime       string    `json:"end_time" validate:"required_unless=IsDayOff true,omitempty,hhmm"`
	IsDayOff      bool      `json:"is_day_off"`
	Note          string    `json:"note" validate:"max=500"`
}

// AvailabilityFilterRequest is bound from query parameters
type AvailabilityFilterRequest struct {
	DentistID string `json:"dentist_id" validate:"omitempty,uuid"`
	StartAt   string `json:"start_at" validate:"omitempty,date_ymd"`
	EndAt     string `json:"end_at" validate:"omitempty,date_ymd"`
}

// Response DTOs

type AvailabilityResponse struct {
	ID            int       `json:"id"`
	DentistID     uuid.UUID `json:"dentist_id"`
	AvailableDate string    `json:"available_date"`
	StartTime     string    `json:"start_time,omitempty"`
	EndTime       string    `json:"end_time,omitempty"`
	IsDayOff      bool      `json:"is_day_off"`
	Note          string    `json:"note,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type AvailabilityListResponse struct {
	Availabilities []AvailabilityResponse `json:"availabilities"`
	Total          int                    `json:"total"`
}
