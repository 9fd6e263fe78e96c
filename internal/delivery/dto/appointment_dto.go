package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type SubmitBookingRequest struct {
	DentistID string `json:"dentist_id" validate:"required,uuid"`
	PatientID string `json:"patient_id" validate:"required,uuid"`
	ServiceID string `json:"service_id" validate:"required,uuid"`
	Date      string `json:"date" validate:"required,date_ymd"`
	StartTime string `json:"start_time" validate:"required,hhmm"`
	Notes     string `json:"notes" validate:"max=1000"`

	// Taken from the Idempotency-Key header
	IdempotencyKey string `json:"-" validate:"max=200"`
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

type UpdateAppointmentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=confirmed completed no_show"`
}

// Response DTOs

type AppointmentResponse struct {
	ID              uuid.UUID       `json:"id"`
	BookingCode     string          `json:"booking_code"`
	DentistID       uuid.UUID       `json:"dentist_id"`
	PatientID       uuid.UUID       `json:"patient_id"`
	ServiceID       uuid.UUID       `json:"service_id"`
	ServiceName     string          `json:"service_name,omitempty"`
	Date            string          `json:"date"`
	StartTime       string          `json:"start_time"`
	EndTime         string          `json:"end_time"`
	DurationMinutes int             `json:"duration_minutes"`
	TotalCost       decimal.Decimal `json:"total_cost"`
	Status          string          `json:"status"`
	Notes           string          `json:"notes,omitempty"`
	CancelReason    string          `json:"cancel_reason,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

type AuditEntryResponse struct {
	ID        int64                  `json:"id"`
	UserID    *uuid.UUID             `json:"user_id,omitempty"`
	Action    string                 `json:"action"`
	Metadata  map[string]interface{} `json:"metadata"`
	CreatedAt time.Time              `json:"created_at"`
}
