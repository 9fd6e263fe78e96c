package dto

import "github.com/google/uuid"

// Request DTOs

// SlotQueryRequest is bound from the preview query string. Exactly one of
// DurationMinutes or ServiceID is expected.
type SlotQueryRequest struct {
	DentistID       string `json:"dentist_id" validate:"required,uuid"`
	Date            string `json:"date" validate:"required,date_ymd"`
	DurationMinutes int    `json:"duration" validate:"required_without=ServiceID,omitempty,min=1,max=1440"`
	ServiceID       string `json:"service_id" validate:"required_without=DurationMinutes,omitempty,uuid"`
}

// Response DTOs

type SlotListResponse struct {
	DentistID       uuid.UUID `json:"dentist_id"`
	Date            string    `json:"date"`
	DurationMinutes int       `json:"duration_minutes"`
	WindowStart     string    `json:"window_start"`
	WindowEnd       string    `json:"window_end"`
	Slots           []string  `json:"slots"`
	Total           int       `json:"total"`
}
