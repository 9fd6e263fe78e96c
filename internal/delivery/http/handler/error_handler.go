package handler

import (
	"errors"
	"net/http"

	"github.com/LeeDev428/smile-republic-dcms-sub000/internal/usecase"
	"github.com/LeeDev428/smile-republic-dcms-sub000/pkg/response"
)

// writeError maps usecase errors onto HTTP responses. Unknown errors become
// a 500 with fallback as the message.
func writeError(w http.ResponseWriter, err error, fallback string) {
	if ve, ok := usecase.IsValidationError(err); ok {
		response.ValidationError(w, ve.Fields)
		return
	}

	switch {
	case errors.Is(err, usecase.ErrSlotConflict):
		response.Conflict(w, "The requested time overlaps an existing appointment")
	case errors.Is(err, usecase.ErrAvailabilityExists):
		response.Conflict(w, "Availability already set for this dentist and date")
	case errors.Is(err, usecase.ErrAppointmentNotActive):
		response.Conflict(w, "Appointment is already cancelled or closed")
	case errors.Is(err, usecase.ErrInvalidStatusTransition):
		response.Conflict(w, "Invalid appointment status transition")
	case errors.Is(err, usecase.ErrAppointmentNotFound):
		response.NotFound(w, "Appointment not found")
	case errors.Is(err, usecase.ErrDentistNotFound):
		response.NotFound(w, "Dentist not found")
	case errors.Is(err, usecase.ErrAvailabilityNotFound):
		response.NotFound(w, "Availability not found")
	default:
		response.InternalServerError(w, fallback)
	}
}
