package converter

import (
	"github.com/LeeDev428/smile-republic-dcms-sub000/internal/delivery/dto"
	"github.com/LeeDev428/smile-republic-dcms-sub000/internal/domain/entity"

	"github.com/google/uuid"
)

// DateLayout is the wire format of calendar dates
const DateLayout = "2006-01-02"

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	interval := appointment.Interval()
	response := &dto.AppointmentResponse{
		ID:              appointment.ID,
		BookingCode:     appointment.BookingCode,
		DentistID:       appointment.DentistID,
		PatientID:       appointment.PatientID,
		ServiceID:       appointment.ServiceID,
		Date:            appointment.AppointmentDate.Format(DateLayout),
		StartTime:       interval.Start.String(),
		EndTime:         interval.End().String(),
		DurationMinutes: appointment.DurationMinutes,
		TotalCost:       appointment.TotalCost,
		Status:          string(appointment.Status),
		Notes:           appointment.Notes,
		CancelReason:    appointment.CancelReason,
		CreatedAt:       appointment.CreatedAt,
		UpdatedAt:       appointment.UpdatedAt,
	}

	// Include service name if preloaded
	if appointment.Service.ID != uuid.Nil {
		response.ServiceName = appointment.Service.Name
	}

	return response
}

// AppointmentsToResponses converts a slice of Appointment entities to AppointmentResponse DTOs
func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}
