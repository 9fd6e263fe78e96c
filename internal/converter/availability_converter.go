package converter

import (
	"github.com/LeeDev428/smile-republic-dcms-sub000/internal/delivery/dto"
	"github.com/LeeDev428/smile-republic-dcms-sub000/internal/domain/entity"
)

// AvailabilityToResponse converts a DentistAvailability entity to AvailabilityResponse DTO
func AvailabilityToResponse(availability *entity.DentistAvailability) *dto.AvailabilityResponse {
	if availability == nil {
		return nil
	}

	return &dto.AvailabilityResponse{
		ID:            availability.ID,
		DentistID:     availability.DentistID,
		AvailableDate: availability.AvailableDate.Format(DateLayout),
		StartTime:     availability.StartTime,
		EndTime:       availability.EndTime,
		IsDayOff:      availability.IsDayOff,
		Note:          availability.Note,
		CreatedAt:     availability.CreatedAt,
		UpdatedAt:     availability.UpdatedAt,
	}
}

func AvailabilitiesToResponses(availabilities []entity.DentistAvailability) []dto.AvailabilityResponse {
	responses := make([]dto.AvailabilityResponse, len(availabilities))
	for i := range availabilities {
		responses[i] = *AvailabilityToResponse(&availabilities[i])
	}
	return responses
}
