package converter

import (
	"github.com/LeeDev428/smile-republic-dcms-sub000/internal/delivery/dto"
	"github.com/LeeDev428/smile-republic-dcms-sub000/internal/domain/entity"
)

func AuditLogsToResponses(logs []entity.AuditLog) []dto.AuditEntryResponse {
	responses := make([]dto.AuditEntryResponse, len(logs))
	for i, l := range logs {
		responses[i] = dto.AuditEntryResponse{
			ID:        l.ID,
			UserID:    l.UserID,
			Action:    l.Action,
			Metadata:  map[string]interface{}(l.Metadata),
			CreatedAt: l.CreatedAt,
		}
	}
	return responses
}
