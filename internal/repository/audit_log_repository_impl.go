package repository

import (
	"github.com/LeeDev428/smile-republic-dcms-sub000/internal/domain/entity"
	domainRepo "github.com/LeeDev428/smile-republic-dcms-sub000/internal/domain/repository"

	"gorm.io/gorm"
)

type auditLogRepository struct{}

func NewAuditLogRepository() domainRepo.AuditLogRepository {
	return &auditLogRepository{}
}

func (r *auditLogRepository) Create(db *gorm.DB, log *entity.AuditLog) error {
	return db.Omit("User").Create(log).Error
}

// FindByEntity returns the trail of one record, oldest first
func (r *auditLogRepository) FindByEntity(db *gorm.DB, entityName, entityID string) ([]entity.AuditLog, error) {
	var logs []entity.AuditLog
	err := db.
		Where("metadata->>'entity' = ? AND metadata->>'entity_id' = ?", entityName, entityID).
		Order("created_at ASC").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
