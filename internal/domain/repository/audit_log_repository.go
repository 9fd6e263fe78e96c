package repository

import (
	"github.com/LeeDev428/smile-republic-dcms-sub000/internal/domain/entity"

	"gorm.io/gorm"
)

type AuditLogRepository interface {
	Create(db *gorm.DB, log *entity.AuditLog) error
	FindByEntity(db *gorm.DB, entityName, entityID string) ([]entity.AuditLog, error)
}
