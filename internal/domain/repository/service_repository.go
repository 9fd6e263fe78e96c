package repository

import (
	"github.com/LeeDev428/smile-republic-dcms-sub000/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ServiceRepository interface {
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Service, error)
}
