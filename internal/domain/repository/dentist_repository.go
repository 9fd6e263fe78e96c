package repository

import (
	"github.com/LeeDev428/smile-republic-dcms-sub000/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DentistRepository interface {
	FindActiveByUserID(db *gorm.DB, userID uuid.UUID) (*entity.DentistProfile, error)
}
