package repository

import (
	"time"

	"github.com/LeeDev428/smile-republic-dcms-sub000/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DentistAvailabilityRepository interface {
	Create(db *gorm.DB, availability *entity.DentistAvailability) error
	FindByID(db *gorm.DB, id int) (*entity.DentistAvailability, error)
	FindByDentistAndDate(db *gorm.DB, dentistID uuid.UUID, date time.Time) (*entity.DentistAvailability, error)
	FindAll(db *gorm.DB, filter *entity.AvailabilityFilter) ([]entity.DentistAvailability, error)
	Delete(db *gorm.DB, id int) (int64, error)
}
