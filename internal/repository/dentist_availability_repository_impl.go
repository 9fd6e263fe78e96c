package repository

import (
	"errors"
	"time"

	"github.com/LeeDev428/smile-republic-dcms-sub000/internal/domain/entity"
	domainRepo "github.com/LeeDev428/smile-republic-dcms-sub000/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type dentistAvailabilityRepository struct{}

func NewDentistAvailabilityRepository() domainRepo.DentistAvailabilityRepository {
	return &dentistAvailabilityRepository{}
}

func (r *dentistAvailabilityRepository) Create(db *gorm.DB, availability *entity.DentistAvailability) error {
	return db.Omit("Dentist").Create(availability).Error
}

func (r *dentistAvailabilityRepository) FindByID(db *gorm.DB, id int) (*entity.DentistAvailability, error) {
	var availability entity.DentistAvailability
	err := db.Preload("Dentist.User").Where("id = ?", id).First(&availability).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &availability, nil
}

func (r *dentistAvailabilityRepository) FindByDentistAndDate(db *gorm.DB, dentistID uuid.UUID, date time.Time) (*entity.DentistAvailability, error) {
	var availability entity.DentistAvailability
	err := db.Where("dentist_id = ? AND available_date = ?", dentistID, date.Format(dateLayout)).First(&availability).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &availability, nil
}

// FindAll supports optional filters: dentist and date range.
func (r *dentistAvailabilityRepository) FindAll(db *gorm.DB, filter *entity.AvailabilityFilter) ([]entity.DentistAvailability, error) {
	var availabilities []entity.DentistAvailability
	query := db.Model(&entity.DentistAvailability{})

	if filter != nil {
		if filter.DentistID != uuid.Nil {
			query = query.Where("dentist_id = ?", filter.DentistID)
		}
		if filter.StartAt != "" {
			query = query.Where("available_date >= ?", filter.StartAt)
		}
		if filter.EndAt != "" {
			query = query.Where("available_date <= ?", filter.EndAt)
		}
	}

	err := query.Order("available_date ASC, start_time ASC").Find(&availabilities).Error
	if err != nil {
		return nil, err
	}
	return availabilities, nil
}

func (r *dentistAvailabilityRepository) Delete(db *gorm.DB, id int) (int64, error) {
	affected := db.Where("id = ?", id).Delete(&entity.DentistAvailability{})
	return affected.RowsAffected, affected.Error
}
