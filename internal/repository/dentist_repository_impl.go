package repository

import (
	"errors"

	"github.com/LeeDev428/smile-republic-dcms-sub000/internal/domain/entity"
	domainRepo "github.com/LeeDev428/smile-republic-dcms-sub000/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type dentistRepository struct{}

func NewDentistRepository() domainRepo.DentistRepository {
	return &dentistRepository{}
}

// FindActiveByUserID returns the dentist only when the backing user account is active
func (r *dentistRepository) FindActiveByUserID(db *gorm.DB, userID uuid.UUID) (*entity.DentistProfile, error) {
	var profile entity.DentistProfile
	err := db.
		Joins("JOIN users ON users.id = dentist_profiles.user_id").
		Where("dentist_profiles.user_id = ? AND users.is_active = ?", userID, true).
		Preload("User").
		First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}
